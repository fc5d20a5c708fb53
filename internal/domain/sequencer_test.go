package domain

import (
	"errors"
	"testing"
)

func TestSequenceDerivesCorrectIndexFromText(t *testing.T) {
	seq, err := Sequence([]RawQuestion{{
		ID:            "q1",
		Question:      "Capital of France?",
		CorrectAnswer: "  paris ",
		Options:       []string{"London", "Paris", "PARIS", "", "Rome"},
		Difficulty:    "Easy",
	}}, SequenceOptions{})
	if err != nil {
		t.Fatalf("sequence: %v", err)
	}
	q := seq.Questions[0]
	if q.Text != "Capital of France?" {
		t.Fatalf("expected legacy question text to be used, got %q", q.Text)
	}
	if len(q.Options) != 3 {
		t.Fatalf("expected deduplicated options, got %v", q.Options)
	}
	if q.CorrectIndex != 1 || q.CorrectAnswer != "Paris" {
		t.Fatalf("expected Paris at index 1, got %d %q", q.CorrectIndex, q.CorrectAnswer)
	}
	if q.Difficulty != "easy" || q.Round != 1 {
		t.Fatalf("unexpected difficulty/round %q/%d", q.Difficulty, q.Round)
	}
}

func TestSequenceHonorsExplicitIndexAcrossDuplicates(t *testing.T) {
	idx := 3
	seq, err := Sequence([]RawQuestion{{
		ID:           "q1",
		Text:         "Pick",
		Options:      []string{"a", "A", "b", "c"},
		CorrectIndex: &idx,
	}}, SequenceOptions{})
	if err != nil {
		t.Fatalf("sequence: %v", err)
	}
	if got := seq.Questions[0]; got.CorrectIndex != 2 || got.CorrectAnswer != "c" {
		t.Fatalf("expected c at index 2 after dedupe, got %+v", got)
	}
}

func TestSequenceFlagsUnresolvedQuestions(t *testing.T) {
	seq, err := Sequence([]RawQuestion{
		{ID: "bad", Text: "?", CorrectAnswer: "missing", Options: []string{"x", "y"}},
		{ID: "thin", Text: "?", CorrectAnswer: "x", Options: []string{"x", "X"}},
		{ID: "ok", Text: "?", CorrectAnswer: "y", Options: []string{"x", "y"}},
	}, SequenceOptions{})
	if err != nil {
		t.Fatalf("sequence: %v", err)
	}
	if len(seq.Questions) != 1 || seq.Questions[0].ID != "ok" {
		t.Fatalf("expected only the resolvable question, got %+v", seq.Questions)
	}
	if len(seq.Unresolved) != 2 {
		t.Fatalf("expected 2 unresolved, got %v", seq.Unresolved)
	}
	if !errors.Is(seq.Unresolved[0], ErrUnresolvedAnswer) || !errors.Is(seq.Unresolved[1], ErrTooFewOptions) {
		t.Fatalf("unexpected unresolved errors: %v", seq.Unresolved)
	}
}

func TestSequenceDropsFillersAndAssignsRounds(t *testing.T) {
	raw := []RawQuestion{
		{ID: "q1", Text: "1", CorrectAnswer: "a", Options: []string{"a", "b"}, Difficulty: "easy"},
		{ID: "filler", Text: "f", CorrectAnswer: "a", Options: []string{"a", "b"}, Filler: true},
		{ID: "q2", Text: "2", CorrectAnswer: "a", Options: []string{"a", "b"}, Difficulty: "easy"},
		{ID: "q3", Text: "3", CorrectAnswer: "a", Options: []string{"a", "b"}, Difficulty: "hard"},
	}
	seq, err := Sequence(raw, SequenceOptions{})
	if err != nil {
		t.Fatalf("sequence: %v", err)
	}
	if len(seq.Questions) != 3 {
		t.Fatalf("expected filler dropped, got %d questions", len(seq.Questions))
	}
	rounds := []int{seq.Questions[0].Round, seq.Questions[1].Round, seq.Questions[2].Round}
	if rounds[0] != 1 || rounds[1] != 1 || rounds[2] != 2 {
		t.Fatalf("unexpected rounds %v", rounds)
	}

	withFillers, err := Sequence(raw, SequenceOptions{IncludeFillers: true, Limit: 2})
	if err != nil {
		t.Fatalf("sequence: %v", err)
	}
	if len(withFillers.Questions) != 2 || withFillers.Questions[1].ID != "filler" {
		t.Fatalf("expected filler dealt when enabled, got %+v", withFillers.Questions)
	}
}

func TestSequenceNothingPlayable(t *testing.T) {
	_, err := Sequence([]RawQuestion{{ID: "q", Text: "?", Options: []string{"a", "b"}}}, SequenceOptions{})
	if !errors.Is(err, ErrNoPlayableQuestions) {
		t.Fatalf("expected ErrNoPlayableQuestions, got %v", err)
	}
}
