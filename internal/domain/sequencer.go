package domain

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// SequenceOptions tunes how raw questions become a playable sequence.
type SequenceOptions struct {
	// IncludeFillers deals placeholder questions instead of dropping them.
	IncludeFillers bool
	// Limit truncates the sequence when positive.
	Limit int
}

// Sequenced is the outcome of sequencing a raw question list.
type Sequenced struct {
	Questions []Question
	// Unresolved lists questions that were excluded, each wrapping
	// ErrUnresolvedAnswer or ErrTooFewOptions.
	Unresolved []error
}

// Sequence normalizes raw questions into the ordered list a session deals.
// Questions whose correct option cannot be located are reported, never
// defaulted.
func Sequence(raw []RawQuestion, opts SequenceOptions) (Sequenced, error) {
	folder := newTextFolder()
	out := Sequenced{Questions: make([]Question, 0, len(raw))}

	for i, rq := range raw {
		if rq.Filler && !opts.IncludeFillers {
			continue
		}
		q, err := normalizeQuestion(folder, rq)
		if err != nil {
			id := rq.ID
			if id == "" {
				id = fmt.Sprintf("#%d", i)
			}
			out.Unresolved = append(out.Unresolved, fmt.Errorf("question %s: %w", id, err))
			continue
		}
		out.Questions = append(out.Questions, q)
		if opts.Limit > 0 && len(out.Questions) == opts.Limit {
			break
		}
	}

	if len(out.Questions) == 0 {
		return out, ErrNoPlayableQuestions
	}
	assignRounds(out.Questions)
	return out, nil
}

func normalizeQuestion(folder *textFolder, rq RawQuestion) (Question, error) {
	text := strings.TrimSpace(rq.Text)
	if text == "" {
		text = strings.TrimSpace(rq.Question)
	}

	options := make([]string, 0, len(rq.Options))
	seen := make(map[string]int, len(rq.Options))
	for _, opt := range rq.Options {
		opt = strings.TrimSpace(opt)
		if opt == "" {
			continue
		}
		key := folder.fold(opt)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = len(options)
		options = append(options, opt)
	}
	if len(options) < 2 {
		return Question{}, ErrTooFewOptions
	}

	correctText := strings.TrimSpace(rq.CorrectAnswer)
	if rq.CorrectIndex != nil && *rq.CorrectIndex >= 0 && *rq.CorrectIndex < len(rq.Options) {
		correctText = strings.TrimSpace(rq.Options[*rq.CorrectIndex])
	}
	idx, ok := seen[folder.fold(correctText)]
	if correctText == "" || !ok {
		return Question{}, ErrUnresolvedAnswer
	}

	return Question{
		ID:            rq.ID,
		Text:          text,
		CorrectAnswer: options[idx],
		Options:       options,
		CorrectIndex:  idx,
		Category:      strings.TrimSpace(rq.Category),
		Difficulty:    strings.ToLower(strings.TrimSpace(rq.Difficulty)),
	}, nil
}

// assignRounds numbers rounds from 1, starting a new round on each difficulty change.
func assignRounds(questions []Question) {
	round := 0
	prev := ""
	for i := range questions {
		if i == 0 || questions[i].Difficulty != prev {
			round++
			prev = questions[i].Difficulty
		}
		questions[i].Round = round
	}
}

type textFolder struct {
	caser cases.Caser
}

func newTextFolder() *textFolder {
	return &textFolder{caser: cases.Fold()}
}

func (f *textFolder) fold(s string) string {
	s = norm.NFKC.String(s)
	return strings.Join(strings.Fields(f.caser.String(s)), " ")
}
