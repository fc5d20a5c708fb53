package app

import (
	"time"

	"live-trivia-service/internal/domain"
)

// Ledger is the working data of the active question: what each player chose
// and whose answer is locked. A new Ledger replaces the old one at
// every question transition.
type Ledger struct {
	question  domain.Question
	index     int
	startedAt time.Time

	answers map[string]domain.Answer
	// locked doubles as the answered set: the only interaction a player has
	// with a question is submitting, and a submission locks immediately.
	locked map[string]struct{}

	// fadeOrder is the order wrong options are suppressed in.
	fadeOrder []int
}

func newLedger(question domain.Question, index int, startedAt time.Time, fadeOrder []int) *Ledger {
	return &Ledger{
		question:  question,
		index:     index,
		startedAt: startedAt,
		answers:   make(map[string]domain.Answer),
		locked:    make(map[string]struct{}),
		fadeOrder: fadeOrder,
	}
}

// Submit locks in playerID's answer. The caller guarantees playerID is on the roster.
func (l *Ledger) Submit(playerID string, optionIndex int, now time.Time) (domain.Answer, error) {
	if _, ok := l.locked[playerID]; ok {
		return domain.Answer{}, domain.ErrAlreadyLocked
	}
	if optionIndex < 0 || optionIndex >= len(l.question.Options) {
		return domain.Answer{}, domain.ErrOptionNotFound
	}
	rt := now.Sub(l.startedAt)
	if rt < 0 {
		rt = 0
	}
	answer := domain.Answer{OptionIndex: optionIndex, ResponseTime: rt, SubmittedAt: now}
	l.answers[playerID] = answer
	l.locked[playerID] = struct{}{}
	return answer, nil
}

// Answer returns the locked answer of playerID, if any.
func (l *Ledger) Answer(playerID string) (domain.Answer, bool) {
	a, ok := l.answers[playerID]
	return a, ok
}

// LockedCount is the number of locked answers.
func (l *Ledger) LockedCount() int {
	return len(l.locked)
}

// AllLocked reports whether every member of a roster of the given size is locked.
func (l *Ledger) AllLocked(rosterSize int) bool {
	return rosterSize > 0 && len(l.locked) >= rosterSize
}

// AnswerCounts tallies locked answers per option.
func (l *Ledger) AnswerCounts() []int {
	counts := make([]int, len(l.question.Options))
	for _, a := range l.answers {
		counts[a.OptionIndex]++
	}
	return counts
}

// Faded returns the wrong option indices suppressed up to the given stage.
func (l *Ledger) Faded(stage int) []int {
	if stage > len(l.fadeOrder) {
		stage = len(l.fadeOrder)
	}
	out := make([]int, stage)
	copy(out, l.fadeOrder[:stage])
	return out
}

func (l *Ledger) Question() domain.Question { return l.question }

func (l *Ledger) Index() int { return l.index }
