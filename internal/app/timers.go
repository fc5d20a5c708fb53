package app

import (
	"sort"
	"time"
)

// Timers owns every pending timer of one session: the question expiry, the
// staged fade timers and a single phase timer (countdown ticks, settle delay).
// Each arm is tagged with a generation; callbacks must check Current before
// acting so a timer that fired just before cancellation becomes a no-op.
//
// Timers is not safe for concurrent use. It is only touched while holding
// the owning Game's lock.
type Timers struct {
	generation uint64
	expiry     *time.Timer
	fades      []*time.Timer
	phase      *time.Timer
}

func newTimers() *Timers {
	return &Timers{}
}

// StartQuestionTimer cancels whatever the previous question left behind and
// arms the expiry timer. It returns the generation passed to fire.
func (t *Timers) StartQuestionTimer(d time.Duration, fire func(gen uint64)) uint64 {
	t.CancelAll()
	gen := t.generation
	t.expiry = time.AfterFunc(d, func() { fire(gen) })
	return gen
}

// StartFadeTimers arms one timer per offset, each firing offset before the
// question expires. Offsets that would fire at or before the question start
// are skipped. Stages are numbered from 1 in firing order, so the largest
// offset is stage 1 whatever order the offsets are given in.
func (t *Timers) StartFadeTimers(gen uint64, limit time.Duration, offsets []time.Duration, fire func(gen uint64, stage int)) {
	if gen != t.generation {
		return
	}
	sorted := make([]time.Duration, len(offsets))
	copy(sorted, offsets)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] > sorted[j] })
	stage := 0
	for _, offset := range sorted {
		if offset <= 0 || offset >= limit {
			continue
		}
		stage++
		s := stage
		t.fades = append(t.fades, time.AfterFunc(limit-offset, func() { fire(gen, s) }))
	}
}

// Schedule cancels every pending timer and arms the phase timer. Phase
// timers never overlap a running question.
func (t *Timers) Schedule(d time.Duration, fire func(gen uint64)) uint64 {
	t.CancelAll()
	gen := t.generation
	t.phase = time.AfterFunc(d, func() { fire(gen) })
	return gen
}

// Current reports whether gen still belongs to the armed timer set.
func (t *Timers) Current(gen uint64) bool {
	return gen == t.generation
}

// CancelAll stops every timer and invalidates callbacks already in flight.
// Calling it repeatedly is harmless.
func (t *Timers) CancelAll() {
	if t.expiry != nil {
		t.expiry.Stop()
		t.expiry = nil
	}
	for _, f := range t.fades {
		f.Stop()
	}
	t.fades = nil
	if t.phase != nil {
		t.phase.Stop()
		t.phase = nil
	}
	t.generation++
}
