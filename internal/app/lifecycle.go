package app

import (
	"log"
	"time"

	"live-trivia-service/internal/domain"
)

// The functions in this file run with game.mu held. Timer callbacks take the
// lock themselves and drop out when their generation or phase is stale.

// armIdleLocked (re)starts the lobby timeout. Starting the game replaces the
// phase timer, so only a session still waiting when it fires is dropped.
func (s *TriviaService) armIdleLocked(game *Game) {
	if s.settings.IdleTimeout <= 0 {
		return
	}
	game.timers.Schedule(s.settings.IdleTimeout, func(gen uint64) {
		game.mu.Lock()
		defer game.mu.Unlock()
		if !game.timers.Current(gen) || game.phase != PhaseWaiting {
			return
		}
		if current, ok := s.sessions.Get(game.id); ok && current == game {
			s.sessions.Remove(game.id)
			log.Printf("session %s: removed after %s idle in lobby", game.id, s.settings.IdleTimeout)
		}
	})
}

func (s *TriviaService) tickLocked(game *Game) {
	if game.countdown <= 0 {
		s.enterQuestionLocked(game)
		return
	}
	s.gateway.BroadcastToSession(game.id, domain.EventCountdown, domain.CountdownPayload{
		SessionID: game.id,
		Remaining: game.countdown,
	})
	game.countdown--
	game.timers.Schedule(s.settings.CountdownTick, func(gen uint64) {
		game.mu.Lock()
		defer game.mu.Unlock()
		if !game.timers.Current(gen) || game.phase != PhaseCountdown {
			return
		}
		s.tickLocked(game)
	})
}

// enterQuestionLocked moves into the question at game.index, stopping at the
// round intro gate when the question opens a new round.
func (s *TriviaService) enterQuestionLocked(game *Game) {
	q := game.questions[game.index]
	if s.settings.RoundIntros && game.roundStartsAt(game.index) {
		if err := game.transitionLocked(PhaseRoundIntro); err != nil {
			log.Printf("session %s: enter round intro from %s: %v", game.id, game.phase, err)
			return
		}
		game.timers.CancelAll()
		game.ledger = nil
		s.gateway.BroadcastToSession(game.id, domain.EventRoundIntro, domain.RoundIntroPayload{
			SessionID:   game.id,
			Round:       q.Round,
			Difficulty:  q.Difficulty,
			Category:    q.Category,
			Sponsor:     s.settings.Sponsor,
			BasePoints:  s.settings.BasePoints,
			Penalty:     s.settings.Penalty,
			TimeLimitMs: s.settings.TimeLimit.Milliseconds(),
		})
		return
	}
	if err := game.transitionLocked(PhaseQuestionActive); err != nil {
		log.Printf("session %s: enter question from %s: %v", game.id, game.phase, err)
		return
	}
	s.deliverLocked(game)
}

// deliverLocked opens the answer window for game.index. The phase is already QuestionActive.
func (s *TriviaService) deliverLocked(game *Game) {
	q := game.questions[game.index]
	for _, p := range game.players {
		p.HasAnswered = false
	}
	game.ledger = newLedger(q, game.index, game.now(), game.fadeOrderLocked(q))

	limit := s.settings.TimeLimit
	gen := game.timers.StartQuestionTimer(limit, func(gen uint64) {
		game.mu.Lock()
		defer game.mu.Unlock()
		if !game.timers.Current(gen) || game.phase != PhaseQuestionActive {
			return
		}
		s.resolveLocked(game, domain.ResolvedByTimer)
	})
	game.timers.StartFadeTimers(gen, limit, s.settings.FadeOffsets, func(gen uint64, stage int) {
		game.mu.Lock()
		defer game.mu.Unlock()
		if !game.timers.Current(gen) || game.phase != PhaseQuestionActive {
			return
		}
		indices := game.ledger.Faded(stage)
		if len(indices) == 0 {
			return
		}
		s.gateway.BroadcastToSession(game.id, domain.EventFadeAnswers, domain.FadeAnswersPayload{
			SessionID:     game.id,
			QuestionIndex: game.index,
			Stage:         stage,
			Indices:       indices,
		})
	})

	s.gateway.BroadcastToSession(game.id, domain.EventQuestionReady, domain.QuestionReadyPayload{
		SessionID:   game.id,
		Index:       game.index,
		Total:       len(game.questions),
		QuestionID:  q.ID,
		Text:        q.Text,
		Options:     q.Options,
		Category:    q.Category,
		Difficulty:  q.Difficulty,
		Round:       q.Round,
		TimeLimitMs: limit.Milliseconds(),
	})
	s.broadcastStateLocked(game)
}

// resolveLocked scores every roster member exactly once for the active question.
func (s *TriviaService) resolveLocked(game *Game, reason string) {
	if err := game.transitionLocked(PhaseQuestionResolving); err != nil {
		return
	}
	game.timers.CancelAll()

	ledger := game.ledger
	q := ledger.Question()
	results := make(map[string]domain.AnswerResultPayload, len(game.order))
	for _, id := range game.order {
		p := game.players[id]
		answer, answered := ledger.Answer(id)
		correct := answered && answer.OptionIndex == q.CorrectIndex
		breakdown := domain.Score(domain.ScoreInput{
			Correct:      correct,
			ResponseTime: answer.ResponseTime,
			TimeLimit:    s.settings.TimeLimit,
			Streak:       p.Streak,
			BasePoints:   s.settings.BasePoints,
			Penalty:      s.settings.Penalty,
		})
		p.Score += breakdown.Final
		p.Streak = breakdown.NextStreak
		if correct {
			p.Correct++
			p.RoundCorrect[q.Round]++
			if p.Streak > p.LongestStreak {
				p.LongestStreak = p.Streak
			}
		}

		optionIndex := -1
		if answered {
			optionIndex = answer.OptionIndex
		}
		results[id] = domain.AnswerResultPayload{
			SessionID:     game.id,
			QuestionIndex: ledger.Index(),
			Answered:      answered,
			OptionIndex:   optionIndex,
			Correct:       correct,
			CorrectIndex:  q.CorrectIndex,
			ResponseMs:    answer.ResponseTime.Milliseconds(),
			Breakdown:     breakdown,
			TotalScore:    p.Score,
			Streak:        p.Streak,
		}
	}

	s.gateway.BroadcastToSession(game.id, domain.EventTimeUp, domain.TimeUpPayload{
		SessionID:     game.id,
		QuestionIndex: ledger.Index(),
		CorrectIndex:  q.CorrectIndex,
		CorrectAnswer: q.CorrectAnswer,
		Reason:        reason,
		AnswerCounts:  ledger.AnswerCounts(),
	})
	for _, id := range game.order {
		s.gateway.SendToPlayer(game.id, id, domain.EventAnswerResult, results[id])
	}
	s.broadcastStateLocked(game)

	game.timers.Schedule(s.settings.SettleDelay, func(gen uint64) {
		game.mu.Lock()
		defer game.mu.Unlock()
		if !game.timers.Current(gen) || game.phase != PhaseQuestionResolving {
			return
		}
		s.advanceLocked(game)
	})
}

func (s *TriviaService) advanceLocked(game *Game) {
	game.index++
	if game.index >= len(game.questions) {
		s.completeLocked(game)
		return
	}
	s.enterQuestionLocked(game)
}

func (s *TriviaService) completeLocked(game *Game) {
	if err := game.transitionLocked(PhaseCompleted); err != nil {
		return
	}
	game.timers.CancelAll()
	game.ledger = nil
	game.completedAt = game.now()

	standings := game.standingsLocked()
	s.gateway.BroadcastToSession(game.id, domain.EventGameComplete, domain.GameCompletePayload{
		SessionID: game.id,
		Standings: standings,
	})
	s.saveRecord(game.recordLocked())
	log.Printf("session %s: completed after %d questions", game.id, len(game.questions))

	time.AfterFunc(s.settings.CompletionGrace, func() {
		if current, ok := s.sessions.Get(game.id); ok && current == game {
			s.sessions.Remove(game.id)
			log.Printf("session %s: removed after grace window", game.id)
		}
	})
}

func (s *TriviaService) broadcastStateLocked(game *Game) domain.GameSnapshot {
	snapshot := game.snapshotLocked()
	answered := 0
	if game.ledger != nil {
		answered = game.ledger.LockedCount()
	}
	s.gateway.BroadcastToSession(game.id, domain.EventGameStateUpdate, domain.GameStatePayload{
		GameSnapshot:  snapshot,
		AnsweredCount: answered,
	})
	return snapshot
}
