package domain

import "time"

// ScoreInput carries everything the scoring engine needs; it never reads game state.
type ScoreInput struct {
	Correct      bool
	ResponseTime time.Duration
	TimeLimit    time.Duration
	// Streak is the player's streak before this answer.
	Streak     int
	BasePoints int
	Penalty    int
}

// ScoreBreakdown is the per-answer score split into its terms.
type ScoreBreakdown struct {
	Base        int `json:"base"`
	TimeBonus   int `json:"timeBonus"`
	Penalty     int `json:"penalty"`
	StreakBonus int `json:"streakBonus"`
	Final       int `json:"final"`
	NextStreak  int `json:"nextStreak"`
}

// StreakBonus returns the bonus for reaching exactly the given streak length.
func StreakBonus(nextStreak int) int {
	switch nextStreak {
	case 3:
		return 50
	case 5:
		return 100
	case 10:
		return 300
	default:
		return 0
	}
}

// Score computes the breakdown for one player's answer (or lack of one).
func Score(in ScoreInput) ScoreBreakdown {
	if !in.Correct {
		return ScoreBreakdown{
			Penalty: in.Penalty,
			Final:   -in.Penalty,
		}
	}

	out := ScoreBreakdown{
		Base:       in.BasePoints,
		NextStreak: in.Streak + 1,
	}
	out.TimeBonus = timeBonus(in.BasePoints, in.ResponseTime, in.TimeLimit)
	out.StreakBonus = StreakBonus(out.NextStreak)
	out.Final = out.Base + out.TimeBonus + out.StreakBonus
	return out
}

// timeBonus is floor(base * 0.5 * (1 - min(rt, limit)/limit)), in integer arithmetic.
func timeBonus(base int, responseTime, limit time.Duration) int {
	if limit <= 0 || base <= 0 {
		return 0
	}
	rt := responseTime
	if rt < 0 {
		rt = 0
	}
	if rt > limit {
		rt = limit
	}
	remaining := int64(limit - rt)
	return int(int64(base) * remaining / (2 * int64(limit)))
}
