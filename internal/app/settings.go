package app

import "time"

// Settings is the flat scoring and pacing policy applied to every question of a session.
type Settings struct {
	TimeLimit        time.Duration
	BasePoints       int
	Penalty          int
	CountdownSeconds int
	CountdownTick    time.Duration
	SettleDelay      time.Duration
	CompletionGrace  time.Duration
	// IdleTimeout drops a session nobody starts. Zero keeps waiting sessions forever.
	IdleTimeout time.Duration
	// FadeOffsets are measured back from question expiry.
	FadeOffsets    []time.Duration
	RoundIntros    bool
	IncludeFillers bool
	QuestionLimit  int
	Sponsor        string
}

// DefaultSettings returns the production pacing.
func DefaultSettings() Settings {
	return Settings{
		TimeLimit:        30 * time.Second,
		BasePoints:       100,
		Penalty:          25,
		CountdownSeconds: 3,
		CountdownTick:    time.Second,
		SettleDelay:      3 * time.Second,
		CompletionGrace:  5 * time.Minute,
		IdleTimeout:      30 * time.Minute,
		FadeOffsets:      []time.Duration{10 * time.Second, 5 * time.Second},
	}
}
