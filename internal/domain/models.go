package domain

import "time"

// Status is the coarse lifecycle status of a session.
type Status string

const (
	StatusWaiting   Status = "waiting"
	StatusPlaying   Status = "playing"
	StatusCompleted Status = "completed"
)

// Player is the per-session record of one participant.
type Player struct {
	ID            string
	Nickname      string
	Score         int
	Correct       int
	Streak        int
	LongestStreak int
	RoundCorrect  map[int]int
	HasAnswered   bool
	JoinedAt      time.Time
}

// RawQuestion is question content as delivered by a question provider,
// before sequencing. Question is a legacy alias for Text.
type RawQuestion struct {
	ID            string   `json:"id"`
	Text          string   `json:"text"`
	Question      string   `json:"question,omitempty"`
	CorrectAnswer string   `json:"correctAnswer"`
	Options       []string `json:"options"`
	CorrectIndex  *int     `json:"correctIndex,omitempty"`
	Category      string   `json:"category"`
	Difficulty    string   `json:"difficulty"`
	Filler        bool     `json:"filler,omitempty"`
}

// Question is the normalized, playable form of a question.
type Question struct {
	ID            string   `json:"id"`
	Text          string   `json:"text"`
	CorrectAnswer string   `json:"correctAnswer"`
	Options       []string `json:"options"`
	CorrectIndex  int      `json:"correctIndex"`
	Category      string   `json:"category"`
	Difficulty    string   `json:"difficulty"`
	Round         int      `json:"round"`
}

// Answer is a locked submission for the active question.
type Answer struct {
	OptionIndex  int
	ResponseTime time.Duration
	SubmittedAt  time.Time
}

// SubmitResult acknowledges an accepted submission. Correctness is not revealed.
type SubmitResult struct {
	QuestionIndex int           `json:"questionIndex"`
	OptionIndex   int           `json:"optionIndex"`
	ResponseTime  time.Duration `json:"-"`
	Locked        bool          `json:"locked"`
}

// SessionInfo describes a provisioned session.
type SessionInfo struct {
	SessionID     string   `json:"sessionId"`
	QuestionSetID string   `json:"questionSetId,omitempty"`
	QuestionCount int      `json:"questionCount"`
	Players       []string `json:"players,omitempty"`
}

// PlayerView is the host-facing projection of a player record.
type PlayerView struct {
	PlayerID      string `json:"playerId"`
	Nickname      string `json:"nickname"`
	Score         int    `json:"score"`
	Correct       int    `json:"correct"`
	Streak        int    `json:"streak"`
	LongestStreak int    `json:"longestStreak"`
	HasAnswered   bool   `json:"hasAnswered"`
}

// GameSnapshot is a read-only view of a session.
type GameSnapshot struct {
	SessionID     string       `json:"sessionId"`
	Status        Status       `json:"status"`
	Phase         string       `json:"phase"`
	QuestionIndex int          `json:"questionIndex"`
	QuestionCount int          `json:"questionCount"`
	Players       []PlayerView `json:"players"`
}

// SessionRecord is the durable summary of a session kept by session repositories.
type SessionRecord struct {
	SessionID     string
	QuestionSetID string
	Status        Status
	PlayerCount   int
	QuestionCount int
	CreatedAt     time.Time
	StartedAt     time.Time
	CompletedAt   time.Time
	// Winner is the top standing's player id once completed.
	Winner string
}
