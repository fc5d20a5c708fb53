package domain

// Event names emitted to the broadcast gateway.
const (
	EventCountdown       = "countdown"
	EventRoundIntro      = "round-intro"
	EventQuestionReady   = "question-ready"
	EventFadeAnswers     = "fade-answers"
	EventAnswerPreview   = "answer-preview"
	EventGameStateUpdate = "game-state-update"
	EventTimeUp          = "time-up"
	EventAnswerResult    = "answer-result"
	EventGameComplete    = "game-complete"
	EventPlayAgain       = "play-again"
)

// Resolution reasons carried by time-up events.
const (
	ResolvedByTimer       = "timer"
	ResolvedByAllAnswered = "all-answered"
)

type CountdownPayload struct {
	SessionID string `json:"sessionId"`
	Remaining int    `json:"remaining"`
}

type RoundIntroPayload struct {
	SessionID   string `json:"sessionId"`
	Round       int    `json:"round"`
	Difficulty  string `json:"difficulty"`
	Category    string `json:"category"`
	Sponsor     string `json:"sponsor,omitempty"`
	BasePoints  int    `json:"basePoints"`
	Penalty     int    `json:"penalty"`
	TimeLimitMs int64  `json:"timeLimitMs"`
}

type QuestionReadyPayload struct {
	SessionID   string   `json:"sessionId"`
	Index       int      `json:"index"`
	Total       int      `json:"total"`
	QuestionID  string   `json:"questionId"`
	Text        string   `json:"text"`
	Options     []string `json:"options"`
	Category    string   `json:"category"`
	Difficulty  string   `json:"difficulty"`
	Round       int      `json:"round"`
	TimeLimitMs int64    `json:"timeLimitMs"`
}

// FadeAnswersPayload is a presentation hint only; it has no scoring effect.
type FadeAnswersPayload struct {
	SessionID     string `json:"sessionId"`
	QuestionIndex int    `json:"questionIndex"`
	Stage         int    `json:"stage"`
	Indices       []int  `json:"indices"`
}

type AnswerPreviewPayload struct {
	SessionID     string `json:"sessionId"`
	QuestionIndex int    `json:"questionIndex"`
	OptionIndex   int    `json:"optionIndex"`
	Locked        bool   `json:"locked"`
}

type GameStatePayload struct {
	GameSnapshot
	AnsweredCount int `json:"answeredCount"`
}

type TimeUpPayload struct {
	SessionID     string `json:"sessionId"`
	QuestionIndex int    `json:"questionIndex"`
	CorrectIndex  int    `json:"correctIndex"`
	CorrectAnswer string `json:"correctAnswer"`
	Reason        string `json:"reason"`
	AnswerCounts  []int  `json:"answerCounts"`
}

type AnswerResultPayload struct {
	SessionID     string         `json:"sessionId"`
	QuestionIndex int            `json:"questionIndex"`
	Answered      bool           `json:"answered"`
	OptionIndex   int            `json:"optionIndex"`
	Correct       bool           `json:"correct"`
	CorrectIndex  int            `json:"correctIndex"`
	ResponseMs    int64          `json:"responseMs"`
	Breakdown     ScoreBreakdown `json:"breakdown"`
	TotalScore    int            `json:"totalScore"`
	Streak        int            `json:"streak"`
}

// Standing is one row of the final scoreboard.
type Standing struct {
	Rank          int    `json:"rank"`
	PlayerID      string `json:"playerId"`
	Nickname      string `json:"nickname"`
	Score         int    `json:"score"`
	Correct       int    `json:"correct"`
	LongestStreak int    `json:"longestStreak"`
}

type GameCompletePayload struct {
	SessionID string     `json:"sessionId"`
	Standings []Standing `json:"standings"`
}

type PlayAgainPayload struct {
	PreviousSessionID string   `json:"previousSessionId"`
	SessionID         string   `json:"sessionId"`
	Players           []string `json:"players"`
}
