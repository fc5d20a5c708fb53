package domain

import "errors"

var (
	// ErrSessionNotFound is returned when a trivia session has not been provisioned.
	ErrSessionNotFound = errors.New("trivia session not found")
	// ErrSessionExists is returned when a session id is already in use.
	ErrSessionExists = errors.New("trivia session already exists")
	// ErrPlayerNotFound is returned when a player acts before joining.
	ErrPlayerNotFound = errors.New("player not found in session")
	// ErrNoPlayers is returned when a host starts a game with an empty roster.
	ErrNoPlayers = errors.New("session has no players")
	// ErrNoActiveQuestion is returned when an answer arrives outside a question window.
	ErrNoActiveQuestion = errors.New("no active question")
	// ErrAlreadyLocked is returned for a second submission to the same question.
	ErrAlreadyLocked = errors.New("answer already locked")
	// ErrOptionNotFound indicates a submitted option index is out of range.
	ErrOptionNotFound = errors.New("option not found")
	// ErrInvalidTransition is returned for lifecycle requests the current phase cannot accept.
	ErrInvalidTransition = errors.New("invalid game state transition")
	// ErrGameCompleted is returned when a request needs a game that is still running.
	ErrGameCompleted = errors.New("game already completed")
	// ErrUnresolvedAnswer marks a question whose correct option could not be located.
	ErrUnresolvedAnswer = errors.New("correct answer not found among options")
	// ErrTooFewOptions marks a question with fewer than two distinct options.
	ErrTooFewOptions = errors.New("question needs at least two options")
	// ErrNoPlayableQuestions is returned when sequencing leaves nothing to deal.
	ErrNoPlayableQuestions = errors.New("no playable questions")
	// ErrQuestionSetNotFound indicates the question set could not be loaded.
	ErrQuestionSetNotFound = errors.New("question set not found")
)

// ErrorCode maps an error to a stable machine-readable code for clients.
func ErrorCode(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrSessionNotFound):
		return "SESSION_NOT_FOUND"
	case errors.Is(err, ErrSessionExists):
		return "SESSION_EXISTS"
	case errors.Is(err, ErrPlayerNotFound):
		return "PLAYER_NOT_FOUND"
	case errors.Is(err, ErrNoPlayers):
		return "NO_PLAYERS"
	case errors.Is(err, ErrNoActiveQuestion):
		return "NO_ACTIVE_QUESTION"
	case errors.Is(err, ErrAlreadyLocked):
		return "ALREADY_LOCKED"
	case errors.Is(err, ErrOptionNotFound):
		return "OPTION_NOT_FOUND"
	case errors.Is(err, ErrInvalidTransition):
		return "INVALID_TRANSITION"
	case errors.Is(err, ErrGameCompleted):
		return "GAME_COMPLETED"
	case errors.Is(err, ErrNoPlayableQuestions):
		return "NO_PLAYABLE_QUESTIONS"
	case errors.Is(err, ErrQuestionSetNotFound):
		return "QUESTION_SET_NOT_FOUND"
	default:
		return "UNKNOWN"
	}
}
