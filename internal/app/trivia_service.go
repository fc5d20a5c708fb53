package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"live-trivia-service/internal/domain"
)

// Registry maps session ids to live games (in-memory, Redis-aware, etc).
// Create is not idempotent; callers check Get first.
type Registry interface {
	Create(sessionID string, questions []domain.Question) *Game
	Get(sessionID string) (*Game, bool)
	Remove(sessionID string)
}

// QuestionProvider loads raw question content for a question set.
type QuestionProvider interface {
	Questions(ctx context.Context, setID string) ([]domain.RawQuestion, error)
}

// SessionRepository persists session status and timestamps. Writes are best effort.
type SessionRepository interface {
	SaveSession(ctx context.Context, record domain.SessionRecord) error
}

// RoomCodeGenerator issues new session ids.
type RoomCodeGenerator interface {
	NewCode(ctx context.Context) (string, error)
}

// Broadcaster is the transport boundary. Implementations must not block.
type Broadcaster interface {
	BroadcastToSession(sessionID, event string, payload any)
	SendToPlayer(sessionID, playerID, event string, payload any)
}

const (
	maxCodeAttempts = 5
	recordQueueSize = 256
)

// TriviaService drives the lifecycle of every trivia session.
type TriviaService struct {
	sessions  Registry
	questions QuestionProvider
	records   SessionRepository
	codes     RoomCodeGenerator
	gateway   Broadcaster
	settings  Settings
	tracer    trace.Tracer

	recordOnce  sync.Once
	recordQueue chan domain.SessionRecord
}

// Option customises a TriviaService.
type Option func(*TriviaService)

// WithSessionRepository sets where session summaries are persisted.
func WithSessionRepository(records SessionRepository) Option {
	return func(s *TriviaService) { s.records = records }
}

// WithRoomCodes sets the generator used by ProvisionSession and PlayAgain.
func WithRoomCodes(codes RoomCodeGenerator) Option {
	return func(s *TriviaService) { s.codes = codes }
}

func NewTriviaService(store Registry, questions QuestionProvider, gateway Broadcaster, settings Settings, opts ...Option) *TriviaService {
	s := &TriviaService{
		sessions:    store,
		questions:   questions,
		records:     discardRecords{},
		gateway:     gateway,
		settings:    settings,
		tracer:      otel.Tracer("live-trivia-service/app"),
		recordQueue: make(chan domain.SessionRecord, recordQueueSize),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateSession sequences raw questions and registers a new waiting session.
func (s *TriviaService) CreateSession(ctx context.Context, sessionID string, raw []domain.RawQuestion) (domain.SessionInfo, error) {
	ctx, span := s.startSpan(ctx, "CreateSession", sessionID)
	defer span.End()
	return s.createSession(ctx, sessionID, "", raw)
}

// ProvisionSession allocates a room code and creates a session from a stored question set.
func (s *TriviaService) ProvisionSession(ctx context.Context, setID string) (domain.SessionInfo, error) {
	ctx, span := s.startSpan(ctx, "ProvisionSession", "")
	defer span.End()
	span.SetAttributes(attribute.String("trivia.question_set", setID))

	raw, err := s.questions.Questions(ctx, setID)
	if err != nil {
		return domain.SessionInfo{}, err
	}
	sessionID, err := s.newSessionID(ctx)
	if err != nil {
		return domain.SessionInfo{}, err
	}
	return s.createSession(ctx, sessionID, setID, raw)
}

func (s *TriviaService) createSession(ctx context.Context, sessionID, setID string, raw []domain.RawQuestion) (domain.SessionInfo, error) {
	seq, err := domain.Sequence(raw, domain.SequenceOptions{
		IncludeFillers: s.settings.IncludeFillers,
		Limit:          s.settings.QuestionLimit,
	})
	for _, unresolved := range seq.Unresolved {
		log.Printf("session %s: skipping question: %v", sessionID, unresolved)
	}
	if err != nil {
		return domain.SessionInfo{}, err
	}
	if _, exists := s.sessions.Get(sessionID); exists {
		return domain.SessionInfo{}, domain.ErrSessionExists
	}

	game := s.sessions.Create(sessionID, seq.Questions)
	game.mu.Lock()
	game.questionSetID = setID
	record := game.recordLocked()
	s.armIdleLocked(game)
	game.mu.Unlock()
	s.saveRecord(record)

	return domain.SessionInfo{
		SessionID:     sessionID,
		QuestionSetID: setID,
		QuestionCount: len(seq.Questions),
	}, nil
}

// AddPlayer registers or refreshes a player any time before the game completes.
func (s *TriviaService) AddPlayer(_ context.Context, sessionID, playerID, nickname string) (domain.GameSnapshot, error) {
	game, err := s.game(sessionID)
	if err != nil {
		return domain.GameSnapshot{}, err
	}
	game.mu.Lock()
	defer game.mu.Unlock()

	if game.phase == PhaseCompleted {
		return domain.GameSnapshot{}, domain.ErrGameCompleted
	}
	game.addPlayerLocked(playerID, nickname)
	if game.phase == PhaseWaiting {
		s.armIdleLocked(game)
	}
	return s.broadcastStateLocked(game), nil
}

// RemovePlayer drops a player from a session that has not started yet.
func (s *TriviaService) RemovePlayer(_ context.Context, sessionID, playerID string) error {
	game, err := s.game(sessionID)
	if err != nil {
		return err
	}
	game.mu.Lock()
	defer game.mu.Unlock()

	if game.phase != PhaseWaiting {
		return domain.ErrInvalidTransition
	}
	if !game.removePlayerLocked(playerID) {
		return domain.ErrPlayerNotFound
	}
	s.broadcastStateLocked(game)
	return nil
}

// StartGame begins the countdown that leads into the first question.
func (s *TriviaService) StartGame(ctx context.Context, sessionID string) error {
	_, span := s.startSpan(ctx, "StartGame", sessionID)
	defer span.End()

	game, err := s.game(sessionID)
	if err != nil {
		return err
	}
	game.mu.Lock()
	defer game.mu.Unlock()

	if len(game.players) == 0 {
		return domain.ErrNoPlayers
	}
	if err := game.transitionLocked(PhaseCountdown); err != nil {
		return err
	}
	game.startedAt = game.now()
	game.countdown = s.settings.CountdownSeconds
	log.Printf("session %s: game started with %d players", game.id, len(game.players))
	s.saveRecord(game.recordLocked())
	s.tickLocked(game)
	return nil
}

// ContinueGame clears the round intro gate and deals the pending question.
func (s *TriviaService) ContinueGame(_ context.Context, sessionID string) error {
	game, err := s.game(sessionID)
	if err != nil {
		return err
	}
	game.mu.Lock()
	defer game.mu.Unlock()

	if err := game.transitionLocked(PhaseQuestionActive); err != nil {
		return err
	}
	s.deliverLocked(game)
	return nil
}

// SubmitAnswer locks in a player's answer for the active question. When the
// last roster member locks in, the question resolves immediately.
func (s *TriviaService) SubmitAnswer(ctx context.Context, sessionID, playerID string, optionIndex int) (domain.SubmitResult, error) {
	_, span := s.startSpan(ctx, "SubmitAnswer", sessionID)
	defer span.End()

	game, err := s.game(sessionID)
	if err != nil {
		return domain.SubmitResult{}, err
	}
	game.mu.Lock()
	defer game.mu.Unlock()

	player, ok := game.players[playerID]
	if !ok {
		return domain.SubmitResult{}, domain.ErrPlayerNotFound
	}
	if game.phase != PhaseQuestionActive || game.ledger == nil {
		return domain.SubmitResult{}, domain.ErrNoActiveQuestion
	}
	answer, err := game.ledger.Submit(playerID, optionIndex, game.now())
	if err != nil {
		return domain.SubmitResult{}, err
	}
	player.HasAnswered = true

	result := domain.SubmitResult{
		QuestionIndex: game.ledger.Index(),
		OptionIndex:   answer.OptionIndex,
		ResponseTime:  answer.ResponseTime,
		Locked:        true,
	}
	s.gateway.SendToPlayer(game.id, playerID, domain.EventAnswerPreview, domain.AnswerPreviewPayload{
		SessionID:     game.id,
		QuestionIndex: result.QuestionIndex,
		OptionIndex:   result.OptionIndex,
		Locked:        true,
	})
	s.broadcastStateLocked(game)

	if game.ledger.AllLocked(len(game.players)) {
		s.resolveLocked(game, domain.ResolvedByAllAnswered)
	}
	return result, nil
}

// PlayAgain opens a fresh session with the same questions and roster. A
// session only ever gets one successor; repeat calls return it again.
func (s *TriviaService) PlayAgain(ctx context.Context, sessionID string) (domain.SessionInfo, error) {
	ctx, span := s.startSpan(ctx, "PlayAgain", sessionID)
	defer span.End()

	game, err := s.game(sessionID)
	if err != nil {
		return domain.SessionInfo{}, err
	}

	game.mu.Lock()
	defer game.mu.Unlock()
	if game.phase != PhaseCompleted {
		return domain.SessionInfo{}, domain.ErrInvalidTransition
	}
	if game.next != nil {
		return *game.next, nil
	}

	newID, err := s.newSessionID(ctx)
	if err != nil {
		return domain.SessionInfo{}, err
	}
	next := s.sessions.Create(newID, game.questions)
	next.mu.Lock()
	next.questionSetID = game.questionSetID
	ids := make([]string, 0, len(game.order))
	for _, id := range game.order {
		next.addPlayerLocked(id, game.players[id].Nickname)
		ids = append(ids, id)
	}
	record := next.recordLocked()
	s.armIdleLocked(next)
	next.mu.Unlock()
	s.saveRecord(record)

	info := domain.SessionInfo{
		SessionID:     newID,
		QuestionSetID: game.questionSetID,
		QuestionCount: len(game.questions),
		Players:       ids,
	}
	game.next = &info

	s.gateway.BroadcastToSession(sessionID, domain.EventPlayAgain, domain.PlayAgainPayload{
		PreviousSessionID: sessionID,
		SessionID:         newID,
		Players:           ids,
	})
	log.Printf("session %s: play again as %s with %d players", sessionID, newID, len(ids))
	return info, nil
}

// Snapshot returns a read-only view of a session.
func (s *TriviaService) Snapshot(_ context.Context, sessionID string) (domain.GameSnapshot, error) {
	game, err := s.game(sessionID)
	if err != nil {
		return domain.GameSnapshot{}, err
	}
	return game.Snapshot(), nil
}

func (s *TriviaService) game(sessionID string) (*Game, error) {
	game, ok := s.sessions.Get(sessionID)
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return game, nil
}

func (s *TriviaService) newSessionID(ctx context.Context) (string, error) {
	if s.codes == nil {
		return "", errors.New("room code generator not configured")
	}
	for i := 0; i < maxCodeAttempts; i++ {
		code, err := s.codes.NewCode(ctx)
		if err != nil {
			return "", fmt.Errorf("generate room code: %w", err)
		}
		if _, taken := s.sessions.Get(code); !taken {
			return code, nil
		}
	}
	return "", fmt.Errorf("generate room code: %w", domain.ErrSessionExists)
}

func (s *TriviaService) startSpan(ctx context.Context, name, sessionID string) (context.Context, trace.Span) {
	ctx, span := s.tracer.Start(ctx, "trivia."+name)
	if sessionID != "" {
		span.SetAttributes(attribute.String("trivia.session_id", sessionID))
	}
	return ctx, span
}

// saveRecord queues a record for the writer goroutine so persistence never
// blocks a session. Records are written in the order they were queued.
func (s *TriviaService) saveRecord(record domain.SessionRecord) {
	s.recordOnce.Do(func() { go s.writeRecords() })
	select {
	case s.recordQueue <- record:
	default:
		log.Printf("session %s: record queue full, dropping %s record", record.SessionID, record.Status)
	}
}

func (s *TriviaService) writeRecords() {
	for record := range s.recordQueue {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := s.records.SaveSession(ctx, record); err != nil {
			log.Printf("session %s: save %s record: %v", record.SessionID, record.Status, err)
		}
		cancel()
	}
}

type discardRecords struct{}

func (discardRecords) SaveSession(context.Context, domain.SessionRecord) error { return nil }
