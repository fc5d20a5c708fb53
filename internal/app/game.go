package app

import (
	"math/rand"
	"sort"
	"sync"
	"time"

	"live-trivia-service/internal/domain"
)

// Phase is a state of the session lifecycle.
type Phase string

const (
	PhaseWaiting           Phase = "waiting"
	PhaseCountdown         Phase = "countdown"
	PhaseRoundIntro        Phase = "round-intro"
	PhaseQuestionActive    Phase = "question-active"
	PhaseQuestionResolving Phase = "question-resolving"
	PhaseCompleted         Phase = "completed"
)

var transitions = map[Phase][]Phase{
	PhaseWaiting:           {PhaseCountdown},
	PhaseCountdown:         {PhaseRoundIntro, PhaseQuestionActive},
	PhaseRoundIntro:        {PhaseQuestionActive},
	PhaseQuestionActive:    {PhaseQuestionResolving},
	PhaseQuestionResolving: {PhaseRoundIntro, PhaseQuestionActive, PhaseCompleted},
}

// CanTransition reports whether the lifecycle allows moving from one phase to another.
func CanTransition(from, to Phase) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Status maps a phase to the coarse session status.
func (p Phase) Status() domain.Status {
	switch p {
	case PhaseWaiting:
		return domain.StatusWaiting
	case PhaseCompleted:
		return domain.StatusCompleted
	default:
		return domain.StatusPlaying
	}
}

// Game is the in-memory state of one trivia session. Every mutation happens
// under mu, which makes the game its own single writer.
type Game struct {
	id            string
	questionSetID string
	createdAt     time.Time
	startedAt     time.Time
	completedAt   time.Time
	now           func() time.Time
	rnd           *rand.Rand

	mu        sync.Mutex
	phase     Phase
	questions []domain.Question
	index     int
	players   map[string]*domain.Player
	// order keeps join order so roster views are stable.
	order  []string
	ledger *Ledger
	timers *Timers
	// countdown is the next value the countdown broadcasts.
	countdown int
	// next is the session opened by play again, once there is one.
	next *domain.SessionInfo
}

// NewGame is exported for registry implementations that create sessions.
func NewGame(id string, questions []domain.Question) *Game {
	return newGameWithClock(id, questions, time.Now)
}

// NewGameWithClock is test-only for deterministic timestamps.
func NewGameWithClock(id string, questions []domain.Question, now func() time.Time) *Game {
	return newGameWithClock(id, questions, now)
}

func newGameWithClock(id string, questions []domain.Question, now func() time.Time) *Game {
	qs := make([]domain.Question, len(questions))
	copy(qs, questions)
	return &Game{
		id:        id,
		createdAt: now(),
		now:       now,
		rnd:       rand.New(rand.NewSource(now().UnixNano())),
		phase:     PhaseWaiting,
		questions: qs,
		players:   make(map[string]*domain.Player),
		timers:    newTimers(),
	}
}

// ID returns the session id.
func (g *Game) ID() string { return g.id }

// Phase returns the current lifecycle phase.
func (g *Game) Phase() Phase {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.phase
}

// Status returns the coarse session status.
func (g *Game) Status() domain.Status {
	return g.Phase().Status()
}

// QuestionIndex returns the current question pointer.
func (g *Game) QuestionIndex() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.index
}

// QuestionCount returns the number of questions the session deals.
func (g *Game) QuestionCount() int {
	return len(g.questions)
}

// Player returns a copy of a player's record.
func (g *Game) Player(playerID string) (domain.Player, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	p, ok := g.players[playerID]
	if !ok {
		return domain.Player{}, false
	}
	return *p, true
}

// Snapshot returns a read-only view of the session.
func (g *Game) Snapshot() domain.GameSnapshot {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.snapshotLocked()
}

func (g *Game) transitionLocked(to Phase) error {
	if !CanTransition(g.phase, to) {
		return domain.ErrInvalidTransition
	}
	g.phase = to
	return nil
}

func (g *Game) addPlayerLocked(playerID, nickname string) {
	if p, ok := g.players[playerID]; ok {
		p.Nickname = nickname
		return
	}
	g.players[playerID] = &domain.Player{
		ID:           playerID,
		Nickname:     nickname,
		RoundCorrect: make(map[int]int),
		JoinedAt:     g.now(),
	}
	g.order = append(g.order, playerID)
}

func (g *Game) removePlayerLocked(playerID string) bool {
	if _, ok := g.players[playerID]; !ok {
		return false
	}
	delete(g.players, playerID)
	for i, id := range g.order {
		if id == playerID {
			g.order = append(g.order[:i], g.order[i+1:]...)
			break
		}
	}
	return true
}

// roundStartsAt reports whether the question at index opens a new round.
func (g *Game) roundStartsAt(index int) bool {
	if index == 0 {
		return true
	}
	return g.questions[index].Round != g.questions[index-1].Round
}

// fadeOrderLocked shuffles the wrong options of q, keeping one always visible.
func (g *Game) fadeOrderLocked(q domain.Question) []int {
	wrong := make([]int, 0, len(q.Options)-1)
	for i := range q.Options {
		if i != q.CorrectIndex {
			wrong = append(wrong, i)
		}
	}
	g.rnd.Shuffle(len(wrong), func(i, j int) { wrong[i], wrong[j] = wrong[j], wrong[i] })
	if len(wrong) > 0 {
		wrong = wrong[:len(wrong)-1]
	}
	return wrong
}

func (g *Game) snapshotLocked() domain.GameSnapshot {
	players := make([]domain.PlayerView, 0, len(g.order))
	for _, id := range g.order {
		p := g.players[id]
		players = append(players, domain.PlayerView{
			PlayerID:      p.ID,
			Nickname:      p.Nickname,
			Score:         p.Score,
			Correct:       p.Correct,
			Streak:        p.Streak,
			LongestStreak: p.LongestStreak,
			HasAnswered:   p.HasAnswered,
		})
	}
	return domain.GameSnapshot{
		SessionID:     g.id,
		Status:        g.phase.Status(),
		Phase:         string(g.phase),
		QuestionIndex: g.index,
		QuestionCount: len(g.questions),
		Players:       players,
	}
}

// standingsLocked sorts players by score descending, then correct answers, then nickname.
func (g *Game) standingsLocked() []domain.Standing {
	standings := make([]domain.Standing, 0, len(g.players))
	for _, id := range g.order {
		p := g.players[id]
		standings = append(standings, domain.Standing{
			PlayerID:      p.ID,
			Nickname:      p.Nickname,
			Score:         p.Score,
			Correct:       p.Correct,
			LongestStreak: p.LongestStreak,
		})
	}
	sort.SliceStable(standings, func(i, j int) bool {
		if standings[i].Score != standings[j].Score {
			return standings[i].Score > standings[j].Score
		}
		if standings[i].Correct != standings[j].Correct {
			return standings[i].Correct > standings[j].Correct
		}
		return standings[i].Nickname < standings[j].Nickname
	})
	for i := range standings {
		standings[i].Rank = i + 1
	}
	return standings
}

func (g *Game) recordLocked() domain.SessionRecord {
	record := domain.SessionRecord{
		SessionID:     g.id,
		QuestionSetID: g.questionSetID,
		Status:        g.phase.Status(),
		PlayerCount:   len(g.players),
		QuestionCount: len(g.questions),
		CreatedAt:     g.createdAt,
		StartedAt:     g.startedAt,
		CompletedAt:   g.completedAt,
	}
	if g.phase == PhaseCompleted {
		if standings := g.standingsLocked(); len(standings) > 0 {
			record.Winner = standings[0].PlayerID
		}
	}
	return record
}
