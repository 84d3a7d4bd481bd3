package app

import (
	"context"
	"math/rand"
	"strings"
	"time"

	"trivia-game-service/internal/csvtable"
	"trivia-game-service/internal/domain"
	"trivia-game-service/internal/question"
)

// DefaultBankID names the built-in question bank used when the player has
// not uploaded a file.
const DefaultBankID = "bank-default"

// SessionRepository abstracts how game sessions are stored (in-memory, Redis, etc).
type SessionRepository interface {
	GetOrCreate(sessionID string, cfg domain.GameConfig) *GameSession
	Get(sessionID string) (*GameSession, bool)
	DeleteIfIdle(sessionID string)
}

// BankRepository loads validated question banks (from cache/backing store).
type BankRepository interface {
	GetBank(ctx context.Context, bankID string) (domain.Bank, error)
}

// GameService contains the trivia game use cases.
type GameService struct {
	sessions  SessionRepository
	banks     BankRepository
	cfg       domain.GameConfig
	validator *question.Validator
}

func NewGameService(sessions SessionRepository, banks BankRepository, cfg domain.GameConfig) *GameService {
	return &GameService{
		sessions:  sessions,
		banks:     banks,
		cfg:       cfg,
		validator: question.NewValidator(rand.New(rand.NewSource(time.Now().UnixNano()))),
	}
}

// NewSession is exported for infrastructure layers that need to seed sessions.
func NewSession(id string, cfg domain.GameConfig) *GameSession {
	return newSession(id, cfg)
}

// NewSessionWithClock is test-only for deterministic timestamps and a
// manually driven countdown.
func NewSessionWithClock(id string, cfg domain.GameConfig, now func() time.Time, tickInterval time.Duration) *GameSession {
	return newSessionWithClock(id, cfg, now, tickInterval)
}

// Join creates or refreshes the player's session, installing the default
// bank when none is loaded yet, and returns the current snapshot.
func (g *GameService) Join(ctx context.Context, sessionID string) (Snapshot, error) {
	session := g.sessions.GetOrCreate(sessionID, g.cfg)
	if !session.HasBank() {
		bank, err := g.banks.GetBank(ctx, DefaultBankID)
		if err != nil {
			return Snapshot{}, err
		}
		session.SetBank(bank)
	}
	return session.Snapshot(), nil
}

// UploadBank validates a player-supplied CSV and installs it as the
// session's bank. The filename must end in .csv (any case); that check
// runs before the content is even parsed. A validation failure leaves the
// previously installed bank untouched, so no partial set is ever accepted.
func (g *GameService) UploadBank(_ context.Context, sessionID, filename, content string) (int, error) {
	session, ok := g.sessions.Get(sessionID)
	if !ok {
		return 0, domain.ErrSessionNotFound
	}
	if !strings.HasSuffix(strings.ToLower(filename), ".csv") {
		return 0, domain.ErrNotCSVFile
	}

	rows := csvtable.Parse(content)
	questions, err := g.validator.Validate(rows, g.cfg.QuestionsPerRound)
	if err != nil {
		return 0, err
	}
	session.SetBank(domain.Bank{ID: "bank-" + sessionID, Questions: questions})
	return len(questions), nil
}

// StartRound begins the first round of a game.
func (g *GameService) StartRound(_ context.Context, sessionID string) error {
	session, ok := g.sessions.Get(sessionID)
	if !ok {
		return domain.ErrSessionNotFound
	}
	return session.StartRound()
}

// SelectAnswer records the player's pick for a question in the active round.
func (g *GameService) SelectAnswer(_ context.Context, sessionID string, questionIndex, answerIndex int) error {
	session, ok := g.sessions.Get(sessionID)
	if !ok {
		return domain.ErrSessionNotFound
	}
	return session.SelectAnswer(questionIndex, answerIndex)
}

// Submit finalizes the active round once every question is answered.
func (g *GameService) Submit(_ context.Context, sessionID string) error {
	session, ok := g.sessions.Get(sessionID)
	if !ok {
		return domain.ErrSessionNotFound
	}
	return session.Submit()
}

// Advance moves a completed round to the next one.
func (g *GameService) Advance(_ context.Context, sessionID string) error {
	session, ok := g.sessions.Get(sessionID)
	if !ok {
		return domain.ErrSessionNotFound
	}
	return session.Advance()
}

// ExitToMenu abandons the game and resets cumulative totals.
func (g *GameService) ExitToMenu(_ context.Context, sessionID string) error {
	session, ok := g.sessions.Get(sessionID)
	if !ok {
		return domain.ErrSessionNotFound
	}
	session.ExitToMenu()
	return nil
}

// Subscribe returns a channel receiving game snapshots for a session.
// The caller must invoke the returned cancel function to avoid leaks.
func (g *GameService) Subscribe(_ context.Context, sessionID string) (<-chan Snapshot, func(), error) {
	session, ok := g.sessions.Get(sessionID)
	if !ok {
		return nil, nil, domain.ErrSessionNotFound
	}
	ch, cancel := session.subscribe()
	return ch, cancel, nil
}

// Leave drops the session once its last subscriber is gone; the session's
// countdown is cancelled as part of removal.
func (g *GameService) Leave(_ context.Context, sessionID string) {
	g.sessions.DeleteIfIdle(sessionID)
}
