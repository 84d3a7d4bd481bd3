package app

import (
	"math/rand"
	"sync"
	"time"

	"trivia-game-service/internal/domain"
)

// themePaletteSize is the number of decorative board themes the client can
// render. The engine only picks an index; looks are client-side.
const themePaletteSize = 5

// QuestionView is the per-question slice of a snapshot. CorrectIndex is -1
// while the round is active so clients can never reveal correctness early.
type QuestionView struct {
	Text          string   `json:"text"`
	Answers       []string `json:"answers"`
	SelectedIndex int      `json:"selectedIndex"`
	CorrectIndex  int      `json:"correctIndex"`
}

// Snapshot is the full game state pushed to subscribers after every
// transition and timer tick.
type Snapshot struct {
	SessionID        string               `json:"sessionId"`
	Phase            domain.RoundPhase    `json:"phase"`
	Questions        []QuestionView       `json:"questions"`
	RemainingSeconds int                  `json:"remainingSeconds"`
	ThemeIndex       int                  `json:"themeIndex"`
	CanSubmit        bool                 `json:"canSubmit"`
	Record           *domain.RoundRecord  `json:"record,omitempty"`
	Totals           domain.SessionTotals `json:"totals"`
	BankSize         int                  `json:"bankSize"`
	UpdatedAt        time.Time            `json:"updatedAt"`
}

// GameSession owns one player's bank, the current round and the cumulative
// totals. All round state transitions happen under the mutex; the countdown
// goroutine feeds back through Tick like any other trigger.
type GameSession struct {
	id           string
	cfg          domain.GameConfig
	now          func() time.Time
	rnd          *rand.Rand
	tickInterval time.Duration

	mu          sync.RWMutex
	bank        domain.Bank
	phase       domain.RoundPhase
	states      []domain.QuestionState
	remaining   int
	themeIndex  int
	record      domain.RoundRecord
	totals      domain.SessionTotals
	stopTimer   chan struct{}
	subscribers map[chan Snapshot]struct{}
}

func newSession(id string, cfg domain.GameConfig) *GameSession {
	return newSessionWithClock(id, cfg, time.Now, time.Second)
}

// newSessionWithClock allows deterministic timestamps and a disabled
// countdown goroutine (tickInterval <= 0) in tests; tests then drive Tick
// directly.
func newSessionWithClock(id string, cfg domain.GameConfig, now func() time.Time, tickInterval time.Duration) *GameSession {
	if cfg.QuestionsPerRound <= 0 {
		cfg.QuestionsPerRound = domain.DefaultGameConfig().QuestionsPerRound
	}
	if cfg.TimeLimitSeconds <= 0 {
		cfg.TimeLimitSeconds = domain.DefaultGameConfig().TimeLimitSeconds
	}
	return &GameSession{
		id:           id,
		cfg:          cfg,
		now:          now,
		rnd:          rand.New(rand.NewSource(now().UnixNano())),
		tickInterval: tickInterval,
		subscribers:  make(map[chan Snapshot]struct{}),
	}
}

// ID returns the session identifier.
func (s *GameSession) ID() string {
	return s.id
}

// Config returns the round configuration fixed at session start.
func (s *GameSession) Config() domain.GameConfig {
	return s.cfg
}

// SetBank installs a validated question bank and resets the game: any
// running countdown is cancelled, the round is cleared and totals go back
// to zero, as a new question set starts a fresh game.
func (s *GameSession) SetBank(bank domain.Bank) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopCountdownLocked()
	s.bank = bank
	s.phase = ""
	s.states = nil
	s.remaining = 0
	s.record = domain.RoundRecord{}
	s.totals = domain.SessionTotals{}
	s.broadcastLocked()
}

// HasBank reports whether a question bank has been installed.
func (s *GameSession) HasBank() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.bank.Questions) > 0
}

// StartRound samples questionsPerRound questions from the bank without
// replacement, resets the countdown and transitions to Active. The first
// round sets the round number to 1. A running round cannot be restarted;
// rounds only begin from the menu or through Advance.
func (s *GameSession) StartRound() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase == domain.RoundActive {
		return domain.ErrRoundInProgress
	}
	if len(s.bank.Questions) < s.cfg.QuestionsPerRound {
		return domain.ErrBankTooSmall
	}
	if s.totals.RoundNumber == 0 {
		s.totals.RoundNumber = 1
	}
	s.startRoundLocked()
	s.broadcastLocked()
	return nil
}

// startRoundLocked samples via shuffle-then-slice: shuffle a copy of the
// bank order and take the prefix.
func (s *GameSession) startRoundLocked() {
	s.stopCountdownLocked()

	order := s.rnd.Perm(len(s.bank.Questions))
	count := s.cfg.QuestionsPerRound
	s.states = make([]domain.QuestionState, 0, count)
	for _, idx := range order[:count] {
		s.states = append(s.states, domain.QuestionState{
			Question:      s.bank.Questions[idx],
			SelectedIndex: domain.Unanswered,
		})
	}
	s.remaining = s.cfg.TimeLimitSeconds
	s.themeIndex = s.rnd.Intn(themePaletteSize)
	s.record = domain.RoundRecord{}
	s.phase = domain.RoundActive
	s.armCountdownLocked()
}

// SelectAnswer records the player's pick for one question. Re-selection
// overwrites the previous pick. Outside an active round the call changes
// nothing and reports ErrRoundNotActive.
func (s *GameSession) SelectAnswer(questionIndex, answerIndex int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != domain.RoundActive {
		return domain.ErrRoundNotActive
	}
	if questionIndex < 0 || questionIndex >= len(s.states) {
		return domain.ErrQuestionIndexOutOfRange
	}
	if answerIndex < 0 || answerIndex >= domain.AnswersPerQuestion {
		return domain.ErrAnswerIndexOutOfRange
	}
	s.states[questionIndex].SelectedIndex = answerIndex
	s.broadcastLocked()
	return nil
}

// CanSubmit reports whether the round is active with every question answered.
func (s *GameSession) CanSubmit() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.canSubmitLocked()
}

func (s *GameSession) canSubmitLocked() bool {
	if s.phase != domain.RoundActive || len(s.states) == 0 {
		return false
	}
	for _, qs := range s.states {
		if !qs.Answered() {
			return false
		}
	}
	return true
}

// Submit finalizes the round, scoring the selections as they stand. The
// round state is untouched when submission is gated.
func (s *GameSession) Submit() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != domain.RoundActive {
		return domain.ErrRoundNotActive
	}
	if !s.canSubmitLocked() {
		return domain.ErrUnansweredQuestions
	}

	s.stopCountdownLocked()
	correct := 0
	for _, qs := range s.states {
		if qs.SelectedIndex == qs.Question.CorrectIndex {
			correct++
		}
	}
	s.record = domain.RoundRecord{
		CorrectCount: correct,
		TotalCount:   len(s.states),
	}
	s.phase = domain.RoundSubmitted
	s.applyRecordLocked()
	s.broadcastLocked()
	return nil
}

// Tick consumes one elapsed second of the countdown. At zero the round is
// finalized as timed out: no partial scoring, correct stays at whatever the
// submit path computed, which is nothing.
func (s *GameSession) Tick() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != domain.RoundActive {
		return
	}
	s.remaining--
	if s.remaining > 0 {
		s.broadcastLocked()
		return
	}
	s.remaining = 0
	s.stopCountdownLocked()
	s.record = domain.RoundRecord{
		CorrectCount: 0,
		TotalCount:   len(s.states),
		TimeExpired:  true,
	}
	s.phase = domain.RoundTimedOut
	s.applyRecordLocked()
	s.broadcastLocked()
}

// applyRecordLocked folds the finalized round into the session totals.
// Timed-out rounds contribute zero correct but their full question count,
// keeping the percentage honest across attempted rounds.
func (s *GameSession) applyRecordLocked() {
	s.totals.CumulativeCorrect += s.record.CorrectCount
	s.totals.CumulativeTotal += s.record.TotalCount
}

// Advance starts the next round with the same configuration. Only legal
// once the current round is complete; the previous countdown is already
// stopped by then, and startRoundLocked stops it again before arming.
func (s *GameSession) Advance() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.phase.Complete() {
		return domain.ErrRoundNotComplete
	}
	if len(s.bank.Questions) < s.cfg.QuestionsPerRound {
		return domain.ErrBankTooSmall
	}
	s.totals.RoundNumber++
	s.startRoundLocked()
	s.broadcastLocked()
	return nil
}

// ExitToMenu leaves the game: the countdown is cancelled, the round is
// discarded and cumulative totals reset. The loaded bank stays so the
// player can start over without re-uploading.
func (s *GameSession) ExitToMenu() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopCountdownLocked()
	s.phase = ""
	s.states = nil
	s.remaining = 0
	s.record = domain.RoundRecord{}
	s.totals = domain.SessionTotals{}
	s.broadcastLocked()
}

// Totals returns the cumulative session score.
func (s *GameSession) Totals() domain.SessionTotals {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.totals
}

// Record returns the finalized round outcome; the zero record before any
// round completes.
func (s *GameSession) Record() domain.RoundRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.record
}

// IsCorrectAnswer reports whether answerIndex is the correct option for the
// given question. Only answerable once the round is complete.
func (s *GameSession) IsCorrectAnswer(questionIndex, answerIndex int) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.phase.Complete() {
		return false, domain.ErrRoundNotComplete
	}
	if questionIndex < 0 || questionIndex >= len(s.states) {
		return false, domain.ErrQuestionIndexOutOfRange
	}
	return s.states[questionIndex].Question.CorrectIndex == answerIndex, nil
}

// IsWrongAnswer reports whether the player selected answerIndex and it was
// not the correct option. Only answerable once the round is complete.
func (s *GameSession) IsWrongAnswer(questionIndex, answerIndex int) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.phase.Complete() {
		return false, domain.ErrRoundNotComplete
	}
	if questionIndex < 0 || questionIndex >= len(s.states) {
		return false, domain.ErrQuestionIndexOutOfRange
	}
	qs := s.states[questionIndex]
	return qs.SelectedIndex == answerIndex && qs.Question.CorrectIndex != answerIndex, nil
}

// IsSelected reports whether the player picked answerIndex for the question.
func (s *GameSession) IsSelected(questionIndex, answerIndex int) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if questionIndex < 0 || questionIndex >= len(s.states) {
		return false, domain.ErrQuestionIndexOutOfRange
	}
	return s.states[questionIndex].SelectedIndex == answerIndex, nil
}

// Snapshot returns the current game state, hiding correctness while the
// round is active.
func (s *GameSession) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

func (s *GameSession) snapshotLocked() Snapshot {
	snap := Snapshot{
		SessionID:        s.id,
		Phase:            s.phase,
		RemainingSeconds: s.remaining,
		ThemeIndex:       s.themeIndex,
		CanSubmit:        s.canSubmitLocked(),
		Totals:           s.totals,
		BankSize:         len(s.bank.Questions),
		UpdatedAt:        s.now(),
	}
	if s.phase.Complete() {
		record := s.record
		snap.Record = &record
	}
	for _, qs := range s.states {
		view := QuestionView{
			Text:          qs.Question.Text,
			Answers:       qs.Question.Answers,
			SelectedIndex: qs.SelectedIndex,
			CorrectIndex:  -1,
		}
		if s.phase.Complete() {
			view.CorrectIndex = qs.Question.CorrectIndex
		}
		snap.Questions = append(snap.Questions, view)
	}
	return snap
}

// armCountdownLocked starts the per-second countdown goroutine. Any
// previous countdown is stopped first so at most one is ever live.
func (s *GameSession) armCountdownLocked() {
	s.stopCountdownLocked()
	if s.tickInterval <= 0 {
		return
	}
	stop := make(chan struct{})
	s.stopTimer = stop
	go func() {
		ticker := time.NewTicker(s.tickInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.Tick()
			case <-stop:
				return
			}
		}
	}()
}

// stopCountdownLocked is the single cancellation path for the countdown;
// it is safe to call when no countdown is armed.
func (s *GameSession) stopCountdownLocked() {
	if s.stopTimer != nil {
		close(s.stopTimer)
		s.stopTimer = nil
	}
}

// Close tears the session down, cancelling the countdown and closing all
// subscriber channels.
func (s *GameSession) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopCountdownLocked()
	for ch := range s.subscribers {
		delete(s.subscribers, ch)
		close(ch)
	}
}

func (s *GameSession) subscribe() (<-chan Snapshot, func()) {
	ch := make(chan Snapshot, 8)

	// The initial send happens under the lock so a concurrent broadcast
	// cannot slip a newer snapshot in front of it. The channel is fresh
	// and buffered, so this never blocks.
	s.mu.Lock()
	s.subscribers[ch] = struct{}{}
	ch <- s.snapshotLocked()
	s.mu.Unlock()

	cancel := func() {
		s.mu.Lock()
		if _, ok := s.subscribers[ch]; ok {
			delete(s.subscribers, ch)
			close(ch)
		}
		s.mu.Unlock()
	}
	return ch, cancel
}

// IsIdle reports whether no client is subscribed to this session.
func (s *GameSession) IsIdle() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.subscribers) == 0
}

func (s *GameSession) broadcastLocked() {
	snap := s.snapshotLocked()
	for ch := range s.subscribers {
		select {
		case ch <- snap:
		default:
			// Drop the oldest pending snapshot so a slow client never
			// blocks a state transition.
			select {
			case <-ch:
			default:
			}
			ch <- snap
		}
	}
}
