package domain

// AnswersPerQuestion is the fixed answer count for every question:
// one correct answer plus three wrong ones.
const AnswersPerQuestion = 4

// Unanswered marks a QuestionState whose answer has not been picked yet.
const Unanswered = -1

// Question is a single validated trivia question. Answers holds all four
// options in display order; Answers[CorrectIndex] is the correct one.
// Immutable once produced by the validator.
type Question struct {
	Text         string   `json:"text"`
	Answers      []string `json:"answers"`
	CorrectIndex int      `json:"correctIndex"`
}

// Bank is the full validated question pool available for sampling.
type Bank struct {
	ID        string     `json:"id"`
	Questions []Question `json:"questions"`
}

// QuestionState tracks the player's selection for one question within a
// round. SelectedIndex is Unanswered until the player picks an option.
type QuestionState struct {
	Question      Question
	SelectedIndex int
}

// Answered reports whether the player has picked an option.
func (qs QuestionState) Answered() bool {
	return qs.SelectedIndex != Unanswered
}

// RoundPhase is the lifecycle of one round.
type RoundPhase string

const (
	RoundActive    RoundPhase = "active"
	RoundSubmitted RoundPhase = "submitted"
	RoundTimedOut  RoundPhase = "timedOut"
)

// Complete reports whether the round has been finalized.
func (p RoundPhase) Complete() bool {
	return p == RoundSubmitted || p == RoundTimedOut
}

// RoundRecord is the finalized outcome of one round. Immutable after the
// round completes.
type RoundRecord struct {
	CorrectCount int  `json:"correctCount"`
	TotalCount   int  `json:"totalCount"`
	TimeExpired  bool `json:"timeExpired"`
}

// SessionTotals accumulates performance across rounds of one game session.
// Reset when the player exits to the menu.
type SessionTotals struct {
	CumulativeCorrect int `json:"cumulativeCorrect"`
	CumulativeTotal   int `json:"cumulativeTotal"`
	RoundNumber       int `json:"roundNumber"`
}

// Percentage derives the cumulative score percentage, rounded to the
// nearest integer, 0 when nothing has been answered.
func (t SessionTotals) Percentage() int {
	if t.CumulativeTotal == 0 {
		return 0
	}
	return int(float64(t.CumulativeCorrect)/float64(t.CumulativeTotal)*100 + 0.5)
}

// GameConfig carries the knobs fixed before a session starts.
type GameConfig struct {
	QuestionsPerRound int `json:"questionsPerRound"`
	TimeLimitSeconds  int `json:"timeLimitSeconds"`
}

// DefaultGameConfig matches the original game defaults.
func DefaultGameConfig() GameConfig {
	return GameConfig{QuestionsPerRound: 4, TimeLimitSeconds: 90}
}
