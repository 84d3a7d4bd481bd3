package domain

import "errors"

var (
	// ErrSessionNotFound is returned when a game session has not been initialized.
	ErrSessionNotFound = errors.New("game session not found")
	// ErrBankNotFound indicates the question bank could not be loaded.
	ErrBankNotFound = errors.New("question bank not found")
	// ErrBankTooSmall indicates the bank cannot fill a round.
	ErrBankTooSmall = errors.New("question bank has fewer questions than a round needs")
	// ErrRoundNotActive is returned when an action requires a running round.
	ErrRoundNotActive = errors.New("round is not active")
	// ErrRoundInProgress is returned when starting a round over a running one.
	ErrRoundInProgress = errors.New("a round is already in progress")
	// ErrRoundNotComplete is returned when a reveal or advance is requested mid-round.
	ErrRoundNotComplete = errors.New("round is not complete")
	// ErrUnansweredQuestions is returned when submitting with blank selections left.
	ErrUnansweredQuestions = errors.New("not all questions are answered")
	// ErrQuestionIndexOutOfRange indicates a selection outside the sampled round.
	ErrQuestionIndexOutOfRange = errors.New("question index out of range")
	// ErrAnswerIndexOutOfRange indicates a selection outside the four options.
	ErrAnswerIndexOutOfRange = errors.New("answer index out of range")
	// ErrNotCSVFile is returned when an uploaded filename does not end in .csv.
	ErrNotCSVFile = errors.New("file must have a .csv extension")
)
