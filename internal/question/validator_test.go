package question

import (
	"math/rand"
	"strings"
	"testing"

	"trivia-game-service/internal/csvtable"
)

func newTestValidator() *Validator {
	return NewValidator(rand.New(rand.NewSource(42)))
}

func TestValidateAcceptsWellFormedRows(t *testing.T) {
	rows := csvtable.Parse("question,correct,w1,w2,w3\nQ1,C1,A,B,C\nQ2,C2,D,E,F\n")
	questions, err := newTestValidator().Validate(rows, 2)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if len(questions) != 2 {
		t.Fatalf("expected 2 questions, got %d", len(questions))
	}
	for _, q := range questions {
		if len(q.Answers) != 4 {
			t.Fatalf("expected 4 answers, got %d", len(q.Answers))
		}
	}
}

func TestValidateCorrectIndexRoundTrip(t *testing.T) {
	v := newTestValidator()
	rows := csvtable.Parse("h\nQ,RIGHT,w1,w2,w3\n")
	for i := 0; i < 50; i++ {
		questions, err := v.Validate(rows, 1)
		if err != nil {
			t.Fatalf("validate: %v", err)
		}
		if got := questions[0].Answers[questions[0].CorrectIndex]; got != "RIGHT" {
			t.Fatalf("correctIndex points at %q, want RIGHT", got)
		}
	}
}

func TestValidateShuffleCoversAllPositions(t *testing.T) {
	v := newTestValidator()
	rows := csvtable.Parse("h\nQ,RIGHT,w1,w2,w3\n")
	seen := map[int]bool{}
	for i := 0; i < 200; i++ {
		questions, _ := v.Validate(rows, 1)
		seen[questions[0].CorrectIndex] = true
	}
	for pos := 0; pos < 4; pos++ {
		if !seen[pos] {
			t.Fatalf("correct answer never landed at position %d", pos)
		}
	}
}

func TestValidateNotEnoughColumns(t *testing.T) {
	rows := csvtable.Parse("h\nQ,C,A,B\nQ2,C2,D,E,F\n")
	questions, err := newTestValidator().Validate(rows, 1)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if len(questions) != 1 {
		t.Fatalf("expected short row excluded, got %d questions", len(questions))
	}
}

func TestValidateEmptyFieldErrors(t *testing.T) {
	cases := []struct {
		name string
		csv  string
		want string
	}{
		{"empty question", "h\n\"  \",C,A,B,D\n", "Line 2: Question is empty"},
		{"empty correct", "h\nQ,\" \",A,B,D\n", "Line 2: Correct answer is empty"},
		{"empty wrong", "h\nQ,C,A,\" \",D\n", "Line 2: One or more wrong answers are empty"},
	}
	for _, tc := range cases {
		_, err := newTestValidator().Validate(csvtable.Parse(tc.csv), 1)
		if err == nil {
			t.Fatalf("%s: expected aggregate failure", tc.name)
		}
		if !strings.Contains(err.Error(), tc.want) {
			t.Fatalf("%s: message %q missing %q", tc.name, err.Error(), tc.want)
		}
	}
}

func TestValidateAllRowsBadReportsFirstThreeErrors(t *testing.T) {
	csv := "h\nQ,C,A,B\nQ,C,A,B\nQ,C,A,B\nQ,C,A,B\n"
	_, err := newTestValidator().Validate(csvtable.Parse(csv), 1)
	if err == nil {
		t.Fatalf("expected aggregate failure")
	}
	msg := err.Error()
	if strings.Count(msg, "Not enough columns") != 3 {
		t.Fatalf("expected exactly 3 reported errors, got: %s", msg)
	}
}

func TestValidateMinimumGuard(t *testing.T) {
	rows := csvtable.Parse("h\nQ1,C,A,B,D\nQ2,C,A,B,D\nQ3,C,A,B,D\n")
	_, err := newTestValidator().Validate(rows, 4)
	if err == nil {
		t.Fatalf("expected minimum guard failure")
	}
	want := "Need at least 4 valid questions. Found only 3."
	if err.Error() != want {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestValidateSkipsRowsWithEmptyFirstField(t *testing.T) {
	rows := [][]string{
		{"header"},
		{"", "C", "A", "B", "D"},
		{"Q", "C", "A", "B", "D"},
	}
	questions, err := newTestValidator().Validate(rows, 1)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if len(questions) != 1 {
		t.Fatalf("expected blank-first-field row skipped silently, got %d", len(questions))
	}
}

func TestValidateIgnoresExtraColumns(t *testing.T) {
	rows := csvtable.Parse("h\nQ,C,A,B,D,extra,more\n")
	questions, err := newTestValidator().Validate(rows, 1)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if len(questions[0].Answers) != 4 {
		t.Fatalf("expected extra columns ignored, got %d answers", len(questions[0].Answers))
	}
}
