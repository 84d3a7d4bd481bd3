// Package question turns parsed CSV rows into a validated question bank.
package question

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"trivia-game-service/internal/domain"
)

// maxReportedErrors caps how many row errors make it into the combined
// failure message; rows beyond the cap are still rejected.
const maxReportedErrors = 3

// Validator builds Question records from raw rows, shuffling each row's
// answers so the correct option's on-screen position is random.
type Validator struct {
	rnd *rand.Rand
}

// NewValidator returns a validator using the given randomness source.
// Pass a seeded source in tests for deterministic shuffles.
func NewValidator(rnd *rand.Rand) *Validator {
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Validator{rnd: rnd}
}

// Validate consumes parsed rows and returns the accepted questions.
//
// Row 0 is a header and skipped. Rows with an empty first field are skipped
// silently. Each remaining row needs at least 5 fields: question, correct
// answer, three wrong answers; extra columns are ignored. Malformed rows are
// excluded with a per-row error. Validation fails as a whole when nothing
// was accepted and errors exist, or when fewer than minRequired questions
// survive.
func (v *Validator) Validate(rows [][]string, minRequired int) ([]domain.Question, error) {
	var (
		questions []domain.Question
		rowErrors []string
	)

	for i, row := range rows {
		if i == 0 {
			continue
		}
		line := i + 1
		if len(row) == 0 || row[0] == "" {
			continue
		}
		if len(row) < 5 {
			rowErrors = append(rowErrors, fmt.Sprintf("Line %d: Not enough columns (need at least 5: question + 4 answers)", line))
			continue
		}

		text, correct := row[0], row[1]
		wrong := row[2:5]

		// Quoted fields keep their interior verbatim, so emptiness is
		// judged on the trimmed value here rather than raw length.
		if strings.TrimSpace(text) == "" {
			rowErrors = append(rowErrors, fmt.Sprintf("Line %d: Question is empty", line))
			continue
		}
		if strings.TrimSpace(correct) == "" {
			rowErrors = append(rowErrors, fmt.Sprintf("Line %d: Correct answer is empty", line))
			continue
		}
		if strings.TrimSpace(wrong[0]) == "" || strings.TrimSpace(wrong[1]) == "" || strings.TrimSpace(wrong[2]) == "" {
			rowErrors = append(rowErrors, fmt.Sprintf("Line %d: One or more wrong answers are empty", line))
			continue
		}

		answers := []string{correct, wrong[0], wrong[1], wrong[2]}
		correctIndex := v.shuffleAnswers(answers)
		questions = append(questions, domain.Question{
			Text:         text,
			Answers:      answers,
			CorrectIndex: correctIndex,
		})
	}

	if len(questions) == 0 && len(rowErrors) > 0 {
		reported := rowErrors
		if len(reported) > maxReportedErrors {
			reported = reported[:maxReportedErrors]
		}
		return nil, fmt.Errorf("no valid questions found:\n%s", strings.Join(reported, "\n"))
	}
	if len(questions) < minRequired {
		return nil, fmt.Errorf("Need at least %d valid questions. Found only %d.", minRequired, len(questions))
	}
	return questions, nil
}

// shuffleAnswers performs an in-place Fisher-Yates shuffle over the four
// answers and returns the correct answer's new index. answers[0] must hold
// the correct answer on entry.
func (v *Validator) shuffleAnswers(answers []string) int {
	correct := 0
	for i := len(answers) - 1; i > 0; i-- {
		j := v.rnd.Intn(i + 1)
		answers[i], answers[j] = answers[j], answers[i]
		switch correct {
		case i:
			correct = j
		case j:
			correct = i
		}
	}
	return correct
}
