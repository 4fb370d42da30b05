package bank

import (
	"fmt"
	"strings"

	"github.com/HalatsynZakhar/TeacherTest/internal/letters"
)

// Question types. Stored as plain strings so banks serialize without an
// enum mapping layer.
const (
	SingleChoice = "single_choice"
	MultiChoice  = "multi_choice"
	OpenEnded    = "open_ended"
)

// Question is one validated bank row. Rows sharing a Number are alternative
// versions of the same question; the resolver picks one per variant.
// Questions are value objects: loaders build them once, nothing mutates them.
type Question struct {
	Number  int      `json:"number"`
	Text    string   `json:"text"`
	Type    string   `json:"type"`
	Options []string `json:"options,omitempty"` // ordered; empty for open_ended
	Correct string   `json:"correct"`           // option letters, or canonical text for open_ended
	Weight  float64  `json:"weight"`
}

// Clone returns a copy with its own options slice.
func (q Question) Clone() Question {
	out := q
	if len(q.Options) > 0 {
		out.Options = append([]string(nil), q.Options...)
	}
	return out
}

// Validate enforces the guarantees downstream code relies on: positive
// number and weight, non-empty text, a known type, and a correct answer
// that actually references the question's options.
func (q Question) Validate(alpha letters.Alphabet) error {
	if q.Number <= 0 {
		return fmt.Errorf("question %d: number must be positive", q.Number)
	}
	if strings.TrimSpace(q.Text) == "" {
		return fmt.Errorf("question %d: empty text", q.Number)
	}
	if q.Weight <= 0 {
		return fmt.Errorf("question %d: weight must be positive, got %v", q.Number, q.Weight)
	}
	switch q.Type {
	case OpenEnded:
		if len(q.Options) != 0 {
			return fmt.Errorf("question %d: open-ended question must not carry options", q.Number)
		}
		if strings.TrimSpace(q.Correct) == "" {
			return fmt.Errorf("question %d: open-ended question needs a reference answer", q.Number)
		}
		// The persisted key comma-joins answers; a comma inside one would
		// shift every later position.
		if strings.ContainsRune(q.Correct, ',') {
			return fmt.Errorf("question %d: reference answer must not contain commas", q.Number)
		}
	case SingleChoice, MultiChoice:
		if len(q.Options) == 0 {
			return fmt.Errorf("question %d: choice question without options", q.Number)
		}
		if !alpha.IsLetters(q.Correct) {
			return fmt.Errorf("question %d: correct answer %q is not option letters", q.Number, q.Correct)
		}
		set := alpha.Set(q.Correct)
		if q.Type == SingleChoice && len(set) != 1 {
			return fmt.Errorf("question %d: single-choice question needs exactly one correct letter, got %q", q.Number, q.Correct)
		}
		if q.Type == MultiChoice && len(set) == 0 {
			return fmt.Errorf("question %d: multi-choice question needs at least one correct letter", q.Number)
		}
		for r := range set {
			i, ok := alpha.Index(r)
			if !ok || i >= len(q.Options) {
				return fmt.Errorf("question %d: correct letter %q does not name an option", q.Number, string(r))
			}
		}
	default:
		return fmt.Errorf("question %d: unknown type %q", q.Number, q.Type)
	}
	return nil
}

// ValidateAll validates a whole bank in order.
func ValidateAll(questions []Question, alpha letters.Alphabet) error {
	for i, q := range questions {
		if err := q.Validate(alpha); err != nil {
			return fmt.Errorf("bank row %d: %w", i+1, err)
		}
	}
	return nil
}
