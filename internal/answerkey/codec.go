package answerkey

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/HalatsynZakhar/TeacherTest/internal/variant"
)

// Entry is the at-rest form of one variant's answer key: two flat
// comma-joined string fields, positionally aligned with the variant's
// question order. The alignment is the only channel by which grading
// later recovers per-question weight, so nothing richer is stored.
type Entry struct {
	VariantNumber int    `json:"variant_number"`
	Answers       string `json:"answers"`
	Weights       string `json:"weights"`
}

// Key is a decoded entry, ready for grading.
type Key struct {
	VariantNumber int
	Answers       []string
	Weights       []float64
}

var (
	ErrEmptyAnswer   = errors.New("empty answer field")
	ErrBadWeight     = errors.New("weight is not a positive number")
	ErrCountMismatch = errors.New("answers and weights counts differ")
)

const fieldSep = ", "

// Encode flattens a variant's answers and weights in question order.
func Encode(v variant.Variant) Entry {
	weights := v.Weights()
	ws := make([]string, len(weights))
	for i, w := range weights {
		ws[i] = strconv.FormatFloat(w, 'g', -1, 64)
	}
	return Entry{
		VariantNumber: v.Number,
		Answers:       strings.Join(v.AnswerKey(), fieldSep),
		Weights:       strings.Join(ws, fieldSep),
	}
}

// Decode parses an entry back into aligned answer and weight lists. Every
// failure names the variant and the field; a decoded key always satisfies
// len(Answers) == len(Weights) with all weights positive.
func Decode(e Entry) (Key, error) {
	answers := splitTrim(e.Answers)
	for i, a := range answers {
		if a == "" {
			return Key{}, fmt.Errorf("variant %d: answers[%d]: %w", e.VariantNumber, i+1, ErrEmptyAnswer)
		}
	}

	rawWeights := splitTrim(e.Weights)
	weights := make([]float64, 0, len(rawWeights))
	for i, s := range rawWeights {
		w, err := strconv.ParseFloat(s, 64)
		if err != nil || w <= 0 {
			return Key{}, fmt.Errorf("variant %d: weights[%d] = %q: %w", e.VariantNumber, i+1, s, ErrBadWeight)
		}
		weights = append(weights, w)
	}

	if len(answers) != len(weights) {
		return Key{}, fmt.Errorf("variant %d: %d answers vs %d weights: %w",
			e.VariantNumber, len(answers), len(weights), ErrCountMismatch)
	}
	return Key{VariantNumber: e.VariantNumber, Answers: answers, Weights: weights}, nil
}

func splitTrim(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, len(parts))
	for i, p := range parts {
		out[i] = strings.TrimSpace(p)
	}
	return out
}
