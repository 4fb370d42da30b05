package scoring

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/HalatsynZakhar/TeacherTest/internal/answerkey"
	"github.com/HalatsynZakhar/TeacherTest/internal/letters"
)

// TotalPoints is the fixed pool every variant's weights normalize into.
const TotalPoints = 12.0

var (
	ErrAnswerCount = errors.New("submission answer count does not match the key")
	ErrWeightTotal = errors.New("weight total is not positive")
)

// QuestionResult is the per-question breakdown of a check.
type QuestionResult struct {
	StudentAnswer string  `json:"student_answer"`
	CorrectAnswer string  `json:"correct_answer"`
	IsCorrect     bool    `json:"is_correct"`
	EarnedPoints  float64 `json:"earned_points"`
	MaxPoints     float64 `json:"max_points"`
}

// CheckResult is one graded submission. Built fresh per call, never stored.
type CheckResult struct {
	VariantNumber   int              `json:"variant_number"`
	TotalQuestions  int              `json:"total_questions"`
	CorrectCount    int              `json:"correct_count"`
	ScorePercentage float64          `json:"score_percentage"`
	WeightedScore   float64          `json:"weighted_score"`
	MaxScore        float64          `json:"max_score"`
	PerQuestion     []QuestionResult `json:"per_question"`
}

// Engine grades submissions against decoded answer keys.
type Engine struct {
	alpha  letters.Alphabet
	policy Policy
}

type Option func(*Engine)

func WithAlphabet(a letters.Alphabet) Option { return func(e *Engine) { e.alpha = a } }
func WithPolicy(p Policy) Option             { return func(e *Engine) { e.policy = p } }

func NewEngine(opts ...Option) *Engine {
	e := &Engine{alpha: letters.Latin, policy: BinaryPolicy{}}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Check grades one submission. Per-question point values are re-derived
// from the stored weights on every call, so the shares always sum to the
// full pool no matter how the key was persisted. The kind of comparison is
// chosen by the shape of the stored correct answer: one alphabet letter,
// a letter set, or free text.
func (e *Engine) Check(key answerkey.Key, studentAnswers []string) (CheckResult, error) {
	n := len(key.Answers)
	if len(studentAnswers) != n {
		return CheckResult{}, fmt.Errorf("variant %d: key has %d answers, submission has %d: %w",
			key.VariantNumber, n, len(studentAnswers), ErrAnswerCount)
	}

	var total float64
	for _, w := range key.Weights {
		total += w
	}
	if total <= 0 {
		return CheckResult{}, fmt.Errorf("variant %d: %w", key.VariantNumber, ErrWeightTotal)
	}

	res := CheckResult{
		VariantNumber:  key.VariantNumber,
		TotalQuestions: n,
		MaxScore:       TotalPoints,
		PerQuestion:    make([]QuestionResult, 0, n),
	}
	for i := 0; i < n; i++ {
		points := key.Weights[i] / total * TotalPoints
		m := e.match(key.Answers[i], studentAnswers[i])
		earned := e.policy.Award(m, points)
		res.PerQuestion = append(res.PerQuestion, QuestionResult{
			StudentAnswer: strings.TrimSpace(studentAnswers[i]),
			CorrectAnswer: key.Answers[i],
			IsCorrect:     m.Exact,
			EarnedPoints:  earned,
			MaxPoints:     points,
		})
		res.WeightedScore += earned
		if earned > 0 {
			res.CorrectCount++
		}
	}
	res.ScorePercentage = res.WeightedScore / TotalPoints * 100
	return res, nil
}

func (e *Engine) match(correct, student string) Match {
	correct = strings.TrimSpace(correct)
	student = strings.TrimSpace(student)

	switch {
	case e.alpha.IsLetters(correct) && utf8.RuneCountInString(correct) == 1:
		// Single letter: case-insensitive exact match.
		if student == "" {
			return Match{Want: 1}
		}
		ok := strings.EqualFold(student, correct)
		return Match{Exact: ok, Hits: boolToInt(ok), Want: 1}

	case e.alpha.IsLetters(correct):
		// Letter set: order-free equality, separators tolerated on the
		// student side.
		correctSet := e.alpha.Set(correct)
		if student == "" {
			return Match{Want: len(correctSet)}
		}
		studentSet := e.alpha.Set(student)
		hits, extra := 0, 0
		for r := range studentSet {
			if _, ok := correctSet[r]; ok {
				hits++
			} else {
				extra++
			}
		}
		exact := extra == 0 && hits == len(correctSet) && len(studentSet) == len(correctSet)
		return Match{Exact: exact, Hits: hits, Want: len(correctSet), Extra: extra}

	default:
		// Free text: trim both sides, fold case, require equality.
		if student == "" {
			return Match{Want: 1}
		}
		ok := strings.EqualFold(student, correct)
		return Match{Exact: ok, Hits: boolToInt(ok), Want: 1}
	}
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
