package scoring

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/HalatsynZakhar/TeacherTest/internal/answerkey"
)

func key(variant int, answers []string, weights []float64) answerkey.Key {
	return answerkey.Key{VariantNumber: variant, Answers: answers, Weights: weights}
}

func TestPointShares(t *testing.T) {
	// Three questions weighted 1,1,2 split the 12-point pool as 3,3,6.
	e := NewEngine()
	res, err := e.Check(key(1, []string{"A", "B", "C"}, []float64{1, 1, 2}), []string{"A", "B", "C"})
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	want := []float64{3, 3, 6}
	for i, qr := range res.PerQuestion {
		if math.Abs(qr.MaxPoints-want[i]) > 1e-9 {
			t.Fatalf("MaxPoints[%d] = %v, want %v", i, qr.MaxPoints, want[i])
		}
		if math.Abs(qr.EarnedPoints-want[i]) > 1e-9 {
			t.Fatalf("EarnedPoints[%d] = %v, want %v", i, qr.EarnedPoints, want[i])
		}
	}
	if math.Abs(res.WeightedScore-12) > 1e-9 || res.CorrectCount != 3 {
		t.Fatalf("score = %v correct = %d, want 12 and 3", res.WeightedScore, res.CorrectCount)
	}
	if res.MaxScore != 12 {
		t.Fatalf("MaxScore = %v, want 12", res.MaxScore)
	}
}

func TestShareConservation(t *testing.T) {
	weights := []float64{0.3, 1.7, 2.5, 0.9, 4.1, 0.01, 7.3}
	answers := make([]string, len(weights))
	blank := make([]string, len(weights))
	for i := range answers {
		answers[i] = "A"
	}
	e := NewEngine()
	res, err := e.Check(key(1, answers, weights), blank)
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	var sum float64
	for _, qr := range res.PerQuestion {
		sum += qr.MaxPoints
	}
	if math.Abs(sum-12) > 1e-9 {
		t.Fatalf("share sum = %v, want 12 within 1e-9", sum)
	}
}

func TestSingleLetterMatching(t *testing.T) {
	e := NewEngine()
	tests := []struct {
		name    string
		student string
		correct bool
	}{
		{"exact", "A", true},
		{"lower_case", "a", true},
		{"padded", " a ", true},
		{"wrong_letter", "B", false},
		{"empty", "", false},
		{"letter_with_junk", "A.", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := e.Check(key(1, []string{"A"}, []float64{1}), []string{tt.student})
			if err != nil {
				t.Fatalf("Check: %v", err)
			}
			if got := res.PerQuestion[0].IsCorrect; got != tt.correct {
				t.Fatalf("IsCorrect = %v, want %v", got, tt.correct)
			}
		})
	}
}

func TestLetterSetMatching(t *testing.T) {
	e := NewEngine()
	tests := []struct {
		name    string
		student string
		correct bool
	}{
		{"same_order", "ABC", true},
		{"any_order", "cab", true},
		{"with_separators", "A, b; C", true},
		{"subset", "AB", false},
		{"single_of_set", "A", false},
		{"superset", "ABCD", false},
		{"wrong_letter_mixed_in", "ABX", false},
		{"disjoint", "DE", false},
		{"empty", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := e.Check(key(1, []string{"ABC"}, []float64{1}), []string{tt.student})
			if err != nil {
				t.Fatalf("Check: %v", err)
			}
			qr := res.PerQuestion[0]
			if qr.IsCorrect != tt.correct {
				t.Fatalf("IsCorrect = %v, want %v", qr.IsCorrect, tt.correct)
			}
			// Binary: anything but the exact set earns zero.
			wantPoints := 0.0
			if tt.correct {
				wantPoints = 12.0
			}
			if math.Abs(qr.EarnedPoints-wantPoints) > 1e-9 {
				t.Fatalf("EarnedPoints = %v, want %v", qr.EarnedPoints, wantPoints)
			}
		})
	}
}

func TestFreeTextMatching(t *testing.T) {
	e := NewEngine()
	tests := []struct {
		name    string
		answer  string
		student string
		correct bool
	}{
		{"exact", "hello", "hello", true},
		{"case_folded", "Hello", "hELLO", true},
		{"padded", "hello", "  hello ", true},
		{"different", "hello", "goodbye", false},
		{"empty", "hello", "", false},
		{"number_text", "42", "42", true},
		{"cyrillic_folded", "Так", "так", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := e.Check(key(1, []string{tt.answer}, []float64{1}), []string{tt.student})
			if err != nil {
				t.Fatalf("Check: %v", err)
			}
			if got := res.PerQuestion[0].IsCorrect; got != tt.correct {
				t.Fatalf("IsCorrect = %v, want %v", got, tt.correct)
			}
		})
	}
}

func TestEmptyAnswerNeverCorrect(t *testing.T) {
	e := NewEngine()
	res, err := e.Check(
		key(1, []string{"A", "BC", "hello"}, []float64{1, 1, 1}),
		[]string{"", "", ""},
	)
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if res.CorrectCount != 0 || res.WeightedScore != 0 {
		t.Fatalf("blank submission scored: %+v", res)
	}
}

func TestMixedSubmission(t *testing.T) {
	// Two of three right: 4+4 of 12 and two thirds of a percent scale.
	e := NewEngine()
	res, err := e.Check(
		key(2, []string{"A", "BC", "hello"}, []float64{1, 1, 1}),
		[]string{"A", "BC", ""},
	)
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if res.CorrectCount != 2 {
		t.Fatalf("CorrectCount = %d, want 2", res.CorrectCount)
	}
	if math.Abs(res.WeightedScore-8.0) > 1e-9 {
		t.Fatalf("WeightedScore = %v, want 8.0", res.WeightedScore)
	}
	if math.Abs(res.ScorePercentage-200.0/3.0) > 1e-9 {
		t.Fatalf("ScorePercentage = %v, want ~66.67", res.ScorePercentage)
	}
	if res.TotalQuestions != 3 || res.VariantNumber != 2 {
		t.Fatalf("result header = %+v", res)
	}
}

func TestCountMismatchIsHardError(t *testing.T) {
	e := NewEngine()
	res, err := e.Check(key(7, []string{"A", "B", "C"}, []float64{1, 1, 1}), []string{"A", "B"})
	if !errors.Is(err, ErrAnswerCount) {
		t.Fatalf("err = %v, want ErrAnswerCount", err)
	}
	if !strings.Contains(err.Error(), "variant 7") {
		t.Fatalf("error %q does not name the variant", err)
	}
	if res.PerQuestion != nil || res.TotalQuestions != 0 {
		t.Fatalf("partial result returned: %+v", res)
	}
}

func TestNonPositiveWeightTotal(t *testing.T) {
	e := NewEngine()
	if _, err := e.Check(key(1, []string{"A"}, []float64{0}), []string{"A"}); !errors.Is(err, ErrWeightTotal) {
		t.Fatalf("err = %v, want ErrWeightTotal", err)
	}
}

func TestPartialPolicy(t *testing.T) {
	e := NewEngine(WithPolicy(PartialPolicy{}))
	k := key(1, []string{"ABC"}, []float64{1})

	res, err := e.Check(k, []string{"AB"})
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	qr := res.PerQuestion[0]
	if qr.IsCorrect {
		t.Fatal("subset marked exact")
	}
	if math.Abs(qr.EarnedPoints-8.0) > 1e-9 {
		t.Fatalf("EarnedPoints = %v, want 8 (two of three letters)", qr.EarnedPoints)
	}

	// A wrong letter kills the partial award.
	res, err = e.Check(k, []string{"ABD"})
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if res.PerQuestion[0].EarnedPoints != 0 {
		t.Fatalf("EarnedPoints = %v, want 0 with a wrong letter", res.PerQuestion[0].EarnedPoints)
	}

	// The default engine stays binary.
	res, err = NewEngine().Check(k, []string{"AB"})
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if res.PerQuestion[0].EarnedPoints != 0 {
		t.Fatalf("binary default awarded %v for a subset", res.PerQuestion[0].EarnedPoints)
	}
}
