package variant

import (
	"errors"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/HalatsynZakhar/TeacherTest/internal/bank"
	"github.com/HalatsynZakhar/TeacherTest/internal/letters"
)

func seeded(a, b uint64) *rand.Rand { return rand.New(rand.NewPCG(a, b)) }

func threeSingles() []bank.Question {
	return []bank.Question{
		{Number: 1, Text: "q1", Type: bank.SingleChoice, Options: []string{"a1", "a2"}, Correct: "A", Weight: 1},
		{Number: 2, Text: "q2", Type: bank.SingleChoice, Options: []string{"b1", "b2"}, Correct: "B", Weight: 1},
		{Number: 3, Text: "q3", Type: bank.SingleChoice, Options: []string{"c1", "c2"}, Correct: "A", Weight: 2},
	}
}

func TestGenerateKeepsOrderAndWeightsWithoutShuffle(t *testing.T) {
	g := New(WithRand(seeded(1, 1)))
	vs, err := g.Generate(threeSingles(), Params{
		NumVariants:   1,
		QuestionOrder: OrderNone,
		OptionOrder:   OptionsNone,
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(vs) != 1 {
		t.Fatalf("got %d variants, want 1", len(vs))
	}
	v := vs[0]
	if v.Number != 1 {
		t.Fatalf("variant number %d, want 1", v.Number)
	}
	wantWeights := []float64{1, 1, 2}
	for i, w := range v.Weights() {
		if w != wantWeights[i] {
			t.Fatalf("weights = %v, want %v", v.Weights(), wantWeights)
		}
	}
	wantKey := []string{"A", "B", "A"}
	for i, k := range v.AnswerKey() {
		if k != wantKey[i] {
			t.Fatalf("answer key = %v, want %v", v.AnswerKey(), wantKey)
		}
	}
	for i, q := range v.Questions {
		if q.Number != i+1 {
			t.Fatalf("question order %v, want ascending numbers", v.Questions)
		}
	}
}

func TestRecomputeLettersAfterReorder(t *testing.T) {
	// Correct options X and Z ({A,C} in source order) must become {A,B}
	// once the options are laid out as Z,X,W,Y.
	got, err := RecomputeLetters(letters.Latin, []string{"Z", "X", "W", "Y"}, []string{"X", "Z"})
	if err != nil {
		t.Fatalf("RecomputeLetters: %v", err)
	}
	if got != "AB" {
		t.Fatalf("recomputed letters = %q, want %q", got, "AB")
	}
}

func TestRecomputeLettersMissingText(t *testing.T) {
	_, err := RecomputeLetters(letters.Latin, []string{"Z", "X"}, []string{"W"})
	if !errors.Is(err, ErrLetterUnmapped) {
		t.Fatalf("err = %v, want ErrLetterUnmapped", err)
	}
}

func TestShuffleInvariantCorrectness(t *testing.T) {
	src := []bank.Question{{
		Number:  1,
		Text:    "pick two",
		Type:    bank.MultiChoice,
		Options: []string{"X", "Y", "Z", "W"},
		Correct: "AC", // X and Z
		Weight:  1,
	}}
	g := New(WithRand(seeded(42, 99)))
	vs, err := g.Generate(src, Params{NumVariants: 50, QuestionOrder: OrderNone, OptionOrder: OptionsRandom})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	for _, v := range vs {
		q := v.Questions[0]
		want := map[string]bool{"X": true, "Z": true}
		got := map[string]bool{}
		for _, r := range q.Correct {
			i, ok := letters.Latin.Index(r)
			if !ok || i >= len(q.Options) {
				t.Fatalf("variant %d: letter %q out of range", v.Number, string(r))
			}
			got[q.Options[i]] = true
		}
		if len(got) != len(want) {
			t.Fatalf("variant %d: letters %q name %v, want X and Z", v.Number, q.Correct, got)
		}
		for text := range want {
			if !got[text] {
				t.Fatalf("variant %d: letters %q miss option %q", v.Number, q.Correct, text)
			}
		}
	}
}

func TestEasyToHardIsStable(t *testing.T) {
	src := []bank.Question{
		{Number: 1, Text: "w3", Type: bank.OpenEnded, Correct: "x", Weight: 3},
		{Number: 2, Text: "w1a", Type: bank.OpenEnded, Correct: "x", Weight: 1},
		{Number: 3, Text: "w2", Type: bank.OpenEnded, Correct: "x", Weight: 2},
		{Number: 4, Text: "w1b", Type: bank.OpenEnded, Correct: "x", Weight: 1},
	}
	g := New(WithRand(seeded(5, 6)))
	vs, err := g.Generate(src, Params{NumVariants: 1, QuestionOrder: OrderEasyToHard, OptionOrder: OptionsNone})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	var gotTexts []string
	for _, q := range vs[0].Questions {
		gotTexts = append(gotTexts, q.Text)
	}
	want := []string{"w1a", "w1b", "w2", "w3"}
	for i := range want {
		if gotTexts[i] != want[i] {
			t.Fatalf("order = %v, want %v", gotTexts, want)
		}
	}
}

func TestFullShufflePermutesQuestions(t *testing.T) {
	src := make([]bank.Question, 0, 8)
	for i := 1; i <= 8; i++ {
		src = append(src, bank.Question{Number: i, Text: "q", Type: bank.OpenEnded, Correct: "x", Weight: 1})
	}
	g := New(WithRand(seeded(2, 3)))
	vs, err := g.Generate(src, Params{NumVariants: 20, QuestionOrder: OrderFullShuffle, OptionOrder: OptionsNone})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	moved := false
	for _, v := range vs {
		if len(v.Questions) != 8 {
			t.Fatalf("variant %d: %d questions, want 8", v.Number, len(v.Questions))
		}
		seen := map[int]bool{}
		for i, q := range v.Questions {
			seen[q.Number] = true
			if q.Number != i+1 {
				moved = true
			}
		}
		if len(seen) != 8 {
			t.Fatalf("variant %d: shuffle dropped or duplicated questions", v.Number)
		}
	}
	if !moved {
		t.Fatal("20 full shuffles never changed the question order")
	}
}

func TestAlternatesVaryAcrossVariants(t *testing.T) {
	src := []bank.Question{
		{Number: 1, Text: "alt-a", Type: bank.OpenEnded, Correct: "x", Weight: 1},
		{Number: 1, Text: "alt-b", Type: bank.OpenEnded, Correct: "x", Weight: 1},
	}
	g := New(WithRand(seeded(9, 9)))
	vs, err := g.Generate(src, Params{NumVariants: 60, QuestionOrder: OrderNone, OptionOrder: OptionsNone})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	seen := map[string]bool{}
	for _, v := range vs {
		if len(v.Questions) != 1 {
			t.Fatalf("variant %d: %d questions, want 1", v.Number, len(v.Questions))
		}
		seen[v.Questions[0].Text] = true
	}
	if !seen["alt-a"] || !seen["alt-b"] {
		t.Fatalf("alternates never varied across 60 variants: %v", seen)
	}
}

func TestOpenEndedKeepsCanonicalAnswer(t *testing.T) {
	src := []bank.Question{{Number: 1, Text: "define", Type: bank.OpenEnded, Correct: "  Photosynthesis ", Weight: 1}}
	g := New(WithRand(seeded(4, 4)))
	vs, err := g.Generate(src, Params{NumVariants: 1})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	q := vs[0].Questions[0]
	if len(q.Options) != 0 {
		t.Fatalf("open-ended instance grew options: %v", q.Options)
	}
	if q.Correct != "Photosynthesis" {
		t.Fatalf("correct = %q, want trimmed canonical text", q.Correct)
	}
}

func TestGenerateConfigErrors(t *testing.T) {
	g := New(WithRand(seeded(1, 2)))
	if _, err := g.Generate(threeSingles(), Params{NumVariants: 0}); !errors.Is(err, ErrNoVariants) {
		t.Fatalf("zero variants: err = %v, want ErrNoVariants", err)
	}
	if _, err := g.Generate(nil, Params{NumVariants: 1}); !errors.Is(err, ErrEmptyBank) {
		t.Fatalf("empty bank: err = %v, want ErrEmptyBank", err)
	}
	if _, err := g.Generate(threeSingles(), Params{NumVariants: 1, QuestionOrder: "hardest_first"}); err == nil {
		t.Fatal("unknown question order accepted")
	}
	if _, err := g.Generate(threeSingles(), Params{NumVariants: 1, OptionOrder: "reversed"}); err == nil {
		t.Fatal("unknown option order accepted")
	}
}

func TestTooFewOptionsAbortsWholeBatch(t *testing.T) {
	src := []bank.Question{
		{Number: 1, Text: "fine", Type: bank.SingleChoice, Options: []string{"a", "b"}, Correct: "A", Weight: 1},
		{Number: 2, Text: "broken", Type: bank.SingleChoice, Options: []string{"only", "  "}, Correct: "A", Weight: 1},
	}
	g := New(WithRand(seeded(8, 8)))
	vs, err := g.Generate(src, Params{NumVariants: 3, QuestionOrder: OrderNone, OptionOrder: OptionsNone})
	if !errors.Is(err, ErrTooFewOptions) {
		t.Fatalf("err = %v, want ErrTooFewOptions", err)
	}
	if !strings.Contains(err.Error(), "question 2") {
		t.Fatalf("error %q does not name the offending question", err)
	}
	if vs != nil {
		t.Fatal("partial batch returned alongside error")
	}
}

func TestUnmappableLetterAbortsWholeBatch(t *testing.T) {
	src := []bank.Question{
		{Number: 7, Text: "broken", Type: bank.MultiChoice, Options: []string{"a", "b"}, Correct: "AC", Weight: 1},
	}
	g := New(WithRand(seeded(8, 9)))
	vs, err := g.Generate(src, Params{NumVariants: 2, QuestionOrder: OrderNone, OptionOrder: OptionsNone})
	if !errors.Is(err, ErrLetterUnmapped) {
		t.Fatalf("err = %v, want ErrLetterUnmapped", err)
	}
	if !strings.Contains(err.Error(), "question 7") {
		t.Fatalf("error %q does not name the offending question", err)
	}
	if vs != nil {
		t.Fatal("partial batch returned alongside error")
	}
}

func TestBlankOptionCellsAreSkipped(t *testing.T) {
	src := []bank.Question{{
		Number:  1,
		Text:    "q",
		Type:    bank.SingleChoice,
		Options: []string{"keep1", "", "keep2", "   "},
		Correct: "B", // second non-blank cell
		Weight:  1,
	}}
	g := New(WithRand(seeded(3, 1)))
	vs, err := g.Generate(src, Params{NumVariants: 1, QuestionOrder: OrderNone, OptionOrder: OptionsNone})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	q := vs[0].Questions[0]
	if len(q.Options) != 2 {
		t.Fatalf("options = %v, want blanks dropped", q.Options)
	}
	if q.Correct != "B" {
		t.Fatalf("correct = %q, want B (second kept option)", q.Correct)
	}
	if q.Options[1] != "keep2" {
		t.Fatalf("options = %v, want keep2 second", q.Options)
	}
}
