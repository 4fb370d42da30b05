package variant

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"sort"
	"strings"

	"github.com/HalatsynZakhar/TeacherTest/internal/bank"
	"github.com/HalatsynZakhar/TeacherTest/internal/letters"
)

// Question order modes.
const (
	OrderFullShuffle = "full_shuffle"
	OrderEasyToHard  = "easy_to_hard"
	OrderNone        = "none"
)

// Option order modes.
const (
	OptionsRandom = "random"
	OptionsNone   = "none"
)

var (
	ErrNoVariants     = errors.New("number of variants must be positive")
	ErrEmptyBank      = errors.New("question bank is empty")
	ErrBadOrderMode   = errors.New("unknown order mode")
	ErrTooFewOptions  = errors.New("choice question has fewer than two options")
	ErrLetterUnmapped = errors.New("correct letter cannot be mapped to an option")
)

// Params controls one generation batch. Zero-value order modes mean
// full_shuffle questions and random options.
type Params struct {
	NumVariants   int    `json:"num_variants"`
	QuestionOrder string `json:"question_order,omitempty"`
	OptionOrder   string `json:"option_order,omitempty"`
}

// Normalized fills the default order modes in.
func (p Params) Normalized() Params {
	if p.QuestionOrder == "" {
		p.QuestionOrder = OrderFullShuffle
	}
	if p.OptionOrder == "" {
		p.OptionOrder = OptionsRandom
	}
	return p
}

// QuestionInstance is one question as it appears on one printed variant:
// options in their final order, correct letters recomputed against it.
type QuestionInstance struct {
	Number  int      `json:"number"`
	Text    string   `json:"text"`
	Type    string   `json:"type"`
	Options []string `json:"options,omitempty"`
	Correct string   `json:"correct"`
	Weight  float64  `json:"weight"`
}

// Variant is one shuffled instance of the question set. Built once, never
// mutated; downstream renderers and the key codec read it as-is.
type Variant struct {
	Number    int                `json:"variant_number"`
	Questions []QuestionInstance `json:"questions"`
}

// AnswerKey returns the correct answers in question order.
func (v Variant) AnswerKey() []string {
	out := make([]string, len(v.Questions))
	for i, q := range v.Questions {
		out[i] = q.Correct
	}
	return out
}

// Weights returns the weights in question order.
func (v Variant) Weights() []float64 {
	out := make([]float64, len(v.Questions))
	for i, q := range v.Questions {
		out[i] = q.Weight
	}
	return out
}

// Generator builds variants from a validated bank.
type Generator struct {
	alpha letters.Alphabet
	rng   *rand.Rand
}

type Option func(*Generator)

func WithAlphabet(a letters.Alphabet) Option { return func(g *Generator) { g.alpha = a } }

// WithRand injects the random stream. Tests pass a seeded source;
// concurrent callers must pass independent sources.
func WithRand(r *rand.Rand) Option { return func(g *Generator) { g.rng = r } }

func New(opts ...Option) *Generator {
	g := &Generator{alpha: letters.Latin}
	for _, o := range opts {
		o(g)
	}
	return g
}

// Generate builds p.NumVariants independent variants. Alternates are
// re-resolved per variant, so each variant draws its own combination.
// Any structural defect aborts the whole batch; no partial output.
func (g *Generator) Generate(src []bank.Question, p Params) ([]Variant, error) {
	if p.NumVariants <= 0 {
		return nil, ErrNoVariants
	}
	if len(src) == 0 {
		return nil, ErrEmptyBank
	}
	p = p.Normalized()
	switch p.QuestionOrder {
	case OrderFullShuffle, OrderEasyToHard, OrderNone:
	default:
		return nil, fmt.Errorf("question order %q: %w", p.QuestionOrder, ErrBadOrderMode)
	}
	switch p.OptionOrder {
	case OptionsRandom, OptionsNone:
	default:
		return nil, fmt.Errorf("option order %q: %w", p.OptionOrder, ErrBadOrderMode)
	}

	out := make([]Variant, 0, p.NumVariants)
	for n := 1; n <= p.NumVariants; n++ {
		resolved := bank.ResolveAlternates(src, g.rng)
		ordered := g.orderQuestions(resolved, p.QuestionOrder)
		qs := make([]QuestionInstance, 0, len(ordered))
		for _, q := range ordered {
			inst, err := g.buildInstance(q, p.OptionOrder)
			if err != nil {
				return nil, fmt.Errorf("variant %d: %w", n, err)
			}
			qs = append(qs, inst)
		}
		out = append(out, Variant{Number: n, Questions: qs})
	}
	return out, nil
}

func (g *Generator) orderQuestions(qs []bank.Question, mode string) []bank.Question {
	out := append([]bank.Question(nil), qs...)
	switch mode {
	case OrderFullShuffle:
		perm := g.perm(len(out))
		shuffled := make([]bank.Question, len(out))
		for i, p := range perm {
			shuffled[i] = out[p]
		}
		return shuffled
	case OrderEasyToHard:
		// Stable: equal weights keep their ascending-number order.
		sort.SliceStable(out, func(i, j int) bool { return out[i].Weight < out[j].Weight })
	}
	return out
}

func (g *Generator) buildInstance(q bank.Question, optionOrder string) (QuestionInstance, error) {
	inst := QuestionInstance{
		Number: q.Number,
		Text:   q.Text,
		Type:   q.Type,
		Weight: q.Weight,
	}
	if q.Type == bank.OpenEnded {
		inst.Correct = strings.TrimSpace(q.Correct)
		return inst, nil
	}

	// Option letters refer to positions among the non-blank cells.
	opts := make([]string, 0, len(q.Options))
	for _, o := range q.Options {
		if strings.TrimSpace(o) != "" {
			opts = append(opts, o)
		}
	}
	if len(opts) < 2 {
		return QuestionInstance{}, fmt.Errorf("question %d: %w", q.Number, ErrTooFewOptions)
	}

	correctTexts, err := g.correctTexts(q, opts)
	if err != nil {
		return QuestionInstance{}, err
	}

	if optionOrder == OptionsRandom {
		perm := g.perm(len(opts))
		shuffled := make([]string, len(opts))
		for i, p := range perm {
			shuffled[i] = opts[p]
		}
		opts = shuffled
	}

	correct, err := RecomputeLetters(g.alpha, opts, correctTexts)
	if err != nil {
		return QuestionInstance{}, fmt.Errorf("question %d: %w", q.Number, err)
	}

	inst.Options = opts
	inst.Correct = correct
	return inst, nil
}

// RecomputeLetters returns the letters that name correctTexts within the
// final option order. Matching is by exact text, never by the original
// index; the result is canonical (unique letters in table order).
func RecomputeLetters(alpha letters.Alphabet, ordered []string, correctTexts []string) (string, error) {
	marks := make([]rune, 0, len(correctTexts))
	for _, text := range correctTexts {
		pos := indexOf(ordered, text)
		if pos < 0 {
			return "", fmt.Errorf("option %q: %w", text, ErrLetterUnmapped)
		}
		l, err := alpha.Letter(pos)
		if err != nil {
			return "", err
		}
		marks = append(marks, []rune(l)[0])
	}
	return alpha.Canonical(string(marks)), nil
}

// correctTexts maps the question's correct letters to option texts, in
// alphabet order.
func (g *Generator) correctTexts(q bank.Question, opts []string) ([]string, error) {
	set := g.alpha.Set(q.Correct)
	if len(set) == 0 {
		return nil, fmt.Errorf("question %d: no correct letters: %w", q.Number, ErrLetterUnmapped)
	}
	texts := make([]string, 0, len(set))
	for i := 0; i < g.alpha.Len(); i++ {
		l, _ := g.alpha.Letter(i)
		r := []rune(l)[0]
		if _, ok := set[r]; !ok {
			continue
		}
		delete(set, r)
		if i >= len(opts) {
			return nil, fmt.Errorf("question %d: letter %q: %w", q.Number, l, ErrLetterUnmapped)
		}
		texts = append(texts, opts[i])
	}
	// Anything left over is not a symbol of the table at all.
	if len(set) != 0 {
		return nil, fmt.Errorf("question %d: correct answer %q is not option letters: %w", q.Number, q.Correct, ErrLetterUnmapped)
	}
	return texts, nil
}

func (g *Generator) perm(n int) []int {
	if g.rng == nil {
		return rand.Perm(n)
	}
	return g.rng.Perm(n)
}

func indexOf(opts []string, text string) int {
	for i, o := range opts {
		if o == text {
			return i
		}
	}
	return -1
}
