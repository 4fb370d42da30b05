package bank

import (
	"math/rand/v2"
	"sort"
)

// ResolveAlternates reduces a bank that may hold several rows per question
// number to exactly one row per distinct number, ascending by number.
// Singleton groups pass through; larger groups yield one uniformly random
// pick, independently on every call, so each generated variant draws its
// own combination of alternates. Pure: the input slice is never touched.
//
// A nil rng falls back to the process-wide source.
func ResolveAlternates(questions []Question, rng *rand.Rand) []Question {
	groups := make(map[int][]Question, len(questions))
	numbers := make([]int, 0, len(questions))
	for _, q := range questions {
		if _, seen := groups[q.Number]; !seen {
			numbers = append(numbers, q.Number)
		}
		groups[q.Number] = append(groups[q.Number], q)
	}
	sort.Ints(numbers)

	out := make([]Question, 0, len(numbers))
	for _, n := range numbers {
		g := groups[n]
		if len(g) == 1 {
			out = append(out, g[0])
			continue
		}
		out = append(out, g[intN(rng, len(g))])
	}
	return out
}

func intN(rng *rand.Rand, n int) int {
	if rng == nil {
		return rand.IntN(n)
	}
	return rng.IntN(n)
}
