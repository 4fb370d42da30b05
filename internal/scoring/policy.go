package scoring

// Match describes how a submission relates to the stored correct answer.
// For letter-set questions the counts cover the submitted letters; for
// single-letter and free-text questions Want is 1 and Hits is 0 or 1.
type Match struct {
	Exact bool
	Hits  int // correct letters the submission includes
	Want  int // letters in the correct set
	Extra int // submitted letters outside the correct set
}

// Policy turns a match into awarded points. The matching and aggregation
// pipeline stays fixed while the policy varies.
type Policy interface {
	Award(m Match, points float64) float64
}

// BinaryPolicy awards full points on an exact match and nothing otherwise.
// This is the installed contract: no credit for a correct-but-incomplete
// letter set, none for extra wrong letters.
type BinaryPolicy struct{}

func (BinaryPolicy) Award(m Match, points float64) float64 {
	if m.Exact {
		return points
	}
	return 0
}

// PartialPolicy awards letter-set questions proportional credit for the
// correct letters found, and nothing as soon as a wrong letter is picked.
// Used for comparison runs only; never the default.
type PartialPolicy struct{}

func (PartialPolicy) Award(m Match, points float64) float64 {
	if m.Exact {
		return points
	}
	if m.Extra > 0 || m.Want == 0 {
		return 0
	}
	return points * float64(m.Hits) / float64(m.Want)
}
