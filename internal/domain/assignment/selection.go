package assignment

import (
	"cmp"
	"slices"

	"github.com/ko2fey/test-task-mini-crm/internal/domain/operator"
)

// Candidate is an operator eligible for a source with its weight and score.
type Candidate struct {
	Operator operator.Operator `json:"operator"`
	Weight   int               `json:"weight"`
	// Score is weight / max(load, 1). It is for display; ordering uses
	// exact integer comparison.
	Score float64 `json:"score"`
}

// NewCandidate scores an operator for a weight.
func NewCandidate(op operator.Operator, weight int) Candidate {
	return Candidate{
		Operator: op,
		Weight:   weight,
		Score:    float64(weight) / float64(effectiveLoad(op)),
	}
}

// Rank sorts candidates best first: higher score, then lower current load,
// then lower operator id. The order is total, so ranking is deterministic.
func Rank(candidates []Candidate) []Candidate {
	slices.SortFunc(candidates, compareCandidates)
	return candidates
}

// compareCandidates returns a negative number when a ranks before b.
func compareCandidates(a, b Candidate) int {
	// a.w/la > b.w/lb  <=>  a.w*lb > b.w*la, with loads floored at 1.
	left := int64(a.Weight) * int64(effectiveLoad(b.Operator))
	right := int64(b.Weight) * int64(effectiveLoad(a.Operator))
	if c := cmp.Compare(right, left); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Operator.CurrentLoad, b.Operator.CurrentLoad); c != 0 {
		return c
	}
	return cmp.Compare(a.Operator.ID, b.Operator.ID)
}

func effectiveLoad(op operator.Operator) int {
	return max(op.CurrentLoad, 1)
}
