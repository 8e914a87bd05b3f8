package assignment

import (
	"math/rand"
	"testing"

	"github.com/ko2fey/test-task-mini-crm/internal/domain/operator"
	"github.com/stretchr/testify/require"
)

func candidate(id int64, weight, load int) Candidate {
	return NewCandidate(operator.Operator{ID: id, MaxLoad: 100, CurrentLoad: load, Active: true}, weight)
}

func ids(cands []Candidate) []int64 {
	out := make([]int64, 0, len(cands))
	for _, c := range cands {
		out = append(out, c.Operator.ID)
	}
	return out
}

func TestRank_HigherScoreWins(t *testing.T) {
	// A(10,0) scores 10, B(10,1) scores 10; equal score, lower load wins.
	ranked := Rank([]Candidate{candidate(2, 10, 1), candidate(1, 10, 0)})
	require.Equal(t, []int64{1, 2}, ids(ranked))

	ranked = Rank([]Candidate{candidate(1, 5, 1), candidate(2, 10, 1)})
	require.Equal(t, []int64{2, 1}, ids(ranked))
}

func TestRank_TieBrokenByLoad(t *testing.T) {
	// A(10,2) scores 5, B(5,0) scores 5; B has lower load.
	ranked := Rank([]Candidate{candidate(1, 10, 2), candidate(2, 5, 0)})
	require.Equal(t, []int64{2, 1}, ids(ranked))
}

func TestRank_TieBrokenByID(t *testing.T) {
	ranked := Rank([]Candidate{candidate(9, 7, 3), candidate(4, 7, 3), candidate(6, 7, 3)})
	require.Equal(t, []int64{4, 6, 9}, ids(ranked))
}

func TestRank_ExactComparisonAvoidsFloatTies(t *testing.T) {
	// 1/3 and 3/9 are equal; 2/3 is larger.
	ranked := Rank([]Candidate{candidate(1, 1, 3), candidate(2, 3, 9), candidate(3, 2, 3)})
	require.Equal(t, []int64{3, 1, 2}, ids(ranked))
}

func TestRank_ZeroWeightRanksLast(t *testing.T) {
	ranked := Rank([]Candidate{candidate(1, 0, 0), candidate(2, 1, 5)})
	require.Equal(t, []int64{2, 1}, ids(ranked))
}

func TestRank_DeterministicUnderShuffle(t *testing.T) {
	base := []Candidate{
		candidate(1, 10, 0), candidate(2, 10, 1), candidate(3, 5, 0),
		candidate(4, 10, 2), candidate(5, 7, 7), candidate(6, 1, 0),
	}
	want := ids(Rank(slicesClone(base)))

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 50; i++ {
		shuffled := slicesClone(base)
		rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })
		require.Equal(t, want, ids(Rank(shuffled)))
	}
}

func TestNewCandidate_Score(t *testing.T) {
	require.InDelta(t, 10.0, candidate(1, 10, 0).Score, 1e-9)
	require.InDelta(t, 10.0, candidate(1, 10, 1).Score, 1e-9)
	require.InDelta(t, 2.5, candidate(1, 10, 4).Score, 1e-9)
}

func slicesClone(in []Candidate) []Candidate {
	return append([]Candidate(nil), in...)
}
