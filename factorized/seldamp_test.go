package factorized_test

import (
	"testing"

	"github.com/katalvlaran/epglm/factorized"
	"github.com/stretchr/testify/require"
)

func newFixtureStorage(t *testing.T) *factorized.Storage {
	t.Helper()
	// Variable 0 has 3 edges from factors 0,1,2; variable 1 has 1 edge
	// from factor 0.
	rows := []int{0, 1, 2, 0}
	cols := []int{0, 0, 0, 1}
	vals := []float64{1, 1, 1, 1}
	s, err := factorized.NewStorage(3, 2, rows, cols, vals)
	require.NoError(t, err)
	return s
}

func TestSelDampResetTracksTopK(t *testing.T) {
	s := newFixtureStorage(t)
	epPi := make([]float64, s.NNZ())
	// Row-ordered slots for (factor,var0): find them via ColRange.
	lo, hi := s.ColRange(0)
	for e := lo; e < hi; e++ {
		back := s.ColBack[e]
		j := s.ColRow[e]
		epPi[back] = float64(j + 1) // factor 0->1, 1->2, 2->3
	}

	sd, err := factorized.NewSelDamp(s.N, 2)
	require.NoError(t, err)
	sd.Reset(s, epPi, nil, false)

	require.Equal(t, 2, sd.NumValid(0))
	require.Equal(t, 1, sd.NumValid(1)) // var 1 has only 1 edge, tracked exactly

}

func TestSelDampMaxExcludesGivenFactor(t *testing.T) {
	s := newFixtureStorage(t)
	epPi := make([]float64, s.NNZ())
	lo, hi := s.ColRange(0)
	for e := lo; e < hi; e++ {
		back := s.ColBack[e]
		j := s.ColRow[e]
		epPi[back] = float64(j + 1)
	}
	sd, err := factorized.NewSelDamp(s.N, 3)
	require.NoError(t, err)
	sd.Reset(s, epPi, nil, false)

	require.Equal(t, 3.0, sd.Max(0, -1))
	require.Equal(t, 2.0, sd.Max(0, 2)) // exclude the largest (factor 2 -> val 3)
}

func TestSelDampUpdateRefreshesTrackedEntry(t *testing.T) {
	s := newFixtureStorage(t)
	epPi := make([]float64, s.NNZ())
	sd, err := factorized.NewSelDamp(s.N, 3)
	require.NoError(t, err)
	sd.Reset(s, epPi, nil, false)

	sd.Update(0, 1, 10)
	require.Equal(t, 10.0, sd.Max(0, -1))
}

func TestSelDampUpdateInsertsWhenRoom(t *testing.T) {
	sd, err := factorized.NewSelDamp(2, 3)
	require.NoError(t, err)
	sd.Reset(newFixtureStorage(t), make([]float64, 4), nil, false)

	require.Equal(t, 0.0, sd.Max(1, -1)) // var 1 tracks only its factor-0 edge, at 0
	sd.Update(1, 1, 5)                   // factor 1 is untracked and the list has room
	require.Equal(t, 5.0, sd.Max(1, -1))
}
