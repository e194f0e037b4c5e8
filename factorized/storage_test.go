package factorized_test

import (
	"testing"

	"github.com/katalvlaran/epglm/factorized"
	"github.com/stretchr/testify/require"
)

func TestNewStorageBuildsRowAndColumnViews(t *testing.T) {
	// m=2 rows, n=3 cols: row0 -> col0=1, col2=2; row1 -> col1=3, col2=4.
	rows := []int{0, 0, 1, 1}
	cols := []int{0, 2, 1, 2}
	vals := []float64{1, 2, 3, 4}

	s, err := factorized.NewStorage(2, 3, rows, cols, vals)
	require.NoError(t, err)
	require.Equal(t, 4, s.NNZ())

	lo, hi := s.RowRange(0)
	require.Equal(t, []int{0, 2}, s.RowCol[lo:hi])
	require.Equal(t, []float64{1, 2}, s.BVals[lo:hi])
	require.Equal(t, []float64{1, 4}, s.B2Vals[lo:hi])

	lo, hi = s.RowRange(1)
	require.Equal(t, []int{1, 2}, s.RowCol[lo:hi])

	// Column 2 has entries from both rows; ColBack must point at the
	// matching row-ordered slot for each.
	lo, hi = s.ColRange(2)
	require.Len(t, s.ColRow[lo:hi], 2)
	for e := lo; e < hi; e++ {
		row := s.ColRow[e]
		back := s.ColBack[e]
		rlo, rhi := s.RowRange(row)
		require.GreaterOrEqual(t, back, rlo)
		require.Less(t, back, rhi)
		require.Equal(t, 2, s.RowCol[back])
	}
}

func TestNewStorageMergesDuplicates(t *testing.T) {
	rows := []int{0, 0}
	cols := []int{1, 1}
	vals := []float64{2, 3}
	s, err := factorized.NewStorage(1, 2, rows, cols, vals)
	require.NoError(t, err)
	require.Equal(t, 1, s.NNZ())
	require.Equal(t, 5.0, s.BVals[0])
}

func TestNewStorageRejectsMismatchedLengths(t *testing.T) {
	_, err := factorized.NewStorage(1, 1, []int{0}, []int{0, 0}, []float64{1})
	require.ErrorIs(t, err, factorized.ErrInvalidArgument)
}

func TestNewStorageRejectsOutOfRangeIndex(t *testing.T) {
	_, err := factorized.NewStorage(1, 1, []int{5}, []int{0}, []float64{1})
	require.ErrorIs(t, err, factorized.ErrInvalidArgument)
}

func TestNewStorageRejectsEmpty(t *testing.T) {
	_, err := factorized.NewStorage(1, 1, nil, nil, nil)
	require.ErrorIs(t, err, factorized.ErrEmptyStorage)
}
