package ep_test

import (
	"testing"

	ep "github.com/katalvlaran/epglm"
	"github.com/stretchr/testify/require"
)

func TestMaxRelDiffZeroForIdentical(t *testing.T) {
	a := []float64{1, 2, 3}
	require.Equal(t, 0.0, ep.MaxRelDiff(a, a))
}

func TestMaxRelDiffPicksWorstComponent(t *testing.T) {
	a := []float64{1, 1, 1}
	b := []float64{1, 1, 2}
	require.InDelta(t, 0.5, ep.MaxRelDiff(a, b), 1e-12)
}

func TestMaxRelDiffFlooredNearZero(t *testing.T) {
	a := []float64{0}
	b := []float64{1e-10}
	require.Less(t, ep.MaxRelDiff(a, b), 1.0)
}
