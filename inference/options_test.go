package inference_test

import (
	"testing"

	"github.com/katalvlaran/epglm/inference"
	"github.com/stretchr/testify/require"
)

func TestNewConfigAppliesDocumentedDefaults(t *testing.T) {
	c := inference.NewConfig()
	require.Equal(t, inference.DefaultMaxIter, c.MaxIter)
	require.Equal(t, inference.DefaultDeltaEps, c.DeltaEps)
	require.Equal(t, inference.DefaultDamp, c.Damp)
	require.Equal(t, inference.DefaultCavEps, c.CavEps)
	require.Equal(t, inference.DefaultSkipEps, c.SkipEps)
	require.Equal(t, inference.DefaultPiMinThres, c.PiMinThres)
	require.Equal(t, inference.DefaultRefresh, c.Refresh)
	require.Equal(t, inference.DefaultSkipGauss, c.SkipGauss)
	require.Nil(t, c.Shuffle)
	require.NotNil(t, c.Logger)
}

func TestWithMaxIterPanicsOnInvalid(t *testing.T) {
	require.Panics(t, func() { inference.WithMaxIter(0) })
}

func TestWithDampPanicsOnOutOfRange(t *testing.T) {
	require.Panics(t, func() { inference.WithDamp(1) })
	require.Panics(t, func() { inference.WithDamp(-0.1) })
}

func TestWithCavEpsPanicsOnNonPositive(t *testing.T) {
	require.Panics(t, func() { inference.WithCavEps(0) })
}

func TestWithUpd1stSweepBuildsSet(t *testing.T) {
	c := inference.NewConfig(inference.WithUpd1stSweep("noisy", "gaussian"))
	require.Len(t, c.Upd1stSweep, 2)
	_, ok := c.Upd1stSweep["noisy"]
	require.True(t, ok)
}

func TestWithPredictTypePanicsOutOfRange(t *testing.T) {
	require.Panics(t, func() { inference.WithPredictType(4) })
}
