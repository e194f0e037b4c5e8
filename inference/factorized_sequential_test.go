package inference_test

import (
	"testing"

	"github.com/katalvlaran/epglm/factorized"
	"github.com/katalvlaran/epglm/inference"
	"github.com/katalvlaran/epglm/internal/refpotential"
	"github.com/katalvlaran/epglm/potential"
	"github.com/stretchr/testify/require"
)

// newFactorizedSweepFixture builds a 3-factor, 2-variable factorized
// model: two "noisy" factors to be swept, one "gaussian" factor pinning a
// prior on both variables.
func newFactorizedSweepFixture(t *testing.T) (*factorized.Representation, *potential.Manager) {
	t.Helper()
	rows := []int{0, 1, 2, 2}
	cols := []int{0, 1, 0, 1}
	vals := []float64{1, 1, 1, 1}
	s, err := factorized.NewStorage(3, 2, rows, cols, vals)
	require.NoError(t, err)
	rep, err := factorized.NewRepresentation(s)
	require.NoError(t, err)

	reg := refpotential.New()
	blocks := []potential.Block{
		{Name: "noisy", Size: 2, Params: []potential.Param{
			{Values: []float64{0, 0}, Shared: false},
			{Values: []float64{1, 1}, Shared: false},
		}},
		{Name: "gaussian", Size: 1, Params: []potential.Param{
			{Values: []float64{0}, Shared: true},
			{Values: []float64{1}, Shared: true},
		}},
	}
	pman, err := potential.NewManager(reg, blocks)
	require.NoError(t, err)
	require.NoError(t, inference.ADFInitFactorized(rep, pman, 1.0))
	return rep, pman
}

func TestFactorizedConvergesAndRevisitsGaussianByDefault(t *testing.T) {
	rep, pman := newFactorizedSweepFixture(t)
	reg := refpotential.New()
	cfg := inference.NewConfig(inference.WithMaxIter(20))

	res, err := inference.Factorized(rep, pman, reg, cfg)
	require.NoError(t, err)
	require.Equal(t, 0, res.RStat)
	require.Less(t, res.Delta, cfg.DeltaEps)
	require.Equal(t, -1, res.NSDamp)
}

func TestFactorizedSkipGaussExcludesGaussianFactor(t *testing.T) {
	rep, pman := newFactorizedSweepFixture(t)
	reg := refpotential.New()
	before := append([]float64(nil), rep.EPPi()...)

	cfg := inference.NewConfig(inference.WithMaxIter(5), inference.WithSkipGauss(true))
	_, err := inference.Factorized(rep, pman, reg, cfg)
	require.NoError(t, err)

	lo, hi := rep.Storage().RowRange(2)
	for e := lo; e < hi; e++ {
		require.InDelta(t, before[e], rep.EPPi()[e], 1e-12)
	}
}

func TestFactorizedCountsSelectiveDamping(t *testing.T) {
	rep, pman := newFactorizedSweepFixture(t)
	reg := refpotential.New()
	require.NoError(t, rep.EnableSelDamp(2, nil, false))

	cfg := inference.NewConfig(inference.WithMaxIter(10))
	res, err := inference.Factorized(rep, pman, reg, cfg)
	require.NoError(t, err)
	require.GreaterOrEqual(t, res.NSDamp, 0)
}

func TestFactorizedRejectsEmptyUpdateSetUnderSkipGauss(t *testing.T) {
	rows := []int{0}
	cols := []int{0}
	vals := []float64{1}
	s, err := factorized.NewStorage(1, 1, rows, cols, vals)
	require.NoError(t, err)
	rep, err := factorized.NewRepresentation(s)
	require.NoError(t, err)
	reg := refpotential.New()
	pman, err := potential.NewManager(reg, []potential.Block{
		{Name: "gaussian", Size: 1, Params: []potential.Param{
			{Values: []float64{0}, Shared: true},
			{Values: []float64{1}, Shared: true},
		}},
	})
	require.NoError(t, err)
	require.NoError(t, inference.ADFInitFactorized(rep, pman, 1.0))

	_, err = inference.Factorized(rep, pman, reg, inference.NewConfig(inference.WithSkipGauss(true)))
	require.ErrorIs(t, err, inference.ErrEmptyUpdateSet)
}

func TestFactorizedRejectsNilArgs(t *testing.T) {
	_, err := inference.Factorized(nil, nil, nil, nil)
	require.ErrorIs(t, err, inference.ErrInvalidArgument)
}
