package inference_test

import (
	"testing"

	"github.com/katalvlaran/epglm/coupled"
	"github.com/katalvlaran/epglm/factor"
	"github.com/katalvlaran/epglm/inference"
	"github.com/katalvlaran/epglm/internal/refpotential"
	"github.com/katalvlaran/epglm/linalg"
	"github.com/katalvlaran/epglm/potential"
	"github.com/stretchr/testify/require"
)

// newSequentialFixture builds a 3-observation, 1-variable coupled model:
// two "noisy" rows to be EP-updated, one "gaussian" row that pins a prior
// directly (never revisited, since it's excluded from pman.UpdInd). ADF
// starts the noisy sites at π=0, so the Gaussian row alone has to make
// Bᵀ diag(π) B positive definite.
func newSequentialFixture(t *testing.T) (*coupled.Representation, *potential.Manager) {
	t.Helper()
	f, err := factor.NewDense(3, 1, []float64{1, 1, 1})
	require.NoError(t, err)
	rep, err := coupled.NewRepresentation(f, linalg.NewGonumCholesky(), true)
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
	require.NoError(t, inference.ADFInitCoupled(rep, pman))
	return rep, pman
}

func TestCoupledSequentialConvergesToADFFixedPoint(t *testing.T) {
	rep, pman := newSequentialFixture(t)
	reg := refpotential.New()
	cfg := inference.NewConfig(inference.WithMaxIter(20))

	res, err := inference.CoupledSequential(rep, pman, reg, cfg)
	require.NoError(t, err)
	require.Equal(t, 0, res.RStat)
	require.Less(t, res.Delta, cfg.DeltaEps)

	// The Gaussian site's EP parameters must never move (it isn't in
	// pman.UpdInd, so the sequential driver never visits it).
	require.InDelta(t, 1.0, rep.EPPi()[2], 1e-9)
	require.InDelta(t, 0.0, rep.EPBeta()[2], 1e-9)
}

func TestCoupledSequentialHonorsShuffle(t *testing.T) {
	rep, pman := newSequentialFixture(t)
	reg := refpotential.New()
	var seen [][]int
	cfg := inference.NewConfig(inference.WithMaxIter(3), inference.WithShuffle(func(idx []int) {
		cp := append([]int(nil), idx...)
		seen = append(seen, cp)
		// reverse in place, deterministically exercising a non-identity order
		for i, j := 0, len(idx)-1; i < j; i, j = i+1, j-1 {
			idx[i], idx[j] = idx[j], idx[i]
		}
	}))
	_, err := inference.CoupledSequential(rep, pman, reg, cfg)
	require.NoError(t, err)
	// All potentials are Gaussian, so the first sweep lands on the fixed
	// point and the second one reports convergence before MaxIter is hit.
	require.Len(t, seen, 2)
	for _, s := range seen {
		require.ElementsMatch(t, []int{0, 1}, s)
	}
}

func TestCoupledSequentialRejectsEmptyUpdateSet(t *testing.T) {
	f, err := factor.NewDense(1, 1, []float64{1})
	require.NoError(t, err)
	rep, err := coupled.NewRepresentation(f, linalg.NewGonumCholesky(), true)
	require.NoError(t, err)
	reg := refpotential.New()
	pman, err := potential.NewManager(reg, []potential.Block{
		{Name: "gaussian", Size: 1, Params: []potential.Param{
			{Values: []float64{0}, Shared: true},
			{Values: []float64{1}, Shared: true},
		}},
	})
	require.NoError(t, err)
	require.NoError(t, inference.ADFInitCoupled(rep, pman))

	_, err = inference.CoupledSequential(rep, pman, reg, inference.NewConfig())
	require.ErrorIs(t, err, inference.ErrEmptyUpdateSet)
}

func TestCoupledSequentialRejectsNilArgs(t *testing.T) {
	_, err := inference.CoupledSequential(nil, nil, nil, nil)
	require.ErrorIs(t, err, inference.ErrInvalidArgument)
}
