package factorized_test

import (
	"testing"

	"github.com/katalvlaran/epglm/factorized"
	"github.com/katalvlaran/epglm/internal/refpotential"
	"github.com/katalvlaran/epglm/potential"
	"github.com/stretchr/testify/require"
)

// newKernelFixture builds a 2-site, 2-variable factorized representation:
// site 0 ("noisy", updated by the kernel) and site 1 ("gaussian", a fixed
// prior contributing baseline precision that is never swept), each
// touching both variables with unit coupling.
func newKernelFixture(t *testing.T) (*factorized.Representation, *potential.Manager) {
	t.Helper()
	rows := []int{0, 0, 1, 1}
	cols := []int{0, 1, 0, 1}
	vals := []float64{1, 1, 1, 1}
	s, err := factorized.NewStorage(2, 2, rows, cols, vals)
	require.NoError(t, err)
	r, err := factorized.NewRepresentation(s)
	require.NoError(t, err)
	require.NoError(t, r.SetEdges(
		[]float64{0.01, 0.01, 1, 1},
		[]float64{0, 0, 0, 0},
	))

	reg := refpotential.New()
	blocks := []potential.Block{
		{Name: "noisy", Size: 1, Params: []potential.Param{
			{Values: []float64{0}, Shared: true},
			{Values: []float64{1}, Shared: true},
		}},
		{Name: "gaussian", Size: 1, Params: []potential.Param{
			{Values: []float64{0}, Shared: true},
			{Values: []float64{1}, Shared: true},
		}},
	}
	pman, err := potential.NewManager(reg, blocks)
	require.NoError(t, err)
	return r, pman
}

func TestUpdateSiteAppliesExactGaussianMomentMatch(t *testing.T) {
	r, pman := newKernelFixture(t)
	reg := refpotential.New()

	status, dampUsed, convStat, err := factorized.UpdateSite(r, 0, reg, pman, 1e-8, 0)
	require.NoError(t, err)
	require.Equal(t, factorized.StatusOK, status)
	require.Equal(t, 0.0, dampUsed)
	require.Greater(t, convStat, 0.0)

	lo, hi := r.Storage().RowRange(0)
	for e := lo; e < hi; e++ {
		require.InDelta(t, 1.0, r.EPPi()[e], 1e-9)
		require.InDelta(t, 0.0, r.EPBeta()[e], 1e-9)
	}
	for i := 0; i < 2; i++ {
		require.InDelta(t, 2.0, r.MargPi()[i], 1e-9)
	}
}

// TestUpdateSiteIsAFixedPoint re-runs UpdateSite on an edge set already at
// its tilted solution: the second pass must compute a near-zero edge delta
// (dflPi ~ 0), since the cavity-plus-tilted-precision target now equals
// the already-installed edge value. This is the regression test for the
// marginal-vs-edge back-projection bug (the kernel previously subtracted
// the per-edge value instead of the variable marginal, so even a
// converged edge set kept absorbing the other edges' cavity precision
// every sweep).
func TestUpdateSiteIsAFixedPoint(t *testing.T) {
	r, pman := newKernelFixture(t)
	reg := refpotential.New()

	_, _, _, err := factorized.UpdateSite(r, 0, reg, pman, 1e-8, 0)
	require.NoError(t, err)

	before := append([]float64(nil), r.EPPi()...)

	status, _, _, err := factorized.UpdateSite(r, 0, reg, pman, 1e-8, 0)
	require.NoError(t, err)
	require.Equal(t, factorized.StatusOK, status)

	lo, hi := r.Storage().RowRange(0)
	for e := lo; e < hi; e++ {
		require.InDelta(t, before[e], r.EPPi()[e], 1e-9)
	}
}

func TestUpdateSiteRejectsOutOfRangeRow(t *testing.T) {
	r, pman := newKernelFixture(t)
	reg := refpotential.New()
	_, _, _, err := factorized.UpdateSite(r, 99, reg, pman, 1e-8, 0)
	require.Error(t, err)
}

func TestUpdateSiteDetectsInvalidCavity(t *testing.T) {
	r, pman := newKernelFixture(t)
	reg := refpotential.New()
	// Force a non-positive cavity precision by setting ep_pi to consume
	// the whole marginal.
	require.NoError(t, r.SetEdges(
		[]float64{1, 1, 0, 0},
		[]float64{0, 0, 0, 0},
	))
	status, _, _, err := factorized.UpdateSite(r, 0, reg, pman, 1e-8, 0)
	require.NoError(t, err)
	require.Equal(t, factorized.StatusInvalidCavity, status)
}

func TestUpdateSiteWithSelDampBoundsDamping(t *testing.T) {
	r, pman := newKernelFixture(t)
	reg := refpotential.New()
	require.NoError(t, r.EnableSelDamp(2, nil, false))

	status, dampUsed, _, err := factorized.UpdateSite(r, 0, reg, pman, 1e-8, 0)
	require.NoError(t, err)
	require.Contains(t, []int{factorized.StatusOK, factorized.StatusSelDampForcedToZero}, status)
	require.GreaterOrEqual(t, dampUsed, 0.0)
}
