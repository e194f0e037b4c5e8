package linalg_test

import (
	"testing"

	"github.com/katalvlaran/epglm/linalg"
	"github.com/stretchr/testify/require"
)

func TestGonumCholeskyFactorizeReconstructsA(t *testing.T) {
	// A = [[4,2],[2,3]], spd.
	a := []float64{4, 2, 2, 3}
	c := linalg.NewGonumCholesky()
	require.NoError(t, c.Factorize(a, 2))

	l := make([]float64, 4)
	require.NoError(t, c.L(l))

	// L Lᵀ reconstructs A.
	got := []float64{
		l[0]*l[0] + l[1]*l[1], l[0]*l[2] + l[1]*l[3],
		l[2]*l[0] + l[3]*l[1], l[2]*l[2] + l[3]*l[3],
	}
	for i := range a {
		require.InDelta(t, a[i], got[i], 1e-8)
	}
	require.Equal(t, 2, c.Size())
}

func TestGonumCholeskyNotPositiveDefinite(t *testing.T) {
	c := linalg.NewGonumCholesky()
	err := c.Factorize([]float64{1, 2, 2, 1}, 2)
	require.ErrorIs(t, err, linalg.ErrNotPositiveDefinite)
}

func TestGonumCholeskySolveLRoundTrip(t *testing.T) {
	a := []float64{4, 2, 2, 3}
	c := linalg.NewGonumCholesky()
	require.NoError(t, c.Factorize(a, 2))

	b := []float64{1, 1}
	v := make([]float64, 2)
	require.NoError(t, c.SolveL(b, v))

	l := make([]float64, 4)
	require.NoError(t, c.L(l))
	// L v should reconstruct b.
	recon := []float64{l[0]*v[0] + 0*v[1], l[2]*v[0] + l[3]*v[1]}
	require.InDelta(t, b[0], recon[0], 1e-8)
	require.InDelta(t, b[1], recon[1], 1e-8)
}

func TestGonumCholeskySolveLTIsAdjointOfSolveL(t *testing.T) {
	a := []float64{4, 2, 2, 3}
	c := linalg.NewGonumCholesky()
	require.NoError(t, c.Factorize(a, 2))

	b := []float64{0.5, -1.5}
	v := make([]float64, 2)
	require.NoError(t, c.SolveLT(b, v))

	l := make([]float64, 4)
	require.NoError(t, c.L(l))
	// Lᵀ v should reconstruct b.
	recon := []float64{l[0]*v[0] + l[2]*v[1], l[3] * v[1]}
	require.InDelta(t, b[0], recon[0], 1e-8)
	require.InDelta(t, b[1], recon[1], 1e-8)
}

func TestGonumCholeskyInverseMatchesDefinition(t *testing.T) {
	a := []float64{4, 2, 2, 3}
	c := linalg.NewGonumCholesky()
	require.NoError(t, c.Factorize(a, 2))

	inv := make([]float64, 4)
	require.NoError(t, c.Inverse(inv))

	// A A^-1 = I.
	prod := []float64{
		a[0]*inv[0] + a[1]*inv[2], a[0]*inv[1] + a[1]*inv[3],
		a[2]*inv[0] + a[3]*inv[2], a[2]*inv[1] + a[3]*inv[3],
	}
	require.InDelta(t, 1, prod[0], 1e-6)
	require.InDelta(t, 0, prod[1], 1e-6)
	require.InDelta(t, 0, prod[2], 1e-6)
	require.InDelta(t, 1, prod[3], 1e-6)
}

func TestGonumCholeskyRank1UpdateMatchesRefactorize(t *testing.T) {
	a := []float64{4, 2, 2, 3}
	x := []float64{1, 0.5}
	alpha := 0.7

	c := linalg.NewGonumCholesky()
	require.NoError(t, c.Factorize(a, 2))
	require.NoError(t, c.Rank1Update(alpha, x))

	updated := make([]float64, 4)
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			updated[i*2+j] = a[i*2+j] + alpha*x[i]*x[j]
		}
	}
	ref := linalg.NewGonumCholesky()
	require.NoError(t, ref.Factorize(updated, 2))

	lGot := make([]float64, 4)
	lWant := make([]float64, 4)
	require.NoError(t, c.L(lGot))
	require.NoError(t, ref.L(lWant))
	for i := range lGot {
		require.InDelta(t, lWant[i], lGot[i], 1e-8)
	}
}

func TestGonumCholeskyRank1DowndateInversesUpdate(t *testing.T) {
	a := []float64{4, 2, 2, 3}
	x := []float64{1, 0.5}
	alpha := 0.7

	c := linalg.NewGonumCholesky()
	require.NoError(t, c.Factorize(a, 2))
	l0 := make([]float64, 4)
	require.NoError(t, c.L(l0))

	require.NoError(t, c.Rank1Update(alpha, x))
	require.NoError(t, c.Rank1Update(-alpha, x))

	l1 := make([]float64, 4)
	require.NoError(t, c.L(l1))
	for i := range l0 {
		require.InDelta(t, l0[i], l1[i], 1e-8)
	}
}

func TestGonumCholeskyShapeMismatch(t *testing.T) {
	c := linalg.NewGonumCholesky()
	require.ErrorIs(t, c.Factorize([]float64{1, 2, 3}, 2), linalg.ErrShapeMismatch)
}
