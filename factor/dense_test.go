package factor_test

import (
	"math"
	"testing"

	"github.com/katalvlaran/epglm/factor"
	"github.com/stretchr/testify/require"
)

// naiveMVM computes dense*v by hand from a materialized row-major buffer,
// used as the independent reference for invariant 1 (spec §8).
func naiveMVM(dense []float64, m, n int, v []float64) []float64 {
	out := make([]float64, m)
	for i := 0; i < m; i++ {
		var sum float64
		for j := 0; j < n; j++ {
			sum += dense[i*n+j] * v[j]
		}
		out[i] = sum
	}
	return out
}

func almostEqual(t *testing.T, want, got []float64, tol float64) {
	t.Helper()
	require.Equal(t, len(want), len(got))
	for i := range want {
		require.InDeltaf(t, want[i], got[i], tol, "index %d: want %v got %v", i, want[i], got[i])
	}
}

func TestDenseMVMMatchesMaterialized(t *testing.T) {
	d, err := factor.NewDense(3, 4, []float64{
		1, 2, 0, 0,
		0, 3, 1, 2,
		5, 0, 0, 1,
	})
	require.NoError(t, err)

	v := []float64{1, 2, 3, 4}
	out := make([]float64, 3)
	require.NoError(t, d.MVM(v, out))

	dense, err := factor.Materialize(d)
	require.NoError(t, err)
	want := naiveMVM(dense, 3, 4, v)
	almostEqual(t, want, out, 1e-6*(1+math.Sqrt(30)))
}

func TestDenseTransposeInvolution(t *testing.T) {
	d, err := factor.NewDense(2, 3, []float64{1, 2, 3, 4, 5, 6})
	require.NoError(t, err)

	tt := d.Transpose().Transpose()
	m1, n1 := d.Dims()
	m2, n2 := tt.Dims()
	require.Equal(t, m1, m2)
	require.Equal(t, n1, n2)

	v := []float64{1, 2, 3}
	out1 := make([]float64, 2)
	out2 := make([]float64, 2)
	require.NoError(t, d.MVM(v, out1))
	require.NoError(t, tt.MVM(v, out2))
	almostEqual(t, out1, out2, 1e-12)
}

func TestDenseBTDBMatchesReference(t *testing.T) {
	d, err := factor.NewDense(3, 2, []float64{1, 2, 3, 4, 5, 6})
	require.NoError(t, err)

	v := []float64{2, 0.5, 1}
	out := make([]float64, 4)
	require.NoError(t, d.BTDB(v, out))

	dense, err := factor.Materialize(d)
	require.NoError(t, err)
	// reference: Bᵀ diag(v) B computed directly from the materialized form.
	want := make([]float64, 4)
	for p := 0; p < 2; p++ {
		for q := 0; q < 2; q++ {
			var sum float64
			for i := 0; i < 3; i++ {
				sum += dense[i*2+p] * v[i] * dense[i*2+q]
			}
			want[p*2+q] = sum
		}
	}
	almostEqual(t, want, out, 1e-8*2)
}

func TestDenseDiagBSBtMatchesReference(t *testing.T) {
	d, err := factor.NewDense(2, 2, []float64{1, 2, 3, 4})
	require.NoError(t, err)
	s := []float64{2, 0, 0, 3}
	out := make([]float64, 2)
	require.NoError(t, d.DiagBSBt(s, out))
	// diag(B S Bᵀ): row0=[1,2] -> 1*2*1+2*3*2=2+12=14; row1=[3,4]-> 3*2*3+4*3*4=18+48=66
	almostEqual(t, []float64{14, 66}, out, 1e-9)
}

func TestDenseShapeMismatch(t *testing.T) {
	d, err := factor.NewDense(2, 2, nil)
	require.NoError(t, err)
	err = d.MVM([]float64{1}, make([]float64, 2))
	require.ErrorIs(t, err, factor.ErrShapeMismatch)
}

func TestNewDenseInvalidDimensions(t *testing.T) {
	_, err := factor.NewDense(0, 2, nil)
	require.ErrorIs(t, err, factor.ErrEmptyFactor)
}
