// SPDX-License-Identifier: MIT
package factor

import "fmt"

// Factor is the CouplingFactor contract (spec §4.1): a possibly-virtual
// m×n matrix B, read-only after construction, exposing a matrix-vector
// product, column extraction, and the two quadratic kernels consumed by
// the Coupled and Factorized posterior representations.
//
// Shapes reported by Dims() are the *logical* shape, i.e. they already
// account for a transposed view: a Dense(3,5) whose Transpose() has been
// taken reports Dims() == (5,3).
type Factor interface {
	// Dims returns the logical (rows, cols) of this view.
	Dims() (m, n int)

	// Transposed reports whether this view is a virtual transpose of the
	// physically constructed orientation.
	Transposed() bool

	// Transpose returns a view of the same backing storage with the
	// orientation flag flipped. It never copies numeric data, and is
	// involutive: f.Transpose().Transpose() reports the same Dims() and
	// produces identical MVM/Col/BTDB/DiagBSBt output as f.
	Transpose() Factor

	// MVM writes B v (if !Transposed()) or Bᵀ v (if Transposed()) into out.
	// len(v) must equal the logical column count, len(out) the logical row
	// count; otherwise ErrShapeMismatch is returned and out is left
	// untouched.
	MVM(v, out []float64) error

	// Col writes the i-th column of the logical matrix into out.
	// len(out) must equal the logical row count.
	Col(i int, out []float64) error

	// BTDB writes Bᵀ diag(v) B into out, a row-major n×n buffer (n the
	// logical column count). len(v) must equal the logical row count.
	BTDB(v, out []float64) error

	// DiagBSBt writes diag(B S Bᵀ) into out, a length-m vector (m the
	// logical row count). s is a row-major n×n buffer, symmetric.
	DiagBSBt(s, out []float64) error
}

// checkShape is the common guard every kernel runs before touching its
// buffers: it never panics on caller-supplied slices, only on the
// factor's own internal invariants.
func checkShape(method string, got, want int) error {
	if got != want {
		return fmt.Errorf("factor: %s: %w (got len %d, want %d)", method, ErrShapeMismatch, got, want)
	}
	return nil
}

// FallbackBTDB computes Bᵀ diag(v) B using only f.Col, for variants that
// do not implement a specialized BTDB. It materializes every column of B
// (O(n) calls to Col, each O(m)) and accumulates the dense n×n product, so
// it is correct but not a path any variant should rely on for performance.
func FallbackBTDB(f Factor, v, out []float64) error {
	m, n := f.Dims()
	if err := checkShape("FallbackBTDB", len(v), m); err != nil {
		return err
	}
	if err := checkShape("FallbackBTDB", len(out), n*n); err != nil {
		return err
	}

	cols := make([][]float64, n)
	for p := 0; p < n; p++ {
		c := make([]float64, m)
		if err := f.Col(p, c); err != nil {
			return err
		}
		cols[p] = c
	}

	for p := 0; p < n; p++ {
		for q := p; q < n; q++ {
			var sum float64
			cp, cq := cols[p], cols[q]
			for j := 0; j < m; j++ {
				sum += v[j] * cp[j] * cq[j]
			}
			out[p*n+q] = sum
			out[q*n+p] = sum
		}
	}
	return nil
}

// FallbackDiagBSBt computes diag(B S Bᵀ) using only f.Col (to assemble
// rows of B via Bᵀ's columns is not generally available, so this walks S
// once per row using a dense row built from Col on the transposed view).
func FallbackDiagBSBt(f Factor, s, out []float64) error {
	m, n := f.Dims()
	if err := checkShape("FallbackDiagBSBt", len(s), n*n); err != nil {
		return err
	}
	if err := checkShape("FallbackDiagBSBt", len(out), m); err != nil {
		return err
	}

	ft := f.Transpose() // n×m logical; its columns are the rows of f
	row := make([]float64, n)
	tmp := make([]float64, n)
	for j := 0; j < m; j++ {
		if err := ft.Col(j, row); err != nil {
			return err
		}
		for q := 0; q < n; q++ {
			var sum float64
			for p := 0; p < n; p++ {
				sum += row[p] * s[p*n+q]
			}
			tmp[q] = sum
		}
		var val float64
		for q := 0; q < n; q++ {
			val += tmp[q] * row[q]
		}
		out[j] = val
	}
	return nil
}

// Materialize builds the dense row-major representation of f's logical
// view, purely via Col. It exists for tests and debugging (invariants 1-3
// in spec §8 are checked against this reference), never on a hot path.
func Materialize(f Factor) ([]float64, error) {
	m, n := f.Dims()
	dense := make([]float64, m*n)
	col := make([]float64, m)
	for j := 0; j < n; j++ {
		if err := f.Col(j, col); err != nil {
			return nil, err
		}
		for i := 0; i < m; i++ {
			dense[i*n+j] = col[i]
		}
	}
	return dense, nil
}
