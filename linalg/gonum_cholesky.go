// SPDX-License-Identifier: MIT
package linalg

import (
	"gonum.org/v1/gonum/mat"
)

// GonumCholesky is the default Cholesky implementation, backed by
// gonum.org/v1/gonum/mat.Cholesky. It owns the factorization and reuses its
// triangular and symmetric buffers across SolveL/SolveLT/Inverse/L calls
// (spec §9 "shared mutable scratch"); each SolveL/SolveLT call still
// allocates a copy of its input and its result vector.
type GonumCholesky struct {
	chol mat.Cholesky
	n    int

	// scratch reused across calls; sized lazily to n.
	vecBuf mat.VecDense
	triBuf mat.TriDense
	symBuf mat.SymDense
}

// NewGonumCholesky returns a zero-value factorization; Factorize must be
// called before any other method.
func NewGonumCholesky() *GonumCholesky {
	return &GonumCholesky{}
}

// Factorize implements Cholesky.
func (g *GonumCholesky) Factorize(a []float64, n int) error {
	if n <= 0 || len(a) != n*n {
		return ErrShapeMismatch
	}
	sym := mat.NewSymDense(n, append([]float64(nil), a...))
	if ok := g.chol.Factorize(sym); !ok {
		return ErrNotPositiveDefinite
	}
	g.n = n
	return nil
}

// Rank1Update implements Cholesky. gonum's SymRankOne takes a signed alpha
// directly, so spec §4.3's Δπ>0 UPDATE and Δπ<0 DOWNDATE collapse into
// this one call regardless of sign.
func (g *GonumCholesky) Rank1Update(alpha float64, x []float64) error {
	if len(x) != g.n {
		return ErrShapeMismatch
	}
	xv := mat.NewVecDense(g.n, x)
	var next mat.Cholesky
	if ok := next.SymRankOne(&g.chol, alpha, xv); !ok {
		return ErrNotPositiveDefinite
	}
	g.chol = next
	return nil
}

// SolveL implements Cholesky: out = L⁻¹ b.
func (g *GonumCholesky) SolveL(b, out []float64) error {
	if len(b) != g.n || len(out) != g.n {
		return ErrShapeMismatch
	}
	g.chol.LTo(&g.triBuf)
	bv := mat.NewVecDense(g.n, append([]float64(nil), b...))
	var res mat.VecDense
	if err := res.SolveVec(&g.triBuf, bv); err != nil {
		return ErrNotPositiveDefinite
	}
	copy(out, res.RawVector().Data)
	return nil
}

// SolveLT implements Cholesky: out = L⁻ᵀ b.
func (g *GonumCholesky) SolveLT(b, out []float64) error {
	if len(b) != g.n || len(out) != g.n {
		return ErrShapeMismatch
	}
	g.chol.LTo(&g.triBuf)
	bv := mat.NewVecDense(g.n, append([]float64(nil), b...))
	var res mat.VecDense
	if err := res.SolveVec(g.triBuf.T(), bv); err != nil {
		return ErrNotPositiveDefinite
	}
	copy(out, res.RawVector().Data)
	return nil
}

// Inverse implements Cholesky: out = A⁻¹ = L⁻ᵀL⁻¹, row-major symmetric.
func (g *GonumCholesky) Inverse(out []float64) error {
	if len(out) != g.n*g.n {
		return ErrShapeMismatch
	}
	if err := g.chol.InverseTo(&g.symBuf); err != nil {
		return ErrNotPositiveDefinite
	}
	for i := 0; i < g.n; i++ {
		for j := 0; j < g.n; j++ {
			out[i*g.n+j] = g.symBuf.At(i, j)
		}
	}
	return nil
}

// L implements Cholesky: exports the current lower-triangular factor,
// row-major, zeros above the diagonal.
func (g *GonumCholesky) L(out []float64) error {
	if len(out) != g.n*g.n {
		return ErrShapeMismatch
	}
	g.chol.LTo(&g.triBuf)
	for i := 0; i < g.n; i++ {
		for j := 0; j <= i; j++ {
			out[i*g.n+j] = g.triBuf.At(i, j)
		}
		for j := i + 1; j < g.n; j++ {
			out[i*g.n+j] = 0
		}
	}
	return nil
}

// Size implements Cholesky.
func (g *GonumCholesky) Size() int { return g.n }
