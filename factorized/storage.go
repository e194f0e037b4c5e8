// SPDX-License-Identifier: MIT
package factorized

import "sort"

// Storage is the companion row/column edge layout of spec §4.4: nonzeros
// of an m×n coupling factor stored once in row (factor) order and once in
// column (variable) order, the latter carrying a back-pointer into the
// former so a write made through either view keeps ep_pi/ep_beta coherent.
type Storage struct {
	M, N int

	RowPtr []int     // len M+1
	RowCol []int     // len nnz, variable index of each row-ordered entry
	BVals  []float64 // len nnz, row-ordered B values
	B2Vals []float64 // len nnz, row-ordered B values squared

	ColPtr  []int // len N+1
	ColRow  []int // len nnz, factor index of each column-ordered entry
	ColBack []int // len nnz, index into RowCol/BVals of the same edge
}

type cooEntry struct {
	row, col int
	val      float64
}

// NewStorage builds a Storage from coordinate-format triples
// (rows[i], cols[i], vals[i]); duplicate (row,col) pairs are summed,
// matching the COO-to-CSR assembly convention used by factor.Sparse.
func NewStorage(m, n int, rows, cols []int, vals []float64) (*Storage, error) {
	if m <= 0 || n <= 0 || len(rows) == 0 {
		return nil, ErrEmptyStorage
	}
	if len(rows) != len(cols) || len(rows) != len(vals) {
		return nil, ErrInvalidArgument
	}
	entries := make([]cooEntry, len(rows))
	for i := range rows {
		if rows[i] < 0 || rows[i] >= m || cols[i] < 0 || cols[i] >= n {
			return nil, ErrInvalidArgument
		}
		entries[i] = cooEntry{rows[i], cols[i], vals[i]}
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].row != entries[j].row {
			return entries[i].row < entries[j].row
		}
		return entries[i].col < entries[j].col
	})
	// Merge duplicates within a row.
	merged := entries[:0:0]
	for _, e := range entries {
		if n := len(merged); n > 0 && merged[n-1].row == e.row && merged[n-1].col == e.col {
			merged[n-1].val += e.val
			continue
		}
		merged = append(merged, e)
	}
	nnz := len(merged)

	s := &Storage{M: m, N: n}
	s.RowPtr = make([]int, m+1)
	s.RowCol = make([]int, nnz)
	s.BVals = make([]float64, nnz)
	s.B2Vals = make([]float64, nnz)
	for _, e := range merged {
		s.RowPtr[e.row+1]++
	}
	for i := 0; i < m; i++ {
		s.RowPtr[i+1] += s.RowPtr[i]
	}
	fill := make([]int, m)
	for _, e := range merged {
		pos := s.RowPtr[e.row] + fill[e.row]
		s.RowCol[pos] = e.col
		s.BVals[pos] = e.val
		s.B2Vals[pos] = e.val * e.val
		fill[e.row]++
	}

	// Column-ordered view with back-pointers into the row-ordered slots.
	sort.Slice(merged, func(i, j int) bool {
		if merged[i].col != merged[j].col {
			return merged[i].col < merged[j].col
		}
		return merged[i].row < merged[j].row
	})
	s.ColPtr = make([]int, n+1)
	s.ColRow = make([]int, nnz)
	s.ColBack = make([]int, nnz)
	for _, e := range merged {
		s.ColPtr[e.col+1]++
	}
	for i := 0; i < n; i++ {
		s.ColPtr[i+1] += s.ColPtr[i]
	}
	fillCol := make([]int, n)
	for _, e := range merged {
		pos := s.ColPtr[e.col] + fillCol[e.col]
		s.ColRow[pos] = e.row
		s.ColBack[pos] = s.rowSlot(e.row, e.col)
		fillCol[e.col]++
	}
	return s, nil
}

// rowSlot returns the row-ordered slot index of edge (row,col); used only
// during construction to compute back-pointers.
func (s *Storage) rowSlot(row, col int) int {
	lo, hi := s.RowPtr[row], s.RowPtr[row+1]
	for k := lo; k < hi; k++ {
		if s.RowCol[k] == col {
			return k
		}
	}
	return -1
}

// NNZ returns the number of stored nonzeros.
func (s *Storage) NNZ() int { return len(s.BVals) }

// RowRange returns the [lo,hi) row-ordered slot range for factor index j.
func (s *Storage) RowRange(j int) (lo, hi int) { return s.RowPtr[j], s.RowPtr[j+1] }

// ColRange returns the [lo,hi) column-ordered slot range for variable i.
func (s *Storage) ColRange(i int) (lo, hi int) { return s.ColPtr[i], s.ColPtr[i+1] }
