package factor

import "sort"

// Sparse is a CouplingFactor backed by both a compressed-row and a
// compressed-column view of the same nonzeros, built once at construction
// (the same "companion layout" idea FactorizedRepresentation uses for its
// row/column edge stores in spec §4.4). Keeping both avoids an O(nnz) scan
// on every Col call and lets BTDB/DiagBSBt group by whichever orientation
// is logically the row dimension.
type Sparse struct {
	pm, pn int

	rowPtr []int // len pm+1
	rowCol []int // len nnz, column index of each CSR entry
	rowVal []float64

	colPtr []int // len pn+1
	colRow []int // len nnz, row index of each CSC entry
	colVal []float64

	transposed bool
}

// entry is a (index, value) pair within one logical row or column.
type entry struct {
	idx int
	val float64
}

// NewSparseCOO builds a Sparse factor from coordinate-format triples
// (rows[i], cols[i], vals[i]); duplicate (row,col) pairs are summed,
// matching typical COO-to-CSR assembly semantics.
func NewSparseCOO(m, n int, rows, cols []int, vals []float64) (*Sparse, error) {
	if m <= 0 || n <= 0 {
		return nil, ErrEmptyFactor
	}
	if len(rows) != len(cols) || len(rows) != len(vals) {
		return nil, ErrInvalidArgument
	}
	nnz := len(rows)

	type coo struct {
		r, c int
		v    float64
	}
	entries := make([]coo, nnz)
	for i := 0; i < nnz; i++ {
		if rows[i] < 0 || rows[i] >= m || cols[i] < 0 || cols[i] >= n {
			return nil, ErrIndexOutOfRange
		}
		entries[i] = coo{rows[i], cols[i], vals[i]}
	}

	// Build CSR: sort by (row, col), merge duplicates.
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].r != entries[j].r {
			return entries[i].r < entries[j].r
		}
		return entries[i].c < entries[j].c
	})
	rowPtr := make([]int, m+1)
	rowCol := make([]int, 0, nnz)
	rowVal := make([]float64, 0, nnz)
	for _, e := range entries {
		rowPtr[e.r+1]++
	}
	for i := 0; i < m; i++ {
		rowPtr[i+1] += rowPtr[i]
	}
	// second pass: merge duplicates within a row while filling
	filled := make([]int, m+1)
	copy(filled, rowPtr)
	tmpCol := make([]int, rowPtr[m])
	tmpVal := make([]float64, rowPtr[m])
	for _, e := range entries {
		pos := filled[e.r]
		if pos > rowPtr[e.r] && tmpCol[pos-1] == e.c {
			tmpVal[pos-1] += e.v
			continue
		}
		tmpCol[pos] = e.c
		tmpVal[pos] = e.v
		filled[e.r]++
	}
	// compact out any gaps left by merges
	for r := 0; r < m; r++ {
		for k := rowPtr[r]; k < filled[r]; k++ {
			rowCol = append(rowCol, tmpCol[k])
			rowVal = append(rowVal, tmpVal[k])
		}
	}
	rowPtr2 := make([]int, m+1)
	for r := 0; r < m; r++ {
		rowPtr2[r+1] = rowPtr2[r] + (filled[r] - rowPtr[r])
	}
	rowPtr = rowPtr2

	// Build CSC from the deduplicated CSR.
	colPtr := make([]int, n+1)
	for r := 0; r < m; r++ {
		for k := rowPtr[r]; k < rowPtr[r+1]; k++ {
			colPtr[rowCol[k]+1]++
		}
	}
	for j := 0; j < n; j++ {
		colPtr[j+1] += colPtr[j]
	}
	colRow := make([]int, len(rowCol))
	colVal := make([]float64, len(rowVal))
	cursor := make([]int, n)
	copy(cursor, colPtr[:n])
	for r := 0; r < m; r++ {
		for k := rowPtr[r]; k < rowPtr[r+1]; k++ {
			c := rowCol[k]
			pos := cursor[c]
			colRow[pos] = r
			colVal[pos] = rowVal[k]
			cursor[c]++
		}
	}

	return &Sparse{
		pm: m, pn: n,
		rowPtr: rowPtr, rowCol: rowCol, rowVal: rowVal,
		colPtr: colPtr, colRow: colRow, colVal: colVal,
	}, nil
}

func (f *Sparse) Dims() (int, int) {
	if f.transposed {
		return f.pn, f.pm
	}
	return f.pm, f.pn
}

func (f *Sparse) Transposed() bool { return f.transposed }

func (f *Sparse) Transpose() Factor {
	return &Sparse{
		pm: f.pm, pn: f.pn,
		rowPtr: f.rowPtr, rowCol: f.rowCol, rowVal: f.rowVal,
		colPtr: f.colPtr, colRow: f.colRow, colVal: f.colVal,
		transposed: !f.transposed,
	}
}

// physRow/physCol entries for physical row i / physical column j.
func (f *Sparse) physRow(i int) []entry {
	lo, hi := f.rowPtr[i], f.rowPtr[i+1]
	out := make([]entry, hi-lo)
	for k := lo; k < hi; k++ {
		out[k-lo] = entry{f.rowCol[k], f.rowVal[k]}
	}
	return out
}

func (f *Sparse) physCol(j int) []entry {
	lo, hi := f.colPtr[j], f.colPtr[j+1]
	out := make([]entry, hi-lo)
	for k := lo; k < hi; k++ {
		out[k-lo] = entry{f.colRow[k], f.colVal[k]}
	}
	return out
}

// logicalRow returns, for a logical row i in [0,mLog), its nonzero
// (logicalCol, val) entries: physical CSR rows when !transposed, physical
// CSC columns (reinterpreted as rows) when transposed.
func (f *Sparse) logicalRow(i int) []entry {
	if !f.transposed {
		return f.physRow(i)
	}
	return f.physCol(i)
}

func (f *Sparse) logicalCol(j int) []entry {
	if !f.transposed {
		return f.physCol(j)
	}
	return f.physRow(j)
}

func (f *Sparse) MVM(v, out []float64) error {
	m, n := f.Dims()
	if err := checkShape("Sparse.MVM", len(v), n); err != nil {
		return err
	}
	if err := checkShape("Sparse.MVM", len(out), m); err != nil {
		return err
	}
	for i := 0; i < m; i++ {
		var sum float64
		for _, e := range f.logicalRow(i) {
			sum += e.val * v[e.idx]
		}
		out[i] = sum
	}
	return nil
}

func (f *Sparse) Col(j int, out []float64) error {
	m, n := f.Dims()
	if j < 0 || j >= n {
		return ErrIndexOutOfRange
	}
	if err := checkShape("Sparse.Col", len(out), m); err != nil {
		return err
	}
	for r := range out {
		out[r] = 0
	}
	for _, e := range f.logicalCol(j) {
		out[e.idx] = e.val
	}
	return nil
}

// BTDB groups by logical row: for row i with nonzero entries (p,val_p),
// accumulate v[i]*val_p*val_q into out[p,q] for every pair in that row,
// which is BᵀΠB kept sparse (spec §4.1).
func (f *Sparse) BTDB(v, out []float64) error {
	m, n := f.Dims()
	if err := checkShape("Sparse.BTDB", len(v), m); err != nil {
		return err
	}
	if err := checkShape("Sparse.BTDB", len(out), n*n); err != nil {
		return err
	}
	for i := range out {
		out[i] = 0
	}
	for i := 0; i < m; i++ {
		row := f.logicalRow(i)
		for a := 0; a < len(row); a++ {
			for b := 0; b < len(row); b++ {
				out[row[a].idx*n+row[b].idx] += v[i] * row[a].val * row[b].val
			}
		}
	}
	return nil
}

// DiagBSBt computes rowsum(B ∘ (B S)) per spec §4.1: for logical row i,
// diag_bsbt[i] = sum over (p,q) both nonzero in the row of B[i,p]*S[q,p]*B[i,q].
func (f *Sparse) DiagBSBt(s, out []float64) error {
	m, n := f.Dims()
	if err := checkShape("Sparse.DiagBSBt", len(s), n*n); err != nil {
		return err
	}
	if err := checkShape("Sparse.DiagBSBt", len(out), m); err != nil {
		return err
	}
	for i := 0; i < m; i++ {
		row := f.logicalRow(i)
		var val float64
		for a := 0; a < len(row); a++ {
			for b := 0; b < len(row); b++ {
				val += row[a].val * s[row[b].idx*n+row[a].idx] * row[b].val
			}
		}
		out[i] = val
	}
	return nil
}
