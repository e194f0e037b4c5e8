package factor

// VStack composes children factors as B = [B_0; B_1; ...; B_{k-1}] stacked
// along rows; every child must report the same (non-transposed) column
// count n. The composite's own transposed flag controls whether it acts
// as the stack (m_total×n) or its transpose (n×m_total); children are
// always consulted in their own forward orientation, with the composite
// flag deciding whether their MVM or Transpose().MVM is invoked.
type VStack struct {
	children   []Factor
	offsets    []int // len(children)+1, prefix sums of child row counts
	n          int   // shared column count
	transposed bool
}

// NewVStack composes children, validating they all report the same
// (non-transposed-view) column count.
func NewVStack(children ...Factor) (*VStack, error) {
	if len(children) == 0 {
		return nil, ErrEmptyFactor
	}
	offsets := make([]int, len(children)+1)
	_, n := children[0].Dims()
	for i, c := range children {
		cm, cn := c.Dims()
		if cn != n {
			return nil, ErrDimensionMismatch
		}
		offsets[i+1] = offsets[i] + cm
	}
	return &VStack{children: children, offsets: offsets, n: n}, nil
}

func (f *VStack) Dims() (int, int) {
	m := f.offsets[len(f.offsets)-1]
	if f.transposed {
		return f.n, m
	}
	return m, f.n
}

func (f *VStack) Transposed() bool { return f.transposed }

func (f *VStack) Transpose() Factor {
	return &VStack{children: f.children, offsets: f.offsets, n: f.n, transposed: !f.transposed}
}

// childOf locates the child owning global row index i, and i's offset
// within that child.
func (f *VStack) childOf(i int) (c Factor, local int) {
	for k := 0; k < len(f.children); k++ {
		if i < f.offsets[k+1] {
			return f.children[k], i - f.offsets[k]
		}
	}
	return nil, -1
}

func (f *VStack) MVM(v, out []float64) error {
	m, n := f.Dims()
	if err := checkShape("VStack.MVM", len(v), n); err != nil {
		return err
	}
	if err := checkShape("VStack.MVM", len(out), m); err != nil {
		return err
	}
	if !f.transposed {
		for k, c := range f.children {
			lo, hi := f.offsets[k], f.offsets[k+1]
			if err := c.MVM(v, out[lo:hi]); err != nil {
				return err
			}
		}
		return nil
	}
	for i := range out {
		out[i] = 0
	}
	tmp := make([]float64, f.n)
	for k, c := range f.children {
		lo, hi := f.offsets[k], f.offsets[k+1]
		if err := c.Transpose().MVM(v[lo:hi], tmp); err != nil {
			return err
		}
		for i := range tmp {
			out[i] += tmp[i]
		}
	}
	return nil
}

func (f *VStack) Col(i int, out []float64) error {
	m, n := f.Dims()
	if i < 0 || i >= n {
		return ErrIndexOutOfRange
	}
	if err := checkShape("VStack.Col", len(out), m); err != nil {
		return err
	}
	if !f.transposed {
		for k, c := range f.children {
			lo, hi := f.offsets[k], f.offsets[k+1]
			if err := c.Col(i, out[lo:hi]); err != nil {
				return err
			}
		}
		return nil
	}
	c, local := f.childOf(i)
	return c.Transpose().Col(local, out)
}

// BTDB sums per-child contributions, each evaluated against its own slice
// of v, when acting in forward orientation (spec §4.1: "mat_btdb sums
// children"). In transposed orientation it falls back to the generic
// mvm/col-based kernel, since the per-child decomposition no longer applies
// directly.
func (f *VStack) BTDB(v, out []float64) error {
	if f.transposed {
		return FallbackBTDB(f, v, out)
	}
	m, n := f.Dims()
	if err := checkShape("VStack.BTDB", len(v), m); err != nil {
		return err
	}
	if err := checkShape("VStack.BTDB", len(out), n*n); err != nil {
		return err
	}
	for i := range out {
		out[i] = 0
	}
	tmp := make([]float64, n*n)
	for k, c := range f.children {
		lo, hi := f.offsets[k], f.offsets[k+1]
		if err := c.BTDB(v[lo:hi], tmp); err != nil {
			return err
		}
		for i := range tmp {
			out[i] += tmp[i]
		}
	}
	return nil
}

// DiagBSBt concatenates each child's diag_bsbt(S) over the row partition
// (spec §4.1), in forward orientation; transposed falls back generically.
func (f *VStack) DiagBSBt(s, out []float64) error {
	if f.transposed {
		return FallbackDiagBSBt(f, s, out)
	}
	m, n := f.Dims()
	if err := checkShape("VStack.DiagBSBt", len(s), n*n); err != nil {
		return err
	}
	if err := checkShape("VStack.DiagBSBt", len(out), m); err != nil {
		return err
	}
	for k, c := range f.children {
		lo, hi := f.offsets[k], f.offsets[k+1]
		if err := c.DiagBSBt(s, out[lo:hi]); err != nil {
			return err
		}
	}
	return nil
}
