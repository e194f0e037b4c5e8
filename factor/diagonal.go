package factor

// Diagonal is a square n×n CouplingFactor B = diag(d). It is symmetric by
// construction, so its transposed view is numerically identical; the flag
// is still tracked for interface consistency.
type Diagonal struct {
	d          []float64
	transposed bool
}

// NewDiagonal constructs a Diagonal factor from d (copied).
func NewDiagonal(d []float64) (*Diagonal, error) {
	if len(d) == 0 {
		return nil, ErrEmptyFactor
	}
	cp := make([]float64, len(d))
	copy(cp, d)
	return &Diagonal{d: cp}, nil
}

func (f *Diagonal) Dims() (int, int) { return len(f.d), len(f.d) }
func (f *Diagonal) Transposed() bool { return f.transposed }

func (f *Diagonal) Transpose() Factor {
	return &Diagonal{d: f.d, transposed: !f.transposed}
}

func (f *Diagonal) MVM(v, out []float64) error {
	n := len(f.d)
	if err := checkShape("Diagonal.MVM", len(v), n); err != nil {
		return err
	}
	if err := checkShape("Diagonal.MVM", len(out), n); err != nil {
		return err
	}
	for i := range f.d {
		out[i] = f.d[i] * v[i]
	}
	return nil
}

func (f *Diagonal) Col(i int, out []float64) error {
	n := len(f.d)
	if i < 0 || i >= n {
		return ErrIndexOutOfRange
	}
	if err := checkShape("Diagonal.Col", len(out), n); err != nil {
		return err
	}
	for r := range out {
		out[r] = 0
	}
	out[i] = f.d[i]
	return nil
}

// BTDB yields diag(v∘d²): the off-diagonal of out is zeroed, the diagonal
// set to v[i]*d[i]*d[i].
func (f *Diagonal) BTDB(v, out []float64) error {
	n := len(f.d)
	if err := checkShape("Diagonal.BTDB", len(v), n); err != nil {
		return err
	}
	if err := checkShape("Diagonal.BTDB", len(out), n*n); err != nil {
		return err
	}
	for i := range out {
		out[i] = 0
	}
	for i := 0; i < n; i++ {
		out[i*n+i] = v[i] * f.d[i] * f.d[i]
	}
	return nil
}

// DiagBSBt yields d²∘diag(S).
func (f *Diagonal) DiagBSBt(s, out []float64) error {
	n := len(f.d)
	if err := checkShape("Diagonal.DiagBSBt", len(s), n*n); err != nil {
		return err
	}
	if err := checkShape("Diagonal.DiagBSBt", len(out), n); err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		out[i] = f.d[i] * f.d[i] * s[i*n+i]
	}
	return nil
}
