package factor

// Identity is the square n×n identity CouplingFactor. It is its own
// transpose; mvm is a copy, mat_btdb yields diag(v), diag_bsbt yields
// diag(S).
type Identity struct {
	n int
}

// NewIdentity constructs the n×n identity factor.
func NewIdentity(n int) (*Identity, error) {
	if n <= 0 {
		return nil, ErrEmptyFactor
	}
	return &Identity{n: n}, nil
}

func (f *Identity) Dims() (int, int)  { return f.n, f.n }
func (f *Identity) Transposed() bool  { return false }
func (f *Identity) Transpose() Factor { return f }

func (f *Identity) MVM(v, out []float64) error {
	if err := checkShape("Identity.MVM", len(v), f.n); err != nil {
		return err
	}
	if err := checkShape("Identity.MVM", len(out), f.n); err != nil {
		return err
	}
	copy(out, v)
	return nil
}

func (f *Identity) Col(i int, out []float64) error {
	if i < 0 || i >= f.n {
		return ErrIndexOutOfRange
	}
	if err := checkShape("Identity.Col", len(out), f.n); err != nil {
		return err
	}
	for r := range out {
		out[r] = 0
	}
	out[i] = 1
	return nil
}

func (f *Identity) BTDB(v, out []float64) error {
	if err := checkShape("Identity.BTDB", len(v), f.n); err != nil {
		return err
	}
	if err := checkShape("Identity.BTDB", len(out), f.n*f.n); err != nil {
		return err
	}
	for i := range out {
		out[i] = 0
	}
	for i := 0; i < f.n; i++ {
		out[i*f.n+i] = v[i]
	}
	return nil
}

func (f *Identity) DiagBSBt(s, out []float64) error {
	if err := checkShape("Identity.DiagBSBt", len(s), f.n*f.n); err != nil {
		return err
	}
	if err := checkShape("Identity.DiagBSBt", len(out), f.n); err != nil {
		return err
	}
	for i := 0; i < f.n; i++ {
		out[i] = s[i*f.n+i]
	}
	return nil
}
