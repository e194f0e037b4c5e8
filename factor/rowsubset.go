package factor

// RowSubset represents the k rows sigma[0..k) of the n×n identity, i.e. a
// k×n selection matrix B with B[i,j] = 1 iff j == sigma[i]. mvm(v) = v[sigma];
// Bᵀu scatters u at positions sigma, zero elsewhere (spec §4.1, exercised by
// seed scenario S1).
//
// sigma is assumed to hold distinct indices in [0,n); callers that need a
// repeated-row selection should compose several RowSubset views via VStack
// instead, since the quadratic kernels below assume distinctness.
type RowSubset struct {
	sigma      []int
	n          int
	transposed bool
}

// NewRowSubset constructs a k×n selection factor from sigma, a slice of k
// row indices into the n×n identity.
func NewRowSubset(sigma []int, n int) (*RowSubset, error) {
	if n <= 0 || len(sigma) == 0 {
		return nil, ErrEmptyFactor
	}
	for _, s := range sigma {
		if s < 0 || s >= n {
			return nil, ErrIndexOutOfRange
		}
	}
	cp := make([]int, len(sigma))
	copy(cp, sigma)
	return &RowSubset{sigma: cp, n: n}, nil
}

func (f *RowSubset) Dims() (int, int) {
	if f.transposed {
		return f.n, len(f.sigma)
	}
	return len(f.sigma), f.n
}

func (f *RowSubset) Transposed() bool { return f.transposed }

func (f *RowSubset) Transpose() Factor {
	return &RowSubset{sigma: f.sigma, n: f.n, transposed: !f.transposed}
}

func (f *RowSubset) MVM(v, out []float64) error {
	k, n := len(f.sigma), f.n
	if !f.transposed {
		if err := checkShape("RowSubset.MVM", len(v), n); err != nil {
			return err
		}
		if err := checkShape("RowSubset.MVM", len(out), k); err != nil {
			return err
		}
		for i, s := range f.sigma {
			out[i] = v[s]
		}
		return nil
	}
	if err := checkShape("RowSubset.MVM", len(v), k); err != nil {
		return err
	}
	if err := checkShape("RowSubset.MVM", len(out), n); err != nil {
		return err
	}
	for i := range out {
		out[i] = 0
	}
	for i, s := range f.sigma {
		out[s] = v[i]
	}
	return nil
}

func (f *RowSubset) Col(i int, out []float64) error {
	k, n := len(f.sigma), f.n
	if !f.transposed {
		if i < 0 || i >= n {
			return ErrIndexOutOfRange
		}
		if err := checkShape("RowSubset.Col", len(out), k); err != nil {
			return err
		}
		for r := range out {
			out[r] = 0
		}
		for r, s := range f.sigma {
			if s == i {
				out[r] = 1
			}
		}
		return nil
	}
	if i < 0 || i >= k {
		return ErrIndexOutOfRange
	}
	if err := checkShape("RowSubset.Col", len(out), n); err != nil {
		return err
	}
	for r := range out {
		out[r] = 0
	}
	out[f.sigma[i]] = 1
	return nil
}

// BTDB: non-transposed, Bᵀ diag(v) B is the n×n matrix with out[sigma[i],
// sigma[i]] = v[i] and zero elsewhere. Transposed (logical shape n×k, i.e.
// B_here = Bᵀ), the kernel reduces to a k×k diagonal with out[i,i] =
// v[sigma[i]].
func (f *RowSubset) BTDB(v, out []float64) error {
	k, n := len(f.sigma), f.n
	if !f.transposed {
		if err := checkShape("RowSubset.BTDB", len(v), k); err != nil {
			return err
		}
		if err := checkShape("RowSubset.BTDB", len(out), n*n); err != nil {
			return err
		}
		for i := range out {
			out[i] = 0
		}
		for i, s := range f.sigma {
			out[s*n+s] += v[i]
		}
		return nil
	}
	if err := checkShape("RowSubset.BTDB", len(v), n); err != nil {
		return err
	}
	if err := checkShape("RowSubset.BTDB", len(out), k*k); err != nil {
		return err
	}
	for i := range out {
		out[i] = 0
	}
	for i, s := range f.sigma {
		out[i*k+i] = v[s]
	}
	return nil
}

// DiagBSBt: non-transposed, diag(B S Bᵀ)[i] = S[sigma[i], sigma[i]].
// Transposed, diag_bsbt[j] = S[i*,i*] where sigma[i*] == j, else 0.
func (f *RowSubset) DiagBSBt(s, out []float64) error {
	k, n := len(f.sigma), f.n
	if !f.transposed {
		if err := checkShape("RowSubset.DiagBSBt", len(s), n*n); err != nil {
			return err
		}
		if err := checkShape("RowSubset.DiagBSBt", len(out), k); err != nil {
			return err
		}
		for i, sig := range f.sigma {
			out[i] = s[sig*n+sig]
		}
		return nil
	}
	if err := checkShape("RowSubset.DiagBSBt", len(s), k*k); err != nil {
		return err
	}
	if err := checkShape("RowSubset.DiagBSBt", len(out), n); err != nil {
		return err
	}
	for i := range out {
		out[i] = 0
	}
	for i, sig := range f.sigma {
		out[sig] = s[i*k+i]
	}
	return nil
}
