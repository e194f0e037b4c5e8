package factor

// Dense is a row-major, fully populated CouplingFactor. data always holds
// the physically-constructed orientation (pm×pn); the transposed flag
// flips which of pm/pn is reported as the logical row count, without ever
// copying data. This mirrors lvlath/matrix.Dense's flat-slice layout.
type Dense struct {
	pm, pn     int
	data       []float64 // row-major, length pm*pn
	transposed bool
}

// NewDense constructs a physically m×n Dense factor. data, if non-nil,
// must have length m*n and is copied; if nil, the factor starts zeroed.
func NewDense(m, n int, data []float64) (*Dense, error) {
	if m <= 0 || n <= 0 {
		return nil, ErrEmptyFactor
	}
	if data != nil {
		if err := checkShape("NewDense", len(data), m*n); err != nil {
			return nil, err
		}
	}
	buf := make([]float64, m*n)
	if data != nil {
		copy(buf, data)
	}
	return &Dense{pm: m, pn: n, data: buf}, nil
}

func (d *Dense) Dims() (int, int) {
	if d.transposed {
		return d.pn, d.pm
	}
	return d.pm, d.pn
}

func (d *Dense) Transposed() bool { return d.transposed }

func (d *Dense) Transpose() Factor {
	return &Dense{pm: d.pm, pn: d.pn, data: d.data, transposed: !d.transposed}
}

// at returns the logical (i,j) element, i in [0,m), j in [0,n).
func (d *Dense) at(i, j int) float64 {
	if d.transposed {
		return d.data[j*d.pn+i]
	}
	return d.data[i*d.pn+j]
}

func (d *Dense) MVM(v, out []float64) error {
	m, n := d.Dims()
	if err := checkShape("Dense.MVM", len(v), n); err != nil {
		return err
	}
	if err := checkShape("Dense.MVM", len(out), m); err != nil {
		return err
	}
	for i := 0; i < m; i++ {
		var sum float64
		for j := 0; j < n; j++ {
			sum += d.at(i, j) * v[j]
		}
		out[i] = sum
	}
	return nil
}

func (d *Dense) Col(i int, out []float64) error {
	m, n := d.Dims()
	if i < 0 || i >= n {
		return ErrIndexOutOfRange
	}
	if err := checkShape("Dense.Col", len(out), m); err != nil {
		return err
	}
	for r := 0; r < m; r++ {
		out[r] = d.at(r, i)
	}
	return nil
}

// BTDB forms scratch M = B∘v (row-scaled copy of the logical B) then MᵀB,
// per spec §4.1's description of the Dense kernel.
func (d *Dense) BTDB(v, out []float64) error {
	m, n := d.Dims()
	if err := checkShape("Dense.BTDB", len(v), m); err != nil {
		return err
	}
	if err := checkShape("Dense.BTDB", len(out), n*n); err != nil {
		return err
	}

	mscaled := make([]float64, m*n)
	for i := 0; i < m; i++ {
		for j := 0; j < n; j++ {
			mscaled[i*n+j] = v[i] * d.at(i, j)
		}
	}
	for p := 0; p < n; p++ {
		for q := p; q < n; q++ {
			var sum float64
			for i := 0; i < m; i++ {
				sum += mscaled[i*n+p] * d.at(i, q)
			}
			out[p*n+q] = sum
			out[q*n+p] = sum
		}
	}
	return nil
}

func (d *Dense) DiagBSBt(s, out []float64) error {
	m, n := d.Dims()
	if err := checkShape("Dense.DiagBSBt", len(s), n*n); err != nil {
		return err
	}
	if err := checkShape("Dense.DiagBSBt", len(out), m); err != nil {
		return err
	}

	bs := make([]float64, n) // (B S)[i,:] scratch, reused per row
	for i := 0; i < m; i++ {
		for p := 0; p < n; p++ {
			var sum float64
			for q := 0; q < n; q++ {
				sum += d.at(i, q) * s[q*n+p]
			}
			bs[p] = sum
		}
		var val float64
		for p := 0; p < n; p++ {
			val += d.at(i, p) * bs[p]
		}
		out[i] = val
	}
	return nil
}
