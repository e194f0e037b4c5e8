package factorized

// SelDamp is the selective-damping tracker of spec §4.4: for each
// variable i, the K largest π_{j,i} values among its edges (optionally
// restricted to a subset of factors), used by the factorized sequential
// kernel to bound the damping applied at a site so that a *future*
// cavity computation at i stays above the configured threshold.
//
// Reset builds an exact top-K; Update then maintains it without rescanning.
// Update refreshes a tracked entry in place and does not compare a lowered
// value against untracked edges, so after a decrease an untracked edge may
// outrank it without NumValid changing. NumValid shrinks only when an
// insertion displaces the smallest entry of a full list. Reset performs
// the full rescan that makes the tracker exact again.
type SelDamp struct {
	k        int
	topInd   [][]int     // per variable, len <= k, descending by value
	topVal   [][]float64 // per variable, same order as topInd
	numValid []int

	subind  map[int]struct{} // nil means "no restriction"
	exclude bool
}

// NewSelDamp allocates an (empty, all-zero NumValid) tracker for n
// variables with top-K width k. k must be at least 2; a smaller k (or
// n <= 0) returns ErrInvalidArgument. Call Reset before first use.
func NewSelDamp(n, k int) (*SelDamp, error) {
	if n <= 0 || k < 2 {
		return nil, ErrInvalidArgument
	}
	s := &SelDamp{
		k:        k,
		topInd:   make([][]int, n),
		topVal:   make([][]float64, n),
		numValid: make([]int, n),
	}
	return s, nil
}

// K returns the tracker's top-K width.
func (s *SelDamp) K() int { return s.k }

// NumValid returns the number of tracked (exactly known to be within the
// true top-K) entries for variable i.
func (s *SelDamp) NumValid(i int) int { return s.numValid[i] }

// inScope reports whether factor index j is within this tracker's scope.
func (s *SelDamp) inScope(j int) bool {
	if s.subind == nil {
		return true
	}
	_, in := s.subind[j]
	if s.exclude {
		return !in
	}
	return in
}

// Reset rescans every edge of storage (restricted to subind/exclude, spec
// §4.4 seldamp_reset) and rebuilds the exact top-K per variable from
// epPi, the current row-ordered site precisions.
func (s *SelDamp) Reset(storage *Storage, epPi []float64, subind []int, exclude bool) {
	if subind != nil {
		set := make(map[int]struct{}, len(subind))
		for _, j := range subind {
			set[j] = struct{}{}
		}
		s.subind = set
	} else {
		s.subind = nil
	}
	s.exclude = exclude

	for i := 0; i < storage.N; i++ {
		lo, hi := storage.ColRange(i)
		var ind []int
		var val []float64
		for e := lo; e < hi; e++ {
			j := storage.ColRow[e]
			if !s.inScope(j) {
				continue
			}
			ind = append(ind, j)
			val = append(val, epPi[storage.ColBack[e]])
		}
		insertionSortDesc(ind, val)
		if len(ind) > s.k {
			ind = ind[:s.k]
			val = val[:s.k]
		}
		s.topInd[i] = ind
		s.topVal[i] = val
		s.numValid[i] = len(ind)
	}
}

// Update notifies the tracker that edge (j,i)'s site precision is now
// newVal (spec §4.4's per-write maintenance): if j was tracked its entry
// is refreshed in place; otherwise newVal is inserted iff it would belong
// in the top-K, and the tracked count shrinks by one whenever a full list
// drops its smallest entry to accommodate an insertion elsewhere (in that
// case NumValid correctly under-counts rather than lying about order).
func (s *SelDamp) Update(i, j int, newVal float64) {
	if !s.inScope(j) {
		return
	}
	ind, val := s.topInd[i], s.topVal[i]
	for p, jj := range ind {
		if jj == j {
			val[p] = newVal
			insertionSortDesc(ind, val)
			s.topVal[i] = val
			return
		}
	}
	if len(ind) < s.k {
		ind = append(ind, j)
		val = append(val, newVal)
		insertionSortDesc(ind, val)
		s.topInd[i], s.topVal[i] = ind, val
		s.numValid[i] = len(ind)
		return
	}
	if newVal > val[len(val)-1] {
		ind[len(ind)-1] = j
		val[len(val)-1] = newVal
		insertionSortDesc(ind, val)
		s.topInd[i], s.topVal[i] = ind, val
		// The displaced entry might not have been the true (k+1)-th
		// largest within scope, so the tracker can no longer certify a
		// full top-K; Reset is needed to restore exactness.
		if s.numValid[i] == s.k {
			s.numValid[i] = s.k - 1
		}
	}
}

// Max returns the largest tracked π_{j,i} for j != excludeJ, or 0 if the
// tracker holds nothing usable (a conservative value: callers treat 0 as
// "no constraint known", never as a false guarantee of smallness).
func (s *SelDamp) Max(i, excludeJ int) float64 {
	for p, j := range s.topInd[i] {
		if j != excludeJ {
			return s.topVal[i][p]
		}
	}
	return 0
}

func insertionSortDesc(ind []int, val []float64) {
	for i := 1; i < len(val); i++ {
		vi, ji := val[i], ind[i]
		j := i - 1
		for j >= 0 && val[j] < vi {
			val[j+1] = val[j]
			ind[j+1] = ind[j]
			j--
		}
		val[j+1] = vi
		ind[j+1] = ji
	}
}
