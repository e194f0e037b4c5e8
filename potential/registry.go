package potential

// ArgGroup classifies a potential's argument shape (spec §6's
// pot_arg_group): a plain univariate potential over s_j, or a
// bivariate-precision potential over (s_j, tau_k).
type ArgGroup int

const (
	// Univariate potentials depend only on s_j.
	Univariate ArgGroup = iota
	// BivariatePrecision potentials depend on (s_j, tau_k), tau approximated
	// by a Gamma with natural parameters (a, c).
	BivariatePrecision
)

// ParallelRequest bundles the vectorized inputs to a batched local-EP
// moment match (spec §6 epupdate_parallel): the flattened metadata of every
// block of a manager (one PotIDs/NumPot entry per block), plus the cavity
// moments of every site.
type ParallelRequest struct {
	PotIDs     []int
	NumPot     []int
	ParVec     []float64
	ParShared  []int
	AnnHandles []int64
	Mu, Rho    []float64 // cavity mean/variance per site, same length
	Subset     []int     // optional: indices into Mu/Rho to update; nil means all
	AQ, CQ     []float64 // optional: Gamma cavity (a,c) for bivariate-precision sites
}

// ParallelResult is the vectorized output of a batched local-EP moment
// match: per-site status (0 success), tilted slope/curvature (alpha, nu),
// log-normalizer, and — for bivariate-precision sites — updated Gamma
// parameters.
type ParallelResult struct {
	RStat    []int
	Alpha    []float64
	Nu       []float64
	LogZ     []float64
	AP, CP   []float64 // populated only when bivariate-precision sites were present
}

// SingleRequest is the scalar analogue of ParallelRequest used by the
// coupled-sequential and factorized-sequential drivers (spec §6
// epupdate_single_pman): one site j with its resolved metadata slice and
// cavity moments.
type SingleRequest struct {
	PotID      int
	NumPot     int
	LocalIndex int // this site's 0-based position within the block (ParVec's non-shared slices are length NumPot, indexed by LocalIndex)
	ParVec     []float64
	ParShared  []int
	AnnHandle  int64
	Mu, Rho    float64
}

// SingleResult is the scalar analogue of ParallelResult for one site.
type SingleResult struct {
	RStat int
	Alpha float64
	Nu    float64
	LogZ  float64
}

// Registry is the external potential registry consumed by the core (spec
// §6). It resolves potential names to integer ids, classifies their
// argument shape, validates parameter domains, and performs the actual
// (non-Gaussian) moment matching the EP sweep drivers delegate to. The
// core never implements a Registry itself: the concrete per-potential math
// is out of scope (spec §1); internal/refpotential supplies a minimal
// Gaussian-only stand-in purely so this module's own tests can exercise
// real sweeps.
type Registry interface {
	// PotID resolves name to its registry id, or -1 if unknown.
	PotID(name string) int

	// ArgGroup reports whether id is univariate or bivariate-precision.
	ArgGroup(id int) ArgGroup

	// IsValid returns "" if the flattened parameters for every block are
	// within that potential's domain, else a diagnostic message to
	// propagate verbatim as ErrInvalidPotentialParameters.
	IsValid(potIDs []int, numPot []int, parVec []float64, parShared []int, annHandles []int64) string

	// UpdateParallel performs a vectorized local-EP moment match.
	UpdateParallel(req ParallelRequest) ParallelResult

	// UpdateSingle performs a single-site local-EP moment match.
	UpdateSingle(j int, req SingleRequest) SingleResult
}
