package inference

import (
	"log"
	"os"
)

// Documented defaults (spec §9's open question on the piminthres/skipeps
// naming resolved here: PiMinThres and SkipEps are genuinely distinct
// knobs — the former gates factorized cavity/marginal precision, the
// latter gates coupled-sequential per-site skip — and each keeps the
// value the original gives it, 1e-8 and 1e-8/1e-10 respectively; see
// DESIGN.md).
const (
	DefaultMaxIter      = 50
	DefaultDeltaEps     = 1e-4
	DefaultDamp         = 0.0
	DefaultCavEps       = 1e-8
	DefaultSkipEps      = 1e-8
	DefaultPiMinThres   = 1e-8
	DefaultRefresh      = true
	DefaultSkipGauss    = false
	DefaultResultDetail = false
	DefaultVerbose      = 0
	DefaultPredictType  = 0
)

const (
	panicMaxIterInvalid     = "inference: WithMaxIter: n must be >= 1"
	panicDeltaEpsInvalid    = "inference: WithDeltaEps: eps must be > 0"
	panicDampInvalid        = "inference: WithDamp: damp must be in [0,1)"
	panicCavEpsInvalid      = "inference: WithCavEps: eps must be > 0"
	panicSkipEpsInvalid     = "inference: WithSkipEps: eps must be > 0"
	panicPiMinThresInvalid  = "inference: WithPiMinThres: thres must be > 0"
	panicPredictTypeInvalid = "inference: WithPredictType: ptype must be in [0,3]"
)

// TestStatsFunc, when installed via WithTestModel, is invoked once after
// each sweep with the current sweep number (1-based); it should run
// prediction against a held-out set and return accuracy/avg. log
// likelihood for logging (spec's optional bc_testmodel hook, original
// InfDriver._binclass_print_teststats). Binary-classification evaluation
// itself lives outside this package (see predict.Predictor); this hook
// only decouples "did a sweep just finish" from "how do I score it".
type TestStatsFunc func(sweep int) (accuracy, avgLogLik float64, err error)

// Config is the resolved sweep configuration (spec §4.6/§6's options),
// built via NewConfig(opts ...Option). Its zero value is never used
// directly; always construct through NewConfig so documented defaults
// apply.
type Config struct {
	MaxIter      int
	DeltaEps     float64
	Damp         float64
	CavEps       float64
	SkipEps      float64
	PiMinThres   float64
	Refresh      bool
	SkipGauss    bool
	Upd1stSweep  map[string]struct{}
	ResultDetail bool
	Verbose      int
	TestModel    TestStatsFunc
	PredictType  int
	Logger       *log.Logger
	Shuffle      func([]int)
}

// Option mutates a Config under construction.
type Option func(*Config)

// NewConfig resolves opts against the documented defaults, in order.
func NewConfig(opts ...Option) *Config {
	c := &Config{
		MaxIter:     DefaultMaxIter,
		DeltaEps:    DefaultDeltaEps,
		Damp:        DefaultDamp,
		CavEps:      DefaultCavEps,
		SkipEps:     DefaultSkipEps,
		PiMinThres:  DefaultPiMinThres,
		Refresh:     DefaultRefresh,
		SkipGauss:   DefaultSkipGauss,
		ResultDetail: DefaultResultDetail,
		Verbose:     DefaultVerbose,
		PredictType: DefaultPredictType,
		Logger:      log.New(os.Stdout, "", 0),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func WithMaxIter(n int) Option {
	if n < 1 {
		panic(panicMaxIterInvalid)
	}
	return func(c *Config) { c.MaxIter = n }
}

func WithDeltaEps(eps float64) Option {
	if eps <= 0 {
		panic(panicDeltaEpsInvalid)
	}
	return func(c *Config) { c.DeltaEps = eps }
}

func WithDamp(damp float64) Option {
	if damp < 0 || damp >= 1 {
		panic(panicDampInvalid)
	}
	return func(c *Config) { c.Damp = damp }
}

func WithCavEps(eps float64) Option {
	if eps <= 0 {
		panic(panicCavEpsInvalid)
	}
	return func(c *Config) { c.CavEps = eps }
}

func WithSkipEps(eps float64) Option {
	if eps <= 0 {
		panic(panicSkipEpsInvalid)
	}
	return func(c *Config) { c.SkipEps = eps }
}

func WithPiMinThres(thres float64) Option {
	if thres <= 0 {
		panic(panicPiMinThresInvalid)
	}
	return func(c *Config) { c.PiMinThres = thres }
}

func WithRefresh(refresh bool) Option {
	return func(c *Config) { c.Refresh = refresh }
}

func WithSkipGauss(skip bool) Option {
	return func(c *Config) { c.SkipGauss = skip }
}

// WithUpd1stSweep restricts the first sweep to potentials whose block
// name is in names (spec's upd_1stsweep); subsequent sweeps are
// unrestricted.
func WithUpd1stSweep(names ...string) Option {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	return func(c *Config) { c.Upd1stSweep = set }
}

func WithResultDetail(detail bool) Option {
	return func(c *Config) { c.ResultDetail = detail }
}

func WithVerbose(level int) Option {
	return func(c *Config) { c.Verbose = level }
}

// WithTestModel installs a per-sweep binary-classification evaluation
// hook (optional; spec's bc_testmodel).
func WithTestModel(fn TestStatsFunc) Option {
	return func(c *Config) { c.TestModel = fn }
}

// WithPredictType sets the predict.Type-compatible bitmask used by the
// TestModel hook's own prediction call (0: means only .. 3: everything).
func WithPredictType(ptype int) Option {
	if ptype < 0 || ptype > 3 {
		panic(panicPredictTypeInvalid)
	}
	return func(c *Config) { c.PredictType = ptype }
}

// WithLogger overrides the driver-owned verbose-output logger (default:
// log.New(os.Stdout, "", 0)).
func WithLogger(l *log.Logger) Option {
	return func(c *Config) { c.Logger = l }
}

// WithShuffle installs a function that permutes a sweep's update-index
// slice in place before the sequential drivers iterate over it (original
// np.random.permutation). Default: nil, i.e. ascending flat-index order,
// which is deterministic and therefore easier to test; callers that want
// the original's randomized sweep order can pass e.g.
// rand.New(rand.NewSource(seed)).Shuffle wrapped to the []int signature.
func WithShuffle(fn func([]int)) Option {
	return func(c *Config) { c.Shuffle = fn }
}
