package inference

// Result is the sweep-loop outcome common to all three drivers (spec
// §4.6/§6). NSkip's length is driver-dependent: 1 for CoupledParallel
// (a plain skip count), 4 for CoupledSequential, 5 for Factorized (the
// skip-reason histograms of spec §4.5/§9). NSDamp is only meaningful for
// Factorized with selective damping enabled; it is -1 otherwise.
type Result struct {
	RStat  int // 0: converged to DeltaEps; 1: ran MaxIter sweeps without converging
	NIt    int
	Delta  float64
	NSkip  []int
	NSDamp int

	Detail *ResultDetail // non-nil iff Config.ResultDetail
}

// ResultDetail carries the per-sweep trace Config.ResultDetail requests:
// Delta[i], NSkip[i] (and NSDamp[i] where applicable) are the values of
// sweep i+1 alone, not running totals (Result.NSkip and Result.NSDamp hold
// the totals over all sweeps).
type ResultDetail struct {
	Delta  []float64
	NSkip  [][]int
	NSDamp []int
}
