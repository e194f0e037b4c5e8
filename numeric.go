package ep

import "math"

// MaxRelDiff is the convergence statistic of spec §4.6/§8: the maximum
// component-wise relative difference between two equal-length vectors,
// floored at 1e-8 in the denominator to stay finite at zero. Grounded on
// the original implementation's helpers.maxreldiff (mseeger/apbsint).
func MaxRelDiff(a, b []float64) float64 {
	var worst float64
	for i := range a {
		denom := math.Max(math.Max(math.Abs(a[i]), math.Abs(b[i])), 1e-8)
		d := math.Abs(a[i]-b[i]) / denom
		if d > worst {
			worst = d
		}
	}
	return worst
}
