package stats

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/stat"
)

// RMAFit performs a reduced-major-axis fit of ys against xs: the slope is
// the ratio of the sample standard deviations signed by the Pearson
// correlation, and the line passes through the means. RMA treats both
// variables as uncertain, which suits comparisons of two measured
// quantities. SlopeStdErr is NaN; use BootstrapRMA for an uncertainty
// estimate.
func RMAFit(xs, ys []float64) Fit {
	if len(xs) != len(ys) || len(xs) < 2 {
		return nanFit()
	}
	sx := stat.StdDev(xs, nil)
	sy := stat.StdDev(ys, nil)
	if sx == 0 || math.IsNaN(sx) || math.IsNaN(sy) {
		return nanFit()
	}
	slope := sy / sx
	if stat.Correlation(xs, ys, nil) < 0 {
		slope = -slope
	}
	intercept := stat.Mean(ys, nil) - slope*stat.Mean(xs, nil)
	return Fit{Slope: slope, Intercept: intercept, SlopeStdErr: math.NaN()}
}

// BootstrapRMA returns a fit function that performs a reduced-major-axis
// fit and estimates the slope standard error by bootstrap resampling.
// iterations sets the number of resamples. The seed fixes the resampling
// sequence, so repeated calls on the same data give identical results.
func BootstrapRMA(iterations int, seed int64) func(xs, ys []float64) Fit {
	return func(xs, ys []float64) Fit {
		fit := RMAFit(xs, ys)
		n := len(xs)
		if math.IsNaN(fit.Slope) || iterations < 2 || n < 3 {
			return fit
		}
		rng := rand.New(rand.NewSource(seed))
		bx := make([]float64, n)
		by := make([]float64, n)
		slopes := make([]float64, 0, iterations)
		for it := 0; it < iterations; it++ {
			for i := 0; i < n; i++ {
				j := rng.Intn(n)
				bx[i] = xs[j]
				by[i] = ys[j]
			}
			// Degenerate resamples (no spread in x) contribute no slope.
			if s := RMAFit(bx, by).Slope; isFinite(s) {
				slopes = append(slopes, s)
			}
		}
		if len(slopes) >= 2 {
			fit.SlopeStdErr = stat.StdDev(slopes, nil)
		}
		return fit
	}
}
