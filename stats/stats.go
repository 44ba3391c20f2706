// Package stats provides the numeric building blocks for cloud-slicing:
// percentiles, means and standard deviations, and straight-line fits with
// an uncertainty estimate for the slope.
package stats

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Fit holds the result of a straight-line fit of ys against xs.
type Fit struct {
	Slope       float64
	Intercept   float64
	SlopeStdErr float64 // standard error of the slope
}

func nanFit() Fit {
	return Fit{Slope: math.NaN(), Intercept: math.NaN(), SlopeStdErr: math.NaN()}
}

// Percentile returns the q-th percentile (q in [0,100]) of values using
// linear interpolation between closest ranks: the rank is q/100*(n-1) on
// the sorted finite values. Non-finite values are skipped. Returns NaN
// when no finite values remain.
func Percentile(values []float64, q float64) float64 {
	finite := make([]float64, 0, len(values))
	for _, v := range values {
		if isFinite(v) {
			finite = append(finite, v)
		}
	}
	if len(finite) == 0 {
		return math.NaN()
	}
	sort.Float64s(finite)
	if q <= 0 {
		return finite[0]
	}
	if q >= 100 {
		return finite[len(finite)-1]
	}
	rank := q / 100 * float64(len(finite)-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo == hi {
		return finite[lo]
	}
	frac := rank - float64(lo)
	return finite[lo] + frac*(finite[hi]-finite[lo])
}

// Mean returns the arithmetic mean of values, or NaN for an empty slice.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	return stat.Mean(values, nil)
}

// StdDev returns the sample standard deviation of values, or NaN when
// fewer than two values are supplied.
func StdDev(values []float64) float64 {
	if len(values) < 2 {
		return math.NaN()
	}
	return stat.StdDev(values, nil)
}

// LinearFit performs an ordinary least-squares fit of ys against xs and
// estimates the standard error of the slope from the residuals.
// SlopeStdErr is NaN when there are fewer than three points or the xs
// carry no spread.
func LinearFit(xs, ys []float64) Fit {
	if len(xs) != len(ys) || len(xs) < 2 {
		return nanFit()
	}
	intercept, slope := stat.LinearRegression(xs, ys, nil, false)
	fit := Fit{Slope: slope, Intercept: intercept, SlopeStdErr: math.NaN()}
	n := len(xs)
	if n < 3 {
		return fit
	}
	xMean := stat.Mean(xs, nil)
	var sxx, ssr float64
	for i := range xs {
		dx := xs[i] - xMean
		sxx += dx * dx
		resid := ys[i] - (intercept + slope*xs[i])
		ssr += resid * resid
	}
	if sxx == 0 {
		return fit
	}
	fit.SlopeStdErr = math.Sqrt(ssr / float64(n-2) / sxx)
	return fit
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
