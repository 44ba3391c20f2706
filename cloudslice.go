// Package cloudslice infers upper-tropospheric trace-gas mixing ratios
// from satellite-observed partial columns above cloudy scenes, using
// cloud-top pressure as the vertical coordinate. One call consumes one
// cluster of co-located observations and returns one mixing ratio with an
// uncertainty and a failure code; forming clusters and aggregating results
// across scenes is the caller's job.
package cloudslice

import (
	"errors"
	"fmt"
	"math"

	"github.com/airshed-data/cloudslice/stats"
)

// Gate thresholds. These values are domain-calibrated; changing them
// changes the scientific meaning of the retrieval, not just its behaviour.
const (
	// MinPoints is the smallest trimmed cluster a regression is attempted on.
	MinPoints = 10
	// TrimPercentileLow and TrimPercentileHigh bound the cloud-top heights
	// retained for the fit.
	TrimPercentileLow  = 10.0
	TrimPercentileHigh = 90.0
	// RangeStdRatioMax rejects clusters whose cloud-top height range is
	// large relative to its own standard deviation.
	RangeStdRatioMax = 2.0
	// CloudHeightStdMin is the smallest usable cloud-top height spread (hPa).
	CloudHeightStdMin = 30.0
	// RelativeSlopeErrorMax rejects fits whose slope uncertainty reaches 100%.
	RelativeSlopeErrorMax = 1.0
	// NegativeSlopeSigmaMax is how many standard errors below zero a slope
	// may sit before the cluster is rejected as implausibly negative.
	NegativeSlopeSigmaMax = 250.0
	// MixingRatioMinPPTV and MixingRatioMaxPPTV bound plausible retrievals.
	// TODO: validate both bounds against the reference retrieval dataset.
	MixingRatioMinPPTV = -100.0
	MixingRatioMaxPPTV = 200.0

	// pascalsPerHectopascal converts cloud-top pressures for the fit.
	pascalsPerHectopascal = 100.0
	// pptvPerMolPerMol expresses a mol/mol mixing ratio in parts per
	// trillion by volume.
	pptvPerMolPerMol = 1e12
)

// ErrLengthMismatch reports input sequences of different lengths. This is
// a caller programming error, not a data-quality outcome, so it surfaces
// as an error rather than a failure code.
var ErrLengthMismatch = errors.New("cloudslice: partial column and cloud-top height lengths differ")

// PercentileFunc computes the q-th percentile (q in [0,100]) of values.
type PercentileFunc func(values []float64, q float64) float64

// RegressFunc fits ys against xs and reports slope, intercept and the
// standard error of the slope.
type RegressFunc func(xs, ys []float64) stats.Fit

// Result is the outcome of slicing one observation cluster. MixingRatio
// and MixingRatioError are finite exactly when Code is CodeSuccess; on any
// rejection both are NaN. MeanCloudPressure is populated from the trimmed
// subset regardless of the outcome (NaN only when nothing survives the
// trim).
type Result struct {
	MixingRatio       float64     // pptv; NaN unless Code is CodeSuccess
	MixingRatioError  float64     // pptv; NaN unless Code is CodeSuccess
	Code              FailureCode // why the cluster was rejected, or CodeSuccess
	MeanCloudPressure float64     // hPa, mean of the trimmed cloud-top heights
}

// SlicerConfig configures a Slicer. Zero-valued fields fall back to the
// defaults: DefaultPhysics constants, the stats package percentile, and an
// ordinary least-squares fit.
type SlicerConfig struct {
	Physics    Physics        // conversion constants
	Percentile PercentileFunc // percentile rule used for the trim
	Regress    RegressFunc    // straight-line fit with slope uncertainty
}

// DefaultSlicerConfig returns the configuration NewSlicer substitutes for
// zero-valued fields.
func DefaultSlicerConfig() SlicerConfig {
	return SlicerConfig{
		Physics:    DefaultPhysics(),
		Percentile: stats.Percentile,
		Regress:    stats.LinearFit,
	}
}

// Slicer performs cloud-slicing retrievals. It holds no mutable state, so
// one Slicer may be shared across goroutines and clusters may be sliced
// concurrently.
type Slicer struct {
	physics    Physics
	percentile PercentileFunc
	regress    RegressFunc
}

// NewSlicer builds a Slicer, filling zero-valued config fields with the
// defaults from DefaultSlicerConfig.
func NewSlicer(config SlicerConfig) *Slicer {
	defaults := DefaultSlicerConfig()
	if config.Physics == (Physics{}) {
		config.Physics = defaults.Physics
	}
	if config.Percentile == nil {
		config.Percentile = defaults.Percentile
	}
	if config.Regress == nil {
		config.Regress = defaults.Regress
	}
	return &Slicer{
		physics:    config.Physics,
		percentile: config.Percentile,
		regress:    config.Regress,
	}
}

// Slice retrieves a mixing ratio from one cluster of co-located
// observations: partial columns in molecules/m² and cloud-top heights as
// pressures in hPa, index-aligned. The returned error is non-nil only for
// mismatched input lengths; every data-quality problem is reported through
// Result.Code. Most clusters in a real scene are expected to fail a gate.
func (s *Slicer) Slice(partialColumns, cloudTopHeights []float64) (Result, error) {
	if len(partialColumns) != len(cloudTopHeights) {
		return Result{}, fmt.Errorf("%w: %d columns, %d heights",
			ErrLengthMismatch, len(partialColumns), len(cloudTopHeights))
	}

	res := Result{
		MixingRatio:       math.NaN(),
		MixingRatioError:  math.NaN(),
		MeanCloudPressure: math.NaN(),
	}

	// Observations with a non-finite column or height carry no usable
	// information and would poison the percentiles and the fit.
	columns := make([]float64, 0, len(partialColumns))
	heights := make([]float64, 0, len(cloudTopHeights))
	for i := range partialColumns {
		if !isFinite(partialColumns[i]) || !isFinite(cloudTopHeights[i]) {
			continue
		}
		columns = append(columns, partialColumns[i])
		heights = append(heights, cloudTopHeights[i])
	}

	// Trim observations whose cloud-top height falls outside the cluster's
	// [10th, 90th] percentile band, inclusive of both bounds.
	p10 := s.percentile(heights, TrimPercentileLow)
	p90 := s.percentile(heights, TrimPercentileHigh)
	var trimmedCols, trimmedHts []float64
	for i, h := range heights {
		if h >= p10 && h <= p90 {
			trimmedCols = append(trimmedCols, columns[i])
			trimmedHts = append(trimmedHts, h)
		}
	}

	// The mean cloud pressure is reported even when a later gate rejects
	// the cluster.
	res.MeanCloudPressure = stats.Mean(trimmedHts)

	if len(trimmedHts) < MinPoints {
		res.Code = CodeTooFewPoints
		return res, nil
	}

	minH, maxH := minMax(trimmedHts)
	std := stats.StdDev(trimmedHts)
	if (maxH-minH)/std > RangeStdRatioMax {
		res.Code = CodeLowCloudHeightStd
		return res, nil
	}
	if std < CloudHeightStdMin {
		res.Code = CodeLowCloudHeightRange
		return res, nil
	}

	// Fit partial column against cloud-top pressure in Pa.
	xs := make([]float64, len(trimmedHts))
	for i, h := range trimmedHts {
		xs[i] = h * pascalsPerHectopascal
	}
	fit := s.regress(xs, trimmedCols)

	if !isFinite(fit.Slope) || !isFinite(fit.SlopeStdErr) ||
		math.Abs(fit.SlopeStdErr/fit.Slope) > RelativeSlopeErrorMax {
		res.Code = CodeLargeError
		return res, nil
	}
	if fit.Slope < 0 && -fit.Slope > NegativeSlopeSigmaMax*fit.SlopeStdErr {
		res.Code = CodeMuchLessThanZero
		return res, nil
	}

	k := s.physics.densityToMixingRatio()
	mixingRatio := fit.Slope * k * pptvPerMolPerMol
	mixingRatioErr := fit.SlopeStdErr * k * pptvPerMolPerMol

	if mixingRatio < MixingRatioMinPPTV {
		res.Code = CodeNO2Outlier
		return res, nil
	}
	if mixingRatio > MixingRatioMaxPPTV {
		res.Code = CodeNonUniformStrat
		return res, nil
	}

	res.MixingRatio = mixingRatio
	res.MixingRatioError = mixingRatioErr
	res.Code = CodeSuccess
	return res, nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func minMax(values []float64) (lo, hi float64) {
	lo, hi = values[0], values[0]
	for _, v := range values[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}
