package cloudslice

import "fmt"

// FailureCode identifies why a cloud-slicing attempt was rejected.
// Code 0 is success; codes 1-7 are the statistical and physical rejection
// reasons. Downstream aggregation keys on the integer values, so the
// mapping is stable.
type FailureCode int

const (
	// CodeSuccess means the cluster passed every validity gate.
	CodeSuccess FailureCode = iota
	// CodeTooFewPoints means fewer than MinPoints observations survived
	// the percentile trim.
	CodeTooFewPoints
	// CodeLowCloudHeightRange means the cloud-top height spread is below
	// the minimum usable range.
	CodeLowCloudHeightRange
	// CodeLowCloudHeightStd means the spread-to-std ratio of the cloud-top
	// heights is too large for a stable regression.
	CodeLowCloudHeightStd
	// CodeLargeError means the relative slope standard error reached 100%.
	CodeLargeError
	// CodeMuchLessThanZero means the regression slope is implausibly
	// negative.
	CodeMuchLessThanZero
	// CodeNO2Outlier means the derived mixing ratio fell below the
	// plausible bounds.
	CodeNO2Outlier
	// CodeNonUniformStrat means the derived mixing ratio exceeded the
	// plausible bounds, a non-uniform stratosphere signature.
	CodeNonUniformStrat
)

// CodeInfo is one entry of the failure taxonomy.
type CodeInfo struct {
	Code        FailureCode
	Name        string
	Description string
}

// Codes is the externally visible failure taxonomy, indexed by code.
// Consumers report failures by integer code and resolve names and
// descriptions here.
var Codes = []CodeInfo{
	{CodeSuccess, "success", "cloud-slicing succeeded"},
	{CodeTooFewPoints, "too_few_points", "fewer than 10 points after trimming"},
	{CodeLowCloudHeightRange, "low_cloud_height_range", "cloud-top height spread below minimum usable range"},
	{CodeLowCloudHeightStd, "low_cloud_height_std", "spread-to-std ratio too large (unstable regression)"},
	{CodeLargeError, "large_error", "relative slope standard error >= 100%"},
	{CodeMuchLessThanZero, "much_less_than_zero", "regression slope implausibly negative"},
	{CodeNO2Outlier, "no2_outlier", "derived mixing ratio outside plausible bounds (low side)"},
	{CodeNonUniformStrat, "non_uni_strat", "derived mixing ratio outside plausible bounds (high side)"},
}

// Name returns the stable symbolic name for the code.
func (c FailureCode) Name() string {
	if c < 0 || int(c) >= len(Codes) {
		return "unknown"
	}
	return Codes[c].Name
}

// Description returns the human-readable meaning of the code.
func (c FailureCode) Description() string {
	if c < 0 || int(c) >= len(Codes) {
		return fmt.Sprintf("unknown failure code %d", int(c))
	}
	return Codes[c].Description
}

func (c FailureCode) String() string {
	return c.Name()
}
