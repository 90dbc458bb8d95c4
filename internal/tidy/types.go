// Package tidy implements the core transformation: it turns heterogeneous,
// possibly-annotated raw rows of yearly fishery totals into a validated
// per-year aggregate (the wide table) and its long-form reshape.
package tidy

// Canonical column names the transformer consumes, as produced by the
// Reader/Normalizer.
const (
	ColYear     = "calendar_year"
	ColLicences = "licences"
	ColDays     = "days"
	ColTonnes   = "tonnes"
)

// RequiredColumns is the minimum column set the input must carry after header
// normalization.
var RequiredColumns = []string{ColYear, ColLicences, ColDays, ColTonnes}

// Metric names of the long table, in their fixed enumeration order. The order
// matters for output-file determinism (downstream faceted presentation), not
// for correctness.
const (
	MetricTonnes   = "tonnes"
	MetricDays     = "days"
	MetricLicences = "licences"
)

// MetricOrder fixes the per-year row order of the long table.
var MetricOrder = []string{MetricTonnes, MetricDays, MetricLicences}

// WideRow is one aggregated year: sums of the three metrics plus the derived
// catch-per-unit-effort. CPUE is nil when the year has zero fishing days;
// it is never NaN or Inf.
type WideRow struct {
	Year     int
	Licences float64
	Days     float64
	Tonnes   float64
	CPUE     *float64
}

// LongRow is one (year, metric) observation of the long table.
type LongRow struct {
	Year   int
	Metric string
	Value  float64
}

// Dropped describes a raw row excluded by year extraction. Line is the
// physical 1-based line number in the source file as recorded by the parser;
// for records carrying no recorded position it is the 1-based record ordinal.
type Dropped struct {
	Line   int
	Reason string
	Raw    string
}

// Result carries the aggregated wide table together with the drop audit.
type Result struct {
	Wide    []WideRow
	Dropped []Dropped
}
