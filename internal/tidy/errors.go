package tidy

import "fmt"

// NoValidYearsError reports that no raw row survived year extraction. Running
// the rest of the pipeline on an empty aggregate would silently produce empty
// outputs, so this is fatal.
type NoValidYearsError struct {
	RowsSeen int
}

func (e *NoValidYearsError) Error() string {
	return fmt.Sprintf("no row with a 4-digit year found among %d raw rows", e.RowsSeen)
}

// InvariantViolation reports an internal consistency check failing. If one
// fires, the aggregation itself is broken and continuing would corrupt
// downstream analysis.
type InvariantViolation struct {
	Check string
}

func (e *InvariantViolation) Error() string {
	return fmt.Sprintf("internal invariant violated: %s", e.Check)
}

// MissingYearError reports a wide-table row whose year is absent or not a
// 4-digit integer, found during post-aggregation validation.
type MissingYearError struct {
	Index int
	Year  int
}

func (e *MissingYearError) Error() string {
	return fmt.Sprintf("wide table row %d has invalid calendar_year %d; expected a 4-digit year", e.Index, e.Year)
}

// DuplicateYearError reports a year appearing more than once in the wide
// table, which means the aggregation step did not do its job.
type DuplicateYearError struct {
	Year int
}

func (e *DuplicateYearError) Error() string {
	return fmt.Sprintf("wide table contains calendar_year %d more than once", e.Year)
}
