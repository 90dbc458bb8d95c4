package tidy

// AssertTidy verifies the wide-table invariants after aggregation: every row
// carries a 4-digit year and no year appears more than once. A violation is
// fatal for the run: it means Transform did not do its job and continuing
// would silently corrupt downstream analysis.
func AssertTidy(rows []WideRow) error {
	seen := make(map[int]struct{}, len(rows))
	for i, row := range rows {
		if row.Year < 1000 || row.Year > 9999 {
			return &MissingYearError{Index: i, Year: row.Year}
		}
		if _, dup := seen[row.Year]; dup {
			return &DuplicateYearError{Year: row.Year}
		}
		seen[row.Year] = struct{}{}
	}
	return nil
}
