package tidy

// Reshape derives the long table from an already-validated wide table. It is
// a pure function: per year it emits one row per metric in MetricOrder
// (tonnes, days, licences), so the output has exactly 3x the wide row count
// and adds or loses no information. CPUE is derived, not a metric, and is
// not part of the long table.
func Reshape(wide []WideRow) []LongRow {
	out := make([]LongRow, 0, 3*len(wide))
	for _, w := range wide {
		for _, m := range MetricOrder {
			var v float64
			switch m {
			case MetricTonnes:
				v = w.Tonnes
			case MetricDays:
				v = w.Days
			case MetricLicences:
				v = w.Licences
			}
			out = append(out, LongRow{Year: w.Year, Metric: m, Value: v})
		}
	}
	return out
}
