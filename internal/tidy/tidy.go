package tidy

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"tidycatch/pkg/records"
)

// yearRe matches the first run of exactly four digits in the calendar_year
// cell. Annotated values such as "2024 incomplete" still yield their year;
// footer rows such as "Grand Total" yield nothing and are dropped.
var yearRe = regexp.MustCompile(`\d{4}`)

// yearAgg accumulates the metric sums for one extracted year.
type yearAgg struct {
	licences float64
	days     float64
	tonnes   float64
}

// Transform converts raw records into the aggregated wide table.
//
// Per raw row:
//   - extract a 4-digit year from the calendar_year text; rows without one
//     are excluded from the aggregate and recorded in Result.Dropped
//   - coerce licences/days/tonnes with ParseNumber; a failed cell
//     contributes nothing to its sum (missing, not fatal)
//
// Surviving rows are grouped by year, summed (all-missing groups sum to
// zero), sorted ascending, and given a derived CPUE of tonnes/days when
// days > 0, nil otherwise.
//
// Transform returns *NoValidYearsError when nothing survives extraction and
// *InvariantViolation when a grouped year is not 4-digit.
func Transform(recs []records.Record) (*Result, error) {
	groups := make(map[int]*yearAgg)
	var dropped []Dropped

	for i, rec := range recs {
		line := sourceLine(rec, i)

		rawYear, ok := rec.String(ColYear)
		if !ok {
			dropped = append(dropped, Dropped{Line: line, Reason: "empty calendar_year", Raw: ""})
			continue
		}
		match := yearRe.FindString(rawYear)
		if match == "" {
			dropped = append(dropped, Dropped{Line: line, Reason: "no 4-digit year", Raw: rawYear})
			continue
		}
		year, err := strconv.Atoi(match)
		if err != nil {
			return nil, &InvariantViolation{Check: "extracted year is not an integer: " + match}
		}

		g := groups[year]
		if g == nil {
			g = &yearAgg{}
			groups[year] = g
		}
		if v, ok := parseCell(rec, ColLicences); ok {
			g.licences += v
		}
		if v, ok := parseCell(rec, ColDays); ok {
			g.days += v
		}
		if v, ok := parseCell(rec, ColTonnes); ok {
			g.tonnes += v
		}
	}

	if len(groups) == 0 {
		return nil, &NoValidYearsError{RowsSeen: len(recs)}
	}

	years := make([]int, 0, len(groups))
	for y := range groups {
		years = append(years, y)
	}
	sort.Ints(years)

	wide := make([]WideRow, 0, len(years))
	for _, y := range years {
		if y < 1000 || y > 9999 {
			return nil, &InvariantViolation{Check: "aggregated year " + strconv.Itoa(y) + " is not 4-digit"}
		}
		g := groups[y]
		row := WideRow{Year: y, Licences: g.licences, Days: g.days, Tonnes: g.tonnes}
		if g.days > 0 {
			cpue := g.tonnes / g.days
			row.CPUE = &cpue
		}
		wide = append(wide, row)
	}

	return &Result{Wide: wide, Dropped: dropped}, nil
}

// sourceLine returns the physical source line the parser recorded for rec
// under records.KeyLine, or the 1-based record ordinal when no position was
// recorded.
func sourceLine(rec records.Record, idx int) int {
	if v, ok := rec[records.KeyLine]; ok {
		if n, ok := v.(int); ok {
			return n
		}
	}
	return idx + 1
}

// parseCell reads and coerces one metric cell. Absent cells and coercion
// failures both report ok=false.
func parseCell(rec records.Record, col string) (float64, bool) {
	s, ok := rec.String(col)
	if !ok {
		return 0, false
	}
	return ParseNumber(s)
}

// ParseNumber coerces a formatted cell into a float64. It strips everything
// that is not a digit, decimal point, or leading minus sign (thousands
// separators, currency symbols, units, stray spaces) before parsing:
//
//	"1,200"   -> 1200
//	"$450.50" -> 450.5
//	"300 t"   -> 300
//
// A cell with no parseable number reports ok=false (a missing value, never an
// error).
func ParseNumber(s string) (float64, bool) {
	var b strings.Builder
	for i, r := range s {
		switch {
		case r >= '0' && r <= '9', r == '.':
			b.WriteRune(r)
		case r == '-' && i == 0:
			b.WriteRune(r)
		}
	}
	cleaned := b.String()
	if cleaned == "" || cleaned == "-" {
		return 0, false
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
