package csv

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// SchemaError reports required columns that are absent after header
// normalization. It names both the missing canonical columns and the columns
// that were actually found so the message is actionable.
type SchemaError struct {
	Missing []string
	Found   []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("required columns missing after normalization: %s (found: %s)",
		strings.Join(e.Missing, ", "), strings.Join(e.Found, ", "))
}

// Canonical converts an arbitrary header cell into the canonical
// lowercase/underscore form used throughout the pipeline:
//
//	"Calendar Year" -> "calendar_year"
//	"CALENDAR-YEAR" -> "calendar_year"
//	"Licencés"      -> "licences"
//
// Diacritics are folded to their base letters (decompose, remove nonspacing
// marks, recompose); any run of characters outside [a-z0-9] collapses to a
// single underscore; leading/trailing underscores are trimmed.
func Canonical(s string) string {
	t := transform.Chain(
		norm.NFD,
		runes.Remove(runes.In(unicode.Mn)),
		norm.NFC,
	)
	folded, _, _ := transform.String(t, strings.ToLower(strings.TrimSpace(s)))

	var b strings.Builder
	prevUnderscore := true // trims leading separators
	for _, r := range folded {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			prevUnderscore = false
		default:
			if !prevUnderscore {
				b.WriteByte('_')
				prevUnderscore = true
			}
		}
	}
	return strings.TrimRight(b.String(), "_")
}

// RequireColumns verifies that every required canonical column appears in
// headers. It returns a *SchemaError naming all missing columns at once, or
// nil when the header set is complete.
func RequireColumns(headers []string, required []string) error {
	present := make(map[string]struct{}, len(headers))
	for _, h := range headers {
		present[h] = struct{}{}
	}

	var missing []string
	for _, want := range required {
		if _, ok := present[want]; !ok {
			missing = append(missing, want)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	sort.Strings(missing)
	return &SchemaError{Missing: missing, Found: headers}
}
