// Package writer persists the wide and long tables as deterministic CSV
// files. The same tidy result always produces byte-identical output: column
// order is fixed, numbers are rendered in their minimal decimal form, and
// CPUE is rounded to four decimal places. After each write the file's xxh3
// digest is logged, so two runs over the same input can be checked for
// idempotence straight from the logs.
package writer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"log"
	"math"
	"os"
	"strconv"

	"github.com/zeebo/xxh3"

	"tidycatch/internal/tidy"
)

// Column orders of the two output files.
var (
	WideHeader = []string{"calendar_year", "licences", "days", "tonnes", "cpue_t_per_day"}
	LongHeader = []string{"calendar_year", "metric", "value"}
)

// WriteWide persists the wide table to path. A write failure is fatal for
// the run and is propagated as-is; no partial-write recovery is attempted.
func WriteWide(path string, rows []tidy.WideRow) error {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(WideHeader); err != nil {
		return fmt.Errorf("write wide header: %w", err)
	}
	for _, r := range rows {
		rec := []string{
			strconv.Itoa(r.Year),
			formatNumber(r.Licences),
			formatNumber(r.Days),
			formatNumber(r.Tonnes),
			formatCPUE(r.CPUE),
		}
		if err := w.Write(rec); err != nil {
			return fmt.Errorf("write wide row: %w", err)
		}
	}
	return flushFile(path, "wide", len(rows), &buf, w)
}

// WriteLong persists the long table to path with the same failure semantics
// as WriteWide.
func WriteLong(path string, rows []tidy.LongRow) error {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(LongHeader); err != nil {
		return fmt.Errorf("write long header: %w", err)
	}
	for _, r := range rows {
		rec := []string{
			strconv.Itoa(r.Year),
			r.Metric,
			formatNumber(r.Value),
		}
		if err := w.Write(rec); err != nil {
			return fmt.Errorf("write long row: %w", err)
		}
	}
	return flushFile(path, "long", len(rows), &buf, w)
}

// flushFile finishes the in-memory CSV and writes it to disk in one shot,
// logging row count and content digest.
func flushFile(path, table string, rows int, buf *bytes.Buffer, w *csv.Writer) error {
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush %s table: %w", table, err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s table %s: %w", table, path, err)
	}
	log.Printf("writer: %s table %s rows=%d digest=%016x", table, path, rows, xxh3.Hash(buf.Bytes()))
	return nil
}

// formatNumber renders a metric sum in its minimal decimal form: no trailing
// zeros, no exponent notation for the magnitudes this data carries.
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// formatCPUE renders the derived CPUE rounded to 4 decimal places, or an
// empty cell when the value is missing (zero fishing days).
func formatCPUE(p *float64) string {
	if p == nil {
		return ""
	}
	rounded := math.Round(*p*1e4) / 1e4
	return strconv.FormatFloat(rounded, 'f', -1, 64)
}
