// Package csv implements the Reader/Normalizer stage: it parses a delimited
// file into records keyed by canonical column names. Header normalization is
// forgiving ("Calendar Year", "CALENDAR-YEAR", and "Licencés" all map to the
// same canonical key); body rows are left as raw strings for the tidy stage
// to interpret.
package csv

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"tidycatch/pkg/records"
)

// Options configures the CSV parser behavior. All fields are optional;
// sensible defaults are applied when a field is zero.
type Options struct {
	// HasHeader indicates whether the first row contains column headers.
	HasHeader bool

	// Comma specifies the field delimiter. When zero, ',' is used.
	Comma rune

	// TrimSpace trims leading/trailing ASCII spaces from each field value.
	TrimSpace bool

	// HeaderMap maps source header names to canonical keys, consulted before
	// the generic normalization. Only applies when HasHeader is true.
	HeaderMap map[string]string
}

// Parser parses CSV input according to Options. It is safe to reuse across
// inputs, but Parser itself is not concurrency-safe.
type Parser struct{ opt Options }

// NewParser constructs a Parser with the provided Options.
func NewParser(opt Options) *Parser { return &Parser{opt: opt} }

// skipLogLimit caps per-row skip log lines so a badly damaged file cannot
// flood the log.
const skipLogLimit = 400

// Parse consumes CSV records from r and returns the parsed rows, the
// canonical header names in file order, and the number of rows that were
// skipped due to parse errors or field-count mismatches. Skipped rows are a
// soft failure: they are counted and logged, and parsing continues.
//
// Every record carries its physical 1-based source line under
// records.KeyLine, so downstream diagnostics can point at the file even when
// rows were skipped along the way. Empty cells become nil values so
// downstream coercion can distinguish "absent" from "zero".
func (p *Parser) Parse(r io.Reader) ([]records.Record, []string, int, error) {
	cr := csv.NewReader(r)
	if p.opt.Comma != 0 {
		cr.Comma = p.opt.Comma
	}
	cr.FieldsPerRecord = -1 // width is enforced against the header below

	var headers []string
	var out []records.Record
	var skipped int

	if p.opt.HasHeader {
		h, err := cr.Read()
		if err != nil {
			return nil, nil, 0, fmt.Errorf("read csv header: %w", err)
		}
		headers = normalizeHeaders(h, p.opt)
	}

	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			if skipped < skipLogLimit {
				log.Printf("csv: skipping line %d: %v", parseErrorLine(err), err)
			}
			skipped++
			continue
		}
		line, _ := cr.FieldPos(0)

		if len(headers) == 0 {
			// Headerless input: synthesize names from the first row's width.
			headers = make([]string, len(row))
			for i := range headers {
				headers[i] = fmt.Sprintf("col_%d", i)
			}
		}
		if len(row) != len(headers) {
			if skipped < skipLogLimit {
				log.Printf("csv: skipping line %d: incorrect number of fields (expected %d, got %d)", line, len(headers), len(row))
			}
			skipped++
			continue
		}

		rec := make(records.Record, len(row)+1)
		for i, val := range row {
			if p.opt.TrimSpace {
				val = strings.TrimSpace(val)
			}
			rec[keyFor(i, headers)] = emptyToNil(val)
		}
		rec[records.KeyLine] = line
		out = append(out, rec)
	}

	return out, headers, skipped, nil
}

// parseErrorLine extracts the physical line from a csv parse error, or 0 when
// the error carries no position.
func parseErrorLine(err error) int {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		return pe.Line
	}
	return 0
}

// keyFor returns the column key for index idx, using headers when available,
// otherwise synthesizing a "col_N" name.
func keyFor(idx int, headers []string) string {
	if idx < len(headers) && headers[idx] != "" {
		return headers[idx]
	}
	return fmt.Sprintf("col_%d", idx)
}

// emptyToNil converts an empty string to nil; all other values are returned as-is.
func emptyToNil(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// normalizeHeaders produces canonical header keys using HeaderMap (when
// provided) and Canonical otherwise. It also strips a UTF-8 BOM from the
// first cell if present.
func normalizeHeaders(h []string, opt Options) []string {
	h = StripHeaderBOM(h)
	res := make([]string, len(h))
	for i, col := range h {
		c := strings.TrimSpace(col)
		if opt.HeaderMap != nil {
			if m, ok := opt.HeaderMap[c]; ok {
				res[i] = m
				continue
			}
		}
		res[i] = Canonical(c)
	}
	return res
}
