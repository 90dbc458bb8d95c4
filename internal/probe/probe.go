// Package probe samples the beginning of a delimited file and reports what a
// pipeline config would make of it: the canonical header names, a naive type
// guess per column, and whether the required catch/effort columns are
// present. It exists to take the guesswork out of authoring pipeline JSON
// for a new source file.
package probe

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"tidycatch/internal/config"
	pcsv "tidycatch/internal/parser/csv"
	"tidycatch/internal/tidy"
)

// Options configures a probe run. Exactly one of Path or URL must be set.
type Options struct {
	Path      string
	URL       string
	MaxBytes  int  // sample size; default 64 KiB
	Delimiter rune // default ','
	// OutputJSON emits a starter config.Pipeline instead of the text report.
	OutputJSON bool
}

// Column is one probed column.
type Column struct {
	Source    string `json:"source"`    // header as found in the file
	Canonical string `json:"canonical"` // header after normalization
	Type      string `json:"type"`      // "number" | "year" | "text"
	Samples   int    `json:"samples"`   // non-empty cells seen
}

// Report is the probe result.
type Report struct {
	Columns         []Column `json:"columns"`
	RowsSampled     int      `json:"rows_sampled"`
	MissingRequired []string `json:"missing_required,omitempty"`
}

// Run samples the source and builds a Report. The sample may end mid-row;
// the last (possibly truncated) record is discarded.
func Run(ctx context.Context, opt Options) (*Report, error) {
	if (opt.Path == "") == (opt.URL == "") {
		return nil, fmt.Errorf("probe: exactly one of Path or URL must be set")
	}
	if opt.MaxBytes <= 0 {
		opt.MaxBytes = 64 * 1024
	}
	if opt.Delimiter == 0 {
		opt.Delimiter = ','
	}

	sample, err := fetchSample(ctx, opt)
	if err != nil {
		return nil, err
	}

	cr := csv.NewReader(bytes.NewReader(sample))
	cr.Comma = opt.Delimiter
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("probe: read header: %w", err)
	}
	header = pcsv.StripHeaderBOM(header)

	cols := make([]Column, len(header))
	for i, h := range header {
		cols[i] = Column{Source: strings.TrimSpace(h), Canonical: pcsv.Canonical(h), Type: "text"}
	}
	numericish := make([]int, len(header))

	var records [][]string
	for {
		row, err := cr.Read()
		if err != nil {
			break // sample exhausted, possibly mid-row
		}
		records = append(records, row)
	}
	if len(sample) == opt.MaxBytes && len(records) > 0 {
		// The sample hit the size cap, so the final record may be cut mid-row.
		records = records[:len(records)-1]
	}

	for _, row := range records {
		for i, cell := range row {
			if i >= len(cols) {
				break
			}
			cell = strings.TrimSpace(cell)
			if cell == "" {
				continue
			}
			cols[i].Samples++
			if _, ok := tidy.ParseNumber(cell); ok {
				numericish[i]++
			}
		}
	}
	for i := range cols {
		if cols[i].Samples > 0 && numericish[i] == cols[i].Samples {
			if cols[i].Canonical == tidy.ColYear {
				cols[i].Type = "year"
			} else {
				cols[i].Type = "number"
			}
		}
	}

	rep := &Report{Columns: cols, RowsSampled: len(records)}

	present := make(map[string]struct{}, len(cols))
	for _, c := range cols {
		present[c.Canonical] = struct{}{}
	}
	for _, want := range tidy.RequiredColumns {
		if _, ok := present[want]; !ok {
			rep.MissingRequired = append(rep.MissingRequired, want)
		}
	}

	return rep, nil
}

// StarterConfig derives a starter pipeline config from a probe report. The
// header map pins every source header to its canonical name so later header
// cosmetics in the source file cannot silently change the schema.
func StarterConfig(job, path string, rep *Report) config.Pipeline {
	hm := make(map[string]any, len(rep.Columns))
	for _, c := range rep.Columns {
		hm[c.Source] = c.Canonical
	}
	return config.Pipeline{
		Job:    job,
		Source: config.Source{Kind: "file", File: config.SourceFile{Path: path}},
		Parser: config.Parser{
			Kind: "csv",
			Options: config.Options{
				"has_header": true,
				"trim_space": true,
				"header_map": hm,
			},
		},
	}
}

// MarshalConfig renders a starter config as indented JSON for saving.
func MarshalConfig(p config.Pipeline) ([]byte, error) {
	return json.MarshalIndent(p, "", "  ")
}

// fetchSample reads up to MaxBytes from the local file or URL.
func fetchSample(ctx context.Context, opt Options) ([]byte, error) {
	if opt.Path != "" {
		f, err := os.Open(opt.Path)
		if err != nil {
			return nil, fmt.Errorf("probe: open %s: %w", opt.Path, err)
		}
		defer f.Close()
		buf := make([]byte, opt.MaxBytes)
		n, err := io.ReadFull(f, buf)
		if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
			return nil, fmt.Errorf("probe: read %s: %w", opt.Path, err)
		}
		return buf[:n], nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, opt.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("probe: request %s: %w", opt.URL, err)
	}
	// Range is an optimization; the LimitedReader below caps the result even
	// when the server ignores it and answers 200.
	req.Header.Set("Range", fmt.Sprintf("bytes=0-%d", opt.MaxBytes-1))

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("probe: fetch %s: %w", opt.URL, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusPartialContent {
		return nil, fmt.Errorf("probe: fetch %s: %s", opt.URL, resp.Status)
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(&io.LimitedReader{R: resp.Body, N: int64(opt.MaxBytes)}); err != nil {
		return nil, fmt.Errorf("probe: read body: %w", err)
	}
	return buf.Bytes(), nil
}
