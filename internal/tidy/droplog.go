package tidy

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// DropLog persists the rows excluded by year extraction to a CSV audit file
// so the exclusion is observable instead of silent. It also keeps per-reason
// counts for the run summary.
type DropLog struct {
	f       *os.File
	w       *csv.Writer
	reasons map[string]int
}

// NewDropLog creates (truncating) the audit file at path, writing its header
// row immediately. Parent directories are created as needed.
func NewDropLog(path string) (*DropLog, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("drop log: create dir %s: %w", dir, err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("drop log: create %s: %w", path, err)
	}
	w := csv.NewWriter(f)
	if err := w.Write([]string{"reason", "line", "raw_value"}); err != nil {
		f.Close()
		return nil, fmt.Errorf("drop log: write header: %w", err)
	}
	return &DropLog{f: f, w: w, reasons: make(map[string]int)}, nil
}

// Add records one dropped row.
func (d *DropLog) Add(drop Dropped) error {
	d.reasons[drop.Reason]++
	if err := d.w.Write([]string{drop.Reason, strconv.Itoa(drop.Line), drop.Raw}); err != nil {
		return fmt.Errorf("drop log: write row: %w", err)
	}
	return nil
}

// Counts returns the number of dropped rows per reason.
func (d *DropLog) Counts() map[string]int {
	out := make(map[string]int, len(d.reasons))
	for k, v := range d.reasons {
		out[k] = v
	}
	return out
}

// Close flushes and closes the audit file.
func (d *DropLog) Close() error {
	d.w.Flush()
	if err := d.w.Error(); err != nil {
		d.f.Close()
		return fmt.Errorf("drop log: flush: %w", err)
	}
	if err := d.f.Close(); err != nil {
		return fmt.Errorf("drop log: close: %w", err)
	}
	return nil
}
