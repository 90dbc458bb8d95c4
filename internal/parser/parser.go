// Package parser defines the contract between the pipeline and its parser
// implementations. Concrete parsers live in subpackages (currently csv).
package parser

import (
	"io"

	"tidycatch/pkg/records"
)

// Parser turns a raw byte stream into records. It also returns the canonical
// header list, in source column order, and the number of malformed rows that
// were skipped during parsing.
type Parser interface {
	Parse(r io.Reader) ([]records.Record, []string, int, error)
}
