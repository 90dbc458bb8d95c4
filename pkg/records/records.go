// Package records defines the in-memory representation of a parsed row.
//
// A Record is a loosely typed map from canonical column name to cell value.
// Parsers fill Records with strings (or nil for empty cells); downstream
// transforms may replace values with typed ones. Records are created once by
// the parser and discarded after transformation; nothing mutates them after
// the tidy step has consumed them.
package records

import (
	"fmt"
	"strconv"
)

// Record is one row keyed by canonical column name. Values are nil for empty
// cells, string as parsed, or a typed value after coercion.
type Record map[string]any

// KeyLine is a reserved key under which parsers record the physical 1-based
// source line a record came from. Canonical column names never begin with an
// underscore, so the key cannot collide with a real column.
const KeyLine = "_line"

// String returns the value for key rendered as a string, and whether the key
// was present with a non-nil value. Common scalar types are converted without
// fmt overhead; uncommon types fall back to fmt.Sprint.
func (r Record) String(key string) (string, bool) {
	v, ok := r[key]
	if !ok || v == nil {
		return "", false
	}
	switch t := v.(type) {
	case string:
		return t, true
	case int:
		return strconv.Itoa(t), true
	case int64:
		return strconv.FormatInt(t, 10), true
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64), true
	case bool:
		if t {
			return "true", true
		}
		return "false", true
	default:
		return fmt.Sprint(t), true
	}
}

// Clone returns a shallow copy of the record.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}
