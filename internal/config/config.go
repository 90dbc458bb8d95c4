// Package config defines the canonical, JSON-serializable configuration model
// for the tidy pipeline. It is intentionally small, explicit, and dependency-
// free so that pipelines can be loaded from disk and passed through the
// program without additional glue code. Nothing in this package reads ambient
// process state; every stage receives its configuration explicitly.
//
// Example (trimmed):
//
//	{
//	  "job":    "wa_fishery_catch",
//	  "source": { "kind": "file", "file": { "path": "data/catch_effort.csv" } },
//	  "parser": { "kind": "csv", "options": { "has_header": true } },
//	  "output": { "dir": "out", "drop_log": "dropped_rows.csv" },
//	  "storage": { "kind": "sqlite", "db": { "dsn": "tidy.db" } }
//	}
package config

import "encoding/json"

// Pipeline describes one full tidy run. It is the top-level object decoded
// from a pipeline file (e.g., configs/pipelines/*.json).
type Pipeline struct {
	// Job names this run for metrics labeling and log lines.
	Job string `json:"job"`

	// Source describes where the raw catch/effort file comes from.
	Source Source `json:"source"`

	// Parser configures how raw bytes are turned into records (e.g., CSV).
	Parser Parser `json:"parser"`

	// Output configures where the wide/long tables and drop log are written.
	Output Output `json:"output"`

	// Storage optionally selects a database sink for the tidy tables.
	Storage Storage `json:"storage"`
}

// Source identifies the data source. Additional kinds can be added over time.
type Source struct {
	// Kind selects the source implementation. Current value: "file".
	Kind string `json:"kind"`

	// File carries options for the "file" source kind.
	File SourceFile `json:"file"`
}

// SourceFile holds configuration for the "file" source kind.
type SourceFile struct {
	// Path is the preferred local filesystem path to the input file.
	Path string `json:"path"`

	// Fallbacks are probed in order when Path is empty or does not exist.
	// This replaces the interactive prompt of the source workflow; when
	// nothing exists the run fails listing everything that was probed.
	Fallbacks []string `json:"fallbacks"`
}

// Parser selects how to parse the raw source into logical rows/columns.
type Parser struct {
	// Kind selects the parser implementation. Current value: "csv".
	Kind string `json:"kind"`

	// Options is a free-form map interpreted by the parser implementation.
	// For CSV, recognized keys are:
	//   has_header (bool), comma (string), trim_space (bool),
	//   header_map (object of source header -> canonical name)
	Options Options `json:"options"`
}

// Output configures the Writer stage.
type Output struct {
	// Dir is the preferred output directory. When empty or missing, the
	// FallbackDirs are probed in order; when none exists a local "data"
	// directory is created.
	Dir          string   `json:"dir"`
	FallbackDirs []string `json:"fallback_dirs"`

	// WideFile and LongFile are file names inside the resolved directory.
	// Defaults: catch_effort_wide.csv / catch_effort_long.csv.
	WideFile string `json:"wide_file"`
	LongFile string `json:"long_file"`

	// DropLog, when non-empty, names a CSV audit file (inside the resolved
	// directory) receiving every raw row excluded by year extraction.
	DropLog string `json:"drop_log"`
}

// Storage selects the optional database sink for the tidy tables.
type Storage struct {
	// Kind selects the storage implementation: "" or "none" (disabled),
	// "sqlite", or "postgres".
	Kind string `json:"kind"`

	DB DBConfig `json:"db"`
}

// DBConfig configures the database sink.
type DBConfig struct {
	// DSN is the connection string (pgxpool URL for postgres, file path or
	// file: URI for sqlite).
	DSN string `json:"dsn"`

	// WideTable and LongTable are the destination table names.
	// Defaults: catch_effort_wide / catch_effort_long.
	WideTable string `json:"wide_table"`
	LongTable string `json:"long_table"`

	// AutoCreateTable creates the destination tables when true.
	AutoCreateTable bool `json:"auto_create_table"`
}

// Default file and table names applied by ApplyDefaults.
const (
	DefaultWideFile  = "catch_effort_wide.csv"
	DefaultLongFile  = "catch_effort_long.csv"
	DefaultWideTable = "catch_effort_wide"
	DefaultLongTable = "catch_effort_long"
)

// ApplyDefaults fills zero-valued optional fields with their defaults.
// It never overrides an explicitly configured value.
func (p *Pipeline) ApplyDefaults() {
	if p.Source.Kind == "" {
		p.Source.Kind = "file"
	}
	if p.Parser.Kind == "" {
		p.Parser.Kind = "csv"
	}
	if p.Output.WideFile == "" {
		p.Output.WideFile = DefaultWideFile
	}
	if p.Output.LongFile == "" {
		p.Output.LongFile = DefaultLongFile
	}
	if p.Storage.DB.WideTable == "" {
		p.Storage.DB.WideTable = DefaultWideTable
	}
	if p.Storage.DB.LongTable == "" {
		p.Storage.DB.LongTable = DefaultLongTable
	}
}

// Options is a small helper to fetch typed values from arbitrary JSON maps
// without introducing third-party configuration libraries. It performs only
// minimal type coercion and returns provided defaults when a key is absent or
// of an unexpected type. Options is used for parser-specific configuration
// where the shape varies by implementation.
type Options map[string]any

// String returns the string value for key or def if key is missing or not a string.
func (o Options) String(key, def string) string {
	if v, ok := o[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return def
}

// Bool returns the bool value for key or def if key is missing or not a bool.
func (o Options) Bool(key string, def bool) bool {
	if v, ok := o[key]; ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return def
}

// Rune returns the first rune of a string value for key, or def if key is
// missing or empty. This is useful for single-character parser settings such
// as a CSV delimiter.
func (o Options) Rune(key string, def rune) rune {
	if v, ok := o[key]; ok {
		if s, ok := v.(string); ok && len(s) > 0 {
			return []rune(s)[0]
		}
	}
	return def
}

// StringMap returns a map[string]string for key when the value is an object
// whose values are strings. Non-string values are ignored. Returns an empty
// map when the key is missing or the value is not an object.
func (o Options) StringMap(key string) map[string]string {
	res := map[string]string{}
	if v, ok := o[key]; ok {
		if m, ok := v.(map[string]any); ok {
			for k, vv := range m {
				if s, ok := vv.(string); ok {
					res[k] = s
				}
			}
		}
	}
	return res
}

// UnmarshalJSON implements json.Unmarshaler so that a missing or null
// "options" object in JSON decodes to a non-nil, empty Options map. This
// simplifies call sites by removing the need to nil-check Options values.
func (o *Options) UnmarshalJSON(b []byte) error {
	var tmp map[string]any
	if len(b) == 0 || string(b) == "null" {
		*o = Options{}
		return nil
	}
	if err := json.Unmarshal(b, &tmp); err != nil {
		return err
	}
	*o = Options(tmp)
	return nil
}
