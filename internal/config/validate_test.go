package config

import (
	"strings"
	"testing"
)

// hasIssue reports whether issues contains an Issue with the given severity,
// path, and a Message containing msgSubstr.
func hasIssue(t *testing.T, issues []Issue, sev IssueSeverity, path, msgSubstr string) bool {
	t.Helper()
	for _, iss := range issues {
		if iss.Severity == sev && iss.Path == path && strings.Contains(iss.Message, msgSubstr) {
			return true
		}
	}
	return false
}

func validPipeline() Pipeline {
	p := Pipeline{
		Job: "wa_fishery_catch",
		Source: Source{
			Kind: "file",
			File: SourceFile{Path: "data/catch_effort.csv"},
		},
		Parser: Parser{Kind: "csv", Options: Options{}},
	}
	p.ApplyDefaults()
	return p
}

func TestValidatePipeline_ValidMinimal(t *testing.T) {
	issues := ValidatePipeline(validPipeline())
	if len(issues) != 0 {
		t.Fatalf("expected no issues for valid pipeline; got: %+v", issues)
	}
}

func TestValidatePipeline_MissingJob(t *testing.T) {
	p := validPipeline()
	p.Job = "  "

	issues := ValidatePipeline(p)
	if !hasIssue(t, issues, SeverityError, "job", "job must not be empty") {
		t.Fatalf("expected SeverityError for job; got issues: %+v", issues)
	}
}

/*
TestValidateSource_Cases exercises validateSource with missing kind, unknown
kind, and the file-specific path/fallbacks requirement.
*/
func TestValidateSource_Cases(t *testing.T) {
	t.Run("missing_kind", func(t *testing.T) {
		issues := validateSource(Source{})
		if !hasIssue(t, issues, SeverityError, "source.kind", "must not be empty") {
			t.Fatalf("expected error for empty source.kind; got %+v", issues)
		}
	})

	t.Run("unknown_kind", func(t *testing.T) {
		issues := validateSource(Source{Kind: "ftp"})
		if !hasIssue(t, issues, SeverityWarning, "source.kind", "unknown source kind") {
			t.Fatalf("expected warning for unknown source.kind; got %+v", issues)
		}
	})

	t.Run("file_no_path_no_fallbacks", func(t *testing.T) {
		issues := validateSource(Source{Kind: "file", File: SourceFile{Path: "  "}})
		if !hasIssue(t, issues, SeverityError, "source.file", "path or at least one fallback") {
			t.Fatalf("expected error for missing path; got %+v", issues)
		}
	})

	t.Run("file_fallbacks_only_ok", func(t *testing.T) {
		issues := validateSource(Source{Kind: "file", File: SourceFile{Fallbacks: []string{"data/in.csv"}}})
		if len(issues) != 0 {
			t.Fatalf("expected no issues; got %+v", issues)
		}
	})
}

func TestValidateParser_Cases(t *testing.T) {
	t.Run("missing_kind", func(t *testing.T) {
		issues := validateParser(Parser{})
		if !hasIssue(t, issues, SeverityError, "parser.kind", "must not be empty") {
			t.Fatalf("expected error for empty parser.kind; got %+v", issues)
		}
	})

	t.Run("unknown_kind", func(t *testing.T) {
		issues := validateParser(Parser{Kind: "tsv"})
		if !hasIssue(t, issues, SeverityWarning, "parser.kind", "unknown parser kind") {
			t.Fatalf("expected warning for unknown parser.kind; got %+v", issues)
		}
	})

	t.Run("multi_char_delimiter", func(t *testing.T) {
		issues := validateParser(Parser{Kind: "csv", Options: Options{"comma": ",,"}})
		if !hasIssue(t, issues, SeverityError, "parser.options.comma", "single character") {
			t.Fatalf("expected error for multi-char delimiter; got %+v", issues)
		}
	})

	t.Run("semicolon_delimiter_ok", func(t *testing.T) {
		issues := validateParser(Parser{Kind: "csv", Options: Options{"comma": ";"}})
		if len(issues) != 0 {
			t.Fatalf("expected no issues; got %+v", issues)
		}
	})
}

func TestValidateOutput_Cases(t *testing.T) {
	t.Run("file_name_collision", func(t *testing.T) {
		issues := validateOutput(Output{WideFile: "tidy.csv", LongFile: "tidy.csv"})
		if !hasIssue(t, issues, SeverityError, "output.long_file", "must not name the same file") {
			t.Fatalf("expected error for file collision; got %+v", issues)
		}
	})

	t.Run("path_separator_in_name", func(t *testing.T) {
		issues := validateOutput(Output{WideFile: "sub/wide.csv", LongFile: "long.csv"})
		if !hasIssue(t, issues, SeverityError, "output.wide_file", "bare file name") {
			t.Fatalf("expected error for path separator; got %+v", issues)
		}
	})
}

func TestValidateStorage_Cases(t *testing.T) {
	t.Run("disabled_is_silent", func(t *testing.T) {
		for _, kind := range []string{"", "none"} {
			if issues := validateStorage(Storage{Kind: kind}); len(issues) != 0 {
				t.Fatalf("kind %q: expected no issues; got %+v", kind, issues)
			}
		}
	})

	t.Run("unknown_kind", func(t *testing.T) {
		issues := validateStorage(Storage{Kind: "oracle", DB: DBConfig{DSN: "x"}})
		if !hasIssue(t, issues, SeverityWarning, "storage.kind", "unknown storage kind") {
			t.Fatalf("expected warning for unknown storage.kind; got %+v", issues)
		}
	})

	t.Run("missing_dsn", func(t *testing.T) {
		issues := validateStorage(Storage{Kind: "sqlite"})
		if !hasIssue(t, issues, SeverityError, "storage.db.dsn", "non-empty dsn") {
			t.Fatalf("expected error for empty dsn; got %+v", issues)
		}
	})

	t.Run("table_collision", func(t *testing.T) {
		s := Storage{
			Kind: "postgres",
			DB:   DBConfig{DSN: "postgres://x", WideTable: "tidy", LongTable: "tidy"},
		}
		issues := validateStorage(s)
		if !hasIssue(t, issues, SeverityError, "storage.db.long_table", "must not name the same table") {
			t.Fatalf("expected error for table collision; got %+v", issues)
		}
	})

	t.Run("valid_storage", func(t *testing.T) {
		s := Storage{
			Kind: "postgres",
			DB: DBConfig{
				DSN:       "postgres://user@localhost/db",
				WideTable: "catch_effort_wide",
				LongTable: "catch_effort_long",
			},
		}
		if issues := validateStorage(s); len(issues) != 0 {
			t.Fatalf("expected no issues; got %+v", issues)
		}
	})
}
