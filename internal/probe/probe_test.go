package probe

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleCSV = "Calendar Year,Licences,Days,Tonnes\n" +
	"2020,\"1,200\",300,450.5\n" +
	"2021,\"1,000\",0,10\n" +
	"Grand Total,\"2,200\",300,460.5\n"

func writeSample(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catch.csv")
	if err := os.WriteFile(path, []byte(sampleCSV), 0o644); err != nil {
		t.Fatalf("write sample: %v", err)
	}
	return path
}

func TestRunLocalFile(t *testing.T) {
	rep, err := Run(context.Background(), Options{Path: writeSample(t)})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if rep.RowsSampled != 3 {
		t.Fatalf("RowsSampled=%d want=3", rep.RowsSampled)
	}
	if len(rep.MissingRequired) != 0 {
		t.Fatalf("MissingRequired=%v want none", rep.MissingRequired)
	}
	if got := rep.Columns[0]; got.Canonical != "calendar_year" {
		t.Fatalf("column 0 = %+v", got)
	}
	// The footer row makes calendar_year non-numeric, so it stays "text".
	if got := rep.Columns[0].Type; got != "text" {
		t.Fatalf("calendar_year type=%q want text", got)
	}
	if got := rep.Columns[3].Type; got != "number" {
		t.Fatalf("tonnes type=%q want number", got)
	}
}

func TestRunSmallFileKeepsLastRow(t *testing.T) {
	// The sample is smaller than MaxBytes, so no record may be discarded as
	// potentially truncated.
	rep, err := Run(context.Background(), Options{Path: writeSample(t), MaxBytes: 1 << 20})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if rep.RowsSampled != 3 {
		t.Fatalf("RowsSampled=%d want=3", rep.RowsSampled)
	}
}

func TestRunTruncatedSampleDropsTail(t *testing.T) {
	// Cap the sample mid-way through the second data row.
	rep, err := Run(context.Background(), Options{Path: writeSample(t), MaxBytes: len(sampleCSV) - 20})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if rep.RowsSampled >= 3 {
		t.Fatalf("RowsSampled=%d, truncated tail row was kept", rep.RowsSampled)
	}
}

func TestRunReportsMissingColumns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.csv")
	if err := os.WriteFile(path, []byte("Calendar Year,Tonnes\n2020,1\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	rep, err := Run(context.Background(), Options{Path: path})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	want := map[string]bool{"days": true, "licences": true}
	if len(rep.MissingRequired) != len(want) {
		t.Fatalf("MissingRequired=%v", rep.MissingRequired)
	}
	for _, m := range rep.MissingRequired {
		if !want[m] {
			t.Fatalf("unexpected missing column %q", m)
		}
	}
}

func TestRunHTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(sampleCSV))
	}))
	defer srv.Close()

	rep, err := Run(context.Background(), Options{URL: srv.URL})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if rep.RowsSampled != 3 {
		t.Fatalf("RowsSampled=%d want=3", rep.RowsSampled)
	}
}

func TestRunRejectsAmbiguousSource(t *testing.T) {
	if _, err := Run(context.Background(), Options{}); err == nil {
		t.Fatalf("expected error when neither Path nor URL is set")
	}
	if _, err := Run(context.Background(), Options{Path: "a", URL: "b"}); err == nil {
		t.Fatalf("expected error when both Path and URL are set")
	}
}

func TestStarterConfig(t *testing.T) {
	rep, err := Run(context.Background(), Options{Path: writeSample(t)})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	p := StarterConfig("my_job", "data/catch.csv", rep)
	if p.Job != "my_job" || p.Source.File.Path != "data/catch.csv" {
		t.Fatalf("starter config = %+v", p)
	}
	hm := p.Parser.Options.StringMap("header_map")
	if hm["Calendar Year"] != "calendar_year" {
		t.Fatalf("header_map = %v", hm)
	}

	b, err := MarshalConfig(p)
	if err != nil {
		t.Fatalf("MarshalConfig: %v", err)
	}
	if !strings.Contains(string(b), `"calendar_year"`) {
		t.Fatalf("marshaled config missing header map:\n%s", b)
	}
}
