package tidy

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDropLogRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit", "dropped.csv")

	dl, err := NewDropLog(path)
	if err != nil {
		t.Fatalf("NewDropLog: %v", err)
	}
	drops := []Dropped{
		{Line: 7, Reason: "no 4-digit year", Raw: "Grand Total"},
		{Line: 9, Reason: "no 4-digit year", Raw: "subtotal"},
		{Line: 11, Reason: "empty calendar_year", Raw: ""},
	}
	for _, d := range drops {
		if err := dl.Add(d); err != nil {
			t.Fatalf("Add: %v", err)
		}
	}
	if got := dl.Counts()["no 4-digit year"]; got != 2 {
		t.Fatalf("count=%d want=2", got)
	}
	if err := dl.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read audit: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(b)), "\n")
	if got, want := len(lines), 1+len(drops); got != want {
		t.Fatalf("lines=%d want=%d", got, want)
	}
	if lines[0] != "reason,line,raw_value" {
		t.Fatalf("header=%q", lines[0])
	}
	if lines[1] != "no 4-digit year,7,Grand Total" {
		t.Fatalf("first row=%q", lines[1])
	}
}
