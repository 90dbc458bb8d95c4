package datadog

import (
	"sort"
	"testing"

	"tidycatch/internal/metrics"
)

func TestNewBackendRequiresAddr(t *testing.T) {
	if _, err := NewBackend(Config{}); err == nil {
		t.Fatalf("expected error for empty Addr")
	}
}

// UDP clients do not need a listening agent, so a fully configured backend
// can be constructed and exercised in-process.
func TestNewBackendWithOptions(t *testing.T) {
	b, err := NewBackend(Config{
		Addr:       "127.0.0.1:8125",
		Namespace:  "tidycatch.",
		GlobalTags: []string{"env:test"},
	})
	if err != nil {
		t.Fatalf("NewBackend: %v", err)
	}

	b.IncCounter("tidy_records_total", 3, metrics.Labels{"kind": "parsed"})
	b.ObserveHistogram("tidy_step_duration_seconds", 0.25, metrics.Labels{"step": "parse", "status": "success"})

	if err := b.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
}

func TestLabelsToTags(t *testing.T) {
	got := labelsToTags(metrics.Labels{"step": "parse", "status": "success"})
	sort.Strings(got)
	want := []string{"status:success", "step:parse"}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("tags=%v want=%v", got, want)
	}
	if tags := labelsToTags(nil); tags != nil {
		t.Fatalf("tags for empty labels=%v want nil", tags)
	}
}
