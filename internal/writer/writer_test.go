package writer

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"tidycatch/internal/tidy"
)

func TestWriteWideDeterministic(t *testing.T) {
	cpue := 450.5 / 300 // 1.501666...
	rows := []tidy.WideRow{
		{Year: 2020, Licences: 1200, Days: 300, Tonnes: 450.5, CPUE: &cpue},
		{Year: 2021, Licences: 1000, Days: 0, Tonnes: 10},
	}

	path := filepath.Join(t.TempDir(), "wide.csv")
	if err := WriteWide(path, rows); err != nil {
		t.Fatalf("WriteWide: %v", err)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	want := "calendar_year,licences,days,tonnes,cpue_t_per_day\n" +
		"2020,1200,300,450.5,1.5017\n" +
		"2021,1000,0,10,\n"
	if string(got) != want {
		t.Fatalf("wide output:\n%s\nwant:\n%s", got, want)
	}

	// Writing the same rows again must be byte-identical.
	path2 := filepath.Join(t.TempDir(), "wide.csv")
	if err := WriteWide(path2, rows); err != nil {
		t.Fatalf("WriteWide again: %v", err)
	}
	got2, err := os.ReadFile(path2)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !bytes.Equal(got, got2) {
		t.Fatalf("repeated write differs:\n%s\nvs\n%s", got, got2)
	}
}

func TestWriteLong(t *testing.T) {
	rows := []tidy.LongRow{
		{Year: 2020, Metric: tidy.MetricTonnes, Value: 450.5},
		{Year: 2020, Metric: tidy.MetricDays, Value: 300},
		{Year: 2020, Metric: tidy.MetricLicences, Value: 1200},
	}

	path := filepath.Join(t.TempDir(), "long.csv")
	if err := WriteLong(path, rows); err != nil {
		t.Fatalf("WriteLong: %v", err)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	want := "calendar_year,metric,value\n" +
		"2020,tonnes,450.5\n" +
		"2020,days,300\n" +
		"2020,licences,1200\n"
	if string(got) != want {
		t.Fatalf("long output:\n%s\nwant:\n%s", got, want)
	}
}

func TestFormatCPUE(t *testing.T) {
	if got := formatCPUE(nil); got != "" {
		t.Fatalf("formatCPUE(nil) = %q", got)
	}
	v := 1.0 / 3.0
	if got := formatCPUE(&v); got != "0.3333" {
		t.Fatalf("formatCPUE(1/3) = %q", got)
	}
	whole := 2.0
	if got := formatCPUE(&whole); got != "2" {
		t.Fatalf("formatCPUE(2) = %q", got)
	}
}

func TestResolveDir(t *testing.T) {
	t.Run("explicit_created", func(t *testing.T) {
		want := filepath.Join(t.TempDir(), "out", "nested")
		got, err := ResolveDir(want, []string{"ignored"})
		if err != nil {
			t.Fatalf("ResolveDir: %v", err)
		}
		if got != want {
			t.Fatalf("dir = %q want %q", got, want)
		}
		if info, err := os.Stat(got); err != nil || !info.IsDir() {
			t.Fatalf("explicit dir not created: %v", err)
		}
	})

	t.Run("first_existing_fallback", func(t *testing.T) {
		existing := t.TempDir()
		got, err := ResolveDir("", []string{filepath.Join(existing, "missing"), existing})
		if err != nil {
			t.Fatalf("ResolveDir: %v", err)
		}
		if got != existing {
			t.Fatalf("dir = %q want %q", got, existing)
		}
	})
}
