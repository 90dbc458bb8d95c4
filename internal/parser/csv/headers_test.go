package csv

import (
	"errors"
	"testing"
)

func TestCanonical(t *testing.T) {
	cases := []struct{ in, want string }{
		{"Calendar Year", "calendar_year"},
		{"CALENDAR-YEAR", "calendar_year"},
		{"calendar_year", "calendar_year"},
		{"Licencés", "licences"},
		{"  Days  ", "days"},
		{"Tonnes (live weight)", "tonnes_live_weight"},
		{"CPUE t/day", "cpue_t_day"},
		{"", ""},
	}
	for _, c := range cases {
		if got := Canonical(c.in); got != c.want {
			t.Fatalf("Canonical(%q)=%q want=%q", c.in, got, c.want)
		}
	}
}

func TestRequireColumns(t *testing.T) {
	required := []string{"calendar_year", "licences", "days", "tonnes"}

	if err := RequireColumns([]string{"tonnes", "days", "licences", "calendar_year", "extra"}, required); err != nil {
		t.Fatalf("complete header set rejected: %v", err)
	}

	err := RequireColumns([]string{"calendar_year", "tonnes"}, required)
	var se *SchemaError
	if !errors.As(err, &se) {
		t.Fatalf("err=%v want *SchemaError", err)
	}
	if len(se.Missing) != 2 || se.Missing[0] != "days" || se.Missing[1] != "licences" {
		t.Fatalf("Missing=%v want [days licences]", se.Missing)
	}
}

func TestStripHeaderBOM(t *testing.T) {
	h := StripHeaderBOM([]string{"\uFEFFcalendar_year", "days"})
	if h[0] != "calendar_year" {
		t.Fatalf("header[0]=%q", h[0])
	}
}
