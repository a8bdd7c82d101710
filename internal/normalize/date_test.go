package normalize

import (
	"testing"
	"time"
)

func TestParseDate_ISORoundTrip(t *testing.T) {
	var n DateNormalizer

	inputs := []string{"2025-03-21", "2024-02-29", "1999-12-31", "2025-01-01"}
	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			d, err := n.ParseDate(in)
			if err != nil {
				t.Fatalf("ParseDate(%q) error: %v", in, err)
			}
			if got := d.UTC().Format("2006-01-02"); got != in {
				t.Errorf("round trip: got %q, want %q", got, in)
			}
			if h, m, s := d.Clock(); h != 0 || m != 0 || s != 0 {
				t.Errorf("expected UTC midnight, got %v", d)
			}
			if d.Location() != time.UTC {
				t.Errorf("expected UTC location, got %v", d.Location())
			}
		})
	}
}

func TestParseDate_Timestamps(t *testing.T) {
	var n DateNormalizer

	tests := []struct {
		input string
		want  string
	}{
		{"2025-03-21T12:30:00Z", "2025-03-21"},
		{"2025-03-21T23:59:59+05:30", "2025-03-21"},
		{"2025-03-21T10:00:00", "2025-03-21"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			d, err := n.ParseDate(tt.input)
			if err != nil {
				t.Fatalf("ParseDate(%q) error: %v", tt.input, err)
			}
			if got := d.UTC().Format("2006-01-02"); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseDate_NumericForms(t *testing.T) {
	tests := []struct {
		name    string
		order   DateOrder
		input   string
		want    string
		wantErr bool
	}{
		{name: "day greater than 12 pins DMY", input: "21/03/2025", want: "2025-03-21"},
		{name: "second component greater than 12 pins MDY", input: "03/21/2025", want: "2025-03-21"},
		{name: "ambiguous defaults to day first", input: "03/04/2025", want: "2025-04-03"},
		{name: "ambiguous with month-first order", order: OrderMonthFirst, input: "03/04/2025", want: "2025-03-04"},
		{name: "dashes accepted", input: "21-03-2025", want: "2025-03-21"},
		{name: "two digit year in 2000s", input: "21/03/25", want: "2025-03-21"},
		{name: "nonexistent date rejected", input: "31/02/2025", wantErr: true},
		{name: "day 31 of a 30-day month rejected", input: "31/04/2025", wantErr: true},
		{name: "both components over 12 rejected", input: "13/13/2025", wantErr: true},
		{name: "zero day rejected", input: "0/03/2025", wantErr: true},
		{name: "out of range component rejected", input: "32/03/2025", wantErr: true},
		{name: "empty input rejected", input: "", wantErr: true},
		{name: "whitespace only rejected", input: "   ", wantErr: true},
		{name: "free text rejected", input: "yesterday", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := DateNormalizer{Order: tt.order}
			d, err := n.ParseDate(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseDate(%q) = %v, want error", tt.input, d)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseDate(%q) error: %v", tt.input, err)
			}
			if got := d.UTC().Format("2006-01-02"); got != tt.want {
				t.Errorf("ParseDate(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseDate_LeapYear(t *testing.T) {
	var n DateNormalizer

	if _, err := n.ParseDate("29/02/2024"); err != nil {
		t.Errorf("29/02/2024 is a valid leap day: %v", err)
	}
	if _, err := n.ParseDate("29/02/2025"); err == nil {
		t.Error("29/02/2025 should be rejected")
	}
}
