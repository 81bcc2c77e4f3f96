package utils

import "testing"

func TestFormatCurrency(t *testing.T) {
	cases := map[float64]string{
		0:          "$0.00",
		5000:       "$5,000.00",
		230.45:     "$230.45",
		-1234.5:    "-$1,234.50",
		43250:      "$43,250.00",
		1234567.89: "$1,234,567.89",
	}
	for in, want := range cases {
		if got := FormatCurrency(in); got != want {
			t.Errorf("FormatCurrency(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestFormatPercent(t *testing.T) {
	if got := FormatPercent(4.614); got != "+4.61%" {
		t.Errorf("FormatPercent(4.614) = %q", got)
	}
	if got := FormatPercent(-2.5); got != "-2.50%" {
		t.Errorf("FormatPercent(-2.5) = %q", got)
	}
	if got := FormatPercent(0); got != "0.00%" {
		t.Errorf("FormatPercent(0) = %q", got)
	}
}

func TestFormatShares(t *testing.T) {
	cases := map[float64]string{
		4.3397: "4.3397",
		5.0:    "5",
		0.5:    "0.5",
	}
	for in, want := range cases {
		if got := FormatShares(in); got != want {
			t.Errorf("FormatShares(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestFormatCompact(t *testing.T) {
	if got := FormatCompact(5500); got != "$5.5k" {
		t.Errorf("FormatCompact(5500) = %q", got)
	}
	if got := FormatCompact(2500000); got != "$2.5M" {
		t.Errorf("FormatCompact(2500000) = %q", got)
	}
	if got := FormatCompact(999); got != "$999.00" {
		t.Errorf("FormatCompact(999) = %q", got)
	}
}
