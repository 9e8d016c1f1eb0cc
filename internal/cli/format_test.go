package cli

import "testing"

func TestFormatCurrency(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "₦0"},
		{999.4, "₦999"},
		{1234567.6, "₦1,234,568"},
		{-2500, "-₦2,500"},
		{-0.4, "₦0"},
	}
	for _, tt := range tests {
		if got := FormatCurrency(tt.in); got != tt.want {
			t.Errorf("FormatCurrency(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatSignedCurrency(t *testing.T) {
	if got := FormatSignedCurrency(5000); got != "+₦5,000" {
		t.Errorf("FormatSignedCurrency(5000) = %q", got)
	}
	if got := FormatSignedCurrency(-5000); got != "-₦5,000" {
		t.Errorf("FormatSignedCurrency(-5000) = %q", got)
	}
}

func TestFormatCompactCurrency(t *testing.T) {
	if got := FormatCompactCurrency(12400); got != "₦12k" {
		t.Errorf("FormatCompactCurrency(12400) = %q", got)
	}
}

func TestFormatRunway(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{5.2, "5.2 days"},
		{45, "45.0 days"},
		{0, "N/A"},
		{-3, "N/A"},
	}
	for _, tt := range tests {
		if got := FormatRunway(tt.in); got != tt.want {
			t.Errorf("FormatRunway(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatDate(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"2024-03-05", "Mar 5, 2024"},
		{"2024-03-05T14:22:00", "Mar 5, 2024"},
		{"2024-03-05T14:22:00Z", "Mar 5, 2024"},
		{"yesterday", "yesterday"},
	}
	for _, tt := range tests {
		if got := FormatDate(tt.in); got != tt.want {
			t.Errorf("FormatDate(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{1234567, "1,234,567"},
		{-1234, "-1,234"},
	}
	for _, tt := range tests {
		if got := FormatNumber(tt.in); got != tt.want {
			t.Errorf("FormatNumber(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatPercent(t *testing.T) {
	if got := FormatPercent(33.333); got != "33.3%" {
		t.Errorf("FormatPercent(33.333) = %q", got)
	}
}

func TestCleanText(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"POS  Shoprite\tIkeja", "POS Shoprite Ikeja"},
		{"<b>Transfer</b> to <script>x()</script>Ada", "Transfer to Ada"},
		{"Fish & Chips", "Fish & Chips"},
		{"ATM\x07 Withdrawal\x1b", "ATM Withdrawal"},
	}
	for _, tt := range tests {
		if got := CleanText(tt.in); got != tt.want {
			t.Errorf("CleanText(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
