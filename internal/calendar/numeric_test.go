package calendar

import "testing"

func TestParseNumeric(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"0.3%", 0.3, true},
		{"-0.5%", -0.5, true},
		{"215K", 215000, true},
		{"1.2M", 1.2e6, true},
		{"3B", 3e9, true},
		{"1.5T", 1.5e12, true},
		{"1,250K", 1.25e6, true},
		{"42", 42, true},
		{" 7.5 ", 7.5, true},
		{"", 0, false},
		{"N/A", 0, false},
		{"K", 0, false},
		{"abc%", 0, false},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			got, ok := parseNumeric(tt.in)
			if ok != tt.ok {
				t.Fatalf("parseNumeric(%q) ok = %v, want %v", tt.in, ok, tt.ok)
			}
			if ok && got != tt.want {
				t.Fatalf("parseNumeric(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
