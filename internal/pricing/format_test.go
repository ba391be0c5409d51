package pricing

import "testing"

func TestFormatCurrency(t *testing.T) {
	tests := []struct {
		value float64
		want  string
	}{
		{0, "R$ 0,00"},
		{15400, "R$ 15.400,00"},
		{1540.5, "R$ 1.540,50"},
		{16940, "R$ 16.940,00"},
		{-400, "-R$ 400,00"},
	}

	for _, tt := range tests {
		if got := FormatCurrency(tt.value); got != tt.want {
			t.Errorf("FormatCurrency(%v) = %q, want %q", tt.value, got, tt.want)
		}
	}
}
