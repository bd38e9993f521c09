package recommend

import "testing"

func TestParseBudget(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		value string
		want  Range
	}{
		{"closed range", "500-2000", Range{Min: 500, Max: 2000}},
		{"open ended", "10000+", Range{Min: 10000, Max: UnboundedMax}},
		{"garbage", "garbage", FullRange()},
		{"empty", "", FullRange()},
		{"single number", "750", FullRange()},
		{"currency and separators", "$2,000 - $10,000", Range{Min: 2000, Max: 10000}},
		{"currency open ended", "$10,000+", Range{Min: 10000, Max: UnboundedMax}},
		{"missing low", "-2000", Range{Min: 0, Max: 2000}},
		{"missing high", "500-", Range{Min: 500, Max: UnboundedMax}},
		{"non numeric sides", "abc-def", FullRange()},
		{"under", "0-500", Range{Min: 0, Max: 500}},
		{"shorthand thousands", "2k-5k", FullRange()},
		{"leading letters", "abc500-2000", FullRange()},
		{"exponent", "1e5+", FullRange()},
		{"pound range", "£500 - £2,000", Range{Min: 500, Max: 2000}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := ParseBudget(tt.value); got != tt.want {
				t.Fatalf("ParseBudget(%q) = %+v, want %+v", tt.value, got, tt.want)
			}
		})
	}
}

func TestRangeContainsIsInclusive(t *testing.T) {
	t.Parallel()

	r := Range{Min: 500, Max: 2000}
	for _, price := range []float64{500, 1200, 2000} {
		if !r.Contains(price) {
			t.Fatalf("expected %v to be inside %+v", price, r)
		}
	}
	for _, price := range []float64{499.99, 2000.01} {
		if r.Contains(price) {
			t.Fatalf("expected %v to be outside %+v", price, r)
		}
	}
}
