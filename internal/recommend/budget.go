package recommend

import (
	"strconv"
	"strings"
	"unicode"
)

// UnboundedMax is the ceiling used for open-ended or unparseable budgets.
// Stored preference strings rely on this exact value.
const UnboundedMax = 1_000_000

// Range is an inclusive price interval.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// FullRange matches every price the catalog can hold.
func FullRange() Range {
	return Range{Min: 0, Max: UnboundedMax}
}

// Contains reports whether price lies within the range, bounds included.
func (r Range) Contains(price float64) bool {
	return price >= r.Min && price <= r.Max
}

// ParseBudget converts a budget string such as "500-2000", "$10,000+" or "" into
// a price range. Malformed input yields FullRange instead of an error so that a
// broken budget never blocks recommendations.
func ParseBudget(budget string) Range {
	cleaned, ok := stripBudgetNoise(budget)
	if !ok || cleaned == "" {
		return FullRange()
	}

	if low, high, found := strings.Cut(cleaned, "-"); found {
		return Range{
			Min: parseBound(low, 0),
			Max: parseBound(high, UnboundedMax),
		}
	}

	if low, found := strings.CutSuffix(cleaned, "+"); found {
		return Range{
			Min: parseBound(low, 0),
			Max: UnboundedMax,
		}
	}

	return FullRange()
}

// stripBudgetNoise drops currency symbols, whitespace and thousands separators.
// It reports false when anything else remains that is not part of a range
// expression, such as "2k" or "1e5".
func stripBudgetNoise(value string) (string, bool) {
	var b strings.Builder
	b.Grow(len(value))
	for _, r := range value {
		switch {
		case r >= '0' && r <= '9', r == '.', r == '-', r == '+':
			b.WriteRune(r)
		case r == ',', unicode.IsSpace(r), unicode.Is(unicode.Sc, r):
		default:
			return "", false
		}
	}
	return b.String(), true
}

func parseBound(value string, fallback float64) float64 {
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil || parsed < 0 {
		return fallback
	}
	return parsed
}
