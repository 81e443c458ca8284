package report

import (
	"fmt"
	"math"
	"strconv"
)

// naPlaceholder is rendered wherever a value is undefined (NaN), e.g. a
// share against a zero portal-wide total.
const naPlaceholder = "n/a"

// FormatPercent renders v with a fixed number of decimals and a "%"
// suffix. Undefined values (NaN) render as "n/a"; v is a percentage, not a
// fraction.
func FormatPercent(v float64, decimals int) string {
	if math.IsNaN(v) {
		return naPlaceholder
	}
	return fmt.Sprintf("%.*f%%", decimals, v)
}

// FormatFractionPercent renders a 0..1 fraction as a percentage string.
func FormatFractionPercent(v float64, decimals int) string {
	if math.IsNaN(v) {
		return naPlaceholder
	}
	return FormatPercent(v*100, decimals)
}

// FormatCount renders an integer with thousands separators for table
// readability (1234567 -> "1,234,567").
func FormatCount(n int64) string {
	s := strconv.FormatInt(n, 10)
	start := 0
	if n < 0 {
		start = 1
	}
	out := make([]byte, 0, len(s)+len(s)/3)
	for i := 0; i < len(s); i++ {
		if i > start && (len(s)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, s[i])
	}
	return string(out)
}

// truncate shortens s to at most max characters, appending "..." when cut.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}
