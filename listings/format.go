package listings

import (
	"math"
	"strconv"
	"strings"
)

// FormatUSD formats an amount as en-US dollars, "$1,234.50". NaN renders as "$NaN".
func FormatUSD(v float64) string {
	switch {
	case math.IsNaN(v):
		return "$NaN"
	case math.IsInf(v, 1):
		return "$∞"
	case math.IsInf(v, -1):
		return "-$∞"
	}

	neg := v < 0
	s := strconv.FormatFloat(math.Abs(v), 'f', 2, 64)
	whole, cents := s[:len(s)-3], s[len(s)-2:]

	out := thousandSep(whole) + "." + cents
	if neg && out != "0.00" {
		return "-$" + out
	}
	return "$" + out
}

func thousandSep(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
