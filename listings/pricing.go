package listings

import (
	"errors"
	"math"
	"math/big"
	"strconv"
	"strings"
)

// MaxDiscountPercent caps any advertised discount
const MaxDiscountPercent = 95

// ParseBool accepts the loose truthy tokens used in listing sheets:
// true, yes, y and 1, in any case. Everything else is false.
func ParseBool(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "true", "yes", "y", "1":
		return true
	}
	return false
}

// ParseNumber converts cell text to a number. A missing cell is NaN, an empty
// cell is 0 and text that is not a number is NaN.
func ParseNumber(text string, present bool) float64 {
	if !present {
		return math.NaN()
	}
	s := strings.TrimSpace(text)
	if s == "" {
		return 0
	}
	switch s {
	case "Infinity", "+Infinity":
		return math.Inf(1)
	case "-Infinity":
		return math.Inf(-1)
	}
	// ParseFloat also accepts "inf" and "nan" spellings
	if lower := strings.ToLower(s); strings.Contains(lower, "inf") || strings.Contains(lower, "nan") {
		return math.NaN()
	}
	if len(s) > 2 && s[0] == '0' {
		if base, ok := radixPrefixes[s[1]]; ok {
			return parseInteger(s[2:], base)
		}
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		// overflow comes back as ±Inf, as Number("1e400") does
		if errors.Is(err, strconv.ErrRange) {
			return n
		}
		return math.NaN()
	}
	return n
}

var radixPrefixes = map[byte]int{
	'x': 16, 'X': 16,
	'o': 8, 'O': 8,
	'b': 2, 'B': 2,
}

// parseInteger reads unsigned digits of any length in base, NaN when invalid
func parseInteger(digits string, base int) float64 {
	n, ok := new(big.Int).SetString(digits, base)
	if !ok || n.Sign() < 0 || strings.ContainsAny(digits, "+-") {
		return math.NaN()
	}
	f, _ := new(big.Float).SetInt(n).Float64()
	return f
}

// ClampDiscount coerces a discount cell into a whole percentage in [0, 95].
// Non-numeric input counts as 0.
func ClampDiscount(text string, present bool) int {
	n := ParseNumber(text, present)
	if math.IsNaN(n) {
		n = 0
	}
	n = math.Min(math.Max(n, 0), MaxDiscountPercent)
	return int(math.Round(n))
}

// SalePrice reduces price by pct percent, rounded to cents
func SalePrice(price float64, pct int) float64 {
	return RoundCents(price * (1 - float64(pct)/100))
}

// RoundCents rounds to 2 decimals with halves going up
func RoundCents(v float64) float64 {
	return math.Floor(v*100+0.5) / 100
}
