package roster

import (
	"strings"

	"github.com/shopspring/decimal"
)

// =============================================================================
// MONEY PARSING - Lenient at the edge, exact inside
// =============================================================================

// ParseAmount turns a recorded payment amount into a decimal. The data files
// carry amounts as strings or numbers, sometimes with a comma as the decimal
// separator ("1,23"). Unparseable or negative values contribute 0 - a bad
// payment row must never abort a whole query.
func ParseAmount(raw string) decimal.Decimal {
	s := strings.TrimSpace(raw)
	if s == "" {
		return decimal.Zero
	}
	s = strings.ReplaceAll(s, ",", ".")
	d, err := decimal.NewFromString(s)
	if err != nil || d.IsNegative() {
		return decimal.Zero
	}
	return d
}
