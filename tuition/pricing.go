package tuition

import "github.com/shopspring/decimal"

// =============================================================================
// PRICE TABLE - The enumerated monthly price configuration
// =============================================================================

// PriceTable is the school's monthly price configuration, read from the
// settings file as {single, two, three, sister}. It is a value passed per
// query, never a mutable singleton.
type PriceTable struct {
	Single          int64 // one group, or any count while the discount is off
	Two             int64 // bundle price for two groups
	ThreeOrMore     int64 // bundle price for three or more groups
	SiblingDiscount int64 // flat deduction when a sibling attends the school
}

// DefaultPriceTable is the fallback when the settings file is unreadable.
func DefaultPriceTable() PriceTable {
	return PriceTable{
		Single:          180,
		Two:             280,
		ThreeOrMore:     380,
		SiblingDiscount: 20,
	}
}

// MonthlyPrice derives the monthly price for a period.
//
// While the discount is off (or only one group is active) every group is
// billed at the single price. With the discount on, the bundle table takes
// over. The sibling discount stacks last and floors at zero.
func (t PriceTable) MonthlyPrice(activeGroups int, discountApplies, hasSibling bool) decimal.Decimal {
	if activeGroups <= 0 {
		return decimal.Zero
	}

	var price int64
	switch {
	case !discountApplies || activeGroups == 1:
		price = t.Single * int64(activeGroups)
	case activeGroups == 2:
		price = t.Two
	default:
		price = t.ThreeOrMore
	}

	if hasSibling {
		price -= t.SiblingDiscount
		if price < 0 {
			price = 0
		}
	}
	return decimal.NewFromInt(price)
}

// Validate vets a configured table: non-negative entries and bundle
// monotonicity (three >= two >= single) when the discount is meaningful.
func (t PriceTable) Validate() []string {
	var problems []string
	if t.Single < 0 || t.Two < 0 || t.ThreeOrMore < 0 || t.SiblingDiscount < 0 {
		problems = append(problems, "price table contains negative entries")
	}
	if t.Two < t.Single {
		problems = append(problems, "two-group bundle is cheaper than a single group")
	}
	if t.ThreeOrMore < t.Two {
		problems = append(problems, "three-group bundle is cheaper than the two-group bundle")
	}
	return problems
}
