/*
periodpricer.go - Payment due for one period

PURPOSE:
  Turns (period, monthly price, schedule) into money. Two cases:

  A. Period inside one calendar month: charge the full month when at least
     three meetings fall in it, otherwise prorate in quarter-months
     (monthly/4 x meetings).
  B. Period spans months: the first calendar month is priced as in A over
     [start, end of start's month]; every later month is a whole month.

MONTH COUNTING:
  monthsBetween counts whole civil months strictly after start's calendar
  month up to and including end's. When end lands on the 1st it is counted
  as the last day of the previous month, so a span ending exactly on the 1st
  does not buy an extra whole month.

MONEY:
  Carried as decimals all the way through; only grand totals are rounded
  (half away from zero, 2dp) by the student pricer.
*/
package tuition

import (
	"github.com/shopspring/decimal"

	"github.com/baila/tuition-engine/roster"
)

// FullMonthMeetings is the attendance threshold for charging a whole first
// month; fewer meetings bill proportionally in quarter-months.
const FullMonthMeetings = 3

var four = decimal.NewFromInt(4)

// PeriodCharge is the priced breakdown of one period.
type PeriodCharge struct {
	Period       Period
	MonthlyPrice decimal.Decimal

	FirstMonthMeetings int
	FirstMonthPayment  decimal.Decimal

	RemainingMonths  int
	RemainingPayment decimal.Decimal

	Total decimal.Decimal
}

// PricePeriod computes the payment due for one period at the given monthly
// price.
func PricePeriod(p Period, monthly decimal.Decimal) PeriodCharge {
	months := monthsBetween(p.Start, p.End)

	firstWindowEnd := p.End
	if months > 0 {
		firstWindowEnd = p.Start.EndOfMonth()
	}

	meetings := maxMeetings(p.Groups, p.Start, firstWindowEnd)
	var first decimal.Decimal
	if meetings >= FullMonthMeetings {
		first = monthly
	} else {
		first = monthly.Div(four).Mul(decimal.NewFromInt(int64(meetings)))
	}

	remaining := monthly.Mul(decimal.NewFromInt(int64(months)))

	return PeriodCharge{
		Period:             p,
		MonthlyPrice:       monthly,
		FirstMonthMeetings: meetings,
		FirstMonthPayment:  first,
		RemainingMonths:    months,
		RemainingPayment:   remaining,
		Total:              first.Add(remaining),
	}
}

// monthsBetween counts whole civil months strictly after start's calendar
// month, up to and including end's calendar month. An end on day 1 counts
// as the previous month.
func monthsBetween(start, end roster.Date) int {
	e := end
	if e.Day() == 1 {
		e = e.AddDays(-1)
	}
	months := (e.Year()-start.Year())*12 + int(e.Month()) - int(start.Month())
	if months < 0 {
		return 0
	}
	return months
}
