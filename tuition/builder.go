/*
builder.go - Period construction from a student's enrollments

PURPOSE:
  Splits a student's enrollment history into billing periods. This is the
  sole source of truth for period construction: both the to-date and the
  full-course totals consume its output.

THE SPLIT:
  one group                -> one period at the single price
  several, same join date  -> one period, bundle price from day one
  several, distinct dates  -> exactly three periods from the two earliest
                              enrollments G1, G2:
    P1 [J1, J2-1]                G1 alone, no discount
    P2 [J2, end of J2's month]   G2 ALONE, no discount
    P3 [next month, horizon]     all groups, bundle price

  P2 deliberately bills only the second group at the single-group price even
  though the student attends both that month: the first full month of the
  second enrollment is a separate single-group month before discounts kick
  in. This is a business rule, not a bug.

ORDERING:
  Enrollments sort by (join date asc, group id asc); groups joined after G2
  fold into the final all-groups period.
*/
package tuition

import (
	"sort"

	"github.com/baila/tuition-engine/roster"
)

// Enrollment pairs a group with the student's joining date for it.
// Groups without a joining date never become enrollments; they are dropped
// before period building.
type Enrollment struct {
	Group    roster.Group
	JoinedAt roster.Date
}

// BuildPeriods produces the ordered billing periods covering
// [earliest join, horizon]. Returns nil when there is nothing to bill.
func BuildPeriods(enrollments []Enrollment, horizon roster.Date) []Period {
	es := make([]Enrollment, len(enrollments))
	copy(es, enrollments)
	sort.SliceStable(es, func(i, j int) bool {
		if !es[i].JoinedAt.Equal(es[j].JoinedAt) {
			return es[i].JoinedAt.Before(es[j].JoinedAt)
		}
		return es[i].Group.ID < es[j].Group.ID
	})

	if len(es) == 0 || horizon.Before(es[0].JoinedAt) {
		return nil
	}

	if len(es) == 1 {
		return clampAll(horizon, Period{
			Start:  es[0].JoinedAt,
			End:    horizon,
			Groups: []roster.Group{es[0].Group},
			Reason: ReasonSingleGroup,
		})
	}

	if sameJoinDate(es) {
		// Joining several groups together earns the discount immediately.
		return clampAll(horizon, Period{
			Start:           es[0].JoinedAt,
			End:             horizon,
			Groups:          groupsOf(es),
			DiscountApplies: true,
			Reason:          ReasonMultiSameDay,
		})
	}

	first, second := es[0], es[1]
	return clampAll(horizon,
		Period{
			Start:  first.JoinedAt,
			End:    second.JoinedAt.AddDays(-1),
			Groups: []roster.Group{first.Group},
			Reason: ReasonFirstGroupAlone,
		},
		Period{
			Start:  second.JoinedAt,
			End:    second.JoinedAt.EndOfMonth(),
			Groups: []roster.Group{second.Group},
			Reason: ReasonSecondGroupMonth,
		},
		Period{
			Start:           second.JoinedAt.StartOfNextMonth(),
			End:             horizon,
			Groups:          groupsOf(es),
			DiscountApplies: true,
			Reason:          ReasonBundle,
		},
	)
}

func sameJoinDate(es []Enrollment) bool {
	for _, e := range es[1:] {
		if !e.JoinedAt.Equal(es[0].JoinedAt) {
			return false
		}
	}
	return true
}

func groupsOf(es []Enrollment) []roster.Group {
	groups := make([]roster.Group, len(es))
	for i, e := range es {
		groups[i] = e.Group
	}
	return groups
}

// clampAll truncates periods at the horizon and drops empty ones. When the
// horizon falls inside an earlier period, the later ones start past the
// horizon and fall away here.
func clampAll(horizon roster.Date, periods ...Period) []Period {
	var out []Period
	for _, p := range periods {
		if p.Start.After(horizon) {
			continue
		}
		if p.End.After(horizon) {
			p.End = horizon
		}
		if p.End.Before(p.Start) {
			continue
		}
		out = append(out, p)
	}
	return out
}
