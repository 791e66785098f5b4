/*
student.go - Per-student pricing orchestration

PURPOSE:
  The query entry point UI surfaces ask: given a student id and a horizon
  kind, resolve enrollments from the snapshot, build periods, price each,
  and sum. Pure and deterministic given (snapshot, price table, today), so
  results are cacheable at this boundary.

DEGRADATION:
  Enrollment rows degrade instead of failing the query: a group name missing
  from the snapshot, or an enrollment with no joining date, drops that group
  and the rest of the answer still renders. Only an unknown student id fails
  the whole query.
*/
package tuition

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/baila/tuition-engine/roster"
)

// =============================================================================
// HORIZON
// =============================================================================

// HorizonKind selects the upper bound of a pricing query.
type HorizonKind string

const (
	// HorizonToDate prices through the end of the current month.
	HorizonToDate HorizonKind = "to_date"

	// HorizonFullCourse prices through the latest course end date among the
	// student's enrolled groups.
	HorizonFullCourse HorizonKind = "full_course"
)

// ParseHorizonKind resolves the wire string; empty defaults to to_date.
func ParseHorizonKind(s string) (HorizonKind, error) {
	switch s {
	case "", string(HorizonToDate):
		return HorizonToDate, nil
	case string(HorizonFullCourse):
		return HorizonFullCourse, nil
	default:
		return "", fmt.Errorf("unknown horizon kind %q", s)
	}
}

// =============================================================================
// RESULT
// =============================================================================

// PricingResult is the totals-plus-breakdown record every debt display
// ultimately consumes.
type PricingResult struct {
	StudentID   roster.StudentID
	StudentName string
	HorizonKind HorizonKind
	Horizon     roster.Date

	Periods []PeriodCharge

	// Total is rounded half away from zero to 2 decimals; the per-period
	// charges stay exact.
	Total decimal.Decimal

	// Warnings carry non-fatal degradations (dropped groups, defaulted
	// config) so the UI can surface them.
	Warnings []string
}

// =============================================================================
// STUDENT PRICER
// =============================================================================

// StudentPricer prices students against one immutable snapshot.
type StudentPricer struct {
	Snapshot *Snapshot
	Prices   PriceTable
	Clock    Clock

	// Warnings inherited from config loading, echoed into every result.
	ConfigWarnings []string
}

// PriceStudent computes the totals+breakdown record for one student.
func (sp *StudentPricer) PriceStudent(id roster.StudentID, kind HorizonKind) (*PricingResult, error) {
	student, ok := sp.Snapshot.StudentByID(id)
	if !ok {
		return nil, &NotFoundError{Entity: "student", ID: string(id)}
	}

	enrollments, warnings := sp.Enrollments(student)
	warnings = append(warnings, sp.ConfigWarnings...)

	result := &PricingResult{
		StudentID:   student.ID,
		StudentName: student.Name,
		HorizonKind: kind,
		Total:       decimal.Zero,
		Warnings:    warnings,
	}

	horizon, ok := sp.horizon(kind, enrollments)
	if !ok {
		// Nothing billable: no enrollments carry a joining date.
		return result, nil
	}
	result.Horizon = horizon

	total := decimal.Zero
	for _, p := range BuildPeriods(enrollments, horizon) {
		monthly := sp.Prices.MonthlyPrice(len(p.Groups), p.DiscountApplies, student.HasSibling)
		charge := PricePeriod(p, monthly)
		result.Periods = append(result.Periods, charge)
		total = total.Add(charge.Total)
	}
	result.Total = total.Round(2)
	return result, nil
}

// Enrollments resolves a student's group names against the snapshot and
// attaches joining dates. Unresolvable rows are dropped with a warning.
func (sp *StudentPricer) Enrollments(student roster.Student) ([]Enrollment, []string) {
	var (
		enrollments []Enrollment
		warnings    []string
	)
	for _, name := range student.Groups {
		group, ok := sp.Snapshot.GroupByName(name)
		if !ok {
			warnings = append(warnings, fmt.Sprintf("group %q not found; skipped", name))
			continue
		}
		joined, ok := sp.Snapshot.JoinDate(group.ID, student.ID)
		if !ok {
			warnings = append(warnings, fmt.Sprintf("no joining date for group %q; skipped", name))
			continue
		}
		enrollments = append(enrollments, Enrollment{Group: group, JoinedAt: joined})
	}
	return enrollments, warnings
}

func (sp *StudentPricer) horizon(kind HorizonKind, enrollments []Enrollment) (roster.Date, bool) {
	if len(enrollments) == 0 {
		return roster.Date{}, false
	}
	if kind == HorizonFullCourse {
		end := enrollments[0].Group.CourseEnd
		for _, e := range enrollments[1:] {
			end = roster.MaxDate(end, e.Group.CourseEnd)
		}
		return end, true
	}
	return sp.Clock.Today().EndOfMonth(), true
}
