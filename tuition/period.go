package tuition

import (
	"strings"

	"github.com/baila/tuition-engine/roster"
)

// =============================================================================
// PERIOD - One billing segment of a student's timeline
// =============================================================================

// PeriodReason tags why a period exists. These are codes, not display text.
type PeriodReason string

const (
	ReasonSingleGroup     PeriodReason = "single_group"
	ReasonMultiSameDay    PeriodReason = "multi_enroll_same_day"
	ReasonFirstGroupAlone PeriodReason = "first_group_alone"

	// ReasonSecondGroupMonth covers the second group's first calendar month,
	// billed as a separate single-group month before the bundle kicks in.
	ReasonSecondGroupMonth PeriodReason = "second_group_first_month"

	// ReasonBundle marks the period where the multi-group discount applies,
	// starting the month after joining the second group.
	ReasonBundle PeriodReason = "bundle"
)

// Period is one contiguous billing segment. Bounds are inclusive. Periods
// built for one query are contiguous, non-overlapping, and together cover
// [earliest join date, horizon].
type Period struct {
	Start roster.Date
	End   roster.Date

	// Groups active (attending and billed) during the segment, ordered by
	// (join date, group id).
	Groups []roster.Group

	// DiscountApplies selects the bundle price table for this segment
	// instead of count x single price.
	DiscountApplies bool

	Reason PeriodReason
}

// Contains reports whether d falls inside [Start, End].
func (p Period) Contains(d roster.Date) bool {
	return d.AfterOrEqual(p.Start) && d.BeforeOrEqual(p.End)
}

// GroupNames returns the active group names in period order.
func (p Period) GroupNames() []string {
	names := make([]string, len(p.Groups))
	for i, g := range p.Groups {
		names[i] = g.Name
	}
	return names
}

func (p Period) String() string {
	return "[" + p.Start.String() + ", " + p.End.String() + " " + strings.Join(p.GroupNames(), "+") + "]"
}
