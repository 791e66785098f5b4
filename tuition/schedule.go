package tuition

import "github.com/baila/tuition-engine/roster"

// =============================================================================
// SCHEDULE COUNTER - Weekday recurrence over an inclusive range
// =============================================================================

// CountMeetings returns how many dates in [start, end] fall on the given
// weekday. The schedule is a pure recurrence: no holidays, no cancellations,
// no make-ups. An invalid weekday yields 0 rather than failing the query.
func CountMeetings(w roster.Weekday, start, end roster.Date) int {
	if !w.Valid() || end.Before(start) {
		return 0
	}

	// Advance to the first matching day, then count whole weeks.
	offset := (int(w.Time()) - int(start.Weekday()) + 7) % 7
	first := start.AddDays(offset)
	if first.After(end) {
		return 0
	}
	return roster.DaysBetween(first, end)/7 + 1
}

// CountGroupMeetings counts meetings of one group within [start, end].
func CountGroupMeetings(g roster.Group, start, end roster.Date) int {
	return CountMeetings(g.Weekday, start, end)
}

// maxMeetings is the first-month driver when several groups are active:
// attendance cost follows whichever group meets most in the window.
func maxMeetings(groups []roster.Group, start, end roster.Date) int {
	max := 0
	for _, g := range groups {
		if m := CountGroupMeetings(g, start, end); m > max {
			max = m
		}
	}
	return max
}
