package roster

import (
	"fmt"
	"time"
)

// =============================================================================
// WEEKDAY - Closed sum type over the group's weekly meeting day
// =============================================================================

// Weekday is the day a group meets. The data files carry Hebrew day names;
// those are wire strings, not codes - the engine only ever sees this type.
// WeekdayInvalid marks a missing or unrecognized day; a group with an
// invalid weekday simply has zero scheduled meetings.
type Weekday int

const (
	WeekdayInvalid Weekday = iota - 1
	Sunday                 // ראשון - the first day of the Israeli school week
	Monday
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
)

// hebrewWeekdays maps the wire strings from groups.json to weekdays.
var hebrewWeekdays = map[string]Weekday{
	"ראשון": Sunday,
	"שני":   Monday,
	"שלישי": Tuesday,
	"רביעי": Wednesday,
	"חמישי": Thursday,
	"שישי":  Friday,
	"שבת":   Saturday,
}

// ParseWeekday resolves a Hebrew day-of-week string. Unknown strings return
// WeekdayInvalid with an error; callers that want row-level degradation keep
// the group and drop only its schedule.
func ParseWeekday(s string) (Weekday, error) {
	if w, ok := hebrewWeekdays[s]; ok {
		return w, nil
	}
	return WeekdayInvalid, fmt.Errorf("%w: unknown weekday %q", ErrMalformedWeekday, s)
}

func (w Weekday) Valid() bool {
	return w >= Sunday && w <= Saturday
}

// Time converts to the standard library weekday (Sunday == 0 in both).
func (w Weekday) Time() time.Weekday {
	return time.Weekday(w)
}

func (w Weekday) String() string {
	if !w.Valid() {
		return "invalid"
	}
	return w.Time().String()
}
