package tuition_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baila/tuition-engine/roster"
	"github.com/baila/tuition-engine/tuition"
)

// =============================================================================
// TEST FIXTURE
//
// Season 2025/26. Ballet meets Sundays, jazz Wednesdays; both courses run
// 07/09/2025 - 30/06/2026. "Today" is pinned per test with a FixedClock.
// =============================================================================

type fixture struct {
	groups   []roster.Group
	students []roster.Student
	joins    map[roster.JoinKey]roster.Date
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return &fixture{
		groups: []roster.Group{
			{ID: "g-ballet", Name: "Ballet", Weekday: roster.Sunday, MonthlyPrice: 180,
				CourseStart: date(t, "07/09/2025"), CourseEnd: date(t, "30/06/2026")},
			{ID: "g-jazz", Name: "Jazz", Weekday: roster.Wednesday, MonthlyPrice: 180,
				CourseStart: date(t, "03/09/2025"), CourseEnd: date(t, "30/06/2026")},
		},
		joins: make(map[roster.JoinKey]roster.Date),
	}
}

func (f *fixture) addStudent(t *testing.T, s roster.Student, joins map[string]string) {
	t.Helper()
	f.students = append(f.students, s)
	for groupID, joined := range joins {
		key := roster.JoinKey{GroupID: roster.GroupID(groupID), StudentID: s.ID}
		f.joins[key] = date(t, joined)
	}
}

func (f *fixture) pricer(t *testing.T, today string) *tuition.StudentPricer {
	t.Helper()
	return &tuition.StudentPricer{
		Snapshot: tuition.NewSnapshot(f.groups, f.students, f.joins),
		Prices:   tuition.DefaultPriceTable(),
		Clock:    tuition.FixedClock{Date: date(t, today)},
	}
}

// =============================================================================
// TO-DATE PRICING
// =============================================================================

func TestPriceStudent_SingleGroup_FullFirstMonth(t *testing.T) {
	// GIVEN: Ballet from the season start, today mid-September
	// THEN: Four Sunday meetings fill the first month: 180

	f := newFixture(t)
	f.addStudent(t, roster.Student{ID: "s1", Name: "Noa", Groups: []string{"Ballet"}},
		map[string]string{"g-ballet": "07/09/2025"})

	result, err := f.pricer(t, "15/09/2025").PriceStudent("s1", tuition.HorizonToDate)
	require.NoError(t, err)

	assert.Equal(t, "30/09/2025", result.Horizon.String())
	assert.Equal(t, "180", result.Total.String())
	require.Len(t, result.Periods, 1)
	assert.Empty(t, result.Warnings)
}

func TestPriceStudent_LateJoin_Prorated(t *testing.T) {
	// GIVEN: Joining 21/09, only two Sundays left in September
	// THEN: 180/4 x 2 = 90

	f := newFixture(t)
	f.addStudent(t, roster.Student{ID: "s1", Name: "Noa", Groups: []string{"Ballet"}},
		map[string]string{"g-ballet": "21/09/2025"})

	result, err := f.pricer(t, "25/09/2025").PriceStudent("s1", tuition.HorizonToDate)
	require.NoError(t, err)

	assert.Equal(t, "90", result.Total.String())
}

func TestPriceStudent_TwoGroupsSameDay_BundleFromDayOne(t *testing.T) {
	// GIVEN: Ballet and jazz both joined 07/09, today mid-October
	// THEN: September (full by meetings) + October at the bundle price:
	//       280 + 280 = 560

	f := newFixture(t)
	f.addStudent(t, roster.Student{ID: "s1", Name: "Shira", Groups: []string{"Ballet", "Jazz"}},
		map[string]string{"g-ballet": "07/09/2025", "g-jazz": "07/09/2025"})

	result, err := f.pricer(t, "15/10/2025").PriceStudent("s1", tuition.HorizonToDate)
	require.NoError(t, err)

	require.Len(t, result.Periods, 1)
	assert.Equal(t, tuition.ReasonMultiSameDay, result.Periods[0].Period.Reason)
	assert.Equal(t, "560", result.Total.String())
}

func TestPriceStudent_TwoGroupsSameDay_WithSibling(t *testing.T) {
	// Same as above with the sibling discount: (280-20) x 2 = 520.

	f := newFixture(t)
	f.addStudent(t, roster.Student{ID: "s1", Name: "Shira", Groups: []string{"Ballet", "Jazz"}, HasSibling: true},
		map[string]string{"g-ballet": "07/09/2025", "g-jazz": "07/09/2025"})

	result, err := f.pricer(t, "15/10/2025").PriceStudent("s1", tuition.HorizonToDate)
	require.NoError(t, err)

	assert.Equal(t, "520", result.Total.String())
}

func TestPriceStudent_SecondGroupMidSeason_ThreePeriods(t *testing.T) {
	// GIVEN: Ballet from 07/09, jazz added 12/11, today mid-December
	// THEN: P1 ballet alone Sep-Nov11: 180 + 2x180 = 540
	//       P2 jazz alone 12/11-30/11: 3 Wednesdays = full month 180
	//       P3 bundle December: 280
	//       Total 1000

	f := newFixture(t)
	f.addStudent(t, roster.Student{ID: "s1", Name: "Shira", Groups: []string{"Ballet", "Jazz"}},
		map[string]string{"g-ballet": "07/09/2025", "g-jazz": "12/11/2025"})

	result, err := f.pricer(t, "15/12/2025").PriceStudent("s1", tuition.HorizonToDate)
	require.NoError(t, err)

	require.Len(t, result.Periods, 3)
	assert.Equal(t, "540", result.Periods[0].Total.String())
	assert.Equal(t, "180", result.Periods[1].Total.String())
	assert.Equal(t, "280", result.Periods[2].Total.String())
	assert.Equal(t, "1000", result.Total.String())
}

func TestPriceStudent_BeforeSeasonStarts_OwesNothing(t *testing.T) {
	f := newFixture(t)
	f.addStudent(t, roster.Student{ID: "s1", Name: "Noa", Groups: []string{"Ballet"}},
		map[string]string{"g-ballet": "07/09/2025"})

	result, err := f.pricer(t, "15/08/2025").PriceStudent("s1", tuition.HorizonToDate)
	require.NoError(t, err)

	assert.Empty(t, result.Periods)
	assert.True(t, result.Total.IsZero())
}

// =============================================================================
// FULL-COURSE PRICING
// =============================================================================

func TestPriceStudent_FullCourse_HorizonIsLatestCourseEnd(t *testing.T) {
	// GIVEN: Ballet from the season start
	// THEN: Full course = Sep (180) + Oct..Jun (9 months x 180) = 1800

	f := newFixture(t)
	f.addStudent(t, roster.Student{ID: "s1", Name: "Noa", Groups: []string{"Ballet"}},
		map[string]string{"g-ballet": "07/09/2025"})

	result, err := f.pricer(t, "15/09/2025").PriceStudent("s1", tuition.HorizonFullCourse)
	require.NoError(t, err)

	assert.Equal(t, "30/06/2026", result.Horizon.String())
	assert.Equal(t, "1800", result.Total.String())
}

func TestPriceStudent_FullCourseNeverBelowToDate(t *testing.T) {
	// The to-date horizon is always <= the full-course horizon, so its
	// total can never exceed the full-course total.

	f := newFixture(t)
	f.addStudent(t, roster.Student{ID: "s1", Name: "Shira", Groups: []string{"Ballet", "Jazz"}},
		map[string]string{"g-ballet": "07/09/2025", "g-jazz": "12/11/2025"})

	p := f.pricer(t, "15/12/2025")
	toDate, err := p.PriceStudent("s1", tuition.HorizonToDate)
	require.NoError(t, err)
	full, err := p.PriceStudent("s1", tuition.HorizonFullCourse)
	require.NoError(t, err)

	assert.True(t, full.Total.GreaterThanOrEqual(toDate.Total),
		"full course %s < to date %s", full.Total, toDate.Total)
}

func TestPriceStudent_Deterministic(t *testing.T) {
	// Pricing the same student twice against one snapshot must agree.

	f := newFixture(t)
	f.addStudent(t, roster.Student{ID: "s1", Name: "Shira", Groups: []string{"Ballet", "Jazz"}},
		map[string]string{"g-ballet": "07/09/2025", "g-jazz": "12/11/2025"})

	p := f.pricer(t, "15/12/2025")
	first, err := p.PriceStudent("s1", tuition.HorizonToDate)
	require.NoError(t, err)
	second, err := p.PriceStudent("s1", tuition.HorizonToDate)
	require.NoError(t, err)

	assert.True(t, first.Total.Equal(second.Total))
	assert.Equal(t, len(first.Periods), len(second.Periods))
}

// =============================================================================
// DEGRADATION
// =============================================================================

func TestPriceStudent_UnknownStudent_Fails(t *testing.T) {
	f := newFixture(t)

	_, err := f.pricer(t, "15/09/2025").PriceStudent("nobody", tuition.HorizonToDate)
	require.Error(t, err)
	assert.True(t, tuition.IsNotFound(err))
	assert.Equal(t, tuition.KindNotFound, tuition.KindOf(err))
}

func TestPriceStudent_UnknownGroupName_DegradesWithWarning(t *testing.T) {
	// GIVEN: A student referencing one real and one phantom group
	// THEN: The phantom is dropped with a warning; the real one still prices

	f := newFixture(t)
	f.addStudent(t, roster.Student{ID: "s1", Name: "Noa", Groups: []string{"Ballet", "Tap"}},
		map[string]string{"g-ballet": "07/09/2025"})

	result, err := f.pricer(t, "15/09/2025").PriceStudent("s1", tuition.HorizonToDate)
	require.NoError(t, err)

	assert.Equal(t, "180", result.Total.String())
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "Tap")
}

func TestPriceStudent_MissingJoiningDate_DegradesWithWarning(t *testing.T) {
	// Enrolled in jazz but no joining date recorded: jazz drops, ballet
	// still prices.

	f := newFixture(t)
	f.addStudent(t, roster.Student{ID: "s1", Name: "Noa", Groups: []string{"Ballet", "Jazz"}},
		map[string]string{"g-ballet": "07/09/2025"})

	result, err := f.pricer(t, "15/09/2025").PriceStudent("s1", tuition.HorizonToDate)
	require.NoError(t, err)

	assert.Equal(t, "180", result.Total.String())
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "Jazz")
}

func TestPriceStudent_NoBillableEnrollments_ZeroWithWarnings(t *testing.T) {
	// Every enrollment degrades away: zero total, no horizon, warnings kept.

	f := newFixture(t)
	f.addStudent(t, roster.Student{ID: "s1", Name: "Noa", Groups: []string{"Tap"}}, nil)

	result, err := f.pricer(t, "15/09/2025").PriceStudent("s1", tuition.HorizonToDate)
	require.NoError(t, err)

	assert.True(t, result.Total.IsZero())
	assert.True(t, result.Horizon.IsZero())
	assert.Len(t, result.Warnings, 1)
}

func TestPriceStudent_ConfigWarningsEchoed(t *testing.T) {
	f := newFixture(t)
	f.addStudent(t, roster.Student{ID: "s1", Name: "Noa", Groups: []string{"Ballet"}},
		map[string]string{"g-ballet": "07/09/2025"})

	p := f.pricer(t, "15/09/2025")
	p.ConfigWarnings = []string{"pricing config missing 'two'; using default"}

	result, err := p.PriceStudent("s1", tuition.HorizonToDate)
	require.NoError(t, err)
	assert.Contains(t, result.Warnings, "pricing config missing 'two'; using default")
}

// =============================================================================
// HORIZON PARSING
// =============================================================================

func TestParseHorizonKind(t *testing.T) {
	for wire, want := range map[string]tuition.HorizonKind{
		"":            tuition.HorizonToDate,
		"to_date":     tuition.HorizonToDate,
		"full_course": tuition.HorizonFullCourse,
	} {
		got, err := tuition.ParseHorizonKind(wire)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := tuition.ParseHorizonKind("someday")
	assert.Error(t, err)
}
