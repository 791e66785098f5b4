package jsonfile_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baila/tuition-engine/roster"
	"github.com/baila/tuition-engine/store/jsonfile"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func newTestStore(t *testing.T, files map[string]string) *jsonfile.Store {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	return jsonfile.New(dir)
}

// =============================================================================
// LEGACY FORMAT READS
// =============================================================================

func TestLoadGroups_HebrewWeekdaysAndNumberIDs(t *testing.T) {
	// GIVEN: groups.json as the original app wrote it: Hebrew day names,
	//        ids sometimes numeric
	// THEN: Both rows load; the numeric id is normalized to its string form

	store := newTestStore(t, map[string]string{
		"groups.json": `{"groups": [
			{"id": "g1", "name": "בלט", "day_of_week": "ראשון", "price": 180,
			 "group_start_date": "07/09/2025", "group_end_date": "30/06/2026"},
			{"id": 7, "name": "ג'אז", "day_of_week": "רביעי", "price": 180,
			 "group_start_date": "03/09/2025", "group_end_date": "30/06/2026"}
		]}`,
	})

	groups, err := store.LoadGroups(context.Background())
	require.NoError(t, err)
	require.Len(t, groups, 2)

	assert.Equal(t, roster.GroupID("g1"), groups[0].ID)
	assert.Equal(t, roster.Sunday, groups[0].Weekday)
	assert.Equal(t, "07/09/2025", groups[0].CourseStart.String())

	assert.Equal(t, roster.GroupID("7"), groups[1].ID)
	assert.Equal(t, roster.Wednesday, groups[1].Weekday)
}

func TestLoadGroups_BadWeekdayDegradesRow(t *testing.T) {
	// An unrecognized day keeps the group with no schedule instead of
	// failing the load.
	store := newTestStore(t, map[string]string{
		"groups.json": `{"groups": [{"id": "g1", "name": "Ballet", "day_of_week": "Sunday", "price": 180}]}`,
	})

	groups, err := store.LoadGroups(context.Background())
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, roster.WeekdayInvalid, groups[0].Weekday)
	assert.True(t, groups[0].CourseStart.IsZero())
}

func TestLoadStudents_LegacySingleGroupField(t *testing.T) {
	// GIVEN: A pre-multi-enrollment record carrying "group" instead of
	//        "groups"
	// THEN: It is coerced into a one-element groups list

	store := newTestStore(t, map[string]string{
		"students.json": `{"students": [
			{"id": "s1", "name": "Noa", "group": "Ballet", "has_sister": false, "payments": []},
			{"id": "s2", "name": "Shira", "groups": ["Ballet", "Jazz"], "has_sister": true, "payments": []}
		]}`,
	})

	students, err := store.LoadStudents(context.Background())
	require.NoError(t, err)
	require.Len(t, students, 2)
	assert.Equal(t, []string{"Ballet"}, students[0].Groups)
	assert.Equal(t, []string{"Ballet", "Jazz"}, students[1].Groups)
	assert.True(t, students[1].HasSibling)
}

func TestLoadStudents_PaymentAmountVariants(t *testing.T) {
	// Amounts arrive as numbers, plain strings, comma-decimal strings, and
	// garbage. Garbage and negatives contribute zero.
	store := newTestStore(t, map[string]string{
		"students.json": `{"students": [{"id": "s1", "name": "Noa", "groups": ["Ballet"], "payments": [
			{"amount": 180, "payment_method": "מזומן", "date": "07/09/2025"},
			{"amount": "90.5", "payment_method": "bit", "date": "01/10/2025"},
			{"amount": "1,23", "payment_method": "צ'ק", "date": "not a date"},
			{"amount": "oops", "payment_method": "cash"},
			{"amount": -40, "payment_method": "cash"}
		]}]}`,
	})

	students, err := store.LoadStudents(context.Background())
	require.NoError(t, err)
	require.Len(t, students, 1)
	payments := students[0].Payments
	require.Len(t, payments, 5)

	assert.Equal(t, "180", payments[0].Amount.String())
	assert.Equal(t, roster.MethodCash, payments[0].Method)
	assert.Equal(t, "90.5", payments[1].Amount.String())
	assert.Equal(t, "1.23", payments[2].Amount.String())
	assert.True(t, payments[2].Date.IsZero(), "malformed date is advisory, the row survives")
	assert.True(t, payments[3].Amount.IsZero())
	assert.True(t, payments[4].Amount.IsZero())
}

func TestLoadJoiningDates_SkipsUnparseableRecords(t *testing.T) {
	store := newTestStore(t, map[string]string{
		"joining_dates.json": `{
			"g1": [
				{"student_id": "s1", "student_name": "Noa", "join_date": "07/09/2025"},
				{"student_id": "s2", "student_name": "Shira", "join_date": "September 7th"}
			]
		}`,
	})

	joins, err := store.LoadJoiningDates(context.Background())
	require.NoError(t, err)
	require.Len(t, joins, 1)

	key := roster.JoinKey{GroupID: "g1", StudentID: "s1"}
	assert.Equal(t, "07/09/2025", joins[key].String())
}

func TestLoad_MissingFilesAreEmptyCollections(t *testing.T) {
	store := jsonfile.New(t.TempDir())
	ctx := context.Background()

	groups, err := store.LoadGroups(ctx)
	require.NoError(t, err)
	assert.Empty(t, groups)

	students, err := store.LoadStudents(ctx)
	require.NoError(t, err)
	assert.Empty(t, students)

	joins, err := store.LoadJoiningDates(ctx)
	require.NoError(t, err)
	assert.Empty(t, joins)
}

// =============================================================================
// WRITES
// =============================================================================

func TestSaveGroup_RoundTrip(t *testing.T) {
	store := jsonfile.New(t.TempDir())
	ctx := context.Background()

	g := roster.Group{
		ID: "g1", Name: "Ballet", Weekday: roster.Sunday, MonthlyPrice: 180,
		CourseStart: roster.NewDate(2025, 9, 7), CourseEnd: roster.NewDate(2026, 6, 30),
		Location: "Studio A",
	}
	require.NoError(t, store.SaveGroup(ctx, g))

	groups, err := store.LoadGroups(ctx)
	require.NoError(t, err)
	require.Len(t, groups, 1)
	got := groups[0]
	assert.Equal(t, g.ID, got.ID)
	assert.Equal(t, g.Name, got.Name)
	assert.Equal(t, roster.Sunday, got.Weekday)
	assert.Equal(t, int64(180), got.MonthlyPrice)
	assert.True(t, got.CourseStart.Equal(g.CourseStart))
	assert.True(t, got.CourseEnd.Equal(g.CourseEnd))
	assert.Equal(t, "Studio A", got.Location)

	// Saving again with the same id replaces, not duplicates.
	g.MonthlyPrice = 200
	require.NoError(t, store.SaveGroup(ctx, g))
	groups, err = store.LoadGroups(ctx)
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, int64(200), groups[0].MonthlyPrice)
}

func TestSaveStudent_AndAddPayment(t *testing.T) {
	store := jsonfile.New(t.TempDir())
	ctx := context.Background()

	st := roster.Student{ID: "s1", Name: "Noa", Groups: []string{"Ballet"}}
	require.NoError(t, store.SaveStudent(ctx, st))

	p := roster.Payment{
		Amount: decimal.NewFromInt(180),
		Date:   roster.NewDate(2025, 9, 7),
		Method: roster.MethodCash,
	}
	require.NoError(t, store.AddPayment(ctx, "s1", p))

	students, err := store.LoadStudents(ctx)
	require.NoError(t, err)
	require.Len(t, students, 1)
	require.Len(t, students[0].Payments, 1)
	assert.Equal(t, "180", students[0].Payments[0].Amount.String())
	assert.Equal(t, "07/09/2025", students[0].Payments[0].Date.String())
}

func TestAddPayment_UnknownStudent(t *testing.T) {
	store := jsonfile.New(t.TempDir())
	err := store.AddPayment(context.Background(), "nobody", roster.Payment{Amount: decimal.NewFromInt(1)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nobody")
}

func TestSetJoiningDate_UpsertsPerStudent(t *testing.T) {
	store := jsonfile.New(t.TempDir())
	ctx := context.Background()

	key := roster.JoinKey{GroupID: "g1", StudentID: "s1"}
	require.NoError(t, store.SetJoiningDate(ctx, key, roster.NewDate(2025, 9, 7)))
	require.NoError(t, store.SetJoiningDate(ctx, key, roster.NewDate(2025, 9, 21)))

	other := roster.JoinKey{GroupID: "g1", StudentID: "s2"}
	require.NoError(t, store.SetJoiningDate(ctx, other, roster.NewDate(2025, 10, 1)))

	joins, err := store.LoadJoiningDates(ctx)
	require.NoError(t, err)
	require.Len(t, joins, 2)
	assert.Equal(t, "21/09/2025", joins[key].String())
	assert.Equal(t, "01/10/2025", joins[other].String())
}
