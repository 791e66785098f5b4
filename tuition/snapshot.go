/*
snapshot.go - Store contract and per-query immutable snapshot

PURPOSE:
  The engine never touches files or a database directly. A Store supplies
  consistent read-only views of the three logical collections (groups,
  students, joining dates); LoadSnapshot freezes them into a Snapshot with
  lookup indexes, and every pricing query runs against that snapshot.

CONSISTENCY:
  The Store must return mutually consistent collections for one query. The
  engine holds no mutable state, so independent snapshots may be queried in
  parallel.

SEE ALSO:
  - store/jsonfile: the original groups.json/students.json/joining_dates.json
  - store/sqlite:   SQLite-backed store with admin writes
  - store/memory:   in-memory store for tests
*/
package tuition

import (
	"context"
	"time"

	"github.com/baila/tuition-engine/roster"
)

// =============================================================================
// STORE - Read contract the engine consumes
// =============================================================================

type Store interface {
	LoadGroups(ctx context.Context) ([]roster.Group, error)
	LoadStudents(ctx context.Context) ([]roster.Student, error)
	LoadJoiningDates(ctx context.Context) (map[roster.JoinKey]roster.Date, error)
}

// AdminStore extends Store with the school-administration writes. The
// pricing engine never writes; these exist for the API surface, and every
// write invalidates memoized pricing.
type AdminStore interface {
	Store

	SaveGroup(ctx context.Context, g roster.Group) error
	SaveStudent(ctx context.Context, s roster.Student) error
	SetJoiningDate(ctx context.Context, key roster.JoinKey, joined roster.Date) error
	AddPayment(ctx context.Context, id roster.StudentID, p roster.Payment) error
}

// =============================================================================
// CLOCK
// =============================================================================

// Clock supplies "today" as a civil date. Injected so pricing is a pure
// function of (snapshot, price table, today).
type Clock interface {
	Today() roster.Date
}

// SystemClock reads the wall clock.
type SystemClock struct{}

func (SystemClock) Today() roster.Date {
	now := time.Now()
	return roster.NewDate(now.Year(), now.Month(), now.Day())
}

// FixedClock always reports the same date. For tests and cache keys.
type FixedClock struct {
	Date roster.Date
}

func (c FixedClock) Today() roster.Date { return c.Date }

// =============================================================================
// SNAPSHOT - Immutable per-query view with indexes
// =============================================================================

type Snapshot struct {
	Groups       []roster.Group
	Students     []roster.Student
	JoiningDates map[roster.JoinKey]roster.Date

	groupsByID   map[roster.GroupID]int
	groupsByName map[string]int
	studentsByID map[roster.StudentID]int
}

// NewSnapshot indexes the three collections. The inputs must not be mutated
// afterwards.
func NewSnapshot(groups []roster.Group, students []roster.Student, joins map[roster.JoinKey]roster.Date) *Snapshot {
	s := &Snapshot{
		Groups:       groups,
		Students:     students,
		JoiningDates: joins,
		groupsByID:   make(map[roster.GroupID]int, len(groups)),
		groupsByName: make(map[string]int, len(groups)),
		studentsByID: make(map[roster.StudentID]int, len(students)),
	}
	for i, g := range groups {
		s.groupsByID[g.ID] = i
		s.groupsByName[g.Name] = i
	}
	for i, st := range students {
		s.studentsByID[st.ID] = i
	}
	return s
}

// LoadSnapshot reads all three collections from the store.
func LoadSnapshot(ctx context.Context, store Store) (*Snapshot, error) {
	groups, err := store.LoadGroups(ctx)
	if err != nil {
		return nil, err
	}
	students, err := store.LoadStudents(ctx)
	if err != nil {
		return nil, err
	}
	joins, err := store.LoadJoiningDates(ctx)
	if err != nil {
		return nil, err
	}
	return NewSnapshot(groups, students, joins), nil
}

func (s *Snapshot) GroupByID(id roster.GroupID) (roster.Group, bool) {
	i, ok := s.groupsByID[id]
	if !ok {
		return roster.Group{}, false
	}
	return s.Groups[i], true
}

func (s *Snapshot) GroupByName(name string) (roster.Group, bool) {
	i, ok := s.groupsByName[name]
	if !ok {
		return roster.Group{}, false
	}
	return s.Groups[i], true
}

func (s *Snapshot) StudentByID(id roster.StudentID) (roster.Student, bool) {
	i, ok := s.studentsByID[id]
	if !ok {
		return roster.Student{}, false
	}
	return s.Students[i], true
}

// JoinDate returns the joining date for one (group, student) pair.
func (s *Snapshot) JoinDate(groupID roster.GroupID, studentID roster.StudentID) (roster.Date, bool) {
	d, ok := s.JoiningDates[roster.JoinKey{GroupID: groupID, StudentID: studentID}]
	return d, ok
}
