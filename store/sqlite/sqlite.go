/*
Package sqlite provides a SQLite-backed store for the school's data.

PURPOSE:
  Implements tuition.AdminStore on SQLite. The JSON files the application
  grew up with work fine for a single desktop; this store exists for
  installs that want transactional writes and a single data file.

KEY TABLES:
  groups          one row per weekly class
  students        one row per student
  student_groups  enrollment (student -> group name, matching the JSON shape)
  payments        recorded payments, append-only in practice
  joining_dates   (group_id, student_id) -> join date

DEGRADATION:
  Reads apply the same row-level degradation as the JSON store: an invalid
  weekday keeps the group with no schedule, a garbage payment amount
  contributes 0, a malformed joining date drops that record.

WAL MODE:
  Opened with WAL so reads don't block while an admin write is in flight.

USAGE:
  store, err := sqlite.New("./school.db")
  if err != nil { log.Fatal(err) }
  defer store.Close()
  snap, err := tuition.LoadSnapshot(ctx, store)
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/baila/tuition-engine/roster"
	"github.com/baila/tuition-engine/tuition"
)

// Store implements tuition.AdminStore using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

var _ tuition.AdminStore = (*Store)(nil)

// New creates a SQLite store at the given path. Use ":memory:" for an
// in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS groups (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		day_of_week INTEGER NOT NULL DEFAULT -1,
		monthly_price INTEGER NOT NULL DEFAULT 0,
		course_start TEXT,
		course_end TEXT,
		phone TEXT,
		location TEXT,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS students (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		has_sibling BOOLEAN NOT NULL DEFAULT FALSE,
		phone TEXT,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS student_groups (
		student_id TEXT NOT NULL,
		group_name TEXT NOT NULL,
		position INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (student_id, group_name)
	);

	CREATE INDEX IF NOT EXISTS idx_student_groups_student
		ON student_groups(student_id);

	CREATE TABLE IF NOT EXISTS payments (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		student_id TEXT NOT NULL,
		amount TEXT NOT NULL,
		paid_on TEXT,
		method TEXT,
		check_number TEXT,
		note TEXT,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_payments_student
		ON payments(student_id);

	CREATE TABLE IF NOT EXISTS joining_dates (
		group_id TEXT NOT NULL,
		student_id TEXT NOT NULL,
		join_date TEXT NOT NULL,
		PRIMARY KEY (group_id, student_id)
	);

	CREATE INDEX IF NOT EXISTS idx_joining_dates_student
		ON joining_dates(student_id);
	`
	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// READS
// =============================================================================

func (s *Store) LoadGroups(ctx context.Context) ([]roster.Group, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, day_of_week, monthly_price,
		       COALESCE(course_start, ''), COALESCE(course_end, ''),
		       COALESCE(phone, ''), COALESCE(location, '')
		FROM groups ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var groups []roster.Group
	for rows.Next() {
		var (
			g          roster.Group
			weekday    int
			start, end string
		)
		if err := rows.Scan(&g.ID, &g.Name, &weekday, &g.MonthlyPrice, &start, &end, &g.Phone, &g.Location); err != nil {
			return nil, err
		}
		g.Weekday = roster.Weekday(weekday)
		if !g.Weekday.Valid() {
			g.Weekday = roster.WeekdayInvalid
		}
		g.CourseStart, _ = roster.ParseDate(start)
		g.CourseEnd, _ = roster.ParseDate(end)
		groups = append(groups, g)
	}
	return groups, rows.Err()
}

func (s *Store) LoadStudents(ctx context.Context) ([]roster.Student, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, has_sibling, COALESCE(phone, '')
		FROM students ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var students []roster.Student
	for rows.Next() {
		var st roster.Student
		if err := rows.Scan(&st.ID, &st.Name, &st.HasSibling, &st.Phone); err != nil {
			return nil, err
		}
		students = append(students, st)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range students {
		groups, err := s.loadEnrollments(ctx, students[i].ID)
		if err != nil {
			return nil, err
		}
		students[i].Groups = groups

		payments, err := s.loadPayments(ctx, students[i].ID)
		if err != nil {
			return nil, err
		}
		students[i].Payments = payments
	}
	return students, nil
}

func (s *Store) loadEnrollments(ctx context.Context, id roster.StudentID) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT group_name FROM student_groups
		WHERE student_id = ? ORDER BY position, group_name`, string(id))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func (s *Store) loadPayments(ctx context.Context, id roster.StudentID) ([]roster.Payment, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT amount, COALESCE(paid_on, ''), COALESCE(method, ''),
		       COALESCE(check_number, ''), COALESCE(note, '')
		FROM payments WHERE student_id = ? ORDER BY id`, string(id))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []roster.Payment
	for rows.Next() {
		var (
			p            roster.Payment
			amount, date string
			method       string
		)
		if err := rows.Scan(&amount, &date, &method, &p.CheckNumber, &p.Note); err != nil {
			return nil, err
		}
		p.Amount = roster.ParseAmount(amount)
		p.Date, _ = roster.ParseDate(date)
		p.Method = roster.ParsePaymentMethod(method)
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

func (s *Store) LoadJoiningDates(ctx context.Context) (map[roster.JoinKey]roster.Date, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `SELECT group_id, student_id, join_date FROM joining_dates`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	joins := make(map[roster.JoinKey]roster.Date)
	for rows.Next() {
		var groupID, studentID, raw string
		if err := rows.Scan(&groupID, &studentID, &raw); err != nil {
			return nil, err
		}
		joined, err := roster.ParseDate(raw)
		if err != nil {
			continue
		}
		joins[roster.JoinKey{GroupID: roster.GroupID(groupID), StudentID: roster.StudentID(studentID)}] = joined
	}
	return joins, rows.Err()
}

// =============================================================================
// WRITES
// =============================================================================

func (s *Store) SaveGroup(ctx context.Context, g roster.Group) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO groups (id, name, day_of_week, monthly_price, course_start, course_end, phone, location, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			day_of_week = excluded.day_of_week,
			monthly_price = excluded.monthly_price,
			course_start = excluded.course_start,
			course_end = excluded.course_end,
			phone = excluded.phone,
			location = excluded.location`,
		string(g.ID), g.Name, int(g.Weekday), g.MonthlyPrice,
		dateOrEmpty(g.CourseStart), dateOrEmpty(g.CourseEnd),
		g.Phone, g.Location, nowRFC3339())
	return err
}

// SaveStudent upserts the student row and rewrites enrollment. Payments are
// replayed only for a brand-new student; existing students take payments
// through AddPayment so the history stays append-only.
func (s *Store) SaveStudent(ctx context.Context, st roster.Student) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var existing int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(1) FROM students WHERE id = ?`, string(st.ID)).Scan(&existing); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO students (id, name, has_sibling, phone, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			has_sibling = excluded.has_sibling,
			phone = excluded.phone`,
		string(st.ID), st.Name, st.HasSibling, st.Phone, nowRFC3339()); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM student_groups WHERE student_id = ?`, string(st.ID)); err != nil {
		return err
	}
	for i, name := range st.Groups {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO student_groups (student_id, group_name, position) VALUES (?, ?, ?)`,
			string(st.ID), name, i); err != nil {
			return err
		}
	}

	if existing == 0 {
		for _, p := range st.Payments {
			if err := insertPayment(ctx, tx, st.ID, p); err != nil {
				return err
			}
		}
	}
	return tx.Commit()
}

func (s *Store) SetJoiningDate(ctx context.Context, key roster.JoinKey, joined roster.Date) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO joining_dates (group_id, student_id, join_date)
		VALUES (?, ?, ?)
		ON CONFLICT(group_id, student_id) DO UPDATE SET join_date = excluded.join_date`,
		string(key.GroupID), string(key.StudentID), joined.String())
	return err
}

func (s *Store) AddPayment(ctx context.Context, id roster.StudentID, p roster.Payment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var exists int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM students WHERE id = ?`, string(id)).Scan(&exists)
	if err != nil {
		return err
	}
	if exists == 0 {
		return &tuition.NotFoundError{Entity: "student", ID: string(id)}
	}
	return insertPayment(ctx, s.db, id, p)
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func insertPayment(ctx context.Context, db execer, id roster.StudentID, p roster.Payment) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO payments (student_id, amount, paid_on, method, check_number, note, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		string(id), p.Amount.String(), dateOrEmpty(p.Date), string(p.Method),
		p.CheckNumber, p.Note, nowRFC3339())
	return err
}

func dateOrEmpty(d roster.Date) string {
	if d.IsZero() {
		return ""
	}
	return d.String()
}

func nowRFC3339() string {
	return time.Now().UTC().Format(time.RFC3339)
}
