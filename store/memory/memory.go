// Package memory provides an in-memory store for tests and dev runs.
package memory

import (
	"context"
	"sync"

	"github.com/baila/tuition-engine/roster"
	"github.com/baila/tuition-engine/tuition"
)

// Store keeps the three collections in memory behind a lock. Reads hand out
// copies so snapshots stay immutable while writes continue.
type Store struct {
	mu       sync.RWMutex
	groups   []roster.Group
	students []roster.Student
	joins    map[roster.JoinKey]roster.Date
}

var _ tuition.AdminStore = (*Store)(nil)

func New() *Store {
	return &Store{joins: make(map[roster.JoinKey]roster.Date)}
}

func (m *Store) LoadGroups(_ context.Context) ([]roster.Group, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]roster.Group, len(m.groups))
	copy(out, m.groups)
	return out, nil
}

func (m *Store) LoadStudents(_ context.Context) ([]roster.Student, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]roster.Student, len(m.students))
	for i, s := range m.students {
		out[i] = copyStudent(s)
	}
	return out, nil
}

func (m *Store) LoadJoiningDates(_ context.Context) (map[roster.JoinKey]roster.Date, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[roster.JoinKey]roster.Date, len(m.joins))
	for k, v := range m.joins {
		out[k] = v
	}
	return out, nil
}

// SaveGroup inserts or replaces by id.
func (m *Store) SaveGroup(_ context.Context, g roster.Group) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, existing := range m.groups {
		if existing.ID == g.ID {
			m.groups[i] = g
			return nil
		}
	}
	m.groups = append(m.groups, g)
	return nil
}

// SaveStudent inserts or replaces by id.
func (m *Store) SaveStudent(_ context.Context, s roster.Student) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, existing := range m.students {
		if existing.ID == s.ID {
			m.students[i] = copyStudent(s)
			return nil
		}
	}
	m.students = append(m.students, copyStudent(s))
	return nil
}

func (m *Store) SetJoiningDate(_ context.Context, key roster.JoinKey, joined roster.Date) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.joins[key] = joined
	return nil
}

func (m *Store) AddPayment(_ context.Context, id roster.StudentID, p roster.Payment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.students {
		if m.students[i].ID == id {
			m.students[i].Payments = append(m.students[i].Payments, p)
			return nil
		}
	}
	return &tuition.NotFoundError{Entity: "student", ID: string(id)}
}

func copyStudent(s roster.Student) roster.Student {
	out := s
	out.Groups = append([]string(nil), s.Groups...)
	out.Payments = append([]roster.Payment(nil), s.Payments...)
	return out
}
