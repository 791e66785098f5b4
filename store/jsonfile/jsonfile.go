/*
Package jsonfile reads and writes the school's original JSON data files.

LAYOUT (all dates dd/mm/yyyy):
  groups.json         {"groups": [{"id", "name", "day_of_week", "price",
                        "group_start_date", "group_end_date", ...}]}
  students.json       {"students": [{"id", "name", "groups" | legacy "group",
                        "has_sister", "payments": [...]}]}
  joining_dates.json  {group_id: [{"student_id", "student_name", "join_date"}]}

DEGRADATION:
  Row-level junk never fails a load: an unknown weekday keeps the group with
  no schedule, an unparseable joining date drops that one record, a garbage
  payment amount contributes 0. Only unreadable files error out.

WRITES:
  Admin writes rewrite the whole file through a temp-file rename, matching
  how the original application persisted.
*/
package jsonfile

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/baila/tuition-engine/roster"
	"github.com/baila/tuition-engine/tuition"
)

const (
	groupsFile   = "groups.json"
	studentsFile = "students.json"
	joiningFile  = "joining_dates.json"
)

// Store reads/writes the three JSON collections under one directory.
type Store struct {
	mu  sync.RWMutex
	dir string
}

var _ tuition.AdminStore = (*Store)(nil)

func New(dir string) *Store {
	return &Store{dir: dir}
}

// =============================================================================
// WIRE TYPES
// =============================================================================

type groupsDoc struct {
	Groups []groupJSON `json:"groups"`
}

type groupJSON struct {
	ID        json.RawMessage `json:"id"` // historically string or number
	Name      string          `json:"name"`
	DayOfWeek string          `json:"day_of_week"`
	Price     int64           `json:"price"`
	StartDate string          `json:"group_start_date"`
	EndDate   string          `json:"group_end_date"`
	Phone     string          `json:"phone,omitempty"`
	Location  string          `json:"location,omitempty"`
}

type studentsDoc struct {
	Students []studentJSON `json:"students"`
}

type studentJSON struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Groups      []string      `json:"groups,omitempty"`
	LegacyGroup string        `json:"group,omitempty"` // pre-multi-enrollment records
	HasSister   bool          `json:"has_sister"`
	Payments    []paymentJSON `json:"payments"`
	Phone       string        `json:"phone,omitempty"`
}

type paymentJSON struct {
	Amount      json.RawMessage `json:"amount"` // string or number
	Date        string          `json:"date"`
	Method      string          `json:"payment_method"`
	CheckNumber string          `json:"check_number,omitempty"`
	Note        string          `json:"note,omitempty"`
}

type joinJSON struct {
	StudentID   string `json:"student_id"`
	StudentName string `json:"student_name"`
	JoinDate    string `json:"join_date"`
}

// =============================================================================
// READS
// =============================================================================

func (s *Store) LoadGroups(_ context.Context) ([]roster.Group, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var doc groupsDoc
	if err := s.readFile(groupsFile, &doc); err != nil {
		return nil, err
	}

	groups := make([]roster.Group, 0, len(doc.Groups))
	for _, gj := range doc.Groups {
		groups = append(groups, decodeGroup(gj))
	}
	return groups, nil
}

func (s *Store) LoadStudents(_ context.Context) ([]roster.Student, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var doc studentsDoc
	if err := s.readFile(studentsFile, &doc); err != nil {
		return nil, err
	}

	students := make([]roster.Student, 0, len(doc.Students))
	for _, sj := range doc.Students {
		students = append(students, decodeStudent(sj))
	}
	return students, nil
}

func (s *Store) LoadJoiningDates(_ context.Context) (map[roster.JoinKey]roster.Date, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadJoiningLocked()
}

func (s *Store) loadJoiningLocked() (map[roster.JoinKey]roster.Date, error) {
	var doc map[string][]joinJSON
	if err := s.readFile(joiningFile, &doc); err != nil {
		return nil, err
	}

	joins := make(map[roster.JoinKey]roster.Date)
	for groupID, records := range doc {
		for _, r := range records {
			joined, err := roster.ParseDate(r.JoinDate)
			if err != nil {
				continue // one bad record must not poison the collection
			}
			key := roster.JoinKey{
				GroupID:   roster.GroupID(groupID),
				StudentID: roster.StudentID(r.StudentID),
			}
			joins[key] = joined
		}
	}
	return joins, nil
}

// =============================================================================
// WRITES
// =============================================================================

func (s *Store) SaveGroup(_ context.Context, g roster.Group) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var doc groupsDoc
	if err := s.readFile(groupsFile, &doc); err != nil {
		return err
	}

	gj := encodeGroup(g)
	replaced := false
	for i, existing := range doc.Groups {
		if idString(existing.ID) == string(g.ID) {
			doc.Groups[i] = gj
			replaced = true
			break
		}
	}
	if !replaced {
		doc.Groups = append(doc.Groups, gj)
	}
	return s.writeFile(groupsFile, doc)
}

func (s *Store) SaveStudent(_ context.Context, st roster.Student) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var doc studentsDoc
	if err := s.readFile(studentsFile, &doc); err != nil {
		return err
	}

	sj := encodeStudent(st)
	replaced := false
	for i, existing := range doc.Students {
		if existing.ID == string(st.ID) {
			doc.Students[i] = sj
			replaced = true
			break
		}
	}
	if !replaced {
		doc.Students = append(doc.Students, sj)
	}
	return s.writeFile(studentsFile, doc)
}

func (s *Store) SetJoiningDate(_ context.Context, key roster.JoinKey, joined roster.Date) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var doc map[string][]joinJSON
	if err := s.readFile(joiningFile, &doc); err != nil {
		return err
	}
	if doc == nil {
		doc = make(map[string][]joinJSON)
	}

	records := doc[string(key.GroupID)]
	updated := false
	for i, r := range records {
		if r.StudentID == string(key.StudentID) {
			records[i].JoinDate = joined.String()
			updated = true
			break
		}
	}
	if !updated {
		records = append(records, joinJSON{
			StudentID: string(key.StudentID),
			JoinDate:  joined.String(),
		})
	}
	doc[string(key.GroupID)] = records
	return s.writeFile(joiningFile, doc)
}

func (s *Store) AddPayment(_ context.Context, id roster.StudentID, p roster.Payment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var doc studentsDoc
	if err := s.readFile(studentsFile, &doc); err != nil {
		return err
	}

	for i, sj := range doc.Students {
		if sj.ID == string(id) {
			doc.Students[i].Payments = append(doc.Students[i].Payments, encodePayment(p))
			return s.writeFile(studentsFile, doc)
		}
	}
	return &tuition.NotFoundError{Entity: "student", ID: string(id)}
}

// =============================================================================
// DECODE / ENCODE
// =============================================================================

func decodeGroup(gj groupJSON) roster.Group {
	weekday, err := roster.ParseWeekday(gj.DayOfWeek)
	if err != nil {
		weekday = roster.WeekdayInvalid // group survives with no schedule
	}
	start, _ := roster.ParseDate(gj.StartDate)
	end, _ := roster.ParseDate(gj.EndDate)

	return roster.Group{
		ID:           roster.GroupID(idString(gj.ID)),
		Name:         gj.Name,
		Weekday:      weekday,
		MonthlyPrice: gj.Price,
		CourseStart:  start,
		CourseEnd:    end,
		Phone:        gj.Phone,
		Location:     gj.Location,
	}
}

func decodeStudent(sj studentJSON) roster.Student {
	groups := sj.Groups
	if len(groups) == 0 && sj.LegacyGroup != "" {
		groups = []string{sj.LegacyGroup}
	}

	payments := make([]roster.Payment, 0, len(sj.Payments))
	for _, pj := range sj.Payments {
		date, _ := roster.ParseDate(pj.Date) // advisory; zero when malformed
		payments = append(payments, roster.Payment{
			Amount:      roster.ParseAmount(rawString(pj.Amount)),
			Date:        date,
			Method:      roster.ParsePaymentMethod(pj.Method),
			CheckNumber: pj.CheckNumber,
			Note:        pj.Note,
		})
	}

	return roster.Student{
		ID:         roster.StudentID(sj.ID),
		Name:       sj.Name,
		Groups:     groups,
		HasSibling: sj.HasSister,
		Payments:   payments,
		Phone:      sj.Phone,
	}
}

func encodeGroup(g roster.Group) groupJSON {
	id, _ := json.Marshal(string(g.ID))
	return groupJSON{
		ID:        id,
		Name:      g.Name,
		DayOfWeek: g.Weekday.DisplayHe(),
		Price:     g.MonthlyPrice,
		StartDate: dateOrEmpty(g.CourseStart),
		EndDate:   dateOrEmpty(g.CourseEnd),
		Phone:     g.Phone,
		Location:  g.Location,
	}
}

func encodeStudent(st roster.Student) studentJSON {
	payments := make([]paymentJSON, 0, len(st.Payments))
	for _, p := range st.Payments {
		payments = append(payments, encodePayment(p))
	}
	return studentJSON{
		ID:        string(st.ID),
		Name:      st.Name,
		Groups:    st.Groups,
		HasSister: st.HasSibling,
		Payments:  payments,
		Phone:     st.Phone,
	}
}

func encodePayment(p roster.Payment) paymentJSON {
	amount, _ := json.Marshal(p.Amount.String())
	return paymentJSON{
		Amount:      amount,
		Date:        dateOrEmpty(p.Date),
		Method:      string(p.Method),
		CheckNumber: p.CheckNumber,
		Note:        p.Note,
	}
}

// dateOrEmpty keeps unset dates out of the files.
func dateOrEmpty(d roster.Date) string {
	if d.IsZero() {
		return ""
	}
	return d.String()
}

// idString normalizes the historically loose id field (string or number).
func idString(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return strings.TrimSpace(string(raw))
}

// rawString yields the textual content of a string-or-number field.
func rawString(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}

// =============================================================================
// FILE I/O
// =============================================================================

// readFile decodes one collection; a missing file is an empty collection.
func (s *Store) readFile(name string, v any) error {
	raw, err := os.ReadFile(filepath.Join(s.dir, name))
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("parse %s: %w", name, err)
	}
	return nil
}

func (s *Store) writeFile(name string, v any) error {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	path := filepath.Join(s.dir, name)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
