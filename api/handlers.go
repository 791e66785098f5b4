/*
handlers.go - HTTP API handlers for the tuition pricing engine

PURPOSE:
  Exposes the pricing and debt-status engine via REST API. Handles HTTP
  request/response, JSON serialization, and delegates to domain logic.

ENDPOINTS:
  Students:
    GET    /api/students                 List students with derived status
    POST   /api/students                 Create/replace a student
    GET    /api/students/{id}            Get one student record
    GET    /api/students/{id}/pricing    Pricing breakdown (?horizon=)
    GET    /api/students/{id}/status     Debt-status classification
    POST   /api/students/{id}/payments   Record a payment

  Groups:
    GET    /api/groups                   List groups
    POST   /api/groups                   Create/replace a group
    GET    /api/groups/{id}/meetings     Meeting count (?from=&to=)

  Joining dates:
    POST   /api/joining-dates            Set a (group, student) joining date

  Config:
    GET    /api/pricing-table            Active price table + load warnings

  Scenarios:
    GET    /api/scenarios                List demo scenarios
    POST   /api/scenarios/load           Seed the store from a scenario

CACHING:
  Handler keeps one PricerCache built over a store snapshot. Every write
  handler calls invalidate(), so the next read rebuilds the snapshot; reads
  within one snapshot generation are memoized.

ERROR HANDLING:
  Errors are returned as {success:false, error_kind, message} with status:
  - 400: malformed input (dates, weekdays, amounts, horizon kinds)
  - 404: unknown student or group id
  - 500: store I/O and everything else

SEE ALSO:
  - dto.go: Request/response data structures
  - scenarios.go: Demo scenario seeders
  - server.go: Router setup and middleware
*/
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/baila/tuition-engine/roster"
	"github.com/baila/tuition-engine/tuition"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store  tuition.AdminStore
	Prices tuition.PriceTable
	Clock  tuition.Clock

	// PriceWarnings come from config loading (missing file, absurd values)
	// and are echoed on the pricing-table endpoint and into every result.
	PriceWarnings []string

	mu    sync.Mutex
	cache *tuition.PricerCache

	// Track currently loaded scenario
	currentScenario string
}

// NewHandler creates a new handler over the given store.
func NewHandler(store tuition.AdminStore, prices tuition.PriceTable, warnings []string) *Handler {
	return &Handler{
		Store:         store,
		Prices:        prices,
		Clock:         tuition.SystemClock{},
		PriceWarnings: warnings,
	}
}

// pricer returns the memoizing cache, building a fresh snapshot if a write
// invalidated the previous one.
func (h *Handler) pricer(ctx context.Context) (*tuition.PricerCache, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.cache != nil {
		return h.cache, nil
	}
	snapshot, err := tuition.LoadSnapshot(ctx, h.Store)
	if err != nil {
		return nil, err
	}
	h.cache = tuition.NewPricerCache(&tuition.StudentPricer{
		Snapshot:       snapshot,
		Prices:         h.Prices,
		Clock:          h.Clock,
		ConfigWarnings: h.PriceWarnings,
	})
	return h.cache, nil
}

// invalidate drops the memoized snapshot. Called after every write.
func (h *Handler) invalidate() {
	h.mu.Lock()
	h.cache = nil
	h.mu.Unlock()
}

// =============================================================================
// STUDENT HANDLERS
// =============================================================================

// ListStudents returns every student together with the derived debt status.
func (h *Handler) ListStudents(w http.ResponseWriter, r *http.Request) {
	cache, err := h.pricer(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, tuition.KindInternal, "failed to load roster")
		return
	}

	students := cache.Pricer().Snapshot.Students
	rows := make([]StudentRowDTO, 0, len(students))
	for _, s := range students {
		class, err := cache.Classify(s.ID)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		rows = append(rows, StudentRowDTO{
			Student: toStudentDTO(s),
			Status:  toClassificationDTO(class),
		})
	}

	writeJSON(w, http.StatusOK, rows)
}

// GetStudent returns a single student record.
func (h *Handler) GetStudent(w http.ResponseWriter, r *http.Request) {
	cache, err := h.pricer(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, tuition.KindInternal, "failed to load roster")
		return
	}

	id := roster.StudentID(chi.URLParam(r, "id"))
	student, ok := cache.Pricer().Snapshot.StudentByID(id)
	if !ok {
		writeDomainError(w, &tuition.NotFoundError{Entity: "student", ID: string(id)})
		return
	}

	writeJSON(w, http.StatusOK, toStudentDTO(student))
}

// CreateStudent creates (or replaces, by id) a student record.
func (h *Handler) CreateStudent(w http.ResponseWriter, r *http.Request) {
	var req CreateStudentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, tuition.KindMalformedInput, "invalid request body")
		return
	}
	if req.ID == "" || req.Name == "" {
		writeError(w, http.StatusBadRequest, tuition.KindMalformedInput, "id and name are required")
		return
	}

	student := roster.Student{
		ID:         roster.StudentID(req.ID),
		Name:       req.Name,
		Groups:     req.Groups,
		HasSibling: req.HasSister,
		Phone:      req.Phone,
	}
	if err := h.Store.SaveStudent(r.Context(), student); err != nil {
		writeDomainError(w, err)
		return
	}
	h.invalidate()

	writeJSON(w, http.StatusCreated, toStudentDTO(student))
}

// GetStudentPricing returns the totals-plus-breakdown for one student.
// Query param horizon selects to_date (default) or full_course.
func (h *Handler) GetStudentPricing(w http.ResponseWriter, r *http.Request) {
	kind, err := tuition.ParseHorizonKind(r.URL.Query().Get("horizon"))
	if err != nil {
		writeError(w, http.StatusBadRequest, tuition.KindMalformedInput, err.Error())
		return
	}

	cache, err := h.pricer(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, tuition.KindInternal, "failed to load roster")
		return
	}

	result, err := cache.PriceStudent(roster.StudentID(chi.URLParam(r, "id")), kind)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toPricingResultDTO(result))
}

// GetStudentStatus returns the debt-status classification for one student.
func (h *Handler) GetStudentStatus(w http.ResponseWriter, r *http.Request) {
	cache, err := h.pricer(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, tuition.KindInternal, "failed to load roster")
		return
	}

	class, err := cache.Classify(roster.StudentID(chi.URLParam(r, "id")))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toClassificationDTO(class))
}

// RecordPayment appends a payment to a student's record.
func (h *Handler) RecordPayment(w http.ResponseWriter, r *http.Request) {
	var req RecordPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, tuition.KindMalformedInput, "invalid request body")
		return
	}

	amount, err := decodeAmount(req.Amount)
	if err != nil {
		writeError(w, http.StatusBadRequest, tuition.KindMalformedInput, "invalid amount")
		return
	}
	if amount.IsNegative() {
		writeError(w, http.StatusBadRequest, tuition.KindMalformedInput, "amount must not be negative")
		return
	}

	payment := roster.Payment{
		Amount:      amount,
		Method:      roster.ParsePaymentMethod(req.Method),
		CheckNumber: req.CheckNumber,
		Note:        req.Note,
	}
	if req.Date != "" {
		d, err := roster.ParseDate(req.Date)
		if err != nil {
			writeError(w, http.StatusBadRequest, tuition.KindMalformedInput, "invalid date (use dd/mm/yyyy)")
			return
		}
		payment.Date = d
	}

	id := roster.StudentID(chi.URLParam(r, "id"))
	if err := h.Store.AddPayment(r.Context(), id, payment); err != nil {
		writeDomainError(w, err)
		return
	}
	h.invalidate()

	writeJSON(w, http.StatusCreated, toPaymentDTO(payment))
}

// =============================================================================
// GROUP HANDLERS
// =============================================================================

// ListGroups returns all groups.
func (h *Handler) ListGroups(w http.ResponseWriter, r *http.Request) {
	cache, err := h.pricer(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, tuition.KindInternal, "failed to load roster")
		return
	}

	groups := cache.Pricer().Snapshot.Groups
	dtos := make([]GroupDTO, len(groups))
	for i, g := range groups {
		dtos[i] = toGroupDTO(g)
	}

	writeJSON(w, http.StatusOK, dtos)
}

// CreateGroup creates (or replaces, by id) a group.
func (h *Handler) CreateGroup(w http.ResponseWriter, r *http.Request) {
	var req CreateGroupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, tuition.KindMalformedInput, "invalid request body")
		return
	}
	if req.ID == "" || req.Name == "" {
		writeError(w, http.StatusBadRequest, tuition.KindMalformedInput, "id and name are required")
		return
	}

	weekday, err := roster.ParseWeekday(req.DayOfWeek)
	if err != nil {
		writeError(w, http.StatusBadRequest, tuition.KindMalformedInput, "invalid day_of_week")
		return
	}

	group := roster.Group{
		ID:           roster.GroupID(req.ID),
		Name:         req.Name,
		Weekday:      weekday,
		MonthlyPrice: req.Price,
		Phone:        req.Phone,
		Location:     req.Location,
	}
	if req.StartDate != "" {
		if group.CourseStart, err = roster.ParseDate(req.StartDate); err != nil {
			writeError(w, http.StatusBadRequest, tuition.KindMalformedInput, "invalid group_start_date (use dd/mm/yyyy)")
			return
		}
	}
	if req.EndDate != "" {
		if group.CourseEnd, err = roster.ParseDate(req.EndDate); err != nil {
			writeError(w, http.StatusBadRequest, tuition.KindMalformedInput, "invalid group_end_date (use dd/mm/yyyy)")
			return
		}
	}

	if err := h.Store.SaveGroup(r.Context(), group); err != nil {
		writeDomainError(w, err)
		return
	}
	h.invalidate()

	writeJSON(w, http.StatusCreated, toGroupDTO(group))
}

// GroupMeetings counts how many times a group meets in [from, to].
// GET /api/groups/{id}/meetings?from=dd/mm/yyyy&to=dd/mm/yyyy
func (h *Handler) GroupMeetings(w http.ResponseWriter, r *http.Request) {
	from, err := roster.ParseDate(r.URL.Query().Get("from"))
	if err != nil {
		writeError(w, http.StatusBadRequest, tuition.KindMalformedInput, "invalid from date (use dd/mm/yyyy)")
		return
	}
	to, err := roster.ParseDate(r.URL.Query().Get("to"))
	if err != nil {
		writeError(w, http.StatusBadRequest, tuition.KindMalformedInput, "invalid to date (use dd/mm/yyyy)")
		return
	}
	if to.Before(from) {
		writeError(w, http.StatusBadRequest, tuition.KindMalformedInput, tuition.ErrInvalidRange.Error())
		return
	}

	cache, err := h.pricer(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, tuition.KindInternal, "failed to load roster")
		return
	}

	id := roster.GroupID(chi.URLParam(r, "id"))
	group, ok := cache.Pricer().Snapshot.GroupByID(id)
	if !ok {
		writeDomainError(w, &tuition.NotFoundError{Entity: "group", ID: string(id)})
		return
	}

	writeJSON(w, http.StatusOK, MeetingCountDTO{
		GroupID:  string(group.ID),
		From:     from.String(),
		To:       to.String(),
		Meetings: tuition.CountGroupMeetings(group, from, to),
	})
}

// =============================================================================
// JOINING DATES
// =============================================================================

// SetJoiningDate records when a student joined a group.
func (h *Handler) SetJoiningDate(w http.ResponseWriter, r *http.Request) {
	var req SetJoiningDateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, tuition.KindMalformedInput, "invalid request body")
		return
	}
	if req.GroupID == "" || req.StudentID == "" {
		writeError(w, http.StatusBadRequest, tuition.KindMalformedInput, "group_id and student_id are required")
		return
	}

	joined, err := roster.ParseDate(req.JoinDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, tuition.KindMalformedInput, "invalid join_date (use dd/mm/yyyy)")
		return
	}

	key := roster.JoinKey{
		GroupID:   roster.GroupID(req.GroupID),
		StudentID: roster.StudentID(req.StudentID),
	}
	if err := h.Store.SetJoiningDate(r.Context(), key, joined); err != nil {
		writeDomainError(w, err)
		return
	}
	h.invalidate()

	writeJSON(w, http.StatusCreated, req)
}

// =============================================================================
// CONFIG
// =============================================================================

// GetPriceTable exposes the active price table and any config-load warnings.
func (h *Handler) GetPriceTable(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, PriceTableDTO{
		Single:   h.Prices.Single,
		Two:      h.Prices.Two,
		Three:    h.Prices.ThreeOrMore,
		Sister:   h.Prices.SiblingDiscount,
		Warnings: h.PriceWarnings,
	})
}

// =============================================================================
// HELPERS
// =============================================================================

// decodeAmount accepts a JSON number or a string amount, comma decimals
// included ("1,23").
func decodeAmount(raw json.RawMessage) (decimal.Decimal, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
		return decimal.NewFromString(s)
	}
	return decimal.NewFromString(strings.TrimSpace(string(raw)))
}

func toPaymentDTO(p roster.Payment) PaymentDTO {
	amount, _ := p.Amount.Float64()
	dto := PaymentDTO{
		Amount:      amount,
		Method:      string(p.Method),
		CheckNumber: p.CheckNumber,
		Note:        p.Note,
	}
	if !p.Date.IsZero() {
		dto.Date = p.Date.String()
	}
	return dto
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, kind tuition.ErrorKind, message string) {
	writeJSON(w, status, ErrorResponse{Success: false, ErrorKind: string(kind), Message: message})
}

// writeDomainError maps an engine error onto HTTP status via its kind.
func writeDomainError(w http.ResponseWriter, err error) {
	kind := tuition.KindOf(err)
	status := http.StatusInternalServerError
	switch kind {
	case tuition.KindNotFound:
		status = http.StatusNotFound
	case tuition.KindMalformedInput:
		status = http.StatusBadRequest
	}
	writeError(w, status, kind, err.Error())
}
