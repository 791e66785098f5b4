/*
scenarios.go - Demo scenario seeders for testing and demonstrations

PURPOSE:

	Provides pre-built rosters that populate the store with realistic data
	for demos. Each scenario creates groups, students, joining dates, and
	payments that demonstrate specific pricing behaviors.

AVAILABLE SCENARIOS:

	starter-roster:    One group, three students covering every debt status
	multi-enrollment:  A student joining a second group mid-season, showing
	                   the three-period split and the bundle discount

HOW SCENARIOS WORK:
 1. Upsert groups (SaveGroup replaces by id)
 2. Upsert students
 3. Set joining dates per (group, student)
 4. Record payments

USAGE VIA API:

	POST /api/scenarios/load
	{"scenario_id": "multi-enrollment"}

NOTE:

	Scenarios upsert over the current store contents; they do not wipe it.
	Only use in development/demo environments.

SEE ALSO:
  - handlers.go: Handler dependencies, write invalidation
  - server.go: /api/scenarios routes
*/
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/baila/tuition-engine/roster"
	"github.com/baila/tuition-engine/tuition"
)

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

var scenarios = []ScenarioDTO{
	{
		ID:          "starter-roster",
		Name:        "Starter Roster",
		Description: "One Tuesday group with students in debt, paid to date, and paid in full",
	},
	{
		ID:          "multi-enrollment",
		Name:        "Multi-Enrollment",
		Description: "A student adds a second weekly group mid-season: first group alone, second group's first month, then the discounted bundle",
	},
}

// ListScenarios returns available scenarios.
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, scenarios)
}

// LoadScenario seeds the store from a predefined scenario.
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req LoadScenarioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, tuition.KindMalformedInput, "invalid request body")
		return
	}

	ctx := r.Context()
	var err error
	switch req.ScenarioID {
	case "starter-roster":
		err = h.loadStarterRosterScenario(ctx)
	case "multi-enrollment":
		err = h.loadMultiEnrollmentScenario(ctx)
	default:
		writeError(w, http.StatusBadRequest, tuition.KindMalformedInput, fmt.Sprintf("unknown scenario %q", req.ScenarioID))
		return
	}
	if err != nil {
		writeDomainError(w, err)
		return
	}

	h.invalidate()
	h.currentScenario = req.ScenarioID

	writeJSON(w, http.StatusOK, map[string]string{"loaded": req.ScenarioID})
}

// =============================================================================
// SEEDERS
// =============================================================================

// loadStarterRosterScenario seeds one group and three students whose payment
// histories land on distinct statuses.
func (h *Handler) loadStarterRosterScenario(ctx context.Context) error {
	ballet := roster.Group{
		ID:           "g-ballet",
		Name:         "Ballet Tuesday",
		Weekday:      roster.Tuesday,
		MonthlyPrice: 180,
		CourseStart:  roster.NewDate(2025, 9, 2),
		CourseEnd:    roster.NewDate(2026, 6, 30),
		Location:     "Studio A",
	}
	if err := h.Store.SaveGroup(ctx, ballet); err != nil {
		return err
	}

	students := []roster.Student{
		{ID: "s-noa", Name: "Noa Levi", Groups: []string{ballet.Name}},
		{ID: "s-maya", Name: "Maya Cohen", Groups: []string{ballet.Name}, HasSibling: true},
		{ID: "s-tamar", Name: "Tamar Mizrahi", Groups: []string{ballet.Name}},
	}
	for _, s := range students {
		if err := h.Store.SaveStudent(ctx, s); err != nil {
			return err
		}
		key := roster.JoinKey{GroupID: ballet.ID, StudentID: s.ID}
		if err := h.Store.SetJoiningDate(ctx, key, ballet.CourseStart); err != nil {
			return err
		}
	}

	// Noa pays nothing (debt). Maya pays one discounted month (paid to date
	// early in the season). Tamar prepays the whole season.
	payments := []struct {
		id     roster.StudentID
		amount int64
		method roster.PaymentMethod
	}{
		{"s-maya", 160, roster.MethodTransfer},
		{"s-tamar", 1800, roster.MethodCheck},
	}
	for _, p := range payments {
		err := h.Store.AddPayment(ctx, p.id, roster.Payment{
			Amount: decimal.NewFromInt(p.amount),
			Date:   roster.NewDate(2025, 9, 2),
			Method: p.method,
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// loadMultiEnrollmentScenario seeds two groups and a student who joins the
// second one mid-season, so pricing shows all three period reasons.
func (h *Handler) loadMultiEnrollmentScenario(ctx context.Context) error {
	groups := []roster.Group{
		{
			ID:           "g-hiphop",
			Name:         "Hip-Hop Sunday",
			Weekday:      roster.Sunday,
			MonthlyPrice: 180,
			CourseStart:  roster.NewDate(2025, 9, 7),
			CourseEnd:    roster.NewDate(2026, 6, 28),
			Location:     "Studio B",
		},
		{
			ID:           "g-jazz",
			Name:         "Jazz Wednesday",
			Weekday:      roster.Wednesday,
			MonthlyPrice: 180,
			CourseStart:  roster.NewDate(2025, 9, 3),
			CourseEnd:    roster.NewDate(2026, 6, 24),
			Location:     "Studio A",
		},
	}
	for _, g := range groups {
		if err := h.Store.SaveGroup(ctx, g); err != nil {
			return err
		}
	}

	shira := roster.Student{
		ID:     "s-shira",
		Name:   "Shira Peretz",
		Groups: []string{"Hip-Hop Sunday", "Jazz Wednesday"},
	}
	if err := h.Store.SaveStudent(ctx, shira); err != nil {
		return err
	}

	// Hip-hop from the season start; jazz added mid-November. October and
	// the first half of November bill hip-hop alone, the rest of November
	// adds jazz at the single price, December onward is the bundle.
	joins := []struct {
		group  roster.GroupID
		joined roster.Date
	}{
		{"g-hiphop", roster.NewDate(2025, 9, 7)},
		{"g-jazz", roster.NewDate(2025, 11, 12)},
	}
	for _, j := range joins {
		key := roster.JoinKey{GroupID: j.group, StudentID: shira.ID}
		if err := h.Store.SetJoiningDate(ctx, key, j.joined); err != nil {
			return err
		}
	}

	return h.Store.AddPayment(ctx, shira.ID, roster.Payment{
		Amount: decimal.NewFromInt(360),
		Date:   roster.NewDate(2025, 10, 1),
		Method: roster.MethodBit,
	})
}
