/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  JSON structures for the HTTP surface, decoupled from the domain model.
  Dates travel as dd/mm/yyyy (the application's single wire format), money
  as JSON numbers already rounded by the engine.

NAMING CONVENTION:
  - *DTO: response types
  - *Request: request bodies
*/
package api

import (
	"encoding/json"

	"github.com/baila/tuition-engine/roster"
	"github.com/baila/tuition-engine/tuition"
)

// =============================================================================
// GROUPS
// =============================================================================

type GroupDTO struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	DayOfWeek  string `json:"day_of_week"` // code: "Sunday".."Saturday" or "invalid"
	DayLabelHe string `json:"day_label_he,omitempty"`
	Price      int64  `json:"price"`
	StartDate  string `json:"group_start_date,omitempty"`
	EndDate    string `json:"group_end_date,omitempty"`
	Phone      string `json:"phone,omitempty"`
	Location   string `json:"location,omitempty"`
}

type CreateGroupRequest struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	DayOfWeek string `json:"day_of_week"` // Hebrew wire string, e.g. "ראשון"
	Price     int64  `json:"price"`
	StartDate string `json:"group_start_date"`
	EndDate   string `json:"group_end_date"`
	Phone     string `json:"phone,omitempty"`
	Location  string `json:"location,omitempty"`
}

// MeetingCountDTO answers GET /api/groups/{id}/meetings.
type MeetingCountDTO struct {
	GroupID  string `json:"group_id"`
	From     string `json:"from"`
	To       string `json:"to"`
	Meetings int    `json:"meetings"`
}

// =============================================================================
// STUDENTS
// =============================================================================

type PaymentDTO struct {
	Amount      float64 `json:"amount"`
	Date        string  `json:"date,omitempty"`
	Method      string  `json:"payment_method"`
	CheckNumber string  `json:"check_number,omitempty"`
	Note        string  `json:"note,omitempty"`
}

type StudentDTO struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	Groups    []string     `json:"groups"`
	HasSister bool         `json:"has_sister"`
	Payments  []PaymentDTO `json:"payments"`
	Phone     string       `json:"phone,omitempty"`
}

type CreateStudentRequest struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Groups    []string `json:"groups"`
	HasSister bool     `json:"has_sister"`
	Phone     string   `json:"phone,omitempty"`
}

// RecordPaymentRequest accepts the historically loose amount field: a JSON
// number or a string, comma decimals included.
type RecordPaymentRequest struct {
	Amount      json.RawMessage `json:"amount"`
	Date        string          `json:"date,omitempty"`
	Method      string          `json:"payment_method"`
	CheckNumber string          `json:"check_number,omitempty"`
	Note        string          `json:"note,omitempty"`
}

type SetJoiningDateRequest struct {
	GroupID   string `json:"group_id"`
	StudentID string `json:"student_id"`
	JoinDate  string `json:"join_date"`
}

// =============================================================================
// PRICING & STATUS
// =============================================================================

type PeriodChargeDTO struct {
	Start              string   `json:"start"`
	End                string   `json:"end"`
	Groups             []string `json:"groups"`
	DiscountApplies    bool     `json:"discount_applies"`
	Reason             string   `json:"reason"`
	MonthlyPrice       float64  `json:"monthly_price"`
	FirstMonthMeetings int      `json:"first_month_meetings"`
	FirstMonthPayment  float64  `json:"first_month_payment"`
	RemainingMonths    int      `json:"remaining_months"`
	RemainingPayment   float64  `json:"remaining_payment"`
	Total              float64  `json:"total"`
}

type PricingResultDTO struct {
	StudentID   string            `json:"student_id"`
	StudentName string            `json:"student_name"`
	HorizonKind string            `json:"horizon_kind"`
	Horizon     string            `json:"horizon,omitempty"`
	Periods     []PeriodChargeDTO `json:"periods"`
	Total       float64           `json:"total"`
	Warnings    []string          `json:"warnings,omitempty"`
}

type ClassificationDTO struct {
	StudentID      string   `json:"student_id"`
	StudentName    string   `json:"student_name"`
	Status         string   `json:"status"`
	StatusLabelHe  string   `json:"status_label_he"`
	AmountPaid     float64  `json:"amount_paid"`
	OwedToDate     float64  `json:"owed_to_date"`
	OwedFullCourse float64  `json:"owed_full_course"`
	BalanceToDate  float64  `json:"balance_to_date"`
	Warnings       []string `json:"warnings,omitempty"`
}

// StudentRowDTO is one row of the students list: the record plus its
// derived payment status.
type StudentRowDTO struct {
	Student StudentDTO        `json:"student"`
	Status  ClassificationDTO `json:"status"`
}

// PriceTableDTO exposes the active configuration.
type PriceTableDTO struct {
	Single   int64    `json:"single"`
	Two      int64    `json:"two"`
	Three    int64    `json:"three"`
	Sister   int64    `json:"sister"`
	Warnings []string `json:"warnings,omitempty"`
}

// ScenarioDTO describes a seedable demo roster.
type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type LoadScenarioRequest struct {
	ScenarioID string `json:"scenario_id"`
}

// ErrorResponse is the structured error body: {success:false, error_kind,
// message}.
type ErrorResponse struct {
	Success   bool   `json:"success"`
	ErrorKind string `json:"error_kind"`
	Message   string `json:"message"`
}

// =============================================================================
// CONVERSION HELPERS
// =============================================================================

func toGroupDTO(g roster.Group) GroupDTO {
	dto := GroupDTO{
		ID:         string(g.ID),
		Name:       g.Name,
		DayOfWeek:  g.Weekday.String(),
		DayLabelHe: g.Weekday.DisplayHe(),
		Price:      g.MonthlyPrice,
		Phone:      g.Phone,
		Location:   g.Location,
	}
	if !g.CourseStart.IsZero() {
		dto.StartDate = g.CourseStart.String()
	}
	if !g.CourseEnd.IsZero() {
		dto.EndDate = g.CourseEnd.String()
	}
	return dto
}

func toStudentDTO(s roster.Student) StudentDTO {
	payments := make([]PaymentDTO, len(s.Payments))
	for i, p := range s.Payments {
		payments[i] = toPaymentDTO(p)
	}
	groups := s.Groups
	if groups == nil {
		groups = []string{}
	}
	return StudentDTO{
		ID:        string(s.ID),
		Name:      s.Name,
		Groups:    groups,
		HasSister: s.HasSibling,
		Payments:  payments,
		Phone:     s.Phone,
	}
}

func toPricingResultDTO(r *tuition.PricingResult) PricingResultDTO {
	dto := PricingResultDTO{
		StudentID:   string(r.StudentID),
		StudentName: r.StudentName,
		HorizonKind: string(r.HorizonKind),
		Warnings:    r.Warnings,
	}
	if !r.Horizon.IsZero() {
		dto.Horizon = r.Horizon.String()
	}
	dto.Total, _ = r.Total.Float64()
	dto.Periods = make([]PeriodChargeDTO, len(r.Periods))
	for i, c := range r.Periods {
		dto.Periods[i] = toPeriodChargeDTO(c)
	}
	return dto
}

func toPeriodChargeDTO(c tuition.PeriodCharge) PeriodChargeDTO {
	monthly, _ := c.MonthlyPrice.Float64()
	first, _ := c.FirstMonthPayment.Float64()
	remaining, _ := c.RemainingPayment.Float64()
	total, _ := c.Total.Float64()
	return PeriodChargeDTO{
		Start:              c.Period.Start.String(),
		End:                c.Period.End.String(),
		Groups:             c.Period.GroupNames(),
		DiscountApplies:    c.Period.DiscountApplies,
		Reason:             string(c.Period.Reason),
		MonthlyPrice:       monthly,
		FirstMonthMeetings: c.FirstMonthMeetings,
		FirstMonthPayment:  first,
		RemainingMonths:    c.RemainingMonths,
		RemainingPayment:   remaining,
		Total:              total,
	}
}

func toClassificationDTO(c *tuition.Classification) ClassificationDTO {
	paid, _ := c.AmountPaid.Float64()
	toDate, _ := c.OwedToDate.Float64()
	full, _ := c.OwedFullCourse.Float64()
	balance, _ := c.BalanceToDate.Float64()
	return ClassificationDTO{
		StudentID:      string(c.StudentID),
		StudentName:    c.StudentName,
		Status:         string(c.Status),
		StatusLabelHe:  c.Status.DisplayHe(),
		AmountPaid:     paid,
		OwedToDate:     toDate,
		OwedFullCourse: full,
		BalanceToDate:  balance,
		Warnings:       c.Warnings,
	}
}
