package tuition

import (
	"github.com/shopspring/decimal"

	"github.com/baila/tuition-engine/roster"
)

// =============================================================================
// STATUS DERIVATION - Paid vs owed classification
// =============================================================================

// Classification is the derived debt state shown in the students list.
type Classification struct {
	StudentID   roster.StudentID
	StudentName string

	Status roster.PaymentStatus

	AmountPaid     decimal.Decimal
	OwedToDate     decimal.Decimal
	OwedFullCourse decimal.Decimal

	// BalanceToDate = OwedToDate - AmountPaid; negative when ahead.
	BalanceToDate decimal.Decimal

	Warnings []string
}

// SumPayments totals a student's recorded payments. Amounts are already
// parsed and clamped non-negative at the store edge, so this is a plain sum.
func SumPayments(payments []roster.Payment) decimal.Decimal {
	total := decimal.Zero
	for _, p := range payments {
		total = total.Add(p.Amount)
	}
	return total
}

// DeriveStatus classifies paid-vs-owed. Ordered; first match wins, so the
// four statuses partition every input.
func DeriveStatus(paid, owedToDate, owedFullCourse decimal.Decimal) roster.PaymentStatus {
	switch {
	case owedFullCourse.IsPositive() && paid.Equal(owedFullCourse):
		return roster.StatusPaidInFull
	case owedFullCourse.IsPositive() && paid.GreaterThan(owedFullCourse):
		return roster.StatusOverpaid
	case owedToDate.IsPositive() && paid.GreaterThanOrEqual(owedToDate):
		return roster.StatusPaidToDate
	default:
		return roster.StatusDebt
	}
}

// Classify derives a student's payment status from both horizons. Period
// construction is shared: the same builder output feeds the to-date and
// full-course totals.
func (sp *StudentPricer) Classify(id roster.StudentID) (*Classification, error) {
	toDate, err := sp.PriceStudent(id, HorizonToDate)
	if err != nil {
		return nil, err
	}
	fullCourse, err := sp.PriceStudent(id, HorizonFullCourse)
	if err != nil {
		return nil, err
	}

	student, _ := sp.Snapshot.StudentByID(id)
	paid := SumPayments(student.Payments)

	return &Classification{
		StudentID:      student.ID,
		StudentName:    student.Name,
		Status:         DeriveStatus(paid, toDate.Total, fullCourse.Total),
		AmountPaid:     paid,
		OwedToDate:     toDate.Total,
		OwedFullCourse: fullCourse.Total,
		BalanceToDate:  toDate.Total.Sub(paid),
		Warnings:       toDate.Warnings,
	}, nil
}
