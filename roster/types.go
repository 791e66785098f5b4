// Package roster holds the dance school's data model: groups, students,
// payments, and per-(student, group) joining dates, plus the centralized
// parsing for the wire formats they arrive in (dd/mm/yyyy dates, Hebrew
// weekday names, comma-decimal amounts).
//
// Entities are immutable snapshots from the engine's point of view: the
// store owns them, the pricing engine borrows them per query.
package roster

import "github.com/shopspring/decimal"

// =============================================================================
// IDENTIFIERS
// =============================================================================

type GroupID string
type StudentID string

// JoinKey identifies one (group, student) enrollment. Exactly one joining
// date exists per key for every group a student is enrolled in.
type JoinKey struct {
	GroupID   GroupID
	StudentID StudentID
}

// =============================================================================
// GROUP
// =============================================================================

// Group is one weekly class. The schedule is a pure weekday recurrence:
// no holidays, no cancellations, no make-ups.
type Group struct {
	ID      GroupID
	Name    string // unique across the school
	Weekday Weekday

	// Monthly base price in currency-neutral whole units.
	MonthlyPrice int64

	CourseStart Date
	CourseEnd   Date

	// Contact metadata, irrelevant to pricing.
	Phone    string
	Location string
}

// =============================================================================
// STUDENT
// =============================================================================

type Student struct {
	ID   StudentID
	Name string

	// Enrolled group names (students.json references groups by name).
	// Unordered but stable.
	Groups []string

	// HasSibling is true when another sibling attends the school; it gates
	// the sibling discount and does not require the sibling to be modeled.
	HasSibling bool

	Payments []Payment

	Phone string
}

// =============================================================================
// PAYMENT
// =============================================================================

type PaymentMethod string

const (
	MethodCash     PaymentMethod = "cash"
	MethodTransfer PaymentMethod = "transfer"
	MethodCheck    PaymentMethod = "check"
	MethodCredit   PaymentMethod = "credit"
	MethodBit      PaymentMethod = "bit"
	MethodPaybox   PaymentMethod = "paybox"
	MethodUnknown  PaymentMethod = "unknown"
)

// ParsePaymentMethod maps wire strings (including the Hebrew display labels
// legacy records carry) to the closed method set.
func ParsePaymentMethod(s string) PaymentMethod {
	switch s {
	case "cash", "מזומן":
		return MethodCash
	case "transfer", "העברה", "העברה בנקאית":
		return MethodTransfer
	case "check", "צ'ק", "צק":
		return MethodCheck
	case "credit", "אשראי":
		return MethodCredit
	case "bit", "ביט":
		return MethodBit
	case "paybox", "פייבוקס":
		return MethodPaybox
	default:
		return MethodUnknown
	}
}

// Payment is one recorded payment. Amount is already parsed and clamped
// non-negative (see ParseAmount); Date is advisory and plays no part in
// debt derivation.
type Payment struct {
	Amount      decimal.Decimal
	Date        Date
	Method      PaymentMethod
	CheckNumber string
	Note        string
}

// =============================================================================
// PAYMENT STATUS - Derived, never stored
// =============================================================================

type PaymentStatus string

const (
	StatusPaidInFull PaymentStatus = "paid_in_full"
	StatusPaidToDate PaymentStatus = "paid_to_date"
	StatusOverpaid   PaymentStatus = "overpaid"
	StatusDebt       PaymentStatus = "debt"
)
