package roster

// Hebrew display labels, kept apart from the codes the engine computes with.
// UI layers look labels up here; nothing in the engine ever compares against
// a display string.

var weekdayLabelsHe = map[Weekday]string{
	Sunday:    "ראשון",
	Monday:    "שני",
	Tuesday:   "שלישי",
	Wednesday: "רביעי",
	Thursday:  "חמישי",
	Friday:    "שישי",
	Saturday:  "שבת",
}

var methodLabelsHe = map[PaymentMethod]string{
	MethodCash:     "מזומן",
	MethodTransfer: "העברה בנקאית",
	MethodCheck:    "צ'ק",
	MethodCredit:   "אשראי",
	MethodBit:      "ביט",
	MethodPaybox:   "פייבוקס",
}

var statusLabelsHe = map[PaymentStatus]string{
	StatusPaidInFull: "שילם את כל הסכום",
	StatusPaidToDate: "שילם עד היום",
	StatusOverpaid:   "שילם יותר מדי",
	StatusDebt:       "חוב",
}

// DisplayHe returns the Hebrew label for a weekday; empty for invalid days.
func (w Weekday) DisplayHe() string { return weekdayLabelsHe[w] }

// DisplayHe returns the Hebrew label for a payment method; empty when unknown.
func (m PaymentMethod) DisplayHe() string { return methodLabelsHe[m] }

// DisplayHe returns the Hebrew label for a payment status.
func (s PaymentStatus) DisplayHe() string { return statusLabelsHe[s] }
