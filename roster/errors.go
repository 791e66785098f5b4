package roster

import "errors"

// Sentinel errors for malformed wire data. Use with errors.Is().
var (
	// ErrMalformedDate is returned when a date string is not dd/mm/yyyy.
	ErrMalformedDate = errors.New("malformed date")

	// ErrMalformedWeekday is returned when a weekday string is not one of
	// the seven Hebrew day names.
	ErrMalformedWeekday = errors.New("malformed weekday")
)
