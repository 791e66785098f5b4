/*
errors.go - Centralized error taxonomy for the pricing engine

PURPOSE:
  All engine-level errors in one place. The engine distinguishes query-level
  failures (unknown student: the whole query fails) from row-level issues
  (one group missing a weekday, one payment with a garbage amount), which
  degrade silently because the UI depends on partial results being shown.

ERROR KINDS:
  NotFound         - referenced student/group absent from the snapshot
  MalformedInput   - date or weekday string does not parse
  InconsistentData - enrollment with no joining date
  ConfigMissing    - pricing table unreadable; defaults used, warning flagged

USAGE:
  if tuition.IsNotFound(err) { ... }
  kind := tuition.KindOf(err) // for the {success:false, error_kind, ...} body
*/
package tuition

import (
	"errors"
	"fmt"

	"github.com/baila/tuition-engine/roster"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrStudentNotFound is returned when the queried student id is absent
	// from the snapshot. This is the only row reference that fails a query.
	ErrStudentNotFound = errors.New("student not found")

	// ErrGroupNotFound is returned when a group id passed by a caller
	// (e.g. a meeting-count query) is absent from the snapshot.
	ErrGroupNotFound = errors.New("group not found")

	// ErrInvalidRange is returned when a date range has end before start.
	ErrInvalidRange = errors.New("invalid range: end before start")

	// ErrConfigMissing is returned by config loading when the settings file
	// cannot be read. Callers fall back to defaults and carry a warning.
	ErrConfigMissing = errors.New("pricing config missing")
)

// =============================================================================
// ERROR KINDS - Wire-level classification
// =============================================================================

type ErrorKind string

const (
	KindNotFound         ErrorKind = "not_found"
	KindMalformedInput   ErrorKind = "malformed_input"
	KindInconsistentData ErrorKind = "inconsistent_data"
	KindConfigMissing    ErrorKind = "config_missing"
	KindInternal         ErrorKind = "internal"
)

// KindOf classifies an error for the structured {success:false, error_kind,
// message} response. Store I/O errors and anything unrecognized map to
// KindInternal.
func KindOf(err error) ErrorKind {
	switch {
	case IsNotFound(err):
		return KindNotFound
	case errors.Is(err, roster.ErrMalformedDate), errors.Is(err, roster.ErrMalformedWeekday), errors.Is(err, ErrInvalidRange):
		return KindMalformedInput
	case errors.Is(err, ErrConfigMissing):
		return KindConfigMissing
	default:
		return KindInternal
	}
}

// IsNotFound returns true if the error indicates a missing entity.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrStudentNotFound) || errors.Is(err, ErrGroupNotFound)
}

// =============================================================================
// STRUCTURED ERRORS
// =============================================================================

// NotFoundError carries the id that failed to resolve.
type NotFoundError struct {
	Entity string // "student" or "group"
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Entity, e.ID)
}

func (e *NotFoundError) Unwrap() error {
	if e.Entity == "group" {
		return ErrGroupNotFound
	}
	return ErrStudentNotFound
}
