package schedule

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrEmptyCatalog is returned when the carrier or destination list is empty.
	ErrEmptyCatalog = errors.New("schedule: empty catalog")
	// ErrNilRandomSource is returned when a generator is built without a random source.
	ErrNilRandomSource = errors.New("schedule: nil random source")
	// ErrMissingField is returned when an imported row lacks a required value.
	ErrMissingField = errors.New("schedule: missing field")
	// ErrInvalidDelay is returned when delay hours cannot be read as an integer.
	ErrInvalidDelay = errors.New("schedule: delay hours is not an integer")
	// ErrNegativeDelay is returned when delay hours is below zero.
	ErrNegativeDelay = errors.New("schedule: negative delay hours")
	// ErrEmptyScheduleID is returned when building a schedule without id.
	ErrEmptyScheduleID = errors.New("schedule: empty schedule id")
	// ErrNilSchedule is returned when saving a nil schedule.
	ErrNilSchedule = errors.New("schedule: nil schedule")
	// ErrScheduleNotFound is returned when a schedule is not stored.
	ErrScheduleNotFound = errors.New("schedule: not found")
)

// FormatError reports time-of-day text that is malformed or out of range.
type FormatError struct {
	Text   string
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("schedule: invalid time %q: %s", e.Text, e.Reason)
}

// ValidationError describes one rejected import row.
type ValidationError struct {
	Line  int
	Field string
	Value string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("schedule: row %d: %s %q: %v", e.Line, e.Field, e.Value, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// BatchError aggregates every invalid row of an import. The whole batch is rejected.
type BatchError struct {
	Rows []*ValidationError
}

func (e *BatchError) Error() string {
	if len(e.Rows) == 0 {
		return "schedule: invalid import"
	}
	lines := make([]string, 0, len(e.Rows))
	for _, row := range e.Rows {
		lines = append(lines, fmt.Sprintf("%d", row.Line))
	}
	return fmt.Sprintf("schedule: %d invalid rows (lines %s): %v", len(e.Rows), strings.Join(lines, ","), e.Rows[0])
}

func (e *BatchError) Unwrap() []error {
	errs := make([]error, 0, len(e.Rows))
	for _, row := range e.Rows {
		errs = append(errs, row)
	}
	return errs
}
