package domain

import "errors"

// ErrorKind classifies a domain error for the transport layer.
type ErrorKind string

const (
	KindValidation    ErrorKind = "validation"
	KindAuthorization ErrorKind = "authorization"
	KindNotFound      ErrorKind = "not_found"
	KindConflict      ErrorKind = "conflict"
	KindDispatch      ErrorKind = "dispatch"
)

// Error is a typed, user-facing error. Two Errors match under errors.Is when
// their Codes are equal, so a sentinel can carry a generic message while the
// returned value carries a specific one.
type Error struct {
	Kind    ErrorKind
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code
}

// WithMessage returns a copy carrying a more specific message.
func (e *Error) WithMessage(msg string) *Error {
	c := *e
	c.Message = msg
	return &c
}

// Wrap returns a copy that wraps cause.
func (e *Error) Wrap(cause error) *Error {
	c := *e
	c.Err = cause
	return &c
}

func NewError(kind ErrorKind, code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

// KindOf returns the kind of a domain error, or "" for anything else.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// Plan validation rules, in the order they are checked.
var (
	ErrInvalidName      = NewError(KindValidation, "InvalidName", "plan name is required")
	ErrInvalidFrequency = NewError(KindValidation, "InvalidFrequency", "frequency must be 3, 4 or 5")
	ErrDayCountMismatch = NewError(KindValidation, "DayCountMismatch", "number of training days must match the frequency")
	ErrDuplicateDay     = NewError(KindValidation, "DuplicateDay", "each day of the week can only appear once")
	ErrDayOutOfRange    = NewError(KindValidation, "DayOutOfRange", "dayOfWeek must be between 0 (Sunday) and 6 (Saturday)")
	ErrInvalidExercise  = NewError(KindValidation, "InvalidExercise", "invalid exercise")
	ErrDateOrderInvalid = NewError(KindValidation, "DateOrderInvalid", "endDate must be after startDate")
	ErrDurationTooShort = NewError(KindValidation, "DurationTooShort", "plan must last at least 7 days")
	ErrDurationTooLong  = NewError(KindValidation, "DurationTooLong", "plan cannot last more than 365 days")
)

// ErrDispatchFailed marks a notification that could not be persisted or delivered.
var ErrDispatchFailed = NewError(KindDispatch, "DispatchFailed", "notification dispatch failed")
