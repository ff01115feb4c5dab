package survey

import (
	"errors"
	"fmt"
)

// ErrorKind is the machine-readable classification of a survey error.
type ErrorKind string

const (
	KindNotFound           ErrorKind = "not_found"
	KindValidation         ErrorKind = "validation"
	KindUnknownQuestion    ErrorKind = "unknown_question"
	KindScoringRuleMissing ErrorKind = "scoring_rule_missing"
	KindNoBandMatch        ErrorKind = "no_band_match"
)

// Error is a survey domain error with a kind the transport layer can map
// to an HTTP status. None of these are retryable; the caller must correct
// the input or the template.
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func newError(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// IsKind reports whether err is a survey Error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind == kind
	}
	return false
}

// KindOf returns the kind of a survey Error, or "" for other errors.
func KindOf(err error) ErrorKind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return ""
}
