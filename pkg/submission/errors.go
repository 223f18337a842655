package submission

import (
	"errors"
	"fmt"
	"strings"
)

// ErrSubmissionInFlight is returned by Submit while another submission on the
// same pipeline is still running.
var ErrSubmissionInFlight = errors.New("a submission is already in progress")

type FieldError struct {
	Field   string
	Message string
}

// ValidationError means the form was rejected before any network attempt.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Message)
	}
	return "invalid submission: " + strings.Join(msgs, "; ")
}

// Has reports whether field failed validation.
func (e *ValidationError) Has(field string) bool {
	for _, f := range e.Fields {
		if f.Field == field {
			return true
		}
	}
	return false
}

// TransportError is one failed delivery attempt.
type TransportError struct {
	Transport string
	Err       error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s transport: %v", e.Transport, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// AllTransportsFailedError is returned when no transport delivered the record.
// ContactEmail is the address the user should write to instead.
type AllTransportsFailedError struct {
	Attempts     []*TransportError
	ContactEmail string
}

func (e *AllTransportsFailedError) Error() string {
	return fmt.Sprintf("there was an error submitting your form; please try again or contact us directly at %s", e.ContactEmail)
}

func (e *AllTransportsFailedError) Unwrap() []error {
	errs := make([]error, 0, len(e.Attempts))
	for _, a := range e.Attempts {
		errs = append(errs, a)
	}
	return errs
}
