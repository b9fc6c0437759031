package errs

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrValidation marks malformed or incomplete shipment input. Always terminal.
	ErrValidation = errors.New("validation failed")

	// ErrCompliance marks dangerous goods that cannot be shipped as declared.
	ErrCompliance = errors.New("dangerous goods compliance failed")

	// ErrCarrierDispatch marks a carrier booking call that returned an error.
	ErrCarrierDispatch = errors.New("carrier dispatch failed")
)

// FieldError points at the offending input field using a dotted/indexed path,
// e.g. "packages[2].package_type".
type FieldError struct {
	Path    string
	Message string
}

// ValidationError carries a machine readable code plus one entry per offending field.
type ValidationError struct {
	Code   string
	Fields []FieldError
}

func NewValidationError(code string, fields ...FieldError) *ValidationError {
	return &ValidationError{Code: code, Fields: fields}
}

// NewFieldValidationError is a shorthand for a validation error with a single field.
func NewFieldValidationError(code, path, format string, args ...any) *ValidationError {
	return NewValidationError(code, FieldError{Path: path, Message: fmt.Sprintf(format, args...)})
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return fmt.Sprintf("%s: %s", ErrValidation, e.Code)
	}

	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f.Path, sanitize(f.Message)))
	}
	return fmt.Sprintf("%s: %s: %s", ErrValidation, e.Code, strings.Join(parts, "; "))
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// ComplianceError reports a dangerous good that is forbidden for the requested mode.
type ComplianceError struct {
	UNNumber int
	Reason   string
}

func NewComplianceError(unNumber int, reason string) *ComplianceError {
	return &ComplianceError{UNNumber: unNumber, Reason: reason}
}

func (e *ComplianceError) Error() string {
	return fmt.Sprintf("%s: UN%04d: %s", ErrCompliance, e.UNNumber, e.Reason)
}

func (e *ComplianceError) Unwrap() error {
	return ErrCompliance
}

// CarrierDispatchError wraps the failure of one leg's carrier call.
type CarrierDispatchError struct {
	Carrier int
	Role    string
	Cause   error
}

func NewCarrierDispatchError(carrier int, role string, cause error) *CarrierDispatchError {
	return &CarrierDispatchError{Carrier: carrier, Role: role, Cause: cause}
}

func (e *CarrierDispatchError) Error() string {
	return withCause(fmt.Sprintf("%s: carrier %d (%s leg)", ErrCarrierDispatch, e.Carrier, e.Role), e.Cause)
}

// Unwrap exposes both the sentinel and the carrier's own error.
func (e *CarrierDispatchError) Unwrap() []error {
	if e.Cause == nil {
		return []error{ErrCarrierDispatch}
	}
	return []error{ErrCarrierDispatch, e.Cause}
}
