// Package errs provides standardized error types for the freight application.
// It implements a consistent pattern for error creation, formatting, and unwrapping
// that is used throughout the application.
//
// Generic value errors:
//   - ValueIsRequiredError: a required value is missing
//   - ValueIsInvalidError: a value breaks a business rule
//   - ValueIsOutOfRangeError: a value falls outside its bounds
//   - ObjectNotFoundError: a lookup found nothing
//
// Booking errors:
//   - ValidationError: malformed or incomplete shipment input, with a code and field paths
//   - ComplianceError: a dangerous good is forbidden for the requested mode
//   - CarrierDispatchError: a leg's carrier booking call failed
//
// Each error type follows the same pattern:
//   - A sentinel error variable (e.g., ErrValueIsRequired)
//   - A struct type with fields for error details
//   - Constructor functions with and without cause
//   - Error() method for formatting the error message
//   - Unwrap() method so errors.Is matches the sentinel
//
// None of these errors is retried by the core. Callers classify them with errors.Is
// against the sentinels, or errors.As to read the details.
package errs
