// Package guard holds small helpers that protect domain invariants.
package guard

import "errors"

// ErrDefaultConstructorGuard is returned by Validate when no specific error is given.
var ErrDefaultConstructorGuard = errors.New("object must be created via its constructor")

// ConstructorGuard lets an aggregate or value object tell whether it was built by its
// constructor or is a zero value. Embed it as a private field, set it with
// NewConstructorGuard inside the New*/Restore* functions and check it in Validate.
//
//	type Leg struct {
//	    id    uuid.UUID
//	    guard guard.ConstructorGuard
//	}
//
//	func (l *Leg) Validate() error {
//	    return l.guard.Validate(ErrLegNotConstructed)
//	}
type ConstructorGuard struct {
	isConstructed bool
}

func NewConstructorGuard() ConstructorGuard {
	return ConstructorGuard{isConstructed: true}
}

// Validate returns nil for constructed objects, otherwise validationError
// (or ErrDefaultConstructorGuard when validationError is nil).
func (g ConstructorGuard) Validate(validationError error) error {
	if g.isConstructed {
		return nil
	}
	if validationError == nil {
		return ErrDefaultConstructorGuard
	}
	return validationError
}
