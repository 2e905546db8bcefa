package cval

import (
	"errors"
	"fmt"
)

// Error codes for the engine's three failure modes. All three are immediate,
// synchronous, non-recoverable failures: nothing is partially constructed and
// the original root is always left untouched.
const (
	// ErrCodeConstructionType indicates a literal tree contained a non-value
	// member. Raised before any composite is registered.
	ErrCodeConstructionType = "CONSTRUCTION_TYPE"

	// ErrCodeUpdateType indicates an update's assigned or produced value was
	// not a value type. Raised before any ancestor is rebuilt.
	ErrCodeUpdateType = "UPDATE_TYPE"

	// ErrCodePathType indicates a path step did not resolve against the
	// current intermediate structure.
	ErrCodePathType = "PATH_TYPE"
)

// ConstructionTypeError reports the first non-value member encountered while
// constructing a literal tree, in declared member order, depth-first.
type ConstructionTypeError struct {
	// Path locates the offending member, e.g. ".items[2].owner".
	Path string

	// Got names the offending value's type.
	Got string
}

// Error implements the error interface.
func (e *ConstructionTypeError) Error() string {
	return fmt.Sprintf("%s: %s is not a value type at %s", ErrCodeConstructionType, e.Got, pathOrRoot(e.Path))
}

// UpdateTypeError reports an update whose final assigned or produced value is
// not a value type.
type UpdateTypeError struct {
	// Path locates the update target.
	Path string

	// Method is the derived operation involved, if any.
	Method string

	// Got names the offending value's type.
	Got string
}

// Error implements the error interface.
func (e *UpdateTypeError) Error() string {
	if e.Method != "" {
		return fmt.Sprintf("%s: %s.%s produced %s, not a value type", ErrCodeUpdateType, pathOrRoot(e.Path), e.Method, e.Got)
	}
	return fmt.Sprintf("%s: cannot assign %s at %s", ErrCodeUpdateType, e.Got, pathOrRoot(e.Path))
}

// PathTypeError reports a path step that does not resolve: a missing key, a
// non-integer or out-of-range array index, or stepping into a non-composite.
type PathTypeError struct {
	// Path locates the structure the step was resolved against.
	Path string

	// Step renders the failing step.
	Step string

	// Message explains the mismatch.
	Message string
}

// Error implements the error interface.
func (e *PathTypeError) Error() string {
	return fmt.Sprintf("%s: step %s at %s: %s", ErrCodePathType, e.Step, pathOrRoot(e.Path), e.Message)
}

func pathOrRoot(p string) string {
	if p == "" {
		return "root"
	}
	return p
}

// IsConstructionTypeError reports whether err is a ConstructionTypeError.
// Uses errors.As to handle wrapped errors.
func IsConstructionTypeError(err error) bool {
	var ce *ConstructionTypeError
	return errors.As(err, &ce)
}

// IsUpdateTypeError reports whether err is an UpdateTypeError.
// Uses errors.As to handle wrapped errors.
func IsUpdateTypeError(err error) bool {
	var ue *UpdateTypeError
	return errors.As(err, &ue)
}

// IsPathTypeError reports whether err is a PathTypeError.
// Uses errors.As to handle wrapped errors.
func IsPathTypeError(err error) bool {
	var pe *PathTypeError
	return errors.As(err, &pe)
}
