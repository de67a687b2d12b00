package vecbase

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a VecError without requiring callers to match on the
// wrapped sentinel directly.
type ErrorKind int

const (
	// KindNotFound means an entity identifier has no binding.
	KindNotFound ErrorKind = iota
	// KindNotIndexed means a query was issued before a build.
	KindNotIndexed
	// KindInvalidAlgo means an unrecognized index variant was requested.
	KindInvalidAlgo
	// KindDimensionMismatch means two vectors disagree in length, or a
	// query vector doesn't match an index's build dimension.
	KindDimensionMismatch
	// KindCorruption means an invariant was violated while traversing
	// hierarchical references (a library pointing at a missing document).
	KindCorruption
	// KindCancelled means the operation was aborted at a suspension point.
	KindCancelled
)

// String returns a lowercase label for the kind, used in error messages.
func (k ErrorKind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindNotIndexed:
		return "not_indexed"
	case KindInvalidAlgo:
		return "invalid_algo"
	case KindDimensionMismatch:
		return "dimension_mismatch"
	case KindCorruption:
		return "corruption"
	case KindCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Sentinel errors. Use errors.Is against these, or VecError.Kind against the
// ErrorKind constants above.
var (
	ErrNotFound          = errors.New("not found")
	ErrNotIndexed        = errors.New("library has no installed index")
	ErrInvalidAlgo       = errors.New("unrecognized index algorithm")
	ErrDimensionMismatch = errors.New("vector dimension mismatch")
	ErrCorruption        = errors.New("corpus invariant violated")
	ErrCancelled         = errors.New("operation cancelled")
)

// VecError wraps an error with the operation that produced it and the kind
// of failure, so callers can branch on Kind without string-matching Op.
type VecError struct {
	Op   string
	Kind ErrorKind
	Err  error
}

// Error implements the error interface.
func (e *VecError) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("vecbase: %v", e.Err)
	}
	return fmt.Sprintf("vecbase: %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying sentinel error.
func (e *VecError) Unwrap() error {
	return e.Err
}

// Is checks if the error matches the target.
func (e *VecError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// wrapError wraps err with operation context and a failure kind. Returns nil
// when err is nil so call sites can write `return wrapError(op, kind, err)`
// unconditionally.
func wrapError(op string, kind ErrorKind, err error) error {
	if err == nil {
		return nil
	}
	return &VecError{Op: op, Kind: kind, Err: err}
}

// WrapError is the exported form of wrapError, for subpackages (pkg/core,
// pkg/index) that need to report errors in this package's taxonomy.
func WrapError(op string, kind ErrorKind, err error) error {
	return wrapError(op, kind, err)
}

// Is reports whether err is a *VecError of the given kind.
func Is(err error, kind ErrorKind) bool {
	var ve *VecError
	if errors.As(err, &ve) {
		return ve.Kind == kind
	}
	return false
}
