package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// HTTPError defines errors that can be mapped to HTTP status codes.
type HTTPError interface {
	error
	StatusCode() int
}

// Domain error types implementing HTTPError interface
type (
	// NotFoundError indicates a resource was not found
	NotFoundError struct {
		Message string
	}

	// ValidationError indicates invalid input
	ValidationError struct {
		Message string
	}
)

func (e *NotFoundError) Error() string   { return e.Message }
func (e *ValidationError) Error() string { return e.Message }

func (e *NotFoundError) StatusCode() int   { return http.StatusNotFound }
func (e *ValidationError) StatusCode() int { return http.StatusBadRequest }

func (e *NotFoundError) Is(target error) bool   { return target == ErrNotFound }
func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// Sentinel errors - use with errors.Is()
var (
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("already exists")
	ErrValidation = errors.New("validation failed")

	// ErrStructural matches every StructuralError
	ErrStructural = errors.New("structural rejection")

	ErrCycle         = errors.New("move would create a cycle")
	ErrInvalidParent = errors.New("only folders can contain other nodes")
	ErrMaxDepth      = errors.New("maximum nesting depth exceeded")
	ErrDepthMismatch = errors.New("target depth does not match target parent")

	// ErrCommitInFlight is returned when a reorder is attempted while another
	// batch for the same tree has not settled yet.
	ErrCommitInFlight = fmt.Errorf("reorder already in progress: %w", ErrConflict)
)

// ConflictError represents a resource conflict with details about the existing resource
type ConflictError struct {
	Message      string // Human-readable error message
	ResourceType string // Type of resource (node, project)
	ResourceID   string // ID of the existing/conflicting resource
}

func (e *ConflictError) Error() string { return e.Message }

func (e *ConflictError) StatusCode() int { return http.StatusConflict }

// Is allows errors.Is() to match against ErrConflict
func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}

// StructuralReason names why a tree mutation was refused
type StructuralReason string

const (
	ReasonCycle         StructuralReason = "cycle"
	ReasonInvalidParent StructuralReason = "invalid_parent"
	ReasonMaxDepth      StructuralReason = "max_depth"
	ReasonDepthMismatch StructuralReason = "depth_mismatch"
)

// StructuralError is a rejected tree mutation. Nothing was changed and the
// operation must not be retried as-is.
type StructuralError struct {
	Reason  StructuralReason
	Message string
}

// NewStructuralError builds a StructuralError with a formatted message
func NewStructuralError(reason StructuralReason, format string, args ...any) *StructuralError {
	return &StructuralError{Reason: reason, Message: fmt.Sprintf(format, args...)}
}

func (e *StructuralError) Error() string { return e.Message }

func (e *StructuralError) StatusCode() int { return http.StatusUnprocessableEntity }

// Is matches ErrStructural and the sentinel for the specific reason
func (e *StructuralError) Is(target error) bool {
	switch target {
	case ErrStructural:
		return true
	case ErrCycle:
		return e.Reason == ReasonCycle
	case ErrInvalidParent:
		return e.Reason == ReasonInvalidParent
	case ErrMaxDepth:
		return e.Reason == ReasonMaxDepth
	case ErrDepthMismatch:
		return e.Reason == ReasonDepthMismatch
	}
	return false
}

// CommitError wraps a repository failure while persisting a reorder batch.
// The caller reverts its optimistic state; the batch is never retried.
type CommitError struct {
	ProjectID   string
	UpdateCount int
	Err         error
}

func (e *CommitError) Error() string {
	return fmt.Sprintf("commit %d position updates for project %s: %v", e.UpdateCount, e.ProjectID, e.Err)
}

func (e *CommitError) Unwrap() error { return e.Err }

func (e *CommitError) StatusCode() int { return http.StatusBadGateway }
