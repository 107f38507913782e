package flows

import (
	"errors"
	"fmt"
)

// Common sentinel errors
var (
	ErrInvalidDemand     = errors.New("invalid bandwidth demand")
	ErrFlowNotFound      = errors.New("flow not found")
	ErrInvalidTransition = errors.New("invalid flow state transition")
)

// FlowError provides structured error information for flow operations.
type FlowError struct {
	Op      string // Operation that failed (e.g., "add_flow", "remove_flow")
	FlowID  string // Flow ID (if assigned)
	Src     string // Flow source (for admission errors)
	Dst     string // Flow destination (for admission errors)
	Context string // Additional context
	Cause   error  // Underlying error
}

// Error implements the error interface.
func (e *FlowError) Error() string {
	subject := e.FlowID
	if subject == "" && e.Src != "" {
		subject = e.Src + "->" + e.Dst
	}
	if e.Context != "" {
		return fmt.Sprintf("%s flow %s (%s): %v", e.Op, subject, e.Context, e.Cause)
	}
	return fmt.Sprintf("%s flow %s: %v", e.Op, subject, e.Cause)
}

// Unwrap returns the underlying cause for error chain support.
func (e *FlowError) Unwrap() error {
	return e.Cause
}

// ErrorBuilder provides a fluent interface for building FlowErrors.
type ErrorBuilder struct {
	err FlowError
}

// NewError creates a new error builder with the given operation.
func NewError(op string) *ErrorBuilder {
	return &ErrorBuilder{err: FlowError{Op: op}}
}

// Flow sets the flow ID.
func (b *ErrorBuilder) Flow(id string) *ErrorBuilder {
	b.err.FlowID = id
	return b
}

// Endpoints sets the flow source and destination.
func (b *ErrorBuilder) Endpoints(src, dst string) *ErrorBuilder {
	b.err.Src = src
	b.err.Dst = dst
	return b
}

// Context sets additional context information.
func (b *ErrorBuilder) Context(ctx string) *ErrorBuilder {
	b.err.Context = ctx
	return b
}

// Cause sets the underlying error cause.
func (b *ErrorBuilder) Cause(err error) *ErrorBuilder {
	b.err.Cause = err
	return b
}

// Err returns the error as an error interface.
func (b *ErrorBuilder) Err() error {
	return &b.err
}
