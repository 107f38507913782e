package topology

import (
	"errors"
	"fmt"
)

// Common sentinel errors
var (
	ErrInvalidBandwidth = errors.New("invalid bandwidth")
	ErrUnknownNode      = errors.New("unknown node")
	ErrLinkNotFound     = errors.New("link not found")
)

// TopologyError provides structured error information for topology operations.
type TopologyError struct {
	Op        string  // Operation that failed (e.g., "AddEdge", "RemoveEdge")
	Entity    string  // Entity type ("switch" or "link")
	Node      string  // Switch ID (for switch errors)
	Src       string  // Link source (for link errors)
	Dst       string  // Link destination (for link errors)
	Bandwidth float64 // Offending bandwidth, if any
	Cause     error   // Underlying error
}

// Error implements the error interface.
func (e *TopologyError) Error() string {
	switch e.Entity {
	case "link":
		if e.Bandwidth != 0 || errors.Is(e.Cause, ErrInvalidBandwidth) {
			return fmt.Sprintf("%s link %s-%s (bandwidth %g): %v", e.Op, e.Src, e.Dst, e.Bandwidth, e.Cause)
		}
		return fmt.Sprintf("%s link %s-%s: %v", e.Op, e.Src, e.Dst, e.Cause)
	case "switch":
		return fmt.Sprintf("%s switch %s: %v", e.Op, e.Node, e.Cause)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Cause)
}

// Unwrap returns the underlying cause for error chain support.
func (e *TopologyError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target error matches this error's cause.
func (e *TopologyError) Is(target error) bool {
	if target == nil {
		return false
	}
	return errors.Is(e.Cause, target)
}

// ErrorBuilder provides a fluent interface for building TopologyErrors.
type ErrorBuilder struct {
	err TopologyError
}

// NewError creates a new error builder with the given operation.
func NewError(op string) *ErrorBuilder {
	return &ErrorBuilder{err: TopologyError{Op: op}}
}

// Switch sets the entity to "switch" with the given ID.
func (b *ErrorBuilder) Switch(id string) *ErrorBuilder {
	b.err.Entity = "switch"
	b.err.Node = id
	return b
}

// Link sets the entity to "link" with the given endpoints.
func (b *ErrorBuilder) Link(src, dst string) *ErrorBuilder {
	b.err.Entity = "link"
	b.err.Src = src
	b.err.Dst = dst
	return b
}

// Bandwidth records the bandwidth involved in the failure.
func (b *ErrorBuilder) Bandwidth(bw float64) *ErrorBuilder {
	b.err.Bandwidth = bw
	return b
}

// Cause sets the underlying error cause.
func (b *ErrorBuilder) Cause(err error) *ErrorBuilder {
	b.err.Cause = err
	return b
}

// Build returns the constructed TopologyError.
func (b *ErrorBuilder) Build() *TopologyError {
	return &b.err
}

// Err returns the error as an error interface.
func (b *ErrorBuilder) Err() error {
	return &b.err
}

// InvalidBandwidthError creates an error for a non-positive link bandwidth.
func InvalidBandwidthError(src, dst string, bw float64) error {
	return NewError("add_edge").Link(src, dst).Bandwidth(bw).Cause(ErrInvalidBandwidth).Err()
}

// LinkNotFoundError creates an error for a link that does not exist.
func LinkNotFoundError(op, src, dst string) error {
	return NewError(op).Link(src, dst).Cause(ErrLinkNotFound).Err()
}

// UnknownSwitchError creates an error for a switch absent from the topology.
func UnknownSwitchError(op, id string) error {
	return NewError(op).Switch(id).Cause(ErrUnknownNode).Err()
}

// IsNotFound returns true if the error reports a missing switch or link.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrUnknownNode) || errors.Is(err, ErrLinkNotFound)
}
