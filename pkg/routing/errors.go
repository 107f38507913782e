package routing

import (
	"errors"
	"fmt"

	"github.com/dd0wney/cluso-sdn/pkg/topology"
)

// Common sentinel errors
var (
	// ErrUnknownNode is shared with the topology package so callers can match
	// either layer with a single errors.Is check.
	ErrUnknownNode      = topology.ErrUnknownNode
	ErrNoPath           = errors.New("no path")
	ErrEnumerationLimit = errors.New("graph exceeds path enumeration limit")
	ErrInvalidPath      = errors.New("invalid path")
)

// RouteError describes a failed path computation between two switches.
type RouteError struct {
	Op    string // "shortest_path", "k_shortest_paths", "path_weight"
	Src   string
	Dst   string
	Cause error
}

// Error implements the error interface.
func (e *RouteError) Error() string {
	return fmt.Sprintf("%s %s->%s: %v", e.Op, e.Src, e.Dst, e.Cause)
}

// Unwrap returns the underlying cause for error chain support.
func (e *RouteError) Unwrap() error {
	return e.Cause
}

func routeError(op, src, dst string, cause error) error {
	return &RouteError{Op: op, Src: src, Dst: dst, Cause: cause}
}

// IsNoRoute returns true if the error means src and dst cannot be connected,
// either because one is unknown or because no path exists.
func IsNoRoute(err error) bool {
	return errors.Is(err, ErrNoPath) || errors.Is(err, ErrUnknownNode)
}
