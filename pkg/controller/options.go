package controller

import (
	"github.com/dd0wney/cluso-sdn/pkg/audit"
	"github.com/dd0wney/cluso-sdn/pkg/events"
	"github.com/dd0wney/cluso-sdn/pkg/logging"
	"github.com/dd0wney/cluso-sdn/pkg/metrics"
	"github.com/dd0wney/cluso-sdn/pkg/routing"
)

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the structured logger. The default discards output.
func WithLogger(l logging.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithMetrics publishes controller state to a Prometheus registry.
func WithMetrics(r *metrics.Registry) Option {
	return func(c *Controller) { c.metrics = r }
}

// WithEvents publishes control-plane changes on a bus.
func WithEvents(b *events.Bus) Option {
	return func(c *Controller) { c.bus = b }
}

// WithAudit records every mutation in an audit trail.
func WithAudit(a *audit.Logger) Option {
	return func(c *Controller) { c.audit = a }
}

// WithLimits bounds k-shortest path enumeration.
func WithLimits(l routing.Limits) Option {
	return func(c *Controller) { c.limits = l }
}
