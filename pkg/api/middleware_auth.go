package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/dd0wney/cluso-sdn/pkg/auth"
	"github.com/dd0wney/cluso-sdn/pkg/logging"
)

type contextKey string

const claimsContextKey contextKey = "claims"

// anonymousActor attributes audit events when auth is disabled
const anonymousActor = "anonymous"

// requireAuth validates the bearer token when auth is enabled and stores
// the claims in the request context
func (s *Server) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return s.authenticate(next, false)
}

// requireOperator is requireAuth plus the operator role
func (s *Server) requireOperator(next http.HandlerFunc) http.HandlerFunc {
	return s.authenticate(next, true)
}

func (s *Server) authenticate(next http.HandlerFunc, mutate bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.config.Auth.Enabled {
			next(w, r)
			return
		}

		token, err := auth.BearerToken(r.Header.Get("Authorization"))
		if err == nil {
			var claims *auth.Claims
			claims, err = s.validator.ValidateToken(r.Context(), token)
			if err == nil {
				if mutate && !claims.CanMutate() {
					s.authFailed(r, auth.ErrForbiddenRoute)
					s.respondError(w, http.StatusForbidden, auth.ErrForbiddenRoute.Error())
					return
				}
				next(w, r.WithContext(context.WithValue(r.Context(), claimsContextKey, claims)))
				return
			}
		}

		s.authFailed(r, err)
		message := "Invalid or expired token"
		if errors.Is(err, auth.ErrMissingToken) {
			message = "Missing bearer token"
		}
		s.respondError(w, http.StatusUnauthorized, message)
	}
}

func (s *Server) authFailed(r *http.Request, err error) {
	if s.metrics != nil {
		s.metrics.AuthFailuresTotal.Inc()
	}
	s.logger.Warn("authentication failed",
		logging.String("path", r.URL.Path),
		logging.Error(err),
	)
}

// claimsFromContext returns the caller's claims, or nil without auth
func claimsFromContext(ctx context.Context) *auth.Claims {
	claims, _ := ctx.Value(claimsContextKey).(*auth.Claims)
	return claims
}

// actor names the caller for audit attribution
func actor(r *http.Request) string {
	if claims := claimsFromContext(r.Context()); claims != nil && claims.Subject != "" {
		return claims.Subject
	}
	return anonymousActor
}
