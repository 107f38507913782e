// Package middleware provides HTTP middleware for the controller API.
//
// All middleware follows the standard pattern: func(http.Handler) http.Handler
// This allows easy chaining: handler = middleware1(middleware2(handler))
//
// Example usage:
//
//	handler := middleware.PanicRecovery(logger)(mux)
//	handler = middleware.Logging(logger)(handler)
//	handler = middleware.RequestID()(handler)
//	handler = middleware.CORS(middleware.DefaultCORSConfig())(handler)
package middleware
