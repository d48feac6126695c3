package http

import (
	"net/http"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/tair/foodgram/internal/config"
	"github.com/tair/foodgram/pkg/logger"
)

// MiddlewareConfig describes the middleware chain of the API router
type MiddlewareConfig struct {
	RequestTimeout time.Duration
	AllowedOrigins []string
	Tracing        bool
	Authenticator  *Authenticator
}

// NewMiddlewareConfig derives the chain settings from the service configuration
func NewMiddlewareConfig(cfg *config.Config, authenticator *Authenticator) *MiddlewareConfig {
	return &MiddlewareConfig{
		RequestTimeout: cfg.RequestTimeout,
		AllowedOrigins: cfg.AllowedOrigins,
		Tracing:        cfg.TracingEnabled,
		Authenticator:  authenticator,
	}
}

type namedMiddleware struct {
	name string
	mw   mux.MiddlewareFunc
}

// RegisterMiddlewares installs the chain on the router, outermost first:
// recovery, request id, timeout, tracing, logging, security headers, authentication.
func RegisterMiddlewares(router *mux.Router, mc *MiddlewareConfig) {
	chain := []namedMiddleware{
		{"recovery", RecoveryMiddleware},
		{"request_id", RequestIDMiddleware},
	}
	if mc.RequestTimeout > 0 {
		chain = append(chain, namedMiddleware{"timeout", TimeoutMiddleware(mc.RequestTimeout)})
	}
	if mc.Tracing {
		chain = append(chain, namedMiddleware{"tracing", TracingMiddleware("foodgram-http-request")})
	}
	chain = append(chain,
		namedMiddleware{"logging", LoggingMiddleware},
		namedMiddleware{"security_headers", SecurityHeadersMiddleware},
	)
	if mc.Authenticator != nil {
		chain = append(chain, namedMiddleware{"authentication", mc.Authenticator.Middleware})
	}

	names := make([]string, 0, len(chain))
	for _, m := range chain {
		router.Use(m.mw)
		names = append(names, m.name)
	}

	logger.Logger.Info().
		Strs("middlewares", names).
		Dur("request_timeout", mc.RequestTimeout).
		Msg("Middlewares registered")
}

// RecoveryMiddleware turns a panic into a 500 error envelope
func RecoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				logger.Error(r.Context()).
					Interface("panic", err).
					Str("method", r.Method).
					Str("path", r.URL.Path).
					Str("request_id", r.Header.Get(requestIDHeader)).
					Msg("Panic recovered")

				respondError(w, http.StatusInternalServerError, "Internal server error")
			}
		}()

		next.ServeHTTP(w, r)
	})
}

// TimeoutMiddleware bounds the time a handler may spend on one request
func TimeoutMiddleware(timeout time.Duration) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.TimeoutHandler(next, timeout, "Request timeout")
	}
}

const requestIDHeader = "X-Request-ID"

// RequestIDMiddleware keeps the caller's X-Request-ID or assigns a new one
func RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(requestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
			r.Header.Set(requestIDHeader, requestID)
		}
		w.Header().Set(requestIDHeader, requestID)

		next.ServeHTTP(w, r)
	})
}

// SecurityHeadersMiddleware adds security headers to responses
func SecurityHeadersMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		next.ServeHTTP(w, r)
	})
}

// CORSHandler wraps the whole router so preflight requests never reach mux.
// Credentials are only allowed for an explicit origin list.
func CORSHandler(mc *MiddlewareConfig) func(http.Handler) http.Handler {
	origins := mc.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	c := cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type", requestIDHeader},
		ExposedHeaders:   []string{requestIDHeader, "Content-Disposition", "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset", "Retry-After"},
		AllowCredentials: !slices.Contains(origins, "*"),
	})
	return c.Handler
}
