package http

import (
	"context"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/trace"

	"github.com/tair/foodgram/internal/recipe/domain"
	"github.com/tair/foodgram/pkg/auth"
	"github.com/tair/foodgram/pkg/logger"
)

type contextKey string

const actorKey contextKey = "actor"

// WithActor attaches the requesting identity to the context
func WithActor(ctx context.Context, actor domain.Actor) context.Context {
	return context.WithValue(ctx, actorKey, actor)
}

// ActorFromContext returns the requesting identity, or Anonymous
func ActorFromContext(ctx context.Context) domain.Actor {
	actor, ok := ctx.Value(actorKey).(domain.Actor)
	if !ok {
		return domain.Anonymous
	}
	return actor
}

// Authenticator resolves bearer tokens into actors and mirrors the user locally
type Authenticator struct {
	tokens *auth.Manager
	users  domain.UserRepository
}

// NewAuthenticator creates a new authenticator
func NewAuthenticator(tokens *auth.Manager, users domain.UserRepository) *Authenticator {
	return &Authenticator{tokens: tokens, users: users}
}

// Middleware attaches the actor when a token is present. Requests without a
// token continue as anonymous; requests with a bad token are rejected.
func (a *Authenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			next.ServeHTTP(w, r)
			return
		}

		// Extract token from "Bearer <token>" or "Token <token>"
		parts := strings.Fields(authHeader)
		if len(parts) != 2 || (parts[0] != "Bearer" && parts[0] != "Token") {
			logger.Warn(r.Context()).Msg("Invalid authorization header format")
			respondError(w, http.StatusUnauthorized, "Invalid authorization header format")
			return
		}

		claims, err := a.tokens.ValidateToken(parts[1])
		if err != nil {
			logger.Warn(r.Context()).Err(err).Msg("Invalid token")
			respondError(w, http.StatusUnauthorized, "Invalid token")
			return
		}

		user := &domain.User{
			ID:        claims.UserID,
			Username:  claims.Username,
			Email:     claims.Email,
			FirstName: claims.FirstName,
			LastName:  claims.LastName,
		}
		if err := a.users.EnsureUser(r.Context(), user); err != nil {
			if domain.IsKind(err, domain.KindConflict) {
				logger.Warn(r.Context()).Err(err).Uint("user_id", claims.UserID).Msg("Token identity conflicts with a mirrored user")
				respondError(w, http.StatusUnauthorized, "Invalid token")
				return
			}
			logger.Error(r.Context()).Err(err).Uint("user_id", claims.UserID).Msg("Failed to mirror user")
			respondError(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		role := claims.Role
		if role == "" {
			role = domain.RoleUser
		}
		logger.Debug(r.Context()).
			Uint("user_id", claims.UserID).
			Str("username", claims.Username).
			Str("role", role).
			Msg("User authenticated")

		ctx := WithActor(r.Context(), domain.Actor{ID: claims.UserID, Username: claims.Username, Role: role})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireAuth rejects anonymous requests before the handler runs
func requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if ActorFromContext(r.Context()).IsAnonymous() {
			respondError(w, http.StatusUnauthorized, domain.UnauthenticatedMessage)
			return
		}
		next.ServeHTTP(w, r)
	}
}

// LoggingMiddleware logs HTTP requests with structured logging
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		ctx := r.Context()
		traceID := "no-trace"
		if span := trace.SpanFromContext(ctx); span.SpanContext().IsValid() {
			traceID = span.SpanContext().TraceID().String()
		}

		logger.Debug(ctx).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("remote_addr", r.RemoteAddr).
			Str("user_agent", r.UserAgent()).
			Str("trace_id", traceID).
			Msg("HTTP request started")

		next.ServeHTTP(ww, r)

		duration := time.Since(start)
		logEvent := logger.WithContext(ctx).Info()
		if ww.statusCode >= 500 {
			logEvent = logger.WithContext(ctx).Error()
		} else if ww.statusCode >= 400 {
			logEvent = logger.WithContext(ctx).Warn()
		}

		logEvent.
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.statusCode).
			Dur("duration", duration).
			Int64("duration_ms", duration.Milliseconds()).
			Str("trace_id", traceID).
			Str("request_id", r.Header.Get(requestIDHeader)).
			Msg("HTTP request completed")
	})
}

// TracingMiddleware wraps HTTP handlers with OpenTelemetry tracing
func TracingMiddleware(operationName string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return otelhttp.NewHandler(next, operationName)
	}
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
