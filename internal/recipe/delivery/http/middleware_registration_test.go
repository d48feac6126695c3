package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tair/foodgram/internal/config"
)

func TestNewMiddlewareConfig(t *testing.T) {
	mc := NewMiddlewareConfig(&config.Config{
		RequestTimeout: 5 * time.Second,
		AllowedOrigins: []string{"https://foodgram.example"},
		TracingEnabled: true,
	}, nil)

	assert.Equal(t, 5*time.Second, mc.RequestTimeout)
	assert.Equal(t, []string{"https://foodgram.example"}, mc.AllowedOrigins)
	assert.True(t, mc.Tracing)
	assert.Nil(t, mc.Authenticator)
}

func TestRegisterMiddlewares(t *testing.T) {
	router := mux.NewRouter()
	RegisterMiddlewares(router, &MiddlewareConfig{RequestTimeout: time.Second})

	router.HandleFunc("/ok", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"request_id": r.Header.Get(requestIDHeader)})
	})
	router.HandleFunc("/panic", func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})
	router.HandleFunc("/slow", func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(5 * time.Second):
		}
	})

	t.Run("request id is generated and echoed", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ok", nil))
		require.Equal(t, http.StatusOK, rec.Code)

		id := rec.Header().Get(requestIDHeader)
		assert.NotEmpty(t, id)

		var body map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, id, body["request_id"])
	})

	t.Run("incoming request id is kept", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/ok", nil)
		req.Header.Set(requestIDHeader, "abc-123")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, "abc-123", rec.Header().Get(requestIDHeader))
	})

	t.Run("security headers", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ok", nil))
		assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
		assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	})

	t.Run("panics become 500", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/panic", nil))
		require.Equal(t, http.StatusInternalServerError, rec.Code)

		var body Response
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.False(t, body.Success)
		assert.Equal(t, "Internal server error", body.Error)
	})

	t.Run("slow handlers time out", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/slow", nil))
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})
}

func TestCORSHandler(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	t.Run("wildcard origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/tags/", nil)
		req.Header.Set("Origin", "http://frontend.local")
		rec := httptest.NewRecorder()
		CORSHandler(&MiddlewareConfig{})(next).ServeHTTP(rec, req)

		assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
		assert.Empty(t, rec.Header().Get("Access-Control-Allow-Credentials"))
	})

	t.Run("explicit origins", func(t *testing.T) {
		mc := &MiddlewareConfig{AllowedOrigins: []string{"https://foodgram.example"}}

		req := httptest.NewRequest(http.MethodGet, "/api/tags/", nil)
		req.Header.Set("Origin", "https://foodgram.example")
		rec := httptest.NewRecorder()
		CORSHandler(mc)(next).ServeHTTP(rec, req)
		assert.Equal(t, "https://foodgram.example", rec.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))

		req.Header.Set("Origin", "https://evil.example")
		rec = httptest.NewRecorder()
		CORSHandler(mc)(next).ServeHTTP(rec, req)
		assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	})
}
