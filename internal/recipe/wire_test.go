package recipe

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tair/foodgram/internal/config"
	"github.com/tair/foodgram/internal/recipe/domain"
	"github.com/tair/foodgram/internal/recipe/repository/repotest"
	"github.com/tair/foodgram/kafka"
	"github.com/tair/foodgram/pkg/auth"
)

func testConfig(t *testing.T) *config.Config {
	return &config.Config{
		JWTSecret:         "wire-secret",
		JWTExpiresIn:      time.Hour,
		CacheTTL:          time.Minute,
		RateLimitRequests: 10,
		RateLimitWindow:   time.Minute,
		MediaRoot:         t.TempDir(),
		MediaURL:          "/media/",
		PageSize:          6,
	}
}

func TestInitializeHTTPHandler(t *testing.T) {
	store := repotest.New(t)
	cfg := testConfig(t)

	mr := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer redisClient.Close()

	handler, err := InitializeHTTPHandler(store.DB, redisClient, kafka.NopPublisher{}, cfg)
	require.NoError(t, err)
	authenticator, err := InitializeAuthenticator(store.DB, redisClient, cfg)
	require.NoError(t, err)

	router := mux.NewRouter()
	router.Use(authenticator.Middleware)
	handler.RegisterRoutes(router)

	t.Run("reference data is served and cached", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/tags/", nil))
		require.Equal(t, http.StatusOK, rec.Code)

		var tags []domain.Tag
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tags))
		assert.Len(t, tags, 2)
		assert.True(t, mr.Exists("foodgram:tags"))
	})

	t.Run("writes require a token", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/recipes/", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("tokens signed with the configured secret are accepted", func(t *testing.T) {
		token, err := auth.NewManager(cfg.JWTSecret, cfg.JWTExpiresIn).GenerateToken(auth.Claims{
			UserID:   store.Alice.ID,
			Username: store.Alice.Username,
			Role:     domain.RoleUser,
		})
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/api/users/me/", nil)
		req.Header.Set("Authorization", "Token "+token)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"username":"alice"`)
	})
}

func TestInitializeNotifier(t *testing.T) {
	store := repotest.New(t)

	notifier, err := InitializeNotifier(store.DB)
	require.NoError(t, err)
	require.NotNil(t, notifier)

	err = notifier.HandleRecipeCreated(t.Context(), kafka.RecipeEvent{
		EventID:   "evt-1",
		EventType: kafka.EventTypeRecipeCreated,
		AuthorID:  store.Alice.ID,
	})
	assert.NoError(t, err)
}
