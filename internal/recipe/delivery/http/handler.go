package http

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/tair/foodgram/internal/recipe/domain"
	"github.com/tair/foodgram/internal/recipe/report"
	"github.com/tair/foodgram/internal/recipe/usecase/command"
	"github.com/tair/foodgram/internal/recipe/usecase/query"
	"github.com/tair/foodgram/pkg/logger"
)

// Commands groups the write-side handlers
type Commands struct {
	CreateRecipe   *command.CreateRecipeHandler
	UpdateRecipe   *command.UpdateRecipeHandler
	DeleteRecipe   *command.DeleteRecipeHandler
	AddRelation    *command.AddRelationHandler
	RemoveRelation *command.RemoveRelationHandler
}

// Queries groups the read-side handlers
type Queries struct {
	ListRecipes       *query.ListRecipesHandler
	GetRecipe         *query.GetRecipeHandler
	ListTags          *query.ListTagsHandler
	GetTag            *query.GetTagHandler
	SearchIngredients *query.SearchIngredientsHandler
	GetIngredient     *query.GetIngredientHandler
	ListSubscriptions *query.ListSubscriptionsHandler
	GetUser           *query.GetUserHandler
	ShoppingReport    *query.ShoppingReportHandler
	Projector         *query.Projector
}

// Options tunes the HTTP surface
type Options struct {
	PageSize   int
	Registerer prometheus.Registerer
}

// RecipeHandler handles HTTP requests for recipes using CQRS pattern
type RecipeHandler struct {
	commands Commands
	queries  Queries
	recipes  domain.RecipeRepository
	limiter  *RateLimiter
	pageSize int

	requestCounter *prometheus.CounterVec
	requestLatency *prometheus.HistogramVec
	requestSummary *prometheus.SummaryVec
	totalRecipes   prometheus.Gauge
}

// NewRecipeHandler creates a new recipe handler and registers its metrics
func NewRecipeHandler(commands Commands, queries Queries, recipes domain.RecipeRepository, limiter *RateLimiter, opts Options) *RecipeHandler {
	if opts.PageSize < 1 {
		opts.PageSize = query.DefaultPageSize
	}
	if opts.Registerer == nil {
		opts.Registerer = prometheus.DefaultRegisterer
	}

	requestCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "foodgram_requests_total",
			Help: "Total number of requests to the recipe API",
		},
		[]string{"method", "endpoint", "status"},
	)

	requestLatency := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "foodgram_request_duration_seconds",
			Help:    "Duration of recipe API requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	requestSummary := prometheus.NewSummaryVec(
		prometheus.SummaryOpts{
			Name: "foodgram_request_duration_summary",
			Help: "Summary of request durations with percentiles",
			Objectives: map[float64]float64{
				0.5:  0.05,
				0.9:  0.01,
				0.95: 0.01,
				0.99: 0.001,
			},
			MaxAge: 10 * time.Minute,
		},
		[]string{"method", "endpoint"},
	)

	totalRecipes := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "foodgram_total_recipes",
			Help: "Total number of recipes in the catalog",
		},
	)

	opts.Registerer.MustRegister(requestCounter, requestLatency, requestSummary, totalRecipes)

	return &RecipeHandler{
		commands:       commands,
		queries:        queries,
		recipes:        recipes,
		limiter:        limiter,
		pageSize:       opts.PageSize,
		requestCounter: requestCounter,
		requestLatency: requestLatency,
		requestSummary: requestSummary,
		totalRecipes:   totalRecipes,
	}
}

// metricsMiddleware wraps handlers with Prometheus metrics
func (h *RecipeHandler) metricsMiddleware(endpoint string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()
		h.requestCounter.WithLabelValues(r.Method, endpoint, strconv.Itoa(rw.statusCode)).Inc()
		h.requestLatency.WithLabelValues(r.Method, endpoint).Observe(duration)
		h.requestSummary.WithLabelValues(r.Method, endpoint).Observe(duration)
	}
}

// write wraps a mutating endpoint with metrics, authentication and rate limiting
func (h *RecipeHandler) write(endpoint string, next http.HandlerFunc) http.HandlerFunc {
	return h.metricsMiddleware(endpoint, requireAuth(h.limiter.Limit(next)))
}

func (h *RecipeHandler) RegisterRoutes(router *mux.Router) {
	api := router.PathPrefix("/api").Subrouter()

	// Recipes; the shopping download must be matched before the id routes
	api.HandleFunc("/recipes/", h.metricsMiddleware("/api/recipes/", h.ListRecipes)).Methods("GET")
	api.HandleFunc("/recipes/", h.write("/api/recipes/", h.CreateRecipe)).Methods("POST")
	api.HandleFunc("/recipes/download_shopping_cart/", h.metricsMiddleware("/api/recipes/download_shopping_cart/", requireAuth(h.DownloadShoppingCart))).Methods("GET")
	api.HandleFunc("/recipes/{id:[0-9]+}/", h.metricsMiddleware("/api/recipes/{id}/", h.GetRecipe)).Methods("GET")
	api.HandleFunc("/recipes/{id:[0-9]+}/", h.write("/api/recipes/{id}/", h.UpdateRecipe)).Methods("PATCH")
	api.HandleFunc("/recipes/{id:[0-9]+}/", h.write("/api/recipes/{id}/", h.DeleteRecipe)).Methods("DELETE")

	// Relation toggles
	api.HandleFunc("/recipes/{id:[0-9]+}/favorite/", h.write("/api/recipes/{id}/favorite/", h.addRelation(domain.FavoriteRelation))).Methods("POST")
	api.HandleFunc("/recipes/{id:[0-9]+}/favorite/", h.write("/api/recipes/{id}/favorite/", h.removeRelation(domain.FavoriteRelation))).Methods("DELETE")
	api.HandleFunc("/recipes/{id:[0-9]+}/shopping_cart/", h.write("/api/recipes/{id}/shopping_cart/", h.addRelation(domain.ShoppingRelation))).Methods("POST")
	api.HandleFunc("/recipes/{id:[0-9]+}/shopping_cart/", h.write("/api/recipes/{id}/shopping_cart/", h.removeRelation(domain.ShoppingRelation))).Methods("DELETE")
	api.HandleFunc("/users/{id:[0-9]+}/subscribe/", h.write("/api/users/{id}/subscribe/", h.addRelation(domain.SubscribeRelation))).Methods("POST")
	api.HandleFunc("/users/{id:[0-9]+}/subscribe/", h.write("/api/users/{id}/subscribe/", h.removeRelation(domain.SubscribeRelation))).Methods("DELETE")

	// Users
	api.HandleFunc("/users/subscriptions/", h.metricsMiddleware("/api/users/subscriptions/", requireAuth(h.ListSubscriptions))).Methods("GET")
	api.HandleFunc("/users/me/", h.metricsMiddleware("/api/users/me/", requireAuth(h.Me))).Methods("GET")
	api.HandleFunc("/users/{id:[0-9]+}/", h.metricsMiddleware("/api/users/{id}/", h.GetUser)).Methods("GET")

	// Reference data
	api.HandleFunc("/tags/", h.metricsMiddleware("/api/tags/", h.ListTags)).Methods("GET")
	api.HandleFunc("/tags/{id:[0-9]+}/", h.metricsMiddleware("/api/tags/{id}/", h.GetTag)).Methods("GET")
	api.HandleFunc("/ingredients/", h.metricsMiddleware("/api/ingredients/", h.ListIngredients)).Methods("GET")
	api.HandleFunc("/ingredients/{id:[0-9]+}/", h.metricsMiddleware("/api/ingredients/{id}/", h.GetIngredient)).Methods("GET")
}

// Pinger is satisfied by *sql.DB
type Pinger interface {
	PingContext(ctx context.Context) error
}

func (h *RecipeHandler) RegisterHealthCheck(router *mux.Router, db Pinger) {
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		if err := db.PingContext(r.Context()); err != nil {
			logger.Error(r.Context()).Err(err).Msg("Health check failed")
			respondError(w, http.StatusServiceUnavailable, "Database unavailable")
			return
		}

		respondJSON(w, http.StatusOK, Response{
			Success: true,
			Message: "Foodgram service is healthy",
		})
	}).Methods("GET")
}

// ListRecipes godoc
// @Summary List recipes
// @Description Newest first. Identity filters return nothing for anonymous requests.
// @Tags Recipes
// @Produce json
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Param author query int false "Author ID"
// @Param tags query []string false "Tag slugs" collectionFormat(multi)
// @Param is_favorited query string false "0 or 1"
// @Param is_in_shopping_cart query string false "0 or 1"
// @Success 200 {object} object{count=int,next=string,previous=string,results=[]query.RecipeView}
// @Failure 400 {object} Response
// @Router /api/recipes/ [get]
func (h *RecipeHandler) ListRecipes(w http.ResponseWriter, r *http.Request) {
	filter, err := domain.ParseRecipeFilter(r.URL.Query())
	if err != nil {
		respondDomainError(r.Context(), w, err)
		return
	}
	page, limit := pagination(r, h.pageSize)

	result, err := h.queries.ListRecipes.Handle(r.Context(), query.ListRecipesQuery{
		Actor:  ActorFromContext(r.Context()),
		Filter: filter,
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		respondDomainError(r.Context(), w, err)
		return
	}

	respondJSON(w, http.StatusOK, newPageResponse(r, result))
}

// GetRecipe godoc
// @Summary Get recipe by ID
// @Tags Recipes
// @Produce json
// @Param id path int true "Recipe ID"
// @Success 200 {object} query.RecipeView
// @Failure 404 {object} Response
// @Router /api/recipes/{id}/ [get]
func (h *RecipeHandler) GetRecipe(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid recipe ID")
		return
	}

	view, err := h.queries.GetRecipe.Handle(r.Context(), query.GetRecipeQuery{
		Actor: ActorFromContext(r.Context()),
		ID:    id,
	})
	if err != nil {
		respondDomainError(r.Context(), w, err)
		return
	}

	respondJSON(w, http.StatusOK, view)
}

// CreateRecipe godoc
// @Summary Create a recipe
// @Tags Recipes
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body command.RecipeInput true "Recipe data"
// @Success 201 {object} query.RecipeView
// @Failure 400 {object} Response
// @Failure 401 {object} Response
// @Router /api/recipes/ [post]
func (h *RecipeHandler) CreateRecipe(w http.ResponseWriter, r *http.Request) {
	var input command.RecipeInput
	if err := decodeBody(w, r, &input); err != nil {
		respondDomainError(r.Context(), w, err)
		return
	}

	actor := ActorFromContext(r.Context())
	recipe, err := h.commands.CreateRecipe.Handle(r.Context(), command.CreateRecipeCommand{
		Actor: actor,
		Input: input,
	})
	if err != nil {
		respondDomainError(r.Context(), w, err)
		return
	}
	h.updateRecipesMetric(r.Context())

	h.respondRecipe(w, r, http.StatusCreated, actor, recipe.ID)
}

// UpdateRecipe godoc
// @Summary Update a recipe
// @Description Tags and ingredients replace the current sets; omitted scalar fields are kept.
// @Tags Recipes
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Recipe ID"
// @Param request body command.UpdateRecipeInput true "Recipe changes"
// @Success 200 {object} query.RecipeView
// @Failure 400 {object} Response
// @Failure 403 {object} Response
// @Failure 404 {object} Response
// @Router /api/recipes/{id}/ [patch]
func (h *RecipeHandler) UpdateRecipe(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid recipe ID")
		return
	}

	var input command.UpdateRecipeInput
	if err := decodeBody(w, r, &input); err != nil {
		respondDomainError(r.Context(), w, err)
		return
	}

	actor := ActorFromContext(r.Context())
	recipe, err := h.commands.UpdateRecipe.Handle(r.Context(), command.UpdateRecipeCommand{
		Actor: actor,
		ID:    id,
		Input: input,
	})
	if err != nil {
		respondDomainError(r.Context(), w, err)
		return
	}

	h.respondRecipe(w, r, http.StatusOK, actor, recipe.ID)
}

// DeleteRecipe godoc
// @Summary Delete a recipe
// @Tags Recipes
// @Security BearerAuth
// @Param id path int true "Recipe ID"
// @Success 204
// @Failure 403 {object} Response
// @Failure 404 {object} Response
// @Router /api/recipes/{id}/ [delete]
func (h *RecipeHandler) DeleteRecipe(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid recipe ID")
		return
	}

	err = h.commands.DeleteRecipe.Handle(r.Context(), command.DeleteRecipeCommand{
		Actor: ActorFromContext(r.Context()),
		ID:    id,
	})
	if err != nil {
		respondDomainError(r.Context(), w, err)
		return
	}
	h.updateRecipesMetric(r.Context())

	w.WriteHeader(http.StatusNoContent)
}

// respondRecipe renders a freshly written recipe through the read projection
func (h *RecipeHandler) respondRecipe(w http.ResponseWriter, r *http.Request, status int, actor domain.Actor, id uint) {
	view, err := h.queries.GetRecipe.Handle(r.Context(), query.GetRecipeQuery{Actor: actor, ID: id})
	if err != nil {
		respondDomainError(r.Context(), w, err)
		return
	}
	respondJSON(w, status, view)
}

// addRelation handles POST on favorite, shopping_cart and subscribe
func (h *RecipeHandler) addRelation(kind domain.RelationKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid ID")
			return
		}

		actor := ActorFromContext(r.Context())
		target, err := h.commands.AddRelation.Handle(r.Context(), command.RelationCommand{
			Kind:     kind,
			Actor:    actor,
			TargetID: id,
		})
		if err != nil {
			respondDomainError(r.Context(), w, err)
			return
		}

		if target.Author != nil {
			view, err := h.queries.Projector.Author(r.Context(), actor, target.Author, recipesLimit(r))
			if err != nil {
				respondDomainError(r.Context(), w, err)
				return
			}
			respondJSON(w, http.StatusCreated, view)
			return
		}
		respondJSON(w, http.StatusCreated, h.queries.Projector.Summary(target.Recipe))
	}
}

// removeRelation handles DELETE on favorite, shopping_cart and subscribe
func (h *RecipeHandler) removeRelation(kind domain.RelationKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid ID")
			return
		}

		err = h.commands.RemoveRelation.Handle(r.Context(), command.RelationCommand{
			Kind:     kind,
			Actor:    ActorFromContext(r.Context()),
			TargetID: id,
		})
		if err != nil {
			respondDomainError(r.Context(), w, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

// DownloadShoppingCart godoc
// @Summary Download the shopping list
// @Tags Recipes
// @Security BearerAuth
// @Produce text/csv,text/plain
// @Param format query string false "csv (default) or txt"
// @Success 200 {file} file
// @Failure 401 {object} Response
// @Router /api/recipes/download_shopping_cart/ [get]
func (h *RecipeHandler) DownloadShoppingCart(w http.ResponseWriter, r *http.Request) {
	format, err := report.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		respondDomainError(r.Context(), w, err)
		return
	}

	shopping, err := h.queries.ShoppingReport.Handle(r.Context(), query.ShoppingReportQuery{
		Actor: ActorFromContext(r.Context()),
	})
	if err != nil {
		respondDomainError(r.Context(), w, err)
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", `attachment; filename="`+format.Filename()+`"`)
	w.WriteHeader(http.StatusOK)
	if err := report.Write(w, format, shopping); err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to write shopping report")
	}
}

// ListSubscriptions godoc
// @Summary List followed authors
// @Tags Users
// @Security BearerAuth
// @Produce json
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Param recipes_limit query int false "Recipes per author"
// @Success 200 {object} object{count=int,next=string,previous=string,results=[]query.AuthorView}
// @Failure 401 {object} Response
// @Router /api/users/subscriptions/ [get]
func (h *RecipeHandler) ListSubscriptions(w http.ResponseWriter, r *http.Request) {
	page, limit := pagination(r, h.pageSize)

	result, err := h.queries.ListSubscriptions.Handle(r.Context(), query.ListSubscriptionsQuery{
		Actor:        ActorFromContext(r.Context()),
		Page:         page,
		Limit:        limit,
		RecipesLimit: recipesLimit(r),
	})
	if err != nil {
		respondDomainError(r.Context(), w, err)
		return
	}

	respondJSON(w, http.StatusOK, newPageResponse(r, result))
}

// GetUser godoc
// @Summary Get user profile
// @Tags Users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} query.UserView
// @Failure 404 {object} Response
// @Router /api/users/{id}/ [get]
func (h *RecipeHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}
	h.respondUser(w, r, id)
}

// Me godoc
// @Summary Get the current user
// @Tags Users
// @Security BearerAuth
// @Produce json
// @Success 200 {object} query.UserView
// @Failure 401 {object} Response
// @Router /api/users/me/ [get]
func (h *RecipeHandler) Me(w http.ResponseWriter, r *http.Request) {
	h.respondUser(w, r, ActorFromContext(r.Context()).ID)
}

func (h *RecipeHandler) respondUser(w http.ResponseWriter, r *http.Request, id uint) {
	view, err := h.queries.GetUser.Handle(r.Context(), query.GetUserQuery{
		Actor: ActorFromContext(r.Context()),
		ID:    id,
	})
	if err != nil {
		respondDomainError(r.Context(), w, err)
		return
	}
	respondJSON(w, http.StatusOK, view)
}

// ListTags godoc
// @Summary List tags
// @Tags Tags
// @Produce json
// @Success 200 {array} domain.Tag
// @Router /api/tags/ [get]
func (h *RecipeHandler) ListTags(w http.ResponseWriter, r *http.Request) {
	tags, err := h.queries.ListTags.Handle(r.Context())
	if err != nil {
		respondDomainError(r.Context(), w, err)
		return
	}
	respondJSON(w, http.StatusOK, tags)
}

// GetTag godoc
// @Summary Get tag by ID
// @Tags Tags
// @Produce json
// @Param id path int true "Tag ID"
// @Success 200 {object} domain.Tag
// @Failure 404 {object} Response
// @Router /api/tags/{id}/ [get]
func (h *RecipeHandler) GetTag(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid tag ID")
		return
	}

	tag, err := h.queries.GetTag.Handle(r.Context(), id)
	if err != nil {
		respondDomainError(r.Context(), w, err)
		return
	}
	respondJSON(w, http.StatusOK, tag)
}

// ListIngredients godoc
// @Summary Search ingredients
// @Description Names starting with the query come first, then names containing it.
// @Tags Ingredients
// @Produce json
// @Param name query string false "Name prefix"
// @Success 200 {array} domain.Ingredient
// @Router /api/ingredients/ [get]
func (h *RecipeHandler) ListIngredients(w http.ResponseWriter, r *http.Request) {
	ingredients, err := h.queries.SearchIngredients.Handle(r.Context(), query.SearchIngredientsQuery{
		Name: r.URL.Query().Get("name"),
	})
	if err != nil {
		respondDomainError(r.Context(), w, err)
		return
	}
	respondJSON(w, http.StatusOK, ingredients)
}

// GetIngredient godoc
// @Summary Get ingredient by ID
// @Tags Ingredients
// @Produce json
// @Param id path int true "Ingredient ID"
// @Success 200 {object} domain.Ingredient
// @Failure 404 {object} Response
// @Router /api/ingredients/{id}/ [get]
func (h *RecipeHandler) GetIngredient(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid ingredient ID")
		return
	}

	ingredient, err := h.queries.GetIngredient.Handle(r.Context(), id)
	if err != nil {
		respondDomainError(r.Context(), w, err)
		return
	}
	respondJSON(w, http.StatusOK, ingredient)
}

// updateRecipesMetric updates the total recipes gauge
func (h *RecipeHandler) updateRecipesMetric(ctx context.Context) {
	count, err := h.recipes.CountRecipes(ctx)
	if err == nil {
		h.totalRecipes.Set(float64(count))
	}
}
