package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"reflect"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/tair/foodgram/internal/recipe/domain"
	"github.com/tair/foodgram/internal/recipe/usecase/query"
	"github.com/tair/foodgram/pkg/logger"
)

const (
	maxPageSize = 100
	// room for a maximum-size base64 image plus the rest of a recipe
	maxBodyBytes = 16 << 20
)

var errInvalidID = errors.New("invalid id")

// Response is the envelope of errors and message-only replies
type Response struct {
	Success bool              `json:"success"`
	Message string            `json:"message,omitempty"`
	Data    interface{}       `json:"data,omitempty"`
	Error   string            `json:"error,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// PageResponse is one page of a paginated listing
type PageResponse[T any] struct {
	Count    int64   `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

// respondError sends an error envelope
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, Response{Success: false, Error: message})
}

// respondDomainError maps a usecase failure to its status code. Unclassified
// errors are logged and reported without details.
func respondDomainError(ctx context.Context, w http.ResponseWriter, err error) {
	var domainErr *domain.Error
	if !errors.As(err, &domainErr) {
		logger.Error(ctx).Err(err).Msg("Request failed")
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	status := http.StatusBadRequest
	switch domainErr.Kind {
	case domain.KindUnauthenticated:
		status = http.StatusUnauthorized
	case domain.KindForbidden:
		status = http.StatusForbidden
	case domain.KindNotFound:
		status = http.StatusNotFound
	}

	respondJSON(w, status, Response{
		Success: false,
		Error:   domainErr.Message,
		Fields:  domainErr.Fields,
	})
}

func newPageResponse[T any](r *http.Request, page *query.Page[T]) PageResponse[T] {
	resp := PageResponse[T]{Count: page.Count, Results: page.Results}
	if resp.Results == nil {
		resp.Results = []T{}
	}
	if page.HasNext() {
		next := pageURL(r, page.Page+1)
		resp.Next = &next
	}
	if page.HasPrevious() {
		previous := pageURL(r, page.Page-1)
		resp.Previous = &previous
	}
	return resp
}

// pageURL rebuilds the request URL pointing at another page
func pageURL(r *http.Request, page int) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}

	values := r.URL.Query()
	if page <= 1 {
		values.Del("page")
	} else {
		values.Set("page", strconv.Itoa(page))
	}

	u := url.URL{Scheme: scheme, Host: r.Host, Path: r.URL.Path, RawQuery: values.Encode()}
	return u.String()
}

// pagination reads page and limit, falling back to defaults on bad input
func pagination(r *http.Request, defaultLimit int) (int, int) {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit < 1 {
		limit = defaultLimit
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	return min(page, query.MaxPage(limit)), limit
}

// recipesLimit reads recipes_limit; non-numeric or negative values mean no cap
func recipesLimit(r *http.Request) int {
	limit, err := strconv.Atoi(r.URL.Query().Get("recipes_limit"))
	if err != nil || limit < 0 {
		return 0
	}
	return limit
}

func pathID(r *http.Request) (uint, error) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
	if err != nil || id == 0 {
		return 0, errInvalidID
	}
	return uint(id), nil
}

// decodeBody reads a size-bounded JSON body. Type mismatches are reported
// against the offending field.
func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	err := json.NewDecoder(r.Body).Decode(v)
	if err == nil {
		return nil
	}

	var typeErr *json.UnmarshalTypeError
	var sizeErr *http.MaxBytesError
	switch {
	case errors.As(err, &typeErr) && typeErr.Field != "":
		return domain.Validation("Invalid request body", map[string]string{
			typeErr.Field: "Expected " + jsonKind(typeErr.Type),
		})
	case errors.As(err, &sizeErr):
		return domain.Validation(fmt.Sprintf("Request body exceeds %d bytes", sizeErr.Limit), nil)
	}
	return domain.Validation("Invalid request body", nil)
}

func jsonKind(t reflect.Type) string {
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return "a number"
	case reflect.String:
		return "a string"
	case reflect.Bool:
		return "a boolean"
	case reflect.Slice, reflect.Array:
		return "a list"
	case reflect.Pointer:
		return jsonKind(t.Elem())
	default:
		return "an object"
	}
}
