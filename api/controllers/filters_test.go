package controllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/storefront-backend/internal/filter"
)

func newFilterRouter() (chi.Router, *filter.Store) {
	filters := filter.NewStore()
	r := chi.NewRouter()
	r.Get("/filters", GetFilters(filters))
	r.Post("/filters/actions", DispatchFilterAction(filters, nil))
	r.Post("/filters/reset", ResetFilters(filters))
	return r, filters
}

func dispatch(t *testing.T, r chi.Router, body map[string]any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/filters/actions", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestGetFiltersReturnsDefaults(t *testing.T) {
	r, _ := newFilterRouter()

	req := httptest.NewRequest(http.MethodGet, "/filters", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var envelope struct {
		Data filter.Criteria `json:"data"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&envelope))
	assert.Equal(t, filter.SortNewest, envelope.Data.Sort)
	assert.Equal(t, 1, envelope.Data.Page)
}

func TestDispatchActions(t *testing.T) {
	r, filters := newFilterRouter()

	w := dispatch(t, r, map[string]any{"action": "set-search", "search": "shirt"})
	require.Equal(t, http.StatusOK, w.Code)

	w = dispatch(t, r, map[string]any{"action": "set-page", "page": 4})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 4, filters.Current().Page)

	// Any non-pagination mutation rewinds to page 1, sort included.
	w = dispatch(t, r, map[string]any{"action": "set-sort", "sort": "price-asc"})
	require.Equal(t, http.StatusOK, w.Code)
	current := filters.Current()
	assert.Equal(t, filter.SortPriceAsc, current.Sort)
	assert.Equal(t, 1, current.Page)
	assert.Equal(t, "shirt", current.Search)
}

func TestDispatchToggleInStock(t *testing.T) {
	r, filters := newFilterRouter()
	dispatch(t, r, map[string]any{"action": "set-page", "page": 3})

	w := dispatch(t, r, map[string]any{"action": "toggle-in-stock"})
	require.Equal(t, http.StatusOK, w.Code)
	current := filters.Current()
	assert.True(t, current.InStock)
	assert.Equal(t, 1, current.Page)

	w = dispatch(t, r, map[string]any{"action": "toggle-in-stock"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, filters.Current().InStock)
}

func TestDispatchRejectsUnknownAction(t *testing.T) {
	r, _ := newFilterRouter()

	w := dispatch(t, r, map[string]any{"action": "set-color", "search": "x"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDispatchRejectsIncompletePayload(t *testing.T) {
	r, _ := newFilterRouter()

	w := dispatch(t, r, map[string]any{"action": "set-search"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDispatchRejectsUnknownSort(t *testing.T) {
	r, _ := newFilterRouter()

	w := dispatch(t, r, map[string]any{"action": "set-sort", "sort": "cheapest"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDispatchRejectsInvertedPriceRange(t *testing.T) {
	r, _ := newFilterRouter()

	w := dispatch(t, r, map[string]any{"action": "set-price-range", "priceMin": "50", "priceMax": "10"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestResetRestoresDefaults(t *testing.T) {
	r, filters := newFilterRouter()
	dispatch(t, r, map[string]any{"action": "set-search", "search": "shirt"})

	req := httptest.NewRequest(http.MethodPost, "/filters/reset", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	assert.Empty(t, filters.Current().Search)
}
