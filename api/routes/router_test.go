package routes

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/storefront-backend/internal/auth"
	"github.com/angelmondragon/storefront-backend/internal/cart"
	"github.com/angelmondragon/storefront-backend/internal/catalog"
	checkoutsvc "github.com/angelmondragon/storefront-backend/internal/checkout"
	"github.com/angelmondragon/storefront-backend/internal/filter"
	"github.com/angelmondragon/storefront-backend/internal/wishlist"
	"github.com/angelmondragon/storefront-backend/pkg/config"
	"github.com/angelmondragon/storefront-backend/pkg/metrics"
	"github.com/angelmondragon/storefront-backend/pkg/snapshot"
)

type stubFetcher struct{}

func (stubFetcher) FetchAll(context.Context) ([]catalog.Product, error) {
	return []catalog.Product{
		{ID: 1, Title: "Backpack", Category: "men's clothing", Price: decimal.RequireFromString("109.95"), Rating: catalog.Rating{Count: 120}},
	}, nil
}

func (stubFetcher) FetchOne(_ context.Context, id int) (catalog.Product, error) {
	return catalog.Product{ID: id, Title: "Backpack", Category: "men's clothing", Price: decimal.RequireFromString("109.95"), Rating: catalog.Rating{Count: 120}}, nil
}

func (stubFetcher) FetchCategories(context.Context) ([]string, error) {
	return []string{"men's clothing"}, nil
}

type stubAuth struct{}

func (stubAuth) Login(context.Context, auth.Credentials) (*auth.Session, error) {
	return &auth.Session{Token: "token"}, nil
}

func (stubAuth) Register(context.Context, auth.Registration) (*auth.Session, error) {
	return &auth.Session{Token: "token"}, nil
}

func (stubAuth) Logout(context.Context) error { return nil }

func (stubAuth) Session() (auth.Session, bool) { return auth.Session{}, false }

func (stubAuth) Authenticated() bool { return false }

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	cfg := &config.Config{}
	cfg.App.Env = config.AppEnvDev

	catalogService, err := catalog.NewService(catalog.ServiceParams{
		Fetcher: stubFetcher{},
		TTL:     time.Minute,
	})
	require.NoError(t, err)

	store := snapshot.NewMemory()
	engine, err := cart.NewEngine(context.Background(), cart.EngineParams{Store: store})
	require.NoError(t, err)

	checkoutService, err := checkoutsvc.NewService(checkoutsvc.ServiceParams{
		Engine:    engine,
		Submitter: checkoutsvc.SimulatedSubmitter{},
	})
	require.NoError(t, err)

	wishlistStore, err := wishlist.NewStore(context.Background(), wishlist.StoreParams{Snapshots: store})
	require.NoError(t, err)

	registry := prometheus.NewRegistry()

	return NewRouter(Deps{
		Config:    cfg,
		Snapshots: store,
		Registry:  registry,
		HTTP:      metrics.NewHTTPMetrics(registry),
		Catalog:   catalogService,
		Filters:   filter.NewStore(),
		Cart:      engine,
		Drawer:    &cart.Drawer{},
		Checkout:  checkoutService,
		Wishlist:  wishlistStore,
		Auth:      stubAuth{},
	})
}

func TestRouterWiring(t *testing.T) {
	router := newTestRouter(t)

	tests := []struct {
		method string
		path   string
		body   string
		status int
	}{
		{http.MethodGet, "/health/live", "", http.StatusOK},
		{http.MethodGet, "/health/ready", "", http.StatusOK},
		{http.MethodGet, "/metrics", "", http.StatusOK},
		{http.MethodGet, "/api/v1/products", "", http.StatusOK},
		{http.MethodGet, "/api/v1/products/1", "", http.StatusOK},
		{http.MethodGet, "/api/v1/products/categories", "", http.StatusOK},
		{http.MethodGet, "/api/v1/products/1/recommendations", "", http.StatusOK},
		{http.MethodGet, "/api/v1/filters", "", http.StatusOK},
		{http.MethodPost, "/api/v1/filters/reset", "", http.StatusOK},
		{http.MethodGet, "/api/v1/cart", "", http.StatusOK},
		{http.MethodPost, "/api/v1/cart/items", `{"productId":1}`, http.StatusCreated},
		{http.MethodPost, "/api/v1/cart/drawer/toggle", "", http.StatusOK},
		{http.MethodGet, "/api/v1/cart/checkout/methods", "", http.StatusOK},
		{http.MethodGet, "/api/v1/wishlist", "", http.StatusOK},
		{http.MethodPost, "/api/v1/wishlist/items", `{"productId":1}`, http.StatusCreated},
		{http.MethodPost, "/api/v1/auth/login", `{"email":"a@b.com","password":"hunter22x"}`, http.StatusOK},
		{http.MethodPost, "/api/v1/auth/logout", "", http.StatusOK},
		{http.MethodGet, "/api/v1/auth/me", "", http.StatusNotFound},
		{http.MethodGet, "/nope", "", http.StatusNotFound},
	}

	for _, tc := range tests {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, strings.NewReader(tc.body))
			if tc.body != "" {
				req.Header.Set("Content-Type", "application/json")
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			assert.Equal(t, tc.status, w.Code, w.Body.String())
		})
	}
}

func TestRouterSetsRequestID(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.NotEmpty(t, w.Header().Get("X-Request-Id"))
}

func TestRouterEnvelopeShape(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products/abc", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	var envelope map[string]json.RawMessage
	require.NoError(t, json.NewDecoder(w.Body).Decode(&envelope))
	assert.Contains(t, envelope, "error")
}
