package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/storefront-backend/pkg/config"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
)

const validProductJSON = `{
	"id": 1,
	"title": "Fjallraven Backpack",
	"price": 109.95,
	"description": "Your perfect pack for everyday use.",
	"category": "men's clothing",
	"image": "https://example.com/81fPKd.jpg",
	"rating": {"rate": 4.5, "count": 120}
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client := NewClient(config.CatalogConfig{BaseURL: server.URL, Timeout: 0}, nil)
	return client, server
}

func TestFetchAllValidatesEveryProduct(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/products", r.URL.Path)
		w.Write([]byte("[" + validProductJSON + "]"))
	})

	products, err := client.FetchAll(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, 1, products[0].ID)
	assert.Equal(t, "109.95", products[0].Price.String())
	assert.Equal(t, 120, products[0].Rating.Count)
	assert.True(t, products[0].InStock())
}

func TestFetchAllRejectsMissingRating(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"id":1,"title":"x","price":10,"description":"d","category":"c","image":"https://example.com/x.jpg"}]`))
	})

	_, err := client.FetchAll(context.Background())
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeSchema), "expected SCHEMA_ERROR, got %v", err)
}

func TestFetchAllRejectsMalformedJSON(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"not":"an array"}`))
	})

	_, err := client.FetchAll(context.Background())
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeSchema))
}

func TestFetchAllSurfacesTransportFailure(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()
	client := NewClient(config.CatalogConfig{BaseURL: server.URL}, nil)

	_, err := client.FetchAll(context.Background())
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeDependency))
}

func TestFetchAllSurfacesUpstreamStatus(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := client.FetchAll(context.Background())
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeDependency))
}

func TestFetchOneUnknownID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "404 status",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNotFound)
			},
		},
		{
			// The demo source answers unknown ids with an empty 200 body.
			name:    "empty body",
			handler: func(w http.ResponseWriter, r *http.Request) {},
		},
		{
			name: "null body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte("null"))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newTestClient(t, tt.handler)
			_, err := client.FetchOne(context.Background(), 9999)
			require.Error(t, err)
			assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound), "expected NOT_FOUND, got %v", err)
		})
	}
}

func TestFetchOneSuccess(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/products/1", r.URL.Path)
		w.Write([]byte(validProductJSON))
	})

	product, err := client.FetchOne(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Fjallraven Backpack", product.Title)
}

func TestFetchCategories(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/products/categories", r.URL.Path)
		w.Write([]byte(`["electronics","jewelery"]`))
	})

	categories, err := client.FetchCategories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"electronics", "jewelery"}, categories)
}
