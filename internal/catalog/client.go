package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/angelmondragon/storefront-backend/pkg/config"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/angelmondragon/storefront-backend/pkg/metrics"
)

// Fetcher is the accessor surface consumed by the catalog service and by
// anything that needs raw upstream reads.
type Fetcher interface {
	FetchAll(ctx context.Context) ([]Product, error)
	FetchOne(ctx context.Context, id int) (Product, error)
	FetchCategories(ctx context.Context) ([]string, error)
}

// Client fetches and validates product records from the remote source.
// There is no retry policy: a failed fetch surfaces immediately.
type Client struct {
	baseURL string
	http    *http.Client
	metrics *metrics.CatalogMetrics
}

// NewClient builds a catalog client from configuration.
func NewClient(cfg config.CatalogConfig, m *metrics.CatalogMetrics) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    &http.Client{Timeout: cfg.Timeout},
		metrics: m,
	}
}

// FetchAll returns every product the source knows about, each validated
// against the product schema.
func (c *Client) FetchAll(ctx context.Context) ([]Product, error) {
	body, err := c.get(ctx, "/products")
	if err != nil {
		c.metrics.IncFetch("fetch_all", "error")
		return nil, err
	}

	var payloads []productPayload
	if err := json.Unmarshal(body, &payloads); err != nil {
		c.metrics.IncFetch("fetch_all", "schema_error")
		return nil, pkgerrors.Wrap(pkgerrors.CodeSchema, err, "product list is not valid JSON")
	}

	products := make([]Product, 0, len(payloads))
	for i, payload := range payloads {
		if err := validatePayload(payload); err != nil {
			c.metrics.IncFetch("fetch_all", "schema_error")
			if typed := pkgerrors.As(err); typed != nil {
				return nil, typed.WithDetails(map[string]any{
					"index":  i,
					"fields": typed.Details(),
				})
			}
			return nil, err
		}
		products = append(products, payload.toProduct())
	}

	c.metrics.IncFetch("fetch_all", "success")
	return products, nil
}

// FetchOne returns the product with the given id, or NOT_FOUND when the
// source does not know it.
func (c *Client) FetchOne(ctx context.Context, id int) (Product, error) {
	body, err := c.get(ctx, fmt.Sprintf("/products/%d", id))
	if err != nil {
		c.metrics.IncFetch("fetch_one", "error")
		return Product{}, err
	}

	// The demo source answers unknown ids with an empty 200 body.
	if len(bytes.TrimSpace(body)) == 0 || bytes.Equal(bytes.TrimSpace(body), []byte("null")) {
		c.metrics.IncFetch("fetch_one", "not_found")
		return Product{}, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("product %d not found", id))
	}

	var payload productPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		c.metrics.IncFetch("fetch_one", "schema_error")
		return Product{}, pkgerrors.Wrap(pkgerrors.CodeSchema, err, "product is not valid JSON")
	}
	if err := validatePayload(payload); err != nil {
		c.metrics.IncFetch("fetch_one", "schema_error")
		return Product{}, err
	}

	c.metrics.IncFetch("fetch_one", "success")
	return payload.toProduct(), nil
}

// FetchCategories returns the distinct category tags.
func (c *Client) FetchCategories(ctx context.Context) ([]string, error) {
	body, err := c.get(ctx, "/products/categories")
	if err != nil {
		c.metrics.IncFetch("fetch_categories", "error")
		return nil, err
	}

	var categories []string
	if err := json.Unmarshal(body, &categories); err != nil {
		c.metrics.IncFetch("fetch_categories", "schema_error")
		return nil, pkgerrors.Wrap(pkgerrors.CodeSchema, err, "category list is not valid JSON")
	}

	c.metrics.IncFetch("fetch_categories", "success")
	return categories, nil
}

func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build catalog request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "catalog source unreachable")
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "catalog resource not found")
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, pkgerrors.New(pkgerrors.CodeDependency,
			fmt.Sprintf("catalog source returned status %d", resp.StatusCode))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read catalog response")
	}
	return body, nil
}
