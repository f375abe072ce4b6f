package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
	"github.com/angelmondragon/storefront-backend/pkg/metrics"
)

const (
	cacheKeyProducts   = "storefront:catalog:products"
	cacheKeyCategories = "storefront:catalog:categories"
)

// Service fronts the catalog client with a session cache and a
// request-generation guard: a refresh that finishes after a newer one has
// already published is discarded instead of overwriting fresher state.
type Service struct {
	fetcher Fetcher
	cache   Cache
	ttl     time.Duration
	metrics *metrics.CatalogMetrics
	logg    *logger.Logger

	mu        sync.Mutex
	state     serviceState
	nextGen   uint64
	published uint64
}

type serviceState struct {
	products []Product
	warm     bool
}

// ServiceParams groups the service dependencies.
type ServiceParams struct {
	Fetcher Fetcher
	Cache   Cache
	TTL     time.Duration
	Metrics *metrics.CatalogMetrics
	Logger  *logger.Logger
}

// NewService builds the catalog service.
func NewService(params ServiceParams) (*Service, error) {
	if params.Fetcher == nil {
		return nil, fmt.Errorf("catalog fetcher is required")
	}
	if params.Cache == nil {
		params.Cache = NewMemoryCache()
	}
	return &Service{
		fetcher: params.Fetcher,
		cache:   params.Cache,
		ttl:     params.TTL,
		metrics: params.Metrics,
		logg:    params.Logger,
	}, nil
}

// Products returns the session's product list, fetching and caching it on
// first use.
func (s *Service) Products(ctx context.Context) ([]Product, error) {
	s.mu.Lock()
	if s.state.warm {
		products := copyProducts(s.state.products)
		s.mu.Unlock()
		return products, nil
	}
	s.mu.Unlock()

	if products, ok := s.loadCached(ctx); ok {
		s.mu.Lock()
		if !s.state.warm {
			s.state = serviceState{products: products, warm: true}
		}
		result := copyProducts(s.state.products)
		s.mu.Unlock()
		return result, nil
	}

	return s.Refresh(ctx)
}

// Refresh fetches the catalog again, bypassing the warm copy. Stale
// results (an older fetch finishing late) are discarded.
func (s *Service) Refresh(ctx context.Context) ([]Product, error) {
	gen := s.beginRefresh()

	products, err := s.fetcher.FetchAll(ctx)
	if err != nil {
		return nil, err
	}

	if !s.publish(gen, products) {
		// A newer refresh already landed; serve its result instead.
		s.mu.Lock()
		result := copyProducts(s.state.products)
		s.mu.Unlock()
		return result, nil
	}

	// Categories derive from the product list; drop the cached copy so
	// the next read rebuilds it from the fresh catalog.
	if err := s.cache.Invalidate(ctx, cacheKeyCategories); err != nil && s.logg != nil {
		s.logg.Warn(ctx, "category cache invalidate failed")
	}
	s.storeCached(ctx, products)
	return copyProducts(products), nil
}

// Product returns a single product, preferring the warm session copy and
// falling back to a direct fetch.
func (s *Service) Product(ctx context.Context, id int) (Product, error) {
	s.mu.Lock()
	if s.state.warm {
		for _, p := range s.state.products {
			if p.ID == id {
				s.mu.Unlock()
				return p, nil
			}
		}
		s.mu.Unlock()
		return Product{}, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("product %d not found", id))
	}
	s.mu.Unlock()

	return s.fetcher.FetchOne(ctx, id)
}

// Categories returns the distinct category tags, cached for the session.
func (s *Service) Categories(ctx context.Context) ([]string, error) {
	if cached, ok, err := s.cache.Fetch(ctx, cacheKeyCategories); err == nil && ok {
		var categories []string
		if json.Unmarshal(cached, &categories) == nil {
			return categories, nil
		}
	}

	categories, err := s.fetcher.FetchCategories(ctx)
	if err != nil {
		return nil, err
	}

	if encoded, err := json.Marshal(categories); err == nil {
		if err := s.cache.Store(ctx, cacheKeyCategories, encoded, s.ttl); err != nil && s.logg != nil {
			s.logg.Warn(ctx, "category cache write failed")
		}
	}
	return categories, nil
}

func (s *Service) beginRefresh() uint64 {
	s.mu.Lock()
	s.nextGen++
	gen := s.nextGen
	s.mu.Unlock()
	return gen
}

// publish installs the fetched products unless a newer generation already
// did. Returns whether the result was accepted.
func (s *Service) publish(gen uint64, products []Product) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen <= s.published {
		s.metrics.IncStaleDiscard()
		return false
	}
	s.published = gen
	s.state = serviceState{products: copyProducts(products), warm: true}
	return true
}

func (s *Service) loadCached(ctx context.Context) ([]Product, bool) {
	cached, ok, err := s.cache.Fetch(ctx, cacheKeyProducts)
	if err != nil || !ok {
		return nil, false
	}
	var products []Product
	if err := json.Unmarshal(cached, &products); err != nil {
		return nil, false
	}
	return products, true
}

func (s *Service) storeCached(ctx context.Context, products []Product) {
	encoded, err := json.Marshal(products)
	if err != nil {
		return
	}
	if err := s.cache.Store(ctx, cacheKeyProducts, encoded, s.ttl); err != nil && s.logg != nil {
		s.logg.Warn(ctx, "product cache write failed")
	}
}

func copyProducts(products []Product) []Product {
	out := make([]Product, len(products))
	copy(out, products)
	return out
}
