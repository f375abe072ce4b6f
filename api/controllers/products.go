package controllers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/storefront-backend/api/responses"
	"github.com/angelmondragon/storefront-backend/api/validators"
	"github.com/angelmondragon/storefront-backend/internal/catalog"
	"github.com/angelmondragon/storefront-backend/internal/filter"
	"github.com/angelmondragon/storefront-backend/internal/recommend"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
)

// ListProducts returns the page of products visible under the current
// filter criteria.
func ListProducts(svc *catalog.Service, filters *filter.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		products, err := svc.Products(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		criteria, err := listCriteria(r, filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		visible, meta := filter.Apply(products, criteria)
		responses.WriteList(w, visible, meta)
	}
}

// listCriteria layers one-shot page and price-band query overrides on top
// of the stored criteria. Overrides apply to this request only; the store
// is never mutated.
func listCriteria(r *http.Request, filters *filter.Store) (filter.Criteria, error) {
	criteria := filters.Current()

	priceMin, err := validators.ParseQueryDecimal(r, "priceMin", criteria.PriceMin)
	if err != nil {
		return filter.Criteria{}, err
	}
	priceMax, err := validators.ParseQueryDecimal(r, "priceMax", criteria.PriceMax)
	if err != nil {
		return filter.Criteria{}, err
	}
	if priceMin.GreaterThan(priceMax) {
		return filter.Criteria{}, pkgerrors.New(pkgerrors.CodeValidation, "priceMin must not exceed priceMax")
	}
	page, err := validators.ParseQueryInt(r, "page", criteria.Page, 1, 10000)
	if err != nil {
		return filter.Criteria{}, err
	}
	return criteria.WithPriceRange(priceMin, priceMax).WithPage(page), nil
}

// GetProduct returns a single product by id.
func GetProduct(svc *catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := productIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.Product(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

// ListCategories returns the distinct category names.
func ListCategories(svc *catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		categories, err := svc.Categories(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, categories)
	}
}

// RefreshProducts forces a catalog refetch, bypassing the warm copy.
func RefreshProducts(svc *catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		products, err := svc.Refresh(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]int{"count": len(products)})
	}
}

// ProductRecommendations returns up to four related products.
func ProductRecommendations(svc *catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := productIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		seed, err := svc.Product(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		candidates, err := svc.Products(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, recommend.ForProduct(seed, candidates))
	}
}

// CompareProducts returns the products named by ids= side by side.
func CompareProducts(svc *catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ids, err := validators.ParseQueryIntList(r, "ids")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if len(ids) < 2 || len(ids) > 4 {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "compare takes between 2 and 4 product ids"))
			return
		}

		products := make([]catalog.Product, 0, len(ids))
		for _, id := range ids {
			product, err := svc.Product(r.Context(), id)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			products = append(products, product)
		}
		responses.WriteSuccess(w, products)
	}
}

func productIDParam(r *http.Request) (int, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.Atoi(raw)
	if err != nil || id < 1 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "product id must be a positive integer").
			WithDetails(map[string]any{"id": raw})
	}
	return id, nil
}
