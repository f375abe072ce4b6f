package controllers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/storefront-backend/api/responses"
	"github.com/angelmondragon/storefront-backend/api/validators"
	"github.com/angelmondragon/storefront-backend/internal/filter"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
)

// GetFilters returns the current listing criteria.
func GetFilters(filters *filter.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, filters.Current())
	}
}

// ResetFilters restores the default criteria.
func ResetFilters(filters *filter.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, filters.Reset())
	}
}

type filterActionRequest struct {
	Action     string           `json:"action" validate:"required"`
	Search     *string          `json:"search,omitempty"`
	Categories []string         `json:"categories,omitempty"`
	Category   *string          `json:"category,omitempty"`
	PriceMin   *decimal.Decimal `json:"priceMin,omitempty"`
	PriceMax   *decimal.Decimal `json:"priceMax,omitempty"`
	Sort       *string          `json:"sort,omitempty"`
	InStock    *bool            `json:"inStock,omitempty"`
	Page       *int             `json:"page,omitempty"`
}

// DispatchFilterAction applies one criteria mutation and returns the
// updated criteria.
func DispatchFilterAction(filters *filter.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload filterActionRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		mutate, err := payload.mutation()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, filters.Update(mutate))
	}
}

func (req filterActionRequest) mutation() (func(filter.Criteria) filter.Criteria, error) {
	missing := func(field string) error {
		return pkgerrors.New(pkgerrors.CodeValidation, "action payload is incomplete").
			WithDetails(map[string]any{"action": req.Action, "missing": field})
	}

	switch req.Action {
	case "set-search":
		if req.Search == nil {
			return nil, missing("search")
		}
		return func(c filter.Criteria) filter.Criteria { return c.WithSearch(*req.Search) }, nil
	case "set-categories":
		if req.Categories == nil {
			return nil, missing("categories")
		}
		return func(c filter.Criteria) filter.Criteria { return c.WithCategories(req.Categories) }, nil
	case "toggle-category":
		if req.Category == nil {
			return nil, missing("category")
		}
		return func(c filter.Criteria) filter.Criteria { return c.ToggleCategory(*req.Category) }, nil
	case "set-price-range":
		if req.PriceMin == nil || req.PriceMax == nil {
			return nil, missing("priceMin/priceMax")
		}
		if req.PriceMin.GreaterThan(*req.PriceMax) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "priceMin must not exceed priceMax")
		}
		return func(c filter.Criteria) filter.Criteria {
			return c.WithPriceRange(*req.PriceMin, *req.PriceMax)
		}, nil
	case "set-sort":
		if req.Sort == nil {
			return nil, missing("sort")
		}
		sort := filter.Sort(*req.Sort)
		if !filter.ValidSort(sort) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown sort option").
				WithDetails(map[string]any{"sort": *req.Sort})
		}
		return func(c filter.Criteria) filter.Criteria { return c.WithSort(sort) }, nil
	case "set-in-stock":
		if req.InStock == nil {
			return nil, missing("inStock")
		}
		return func(c filter.Criteria) filter.Criteria { return c.WithInStock(*req.InStock) }, nil
	case "toggle-in-stock":
		return func(c filter.Criteria) filter.Criteria { return c.ToggleInStock() }, nil
	case "set-page":
		if req.Page == nil {
			return nil, missing("page")
		}
		return func(c filter.Criteria) filter.Criteria { return c.WithPage(*req.Page) }, nil
	default:
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown filter action").
			WithDetails(map[string]any{"action": req.Action})
	}
}
