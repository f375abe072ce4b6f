package controllers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/storefront-backend/api/responses"
	"github.com/angelmondragon/storefront-backend/api/validators"
	"github.com/angelmondragon/storefront-backend/internal/catalog"
	"github.com/angelmondragon/storefront-backend/internal/wishlist"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
)

type wishlistView struct {
	IDs      []int             `json:"ids"`
	Products []catalog.Product `json:"products"`
}

// GetWishlist returns the saved ids joined with live catalog details.
// Ids whose products are no longer listed stay in the id list but are
// absent from the join.
func GetWishlist(store *wishlist.Store, products *catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ids := store.Items()

		all, err := products.Products(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		byID := make(map[int]catalog.Product, len(all))
		for _, p := range all {
			byID[p.ID] = p
		}

		view := wishlistView{IDs: ids, Products: make([]catalog.Product, 0, len(ids))}
		for _, id := range ids {
			if p, ok := byID[id]; ok {
				view.Products = append(view.Products, p)
			}
		}
		responses.WriteSuccess(w, view)
	}
}

type wishlistAddRequest struct {
	ProductID int `json:"productId" validate:"required,min=1"`
}

// AddWishlistItem saves a product id. Adding twice is a no-op.
func AddWishlistItem(store *wishlist.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload wishlistAddRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		store.Add(r.Context(), payload.ProductID)
		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]any{"ids": store.Items()})
	}
}

// ToggleWishlistItem flips membership for the id in the path.
func ToggleWishlistItem(store *wishlist.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := wishlistProductIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		present := store.Toggle(r.Context(), id)
		responses.WriteSuccess(w, map[string]any{"present": present, "ids": store.Items()})
	}
}

// RemoveWishlistItem drops the id. Absent ids are a silent no-op.
func RemoveWishlistItem(store *wishlist.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := wishlistProductIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		store.Remove(r.Context(), id)
		responses.WriteSuccess(w, map[string]any{"ids": store.Items()})
	}
}

// ClearWishlist empties the list.
func ClearWishlist(store *wishlist.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store.Clear(r.Context())
		responses.WriteSuccess(w, map[string]any{"ids": store.Items()})
	}
}

func wishlistProductIDParam(r *http.Request) (int, error) {
	raw := chi.URLParam(r, "productId")
	id, err := strconv.Atoi(raw)
	if err != nil || id < 1 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "product id must be a positive integer").
			WithDetails(map[string]any{"productId": raw})
	}
	return id, nil
}
