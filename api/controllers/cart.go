package controllers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/storefront-backend/api/responses"
	"github.com/angelmondragon/storefront-backend/api/validators"
	"github.com/angelmondragon/storefront-backend/internal/cart"
	"github.com/angelmondragon/storefront-backend/internal/catalog"
	checkoutsvc "github.com/angelmondragon/storefront-backend/internal/checkout"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
)

type cartView struct {
	Items      []cart.LineItem `json:"items"`
	Subtotal   string          `json:"subtotal"`
	Tax        string          `json:"tax"`
	Total      string          `json:"total"`
	Lifecycle  cart.Lifecycle  `json:"lifecycle"`
	DrawerOpen bool            `json:"drawerOpen"`
}

func viewOf(engine *cart.Engine, drawer *cart.Drawer) cartView {
	return cartView{
		Items:      engine.Items(),
		Subtotal:   engine.Subtotal().StringFixed(2),
		Tax:        engine.Tax().StringFixed(2),
		Total:      engine.Total().StringFixed(2),
		Lifecycle:  engine.State(),
		DrawerOpen: drawer.IsOpen(),
	}
}

// GetCart returns the full cart view: lines, totals, lifecycle, drawer.
func GetCart(engine *cart.Engine, drawer *cart.Drawer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, viewOf(engine, drawer))
	}
}

type addItemRequest struct {
	ProductID int `json:"productId" validate:"required,min=1"`
}

// AddCartItem resolves the product and adds it to the cart. Adding opens
// the drawer.
func AddCartItem(engine *cart.Engine, drawer *cart.Drawer, products *catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload addItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := products.Product(r.Context(), payload.ProductID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		engine.Add(r.Context(), product)
		drawer.Open()
		responses.WriteSuccessStatus(w, http.StatusCreated, viewOf(engine, drawer))
	}
}

type updateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// UpdateCartItem sets a line quantity verbatim.
func UpdateCartItem(engine *cart.Engine, drawer *cart.Drawer, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := cartProductIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateQuantityRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		engine.UpdateQuantity(r.Context(), productID, payload.Quantity)
		responses.WriteSuccess(w, viewOf(engine, drawer))
	}
}

// RemoveCartItem deletes a line. Unknown ids are a silent no-op.
func RemoveCartItem(engine *cart.Engine, drawer *cart.Drawer, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := cartProductIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		engine.Remove(r.Context(), productID)
		responses.WriteSuccess(w, viewOf(engine, drawer))
	}
}

// ClearCart empties the cart.
func ClearCart(engine *cart.Engine, drawer *cart.Drawer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		engine.Clear(r.Context())
		responses.WriteSuccess(w, viewOf(engine, drawer))
	}
}

// ToggleDrawer flips the drawer flag.
func ToggleDrawer(engine *cart.Engine, drawer *cart.Drawer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		drawer.Toggle()
		responses.WriteSuccess(w, viewOf(engine, drawer))
	}
}

// StartCheckout moves the cart into checking-out. Entering checkout
// closes the drawer: the shopper is leaving the browse surface.
func StartCheckout(svc checkoutsvc.Service, engine *cart.Engine, drawer *cart.Drawer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		svc.Start(r.Context())
		drawer.Close()
		responses.WriteSuccess(w, viewOf(engine, drawer))
	}
}

// CancelCheckout returns the cart to idle with its contents intact.
func CancelCheckout(svc checkoutsvc.Service, engine *cart.Engine, drawer *cart.Drawer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		svc.Cancel(r.Context())
		responses.WriteSuccess(w, viewOf(engine, drawer))
	}
}

// ShippingMethods lists the fixed delivery options.
func ShippingMethods(svc checkoutsvc.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, svc.Methods())
	}
}

type submitCheckoutRequest struct {
	// Form is validated by the checkout service, which owns the card
	// format rules.
	Form           checkoutsvc.Form `json:"form" validate:"-"`
	ShippingMethod string           `json:"shippingMethod" validate:"required"`
}

// SubmitCheckout validates the order form and places the order.
func SubmitCheckout(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload submitCheckoutRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.Submit(r.Context(), payload.Form, payload.ShippingMethod)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}

func cartProductIDParam(r *http.Request) (int, error) {
	raw := chi.URLParam(r, "productId")
	id, err := strconv.Atoi(raw)
	if err != nil || id < 1 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "product id must be a positive integer").
			WithDetails(map[string]any{"productId": raw})
	}
	return id, nil
}
