package checkout

import (
	"github.com/shopspring/decimal"

	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
)

// ShippingMethod is one of the fixed delivery options.
type ShippingMethod struct {
	ID       string          `json:"id"`
	Label    string          `json:"label"`
	Estimate string          `json:"estimate"`
	Price    decimal.Decimal `json:"price"`
}

const (
	ShippingStandard  = "standard"
	ShippingExpress   = "express"
	ShippingOvernight = "overnight"
)

// ShippingMethods returns the available options in display order. The
// list is fixed; there is no rate lookup.
func ShippingMethods() []ShippingMethod {
	return []ShippingMethod{
		{ID: ShippingStandard, Label: "Standard Shipping", Estimate: "5-7 business days", Price: decimal.RequireFromString("4.99")},
		{ID: ShippingExpress, Label: "Express Shipping", Estimate: "2-3 business days", Price: decimal.RequireFromString("9.99")},
		{ID: ShippingOvernight, Label: "Overnight Shipping", Estimate: "1 business day", Price: decimal.RequireFromString("19.99")},
	}
}

// ShippingMethodByID resolves a method id. Unknown ids are a validation
// error, not an internal one.
func ShippingMethodByID(id string) (ShippingMethod, error) {
	for _, m := range ShippingMethods() {
		if m.ID == id {
			return m, nil
		}
	}
	return ShippingMethod{}, pkgerrors.New(pkgerrors.CodeValidation, "unknown shipping method").
		WithDetails(map[string]any{"shippingMethod": id})
}
