package catalog

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
)

// Rating is the upstream review aggregate attached to every product.
type Rating struct {
	Rate  float64 `json:"rate"`
	Count int     `json:"count"`
}

// Product is the typed, validated record produced at the catalog boundary.
// Immutable once fetched; price is decimal to keep derived cart totals
// exact.
type Product struct {
	ID          int             `json:"id"`
	Title       string          `json:"title"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Image       string          `json:"image"`
	Rating      Rating          `json:"rating"`
}

// InStock reports whether the product is considered purchasable. The
// upstream schema carries no stock field, so a product with at least one
// rating counts as in stock.
func (p Product) InStock() bool {
	return p.Rating.Count > 0
}

// productPayload is the raw upstream shape. Pointer fields distinguish a
// missing field from a legitimate zero value.
type productPayload struct {
	ID          *int           `json:"id" validate:"required"`
	Title       *string        `json:"title" validate:"required"`
	Price       *float64       `json:"price" validate:"required,gte=0"`
	Description *string        `json:"description" validate:"required"`
	Category    *string        `json:"category" validate:"required"`
	Image       *string        `json:"image" validate:"required,url"`
	Rating      *ratingPayload `json:"rating" validate:"required"`
}

type ratingPayload struct {
	Rate  *float64 `json:"rate" validate:"required,gte=0,lte=5"`
	Count *int     `json:"count" validate:"required,gte=0"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if tag == "" {
			return f.Name
		}
		return tag
	})
	return v
}

func (p productPayload) toProduct() Product {
	return Product{
		ID:          *p.ID,
		Title:       *p.Title,
		Price:       decimal.NewFromFloat(*p.Price),
		Description: *p.Description,
		Category:    *p.Category,
		Image:       *p.Image,
		Rating: Rating{
			Rate:  *p.Rating.Rate,
			Count: *p.Rating.Count,
		},
	}
}

// validatePayload turns validator failures into a SCHEMA_ERROR carrying
// per-field details.
func validatePayload(payload productPayload) error {
	err := validate.Struct(payload)
	if err == nil {
		return nil
	}
	details := map[string]string{}
	if errs, ok := err.(validator.ValidationErrors); ok {
		for _, fieldErr := range errs {
			details[fieldErr.Namespace()] = fieldErr.Tag()
		}
	}
	return pkgerrors.Wrap(pkgerrors.CodeSchema, err, "product failed schema validation").
		WithDetails(details)
}
