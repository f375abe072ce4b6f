// Package checkout validates the order form and drives order submission
// against the cart lifecycle.
package checkout

import (
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
)

// Form is the order form as submitted by the storefront. Card fields are
// accepted and validated but never stored; the simulated gateway discards
// them.
type Form struct {
	Email      string `json:"email" validate:"required,email"`
	Phone      string `json:"phone" validate:"required,min=10"`
	FirstName  string `json:"firstName" validate:"required,min=2"`
	LastName   string `json:"lastName" validate:"required,min=2"`
	Address    string `json:"address" validate:"required,min=5"`
	City       string `json:"city" validate:"required,min=2"`
	ZipCode    string `json:"zipCode" validate:"required,min=5"`
	Country    string `json:"country" validate:"required,min=2"`
	CardNumber string `json:"cardNumber" validate:"required,card_digits"`
	CardExpiry string `json:"cardExpiry" validate:"required,card_expiry"`
	CardCVC    string `json:"cardCvc" validate:"required,card_cvc"`
}

var (
	cardNumberRe = regexp.MustCompile(`^\d{16}$`)
	cardExpiryRe = regexp.MustCompile(`^(0[1-9]|1[0-2])\/\d{2}$`)
	cardCVCRe    = regexp.MustCompile(`^\d{3,4}$`)
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	mustRegister(v, "card_digits", cardNumberRe)
	mustRegister(v, "card_expiry", cardExpiryRe)
	mustRegister(v, "card_cvc", cardCVCRe)
	return v
}

func mustRegister(v *validator.Validate, tag string, re *regexp.Regexp) {
	err := v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
		return re.MatchString(fl.Field().String())
	})
	if err != nil {
		panic(err)
	}
}

// Validate checks every form field and reports all failures at once as a
// validation error with per-field details.
func (f Form) Validate() error {
	err := validate.Struct(f)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "validate checkout form")
	}

	details := make(map[string]any, len(verrs))
	for _, fe := range verrs {
		details[fe.Field()] = fieldMessage(fe)
	}
	return pkgerrors.New(pkgerrors.CodeValidation, "checkout form is invalid").WithDetails(details)
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return "must be at least " + fe.Param() + " characters"
	case "card_digits":
		return "must be 16 digits"
	case "card_expiry":
		return "must be in MM/YY format"
	case "card_cvc":
		return "must be 3 or 4 digits"
	default:
		return "is invalid"
	}
}
