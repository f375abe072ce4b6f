package checkout

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/storefront-backend/internal/cart"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
)

// Order is the submitted order as confirmed by the gateway.
type Order struct {
	ID             string          `json:"id"`
	Items          []cart.LineItem `json:"items"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	Tax            decimal.Decimal `json:"tax"`
	ShippingMethod ShippingMethod  `json:"shippingMethod"`
	Total          decimal.Decimal `json:"total"`
	Email          string          `json:"email"`
	PlacedAt       time.Time       `json:"placedAt"`
}

// Submitter places an order with the payment gateway.
type Submitter interface {
	Submit(ctx context.Context, order Order) error
}

// SimulatedSubmitter stands in for a real gateway. It waits a configured
// latency and accepts every order.
type SimulatedSubmitter struct {
	Latency time.Duration
}

func (s SimulatedSubmitter) Submit(ctx context.Context, order Order) error {
	if s.Latency <= 0 {
		return nil
	}
	timer := time.NewTimer(s.Latency)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return pkgerrors.Wrap(pkgerrors.CodeDependency, ctx.Err(), "order submission interrupted")
	case <-timer.C:
		return nil
	}
}

// Service drives the checkout flow against the cart engine.
type Service interface {
	Start(ctx context.Context) cart.Lifecycle
	Cancel(ctx context.Context) cart.Lifecycle
	Submit(ctx context.Context, form Form, shippingMethodID string) (*Order, error)
	Methods() []ShippingMethod
}

type service struct {
	engine    *cart.Engine
	submitter Submitter
	logg      *logger.Logger
}

// ServiceParams groups the checkout service dependencies.
type ServiceParams struct {
	Engine    *cart.Engine
	Submitter Submitter
	Logger    *logger.Logger
}

// NewService validates the wiring and returns a checkout service.
func NewService(params ServiceParams) (Service, error) {
	if params.Engine == nil {
		return nil, fmt.Errorf("cart engine is required")
	}
	if params.Submitter == nil {
		return nil, fmt.Errorf("submitter is required")
	}
	return &service{
		engine:    params.Engine,
		submitter: params.Submitter,
		logg:      params.Logger,
	}, nil
}

func (s *service) Start(ctx context.Context) cart.Lifecycle {
	return s.engine.StartCheckout(ctx)
}

func (s *service) Cancel(ctx context.Context) cart.Lifecycle {
	return s.engine.CancelCheckout(ctx)
}

func (s *service) Methods() []ShippingMethod {
	return ShippingMethods()
}

// Submit validates the form, prices the order from the current cart, and
// places it. On success the cart moves to completed and empties. On any
// failure the cart stays in checking-out so the shopper can retry.
func (s *service) Submit(ctx context.Context, form Form, shippingMethodID string) (*Order, error) {
	if state := s.engine.State(); state != cart.LifecycleCheckingOut {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "checkout has not been started").
			WithDetails(map[string]any{"lifecycle": string(state)})
	}

	items := s.engine.Items()
	if len(items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	if err := form.Validate(); err != nil {
		return nil, err
	}

	method, err := ShippingMethodByID(shippingMethodID)
	if err != nil {
		return nil, err
	}

	subtotal := s.engine.Subtotal()
	tax := s.engine.Tax()
	order := Order{
		ID:             uuid.NewString(),
		Items:          items,
		Subtotal:       subtotal,
		Tax:            tax,
		ShippingMethod: method,
		Total:          subtotal.Add(tax).Add(method.Price),
		Email:          form.Email,
		PlacedAt:       time.Now().UTC(),
	}

	if err := s.submitter.Submit(ctx, order); err != nil {
		if s.logg != nil {
			s.logg.Error(ctx, "submit order", err)
		}
		return nil, err
	}

	s.engine.CompleteCheckout(ctx)
	if s.logg != nil {
		s.logg.Info(s.logg.WithFields(ctx, map[string]interface{}{
			"order_id": order.ID,
			"total":    order.Total.StringFixed(2),
		}), "order placed")
	}
	return &order, nil
}
