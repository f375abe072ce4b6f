// Package cart owns the cart line items, the derived pricing, and the
// checkout lifecycle.
package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/storefront-backend/internal/catalog"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
	"github.com/angelmondragon/storefront-backend/pkg/metrics"
	"github.com/angelmondragon/storefront-backend/pkg/snapshot"
)

// Lifecycle is the checkout state of the cart.
type Lifecycle string

const (
	LifecycleIdle        Lifecycle = "idle"
	LifecycleCheckingOut Lifecycle = "checking-out"
	LifecycleCompleted   Lifecycle = "completed"
)

// taxRate is fixed at 10%; not configurable, not jurisdiction-aware.
var taxRate = decimal.NewFromFloat(0.10)

// LineItem wraps a product snapshot with a mutable quantity. The price is
// captured at add time and never re-fetched.
type LineItem struct {
	Product  catalog.Product `json:"product"`
	Quantity int             `json:"quantity"`
}

// LineTotal is price × quantity for this line.
func (li LineItem) LineTotal() decimal.Decimal {
	return li.Product.Price.Mul(decimal.NewFromInt(int64(li.Quantity)))
}

// Engine is the injectable cart state container. All operations are total:
// none of them can fail under normal input. The mutex keeps mutations
// atomic under concurrent HTTP handlers.
type Engine struct {
	mu        sync.Mutex
	items     []LineItem
	lifecycle Lifecycle

	store   snapshot.Store
	metrics *metrics.CartMetrics
	logg    *logger.Logger
}

// EngineParams groups the engine dependencies.
type EngineParams struct {
	Store   snapshot.Store
	Metrics *metrics.CartMetrics
	Logger  *logger.Logger
}

// NewEngine builds a cart engine and restores any persisted snapshot
// verbatim.
func NewEngine(ctx context.Context, params EngineParams) (*Engine, error) {
	if params.Store == nil {
		return nil, fmt.Errorf("snapshot store is required")
	}
	e := &Engine{
		lifecycle: LifecycleIdle,
		store:     params.Store,
		metrics:   params.Metrics,
		logg:      params.Logger,
	}
	if err := e.restore(ctx); err != nil {
		return nil, err
	}
	return e, nil
}

// Add appends a new line with quantity 1, or increments the quantity of an
// existing line with the same product id. The existing price snapshot is
// left untouched.
func (e *Engine) Add(ctx context.Context, product catalog.Product) LineItem {
	e.mu.Lock()
	var added LineItem
	found := false
	for i := range e.items {
		if e.items[i].Product.ID == product.ID {
			e.items[i].Quantity++
			added = e.items[i]
			found = true
			break
		}
	}
	if !found {
		added = LineItem{Product: product, Quantity: 1}
		e.items = append(e.items, added)
	}
	e.mu.Unlock()

	e.metrics.IncOp("add")
	e.persist(ctx)
	return added
}

// Remove deletes the line item with the given product id. Removing an
// unknown id is a no-op, not an error.
func (e *Engine) Remove(ctx context.Context, productID int) {
	e.mu.Lock()
	for i := range e.items {
		if e.items[i].Product.ID == productID {
			e.items = append(e.items[:i], e.items[i+1:]...)
			break
		}
	}
	e.mu.Unlock()

	e.metrics.IncOp("remove")
	e.persist(ctx)
}

// UpdateQuantity sets the quantity of the matching line verbatim. The
// engine does not clamp: callers are expected to treat quantities below 1
// as removal intent before calling. Preserved as observed behavior.
func (e *Engine) UpdateQuantity(ctx context.Context, productID, quantity int) {
	e.mu.Lock()
	for i := range e.items {
		if e.items[i].Product.ID == productID {
			e.items[i].Quantity = quantity
			break
		}
	}
	e.mu.Unlock()

	e.metrics.IncOp("update_quantity")
	e.persist(ctx)
}

// Clear empties the line items without touching the lifecycle.
func (e *Engine) Clear(ctx context.Context) {
	e.mu.Lock()
	e.items = nil
	e.mu.Unlock()

	e.metrics.IncOp("clear")
	e.persist(ctx)
}

// StartCheckout moves idle to checking-out. Calling it while already
// checking-out re-asserts the state. From completed it begins a new
// checkout.
func (e *Engine) StartCheckout(ctx context.Context) Lifecycle {
	e.mu.Lock()
	e.lifecycle = LifecycleCheckingOut
	state := e.lifecycle
	e.mu.Unlock()

	e.metrics.IncOp("start_checkout")
	e.persist(ctx)
	return state
}

// CompleteCheckout moves checking-out to completed and clears the cart.
// The caller is expected to have submitted the order first; from any other
// state the call is a no-op re-assert.
func (e *Engine) CompleteCheckout(ctx context.Context) Lifecycle {
	e.mu.Lock()
	if e.lifecycle == LifecycleCheckingOut {
		e.lifecycle = LifecycleCompleted
		e.items = nil
	}
	state := e.lifecycle
	e.mu.Unlock()

	e.metrics.IncOp("complete_checkout")
	e.persist(ctx)
	return state
}

// CancelCheckout moves checking-out back to idle, cart contents preserved.
func (e *Engine) CancelCheckout(ctx context.Context) Lifecycle {
	e.mu.Lock()
	if e.lifecycle == LifecycleCheckingOut {
		e.lifecycle = LifecycleIdle
	}
	state := e.lifecycle
	e.mu.Unlock()

	e.metrics.IncOp("cancel_checkout")
	e.persist(ctx)
	return state
}

// Items returns a copy of the line items in insertion order.
func (e *Engine) Items() []LineItem {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]LineItem, len(e.items))
	copy(out, e.items)
	return out
}

// State returns the current checkout lifecycle.
func (e *Engine) State() Lifecycle {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lifecycle
}

// Subtotal sums price × quantity over every line. Pure.
func (e *Engine) Subtotal() decimal.Decimal {
	e.mu.Lock()
	defer e.mu.Unlock()
	total := decimal.Zero
	for _, item := range e.items {
		total = total.Add(item.LineTotal())
	}
	return total
}

// Tax is subtotal × 10%.
func (e *Engine) Tax() decimal.Decimal {
	return e.Subtotal().Mul(taxRate)
}

// Total is subtotal + tax. No intermediate rounding; display rounding
// happens at the presentation layer.
func (e *Engine) Total() decimal.Decimal {
	subtotal := e.Subtotal()
	return subtotal.Add(subtotal.Mul(taxRate))
}

// cartSnapshot is the persisted shape under the cart-storage key. The
// drawer flag is presentation state and is deliberately absent.
type cartSnapshot struct {
	Items     []LineItem `json:"items"`
	Lifecycle Lifecycle  `json:"lifecycle"`
}

func (e *Engine) persist(ctx context.Context) {
	e.mu.Lock()
	snap := cartSnapshot{Items: e.items, Lifecycle: e.lifecycle}
	e.mu.Unlock()

	payload, err := json.Marshal(snap)
	if err != nil {
		if e.logg != nil {
			e.logg.Error(ctx, "marshal cart snapshot", err)
		}
		return
	}
	if err := e.store.Save(ctx, snapshot.KeyCart, payload); err != nil && e.logg != nil {
		e.logg.Error(e.logg.WithSnapshotKey(ctx, snapshot.KeyCart), "persist cart snapshot", err)
	}
}

func (e *Engine) restore(ctx context.Context) error {
	payload, err := e.store.Load(ctx, snapshot.KeyCart)
	if err != nil {
		if errors.Is(err, snapshot.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("restore cart snapshot: %w", err)
	}

	var snap cartSnapshot
	if err := json.Unmarshal(payload, &snap); err != nil {
		return fmt.Errorf("decode cart snapshot: %w", err)
	}

	e.mu.Lock()
	e.items = snap.Items
	if snap.Lifecycle != "" {
		e.lifecycle = snap.Lifecycle
	}
	e.mu.Unlock()
	return nil
}
