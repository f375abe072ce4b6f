package cart

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/storefront-backend/internal/catalog"
	"github.com/angelmondragon/storefront-backend/pkg/snapshot"
)

func testProduct(id int, price string) catalog.Product {
	return catalog.Product{
		ID:       id,
		Title:    "product",
		Price:    decimal.RequireFromString(price),
		Category: "electronics",
		Rating:   catalog.Rating{Rate: 4.5, Count: 120},
	}
}

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	engine, err := NewEngine(context.Background(), EngineParams{Store: snapshot.NewMemory()})
	require.NoError(t, err)
	return engine
}

func TestAddIncrementsExistingLine(t *testing.T) {
	ctx := context.Background()
	engine := newTestEngine(t)

	engine.Add(ctx, testProduct(1, "10.00"))
	engine.Add(ctx, testProduct(1, "10.00"))

	items := engine.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].Quantity)
	assert.Equal(t, "20", engine.Subtotal().String())
	assert.Equal(t, "2", engine.Tax().String())
	assert.Equal(t, "22", engine.Total().String())
}

func TestAddKeepsOriginalPriceSnapshot(t *testing.T) {
	ctx := context.Background()
	engine := newTestEngine(t)

	engine.Add(ctx, testProduct(1, "10.00"))
	engine.Add(ctx, testProduct(1, "12.50"))

	items := engine.Items()
	require.Len(t, items, 1)
	assert.True(t, items[0].Product.Price.Equal(decimal.RequireFromString("10.00")))
	assert.Equal(t, 2, items[0].Quantity)
}

func TestSubtotalMixedLines(t *testing.T) {
	ctx := context.Background()
	engine := newTestEngine(t)

	engine.Add(ctx, testProduct(1, "10.00"))
	engine.Add(ctx, testProduct(1, "10.00"))
	engine.Add(ctx, testProduct(2, "5.00"))

	assert.Equal(t, "25", engine.Subtotal().String())
	assert.Equal(t, "2.5", engine.Tax().String())
	assert.Equal(t, "27.5", engine.Total().String())
}

func TestRemoveIsIdempotent(t *testing.T) {
	ctx := context.Background()
	engine := newTestEngine(t)

	engine.Add(ctx, testProduct(1, "10.00"))
	engine.Remove(ctx, 1)
	engine.Remove(ctx, 1)
	engine.Remove(ctx, 99)

	assert.Empty(t, engine.Items())
	assert.True(t, engine.Subtotal().IsZero())
}

func TestUpdateQuantityIsVerbatim(t *testing.T) {
	ctx := context.Background()
	engine := newTestEngine(t)
	engine.Add(ctx, testProduct(1, "10.00"))

	engine.UpdateQuantity(ctx, 1, 5)
	assert.Equal(t, 5, engine.Items()[0].Quantity)

	// No clamping: zero and negative values are stored as given.
	engine.UpdateQuantity(ctx, 1, 0)
	assert.Equal(t, 0, engine.Items()[0].Quantity)
	assert.True(t, engine.Subtotal().IsZero())

	engine.UpdateQuantity(ctx, 1, -2)
	assert.Equal(t, -2, engine.Items()[0].Quantity)
	assert.Equal(t, "-20", engine.Subtotal().String())
}

func TestUpdateQuantityUnknownIDIsNoop(t *testing.T) {
	ctx := context.Background()
	engine := newTestEngine(t)
	engine.Add(ctx, testProduct(1, "10.00"))

	engine.UpdateQuantity(ctx, 99, 7)

	require.Len(t, engine.Items(), 1)
	assert.Equal(t, 1, engine.Items()[0].Quantity)
}

func TestClearEmptiesItemsKeepsLifecycle(t *testing.T) {
	ctx := context.Background()
	engine := newTestEngine(t)
	engine.Add(ctx, testProduct(1, "10.00"))
	engine.StartCheckout(ctx)

	engine.Clear(ctx)

	assert.Empty(t, engine.Items())
	assert.Equal(t, LifecycleCheckingOut, engine.State())
}

func TestCheckoutLifecycle(t *testing.T) {
	ctx := context.Background()
	engine := newTestEngine(t)
	engine.Add(ctx, testProduct(1, "15.00"))

	assert.Equal(t, LifecycleIdle, engine.State())

	assert.Equal(t, LifecycleCheckingOut, engine.StartCheckout(ctx))
	// Re-asserting the same state is harmless.
	assert.Equal(t, LifecycleCheckingOut, engine.StartCheckout(ctx))

	assert.Equal(t, LifecycleCompleted, engine.CompleteCheckout(ctx))
	assert.Empty(t, engine.Items(), "completing checkout clears the cart")

	// Starting again from completed begins a fresh checkout.
	assert.Equal(t, LifecycleCheckingOut, engine.StartCheckout(ctx))
}

func TestCancelCheckoutPreservesItems(t *testing.T) {
	ctx := context.Background()
	engine := newTestEngine(t)
	engine.Add(ctx, testProduct(1, "15.00"))
	engine.StartCheckout(ctx)

	assert.Equal(t, LifecycleIdle, engine.CancelCheckout(ctx))

	require.Len(t, engine.Items(), 1)
	assert.Equal(t, "15", engine.Subtotal().String())
}

func TestCompleteAndCancelOutsideCheckingOutAreNoops(t *testing.T) {
	ctx := context.Background()
	engine := newTestEngine(t)
	engine.Add(ctx, testProduct(1, "10.00"))

	assert.Equal(t, LifecycleIdle, engine.CompleteCheckout(ctx))
	require.Len(t, engine.Items(), 1, "items survive a no-op complete")

	assert.Equal(t, LifecycleIdle, engine.CancelCheckout(ctx))
}

func TestSnapshotRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := snapshot.NewMemory()

	first, err := NewEngine(ctx, EngineParams{Store: store})
	require.NoError(t, err)
	first.Add(ctx, testProduct(1, "10.00"))
	first.Add(ctx, testProduct(2, "5.25"))
	first.StartCheckout(ctx)

	second, err := NewEngine(ctx, EngineParams{Store: store})
	require.NoError(t, err)

	items := second.Items()
	require.Len(t, items, 2)
	assert.Equal(t, 1, items[0].Product.ID)
	assert.True(t, items[1].Product.Price.Equal(decimal.RequireFromString("5.25")))
	assert.Equal(t, LifecycleCheckingOut, second.State())
}

func TestCorruptSnapshotFailsConstruction(t *testing.T) {
	ctx := context.Background()
	store := snapshot.NewMemory()
	require.NoError(t, store.Save(ctx, snapshot.KeyCart, []byte("{not json")))

	_, err := NewEngine(ctx, EngineParams{Store: store})
	require.Error(t, err)
}

func TestDrawerToggle(t *testing.T) {
	var d Drawer

	assert.False(t, d.IsOpen())
	assert.True(t, d.Toggle())
	assert.False(t, d.Toggle())

	d.Open()
	assert.True(t, d.IsOpen())
	d.Close()
	assert.False(t, d.IsOpen())
}
