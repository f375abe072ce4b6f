package recommend

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/storefront-backend/internal/catalog"
)

func product(id int, category, price string) catalog.Product {
	return catalog.Product{
		ID:       id,
		Category: category,
		Price:    decimal.RequireFromString(price),
	}
}

func TestForProductRanksCategoryOverPrice(t *testing.T) {
	seed := product(1, "electronics", "100.00")
	candidates := []catalog.Product{
		seed,
		product(2, "jewelery", "105.00"),     // price band only: 1
		product(3, "electronics", "500.00"),  // category only: 2
		product(4, "electronics", "110.00"),  // category + price band: 3
		product(5, "men's clothing", "9.99"), // no overlap: dropped
	}

	got := ForProduct(seed, candidates)

	assert.Equal(t, []int{4, 3, 2}, ids(got))
}

func TestForProductExcludesSeedAndZeroScores(t *testing.T) {
	seed := product(1, "electronics", "100.00")
	candidates := []catalog.Product{
		seed,
		product(2, "jewelery", "900.00"),
	}

	assert.Empty(t, ForProduct(seed, candidates))
}

func TestForProductPriceBandBoundaries(t *testing.T) {
	seed := product(1, "books", "100.00")
	candidates := []catalog.Product{
		product(2, "music", "70.00"),  // exactly -30%
		product(3, "music", "130.00"), // exactly +30%
		product(4, "music", "69.99"),  // just below
		product(5, "music", "130.01"), // just above
	}

	got := ForProduct(seed, candidates)

	assert.Equal(t, []int{2, 3}, ids(got))
}

func TestForProductCapsAtLimit(t *testing.T) {
	seed := product(1, "electronics", "100.00")
	candidates := []catalog.Product{seed}
	for id := 2; id <= 10; id++ {
		candidates = append(candidates, product(id, "electronics", "100.00"))
	}

	got := ForProduct(seed, candidates)

	require.Len(t, got, Limit)
	// Equal scores keep catalog order.
	assert.Equal(t, []int{2, 3, 4, 5}, ids(got))
}

func ids(products []catalog.Product) []int {
	out := make([]int, len(products))
	for i, p := range products {
		out[i] = p.ID
	}
	return out
}
