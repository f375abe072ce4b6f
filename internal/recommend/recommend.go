// Package recommend scores related products for the product detail view.
package recommend

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/storefront-backend/internal/catalog"
)

// Limit caps how many related products are returned.
const Limit = 4

var (
	priceBandRatio = decimal.RequireFromString("0.30")

	categoryScore  = 2
	priceBandScore = 1
)

// ForProduct ranks the candidates against the seed product: same category
// scores 2, a price within 30% of the seed scores 1, and the two stack.
// The seed itself is excluded, zero-score candidates are dropped, ties
// keep catalog order, and at most Limit products come back.
func ForProduct(seed catalog.Product, candidates []catalog.Product) []catalog.Product {
	type scored struct {
		product catalog.Product
		score   int
	}

	band := seed.Price.Mul(priceBandRatio)
	low := seed.Price.Sub(band)
	high := seed.Price.Add(band)

	ranked := make([]scored, 0, len(candidates))
	for _, candidate := range candidates {
		if candidate.ID == seed.ID {
			continue
		}
		score := 0
		if candidate.Category == seed.Category {
			score += categoryScore
		}
		if !candidate.Price.LessThan(low) && !candidate.Price.GreaterThan(high) {
			score += priceBandScore
		}
		if score > 0 {
			ranked = append(ranked, scored{product: candidate, score: score})
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})

	limit := Limit
	if len(ranked) < limit {
		limit = len(ranked)
	}
	out := make([]catalog.Product, 0, limit)
	for _, r := range ranked[:limit] {
		out = append(out, r.product)
	}
	return out
}
