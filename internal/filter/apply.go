package filter

import (
	"sort"
	"strings"

	"github.com/angelmondragon/storefront-backend/internal/catalog"
	"github.com/angelmondragon/storefront-backend/pkg/types"
)

// Apply narrows, orders, and paginates the catalog according to the
// criteria. The input slice is never mutated. All filter dimensions
// combine with AND.
func Apply(products []catalog.Product, c Criteria) ([]catalog.Product, types.PageMeta) {
	matched := make([]catalog.Product, 0, len(products))
	for _, p := range products {
		if matches(p, c) {
			matched = append(matched, p)
		}
	}

	orderBy(matched, c.Sort)
	return paginate(matched, c.Page)
}

func matches(p catalog.Product, c Criteria) bool {
	if c.Search != "" {
		term := strings.ToLower(c.Search)
		if !strings.Contains(strings.ToLower(p.Title), term) &&
			!strings.Contains(strings.ToLower(p.Description), term) &&
			!strings.Contains(strings.ToLower(p.Category), term) {
			return false
		}
	}

	if len(c.Categories) > 0 {
		found := false
		for _, category := range c.Categories {
			if strings.EqualFold(p.Category, category) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	if p.Price.LessThan(c.PriceMin) || p.Price.GreaterThan(c.PriceMax) {
		return false
	}

	if c.InStock && !p.InStock() {
		return false
	}
	return true
}

// orderBy sorts in place. Sorts are stable so products that compare equal
// keep their catalog order.
func orderBy(products []catalog.Product, by Sort) {
	switch by {
	case SortNewest:
		// The catalog lists oldest first; newest is the reverse.
		for i, j := 0, len(products)-1; i < j; i, j = i+1, j-1 {
			products[i], products[j] = products[j], products[i]
		}
	case SortPriceAsc:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].Price.LessThan(products[j].Price)
		})
	case SortPriceDesc:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].Price.GreaterThan(products[j].Price)
		})
	case SortNameAsc:
		sort.SliceStable(products, func(i, j int) bool {
			return strings.ToLower(products[i].Title) < strings.ToLower(products[j].Title)
		})
	case SortNameDesc:
		sort.SliceStable(products, func(i, j int) bool {
			return strings.ToLower(products[i].Title) > strings.ToLower(products[j].Title)
		})
	case SortPopularity:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].Rating.Count > products[j].Rating.Count
		})
	}
}

func paginate(products []catalog.Product, page int) ([]catalog.Product, types.PageMeta) {
	total := len(products)
	totalPages := (total + PerPage - 1) / PerPage
	if totalPages == 0 {
		totalPages = 1
	}
	if page < 1 {
		page = 1
	}

	meta := types.PageMeta{
		Page:       page,
		PerPage:    PerPage,
		TotalItems: total,
		TotalPages: totalPages,
	}

	start := (page - 1) * PerPage
	if start >= total {
		return []catalog.Product{}, meta
	}
	end := start + PerPage
	if end > total {
		end = total
	}
	return products[start:end], meta
}
