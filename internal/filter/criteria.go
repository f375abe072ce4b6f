// Package filter implements the catalog listing controls: search,
// category and price filters, sorting, and pagination.
package filter

import (
	"github.com/shopspring/decimal"
)

// Sort is a product ordering.
type Sort string

const (
	SortNewest     Sort = "newest"
	SortPriceAsc   Sort = "price-asc"
	SortPriceDesc  Sort = "price-desc"
	SortNameAsc    Sort = "name-asc"
	SortNameDesc   Sort = "name-desc"
	SortPopularity Sort = "popularity"
)

// PerPage is the fixed page size of the product grid.
const PerPage = 12

// Criteria is a value type: every mutation returns a new Criteria so the
// caller can diff, replay, or discard updates freely.
type Criteria struct {
	Search     string          `json:"search"`
	Categories []string        `json:"categories"`
	PriceMin   decimal.Decimal `json:"priceMin"`
	PriceMax   decimal.Decimal `json:"priceMax"`
	Sort       Sort            `json:"sort"`
	InStock    bool            `json:"inStock"`
	Page       int             `json:"page"`
}

// Default returns the initial criteria: empty search, all categories, the
// full 0-1000 price band, newest first, page 1.
func Default() Criteria {
	return Criteria{
		Categories: []string{},
		PriceMin:   decimal.Zero,
		PriceMax:   decimal.NewFromInt(1000),
		Sort:       SortNewest,
		Page:       1,
	}
}

// WithSearch sets the search term and rewinds to the first page.
func (c Criteria) WithSearch(term string) Criteria {
	c.Search = term
	c.Page = 1
	return c
}

// WithCategories replaces the category filter and rewinds to the first
// page. An empty slice means all categories.
func (c Criteria) WithCategories(categories []string) Criteria {
	c.Categories = append([]string{}, categories...)
	c.Page = 1
	return c
}

// ToggleCategory adds or removes a single category and rewinds to the
// first page.
func (c Criteria) ToggleCategory(category string) Criteria {
	next := make([]string, 0, len(c.Categories)+1)
	found := false
	for _, existing := range c.Categories {
		if existing == category {
			found = true
			continue
		}
		next = append(next, existing)
	}
	if !found {
		next = append(next, category)
	}
	c.Categories = next
	c.Page = 1
	return c
}

// WithPriceRange sets the price band and rewinds to the first page.
func (c Criteria) WithPriceRange(min, max decimal.Decimal) Criteria {
	c.PriceMin = min
	c.PriceMax = max
	c.Page = 1
	return c
}

// WithSort sets the ordering. Changing the sort reshuffles which items
// land on which page, so this rewinds to the first page too.
func (c Criteria) WithSort(sort Sort) Criteria {
	c.Sort = sort
	c.Page = 1
	return c
}

// WithInStock sets the in-stock-only flag and rewinds to the first page.
func (c Criteria) WithInStock(only bool) Criteria {
	c.InStock = only
	c.Page = 1
	return c
}

// ToggleInStock flips the in-stock-only flag and rewinds to the first page.
func (c Criteria) ToggleInStock() Criteria {
	c.InStock = !c.InStock
	c.Page = 1
	return c
}

// WithPage moves to the given page. The only mutation that does not reset
// pagination, for the obvious reason.
func (c Criteria) WithPage(page int) Criteria {
	if page < 1 {
		page = 1
	}
	c.Page = page
	return c
}

// ValidSort reports whether s names a known ordering.
func ValidSort(s Sort) bool {
	switch s {
	case SortNewest, SortPriceAsc, SortPriceDesc, SortNameAsc, SortNameDesc, SortPopularity:
		return true
	}
	return false
}
