package catalog

import (
	"sort"
	"strings"

	"carstock/internal/model"
)

// Sort keys accepted by the listing endpoint. The default is
// last_update descending.
const (
	SortByPrice      = "price"
	SortByQuantity   = "quantity"
	SortByName       = "name"
	SortByLastUpdate = "last_update"
)

// Filter holds the listing query parameters. Zero values mean "no
// constraint"; the price bounds use pointers so a zero bound is
// distinguishable from an absent one.
type Filter struct {
	Search      string
	CarName     string
	ProductType string
	Status      string // "available" | "out_of_stock"
	MinPrice    *float64
	MaxPrice    *float64
	SortBy      string
	Order       string // "asc" | "desc"
}

// Apply filters and sorts a loaded catalog, returning the matching
// products as a slice. All matching is pure in-memory list processing:
// case-insensitive substring matches for text, quantity-derived
// availability, inclusive price bounds.
func (f Filter) Apply(cache map[string]model.Product) []model.Product {
	products := make([]model.Product, 0, len(cache))
	for _, p := range cache {
		products = append(products, p)
	}

	if f.Search != "" {
		s := strings.ToLower(f.Search)
		products = keep(products, func(p model.Product) bool {
			return strings.Contains(strings.ToLower(p.ProductName), s) ||
				strings.Contains(strings.ToLower(p.CarName), s) ||
				strings.Contains(strings.ToLower(p.ProductNumber), s) ||
				strings.Contains(strings.ToLower(p.Type), s) ||
				strings.Contains(strings.ToLower(p.ModelNumber), s)
		})
	}
	if f.CarName != "" {
		s := strings.ToLower(f.CarName)
		products = keep(products, func(p model.Product) bool {
			return strings.Contains(strings.ToLower(p.CarName), s)
		})
	}
	if f.ProductType != "" {
		s := strings.ToLower(f.ProductType)
		products = keep(products, func(p model.Product) bool {
			return strings.Contains(strings.ToLower(p.Type), s)
		})
	}
	switch f.Status {
	case "available":
		products = keep(products, func(p model.Product) bool { return p.Quantity > 0 })
	case "out_of_stock":
		products = keep(products, func(p model.Product) bool { return p.Quantity == 0 })
	}
	if f.MinPrice != nil {
		products = keep(products, func(p model.Product) bool { return p.PriceIQD >= *f.MinPrice })
	}
	if f.MaxPrice != nil {
		products = keep(products, func(p model.Product) bool { return p.PriceIQD <= *f.MaxPrice })
	}

	desc := f.Order != "asc"
	sort.SliceStable(products, func(i, j int) bool {
		var less bool
		switch f.SortBy {
		case SortByPrice:
			less = products[i].PriceIQD < products[j].PriceIQD
		case SortByQuantity:
			less = products[i].Quantity < products[j].Quantity
		case SortByName:
			less = products[i].ProductName < products[j].ProductName
		default:
			less = products[i].LastUpdate < products[j].LastUpdate
		}
		if desc {
			return !less && !equalKey(products[i], products[j], f.SortBy)
		}
		return less
	})
	return products
}

func keep(products []model.Product, pred func(model.Product) bool) []model.Product {
	out := products[:0]
	for _, p := range products {
		if pred(p) {
			out = append(out, p)
		}
	}
	return out
}

func equalKey(a, b model.Product, sortBy string) bool {
	switch sortBy {
	case SortByPrice:
		return a.PriceIQD == b.PriceIQD
	case SortByQuantity:
		return a.Quantity == b.Quantity
	case SortByName:
		return a.ProductName == b.ProductName
	default:
		return a.LastUpdate == b.LastUpdate
	}
}
