package catalog

import (
	"sort"

	"carstock/internal/model"
)

// Overview summarizes the whole catalog for the dashboard.
type Overview struct {
	TotalProducts     int     `json:"total_products"`
	AvailableProducts int     `json:"available_products"`
	OutOfStock        int     `json:"out_of_stock"`
	TotalValue        float64 `json:"total_value"`
	TotalItems        int     `json:"total_items"`
	AveragePrice      float64 `json:"average_price"`
}

// TypeBreakdown aggregates products sharing a type.
type TypeBreakdown struct {
	Count    int     `json:"count"`
	Quantity int     `json:"quantity"`
	Value    float64 `json:"value"`
}

// CarBreakdown aggregates products sharing a car name.
type CarBreakdown struct {
	Count    int `json:"count"`
	Quantity int `json:"quantity"`
}

// SellerEntry is a row of the top-selling list. Sold is the difference
// between the original and current quantity.
type SellerEntry struct {
	ProductNumber string `json:"product_number"`
	ProductName   string `json:"product_name"`
	Sold          int    `json:"sold"`
	Remaining     int    `json:"remaining"`
}

// LowStockEntry is a row of the low-stock list (0 < quantity < 5).
type LowStockEntry struct {
	ProductNumber string `json:"product_number"`
	ProductName   string `json:"product_name"`
	Quantity      int    `json:"quantity"`
}

// Stats is the payload of the statistics endpoint.
type Stats struct {
	Overview   Overview                 `json:"overview"`
	ByType     map[string]TypeBreakdown `json:"by_type"`
	ByCar      map[string]CarBreakdown  `json:"by_car"`
	TopSelling []SellerEntry            `json:"top_selling"`
	LowStock   []LowStockEntry          `json:"low_stock"`
}

const unspecifiedGroup = "unspecified"

// ComputeStats aggregates a loaded catalog. ByCar keeps only the ten
// largest groups; TopSelling and LowStock are capped at ten rows each.
func ComputeStats(cache map[string]model.Product) Stats {
	products := make([]model.Product, 0, len(cache))
	for _, p := range cache {
		products = append(products, p)
	}

	var overview Overview
	overview.TotalProducts = len(products)
	byType := map[string]TypeBreakdown{}
	byCar := map[string]CarBreakdown{}
	for _, p := range products {
		if p.Quantity > 0 {
			overview.AvailableProducts++
		}
		overview.TotalValue += p.PriceIQD * float64(p.Quantity)
		overview.TotalItems += p.Quantity

		t := group(p.Type)
		tb := byType[t]
		tb.Count++
		tb.Quantity += p.Quantity
		tb.Value += p.PriceIQD * float64(p.Quantity)
		byType[t] = tb

		c := group(p.CarName)
		cb := byCar[c]
		cb.Count++
		cb.Quantity += p.Quantity
		byCar[c] = cb
	}
	overview.OutOfStock = overview.TotalProducts - overview.AvailableProducts
	if overview.TotalItems > 0 {
		overview.AveragePrice = overview.TotalValue / float64(overview.TotalItems)
	}

	// Keep only the ten largest car groups.
	if len(byCar) > 10 {
		type carCount struct {
			name  string
			count int
		}
		cars := make([]carCount, 0, len(byCar))
		for name, cb := range byCar {
			cars = append(cars, carCount{name, cb.Count})
		}
		sort.Slice(cars, func(i, j int) bool {
			if cars[i].count != cars[j].count {
				return cars[i].count > cars[j].count
			}
			return cars[i].name < cars[j].name
		})
		top := make(map[string]CarBreakdown, 10)
		for _, c := range cars[:10] {
			top[c.name] = byCar[c.name]
		}
		byCar = top
	}

	// Top selling: products with an original quantity, ranked by units
	// sold since creation.
	sellers := []SellerEntry{}
	for _, p := range products {
		if p.OriginalQuantity > 0 {
			sellers = append(sellers, SellerEntry{
				ProductNumber: p.ProductNumber,
				ProductName:   p.ProductName,
				Sold:          p.OriginalQuantity - p.Quantity,
				Remaining:     p.Quantity,
			})
		}
	}
	sort.SliceStable(sellers, func(i, j int) bool { return sellers[i].Sold > sellers[j].Sold })
	if len(sellers) > 10 {
		sellers = sellers[:10]
	}

	// Low stock: still available but under five units, lowest first.
	sort.SliceStable(products, func(i, j int) bool { return products[i].Quantity < products[j].Quantity })
	low := []LowStockEntry{}
	for _, p := range products {
		if len(low) == 10 {
			break
		}
		if p.Quantity > 0 && p.Quantity < 5 {
			low = append(low, LowStockEntry{
				ProductNumber: p.ProductNumber,
				ProductName:   p.ProductName,
				Quantity:      p.Quantity,
			})
		}
	}

	return Stats{
		Overview:   overview,
		ByType:     byType,
		ByCar:      byCar,
		TopSelling: sellers,
		LowStock:   low,
	}
}

func group(name string) string {
	if name == "" {
		return unspecifiedGroup
	}
	return name
}
