package pricing

import (
	"strings"

	"github.com/cercosdelsur/storefront-api/internal/domain"
)

// ProductPrice is a resolved unit price with its unit of measure.
type ProductPrice struct {
	Price float64 `json:"price"`
	Unit  string  `json:"unit"`
}

// DefaultPrice is the last resort when no catalog or heuristic matches.
var DefaultPrice = ProductPrice{Price: 1000, Unit: "unidad"}

// categoryDefaults is the per-category heuristic table used when the catalog
// has no usable price for a product.
var categoryDefaults = map[string]ProductPrice{
	"postes":     {Price: 3500, Unit: "unidad"},
	"alambres":   {Price: 18000, Unit: "rollo"},
	"tejidos":    {Price: 25000, Unit: "rollo"},
	"puertas":    {Price: 45000, Unit: "unidad"},
	"tranqueras": {Price: 60000, Unit: "unidad"},
	"accesorios": {Price: 1500, Unit: "unidad"},
}

// catalogResolver is one stage of the catalog lookup cascade. Stages run in
// order and the first match wins, even when its price later turns out to be
// unusable.
type catalogResolver struct {
	name string
	find func(id, productName string, catalog []domain.Product) *domain.Product
}

var catalogResolvers = []catalogResolver{
	{
		name: "exact-id",
		find: func(id, _ string, catalog []domain.Product) *domain.Product {
			if id == "" {
				return nil
			}
			for i := range catalog {
				if catalog[i].ID == id {
					return &catalog[i]
				}
			}
			return nil
		},
	},
	{
		name: "exact-name",
		find: func(_, productName string, catalog []domain.Product) *domain.Product {
			if productName == "" {
				return nil
			}
			for i := range catalog {
				if strings.EqualFold(catalog[i].Name, productName) {
					return &catalog[i]
				}
			}
			return nil
		},
	},
	{
		name: "substring-name",
		find: func(_, productName string, catalog []domain.Product) *domain.Product {
			if productName == "" {
				return nil
			}
			needle := strings.ToLower(productName)
			for i := range catalog {
				if strings.Contains(strings.ToLower(catalog[i].Name), needle) {
					return &catalog[i]
				}
			}
			return nil
		},
	},
}

// resolve runs the cascade: catalog stages in order, then the category
// heuristic, then the hardcoded default. A catalog match with a price of
// zero or less short-circuits the remaining catalog stages and falls to the
// heuristic.
func resolve(id, name, category string, catalog []domain.Product) ProductPrice {
	for _, r := range catalogResolvers {
		if p := r.find(id, name, catalog); p != nil {
			if p.Price > 0 {
				return ProductPrice{Price: p.Price, Unit: p.PriceUnit}
			}
			break
		}
	}
	if fallback, ok := categoryDefaults[strings.ToLower(strings.TrimSpace(category))]; ok {
		return fallback
	}
	return DefaultPrice
}
