package catalog

import "github.com/cercosdelsur/storefront-api/internal/domain"

// DefaultProducts is the bundled catalog used whenever the remote source is
// unreachable or empty. Quoting keeps working offline against this list.
func DefaultProducts() []domain.Product {
	return []domain.Product{
		{ID: "P001", Name: "Poste de quebracho 2.40m", Category: "postes", Price: 4200, PriceUnit: "unidad", Stock: 120},
		{ID: "P002", Name: "Poste de eucalipto 2.40m", Category: "postes", Price: 3100, PriceUnit: "unidad", Stock: 200},
		{ID: "P003", Name: "Poste esquinero reforzado 3m", Category: "postes", Price: 6800, PriceUnit: "unidad", Stock: 45},
		{ID: "P004", Name: "Varilla de acero 1.20m", Category: "postes", Price: 1900, PriceUnit: "unidad", Stock: 300},
		{ID: "A001", Name: "Alambre de alta resistencia 17/15", Category: "alambres", Price: 21500, PriceUnit: "rollo", Stock: 60},
		{ID: "A002", Name: "Alambre de púas 16/14", Category: "alambres", Price: 19800, PriceUnit: "rollo", Stock: 80},
		{ID: "A003", Name: "Alambre galvanizado liso N°14", Category: "alambres", Price: 15200, PriceUnit: "rollo", Stock: 95},
		{ID: "T001", Name: "Tejido romboidal 1.50m x 10m", Category: "tejidos", Price: 28500, PriceUnit: "rollo", Stock: 40},
		{ID: "T002", Name: "Tejido romboidal 1.80m x 10m", Category: "tejidos", Price: 33900, PriceUnit: "rollo", Stock: 35},
		{ID: "T003", Name: "Malla electrosoldada 15x15", Category: "tejidos", Price: 24700, PriceUnit: "rollo", Stock: 25},
		{ID: "PU01", Name: "Puerta peatonal 1m con marco", Category: "puertas", Price: 52000, PriceUnit: "unidad", Stock: 12},
		{ID: "PU02", Name: "Portón de campo 3m doble hoja", Category: "puertas", Price: 98000, PriceUnit: "unidad", Stock: 6},
		{ID: "TR01", Name: "Tranquera australiana 3m", Category: "tranqueras", Price: 68000, PriceUnit: "unidad", Stock: 8},
		{ID: "AC01", Name: "Torniquete al aire N°7", Category: "accesorios", Price: 950, PriceUnit: "unidad", Stock: 500},
		{ID: "AC02", Name: "Grampa galvanizada 1kg", Category: "accesorios", Price: 2400, PriceUnit: "kg", Stock: 150},
		{ID: "AC03", Name: "Tensor a crique", Category: "accesorios", Price: 1800, PriceUnit: "unidad", Stock: 220},
	}
}
