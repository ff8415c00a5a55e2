package export

import (
	"context"
	"testing"

	"github.com/cercosdelsur/storefront-api/internal/domain"
	"github.com/cercosdelsur/storefront-api/internal/pricing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type staticCatalog []domain.Product

func (s staticCatalog) Products(ctx context.Context) ([]domain.Product, error) {
	return s, nil
}

func newTestPDFGenerator() *PDFGenerator {
	catalog := staticCatalog{
		{ID: "P001", Name: "Poste de quebracho", Category: "postes", Price: 3500, PriceUnit: "unidad"},
	}
	prices := pricing.NewManager(catalog, nil, zap.NewNop())
	return NewPDFGenerator(testBusiness, testCurrency(), prices)
}

func TestPDFGenerator_Generate(t *testing.T) {
	ctx := context.Background()
	g := newTestPDFGenerator()

	t.Run("renders a complete quotation", func(t *testing.T) {
		doc, err := g.Generate(ctx, sampleQuotation(t))
		require.NoError(t, err)
		require.NotEmpty(t, doc)
		assert.Equal(t, "%PDF", string(doc[:4]))
	})

	t.Run("renders the project block when present", func(t *testing.T) {
		q := sampleQuotation(t)
		q.Project = &domain.ProjectInfo{
			Name:         "Cerco perimetral",
			Location:     "Plottier",
			LinearMeters: 120,
			Notes:        "Terreno con pendiente",
		}
		doc, err := g.Generate(ctx, q)
		require.NoError(t, err)
		assert.Equal(t, "%PDF", string(doc[:4]))
	})

	t.Run("resolves missing unit prices through the cascade", func(t *testing.T) {
		q := sampleQuotation(t)
		q.Items = append(q.Items, domain.LineItem{
			ProductID: "P001",
			Name:      "Poste de quebracho",
			Category:  "postes",
			Quantity:  5,
		})
		doc, err := g.Generate(ctx, q)
		require.NoError(t, err)
		assert.NotEmpty(t, doc)
	})

	t.Run("paginates long item lists", func(t *testing.T) {
		q := sampleQuotation(t)
		for i := 0; i < 80; i++ {
			require.NoError(t, q.AddItem(domain.Product{ID: "P001", Name: "Poste de quebracho", Category: "postes"}, 1, 3500))
		}
		doc, err := g.Generate(ctx, q)
		require.NoError(t, err)
		assert.Greater(t, len(doc), 5000)
	})
}
