package export

import (
	"testing"
	"time"

	"github.com/cercosdelsur/storefront-api/internal/config"
	"github.com/cercosdelsur/storefront-api/internal/domain"
	"github.com/cercosdelsur/storefront-api/internal/pricing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testBusiness = config.BusinessConfig{
	Name:                  "Cercos del Sur",
	Phone:                 "5492995550123",
	Email:                 "ventas@cercosdelsur.com.ar",
	Address:               "Ruta 22 km 1214, Neuquén, Argentina",
	QuotationValidityDays: 30,
	TermsTemplate:         "Presupuesto válido por {days} días. Precios sujetos a cambio sin previo aviso. No incluye IVA.",
}

func testCurrency() *pricing.CurrencyFormatter {
	return pricing.NewCurrencyFormatter(&config.CurrencyConfig{
		Locale:            "es-AR",
		Symbol:            "$",
		MinFractionDigits: 0,
		MaxFractionDigits: 2,
	})
}

func sampleOrder(t *testing.T) *domain.Order {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	order, err := domain.NewOrder(nil, map[string]string{
		"name":          "Juan Pérez",
		"phone":         "2995550123",
		"address":       "Calle Falsa 123, Plottier",
		"paymentMethod": "transferencia",
	}, domain.CustomerFieldRules{Required: []string{"name", "phone"}}, now)
	require.NoError(t, err)
	order.ID = "ORD-20260830-0417"
	order.Items = []domain.LineItem{
		{ProductID: "P001", Name: "Poste de quebracho", Quantity: 10, UnitPrice: 3500},
	}
	order.Installation = &domain.InstallationService{LinearMeters: 50, PricePerMeter: 2500}
	order.RecalculateTotals()
	return order
}

func sampleQuotation(t *testing.T) *domain.Quotation {
	q := domain.NewQuotation()
	q.ID = "COT-1788091200000-4821"
	q.Date = time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	q.ValidUntil = q.Date.AddDate(0, 0, 30)
	q.Status = domain.QuotationStatusSent
	require.NoError(t, q.AddItem(domain.Product{ID: "P001", Name: "Poste de quebracho", Category: "postes"}, 10, 3500))
	require.NoError(t, q.AddInstallation(50, 2500))
	return q
}

func TestWhatsAppBuilder_OrderMessage(t *testing.T) {
	b := NewWhatsAppBuilder(testBusiness, testCurrency())

	t.Run("full order", func(t *testing.T) {
		got := b.OrderMessage(sampleOrder(t))
		want := "*Nuevo pedido - Cercos del Sur*\n\n" +
			"Pedido: ORD-20260830-0417\n" +
			"Fecha: 30/08/2026\n" +
			"Cliente: Juan Pérez\n" +
			"Teléfono: 2995550123\n" +
			"Dirección: Calle Falsa 123, Plottier\n" +
			"\nProductos:\n" +
			"- Poste de quebracho x10 = $ 35.000\n" +
			"\nInstalación: 50m x $ 2.500 = $ 125.000\n" +
			"\nForma de pago: transferencia\n" +
			"\n*Total: $ 160.000*"
		assert.Equal(t, want, got)
	})

	t.Run("optional blocks are omitted", func(t *testing.T) {
		order := sampleOrder(t)
		order.Customer.Address = ""
		order.Customer.PaymentMethod = ""
		order.Installation = nil
		order.RecalculateTotals()

		got := b.OrderMessage(order)
		assert.NotContains(t, got, "Dirección")
		assert.NotContains(t, got, "Instalación")
		assert.NotContains(t, got, "Forma de pago")
		assert.Contains(t, got, "*Total: $ 35.000*")
	})
}

func TestWhatsAppBuilder_QuotationMessage(t *testing.T) {
	b := NewWhatsAppBuilder(testBusiness, testCurrency())

	got := b.QuotationMessage(sampleQuotation(t))
	want := "*Presupuesto - Cercos del Sur*\n\n" +
		"Presupuesto: COT-1788091200000-4821\n" +
		"Fecha: 30/08/2026\n" +
		"Válido hasta: 29/09/2026\n" +
		"\nMateriales:\n" +
		"- Poste de quebracho x10 = $ 35.000\n" +
		"\nInstalación: 50m x $ 2.500 = $ 125.000\n" +
		"\n*Total: $ 160.000*"
	assert.Equal(t, want, got)
}

func TestWhatsAppBuilder_DispatchURL(t *testing.T) {
	b := NewWhatsAppBuilder(testBusiness, testCurrency())

	url := b.DispatchURL("*Total: $ 35.000*\ngracias")
	assert.Contains(t, url, "https://wa.me/5492995550123?text=")
	assert.Contains(t, url, "%0A")
	assert.NotContains(t, url, "\n")
	assert.NotContains(t, url, " ")
}
