package export

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/cercosdelsur/storefront-api/internal/config"
	"github.com/cercosdelsur/storefront-api/internal/domain"
	"github.com/cercosdelsur/storefront-api/internal/pricing"
)

const dateLayout = "02/01/2006"

// WhatsAppBuilder renders orders and quotations into the exact text template
// sent over the messaging endpoint. The templates are deterministic: the same
// record always produces byte-identical output.
type WhatsAppBuilder struct {
	business config.BusinessConfig
	currency *pricing.CurrencyFormatter
}

func NewWhatsAppBuilder(business config.BusinessConfig, currency *pricing.CurrencyFormatter) *WhatsAppBuilder {
	return &WhatsAppBuilder{business: business, currency: currency}
}

// OrderMessage renders an order into the dispatch template.
func (b *WhatsAppBuilder) OrderMessage(order *domain.Order) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "*Nuevo pedido - %s*\n\n", b.business.Name)
	fmt.Fprintf(&sb, "Pedido: %s\n", order.ID)
	fmt.Fprintf(&sb, "Fecha: %s\n", order.Date.Format(dateLayout))
	fmt.Fprintf(&sb, "Cliente: %s\n", order.Customer.Name)
	fmt.Fprintf(&sb, "Teléfono: %s\n", order.Customer.Phone)
	if order.Customer.Address != "" {
		fmt.Fprintf(&sb, "Dirección: %s\n", order.Customer.Address)
	}

	sb.WriteString("\nProductos:\n")
	for _, item := range order.Items {
		fmt.Fprintf(&sb, "- %s x%d = %s\n", item.Name, item.Quantity, b.currency.Format(item.Subtotal))
	}

	if order.Installation != nil {
		fmt.Fprintf(&sb, "\nInstalación: %.0fm x %s = %s\n",
			order.Installation.LinearMeters,
			b.currency.Format(order.Installation.PricePerMeter),
			b.currency.Format(order.Installation.Subtotal),
		)
	}

	if order.Customer.PaymentMethod != "" {
		fmt.Fprintf(&sb, "\nForma de pago: %s\n", order.Customer.PaymentMethod)
	}

	fmt.Fprintf(&sb, "\n*Total: %s*", b.currency.Format(order.Total))
	return sb.String()
}

// QuotationMessage renders a quotation into the dispatch template.
func (b *WhatsAppBuilder) QuotationMessage(quotation *domain.Quotation) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "*Presupuesto - %s*\n\n", b.business.Name)
	fmt.Fprintf(&sb, "Presupuesto: %s\n", quotation.ID)
	fmt.Fprintf(&sb, "Fecha: %s\n", quotation.Date.Format(dateLayout))
	fmt.Fprintf(&sb, "Válido hasta: %s\n", quotation.ValidUntil.Format(dateLayout))

	sb.WriteString("\nMateriales:\n")
	for _, item := range quotation.Items {
		fmt.Fprintf(&sb, "- %s x%d = %s\n", item.Name, item.Quantity, b.currency.Format(item.Subtotal))
	}

	if quotation.Installation != nil {
		fmt.Fprintf(&sb, "\nInstalación: %.0fm x %s = %s\n",
			quotation.Installation.LinearMeters,
			b.currency.Format(quotation.Installation.PricePerMeter),
			b.currency.Format(quotation.Installation.Subtotal),
		)
	}

	fmt.Fprintf(&sb, "\n*Total: %s*", b.currency.Format(quotation.Total))
	return sb.String()
}

// DispatchURL builds the messaging endpoint URL for a rendered message. The
// caller hands the URL to the client; dispatch itself happens outside this
// system.
func (b *WhatsAppBuilder) DispatchURL(message string) string {
	return fmt.Sprintf("https://wa.me/%s?text=%s", b.business.Phone, url.QueryEscape(message))
}
