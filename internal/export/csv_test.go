package export

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/cercosdelsur/storefront-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrdersCSV(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	orders := []domain.Order{
		{
			ID:       "ORD-20260830-0417",
			Date:     now,
			Customer: domain.Customer{Name: "Pérez, Juan", Phone: "2995550123"},
			Status:   domain.OrderStatusPending,
			Items:    []domain.LineItem{{Quantity: 10}, {Quantity: 2}},
			Total:    53000,
		},
	}

	raw, err := OrdersCSV(orders)
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(raw)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, []string{"id", "fecha", "cliente", "telefono", "estado", "articulos", "total"}, records[0])
	assert.Equal(t, []string{"ORD-20260830-0417", "30/08/2026", "Pérez, Juan", "2995550123", "pending", "2", "53000.00"}, records[1])

	// The comma in the customer name must be quoted in the raw output.
	assert.Contains(t, string(raw), `"Pérez, Juan"`)
}

func TestOrdersCSV_Empty(t *testing.T) {
	raw, err := OrdersCSV(nil)
	require.NoError(t, err)
	assert.Equal(t, "id,fecha,cliente,telefono,estado,articulos,total\n", string(raw))
}

func TestQuotationsCSV(t *testing.T) {
	date := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	quotations := []domain.Quotation{
		{
			ID:         "COT-1788091200000-4821",
			Date:       date,
			ValidUntil: date.AddDate(0, 0, 30),
			Status:     domain.QuotationStatusSent,
			Items:      []domain.LineItem{{Quantity: 10}},
			Total:      35000,
		},
	}

	raw, err := QuotationsCSV(quotations)
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(raw)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, []string{"id", "fecha", "valido_hasta", "estado", "articulos", "total"}, records[0])
	assert.Equal(t, []string{"COT-1788091200000-4821", "30/08/2026", "29/09/2026", "sent", "1", "35000.00"}, records[1])
}
