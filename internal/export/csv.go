package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/cercosdelsur/storefront-api/internal/domain"
)

// OrdersCSV renders orders as a CSV document: a header row plus one row per
// order, with RFC 4180 quoting.
func OrdersCSV(orders []domain.Order) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{"id", "fecha", "cliente", "telefono", "estado", "articulos", "total"}
	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("failed to write csv header: %w", err)
	}

	for _, o := range orders {
		row := []string{
			o.ID,
			o.Date.Format(dateLayout),
			o.Customer.Name,
			o.Customer.Phone,
			string(o.Status),
			strconv.Itoa(len(o.Items)),
			strconv.FormatFloat(o.Total, 'f', 2, 64),
		}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write csv row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

// QuotationsCSV renders quotations as a CSV document.
func QuotationsCSV(quotations []domain.Quotation) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{"id", "fecha", "valido_hasta", "estado", "articulos", "total"}
	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("failed to write csv header: %w", err)
	}

	for _, q := range quotations {
		row := []string{
			q.ID,
			q.Date.Format(dateLayout),
			q.ValidUntil.Format(dateLayout),
			string(q.Status),
			strconv.Itoa(len(q.Items)),
			strconv.FormatFloat(q.Total, 'f', 2, 64),
		}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write csv row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush csv: %w", err)
	}
	return buf.Bytes(), nil
}
