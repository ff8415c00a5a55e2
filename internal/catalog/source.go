package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/cercosdelsur/storefront-api/internal/domain"
)

// Row is one loosely-typed record from the remote catalog sheet. Field names
// vary between Spanish and English depending on who edited the sheet.
type Row map[string]interface{}

// RowSource fetches raw catalog rows from wherever the business keeps them.
type RowSource interface {
	FetchRows(ctx context.Context) ([]Row, error)
}

// fieldAliases maps each canonical product field to the column names the
// sheet has been seen using. Normalization happens once at ingestion so the
// rest of the code only ever sees the canonical schema.
var fieldAliases = map[string][]string{
	"id":        {"id", "codigo", "código", "sku"},
	"name":      {"name", "nombre", "producto"},
	"category":  {"category", "categoria", "categoría", "rubro"},
	"price":     {"price", "precio"},
	"priceUnit": {"priceUnit", "unit", "unidad", "precioUnidad"},
	"stock":     {"stock", "existencias", "cantidad"},
}

func lookupField(row Row, canonical string) (interface{}, bool) {
	for _, alias := range fieldAliases[canonical] {
		if v, ok := row[alias]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

func asString(v interface{}) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return ""
	}
}

func asFloat(v interface{}) float64 {
	switch t := v.(type) {
	case float64:
		return t
	case string:
		f, err := strconv.ParseFloat(normalizeNumber(t), 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

// normalizeNumber strips currency noise and maps a sheet price onto Go float
// syntax. Sheets arrive in both es-AR ("1.234,56") and English ("1,234.56")
// conventions; when both separators appear the later one is the decimal mark.
// A lone dot followed by exactly three digits is read as an es-AR thousands
// separator ("3.500"), anything else as a decimal point.
func normalizeNumber(s string) string {
	s = strings.TrimSpace(s)
	s = strings.NewReplacer("$", "", " ", "").Replace(s)

	lastDot := strings.LastIndex(s, ".")
	lastComma := strings.LastIndex(s, ",")

	switch {
	case lastDot >= 0 && lastComma >= 0:
		if lastComma > lastDot {
			s = strings.ReplaceAll(s, ".", "")
			s = strings.Replace(s, ",", ".", 1)
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	case lastComma >= 0:
		if strings.Count(s, ",") > 1 {
			s = strings.ReplaceAll(s, ",", "")
		} else {
			s = strings.Replace(s, ",", ".", 1)
		}
	case lastDot >= 0:
		if strings.Count(s, ".") > 1 || len(s)-lastDot == 4 {
			s = strings.ReplaceAll(s, ".", "")
		}
	}
	return s
}

// NormalizeRows maps raw sheet rows onto the canonical product schema. Rows
// without a name are dropped.
func NormalizeRows(rows []Row) []domain.Product {
	products := make([]domain.Product, 0, len(rows))
	for _, row := range rows {
		var p domain.Product
		if v, ok := lookupField(row, "name"); ok {
			p.Name = asString(v)
		}
		if p.Name == "" {
			continue
		}
		if v, ok := lookupField(row, "id"); ok {
			p.ID = asString(v)
		}
		if v, ok := lookupField(row, "category"); ok {
			p.Category = strings.ToLower(asString(v))
		}
		if v, ok := lookupField(row, "price"); ok {
			p.Price = asFloat(v)
		}
		if v, ok := lookupField(row, "priceUnit"); ok {
			p.PriceUnit = asString(v)
		}
		if p.PriceUnit == "" {
			p.PriceUnit = "unidad"
		}
		if v, ok := lookupField(row, "stock"); ok {
			p.Stock = int(asFloat(v))
		}
		products = append(products, p)
	}
	return products
}

// SheetSource fetches rows from a published spreadsheet endpoint that serves
// its records as a JSON array of objects.
type SheetSource struct {
	url    string
	client *http.Client
}

func NewSheetSource(url string, client *http.Client) *SheetSource {
	if client == nil {
		client = http.DefaultClient
	}
	return &SheetSource{url: url, client: client}
}

func (s *SheetSource) FetchRows(ctx context.Context) ([]Row, error) {
	if s.url == "" {
		return nil, fmt.Errorf("catalog source url not configured")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build catalog request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch catalog: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("catalog source returned status %d", resp.StatusCode)
	}

	var rows []Row
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		return nil, fmt.Errorf("failed to decode catalog rows: %w", err)
	}
	return rows, nil
}
