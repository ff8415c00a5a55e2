package pricing

import (
	"github.com/cercosdelsur/storefront-api/internal/config"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// CurrencyFormatter renders amounts with the configured locale, symbol and
// fraction digits. Nothing about the currency is hardcoded.
type CurrencyFormatter struct {
	printer *message.Printer
	symbol  string
	min     int
	max     int
}

func NewCurrencyFormatter(cfg *config.CurrencyConfig) *CurrencyFormatter {
	tag, err := language.Parse(cfg.Locale)
	if err != nil {
		tag = language.Spanish
	}
	return &CurrencyFormatter{
		printer: message.NewPrinter(tag),
		symbol:  cfg.Symbol,
		min:     cfg.MinFractionDigits,
		max:     cfg.MaxFractionDigits,
	}
}

// Format renders an amount as "<symbol> <grouped number>", e.g. "$ 35.000"
// under es-AR.
func (f *CurrencyFormatter) Format(amount float64) string {
	return f.symbol + " " + f.printer.Sprint(number.Decimal(
		amount,
		number.MinFractionDigits(f.min),
		number.MaxFractionDigits(f.max),
	))
}
