package pricing

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// FormatCurrency renders a value in Brazilian reais. This is the only place
// prices are rounded.
func FormatCurrency(value float64) string {
	p := message.NewPrinter(language.BrazilianPortuguese)
	if value < 0 {
		return p.Sprintf("-R$ %.2f", -value)
	}
	return p.Sprintf("R$ %.2f", value)
}
