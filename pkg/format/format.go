// Package format da formato de presentación a cantidades y montos (es-CO).
// Los valores se guardan con precisión completa; solo se redondea al mostrar.
package format

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var printer = message.NewPrinter(language.MustParse("es-CO"))

// Money monto con 2 decimales y separador de miles, ej. "$ 12.345,68".
func Money(v decimal.Decimal) string {
	f, _ := v.Round(2).Float64()
	return "$ " + printer.Sprint(number.Decimal(f, number.Scale(2)))
}

// Kilos cantidad con 3 decimales, ej. "1.250,500".
func Kilos(v decimal.Decimal) string {
	f, _ := v.Round(3).Float64()
	return printer.Sprint(number.Decimal(f, number.Scale(3)))
}

// Percent porcentaje sin decimales, ej. "30%".
func Percent(v decimal.Decimal) string {
	return v.Round(0).String() + "%"
}
