// Package money formatea importes y cantidades con la agrupación de miles del locale francés.
package money

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.French)

// Espacios que CLDR usa como separador de miles en fr; se normalizan a espacio simple
// porque las fuentes base de los PDF no los incluyen.
var spaceNormalizer = strings.NewReplacer("\u00a0", " ", "\u202f", " ")

// Number formatea un entero: 1234567 -> "1 234 567".
func Number(n int64) string {
	return spaceNormalizer.Replace(printer.Sprintf("%d", n))
}

// Amount formatea un importe sin decimales (el franco guineano no tiene subunidad).
func Amount(d decimal.Decimal) string {
	return Number(d.Round(0).IntPart())
}

// Format formatea un importe con su moneda: "1 250 000 FG".
func Format(d decimal.Decimal, currency string) string {
	if currency == "" {
		return Amount(d)
	}
	return Amount(d) + " " + currency
}

// Signed antepone "+" a los valores positivos (diferencias de stock).
func Signed(n int) string {
	if n > 0 {
		return "+" + Number(int64(n))
	}
	if n < 0 {
		return "-" + Number(int64(-n))
	}
	return "0"
}
