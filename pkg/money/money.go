// Package money formatea montos en USD para tableros y reportes.
package money

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var (
	million  = decimal.NewFromInt(1_000_000)
	thousand = decimal.NewFromInt(1_000)
)

// Compact formato corto: $1.2M, $350K, $900.
func Compact(v decimal.Decimal) string {
	sign := ""
	if v.IsNegative() {
		sign = "-"
		v = v.Neg()
	}
	switch {
	case v.GreaterThanOrEqual(million):
		return sign + "$" + v.Div(million).StringFixed(1) + "M"
	case v.GreaterThanOrEqual(thousand):
		return sign + "$" + v.Div(thousand).StringFixed(0) + "K"
	default:
		return sign + "$" + v.StringFixed(0)
	}
}

var printer = message.NewPrinter(language.AmericanEnglish)

// Full monto completo con separador de miles y dos decimales: $1,234,567.50.
func Full(v decimal.Decimal) string {
	f, _ := v.Round(2).Float64()
	if f < 0 {
		return printer.Sprintf("-$%v", number.Decimal(-f, number.Scale(2)))
	}
	return printer.Sprintf("$%v", number.Decimal(f, number.Scale(2)))
}

// Percent porcentaje con un decimal: 12.5%.
func Percent(v decimal.Decimal) string {
	return v.StringFixed(1) + "%"
}
