// Package money разбирает денежные суммы из «грязных» табличных данных
// и выполняет над ними арифметику без накопления ошибок округления.
package money

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var notAmount = regexp.MustCompile(`[^0-9.]`)

// Parse превращает строку вида "$1,234.50" в 1234.50.
// Символы валют, разделители разрядов и знаки отбрасываются; при ошибке разбора возвращается 0.
func Parse(s string) float64 {
	cleaned := notAmount.ReplaceAllString(strings.TrimSpace(s), "")
	if cleaned == "" {
		return 0
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return 0
	}
	f, _ := d.Float64()
	return f
}

// Add складывает суммы.
func Add(a, b float64) float64 {
	f, _ := decimal.NewFromFloat(a).Add(decimal.NewFromFloat(b)).Float64()
	return f
}

// Sub вычитает b из a.
func Sub(a, b float64) float64 {
	f, _ := decimal.NewFromFloat(a).Sub(decimal.NewFromFloat(b)).Float64()
	return f
}

// Percent возвращает 100 * part / total, округлённое до сотых; 0 при нулевом total.
func Percent(part, total float64) float64 {
	if total == 0 {
		return 0
	}
	f, _ := decimal.NewFromFloat(part).
		Mul(decimal.NewFromInt(100)).
		Div(decimal.NewFromFloat(total)).
		Round(2).
		Float64()
	return f
}
