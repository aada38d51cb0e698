package recipes

import "github.com/shopspring/decimal"

// TotalCost считает себестоимость рецепта как сумму TotalPrice по строкам.
// Одна и та же функция считает итог и в редакторе, и при показе сохранённого рецепта.
func TotalCost(lines []Line) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.TotalPrice)
	}
	return total
}
