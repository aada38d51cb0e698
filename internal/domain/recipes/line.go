package recipes

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Spok95/costbook/internal/domain/items"
)

// NewLine: строка с количеством 0 и снимком текущей цены материала.
func NewLine(material items.Item, unit string) Line {
	l := Line{
		MaterialID: material.ID,
		Unit:       unit,
		Amount:     decimal.Zero,
		UnitPrice:  material.Price,
	}
	l.recompute()
	return l
}

// recompute восстанавливает TotalPrice = Amount * UnitPrice.
// Вызывается синхронно после каждого изменения строки.
func (l *Line) recompute() {
	l.TotalPrice = l.Amount.Mul(l.UnitPrice)
}

// Consistent сообщает, выполняется ли TotalPrice == Amount * UnitPrice.
func (l Line) Consistent() bool {
	return l.TotalPrice.Equal(l.Amount.Mul(l.UnitPrice))
}

// SetAmount: отрицательное количество приводится к 0.
func (l *Line) SetAmount(v decimal.Decimal) {
	l.Amount = nonNegative(v)
	l.recompute()
}

// SetUnitPrice: ручная цена, независимая от каталога. Отрицательная приводится к 0.
func (l *Line) SetUnitPrice(v decimal.Decimal) {
	l.UnitPrice = nonNegative(v)
	l.recompute()
}

// SetMaterial меняет материал и заново снимает его цену из каталога.
// Неизвестный id — no-op, возвращает false.
func (l *Line) SetMaterial(id string, available []items.Item) bool {
	for _, m := range available {
		if m.ID != id {
			continue
		}
		l.MaterialID = m.ID
		l.UnitPrice = m.Price
		l.recompute()
		return true
	}
	return false
}

// SetUnit меняет только единицу измерения, цены не трогает.
func (l *Line) SetUnit(unitID string) { l.Unit = unitID }

func nonNegative(v decimal.Decimal) decimal.Decimal {
	if v.IsNegative() {
		return decimal.Zero
	}
	return v
}

// NormalizeNumber приводит ввод к записи, которую понимает decimal:
// пробелы и "_" выбрасываются; единственная запятая без точки считается
// десятичным знаком ("0,25" → "0.25"), иначе запятые разделяют тысячи.
func NormalizeNumber(s string) string {
	s = strings.NewReplacer(" ", "", "\u00a0", "", "_", "").Replace(strings.TrimSpace(s))
	if strings.Count(s, ",") == 1 && !strings.Contains(s, ".") {
		return strings.Replace(s, ",", ".", 1)
	}
	return strings.ReplaceAll(s, ",", "")
}

// ParseNumber разбирает ввод пользователя по правилам NormalizeNumber;
// всё некорректное или отрицательное становится 0.
func ParseNumber(s string) decimal.Decimal {
	s = NormalizeNumber(s)
	if s == "" {
		return decimal.Zero
	}
	v, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return nonNegative(v)
}
