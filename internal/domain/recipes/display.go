package recipes

import (
	"github.com/shopspring/decimal"

	"github.com/Spok95/costbook/internal/domain/catalog"
	"github.com/Spok95/costbook/internal/domain/items"
)

// DeletedMaterialName показывается вместо имени материала, удалённого из каталога.
const DeletedMaterialName = "материал удалён"

type LineView struct {
	MaterialName string
	UnitSymbol   string
	Amount       decimal.Decimal
	UnitPrice    decimal.Decimal
	TotalPrice   decimal.Decimal
}

func MaterialName(id string, materials []items.Item) string {
	for _, m := range materials {
		if m.ID == id {
			return m.Name
		}
	}
	return DeletedMaterialName
}

// Describe готовит строки рецепта к показу. Цены берутся из снимка строки,
// поэтому висячая ссылка на материал меняет только подпись.
func Describe(lines []Line, materials []items.Item, units []catalog.MaterialUnit) []LineView {
	out := make([]LineView, 0, len(lines))
	for _, l := range lines {
		out = append(out, LineView{
			MaterialName: MaterialName(l.MaterialID, materials),
			UnitSymbol:   catalog.UnitSymbol(units, l.Unit),
			Amount:       l.Amount,
			UnitPrice:    l.UnitPrice,
			TotalPrice:   l.TotalPrice,
		})
	}
	return out
}
