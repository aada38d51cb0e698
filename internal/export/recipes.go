package export

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/Spok95/costbook/internal/domain/catalog"
	"github.com/Spok95/costbook/internal/domain/items"
	"github.com/Spok95/costbook/internal/domain/products"
	"github.com/Spok95/costbook/internal/domain/recipes"
)

var recipeHeader = []any{"recipe", "material", "unit", "amount", "unit_price", "total_price"}

// TotalLabel: подпись строки с себестоимостью рецепта.
const TotalLabel = "Итого"

// Recipes выгружает все рецепты продукта: строки каждого рецепта и под ними
// строку «Итого» с себестоимостью.
func Recipes(def products.Definition, list []recipes.Recipe, materials []items.Item, units []catalog.MaterialUnit) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	title := []any{fmt.Sprintf("%s (%s)", def.Name, def.Code)}
	if err := f.SetSheetRow(sheet, "A1", &title); err != nil {
		return nil, err
	}
	if err := f.SetSheetRow(sheet, "A2", &recipeHeader); err != nil {
		return nil, err
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}

	row := 3
	put := func(values []any) error {
		c, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, c, &values); err != nil {
			return fmt.Errorf("row %d: %w", row, err)
		}
		row++
		return nil
	}

	for _, r := range list {
		for _, v := range recipes.Describe(r.Materials, materials, units) {
			if err := put([]any{
				r.Name,
				v.MaterialName,
				v.UnitSymbol,
				v.Amount.InexactFloat64(),
				v.UnitPrice.InexactFloat64(),
				v.TotalPrice.InexactFloat64(),
			}); err != nil {
				return nil, err
			}
		}
		totalRow := row
		if err := put([]any{r.Name, TotalLabel, "", "", "", recipes.TotalCost(r.Materials).InexactFloat64()}); err != nil {
			return nil, err
		}
		from, _ := excelize.CoordinatesToCellName(1, totalRow)
		to, _ := excelize.CoordinatesToCellName(6, totalRow)
		_ = f.SetCellStyle(sheet, from, to, bold)
		row++ // пустая строка между рецептами
	}
	_ = f.SetColWidth(sheet, "A", "B", 28)

	buf := &bytes.Buffer{}
	if err := f.Write(buf); err != nil {
		return nil, fmt.Errorf("write: %w", err)
	}
	return buf.Bytes(), nil
}
