// Package export собирает xlsx-файлы каталога и рецептов и разбирает
// загруженные обратно файлы с ценами.
package export

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/Spok95/costbook/internal/domain/items"
)

const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var inventoryHeader = []any{"kind", "id", "code", "name", "department", "price"}

// Inventory выгружает записи в том порядке, в каком они переданы
// (обычно это видимый список после фильтра и сортировки).
func Inventory(list []items.Item) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	if err := f.SetSheetRow(sheet, "A1", &inventoryHeader); err != nil {
		return nil, fmt.Errorf("header: %w", err)
	}

	for i, it := range list {
		row := []any{
			string(it.Kind),
			it.ID,
			it.Code,
			it.Name,
			it.Department,
			it.Price.InexactFloat64(),
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
	}
	_ = f.SetColWidth(sheet, "B", "B", 38)
	_ = f.SetColWidth(sheet, "D", "E", 28)

	buf := &bytes.Buffer{}
	if err := f.Write(buf); err != nil {
		return nil, fmt.Errorf("write: %w", err)
	}
	return buf.Bytes(), nil
}
