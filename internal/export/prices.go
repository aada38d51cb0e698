package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/Spok95/costbook/internal/domain/items"
	"github.com/Spok95/costbook/internal/domain/recipes"
)

var (
	ErrEmptyFile = errors.New("file has no data rows")
	ErrBadHeader = errors.New("header must contain id and price columns")
)

// RowError: ошибка конкретной строки файла (нумерация как в Excel).
type RowError struct {
	Row int
	Msg string
}

func (e *RowError) Error() string { return fmt.Sprintf("row %d: %s", e.Row, e.Msg) }

type PriceRow struct {
	Row   int
	ID    string
	Price decimal.Decimal
}

// ReadPrices читает файл с колонками id и price (остальные колонки, например
// выгрузка каталога целиком, игнорируются). Пустая цена: строка пропускается.
// Повтор id в файле считается ошибкой строки, чтобы цена не зависела от порядка строк.
func ReadPrices(data []byte) ([]PriceRow, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows(f.GetSheetName(f.GetActiveSheetIndex()))
	if err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}
	if len(rows) < 2 {
		return nil, ErrEmptyFile
	}

	idCol, priceCol := -1, -1
	for i, h := range rows[0] {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "id":
			idCol = i
		case "price":
			priceCol = i
		}
	}
	if idCol < 0 || priceCol < 0 {
		return nil, ErrBadHeader
	}

	var out []PriceRow
	seen := map[string]int{}
	for i := 1; i < len(rows); i++ {
		row := rows[i]
		id := cell(row, idCol)
		raw := cell(row, priceCol)
		if id == "" || raw == "" {
			continue
		}
		price, err := decimal.NewFromString(recipes.NormalizeNumber(raw))
		if err != nil || price.IsNegative() {
			return nil, &RowError{Row: i + 1, Msg: fmt.Sprintf("некорректная цена %q", raw)}
		}
		if first, dup := seen[id]; dup {
			return nil, &RowError{Row: i + 1, Msg: fmt.Sprintf("id %s уже встречался в строке %d", id, first)}
		}
		seen[id] = i + 1
		out = append(out, PriceRow{Row: i + 1, ID: id, Price: price})
	}
	return out, nil
}

func cell(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// ApplyPrices раскладывает строки по одинаковой цене и прогоняет каждую
// группу через items.BulkEdit. Итоги групп склеиваются в один Result.
// Для повторного id действует последняя строка, запись по id одна.
func ApplyPrices(ctx context.Context, w items.Writer, loaded []items.Item, rows []PriceRow) items.Result {
	last := map[string]int{}
	for i, r := range rows {
		last[r.ID] = i
	}

	var order []string
	groups := map[string][]string{}
	prices := map[string]decimal.Decimal{}
	for i, r := range rows {
		if last[r.ID] != i {
			continue
		}
		key := r.Price.String()
		if _, ok := groups[key]; !ok {
			order = append(order, key)
			prices[key] = r.Price
		}
		groups[key] = append(groups[key], r.ID)
	}

	var total items.Result
	for _, key := range order {
		price := prices[key]
		res := items.BulkEdit(ctx, w, loaded, groups[key], items.Patch{Price: &price})
		total.Processed = append(total.Processed, res.Processed...)
		total.Skipped = append(total.Skipped, res.Skipped...)
		total.Failed = append(total.Failed, res.Failed...)
	}
	return total
}
