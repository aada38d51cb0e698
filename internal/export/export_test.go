package export

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/Spok95/costbook/internal/domain/catalog"
	"github.com/Spok95/costbook/internal/domain/items"
	"github.com/Spok95/costbook/internal/domain/products"
	"github.com/Spok95/costbook/internal/domain/recipes"
	"github.com/Spok95/costbook/internal/infra/memstore"
)

func readRows(t *testing.T, data []byte) [][]string {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	rows, err := f.GetRows(f.GetSheetName(f.GetActiveSheetIndex()))
	require.NoError(t, err)
	return rows
}

func TestInventory(t *testing.T) {
	data, err := Inventory([]items.Item{
		{ID: "p1", Name: "Эклер", Code: "T-2", Department: "Кафе", Price: decimal.NewFromInt(150), Kind: items.KindProduct},
		{ID: "m1", Name: "Мука", Code: "M-1", Department: "Склад", Price: decimal.RequireFromString("60.5"), Kind: items.KindMaterial},
	})
	require.NoError(t, err)

	rows := readRows(t, data)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"kind", "id", "code", "name", "department", "price"}, rows[0])
	assert.Equal(t, []string{"product", "p1", "T-2", "Эклер", "Кафе", "150"}, rows[1])
	assert.Equal(t, []string{"material", "m1", "M-1", "Мука", "Склад", "60.5"}, rows[2])
}

func TestReadPrices_FromInventoryExport(t *testing.T) {
	data, err := Inventory([]items.Item{
		{ID: "p1", Price: decimal.NewFromInt(150), Kind: items.KindProduct},
		{ID: "m1", Price: decimal.NewFromInt(60), Kind: items.KindMaterial},
	})
	require.NoError(t, err)

	rows, err := ReadPrices(data)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "p1", rows[0].ID)
	assert.Equal(t, 2, rows[0].Row)
	assert.True(t, rows[1].Price.Equal(decimal.NewFromInt(60)))
}

func sheet(t *testing.T, rows ...[]any) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()
	name := f.GetSheetName(f.GetActiveSheetIndex())
	for i, r := range rows {
		c, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		r := r
		require.NoError(t, f.SetSheetRow(name, c, &r))
	}
	buf := &bytes.Buffer{}
	require.NoError(t, f.Write(buf))
	return buf.Bytes()
}

func TestReadPrices_Errors(t *testing.T) {
	_, err := ReadPrices([]byte("not xlsx"))
	assert.Error(t, err)

	_, err = ReadPrices(sheet(t, []any{"id", "price"}))
	assert.ErrorIs(t, err, ErrEmptyFile)

	_, err = ReadPrices(sheet(t, []any{"code", "cost"}, []any{"a", 1}))
	assert.ErrorIs(t, err, ErrBadHeader)

	_, err = ReadPrices(sheet(t, []any{"price", "id"}, []any{"10", "a"}, []any{"-1", "b"}))
	var rowErr *RowError
	require.ErrorAs(t, err, &rowErr)
	assert.Equal(t, 3, rowErr.Row)
}

func TestReadPrices_SkipsBlankAndAcceptsComma(t *testing.T) {
	rows, err := ReadPrices(sheet(t,
		[]any{"ID", "Price"},
		[]any{"a", "12,5"},
		[]any{"b", ""},
		[]any{"", "7"},
		[]any{"c", "1 250,75"},
	))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.True(t, rows[0].Price.Equal(decimal.RequireFromString("12.5")))
	assert.True(t, rows[1].Price.Equal(decimal.RequireFromString("1250.75")))
	// тот же разбор, что и у ввода в чате
	assert.True(t, rows[1].Price.Equal(recipes.ParseNumber("1 250,75")))
}

func TestReadPrices_DuplicateIDRejected(t *testing.T) {
	_, err := ReadPrices(sheet(t,
		[]any{"id", "price"},
		[]any{"m1", "10"},
		[]any{"m2", "5"},
		[]any{"m1", "20"},
	))
	var rowErr *RowError
	require.ErrorAs(t, err, &rowErr)
	assert.Equal(t, 4, rowErr.Row)
	assert.Contains(t, rowErr.Msg, "строке 2")
}

func TestApplyPrices(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	p, err := store.CreateProduct(ctx, items.NewItem{Name: "Эклер", Code: "T-2", Department: "Кафе", Price: decimal.NewFromInt(150)})
	require.NoError(t, err)
	m, err := store.CreateMaterial(ctx, items.NewItem{Name: "Мука", Code: "M-1", Department: "Склад", Price: decimal.NewFromInt(60)})
	require.NoError(t, err)
	loaded := []items.Item{*p, *m}

	res := ApplyPrices(ctx, store, loaded, []PriceRow{
		{ID: p.ID, Price: decimal.NewFromInt(10)},
		{ID: "gone", Price: decimal.NewFromInt(10)},
		{ID: m.ID, Price: decimal.NewFromInt(70)},
	})

	require.NoError(t, res.Err())
	assert.ElementsMatch(t, []string{p.ID, m.ID}, res.Processed)
	assert.Equal(t, []string{"gone"}, res.Skipped)

	mats, err := store.ListMaterials(ctx)
	require.NoError(t, err)
	assert.True(t, mats[0].Price.Equal(decimal.NewFromInt(70)))
	assert.Equal(t, "Мука", mats[0].Name)
}

func TestApplyPrices_RepeatedIDWrittenOnce(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	m, err := store.CreateMaterial(ctx, items.NewItem{Name: "Мука", Code: "M-1", Department: "Склад", Price: decimal.NewFromInt(60)})
	require.NoError(t, err)

	res := ApplyPrices(ctx, store, []items.Item{*m}, []PriceRow{
		{Row: 2, ID: m.ID, Price: decimal.NewFromInt(10)},
		{Row: 3, ID: m.ID, Price: decimal.NewFromInt(20)},
	})

	require.NoError(t, res.Err())
	assert.Equal(t, []string{m.ID}, res.Processed)
	mats, err := store.ListMaterials(ctx)
	require.NoError(t, err)
	assert.True(t, mats[0].Price.Equal(decimal.NewFromInt(20)))
}

func TestRecipes(t *testing.T) {
	def := products.Definition{ID: "d1", Name: "Медовик", Code: "T-1"}
	now := time.Now()
	list := []recipes.Recipe{{
		ID:   "r1",
		Name: "Классика",
		Materials: []recipes.Line{
			{MaterialID: "m1", Unit: "kg", Amount: decimal.NewFromInt(5), UnitPrice: decimal.NewFromInt(1000), TotalPrice: decimal.NewFromInt(5000)},
			{MaterialID: "gone", Unit: "kg", Amount: decimal.NewFromInt(3), UnitPrice: decimal.NewFromInt(1000), TotalPrice: decimal.NewFromInt(3000)},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}}
	materials := []items.Item{{ID: "m1", Name: "Мука"}}
	units := []catalog.MaterialUnit{{ID: "kg", Symbol: "кг"}}

	data, err := Recipes(def, list, materials, units)
	require.NoError(t, err)

	rows := readRows(t, data)
	require.GreaterOrEqual(t, len(rows), 5)
	assert.Equal(t, "Медовик (T-1)", rows[0][0])
	assert.Equal(t, []string{"Классика", "Мука", "кг", "5", "1000", "5000"}, rows[2])
	assert.Equal(t, recipes.DeletedMaterialName, rows[3][1])
	assert.Equal(t, TotalLabel, rows[4][1])
	assert.Equal(t, "8000", rows[4][5])
}
