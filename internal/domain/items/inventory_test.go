package items

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func loadedInventory(t *testing.T) (*Inventory, *fakeStore) {
	t.Helper()
	f := newFake()
	inv := NewInventory(f, language.Russian)
	require.NoError(t, inv.Load(context.Background()))
	return inv, f
}

func TestInventory_LoadMergesAndShowsAll(t *testing.T) {
	inv, _ := loadedInventory(t)
	assert.Equal(t, []string{"p1", "p2", "p3", "m1", "m2"}, ids(inv.Visible()))
	assert.Equal(t, TypeAll, inv.Filter().Type)
}

func TestInventory_LoadError(t *testing.T) {
	f := &fakeStore{listErr: errBoom}
	inv := NewInventory(f, language.Russian)
	assert.ErrorIs(t, inv.Load(context.Background()), errBoom)
}

func TestInventory_FilterChangeDropsSort(t *testing.T) {
	inv, _ := loadedInventory(t)

	inv.SortBy(SortByName)
	assert.Equal(t, SortByName, inv.SortKey())
	assert.Equal(t, []string{"m2", "m1", "p1", "p2", "p3"}, ids(inv.Visible()))

	inv.SetFilter(Filter{Type: TypeProducts})
	assert.Equal(t, SortKey(""), inv.SortKey())
	assert.Equal(t, []string{"p1", "p2", "p3"}, ids(inv.Visible()))
}

func TestInventory_Selection(t *testing.T) {
	inv, _ := loadedInventory(t)

	assert.True(t, inv.Toggle("p1"))
	assert.True(t, inv.Toggle("m1"))
	assert.False(t, inv.Toggle("p1"))
	assert.Equal(t, []string{"m1"}, inv.Selected())

	inv.SetFilter(Filter{Type: TypeProducts})
	inv.SelectVisible()
	assert.Equal(t, []string{"m1", "p1", "p2", "p3"}, inv.Selected())

	inv.ClearSelection()
	assert.Empty(t, inv.Selected())
}

func TestInventory_BulkEditReloadsAndClears(t *testing.T) {
	inv, f := loadedInventory(t)
	inv.SetFilter(Filter{Type: TypeMaterials})
	inv.Select("m1", "p2") // p2 скрыт фильтром, но есть в снимке
	price := decimal.NewFromInt(10)

	res, err := inv.BulkEdit(context.Background(), Patch{Price: &price})
	require.NoError(t, err)
	require.NoError(t, res.Err())

	assert.Equal(t, []string{"update_material:m1", "update_product:p2"}, f.ops())
	assert.Empty(t, inv.Selected())
	assert.Equal(t, TypeMaterials, inv.Filter().Type)

	m1, ok := inv.Find("m1")
	require.True(t, ok)
	assert.True(t, m1.Price.Equal(price))
}

func TestInventory_BulkDelete(t *testing.T) {
	inv, _ := loadedInventory(t)
	inv.Select("p1", "m2")

	res, err := inv.BulkDelete(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"p1", "m2"}, res.Processed)
	assert.Equal(t, []string{"p2", "p3", "m1"}, ids(inv.Visible()))

	_, ok := inv.Find("p1")
	assert.False(t, ok)
}
