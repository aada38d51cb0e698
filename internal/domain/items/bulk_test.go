package items

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFake() *fakeStore {
	all := sampleCatalog()
	return &fakeStore{products: all[:3], materials: all[3:]}
}

func TestBulkEdit_RoutesByKind(t *testing.T) {
	f := newFake()
	loaded := sampleCatalog()
	dept := "X"

	res := BulkEdit(context.Background(), f, loaded, []string{"p1", "m2"}, Patch{Department: &dept})

	require.NoError(t, res.Err())
	assert.Equal(t, []string{"p1", "m2"}, res.Processed)
	assert.Equal(t, []string{"update_product:p1", "update_material:m2"}, f.ops())

	// изменилось только поле отдела
	want := loaded[0]
	want.Department = "X"
	assert.Equal(t, want, f.calls[0].item)
	want = loaded[4]
	want.Department = "X"
	assert.Equal(t, want, f.calls[1].item)
}

func TestBulkEdit_PricePatch(t *testing.T) {
	f := newFake()
	price := decimal.RequireFromString("99.50")

	res := BulkEdit(context.Background(), f, sampleCatalog(), []string{"m1"}, Patch{Price: &price})

	require.NoError(t, res.Err())
	require.Len(t, f.calls, 1)
	assert.True(t, f.calls[0].item.Price.Equal(price))
	assert.Equal(t, "Мука", f.calls[0].item.Name)
}

func TestBulkEdit_SkipsStaleAndDuplicateIDs(t *testing.T) {
	f := newFake()
	name := "Новое"

	res := BulkEdit(context.Background(), f, sampleCatalog(), []string{"p2", "gone", "p2"}, Patch{Name: &name})

	assert.Equal(t, []string{"p2"}, res.Processed)
	assert.Equal(t, []string{"gone"}, res.Skipped)
	assert.Equal(t, []string{"update_product:p2"}, f.ops())
}

func TestBulkEdit_ContinuesAfterFailure(t *testing.T) {
	f := newFake()
	f.failOn = map[string]error{"p1": errBoom}
	dept := "X"

	res := BulkEdit(context.Background(), f, sampleCatalog(), []string{"p1", "p3", "m1"}, Patch{Department: &dept})

	assert.Equal(t, []string{"p3", "m1"}, res.Processed)
	require.Len(t, res.Failed, 1)
	assert.Equal(t, "p1", res.Failed[0].ID)
	assert.Equal(t, KindProduct, res.Failed[0].Kind)
	assert.ErrorIs(t, res.Err(), errBoom)
	assert.Len(t, f.calls, 3)
}

func TestBulkDelete_RoutesByKind(t *testing.T) {
	f := newFake()

	res := BulkDelete(context.Background(), f, sampleCatalog(), []string{"m1", "p3"})

	require.NoError(t, res.Err())
	assert.Equal(t, []string{"delete_material:m1", "delete_product:p3"}, f.ops())
	assert.Equal(t, []string{"p1", "p2"}, ids(f.products))
	assert.Equal(t, []string{"m2"}, ids(f.materials))
}

func TestPatch(t *testing.T) {
	assert.True(t, Patch{}.IsEmpty())
	code := "C"
	p := Patch{Code: &code}
	assert.False(t, p.IsEmpty())

	it := Item{ID: "1", Name: "n", Code: "old", Kind: KindMaterial}
	got := p.Apply(it)
	assert.Equal(t, Item{ID: "1", Name: "n", Code: "C", Kind: KindMaterial}, got)
	assert.Equal(t, "old", it.Code)
}
