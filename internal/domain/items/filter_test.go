package items

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleCatalog() []Item {
	return Merge(
		[]Item{
			{ID: "p1", Name: "Торт Медовик", Code: "T-001", Department: "Кондитерский", Price: decimal.NewFromInt(1200)},
			{ID: "p2", Name: "Хлеб ржаной", Code: "B-010", Department: "Пекарня", Price: decimal.NewFromInt(90)},
			{ID: "p3", Name: "Эклер", Code: "T-002", Department: "Кондитерский", Price: decimal.NewFromInt(150)},
		},
		[]Item{
			{ID: "m1", Name: "Мука", Code: "M-001", Department: "Склад", Price: decimal.NewFromInt(60)},
			{ID: "m2", Name: "Мёд", Code: "M-002", Department: "Склад", Price: decimal.NewFromInt(700)},
		},
	)
}

func ids(list []Item) []string {
	out := make([]string, 0, len(list))
	for _, it := range list {
		out = append(out, it.ID)
	}
	return out
}

func TestMerge_TagsKindProductsFirst(t *testing.T) {
	all := sampleCatalog()
	require.Len(t, all, 5)
	assert.Equal(t, []string{"p1", "p2", "p3", "m1", "m2"}, ids(all))
	for _, it := range all[:3] {
		assert.Equal(t, KindProduct, it.Kind)
	}
	for _, it := range all[3:] {
		assert.Equal(t, KindMaterial, it.Kind)
	}
}

func TestApply_DefaultFilterKeepsEverythingInOrder(t *testing.T) {
	all := sampleCatalog()
	assert.Equal(t, all, Apply(all, Filter{Type: TypeAll}))
	assert.Equal(t, all, Apply(all, Filter{}))
}

func TestApply_MaterialsOnly(t *testing.T) {
	got := Apply(sampleCatalog(), Filter{Type: TypeMaterials})
	assert.Equal(t, []string{"m1", "m2"}, ids(got))
}

func TestApply_ProductsOnly(t *testing.T) {
	got := Apply(sampleCatalog(), Filter{Type: TypeProducts})
	assert.Equal(t, []string{"p1", "p2", "p3"}, ids(got))
}

func TestApply_Conjunction(t *testing.T) {
	all := sampleCatalog()

	assert.Equal(t, []string{"p1", "p3"}, ids(Apply(all, Filter{Department: "кондитер"})))
	assert.Equal(t, []string{"p1", "p3"}, ids(Apply(all, Filter{Search: "t-00"})), "search matches code")
	assert.Equal(t, []string{"p3"}, ids(Apply(all, Filter{Department: "Кондитерский", Search: "эклер"})))
	assert.Empty(t, Apply(all, Filter{Type: TypeMaterials, Department: "Пекарня"}))
}

func TestApply_Idempotent(t *testing.T) {
	all := sampleCatalog()
	for _, f := range []Filter{
		{Type: TypeAll},
		{Type: TypeMaterials},
		{Department: "Склад", Search: "мё"},
		{Search: "нет такого"},
	} {
		once := Apply(all, f)
		assert.Equal(t, once, Apply(once, f), "filter %+v", f)
	}
}

func TestApply_DoesNotTouchSource(t *testing.T) {
	all := sampleCatalog()
	before := append([]Item(nil), all...)
	_ = Apply(all, Filter{Type: TypeProducts, Search: "хлеб"})
	assert.Equal(t, before, all)
}

func TestParseTypeFilter(t *testing.T) {
	assert.Equal(t, TypeProducts, ParseTypeFilter("Products"))
	assert.Equal(t, TypeMaterials, ParseTypeFilter(" materials "))
	assert.Equal(t, TypeAll, ParseTypeFilter(""))
	assert.Equal(t, TypeAll, ParseTypeFilter("whatever"))
}

func TestFilter_IsZero(t *testing.T) {
	assert.True(t, Filter{}.IsZero())
	assert.True(t, Filter{Type: TypeAll}.IsZero())
	assert.False(t, Filter{Type: TypeProducts}.IsZero())
	assert.False(t, Filter{Search: "x"}.IsZero())
}
