package memstore

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Spok95/costbook/internal/domain/items"
	"github.com/Spok95/costbook/internal/domain/recipes"
)

func TestItems_CRUD(t *testing.T) {
	ctx := context.Background()
	s := New()

	p, err := s.CreateProduct(ctx, items.NewItem{Name: "Эклер", Code: "T-2", Department: "Кафе", Price: decimal.NewFromInt(150)})
	require.NoError(t, err)
	m, err := s.CreateMaterial(ctx, items.NewItem{Name: "Мука", Code: "M-1", Department: "Склад", Price: decimal.NewFromInt(60)})
	require.NoError(t, err)
	assert.Equal(t, items.KindProduct, p.Kind)
	assert.Equal(t, items.KindMaterial, m.Kind)

	upd := *m
	upd.Price = decimal.NewFromInt(65)
	require.NoError(t, s.UpdateMaterial(ctx, upd))
	assert.ErrorIs(t, s.UpdateProduct(ctx, upd), items.ErrNotFound, "material id is unknown to products")

	list, err := s.ListMaterials(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.True(t, list[0].Price.Equal(decimal.NewFromInt(65)))

	require.NoError(t, s.DeleteProduct(ctx, p.ID))
	assert.ErrorIs(t, s.DeleteProduct(ctx, p.ID), items.ErrNotFound)
	list, err = s.ListProducts(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestItems_ListReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := New()
	_, err := s.CreateMaterial(ctx, items.NewItem{Name: "Мука", Code: "M-1", Department: "Склад", Price: decimal.NewFromInt(60)})
	require.NoError(t, err)

	list, _ := s.ListMaterials(ctx)
	list[0].Name = "changed"

	again, _ := s.ListMaterials(ctx)
	assert.Equal(t, "Мука", again[0].Name)
}

func TestRecipes_DeepCopies(t *testing.T) {
	ctx := context.Background()
	s := New()
	r := recipes.Recipe{
		ProductID: "prod-1",
		Name:      "Медовик",
		Materials: []recipes.Line{{MaterialID: "m1", Unit: "kg", Amount: decimal.NewFromInt(2), UnitPrice: decimal.NewFromInt(3), TotalPrice: decimal.NewFromInt(6)}},
	}
	created, err := s.CreateRecipe(ctx, r)
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	r.Materials[0].MaterialID = "mutated"
	created.Materials[0].MaterialID = "mutated"

	list, err := s.ListRecipes(ctx, "prod-1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "m1", list[0].Materials[0].MaterialID)

	none, err := s.ListRecipes(ctx, "prod-2")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestRecipes_UpdateDelete(t *testing.T) {
	ctx := context.Background()
	s := New()
	created, err := s.CreateRecipe(ctx, recipes.Recipe{ProductID: "p", Name: "a"})
	require.NoError(t, err)

	upd := created.Clone()
	upd.Name = "b"
	require.NoError(t, s.UpdateRecipe(ctx, upd))
	got, err := s.GetRecipe(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "b", got.Name)

	require.NoError(t, s.DeleteRecipe(ctx, created.ID))
	assert.ErrorIs(t, s.DeleteRecipe(ctx, created.ID), recipes.ErrNotFound)
	assert.ErrorIs(t, s.UpdateRecipe(ctx, upd), recipes.ErrNotFound)

	got, err = s.GetRecipe(ctx, created.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestUnitsSeeded(t *testing.T) {
	units, err := New().ListMaterialUnits(context.Background())
	require.NoError(t, err)
	assert.Equal(t, DefaultUnits, units)
}

func TestItems_UpdateConcurrentWithCreate(t *testing.T) {
	ctx := context.Background()
	s := New()
	target, err := s.CreateMaterial(ctx, items.NewItem{Name: "Мука", Code: "M-1", Department: "Склад", Price: decimal.NewFromInt(60)})
	require.NoError(t, err)

	for i := 0; i < 200; i++ {
		name := fmt.Sprintf("Мука %d", i)
		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, _ = s.CreateMaterial(ctx, items.NewItem{Name: "Сахар", Code: fmt.Sprintf("S-%d", i), Department: "Склад", Price: decimal.NewFromInt(1)})
		}()
		go func() {
			defer wg.Done()
			upd := *target
			upd.Name = name
			assert.NoError(t, s.UpdateMaterial(ctx, upd))
		}()
		wg.Wait()

		mats, err := s.ListMaterials(ctx)
		require.NoError(t, err)
		require.Equal(t, name, mats[0].Name, "update lost on iteration %d", i)
	}
}
