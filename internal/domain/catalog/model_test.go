package catalog_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Spok95/costbook/internal/domain/catalog"
	"github.com/Spok95/costbook/internal/infra/memstore"
	"github.com/Spok95/costbook/internal/validation"
)

func TestEnsureDefaults(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()

	require.NoError(t, catalog.EnsureDefaults(ctx, store))
	require.NoError(t, catalog.EnsureDefaults(ctx, store))

	sale, err := store.ListDepartments(ctx, catalog.DeptSale)
	require.NoError(t, err)
	require.Len(t, sale, 1)
	assert.Equal(t, catalog.DefaultSaleDepartment, sale[0].Name)

	prod, err := store.ListDepartments(ctx, catalog.DeptProduction)
	require.NoError(t, err)
	require.Len(t, prod, 1)
	assert.Equal(t, catalog.DefaultProductionDepartment, prod[0].Name)
}

func TestEnsureDefaults_KeepsExisting(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	_, err := catalog.AddDepartment(ctx, store, "Кондитерский цех", catalog.DeptProduction)
	require.NoError(t, err)

	require.NoError(t, catalog.EnsureDefaults(ctx, store))

	prod, err := store.ListDepartments(ctx, catalog.DeptProduction)
	require.NoError(t, err)
	require.Len(t, prod, 1)
	assert.Equal(t, "Кондитерский цех", prod[0].Name)
}

func TestAddDepartment_Validation(t *testing.T) {
	_, err := catalog.AddDepartment(context.Background(), memstore.New(), "  ", catalog.DepartmentType("storage"))

	var verr validation.Errors
	require.ErrorAs(t, err, &verr)
	assert.True(t, verr.Has("name"))
	assert.True(t, verr.Has("type"))
}

func TestAddDepartment_SameNameReturnsExisting(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	a, err := catalog.AddDepartment(ctx, store, "Кафе", catalog.DeptSale)
	require.NoError(t, err)
	b, err := catalog.AddDepartment(ctx, store, " Кафе ", catalog.DeptSale)
	require.NoError(t, err)
	assert.Equal(t, a.ID, b.ID)
}

func TestLookups(t *testing.T) {
	units := []catalog.MaterialUnit{{ID: "kg", Symbol: "кг"}}
	assert.Equal(t, "кг", catalog.UnitSymbol(units, "kg"))
	assert.Equal(t, "", catalog.UnitSymbol(units, "l"))

	depts := []catalog.Department{{ID: "d1", Name: "Кафе"}}
	assert.Equal(t, "Кафе", catalog.DepartmentName(depts, "d1"))
	assert.Equal(t, "d2", catalog.DepartmentName(depts, "d2"))
}
