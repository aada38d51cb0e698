package products_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Spok95/costbook/internal/domain/products"
	"github.com/Spok95/costbook/internal/infra/memstore"
	"github.com/Spok95/costbook/internal/validation"
)

func validForm() products.NewDefinition {
	return products.NewDefinition{
		Name:              "Торт Медовик",
		Code:              "T-001",
		SaleDepartment:    "sale-1",
		ProductionSegment: "prod-1",
	}
}

func TestService_Create(t *testing.T) {
	ctx := context.Background()
	svc := products.NewService(memstore.New())

	form := validForm()
	form.Name = "  Торт Медовик  "
	d, err := svc.Create(ctx, form)
	require.NoError(t, err)

	assert.NotEmpty(t, d.ID)
	assert.Equal(t, "Торт Медовик", d.Name)
	assert.Equal(t, d.CreatedAt, d.UpdatedAt)

	got, err := svc.Get(ctx, d.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "T-001", got.Code)
}

func TestService_RequiredFields(t *testing.T) {
	store := memstore.New()
	svc := products.NewService(store)

	_, err := svc.Create(context.Background(), products.NewDefinition{Name: " "})

	var verr validation.Errors
	require.ErrorAs(t, err, &verr)
	for _, f := range []string{"name", "code", "sale_department", "production_segment"} {
		assert.True(t, verr.Has(f), f)
	}
	list, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestService_DuplicateCodeWritesNothing(t *testing.T) {
	ctx := context.Background()
	svc := products.NewService(memstore.New())
	_, err := svc.Create(ctx, validForm())
	require.NoError(t, err)

	form := validForm()
	form.Name = "Другой торт"
	form.Code = " T-001 "
	errs, err := svc.Validate(ctx, form)
	require.NoError(t, err)
	assert.True(t, errs.Has("code"))

	_, err = svc.Create(ctx, form)
	var verr validation.Errors
	require.ErrorAs(t, err, &verr)
	assert.True(t, verr.Has("code"))

	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestService_GetUnknown(t *testing.T) {
	d, err := products.NewService(memstore.New()).Get(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, d)
}
