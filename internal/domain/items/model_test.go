package items

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Spok95/costbook/internal/validation"
)

func TestCreate_ValidationBlocksWrite(t *testing.T) {
	f := &fakeStore{}

	_, err := Create(context.Background(), f, KindMaterial, NewItem{Name: " ", Price: decimal.NewFromInt(-1)})

	var verr validation.Errors
	require.ErrorAs(t, err, &verr)
	assert.True(t, verr.Has("name"))
	assert.True(t, verr.Has("code"))
	assert.True(t, verr.Has("department"))
	assert.True(t, verr.Has("price"))
	assert.Empty(t, f.calls)
}

func TestCreate_TrimsAndDispatches(t *testing.T) {
	f := &fakeStore{}

	it, err := Create(context.Background(), f, KindMaterial, NewItem{
		Name:       "  Сахар ",
		Code:       "M-003",
		Department: "Склад",
		Price:      decimal.NewFromInt(80),
	})

	require.NoError(t, err)
	assert.Equal(t, KindMaterial, it.Kind)
	assert.Equal(t, "Сахар", it.Name)
	assert.Equal(t, []string{"create_material:"}, f.ops())
}

func TestCreate_UnknownKind(t *testing.T) {
	_, err := Create(context.Background(), &fakeStore{}, Kind("service"), NewItem{
		Name: "a", Code: "b", Department: "c", Price: decimal.NewFromInt(1),
	})
	var verr validation.Errors
	require.ErrorAs(t, err, &verr)
	assert.True(t, verr.Has("kind"))
}
