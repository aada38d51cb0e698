package dialog

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemRepo_RoundTrip(t *testing.T) {
	ctx := context.Background()
	r := NewMemRepo()

	st, err := r.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, StateIdle, st.State)
	assert.NotNil(t, st.Payload)

	require.NoError(t, r.Set(ctx, 1, StateRecipeAmount, Payload{"line": 2, "product_id": "p1"}))
	st, err = r.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, StateRecipeAmount, st.State)

	line, ok := GetInt(st.Payload, "line")
	assert.True(t, ok)
	assert.Equal(t, 2, line)
	pid, ok := GetString(st.Payload, "product_id")
	assert.True(t, ok)
	assert.Equal(t, "p1", pid)

	require.NoError(t, r.Reset(ctx, 1))
	st, err = r.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, StateIdle, st.State)
}

func TestPutDecode(t *testing.T) {
	type line struct {
		ID     string          `json:"id"`
		Amount decimal.Decimal `json:"amount"`
	}
	ctx := context.Background()
	r := NewMemRepo()

	p := Payload{}
	require.NoError(t, Put(p, "lines", []line{{ID: "m1", Amount: decimal.RequireFromString("2.5")}}))
	require.NoError(t, Put(p, "selected", []string{"a", "b"}))
	require.NoError(t, r.Set(ctx, 7, StateRecipeEdit, p))

	st, err := r.Get(ctx, 7)
	require.NoError(t, err)

	var got []line
	ok, err := Decode(st.Payload, "lines", &got)
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, got, 1)
	assert.True(t, got[0].Amount.Equal(decimal.RequireFromString("2.5")))

	assert.Equal(t, []string{"a", "b"}, GetStrings(st.Payload, "selected"))

	ok, err = Decode(st.Payload, "missing", &got)
	require.NoError(t, err)
	assert.False(t, ok)
}
