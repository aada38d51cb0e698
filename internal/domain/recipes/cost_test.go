package recipes

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTotalCost(t *testing.T) {
	assert.True(t, TotalCost(nil).IsZero())

	lines := []Line{
		{Amount: dec("5"), UnitPrice: dec("1000"), TotalPrice: dec("5000")},
		{Amount: dec("3"), UnitPrice: dec("1000"), TotalPrice: dec("3000")},
	}
	assert.True(t, TotalCost(lines).Equal(dec("8000")))
}

func TestTotalCost_IgnoresCatalogPrice(t *testing.T) {
	// сохранённая строка считается по снимку, а не по текущей цене
	lines := []Line{{MaterialID: "m1", Amount: dec("2"), UnitPrice: dec("50"), TotalPrice: dec("100")}}
	assert.True(t, TotalCost(lines).Equal(dec("100")))
}
