package recipes

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// Line описывает строку рецепта (одну позицию спецификации).
//
// UnitPrice хранит снимок цены материала на момент выбора: правки цены
// в каталоге строку не меняют.
type Line struct {
	MaterialID string          `json:"material_id"`
	Unit       string          `json:"unit"`
	Amount     decimal.Decimal `json:"amount"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	TotalPrice decimal.Decimal `json:"total_price"`
}

type Recipe struct {
	ID        string    `json:"id"`
	ProductID string    `json:"product_id"`
	Name      string    `json:"name"`
	Materials []Line    `json:"materials"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Clone делает глубокую копию, строки не делят массив с оригиналом.
func (r Recipe) Clone() Recipe {
	r.Materials = cloneLines(r.Materials)
	return r
}

func cloneLines(src []Line) []Line {
	if src == nil {
		return nil
	}
	out := make([]Line, len(src))
	copy(out, src)
	return out
}

var ErrNotFound = errors.New("recipe not found")

type Store interface {
	ListRecipes(ctx context.Context, productID string) ([]Recipe, error)
	CreateRecipe(ctx context.Context, r Recipe) (*Recipe, error)
	UpdateRecipe(ctx context.Context, r Recipe) error
	DeleteRecipe(ctx context.Context, id string) error
}
