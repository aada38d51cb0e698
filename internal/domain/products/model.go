package products

import (
	"context"
	"errors"
	"time"
)

// Definition: карточка выпускаемого продукта; code уникален среди всех карточек.
type Definition struct {
	ID                string
	Name              string
	Code              string
	SaleDepartment    string // id отдела типа sale
	ProductionSegment string // id отдела типа production
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

type NewDefinition struct {
	Name              string `json:"name" validate:"notblank"`
	Code              string `json:"code" validate:"notblank"`
	SaleDepartment    string `json:"sale_department" validate:"notblank"`
	ProductionSegment string `json:"production_segment" validate:"notblank"`
}

var ErrDuplicateCode = errors.New("product code already exists")

type Store interface {
	CreateProductDefinition(ctx context.Context, d Definition) (*Definition, error)
	ListProductDefinitions(ctx context.Context) ([]Definition, error)
	GetProductDefinition(ctx context.Context, id string) (*Definition, error)
}
