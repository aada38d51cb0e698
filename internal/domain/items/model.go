package items

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Spok95/costbook/internal/validation"
)

// Kind: явный признак коллекции, в которой живёт запись.
// Вся диспетчеризация (фильтр, массовые правки) идёт по нему.
type Kind string

const (
	KindProduct  Kind = "product"
	KindMaterial Kind = "material"
)

func (k Kind) Valid() bool { return k == KindProduct || k == KindMaterial }

type Item struct {
	ID         string
	Name       string
	Code       string
	Department string
	Price      decimal.Decimal // текущая цена за единицу в каталоге
	Kind       Kind
	CreatedAt  time.Time
}

// NewItem: форма создания товара или материала.
type NewItem struct {
	Name       string          `json:"name" validate:"notblank"`
	Code       string          `json:"code" validate:"notblank"`
	Department string          `json:"department" validate:"notblank"`
	Price      decimal.Decimal `json:"price"`
}

var newItemMessages = map[string]string{
	"name":       "Название обязательно",
	"code":       "Код обязателен",
	"department": "Выберите отдел",
}

func (n NewItem) Validate() validation.Errors {
	errs := validation.Struct(n, newItemMessages)
	if !n.Price.IsPositive() {
		errs.Add("price", "Цена должна быть больше нуля")
	}
	return errs
}

type Reader interface {
	ListProducts(ctx context.Context) ([]Item, error)
	ListMaterials(ctx context.Context) ([]Item, error)
}

type Writer interface {
	UpdateProduct(ctx context.Context, it Item) error
	UpdateMaterial(ctx context.Context, it Item) error
	DeleteProduct(ctx context.Context, id string) error
	DeleteMaterial(ctx context.Context, id string) error
}

type Creator interface {
	CreateProduct(ctx context.Context, n NewItem) (*Item, error)
	CreateMaterial(ctx context.Context, n NewItem) (*Item, error)
}

type Store interface {
	Reader
	Writer
	Creator
}

// Create проверяет форму и создаёт запись в коллекции нужного вида.
// При ошибках формы возвращает validation.Errors и ничего не пишет.
func Create(ctx context.Context, s Creator, kind Kind, n NewItem) (*Item, error) {
	if errs := n.Validate(); len(errs) > 0 {
		return nil, errs
	}
	n = n.trimmed()
	switch kind {
	case KindProduct:
		return s.CreateProduct(ctx, n)
	case KindMaterial:
		return s.CreateMaterial(ctx, n)
	default:
		return nil, validation.Errors{"kind": "Неизвестный тип записи"}
	}
}

func (n NewItem) trimmed() NewItem {
	n.Name = trim(n.Name)
	n.Code = trim(n.Code)
	n.Department = trim(n.Department)
	return n
}
