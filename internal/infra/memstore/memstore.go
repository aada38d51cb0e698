// Package memstore хранит каталог и рецепты в памяти процесса.
// Каждое чтение и запись копирует данные, так что вызывающий никогда
// не держит ссылку на внутреннее состояние.
package memstore

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Spok95/costbook/internal/domain/catalog"
	"github.com/Spok95/costbook/internal/domain/items"
	"github.com/Spok95/costbook/internal/domain/products"
	"github.com/Spok95/costbook/internal/domain/recipes"
)

// DefaultUnits совпадает с единицами, которые заводит миграция.
var DefaultUnits = []catalog.MaterialUnit{
	{ID: "g", Name: "Грамм", Symbol: "г"},
	{ID: "kg", Name: "Килограмм", Symbol: "кг"},
	{ID: "ml", Name: "Миллилитр", Symbol: "мл"},
	{ID: "l", Name: "Литр", Symbol: "л"},
	{ID: "pcs", Name: "Штука", Symbol: "шт"},
}

type Store struct {
	mu          sync.RWMutex
	products    []items.Item
	materials   []items.Item
	units       []catalog.MaterialUnit
	departments []catalog.Department
	definitions []products.Definition
	recipes     []recipes.Recipe
	now         func() time.Time
}

func New() *Store {
	units := make([]catalog.MaterialUnit, len(DefaultUnits))
	copy(units, DefaultUnits)
	return &Store{units: units, now: time.Now}
}

var (
	_ items.Store    = (*Store)(nil)
	_ catalog.Store  = (*Store)(nil)
	_ products.Store = (*Store)(nil)
	_ recipes.Store  = (*Store)(nil)
)

/* Items */

func (s *Store) ListProducts(_ context.Context) ([]items.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyItems(s.products), nil
}

func (s *Store) ListMaterials(_ context.Context) ([]items.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyItems(s.materials), nil
}

func (s *Store) CreateProduct(_ context.Context, n items.NewItem) (*items.Item, error) {
	return s.createItem(&s.products, items.KindProduct, n), nil
}

func (s *Store) CreateMaterial(_ context.Context, n items.NewItem) (*items.Item, error) {
	return s.createItem(&s.materials, items.KindMaterial, n), nil
}

func (s *Store) createItem(dst *[]items.Item, k items.Kind, n items.NewItem) *items.Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	it := items.Item{
		ID:         uuid.NewString(),
		Name:       n.Name,
		Code:       n.Code,
		Department: n.Department,
		Price:      n.Price,
		Kind:       k,
		CreatedAt:  s.now(),
	}
	*dst = append(*dst, it)
	return &it
}

func (s *Store) UpdateProduct(_ context.Context, it items.Item) error {
	return s.updateItem(&s.products, items.KindProduct, it)
}

func (s *Store) UpdateMaterial(_ context.Context, it items.Item) error {
	return s.updateItem(&s.materials, items.KindMaterial, it)
}

// updateItem читает срез под блокировкой: append в createItem может
// заменить массив, на который указывал срез до неё.
func (s *Store) updateItem(dst *[]items.Item, k items.Kind, it items.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := *dst
	for i := range list {
		if list[i].ID == it.ID {
			it.Kind = k
			it.CreatedAt = list[i].CreatedAt
			list[i] = it
			return nil
		}
	}
	return items.ErrNotFound
}

func (s *Store) DeleteProduct(_ context.Context, id string) error {
	return s.deleteItem(&s.products, id)
}

func (s *Store) DeleteMaterial(_ context.Context, id string) error {
	return s.deleteItem(&s.materials, id)
}

func (s *Store) deleteItem(list *[]items.Item, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, it := range *list {
		if it.ID == id {
			*list = append((*list)[:i:i], (*list)[i+1:]...)
			return nil
		}
	}
	return items.ErrNotFound
}

func copyItems(src []items.Item) []items.Item {
	out := make([]items.Item, len(src))
	copy(out, src)
	return out
}

/* Catalog */

func (s *Store) ListMaterialUnits(_ context.Context) ([]catalog.MaterialUnit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]catalog.MaterialUnit, len(s.units))
	copy(out, s.units)
	return out, nil
}

func (s *Store) ListDepartments(_ context.Context, t catalog.DepartmentType) ([]catalog.Department, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []catalog.Department
	for _, d := range s.departments {
		if d.Type == t {
			out = append(out, d)
		}
	}
	return out, nil
}

// CreateDepartment возвращает существующий отдел с тем же именем и типом.
func (s *Store) CreateDepartment(_ context.Context, name string, t catalog.DepartmentType) (*catalog.Department, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, d := range s.departments {
		if d.Type == t && strings.EqualFold(d.Name, name) {
			d := d
			return &d, nil
		}
	}
	d := catalog.Department{ID: uuid.NewString(), Name: name, Type: t, CreatedAt: s.now()}
	s.departments = append(s.departments, d)
	return &d, nil
}

/* Product definitions */

func (s *Store) CreateProductDefinition(_ context.Context, d products.Definition) (*products.Definition, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ex := range s.definitions {
		if ex.Code == d.Code {
			return nil, products.ErrDuplicateCode
		}
	}
	s.definitions = append(s.definitions, d)
	return &d, nil
}

func (s *Store) ListProductDefinitions(_ context.Context) ([]products.Definition, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]products.Definition, len(s.definitions))
	copy(out, s.definitions)
	return out, nil
}

func (s *Store) GetProductDefinition(_ context.Context, id string) (*products.Definition, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, d := range s.definitions {
		if d.ID == id {
			d := d
			return &d, nil
		}
	}
	return nil, nil
}

/* Recipes */

func (s *Store) ListRecipes(_ context.Context, productID string) ([]recipes.Recipe, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []recipes.Recipe
	for _, r := range s.recipes {
		if r.ProductID == productID {
			out = append(out, r.Clone())
		}
	}
	return out, nil
}

func (s *Store) GetRecipe(_ context.Context, id string) (*recipes.Recipe, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.recipes {
		if r.ID == id {
			c := r.Clone()
			return &c, nil
		}
	}
	return nil, nil
}

func (s *Store) CreateRecipe(_ context.Context, r recipes.Recipe) (*recipes.Recipe, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	s.recipes = append(s.recipes, r.Clone())
	out := r.Clone()
	return &out, nil
}

func (s *Store) UpdateRecipe(_ context.Context, r recipes.Recipe) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.recipes {
		if s.recipes[i].ID == r.ID {
			s.recipes[i] = r.Clone()
			return nil
		}
	}
	return recipes.ErrNotFound
}

func (s *Store) DeleteRecipe(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, r := range s.recipes {
		if r.ID == id {
			s.recipes = append(s.recipes[:i:i], s.recipes[i+1:]...)
			return nil
		}
	}
	return recipes.ErrNotFound
}
