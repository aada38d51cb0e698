package catalog

import (
	"context"
	"strings"
	"time"

	"github.com/Spok95/costbook/internal/validation"
)

type DepartmentType string

const (
	DeptSale       DepartmentType = "sale"       // отдел продаж
	DeptProduction DepartmentType = "production" // производственный участок
)

func (t DepartmentType) Valid() bool { return t == DeptSale || t == DeptProduction }

type Department struct {
	ID        string
	Name      string
	Type      DepartmentType
	CreatedAt time.Time
}

// MaterialUnit: справочник единиц, для ядра неизменяемый.
type MaterialUnit struct {
	ID     string
	Name   string
	Symbol string
}

type Store interface {
	ListMaterialUnits(ctx context.Context) ([]MaterialUnit, error)
	ListDepartments(ctx context.Context, t DepartmentType) ([]Department, error)
	CreateDepartment(ctx context.Context, name string, t DepartmentType) (*Department, error)
}

// Названия отделов, которые создаются, если отделов данного типа ещё нет.
const (
	DefaultSaleDepartment       = "Общие продажи"
	DefaultProductionDepartment = "Общее производство"
)

// EnsureDefaults заводит по одному отделу каждого типа в пустом справочнике.
func EnsureDefaults(ctx context.Context, s Store) error {
	for _, d := range []struct {
		t    DepartmentType
		name string
	}{
		{DeptSale, DefaultSaleDepartment},
		{DeptProduction, DefaultProductionDepartment},
	} {
		list, err := s.ListDepartments(ctx, d.t)
		if err != nil {
			return err
		}
		if len(list) > 0 {
			continue
		}
		if _, err := s.CreateDepartment(ctx, d.name, d.t); err != nil {
			return err
		}
	}
	return nil
}

// AddDepartment проверяет имя и тип, потом создаёт отдел.
func AddDepartment(ctx context.Context, s Store, name string, t DepartmentType) (*Department, error) {
	errs := validation.Errors{}
	name = strings.TrimSpace(name)
	if name == "" {
		errs.Add("name", "Название отдела обязательно")
	}
	if !t.Valid() {
		errs.Add("type", "Неизвестный тип отдела")
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}
	return s.CreateDepartment(ctx, name, t)
}

// UnitSymbol возвращает символ единицы или "" для неизвестного id.
func UnitSymbol(units []MaterialUnit, id string) string {
	for _, u := range units {
		if u.ID == id {
			return u.Symbol
		}
	}
	return ""
}

// DepartmentName возвращает имя отдела или сам id, если отдел не найден.
func DepartmentName(depts []Department, id string) string {
	for _, d := range depts {
		if d.ID == id {
			return d.Name
		}
	}
	return id
}
