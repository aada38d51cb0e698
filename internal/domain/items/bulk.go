package items

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Patch описывает частичную правку, nil-поле не трогается. ID и Kind не патчатся никогда.
type Patch struct {
	Name       *string
	Code       *string
	Department *string
	Price      *decimal.Decimal
}

func (p Patch) IsEmpty() bool {
	return p.Name == nil && p.Code == nil && p.Department == nil && p.Price == nil
}

// Apply: поверхностное слияние патча поверх записи.
func (p Patch) Apply(it Item) Item {
	if p.Name != nil {
		it.Name = *p.Name
	}
	if p.Code != nil {
		it.Code = *p.Code
	}
	if p.Department != nil {
		it.Department = *p.Department
	}
	if p.Price != nil {
		it.Price = *p.Price
	}
	return it
}

type Failure struct {
	ID   string
	Kind Kind
	Err  error
}

// Result: итог пакетной операции. Это best-effort пакет, а не транзакция:
// то, что уже записано, не откатывается.
type Result struct {
	Processed []string
	Skipped   []string // id, которых нет в загруженном каталоге
	Failed    []Failure
}

func (r Result) Err() error {
	if len(r.Failed) == 0 {
		return nil
	}
	errs := make([]error, 0, len(r.Failed))
	for _, f := range r.Failed {
		errs = append(errs, fmt.Errorf("%s %s: %w", f.Kind, f.ID, f.Err))
	}
	return errors.Join(errs...)
}

func index(loaded []Item) map[string]Item {
	m := make(map[string]Item, len(loaded))
	for _, it := range loaded {
		if _, ok := m[it.ID]; !ok {
			m[it.ID] = it
		}
	}
	return m
}

// each обходит выбранные id по порядку (без повторов), пропуская устаревшие.
func each(loaded []Item, ids []string, fn func(Item) error) Result {
	byID := index(loaded)
	seen := make(map[string]struct{}, len(ids))
	var res Result
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}

		it, ok := byID[id]
		if !ok {
			res.Skipped = append(res.Skipped, id)
			continue
		}
		if err := fn(it); err != nil {
			res.Failed = append(res.Failed, Failure{ID: id, Kind: it.Kind, Err: err})
			continue
		}
		res.Processed = append(res.Processed, id)
	}
	return res
}

// BulkEdit применяет один патч ко всем выбранным записям, отправляя запись
// в коллекцию по её Kind. Ошибка одной записи не останавливает остальные.
func BulkEdit(ctx context.Context, w Writer, loaded []Item, ids []string, patch Patch) Result {
	return each(loaded, ids, func(it Item) error {
		updated := patch.Apply(it)
		switch it.Kind {
		case KindProduct:
			return w.UpdateProduct(ctx, updated)
		case KindMaterial:
			return w.UpdateMaterial(ctx, updated)
		default:
			return fmt.Errorf("unknown item kind %q", it.Kind)
		}
	})
}

// BulkDelete удаляет выбранные записи из их коллекций, продолжая после ошибок.
func BulkDelete(ctx context.Context, w Writer, loaded []Item, ids []string) Result {
	return each(loaded, ids, func(it Item) error {
		switch it.Kind {
		case KindProduct:
			return w.DeleteProduct(ctx, it.ID)
		case KindMaterial:
			return w.DeleteMaterial(ctx, it.ID)
		default:
			return fmt.Errorf("unknown item kind %q", it.Kind)
		}
	})
}
