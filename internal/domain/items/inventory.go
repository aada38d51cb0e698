package items

import (
	"context"
	"fmt"

	"golang.org/x/text/language"
)

type ReadWriter interface {
	Reader
	Writer
}

// Inventory хранит рабочее состояние экрана каталога: загруженный снимок,
// фильтр, видимый список и выбор.
//
// Смена фильтра пересобирает видимый список из снимка в порядке склейки,
// прежняя сортировка при этом теряется.
type Inventory struct {
	store   ReadWriter
	tag     language.Tag
	all     []Item
	filter  Filter
	sortKey SortKey
	visible []Item
	sel     []string
}

func NewInventory(store ReadWriter, tag language.Tag) *Inventory {
	return &Inventory{store: store, tag: tag, filter: Filter{Type: TypeAll}}
}

// Load перечитывает обе коллекции и заново применяет текущий фильтр.
func (inv *Inventory) Load(ctx context.Context) error {
	products, err := inv.store.ListProducts(ctx)
	if err != nil {
		return fmt.Errorf("list products: %w", err)
	}
	materials, err := inv.store.ListMaterials(ctx)
	if err != nil {
		return fmt.Errorf("list materials: %w", err)
	}
	inv.all = Merge(products, materials)
	inv.SetFilter(inv.filter)
	return nil
}

func (inv *Inventory) SetFilter(f Filter) {
	if f.Type == "" {
		f.Type = TypeAll
	}
	inv.filter = f
	inv.sortKey = ""
	inv.visible = Apply(inv.all, f)
}

func (inv *Inventory) SortBy(key SortKey) {
	if !key.Valid() {
		return
	}
	inv.sortKey = key
	inv.visible = SortBy(inv.visible, key, inv.tag)
}

func (inv *Inventory) Filter() Filter    { return inv.filter }
func (inv *Inventory) SortKey() SortKey { return inv.sortKey }

func (inv *Inventory) Visible() []Item {
	out := make([]Item, len(inv.visible))
	copy(out, inv.visible)
	return out
}

func (inv *Inventory) All() []Item {
	out := make([]Item, len(inv.all))
	copy(out, inv.all)
	return out
}

// Find ищет запись в загруженном снимке (не только в видимом списке).
func (inv *Inventory) Find(id string) (Item, bool) {
	for _, it := range inv.all {
		if it.ID == id {
			return it, true
		}
	}
	return Item{}, false
}

/* Выбор */

// Toggle переключает выбор id и возвращает новое состояние.
func (inv *Inventory) Toggle(id string) bool {
	for i, s := range inv.sel {
		if s == id {
			inv.sel = append(inv.sel[:i], inv.sel[i+1:]...)
			return false
		}
	}
	inv.sel = append(inv.sel, id)
	return true
}

func (inv *Inventory) Select(ids ...string) {
	for _, id := range ids {
		if !inv.IsSelected(id) {
			inv.sel = append(inv.sel, id)
		}
	}
}

func (inv *Inventory) IsSelected(id string) bool {
	for _, s := range inv.sel {
		if s == id {
			return true
		}
	}
	return false
}

func (inv *Inventory) Selected() []string {
	out := make([]string, len(inv.sel))
	copy(out, inv.sel)
	return out
}

func (inv *Inventory) ClearSelection() { inv.sel = nil }

// SelectVisible выбирает все видимые записи.
func (inv *Inventory) SelectVisible() {
	for _, it := range inv.visible {
		inv.Select(it.ID)
	}
}

/* Массовые операции */

// BulkEdit правит выбранное, затем перечитывает каталог и сбрасывает выбор.
func (inv *Inventory) BulkEdit(ctx context.Context, patch Patch) (Result, error) {
	res := BulkEdit(ctx, inv.store, inv.all, inv.sel, patch)
	return res, inv.afterBulk(ctx)
}

// BulkDelete удаляет выбранное, затем перечитывает каталог и сбрасывает выбор.
func (inv *Inventory) BulkDelete(ctx context.Context) (Result, error) {
	res := BulkDelete(ctx, inv.store, inv.all, inv.sel)
	return res, inv.afterBulk(ctx)
}

func (inv *Inventory) afterBulk(ctx context.Context) error {
	inv.ClearSelection()
	return inv.Load(ctx)
}
