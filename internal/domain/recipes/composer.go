package recipes

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Spok95/costbook/internal/domain/catalog"
	"github.com/Spok95/costbook/internal/domain/items"
	"github.com/Spok95/costbook/internal/validation"
)

// Draft: рабочая копия рецепта, отвязанная от сохранённой версии.
// Editing: копия редактируемого рецепта; nil значит «новый рецепт».
type Draft struct {
	Editing *Recipe `json:"editing,omitempty"`
	Name    string  `json:"name"`
	Notes   string  `json:"notes"`
	Lines   []Line  `json:"lines"`
}

func (d Draft) clone() Draft {
	if d.Editing != nil {
		e := d.Editing.Clone()
		d.Editing = &e
	}
	d.Lines = cloneLines(d.Lines)
	return d
}

// Composer собирает рецепт из материалов каталога и сохраняет его за продуктом.
type Composer struct {
	store     Store
	materials []items.Item
	units     []catalog.MaterialUnit
	draft     Draft
	now       func() time.Time
}

func NewComposer(store Store, materials []items.Item, units []catalog.MaterialUnit) *Composer {
	return &Composer{
		store:     store,
		materials: materials,
		units:     units,
		now:       time.Now,
	}
}

// Restore подменяет рабочую копию сохранённым черновиком (например, из состояния диалога).
func (c *Composer) Restore(d Draft) { c.draft = d.clone() }

func (c *Composer) Draft() Draft { return c.draft.clone() }

func (c *Composer) Lines() []Line { return cloneLines(c.draft.Lines) }

func (c *Composer) Total() decimal.Decimal { return TotalCost(c.draft.Lines) }

// Describe готовит строки черновика к показу по тем материалам и единицам,
// с которыми собран редактор.
func (c *Composer) Describe() []LineView { return Describe(c.draft.Lines, c.materials, c.units) }

func (c *Composer) IsEditing() bool { return c.draft.Editing != nil }

func (c *Composer) SetName(name string)   { c.draft.Name = name }
func (c *Composer) SetNotes(notes string) { c.draft.Notes = notes }

// AddLine добавляет строку с первым материалом и первой единицей справочника.
// Без материалов в каталоге ничего не делает и возвращает false.
func (c *Composer) AddLine() bool {
	if len(c.materials) == 0 {
		return false
	}
	unit := ""
	if len(c.units) > 0 {
		unit = c.units[0].ID
	}
	c.draft.Lines = append(c.draft.Lines, NewLine(c.materials[0], unit))
	return true
}

// RemoveLine удаляет строку; последующие индексы сдвигаются.
func (c *Composer) RemoveLine(i int) bool {
	if !c.valid(i) {
		return false
	}
	c.draft.Lines = append(c.draft.Lines[:i:i], c.draft.Lines[i+1:]...)
	return true
}

func (c *Composer) SetAmount(i int, v decimal.Decimal) bool {
	return c.update(i, func(l *Line) bool { l.SetAmount(v); return true })
}

func (c *Composer) SetUnitPrice(i int, v decimal.Decimal) bool {
	return c.update(i, func(l *Line) bool { l.SetUnitPrice(v); return true })
}

func (c *Composer) SetMaterial(i int, materialID string) bool {
	return c.update(i, func(l *Line) bool { return l.SetMaterial(materialID, c.materials) })
}

func (c *Composer) SetUnit(i int, unitID string) bool {
	return c.update(i, func(l *Line) bool { l.SetUnit(unitID); return true })
}

func (c *Composer) update(i int, fn func(*Line) bool) bool {
	if !c.valid(i) {
		return false
	}
	l := c.draft.Lines[i]
	if !fn(&l) {
		return false
	}
	c.draft.Lines[i] = l
	return true
}

func (c *Composer) valid(i int) bool { return i >= 0 && i < len(c.draft.Lines) }

// LoadForEdit заменяет рабочую копию копией рецепта; оригинал не разделяется.
func (c *Composer) LoadForEdit(r Recipe) {
	orig := r.Clone()
	c.draft = Draft{
		Editing: &orig,
		Name:    r.Name,
		Notes:   r.Notes,
		Lines:   cloneLines(r.Materials),
	}
}

// Reset очищает рабочую копию и выходит из режима редактирования.
func (c *Composer) Reset() { c.draft = Draft{} }

// Validate возвращает ошибки по полям; пустой набор — рецепт можно сохранять.
func (c *Composer) Validate() validation.Errors {
	errs := validation.Errors{}
	if strings.TrimSpace(c.draft.Name) == "" {
		errs.Add("name", "Название рецепта обязательно")
	}
	if len(c.draft.Lines) == 0 {
		errs.Add("materials", "Добавьте хотя бы один материал")
	}
	for i, l := range c.draft.Lines {
		if l.MaterialID == "" {
			errs.Add(fmt.Sprintf("material_%d", i), "Выберите материал")
		}
		if !l.Amount.IsPositive() {
			errs.Add(fmt.Sprintf("amount_%d", i), "Количество должно быть больше нуля")
		}
	}
	return errs
}

// Save записывает полный проверенный снимок рецепта: обновляет редактируемый
// или создаёт новый за productID. После успеха рабочая копия очищается.
// Ошибки формы возвращаются как validation.Errors без записи; при ошибке
// хранилища черновик остаётся, чтобы можно было повторить.
func (c *Composer) Save(ctx context.Context, productID string) (*Recipe, error) {
	if err := c.Validate().Err(); err != nil {
		return nil, err
	}

	now := c.now()
	var saved Recipe
	if c.draft.Editing != nil {
		saved = c.draft.Editing.Clone()
		saved.Name = strings.TrimSpace(c.draft.Name)
		saved.Materials = cloneLines(c.draft.Lines)
		saved.Notes = strings.TrimSpace(c.draft.Notes)
		saved.UpdatedAt = now
		if err := c.store.UpdateRecipe(ctx, saved); err != nil {
			return nil, fmt.Errorf("update recipe %s: %w", saved.ID, err)
		}
	} else {
		rec := Recipe{
			ID:        uuid.NewString(),
			ProductID: productID,
			Name:      strings.TrimSpace(c.draft.Name),
			Materials: cloneLines(c.draft.Lines),
			Notes:     strings.TrimSpace(c.draft.Notes),
			CreatedAt: now,
			UpdatedAt: now,
		}
		created, err := c.store.CreateRecipe(ctx, rec)
		if err != nil {
			return nil, fmt.Errorf("create recipe: %w", err)
		}
		saved = created.Clone()
	}

	c.Reset()
	return &saved, nil
}

// Delete удаляет рецепт целиком и очищает рабочую копию.
func (c *Composer) Delete(ctx context.Context, recipeID string) error {
	if err := c.store.DeleteRecipe(ctx, recipeID); err != nil {
		return fmt.Errorf("delete recipe %s: %w", recipeID, err)
	}
	c.Reset()
	return nil
}
