package items

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

type SortKey string

const (
	SortByName       SortKey = "name"
	SortByCode       SortKey = "code"
	SortByDepartment SortKey = "department"
	SortByPrice      SortKey = "price"
	SortByKind       SortKey = "kind"
)

func (k SortKey) Valid() bool {
	switch k {
	case SortByName, SortByCode, SortByDepartment, SortByPrice, SortByKind:
		return true
	}
	return false
}

// fieldString: строковое представление поля для сравнения; отсутствующее значение = "".
func fieldString(it Item, key SortKey) string {
	switch key {
	case SortByName:
		return it.Name
	case SortByCode:
		return it.Code
	case SortByDepartment:
		return it.Department
	case SortByPrice:
		return it.Price.String()
	case SortByKind:
		return string(it.Kind)
	}
	return ""
}

// SortBy: устойчивая сортировка копии src по строке поля с учётом локали.
// Неизвестный ключ возвращает копию без изменений.
func SortBy(src []Item, key SortKey, tag language.Tag) []Item {
	out := make([]Item, len(src))
	copy(out, src)
	if !key.Valid() {
		return out
	}
	c := collate.New(tag)
	sort.SliceStable(out, func(i, j int) bool {
		return c.CompareString(fieldString(out[i], key), fieldString(out[j], key)) < 0
	})
	return out
}
