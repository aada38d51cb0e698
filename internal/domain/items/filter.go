package items

import "strings"

type TypeFilter string

const (
	TypeAll       TypeFilter = "all"
	TypeProducts  TypeFilter = "products"
	TypeMaterials TypeFilter = "materials"
)

// ParseTypeFilter: неизвестное значение считается «все».
func ParseTypeFilter(s string) TypeFilter {
	switch TypeFilter(strings.ToLower(strings.TrimSpace(s))) {
	case TypeProducts:
		return TypeProducts
	case TypeMaterials:
		return TypeMaterials
	default:
		return TypeAll
	}
}

type Filter struct {
	Type       TypeFilter
	Department string
	Search     string
}

func (f Filter) IsZero() bool {
	return (f.Type == "" || f.Type == TypeAll) && f.Department == "" && f.Search == ""
}

// Match: конъюнкция трёх предикатов; пустая строка совпадает со всем.
func (f Filter) Match(it Item) bool {
	switch f.Type {
	case TypeProducts:
		if it.Kind != KindProduct {
			return false
		}
	case TypeMaterials:
		if it.Kind != KindMaterial {
			return false
		}
	}
	if f.Department != "" && !containsFold(it.Department, f.Department) {
		return false
	}
	if f.Search != "" && !containsFold(it.Name, f.Search) && !containsFold(it.Code, f.Search) {
		return false
	}
	return true
}

// Merge склеивает каталог: сначала товары, потом материалы, каждому проставляется Kind.
func Merge(products, materials []Item) []Item {
	out := make([]Item, 0, len(products)+len(materials))
	for _, p := range products {
		p.Kind = KindProduct
		out = append(out, p)
	}
	for _, m := range materials {
		m.Kind = KindMaterial
		out = append(out, m)
	}
	return out
}

// Apply делает полный проход по src с сохранением порядка.
func Apply(src []Item, f Filter) []Item {
	out := make([]Item, 0, len(src))
	for _, it := range src {
		if f.Match(it) {
			out = append(out, it)
		}
	}
	return out
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

func trim(s string) string { return strings.TrimSpace(s) }
