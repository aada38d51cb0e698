package items

import (
	"context"
	"errors"
)

type call struct {
	op   string
	item Item
	id   string
}

// fakeStore записывает вызовы и падает на id из failOn.
type fakeStore struct {
	products  []Item
	materials []Item
	calls     []call
	failOn    map[string]error
	listErr   error
}

func (f *fakeStore) ListProducts(context.Context) ([]Item, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]Item(nil), f.products...), nil
}

func (f *fakeStore) ListMaterials(context.Context) ([]Item, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]Item(nil), f.materials...), nil
}

func (f *fakeStore) UpdateProduct(_ context.Context, it Item) error {
	f.calls = append(f.calls, call{op: "update_product", item: it, id: it.ID})
	if err := f.failOn[it.ID]; err != nil {
		return err
	}
	replace(f.products, it)
	return nil
}

func (f *fakeStore) UpdateMaterial(_ context.Context, it Item) error {
	f.calls = append(f.calls, call{op: "update_material", item: it, id: it.ID})
	if err := f.failOn[it.ID]; err != nil {
		return err
	}
	replace(f.materials, it)
	return nil
}

func (f *fakeStore) DeleteProduct(_ context.Context, id string) error {
	f.calls = append(f.calls, call{op: "delete_product", id: id})
	if err := f.failOn[id]; err != nil {
		return err
	}
	f.products = remove(f.products, id)
	return nil
}

func (f *fakeStore) DeleteMaterial(_ context.Context, id string) error {
	f.calls = append(f.calls, call{op: "delete_material", id: id})
	if err := f.failOn[id]; err != nil {
		return err
	}
	f.materials = remove(f.materials, id)
	return nil
}

func (f *fakeStore) CreateProduct(_ context.Context, n NewItem) (*Item, error) {
	it := Item{ID: "p-new", Name: n.Name, Code: n.Code, Department: n.Department, Price: n.Price, Kind: KindProduct}
	f.calls = append(f.calls, call{op: "create_product", item: it})
	f.products = append(f.products, it)
	return &it, nil
}

func (f *fakeStore) CreateMaterial(_ context.Context, n NewItem) (*Item, error) {
	it := Item{ID: "m-new", Name: n.Name, Code: n.Code, Department: n.Department, Price: n.Price, Kind: KindMaterial}
	f.calls = append(f.calls, call{op: "create_material", item: it})
	f.materials = append(f.materials, it)
	return &it, nil
}

func (f *fakeStore) ops() []string {
	out := make([]string, 0, len(f.calls))
	for _, c := range f.calls {
		out = append(out, c.op+":"+c.id)
	}
	return out
}

func replace(list []Item, it Item) {
	for i := range list {
		if list[i].ID == it.ID {
			list[i] = it
		}
	}
}

func remove(list []Item, id string) []Item {
	out := list[:0:0]
	for _, it := range list {
		if it.ID != id {
			out = append(out, it)
		}
	}
	return out
}

var errBoom = errors.New("boom")
