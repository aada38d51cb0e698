package items

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repo хранит товары и материалы в двух таблицах одинаковой формы.
type Repo struct{ pool *pgxpool.Pool }

func NewRepo(pool *pgxpool.Pool) *Repo { return &Repo{pool: pool} }

const (
	tableProducts  = "products"
	tableMaterials = "materials"
)

var ErrNotFound = errors.New("item not found")

func tableFor(k Kind) string {
	if k == KindProduct {
		return tableProducts
	}
	return tableMaterials
}

/* Чтение */

func (r *Repo) ListProducts(ctx context.Context) ([]Item, error) {
	return r.list(ctx, KindProduct)
}

func (r *Repo) ListMaterials(ctx context.Context) ([]Item, error) {
	return r.list(ctx, KindMaterial)
}

func (r *Repo) list(ctx context.Context, k Kind) ([]Item, error) {
	rows, err := r.pool.Query(ctx, fmt.Sprintf(`
		SELECT id, name, code, department, price, created_at
		FROM %s
		ORDER BY created_at, name
	`, tableFor(k)))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Item
	for rows.Next() {
		it := Item{Kind: k}
		if err := rows.Scan(&it.ID, &it.Name, &it.Code, &it.Department, &it.Price, &it.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

// GetByID возвращает nil, nil если записи нет.
func (r *Repo) GetByID(ctx context.Context, k Kind, id string) (*Item, error) {
	row := r.pool.QueryRow(ctx, fmt.Sprintf(`
		SELECT id, name, code, department, price, created_at
		FROM %s WHERE id = $1
	`, tableFor(k)), id)
	it := Item{Kind: k}
	if err := row.Scan(&it.ID, &it.Name, &it.Code, &it.Department, &it.Price, &it.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &it, nil
}

/* Создание */

func (r *Repo) CreateProduct(ctx context.Context, n NewItem) (*Item, error) {
	return r.create(ctx, KindProduct, n)
}

func (r *Repo) CreateMaterial(ctx context.Context, n NewItem) (*Item, error) {
	return r.create(ctx, KindMaterial, n)
}

func (r *Repo) create(ctx context.Context, k Kind, n NewItem) (*Item, error) {
	row := r.pool.QueryRow(ctx, fmt.Sprintf(`
		INSERT INTO %s (id, name, code, department, price)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING id, name, code, department, price, created_at
	`, tableFor(k)), uuid.NewString(), n.Name, n.Code, n.Department, n.Price)
	it := Item{Kind: k}
	if err := row.Scan(&it.ID, &it.Name, &it.Code, &it.Department, &it.Price, &it.CreatedAt); err != nil {
		return nil, err
	}
	return &it, nil
}

/* Правка и удаление */

func (r *Repo) UpdateProduct(ctx context.Context, it Item) error {
	return r.update(ctx, KindProduct, it)
}

func (r *Repo) UpdateMaterial(ctx context.Context, it Item) error {
	return r.update(ctx, KindMaterial, it)
}

func (r *Repo) update(ctx context.Context, k Kind, it Item) error {
	tag, err := r.pool.Exec(ctx, fmt.Sprintf(`
		UPDATE %s SET name=$2, code=$3, department=$4, price=$5, updated_at=now()
		WHERE id=$1
	`, tableFor(k)), it.ID, it.Name, it.Code, it.Department, it.Price)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repo) DeleteProduct(ctx context.Context, id string) error {
	return r.delete(ctx, KindProduct, id)
}

func (r *Repo) DeleteMaterial(ctx context.Context, id string) error {
	return r.delete(ctx, KindMaterial, id)
}

func (r *Repo) delete(ctx context.Context, k Kind, id string) error {
	tag, err := r.pool.Exec(ctx, fmt.Sprintf(`DELETE FROM %s WHERE id=$1`, tableFor(k)), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
