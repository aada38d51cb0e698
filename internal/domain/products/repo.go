package products

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repo struct{ pool *pgxpool.Pool }

func NewRepo(pool *pgxpool.Pool) *Repo { return &Repo{pool: pool} }

const uniqueViolation = "23505"

func (r *Repo) CreateProductDefinition(ctx context.Context, d Definition) (*Definition, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO product_definitions (id, name, code, sale_department, production_segment, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING id, name, code, sale_department, production_segment, created_at, updated_at
	`, d.ID, d.Name, d.Code, d.SaleDepartment, d.ProductionSegment, d.CreatedAt, d.UpdatedAt)

	var out Definition
	if err := row.Scan(&out.ID, &out.Name, &out.Code, &out.SaleDepartment, &out.ProductionSegment, &out.CreatedAt, &out.UpdatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, ErrDuplicateCode
		}
		return nil, err
	}
	return &out, nil
}

func (r *Repo) ListProductDefinitions(ctx context.Context) ([]Definition, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, code, sale_department, production_segment, created_at, updated_at
		FROM product_definitions
		ORDER BY created_at, name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Definition
	for rows.Next() {
		var d Definition
		if err := rows.Scan(&d.ID, &d.Name, &d.Code, &d.SaleDepartment, &d.ProductionSegment, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r *Repo) GetProductDefinition(ctx context.Context, id string) (*Definition, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, name, code, sale_department, production_segment, created_at, updated_at
		FROM product_definitions WHERE id = $1
	`, id)
	var d Definition
	if err := row.Scan(&d.ID, &d.Name, &d.Code, &d.SaleDepartment, &d.ProductionSegment, &d.CreatedAt, &d.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &d, nil
}
