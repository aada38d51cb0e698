package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repo struct{ pool *pgxpool.Pool }

func NewRepo(pool *pgxpool.Pool) *Repo { return &Repo{pool: pool} }

/* Departments */

func (r *Repo) CreateDepartment(ctx context.Context, name string, t DepartmentType) (*Department, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO departments (id, name, type) VALUES ($1,$2,$3)
		ON CONFLICT (name, type) DO NOTHING
		RETURNING id, name, type, created_at
	`, uuid.NewString(), name, string(t))
	var d Department
	err := row.Scan(&d.ID, &d.Name, &d.Type, &d.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		// Уже есть — вернём существующий
		return r.GetDepartmentByName(ctx, name, t)
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *Repo) GetDepartmentByName(ctx context.Context, name string, t DepartmentType) (*Department, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, name, type, created_at
		FROM departments WHERE name = $1 AND type = $2
	`, name, string(t))
	var d Department
	if err := row.Scan(&d.ID, &d.Name, &d.Type, &d.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &d, nil
}

func (r *Repo) ListDepartments(ctx context.Context, t DepartmentType) ([]Department, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, type, created_at
		FROM departments
		WHERE type = $1
		ORDER BY created_at, name
	`, string(t))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Department
	for rows.Next() {
		var d Department
		if err := rows.Scan(&d.ID, &d.Name, &d.Type, &d.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

/* Units */

func (r *Repo) ListMaterialUnits(ctx context.Context) ([]MaterialUnit, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, symbol
		FROM material_units
		ORDER BY position, name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []MaterialUnit
	for rows.Next() {
		var u MaterialUnit
		if err := rows.Scan(&u.ID, &u.Name, &u.Symbol); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}
