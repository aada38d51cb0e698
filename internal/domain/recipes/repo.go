package recipes

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repo struct{ pool *pgxpool.Pool }

func NewRepo(pool *pgxpool.Pool) *Repo { return &Repo{pool: pool} }

func (r *Repo) ListRecipes(ctx context.Context, productID string) ([]Recipe, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, product_id, name, COALESCE(notes,''), created_at, updated_at
		FROM product_recipes
		WHERE product_id = $1
		ORDER BY created_at
	`, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Recipe
	for rows.Next() {
		var rc Recipe
		if err := rows.Scan(&rc.ID, &rc.ProductID, &rc.Name, &rc.Notes, &rc.CreatedAt, &rc.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, rc)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range out {
		lines, err := r.lines(ctx, out[i].ID)
		if err != nil {
			return nil, err
		}
		out[i].Materials = lines
	}
	return out, nil
}

// GetRecipe возвращает nil, nil если рецепта нет.
func (r *Repo) GetRecipe(ctx context.Context, id string) (*Recipe, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, product_id, name, COALESCE(notes,''), created_at, updated_at
		FROM product_recipes WHERE id = $1
	`, id)
	var rc Recipe
	if err := row.Scan(&rc.ID, &rc.ProductID, &rc.Name, &rc.Notes, &rc.CreatedAt, &rc.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	lines, err := r.lines(ctx, id)
	if err != nil {
		return nil, err
	}
	rc.Materials = lines
	return &rc, nil
}

func (r *Repo) lines(ctx context.Context, recipeID string) ([]Line, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT material_id, unit, amount, unit_price, total_price
		FROM recipe_materials
		WHERE recipe_id = $1
		ORDER BY position
	`, recipeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Line
	for rows.Next() {
		var l Line
		if err := rows.Scan(&l.MaterialID, &l.Unit, &l.Amount, &l.UnitPrice, &l.TotalPrice); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// CreateRecipe пишет шапку и строки одной транзакцией.
func (r *Repo) CreateRecipe(ctx context.Context, rc Recipe) (*Recipe, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err = tx.Exec(ctx, `
		INSERT INTO product_recipes (id, product_id, name, notes, created_at, updated_at)
		VALUES ($1,$2,$3,NULLIF($4,''),$5,$6)
	`, rc.ID, rc.ProductID, rc.Name, rc.Notes, rc.CreatedAt, rc.UpdatedAt); err != nil {
		return nil, err
	}
	if err = insertLines(ctx, tx, rc.ID, rc.Materials); err != nil {
		return nil, err
	}
	if err = tx.Commit(ctx); err != nil {
		return nil, err
	}
	out := rc.Clone()
	return &out, nil
}

// UpdateRecipe заменяет шапку и все строки целиком: частичного сохранения не бывает.
func (r *Repo) UpdateRecipe(ctx context.Context, rc Recipe) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	tag, err := tx.Exec(ctx, `
		UPDATE product_recipes SET name=$2, notes=NULLIF($3,''), updated_at=$4
		WHERE id=$1
	`, rc.ID, rc.Name, rc.Notes, rc.UpdatedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	if _, err = tx.Exec(ctx, `DELETE FROM recipe_materials WHERE recipe_id=$1`, rc.ID); err != nil {
		return err
	}
	if err = insertLines(ctx, tx, rc.ID, rc.Materials); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func insertLines(ctx context.Context, tx pgx.Tx, recipeID string, lines []Line) error {
	batch := &pgx.Batch{}
	for i, l := range lines {
		batch.Queue(`
			INSERT INTO recipe_materials (recipe_id, position, material_id, unit, amount, unit_price, total_price)
			VALUES ($1,$2,$3,$4,$5,$6,$7)
		`, recipeID, i, l.MaterialID, l.Unit, l.Amount, l.UnitPrice, l.TotalPrice)
	}
	return tx.SendBatch(ctx, batch).Close()
}

// DeleteRecipe: строки удаляются каскадом.
func (r *Repo) DeleteRecipe(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM product_recipes WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
