package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/catalog-backend/internal/model"
)

// ErrProductNotFound is returned when a product cannot be found in the DB.
var ErrProductNotFound = errors.New("product not found")

// ProductFilter narrows List results. A nil CategoryID matches every
// category; inactive products are skipped unless IncludeInactive is set.
type ProductFilter struct {
	CategoryID      *uint64
	SellerID        *uint64
	IncludeInactive bool
}

// ProductRepo encapsulates all database queries related to products.
type ProductRepo struct {
	db *sql.DB
}

func NewProductRepo(db *sql.DB) *ProductRepo {
	return &ProductRepo{db: db}
}

const productColumns = "id, name, price_cents, category_id, seller_id, is_active, created_at, updated_at"

// Create inserts a product. A category_id without a matching category is
// reported as ErrCategoryNotFound.
func (r *ProductRepo) Create(ctx context.Context, p *model.Product) error {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO products (name, price_cents, category_id, seller_id, is_active) VALUES (?, ?, ?, ?, ?)",
		p.Name, p.PriceCents, p.CategoryID, p.SellerID, p.IsActive)
	if err != nil {
		if isMissingParent(err) {
			return ErrCategoryNotFound
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = uint64(id)
	return r.db.QueryRowContext(ctx, "SELECT created_at, updated_at FROM products WHERE id = ?", p.ID).
		Scan(&p.CreatedAt, &p.UpdatedAt)
}

// GetByID fetches a product by id whether or not it is active.
func (r *ProductRepo) GetByID(ctx context.Context, id uint64) (*model.Product, error) {
	var p model.Product
	err := r.db.QueryRowContext(ctx, "SELECT "+productColumns+" FROM products WHERE id = ?", id).
		Scan(&p.ID, &p.Name, &p.PriceCents, &p.CategoryID, &p.SellerID, &p.IsActive, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return &p, nil
}

// List returns products matching f ordered by id.
func (r *ProductRepo) List(ctx context.Context, f ProductFilter) ([]model.Product, error) {
	var (
		where []string
		args  []any
	)
	if !f.IncludeInactive {
		where = append(where, "is_active = TRUE")
	}
	if f.CategoryID != nil {
		where = append(where, "category_id = ?")
		args = append(args, *f.CategoryID)
	}
	if f.SellerID != nil {
		where = append(where, "seller_id = ?")
		args = append(args, *f.SellerID)
	}
	q := "SELECT " + productColumns + " FROM products"
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += " ORDER BY id"

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Product{}
	for rows.Next() {
		var p model.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.PriceCents, &p.CategoryID, &p.SellerID, &p.IsActive, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Update writes the mutable fields of p (name, price, category, active
// flag). The caller is expected to have loaded p with GetByID first.
func (r *ProductRepo) Update(ctx context.Context, p *model.Product) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE products SET name = ?, price_cents = ?, category_id = ?, is_active = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?",
		p.Name, p.PriceCents, p.CategoryID, p.IsActive, p.ID)
	if err != nil {
		if isMissingParent(err) {
			return ErrCategoryNotFound
		}
		return err
	}
	return nil
}

// Delete removes a product. Cart lines referencing it are removed by the
// ON DELETE CASCADE constraint.
func (r *ProductRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM products WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrProductNotFound
	}
	return nil
}
