package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/catalog-backend/internal/model"
)

// ErrCartItemNotFound is returned when a cart line does not exist.
var ErrCartItemNotFound = errors.New("cart item not found")

// CartRepo persists cart lines. There is at most one line per
// (user, product); adding the same product again grows its quantity.
type CartRepo struct{ DB *sql.DB }

func NewCartRepo(db *sql.DB) *CartRepo { return &CartRepo{DB: db} }

// AddItem inserts a line or adds quantity to the existing one.
func (r *CartRepo) AddItem(ctx context.Context, userID, productID uint64, quantity uint32) error {
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO cart_items (user_id, product_id, quantity) VALUES (?, ?, ?)
		 ON DUPLICATE KEY UPDATE quantity = quantity + ?`,
		userID, productID, quantity, quantity)
	if err != nil && isMissingParent(err) {
		return ErrProductNotFound
	}
	return err
}

// ListItems returns the user's cart lines with their products loaded in
// the same query, ordered by line id.
func (r *CartRepo) ListItems(ctx context.Context, userID uint64) ([]model.CartItem, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT ci.id, ci.user_id, ci.product_id, ci.quantity,
		        p.id, p.name, p.price_cents, p.category_id, p.seller_id, p.is_active, p.created_at, p.updated_at
		 FROM cart_items ci JOIN products p ON p.id = ci.product_id
		 WHERE ci.user_id = ? ORDER BY ci.id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.CartItem{}
	for rows.Next() {
		var (
			it model.CartItem
			p  model.Product
		)
		if err := rows.Scan(&it.ID, &it.UserID, &it.ProductID, &it.Quantity,
			&p.ID, &p.Name, &p.PriceCents, &p.CategoryID, &p.SellerID, &p.IsActive, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		it.Product = &p
		out = append(out, it)
	}
	return out, rows.Err()
}

// RemoveItem deletes one product line from the user's cart.
func (r *CartRepo) RemoveItem(ctx context.Context, userID, productID uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM cart_items WHERE user_id = ? AND product_id = ?", userID, productID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrCartItemNotFound
	}
	return nil
}

// Clear empties the user's cart. Clearing an empty cart is not an error.
func (r *CartRepo) Clear(ctx context.Context, userID uint64) error {
	_, err := r.DB.ExecContext(ctx, "DELETE FROM cart_items WHERE user_id = ?", userID)
	return err
}
