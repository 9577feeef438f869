package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"go-storefront/internal/model"
)

type CartRepository struct {
	pool *pgxpool.Pool
}

func NewCartRepository(pool *pgxpool.Pool) *CartRepository {
	return &CartRepository{pool: pool}
}

func (r *CartRepository) Items(ctx context.Context, userID string) ([]model.CartItem, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT ci.id, ci.product_id, p.name, p.price, ci.quantity
		 FROM cart_items ci
		 JOIN products p ON p.id = ci.product_id
		 WHERE ci.user_id = $1
		 ORDER BY p.name`, userID)
	if err != nil {
		return nil, fmt.Errorf("query cart items: %w", err)
	}
	defer rows.Close()

	items := make([]model.CartItem, 0)
	for rows.Next() {
		var item model.CartItem
		if err := rows.Scan(&item.ID, &item.ProductID, &item.Name, &item.Price, &item.Quantity); err != nil {
			return nil, fmt.Errorf("scan cart item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// Add inserts the line or, when the product is already in the cart,
// increases its quantity.
func (r *CartRepository) Add(ctx context.Context, entry model.CartEntry) (model.CartEntry, error) {
	var saved model.CartEntry
	err := r.pool.QueryRow(ctx,
		`INSERT INTO cart_items (id, user_id, product_id, quantity)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT ON CONSTRAINT cart_items_user_product_key
		 DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity
		 WHERE cart_items.quantity + EXCLUDED.quantity <= $5
		 RETURNING id, user_id, product_id, quantity`,
		entry.ID, entry.UserID, entry.ProductID, entry.Quantity, model.MaxCartQuantity).
		Scan(&saved.ID, &saved.UserID, &saved.ProductID, &saved.Quantity)
	if err != nil {
		// Past the cap the conflict update is skipped and no row comes back.
		if errors.Is(err, pgx.ErrNoRows) {
			return model.CartEntry{}, model.ErrCartQuantity
		}
		if code, constraint, ok := pgError(err); ok && code == pgForeignKeyViolation {
			switch constraint {
			case "cart_items_product_id_fkey":
				return model.CartEntry{}, model.ErrProductNotFound
			case "cart_items_user_id_fkey":
				return model.CartEntry{}, model.ErrUserNotFound
			}
		}
		return model.CartEntry{}, fmt.Errorf("add cart item: %w", err)
	}
	return saved, nil
}

func (r *CartRepository) SetQuantity(ctx context.Context, userID string, productID string, quantity int) (model.CartEntry, error) {
	var saved model.CartEntry
	err := r.pool.QueryRow(ctx,
		`UPDATE cart_items SET quantity = $3
		 WHERE user_id = $1 AND product_id = $2
		 RETURNING id, user_id, product_id, quantity`,
		userID, productID, quantity).
		Scan(&saved.ID, &saved.UserID, &saved.ProductID, &saved.Quantity)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.CartEntry{}, model.ErrCartItemNotFound
	}
	if err != nil {
		return model.CartEntry{}, fmt.Errorf("update cart item: %w", err)
	}
	return saved, nil
}

func (r *CartRepository) Remove(ctx context.Context, userID string, productID string) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM cart_items WHERE user_id = $1 AND product_id = $2`, userID, productID)
	if err != nil {
		return fmt.Errorf("remove cart item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrCartItemNotFound
	}
	return nil
}
