package service

import (
	"context"

	"go-storefront/internal/model"
)

type UserStore interface {
	FindByID(ctx context.Context, id string) (model.User, error)
	FindByEmail(ctx context.Context, email string) (model.User, error)
	FindByEmailOrUsername(ctx context.Context, email string, username string) (model.User, error)
	Create(ctx context.Context, u model.User) (model.User, error)
	UpdateUsername(ctx context.Context, id string, username string) (model.User, error)
	UpdatePassword(ctx context.Context, id string, passwordHash string) error
	UpdateRole(ctx context.Context, id string, role model.Role) (model.User, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]model.User, error)
}

type AuditStore interface {
	Create(ctx context.Context, record model.AuditRecord) error
	List(ctx context.Context, limit int) ([]model.AuditEntry, error)
}

type ProductStore interface {
	List(ctx context.Context) ([]model.Product, error)
	FindByID(ctx context.Context, id string) (model.Product, error)
	Create(ctx context.Context, p model.Product) (model.Product, error)
	Update(ctx context.Context, id string, patch model.UpdateProductRequest) (model.Product, error)
	Delete(ctx context.Context, id string) error
}

type CartStore interface {
	Items(ctx context.Context, userID string) ([]model.CartItem, error)
	Add(ctx context.Context, entry model.CartEntry) (model.CartEntry, error)
	SetQuantity(ctx context.Context, userID string, productID string, quantity int) (model.CartEntry, error)
	Remove(ctx context.Context, userID string, productID string) error
}

// Auditor records administrative actions. Log must not block the caller or
// report failures back to it.
type Auditor interface {
	Log(ctx context.Context, record model.AuditRecord)
}
