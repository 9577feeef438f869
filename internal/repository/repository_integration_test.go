//go:build integration

package repository

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"go-storefront/internal/database"
	"go-storefront/internal/model"
)

func newTestDB(t *testing.T) *database.DB {
	t.Helper()

	url := os.Getenv("DATABASE_URL")
	if url == "" {
		t.Skip("DATABASE_URL not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := database.New(ctx, url, 4, 1)
	require.NoError(t, err)
	t.Cleanup(db.Close)

	require.NoError(t, db.EnsureSchema(ctx))
	_, err = db.Pool.Exec(ctx, `TRUNCATE audit_logs, cart_items, products, users CASCADE`)
	require.NoError(t, err)

	return db
}

func newUser(name string) model.User {
	return model.User{
		ID:           uuid.NewString(),
		Username:     name,
		Email:        name + "@example.com",
		PasswordHash: "$2a$10$hash",
		Role:         model.RoleUser,
	}
}

func TestUserRepositoryUniqueness(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db.Pool)
	ctx := context.Background()

	ana, err := repo.Create(ctx, newUser("ana"))
	require.NoError(t, err)
	require.Equal(t, model.RoleUser, ana.Role)
	require.False(t, ana.CreatedAt.IsZero())

	dup := newUser("ana")
	dup.Email = "other@example.com"
	_, err = repo.Create(ctx, dup)
	require.ErrorIs(t, err, model.ErrUsernameTaken)

	dup = newUser("someone")
	dup.Email = ana.Email
	_, err = repo.Create(ctx, dup)
	require.ErrorIs(t, err, model.ErrEmailTaken)

	bob, err := repo.Create(ctx, newUser("bob"))
	require.NoError(t, err)

	found, err := repo.FindByEmailOrUsername(ctx, bob.Email, ana.Username)
	require.NoError(t, err)
	require.Equal(t, bob.ID, found.ID)

	_, err = repo.FindByEmailOrUsername(ctx, "nobody@example.com", "nobody")
	require.ErrorIs(t, err, model.ErrUserNotFound)
}

func TestUserRepositoryLifecycle(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db.Pool)
	ctx := context.Background()

	u, err := repo.Create(ctx, newUser("carla"))
	require.NoError(t, err)

	u, err = repo.UpdateRole(ctx, u.ID, model.RoleManager)
	require.NoError(t, err)
	require.Equal(t, model.RoleManager, u.Role)

	u, err = repo.UpdateUsername(ctx, u.ID, "carla2")
	require.NoError(t, err)
	require.Equal(t, "carla2", u.Username)

	require.NoError(t, repo.UpdatePassword(ctx, u.ID, "$2a$10$other"))
	byEmail, err := repo.FindByEmail(ctx, u.Email)
	require.NoError(t, err)
	require.Equal(t, "$2a$10$other", byEmail.PasswordHash)

	users, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)

	require.NoError(t, repo.Delete(ctx, u.ID))
	require.ErrorIs(t, repo.Delete(ctx, u.ID), model.ErrUserNotFound)
	_, err = repo.FindByID(ctx, u.ID)
	require.ErrorIs(t, err, model.ErrUserNotFound)
}

func TestAuditRepositoryJoinsActorName(t *testing.T) {
	db := newTestDB(t)
	users := NewUserRepository(db.Pool)
	audit := NewAuditRepository(db.Pool)
	ctx := context.Background()

	admin, err := users.Create(ctx, newUser("root"))
	require.NoError(t, err)

	require.NoError(t, audit.Create(ctx, model.AuditRecord{
		UserID:   admin.ID,
		Action:   model.ActionRoleChange,
		Entity:   model.EntityUser,
		EntityID: "target-1",
		Details:  map[string]any{"new_role": "manager"},
	}))

	entries, err := audit.List(ctx, 100)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.NotNil(t, entries[0].AdminName)
	require.Equal(t, "root", *entries[0].AdminName)
	require.Equal(t, "manager", entries[0].Details["new_role"])
}

func TestCartRepositoryAccumulates(t *testing.T) {
	db := newTestDB(t)
	users := NewUserRepository(db.Pool)
	products := NewProductRepository(db.Pool)
	cart := NewCartRepository(db.Pool)
	ctx := context.Background()

	u, err := users.Create(ctx, newUser("dana"))
	require.NoError(t, err)
	p, err := products.Create(ctx, model.Product{ID: uuid.NewString(), Name: "Mug", Price: 12.5, Stock: 3})
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		_, err = cart.Add(ctx, model.CartEntry{ID: uuid.NewString(), UserID: u.ID, ProductID: p.ID, Quantity: 2})
		require.NoError(t, err)
	}

	items, err := cart.Items(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, 4, items[0].Quantity)

	_, err = cart.Add(ctx, model.CartEntry{ID: uuid.NewString(), UserID: u.ID, ProductID: p.ID, Quantity: model.MaxCartQuantity - 3})
	require.ErrorIs(t, err, model.ErrCartQuantity)
	items, err = cart.Items(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, 4, items[0].Quantity)

	_, err = cart.Add(ctx, model.CartEntry{ID: uuid.NewString(), UserID: u.ID, ProductID: uuid.NewString(), Quantity: 1})
	require.ErrorIs(t, err, model.ErrProductNotFound)

	require.NoError(t, cart.Remove(ctx, u.ID, p.ID))
	require.ErrorIs(t, cart.Remove(ctx, u.ID, p.ID), model.ErrCartItemNotFound)
}
