package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-storefront/internal/model"
	"go-storefront/internal/storetest"
)

func ptr[T any](v T) *T { return &v }

func TestProductServiceAudits(t *testing.T) {
	t.Parallel()

	products := storetest.NewProducts()
	audit := &storetest.Auditor{}
	svc := NewProductService(products, audit)
	admin := model.Identity{UserID: uuid.NewString(), Role: model.RoleAdmin}
	ctx := context.Background()

	created, err := svc.Create(ctx, admin, model.CreateProductRequest{Name: "Mug", Price: 12.5, Stock: ptr(4)})
	require.NoError(t, err)
	assert.Equal(t, 4, created.Stock)

	updated, err := svc.Update(ctx, admin, created.ID, model.UpdateProductRequest{Price: ptr(10.0)})
	require.NoError(t, err)
	assert.Equal(t, 10.0, updated.Price)
	assert.Equal(t, "Mug", updated.Name)

	_, err = svc.Update(ctx, admin, created.ID, model.UpdateProductRequest{})
	require.ErrorIs(t, err, model.ErrNothingToUpdate)

	require.NoError(t, svc.Delete(ctx, admin, created.ID))
	_, err = svc.Get(ctx, created.ID)
	require.ErrorIs(t, err, model.ErrProductNotFound)
	_, err = svc.Get(ctx, "42")
	require.ErrorIs(t, err, model.ErrProductNotFound)

	actions := make([]string, 0, 3)
	for _, r := range audit.Records() {
		actions = append(actions, r.Action)
		assert.Equal(t, admin.UserID, r.UserID)
	}
	assert.Equal(t, []string{model.ActionProductCreate, model.ActionProductUpdate, model.ActionProductDelete}, actions)
}

func TestCartService(t *testing.T) {
	t.Parallel()

	mug := model.Product{ID: uuid.NewString(), Name: "Mug", Price: 12.5}
	tea := model.Product{ID: uuid.NewString(), Name: "Tea", Price: 3.1}
	products := storetest.NewProducts(mug, tea)
	svc := NewCartService(storetest.NewCarts(products), products)
	userID := uuid.NewString()
	ctx := context.Background()

	_, err := svc.Add(ctx, userID, model.CartItemRequest{ProductID: mug.ID, Quantity: 1})
	require.NoError(t, err)
	entry, err := svc.Add(ctx, userID, model.CartItemRequest{ProductID: mug.ID, Quantity: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, entry.Quantity)

	_, err = svc.Add(ctx, userID, model.CartItemRequest{ProductID: tea.ID, Quantity: 3})
	require.NoError(t, err)

	cart, err := svc.Get(ctx, userID)
	require.NoError(t, err)
	require.Len(t, cart.Items, 2)
	assert.Equal(t, 37.5, cart.Items[0].Subtotal)
	assert.Equal(t, 9.3, cart.Items[1].Subtotal)
	assert.Equal(t, 46.8, cart.Total)

	_, err = svc.Add(ctx, userID, model.CartItemRequest{ProductID: mug.ID, Quantity: model.MaxCartQuantity})
	require.ErrorIs(t, err, model.ErrCartQuantity)

	_, err = svc.Add(ctx, userID, model.CartItemRequest{ProductID: uuid.NewString(), Quantity: 1})
	require.ErrorIs(t, err, model.ErrProductNotFound)

	entry, err = svc.SetQuantity(ctx, userID, model.CartItemRequest{ProductID: tea.ID, Quantity: 1})
	require.NoError(t, err)
	assert.Equal(t, 1, entry.Quantity)

	require.NoError(t, svc.Remove(ctx, userID, mug.ID))
	require.ErrorIs(t, svc.Remove(ctx, userID, mug.ID), model.ErrCartItemNotFound)

	other, err := svc.Get(ctx, uuid.NewString())
	require.NoError(t, err)
	assert.Empty(t, other.Items)
	assert.Zero(t, other.Total)
}
