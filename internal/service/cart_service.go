package service

import (
	"context"
	"fmt"
	"math"

	"github.com/google/uuid"

	"go-storefront/internal/model"
)

type CartService struct {
	cart     CartStore
	products ProductStore
	newID    func() string
}

func NewCartService(cart CartStore, products ProductStore) *CartService {
	return &CartService{cart: cart, products: products, newID: uuid.NewString}
}

func (s *CartService) Get(ctx context.Context, userID string) (model.Cart, error) {
	items, err := s.cart.Items(ctx, userID)
	if err != nil {
		return model.Cart{}, fmt.Errorf("load cart: %w", err)
	}

	cart := model.Cart{Items: items}
	for i := range cart.Items {
		cart.Items[i].Subtotal = roundCents(cart.Items[i].Price * float64(cart.Items[i].Quantity))
		cart.Total += cart.Items[i].Subtotal
	}
	cart.Total = roundCents(cart.Total)
	return cart, nil
}

// Add puts quantity units of a product in the cart, on top of any already
// there.
func (s *CartService) Add(ctx context.Context, userID string, req model.CartItemRequest) (model.CartEntry, error) {
	if !validID(req.ProductID) {
		return model.CartEntry{}, model.ErrProductNotFound
	}
	if _, err := s.products.FindByID(ctx, req.ProductID); err != nil {
		return model.CartEntry{}, err
	}

	return s.cart.Add(ctx, model.CartEntry{
		ID:        s.newID(),
		UserID:    userID,
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
	})
}

func (s *CartService) SetQuantity(ctx context.Context, userID string, req model.CartItemRequest) (model.CartEntry, error) {
	if !validID(req.ProductID) {
		return model.CartEntry{}, model.ErrCartItemNotFound
	}
	return s.cart.SetQuantity(ctx, userID, req.ProductID, req.Quantity)
}

func (s *CartService) Remove(ctx context.Context, userID string, productID string) error {
	if !validID(productID) {
		return model.ErrCartItemNotFound
	}
	return s.cart.Remove(ctx, userID, productID)
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
