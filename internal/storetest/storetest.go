// Package storetest provides in-memory implementations of the store
// interfaces for tests.
package storetest

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"go-storefront/internal/model"
)

// Users is a UserStore. Err, when set, fails every lookup.
type Users struct {
	Err error

	mu    sync.Mutex
	users map[string]model.User
}

func NewUsers(users ...model.User) *Users {
	s := &Users{users: map[string]model.User{}}
	for _, u := range users {
		s.users[u.ID] = u
	}
	return s
}

func (s *Users) FindByID(_ context.Context, id string) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return model.User{}, s.Err
	}
	u, ok := s.users[id]
	if !ok {
		return model.User{}, model.ErrUserNotFound
	}
	return u, nil
}

func (s *Users) FindByEmail(_ context.Context, email string) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return model.User{}, s.Err
	}
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return model.User{}, model.ErrUserNotFound
}

func (s *Users) FindByEmailOrUsername(_ context.Context, email string, username string) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return model.User{}, s.Err
	}
	var byName *model.User
	for _, u := range s.users {
		u := u
		if u.Email == email {
			return u, nil
		}
		if u.Username == username {
			byName = &u
		}
	}
	if byName != nil {
		return *byName, nil
	}
	return model.User{}, model.ErrUserNotFound
}

func (s *Users) Create(_ context.Context, u model.User) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if existing.Email == u.Email {
			return model.User{}, model.ErrEmailTaken
		}
		if existing.Username == u.Username {
			return model.User{}, model.ErrUsernameTaken
		}
	}
	u.CreatedAt = time.Now().UTC()
	s.users[u.ID] = u
	return u, nil
}

func (s *Users) UpdateUsername(_ context.Context, id string, username string) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return model.User{}, model.ErrUserNotFound
	}
	for _, existing := range s.users {
		if existing.ID != id && existing.Username == username {
			return model.User{}, model.ErrUsernameTaken
		}
	}
	u.Username = username
	s.users[id] = u
	return u, nil
}

func (s *Users) UpdatePassword(_ context.Context, id string, passwordHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return model.ErrUserNotFound
	}
	u.PasswordHash = passwordHash
	s.users[id] = u
	return nil
}

func (s *Users) UpdateRole(_ context.Context, id string, role model.Role) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return model.User{}, model.ErrUserNotFound
	}
	u.Role = role
	s.users[id] = u
	return u, nil
}

func (s *Users) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[id]; !ok {
		return model.ErrUserNotFound
	}
	delete(s.users, id)
	return nil
}

func (s *Users) List(_ context.Context) ([]model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, u)
	}
	slices.SortFunc(out, func(a, b model.User) int { return a.CreatedAt.Compare(b.CreatedAt) })
	return out, nil
}

// Auditor records synchronously.
type Auditor struct {
	mu      sync.Mutex
	records []model.AuditRecord
}

func (a *Auditor) Log(_ context.Context, record model.AuditRecord) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.records = append(a.records, record)
}

func (a *Auditor) Records() []model.AuditRecord {
	a.mu.Lock()
	defer a.mu.Unlock()
	return slices.Clone(a.records)
}

// AuditLog is an AuditStore. Err fails every write; when Release is set,
// writes block until it is closed or their context ends.
type AuditLog struct {
	Err     error
	Release chan struct{}

	mu        sync.Mutex
	records   []model.AuditRecord
	lastLimit int
}

func (s *AuditLog) Create(ctx context.Context, record model.AuditRecord) error {
	if s.Release != nil {
		select {
		case <-s.Release:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	s.records = append(s.records, record)
	return nil
}

func (s *AuditLog) List(_ context.Context, limit int) ([]model.AuditEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastLimit = limit

	out := make([]model.AuditEntry, 0, len(s.records))
	for i := len(s.records) - 1; i >= 0 && len(out) < limit; i-- {
		r := s.records[i]
		userID, entityID := r.UserID, r.EntityID
		out = append(out, model.AuditEntry{
			ID:       int64(i + 1),
			UserID:   &userID,
			Action:   r.Action,
			Entity:   r.Entity,
			EntityID: &entityID,
			Details:  r.Details,
		})
	}
	return out, nil
}

func (s *AuditLog) LastLimit() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastLimit
}

func (s *AuditLog) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

var ErrStoreDown = errors.New("store unavailable")

type Products struct {
	mu       sync.Mutex
	products map[string]model.Product
}

func NewProducts(products ...model.Product) *Products {
	s := &Products{products: map[string]model.Product{}}
	for _, p := range products {
		s.products[p.ID] = p
	}
	return s
}

func (s *Products) List(_ context.Context) ([]model.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Product, 0, len(s.products))
	for _, p := range s.products {
		out = append(out, p)
	}
	return out, nil
}

func (s *Products) FindByID(_ context.Context, id string) (model.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	if !ok {
		return model.Product{}, model.ErrProductNotFound
	}
	return p, nil
}

func (s *Products) Create(_ context.Context, p model.Product) (model.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p.CreatedAt = time.Now().UTC()
	s.products[p.ID] = p
	return p, nil
}

func (s *Products) Update(_ context.Context, id string, patch model.UpdateProductRequest) (model.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	if !ok {
		return model.Product{}, model.ErrProductNotFound
	}
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Description != nil {
		p.Description = patch.Description
	}
	if patch.Price != nil {
		p.Price = *patch.Price
	}
	if patch.Stock != nil {
		p.Stock = *patch.Stock
	}
	if patch.Category != nil {
		p.Category = patch.Category
	}
	if patch.ImageURL != nil {
		p.ImageURL = patch.ImageURL
	}
	s.products[id] = p
	return p, nil
}

func (s *Products) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.products[id]; !ok {
		return model.ErrProductNotFound
	}
	delete(s.products, id)
	return nil
}

type Carts struct {
	mu       sync.Mutex
	products *Products
	entries  map[string]model.CartEntry // keyed by user_id + product_id
}

func NewCarts(products *Products) *Carts {
	return &Carts{products: products, entries: map[string]model.CartEntry{}}
}

func (s *Carts) Items(ctx context.Context, userID string) ([]model.CartItem, error) {
	s.mu.Lock()
	entries := make([]model.CartEntry, 0)
	for _, e := range s.entries {
		if e.UserID == userID {
			entries = append(entries, e)
		}
	}
	s.mu.Unlock()

	items := make([]model.CartItem, 0, len(entries))
	for _, e := range entries {
		p, err := s.products.FindByID(ctx, e.ProductID)
		if err != nil {
			return nil, err
		}
		items = append(items, model.CartItem{ID: e.ID, ProductID: e.ProductID, Name: p.Name, Price: p.Price, Quantity: e.Quantity})
	}
	slices.SortFunc(items, func(a, b model.CartItem) int {
		switch {
		case a.Name < b.Name:
			return -1
		case a.Name > b.Name:
			return 1
		default:
			return 0
		}
	})
	return items, nil
}

func (s *Carts) Add(_ context.Context, entry model.CartEntry) (model.CartEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := entry.UserID + "/" + entry.ProductID
	if existing, ok := s.entries[key]; ok {
		if existing.Quantity+entry.Quantity > model.MaxCartQuantity {
			return model.CartEntry{}, model.ErrCartQuantity
		}
		existing.Quantity += entry.Quantity
		s.entries[key] = existing
		return existing, nil
	}
	s.entries[key] = entry
	return entry, nil
}

func (s *Carts) SetQuantity(_ context.Context, userID string, productID string, quantity int) (model.CartEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := userID + "/" + productID
	existing, ok := s.entries[key]
	if !ok {
		return model.CartEntry{}, model.ErrCartItemNotFound
	}
	existing.Quantity = quantity
	s.entries[key] = existing
	return existing, nil
}

func (s *Carts) Remove(_ context.Context, userID string, productID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := userID + "/" + productID
	if _, ok := s.entries[key]; !ok {
		return model.ErrCartItemNotFound
	}
	delete(s.entries, key)
	return nil
}
