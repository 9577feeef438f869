package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"go-storefront/internal/model"
)

type ProductService struct {
	products ProductStore
	audit    Auditor
	newID    func() string
}

func NewProductService(products ProductStore, audit Auditor) *ProductService {
	return &ProductService{products: products, audit: audit, newID: uuid.NewString}
}

func (s *ProductService) List(ctx context.Context) ([]model.Product, error) {
	products, err := s.products.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}

func (s *ProductService) Get(ctx context.Context, id string) (model.Product, error) {
	if !validID(id) {
		return model.Product{}, model.ErrProductNotFound
	}
	return s.products.FindByID(ctx, id)
}

func (s *ProductService) Create(ctx context.Context, actor model.Identity, req model.CreateProductRequest) (model.Product, error) {
	p := model.Product{
		ID:          s.newID(),
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
		ImageURL:    req.ImageURL,
	}
	if req.Stock != nil {
		p.Stock = *req.Stock
	}

	created, err := s.products.Create(ctx, p)
	if err != nil {
		return model.Product{}, err
	}

	s.audit.Log(ctx, model.AuditRecord{
		UserID:   actor.UserID,
		Action:   model.ActionProductCreate,
		Entity:   model.EntityProduct,
		EntityID: created.ID,
		Details:  map[string]any{"name": created.Name, "price": created.Price},
	})
	return created, nil
}

func (s *ProductService) Update(ctx context.Context, actor model.Identity, id string, req model.UpdateProductRequest) (model.Product, error) {
	if req.Empty() {
		return model.Product{}, model.ErrNothingToUpdate
	}
	if !validID(id) {
		return model.Product{}, model.ErrProductNotFound
	}

	updated, err := s.products.Update(ctx, id, req)
	if err != nil {
		return model.Product{}, err
	}

	s.audit.Log(ctx, model.AuditRecord{
		UserID:   actor.UserID,
		Action:   model.ActionProductUpdate,
		Entity:   model.EntityProduct,
		EntityID: updated.ID,
		Details:  changedFields(req),
	})
	return updated, nil
}

func (s *ProductService) Delete(ctx context.Context, actor model.Identity, id string) error {
	if !validID(id) {
		return model.ErrProductNotFound
	}

	if err := s.products.Delete(ctx, id); err != nil {
		return err
	}

	s.audit.Log(ctx, model.AuditRecord{
		UserID:   actor.UserID,
		Action:   model.ActionProductDelete,
		Entity:   model.EntityProduct,
		EntityID: id,
	})
	return nil
}

func changedFields(req model.UpdateProductRequest) map[string]any {
	fields := make([]string, 0, 6)
	if req.Name != nil {
		fields = append(fields, "name")
	}
	if req.Description != nil {
		fields = append(fields, "description")
	}
	if req.Price != nil {
		fields = append(fields, "price")
	}
	if req.Stock != nil {
		fields = append(fields, "stock")
	}
	if req.Category != nil {
		fields = append(fields, "category")
	}
	if req.ImageURL != nil {
		fields = append(fields, "image_url")
	}
	return map[string]any{"fields": fields}
}
