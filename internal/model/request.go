package model

import "strings"

type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=30,nospace,noangle"`
	Email    string `json:"email"    validate:"required,max=255,email,nospace"`
	Password string `json:"password" validate:"required,min=6,max=50,nospace,noangle,strongpass"`
}

type LoginRequest struct {
	Email    string `json:"email"    validate:"required,max=255,email,nospace,noangle"`
	Password string `json:"password" validate:"required,min=6,nospace,noangle"`
}

type UpdateUsernameRequest struct {
	Username string `json:"username" validate:"required,min=3,max=30,nospace,noangle"`
}

type UpdatePasswordRequest struct {
	Password string `json:"password" validate:"required,min=6,max=50,nospace,noangle,strongpass"`
}

type ChangeRoleRequest struct {
	Role string `json:"role"`
}

type CreateProductRequest struct {
	Name        string  `json:"name"        validate:"required,min=1"`
	Description *string `json:"description"`
	Price       float64 `json:"price"       validate:"gt=0"`
	Stock       *int    `json:"stock"       validate:"omitempty,gte=0"`
	Category    *string `json:"category"`
	ImageURL    *string `json:"image_url"   validate:"omitempty,url"`
}

// UpdateProductRequest is a partial update: nil fields are left untouched.
type UpdateProductRequest struct {
	Name        *string  `json:"name"        validate:"omitempty,min=1"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"       validate:"omitempty,gt=0"`
	Stock       *int     `json:"stock"       validate:"omitempty,gte=0"`
	Category    *string  `json:"category"`
	ImageURL    *string  `json:"image_url"   validate:"omitempty,url"`
}

func (r UpdateProductRequest) Empty() bool {
	return r.Name == nil && r.Description == nil && r.Price == nil &&
		r.Stock == nil && r.Category == nil && r.ImageURL == nil
}

type CartItemRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity"   validate:"gte=1,max=1000"`
}

// Normalize trims the username and lowercases the email before validation.
func (r *RegisterRequest) Normalize() {
	r.Username = strings.TrimSpace(r.Username)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
}

func (r *LoginRequest) Normalize() {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
}

func (r *UpdateUsernameRequest) Normalize() {
	r.Username = strings.TrimSpace(r.Username)
}

func (r *CreateProductRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
}

func (r *UpdateProductRequest) Normalize() {
	if r.Name != nil {
		trimmed := strings.TrimSpace(*r.Name)
		r.Name = &trimmed
	}
}
