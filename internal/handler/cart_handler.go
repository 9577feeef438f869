package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"go-storefront/internal/model"
	"go-storefront/internal/service"
)

// CartHandler always acts on the caller's own cart; the user never comes
// from the request body.
type CartHandler struct {
	service   *service.CartService
	validator payloadValidator
}

func NewCartHandler(service *service.CartService, validator payloadValidator) *CartHandler {
	return &CartHandler{service: service, validator: validator}
}

func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	identity, ok := actorFromRequest(w, r)
	if !ok {
		return
	}

	cart, err := h.service.Get(r.Context(), identity.UserID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, cart)
}

func (h *CartHandler) Add(w http.ResponseWriter, r *http.Request) {
	identity, ok := actorFromRequest(w, r)
	if !ok {
		return
	}

	var payload model.CartItemRequest
	if err := bindJSON(w, r, h.validator, &payload); err != nil {
		writeError(w, err)
		return
	}

	entry, err := h.service.Add(r.Context(), identity.UserID, payload)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, entry)
}

func (h *CartHandler) Update(w http.ResponseWriter, r *http.Request) {
	identity, ok := actorFromRequest(w, r)
	if !ok {
		return
	}

	var payload model.CartItemRequest
	if err := bindJSON(w, r, h.validator, &payload); err != nil {
		writeError(w, err)
		return
	}

	entry, err := h.service.SetQuantity(r.Context(), identity.UserID, payload)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, entry)
}

func (h *CartHandler) Remove(w http.ResponseWriter, r *http.Request) {
	identity, ok := actorFromRequest(w, r)
	if !ok {
		return
	}

	if err := h.service.Remove(r.Context(), identity.UserID, chi.URLParam(r, "product_id")); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
