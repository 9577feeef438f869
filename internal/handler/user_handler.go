package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"go-storefront/internal/model"
	"go-storefront/internal/service"
)

type UserHandler struct {
	service   *service.UserService
	validator payloadValidator
}

func NewUserHandler(service *service.UserService, validator payloadValidator) *UserHandler {
	return &UserHandler{service: service, validator: validator}
}

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, users)
}

func (h *UserHandler) ChangeRole(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(w, r)
	if !ok {
		return
	}

	var payload model.ChangeRoleRequest
	if err := bindJSON(w, r, h.validator, &payload); err != nil {
		writeError(w, err)
		return
	}

	user, err := h.service.ChangeRole(r.Context(), actor, chi.URLParam(r, "id"), payload.Role)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, model.RoleChangeResponse{Message: "role updated", User: user})
}

func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), actor, chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}

	writeMessage(w, http.StatusOK, "user deleted")
}
