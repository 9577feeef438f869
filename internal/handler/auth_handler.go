package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"go-storefront/internal/metrics"
	"go-storefront/internal/model"
	"go-storefront/internal/service"
)

type sessionCarrier interface {
	Attach(w http.ResponseWriter, token string)
	Clear(w http.ResponseWriter)
}

type AuthHandler struct {
	service   *service.AuthService
	carrier   sessionCarrier
	validator payloadValidator
}

func NewAuthHandler(service *service.AuthService, carrier sessionCarrier, validator payloadValidator) *AuthHandler {
	return &AuthHandler{service: service, carrier: carrier, validator: validator}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var payload model.RegisterRequest
	if err := bindJSON(w, r, h.validator, &payload); err != nil {
		if isValidationError(err) {
			metrics.AuthAttemptsTotal.WithLabelValues("register", metrics.OutcomeValidation).Inc()
		}
		writeError(w, err)
		return
	}

	sess, err := h.service.Register(r.Context(), payload)
	if err != nil {
		writeError(w, err)
		return
	}

	h.carrier.Attach(w, sess.Token)
	writeJSON(w, http.StatusCreated, sess.User)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload model.LoginRequest
	if err := bindJSON(w, r, h.validator, &payload); err != nil {
		if isValidationError(err) {
			metrics.AuthAttemptsTotal.WithLabelValues("login", metrics.OutcomeValidation).Inc()
		}
		writeError(w, err)
		return
	}

	sess, err := h.service.Login(r.Context(), payload)
	if err != nil {
		if errors.Is(err, model.ErrInvalidCredentials) {
			slog.Warn("login failed", "client_ip", clientIP(r))
		}
		writeError(w, err)
		return
	}

	h.carrier.Attach(w, sess.Token)
	writeJSON(w, http.StatusOK, sess.User)
}

// Logout clears the session cookie. It needs no session and always succeeds.
func (h *AuthHandler) Logout(w http.ResponseWriter, _ *http.Request) {
	h.carrier.Clear(w)
	writeMessage(w, http.StatusOK, "logged out")
}

// Check echoes the identity carried by the session without a store lookup.
func (h *AuthHandler) Check(w http.ResponseWriter, r *http.Request) {
	identity, ok := actorFromRequest(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, model.SessionCheckResponse{Message: "authenticated", User: identity})
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	identity, ok := actorFromRequest(w, r)
	if !ok {
		return
	}

	profile, err := h.service.Profile(r.Context(), identity.UserID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, profile)
}

func (h *AuthHandler) UpdateUsername(w http.ResponseWriter, r *http.Request) {
	identity, ok := actorFromRequest(w, r)
	if !ok {
		return
	}

	var payload model.UpdateUsernameRequest
	if err := bindJSON(w, r, h.validator, &payload); err != nil {
		writeError(w, err)
		return
	}

	profile, err := h.service.UpdateUsername(r.Context(), identity.UserID, payload.Username)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, profile)
}

func (h *AuthHandler) UpdatePassword(w http.ResponseWriter, r *http.Request) {
	identity, ok := actorFromRequest(w, r)
	if !ok {
		return
	}

	var payload model.UpdatePasswordRequest
	if err := bindJSON(w, r, h.validator, &payload); err != nil {
		writeError(w, err)
		return
	}

	if err := h.service.UpdatePassword(r.Context(), identity.UserID, payload.Password); err != nil {
		writeError(w, err)
		return
	}

	writeMessage(w, http.StatusOK, "password updated")
}
