package service

import (
	"context"
	"fmt"
	"log/slog"

	"go-storefront/internal/model"
	"go-storefront/pkg/apierror"
)

type UserService struct {
	users UserStore
	audit Auditor
}

func NewUserService(users UserStore, audit Auditor) *UserService {
	return &UserService{users: users, audit: audit}
}

func (s *UserService) List(ctx context.Context) ([]model.PublicUser, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	out := make([]model.PublicUser, 0, len(users))
	for _, u := range users {
		out = append(out, u.Public())
	}
	return out, nil
}

// ChangeRole sets the target's role. Sessions already issued to the target
// keep the old role until they expire or the user logs in again.
func (s *UserService) ChangeRole(ctx context.Context, actor model.Identity, targetID string, rawRole string) (model.PublicUser, error) {
	role, ok := model.ParseRole(rawRole)
	if !ok {
		return model.PublicUser{}, apierror.Validation("invalid role", []apierror.FieldIssue{{
			Field:   "role",
			Message: "role must be one of: " + model.RoleNames(),
		}})
	}

	if !validID(targetID) {
		return model.PublicUser{}, model.ErrUserNotFound
	}

	user, err := s.users.UpdateRole(ctx, targetID, role)
	if err != nil {
		return model.PublicUser{}, err
	}

	s.audit.Log(ctx, model.AuditRecord{
		UserID:   actor.UserID,
		Action:   model.ActionRoleChange,
		Entity:   model.EntityUser,
		EntityID: user.ID,
		Details:  map[string]any{"new_role": string(role)},
	})
	slog.Info("user role changed", "actor_id", actor.UserID, "user_id", user.ID, "role", role)

	return user.Public(), nil
}

func (s *UserService) Delete(ctx context.Context, actor model.Identity, targetID string) error {
	if !validID(targetID) {
		return model.ErrUserNotFound
	}

	if err := s.users.Delete(ctx, targetID); err != nil {
		return err
	}

	s.audit.Log(ctx, model.AuditRecord{
		UserID:   actor.UserID,
		Action:   model.ActionDeleteUser,
		Entity:   model.EntityUser,
		EntityID: targetID,
	})
	slog.Info("user deleted", "actor_id", actor.UserID, "user_id", targetID)

	return nil
}
