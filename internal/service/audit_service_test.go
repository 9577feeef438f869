package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"go-storefront/internal/model"
	"go-storefront/internal/storetest"
)

func TestAuditServiceWritesInBackground(t *testing.T) {
	t.Parallel()

	store := &storetest.AuditLog{Release: make(chan struct{})}
	svc := NewAuditService(store, 0)

	svc.Log(context.Background(), model.AuditRecord{UserID: "admin-1", Action: model.ActionDeleteUser, Entity: model.EntityUser})
	assert.Equal(t, 0, store.Count())

	close(store.Release)
	require.NoError(t, svc.Close(context.Background()))
	assert.Equal(t, 1, store.Count())
}

func TestAuditServiceSurvivesCanceledRequest(t *testing.T) {
	t.Parallel()

	store := &storetest.AuditLog{}
	svc := NewAuditService(store, 0)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	svc.Log(ctx, model.AuditRecord{UserID: "admin-1", Action: model.ActionRoleChange, Entity: model.EntityUser})

	require.NoError(t, svc.Close(context.Background()))
	assert.Equal(t, 1, store.Count())
}

func TestAuditServiceSkips(t *testing.T) {
	t.Parallel()

	store := &storetest.AuditLog{}
	svc := NewAuditService(store, 0)

	svc.Log(context.Background(), model.AuditRecord{Action: model.ActionRoleChange, Entity: model.EntityUser})
	require.NoError(t, svc.Close(context.Background()))

	svc.Log(context.Background(), model.AuditRecord{UserID: "admin-1", Action: model.ActionRoleChange, Entity: model.EntityUser})
	assert.Equal(t, 0, store.Count())
}

func TestAuditServiceCloseHonoursDeadline(t *testing.T) {
	t.Parallel()

	store := &storetest.AuditLog{Release: make(chan struct{})}
	svc := NewAuditService(store, 0)
	svc.Log(context.Background(), model.AuditRecord{UserID: "admin-1", Action: model.ActionDeleteUser, Entity: model.EntityUser})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	require.ErrorIs(t, svc.Close(ctx), context.DeadlineExceeded)

	close(store.Release)
	require.NoError(t, svc.Close(context.Background()))
}

func TestAuditFailureDoesNotFailTheAction(t *testing.T) {
	t.Parallel()

	hasher := NewBcryptHasher(bcrypt.MinCost)
	target := seedUser(t, hasher, "ana", "ana@example.com", "Secret123", model.RoleUser)
	users := storetest.NewUsers(target)
	audit := NewAuditService(&storetest.AuditLog{Err: storetest.ErrStoreDown}, 0)
	svc := NewUserService(users, audit)
	admin := model.Identity{UserID: uuid.NewString(), Role: model.RoleAdmin}

	changed, err := svc.ChangeRole(context.Background(), admin, target.ID, "admin")
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, changed.Role)
	require.NoError(t, audit.Close(context.Background()))
}

func TestAuditListLimit(t *testing.T) {
	t.Parallel()

	store := &storetest.AuditLog{}
	svc := NewAuditService(store, 0)
	ctx := context.Background()

	tests := []struct {
		requested int
		want      int
	}{
		{requested: 0, want: DefaultAuditListLimit},
		{requested: -3, want: DefaultAuditListLimit},
		{requested: 25, want: 25},
		{requested: 10_000, want: MaxAuditListLimit},
	}
	for _, tc := range tests {
		_, err := svc.List(ctx, tc.requested)
		require.NoError(t, err)
		assert.Equal(t, tc.want, store.LastLimit(), "requested %d", tc.requested)
	}
}
