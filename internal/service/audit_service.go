package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go-storefront/internal/metrics"
	"go-storefront/internal/model"
)

const (
	DefaultAuditListLimit = 100
	MaxAuditListLimit     = 500
	defaultAuditTimeout   = 5 * time.Second
)

// AuditService writes audit records in the background so an audit failure
// never fails the action being audited.
type AuditService struct {
	store        AuditStore
	writeTimeout time.Duration
	defaultLimit int

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

func NewAuditService(store AuditStore, defaultLimit int) *AuditService {
	if defaultLimit <= 0 || defaultLimit > MaxAuditListLimit {
		defaultLimit = DefaultAuditListLimit
	}
	return &AuditService{
		store:        store,
		writeTimeout: defaultAuditTimeout,
		defaultLimit: defaultLimit,
	}
}

// Log queues record for writing. Records without an actor are dropped.
func (s *AuditService) Log(ctx context.Context, record model.AuditRecord) {
	if s == nil {
		return
	}
	if record.UserID == "" {
		metrics.AuditWritesTotal.WithLabelValues("skipped").Inc()
		slog.Warn("audit record without actor skipped", "action", record.Action, "entity", record.Entity)
		return
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		metrics.AuditWritesTotal.WithLabelValues("skipped").Inc()
		slog.Warn("audit record after shutdown skipped", "action", record.Action)
		return
	}
	s.wg.Add(1)
	s.mu.Unlock()

	// The request may finish before the write does.
	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.writeTimeout)

	go func() {
		defer s.wg.Done()
		defer cancel()

		if err := s.store.Create(writeCtx, record); err != nil {
			metrics.AuditWritesTotal.WithLabelValues("error").Inc()
			slog.Error("audit write failed",
				"action", record.Action,
				"entity", record.Entity,
				"entity_id", record.EntityID,
				"user_id", record.UserID,
				"error", err,
			)
			return
		}
		metrics.AuditWritesTotal.WithLabelValues("ok").Inc()
	}()
}

// List returns the newest entries. A non-positive limit means the default;
// anything above MaxAuditListLimit is capped.
func (s *AuditService) List(ctx context.Context, limit int) ([]model.AuditEntry, error) {
	if limit <= 0 {
		limit = s.defaultLimit
	}
	if limit > MaxAuditListLimit {
		limit = MaxAuditListLimit
	}

	entries, err := s.store.List(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list audit logs: %w", err)
	}
	return entries, nil
}

// Close stops accepting records and waits for in-flight writes or ctx.
func (s *AuditService) Close(ctx context.Context) error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("drain audit writes: %w", ctx.Err())
	}
}
