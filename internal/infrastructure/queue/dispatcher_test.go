package queue

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/openclass/lms-platform/internal/core/domain"
)

type recordingAuditService struct {
	mu     sync.Mutex
	events []domain.AuditEvent
}

func (s *recordingAuditService) Record(_ context.Context, event domain.AuditEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

func (s *recordingAuditService) Recent(_ context.Context, _ int64) ([]domain.AuditEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.AuditEvent(nil), s.events...), nil
}

func (s *recordingAuditService) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.events)
}

func TestAuditDispatcher_DeliversEvents(t *testing.T) {
	svc := &recordingAuditService{}
	d := NewAuditDispatcher(2, svc, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	for i := 0; i < 5; i++ {
		d.Enqueue(domain.AuditEvent{Actor: "alice@example.com", Action: domain.AuditLogin})
	}
	d.Enqueue(domain.AuditEvent{Actor: "bob@example.com", Action: domain.AuditLogout})

	deadline := time.Now().Add(2 * time.Second)
	for svc.count() < 6 {
		if time.Now().After(deadline) {
			t.Fatalf("expected 6 events, got %d", svc.count())
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestAuditDispatcher_SameActorSameWorker(t *testing.T) {
	d := NewAuditDispatcher(4, &recordingAuditService{}, zerolog.Nop())

	first := d.shardIndex("alice@example.com")
	for i := 0; i < 10; i++ {
		if got := d.shardIndex("alice@example.com"); got != first {
			t.Fatalf("shard index not stable: %d vs %d", got, first)
		}
	}
}
