package queue

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/kasseeashil-ctrl/intel-platform/internal/core/domain"
	"github.com/kasseeashil-ctrl/intel-platform/internal/core/ports"
)

type captureAuditRepo struct {
	mu     sync.Mutex
	events []domain.AuditEvent
	done   chan struct{}
	want   int
}

func newCaptureAuditRepo(want int) *captureAuditRepo {
	return &captureAuditRepo{done: make(chan struct{}), want: want}
}

func (r *captureAuditRepo) Insert(_ context.Context, e *domain.AuditEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, *e)
	if len(r.events) == r.want {
		close(r.done)
	}
	return nil
}

func (r *captureAuditRepo) List(context.Context, ports.ListAuditFilter) ([]*domain.AuditEvent, int64, error) {
	return nil, 0, nil
}

func TestAuditDispatcher_PersistsInOrderPerUser(t *testing.T) {
	repo := newCaptureAuditRepo(3)
	d := NewAuditDispatcher(2, repo, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	d.Record(domain.AuditEvent{Username: "alice", Action: domain.AuditLoginFailure})
	d.Record(domain.AuditEvent{Username: "alice", Action: domain.AuditLoginSuccess})
	d.Record(domain.AuditEvent{Username: "alice", Action: domain.AuditPasswordChange})

	select {
	case <-repo.done:
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for audit writes")
	}

	repo.mu.Lock()
	defer repo.mu.Unlock()
	wantOrder := []string{domain.AuditLoginFailure, domain.AuditLoginSuccess, domain.AuditPasswordChange}
	for i, want := range wantOrder {
		if repo.events[i].Action != want {
			t.Fatalf("event %d: got %s, want %s (order must be preserved per user)", i, repo.events[i].Action, want)
		}
	}
}

func TestAuditDispatcher_ShardIsStable(t *testing.T) {
	d := NewAuditDispatcher(8, newCaptureAuditRepo(0), zerolog.Nop())

	first := d.shardIndex("cyber_analyst")
	for i := 0; i < 10; i++ {
		if got := d.shardIndex("cyber_analyst"); got != first {
			t.Fatalf("shard index must be deterministic, got %d then %d", first, got)
		}
	}
}
