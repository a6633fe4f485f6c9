package queue

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/scribehub/identity-api/internal/core/domain"
)

type memAuditRepo struct {
	mu     sync.Mutex
	events []domain.AuditEvent
	err    error
}

func (r *memAuditRepo) Insert(_ context.Context, event *domain.AuditEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.events = append(r.events, *event)
	return nil
}

func (r *memAuditRepo) ListByEmail(_ context.Context, _ string, _ int) ([]domain.AuditEvent, error) {
	panic("not used")
}

func (r *memAuditRepo) byEmail(email string) []domain.AuditEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.AuditEvent
	for _, e := range r.events {
		if e.Email == email {
			out = append(out, e)
		}
	}
	return out
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("condition not met before deadline")
}

func TestDispatcher_PersistsEvents(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	repo := &memAuditRepo{}
	d := NewDispatcher(2, repo, zerolog.Nop())
	d.Start(ctx)

	d.Record(domain.AuditEvent{Email: "alice@example.com", Action: domain.AuditLogin, TraceID: "t1"})
	d.Record(domain.AuditEvent{Email: "bob@example.com", Action: domain.AuditRegister, TraceID: "t2"})

	waitFor(t, func() bool {
		return len(repo.byEmail("alice@example.com")) == 1 && len(repo.byEmail("bob@example.com")) == 1
	})
}

func TestDispatcher_OrderPreservedPerEmail(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	repo := &memAuditRepo{}
	d := NewDispatcher(4, repo, zerolog.Nop())
	d.Start(ctx)

	actions := []string{domain.AuditRegister, domain.AuditLoginFailed, domain.AuditLogin}
	for _, a := range actions {
		d.Record(domain.AuditEvent{Email: "alice@example.com", Action: a})
	}

	waitFor(t, func() bool {
		return len(repo.byEmail("alice@example.com")) == len(actions)
	})

	got := repo.byEmail("alice@example.com")
	for i, a := range actions {
		if got[i].Action != a {
			t.Fatalf("event %d out of order: got %s want %s", i, got[i].Action, a)
		}
	}
}

func TestDispatcher_PersistenceFailureDoesNotPanic(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	repo := &memAuditRepo{err: errors.New("write concern timeout")}
	d := NewDispatcher(1, repo, zerolog.Nop())
	d.Start(ctx)

	d.Record(domain.AuditEvent{Email: "alice@example.com", Action: domain.AuditLogin})

	// Give the worker time to hit the error path; nothing must be stored.
	time.Sleep(50 * time.Millisecond)
	if n := len(repo.byEmail("alice@example.com")); n != 0 {
		t.Fatalf("expected no stored events, got %d", n)
	}
}

func TestDispatcher_ShardIsStablePerEmail(t *testing.T) {
	d := NewDispatcher(4, &memAuditRepo{}, zerolog.Nop())

	first := d.shardIndex("alice@example.com")
	for i := 0; i < 10; i++ {
		if got := d.shardIndex("alice@example.com"); got != first {
			t.Fatalf("shard index not stable: %d vs %d", got, first)
		}
	}
}
