package queue

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/madavola/tracegate/internal/core/domain"
	"github.com/madavola/tracegate/internal/core/ports"
)

type collectRepo struct {
	mu      sync.Mutex
	records []domain.AuditRecord
}

func (r *collectRepo) Insert(_ context.Context, rec *domain.AuditRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, *rec)
	return nil
}

func (r *collectRepo) List(context.Context, ports.AuditQuery) ([]domain.AuditRecord, error) {
	return nil, nil
}

func (r *collectRepo) snapshot() []domain.AuditRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.AuditRecord, len(r.records))
	copy(out, r.records)
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
	t.Fatalf("condition not reached in time")
}

func TestDispatcher_PreservesPerSessionOrder(t *testing.T) {
	repo := &collectRepo{}
	d := NewDispatcher(4, repo, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	const n = 20
	for i := 0; i < n; i++ {
		d.Record(domain.AuditRecord{
			SessionID: "sess-1",
			Action:    domain.AuditGuardRedirect,
			Detail:    fmt.Sprintf("seq-%02d", i),
		})
	}

	waitFor(t, func() bool { return len(repo.snapshot()) == n })

	for i, rec := range repo.snapshot() {
		if want := fmt.Sprintf("seq-%02d", i); rec.Detail != want {
			t.Fatalf("record %d out of order: got %s, want %s", i, rec.Detail, want)
		}
		if rec.At.IsZero() {
			t.Fatalf("Record must stamp the time when missing")
		}
	}
}

func TestDispatcher_RecordNeverBlocks(t *testing.T) {
	repo := &collectRepo{}
	d := NewDispatcher(1, repo, zerolog.Nop())
	// Workers never started: the channel fills up and overflow is dropped.

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < channelBuffer+50; i++ {
			d.Record(domain.AuditRecord{SessionID: "sess-1", Action: domain.AuditLogin})
		}
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("Record blocked on a full queue")
	}
}
