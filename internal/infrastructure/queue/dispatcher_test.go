package queue

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/hubcrm/accounts-api/internal/core/ports"
)

type recordingMailer struct {
	mu    sync.Mutex
	calls []ports.MailJob
	done  chan struct{}
	want  int
	fail  bool
}

func (m *recordingMailer) Send(_ context.Context, job ports.MailJob) error {
	m.mu.Lock()
	m.calls = append(m.calls, job)
	n := len(m.calls)
	m.mu.Unlock()
	if n == m.want {
		close(m.done)
	}
	if m.fail {
		return context.DeadlineExceeded
	}
	return nil
}

func (m *recordingMailer) sent() []ports.MailJob {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]ports.MailJob(nil), m.calls...)
}

func TestDispatcher_PerRecipientOrdering(t *testing.T) {
	mailer := &recordingMailer{done: make(chan struct{}), want: 3}
	d := NewDispatcher(4, mailer, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	for _, code := range []string{"FIRST", "SECOND", "THIRD"} {
		d.Enqueue(ports.MailJob{To: "same@example.com", TemplateCode: code})
	}

	select {
	case <-mailer.done:
	case <-time.After(5 * time.Second):
		t.Fatalf("timed out waiting for deliveries")
	}

	calls := mailer.sent()
	if len(calls) != 3 {
		t.Fatalf("deliveries = %d, want 3", len(calls))
	}
	for i, code := range []string{"FIRST", "SECOND", "THIRD"} {
		if calls[i].TemplateCode != code {
			t.Fatalf("delivery %d = %s, want %s (same-recipient order must hold)", i, calls[i].TemplateCode, code)
		}
	}
}

func TestDispatcher_FailuresDoNotStopWorker(t *testing.T) {
	mailer := &recordingMailer{done: make(chan struct{}), want: 2, fail: true}
	d := NewDispatcher(1, mailer, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	d.Enqueue(ports.MailJob{To: "a@example.com", TemplateCode: "ONE"})
	d.Enqueue(ports.MailJob{To: "b@example.com", TemplateCode: "TWO"})

	select {
	case <-mailer.done:
	case <-time.After(5 * time.Second):
		t.Fatalf("worker stopped after a delivery failure")
	}
}

func TestDispatcher_StableSharding(t *testing.T) {
	d := NewDispatcher(4, &recordingMailer{}, zerolog.Nop())

	first := d.shardIndex("ada@example.com")
	for i := 0; i < 10; i++ {
		if got := d.shardIndex("ada@example.com"); got != first {
			t.Fatalf("shard index not deterministic: %d vs %d", got, first)
		}
	}
	if first < 0 || first >= 4 {
		t.Fatalf("shard index %d out of range", first)
	}
}
