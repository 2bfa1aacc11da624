package audit

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturingPublisher struct {
	mu     sync.Mutex
	events []Event
}

func (p *capturingPublisher) Publish(_ context.Context, e Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func (p *capturingPublisher) Close() {}

func (p *capturingPublisher) snapshot() []Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]Event, len(p.events))
	copy(out, p.events)
	return out
}

func TestWorker_DeliversEvents(t *testing.T) {
	pub := &capturingPublisher{}
	w := NewWorker(pub, 8, nil)

	ctx, cancel := context.WithCancel(context.Background())
	go w.Run(ctx)

	w.Emit(context.Background(), Event{Type: TypeDecided, CaseID: "case-1", Verdict: "ALLOW"})
	w.Emit(context.Background(), Event{Type: TypeEscalated, CaseID: "case-1"})

	require.Eventually(t, func() bool {
		return len(pub.snapshot()) == 2
	}, time.Second, 10*time.Millisecond)

	cancel()
	w.Wait()

	events := pub.snapshot()
	assert.Equal(t, TypeDecided, events[0].Type)
	assert.False(t, events[0].Timestamp.IsZero())
}

func TestWorker_DrainsOnShutdown(t *testing.T) {
	pub := &capturingPublisher{}
	w := NewWorker(pub, 8, nil)

	// Enqueue before the worker runs, then cancel immediately: the drain path
	// must still deliver everything buffered.
	w.Emit(context.Background(), Event{Type: TypeDecided, CaseID: "case-1"})
	w.Emit(context.Background(), Event{Type: TypeDecided, CaseID: "case-2"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	go w.Run(ctx)
	w.Wait()

	assert.Len(t, pub.snapshot(), 2)
}

func TestWorker_FullInboxDropsInsteadOfBlocking(t *testing.T) {
	pub := &capturingPublisher{}
	w := NewWorker(pub, 1, nil)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 10; i++ {
			w.Emit(context.Background(), Event{Type: TypeDecided})
		}
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Emit blocked on a full inbox")
	}
}
