package liveview

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/knagato/messenger-backend/internal/realtime"
)

type fakeSubscriber struct {
	events chan realtime.Envelope
	err    error
}

func (s *fakeSubscriber) Subscribe(ctx context.Context, _ ...string) (<-chan realtime.Envelope, error) {
	if s.err != nil {
		return nil, s.err
	}
	go func() {
		<-ctx.Done()
		close(s.events)
	}()
	return s.events, nil
}

type countingSurface struct {
	applied chan realtime.Envelope
}

func (c *countingSurface) Apply(env realtime.Envelope) {
	c.applied <- env
}

func TestRunForwardsUntilCancel(t *testing.T) {
	sub := &fakeSubscriber{events: make(chan realtime.Envelope, 4)}
	surface := &countingSurface{applied: make(chan realtime.Envelope, 4)}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- Run(ctx, sub, surface, "alice@example.com")
	}()

	sub.events <- realtime.Envelope{ID: "a", Event: realtime.EventConversationNew}
	sub.events <- realtime.Envelope{ID: "b", Event: realtime.EventConversationUpdate}
	for _, want := range []string{"a", "b"} {
		select {
		case env := <-surface.applied:
			if env.ID != want {
				t.Fatalf("applied %q, want %q", env.ID, want)
			}
		case <-time.After(time.Second):
			t.Fatalf("event %q never reached the surface", want)
		}
	}

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("Run returned %v, want context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Fatalf("Run did not stop after cancel")
	}
}

func TestRunSurfacesSubscribeError(t *testing.T) {
	boom := errors.New("subscribe refused")
	sub := &fakeSubscriber{err: boom}
	if err := Run(context.Background(), sub, &countingSurface{applied: make(chan realtime.Envelope, 1)}); !errors.Is(err, boom) {
		t.Fatalf("Run returned %v, want the subscribe error", err)
	}
}
