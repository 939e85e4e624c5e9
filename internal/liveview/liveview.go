// Package liveview reconciles pushed real-time events into local view state:
// each surface subscribes on mount, applies created/updated/removed events by
// identifier, and drops its subscription on teardown. Events are a low-latency
// accelerant only; a full reload from the read models is the source of truth.
package liveview

import (
	"context"

	"github.com/knagato/messenger-backend/internal/realtime"
)

// Applier applies one delivered event to a state surface. Run calls it from
// a single goroutine, so implementations see serialized dispatch.
type Applier interface {
	Apply(env realtime.Envelope)
}

// Run subscribes and feeds events to the surface until ctx is cancelled; the
// subscription is torn down with it. Blocks, so callers usually `go Run(...)`.
func Run(ctx context.Context, sub realtime.Subscriber, surface Applier, channels ...string) error {
	events, err := sub.Subscribe(ctx, channels...)
	if err != nil {
		return err
	}
	for env := range events {
		surface.Apply(env)
	}
	return ctx.Err()
}
