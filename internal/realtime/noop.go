package realtime

import (
	"context"
	"log"
)

// NoopBroadcaster is the prerender-mode broadcaster: publishes go nowhere.
type NoopBroadcaster struct{}

func (NoopBroadcaster) Publish(_ context.Context, channel, event string, _ interface{}) error {
	log.Printf("[REALTIME] noop publish %s on %s", event, channel)
	return nil
}
