package broker

import (
	"context"

	"github.com/Izaque674/SmartLOG-sub000/internal/models"
)

// Sink receives events. It matches dispatch.Publisher.
type Sink interface {
	Publish(ctx context.Context, event models.Event)
}

// Fanout forwards every event to each of its sinks in order. Nil sinks are skipped.
type Fanout []Sink

// Publish forwards event.
func (f Fanout) Publish(ctx context.Context, event models.Event) {
	for _, s := range f {
		if s != nil {
			s.Publish(ctx, event)
		}
	}
}
