package events

import "context"

type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// Nop drops every event. Used when publishing is disabled.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }
