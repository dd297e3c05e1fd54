package kafka

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/NordCoder/Deadswitch/internal/domain/events"
	"github.com/NordCoder/Deadswitch/internal/obs/retry"
)

type SwitchEventsKafka struct {
	p      *Producer
	policy retry.Policy
}

func NewSwitchEventsKafka(p *Producer, log *zap.Logger) *SwitchEventsKafka {
	return &SwitchEventsKafka{p: p, policy: retry.EventPublishPolicy(log)}
}

var _ events.Publisher = (*SwitchEventsKafka)(nil)

// Publish keys messages by switch id so events of one switch stay ordered within a partition.
func (e *SwitchEventsKafka) Publish(ctx context.Context, ev events.Event) error {
	if ev.ID == "" {
		ev.ID = uuid.NewString()
	}
	if ev.At.IsZero() {
		ev.At = time.Now().UTC()
	}
	return retry.Do(ctx, func() error {
		return e.p.PublishJSON(ctx, []byte(ev.SwitchID), ev)
	}, e.policy)
}

func (e *SwitchEventsKafka) Close() error { return e.p.Close() }
