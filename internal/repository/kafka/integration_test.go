//go:build integration

package kafka

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/NordCoder/Deadswitch/internal/domain/events"
)

func brokersFromEnv(t *testing.T) []string {
	t.Helper()
	v := os.Getenv("KAFKA_BOOTSTRAP")
	if v == "" {
		t.Skip("KAFKA_BOOTSTRAP not set")
	}
	return strings.Split(v, ",")
}

func TestSwitchEvents_PublishThenConsume(t *testing.T) {
	brokers := brokersFromEnv(t)
	log := zaptest.NewLogger(t)
	topic := "deadswitch.it." + uuid.NewString()

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	pub := NewSwitchEventsKafka(BootstrapProducer(ctx, brokers, topic, log), log)
	defer func() { _ = pub.Close() }()

	want := events.Event{Type: events.SwitchCheckedIn, SwitchID: "s-" + uuid.NewString(), Name: "Heartbeat"}
	require.NoError(t, pub.Publish(ctx, want))

	consumer := BootstrapConsumer(ctx, &ConsumerConfig{
		Brokers:       brokers,
		GroupID:       "it-" + uuid.NewString(),
		Topic:         topic,
		FromBeginning: true,
		Logger:        log,
	}, log)
	defer func() { _ = consumer.Close() }()

	got := make(chan events.Event, 1)
	cctx, stop := context.WithCancel(ctx)
	go func() {
		_ = consumer.Consume(cctx, JSONHandler(func(_ context.Context, key []byte, e *events.Event) error {
			assert.Equal(t, want.SwitchID, string(key))
			select {
			case got <- *e:
			default:
			}
			return nil
		}))
	}()
	defer stop()

	select {
	case e := <-got:
		assert.Equal(t, want.Type, e.Type)
		assert.Equal(t, want.SwitchID, e.SwitchID)
		assert.Equal(t, want.Name, e.Name)
		assert.NotEmpty(t, e.ID)
		assert.False(t, e.At.IsZero())
	case <-ctx.Done():
		t.Fatal("event not consumed before deadline")
	}
}
