package kafka

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

type TopicSpec struct {
	Name              string
	NumPartitions     int
	ReplicationFactor int
	MaxWait           time.Duration
}

var (
	ErrNoBrokers     = errors.New("kafka: no brokers configured")
	ErrTopicNotReady = errors.New("kafka: topic has no partitions yet")
)

func (s TopicSpec) withDefaults() TopicSpec {
	if s.NumPartitions <= 0 {
		s.NumPartitions = 1
	}
	if s.ReplicationFactor <= 0 {
		s.ReplicationFactor = 1
	}
	if s.MaxWait <= 0 {
		s.MaxWait = 5 * time.Second
	}
	return s
}

// EnsureTopic creates the topic through the cluster controller when missing and waits up to
// MaxWait for its partitions to show up. An existing topic is not an error.
func EnsureTopic(ctx context.Context, brokers []string, spec TopicSpec, log *zap.Logger) error {
	if len(brokers) == 0 {
		return ErrNoBrokers
	}
	if log == nil {
		log = zap.NewNop()
	}
	spec = spec.withDefaults()
	log = log.With(zap.String("topic", spec.Name))

	conn, err := kafka.DialContext(ctx, "tcp", brokers[0])
	if err != nil {
		log.Warn("kafka dial failed", zap.String("broker", brokers[0]), zap.Error(err))
		return err
	}
	defer conn.Close()

	if err := createTopic(ctx, conn, spec); err != nil {
		log.Debug("create topic skipped", zap.Error(err))
	}

	if err := waitPartitions(ctx, conn, spec); err != nil {
		log.Warn("topic not ready", zap.Duration("waited", spec.MaxWait), zap.Error(err))
		return err
	}
	log.Info("topic ready")
	return nil
}

func createTopic(ctx context.Context, conn *kafka.Conn, spec TopicSpec) error {
	ctrl, err := conn.Controller()
	if err != nil {
		return fmt.Errorf("find controller: %w", err)
	}
	cc, err := kafka.DialContext(ctx, "tcp", net.JoinHostPort(ctrl.Host, strconv.Itoa(ctrl.Port)))
	if err != nil {
		return fmt.Errorf("dial controller: %w", err)
	}
	defer cc.Close()

	return cc.CreateTopics(kafka.TopicConfig{
		Topic:             spec.Name,
		NumPartitions:     spec.NumPartitions,
		ReplicationFactor: spec.ReplicationFactor,
	})
}

func waitPartitions(ctx context.Context, conn *kafka.Conn, spec TopicSpec) error {
	ctx, cancel := context.WithTimeout(ctx, spec.MaxWait)
	defer cancel()

	tick := time.NewTicker(200 * time.Millisecond)
	defer tick.Stop()
	for {
		if ps, err := conn.ReadPartitions(spec.Name); err == nil && len(ps) > 0 {
			return nil
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("%w: %s", ErrTopicNotReady, spec.Name)
		case <-tick.C:
		}
	}
}
