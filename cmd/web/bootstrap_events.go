package main

import (
	"context"
	"time"

	"go.uber.org/zap"

	config "github.com/NordCoder/Deadswitch/internal/config/web"
	"github.com/NordCoder/Deadswitch/internal/domain/events"
	"github.com/NordCoder/Deadswitch/internal/repository/kafka"
)

// initEvents returns a no-op publisher unless events are enabled.
func initEvents(ctx context.Context, cfg *config.Config, logger *zap.Logger) (events.Publisher, func()) {
	if !cfg.Events.Enable {
		logger.Info("activity events disabled")
		return events.Nop{}, func() {}
	}

	ensureCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	producer := kafka.BootstrapProducer(ensureCtx, cfg.Events.Brokers, cfg.Events.Topic, logger)

	pub := kafka.NewSwitchEventsKafka(producer, logger)
	logger.Info("activity events enabled", zap.Strings("brokers", cfg.Events.Brokers), zap.String("topic", cfg.Events.Topic))
	return pub, func() {
		if err := pub.Close(); err != nil {
			logger.Warn("close event producer", zap.Error(err))
		}
	}
}
