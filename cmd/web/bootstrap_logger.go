package main

import (
	"go.uber.org/zap"

	config "github.com/NordCoder/Deadswitch/internal/config/web"
	"github.com/NordCoder/Deadswitch/internal/obs"
)

func initLogger(cfg *config.Config) (*zap.Logger, error) {
	l, err := obs.NewLogger(cfg.AsLoggerConfig())
	if err != nil {
		return nil, err
	}
	zap.ReplaceGlobals(l)
	return l, nil
}
