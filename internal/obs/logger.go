package obs

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type LogConfig struct {
	Level  string
	Pretty bool
	App    string
	Env    string
	Ver    string
	// Output is a zap sink ("stdout", "stderr" or a file path). Empty means stderr.
	Output string
}

func NewLogger(c LogConfig) (*zap.Logger, error) {
	var cfg zap.Config
	if c.Pretty {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(ParseLevel(c.Level))
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if c.Output != "" {
		cfg.OutputPaths = []string{c.Output}
	}

	fields := []zap.Field{zap.String("service", c.App)}
	if c.Env != "" {
		fields = append(fields, zap.String("env", c.Env))
	}
	if c.Ver != "" {
		fields = append(fields, zap.String("version", c.Ver))
	}

	l, err := cfg.Build(zap.Fields(fields...))
	if err != nil {
		return nil, err
	}
	return l, nil
}

// ParseLevel falls back to info for unknown or empty levels.
func ParseLevel(s string) zapcore.Level {
	level := new(zapcore.Level)
	if err := level.Set(s); err != nil {
		return zapcore.InfoLevel
	}
	return *level
}
