package switchctl_config

import (
	"time"

	"github.com/NordCoder/Deadswitch/internal/obs"
)

type Backend struct {
	BaseURL   string        `mapstructure:"base_url"`
	Timeout   time.Duration `mapstructure:"timeout"`
	UserAgent string        `mapstructure:"user_agent"`
	VerifyTLS bool          `mapstructure:"verify_tls"`
}

type Events struct {
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"`
	GroupID string   `mapstructure:"group_id"`
}

type Log struct {
	Level  string `mapstructure:"level"`
	Pretty bool   `mapstructure:"pretty"`
}

type Config struct {
	Email   string  `mapstructure:"email"`
	Backend Backend `mapstructure:"backend"`
	Events  Events  `mapstructure:"events"`
	Log     Log     `mapstructure:"log"`
}

// AsLoggerConfig logs to stderr so command output stays clean on stdout.
func (c *Config) AsLoggerConfig() obs.LogConfig {
	return obs.LogConfig{
		Level:  c.Log.Level,
		Pretty: c.Log.Pretty,
		App:    "deadswitch/switchctl",
		Output: "stderr",
	}
}
