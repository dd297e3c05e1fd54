package web_config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"strings"

	"github.com/spf13/viper"
)

const (
	ErrBackendURL ErrConfig = "backend.base_url must be an absolute http(s) URL"
	ErrNoBrokers  ErrConfig = "events.brokers is required when events.enable is set"
)

func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	v.SetDefault("app.name", "web")
	v.SetDefault("app.env", "dev")
	v.SetDefault("app.version", "")

	v.SetDefault("server.http_addr", ":8080")
	v.SetDefault("server.metrics_addr", ":9102")
	v.SetDefault("server.read_timeout", "5s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.idle_timeout", "60s")
	v.SetDefault("server.graceful_timeout", "15s")

	v.SetDefault("backend.base_url", "http://localhost:8000")
	v.SetDefault("backend.timeout", "10s")
	v.SetDefault("backend.user_agent", "deadswitch-web")
	v.SetDefault("backend.verify_tls", true)

	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.access_cookie", "sb-access-token")
	v.SetDefault("auth.refresh_cookie", "sb-refresh-token")
	v.SetDefault("auth.signin_path", "/signin")
	v.SetDefault("auth.provider_url", "")
	v.SetDefault("auth.provider_api_key", "")
	v.SetDefault("auth.cookie_secure", false)
	v.SetDefault("auth.insecure_dev_email", "")

	v.SetDefault("events.enable", false)
	v.SetDefault("events.brokers", []string{"localhost:9092"})
	v.SetDefault("events.topic", "deadswitch.switch-events")
	v.SetDefault("events.publish_timeout", "2s")

	v.SetDefault("otel.enable", false)
	v.SetDefault("otel.service_name", "deadswitch-web")
	v.SetDefault("otel.sample_ratio", 1.0)
	v.SetDefault("otel.otlp_endpoint", "localhost:4317")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	u, err := url.Parse(cfg.Backend.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, ErrBackendURL
	}
	if cfg.Events.Enable && len(cfg.Events.Brokers) == 0 {
		return nil, ErrNoBrokers
	}
	return &cfg, nil
}
