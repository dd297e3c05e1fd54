package switchctl_config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const EnvPrefix = "SWITCHCTL"

var ErrBackendURL = errors.New("backend URL must be an absolute http(s) URL")

// flagKeys maps persistent flags onto config keys.
var flagKeys = map[string]string{
	"backend":   "backend.base_url",
	"timeout":   "backend.timeout",
	"email":     "email",
	"brokers":   "events.brokers",
	"topic":     "events.topic",
	"group":     "events.group_id",
	"log-level": "log.level",
}

// Load merges, lowest first: defaults, the config file ($HOME/.switchctl.yaml when path is empty),
// SWITCHCTL_* environment, then flags that were set explicitly.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	if path == "" {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, ".switchctl.yaml")
		}
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	v.SetDefault("email", "")
	v.SetDefault("backend.base_url", "http://localhost:8000")
	v.SetDefault("backend.timeout", "10s")
	v.SetDefault("backend.user_agent", "deadswitch-switchctl")
	v.SetDefault("backend.verify_tls", true)
	v.SetDefault("events.brokers", []string{"localhost:9092"})
	v.SetDefault("events.topic", "deadswitch.switch-events")
	v.SetDefault("events.group_id", "")
	v.SetDefault("log.level", "warn")
	v.SetDefault("log.pretty", true)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	u, err := url.Parse(cfg.Backend.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrBackendURL, cfg.Backend.BaseURL)
	}
	return &cfg, nil
}
