package web_config

import (
	"time"

	"github.com/NordCoder/Deadswitch/internal/obs"
)

type App struct {
	Name    string `mapstructure:"name"`
	Env     string `mapstructure:"env"`
	Version string `mapstructure:"version"`
}

type Server struct {
	HTTPAddr        string        `mapstructure:"http_addr"`
	MetricsAddr     string        `mapstructure:"metrics_addr"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	GracefulTimeout time.Duration `mapstructure:"graceful_timeout"`
}

type Backend struct {
	BaseURL   string        `mapstructure:"base_url"`
	Timeout   time.Duration `mapstructure:"timeout"`
	UserAgent string        `mapstructure:"user_agent"`
	VerifyTLS bool          `mapstructure:"verify_tls"`
}

type Auth struct {
	JWTSecret        string `mapstructure:"jwt_secret"`
	AccessCookie     string `mapstructure:"access_cookie"`
	RefreshCookie    string `mapstructure:"refresh_cookie"`
	SignInPath       string `mapstructure:"signin_path"`
	ProviderURL      string `mapstructure:"provider_url"`
	ProviderAPIKey   string `mapstructure:"provider_api_key"`
	CookieSecure     bool   `mapstructure:"cookie_secure"`
	InsecureDevEmail string `mapstructure:"insecure_dev_email"`
}

type Events struct {
	Enable         bool          `mapstructure:"enable"`
	Brokers        []string      `mapstructure:"brokers"`
	Topic          string        `mapstructure:"topic"`
	PublishTimeout time.Duration `mapstructure:"publish_timeout"`
}

type OTEL struct {
	Enable       bool    `mapstructure:"enable"`
	OTLPEndpoint string  `mapstructure:"otlp_endpoint"`
	ServiceName  string  `mapstructure:"service_name"`
	SampleRatio  float64 `mapstructure:"sample_ratio"`
}

func (oc *OTEL) AsOTELConfig() obs.OTELConfig {
	return obs.OTELConfig{
		Enable:      oc.Enable,
		Endpoint:    oc.OTLPEndpoint,
		ServiceName: oc.ServiceName,
		SampleRatio: oc.SampleRatio,
	}
}

type Log struct {
	Level  string `mapstructure:"level"`
	Pretty bool   `mapstructure:"pretty"`
}

func (c *Config) AsLoggerConfig() obs.LogConfig {
	return obs.LogConfig{
		Level:  c.Log.Level,
		Pretty: c.Log.Pretty,
		App:    "deadswitch/" + c.App.Name,
		Env:    c.App.Env,
		Ver:    c.App.Version,
	}
}

type Config struct {
	App     App     `mapstructure:"app"`
	Server  Server  `mapstructure:"server"`
	Backend Backend `mapstructure:"backend"`
	Auth    Auth    `mapstructure:"auth"`
	Events  Events  `mapstructure:"events"`
	OTEL    OTEL    `mapstructure:"otel"`
	Log     Log     `mapstructure:"log"`
}

type ErrConfig string

func (e ErrConfig) Error() string { return string(e) }
