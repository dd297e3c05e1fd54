package switchapi

import (
	"crypto/tls"
	"net"
	"net/http"
	"time"

	"github.com/NordCoder/Deadswitch/internal/obs"
)

type Config struct {
	BaseURL   string
	Timeout   time.Duration
	UserAgent string
	VerifyTLS bool
}

// NewHTTPClient never follows redirects: a 3xx from the backend is reported as a failure.
func NewHTTPClient(cfg Config) *http.Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   timeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		TLSClientConfig: &tls.Config{
			InsecureSkipVerify: !cfg.VerifyTLS, //nolint:gosec
			MinVersion:         tls.VersionTLS12,
		},
	}

	return &http.Client{
		Timeout:   timeout,
		Transport: obs.HTTPTransport(transport),
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}
