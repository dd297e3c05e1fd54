package authapi

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/NordCoder/Deadswitch/internal/obs"
)

type Config struct {
	ProviderURL string
	APIKey      string
	Timeout     time.Duration
}

// Client calls the auth provider's logout endpoint.
type Client struct {
	base   string
	apiKey string
	hc     *http.Client
	log    *zap.Logger
}

func New(cfg Config, log *zap.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		base:   strings.TrimRight(cfg.ProviderURL, "/"),
		apiKey: cfg.APIKey,
		hc:     &http.Client{Timeout: timeout, Transport: obs.HTTPTransport(http.DefaultTransport)},
		log:    log.Named("authapi"),
	}
}

// SignOut revokes the session at the provider. It is a no-op without a provider URL or token.
// An already revoked token (401) counts as signed out.
func (c *Client) SignOut(ctx context.Context, accessToken string) error {
	if c.base == "" || accessToken == "" {
		return nil
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/auth/v1/logout", nil)
	if err != nil {
		return err
	}
	if c.apiKey != "" {
		req.Header.Set("apikey", c.apiKey)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.hc.Do(req)
	if err != nil {
		return fmt.Errorf("authapi logout: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))

	if resp.StatusCode/100 == 2 || resp.StatusCode == http.StatusUnauthorized {
		return nil
	}
	obs.WithTrace(ctx, c.log).Warn("provider logout rejected", zap.Int("status", resp.StatusCode))
	return fmt.Errorf("authapi logout: status %d", resp.StatusCode)
}
