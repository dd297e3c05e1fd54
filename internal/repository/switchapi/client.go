package switchapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"reflect"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/NordCoder/Deadswitch/internal/domain/switches"
	"github.com/NordCoder/Deadswitch/internal/obs"
)

const maxBody = 1 << 20

var _ switches.API = (*Client)(nil)

type Client struct {
	base      *url.URL
	hc        *http.Client
	userAgent string
	log       *zap.Logger
}

func New(cfg Config, log *zap.Logger) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("switchapi: parse base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" || u.Host == "" {
		return nil, fmt.Errorf("switchapi: base url must be absolute http(s), got %q", cfg.BaseURL)
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		base:      u,
		hc:        NewHTTPClient(cfg),
		userAgent: cfg.UserAgent,
		log:       log.Named("switchapi"),
	}, nil
}

// Create may return a nil switch: any 2xx counts as created, whatever its body.
func (c *Client) Create(ctx context.Context, in switches.CreateInput) (*switches.Switch, error) {
	var out *switches.Switch
	if err := c.do(ctx, OpCreate, http.MethodPost, "/switches", in, &out, bestEffort); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Update(ctx context.Context, id string, in switches.UpdateInput) (*switches.Switch, error) {
	var out switches.Switch
	if err := c.do(ctx, OpUpdate, http.MethodPost, "/switches/update/"+url.PathEscape(id), in, &out, strict); err != nil {
		return nil, err
	}
	return &out, nil
}

// Checkin may return a nil switch when the backend confirms without a usable body.
func (c *Client) Checkin(ctx context.Context, id string) (*switches.Switch, error) {
	var out *switches.Switch
	if err := c.do(ctx, OpCheckin, http.MethodPost, "/switches/checkin/"+url.PathEscape(id), nil, &out, bestEffort); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Delete(ctx context.Context, id string) error {
	return c.do(ctx, OpDelete, http.MethodDelete, "/switches/"+url.PathEscape(id), nil, nil, bestEffort)
}

type listRequest struct {
	UserEmail string `json:"user_email"`
}

type listResponse struct {
	Switches []*switches.Switch `json:"switches"`
}

// UnmarshalJSON also accepts a bare array.
func (r *listResponse) UnmarshalJSON(b []byte) error {
	if trimmed := bytes.TrimSpace(b); len(trimmed) > 0 && trimmed[0] == '[' {
		return json.Unmarshal(trimmed, &r.Switches)
	}
	type plain listResponse
	return json.Unmarshal(b, (*plain)(r))
}

func (c *Client) ListByOwner(ctx context.Context, email string) ([]*switches.Switch, error) {
	var out listResponse
	if err := c.do(ctx, OpList, http.MethodPost, "/switches/list", listRequest{UserEmail: email}, &out, strict); err != nil {
		return nil, err
	}
	return out.Switches, nil
}

func (c *Client) GetByID(ctx context.Context, id string) (*switches.Switch, error) {
	var out switches.Switch
	if err := c.do(ctx, OpGet, http.MethodGet, "/switches/"+url.PathEscape(id), nil, &out, strict); err != nil {
		return nil, err
	}
	return &out, nil
}

type decodeMode int

const (
	// strict turns an undecodable 2xx body into a TransportError.
	strict decodeMode = iota
	// bestEffort keeps the 2xx outcome and leaves out untouched when the body does not decode.
	bestEffort
)

// do performs one call. An empty 2xx body leaves out untouched.
func (c *Client) do(ctx context.Context, op Op, method, path string, in, out any, mode decodeMode) error {
	start := time.Now()
	status := 0
	defer func() { observe(op, status, start) }()

	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return &TransportError{Op: op, Err: fmt.Errorf("encode request: %w", err)}
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base.String()+path, body)
	if err != nil {
		return &TransportError{Op: op, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	log := obs.WithTrace(ctx, c.log).With(zap.String("op", string(op)), zap.String("method", method), zap.String("path", path))

	resp, err := c.hc.Do(req)
	if err != nil {
		log.Error("backend call failed", zap.Error(err))
		return &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()
	status = resp.StatusCode

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		log.Error("read backend response", zap.Int("status", status), zap.Error(err))
		return &TransportError{Op: op, Err: fmt.Errorf("read response: %w", err)}
	}

	if status < 200 || status > 299 {
		apiErr := &APIError{Op: op, Status: status, Message: errorMessage(raw)}
		log.Warn("backend rejected call", zap.Int("status", status), zap.String("message", apiErr.Message))
		return apiErr
	}

	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		if mode == bestEffort {
			log.Warn("ignoring undecodable success body", zap.Int("status", status), zap.Error(err))
			reflect.ValueOf(out).Elem().SetZero()
			return nil
		}
		log.Error("decode backend response", zap.Int("status", status), zap.Error(err))
		return &TransportError{Op: op, Err: fmt.Errorf("decode response: %w", err)}
	}
	log.Debug("backend call ok", zap.Int("status", status))
	return nil
}

// IsNotFound reports whether err is a backend 404.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}
