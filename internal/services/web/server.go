package web

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/NordCoder/Deadswitch/internal/obs"
	"github.com/NordCoder/Deadswitch/internal/services/switches"
)

type Config struct {
	AccessCookie  string
	RefreshCookie string
	SignInPath    string
	CookieSecure  bool
}

func (c Config) withDefaults() Config {
	if c.AccessCookie == "" {
		c.AccessCookie = "sb-access-token"
	}
	if c.RefreshCookie == "" {
		c.RefreshCookie = "sb-refresh-token"
	}
	if c.SignInPath == "" {
		c.SignInPath = "/signin"
	}
	return c
}

type TokenVerifier interface {
	Verify(token string) (email string, err error)
}

type SignOuter interface {
	SignOut(ctx context.Context, accessToken string) error
}

type Server struct {
	cfg      Config
	uc       *switches.Usecase
	verifier TokenVerifier
	signOut  SignOuter
	log      *zap.Logger
	metrics  *obs.RouteMetrics
	pages    pages
	clk      func() time.Time
}

// New builds the front end. metrics may be nil.
func New(cfg Config, uc *switches.Usecase, verifier TokenVerifier, signOut SignOuter, metrics *obs.RouteMetrics, log *zap.Logger) (*Server, error) {
	p, err := loadPages()
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{
		cfg:      cfg.withDefaults(),
		uc:       uc,
		verifier: verifier,
		signOut:  signOut,
		log:      log.Named("web"),
		metrics:  metrics,
		pages:    p,
		clk:      func() time.Time { return time.Now().UTC() },
	}, nil
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	mux.Handle("GET /{$}", http.RedirectHandler(switches.ListLocation, http.StatusSeeOther))
	mux.Handle("GET /api/auth/signout", s.metrics.Wrap("/api/auth/signout", http.HandlerFunc(s.handleSignOut)))

	guarded := func(pattern, route string, h http.HandlerFunc) {
		mux.Handle(pattern, s.metrics.Wrap(route, s.requireSession(h)))
	}
	guarded("GET /switches", "/switches", s.handleList)
	guarded("GET /switches/new", "/switches/new", s.handleNew)
	guarded("POST /switches", "/switches", s.handleCreate)
	guarded("GET /switches/{id}", "/switches/:id", s.handleEdit)
	guarded("POST /switches/{id}", "/switches/:id", s.handleUpdate)
	guarded("POST /switches/{id}/checkin", "/switches/:id/checkin", s.handleCheckin)
	guarded("GET /switches/{id}/delete", "/switches/:id/delete", s.handleConfirmDelete)
	guarded("POST /switches/{id}/delete", "/switches/:id/delete", s.handleDelete)
	guarded("DELETE /switches/{id}", "/switches/:id", s.handleDelete)

	return obs.HTTPHandler(s.accessLog(mux), "web")
}
