package main

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/NordCoder/Deadswitch/internal/auth"
	config "github.com/NordCoder/Deadswitch/internal/config/web"
	"github.com/NordCoder/Deadswitch/internal/domain/events"
	"github.com/NordCoder/Deadswitch/internal/obs"
	"github.com/NordCoder/Deadswitch/internal/repository/authapi"
	"github.com/NordCoder/Deadswitch/internal/repository/switchapi"
	"github.com/NordCoder/Deadswitch/internal/services/switches"
	"github.com/NordCoder/Deadswitch/internal/services/web"
)

func buildHTTPServer(cfg *config.Config, logger *zap.Logger, pub events.Publisher) (*http.Server, error) {
	client, err := switchapi.New(switchapi.Config{
		BaseURL:   cfg.Backend.BaseURL,
		Timeout:   cfg.Backend.Timeout,
		UserAgent: cfg.Backend.UserAgent,
		VerifyTLS: cfg.Backend.VerifyTLS,
	}, logger)
	if err != nil {
		return nil, err
	}

	uc := switches.New(client, pub, logger, nil).WithPublishTimeout(cfg.Events.PublishTimeout)

	verifier := auth.NewVerifier(cfg.Auth.JWTSecret, cfg.Auth.InsecureDevEmail)
	switch {
	case verifier.DevMode():
		logger.Warn("auth.insecure_dev_email is set: every request acts as this user", zap.String("email", cfg.Auth.InsecureDevEmail))
	case cfg.Auth.JWTSecret == "":
		logger.Warn("auth.jwt_secret is empty: all sessions will be rejected")
	}

	provider := authapi.New(authapi.Config{
		ProviderURL: cfg.Auth.ProviderURL,
		APIKey:      cfg.Auth.ProviderAPIKey,
		Timeout:     cfg.Backend.Timeout,
	}, logger)

	srv, err := web.New(web.Config{
		AccessCookie:  cfg.Auth.AccessCookie,
		RefreshCookie: cfg.Auth.RefreshCookie,
		SignInPath:    cfg.Auth.SignInPath,
		CookieSecure:  cfg.Auth.CookieSecure,
	}, uc, verifier, provider, obs.NewRouteMetrics(), logger)
	if err != nil {
		return nil, err
	}

	return &http.Server{
		Addr:              cfg.Server.HTTPAddr,
		Handler:           srv.Handler(),
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}, nil
}

func serveHTTP(srv *http.Server, cfg *config.Config, logger *zap.Logger) error {
	logger.Info("http listening", zap.String("addr", cfg.Server.HTTPAddr))
	return srv.ListenAndServe()
}
