package web

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/NordCoder/Deadswitch/internal/auth"
	"github.com/NordCoder/Deadswitch/internal/obs"
)

const requestIDHeader = "X-Request-ID"

var _ http.ResponseWriter = &loggingResponseWriter{}

type loggingResponseWriter struct {
	http.ResponseWriter
	HTTPStatus   int
	ResponseSize int
}

func (w *loggingResponseWriter) WriteHeader(status int) {
	if w.HTTPStatus == 0 {
		w.HTTPStatus = status
	}
	w.ResponseWriter.WriteHeader(status)
}

func (w *loggingResponseWriter) Flush() {
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (w *loggingResponseWriter) Write(b []byte) (int, error) {
	if w.HTTPStatus == 0 {
		w.HTTPStatus = http.StatusOK
	}
	n, err := w.ResponseWriter.Write(b)
	w.ResponseSize += n
	if err != nil {
		return n, fmt.Errorf("write response: %w", err)
	}
	return n, nil
}

type requestIDKey struct{}

func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// accessLog tags every request with an id, recovers panics and writes one log line per request.
func (s *Server) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		id := r.Header.Get(requestIDHeader)
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		r = r.WithContext(context.WithValue(r.Context(), requestIDKey{}, id))

		lw := &loggingResponseWriter{ResponseWriter: w}
		host, _, _ := net.SplitHostPort(r.RemoteAddr)
		log := obs.WithTrace(r.Context(), s.log).With(zap.String("request_id", id))

		defer func() {
			if rec := recover(); rec != nil {
				log.Error("panic in handler", zap.Any("panic", rec), zap.Stack("stack"))
				if lw.HTTPStatus == 0 {
					http.Error(lw, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				}
			}
			log.Info("http request",
				zap.String("remote", host),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", lw.HTTPStatus),
				zap.Int("bytes", lw.ResponseSize),
				zap.Duration("duration", time.Since(start)),
				zap.String("user_agent", r.UserAgent()),
			)
		}()

		next.ServeHTTP(lw, r)
	})
}

// requireSession resolves the owner from the access cookie or sends the caller to sign in.
func (s *Server) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var token, refresh string
		if c, err := r.Cookie(s.cfg.AccessCookie); err == nil {
			token = c.Value
		}
		if c, err := r.Cookie(s.cfg.RefreshCookie); err == nil {
			refresh = c.Value
		}

		email, err := s.verifier.Verify(token)
		if err != nil {
			obs.WithTrace(r.Context(), s.log).Info("session rejected",
				zap.String("path", r.URL.Path), zap.String("request_id", RequestID(r.Context())), zap.Error(err))
			s.redirect(w, r, s.cfg.SignInPath)
			return
		}

		ctx := auth.WithSession(r.Context(), &auth.Session{Email: email, AccessToken: token, RefreshToken: refresh})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func isHTMX(r *http.Request) bool { return r.Header.Get("HX-Request") == "true" }

// redirect navigates the browser; htmx requests get HX-Redirect instead of a 303.
func (s *Server) redirect(w http.ResponseWriter, r *http.Request, location string) {
	if isHTMX(r) {
		w.Header().Set("HX-Redirect", location)
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, location, http.StatusSeeOther)
}
