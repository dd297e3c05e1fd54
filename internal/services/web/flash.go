package web

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
)

const flashCookie = "ds-flash"

func (s *Server) setFlash(w http.ResponseWriter, n *notice) {
	b, err := json.Marshal(n)
	if err != nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Value:    base64.RawURLEncoding.EncodeToString(b),
		Path:     "/",
		MaxAge:   60,
		HttpOnly: true,
		Secure:   s.cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

// popFlash returns the pending notice, if any, and clears it.
func (s *Server) popFlash(w http.ResponseWriter, r *http.Request) *notice {
	c, err := r.Cookie(flashCookie)
	if err != nil {
		return nil
	}
	clearCookie(w, flashCookie, s.cfg.CookieSecure)

	raw, err := base64.RawURLEncoding.DecodeString(c.Value)
	if err != nil {
		return nil
	}
	var n notice
	if err := json.Unmarshal(raw, &n); err != nil || n.Text == "" {
		return nil
	}
	if n.Level != "error" {
		n.Level = "info"
	}
	return &n
}

func clearCookie(w http.ResponseWriter, name string, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}
