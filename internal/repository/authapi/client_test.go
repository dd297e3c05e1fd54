package authapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignOut_SendsProviderHeaders(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/auth/v1/logout", r.URL.Path)
		assert.Equal(t, "anon-key", r.Header.Get("apikey"))
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := New(Config{ProviderURL: srv.URL + "/", APIKey: "anon-key"}, nil)
	require.NoError(t, c.SignOut(context.Background(), "tok"))
	assert.EqualValues(t, 1, hits.Load())
}

func TestSignOut_StatusHandling(t *testing.T) {
	for status, wantErr := range map[int]bool{
		http.StatusOK:                  false,
		http.StatusUnauthorized:        false,
		http.StatusForbidden:           true,
		http.StatusInternalServerError: true,
	} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(status)
		}))
		err := New(Config{ProviderURL: srv.URL}, nil).SignOut(context.Background(), "tok")
		srv.Close()
		if wantErr {
			assert.Error(t, err, status)
		} else {
			assert.NoError(t, err, status)
		}
	}
}

func TestSignOut_NoopWithoutProviderOrToken(t *testing.T) {
	assert.NoError(t, New(Config{}, nil).SignOut(context.Background(), "tok"))
	assert.NoError(t, New(Config{ProviderURL: "http://127.0.0.1:1"}, nil).SignOut(context.Background(), ""))
}
