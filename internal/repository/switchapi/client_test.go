package switchapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NordCoder/Deadswitch/internal/domain/switches"
)

type recorded struct {
	method  string
	path    string
	rawPath string
	body    []byte
	header  http.Header
}

func newBackend(t *testing.T, status int, respBody string) (*Client, func() []recorded) {
	t.Helper()
	var (
		mu    sync.Mutex
		calls []recorded
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		mu.Lock()
		defer mu.Unlock()
		calls = append(calls, recorded{
			method:  r.Method,
			path:    r.URL.Path,
			rawPath: r.URL.EscapedPath(),
			body:    b,
			header:  r.Header.Clone(),
		})
		if respBody != "" {
			w.Header().Set("Content-Type", "application/json")
		}
		w.WriteHeader(status)
		_, _ = io.WriteString(w, respBody)
	}))
	t.Cleanup(srv.Close)

	c, err := New(Config{BaseURL: srv.URL + "/", Timeout: 2 * time.Second, UserAgent: "deadswitch-test"}, nil)
	require.NoError(t, err)
	return c, func() []recorded {
		mu.Lock()
		defer mu.Unlock()
		return append([]recorded(nil), calls...)
	}
}

const heartbeat = `{"id":"sw-1","user_email":"ana@example.com","name":"Heartbeat","content":"release notes","interval":7,"expiration_datetime":"2026-10-23T09:30:00","is_active":true}`

func TestClient_Create_SendsContractBody(t *testing.T) {
	c, calls := newBackend(t, http.StatusCreated, heartbeat)

	sw, err := c.Create(context.Background(), switches.CreateInput{
		UserEmail: "ana@example.com", Name: "Heartbeat", Content: "release notes", Interval: 7,
	})
	require.NoError(t, err)
	require.Len(t, calls(), 1)

	call := calls()[0]
	assert.Equal(t, http.MethodPost, call.method)
	assert.Equal(t, "/switches", call.path)
	assert.Equal(t, "application/json", call.header.Get("Content-Type"))
	assert.Equal(t, "application/json", call.header.Get("Accept"))
	assert.Equal(t, "deadswitch-test", call.header.Get("User-Agent"))
	assert.JSONEq(t, `{"user_email":"ana@example.com","name":"Heartbeat","content":"release notes","interval":7}`, string(call.body))

	assert.Equal(t, "sw-1", sw.ID)
	assert.Equal(t, 7, sw.Interval)
}

func TestClient_Update_PathAndBody(t *testing.T) {
	c, calls := newBackend(t, http.StatusOK, heartbeat)

	_, err := c.Update(context.Background(), "sw-1", switches.UpdateInput{
		Name: "Heartbeat", Content: "release notes", Interval: 3, IsActive: false,
	})
	require.NoError(t, err)

	call := calls()[0]
	assert.Equal(t, http.MethodPost, call.method)
	assert.Equal(t, "/switches/update/sw-1", call.path)
	assert.JSONEq(t, `{"name":"Heartbeat","content":"release notes","interval":3,"is_active":false}`, string(call.body))
}

func TestClient_Checkin_EmptyBodyGivesNilSwitch(t *testing.T) {
	c, calls := newBackend(t, http.StatusOK, "")

	sw, err := c.Checkin(context.Background(), "sw-1")
	require.NoError(t, err)
	assert.Nil(t, sw)

	call := calls()[0]
	assert.Equal(t, http.MethodPost, call.method)
	assert.Equal(t, "/switches/checkin/sw-1", call.path)
	assert.Empty(t, call.body)
	assert.Empty(t, call.header.Get("Content-Type"))
}

func TestClient_Checkin_DecodesSwitch(t *testing.T) {
	c, _ := newBackend(t, http.StatusOK, heartbeat)

	sw, err := c.Checkin(context.Background(), "sw-1")
	require.NoError(t, err)
	require.NotNil(t, sw)
	assert.Equal(t, "Heartbeat", sw.Name)
}

func TestClient_Delete_EscapesID(t *testing.T) {
	c, calls := newBackend(t, http.StatusNoContent, "")

	require.NoError(t, c.Delete(context.Background(), "a/b c"))

	call := calls()[0]
	assert.Equal(t, http.MethodDelete, call.method)
	assert.Equal(t, "/switches/a%2Fb%20c", call.rawPath)
}

func TestClient_List(t *testing.T) {
	t.Run("envelope", func(t *testing.T) {
		c, calls := newBackend(t, http.StatusOK, `{"switches":[`+heartbeat+`]}`)
		got, err := c.ListByOwner(context.Background(), "ana@example.com")
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "/switches/list", calls()[0].path)
		assert.JSONEq(t, `{"user_email":"ana@example.com"}`, string(calls()[0].body))
	})
	t.Run("bare array", func(t *testing.T) {
		c, _ := newBackend(t, http.StatusOK, `[`+heartbeat+`]`)
		got, err := c.ListByOwner(context.Background(), "ana@example.com")
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "Heartbeat", got[0].Name)
	})
}

func TestClient_BackendRejection(t *testing.T) {
	cases := []struct {
		name    string
		status  int
		body    string
		message string
		user    string
	}{
		{"message field", http.StatusBadRequest, `{"message":"name already exists"}`, "name already exists", "name already exists"},
		{"empty message", http.StatusBadRequest, `{"message":""}`, "", "Failed to create switch"},
		{"non-string message", http.StatusConflict, `{"message":42}`, "", "Failed to create switch"},
		{"detail only", http.StatusNotFound, `{"detail":"Switch not found"}`, "", "Failed to create switch"},
		{"html body", http.StatusBadGateway, `<html>bad gateway</html>`, "", "Failed to create switch"},
		{"no body", http.StatusInternalServerError, ``, "", "Failed to create switch"},
		{"redirect", http.StatusFound, ``, "", "Failed to create switch"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, _ := newBackend(t, tc.status, tc.body)
			_, err := c.Create(context.Background(), switches.CreateInput{UserEmail: "a@b.co", Name: "n", Content: "c", Interval: 1})

			var apiErr *APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, OpCreate, apiErr.Op)
			assert.Equal(t, tc.status, apiErr.Status)
			assert.Equal(t, tc.message, apiErr.Message)
			assert.Equal(t, tc.user, apiErr.UserMessage())
		})
	}
}

func TestClient_FallbackPerOperation(t *testing.T) {
	c, _ := newBackend(t, http.StatusInternalServerError, "")
	ctx := context.Background()

	_, err := c.Update(ctx, "x", switches.UpdateInput{})
	assert.Equal(t, "Failed to update switch", err.(*APIError).UserMessage())
	_, err = c.Checkin(ctx, "x")
	assert.Equal(t, "Failed to checkin switch", err.(*APIError).UserMessage())
	err = c.Delete(ctx, "x")
	assert.Equal(t, "Failed to delete switch", err.(*APIError).UserMessage())
	_, err = c.ListByOwner(ctx, "a@b.co")
	assert.Equal(t, "Failed to load switches", err.(*APIError).UserMessage())
	_, err = c.GetByID(ctx, "x")
	assert.Equal(t, "Failed to load switch", err.(*APIError).UserMessage())
	assert.True(t, IsNotFound(&APIError{Op: OpGet, Status: http.StatusNotFound}))
}

func TestClient_MutationsAcceptPlainTextSuccess(t *testing.T) {
	ctx := context.Background()

	t.Run("create 201 created", func(t *testing.T) {
		c, calls := newBackend(t, http.StatusCreated, "created")
		sw, err := c.Create(ctx, switches.CreateInput{UserEmail: "ana@example.com", Name: "Heartbeat", Content: "release notes", Interval: 7})
		require.NoError(t, err)
		assert.Nil(t, sw)
		assert.Len(t, calls(), 1)
	})

	t.Run("checkin 200 OK", func(t *testing.T) {
		c, _ := newBackend(t, http.StatusOK, "OK")
		sw, err := c.Checkin(ctx, "sw-1")
		require.NoError(t, err)
		assert.Nil(t, sw)
	})

	t.Run("checkin string body", func(t *testing.T) {
		c, _ := newBackend(t, http.StatusOK, `"checked in"`)
		sw, err := c.Checkin(ctx, "sw-1")
		require.NoError(t, err)
		assert.Nil(t, sw)
	})

	t.Run("delete 200 deleted", func(t *testing.T) {
		c, _ := newBackend(t, http.StatusOK, "deleted")
		require.NoError(t, c.Delete(ctx, "sw-1"))
	})
}

func TestClient_TransportErrors(t *testing.T) {
	t.Run("undecodable success body", func(t *testing.T) {
		c, _ := newBackend(t, http.StatusOK, `{"id":`)
		_, err := c.GetByID(context.Background(), "sw-1")
		var te *TransportError
		require.ErrorAs(t, err, &te)
		assert.Equal(t, OpGet, te.Op)
	})

	t.Run("connection refused", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		base := srv.URL
		srv.Close()

		c, err := New(Config{BaseURL: base, Timeout: time.Second}, nil)
		require.NoError(t, err)
		err = c.Delete(context.Background(), "sw-1")
		var te *TransportError
		require.ErrorAs(t, err, &te)
		assert.Equal(t, OpDelete, te.Op)
	})

	t.Run("cancelled context", func(t *testing.T) {
		c, calls := newBackend(t, http.StatusOK, heartbeat)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := c.Checkin(ctx, "sw-1")
		require.True(t, errors.Is(err, context.Canceled))
		assert.Empty(t, calls())
	})
}

func TestNew_RejectsRelativeBaseURL(t *testing.T) {
	for _, base := range []string{"", "/api", "ftp://example.com", "localhost:8000"} {
		_, err := New(Config{BaseURL: base}, nil)
		assert.Error(t, err, base)
	}
}

func TestErrorMessage(t *testing.T) {
	assert.Equal(t, "boom", errorMessage([]byte(`{"message":"boom","code":1}`)))
	assert.Empty(t, errorMessage([]byte(`["message"]`)))
	assert.Empty(t, errorMessage(nil))

	b, err := json.Marshal(map[string]string{"message": "ünïcode"})
	require.NoError(t, err)
	assert.Equal(t, "ünïcode", errorMessage(b))
}
