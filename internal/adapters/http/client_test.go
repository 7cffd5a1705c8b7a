package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskmaster/kanban/internal/domain/entities"
)

type recorded struct {
	method string
	path   string
	query  string
	header http.Header
	body   []byte
}

// newTestServer answers every request with status and body and records what it received
func newTestServer(t *testing.T, status int, body string) (*httptest.Server, *[]recorded) {
	t.Helper()
	var calls []recorded
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		calls = append(calls, recorded{
			method: r.Method,
			path:   r.URL.Path,
			query:  r.URL.RawQuery,
			header: r.Header.Clone(),
			body:   raw,
		})
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func TestClient_SetsHeaders(t *testing.T) {
	srv, calls := newTestServer(t, http.StatusOK, `{"id":1}`)
	client := NewClient(srv.URL + "/")

	var out struct {
		ID int64 `json:"id"`
	}
	err := client.Do(context.Background(), Request{Path: "/api/boards", Token: "T1"}, &out)
	require.NoError(t, err)
	assert.Equal(t, int64(1), out.ID)

	require.Len(t, *calls, 1)
	call := (*calls)[0]
	assert.Equal(t, http.MethodGet, call.method)
	assert.Equal(t, "/api/boards", call.path)
	assert.Equal(t, "application/json", call.header.Get("Content-Type"))
	assert.Equal(t, "application/json", call.header.Get("Accept"))
	assert.Equal(t, "Bearer T1", call.header.Get("Authorization"))
	assert.NotEmpty(t, call.header.Get("X-Request-ID"))
}

func TestClient_NoTokenNoAuthorization(t *testing.T) {
	srv, calls := newTestServer(t, http.StatusOK, `{}`)
	client := NewClient(srv.URL)

	require.NoError(t, client.Do(context.Background(), Request{Method: http.MethodPost, Path: "/api/login", Body: map[string]string{"email": "a@b.com"}}, nil))

	call := (*calls)[0]
	assert.Empty(t, call.header.Get("Authorization"))
	assert.JSONEq(t, `{"email":"a@b.com"}`, string(call.body))
}

func TestClient_ErrorBodies(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		message string
	}{
		{name: "error field", status: http.StatusBadRequest, body: `{"error":"bad"}`, message: "bad"},
		{name: "message field", status: http.StatusConflict, body: `{"message":"taken"}`, message: "taken"},
		{name: "error preferred", status: http.StatusBadRequest, body: `{"error":"e","message":"m"}`, message: "e"},
		{name: "unparsable", status: http.StatusInternalServerError, body: `<html>oops</html>`, message: "HTTP 500"},
		{name: "empty", status: http.StatusNotFound, body: ``, message: "HTTP 404"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _ := newTestServer(t, tt.status, tt.body)
			client := NewClient(srv.URL)

			err := client.Do(context.Background(), Request{Path: "/api/boards"}, nil)
			require.Error(t, err)

			var apiErr *entities.APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tt.status, apiErr.StatusCode)
			assert.Equal(t, tt.message, apiErr.Message)
			assert.Equal(t, tt.message, err.Error())
		})
	}
}

func TestClient_SuccessWithoutUsableBody(t *testing.T) {
	for _, body := range []string{``, `not json`} {
		srv, _ := newTestServer(t, http.StatusOK, body)
		client := NewClient(srv.URL)

		out := []int{1, 2}
		err := client.Do(context.Background(), Request{Path: "/api/tasks"}, &out)
		require.NoError(t, err)
		if body == "" {
			assert.Equal(t, []int{1, 2}, out)
		} else {
			assert.Nil(t, out)
		}
	}
}

func TestClient_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	client := NewClient(url)
	err := client.Do(context.Background(), Request{Path: "/api/boards"}, nil)
	require.Error(t, err)

	var transportErr *entities.TransportError
	assert.True(t, errors.As(err, &transportErr))
	assert.Equal(t, http.MethodGet, transportErr.Method)
}

func TestClient_Metrics(t *testing.T) {
	srv, _ := newTestServer(t, http.StatusNotFound, `{"error":"Board not found"}`)
	metrics := NewMetrics()
	client := NewClient(srv.URL, WithMetrics(metrics))

	_ = client.Do(context.Background(), Request{Path: "/api/boards/1"}, nil)
	_ = client.Do(context.Background(), Request{Path: "/api/boards/2"}, nil)

	var buf bytes.Buffer
	require.NoError(t, metrics.WriteSummary(&buf))
	assert.Equal(t, "kanban_client_requests_total{method=GET,status=404} 2\n", buf.String())
}

func TestClient_QueryEncoding(t *testing.T) {
	srv, calls := newTestServer(t, http.StatusOK, `[]`)
	client := NewClient(srv.URL)

	var out []json.RawMessage
	require.NoError(t, client.Do(context.Background(), Request{Path: "/api/tasks", Query: map[string][]string{"board_id": {"3"}}}, &out))
	assert.Equal(t, "board_id=3", (*calls)[0].query)
}
