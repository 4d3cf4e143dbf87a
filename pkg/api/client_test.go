package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClient_POST(t *testing.T) {
	var received *http.Request
	var body map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		received = r
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"abc","count":1}`))
	}))
	defer server.Close()

	resp, err := NewGenerator(server.URL).
		New("/emails").
		Header("User-Agent", "test-agent").
		Body(JSON{"subject": "hello"}).
		POST(context.Background(), BearerAuth("key"))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.Code)

	require.Equal(t, http.MethodPost, received.Method)
	require.Equal(t, "/emails", received.URL.Path)
	require.Equal(t, "application/json", received.Header.Get("Content-Type"))
	require.Equal(t, "Bearer key", received.Header.Get("Authorization"))
	require.Equal(t, "test-agent", received.Header.Get("User-Agent"))
	require.Equal(t, "hello", body["subject"])

	result, err := resp.JSON()
	require.NoError(t, err)

	id, err := result.GetString("id")
	require.NoError(t, err)
	require.Equal(t, "abc", id)

	_, err = result.GetString("count")
	require.Error(t, err)
	_, err = result.GetString("missing")
	require.Error(t, err)
}

func TestClient_POST_RawBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream down"))
	}))
	defer server.Close()

	resp, err := NewGenerator(server.URL).New("/emails").POST(context.Background())
	require.NoError(t, err)
	require.Equal(t, http.StatusBadGateway, resp.Code)
	require.Equal(t, "upstream down", string(resp.RawBody))

	body, err := resp.JSON()
	require.NoError(t, err)
	require.Empty(t, body)
}

func TestClient_AllEndpointsFail(t *testing.T) {
	_, err := NewGenerator("http://127.0.0.1:1").New("/x").POST(context.Background())
	require.Error(t, err)
}
