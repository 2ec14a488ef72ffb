package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/valescamoura/hkgo/pkg/hk"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := New(&hk.Config{URL: server.URL, AuthToken: "test-token"})
	require.NoError(t, err)

	return client, server
}

func TestNew_Validation(t *testing.T) {
	_, err := New(nil)
	require.ErrorIs(t, err, hk.ErrConfigRequired)

	_, err = New(&hk.Config{})
	require.ErrorIs(t, err, hk.ErrURLRequired)
}

func TestClient_ListRepositories(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/repository", r.URL.Path)
		assert.Equal(t, "GET", r.Method)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))

		_ = json.NewEncoder(w).Encode([]string{"alpha", "beta"})
	}))

	names, err := client.ListRepositories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "beta"}, names)
}

func TestClient_ListRepositories_WrapsDecodeError(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not json"))
	}))

	_, err := client.ListRepositories(context.Background())
	require.Error(t, err)

	clientErr := &hk.ClientError{}
	require.True(t, errors.As(err, &clientErr))
	assert.Equal(t, "could not retrieve existing repositories", clientErr.Message)
	assert.Error(t, clientErr.Err) // cause retained
}

func TestClient_ConnectRepository(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode([]string{"alpha", "beta"})
	}))

	repo, err := client.ConnectRepository(context.Background(), "alpha")
	require.NoError(t, err)
	assert.Equal(t, "alpha", repo.Name())

	_, err = client.ConnectRepository(context.Background(), "missing")
	require.ErrorIs(t, err, hk.ErrRepositoryNotConnected)
}

func TestClient_CreateRepository(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/repository/new-repo/", r.URL.Path)
		assert.Equal(t, "PUT", r.Method)
		w.WriteHeader(http.StatusCreated)
	}))

	repo, err := client.CreateRepository(context.Background(), "new-repo")
	require.NoError(t, err)
	assert.Equal(t, "new-repo", repo.Name())
}

func TestClient_CreateRepository_ServerError(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "repository already exists"})
	}))

	_, err := client.CreateRepository(context.Background(), "dup")
	require.Error(t, err)

	// Server-reported errors propagate unchanged.
	apiErr := &hk.APIError{}
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusConflict, apiErr.StatusCode)
	assert.Equal(t, "repository already exists", apiErr.Detail)
}

func TestClient_DeleteRepository(t *testing.T) {
	deleted := false

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/repository/old-repo/", r.URL.Path)
		assert.Equal(t, "DELETE", r.Method)

		deleted = true
	}))

	err := client.DeleteRepository(context.Background(), "old-repo")
	require.NoError(t, err)
	assert.True(t, deleted)
}

func TestClient_DeleteCreateRepository(t *testing.T) {
	var (
		mu    sync.Mutex
		calls []string
	)

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		calls = append(calls, r.Method+" "+r.URL.Path)
		puts := 0

		for _, call := range calls {
			if call == "PUT /v2/repository/test/" {
				puts++
			}
		}
		mu.Unlock()

		if r.Method == "PUT" && puts == 1 {
			// First create is rejected: the repository already exists.
			w.WriteHeader(http.StatusConflict)
			_ = json.NewEncoder(w).Encode(map[string]string{"message": "repository already exists"})

			return
		}

		w.WriteHeader(http.StatusOK)
	}))

	repo, err := client.DeleteCreateRepository(context.Background(), "test")
	require.NoError(t, err)
	assert.Equal(t, "test", repo.Name())

	// Destructive retry: failed create, then delete, then create again.
	assert.Equal(t, []string{
		"PUT /v2/repository/test/",
		"DELETE /v2/repository/test/",
		"PUT /v2/repository/test/",
	}, calls)
}

func TestClient_GetRepositories(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode([]string{"alpha", "beta"})
	}))

	repos, err := client.GetRepositories(context.Background())
	require.NoError(t, err)
	require.Len(t, repos, 2)
	assert.Equal(t, "alpha", repos[0].Name())
	assert.Equal(t, "beta", repos[1].Name())
}

func TestClient_Observer_Validation(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	_, err := client.Observer("repo", &hk.ObserverConfig{Type: hk.ObserverTypeNATS})
	require.ErrorIs(t, err, hk.ErrNATSConfigRequired)

	_, err = client.Observer("repo", &hk.ObserverConfig{Type: "carrier-pigeon"})
	require.ErrorIs(t, err, hk.ErrUnsupportedObserver)

	observer, err := client.Observer("repo", nil)
	require.NoError(t, err)
	assert.NotNil(t, observer)
}
