package hkclient_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/valescamoura/hkgo/pkg/hk"
	"github.com/valescamoura/hkgo/pkg/hkclient"
)

func TestNew_Validation(t *testing.T) {
	_, err := hkclient.New(nil)
	require.ErrorIs(t, err, hk.ErrConfigRequired)

	_, err = hkclient.New(&hk.Config{})
	require.ErrorIs(t, err, hk.ErrURLRequired)
}

func TestNew_NormalizesURL(t *testing.T) {
	config := &hk.Config{URL: "hkbase.example.com/"}

	_, err := hkclient.New(config)
	require.NoError(t, err)
	assert.Equal(t, "https://hkbase.example.com", config.URL)
}

func TestNew_TrimsTrailingSlash(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/repository", r.URL.Path)
		_ = json.NewEncoder(w).Encode([]string{"alpha"})
	}))
	defer server.Close()

	client, err := hkclient.New(&hk.Config{URL: server.URL + "/"})
	require.NoError(t, err)

	names, err := client.ListRepositories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha"}, names)
}

func TestNew_CustomAPIVersion(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v3/repository", r.URL.Path)
		_ = json.NewEncoder(w).Encode([]string{})
	}))
	defer server.Close()

	client, err := hkclient.New(&hk.Config{URL: server.URL, APIVersion: "v3"})
	require.NoError(t, err)

	_, err = client.ListRepositories(context.Background())
	require.NoError(t, err)
}
