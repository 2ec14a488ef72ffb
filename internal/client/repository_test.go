package client

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/valescamoura/hkgo/pkg/hk"
	"github.com/valescamoura/hkgo/pkg/hklib"
)

func newTestRepository(t *testing.T, handler http.Handler) *Repository {
	t.Helper()

	client, _ := newTestClient(t, handler)

	return client.newRepository("test")
}

func TestRepository_CreateTransaction(t *testing.T) {
	repo := newTestRepository(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	tx := repo.CreateTransaction("tx-1")
	assert.Equal(t, "tx-1", tx.ID)
	assert.Equal(t, "test", tx.Repository)

	generated := repo.CreateTransaction("")
	assert.NotEmpty(t, generated.ID)
	assert.Equal(t, "test", generated.Repository)
}

func TestRepository_AddEntities(t *testing.T) {
	repo := newTestRepository(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/repository/test/entity/", r.URL.Path)
		assert.Equal(t, "PUT", r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var payload []map[string]any

		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		require.Len(t, payload, 2)
		assert.Equal(t, "node", payload[0]["type"])
		assert.Equal(t, "n1", payload[0]["id"])
		assert.Equal(t, "n2", payload[1]["id"])
	}))

	err := repo.AddEntities(context.Background(), nil,
		&hklib.Node{ID: "n1"},
		map[string]any{"type": "node", "id": "n2"},
	)
	require.NoError(t, err)
}

func TestRepository_AddEntities_TransactionHeader(t *testing.T) {
	repo := newTestRepository(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "tx-42", r.Header.Get("transaction-id"))
	}))

	tx := repo.CreateTransaction("tx-42")
	err := repo.AddEntities(context.Background(), tx, &hklib.Node{ID: "n1"})
	require.NoError(t, err)
}

func TestRepository_AddEntities_InvalidType(t *testing.T) {
	called := false

	repo := newTestRepository(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	err := repo.AddEntities(context.Background(), nil, 42)
	require.ErrorIs(t, err, hk.ErrInvalidEntityType)
	assert.False(t, called) // caller errors never reach the server
}

func TestRepository_GetEntities_MapFilter(t *testing.T) {
	repo := newTestRepository(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/repository/test/entity", r.URL.Path)
		assert.Equal(t, "POST", r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		// The server keys the result by entity id.
		_ = json.NewEncoder(w).Encode(map[string]map[string]any{
			"n1": {"type": "node", "id": "n1"},
			"c1": {"type": "context", "id": "c1"},
		})
	}))

	entities, err := repo.GetEntities(context.Background(), map[string]any{})
	require.NoError(t, err)
	require.Len(t, entities, 2)

	ids := []string{entities[0].EntityID(), entities[1].EntityID()}
	assert.ElementsMatch(t, []string{"n1", "c1"}, ids)
}

func TestRepository_GetEntities_StringFilter(t *testing.T) {
	repo := newTestRepository(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "text/plain", r.Header.Get("Content-Type"))

		body, _ := io.ReadAll(r.Body)
		assert.Equal(t, "{css-filter}", string(body))

		_ = json.NewEncoder(w).Encode(map[string]map[string]any{})
	}))

	entities, err := repo.GetEntities(context.Background(), "{css-filter}")
	require.NoError(t, err)
	assert.Empty(t, entities)
}

func TestRepository_GetEntities_InvalidFilter(t *testing.T) {
	repo := newTestRepository(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	_, err := repo.GetEntities(context.Background(), 42)
	require.ErrorIs(t, err, hk.ErrInvalidFilterType)
}

func TestRepository_DeleteEntities(t *testing.T) {
	repo := newTestRepository(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/repository/test/entity/", r.URL.Path)
		assert.Equal(t, "DELETE", r.Method)

		var ids []string

		require.NoError(t, json.NewDecoder(r.Body).Decode(&ids))
		assert.Equal(t, []string{"n1", "n2"}, ids)
	}))

	// Entities are reduced to their ids, plain ids pass through.
	err := repo.DeleteEntities(context.Background(), nil, &hklib.Node{ID: "n1"}, "n2")
	require.NoError(t, err)
}

func TestRepository_DeleteEntities_InvalidType(t *testing.T) {
	repo := newTestRepository(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	err := repo.DeleteEntities(context.Background(), nil, 42)
	require.ErrorIs(t, err, hk.ErrInvalidIDType)
}

func TestRepository_UpdateEntities(t *testing.T) {
	var method, path string

	repo := newTestRepository(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method, path = r.Method, r.URL.Path
	}))

	err := repo.UpdateEntities(context.Background(), nil, &hklib.Node{ID: "n1"})
	require.NoError(t, err)

	// Update shares the add path: the server PUT is an idempotent upsert.
	assert.Equal(t, "PUT", method)
	assert.Equal(t, "/v2/repository/test/entity/", path)
}

func TestRepository_ImportData_AsHK(t *testing.T) {
	repo := newTestRepository(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Routed through the entity endpoint, not the RDF one.
		assert.Equal(t, "/v2/repository/test/entity/", r.URL.Path)
		assert.Equal(t, "PUT", r.Method)

		var payload []map[string]any

		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		require.Len(t, payload, 1)
		assert.Equal(t, "n1", payload[0]["id"])
	}))

	source := strings.NewReader(`[{"type": "node", "id": "n1"}]`)
	err := repo.ImportData(context.Background(), source, "", &hk.ImportOptions{AsHK: true})
	require.NoError(t, err)
}

func TestRepository_ImportData_RDF(t *testing.T) {
	const turtle = "@prefix ex: <http://example.org/> . ex:a ex:b ex:c ."

	repo := newTestRepository(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/repository/test/rdf", r.URL.Path)
		assert.Equal(t, "PUT", r.Method)
		assert.Equal(t, "text/turtle", r.Header.Get("Content-Type"))
		assert.Equal(t, "ctx-1", r.Header.Get("context-parent"))
		assert.Equal(t, "graph", r.URL.Query().Get("target"))

		body, _ := io.ReadAll(r.Body)
		assert.Equal(t, turtle, string(body))
	}))

	opts := &hk.ImportOptions{
		Context: &hklib.Context{Node: hklib.Node{ID: "ctx-1"}},
		Options: map[string][]string{"target": {"graph"}},
	}

	err := repo.ImportData(context.Background(), strings.NewReader(turtle), "text/turtle", opts)
	require.NoError(t, err)
}

func TestRepository_Clear(t *testing.T) {
	var (
		mu    sync.Mutex
		calls []string
		ids   []string
	)

	repo := newTestRepository(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()

		calls = append(calls, r.Method)

		switch r.Method {
		case "POST":
			_ = json.NewEncoder(w).Encode(map[string]map[string]any{
				"n1": {"type": "node", "id": "n1"},
				"n2": {"type": "node", "id": "n2"},
			})
		case "DELETE":
			_ = json.NewDecoder(r.Body).Decode(&ids)
		}
	}))

	err := repo.Clear(context.Background())
	require.NoError(t, err)

	// Two round trips: fetch everything, then delete it.
	assert.Equal(t, []string{"POST", "DELETE"}, calls)
	assert.ElementsMatch(t, []string{"n1", "n2"}, ids)
}

func TestRepository_HyQL(t *testing.T) {
	repo := newTestRepository(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/repository/test/query/", r.URL.Path)
		assert.Equal(t, "POST", r.Method)
		assert.Equal(t, "text/plain", r.Header.Get("Content-Type"))

		// The query endpoint answers with a plain array.
		_ = json.NewEncoder(w).Encode([]map[string]any{
			{"type": "node", "id": "n1"},
			{"type": "link", "id": "l1", "connector": "conn1"},
		})
	}))

	entities, err := repo.HyQL(context.Background(), "select * from nodes")
	require.NoError(t, err)
	require.Len(t, entities, 2)
	assert.Equal(t, "n1", entities[0].EntityID())
	assert.Equal(t, hklib.TypeLink, entities[1].EntityType())
}
