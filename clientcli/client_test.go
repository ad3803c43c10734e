package clientcli_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sagarc03/herostore"
	"github.com/sagarc03/herostore/clientcli"
	herohttp "github.com/sagarc03/herostore/http"
	"github.com/sagarc03/herostore/memory"
)

func newClient(t *testing.T, endpoint string) *clientcli.Client {
	t.Helper()
	client, err := clientcli.New(&clientcli.Config{Endpoint: endpoint})
	require.NoError(t, err)
	return client
}

func writeJSON(w http.ResponseWriter, code int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = io.WriteString(w, body)
}

func writeText(w http.ResponseWriter, code int, body string) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(code)
	_, _ = io.WriteString(w, body)
}

func TestNew(t *testing.T) {
	t.Run("valid config", func(t *testing.T) {
		client, err := clientcli.New(&clientcli.Config{Endpoint: "http://localhost:7071"})
		require.NoError(t, err)
		assert.Equal(t, "http://localhost:7071", client.Endpoint())
	})

	t.Run("empty endpoint uses default", func(t *testing.T) {
		client, err := clientcli.New(&clientcli.Config{})
		require.NoError(t, err)
		assert.Equal(t, clientcli.DefaultEndpoint, client.Endpoint())
	})

	t.Run("trailing slash removed", func(t *testing.T) {
		client, err := clientcli.New(&clientcli.Config{Endpoint: "http://localhost:7071/"})
		require.NoError(t, err)
		assert.Equal(t, "http://localhost:7071", client.Endpoint())
	})

	t.Run("nil config", func(t *testing.T) {
		_, err := clientcli.New(nil)
		assert.ErrorIs(t, err, clientcli.ErrConfigRequired)
	})

	t.Run("invalid endpoint", func(t *testing.T) {
		_, err := clientcli.New(&clientcli.Config{Endpoint: "not a url"})
		assert.Error(t, err)
	})
}

func TestClient_List(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodGet, r.Method)
			assert.Equal(t, "/heroes", r.URL.Path)
			writeJSON(w, http.StatusOK, `[{"id": 1, "name": "Thor"}, {"id": 7, "name": "Loki"}]`)
		}))
		defer server.Close()

		heroes, err := newClient(t, server.URL).List(context.Background())
		require.NoError(t, err)
		assert.Equal(t, []herostore.Hero{{ID: 1, Name: "Thor"}, {ID: 7, Name: "Loki"}}, heroes)
	})

	t.Run("compat failure", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			writeText(w, http.StatusTeapot, "list heroes: storage unavailable")
		}))
		defer server.Close()

		_, err := newClient(t, server.URL).List(context.Background())
		require.Error(t, err)
		assert.ErrorIs(t, err, clientcli.ErrTeapot)

		var apiErr *clientcli.APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, "list heroes: storage unavailable", apiErr.Body)
	})
}

func TestClient_Get(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/heroes/7":
			writeJSON(w, http.StatusOK, `{"id": 7, "name": "Loki"}`)
		default:
			writeText(w, http.StatusNotFound, "not found")
		}
	}))
	defer server.Close()
	client := newClient(t, server.URL)

	hero, err := client.Get(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, herostore.Hero{ID: 7, Name: "Loki"}, hero)

	_, err = client.Get(context.Background(), 8)
	assert.ErrorIs(t, err, clientcli.ErrNotFound)
}

func TestClient_Create(t *testing.T) {
	t.Run("sends override as query", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "42", r.URL.Query().Get("id"))
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

			var h herostore.Hero
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&h))
			assert.Equal(t, "Thor", h.Name)
			writeJSON(w, http.StatusOK, `{"id": 42, "name": "Thor"}`)
		}))
		defer server.Close()

		override := 42
		hero, err := newClient(t, server.URL).Create(context.Background(), clientcli.CreateOptions{
			Hero:       herostore.Hero{Name: "Thor"},
			IDOverride: &override,
		})
		require.NoError(t, err)
		assert.Equal(t, herostore.Hero{ID: 42, Name: "Thor"}, hero)
	})

	t.Run("compat duplicate comes back as 200 text", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			writeText(w, http.StatusOK, `create hero "Thor": hero was already in the database`)
		}))
		defer server.Close()

		_, err := newClient(t, server.URL).Create(context.Background(), clientcli.CreateOptions{
			Hero: herostore.Hero{Name: "Thor"},
		})
		require.Error(t, err)

		var apiErr *clientcli.APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusOK, apiErr.StatusCode)
		assert.True(t, apiErr.IsDuplicate())
	})

	t.Run("strict duplicate", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			writeText(w, http.StatusConflict, "duplicate")
		}))
		defer server.Close()

		_, err := newClient(t, server.URL).Create(context.Background(), clientcli.CreateOptions{
			Hero: herostore.Hero{Name: "Thor"},
		})
		assert.ErrorIs(t, err, clientcli.ErrConflict)
	})

	t.Run("empty name", func(t *testing.T) {
		_, err := newClient(t, "http://localhost").Create(context.Background(), clientcli.CreateOptions{})
		assert.ErrorIs(t, err, clientcli.ErrEmptyName)
	})
}

func TestClient_Update(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		writeJSON(w, http.StatusOK, `{"updated": false, "id": 9}`)
	}))
	defer server.Close()

	result, err := newClient(t, server.URL).Update(context.Background(), herostore.Hero{ID: 9, Name: "Odin"})
	require.NoError(t, err)
	assert.Equal(t, clientcli.UpdateResult{Updated: false, ID: 9}, result)
}

func TestClient_Delete(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		switch r.URL.Path {
		case "/heroes/7":
			writeJSON(w, http.StatusOK, `{"deleted": true, "id": 7}`)
		case "/heroes/8":
			writeJSON(w, http.StatusNotFound, `{"deleted": false, "id": 8}`)
		default:
			writeText(w, http.StatusTeapot, "storage unavailable")
		}
	}))
	defer server.Close()
	client := newClient(t, server.URL)

	results, err := client.Delete(context.Background(), []int{7, 8, 9})
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, 7, results[0].ID)
	assert.True(t, results[0].Deleted)
	assert.NoError(t, results[0].Err)

	assert.Equal(t, 8, results[1].ID)
	assert.False(t, results[1].Deleted)
	assert.NoError(t, results[1].Err)

	assert.Equal(t, 9, results[2].ID)
	assert.ErrorIs(t, results[2].Err, clientcli.ErrTeapot)
	assert.True(t, clientcli.HasDeleteErrors(results))

	_, err = client.Delete(context.Background(), nil)
	assert.ErrorIs(t, err, clientcli.ErrNoIDs)
}

func TestClient_Health(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/healthz", r.URL.Path)
		writeText(w, http.StatusOK, "ok")
	}))
	defer server.Close()

	assert.NoError(t, newClient(t, server.URL).Health(context.Background()))
}

func TestClient_AgainstHandler(t *testing.T) {
	service, err := herostore.NewHeroService(memory.NewStore(), herostore.ServiceConfig{})
	require.NoError(t, err)
	handler := herohttp.NewHandler(&herohttp.HandlerConfig{StatusMode: herohttp.StatusStrict}, service)

	server := httptest.NewServer(handler.Router())
	defer server.Close()

	client := newClient(t, server.URL)
	ctx := context.Background()

	loki, err := client.Create(ctx, clientcli.CreateOptions{Hero: herostore.Hero{ID: 7, Name: "Loki"}})
	require.NoError(t, err)
	assert.Equal(t, 7, loki.ID)

	_, err = client.Create(ctx, clientcli.CreateOptions{Hero: herostore.Hero{Name: "Loki"}})
	assert.ErrorIs(t, err, clientcli.ErrConflict)

	result, err := client.Load(ctx, []herostore.Hero{{ID: 1, Name: "Thor"}, {ID: 2, Name: "Loki"}})
	require.NoError(t, err)
	assert.Len(t, result.Created, 1)
	assert.Len(t, result.Failed, 1)

	updated, err := client.Update(ctx, herostore.Hero{ID: 7, Name: "Loki Laufeyson"})
	require.NoError(t, err)
	assert.True(t, updated.Updated)

	got, err := client.Get(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, "Loki Laufeyson", got.Name)

	deletes, err := client.Delete(ctx, []int{7, 7})
	require.NoError(t, err)
	assert.True(t, deletes[0].Deleted)
	assert.False(t, deletes[1].Deleted)

	heroes, err := client.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []herostore.Hero{{ID: 1, Name: "Thor"}}, heroes)

	_, err = client.Get(ctx, 7)
	assert.True(t, errors.Is(err, clientcli.ErrNotFound))
}
