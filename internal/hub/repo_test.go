package hub

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := New(&Config{Endpoint: srv.URL, Token: "hf_test_token"})
	require.NoError(t, err)
	return client, srv
}

func TestNew_RequiresConfig(t *testing.T) {
	_, err := New(&Config{Endpoint: "", Token: "x"})
	assert.ErrorIs(t, err, ErrNoEndpoint)

	_, err = New(&Config{Endpoint: "https://huggingface.co", Token: ""})
	assert.ErrorIs(t, err, ErrNoToken)
}

func TestCreateRepo_CreatesSpace(t *testing.T) {
	var gotBody createRepoRequest
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/repos/create", r.URL.Path)
		assert.Equal(t, "Bearer hf_test_token", r.Header.Get("Authorization"))

		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		json.NewEncoder(w).Encode(map[string]string{
			"url": "https://huggingface.co/spaces/alice/demo",
		})
	}))

	ref, err := client.CreateRepo(context.Background(), &CreateRepoParams{
		RepoID:   "alice/demo",
		Kind:     RepoKindSpace,
		SpaceSDK: SpaceSDKGradio,
		ExistOK:  true,
	})
	require.NoError(t, err)

	assert.Equal(t, "alice/demo", ref.ID)
	assert.Equal(t, RepoKindSpace, ref.Kind)
	assert.Equal(t, "https://huggingface.co/spaces/alice/demo", ref.URL)

	assert.Equal(t, "demo", gotBody.Name)
	assert.Equal(t, "alice", gotBody.Organization)
	assert.Equal(t, "space", gotBody.Type)
	assert.Equal(t, "gradio", gotBody.SDK)
	assert.False(t, gotBody.Private)
}

func TestCreateRepo_ExistOKOnConflict(t *testing.T) {
	var calls atomic.Int32
	client, srv := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		calls.Add(1)
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(map[string]string{"error": "You already created this model repo"})
	}))

	params := &CreateRepoParams{
		RepoID:  "alice/demo",
		Kind:    RepoKindModel,
		ExistOK: true,
	}

	// calling twice must succeed both times and never alter settings
	for i := 0; i < 2; i++ {
		ref, err := client.CreateRepo(context.Background(), params)
		require.NoError(t, err)
		assert.Equal(t, "alice/demo", ref.ID)
		assert.Equal(t, fmt.Sprintf("%s/alice/demo", srv.URL), ref.URL)
	}
	assert.Equal(t, int32(2), calls.Load())
}

func TestCreateRepo_ConflictWithoutExistOK(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(map[string]string{"error": "exists"})
	}))

	_, err := client.CreateRepo(context.Background(), &CreateRepoParams{
		RepoID: "alice/demo",
		Kind:   RepoKindModel,
	})
	assert.Error(t, err)
}

func TestCreateRepo_AuthError(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set(HeaderErrorCode, "InvalidCredentials")
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"error": "Invalid username or password."})
	}))

	_, err := client.CreateRepo(context.Background(), &CreateRepoParams{
		RepoID: "alice/demo",
		Kind:   RepoKindModel,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAuth)
	assert.Contains(t, err.Error(), "InvalidCredentials")
}

func TestCreateRepo_SpaceWithoutSDKFailsBeforeNetwork(t *testing.T) {
	var calls atomic.Int32
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		calls.Add(1)
	}))

	_, err := client.CreateRepo(context.Background(), &CreateRepoParams{
		RepoID: "alice/demo",
		Kind:   RepoKindSpace,
	})
	assert.ErrorIs(t, err, ErrInvalidName)
	assert.Equal(t, int32(0), calls.Load(), "no request should be made")
}

func TestCreateRepo_MalformedID(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		t.Fatal("no request expected")
	}))

	_, err := client.CreateRepo(context.Background(), &CreateRepoParams{
		RepoID: "just-a-name",
		Kind:   RepoKindModel,
	})
	assert.ErrorIs(t, err, ErrInvalidName)
}

func TestWhoAmI(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		assert.Equal(t, "/api/whoami-v2", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]string{"name": "alice", "type": "user"})
	}))

	resp, err := client.WhoAmI(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "alice", resp.Name)
}

func TestListFiles_FollowsPagination(t *testing.T) {
	var srvURL string
	mux := http.NewServeMux()
	mux.HandleFunc("/api/spaces/alice/demo/tree/main", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Query().Get("cursor") == "" {
			w.Header().Set("Link", fmt.Sprintf(`<%s/api/spaces/alice/demo/tree/main?cursor=abc>; rel="next"`, srvURL))
			json.NewEncoder(w).Encode([]map[string]any{
				{"type": "file", "path": "app.py", "size": 120, "oid": "aaa"},
				{"type": "directory", "path": "assets", "size": 0, "oid": "bbb"},
			})
			return
		}
		json.NewEncoder(w).Encode([]map[string]any{
			{"type": "file", "path": "assets/logo.png", "size": 2048, "oid": "ccc"},
		})
	})

	client, srv := newTestClient(t, mux)
	srvURL = srv.URL

	files, err := client.ListFiles(context.Background(), &ListFilesParams{
		RepoID: "alice/demo",
		Kind:   RepoKindSpace,
	})
	require.NoError(t, err)

	require.Len(t, files, 2, "directories are filtered out")
	assert.Equal(t, "app.py", files[0].Path)
	assert.Equal(t, "assets/logo.png", files[1].Path)
}

func TestListFiles_NotFound(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"error": "Repository not found"})
	}))

	_, err := client.ListFiles(context.Background(), &ListFilesParams{
		RepoID: "alice/gone",
		Kind:   RepoKindModel,
	})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestNextPageLink(t *testing.T) {
	assert.Equal(t, "", nextPageLink(""))
	assert.Equal(t,
		"https://huggingface.co/api/models/a/b/tree/main?cursor=x",
		nextPageLink(`<https://huggingface.co/api/models/a/b/tree/main?cursor=x>; rel="next"`))
	assert.Equal(t, "", nextPageLink(`<https://example.com/prev>; rel="prev"`))
}
