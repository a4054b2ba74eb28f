package integration

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dreamware/postboard/internal/api"
	"github.com/dreamware/postboard/internal/model"
	"github.com/dreamware/postboard/internal/posts"
	"github.com/dreamware/postboard/internal/server"
	"github.com/dreamware/postboard/internal/users"
)

// placeholder mimics the remote API: it lists ten posts and three users,
// answers creates with id 101, and fails updates of posts it never stored
// with a 500, as the public service does.
type placeholder struct {
	mu    sync.Mutex
	posts map[int]bool
}

func newPlaceholder(t *testing.T) *httptest.Server {
	t.Helper()
	p := &placeholder{posts: map[int]bool{}}
	for i := 1; i <= 10; i++ {
		p.posts[i] = true
	}

	r := mux.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			w.Header().Set("Content-Type", "application/json; charset=utf-8")
			next.ServeHTTP(w, req)
		})
	})
	r.Methods(http.MethodGet).Path("/posts").HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		out := make([]map[string]any, 0, 10)
		for i := 1; i <= 10; i++ {
			out = append(out, map[string]any{
				"userId": (i-1)%3 + 1,
				"id":     i,
				"title":  fmt.Sprintf("title %d", i),
				"body":   fmt.Sprintf("body %d", i),
			})
		}
		_ = json.NewEncoder(w).Encode(out)
	})
	r.Methods(http.MethodPost).Path("/posts").HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		var in map[string]any
		_ = json.NewDecoder(req.Body).Decode(&in)
		in["id"] = 101
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(in)
	})
	r.Methods(http.MethodPut).Path("/posts/{id}").HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		id, _ := strconv.Atoi(mux.Vars(req)["id"])
		p.mu.Lock()
		known := p.posts[id]
		p.mu.Unlock()
		if !known {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = io.WriteString(w, "{}")
			return
		}
		var in map[string]any
		_ = json.NewDecoder(req.Body).Decode(&in)
		in["id"] = id
		_ = json.NewEncoder(w).Encode(in)
	})
	r.Methods(http.MethodDelete).Path("/posts/{id}").HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, "{}")
	})
	r.Methods(http.MethodGet).Path("/users").HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `[
			{"id":1,"name":"Leanne Graham","username":"Bret","address":{"city":"Gwenborough","geo":{"lat":"-37.3159","lng":"81.1496"}}},
			{"id":"2","name":"Ervin Howell","username":"Antonette"},
			{"id":3,"name":"Clementine Bauch","username":"Samantha","company":{"name":"Romaguera-Jacobson"}}
		]`)
	})

	ts := httptest.NewServer(r)
	t.Cleanup(ts.Close)
	return ts
}

type board struct {
	t      *testing.T
	url    string
	client *http.Client
}

func startBoard(t *testing.T) *board {
	t.Helper()
	remote := newPlaceholder(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	client, err := api.NewClient(remote.URL, remote.Client(), logger)
	require.NoError(t, err)
	ps := posts.NewStore(client, nil, logger)
	us := users.NewStore(client, logger)
	require.NoError(t, us.FetchUsers(t.Context()))
	require.NoError(t, ps.FetchPosts(t.Context()))

	ts := httptest.NewServer(server.New(ps, us, logger).Handler())
	t.Cleanup(ts.Close)
	return &board{t: t, url: ts.URL, client: ts.Client()}
}

func (b *board) call(method, path, body string, out any) int {
	b.t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req, err := http.NewRequestWithContext(b.t.Context(), method, b.url+path, r)
	require.NoError(b.t, err)
	resp, err := b.client.Do(req)
	require.NoError(b.t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(b.t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func TestPostLifecycle(t *testing.T) {
	b := startBoard(t)

	var list []model.Post
	require.Equal(t, http.StatusOK, b.call(http.MethodGet, "/posts", "", &list))
	require.Len(t, list, 10)
	assert.Equal(t, 1, list[0].ID)
	assert.Equal(t, 10, list[9].ID)

	t.Run("create synthesizes the next id", func(t *testing.T) {
		var created model.Post
		status := b.call(http.MethodPost, "/posts", `{"title":"New","body":"Fresh","userId":2}`, &created)
		require.Equal(t, http.StatusCreated, status)
		assert.Equal(t, 11, created.ID)

		require.Equal(t, http.StatusOK, b.call(http.MethodGet, "/posts", "", &list))
		assert.Equal(t, 11, list[0].ID)
	})

	t.Run("update of a local-only post applies locally", func(t *testing.T) {
		var updated model.Post
		status := b.call(http.MethodPut, "/posts/11", `{"title":"Edited","body":"Fresh","userId":2}`, &updated)
		require.Equal(t, http.StatusOK, status)
		assert.Equal(t, "Edited", updated.Title)

		var got model.Post
		require.Equal(t, http.StatusOK, b.call(http.MethodGet, "/posts/11", "", &got))
		assert.Equal(t, "Edited", got.Title)
	})

	t.Run("update of a remote post uses the echo", func(t *testing.T) {
		var updated model.Post
		status := b.call(http.MethodPut, "/posts/4", `{"title":"Renamed","body":"body 4","userId":1}`, &updated)
		require.Equal(t, http.StatusOK, status)
		assert.Equal(t, 4, updated.ID)
		assert.Equal(t, "Renamed", updated.Title)
	})

	t.Run("reactions count up", func(t *testing.T) {
		var p model.Post
		require.Equal(t, http.StatusOK, b.call(http.MethodPost, "/posts/4/reactions/coffee", "", &p))
		require.Equal(t, http.StatusOK, b.call(http.MethodPost, "/posts/4/reactions/coffee", "", &p))
		require.NotNil(t, p.Reactions)
		assert.Equal(t, 2, p.Reactions.Coffee)
	})

	t.Run("delete removes the post", func(t *testing.T) {
		require.Equal(t, http.StatusNoContent, b.call(http.MethodDelete, "/posts/11", "", nil))
		require.Equal(t, http.StatusNotFound, b.call(http.MethodGet, "/posts/11", "", nil))
		require.Equal(t, http.StatusOK, b.call(http.MethodGet, "/posts", "", &list))
		assert.Len(t, list, 10)
	})
}

func TestUsersAndAuthors(t *testing.T) {
	b := startBoard(t)

	var all []model.User
	require.Equal(t, http.StatusOK, b.call(http.MethodGet, "/users", "", &all))
	require.Len(t, all, 3)
	assert.Equal(t, 2, all[1].ID)
	require.NotNil(t, all[0].Address)
	assert.Equal(t, "Gwenborough", all[0].Address.City)

	var written []model.Post
	require.Equal(t, http.StatusOK, b.call(http.MethodGet, "/users/1/posts", "", &written))
	got := make([]int, 0, len(written))
	for _, p := range written {
		got = append(got, p.ID)
	}
	assert.Equal(t, []int{1, 4, 7, 10}, got)

	resp, err := b.client.Get(b.url + "/")
	require.NoError(t, err)
	defer resp.Body.Close()
	page, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(page), "#1 title 1\nbody 1\nby Leanne Graham · 1 minute ago\n")
}
