package datasource

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/marquee/internal/content"
	"github.com/five82/marquee/internal/remote"
	"github.com/five82/marquee/internal/remotesync"
)

func newTestServer(t *testing.T, auth string) (*httptest.Server, *Store) {
	t.Helper()
	store := newTestStore(t)
	srv := &Server{
		Store:  store,
		Auth:   auth,
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts, store
}

func do(t *testing.T, method, url, body string) (int, string) {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, strings.TrimSpace(string(b))
}

func TestServer_NodeLifecycle(t *testing.T) {
	ts, _ := newTestServer(t, "")

	status, body := do(t, http.MethodGet, ts.URL+"/display/sentences/0.json", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "null", body)

	status, body = do(t, http.MethodPut, ts.URL+"/display/sentences/0.json", `"Hello"`)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, `"Hello"`, body)

	status, body = do(t, http.MethodGet, ts.URL+"/display/sentences/0.json", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, `"Hello"`, body)

	status, body = do(t, http.MethodGet, ts.URL+"/display.json", "")
	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"sentences":{"0":"Hello"}}`, body)

	status, _ = do(t, http.MethodDelete, ts.URL+"/display.json", "")
	assert.Equal(t, http.StatusOK, status)
	_, body = do(t, http.MethodGet, ts.URL+"/display/sentences/0.json", "")
	assert.Equal(t, "null", body)
}

func TestServer_RejectsBadRequests(t *testing.T) {
	ts, _ := newTestServer(t, "")

	status, _ := do(t, http.MethodPut, ts.URL+"/a.json", `{`)
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = do(t, http.MethodGet, ts.URL+"/a", "")
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = do(t, http.MethodPost, ts.URL+"/a.json", `1`)
	assert.Equal(t, http.StatusMethodNotAllowed, status)

	status, body := do(t, http.MethodGet, ts.URL+"/health", "")
	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"status":"ok"}`, body)
}

func TestServer_Auth(t *testing.T) {
	ts, _ := newTestServer(t, "secret")

	status, _ := do(t, http.MethodGet, ts.URL+"/a.json", "")
	assert.Equal(t, http.StatusUnauthorized, status)
	status, _ = do(t, http.MethodGet, ts.URL+"/a.json?auth=wrong", "")
	assert.Equal(t, http.StatusUnauthorized, status)
	status, _ = do(t, http.MethodGet, ts.URL+"/a.json?auth=secret", "")
	assert.Equal(t, http.StatusOK, status)

	// Health stays open for probes.
	status, _ = do(t, http.MethodGet, ts.URL+"/health", "")
	assert.Equal(t, http.StatusOK, status)
}

func TestServer_ServesRemoteClientAndSyncer(t *testing.T) {
	ts, store := newTestServer(t, "secret")
	ctx := context.Background()
	paths := remotesync.Paths{Root: "/display"}
	d := Display{Store: store, Paths: paths}
	require.NoError(t, d.SetSentence(ctx, 0, "Alpha"))
	require.NoError(t, d.SetSentence(ctx, 1, "Beta"))
	require.NoError(t, d.Select(ctx, 1))

	client, err := remote.NewClient(ts.URL, "secret")
	require.NoError(t, err)

	s, err := client.GetString(ctx, paths.Sentence(0))
	require.NoError(t, err)
	assert.Equal(t, "Alpha", s)
	empty, err := client.GetString(ctx, paths.Sentence(5))
	require.NoError(t, err)
	assert.Equal(t, "", empty)
	sel, err := client.GetInt(ctx, paths.Selected())
	require.NoError(t, err)
	assert.Equal(t, 1, sel)

	syncer := remotesync.New(client, remotesync.Options{Paths: paths})
	syncer.Reset()
	model := content.NewModel()
	changed, err := syncer.SyncModel(ctx, model, time.Now())
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, "Beta", model.Display().String())
	assert.Equal(t, 2, model.Table().Count())
}
