package webui

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sitesmith/sitesmith/pkg/changetracker"
	"github.com/sitesmith/sitesmith/pkg/configuration"
	"github.com/sitesmith/sitesmith/pkg/generation"
	"github.com/sitesmith/sitesmith/pkg/history"
	"github.com/sitesmith/sitesmith/pkg/utils"
	"github.com/sitesmith/sitesmith/pkg/workspace"
)

type stubGenerator struct {
	files map[string]string
	err   error
}

func (g *stubGenerator) Generate(ctx context.Context, prompt string) (map[string]string, error) {
	return g.files, g.err
}

func newTestServer(t *testing.T, gen generation.Generator) (*WorkspaceServer, *httptest.Server) {
	t.Helper()

	ws := workspace.Seed()
	tracker := changetracker.New(ws, time.Minute)
	cfg := configuration.DefaultConfig()
	keys := &configuration.APIKeys{}
	prompts := history.Load(t.TempDir() + "/history.json")

	s := NewWorkspaceServer(cfg, keys, ws, tracker, generation.NewOrchestrator(gen), prompts, utils.GetLogger())
	ts := httptest.NewServer(s.routes())
	t.Cleanup(ts.Close)
	return s, ts
}

func getJSON(t *testing.T, url string) (int, map[string]interface{}) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp.StatusCode, body
}

func postJSON(t *testing.T, url string, payload interface{}) (int, map[string]interface{}) {
	t.Helper()
	data, err := json.Marshal(payload)
	require.NoError(t, err)

	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	require.NoError(t, err)
	defer resp.Body.Close()

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp.StatusCode, body
}

func TestHealthEndpoint(t *testing.T) {
	_, ts := newTestServer(t, &stubGenerator{})

	status, body := getJSON(t, ts.URL+"/health")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok", body["status"])
}

func TestFilesListsSeededWorkspace(t *testing.T) {
	_, ts := newTestServer(t, &stubGenerator{})

	status, body := getJSON(t, ts.URL+"/api/files")
	require.Equal(t, http.StatusOK, status)

	files := body["files"].(map[string]interface{})
	assert.Contains(t, files, "index.html")
	assert.Contains(t, files, "styles.css")
	assert.Contains(t, files, "script.js")
	assert.Equal(t, "index.html", body["activeFile"])
}

func TestFileUpsertAndFetch(t *testing.T) {
	_, ts := newTestServer(t, &stubGenerator{})

	status, _ := postJSON(t, ts.URL+"/api/file", map[string]string{
		"name":    "about.html",
		"content": "<h1>About</h1>",
	})
	require.Equal(t, http.StatusOK, status)

	status, body := getJSON(t, ts.URL+"/api/file?name=about.html")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "<h1>About</h1>", body["content"])
	assert.Equal(t, true, body["dirty"])
}

func TestDeleteUnknownFileSuggests(t *testing.T) {
	_, ts := newTestServer(t, &stubGenerator{})

	req, err := http.NewRequest(http.MethodDelete, ts.URL+"/api/file?name=index.htm", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "index.html", body["suggestion"])
}

func TestRenameConflict(t *testing.T) {
	_, ts := newTestServer(t, &stubGenerator{})

	status, body := postJSON(t, ts.URL+"/api/file/rename", map[string]string{
		"from": "script.js",
		"to":   "styles.css",
	})
	assert.Equal(t, http.StatusConflict, status)
	assert.Contains(t, body["error"], "already exists")
}

func TestActiveFileUnknownIs404(t *testing.T) {
	_, ts := newTestServer(t, &stubGenerator{})

	status, _ := postJSON(t, ts.URL+"/api/file/active", map[string]string{"name": "nope.html"})
	assert.Equal(t, http.StatusNotFound, status)
}

func TestPreviewAssemblesDocument(t *testing.T) {
	_, ts := newTestServer(t, &stubGenerator{})

	status, _ := postJSON(t, ts.URL+"/api/files", map[string]interface{}{
		"files": map[string]string{
			"index.html": `<html><head><link rel="stylesheet" href="styles.css"></head><body></body></html>`,
			"styles.css": "body { background: red; }",
			"script.js":  "console.log('ready');",
		},
	})
	require.Equal(t, http.StatusOK, status)

	resp, err := http.Get(ts.URL + "/api/preview")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")

	var buf bytes.Buffer
	_, err = buf.ReadFrom(resp.Body)
	require.NoError(t, err)
	html := buf.String()
	assert.Contains(t, html, "<style>")
	assert.Contains(t, html, "<script>")
	assert.NotContains(t, html, `href="styles.css"`)
}

func TestSaveNowClearsDirty(t *testing.T) {
	_, ts := newTestServer(t, &stubGenerator{})

	status, _ := postJSON(t, ts.URL+"/api/file", map[string]string{
		"name":    "index.html",
		"content": "<html><body>edited</body></html>",
	})
	require.Equal(t, http.StatusOK, status)

	status, body := getJSON(t, ts.URL+"/api/dirty")
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, body["dirty"], "index.html")

	status, body = postJSON(t, ts.URL+"/api/save", map[string]string{})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, false, body["anyUnsaved"])
}

func TestGenerateReplacesWorkspace(t *testing.T) {
	gen := &stubGenerator{files: map[string]string{
		"index.html": "<html><head></head><body>generated</body></html>",
	}}
	_, ts := newTestServer(t, gen)

	status, body := postJSON(t, ts.URL+"/api/generate", map[string]string{
		"prompt": "a bakery landing page",
	})
	require.Equal(t, http.StatusOK, status)
	assert.NotContains(t, body, "error")

	files := body["files"].(map[string]interface{})
	assert.Contains(t, files, "index.html")
	assert.Contains(t, files, "styles.css")
	assert.Contains(t, files, "script.js")
	assert.Equal(t, "index.html", body["activeFile"])

	status, hist := getJSON(t, ts.URL+"/api/history")
	require.Equal(t, http.StatusOK, status)
	entries := hist["entries"].([]interface{})
	require.Len(t, entries, 1)
}

func TestGenerateBlankPromptRejected(t *testing.T) {
	_, ts := newTestServer(t, &stubGenerator{})

	status, body := postJSON(t, ts.URL+"/api/generate", map[string]string{"prompt": "   "})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, body["error"], "prompt")
}

func TestGenerateProviderFailureServesFallback(t *testing.T) {
	gen := &stubGenerator{err: errors.New("connection refused")}
	_, ts := newTestServer(t, gen)

	status, body := postJSON(t, ts.URL+"/api/generate", map[string]string{
		"prompt": "anything",
	})
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, body["error"], "connection refused")

	files := body["files"].(map[string]interface{})
	index := files["index.html"].(string)
	assert.True(t, strings.Contains(strings.ToLower(index), "unavailable"))
}

func TestDownloadServesZip(t *testing.T) {
	_, ts := newTestServer(t, &stubGenerator{})

	resp, err := http.Get(ts.URL + "/api/download")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/zip", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "site.zip")
}

func TestPublishWithoutTokenIs400(t *testing.T) {
	_, ts := newTestServer(t, &stubGenerator{})

	for _, path := range []string{"/api/publish/netlify", "/api/publish/github", "/api/publish/vercel"} {
		status, body := postJSON(t, ts.URL+path, map[string]string{"name": "demo"})
		assert.Equal(t, http.StatusBadRequest, status, path)
		assert.Contains(t, body["error"], "token", path)
	}
}

func TestFindAvailablePort(t *testing.T) {
	port := FindAvailablePort(55500)
	assert.GreaterOrEqual(t, port, 55500)
	assert.True(t, CheckPortAvailable(port))
}
