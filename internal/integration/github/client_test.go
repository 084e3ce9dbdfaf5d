package github

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/science-hub-api/internal/models"
	"github.com/noah-isme/science-hub-api/pkg/config"
)

func newTestClient(t *testing.T, mux *http.ServeMux) *Client {
	t.Helper()
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	client, err := NewClient(config.GitHubConfig{
		Token:         "token",
		Owner:         "acme",
		ReviewRepo:    "SciTech",
		ContentRepo:   "content",
		ContentBranch: "main",
		BaseURL:       server.URL,
		Timeout:       5 * time.Second,
	}, nil)
	require.NoError(t, err)
	return client
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func TestNewClientRequiresCredentials(t *testing.T) {
	_, err := NewClient(config.GitHubConfig{Owner: "acme"}, nil)
	assert.Error(t, err)
}

func TestCreateIssue(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/acme/SciTech/issues", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer token", r.Header.Get("Authorization"))
		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "[UPLOAD REVIEW] Optics", body["title"])
		assert.Equal(t, []interface{}{"upload-review", "pending"}, body["labels"])
		writeJSON(w, http.StatusCreated, map[string]interface{}{"number": 7, "html_url": "https://github.com/acme/SciTech/issues/7"})
	})
	client := newTestClient(t, mux)

	url, err := client.CreateIssue(context.Background(), models.ReviewIssue{
		Title:  "[UPLOAD REVIEW] Optics",
		Body:   "details",
		Labels: []string{"upload-review", "pending"},
	})
	require.NoError(t, err)
	assert.Equal(t, "https://github.com/acme/SciTech/issues/7", url)
}

func TestCreateIssueSurfacesProviderMessage(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/acme/SciTech/issues", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Bad credentials"})
	})
	client := newTestClient(t, mux)

	_, err := client.CreateIssue(context.Background(), models.ReviewIssue{Title: "x"})
	require.Error(t, err)
	var remote *RemoteError
	require.True(t, errors.As(err, &remote))
	assert.Equal(t, "Bad credentials", remote.Message)
}

func TestPutFileCreatesNewFile(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/acme/content/contents/docs/pdf/optics.json", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			assert.Equal(t, "main", r.URL.Query().Get("ref"))
			writeJSON(w, http.StatusNotFound, map[string]string{"message": "Not Found"})
		case http.MethodPut:
			var body map[string]interface{}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "Add pdf: Optics", body["message"])
			assert.Equal(t, "main", body["branch"])
			assert.Equal(t, base64.StdEncoding.EncodeToString([]byte(`{"a":1}`)), body["content"])
			assert.NotContains(t, body, "sha")
			writeJSON(w, http.StatusCreated, map[string]interface{}{"content": map[string]string{
				"path":         "docs/pdf/optics.json",
				"html_url":     "https://github.com/acme/content/blob/main/docs/pdf/optics.json",
				"download_url": "https://raw.githubusercontent.com/acme/content/main/docs/pdf/optics.json",
			}})
		default:
			t.Errorf("unexpected method %s", r.Method)
		}
	})
	client := newTestClient(t, mux)

	res, err := client.PutFile(context.Background(), "docs/pdf/optics.json", []byte(`{"a":1}`), "Add pdf: Optics")
	require.NoError(t, err)
	assert.Equal(t, "https://github.com/acme/content/blob/main/docs/pdf/optics.json", res.URL)
	assert.Equal(t, "https://raw.githubusercontent.com/acme/content/main/docs/pdf/optics.json", res.DownloadURL)
	assert.Equal(t, "docs/pdf/optics.json", res.Path)
}

func TestPutFileReplacesExistingFile(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/acme/content/contents/docs/pdf/optics.json", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			writeJSON(w, http.StatusOK, map[string]string{"type": "file", "sha": "abc123", "path": "docs/pdf/optics.json"})
		case http.MethodPut:
			var body map[string]interface{}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "abc123", body["sha"])
			writeJSON(w, http.StatusOK, map[string]interface{}{"content": map[string]string{"html_url": "https://example.com/optics"}})
		}
	})
	client := newTestClient(t, mux)

	res, err := client.PutFile(context.Background(), "docs/pdf/optics.json", []byte("x"), "Add pdf: Optics")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/optics", res.URL)
	assert.Equal(t, "docs/pdf/optics.json", res.Path)
}

func TestListAndReadFiles(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/acme/content/contents/docs/videos", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []map[string]string{
			{"type": "file", "name": "a.json", "path": "docs/videos/a.json"},
			{"type": "dir", "name": "nested", "path": "docs/videos/nested"},
		})
	})
	mux.HandleFunc("/repos/acme/content/contents/docs/videos/a.json", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"type":     "file",
			"name":     "a.json",
			"path":     "docs/videos/a.json",
			"encoding": "base64",
			"content":  base64.StdEncoding.EncodeToString([]byte(`{"title":"A"}`)),
		})
	})
	mux.HandleFunc("/repos/acme/content/contents/docs/courses", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Not Found"})
	})
	client := newTestClient(t, mux)
	ctx := context.Background()

	files, err := client.ListFiles(ctx, "docs/videos")
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, models.ContentFile{Name: "a.json", Path: "docs/videos/a.json"}, files[0])

	content, err := client.ReadFile(ctx, "docs/videos/a.json")
	require.NoError(t, err)
	assert.JSONEq(t, `{"title":"A"}`, string(content))

	empty, err := client.ListFiles(ctx, "docs/courses")
	require.NoError(t, err)
	assert.Empty(t, empty)
}
