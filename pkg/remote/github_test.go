package remote

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseURL(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want Ref
		err  bool
	}{
		{
			name: "tree url",
			url:  "https://github.com/acme/skills/tree/main/library/debugging",
			want: Ref{Owner: "acme", Repo: "skills", Branch: "main", Path: "library/debugging"},
		},
		{
			name: "blob url",
			url:  "https://github.com/acme/skills/blob/v2/debugging",
			want: Ref{Owner: "acme", Repo: "skills", Branch: "v2", Path: "debugging"},
		},
		{
			name: "not github",
			url:  "https://example.com/acme/skills/tree/main/debugging",
			err:  true,
		},
		{
			name: "missing path",
			url:  "https://github.com/acme/skills",
			err:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ref, err := ParseURL(tt.url)
			if tt.err {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, ref)
		})
	}
}

func TestRefName(t *testing.T) {
	ref := Ref{Path: "library/debugging"}
	assert.Equal(t, "debugging", ref.Name())
}

// rewriteClient points a Client at a test server regardless of the request host.
func rewriteClient(ts *httptest.Server) *Client {
	base, _ := url.Parse(ts.URL)
	return &Client{
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
			Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
				req.URL.Scheme = base.Scheme
				req.URL.Host = base.Host
				return http.DefaultTransport.RoundTrip(req)
			}),
		},
		attempts: 3,
	}
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func TestDownloadDir(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/acme/skills/contents/debugging", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]any{
			map[string]any{
				"type": "file", "name": "SKILL.md", "path": "debugging/SKILL.md",
				"download_url": "https://raw.test/debugging/SKILL.md",
			},
			map[string]any{
				"type": "dir", "name": "examples", "path": "debugging/examples",
			},
		})
	})
	mux.HandleFunc("/repos/acme/skills/contents/debugging/examples", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]any{
			map[string]any{
				"type": "file", "name": "example.md", "path": "debugging/examples/example.md",
				"url": "https://api.test/blobs/example",
			},
		})
	})
	mux.HandleFunc("/debugging/SKILL.md", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "---\nname: debugging\n---\n\n# Debugging\n")
	})
	mux.HandleFunc("/blobs/example", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"content":  base64.StdEncoding.EncodeToString([]byte("worked example")),
			"encoding": "base64",
		})
	})
	ts := httptest.NewServer(mux)
	defer ts.Close()

	dest := filepath.Join(t.TempDir(), "debugging")
	client := rewriteClient(ts)
	err := client.DownloadDir(context.Background(), "https://github.com/acme/skills/tree/main/debugging", dest)
	require.NoError(t, err)

	skill, err := os.ReadFile(filepath.Join(dest, "SKILL.md"))
	require.NoError(t, err)
	assert.Contains(t, string(skill), "# Debugging")

	example, err := os.ReadFile(filepath.Join(dest, "examples", "example.md"))
	require.NoError(t, err)
	assert.Equal(t, "worked example", string(example))
}

func TestDownloadDirRetriesTransientFailures(t *testing.T) {
	var calls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/acme/skills/contents/debugging", func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		json.NewEncoder(w).Encode([]any{})
	})
	ts := httptest.NewServer(mux)
	defer ts.Close()

	dest := t.TempDir()
	client := rewriteClient(ts)
	err := client.DownloadDir(context.Background(), "https://github.com/acme/skills/tree/main/debugging", dest)
	require.NoError(t, err)
	assert.Equal(t, int32(3), calls.Load())
}

func TestDownloadDirNotFoundDoesNotRetry(t *testing.T) {
	var calls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Path, "contents") {
			calls.Add(1)
		}
		w.WriteHeader(http.StatusNotFound)
	})
	ts := httptest.NewServer(mux)
	defer ts.Close()

	client := rewriteClient(ts)
	err := client.DownloadDir(context.Background(), "https://github.com/acme/skills/tree/main/gone", t.TempDir())
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestDownloadDirInvalidURL(t *testing.T) {
	client := NewClient()
	err := client.DownloadDir(context.Background(), "https://example.com/nope", t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid GitHub directory URL")
}
