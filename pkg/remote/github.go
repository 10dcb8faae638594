// Package remote fetches skill directories from GitHub repositories via the
// contents API, so `add <url>` can install skills that are not in the local
// library.
package remote

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/pkg/errors"

	"github.com/skillsmith/skillsmith/pkg/logger"
)

var treePattern = regexp.MustCompile(`github\.com/([^/]+)/([^/]+)/(?:tree|blob)/([^/]+)/(.+)`)

// Ref identifies a directory inside a GitHub repository at a branch.
type Ref struct {
	Owner  string
	Repo   string
	Branch string
	Path   string
}

// ParseURL extracts a Ref from a github.com tree or blob URL.
func ParseURL(raw string) (Ref, error) {
	m := treePattern.FindStringSubmatch(raw)
	if m == nil {
		return Ref{}, errors.Errorf("invalid GitHub directory URL: %s", raw)
	}
	return Ref{Owner: m[1], Repo: m[2], Branch: m[3], Path: m[4]}, nil
}

// Name returns the last path segment, used as the installed folder name.
func (r Ref) Name() string {
	return filepath.Base(r.Path)
}

func (r Ref) contentsURL() string {
	return fmt.Sprintf("https://api.github.com/repos/%s/%s/contents/%s?ref=%s",
		r.Owner, r.Repo, r.Path, url.QueryEscape(r.Branch))
}

// contentItem is the subset of the contents API response we consume.
type contentItem struct {
	Type        string `json:"type"`
	Name        string `json:"name"`
	Path        string `json:"path"`
	URL         string `json:"url"`
	DownloadURL string `json:"download_url"`
	Content     string `json:"content"`
	Encoding    string `json:"encoding"`
}

// Client downloads directory trees from GitHub. Requests are retried with
// backoff; a GITHUB_TOKEN in the environment is used when present to raise
// the rate limit.
type Client struct {
	httpClient *http.Client
	token      string
	attempts   uint
}

// NewClient creates a Client with sane timeouts and retry defaults.
func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		token:      os.Getenv("GITHUB_TOKEN"),
		attempts:   3,
	}
}

// DownloadDir fetches the directory at rawURL into dest, recursing into
// subdirectories.
func (c *Client) DownloadDir(ctx context.Context, rawURL, dest string) error {
	ref, err := ParseURL(rawURL)
	if err != nil {
		return err
	}
	return c.downloadRef(ctx, ref, dest)
}

func (c *Client) downloadRef(ctx context.Context, ref Ref, dest string) error {
	if err := os.MkdirAll(dest, 0o755); err != nil {
		return errors.Wrapf(err, "failed to create %s", dest)
	}

	body, err := c.get(ctx, ref.contentsURL())
	if err != nil {
		return errors.Wrapf(err, "failed to list %s", ref.Path)
	}

	var items []contentItem
	if err := json.Unmarshal(body, &items); err != nil {
		// A single file returns an object rather than an array.
		var single contentItem
		if err := json.Unmarshal(body, &single); err != nil {
			return errors.Wrap(err, "unexpected contents API response")
		}
		items = []contentItem{single}
	}

	for _, item := range items {
		switch item.Type {
		case "file":
			if err := c.downloadFile(ctx, item, filepath.Join(dest, item.Name)); err != nil {
				return err
			}
			logger.G(ctx).WithField("file", item.Path).Debug("downloaded skill file")
		case "dir":
			sub := Ref{Owner: ref.Owner, Repo: ref.Repo, Branch: ref.Branch, Path: item.Path}
			if err := c.downloadRef(ctx, sub, filepath.Join(dest, item.Name)); err != nil {
				return err
			}
		}
	}
	return nil
}

func (c *Client) downloadFile(ctx context.Context, item contentItem, dest string) error {
	var data []byte
	if item.DownloadURL != "" {
		body, err := c.get(ctx, item.DownloadURL)
		if err != nil {
			return errors.Wrapf(err, "failed to download %s", item.Path)
		}
		data = body
	} else {
		body, err := c.get(ctx, item.URL)
		if err != nil {
			return errors.Wrapf(err, "failed to fetch %s", item.Path)
		}
		var full contentItem
		if err := json.Unmarshal(body, &full); err != nil {
			return errors.Wrapf(err, "unexpected response for %s", item.Path)
		}
		decoded, err := base64.StdEncoding.DecodeString(full.Content)
		if err != nil {
			return errors.Wrapf(err, "failed to decode %s", item.Path)
		}
		data = decoded
	}
	return errors.Wrapf(os.WriteFile(dest, data, 0o644), "failed to write %s", dest)
}

func (c *Client) get(ctx context.Context, rawURL string) ([]byte, error) {
	var body []byte
	err := retry.Do(
		func() error {
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
			if err != nil {
				return retry.Unrecoverable(err)
			}
			req.Header.Set("Accept", "application/vnd.github+json")
			if c.token != "" {
				req.Header.Set("Authorization", "Bearer "+c.token)
			}

			resp, err := c.httpClient.Do(req)
			if err != nil {
				return err
			}
			defer resp.Body.Close()

			if resp.StatusCode == http.StatusNotFound {
				return retry.Unrecoverable(errors.Errorf("GitHub returned 404 for %s", rawURL))
			}
			if resp.StatusCode != http.StatusOK {
				return errors.Errorf("GitHub returned %d for %s", resp.StatusCode, rawURL)
			}

			body, err = io.ReadAll(resp.Body)
			return err
		},
		retry.Context(ctx),
		retry.Attempts(c.attempts),
		retry.Delay(500*time.Millisecond),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
	)
	return body, err
}
