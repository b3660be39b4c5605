package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ErrCodeNotFound indicates the linking code does not exist or is inactive.
var ErrCodeNotFound = errors.New("linking code not found")

// Client talks to a Firebase-style REST document store. Every document path
// maps to {baseURL}/{path}.json; a GET of a missing document returns the
// JSON literal null with status 200.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a client for the given store. The timeout bounds every
// individual request.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

func (c *Client) url(path string) string {
	return c.baseURL + "/" + path + ".json"
}

// Get reads a document into out. It returns found=false when the document
// does not exist; out is untouched in that case.
func (c *Client) Get(ctx context.Context, path string, out any) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url(path), nil)
	if err != nil {
		return false, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return false, fmt.Errorf("failed to get %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("failed to get %s: status %d", path, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return false, fmt.Errorf("failed to read %s: %w", path, err)
	}

	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return false, nil
	}

	if out != nil {
		if err := json.Unmarshal(trimmed, out); err != nil {
			return false, fmt.Errorf("failed to decode %s: %w", path, err)
		}
	}
	return true, nil
}

// Put replaces the document at path.
func (c *Client) Put(ctx context.Context, path string, doc any) error {
	return c.write(ctx, http.MethodPut, path, doc)
}

// Patch merges the given fields into the document at path, leaving other
// fields intact.
func (c *Client) Patch(ctx context.Context, path string, fields any) error {
	return c.write(ctx, http.MethodPatch, path, fields)
}

// Delete removes the document at path. Deleting a missing document is not
// an error.
func (c *Client) Delete(ctx context.Context, path string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.url(path), nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", path, err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNotFound {
		return fmt.Errorf("failed to delete %s: status %d", path, resp.StatusCode)
	}
	return nil
}

func (c *Client) write(ctx context.Context, method, path string, doc any) error {
	payload, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.url(path), bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("failed to write %s: status %d", path, resp.StatusCode)
	}
	return nil
}

// ResolveIdentity exchanges a linking code for the account it belongs to.
func (c *Client) ResolveIdentity(ctx context.Context, code string) (string, error) {
	var doc AgentCodeDoc
	found, err := c.Get(ctx, AgentCodePath(code), &doc)
	if err != nil {
		return "", err
	}
	if !found || !doc.Active || doc.UserID == "" {
		return "", ErrCodeNotFound
	}
	return doc.UserID, nil
}

// Timestamp formats a time for the remote store.
func Timestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// DateKey formats a time as the history date key.
func DateKey(t time.Time) string {
	return t.Format("2006-01-02")
}
