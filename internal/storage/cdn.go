package storage

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-resty/resty/v2"

	"github.com/ROBPOPNOW/popnow-app-skyzhp-sub001/internal/config"
)

var (
	// ErrCDNNotConfigured indicates the storage zone name or access key is missing.
	ErrCDNNotConfigured = errors.New("cdn storage not configured")
	// ErrInvalidFileURL indicates no storage key could be derived from a file URL.
	ErrInvalidFileURL = errors.New("invalid file url")
)

// CDNStorage deletes files from a CDN storage zone through its HTTP API.
type CDNStorage struct {
	client   *resty.Client
	endpoint string
	zone     string
	apiKey   string
}

// NewCDNStorage builds a CDN storage client on top of the shared HTTP client.
func NewCDNStorage(client *resty.Client, cfg config.CDNStorageConfig) *CDNStorage {
	if client == nil {
		client = resty.New()
	}
	return &CDNStorage{
		client:   client,
		endpoint: strings.TrimSuffix(cfg.Endpoint, "/"),
		zone:     cfg.Zone,
		apiKey:   cfg.APIKey,
	}
}

// KeyFromURL derives the storage key of a public file URL: the escaped URL path with
// its leading separator removed. Percent-encoded bytes stay encoded so an escaped
// '?' or '#' remains part of the key. ok is false when the URL cannot be parsed or
// has no path.
func KeyFromURL(raw string) (key string, ok bool) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return "", false
	}
	key = strings.TrimPrefix(u.EscapedPath(), "/")
	if key == "" {
		return "", false
	}
	return key, true
}

// DeleteByURL removes the file behind a public URL. A file that is already gone
// counts as deleted.
func (c *CDNStorage) DeleteByURL(ctx context.Context, fileURL string) error {
	key, ok := KeyFromURL(fileURL)
	if !ok {
		return fmt.Errorf("%w: %q", ErrInvalidFileURL, fileURL)
	}
	return c.deleteEscaped(ctx, key)
}

// Delete removes the unescaped key from the storage zone. 200 and 404 responses are
// both success.
func (c *CDNStorage) Delete(ctx context.Context, key string) error {
	segments := strings.Split(strings.TrimPrefix(key, "/"), "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return c.deleteEscaped(ctx, strings.Join(segments, "/"))
}

func (c *CDNStorage) deleteEscaped(ctx context.Context, escapedKey string) error {
	if c == nil || c.zone == "" || c.apiKey == "" {
		return ErrCDNNotConfigured
	}

	target := fmt.Sprintf("%s/%s/%s", c.endpoint, url.PathEscape(c.zone), escapedKey)
	resp, err := c.client.R().
		SetContext(ctx).
		SetHeader("AccessKey", c.apiKey).
		Delete(target)
	if err != nil {
		return fmt.Errorf("cdn delete %s: %w", escapedKey, err)
	}

	switch resp.StatusCode() {
	case http.StatusOK, http.StatusNoContent, http.StatusNotFound:
		return nil
	default:
		return fmt.Errorf("cdn delete %s: status %d: %s", escapedKey, resp.StatusCode(), strings.TrimSpace(resp.String()))
	}
}
