package moderation

import (
	"context"
	"fmt"

	"github.com/go-resty/resty/v2"
)

// maxImageBytes bounds avatar downloads; Rekognition rejects inline images above 5 MB.
const maxImageBytes = 5 << 20

// ImageFetcher downloads an image by URL.
type ImageFetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// HTTPImageFetcher downloads images over HTTP.
type HTTPImageFetcher struct {
	client *resty.Client
}

// NewHTTPImageFetcher wraps the shared HTTP client.
func NewHTTPImageFetcher(client *resty.Client) *HTTPImageFetcher {
	if client == nil {
		client = resty.New()
	}
	return &HTTPImageFetcher{client: client}
}

// Fetch returns the body of a successful GET of url.
func (f *HTTPImageFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	resp, err := f.client.R().SetContext(ctx).Get(url)
	if err != nil {
		return nil, fmt.Errorf("download image: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("download image: status %d", resp.StatusCode())
	}

	body := resp.Body()
	if len(body) == 0 {
		return nil, fmt.Errorf("download image: empty body")
	}
	if len(body) > maxImageBytes {
		return nil, fmt.Errorf("download image: %d bytes exceeds limit", len(body))
	}
	return body, nil
}
