package base

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/raushankrgupta/storefront-listings/models"
)

// BaseSource handles the fetching logic shared by remote listing sources
type BaseSource struct {
	Client *http.Client
}

// NewBaseSource creates a new BaseSource instance.
// The client has no overall timeout; fetches are bounded by the caller's context only.
func NewBaseSource() *BaseSource {
	return &BaseSource{
		Client: &http.Client{
			Transport: &http.Transport{
				Proxy:                 http.ProxyFromEnvironment,
				ForceAttemptHTTP2:     false,
				TLSNextProto:          make(map[string]func(string, *tls.Conn) http.RoundTripper),
				MaxIdleConns:          100,
				IdleConnTimeout:       90 * time.Second,
				TLSHandshakeTimeout:   10 * time.Second,
				ExpectContinueTimeout: 1 * time.Second,
			},
		},
	}
}

// FetchHTTP retrieves a document with caching disabled and returns its body and content type
func (b *BaseSource) FetchHTTP(ctx context.Context, url string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", err
	}

	req.Header.Set("Cache-Control", "no-store")
	req.Header.Set("Pragma", "no-cache")
	req.Header.Set("Accept", "text/html,application/json,application/yaml;q=0.9,*/*;q=0.8")

	res, err := b.Client.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("status code error: %d %s", res.StatusCode, res.Status)
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, "", fmt.Errorf("read body: %w", err)
	}
	return body, res.Header.Get("Content-Type"), nil
}

// FetchRowsHTTP fetches url and decodes its listing rows
func (b *BaseSource) FetchRowsHTTP(ctx context.Context, url string) ([]models.RawRow, error) {
	body, contentType, err := b.FetchHTTP(ctx, url)
	if err != nil {
		return nil, err
	}
	return DecodeRows(bytes.NewReader(body), FormatFor(url, contentType))
}
