package bitmapcache

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// ErrUnsupportedURI is returned for URI schemes the cache cannot fetch.
var ErrUnsupportedURI = errors.New("bitmapcache: unsupported uri scheme")

// readSource returns the raw bytes for uri. Supported forms are http and
// https URLs, file URLs, data URIs and plain file paths. Relative paths are
// resolved against root.
func (c *Cache) readSource(ctx context.Context, uri string) ([]byte, error) {
	switch {
	case strings.HasPrefix(uri, "data:"):
		return decodeDataURI(uri)
	case strings.HasPrefix(uri, "http://"), strings.HasPrefix(uri, "https://"):
		return c.readHTTP(ctx, uri)
	case strings.HasPrefix(uri, "file://"):
		u, err := url.Parse(uri)
		if err != nil {
			return nil, fmt.Errorf("bitmapcache: parse %q: %w", uri, err)
		}
		return c.readFile(u.Path)
	}
	if i := strings.Index(uri, "://"); i > 0 {
		return nil, fmt.Errorf("bitmapcache: %q: %w", uri, ErrUnsupportedURI)
	}
	return c.readFile(uri)
}

func (c *Cache) readFile(path string) ([]byte, error) {
	if !filepath.IsAbs(path) && c.opts.Root != "" {
		path = filepath.Join(c.opts.Root, path)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("bitmapcache: %w", err)
	}
	defer f.Close()
	return c.readLimited(f, path)
}

func (c *Cache) readHTTP(ctx context.Context, uri string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return nil, fmt.Errorf("bitmapcache: request %q: %w", uri, err)
	}
	resp, err := c.opts.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("bitmapcache: get %q: %w", uri, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("bitmapcache: get %q: %s", uri, resp.Status)
	}
	return c.readLimited(resp.Body, uri)
}

// readLimited reads r up to the configured byte limit.
func (c *Cache) readLimited(r io.Reader, name string) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, c.opts.MaxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("bitmapcache: read %q: %w", name, err)
	}
	if int64(len(data)) > c.opts.MaxBytes {
		return nil, fmt.Errorf("bitmapcache: %q exceeds %d bytes", name, c.opts.MaxBytes)
	}
	return data, nil
}

// decodeDataURI returns the payload of a data URI.
func decodeDataURI(uri string) ([]byte, error) {
	meta, payload, ok := strings.Cut(strings.TrimPrefix(uri, "data:"), ",")
	if !ok {
		return nil, errors.New("bitmapcache: malformed data uri")
	}
	if strings.HasSuffix(meta, ";base64") {
		data, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return nil, fmt.Errorf("bitmapcache: data uri: %w", err)
		}
		return data, nil
	}
	s, err := url.PathUnescape(payload)
	if err != nil {
		return nil, fmt.Errorf("bitmapcache: data uri: %w", err)
	}
	return []byte(s), nil
}
