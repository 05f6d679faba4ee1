package exporter

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

// ErrAssetLoad marks a failed logo load. It is never fatal to an export:
// callers render without the image.
var ErrAssetLoad = errors.New("asset load failed")

// logoLoadTimeout bounds remote fetches so a dead asset host cannot stall an
// export.
const logoLoadTimeout = 3 * time.Second

// LogoLoader resolves the practice logo from a local path or an http(s) URL.
// Export surfaces are detached from the application's normal asset
// resolution, so the image is loaded into memory and inlined up front.
type LogoLoader struct {
	source string
	client *http.Client
}

// NewLogoLoader creates a loader for the given path or URL. An empty source
// yields a loader that always reports ErrAssetLoad.
func NewLogoLoader(source string) *LogoLoader {
	return &LogoLoader{
		source: source,
		client: &http.Client{Timeout: logoLoadTimeout},
	}
}

// Load returns the raw image bytes.
func (l *LogoLoader) Load(ctx context.Context) ([]byte, error) {
	if l.source == "" {
		return nil, fmt.Errorf("%w: no logo configured", ErrAssetLoad)
	}

	if strings.HasPrefix(l.source, "http://") || strings.HasPrefix(l.source, "https://") {
		return l.loadRemote(ctx)
	}

	data, err := os.ReadFile(l.source)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAssetLoad, err)
	}
	return data, nil
}

func (l *LogoLoader) loadRemote(ctx context.Context) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, logoLoadTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.source, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAssetLoad, err)
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAssetLoad, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: unexpected status %d", ErrAssetLoad, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, 5*1024*1024))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAssetLoad, err)
	}
	return data, nil
}
