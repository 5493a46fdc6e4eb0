package internal

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
)

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

type SourceClient interface {
	Open(location string) (io.ReadCloser, error)
}

// SourceManager opens PNG sources from local paths or http(s) URLs.
type SourceManager struct {
	userAgent string
	client    HTTPClient
}

func NewSourceClient(userAgent string) SourceClient {
	return &SourceManager{
		userAgent: userAgent,
		client:    &http.Client{},
	}
}

func (mgr *SourceManager) Open(location string) (io.ReadCloser, error) {
	if strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://") {
		return mgr.get(location)
	}
	f, err := os.Open(location)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", location, err)
	}
	return f, nil
}

func (mgr *SourceManager) get(url string) (io.ReadCloser, error) {
	log.Info().Str("url", url).Msg("Retrieving")
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "image/png")
	if mgr.userAgent != "" {
		req.Header.Set("User-Agent", mgr.userAgent)
	}

	res, err := mgr.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch from %s: %w", url, err)
	}

	if res.StatusCode > 299 {
		_ = res.Body.Close()
		return nil, fmt.Errorf("http status response from %s: %s", url, res.Status)
	}

	return res.Body, nil
}
