package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

var (
	ErrSourceBadStatus   = errors.New("catalog source bad status")
	ErrSourceUnavailable = errors.New("catalog source unavailable")
)

const (
	httpSourceTimeout = 5 * time.Second
	maxDocumentBytes  = 8 << 20
)

// HTTPSource fetches a JSON document {"items": [...]} from a URL.
type HTTPSource struct {
	URL    string
	Client *http.Client
}

func NewHTTPSource(rawURL string) *HTTPSource {
	if u, err := url.Parse(rawURL); err == nil && u.Scheme != "" && u.Host != "" {
		rawURL = strings.TrimRight(rawURL, "/")
	}
	return &HTTPSource{
		URL:    rawURL,
		Client: &http.Client{Timeout: httpSourceTimeout},
	}
}

func (s *HTTPSource) Load(ctx context.Context) ([]Item, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, &SourceError{Source: "http", Path: s.URL, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, &SourceError{Source: "http", Path: s.URL, Err: fmt.Errorf("%w: %v", ErrSourceUnavailable, err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, &SourceError{Source: "http", Path: s.URL, Err: fmt.Errorf("%w: status=%d", ErrSourceBadStatus, resp.StatusCode)}
	}

	var doc Document
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxDocumentBytes)).Decode(&doc); err != nil {
		return nil, &SourceError{Source: "http", Path: s.URL, Err: err}
	}

	items, err := Items(doc.Items)
	if err != nil {
		return nil, &SourceError{Source: "http", Path: s.URL, Err: err}
	}
	return items, nil
}
