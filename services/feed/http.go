package feed

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/jiyaaat/Doctor-listings/logger"
	"github.com/jiyaaat/Doctor-listings/services/directory"
)

const DefaultFetchTimeout = 10 * time.Second

type HTTPSource struct {
	url     string
	client  *http.Client
	timeout time.Duration
	logger  logger.Logger
}

type Option func(*HTTPSource)

func WithTimeout(d time.Duration) Option {
	return func(s *HTTPSource) {
		s.timeout = d
	}
}

// WithClient replaces the default client. The timeout option is ignored then.
func WithClient(client *http.Client) Option {
	return func(s *HTTPSource) {
		s.client = client
	}
}

func NewHTTPSource(url string, logger logger.Logger, opts ...Option) *HTTPSource {
	s := &HTTPSource{
		url:     url,
		timeout: DefaultFetchTimeout,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.client == nil {
		s.client = &http.Client{
			Timeout: s.timeout,
		}
	}

	return s
}

func (s *HTTPSource) Fetch(ctx context.Context) ([]directory.Doctor, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create feed request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch doctor feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d for %s", resp.StatusCode, s.url)
	}

	return decode(resp.Body, s.logger)
}

// Close is a no-op; http.Client needs no cleanup.
func (s *HTTPSource) Close() error {
	return nil
}
