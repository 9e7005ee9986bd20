package registry

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/matzehuels/depwalk/pkg/errors"
	"github.com/matzehuels/depwalk/pkg/httputil"
	"github.com/matzehuels/depwalk/pkg/observability"
)

const (
	// DefaultTimeout bounds a single registry request.
	DefaultTimeout = 10 * time.Second

	// maxBodySize caps a registry document; large npm packuments reach tens of MB.
	maxBodySize = 128 << 20
)

// HTTPSource fetches metadata documents from an npm-compatible registry at
// GET <baseURL>/<name>.
type HTTPSource struct {
	baseURL string
	http    *http.Client
	headers map[string]string
	retry   httputil.Policy
}

// HTTPOption configures an [HTTPSource].
type HTTPOption func(*HTTPSource)

// WithHTTPClient replaces the underlying HTTP client. Its Timeout is the
// per-request timeout.
func WithHTTPClient(c *http.Client) HTTPOption {
	return func(s *HTTPSource) { s.http = c }
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) HTTPOption {
	return func(s *HTTPSource) {
		if d > 0 {
			s.http = &http.Client{Timeout: d, Transport: s.http.Transport}
		}
	}
}

// WithRetry sets the retry policy for transient failures.
func WithRetry(p httputil.Policy) HTTPOption {
	return func(s *HTTPSource) { s.retry = p }
}

// WithHeaders adds headers sent with every request.
func WithHeaders(h map[string]string) HTTPOption {
	return func(s *HTTPSource) { s.headers = h }
}

// NewHTTPSource creates a live source rooted at baseURL
// (e.g. "https://registry.npmjs.org").
func NewHTTPSource(baseURL string, opts ...HTTPOption) *HTTPSource {
	s := &HTTPSource{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		http:    &http.Client{Timeout: DefaultTimeout},
		headers: map[string]string{"Accept": "application/json"},
		retry:   httputil.DefaultPolicy,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// URL returns the document URL for a package name. The name is path-escaped
// as one segment, so scoped names become "@scope%2Fpkg".
func (s *HTTPSource) URL(name string) string {
	return s.baseURL + "/" + url.PathEscape(strings.TrimSpace(name))
}

// Fetch implements [Source]. Transport errors, timeouts, 429 and 5xx
// responses are retried per the source's policy before surfacing as
// network errors.
func (s *HTTPSource) Fetch(ctx context.Context, ref PackageRef) (*Metadata, error) {
	name := strings.TrimSpace(ref.Name)
	target := s.URL(name)

	var meta *Metadata
	err := httputil.Retry(ctx, s.retry, func() error {
		body, err := s.get(ctx, target)
		if err != nil {
			return err
		}
		m, err := DecodeMetadata(name, body)
		if err != nil {
			return err
		}
		meta = m
		return nil
	})
	if err != nil {
		if errors.GetCode(err) == "" {
			return nil, errors.NetworkError(err, "GET %s", target)
		}
		return nil, err
	}
	return meta, nil
}

func (s *HTTPSource) get(ctx context.Context, target string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, errors.NetworkError(err, "build request for %s", target)
	}
	for k, v := range s.headers {
		req.Header.Set(k, v)
	}

	hooks := observability.HTTP()
	host, path := req.URL.Host, req.URL.EscapedPath()
	hooks.OnRequest(ctx, req.Method, host, path)
	start := time.Now()

	resp, err := s.http.Do(req)
	if err != nil {
		hooks.OnError(ctx, req.Method, host, path, err)
		return nil, httputil.Retryable(errors.NetworkError(err, "GET %s", target))
	}
	defer resp.Body.Close()
	hooks.OnResponse(ctx, req.Method, host, path, resp.StatusCode, time.Since(start))

	if err := checkStatus(resp.StatusCode, target); err != nil {
		return nil, err
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		hooks.OnError(ctx, req.Method, host, path, err)
		return nil, httputil.Retryable(errors.NetworkError(err, "read %s", target))
	}
	return body, nil
}

func checkStatus(code int, target string) error {
	switch {
	case code == http.StatusOK:
		return nil
	case code == http.StatusNotFound:
		return errors.NotFoundError("no package at %s", target)
	case code == http.StatusTooManyRequests || code >= 500:
		return httputil.Retryable(errors.NetworkError(fmt.Errorf("status %d", code), "GET %s", target))
	default:
		return errors.NetworkError(fmt.Errorf("status %d", code), "GET %s", target)
	}
}
