package device

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	formContentType    = "application/x-www-form-urlencoded"
	maxResponseBytes   = 1 << 12 // 4 KB
	defaultPostTimeout = 10 * time.Second
)

// HTTPTransport posts telemetry with net/http.
type HTTPTransport struct {
	client *http.Client
}

// NewHTTPTransport builds a transport whose requests are bounded by timeout.
func NewHTTPTransport(timeout time.Duration) *HTTPTransport {
	if timeout <= 0 {
		timeout = defaultPostTimeout
	}
	return &HTTPTransport{client: &http.Client{Timeout: timeout}}
}

// Post sends form as the request body. Any status code is returned as-is;
// only transport failures are errors.
func (t *HTTPTransport) Post(ctx context.Context, target string, form url.Values) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, strings.NewReader(form.Encode()))
	if err != nil {
		return 0, fmt.Errorf("build telemetry request: %w", err)
	}
	req.Header.Set("Content-Type", formContentType)

	resp, err := t.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("post telemetry: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	// drain so the connection can be reused
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))
	return resp.StatusCode, nil
}
