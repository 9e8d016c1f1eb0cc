// Package apiclient posts bank statements to the SpendPilot analysis backend.
package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"github.com/spendpilot/spendpilot/internal/logger"
	"github.com/spendpilot/spendpilot/internal/model"
	"github.com/spendpilot/spendpilot/internal/source"
)

const (
	// DefaultTimeout bounds one analysis request end to end.
	DefaultTimeout = 1200 * time.Second
	healthTimeout  = 10 * time.Second
	maxBodySize    = 32 << 20 // 32 MB
	fileField      = "file"
	userAgent      = "spendpilot-cli/1.0"
)

// ErrRequestFailed wraps transport-level failures: the request never
// produced an HTTP response.
var ErrRequestFailed = errors.New("apiclient: request failed")

// Client is a thin wrapper over net/http bound to one backend base URL.
// Each call makes exactly one attempt.
type Client struct {
	baseURL    string
	timeout    time.Duration
	http       *http.Client
	onResponse func(*http.Response)
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithResponseHook replaces the hook run on every response before its status
// is inspected.
func WithResponseHook(fn func(*http.Response)) Option {
	return func(c *Client) { c.onResponse = fn }
}

// NewClient creates a client for baseURL. A non-positive timeout selects
// DefaultTimeout.
func NewClient(baseURL string, timeout time.Duration, opts ...Option) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	c := &Client{
		baseURL:    strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		timeout:    timeout,
		http:       &http.Client{},
		onResponse: logUnauthorized,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// BaseURL returns the backend URL without a trailing slash.
func (c *Client) BaseURL() string { return c.baseURL }

// logUnauthorized is the default response hook.
func logUnauthorized(resp *http.Response) {
	if resp.StatusCode == http.StatusUnauthorized {
		logger.FromContext(resp.Request.Context()).Warn("backend rejected request as unauthorized",
			"url", resp.Request.URL.String())
	}
}

// UploadStatement streams stmt as multipart/form-data to
// {base}/analyze-statement and decodes the analysis.
func (c *Client) UploadStatement(ctx context.Context, stmt *source.Statement) (*model.AnalysisResult, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	body, contentType := multipartBody(stmt)
	defer func() { _ = body.Close() }()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/analyze-statement", body)
	if err != nil {
		return nil, fmt.Errorf("apiclient: creating request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	data, err := c.do(req)
	if err != nil {
		return nil, err
	}

	var result model.AnalysisResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("apiclient: parsing analysis: %w", err)
	}
	return &result, nil
}

// HealthStatus is the backend's /health payload.
type HealthStatus struct {
	Status    string `json:"status"`
	Service   string `json:"service"`
	Version   string `json:"version"`
	Timestamp string `json:"timestamp"`
}

// Health queries {base}/health.
func (c *Client) Health(ctx context.Context) (*HealthStatus, error) {
	ctx, cancel := context.WithTimeout(ctx, healthTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return nil, fmt.Errorf("apiclient: creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	data, err := c.do(req)
	if err != nil {
		return nil, err
	}
	var hs HealthStatus
	if err := json.Unmarshal(data, &hs); err != nil {
		return nil, fmt.Errorf("apiclient: parsing health: %w", err)
	}
	return &hs, nil
}

// do sends req once and returns the bounded response body of a 2xx reply.
func (c *Client) do(req *http.Request) ([]byte, error) {
	resp, err := c.http.Do(req) //nolint:gosec // URL is the configured backend
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, context.Canceled
		}
		return nil, fmt.Errorf("%w: %w", ErrRequestFailed, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if c.onResponse != nil {
		c.onResponse(resp)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, context.Canceled
		}
		return nil, fmt.Errorf("apiclient: reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{Status: resp.StatusCode, Detail: parseDetail(body)}
	}
	return body, nil
}

// multipartBody returns a reader producing the form and its content type.
// The form is written concurrently through a pipe so the file is never
// buffered whole. Closing the reader stops the writer.
func multipartBody(stmt *source.Statement) (io.ReadCloser, string) {
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		pw.CloseWithError(writeForm(mw, stmt))
	}()
	return pr, mw.FormDataContentType()
}

func writeForm(mw *multipart.Writer, stmt *source.Statement) error {
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name="%s"; filename="%s"`, fileField, escapeQuotes(stmt.Name)))
	ct := stmt.ContentType
	if ct == "" {
		ct = "application/octet-stream"
	}
	h.Set("Content-Type", ct)

	part, err := mw.CreatePart(h)
	if err != nil {
		return err
	}
	f, err := stmt.Open()
	if err != nil {
		return fmt.Errorf("apiclient: opening statement: %w", err)
	}
	defer func() { _ = f.Close() }()

	if _, err := io.Copy(part, f); err != nil {
		return err
	}
	return mw.Close()
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}

// IsTimeout reports whether err is a client-side timeout.
func IsTimeout(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
