package apod

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// PictureFetcher is the subset of *Client the gateway depends on.
type PictureFetcher interface {
	Picture(ctx context.Context, date time.Time) (*Picture, error)
	Download(ctx context.Context, rawURL string, w io.Writer) (int64, error)
}

// Ensure Client implements PictureFetcher at compile time.
var _ PictureFetcher = (*Client)(nil)

// Client talks to the APOD HTTP API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	apiKey    string
	userAgent string
	limiter   *rate.Limiter

	mu        sync.Mutex
	remaining int
}

// Options configure a Client. Zero values use defaults.
type Options struct {
	BaseURL           string
	APIKey            string
	Timeout           time.Duration
	RequestsPerSecond float64
	HTTPClient        *http.Client
}

const (
	DefaultBaseURL    = "https://api.nasa.gov"
	DefaultAPIKey     = "DEMO_KEY"
	defaultUserAgent  = "stargazer/0.1"
	defaultTimeout    = 30 * time.Second
	picturePath       = "/planetary/apod"
	headerRemaining   = "X-RateLimit-Remaining"
	maxErrorBodyBytes = 64 * 1024
)

// NewClient builds a Client from opts.
func NewClient(opts Options) (*Client, error) {
	base, err := parseBaseURL(opts.BaseURL)
	if err != nil {
		return nil, err
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	apiKey := strings.TrimSpace(opts.APIKey)
	if apiKey == "" {
		apiKey = DefaultAPIKey
	}

	limit := rate.Inf
	if opts.RequestsPerSecond > 0 {
		limit = rate.Limit(opts.RequestsPerSecond)
	}

	return &Client{
		baseURL:   base,
		http:      httpClient,
		apiKey:    apiKey,
		userAgent: defaultUserAgent,
		limiter:   rate.NewLimiter(limit, 1),
		remaining: -1,
	}, nil
}

// Picture retrieves the entry published on date.
func (c *Client) Picture(ctx context.Context, date time.Time) (*Picture, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("wait for rate limiter: %w", err)
	}

	values := url.Values{}
	values.Set("api_key", c.apiKey)
	values.Set("date", FormatDate(date))
	values.Set("thumbs", "false")
	rel := &url.URL{Path: picturePath, RawQuery: values.Encode()}

	var payload Picture
	if err := c.doJSON(ctx, c.baseURL.ResolveReference(rel), &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// Download streams the resource at rawURL into w and returns the byte count.
func (c *Client) Download(ctx context.Context, rawURL string, w io.Writer) (int64, error) {
	if c == nil {
		return 0, fmt.Errorf("client is nil")
	}
	target, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || target.Host == "" {
		return 0, fmt.Errorf("invalid image url %q", rawURL)
	}

	resp, err := c.send(ctx, target, "*/*")
	if err != nil {
		return 0, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return 0, &APIError{Status: resp.StatusCode, Message: "image download failed: " + http.StatusText(resp.StatusCode)}
	}
	n, err := io.Copy(w, resp.Body)
	if err != nil {
		return n, fmt.Errorf("copy image body: %w", err)
	}
	return n, nil
}

// RateRemaining returns the last X-RateLimit-Remaining value seen, or -1.
func (c *Client) RateRemaining() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.remaining
}

func (c *Client) doJSON(ctx context.Context, target *url.URL, dest any) error {
	resp, err := c.send(ctx, target, "application/json")
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	c.trackRemaining(resp)

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		return decodeAPIError(resp.StatusCode, body)
	}
	if dest == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) send(ctx context.Context, target *url.URL, accept string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", accept)
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	return resp, nil
}

func (c *Client) trackRemaining(resp *http.Response) {
	raw := resp.Header.Get(headerRemaining)
	if raw == "" {
		return
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return
	}
	c.mu.Lock()
	c.remaining = n
	c.mu.Unlock()
}

func parseBaseURL(raw string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		trimmed = DefaultBaseURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "https://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse base_url %q: %w", raw, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("parse base_url %q: missing host", raw)
	}
	u.Path = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
