package pagespeed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"
)

const (
	DefaultBaseURL = "https://www.googleapis.com/pagespeedonline/v5/runPagespeed"
	defaultTimeout = 60 * time.Second

	// DefaultMaxBodySize caps how much of an upstream response is read.
	// Lighthouse reports are typically a few hundred kilobytes.
	DefaultMaxBodySize int64 = 32 << 20
)

type Options struct {
	BaseURL    string
	APIKey     string
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *zap.Logger
	LogURLs    bool
	MaxBody    int64
}

type Option func(*Options)

func WithBaseURL(u string) Option {
	return func(o *Options) {
		o.BaseURL = u
	}
}

func WithAPIKey(key string) Option {
	return func(o *Options) {
		o.APIKey = key
	}
}

func WithTimeout(d time.Duration) Option {
	return func(o *Options) {
		o.Timeout = d
	}
}

func WithMaxBodySize(n int64) Option {
	return func(o *Options) {
		o.MaxBody = n
	}
}

// WithHTTPClient overrides the transport; the timeout option is ignored then.
func WithHTTPClient(c *http.Client) Option {
	return func(o *Options) {
		o.HTTPClient = c
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(o *Options) {
		o.Logger = logger
	}
}

func WithURLLogging(enabled bool) Option {
	return func(o *Options) {
		o.LogURLs = enabled
	}
}

// Client runs accessibility-only PageSpeed analyses.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	logger  *zap.Logger
	logURLs bool
	maxBody int64
}

func New(opts ...Option) (*Client, error) {
	options := &Options{
		BaseURL: DefaultBaseURL,
		Timeout: defaultTimeout,
		MaxBody: DefaultMaxBodySize,
	}

	for _, opt := range opts {
		opt(options)
	}

	if _, err := url.ParseRequestURI(options.BaseURL); err != nil {
		return nil, fmt.Errorf("invalid pagespeed base url %q: %w", options.BaseURL, err)
	}
	if options.Timeout <= 0 {
		options.Timeout = defaultTimeout
	}
	if options.MaxBody <= 0 {
		options.MaxBody = DefaultMaxBodySize
	}

	httpClient := options.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: options.Timeout}
	}

	logger := options.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		baseURL: options.BaseURL,
		apiKey:  options.APIKey,
		http:    httpClient,
		logger:  logger.Named("pagespeed"),
		logURLs: options.LogURLs,
		maxBody: options.MaxBody,
	}, nil
}

// RequestURL builds the upstream URL for one strategy.
func (c *Client) RequestURL(target string, strategy Strategy) string {
	q := url.Values{}
	q.Set("category", AccessibilityCategory)
	q.Set("url", target)
	q.Set("key", c.apiKey)
	q.Set("strategy", string(strategy))
	return c.baseURL + "?" + q.Encode()
}

// Fetch returns the raw upstream body for target analysed with strategy.
// Any transport failure or non-2xx status is returned as *UpstreamError.
func (c *Client) Fetch(ctx context.Context, target string, strategy Strategy) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.RequestURL(target, strategy), nil)
	if err != nil {
		return nil, fmt.Errorf("build pagespeed request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	if c.logURLs {
		c.logger.Info("fetching report",
			zap.String("target", target),
			zap.String("strategy", string(strategy)))
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &UpstreamError{Strategy: strategy, Body: quote(err.Error()), cause: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody+1))
	if err == nil && int64(len(body)) > c.maxBody {
		err = ErrResponseTooLarge
	}
	if err != nil {
		return nil, &UpstreamError{
			Strategy:   strategy,
			StatusCode: resp.StatusCode,
			Body:       quote(err.Error()),
			cause:      fmt.Errorf("read pagespeed response: %w", err),
		}
	}

	c.logger.Debug("upstream responded",
		zap.String("strategy", string(strategy)),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &UpstreamError{
			Strategy:   strategy,
			StatusCode: resp.StatusCode,
			Body:       bodyOrMessage(body, resp.Status),
		}
	}

	return json.RawMessage(body), nil
}

func bodyOrMessage(body []byte, status string) json.RawMessage {
	if len(body) > 0 && json.Valid(body) {
		return json.RawMessage(body)
	}
	if len(body) > 0 {
		return quote(string(body))
	}
	return quote(status)
}

func quote(s string) json.RawMessage {
	b, _ := json.Marshal(s)
	return b
}
