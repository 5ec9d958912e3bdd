// Package fetch implements a retrying HTTP client with a fixed user-agent
// identity and optional per-attempt proxy rotation.
package fetch

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/webgrab/webgrab/pkg/proxy"
)

// ErrRetriesExhausted is returned when every attempt received a non-200
// response without a transport error. It is distinguishable from a
// transport failure, which is returned wrapped instead.
var ErrRetriesExhausted = errors.New("retries exhausted")

const (
	defaultRetries    = 3
	defaultRetryDelay = 2 * time.Second
)

// Request describes a single fetch.
type Request struct {
	URL string

	// Headers are added to the outgoing request. A caller-supplied
	// User-Agent entry is overridden by the client's fixed identity.
	Headers map[string]string

	// Body is attached to POST requests only.
	Body []byte

	// UseProxy requests a fresh proxy credential for every attempt.
	UseProxy bool

	// Retries is the maximum number of attempts. Defaults to 3.
	Retries int
}

// Response holds the outcome of a successful fetch.
type Response struct {
	StatusCode int
	Body       []byte
	Headers    http.Header
}

// JSON decodes the response body into v.
func (r *Response) JSON(v any) error {
	return json.Unmarshal(r.Body, v)
}

// TransportFactory builds the transport for a single attempt. proxyURL is
// nil when the attempt must bypass any proxy, including the environment's.
type TransportFactory func(proxyURL *url.URL) http.RoundTripper

// Client issues GET and POST requests with a fixed user-agent, retrying
// failed attempts up to the request's retry budget. Calls are independent
// and safe for concurrent use.
type Client struct {
	userAgent  string
	proxies    proxy.Source
	logger     *zap.Logger
	retryDelay time.Duration
	transport  TransportFactory
}

type Option func(*Client)

// WithProxySource sets the source of per-attempt proxy credentials.
func WithProxySource(source proxy.Source) Option {
	return func(c *Client) {
		c.proxies = source
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithRetryDelay sets the sleep between transport-error retries.
// Soft failures (non-200 responses) retry without sleeping.
func WithRetryDelay(delay time.Duration) Option {
	return func(c *Client) {
		c.retryDelay = delay
	}
}

// WithTransportFactory replaces the transport built for each attempt.
func WithTransportFactory(factory TransportFactory) Option {
	return func(c *Client) {
		c.transport = factory
	}
}

func New(userAgent string, opts ...Option) *Client {
	c := &Client{
		userAgent:  userAgent,
		logger:     zap.NewNop(),
		retryDelay: defaultRetryDelay,
		transport:  defaultTransport,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func defaultTransport(proxyURL *url.URL) http.RoundTripper {
	transport := &http.Transport{}
	if proxyURL != nil {
		transport.Proxy = http.ProxyURL(proxyURL)
	}
	return transport
}

// Get fetches url with GET and returns the response on status 200.
func (c *Client) Get(ctx context.Context, req *Request) (*Response, error) {
	return c.do(ctx, http.MethodGet, req)
}

// Post fetches url with POST, attaching the request body, and returns the
// response on status 200.
func (c *Client) Post(ctx context.Context, req *Request) (*Response, error) {
	return c.do(ctx, http.MethodPost, req)
}

func (c *Client) do(ctx context.Context, method string, req *Request) (*Response, error) {
	target, err := url.Parse(req.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %w", err)
	}
	if target.Scheme != "http" && target.Scheme != "https" {
		return nil, fmt.Errorf("unsupported scheme: %q", target.Scheme)
	}
	retries := req.Retries
	if retries <= 0 {
		retries = defaultRetries
	}
	var lastStatus int
	for attempt := 1; attempt <= retries; attempt++ {
		resp, err := c.attempt(ctx, method, target, req)
		if err != nil {
			if attempt == retries {
				return nil, fmt.Errorf("request failed after %d attempts: %w", retries, err)
			}
			c.logger.Warn(
				"Request failed, retrying",
				zap.String("url", req.URL),
				zap.Int("attempt", attempt),
				zap.Error(err),
			)
			select {
			case <-time.After(c.retryDelay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
			continue
		}
		if resp.StatusCode == http.StatusOK {
			return resp, nil
		}

		// Soft failure: log and retry immediately, without sleeping.
		lastStatus = resp.StatusCode
		c.logger.Warn(
			"Unexpected response status",
			zap.String("url", req.URL),
			zap.Int("attempt", attempt),
			zap.Int("status", resp.StatusCode),
		)
	}
	return nil, fmt.Errorf("%w: last status %d", ErrRetriesExhausted, lastStatus)
}

func (c *Client) attempt(
	ctx context.Context,
	method string,
	target *url.URL,
	req *Request,
) (*Response, error) {
	// Acquisition failure downgrades the attempt to proxyless rather than
	// failing it.
	var proxyURL *url.URL
	if req.UseProxy && c.proxies != nil {
		credential, err := c.proxies.Fresh(ctx)
		if err != nil {
			c.logger.Warn("Failed to acquire proxy, proceeding without", zap.Error(err))
		} else if proxyURL, err = credential.URL(target.Scheme); err != nil {
			c.logger.Warn("Invalid proxy credential, proceeding without", zap.Error(err))
			proxyURL = nil
		}
	}

	var body io.Reader
	if method == http.MethodPost && req.Body != nil {
		body = bytes.NewReader(req.Body)
	}
	httpReq, err := http.NewRequestWithContext(ctx, method, target.String(), body)
	if err != nil {
		return nil, err
	}
	for key, value := range req.Headers {
		httpReq.Header.Set(key, value)
	}
	httpReq.Header.Set("User-Agent", c.userAgent)

	client := &http.Client{Transport: c.transport(proxyURL)}
	resp, err := client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	return &Response{
		StatusCode: resp.StatusCode,
		Body:       data,
		Headers:    resp.Header,
	}, nil
}
