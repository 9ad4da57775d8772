// Package requests wraps net/http for plugins: every request gets a random
// browser User-Agent, the configured proxy and timeout, and request logging.
package requests

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/net/http2"
	"golang.org/x/net/publicsuffix"

	"github.com/KomoriDev/go-ability/config"
	"github.com/KomoriDev/go-ability/log"
)

// ErrUnsupportedMethod is returned for HTTP methods outside the supported set.
var ErrUnsupportedMethod = errors.New("unsupported http method")

var methods = map[string]struct{}{
	http.MethodGet:     {},
	http.MethodPost:    {},
	http.MethodPut:     {},
	http.MethodDelete:  {},
	http.MethodPatch:   {},
	http.MethodHead:    {},
	http.MethodOptions: {},
}

// Config holds client configuration.
type Config struct {
	// Timeout bounds each request, including reading the body. Zero disables it.
	Timeout time.Duration
	// Proxy is an http, https or socks5 proxy URL. Empty uses the environment.
	Proxy              string
	InsecureSkipVerify bool
	HTTP2              bool
	FollowRedirects    bool
	// Logger receives request logs. Nil means log.L().
	Logger *zerolog.Logger
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Timeout:         config.DefaultHTTPTimeout,
		FollowRedirects: true,
	}
}

// Client issues HTTP requests. It is safe for concurrent use.
type Client struct {
	cfg  Config
	http *http.Client
}

type redirectKey struct{}

// New creates a Client.
func New(cfg Config) (*Client, error) {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: cfg.InsecureSkipVerify}

	if cfg.Proxy != "" {
		proxyURL, err := url.Parse(cfg.Proxy)
		if err != nil {
			return nil, fmt.Errorf("invalid proxy url: %w", err)
		}
		transport.Proxy = http.ProxyURL(proxyURL)
	}

	if cfg.HTTP2 {
		if err := http2.ConfigureTransport(transport); err != nil {
			return nil, fmt.Errorf("failed to enable http2: %w", err)
		}
	} else {
		transport.ForceAttemptHTTP2 = false
		transport.TLSNextProto = map[string]func(string, *tls.Conn) http.RoundTripper{}
	}

	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}

	logger := log.L()
	if cfg.Logger != nil {
		logger = *cfg.Logger
	}
	if cfg.Proxy != "" {
		logger = logger.With().Str(log.FieldProxy, redactProxy(cfg.Proxy)).Logger()
	}

	c := &Client{cfg: cfg}
	c.http = &http.Client{
		Transport: log.NewTransport(logger, transport),
		Jar:       jar,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			follow := cfg.FollowRedirects
			if v, ok := req.Context().Value(redirectKey{}).(bool); ok {
				follow = v
			}
			if !follow {
				return http.ErrUseLastResponse
			}
			if len(via) >= 10 {
				return errors.New("stopped after 10 redirects")
			}
			return nil
		},
	}
	return c, nil
}

// FromConfig creates a Client from the shared ability settings.
func FromConfig(a *config.Ability) (*Client, error) {
	cfg := DefaultConfig()
	cfg.Proxy = a.ProxyURL
	if a.HTTPTimeout > 0 {
		cfg.Timeout = a.HTTPTimeout
	}
	logger := log.New(a.Log)
	cfg.Logger = &logger
	return New(cfg)
}

// HTTPClient returns a copy of the underlying *http.Client, sharing its
// transport and cookie jar, with Timeout set from the configuration. It does
// not add a User-Agent.
func (c *Client) HTTPClient() *http.Client {
	hc := *c.http
	hc.Timeout = c.cfg.Timeout
	return &hc
}

// Get issues a GET request.
func (c *Client) Get(ctx context.Context, rawURL string, opts ...RequestOption) (*Response, error) {
	return c.Request(ctx, http.MethodGet, rawURL, opts...)
}

// Post issues a POST request.
func (c *Client) Post(ctx context.Context, rawURL string, opts ...RequestOption) (*Response, error) {
	return c.Request(ctx, http.MethodPost, rawURL, opts...)
}

// Put issues a PUT request.
func (c *Client) Put(ctx context.Context, rawURL string, opts ...RequestOption) (*Response, error) {
	return c.Request(ctx, http.MethodPut, rawURL, opts...)
}

// Delete issues a DELETE request.
func (c *Client) Delete(ctx context.Context, rawURL string, opts ...RequestOption) (*Response, error) {
	return c.Request(ctx, http.MethodDelete, rawURL, opts...)
}

// Patch issues a PATCH request.
func (c *Client) Patch(ctx context.Context, rawURL string, opts ...RequestOption) (*Response, error) {
	return c.Request(ctx, http.MethodPatch, rawURL, opts...)
}

// Head issues a HEAD request.
func (c *Client) Head(ctx context.Context, rawURL string, opts ...RequestOption) (*Response, error) {
	return c.Request(ctx, http.MethodHead, rawURL, opts...)
}

// Options issues an OPTIONS request.
func (c *Client) Options(ctx context.Context, rawURL string, opts ...RequestOption) (*Response, error) {
	return c.Request(ctx, http.MethodOptions, rawURL, opts...)
}

// Request issues a request and reads the whole response body. Non-2xx
// statuses are not errors; see Response.RaiseForStatus.
func (c *Client) Request(ctx context.Context, method, rawURL string, opts ...RequestOption) (*Response, error) {
	var out *Response
	err := c.Stream(ctx, method, rawURL, func(resp *http.Response) error {
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("failed to read response body: %w", err)
		}
		out = &Response{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Header:     resp.Header,
			Cookies:    resp.Cookies(),
			URL:        resp.Request.URL,
			Body:       body,
		}
		return nil
	}, opts...)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Stream issues a request and passes the live response to fn. The body is
// closed after fn returns and must not be used afterwards. The request
// timeout covers fn.
func (c *Client) Stream(ctx context.Context, method, rawURL string, fn func(*http.Response) error, opts ...RequestOption) error {
	method = strings.ToUpper(method)
	if _, ok := methods[method]; !ok {
		return fmt.Errorf("%w: %s", ErrUnsupportedMethod, method)
	}

	o := newRequestOptions(opts)

	timeout := c.cfg.Timeout
	if o.timeout > 0 {
		timeout = o.timeout
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	if o.followRedirects != nil {
		ctx = context.WithValue(ctx, redirectKey{}, *o.followRedirects)
	}

	req, err := c.newRequest(ctx, method, rawURL, o)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to %s %s: %w", method, req.URL.Redacted(), err)
	}
	defer resp.Body.Close()

	return fn(resp)
}

func (c *Client) newRequest(ctx context.Context, method, rawURL string, o *requestOptions) (*http.Request, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid url: %w", err)
	}
	if len(o.params) > 0 {
		q := u.Query()
		for k, vs := range o.params {
			for _, v := range vs {
				q.Add(k, v)
			}
		}
		u.RawQuery = q.Encode()
	}

	body, contentType, err := o.encodeBody()
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if ua := o.header.Get("User-Agent"); ua == "" {
		agent, err := FakeUserAgent("")
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", agent)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	for k, vs := range o.header {
		req.Header[k] = vs
	}
	for _, ck := range o.cookies {
		req.AddCookie(ck)
	}

	return req, nil
}

func redactProxy(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return "invalid"
	}
	return u.Redacted()
}
