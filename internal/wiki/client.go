package wiki

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/net/proxy"
)

// Default client settings.
const (
	// defaultUserAgent identifies wikirefs to the MediaWiki API.
	// Wikimedia's API etiquette asks for a descriptive User-Agent with
	// a contact URL; anonymous agents risk being throttled or blocked.
	defaultUserAgent = "wikirefs/1.0 (+https://github.com/wikirefs/wikirefs)"

	// defaultMaxBodySize limits response bodies to 5MB. API responses
	// are far smaller in practice; the cap guards against a misbehaving
	// endpoint streaming forever.
	defaultMaxBodySize = 5 * 1024 * 1024

	// defaultTimeout is the per-request timeout when the caller does
	// not supply its own HTTP client.
	defaultTimeout = 30 * time.Second
)

// Client talks to a single MediaWiki API endpoint.
//
// Design decision: We use a struct holding the http.Client rather than
// passing the client on each call because:
//  1. Client configuration (proxy, timeouts, headers) should be consistent
//  2. Connection pooling works better with a shared client
//  3. Easier to test with a mock server injected via WithHTTPClient
type Client struct {
	// endpoint is the full api.php URL, e.g. "https://en.wikipedia.org/w/api.php".
	endpoint string

	// httpClient performs the requests. Built internally unless injected.
	httpClient *http.Client

	// userAgent is sent with every request.
	userAgent string

	// headers are extra headers sent with every request, typically
	// auth headers for private MediaWiki installations.
	headers map[string]string

	// maxBodySize limits the response body size to prevent memory exhaustion.
	maxBodySize int64

	// timeout is used when building the internal HTTP client.
	timeout time.Duration

	// proxyAddress routes traffic through a SOCKS5 proxy when set.
	proxyAddress string

	// logger is used for request-level debug logging.
	logger *slog.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient injects a pre-built HTTP client. When set, the proxy
// and timeout options are ignored because the injected client already
// owns its transport.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithUserAgent sets a custom User-Agent header.
func WithUserAgent(ua string) ClientOption {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// WithHeaders sets extra headers sent with every API request.
func WithHeaders(headers map[string]string) ClientOption {
	return func(c *Client) {
		c.headers = headers
	}
}

// WithMaxBodySize sets the maximum response body size.
func WithMaxBodySize(size int64) ClientOption {
	return func(c *Client) {
		if size > 0 {
			c.maxBodySize = size
		}
	}
}

// WithTimeout sets the per-request timeout for the internal HTTP client.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// WithProxy routes all API traffic through a SOCKS5 proxy at the given
// "host:port" address.
func WithProxy(address string) ClientOption {
	return func(c *Client) {
		c.proxyAddress = address
	}
}

// WithLogger sets a custom logger for request-level debug output.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a client for the given MediaWiki API endpoint.
//
// The endpoint must be an absolute http or https URL pointing at
// api.php. The constructor validates the endpoint and proxy address but
// performs no network traffic.
func NewClient(endpoint string, opts ...ClientOption) (*Client, error) {
	if endpoint == "" {
		return nil, ErrNoEndpoint
	}
	u, err := url.Parse(endpoint)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, ErrInvalidEndpoint
	}

	c := &Client{
		endpoint:    endpoint,
		userAgent:   defaultUserAgent,
		maxBodySize: defaultMaxBodySize,
		timeout:     defaultTimeout,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.logger == nil {
		c.logger = slog.Default()
	}

	if c.httpClient == nil {
		httpClient, err := newHTTPClient(c.proxyAddress, c.timeout)
		if err != nil {
			return nil, err
		}
		c.httpClient = httpClient
	}

	return c, nil
}

// Endpoint returns the configured API endpoint URL.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// newHTTPClient builds an HTTP client, optionally routing through a
// SOCKS5 proxy.
//
// Design decision: We keep the connection pool small because a run
// issues at most a handful of concurrent requests against one host;
// the defaults are tuned for servers talking to many.
func newHTTPClient(proxyAddress string, timeout time.Duration) (*http.Client, error) {
	transport := &http.Transport{
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 4,
		IdleConnTimeout:     30 * time.Second,
	}

	if proxyAddress != "" {
		if !isValidProxyAddress(proxyAddress) {
			return nil, ErrInvalidProxyAddress
		}

		// nil auth because SOCKS5 proxies in front of wikis rarely
		// require credentials on the SOCKS layer itself
		dialer, err := proxy.SOCKS5("tcp", proxyAddress, nil, proxy.Direct)
		if err != nil {
			return nil, fmt.Errorf("failed to create SOCKS5 dialer: %w", err)
		}
		transport.DialContext = func(_ context.Context, network, addr string) (net.Conn, error) {
			return dialer.Dial(network, addr)
		}
	}

	return &http.Client{
		Transport: transport,
		Timeout:   timeout,
	}, nil
}

// isValidProxyAddress checks if the address is in valid "host:port" format.
// We use a simple check rather than a full URL parser because the format
// is very specific (no scheme, no path, just host and port).
func isValidProxyAddress(address string) bool {
	host, port, err := net.SplitHostPort(address)
	if err != nil {
		return false
	}
	if host == "" || port == "" {
		return false
	}

	// Port must be a number between 1 and 65535
	portNum := 0
	for _, r := range port {
		if r < '0' || r > '9' {
			return false
		}
		portNum = portNum*10 + int(r-'0')
		if portNum > 65535 {
			return false
		}
	}
	return portNum >= 1
}

// apiResponse is the subset of the MediaWiki response envelope this
// client consumes. Query is set for action=query requests, Parse for
// action=parse, and Error when the API rejects the request.
type apiResponse struct {
	BatchComplete bool         `json:"batchcomplete"`
	Continue      *apiContinue `json:"continue"`
	Query         *apiQuery    `json:"query"`
	Parse         *apiParse    `json:"parse"`
	Error         *apiError    `json:"error"`
}

// apiContinue carries pagination cursors. Only the cursor matching the
// request's list/prop is populated.
type apiContinue struct {
	Token      string `json:"continue"`
	SrOffset   int    `json:"sroffset"`
	ElContinue string `json:"elcontinue"`
}

type apiQuery struct {
	Search []apiSearchHit `json:"search"`
	Pages  []apiPage      `json:"pages"`
}

type apiSearchHit struct {
	Title string `json:"title"`
}

// apiPage is one page entry of a query response (formatversion=2).
type apiPage struct {
	PageID    int               `json:"pageid"`
	Title     string            `json:"title"`
	Missing   bool              `json:"missing"`
	Invalid   bool              `json:"invalid"`
	PageProps map[string]string `json:"pageprops"`
	ExtLinks  []apiExtLink      `json:"extlinks"`
}

type apiExtLink struct {
	URL string `json:"url"`
}

type apiParse struct {
	Title string `json:"title"`
	Text  string `json:"text"`
}

type apiError struct {
	Code string `json:"code"`
	Info string `json:"info"`
}

// do performs one GET request against the API and decodes the envelope.
// It appends the JSON format parameters, so callers only set the
// parameters specific to their action.
func (c *Client) do(ctx context.Context, params url.Values) (*apiResponse, error) {
	params.Set("format", "json")
	params.Set("formatversion", "2")

	reqURL := c.endpoint + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")
	for key, value := range c.headers {
		req.Header.Set(key, value)
	}

	c.logger.DebugContext(ctx, "mediawiki api request",
		"action", params.Get("action"),
		"query", params.Encode(),
	)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Callers classify transport errors into the outcome taxonomy
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d from MediaWiki API", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var envelope apiResponse
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("failed to decode API response: %w", err)
	}
	if envelope.Error != nil {
		return nil, fmt.Errorf("MediaWiki API error %s: %s", envelope.Error.Code, envelope.Error.Info)
	}

	return &envelope, nil
}
