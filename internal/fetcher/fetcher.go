package fetcher

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/net/html/charset"
	"golang.org/x/net/proxy"
)

const (
	// DefaultTimeout bounds a single request including reading the body.
	DefaultTimeout = 30 * time.Second

	// DefaultUserAgent is sent with every request unless overridden.
	DefaultUserAgent = "Mozilla/5.0 (compatible; webcrawler/1.0)"

	// DefaultMaxBodySize is the number of body bytes read per page.
	DefaultMaxBodySize int64 = 5 * 1024 * 1024

	// maxRedirects is the number of redirects followed before the last
	// response is used as is.
	maxRedirects = 10
)

// HTTPFetcher downloads pages with plain HTTP GET requests.
// It satisfies crawler.Fetcher.
type HTTPFetcher struct {
	client      *http.Client
	timeout     time.Duration
	userAgent   string
	maxBodySize int64

	// proxyAddress is the SOCKS5 proxy in "host:port" form, empty for direct
	// connections. Credentials are kept in proxyAuth, never here.
	proxyAddress string
	proxyAuth    *proxy.Auth
}

// Option configures an HTTPFetcher.
type Option func(*HTTPFetcher)

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(f *HTTPFetcher) {
		f.timeout = d
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(f *HTTPFetcher) {
		f.userAgent = ua
	}
}

// WithMaxBodySize limits how many body bytes are read per page.
// Longer bodies are truncated.
func WithMaxBodySize(size int64) Option {
	return func(f *HTTPFetcher) {
		f.maxBodySize = size
	}
}

// WithHTTPClient uses client as is. Timeout and proxy options are ignored.
func WithHTTPClient(client *http.Client) Option {
	return func(f *HTTPFetcher) {
		f.client = client
	}
}

// WithSOCKS5Proxy routes every request through a SOCKS5 proxy.
// The address is "host:port" or "user:password@host:port".
func WithSOCKS5Proxy(address string) Option {
	return func(f *HTTPFetcher) {
		f.proxyAddress = address
	}
}

// New creates an HTTPFetcher.
//
// Design decision: The proxy is not contacted here. A fetcher can be built
// before the proxy is up, and connection problems show up as FetchErrors
// on the first page instead.
func New(opts ...Option) (*HTTPFetcher, error) {
	f := &HTTPFetcher{
		timeout:     DefaultTimeout,
		userAgent:   DefaultUserAgent,
		maxBodySize: DefaultMaxBodySize,
	}
	for _, opt := range opts {
		opt(f)
	}

	if f.maxBodySize <= 0 {
		f.maxBodySize = DefaultMaxBodySize
	}

	if f.proxyAddress != "" {
		address, auth, err := parseProxyAddress(f.proxyAddress)
		if err != nil {
			return nil, err
		}
		f.proxyAddress = address
		f.proxyAuth = auth
	}

	if f.client == nil {
		client, err := f.newHTTPClient()
		if err != nil {
			return nil, err
		}
		f.client = client
	}

	return f, nil
}

// ProxyAddress returns the SOCKS5 proxy address without credentials, or ""
// when requests go direct.
func (f *HTTPFetcher) ProxyAddress() string {
	return f.proxyAddress
}

// newHTTPClient builds the client used for fetching.
//
// Design decisions:
//   - No cookie jar: every request is anonymous
//   - Redirect limit is 10 to stop loops while allowing normal redirects
//   - With a proxy, all connections are dialed through it
func (f *HTTPFetcher) newHTTPClient() (*http.Client, error) {
	transport := http.DefaultTransport.(*http.Transport).Clone() //nolint:forcetypeassert // DefaultTransport is always *http.Transport
	transport.MaxIdleConnsPerHost = 2
	transport.IdleConnTimeout = 30 * time.Second

	if f.proxyAddress != "" {
		dialer, err := proxy.SOCKS5("tcp", f.proxyAddress, f.proxyAuth, proxy.Direct)
		if err != nil {
			return nil, fmt.Errorf("failed to create SOCKS5 dialer: %w", err)
		}
		transport.Proxy = nil
		if cd, ok := dialer.(proxy.ContextDialer); ok {
			transport.DialContext = cd.DialContext
		} else {
			transport.DialContext = func(_ context.Context, network, addr string) (net.Conn, error) {
				return dialer.Dial(network, addr)
			}
		}
	}

	return &http.Client{
		Transport: transport,
		Timeout:   f.timeout,
		CheckRedirect: func(_ *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				return http.ErrUseLastResponse
			}
			return nil
		},
	}, nil
}

// Fetch GETs pageURL and returns the body decoded to UTF-8.
// Transport errors and non-2xx responses are returned as *FetchError.
func (f *HTTPFetcher) Fetch(ctx context.Context, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", &FetchError{URL: pageURL, Err: err}
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", &FetchError{URL: pageURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, f.maxBodySize)) //nolint:errcheck // draining for connection reuse
		return "", &FetchError{URL: pageURL, StatusCode: resp.StatusCode, Err: ErrUnexpectedStatus}
	}

	body := io.LimitReader(resp.Body, f.maxBodySize)
	reader, err := charset.NewReader(body, resp.Header.Get("Content-Type"))
	if err != nil {
		// Unknown encoding: fall back to the raw bytes.
		reader = body
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return "", &FetchError{URL: pageURL, StatusCode: resp.StatusCode, Err: err}
	}
	return string(data), nil
}

// ValidateProxyAddress reports whether raw is a proxy address accepted by
// WithSOCKS5Proxy. It lets callers reject a bad address before building
// any fetcher.
func ValidateProxyAddress(raw string) error {
	_, _, err := parseProxyAddress(raw)
	return err
}

// parseProxyAddress splits "user:password@host:port" into the address and
// the SOCKS5 credentials. Credentials are optional.
func parseProxyAddress(raw string) (string, *proxy.Auth, error) {
	var auth *proxy.Auth
	address := raw
	if i := strings.LastIndex(raw, "@"); i >= 0 {
		userinfo := raw[:i]
		address = raw[i+1:]
		user, password, _ := strings.Cut(userinfo, ":")
		if user == "" {
			return "", nil, ErrInvalidProxyAddress
		}
		auth = &proxy.Auth{User: user, Password: password}
	}

	if !isValidProxyAddress(address) {
		return "", nil, ErrInvalidProxyAddress
	}
	return address, auth, nil
}

// isValidProxyAddress checks for "host:port" with a non-empty host and a
// port between 1 and 65535.
func isValidProxyAddress(address string) bool {
	host, port, err := net.SplitHostPort(address)
	if err != nil || host == "" {
		return false
	}
	n, err := strconv.Atoi(port)
	if err != nil {
		return false
	}
	return n >= 1 && n <= 65535
}
