// internal/fetch/client.go
//
// Package fetch implements the crawler's fetcher (C5): given a URL, it
// performs at most one HTTP GET and reports the outcome as a Result.
// Retrying a failed or retryable-status fetch is not this package's
// job — that decision belongs to the classifier and the worker loop,
// which may hand the same URL back to Fetch on a later attempt.
package fetch

import (
	"bytes"
	"compress/flate"
	"compress/gzip"
	"context"
	"crypto/tls"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/andybalholm/brotli"

	"github.com/leih66181-lang/aio-crawler/internal/config"
	"github.com/leih66181-lang/aio-crawler/internal/errors"
	"github.com/leih66181-lang/aio-crawler/internal/log"
	"github.com/leih66181-lang/aio-crawler/internal/version"
)

var userAgent = "aio-crawler/" + version.Version

// soft404Markers are byte sequences that, when present in an otherwise
// 2xx/3xx body, indicate the origin served a "not found" page without
// an HTTP status to match.
var soft404Markers = [][]byte{
	[]byte("404 Not Found"),
	[]byte("<title>404"),
}

// Client fetches URLs subject to a global and per-host concurrency
// limit. A single Client is shared by every worker goroutine.
type Client struct {
	cfg     *config.Config
	logger  log.Logger
	http    *http.Client
	limiter *hostLimiter
}

// New constructs a Client from cfg. It owns one underlying http.Client
// for the lifetime of the process so connections are pooled across
// fetches.
func New(cfg *config.Config, logger log.Logger) *Client {
	dialer := &net.Dialer{Timeout: 5 * time.Second}

	transport := &http.Transport{
		DialContext:         dialer.DialContext,
		MaxIdleConns:        cfg.ConnectLimit * 2,
		MaxIdleConnsPerHost: maxInt(cfg.LimitPerHost, 2),
		IdleConnTimeout:     60 * time.Second,
		DisableCompression:  true, // this package negotiates and decodes encodings itself
		TLSClientConfig:     &tls.Config{InsecureSkipVerify: true},
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Client{
		cfg:     cfg,
		logger:  logger,
		http:    &http.Client{Transport: transport, Timeout: timeout},
		limiter: newHostLimiter(cfg.ConnectLimit, cfg.LimitPerHost),
	}
}

// Fetch performs exactly one HTTP GET of rawURL. A nil error with
// Result.Status == nil means no response was obtained at all (DNS
// failure, connection reset, timeout, or a context canceled during the
// request) — the caller treats that as a null-status outcome, not as a
// fatal error. Fetch returns a non-nil error only when it never sends
// the request: an unparseable URL, a request that cannot be built, or
// a context canceled while waiting for a concurrency slot.
func (c *Client) Fetch(ctx context.Context, rawURL string, lightMode bool) (*Result, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return nil, errors.New(errors.KindFetch, "invalid URL", err)
	}
	host := parsed.Host

	if err := c.limiter.acquire(ctx, host); err != nil {
		return nil, errors.New(errors.KindFetch, "acquiring concurrency slot failed", err)
	}
	defer c.limiter.release(host)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, errors.New(errors.KindFetch, "creating request failed", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Accept-Encoding", "gzip, deflate, br")

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Debugf("fetch: transport error for %s: %v", rawURL, err)
		return &Result{OK: false}, nil
	}
	defer resp.Body.Close()

	raw, err := readDecoded(resp.Body, resp.Header.Get("Content-Encoding"))
	if err != nil {
		c.logger.Debugf("fetch: reading body for %s: %v", rawURL, err)
		return &Result{OK: false}, nil
	}

	status := resp.StatusCode
	ok := status < 400 && !hasSoft404(raw)

	result := &Result{OK: ok, Status: &status}
	if lightMode {
		result.HTMLLen = len(raw)
		return result, nil
	}
	result.HTML = decodeBody(raw, resp.Header.Get("Content-Type"))
	return result, nil
}

// readDecoded drains body, undoing the Content-Encoding the origin
// applied. An unrecognized encoding is passed through unchanged rather
// than treated as an error, since the raw bytes are still usable for
// the soft-404 scan even if they can't be decompressed.
func readDecoded(body io.Reader, contentEncoding string) ([]byte, error) {
	switch contentEncoding {
	case "gzip":
		gz, err := gzip.NewReader(body)
		if err != nil {
			return io.ReadAll(body)
		}
		defer gz.Close()
		return io.ReadAll(gz)
	case "deflate":
		fr := flate.NewReader(body)
		defer fr.Close()
		return io.ReadAll(fr)
	case "br":
		return io.ReadAll(brotli.NewReader(body))
	default:
		return io.ReadAll(body)
	}
}

func hasSoft404(body []byte) bool {
	for _, marker := range soft404Markers {
		if bytes.Contains(body, marker) {
			return true
		}
	}
	return false
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
