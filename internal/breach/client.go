// Package breach checks passwords against a breached-password corpus using
// the k-anonymity range API: only the first five hex characters of the
// password's SHA-1 hash ever leave the process.
package breach

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL = "https://api.pwnedpasswords.com"
	DefaultTimeout = 5 * time.Second

	prefixLength = 5
	maxBodyBytes = 4 << 20
	userAgent    = "pwcheck-go"
)

var (
	ErrUnexpectedStatus = errors.New("unexpected breach api status")
	ErrRequestFailed    = errors.New("breach api request failed")
)

// Result is the outcome of a range lookup.
type Result struct {
	Leaked bool
	// Count is how often the password appears in the corpus, as reported by
	// the matching range record.
	Count int
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client. The client is used as is;
// WithTimeout does not modify it.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithTimeout sets the per-request timeout of the default HTTP client. It has
// no effect when WithHTTPClient supplies the client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithRateLimit throttles outbound range requests to rps per second with the
// given burst.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithCache keeps up to size range responses in memory for ttl. A size of
// zero or less disables caching.
func WithCache(size int, ttl time.Duration) Option {
	return func(c *Client) {
		if size <= 0 {
			c.cache = nil
			return
		}
		c.cache = expirable.NewLRU[string, string](size, nil, ttl)
	}
}

// WithPadding asks the API to pad responses with fake zero-count records so
// response size does not reveal the prefix. Matches with a count of exactly
// zero are ignored.
func WithPadding() Option {
	return func(c *Client) {
		c.padding = true
	}
}

// Client queries a breach range endpoint.
type Client struct {
	baseURL string
	http    *http.Client
	timeout time.Duration
	limiter *rate.Limiter
	cache   *expirable.LRU[string, string]
	padding bool
}

// NewClient creates a Client for the range API rooted at baseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.http == nil {
		c.http = &http.Client{Timeout: c.timeout}
	}
	return c
}

// IsLeaked reports whether the password appears in the breach corpus.
// Any failure to reach or read the endpoint is logged and reported as not
// leaked, so lookups fail open.
func (c *Client) IsLeaked(ctx context.Context, password string) bool {
	res, err := c.Lookup(ctx, password)
	if err != nil {
		slog.Warn("breach lookup failed, treating password as not leaked", "error", err)
		return false
	}
	return res.Leaked
}

// Lookup performs the range query for the password and matches the returned
// suffixes locally.
func (c *Client) Lookup(ctx context.Context, password string) (Result, error) {
	prefix, suffix := RangeKey(password)

	body, err := c.fetchRange(ctx, prefix)
	if err != nil {
		return Result{}, err
	}

	return c.match(body, suffix), nil
}

// RangeKey splits the uppercase hex SHA-1 of the password into the 5-character
// prefix sent to the API and the 35-character suffix matched locally.
func RangeKey(password string) (prefix, suffix string) {
	sum := sha1.Sum([]byte(password))
	digest := strings.ToUpper(hex.EncodeToString(sum[:]))
	return digest[:prefixLength], digest[prefixLength:]
}

func (c *Client) fetchRange(ctx context.Context, prefix string) (string, error) {
	if c.cache != nil {
		if body, ok := c.cache.Get(prefix); ok {
			return body, nil
		}
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return "", fmt.Errorf("waiting for rate limiter: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/range/"+prefix, nil)
	if err != nil {
		return "", fmt.Errorf("building range request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	if c.padding {
		req.Header.Set("Add-Padding", "true")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrRequestFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", fmt.Errorf("%w: reading body: %w", ErrRequestFailed, err)
	}
	body := string(raw)

	if c.cache != nil {
		c.cache.Add(prefix, body)
	}

	return body, nil
}

// match scans SUFFIX:COUNT records. The suffix part is whitespace-trimmed and
// compared case-sensitively. A count that does not parse still marks the
// password leaked, with Count 0.
func (c *Client) match(body, suffix string) Result {
	for _, line := range strings.Split(body, "\n") {
		candidate, count, _ := strings.Cut(line, ":")
		if strings.TrimSpace(candidate) != suffix {
			continue
		}

		n, err := strconv.Atoi(strings.TrimSpace(count))
		if err != nil {
			return Result{Leaked: true}
		}
		if c.padding && n == 0 {
			continue
		}
		return Result{Leaked: true, Count: n}
	}
	return Result{}
}
