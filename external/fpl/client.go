package fpl

import (
	"context"
	"fmt"
	"hash/fnv"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"

	"github.com/riskandar/fpl-agent/internal/platform/cache"
	"github.com/riskandar/fpl-agent/internal/platform/logging"
	"github.com/riskandar/fpl-agent/internal/platform/resilience"
	"github.com/riskandar/fpl-agent/internal/usecase"
)

const (
	defaultBaseURL      = "https://fantasy.premierleague.com/api"
	defaultBootstrapTTL = 5 * time.Minute
	maxGameweek         = 38

	// The provider rejects Go's default agent string.
	userAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36"
)

var errFPLTransient = crerr.New("fpl transient failure")

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	SessionCookie  string
	Timeout        time.Duration
	BootstrapTTL   time.Duration
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client talks to the official Fantasy Premier League API. A zero session
// cookie limits it to public endpoints; WithSession derives an
// authenticated view that shares the breaker and bootstrap cache.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	cookie         string
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	flight         *resilience.SingleFlight
	bootstrap      *cache.Store
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 20 * time.Second
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	bootstrapTTL := cfg.BootstrapTTL
	if bootstrapTTL <= 0 {
		bootstrapTTL = defaultBootstrapTTL
	}
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Client{
		httpClient:     httpClient,
		baseURL:        baseURL,
		cookie:         strings.TrimSpace(cfg.SessionCookie),
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
		flight:         &resilience.SingleFlight{},
		bootstrap:      cache.NewStore(bootstrapTTL),
	}
}

// WithSession returns a client that sends the given session cookie while
// sharing the underlying transport, breaker, and bootstrap cache.
func (c *Client) WithSession(cookie string) usecase.DataGateway {
	derived := *c
	derived.cookie = strings.TrimSpace(cookie)
	return &derived
}

func (c *Client) doJSON(ctx context.Context, path string, query url.Values, target any) error {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "fpl circuit breaker rejected request", "state", c.breaker.State())
			return fmt.Errorf("%w: fantasy data provider is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
	}

	fullURL := c.baseURL + path
	if encoded := query.Encode(); encoded != "" {
		fullURL += "?" + encoded
	}

	// Session-scoped endpoints must not collapse across different cookies.
	key := fullURL
	if c.cookie != "" {
		key += "#" + cookieFingerprint(c.cookie)
	}

	out, err, _ := c.flight.Do(key, func() (any, error) {
		raw, reqErr := c.executeRequest(ctx, fullURL)
		if c.circuitEnabled {
			if reqErr != nil && crerr.Is(reqErr, errFPLTransient) {
				c.breaker.RecordFailure()
			} else {
				c.breaker.RecordSuccess()
			}
		}
		return raw, reqErr
	})
	if err != nil {
		return err
	}

	raw, ok := out.([]byte)
	if !ok {
		return fmt.Errorf("unexpected response payload type %T", out)
	}

	if err := sonic.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("decode provider payload: %w", err)
	}

	return nil
}

// executeRequest performs exactly one attempt. Pipeline failure policy is
// fail-fast: no retry, no backoff.
func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("accept", "application/json")
	req.Header.Set("user-agent", userAgent)
	if c.cookie != "" {
		req.Header.Set("cookie", c.cookie)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		reqErr := fmt.Errorf("%w: send request: %s", errFPLTransient, sanitizeSensitiveText(err.Error(), c.cookie))
		c.logger.WarnContext(ctx, "fpl request failed", "url", fullURL, "error", reqErr)
		return nil, reqErr
	}
	defer func() { _ = resp.Body.Close() }()

	raw, readErr := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if readErr != nil {
		return nil, fmt.Errorf("%w: read response body: %v", errFPLTransient, readErr)
	}

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return raw, nil
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, fmt.Errorf("%w: provider status=%d", usecase.ErrUnauthorized, resp.StatusCode)
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: provider status=%d", usecase.ErrNotFound, resp.StatusCode)
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return nil, fmt.Errorf("%w: provider status=%d body=%s", errFPLTransient, resp.StatusCode, abbreviateBody(raw))
	default:
		return nil, fmt.Errorf("provider status=%d body=%s", resp.StatusCode, abbreviateBody(raw))
	}
}

func sanitizeSensitiveText(value, cookie string) string {
	value = strings.TrimSpace(value)
	if value == "" || cookie == "" {
		return value
	}
	return strings.ReplaceAll(value, cookie, "REDACTED")
}

func cookieFingerprint(cookie string) string {
	h := fnv.New32a()
	_, _ = h.Write([]byte(cookie))
	return fmt.Sprintf("%08x", h.Sum32())
}

func abbreviateBody(raw []byte) string {
	const limit = 256
	body := strings.TrimSpace(string(raw))
	if len(body) > limit {
		return body[:limit] + "..."
	}
	return body
}
