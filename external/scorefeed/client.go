package scorefeed

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/hafizln/matchprobe/internal/platform/logging"
	"github.com/hafizln/matchprobe/internal/platform/rawtree"
	"github.com/hafizln/matchprobe/internal/platform/resilience"
	"github.com/hafizln/matchprobe/internal/usecase"
)

const (
	defaultMaxRetries  = 2
	defaultBackoffBase = 500 * time.Millisecond
	defaultBackoffStep = time.Second
	maxResponseBytes   = 6 << 20
)

var errFeedTransient = crerr.New("scorefeed transient failure")

// FetchError is the terminal outcome of a fetch after retries are exhausted
// or a non-retryable status was returned.
type FetchError struct {
	URL        string
	StatusCode int
	Snippet    string
}

func (e *FetchError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("fetch %s: status=%d body=%s", e.URL, e.StatusCode, e.Snippet)
	}
	return fmt.Sprintf("fetch %s: %s", e.URL, e.Snippet)
}

// TextResult carries a fetched page plus the URL the provider finally served
// after redirects; the resolver re-parses that URL for a match id.
type TextResult struct {
	Body     []byte
	FinalURL string
}

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	PageBaseURL    string
	ListingURL     string
	UserAgent      string
	Timeout        time.Duration
	MaxRetries     int
	BackoffBase    time.Duration
	BackoffStep    time.Duration
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client fetches provider payloads with bounded retries, a politeness-aware
// backoff and a circuit breaker. It keeps no state between calls beyond the
// breaker and in-flight deduplication.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	pageBaseURL    string
	listingURL     string
	userAgent      string
	maxRetries     int
	backoffBase    time.Duration
	backoffStep    time.Duration
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	flight         resilience.SingleFlight
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

	maxRetries := cfg.MaxRetries
	if maxRetries < 0 {
		maxRetries = defaultMaxRetries
	}
	backoffBase := cfg.BackoffBase
	if backoffBase <= 0 {
		backoffBase = defaultBackoffBase
	}
	backoffStep := cfg.BackoffStep
	if backoffStep <= 0 {
		backoffStep = defaultBackoffStep
	}

	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Client{
		httpClient:     httpClient,
		baseURL:        strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		pageBaseURL:    strings.TrimRight(strings.TrimSpace(cfg.PageBaseURL), "/"),
		listingURL:     strings.TrimRight(strings.TrimSpace(cfg.ListingURL), "/"),
		userAgent:      strings.TrimSpace(cfg.UserAgent),
		maxRetries:     maxRetries,
		backoffBase:    backoffBase,
		backoffStep:    backoffStep,
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
	}
}

// MatchDetails calls the primary structured endpoint for one match id.
func (c *Client) MatchDetails(ctx context.Context, matchID int64) (rawtree.Value, error) {
	url := fmt.Sprintf("%s?matchId=%d", c.baseURL, matchID)
	body, err := c.get(ctx, url, "application/json")
	if err != nil {
		return rawtree.Absent, err
	}
	root, err := rawtree.Decode(body)
	if err != nil {
		return rawtree.Absent, fmt.Errorf("decode match details: %w", err)
	}
	return root, nil
}

// ListingByDate calls the date-indexed listing endpoint for one UTC day.
func (c *Client) ListingByDate(ctx context.Context, day time.Time) (rawtree.Value, error) {
	url := fmt.Sprintf("%s?date=%s", c.listingURL, day.UTC().Format("20060102"))
	body, err := c.get(ctx, url, "application/json")
	if err != nil {
		return rawtree.Absent, err
	}
	root, err := rawtree.Decode(body)
	if err != nil {
		return rawtree.Absent, fmt.Errorf("decode listing: %w", err)
	}
	return root, nil
}

// GetText fetches a page and reports the post-redirect URL alongside the body.
func (c *Client) GetText(ctx context.Context, url string) (TextResult, error) {
	return c.execute(ctx, url, "text/html,application/xhtml+xml")
}

// MatchPageURL builds the canonical page URL for a discovered match id.
func (c *Client) MatchPageURL(matchID int64) string {
	return fmt.Sprintf("%s/match/%d", c.pageBaseURL, matchID)
}

func (c *Client) get(ctx context.Context, url, accept string) ([]byte, error) {
	out, err, _ := c.flight.Do(url, func() (any, error) {
		res, reqErr := c.execute(ctx, url, accept)
		if reqErr != nil {
			return nil, reqErr
		}
		return res.Body, nil
	})
	if err != nil {
		return nil, err
	}

	body, ok := out.([]byte)
	if !ok {
		return nil, fmt.Errorf("unexpected response payload type %T", out)
	}
	return body, nil
}

func (c *Client) execute(ctx context.Context, url, accept string) (TextResult, error) {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "scorefeed circuit breaker rejected request", "state", c.breaker.State())
			return TextResult{}, fmt.Errorf("%w: provider is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
	}

	res, err := c.attemptLoop(ctx, url, accept)
	if c.circuitEnabled {
		if err != nil && isCircuitFailure(err) {
			c.breaker.RecordFailure()
		} else {
			c.breaker.RecordSuccess()
		}
	}
	return res, err
}

// attemptLoop runs up to maxRetries+1 attempts with increasing backoff.
// Network errors, retryable statuses and empty bodies retry; anything else is
// terminal immediately.
func (c *Client) attemptLoop(ctx context.Context, url, accept string) (TextResult, error) {
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return TextResult{}, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("Accept", accept)
		if c.userAgent != "" {
			req.Header.Set("User-Agent", c.userAgent)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%w: send request: %v", errFeedTransient, err)
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
			finalURL := url
			if resp.Request != nil && resp.Request.URL != nil {
				finalURL = resp.Request.URL.String()
			}
			_ = resp.Body.Close()

			switch {
			case readErr != nil:
				lastErr = fmt.Errorf("%w: read response body: %v", errFeedTransient, readErr)
			case resp.StatusCode < 200 || resp.StatusCode >= 300:
				fetchErr := &FetchError{URL: url, StatusCode: resp.StatusCode, Snippet: abbreviateBody(raw)}
				if !isRetryableStatus(resp.StatusCode) {
					return TextResult{}, fetchErr
				}
				lastErr = fmt.Errorf("%w: %v", errFeedTransient, fetchErr)
			case len(strings.TrimSpace(string(raw))) == 0:
				lastErr = fmt.Errorf("%w: %v", errFeedTransient, &FetchError{URL: url, StatusCode: resp.StatusCode, Snippet: "empty body"})
			default:
				return TextResult{Body: raw, FinalURL: finalURL}, nil
			}
		}

		if attempt == c.maxRetries {
			break
		}

		delay := c.backoffBase + time.Duration(attempt+1)*c.backoffStep
		c.logger.DebugContext(ctx, "scorefeed fetch retry", "url", url, "attempt", attempt+1, "delay", delay, "error", lastErr)

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return TextResult{}, ctx.Err()
		case <-timer.C:
		}
	}

	return TextResult{}, lastErr
}

func isCircuitFailure(err error) bool {
	if err == nil {
		return false
	}
	return stderrors.Is(err, errFeedTransient)
}

func isRetryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

func abbreviateBody(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) <= 240 {
		return text
	}
	return text[:240] + "..."
}
