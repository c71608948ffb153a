package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/signalwatch/signalwatch/internal/ratelimit"
)

// Default client settings.
const (
	// DefaultBaseURL is the public corporate registry API endpoint.
	DefaultBaseURL = "https://api.company-information.service.gov.uk"

	// DefaultMaxRetries is the attempt ceiling for transient failures.
	// Three attempts covers momentary network blips without stalling a
	// crawl on a genuinely unreachable resource.
	DefaultMaxRetries = 3

	// DefaultRetryDelay is the base delay between retries. Backoff is
	// linear: attempt n waits n times this value.
	DefaultRetryDelay = 2 * time.Second

	// DefaultUserAgent identifies SignalWatch in HTTP requests.
	DefaultUserAgent = "SignalWatch/2.0 (+https://github.com/signalwatch/signalwatch)"

	// defaultItemsPerPage is the page size for officer lists.
	defaultItemsPerPage = 100

	// searchItemsPerPage is the page size for officer search.
	searchItemsPerPage = 50

	// searchOffsetCap bounds officer-search pagination. The registry's
	// search index stops returning useful results past this offset, so
	// paginating further only burns quota.
	searchOffsetCap = 200
)

// Client is the HTTP client for the corporate registry API.
// It is safe for concurrent use: the rate gate and throttle serialize
// admission, and the remaining state is read-only after construction.
type Client struct {
	// baseURL is the API root, without trailing slash.
	baseURL string

	// apiKey authenticates requests via HTTP basic auth (key as
	// username, empty password), the registry's documented scheme.
	apiKey string

	// httpClient performs the actual round trips.
	httpClient *http.Client

	// gate enforces the registry's sliding-window quota.
	gate *ratelimit.Gate

	// throttle smooths request pacing below the window limit so quota
	// is consumed evenly instead of in bursts that park later calls.
	throttle *rate.Limiter

	// maxRetries is the attempt ceiling for transient failures.
	maxRetries int

	// retryDelay is the base backoff delay.
	retryDelay time.Duration

	// userAgent is sent with every request.
	userAgent string

	// logger receives request-level debug logging.
	logger *slog.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithBaseURL overrides the API endpoint. Tests point this at a local
// httptest server.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimSuffix(baseURL, "/")
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithMaxRetries sets the attempt ceiling for transient failures.
func WithMaxRetries(n int) ClientOption {
	return func(c *Client) {
		if n > 0 {
			c.maxRetries = n
		}
	}
}

// WithRetryDelay sets the base backoff delay between retries.
func WithRetryDelay(d time.Duration) ClientOption {
	return func(c *Client) {
		if d >= 0 {
			c.retryDelay = d
		}
	}
}

// WithUserAgent sets a custom User-Agent header.
func WithUserAgent(ua string) ClientOption {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithThrottle replaces the proactive token-bucket throttle.
// Pass nil to disable proactive throttling and rely on the gate alone.
func WithThrottle(throttle *rate.Limiter) ClientOption {
	return func(c *Client) {
		c.throttle = throttle
	}
}

// NewClient creates a registry client authenticated with apiKey.
// The gate is required and shared with any other registry consumers so
// the quota is enforced process-wide.
func NewClient(apiKey string, gate *ratelimit.Gate, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:    DefaultBaseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		gate:       gate,
		maxRetries: DefaultMaxRetries,
		retryDelay: DefaultRetryDelay,
		userAgent:  DefaultUserAgent,
	}

	// Pace proactively at the window's average rate with a small burst
	// allowance. The gate still enforces the hard window invariant.
	perSecond := float64(gate.Limit()) / gate.Period().Seconds()
	c.throttle = rate.NewLimiter(rate.Limit(perSecond), 1)

	for _, opt := range opts {
		opt(c)
	}

	if c.logger == nil {
		c.logger = slog.Default()
	}

	return c
}

// GetProfile fetches a company profile.
// Returns ErrNotFound if the company number is unknown to the registry.
func (c *Client) GetProfile(ctx context.Context, companyNumber string) (*Profile, error) {
	var profile Profile
	path := "/company/" + url.PathEscape(companyNumber)
	if err := c.get(ctx, path, nil, &profile); err != nil {
		return nil, err
	}

	// Some registry responses omit the number field; callers key on it.
	if profile.CompanyNumber == "" {
		profile.CompanyNumber = companyNumber
	}

	return &profile, nil
}

// GetOfficers fetches the complete officer list for a company,
// paginating to exhaustion.
func (c *Client) GetOfficers(ctx context.Context, companyNumber string) ([]Officer, error) {
	path := "/company/" + url.PathEscape(companyNumber) + "/officers"

	var all []Officer
	startIndex := 0
	for {
		query := url.Values{
			"items_per_page": {strconv.Itoa(defaultItemsPerPage)},
			"start_index":    {strconv.Itoa(startIndex)},
		}

		var page officersResponse
		if err := c.get(ctx, path, query, &page); err != nil {
			return nil, err
		}

		all = append(all, page.Items...)

		if len(page.Items) == 0 || startIndex+len(page.Items) >= page.TotalResults {
			break
		}
		startIndex += defaultItemsPerPage
	}

	return all, nil
}

// SearchOfficers searches the officer index by name. Results carry the
// registry's own relevance ranking. Pagination stops at the registry's
// useful-result window (offset 200).
func (c *Client) SearchOfficers(ctx context.Context, name string) ([]OfficerMatch, error) {
	var all []OfficerMatch
	startIndex := 0
	for {
		query := url.Values{
			"q":              {name},
			"items_per_page": {strconv.Itoa(searchItemsPerPage)},
			"start_index":    {strconv.Itoa(startIndex)},
		}

		var page officerSearchResponse
		if err := c.get(ctx, "/search/officers", query, &page); err != nil {
			return nil, err
		}

		for _, item := range page.Items {
			all = append(all, OfficerMatch{
				Title:     item.Title,
				OfficerID: officerIDFromLink(item.Links.Self),
			})
		}

		if len(page.Items) == 0 || startIndex+len(page.Items) >= page.TotalResults {
			break
		}
		startIndex += searchItemsPerPage
		// The page at the cap offset itself is still fetched; only
		// offsets beyond it are skipped.
		if startIndex > searchOffsetCap {
			break
		}
	}

	return all, nil
}

// GetAppointments fetches the full appointment list for an officer.
// Returns ErrNotFound for officers without appointment records, which
// is routine for dissolved and corporate officers.
func (c *Client) GetAppointments(ctx context.Context, officerID string) ([]OfficerAppointment, error) {
	path := "/officers/" + url.PathEscape(officerID) + "/appointments"

	var resp appointmentsResponse
	if err := c.get(ctx, path, nil, &resp); err != nil {
		return nil, err
	}

	appointments := make([]OfficerAppointment, 0, len(resp.Items))
	for _, item := range resp.Items {
		appointments = append(appointments, OfficerAppointment{
			CompanyNumber: item.AppointedTo.CompanyNumber,
			CompanyName:   item.AppointedTo.CompanyName,
			CompanyStatus: item.AppointedTo.CompanyStatus,
			Role:          item.OfficerRole,
			AppointedOn:   item.AppointedOn,
			ResignedOn:    item.ResignedOn,
		})
	}

	return appointments, nil
}

// RateStatus reports the current state of the shared rate gate.
type RateStatus struct {
	// Remaining is the number of requests admittable without blocking.
	Remaining int `json:"remaining"`

	// ResetIn is the time until the oldest grant leaves the window.
	ResetIn time.Duration `json:"reset_in"`

	// MaxRequests is the window limit.
	MaxRequests int `json:"max_requests"`

	// Period is the window length.
	Period time.Duration `json:"period"`
}

// RateStatus returns the current rate gate state for diagnostics.
func (c *Client) RateStatus() RateStatus {
	return RateStatus{
		Remaining:   c.gate.Remaining(),
		ResetIn:     c.gate.ResetIn(),
		MaxRequests: c.gate.Limit(),
		Period:      c.gate.Period(),
	}
}

// get performs one logical GET with rate gating, throttling, retry with
// linear backoff, and Retry-After handling, decoding the JSON response
// into out.
//
// Retry policy:
//   - network errors and 5xx responses consume an attempt; after
//     maxRetries attempts the last cause is returned as *TransientError
//   - 429 responses honor Retry-After (falling back to the base retry
//     delay) and retry without consuming an attempt
//   - 404 returns ErrNotFound immediately
//   - other 4xx responses fail immediately; retrying cannot help
func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	requestURL := c.baseURL + path
	if len(query) > 0 {
		requestURL += "?" + query.Encode()
	}

	attempts := 0
	for {
		// The gate is the hard quota guarantee; the throttle spreads
		// admitted requests evenly inside the window.
		if err := c.gate.Acquire(ctx); err != nil {
			return err
		}
		if c.throttle != nil {
			if err := c.throttle.Wait(ctx); err != nil {
				return err
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
		if err != nil {
			return fmt.Errorf("registry: build request for %s: %w", path, err)
		}
		req.SetBasicAuth(c.apiKey, "")
		req.Header.Set("User-Agent", c.userAgent)
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			attempts++
			if attempts >= c.maxRetries {
				return &TransientError{Attempts: attempts, Err: err}
			}
			c.logger.Debug("registry request failed, retrying",
				"path", path,
				"attempt", attempts,
				"error", err,
			)
			if err := sleepContext(ctx, c.retryDelay*time.Duration(attempts)); err != nil {
				return err
			}
			continue
		}

		switch {
		case resp.StatusCode == http.StatusOK:
			defer resp.Body.Close()
			if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
				return fmt.Errorf("registry: decode response for %s: %w", path, err)
			}
			return nil

		case resp.StatusCode == http.StatusNotFound:
			drainAndClose(resp)
			return fmt.Errorf("%w: %s", ErrNotFound, path)

		case resp.StatusCode == http.StatusTooManyRequests:
			retryAfter := retryAfterDelay(resp, c.retryDelay)
			drainAndClose(resp)
			c.logger.Debug("registry throttled, honoring retry-after",
				"path", path,
				"retryAfter", retryAfter,
			)
			if err := sleepContext(ctx, retryAfter); err != nil {
				// Surface what we were waiting for alongside the
				// cancellation so logs show the throttle state.
				return fmt.Errorf("%w (while throttled: %v)", err, &ThrottledError{RetryAfter: retryAfter})
			}
			continue

		case resp.StatusCode >= 500:
			drainAndClose(resp)
			attempts++
			if attempts >= c.maxRetries {
				return &TransientError{
					StatusCode: resp.StatusCode,
					Attempts:   attempts,
					Err:        fmt.Errorf("server error for %s", path),
				}
			}
			c.logger.Debug("registry server error, retrying",
				"path", path,
				"status", resp.StatusCode,
				"attempt", attempts,
			)
			if err := sleepContext(ctx, c.retryDelay*time.Duration(attempts)); err != nil {
				return err
			}
			continue

		default:
			drainAndClose(resp)
			return fmt.Errorf("registry: unexpected status %d for %s", resp.StatusCode, path)
		}
	}
}

// retryAfterDelay parses the Retry-After header, falling back to the
// base retry delay when absent or malformed. Only the delta-seconds
// form is handled; the registry does not send HTTP-date values.
func retryAfterDelay(resp *http.Response, fallback time.Duration) time.Duration {
	header := resp.Header.Get("Retry-After")
	if header == "" {
		return fallback
	}
	seconds, err := strconv.Atoi(header)
	if err != nil || seconds < 0 {
		return fallback
	}
	return time.Duration(seconds) * time.Second
}

// drainAndClose discards the response body so the connection can be
// reused by the transport.
func drainAndClose(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096)) //nolint:errcheck // Best effort drain
	_ = resp.Body.Close()                                       //nolint:errcheck // Best effort close
}

// sleepContext sleeps for d unless ctx is cancelled first.
func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// officerIDFromLink extracts the officer identifier from a search
// result's self link, e.g. "/officers/abc123/appointments" -> "abc123".
func officerIDFromLink(link string) string {
	parts := strings.Split(strings.Trim(link, "/"), "/")
	if len(parts) < 2 {
		return ""
	}
	return parts[len(parts)-2]
}
