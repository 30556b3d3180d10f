// Package celestrak fetches TLE data by satellite name from the CelesTrak
// GP query endpoint. The provider has no structured error signal for unknown
// objects; it answers 200 with a literal "No GP data found" body, so error
// classification falls back to matching that sentinel.
package celestrak

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

const defaultBaseURL = "https://celestrak.org/NORAD/elements/gp.php"

// noDataSentinel is CelesTrak's exact reply body for an unknown object.
const noDataSentinel = "No GP data found"

// ErrNoGPData indicates the provider answered but knows no object by the
// requested name.
var ErrNoGPData = errors.New("no GP data found")

// maxBodyBytes caps the response size. A single named-satellite query returns
// a few hundred bytes; anything near the cap is not TLE data.
const maxBodyBytes = 1 << 20

// Client queries CelesTrak for TLE data by satellite name.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a Client for the given base URL. An empty baseURL selects
// the public CelesTrak endpoint.
func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// QueryURL builds the GP query URL for a satellite name. Only spaces are
// percent-encoded; CelesTrak accepts the remaining name characters verbatim
// and the registered names this tool is used with contain nothing else that
// needs escaping.
func (c *Client) QueryURL(name string) string {
	escaped := strings.ReplaceAll(name, " ", "%20")
	return fmt.Sprintf("%s?NAME=%s&FORMAT=TLE", c.baseURL, escaped)
}

// FetchByName performs a single GET for the named satellite and returns the
// raw TLE payload. Non-2xx statuses, empty bodies, and the provider's
// "No GP data found" sentinel are classified as errors; the sentinel case is
// reported as ErrNoGPData.
func (c *Client) FetchByName(ctx context.Context, name string) ([]byte, error) {
	url := c.QueryURL(name)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	c.logger.Debug("fetching TLE data", "url", url)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching TLE data: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status code %d from %s", resp.StatusCode, c.baseURL)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	if len(strings.TrimSpace(string(body))) == 0 {
		return nil, fmt.Errorf("empty response body from %s", c.baseURL)
	}

	if strings.TrimRight(string(body), "\r\n ") == noDataSentinel {
		return nil, fmt.Errorf("%w for %q", ErrNoGPData, name)
	}

	return body, nil
}
