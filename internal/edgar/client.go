package edgar

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/ternarybob/arbor"
	"golang.org/x/time/rate"
)

const (
	// DefaultRegistryURL serves the full ticker-to-CIK registry.
	DefaultRegistryURL = "https://www.sec.gov/files/company_tickers.json"

	// DefaultSubmissionsBaseURL serves per-company filing histories.
	DefaultSubmissionsBaseURL = "https://data.sec.gov"

	// DefaultArchivesBaseURL serves filed documents.
	DefaultArchivesBaseURL = "https://www.sec.gov/Archives"

	// DefaultTimeout is the default HTTP timeout.
	DefaultTimeout = 30 * time.Second

	// DefaultRateLimit is the SEC's published fair-access ceiling
	// (requests per second).
	DefaultRateLimit = 10
)

// Client is a SEC EDGAR API client. The SEC requires a descriptive
// User-Agent identifying the caller; requests without one are rejected.
type Client struct {
	registryURL        string
	submissionsBaseURL string
	archivesBaseURL    string
	userAgent          string
	httpClient         *http.Client
	logger             arbor.ILogger
	limiter            *rate.Limiter

	mu       sync.Mutex
	registry map[string]Company // ticker (upper) -> company, lazily loaded
}

// ClientOption configures the Client.
type ClientOption func(*Client)

// WithRegistryURL sets a custom ticker registry URL.
func WithRegistryURL(registryURL string) ClientOption {
	return func(c *Client) {
		c.registryURL = registryURL
	}
}

// WithSubmissionsBaseURL sets a custom submissions API base URL.
func WithSubmissionsBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.submissionsBaseURL = baseURL
	}
}

// WithArchivesBaseURL sets a custom archives base URL.
func WithArchivesBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.archivesBaseURL = baseURL
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithLogger sets a logger.
func WithLogger(logger arbor.ILogger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithRateLimit sets a custom rate limit.
func WithRateLimit(requestsPerSecond int) ClientOption {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
	}
}

// NewClient creates a new EDGAR client. userAgent should identify the
// operator with a contact address, e.g. "lucrum/1.0 ops@example.com".
func NewClient(userAgent string, opts ...ClientOption) *Client {
	c := &Client{
		registryURL:        DefaultRegistryURL,
		submissionsBaseURL: DefaultSubmissionsBaseURL,
		archivesBaseURL:    DefaultArchivesBaseURL,
		userAgent:          userAgent,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		limiter: rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// LookupCompany resolves a ticker symbol through the SEC registry. The
// registry is fetched once and cached for the client's lifetime.
func (c *Client) LookupCompany(ctx context.Context, ticker string) (*Company, error) {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	if ticker == "" {
		return nil, fmt.Errorf("ticker is required")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.registry == nil {
		var entries map[string]tickerEntry
		if err := c.getJSON(ctx, c.registryURL, &entries); err != nil {
			return nil, fmt.Errorf("failed to load ticker registry: %w", err)
		}
		c.registry = make(map[string]Company, len(entries))
		for _, e := range entries {
			c.registry[strings.ToUpper(e.Ticker)] = Company{
				CIK:    e.CIK,
				Ticker: strings.ToUpper(e.Ticker),
				Name:   e.Title,
			}
		}
	}

	company, ok := c.registry[ticker]
	if !ok {
		return nil, fmt.Errorf("unknown ticker: %s", ticker)
	}
	return &company, nil
}

// RecentFilings returns the company's most recent filings of the given form
// type, newest first, capped at limit.
func (c *Client) RecentFilings(ctx context.Context, cik int64, form string, limit int) ([]Filing, error) {
	url := fmt.Sprintf("%s/submissions/CIK%010d.json", c.submissionsBaseURL, cik)

	var subs submissions
	if err := c.getJSON(ctx, url, &subs); err != nil {
		return nil, fmt.Errorf("failed to load submissions: %w", err)
	}

	recent := subs.Filings.Recent
	var filings []Filing
	for i := range recent.Form {
		if form != "" && recent.Form[i] != form {
			continue
		}
		accession := recent.AccessionNumber[i]
		primary := ""
		if i < len(recent.PrimaryDocument) {
			primary = recent.PrimaryDocument[i]
		}
		f := Filing{
			Form:            recent.Form[i],
			AccessionNumber: accession,
			PrimaryDocument: primary,
		}
		if i < len(recent.FilingDate) {
			f.FilingDate = recent.FilingDate[i]
		}
		if primary != "" {
			f.DocumentURL = c.documentURL(cik, accession, primary)
		}
		filings = append(filings, f)
		if limit > 0 && len(filings) >= limit {
			break
		}
	}
	return filings, nil
}

// LatestEarningsFiling returns the most recent 8-K for the ticker. 8-Ks
// carry earnings press releases; quarterly 10-Qs lag them by weeks.
func (c *Client) LatestEarningsFiling(ctx context.Context, ticker string) (*Company, *Filing, error) {
	company, err := c.LookupCompany(ctx, ticker)
	if err != nil {
		return nil, nil, err
	}

	filings, err := c.RecentFilings(ctx, company.CIK, "8-K", 1)
	if err != nil {
		return nil, nil, err
	}
	if len(filings) == 0 {
		return nil, nil, fmt.Errorf("no recent 8-K filings found for %s", ticker)
	}
	return company, &filings[0], nil
}

// FetchDocument downloads a filed document and returns its raw bytes plus
// the response content type.
func (c *Client) FetchDocument(ctx context.Context, url string) ([]byte, string, error) {
	resp, err := c.do(ctx, url)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, "", &APIError{StatusCode: resp.StatusCode, Endpoint: url, Message: string(body)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read document: %w", err)
	}
	return body, resp.Header.Get("Content-Type"), nil
}

// documentURL builds the archive URL for a filed document. Accession
// numbers are dash-separated in the API but flattened in archive paths.
func (c *Client) documentURL(cik int64, accession, primary string) string {
	return fmt.Sprintf("%s/edgar/data/%d/%s/%s",
		c.archivesBaseURL, cik, strings.ReplaceAll(accession, "-", ""), primary)
}

func (c *Client) getJSON(ctx context.Context, url string, result interface{}) error {
	resp, err := c.do(ctx, url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &APIError{StatusCode: resp.StatusCode, Endpoint: url, Message: string(body)}
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, url string) (*http.Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json, text/html, */*")

	if c.logger != nil {
		c.logger.Debug().Str("url", url).Msg("EDGAR API request")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	return resp, nil
}
