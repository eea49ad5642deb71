// Package linkedin wraps the LinkedIn Job Search API on RapidAPI. Every
// search is pinned to SAP roles; callers page through results and render
// whatever comes back.
package linkedin

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"

	fhttp "github.com/bogdanfinn/fhttp"
	"github.com/rs/zerolog"

	"github.com/mhartig/sapjobs/internal/models"
	"github.com/mhartig/sapjobs/internal/network"
)

const (
	// DefaultHost is the RapidAPI host serving the job search API.
	DefaultHost = "linkedin-job-search-api.p.rapidapi.com"

	// searchPath is the feed of postings from the last seven days.
	searchPath = "/active-jb-7d"

	// titleFilter pins every search to SAP roles.
	titleFilter = "SAP"

	// maxErrorBody caps how much of an error response body ends up in
	// user-facing messages.
	maxErrorBody = 4096

	dateLayout = "2006-01-02"
)

// Credentials identify the caller to RapidAPI.
type Credentials struct {
	Key  string
	Host string
}

// Configured reports whether both fields are usable.
func (c Credentials) Configured() bool {
	return strings.TrimSpace(c.Key) != "" && strings.TrimSpace(c.Host) != ""
}

// Doer is the transport seam. *network.Client satisfies it.
type Doer interface {
	Do(req *fhttp.Request) (*fhttp.Response, error)
}

// Config assembles a Client. Zero fields get working defaults, except
// Credentials, which Search validates on every call.
type Config struct {
	Credentials Credentials

	// BaseURL overrides the search endpoint. Defaults to the seven-day
	// feed on the credential host.
	BaseURL string

	// HTTPClient is the transport. Defaults to a fresh network.Client.
	HTTPClient Doer

	Logger zerolog.Logger

	// Now supplies the clock for the posted-since cutoff.
	Now func() time.Time
}

// Client fetches and normalizes SAP job postings. It keeps no state between
// calls; paging is entirely the caller's business.
type Client struct {
	creds   Credentials
	baseURL string
	http    Doer
	logger  zerolog.Logger
	now     func() time.Time
}

// NewClient builds a Client from cfg. Missing credentials are not an error
// here; they surface on the first Search.
func NewClient(cfg Config) (*Client, error) {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		netClient, err := network.NewClient(network.Options{})
		if err != nil {
			return nil, fmt.Errorf("build transport: %w", err)
		}
		httpClient = netClient
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		host := strings.TrimSpace(cfg.Credentials.Host)
		if host == "" {
			host = DefaultHost
		}
		baseURL = "https://" + host + searchPath
	}

	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	return &Client{
		creds:   cfg.Credentials,
		baseURL: baseURL,
		http:    httpClient,
		logger:  cfg.Logger,
		now:     now,
	}, nil
}

// Search fetches one page of postings. A non-nil error is always a *Error
// whose Message is ready to show verbatim.
func (c *Client) Search(ctx context.Context, criteria models.SearchCriteria) (result models.SearchResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = models.SearchResult{}
			err = errUnexpected(fmt.Sprint(r))
		}
	}()

	if !c.creds.Configured() {
		return models.SearchResult{}, errConfiguration()
	}

	searchURL := c.baseURL + "?" + buildQuery(criteria).Encode()
	req, err := fhttp.NewRequestWithContext(ctx, fhttp.MethodGet, searchURL, nil)
	if err != nil {
		return models.SearchResult{}, errUnexpected(fmt.Sprintf("build request: %v", err))
	}
	req.Header.Set("X-RapidAPI-Key", c.creds.Key)
	req.Header.Set("X-RapidAPI-Host", c.creds.Host)
	req.Header.Set("Accept", "application/json")

	c.logger.Debug().
		Str("url", searchURL).
		Str("posted_since", PostedSince(c.now(), criteria.DaysBack)).
		Msg("searching postings")

	resp, err := c.http.Do(req)
	if err != nil {
		return models.SearchResult{}, classifyTransport(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == fhttp.StatusTooManyRequests {
		return models.SearchResult{}, errRateLimited(resp.StatusCode)
	}
	if resp.StatusCode != fhttp.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return models.SearchResult{}, errAPI(resp.StatusCode, strings.TrimSpace(string(body)))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return models.SearchResult{}, classifyTransport(err)
	}

	var data any
	if err := json.Unmarshal(body, &data); err != nil {
		return models.SearchResult{}, errUnexpected(fmt.Sprintf("decode response: %v", err))
	}

	jobs, attempted, skipped := parseJobs(data)
	if skipped > 0 {
		c.logger.Debug().Int("skipped", skipped).Msg("dropped malformed postings")
	}

	// Total counts attempted items, not surviving ones, so the shell's
	// count matches the upstream page size.
	return models.SearchResult{Jobs: jobs, Total: attempted}, nil
}

// buildQuery assembles the fixed and conditional query parameters. The title
// filter is always the literal "SAP"; remote=true is only ever added, never
// remote=false.
func buildQuery(criteria models.SearchCriteria) url.Values {
	values := url.Values{}
	values.Set("title_filter", titleFilter)
	values.Set("limit", strconv.Itoa(criteria.Limit))
	values.Set("offset", strconv.Itoa(criteria.Offset))
	values.Set("description_type", "text")
	if location := strings.TrimSpace(criteria.Location); location != "" && location != models.AllLocations {
		values.Set("location_filter", location)
	}
	if criteria.RemoteOnly {
		values.Set("remote", "true")
	}
	return values
}

// classifyTransport separates timeouts from other transport failures.
func classifyTransport(err error) *Error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return errTimeout(err)
	}
	return errNetwork(err)
}

// PostedSince computes the inclusive posting-date cutoff for a look-back
// window: 7 days back from 2026-03-10 is 2026-03-03. The feed is already
// age-limited upstream, so the cutoff is informational.
func PostedSince(now time.Time, daysBack int) string {
	return now.AddDate(0, 0, -daysBack).Format(dateLayout)
}
