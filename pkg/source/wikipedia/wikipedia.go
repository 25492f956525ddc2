package wikipedia

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/mythograph/backend/internal/util"
	"github.com/mythograph/backend/pkg/source"
)

const summaryEndpoint = "https://en.wikipedia.org/api/rest_v1/page/summary/%s"

const defaultUserAgent = "mythograph/1.0 (https://github.com/mythograph/backend)"

// Client fetches article introductions from the Wikipedia page-summary
// REST endpoint. It implements source.SummarySource.
type Client struct {
	userAgent  string
	maxTries   int
	httpClient *http.Client
}

// NewClientParams configures a Client. Zero values fall back to a 15 second
// timeout, 3 attempts per page and the default user agent.
type NewClientParams struct {
	UserAgent string
	Timeout   time.Duration
	MaxTries  int
}

// NewClient creates a Wikipedia summary client.
func NewClient(params NewClientParams) *Client {
	userAgent := params.UserAgent
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	timeout := params.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	maxTries := params.MaxTries
	if maxTries <= 0 {
		maxTries = 3
	}
	return &Client{
		userAgent:  userAgent,
		maxTries:   maxTries,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// FetchSummary fetches the introduction summary for an article title.
// Spaces in the title are folded to underscores and the API follows
// redirects natively. A missing page returns (nil, nil); transient
// failures are retried.
func (c *Client) FetchSummary(ctx context.Context, title string) (*source.Summary, error) {
	if title == "" {
		return nil, nil
	}
	return util.RetryWithContext(ctx, c.maxTries, func(ctx context.Context) (*source.Summary, error) {
		return c.fetchSummaryOnce(ctx, title)
	})
}

func (c *Client) fetchSummaryOnce(ctx context.Context, title string) (*source.Summary, error) {
	safe := url.PathEscape(strings.ReplaceAll(title, " ", "_"))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf(summaryEndpoint, safe), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build summary request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("summary request failed: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("summary endpoint returned status %d", res.StatusCode)
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read summary response: %w", err)
	}

	doc := gjson.ParseBytes(body)
	return &source.Summary{
		Title: doc.Get("title").String(),
		Text:  doc.Get("extract").String(),
		URL:   doc.Get("content_urls.desktop.page").String(),
	}, nil
}
