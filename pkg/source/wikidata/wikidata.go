package wikidata

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
	"github.com/mythograph/backend/pkg/logger"
	"github.com/mythograph/backend/pkg/source"
)

const defaultEndpoint = "https://query.wikidata.org/sparql"

// Wikidata asks every automated client to identify itself.
const defaultUserAgent = "mythograph/1.0 (https://github.com/mythograph/backend)"

// Client talks to a Wikidata SPARQL endpoint. It implements the entity
// source and relation source contracts used by the graph builder.
type Client struct {
	endpoint   string
	userAgent  string
	maxTries   int
	httpClient *http.Client
}

// NewClientParams configures a Client. Zero values fall back to the public
// Wikidata query service with a 30 second timeout and 3 attempts per query.
type NewClientParams struct {
	Endpoint  string
	UserAgent string
	Timeout   time.Duration
	MaxTries  int
}

// NewClient creates a Wikidata SPARQL client.
func NewClient(params NewClientParams) *Client {
	endpoint := params.Endpoint
	if endpoint == "" {
		endpoint = defaultEndpoint
	}
	userAgent := params.UserAgent
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	timeout := params.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	maxTries := params.MaxTries
	if maxTries <= 0 {
		maxTries = 3
	}
	return &Client{
		endpoint:   endpoint,
		userAgent:  userAgent,
		maxTries:   maxTries,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// RunSPARQL executes a SPARQL query and returns the parsed JSON response.
// Failed queries are retried; the public query service sheds load often
// enough that a single attempt is not reliable.
func (c *Client) RunSPARQL(ctx context.Context, query string) (gjson.Result, error) {
	return util.RetryWithContext(ctx, c.maxTries, func(ctx context.Context) (gjson.Result, error) {
		return c.runSPARQLOnce(ctx, query)
	})
}

func (c *Client) runSPARQLOnce(ctx context.Context, query string) (gjson.Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint, nil)
	if err != nil {
		return gjson.Result{}, fmt.Errorf("failed to build SPARQL request: %w", err)
	}

	q := url.Values{}
	q.Set("query", query)
	req.URL.RawQuery = q.Encode()
	req.Header.Set("Accept", "application/sparql-results+json")
	req.Header.Set("User-Agent", c.userAgent)

	res, err := c.httpClient.Do(req)
	if err != nil {
		return gjson.Result{}, fmt.Errorf("SPARQL request failed: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return gjson.Result{}, fmt.Errorf("SPARQL endpoint returned status %d", res.StatusCode)
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return gjson.Result{}, fmt.Errorf("failed to read SPARQL response: %w", err)
	}

	return gjson.ParseBytes(body), nil
}

// FetchEntitiesForRoot fetches narrative entities attached to a root QID
// via instance-of, subclass-of, genre or main-subject claims.
func (c *Client) FetchEntitiesForRoot(ctx context.Context, rootQID string, limit int) ([]source.RawRecord, error) {
	res, err := c.RunSPARQL(ctx, makeRootQuery(rootQID, limit))
	if err != nil {
		return nil, err
	}

	records := parseEntityBindings(res)
	logger.Info("[Wikidata] Fetched entities", "root", rootQID, "count", len(records))
	return records, nil
}

// FetchFolklore fetches folktales carrying an ATU tale type index,
// independent of any root QID.
func (c *Client) FetchFolklore(ctx context.Context, limit int) ([]source.RawRecord, error) {
	res, err := c.RunSPARQL(ctx, makeFolkloreQuery(limit))
	if err != nil {
		return nil, err
	}

	records := parseEntityBindings(res)
	logger.Info("[Wikidata] Fetched folklore entities", "count", len(records))
	return records, nil
}

// FetchLiteraryArchetypes fetches entities under the literary archetype root.
func (c *Client) FetchLiteraryArchetypes(ctx context.Context, limit int) ([]source.RawRecord, error) {
	return c.FetchEntitiesForRoot(ctx, LiteraryArchetypeQID, limit)
}

// FetchSciFiThemes fetches entities under the science fiction theme root.
func (c *Client) FetchSciFiThemes(ctx context.Context, limit int) ([]source.RawRecord, error) {
	return c.FetchEntitiesForRoot(ctx, SciFiThemeQID, limit)
}

// FetchGameMechanics fetches entities under the video game mechanic root.
func (c *Client) FetchGameMechanics(ctx context.Context, limit int) ([]source.RawRecord, error) {
	return c.FetchEntitiesForRoot(ctx, GameMechanicQID, limit)
}

// FetchRelations returns subject/object QID pairs for one Wikidata property,
// restricted to subjects drawn from ids. An empty id set yields no pairs
// without a remote call.
func (c *Client) FetchRelations(ctx context.Context, property string, ids []string) ([]source.RelationPair, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	res, err := c.RunSPARQL(ctx, makeRelationQuery(property, ids))
	if err != nil {
		return nil, err
	}

	pairs := make([]source.RelationPair, 0)
	res.Get("results.bindings").ForEach(func(_, row gjson.Result) bool {
		subject := trailingSegment(row.Get("subject.value").String())
		object := trailingSegment(row.Get("object.value").String())
		if subject == "" || object == "" {
			return true
		}
		pairs = append(pairs, source.RelationPair{Subject: subject, Object: object})
		return true
	})

	logger.Debug("[Wikidata] Fetched relation pairs", "property", property, "count", len(pairs))
	return pairs, nil
}

func parseEntityBindings(res gjson.Result) []source.RawRecord {
	records := make([]source.RawRecord, 0)
	res.Get("results.bindings").ForEach(func(_, row gjson.Result) bool {
		qid := trailingSegment(row.Get("entity.value").String())
		if qid == "" {
			return true
		}
		records = append(records, source.RawRecord{
			ID:           qid,
			Label:        row.Get("entityLabel.value").String(),
			Description:  row.Get("entityDescription.value").String(),
			ExternalRef:  row.Get("atu.value").String(),
			ArticleTitle: row.Get("wikipediaTitle.value").String(),
		})
		return true
	})
	return records
}

// trailingSegment extracts the QID from an entity URI such as
// http://www.wikidata.org/entity/Q12345.
func trailingSegment(uri string) string {
	if uri == "" {
		return ""
	}
	idx := strings.LastIndex(uri, "/")
	if idx == -1 {
		return uri
	}
	return uri[idx+1:]
}
