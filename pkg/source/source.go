package source

import (
	"context"
	"net/url"
	"strings"
)

// RawRecord is one entity record as returned by an entity source, before
// normalization. ID is the only required field; everything else is
// best-effort data from the remote source.
type RawRecord struct {
	ID           string
	Label        string
	Description  string
	ExternalRef  string
	ArticleTitle string
}

// FetchFunc fetches up to limit raw records for one category. An empty
// result is a valid answer ("no data"); errors are transport failures.
type FetchFunc func(ctx context.Context, limit int) ([]RawRecord, error)

// Summary is the prose enrichment a SummarySource returns for a title.
type Summary struct {
	Title string
	Text  string
	URL   string
}

// SummarySource returns the introductory prose for an article title.
// A missing page is reported as (nil, nil), not as an error.
type SummarySource interface {
	FetchSummary(ctx context.Context, title string) (*Summary, error)
}

// RelationPair is one externally discovered subject/object relation.
type RelationPair struct {
	Subject string
	Object  string
}

// RelationSource returns subject/object pairs for one external relation
// type, restricted to subjects drawn from ids.
type RelationSource interface {
	FetchRelations(ctx context.Context, relationType string, ids []string) ([]RelationPair, error)
}

// ArticleURL derives the canonical article URL for a linked article title.
// The derivation is deterministic: spaces fold to underscores and the
// result is path-escaped. Used when a record carries a title but no summary
// was fetched for it.
func ArticleURL(title string) string {
	if title == "" {
		return ""
	}
	safe := url.PathEscape(strings.ReplaceAll(title, " ", "_"))
	return "https://en.wikipedia.org/wiki/" + safe
}
