package graph

import (
	"context"
	"errors"

	"github.com/mythograph/backend/pkg/source"
)

type stubSummarySource struct {
	summaries map[string]*source.Summary
	err       error
	calls     int
}

func (s *stubSummarySource) FetchSummary(ctx context.Context, title string) (*source.Summary, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.summaries[title], nil
}

type stubRelationSource struct {
	pairs map[string][]source.RelationPair
	errs  map[string]error
	calls []string
}

func (s *stubRelationSource) FetchRelations(ctx context.Context, relationType string, ids []string) ([]source.RelationPair, error) {
	s.calls = append(s.calls, relationType)
	if err := s.errs[relationType]; err != nil {
		return nil, err
	}
	return s.pairs[relationType], nil
}

func recordsFetch(records []source.RawRecord) source.FetchFunc {
	return func(ctx context.Context, limit int) ([]source.RawRecord, error) {
		return records, nil
	}
}

func failingFetch() source.FetchFunc {
	return func(ctx context.Context, limit int) ([]source.RawRecord, error) {
		return nil, errors.New("endpoint unreachable")
	}
}
