package service

import (
	"context"
	"fmt"
	"strings"

	"spashta/legal-docs/internal/config"
	"spashta/legal-docs/internal/domain"
	"spashta/legal-docs/internal/scoping"
	"spashta/legal-docs/internal/search"
)

// MaxQueryLength bounds query text to keep abuse off the search backend.
const MaxQueryLength = 1000

// QueryService answers natural-language questions over the indexed corpus.
type QueryService interface {
	// Ask validates the query, scopes it to tenantID when one applies, runs
	// the search and shapes the response. tenantID "" means cross-tenant
	// (subject to the deployment's require_tenant setting).
	Ask(ctx context.Context, query, tenantID string) (*domain.SearchResultView, error)
}

type queryService struct {
	searcher      search.Searcher
	strategy      *scoping.Strategy
	requireTenant bool
}

// NewQueryService creates the query gateway.
func NewQueryService(searcher search.Searcher, strategy *scoping.Strategy, cfg config.ScopingConfig) QueryService {
	return &queryService{
		searcher:      searcher,
		strategy:      strategy,
		requireTenant: cfg.RequireTenant,
	}
}

func (s *queryService) Ask(ctx context.Context, query, tenantID string) (*domain.SearchResultView, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		return nil, fmt.Errorf("%w: JSON body must contain a non-empty \"query\" field", ErrInvalidInput)
	}
	if len(q) > MaxQueryLength {
		return nil, fmt.Errorf("%w: query too long, maximum %d characters allowed", ErrInvalidInput, MaxQueryLength)
	}
	if s.requireTenant && s.strategy.Mode() == scoping.ModeTenant && tenantID == "" {
		return nil, fmt.Errorf("%w: a user id is required for queries on this deployment", ErrInvalidInput)
	}

	filter := s.strategy.BuildFilter(tenantID)

	resp, err := s.searcher.Search(ctx, q, filter)
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}

	return formatResponse(q, tenantID, resp), nil
}
