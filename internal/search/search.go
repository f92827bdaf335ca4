package search

import (
	"context"
	"errors"

	"spashta/legal-docs/internal/domain"
)

// ErrAlreadyExists is returned by CreateDocument when the index already holds
// a document with the derived ID. Callers treat it as a successful no-op:
// identity derivation is deterministic, so a duplicate means the same object
// was already ingested.
var ErrAlreadyExists = errors.New("document already exists in index")

// DocumentIndex writes documents into the managed search index.
type DocumentIndex interface {
	CreateDocument(ctx context.Context, doc domain.IndexableDocument) error
}

// Searcher runs a query against the managed search index.
type Searcher interface {
	// Search runs the query with an optional filter predicate ("" means
	// unfiltered). The response carries whatever the upstream returned;
	// fields may be missing and results may be partial — shaping and
	// defaulting is the caller's job.
	Search(ctx context.Context, query, filter string) (*Response, error)
}

// Response is the neutral shape of an upstream search response.
type Response struct {
	SummaryText string
	Results     []Result
}

// Result is one raw search hit. StructData mirrors the upstream's derived
// struct data and can be nil or missing any key.
type Result struct {
	DocumentID string
	StructData map[string]interface{}
}
