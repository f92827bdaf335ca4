package search

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"spashta/legal-docs/internal/config"
	"spashta/legal-docs/internal/domain"

	discoveryengine "google.golang.org/api/discoveryengine/v1"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// Search request shape sent for every query. The page size and the summary
// and snippet bounds are part of the client contract, not tunables.
const (
	searchPageSize     = 10
	summaryResultCount = 5
	maxSnippetCount    = 3

	summaryPreamble = "You are a legal AI assistant. Provide accurate, helpful responses based on the legal documents in the knowledge base."
)

// DiscoveryService implements DocumentIndex and Searcher against a Vertex AI
// Search (Discovery Engine) data store.
type DiscoveryService struct {
	svc           *discoveryengine.Service
	parent        string // branch path documents are created under
	servingConfig string
}

// NewDiscoveryService builds a Discovery Engine client for the configured
// data store. Non-global locations need a regional endpoint.
func NewDiscoveryService(ctx context.Context, cfg config.SearchConfig) (*DiscoveryService, error) {
	var opts []option.ClientOption
	if cfg.Location != "global" {
		opts = append(opts, option.WithEndpoint(fmt.Sprintf("https://%s-discoveryengine.googleapis.com/", cfg.Location)))
	}
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	svc, err := discoveryengine.NewService(ctx, opts...)
	if err != nil {
		log.Printf("ERROR: Failed to create Discovery Engine client: %v", err)
		return nil, err
	}

	base := fmt.Sprintf("projects/%s/locations/%s/dataStores/%s", cfg.ProjectID, cfg.Location, cfg.DataStoreID)

	log.Printf("INFO: Discovery Engine client initialized for data store %s", cfg.DataStoreID)

	return &DiscoveryService{
		svc:           svc,
		parent:        base + "/branches/default_branch",
		servingConfig: base + "/servingConfigs/default_config",
	}, nil
}

// CreateDocument upserts one document into the data store, keyed by the
// derived document ID. A 409 from the index maps to ErrAlreadyExists.
func (d *DiscoveryService) CreateDocument(ctx context.Context, doc domain.IndexableDocument) error {
	structData := map[string]interface{}{
		"title":            doc.Title,
		"document_type":    doc.Type,
		"upload_timestamp": doc.UploadedAt.UTC().Format(time.RFC3339),
	}
	if doc.TenantID != "" {
		structData["tenant_id"] = doc.TenantID
	}

	raw, err := json.Marshal(structData)
	if err != nil {
		return fmt.Errorf("marshal document metadata: %w", err)
	}

	gdoc := &discoveryengine.GoogleCloudDiscoveryengineV1Document{
		Id:         doc.ID,
		StructData: googleapi.RawMessage(raw),
		Content: &discoveryengine.GoogleCloudDiscoveryengineV1DocumentContent{
			Uri:      doc.SourceURI,
			MimeType: doc.MimeType,
		},
	}

	_, err = d.svc.Projects.Locations.DataStores.Branches.Documents.
		Create(d.parent, gdoc).
		DocumentId(doc.ID).
		Context(ctx).
		Do()
	if err != nil {
		var gerr *googleapi.Error
		if errors.As(err, &gerr) && gerr.Code == http.StatusConflict {
			return ErrAlreadyExists
		}
		return fmt.Errorf("create document %s: %w", doc.ID, err)
	}
	return nil
}

// Search runs one synchronous query with the fixed summary and snippet specs.
func (d *DiscoveryService) Search(ctx context.Context, query, filter string) (*Response, error) {
	req := &discoveryengine.GoogleCloudDiscoveryengineV1SearchRequest{
		Query:    query,
		PageSize: searchPageSize,
		Filter:   filter,
		ContentSearchSpec: &discoveryengine.GoogleCloudDiscoveryengineV1SearchRequestContentSearchSpec{
			SummarySpec: &discoveryengine.GoogleCloudDiscoveryengineV1SearchRequestContentSearchSpecSummarySpec{
				SummaryResultCount: summaryResultCount,
				IncludeCitations:   true,
				ModelPromptSpec: &discoveryengine.GoogleCloudDiscoveryengineV1SearchRequestContentSearchSpecSummarySpecModelPromptSpec{
					Preamble: summaryPreamble,
				},
			},
			SnippetSpec: &discoveryengine.GoogleCloudDiscoveryengineV1SearchRequestContentSearchSpecSnippetSpec{
				ReturnSnippet:   true,
				MaxSnippetCount: maxSnippetCount,
			},
		},
	}

	resp, err := d.svc.Projects.Locations.DataStores.ServingConfigs.
		Search(d.servingConfig, req).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("search data store: %w", err)
	}

	return mapSearchResponse(resp), nil
}

// mapSearchResponse lowers the generated API response into the neutral
// Response shape. Missing pieces stay missing; defaulting happens at the
// formatting layer.
func mapSearchResponse(resp *discoveryengine.GoogleCloudDiscoveryengineV1SearchResponse) *Response {
	out := &Response{}
	if resp == nil {
		return out
	}
	if resp.Summary != nil {
		out.SummaryText = resp.Summary.SummaryText
	}

	for _, r := range resp.Results {
		res := Result{DocumentID: r.Id}
		if r.Document != nil {
			if r.Document.Id != "" {
				res.DocumentID = r.Document.Id
			}
			if len(r.Document.DerivedStructData) > 0 {
				var m map[string]interface{}
				if err := json.Unmarshal(r.Document.DerivedStructData, &m); err == nil {
					res.StructData = m
				} else {
					log.Printf("WARN: undecodable derived struct data for document %s: %v", res.DocumentID, err)
				}
			}
		}
		out.Results = append(out.Results, res)
	}
	return out
}
