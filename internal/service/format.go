package service

import (
	"strings"

	"spashta/legal-docs/internal/domain"
	"spashta/legal-docs/internal/search"
)

// Fallback strings for partial upstream responses. Field extraction must
// never fail; absent data maps to these.
const (
	fallbackSummary = "No summary available."
	fallbackTitle   = "Untitled Document"
	fallbackSnippet = "No snippet available."

	snippetSeparator = " ... "
)

// formatResponse shapes a raw search response into the stable client view.
// totalResults counts results actually returned, never the page size asked
// for, and field presence never depends on which fields the upstream chose
// to populate.
func formatResponse(query, tenantID string, resp *search.Response) *domain.SearchResultView {
	view := &domain.SearchResultView{
		Summary:    fallbackSummary,
		Query:      query,
		TenantID:   tenantID,
		References: []domain.Reference{},
	}
	if resp == nil {
		return view
	}

	if resp.SummaryText != "" {
		view.Summary = resp.SummaryText
	}
	view.TotalResults = len(resp.Results)

	for _, result := range resp.Results {
		ref := domain.Reference{
			Title:      stringField(result.StructData, "title", fallbackTitle),
			Link:       stringField(result.StructData, "link", ""),
			Snippet:    snippetText(result.StructData),
			DocumentID: result.DocumentID,
		}
		if tenantID != "" {
			ref.TenantID = stringField(result.StructData, "tenant_id", tenantID)
		}
		view.References = append(view.References, ref)
	}

	return view
}

// stringField pulls a string out of loosely typed struct data.
func stringField(data map[string]interface{}, key, fallback string) string {
	if data == nil {
		return fallback
	}
	if v, ok := data[key].(string); ok && v != "" {
		return v
	}
	return fallback
}

// snippetText joins every non-empty snippet for a result, falling back when
// the upstream returned none. The snippets field is a list of objects each
// holding a "snippet" string; anything off-shape is ignored.
func snippetText(data map[string]interface{}) string {
	raw, ok := data["snippets"].([]interface{})
	if !ok {
		return fallbackSnippet
	}

	var snippets []string
	for _, entry := range raw {
		m, ok := entry.(map[string]interface{})
		if !ok {
			continue
		}
		if s, ok := m["snippet"].(string); ok && s != "" {
			snippets = append(snippets, s)
		}
	}

	if len(snippets) == 0 {
		return fallbackSnippet
	}
	return strings.Join(snippets, snippetSeparator)
}
