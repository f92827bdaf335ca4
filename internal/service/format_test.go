package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spashta/legal-docs/internal/search"
)

func TestFormatResponse_NilResponse(t *testing.T) {
	view := formatResponse("q", "", nil)
	require.NotNil(t, view)
	assert.Equal(t, "No summary available.", view.Summary)
	assert.Equal(t, 0, view.TotalResults)
	assert.NotNil(t, view.References, "references must serialize as [], not null")
	assert.Empty(t, view.References)
}

func TestFormatResponse_MissingSummary(t *testing.T) {
	view := formatResponse("q", "", &search.Response{
		Results: []search.Result{{DocumentID: "doc-a"}},
	})
	assert.Equal(t, "No summary available.", view.Summary)
	assert.Equal(t, 1, view.TotalResults)
}

func TestFormatResponse_ResultWithNoStructData(t *testing.T) {
	view := formatResponse("q", "", &search.Response{
		Results: []search.Result{{DocumentID: "doc-a"}},
	})
	require.Len(t, view.References, 1)

	ref := view.References[0]
	assert.Equal(t, "Untitled Document", ref.Title)
	assert.Equal(t, "", ref.Link)
	assert.Equal(t, "No snippet available.", ref.Snippet)
	assert.Equal(t, "doc-a", ref.DocumentID)
}

func TestFormatResponse_OffShapeSnippetsIgnored(t *testing.T) {
	view := formatResponse("q", "", &search.Response{
		Results: []search.Result{{
			StructData: map[string]interface{}{
				"snippets": []interface{}{
					"not an object",
					map[string]interface{}{"other": "field"},
					map[string]interface{}{"snippet": ""},
					map[string]interface{}{"snippet": "usable"},
				},
			},
		}},
	})
	require.Len(t, view.References, 1)
	assert.Equal(t, "usable", view.References[0].Snippet)
}

func TestFormatResponse_SnippetsNotAList(t *testing.T) {
	view := formatResponse("q", "", &search.Response{
		Results: []search.Result{{
			StructData: map[string]interface{}{"snippets": "oops"},
		}},
	})
	assert.Equal(t, "No snippet available.", view.References[0].Snippet)
}

func TestFormatResponse_TotalIsReturnedCount(t *testing.T) {
	resp := &search.Response{Results: make([]search.Result, 3)}
	view := formatResponse("q", "", resp)
	assert.Equal(t, 3, view.TotalResults)
}

func TestFormatResponse_TenantEchoedOnViewAndRefs(t *testing.T) {
	view := formatResponse("q", "user42", &search.Response{
		Results: []search.Result{
			{StructData: map[string]interface{}{"tenant_id": "user42"}},
			{StructData: nil},
		},
	})
	assert.Equal(t, "user42", view.TenantID)
	assert.Equal(t, "user42", view.References[0].TenantID)
	assert.Equal(t, "user42", view.References[1].TenantID, "falls back to the query's tenant")
}

func TestFormatResponse_NoTenantOmitsRefTenant(t *testing.T) {
	view := formatResponse("q", "", &search.Response{
		Results: []search.Result{{StructData: map[string]interface{}{"tenant_id": "leaky"}}},
	})
	assert.Empty(t, view.References[0].TenantID, "unscoped queries must not expose per-result tenant ids")
}
