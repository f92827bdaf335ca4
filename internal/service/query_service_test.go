package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spashta/legal-docs/internal/config"
	"spashta/legal-docs/internal/scoping"
	"spashta/legal-docs/internal/search"
)

// fakeSearcher implements search.Searcher for tests.
type fakeSearcher struct {
	lastQuery  string
	lastFilter string
	called     bool
	resp       *search.Response
	err        error
}

func (f *fakeSearcher) Search(_ context.Context, query, filter string) (*search.Response, error) {
	f.called = true
	f.lastQuery = query
	f.lastFilter = filter
	if f.err != nil {
		return nil, f.err
	}
	return f.resp, nil
}

func newQueryServiceForTest(fs *fakeSearcher, mode scoping.Mode, requireTenant bool) QueryService {
	return NewQueryService(fs, scoping.NewStrategy(mode, "shared"), config.ScopingConfig{RequireTenant: requireTenant})
}

func TestAsk_RejectsEmptyQuery(t *testing.T) {
	fs := &fakeSearcher{}
	svc := newQueryServiceForTest(fs, scoping.ModeGlobal, false)

	for _, q := range []string{"", "   ", "\n\t"} {
		_, err := svc.Ask(context.Background(), q, "")
		assert.ErrorIs(t, err, ErrInvalidInput, "query %q", q)
	}
	assert.False(t, fs.called, "invalid queries must not reach the search backend")
}

func TestAsk_RejectsOverlongQuery(t *testing.T) {
	fs := &fakeSearcher{}
	svc := newQueryServiceForTest(fs, scoping.ModeGlobal, false)

	_, err := svc.Ask(context.Background(), strings.Repeat("a", MaxQueryLength+1), "")
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.False(t, fs.called)
}

func TestAsk_QueryAtLimitAccepted(t *testing.T) {
	fs := &fakeSearcher{resp: &search.Response{}}
	svc := newQueryServiceForTest(fs, scoping.ModeGlobal, false)

	_, err := svc.Ask(context.Background(), strings.Repeat("a", MaxQueryLength), "")
	assert.NoError(t, err)
}

func TestAsk_TrimsQueryBeforeSearch(t *testing.T) {
	fs := &fakeSearcher{resp: &search.Response{}}
	svc := newQueryServiceForTest(fs, scoping.ModeGlobal, false)

	_, err := svc.Ask(context.Background(), "  What are tenant rights?  ", "")
	require.NoError(t, err)
	assert.Equal(t, "What are tenant rights?", fs.lastQuery)
}

func TestAsk_GlobalModeNeverFilters(t *testing.T) {
	fs := &fakeSearcher{resp: &search.Response{}}
	svc := newQueryServiceForTest(fs, scoping.ModeGlobal, false)

	_, err := svc.Ask(context.Background(), "anything", "user42")
	require.NoError(t, err)
	assert.Empty(t, fs.lastFilter)
}

func TestAsk_TenantModeBuildsFilter(t *testing.T) {
	fs := &fakeSearcher{resp: &search.Response{}}
	svc := newQueryServiceForTest(fs, scoping.ModeTenant, false)

	_, err := svc.Ask(context.Background(), "anything", "user42")
	require.NoError(t, err)
	assert.Equal(t, `tenant_id: ANY("user42")`, fs.lastFilter)
}

func TestAsk_TenantModeWithoutTenantIsUnfiltered(t *testing.T) {
	fs := &fakeSearcher{resp: &search.Response{}}
	svc := newQueryServiceForTest(fs, scoping.ModeTenant, false)

	_, err := svc.Ask(context.Background(), "anything", "")
	require.NoError(t, err)
	assert.Empty(t, fs.lastFilter)
}

func TestAsk_RequireTenantRejectsUnscopedQuery(t *testing.T) {
	fs := &fakeSearcher{resp: &search.Response{}}
	svc := newQueryServiceForTest(fs, scoping.ModeTenant, true)

	_, err := svc.Ask(context.Background(), "anything", "")
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.False(t, fs.called)

	_, err = svc.Ask(context.Background(), "anything", "user42")
	assert.NoError(t, err)
}

func TestAsk_UpstreamFailureSurfaces(t *testing.T) {
	upstream := errors.New("search backend down")
	fs := &fakeSearcher{err: upstream}
	svc := newQueryServiceForTest(fs, scoping.ModeGlobal, false)

	_, err := svc.Ask(context.Background(), "anything", "")
	assert.ErrorIs(t, err, upstream)
	assert.NotErrorIs(t, err, ErrInvalidInput)
}

func TestAsk_EndToEndShaping(t *testing.T) {
	fs := &fakeSearcher{resp: &search.Response{
		SummaryText: "Tenants may terminate with notice.",
		Results: []search.Result{
			{
				DocumentID: "doc-lease-pdf",
				StructData: map[string]interface{}{
					"title": "lease.pdf",
					"link":  "s3://bucket/lease.pdf",
					"snippets": []interface{}{
						map[string]interface{}{"snippet": "termination clause"},
						map[string]interface{}{"snippet": "notice period"},
					},
				},
			},
			{
				DocumentID: "doc-rental-pdf",
				StructData: map[string]interface{}{"title": "rental.pdf"},
			},
		},
	}}
	svc := newQueryServiceForTest(fs, scoping.ModeGlobal, false)

	view, err := svc.Ask(context.Background(), "What are tenant rights?", "")
	require.NoError(t, err)

	assert.Equal(t, "Tenants may terminate with notice.", view.Summary)
	assert.Equal(t, "What are tenant rights?", view.Query)
	assert.Equal(t, 2, view.TotalResults)
	require.Len(t, view.References, 2)

	assert.Equal(t, "lease.pdf", view.References[0].Title)
	assert.Equal(t, "s3://bucket/lease.pdf", view.References[0].Link)
	assert.Equal(t, "termination clause ... notice period", view.References[0].Snippet)
	assert.Equal(t, "doc-lease-pdf", view.References[0].DocumentID)

	assert.Equal(t, "rental.pdf", view.References[1].Title)
	assert.Equal(t, "", view.References[1].Link)
	assert.Equal(t, "No snippet available.", view.References[1].Snippet)
}
