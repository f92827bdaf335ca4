// Package scoping decides how an uploaded object maps to a document identity
// in the search index, and how a query is restricted to one tenant's
// documents. The two deployment modes share one pipeline; the strategy is
// fixed at construction time.
package scoping

import (
	"log"
	"regexp"
	"strings"
)

// MaxDocumentIDLength is the index's hard cap on document IDs.
const MaxDocumentIDLength = 100

// Mode selects between one shared corpus and per-tenant isolation.
type Mode int

const (
	// ModeGlobal indexes every document into one shared corpus with no
	// tenant metadata.
	ModeGlobal Mode = iota
	// ModeTenant derives a tenant id for every document and filters queries
	// by it.
	ModeTenant
)

var invalidIDChars = regexp.MustCompile(`[^a-z0-9_\-]`)

// Identity is the derived document identity for one stored object.
type Identity struct {
	DocumentID string
	TenantID   string // empty in global mode
}

// Strategy derives document identities and query filters for one deployment
// mode. Derivation is deterministic: the same object name always yields the
// same identity, which is what makes re-ingestion an idempotent upsert.
type Strategy struct {
	mode           Mode
	fallbackTenant string
}

// NewStrategy builds a strategy for the given mode. fallbackTenant is only
// consulted in tenant mode, for object names that carry no tenant prefix.
func NewStrategy(mode Mode, fallbackTenant string) *Strategy {
	if fallbackTenant == "" {
		fallbackTenant = "shared"
	}
	return &Strategy{mode: mode, fallbackTenant: fallbackTenant}
}

// Mode reports the configured scoping mode.
func (s *Strategy) Mode() Mode { return s.mode }

// DeriveIdentity maps a storage object name to its index identity.
//
// Tenant mode expects object names of the form "<tenant>_<rest>"; the part
// before the first underscore is the tenant id. explicitTenant, when
// non-empty (object metadata), wins over the filename convention. Names
// without either fall back to the shared tenant with a warning — ingestion
// must not lose the document over a naming slip.
func (s *Strategy) DeriveIdentity(objectName, explicitTenant string) Identity {
	if s.mode == ModeGlobal {
		return Identity{DocumentID: SanitizeDocumentID(objectName)}
	}

	tenant := explicitTenant
	if tenant == "" {
		tenant = tenantFromObjectName(objectName)
		if tenant == "" {
			log.Printf("WARN: object %q has no tenant prefix, falling back to tenant %q", objectName, s.fallbackTenant)
			tenant = s.fallbackTenant
		}
	}

	return Identity{
		DocumentID: SanitizeDocumentID(tenant + "_" + objectName),
		TenantID:   tenant,
	}
}

// BuildFilter returns the search filter predicate for a tenant, or "" for an
// unscoped query. Global mode never filters.
func (s *Strategy) BuildFilter(tenantID string) string {
	if s.mode == ModeGlobal || tenantID == "" {
		return ""
	}
	return `tenant_id: ANY("` + escapeFilterValue(tenantID) + `")`
}

// SanitizeDocumentID maps an object name onto the index's ID grammar:
// lowercase, charset [a-z0-9_-], must start with a letter, at most 100
// characters. Deterministic by construction.
func SanitizeDocumentID(objectName string) string {
	id := invalidIDChars.ReplaceAllString(strings.ToLower(objectName), "-")
	if id == "" {
		return id
	}
	if id[0] >= '0' && id[0] <= '9' {
		id = "doc-" + id
	}
	if len(id) > MaxDocumentIDLength {
		id = id[:MaxDocumentIDLength]
	}
	return id
}

// tenantFromObjectName extracts the tenant prefix, "" when absent.
func tenantFromObjectName(objectName string) string {
	tenant, _, found := strings.Cut(objectName, "_")
	if !found || tenant == "" {
		return ""
	}
	return tenant
}

// escapeFilterValue escapes quoting metacharacters so a tenant id can never
// break out of the filter string literal.
func escapeFilterValue(v string) string {
	v = strings.ReplaceAll(v, `\`, `\\`)
	return strings.ReplaceAll(v, `"`, `\"`)
}
