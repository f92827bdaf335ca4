package domain

import "time"

// DocumentTypeLegal is the document_type recorded for every indexed PDF.
// The data store schema keys off this value.
const DocumentTypeLegal = "legal_document"

// IndexableDocument is the unit handed to the managed search index after a
// storage object lands. The ID is derived deterministically from the object
// name so re-ingesting the same object is an upsert, not a duplicate.
type IndexableDocument struct {
	ID         string
	TenantID   string // empty in global mode
	Title      string
	Type       string
	SourceURI  string
	MimeType   string
	UploadedAt time.Time
}

// StorageEvent is an object-created notification from the storage platform.
type StorageEvent struct {
	Bucket     string
	ObjectName string
	// TenantID is set when the notification carries an explicit owner in
	// object metadata. It takes precedence over the filename convention.
	TenantID string
	// Generation disambiguates rewrites of the same object name; used only
	// for dedup keys.
	Generation string
}

// Reference is one cited document in a search answer.
type Reference struct {
	Title      string `json:"title"`
	Link       string `json:"link"`
	Snippet    string `json:"snippet"`
	DocumentID string `json:"documentId"`
	TenantID   string `json:"userId,omitempty"`
}

// SearchResultView is the client-facing shape of a search answer. It is built
// fresh per query and never persisted.
type SearchResultView struct {
	Summary      string      `json:"summary"`
	Query        string      `json:"query"`
	TenantID     string      `json:"userId,omitempty"`
	TotalResults int         `json:"totalResults"`
	References   []Reference `json:"references"`
}
