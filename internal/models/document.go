// Package models defines the persistent records of the document store.
package models

import (
	"encoding/json"
	"time"
)

// Document is the mutable head of a document. ID is chosen by the caller
// and stays stable for the life of the document.
type Document struct {
	ID           string
	UserID       string
	Title        string
	Content      json.RawMessage
	CreatedAt    time.Time
	LastModified time.Time
}

// DocumentVersion is an immutable snapshot of a document.
type DocumentVersion struct {
	ID               string
	DocumentID       string
	VersionNumber    int
	Title            string
	Content          json.RawMessage
	CommitMessage    string
	CreatedAt        time.Time
	CreatedBy        string
	IsCurrentVersion bool
	ContentHash      string
}

// VersionHistoryEntry is a version annotated for history listings.
type VersionHistoryEntry struct {
	DocumentVersion
	AuthorUserName string
	Tags           []string
}

// Branch is a named pointer to a base version. It never diverges history.
type Branch struct {
	ID            string
	DocumentID    string
	Name          string
	BaseVersionID string
	CreatedBy     string
	IsActive      bool
	CreatedAt     time.Time
}

// Tag is a named label on one version.
type Tag struct {
	ID            string
	VersionID     string
	Name          string
	Description   string
	CreatedBy     string
	CreatedAt     time.Time
	VersionNumber int
}
