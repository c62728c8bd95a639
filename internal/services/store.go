// Package services implements the versioned document store on top of the
// active storage adapter.
//
// Every operation resolves the adapter from an AdapterSource at call time,
// so a reconnect or a fallback switch is picked up without rebuilding the
// store. Operations scoped to a document check ownership first; a document
// owned by someone else is reported exactly like a missing one.
package services

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"github.com/dmitrijs2005/docstore/internal/dbx"
	"github.com/dmitrijs2005/docstore/internal/logging"
	"github.com/dmitrijs2005/docstore/internal/models"
	"github.com/dmitrijs2005/docstore/internal/storage"
	"golang.org/x/crypto/bcrypt"
)

// AdapterSource hands out the connected adapter.
type AdapterSource interface {
	Adapter() (storage.Adapter, error)
}

type DocumentStore struct {
	source AdapterSource
	log    logging.Logger
	cost   int
}

func NewDocumentStore(source AdapterSource, log logging.Logger) *DocumentStore {
	return &DocumentStore{source: source, log: log, cost: bcrypt.DefaultCost}
}

// ownedDocument loads the document head only if userID owns it.
func (s *DocumentStore) ownedDocument(ctx context.Context, a storage.Adapter, db dbx.DBTX, documentID, userID string) (*models.Document, error) {
	return a.Documents(db).Get(ctx, userID, documentID)
}

// ContentHash is the SHA-256 hex digest of the JSON form of {title, content}.
// Content is re-encoded first so that formatting and key order do not
// change the digest.
func ContentHash(title string, content json.RawMessage) (string, error) {
	canonical, err := canonicalJSON(content)
	if err != nil {
		return "", err
	}
	payload, err := json.Marshal(struct {
		Title   string          `json:"title"`
		Content json.RawMessage `json:"content"`
	}{Title: title, Content: canonical})
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:]), nil
}

func canonicalJSON(raw json.RawMessage) (json.RawMessage, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return json.Marshal(v)
}
