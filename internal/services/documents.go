package services

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/dmitrijs2005/docstore/internal/common"
	"github.com/dmitrijs2005/docstore/internal/dberr"
	"github.com/dmitrijs2005/docstore/internal/dbx"
	"github.com/dmitrijs2005/docstore/internal/models"
)

// SaveResult is the outcome of a versioned save. Version is the current
// version after the save; Created reports whether this call appended it.
type SaveResult struct {
	Document *models.Document
	Version  *models.DocumentVersion
	Created  bool
}

// SaveDocument upserts the document head without touching its history.
func (s *DocumentStore) SaveDocument(ctx context.Context, doc *models.Document, userID string) (*models.Document, error) {
	head, err := prepare("saveDocument", doc, userID)
	if err != nil {
		return nil, err
	}
	a, err := s.source.Adapter()
	if err != nil {
		return nil, err
	}
	return a.Documents(a.Conn()).Upsert(ctx, head)
}

// SaveDocumentWithVersion upserts the head and, when its content differs
// from the current version, appends a new current version. Both happen in
// one transaction. An empty commit message becomes common.DefaultCommitMessage.
func (s *DocumentStore) SaveDocumentWithVersion(ctx context.Context, doc *models.Document, userID, commitMessage string) (*SaveResult, error) {
	head, err := prepare("saveDocumentWithVersion", doc, userID)
	if err != nil {
		return nil, err
	}
	hash, err := ContentHash(head.Title, head.Content)
	if err != nil {
		return nil, dberr.Validation("saveDocumentWithVersion", "Content must be valid JSON", err)
	}
	if strings.TrimSpace(commitMessage) == "" {
		commitMessage = common.DefaultCommitMessage
	}

	a, err := s.source.Adapter()
	if err != nil {
		return nil, err
	}

	var res SaveResult
	err = a.Transaction(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		saved, err := a.Documents(tx).Upsert(ctx, head)
		if err != nil {
			return err
		}
		res.Document = saved

		versions := a.Versions(tx)
		current, err := versions.Current(ctx, saved.ID)
		if err != nil && !errors.Is(err, common.ErrorNotFound) {
			return err
		}
		if current != nil && current.ContentHash == hash {
			res.Version = current
			return nil
		}

		if err := versions.ClearCurrent(ctx, saved.ID); err != nil {
			return err
		}
		n, err := versions.MaxNumber(ctx, saved.ID)
		if err != nil {
			return err
		}
		v, err := versions.Create(ctx, &models.DocumentVersion{
			DocumentID:       saved.ID,
			VersionNumber:    n + 1,
			Title:            saved.Title,
			Content:          saved.Content,
			CommitMessage:    commitMessage,
			CreatedBy:        userID,
			IsCurrentVersion: true,
			ContentHash:      hash,
		})
		if err != nil {
			return err
		}
		res.Version, res.Created = v, true
		return nil
	})
	if err != nil {
		return nil, err
	}

	if res.Created {
		s.log.Info(ctx, "version created", "document", res.Document.ID, "version", res.Version.VersionNumber)
	} else {
		s.log.Debug(ctx, "content unchanged, no version created", "document", res.Document.ID)
	}
	return &res, nil
}

// prepare validates doc and returns the head to store for userID.
func prepare(op string, doc *models.Document, userID string) (*models.Document, error) {
	if doc == nil || strings.TrimSpace(doc.ID) == "" {
		return nil, dberr.Validation(op, "Document id is required", nil)
	}
	head := *doc
	head.UserID = userID
	if len(head.Content) == 0 {
		head.Content = json.RawMessage(`[]`)
	}
	if !json.Valid(head.Content) {
		return nil, dberr.Validation(op, "Content must be valid JSON", nil)
	}
	return &head, nil
}

// GetUserDocuments lists the user's documents, most recently modified first.
func (s *DocumentStore) GetUserDocuments(ctx context.Context, userID string) ([]models.Document, error) {
	a, err := s.source.Adapter()
	if err != nil {
		return nil, err
	}
	return a.Documents(a.Conn()).ListByUser(ctx, userID)
}

func (s *DocumentStore) GetUserDocument(ctx context.Context, id, userID string) (*models.Document, error) {
	a, err := s.source.Adapter()
	if err != nil {
		return nil, err
	}
	return s.ownedDocument(ctx, a, a.Conn(), id, userID)
}

// DeleteUserDocument removes the document with its versions, branches and tags.
func (s *DocumentStore) DeleteUserDocument(ctx context.Context, id, userID string) error {
	a, err := s.source.Adapter()
	if err != nil {
		return err
	}
	if err := a.Documents(a.Conn()).Delete(ctx, userID, id); err != nil {
		return err
	}
	s.log.Info(ctx, "document deleted", "document", id)
	return nil
}
