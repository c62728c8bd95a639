package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/docstore/internal/common"
	"github.com/dmitrijs2005/docstore/internal/diff"
	"github.com/dmitrijs2005/docstore/internal/models"
)

// Comparison holds two versions of a document and the diff between them.
type Comparison struct {
	From *models.DocumentVersion
	To   *models.DocumentVersion
	Diff *diff.Bundle
}

// VersionChanges describes what a version changed relative to the version
// numbered one below it. Previous is nil for the first version.
type VersionChanges struct {
	Version  *models.DocumentVersion
	Previous *models.DocumentVersion
	diff.Change
}

// GetVersionHistory returns every version of the document, newest first,
// with the author's username and the version's tag names.
func (s *DocumentStore) GetVersionHistory(ctx context.Context, documentID, userID string) ([]models.VersionHistoryEntry, error) {
	a, err := s.source.Adapter()
	if err != nil {
		return nil, err
	}
	if _, err := s.ownedDocument(ctx, a, a.Conn(), documentID, userID); err != nil {
		return nil, err
	}
	return a.Versions(a.Conn()).History(ctx, documentID)
}

func (s *DocumentStore) GetVersion(ctx context.Context, documentID, versionID, userID string) (*models.DocumentVersion, error) {
	a, err := s.source.Adapter()
	if err != nil {
		return nil, err
	}
	if _, err := s.ownedDocument(ctx, a, a.Conn(), documentID, userID); err != nil {
		return nil, err
	}
	return a.Versions(a.Conn()).Get(ctx, documentID, versionID)
}

// RestoreVersion appends a new version carrying the content of versionID.
// History is never rewritten. Restoring content equal to the current
// version creates nothing.
func (s *DocumentStore) RestoreVersion(ctx context.Context, documentID, versionID, userID string) (*SaveResult, error) {
	target, err := s.GetVersion(ctx, documentID, versionID, userID)
	if err != nil {
		return nil, err
	}

	doc := &models.Document{ID: documentID, Title: target.Title, Content: target.Content}
	res, err := s.SaveDocumentWithVersion(ctx, doc, userID, fmt.Sprintf(common.RestoreCommitMessageFormat, target.VersionNumber))
	if err != nil {
		return nil, err
	}
	s.log.Info(ctx, "version restored", "document", documentID, "from", target.VersionNumber, "created", res.Created)
	return res, nil
}

// CompareVersions diffs the plain text of two versions of the same document.
func (s *DocumentStore) CompareVersions(ctx context.Context, documentID, fromID, toID, userID string) (*Comparison, error) {
	a, err := s.source.Adapter()
	if err != nil {
		return nil, err
	}
	if _, err := s.ownedDocument(ctx, a, a.Conn(), documentID, userID); err != nil {
		return nil, err
	}

	versions := a.Versions(a.Conn())
	from, err := versions.Get(ctx, documentID, fromID)
	if err != nil {
		return nil, err
	}
	to, err := versions.Get(ctx, documentID, toID)
	if err != nil {
		return nil, err
	}

	bundle, err := diff.Compare(ctx, diff.ExtractText(from.Content), diff.ExtractText(to.Content))
	if err != nil {
		return nil, fmt.Errorf("compare versions %d and %d: %w", from.VersionNumber, to.VersionNumber, err)
	}
	return &Comparison{From: from, To: to, Diff: bundle}, nil
}

// GetVersionChanges classifies what versionID changed since its predecessor.
func (s *DocumentStore) GetVersionChanges(ctx context.Context, documentID, versionID, userID string) (*VersionChanges, error) {
	a, err := s.source.Adapter()
	if err != nil {
		return nil, err
	}
	if _, err := s.ownedDocument(ctx, a, a.Conn(), documentID, userID); err != nil {
		return nil, err
	}

	versions := a.Versions(a.Conn())
	v, err := versions.Get(ctx, documentID, versionID)
	if err != nil {
		return nil, err
	}
	text := diff.ExtractText(v.Content)

	var prev *models.DocumentVersion
	if v.VersionNumber > 1 {
		prev, err = versions.GetByNumber(ctx, documentID, v.VersionNumber-1)
		if err != nil && !errors.Is(err, common.ErrorNotFound) {
			return nil, err
		}
	}
	if prev == nil {
		return &VersionChanges{Version: v, Change: diff.Initial(text)}, nil
	}
	return &VersionChanges{Version: v, Previous: prev, Change: diff.Changes(diff.ExtractText(prev.Content), text)}, nil
}
