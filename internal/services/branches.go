package services

import (
	"context"
	"errors"
	"strings"

	"github.com/dmitrijs2005/docstore/internal/common"
	"github.com/dmitrijs2005/docstore/internal/dberr"
	"github.com/dmitrijs2005/docstore/internal/models"
	"github.com/dmitrijs2005/docstore/internal/storage"
)

// CreateBranch names baseVersionID, which must belong to documentID.
func (s *DocumentStore) CreateBranch(ctx context.Context, documentID, name, baseVersionID, userID string) (*models.Branch, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, dberr.Validation("createBranch", "Branch name is required", nil)
	}

	a, err := s.source.Adapter()
	if err != nil {
		return nil, err
	}
	if _, err := s.ownedDocument(ctx, a, a.Conn(), documentID, userID); err != nil {
		return nil, err
	}
	if _, err := a.Versions(a.Conn()).Get(ctx, documentID, baseVersionID); err != nil {
		return nil, err
	}

	b, err := a.Branches(a.Conn()).Create(ctx, &models.Branch{
		DocumentID:    documentID,
		Name:          name,
		BaseVersionID: baseVersionID,
		CreatedBy:     userID,
	})
	if err != nil {
		if dberr.IsUniqueViolation(err) {
			return nil, dberr.Validation("createBranch", "Branch name already exists for this document", err)
		}
		return nil, err
	}
	return b, nil
}

func (s *DocumentStore) GetBranches(ctx context.Context, documentID, userID string) ([]models.Branch, error) {
	a, err := s.source.Adapter()
	if err != nil {
		return nil, err
	}
	if _, err := s.ownedDocument(ctx, a, a.Conn(), documentID, userID); err != nil {
		return nil, err
	}
	return a.Branches(a.Conn()).ListByDocument(ctx, documentID)
}

// DeactivateBranch marks the branch inactive. The branch row is kept.
func (s *DocumentStore) DeactivateBranch(ctx context.Context, documentID, branchID, userID string) error {
	a, err := s.source.Adapter()
	if err != nil {
		return err
	}
	if _, err := s.ownedDocument(ctx, a, a.Conn(), documentID, userID); err != nil {
		return err
	}
	return a.Branches(a.Conn()).Deactivate(ctx, documentID, branchID)
}

// CreateTag labels versionID. The version's document must belong to userID.
func (s *DocumentStore) CreateTag(ctx context.Context, versionID, name, description, userID string) (*models.Tag, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, dberr.Validation("createTag", "Tag name is required", nil)
	}

	a, err := s.source.Adapter()
	if err != nil {
		return nil, err
	}
	v, err := s.ownedVersion(ctx, a, versionID, userID)
	if err != nil {
		return nil, err
	}

	tag, err := a.Tags(a.Conn()).Create(ctx, &models.Tag{
		VersionID:   versionID,
		Name:        name,
		Description: description,
		CreatedBy:   userID,
	})
	if err != nil {
		if dberr.IsUniqueViolation(err) {
			return nil, dberr.Validation("createTag", "Tag name already exists for this version", err)
		}
		return nil, err
	}
	tag.VersionNumber = v.VersionNumber
	return tag, nil
}

// GetTags lists tags on every version of the document, newest version first.
func (s *DocumentStore) GetTags(ctx context.Context, documentID, userID string) ([]models.Tag, error) {
	a, err := s.source.Adapter()
	if err != nil {
		return nil, err
	}
	if _, err := s.ownedDocument(ctx, a, a.Conn(), documentID, userID); err != nil {
		return nil, err
	}
	return a.Tags(a.Conn()).ListByDocument(ctx, documentID)
}

func (s *DocumentStore) DeleteTag(ctx context.Context, versionID, tagID, userID string) error {
	a, err := s.source.Adapter()
	if err != nil {
		return err
	}
	if _, err := s.ownedVersion(ctx, a, versionID, userID); err != nil {
		return err
	}
	return a.Tags(a.Conn()).Delete(ctx, versionID, tagID)
}

// ownedVersion resolves a version through its document's owner. A version of
// someone else's document is common.ErrVersionNotFound.
func (s *DocumentStore) ownedVersion(ctx context.Context, a storage.Adapter, versionID, userID string) (*models.DocumentVersion, error) {
	v, err := a.Versions(a.Conn()).GetByID(ctx, versionID)
	if err != nil {
		return nil, err
	}
	if _, err := s.ownedDocument(ctx, a, a.Conn(), v.DocumentID, userID); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrVersionNotFound
		}
		return nil, err
	}
	return v, nil
}
