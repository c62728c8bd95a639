// Package tags stores labels attached to versions.
package tags

import (
	"context"

	"github.com/dmitrijs2005/docstore/internal/models"
)

type Repository interface {
	// Create fails with a unique violation when the name is taken for the version.
	Create(ctx context.Context, tag *models.Tag) (*models.Tag, error)
	// ListByDocument returns tags on every version of the document,
	// newest version first.
	ListByDocument(ctx context.Context, documentID string) ([]models.Tag, error)
	Delete(ctx context.Context, versionID, tagID string) error
}
