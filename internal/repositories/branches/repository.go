// Package branches stores named pointers into a document's history.
package branches

import (
	"context"

	"github.com/dmitrijs2005/docstore/internal/models"
)

type Repository interface {
	// Create fails with a unique violation when the name is taken for the document.
	Create(ctx context.Context, b *models.Branch) (*models.Branch, error)
	ListByDocument(ctx context.Context, documentID string) ([]models.Branch, error)
	Deactivate(ctx context.Context, documentID, branchID string) error
}
