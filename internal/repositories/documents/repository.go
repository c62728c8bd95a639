// Package documents stores document heads.
package documents

import (
	"context"

	"github.com/dmitrijs2005/docstore/internal/models"
)

// Repository is scoped by owner on every call. A document owned by another
// user is reported as common.ErrorNotFound.
type Repository interface {
	// Upsert inserts the head or updates it in place when doc.UserID owns it.
	Upsert(ctx context.Context, doc *models.Document) (*models.Document, error)
	Get(ctx context.Context, userID, id string) (*models.Document, error)
	// ListByUser returns the user's documents, most recently modified first.
	ListByUser(ctx context.Context, userID string) ([]models.Document, error)
	// Delete removes the head; versions, branches and tags cascade.
	Delete(ctx context.Context, userID, id string) error
}
