// Package versions stores immutable document snapshots.
package versions

import (
	"context"

	"github.com/dmitrijs2005/docstore/internal/models"
)

// Repository reports missing versions as common.ErrVersionNotFound.
// Callers are expected to have checked document ownership already.
type Repository interface {
	// Current returns the version flagged current for the document.
	Current(ctx context.Context, documentID string) (*models.DocumentVersion, error)
	// ClearCurrent unflags every version of the document.
	ClearCurrent(ctx context.Context, documentID string) error
	// MaxNumber returns the highest version number, 0 when there are none.
	MaxNumber(ctx context.Context, documentID string) (int, error)
	Create(ctx context.Context, v *models.DocumentVersion) (*models.DocumentVersion, error)
	// Get returns the version only if it belongs to documentID.
	Get(ctx context.Context, documentID, versionID string) (*models.DocumentVersion, error)
	GetByNumber(ctx context.Context, documentID string, number int) (*models.DocumentVersion, error)
	// GetByID resolves a version without a document scope.
	GetByID(ctx context.Context, versionID string) (*models.DocumentVersion, error)
	// History returns every version, newest first, with author and tag names.
	History(ctx context.Context, documentID string) ([]models.VersionHistoryEntry, error)
}

// TagSeparator joins aggregated tag names in History queries.
const TagSeparator = "\x1f"
