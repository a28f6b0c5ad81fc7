package stories

import (
	"context"
	"time"

	"github.com/dmitrijs2005/journify/internal/client/models"
)

type Repository interface {
	// Put inserts or replaces the story with s.ID.
	Put(ctx context.Context, s *models.Story) error

	// Get returns common.ErrNotFound when no story has the id.
	Get(ctx context.Context, id string) (*models.Story, error)

	// GetAll returns stories newest first.
	GetAll(ctx context.Context) ([]models.Story, error)

	Delete(ctx context.Context, id string) error

	// MarkSynced sets is_synced and stamps synced_at. A missing id is not an
	// error.
	MarkSynced(ctx context.Context, id string, at time.Time) error
}
