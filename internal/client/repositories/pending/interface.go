package pending

import (
	"context"

	"github.com/dmitrijs2005/journify/internal/client/models"
)

type Repository interface {
	// Enqueue assigns e.ID, stamps e.Timestamp and sets status pending.
	Enqueue(ctx context.Context, e *models.PendingSync) (int64, error)

	// List returns every entry in enqueue order.
	List(ctx context.Context) ([]models.PendingSync, error)

	// Remove deletes the entry; a missing id is not an error.
	Remove(ctx context.Context, id int64) error

	// Claim moves a pending entry to attempting. It reports false when the
	// entry is gone or another drain already holds it.
	Claim(ctx context.Context, id int64) (bool, error)

	// Release returns a claimed entry to pending.
	Release(ctx context.Context, id int64) error

	// SetStatus returns common.ErrNotFound for a missing id.
	SetStatus(ctx context.Context, id int64, status models.SyncStatus) error

	Count(ctx context.Context) (int, error)
}
