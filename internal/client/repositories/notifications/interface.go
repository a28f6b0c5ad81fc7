package notifications

import (
	"context"

	"github.com/dmitrijs2005/journify/internal/client/models"
)

type Repository interface {
	// Enqueue stores p with the current timestamp and shown=false.
	Enqueue(ctx context.Context, p models.NotificationPayload) (int64, error)
	List(ctx context.Context) ([]models.DeferredNotification, error)
	// ListUnshown returns unshown rows, oldest first.
	ListUnshown(ctx context.Context) ([]models.DeferredNotification, error)
	// MarkShown returns common.ErrNotFound for a missing id.
	MarkShown(ctx context.Context, id int64) error
	Remove(ctx context.Context, id int64) error
}
