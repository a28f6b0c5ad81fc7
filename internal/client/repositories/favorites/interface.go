package favorites

import "context"

type Repository interface {
	// Add is idempotent.
	Add(ctx context.Context, storyID string) error
	Remove(ctx context.Context, storyID string) error
	Exists(ctx context.Context, storyID string) (bool, error)
	// GetAll returns ids in the order they were first added.
	GetAll(ctx context.Context) ([]string, error)
}
