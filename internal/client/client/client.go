package client

import (
	"context"

	"github.com/dmitrijs2005/journify/internal/client/models"
)

// Client is the contract the services use to reach the story API.
type Client interface {
	Register(ctx context.Context, name, email, password string) error
	Login(ctx context.Context, email, password string) (*models.Session, error)
	SubmitStory(ctx context.Context, p models.AddStoryPayload) (*models.Story, error)
	ListStories(ctx context.Context) ([]models.Story, error)
	ListStoriesWithLocation(ctx context.Context) ([]models.Story, error)
	Subscribe(ctx context.Context, sub models.PushSubscription) (string, error)
	Unsubscribe(ctx context.Context, endpoint string) (string, error)
	Ping(ctx context.Context) error
}

// SyncRegistrar records a background-sync tag to be fired on the next
// online transition.
type SyncRegistrar interface {
	RegisterSync(ctx context.Context, tag string) error
}

// SyncTagStories is the background-sync tag for refreshing stories.
const SyncTagStories = "sync-stories"
