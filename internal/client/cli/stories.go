package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/journify/internal/client/models"
	"github.com/dmitrijs2005/journify/internal/client/services"
)

type addStoryInput struct {
	Description string
	Photo       string
	Lat, Lon    string
}

// AddStory saves a story locally and queues it. It is submitted right away
// when the API answers; otherwise it waits for the next drain.
func (a *App) AddStory(ctx context.Context, in addStoryInput) error {
	var err error
	if in.Description == "" {
		if in.Description, err = GetSimpleText(a.reader, "Description", a.out); err != nil {
			return err
		}
	}
	lat, err := parseCoordinate(in.Lat)
	if err != nil {
		return err
	}
	lon, err := parseCoordinate(in.Lon)
	if err != nil {
		return err
	}

	a.checkOnline(ctx)

	res, err := a.storyService.Add(ctx, services.NewStory{
		Description: in.Description,
		Lat:         lat,
		Lon:         lon,
		Photo:       in.Photo,
	})
	if err != nil && res == nil {
		return err
	}
	switch {
	case res.Synced:
		a.printf("Story %s sent.\n", res.Story.ID)
	case err != nil:
		a.printf("Story %s saved locally, sending failed: %v\n", res.Story.ID, err)
		return fmt.Errorf("story %s not sent: %w", res.Story.ID, err)
	default:
		a.printf("Story %s saved offline, it will be sent when you are back online.\n", res.Story.ID)
	}
	return nil
}

// ListStories prints the remote list with unsynced local stories first.
// local skips the network entirely.
func (a *App) ListStories(ctx context.Context, withLocation, local bool) error {
	list := a.storyService.ListLocal
	if !local {
		a.checkOnline(ctx)
		list = func(ctx context.Context) ([]models.Story, error) { return a.storyService.List(ctx, withLocation) }
	}
	stories, err := list(ctx)
	if err != nil {
		return err
	}
	if len(stories) == 0 {
		a.printf("No stories.\n")
		return nil
	}

	now := time.Now()
	for _, s := range stories {
		fav, err := a.storyService.IsFavorite(ctx, s.ID)
		if err != nil {
			return err
		}
		storyLine(a.out, s, fav, now)
	}
	return nil
}

// ShowStory prints a story saved on this device.
func (a *App) ShowStory(ctx context.Context, id string) error {
	s, err := a.storyService.Get(ctx, id)
	if err != nil {
		return err
	}
	fav, err := a.storyService.IsFavorite(ctx, id)
	if err != nil {
		return err
	}
	storyDetail(a.out, *s, fav, time.Now())
	return nil
}

func (a *App) DeleteStory(ctx context.Context, id string) error {
	if err := a.storyService.Delete(ctx, id); err != nil {
		return err
	}
	a.printf("Story %s deleted.\n", id)
	return nil
}

// SyncNow drains the outbox once if the API answers.
func (a *App) SyncNow(ctx context.Context) error {
	if a.checkOnline(ctx) == ModeOffline {
		a.printf("Offline, nothing sent.\n")
		return nil
	}
	// per-entry outcomes are reported through toasts
	res, err := a.syncService.Sync(ctx)
	if err != nil {
		return err
	}
	if res.Attempted == 0 {
		a.printf("Nothing to sync.\n")
	}
	return nil
}
