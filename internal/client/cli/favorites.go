package cli

import (
	"context"
	"time"
)

func (a *App) AddFavorite(ctx context.Context, id string) error {
	if err := a.storyService.AddFavorite(ctx, id); err != nil {
		return err
	}
	a.printf("Added %s to favorites.\n", id)
	return nil
}

func (a *App) RemoveFavorite(ctx context.Context, id string) error {
	if err := a.storyService.RemoveFavorite(ctx, id); err != nil {
		return err
	}
	a.printf("Removed %s from favorites.\n", id)
	return nil
}

func (a *App) ToggleFavorite(ctx context.Context, id string) error {
	on, err := a.storyService.ToggleFavorite(ctx, id)
	if err != nil {
		return err
	}
	if on {
		a.printf("Added %s to favorites.\n", id)
	} else {
		a.printf("Removed %s from favorites.\n", id)
	}
	return nil
}

// ListFavorites prints favorites resolved against stories saved on this
// device. Stories only known remotely show as ids.
func (a *App) ListFavorites(ctx context.Context) error {
	favs, err := a.storyService.Favorites(ctx)
	if err != nil {
		return err
	}
	if len(favs) == 0 {
		a.printf("No favorites.\n")
		return nil
	}
	now := time.Now()
	for _, f := range favs {
		if f.Story == nil {
			a.printf("%s %s %s\n", starred.Sprint("★"), f.StoryID, dim.Sprint("(not saved on this device)"))
			continue
		}
		storyLine(a.out, *f.Story, true, now)
	}
	return nil
}
