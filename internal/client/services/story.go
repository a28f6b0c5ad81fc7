package services

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/dmitrijs2005/journify/internal/client/client"
	"github.com/dmitrijs2005/journify/internal/client/models"
	"github.com/dmitrijs2005/journify/internal/client/repositories/favorites"
	"github.com/dmitrijs2005/journify/internal/client/repositories/pending"
	"github.com/dmitrijs2005/journify/internal/client/repositories/stories"
	"github.com/dmitrijs2005/journify/internal/common"
	"github.com/dmitrijs2005/journify/internal/filex"
	"github.com/dmitrijs2005/journify/internal/logging"
	"github.com/dmitrijs2005/journify/internal/platform"
)

var ErrEmptyDescription = errors.New("description is required")

// NewStory is what the user submits.
type NewStory struct {
	Description string
	Lat, Lon    *float64
	// Photo is a path to an image on disk; it is copied into the photo
	// directory before anything else is written.
	Photo string
}

// AddResult reports where a new story ended up. Story is always the local
// copy; Synced is set when the immediate submit succeeded.
type AddResult struct {
	Story   *models.Story
	EntryID int64
	Synced  bool
}

type StoryService interface {
	// Add saves the story locally and queues it before trying the network.
	// A returned error with a non-nil result means the local save stands
	// and the entry will be replayed on the next drain.
	Add(ctx context.Context, s NewStory) (*AddResult, error)
	List(ctx context.Context, withLocation bool) ([]models.Story, error)
	ListLocal(ctx context.Context) ([]models.Story, error)
	Get(ctx context.Context, id string) (*models.Story, error)
	Delete(ctx context.Context, id string) error

	AddFavorite(ctx context.Context, id string) error
	RemoveFavorite(ctx context.Context, id string) error
	// ToggleFavorite flips the mark and returns the new state.
	ToggleFavorite(ctx context.Context, id string) (bool, error)
	IsFavorite(ctx context.Context, id string) (bool, error)
	Favorites(ctx context.Context) ([]models.FavoriteView, error)
}

type storyService struct {
	stories   stories.Repository
	favorites favorites.Repository
	pending   pending.Repository
	client    client.Client
	env       platform.Env
	photoDir  string
	log       logging.Logger
	now       func() time.Time
}

type StoryDeps struct {
	Stories   stories.Repository
	Favorites favorites.Repository
	Pending   pending.Repository
	Client    client.Client
	Env       platform.Env
	PhotoDir  string
	Logger    logging.Logger
	Now       func() time.Time
}

func NewStoryService(d StoryDeps) StoryService {
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.Logger == nil {
		d.Logger = logging.Nop()
	}
	return &storyService{
		stories:   d.Stories,
		favorites: d.Favorites,
		pending:   d.Pending,
		client:    d.Client,
		env:       d.Env,
		photoDir:  d.PhotoDir,
		log:       d.Logger.With("component", "stories"),
		now:       d.Now,
	}
}

func (s *storyService) Add(ctx context.Context, in NewStory) (*AddResult, error) {
	desc := strings.TrimSpace(in.Description)
	if desc == "" {
		return nil, ErrEmptyDescription
	}
	if (in.Lat == nil) != (in.Lon == nil) {
		in.Lat, in.Lon = nil, nil
	}

	now := s.now()
	id := models.NewOfflineID(now)

	var photoPath string
	if in.Photo != "" {
		dir, err := filex.EnsureDir(s.photoDir)
		if err != nil {
			return nil, fmt.Errorf("photo dir: %w", err)
		}
		photoPath, err = filex.CopyInto(in.Photo, dir, id+strings.ToLower(filepath.Ext(in.Photo)))
		if err != nil {
			return nil, fmt.Errorf("copy photo: %w", err)
		}
	}

	story := &models.Story{
		ID:          id,
		Name:        "You",
		Description: desc,
		PhotoPath:   photoPath,
		Lat:         in.Lat,
		Lon:         in.Lon,
		CreatedAt:   now,
		IsManual:    true,
	}
	if err := s.stories.Put(ctx, story); err != nil {
		return nil, err
	}

	payload := models.AddStoryPayload{Description: desc, Lat: in.Lat, Lon: in.Lon, PhotoPath: photoPath}
	entry, err := models.NewPendingSync(models.SyncTypeAddStory, id, payload)
	if err != nil {
		return nil, err
	}
	entryID, err := s.pending.Enqueue(ctx, &entry)
	if err != nil {
		return nil, err
	}

	res := &AddResult{Story: story, EntryID: entryID}
	s.log.Info(ctx, "story saved locally", "offline_id", id, "entry_id", entryID)

	if !s.env.IsOnline() {
		return res, nil
	}

	claimed, err := s.pending.Claim(ctx, entryID)
	if err != nil {
		return res, err
	}
	if !claimed {
		s.log.Debug(ctx, "entry picked up by a drain", "offline_id", id, "entry_id", entryID)
		return res, nil
	}

	if _, err := s.client.SubmitStory(ctx, payload); err != nil {
		s.log.Warn(ctx, "immediate submit failed, left queued", "offline_id", id, "err", err)
		if rerr := s.pending.Release(ctx, entryID); rerr != nil {
			return res, errors.Join(err, rerr)
		}
		return res, err
	}

	at := s.now()
	if err := s.stories.MarkSynced(ctx, id, at); err != nil {
		return res, err
	}
	if err := s.pending.Remove(ctx, entryID); err != nil {
		return res, err
	}
	story.IsSynced = true
	story.SyncedAt = &at
	res.Synced = true
	return res, nil
}

// List reads through the gateway, so it degrades to the cached list (or an
// empty one) when offline. Stories created on this device that the server
// has not seen yet are appended.
func (s *storyService) List(ctx context.Context, withLocation bool) ([]models.Story, error) {
	var (
		remote []models.Story
		err    error
	)
	if withLocation {
		remote, err = s.client.ListStoriesWithLocation(ctx)
	} else {
		remote, err = s.client.ListStories(ctx)
	}
	if err != nil {
		return nil, err
	}

	local, err := s.stories.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.Story, 0, len(remote)+len(local))
	for _, st := range local {
		if st.IsOffline() && !st.IsSynced {
			if withLocation && !st.HasLocation() {
				continue
			}
			out = append(out, st)
		}
	}
	return append(out, remote...), nil
}

func (s *storyService) ListLocal(ctx context.Context) ([]models.Story, error) {
	return s.stories.GetAll(ctx)
}

func (s *storyService) Get(ctx context.Context, id string) (*models.Story, error) {
	return s.stories.Get(ctx, id)
}

// Delete removes the local copy only. The favorite mark, if any, stays.
func (s *storyService) Delete(ctx context.Context, id string) error {
	return s.stories.Delete(ctx, id)
}

func (s *storyService) AddFavorite(ctx context.Context, id string) error {
	return s.favorites.Add(ctx, id)
}

func (s *storyService) RemoveFavorite(ctx context.Context, id string) error {
	return s.favorites.Remove(ctx, id)
}

func (s *storyService) ToggleFavorite(ctx context.Context, id string) (bool, error) {
	fav, err := s.favorites.Exists(ctx, id)
	if err != nil {
		return false, err
	}
	if fav {
		return false, s.favorites.Remove(ctx, id)
	}
	return true, s.favorites.Add(ctx, id)
}

func (s *storyService) IsFavorite(ctx context.Context, id string) (bool, error) {
	return s.favorites.Exists(ctx, id)
}

func (s *storyService) Favorites(ctx context.Context) ([]models.FavoriteView, error) {
	ids, err := s.favorites.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.FavoriteView, 0, len(ids))
	for _, id := range ids {
		v := models.FavoriteView{StoryID: id}
		st, err := s.stories.Get(ctx, id)
		switch {
		case err == nil:
			v.Story = st
		case !errors.Is(err, common.ErrNotFound):
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
