package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/journify/internal/client/client"
	"github.com/dmitrijs2005/journify/internal/client/models"
	"github.com/dmitrijs2005/journify/internal/client/repositories/pending"
	"github.com/dmitrijs2005/journify/internal/client/repositories/stories"
	"github.com/dmitrijs2005/journify/internal/common"
	"github.com/dmitrijs2005/journify/internal/logging"
	"github.com/dmitrijs2005/journify/internal/messaging"
	"github.com/dmitrijs2005/journify/internal/platform"
	"golang.org/x/sync/singleflight"
)

// SyncResult summarizes one drain cycle.
type SyncResult struct {
	Attempted int
	Succeeded int
	Failed    int
	// Skipped is set when the cycle did not run because the device is
	// offline.
	Skipped bool
}

type SyncStatus struct {
	Online       bool
	PendingCount int
	Pending      []models.PendingSync
}

// SyncItemFailedError describes one entry whose replay failed. The entry is
// dropped; the error is logged and never returned to the trigger.
type SyncItemFailedError struct {
	EntryID   int64
	OfflineID string
	Type      models.SyncType
	Err       error
}

func (e *SyncItemFailedError) Error() string {
	return fmt.Sprintf("sync entry %d (%s %s): %v", e.EntryID, e.Type, e.OfflineID, e.Err)
}

func (e *SyncItemFailedError) Unwrap() error { return e.Err }

// SyncHandler replays one queued write.
type SyncHandler func(ctx context.Context, e models.PendingSync) error

// SyncService drains the pending-sync queue.
//
// Every entry is attempted at most once: it is claimed in the store before
// its handler runs, then marked completed or failed and removed regardless
// of the outcome. Concurrent calls to Sync share the cycle already in
// flight; drains in other processes skip entries they cannot claim.
type SyncService interface {
	Sync(ctx context.Context) (SyncResult, error)
	Status(ctx context.Context) (SyncStatus, error)
	Handle(t models.SyncType, h SyncHandler)
}

type syncService struct {
	pending  pending.Repository
	stories  stories.Repository
	client   client.Client
	env      platform.Env
	log      logging.Logger
	now      func() time.Time
	handlers map[models.SyncType]SyncHandler
	group    singleflight.Group
}

// NewSyncService returns a coordinator with the add-story handler
// registered.
func NewSyncService(p pending.Repository, s stories.Repository, c client.Client, env platform.Env, log logging.Logger, now func() time.Time) SyncService {
	if now == nil {
		now = time.Now
	}
	svc := &syncService{
		pending:  p,
		stories:  s,
		client:   c,
		env:      env,
		log:      log.With("component", "sync"),
		now:      now,
		handlers: make(map[models.SyncType]SyncHandler),
	}
	svc.Handle(models.SyncTypeAddStory, svc.addStory)
	return svc
}

// Handle registers h for entries of type t. It must not be called while a
// drain is running.
func (s *syncService) Handle(t models.SyncType, h SyncHandler) {
	s.handlers[t] = h
}

func (s *syncService) Sync(ctx context.Context) (SyncResult, error) {
	v, err, shared := s.group.Do("drain", func() (any, error) {
		return s.drain(ctx)
	})
	if shared {
		s.log.Debug(ctx, "joined in-flight drain")
	}
	res, _ := v.(SyncResult)
	return res, err
}

func (s *syncService) drain(ctx context.Context) (SyncResult, error) {
	if !s.env.IsOnline() {
		s.log.Debug(ctx, "skipping drain, offline")
		return SyncResult{Skipped: true}, nil
	}

	// entries enqueued after this point wait for the next cycle
	entries, err := s.pending.List(ctx)
	if err != nil {
		return SyncResult{}, err
	}
	if len(entries) == 0 {
		return SyncResult{}, nil
	}

	s.log.Info(ctx, "draining pending queue", "count", len(entries))

	var (
		res     SyncResult
		storage []error
	)
	for _, e := range entries {
		// another process sharing the store may be draining the same queue
		claimed, err := s.pending.Claim(ctx, e.ID)
		if err != nil {
			storage = append(storage, err)
			continue
		}
		if !claimed {
			s.log.Debug(ctx, "sync entry held elsewhere, skipping", "entry_id", e.ID)
			continue
		}
		res.Attempted++

		status := models.SyncStatusCompleted
		if herr := s.dispatch(ctx, e); herr != nil {
			status = models.SyncStatusFailed
			res.Failed++
			failed := &SyncItemFailedError{EntryID: e.ID, OfflineID: e.OfflineID, Type: e.Type, Err: herr}
			s.log.Warn(ctx, "sync entry failed, dropping", "entry_id", e.ID, "offline_id", e.OfflineID, "err", failed)
		} else {
			res.Succeeded++
			s.log.Info(ctx, "sync entry completed", "entry_id", e.ID, "offline_id", e.OfflineID)
		}

		if err := s.pending.SetStatus(ctx, e.ID, status); err != nil && !errors.Is(err, common.ErrNotFound) {
			storage = append(storage, err)
		}
		if err := s.pending.Remove(ctx, e.ID); err != nil {
			storage = append(storage, err)
		}
	}

	if res.Succeeded > 0 {
		s.confirm(ctx, res.Succeeded)
	}
	if res.Failed > 0 {
		toast := platform.Toast{Message: fmt.Sprintf("%d stories failed to sync", res.Failed), Level: messaging.ToastError}
		if err := s.env.Notify(ctx, toast); err != nil {
			s.log.Warn(ctx, "sync toast failed", "err", err)
		}
	}

	return res, errors.Join(storage...)
}

func (s *syncService) dispatch(ctx context.Context, e models.PendingSync) error {
	h, ok := s.handlers[e.Type]
	if !ok {
		return fmt.Errorf("%w: %q", models.ErrUnknownSyncType, e.Type)
	}
	return h(ctx, e)
}

func (s *syncService) addStory(ctx context.Context, e models.PendingSync) error {
	v, err := e.Decode()
	if err != nil {
		return err
	}
	p := v.(models.AddStoryPayload)

	if _, err := s.client.SubmitStory(ctx, p); err != nil {
		return err
	}
	return s.stories.MarkSynced(ctx, e.OfflineID, s.now())
}

func (s *syncService) confirm(ctx context.Context, n int) {
	toast := platform.Toast{Message: fmt.Sprintf("%d stories synced", n), Level: messaging.ToastSuccess}
	if err := s.env.Notify(ctx, toast); err != nil {
		s.log.Warn(ctx, "sync toast failed", "err", err)
	}

	note := platform.SystemNotification{NotificationPayload: models.NotificationPayload{
		Title:   "Sync complete",
		Body:    fmt.Sprintf("%d offline stories sent to the server.", n),
		Icon:    common.DefaultNotificationIcon,
		Badge:   common.DefaultNotificationIcon,
		Tag:     "sync-success",
		Vibrate: []int{200, 100, 200},
		Actions: []models.NotificationAction{{Action: "view", Title: "View stories"}},
	}}
	if err := s.env.Notify(ctx, note); err != nil {
		s.log.Warn(ctx, "sync notification failed", "err", err)
	}
}

func (s *syncService) Status(ctx context.Context) (SyncStatus, error) {
	entries, err := s.pending.List(ctx)
	if err != nil {
		return SyncStatus{}, err
	}
	return SyncStatus{Online: s.env.IsOnline(), PendingCount: len(entries), Pending: entries}, nil
}
