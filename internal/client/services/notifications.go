package services

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/journify/internal/client/models"
	"github.com/dmitrijs2005/journify/internal/client/repositories/notifications"
	"github.com/dmitrijs2005/journify/internal/common"
	"github.com/dmitrijs2005/journify/internal/logging"
	"github.com/dmitrijs2005/journify/internal/messaging"
	"github.com/dmitrijs2005/journify/internal/platform"
)

// ReconcileResult counts what one reconciliation pass did.
type ReconcileResult struct {
	Shown   int
	Dropped int
}

// NotificationService is the foreground half of deferred notifications.
type NotificationService interface {
	// Store persists the notification carried by m. When the relay already
	// persisted it (m.ID set) nothing is written and the id is returned.
	Store(ctx context.Context, m messaging.StoreOfflineNotification) (int64, error)
	// Reconcile displays every unshown notification, oldest first. A
	// notification that fails to display is removed; one that displays is
	// marked shown.
	Reconcile(ctx context.Context) (ReconcileResult, error)
	List(ctx context.Context) ([]models.DeferredNotification, error)
}

type notificationService struct {
	repo notifications.Repository
	env  platform.Env
	log  logging.Logger
}

func NewNotificationService(repo notifications.Repository, env platform.Env, log logging.Logger) NotificationService {
	return &notificationService{repo: repo, env: env, log: log.With("component", "notifications")}
}

func (s *notificationService) Store(ctx context.Context, m messaging.StoreOfflineNotification) (int64, error) {
	if m.ID != 0 {
		return m.ID, nil
	}
	id, err := s.repo.Enqueue(ctx, m.Notification)
	if err != nil {
		return 0, err
	}
	s.log.Debug(ctx, "deferred notification stored", "id", id)
	return id, nil
}

func (s *notificationService) List(ctx context.Context) ([]models.DeferredNotification, error) {
	return s.repo.List(ctx)
}

func (s *notificationService) Reconcile(ctx context.Context) (ReconcileResult, error) {
	var res ReconcileResult

	pending, err := s.repo.ListUnshown(ctx)
	if err != nil {
		return res, err
	}

	var storage []error
	for _, n := range pending {
		ev := platform.SystemNotification{NotificationPayload: deferredDisplay(n.NotificationPayload)}
		if err := s.env.Notify(ctx, ev); err != nil {
			s.log.Warn(ctx, "deferred notification failed to display, dropping", "id", n.ID, "err", err)
			if err := s.repo.Remove(ctx, n.ID); err != nil {
				storage = append(storage, err)
			}
			res.Dropped++
			continue
		}
		if err := s.repo.MarkShown(ctx, n.ID); err != nil && !errors.Is(err, common.ErrNotFound) {
			storage = append(storage, err)
		}
		res.Shown++
	}

	if res.Shown+res.Dropped > 0 {
		s.log.Info(ctx, "deferred notifications reconciled", "shown", res.Shown, "dropped", res.Dropped)
	}
	return res, errors.Join(storage...)
}

// deferredDisplay fills the fields a deferred notification is shown with
// when the stored payload left them empty.
func deferredDisplay(p models.NotificationPayload) models.NotificationPayload {
	if p.Title == "" {
		p.Title = "Offline notification"
	}
	if p.Body == "" {
		p.Body = "You received a notification while you were offline."
	}
	if p.Icon == "" {
		p.Icon = common.DefaultNotificationIcon
	}
	if p.Badge == "" {
		p.Badge = common.DefaultNotificationIcon
	}
	if p.Tag == "" {
		p.Tag = "offline-notification"
	}
	if len(p.Vibrate) == 0 {
		p.Vibrate = models.DefaultVibrate
	}
	if len(p.Actions) == 0 {
		p.Actions = []models.NotificationAction{{Action: "view", Title: "View"}}
	}
	return p
}
