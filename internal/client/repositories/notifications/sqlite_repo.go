package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dmitrijs2005/journify/internal/client/models"
	"github.com/dmitrijs2005/journify/internal/common"
	"github.com/dmitrijs2005/journify/internal/dbx"
)

type SQLiteRepository struct {
	db  dbx.DBTX
	now func() time.Time
}

func NewSQLiteRepository(db dbx.DBTX, now func() time.Time) *SQLiteRepository {
	if now == nil {
		now = time.Now
	}
	return &SQLiteRepository{db: db, now: now}
}

func storageErr(op string, err error) error {
	return common.NewStorageError(common.PartitionNotifications, op, err)
}

func (r *SQLiteRepository) Enqueue(ctx context.Context, p models.NotificationPayload) (int64, error) {
	body, err := json.Marshal(p)
	if err != nil {
		return 0, storageErr("enqueue", err)
	}

	res, err := r.db.ExecContext(ctx, `
		INSERT INTO offline_notifications (payload, timestamp, shown) VALUES (?, ?, 0)
	`, body, r.now().UnixMilli())
	if err != nil {
		return 0, storageErr("enqueue", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, storageErr("enqueue", err)
	}
	return id, nil
}

func (r *SQLiteRepository) List(ctx context.Context) ([]models.DeferredNotification, error) {
	return r.query(ctx, "list", `
		SELECT id, payload, timestamp, shown FROM offline_notifications ORDER BY timestamp, id
	`)
}

func (r *SQLiteRepository) ListUnshown(ctx context.Context) ([]models.DeferredNotification, error) {
	return r.query(ctx, "list unshown", `
		SELECT id, payload, timestamp, shown FROM offline_notifications
		WHERE shown = 0 ORDER BY timestamp, id
	`)
}

func (r *SQLiteRepository) query(ctx context.Context, op, q string) ([]models.DeferredNotification, error) {
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, storageErr(op, err)
	}
	defer rows.Close()

	var result []models.DeferredNotification
	for rows.Next() {
		var (
			n    models.DeferredNotification
			body []byte
			ts   int64
		)
		if err := rows.Scan(&n.ID, &body, &ts, &n.Shown); err != nil {
			return nil, storageErr(op, err)
		}
		if err := json.Unmarshal(body, &n.NotificationPayload); err != nil {
			return nil, storageErr(op, fmt.Errorf("row %d: %w", n.ID, err))
		}
		n.Timestamp = time.UnixMilli(ts)
		result = append(result, n)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr(op, err)
	}
	return result, nil
}

func (r *SQLiteRepository) MarkShown(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `UPDATE offline_notifications SET shown = 1 WHERE id = ?`, id)
	if err != nil {
		return storageErr("mark shown", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return storageErr("mark shown", err)
	}
	if n == 0 {
		return fmt.Errorf("notification %d: %w", id, common.ErrNotFound)
	}
	return nil
}

func (r *SQLiteRepository) Remove(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM offline_notifications WHERE id = ?`, id)
	return storageErr("remove", err)
}
