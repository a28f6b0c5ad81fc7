package pending

import (
	"context"
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

// NewSQLiteRepository returns a repository stamping entries with now, or
// time.Now when now is nil.
func NewSQLiteRepository(db dbx.DBTX, now func() time.Time) *SQLiteRepository {
	if now == nil {
		now = time.Now
	}
	return &SQLiteRepository{db: db, now: now}
}

func storageErr(op string, err error) error {
	return common.NewStorageError(common.PartitionPendingSync, op, err)
}

func (r *SQLiteRepository) Enqueue(ctx context.Context, e *models.PendingSync) (int64, error) {
	ts := r.now()
	payload := []byte(e.Payload)
	if payload == nil {
		payload = []byte("null")
	}

	res, err := r.db.ExecContext(ctx, `
		INSERT INTO pending_sync (type, offline_id, payload, timestamp, status)
		VALUES (?, ?, ?, ?, ?)
	`, string(e.Type), e.OfflineID, payload, ts.UnixMilli(), string(models.SyncStatusPending))
	if err != nil {
		return 0, storageErr("enqueue", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, storageErr("enqueue", err)
	}

	e.ID = id
	e.Timestamp = time.UnixMilli(ts.UnixMilli())
	e.Status = models.SyncStatusPending
	return id, nil
}

func (r *SQLiteRepository) List(ctx context.Context) ([]models.PendingSync, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, type, offline_id, payload, timestamp, status
		FROM pending_sync ORDER BY id
	`)
	if err != nil {
		return nil, storageErr("list", err)
	}
	defer rows.Close()

	var result []models.PendingSync
	for rows.Next() {
		var (
			e          models.PendingSync
			typ, state string
			ts         int64
			payload    []byte
		)
		if err := rows.Scan(&e.ID, &typ, &e.OfflineID, &payload, &ts, &state); err != nil {
			return nil, storageErr("list", err)
		}
		e.Type = models.SyncType(typ)
		e.Status = models.SyncStatus(state)
		e.Payload = payload
		e.Timestamp = time.UnixMilli(ts)
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list", err)
	}
	return result, nil
}

func (r *SQLiteRepository) Remove(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM pending_sync WHERE id = ?`, id)
	return storageErr("remove", err)
}

func (r *SQLiteRepository) Claim(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE pending_sync SET status = ? WHERE id = ? AND status = ?
	`, string(models.SyncStatusAttempting), id, string(models.SyncStatusPending))
	if err != nil {
		return false, storageErr("claim", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, storageErr("claim", err)
	}
	return n == 1, nil
}

func (r *SQLiteRepository) Release(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE pending_sync SET status = ? WHERE id = ? AND status = ?
	`, string(models.SyncStatusPending), id, string(models.SyncStatusAttempting))
	return storageErr("release", err)
}

func (r *SQLiteRepository) SetStatus(ctx context.Context, id int64, status models.SyncStatus) error {
	res, err := r.db.ExecContext(ctx, `UPDATE pending_sync SET status = ? WHERE id = ?`, string(status), id)
	if err != nil {
		return storageErr("set status", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return storageErr("set status", err)
	}
	if n == 0 {
		return fmt.Errorf("pending entry %d: %w", id, common.ErrNotFound)
	}
	return nil
}

func (r *SQLiteRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM pending_sync`).Scan(&n); err != nil {
		return 0, storageErr("count", err)
	}
	return n, nil
}
