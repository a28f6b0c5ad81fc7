package stories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/journify/internal/client/models"
	"github.com/dmitrijs2005/journify/internal/common"
	"github.com/dmitrijs2005/journify/internal/dbx"
)

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func storageErr(op string, err error) error {
	return common.NewStorageError(common.PartitionStories, op, err)
}

const selectColumns = `id, name, description, photo_url, photo_path, lat, lon, created_at, is_manual, is_synced, synced_at`

func (r *SQLiteRepository) Put(ctx context.Context, s *models.Story) error {
	var syncedAt sql.NullInt64
	if s.SyncedAt != nil {
		syncedAt = sql.NullInt64{Int64: s.SyncedAt.UnixMilli(), Valid: true}
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO stories (`+selectColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			description = excluded.description,
			photo_url = excluded.photo_url,
			photo_path = excluded.photo_path,
			lat = excluded.lat,
			lon = excluded.lon,
			created_at = excluded.created_at,
			is_manual = excluded.is_manual,
			is_synced = excluded.is_synced,
			synced_at = excluded.synced_at
	`, s.ID, s.Name, s.Description, s.PhotoURL, s.PhotoPath, nullFloat(s.Lat), nullFloat(s.Lon),
		s.CreatedAt.UnixMilli(), s.IsManual, s.IsSynced, syncedAt)
	return storageErr("put", err)
}

func (r *SQLiteRepository) Get(ctx context.Context, id string) (*models.Story, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+selectColumns+` FROM stories WHERE id = ?`, id)
	s, err := scanStory(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("story %s: %w", id, common.ErrNotFound)
	}
	if err != nil {
		return nil, storageErr("get", err)
	}
	return s, nil
}

func (r *SQLiteRepository) GetAll(ctx context.Context) ([]models.Story, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+selectColumns+` FROM stories ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, storageErr("get all", err)
	}
	defer rows.Close()

	var result []models.Story
	for rows.Next() {
		s, err := scanStory(rows)
		if err != nil {
			return nil, storageErr("get all", err)
		}
		result = append(result, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("get all", err)
	}
	return result, nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM stories WHERE id = ?`, id)
	return storageErr("delete", err)
}

func (r *SQLiteRepository) MarkSynced(ctx context.Context, id string, at time.Time) error {
	_, err := r.db.ExecContext(ctx, `UPDATE stories SET is_synced = 1, synced_at = ? WHERE id = ?`, at.UnixMilli(), id)
	return storageErr("mark synced", err)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanStory(sc scanner) (*models.Story, error) {
	var (
		s         models.Story
		lat, lon  sql.NullFloat64
		createdAt int64
		syncedAt  sql.NullInt64
	)
	if err := sc.Scan(&s.ID, &s.Name, &s.Description, &s.PhotoURL, &s.PhotoPath, &lat, &lon,
		&createdAt, &s.IsManual, &s.IsSynced, &syncedAt); err != nil {
		return nil, err
	}
	if lat.Valid {
		s.Lat = &lat.Float64
	}
	if lon.Valid {
		s.Lon = &lon.Float64
	}
	s.CreatedAt = time.UnixMilli(createdAt)
	if syncedAt.Valid {
		t := time.UnixMilli(syncedAt.Int64)
		s.SyncedAt = &t
	}
	return &s, nil
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}
