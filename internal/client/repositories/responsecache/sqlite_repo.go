package responsecache

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
	db *sql.DB
}

func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func storageErr(op string, err error) error {
	return common.NewStorageError(common.PartitionResponseCache, op, err)
}

func (r *SQLiteRepository) Put(ctx context.Context, url string, body []byte, at time.Time) error {
	if body == nil {
		body = []byte{}
	}
	err := dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO response_cache (url, body) VALUES (?, ?)
			ON CONFLICT(url) DO UPDATE SET body = excluded.body
		`, url, body); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO response_cache_meta (url, written_at) VALUES (?, ?)
			ON CONFLICT(url) DO UPDATE SET written_at = excluded.written_at
		`, url, at.UnixMilli())
		return err
	})
	return storageErr("put", err)
}

func (r *SQLiteRepository) Get(ctx context.Context, url string) (*models.CacheEntry, error) {
	var (
		e  = models.CacheEntry{URL: url}
		ts int64
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT c.body, m.written_at
		FROM response_cache c JOIN response_cache_meta m ON m.url = c.url
		WHERE c.url = ?
	`, url).Scan(&e.Body, &ts)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("cache %s: %w", url, common.ErrNotFound)
	}
	if err != nil {
		return nil, storageErr("get", err)
	}
	e.WrittenAt = time.UnixMilli(ts)
	return &e, nil
}

func (r *SQLiteRepository) Prune(ctx context.Context, now time.Time, p Policy) (int, error) {
	removed, err := dbx.WithTxValue(ctx, r.db, func(ctx context.Context, tx dbx.DBTX) (int, error) {
		var total int64

		if p.MaxAge > 0 {
			res, err := tx.ExecContext(ctx, `DELETE FROM response_cache_meta WHERE written_at < ?`,
				now.Add(-p.MaxAge).UnixMilli())
			if err != nil {
				return 0, err
			}
			n, _ := res.RowsAffected()
			total += n
		}

		if p.MaxEntries > 0 {
			res, err := tx.ExecContext(ctx, `
				DELETE FROM response_cache_meta WHERE url NOT IN (
					SELECT url FROM response_cache_meta
					ORDER BY written_at DESC, rowid DESC
					LIMIT ?
				)
			`, p.MaxEntries)
			if err != nil {
				return 0, err
			}
			n, _ := res.RowsAffected()
			total += n
		}

		// bodies follow their metadata
		if _, err := tx.ExecContext(ctx, `
			DELETE FROM response_cache WHERE url NOT IN (SELECT url FROM response_cache_meta)
		`); err != nil {
			return 0, err
		}
		return int(total), nil
	})
	if err != nil {
		return 0, storageErr("prune", err)
	}
	return removed, nil
}

func (r *SQLiteRepository) Entries(ctx context.Context) ([]models.CacheEntry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT url, written_at FROM response_cache_meta ORDER BY written_at DESC, rowid DESC
	`)
	if err != nil {
		return nil, storageErr("entries", err)
	}
	defer rows.Close()

	var result []models.CacheEntry
	for rows.Next() {
		var (
			e  models.CacheEntry
			ts int64
		)
		if err := rows.Scan(&e.URL, &ts); err != nil {
			return nil, storageErr("entries", err)
		}
		e.WrittenAt = time.UnixMilli(ts)
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("entries", err)
	}
	return result, nil
}
