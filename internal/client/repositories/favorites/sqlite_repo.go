package favorites

import (
	"context"

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
	return common.NewStorageError(common.PartitionFavorites, op, err)
}

func (r *SQLiteRepository) Add(ctx context.Context, storyID string) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO favorites (story_id) VALUES (?) ON CONFLICT(story_id) DO NOTHING`, storyID)
	return storageErr("add", err)
}

func (r *SQLiteRepository) Remove(ctx context.Context, storyID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM favorites WHERE story_id = ?`, storyID)
	return storageErr("remove", err)
}

func (r *SQLiteRepository) Exists(ctx context.Context, storyID string) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM favorites WHERE story_id = ?`, storyID).Scan(&n)
	if err != nil {
		return false, storageErr("exists", err)
	}
	return n > 0, nil
}

func (r *SQLiteRepository) GetAll(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT story_id FROM favorites ORDER BY rowid`)
	if err != nil {
		return nil, storageErr("get all", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, storageErr("get all", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("get all", err)
	}
	return ids, nil
}
