// Package localstore opens the SQLite file that backs every partition of the
// local store and hands out one repository per partition.
//
// The same file is opened by the foreground client and the relay daemon;
// the DSN enables WAL and a busy timeout so both can write.
package localstore

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dmitrijs2005/journify/internal/client/migrations"
	"github.com/dmitrijs2005/journify/internal/client/repositories/favorites"
	"github.com/dmitrijs2005/journify/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/journify/internal/client/repositories/notifications"
	"github.com/dmitrijs2005/journify/internal/client/repositories/pending"
	"github.com/dmitrijs2005/journify/internal/client/repositories/responsecache"
	"github.com/dmitrijs2005/journify/internal/client/repositories/stories"
	"github.com/dmitrijs2005/journify/internal/dbx"

	_ "modernc.org/sqlite"
)

type Store struct {
	DB *sql.DB

	Stories       stories.Repository
	Favorites     favorites.Repository
	Pending       pending.Repository
	Notifications notifications.Repository
	Metadata      metadata.Repository
	Cache         responsecache.Repository
}

type Option func(*options)

type options struct {
	now func() time.Time
}

// WithClock sets the clock used to stamp queue and notification rows.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// Open opens (creating if needed) the store at path and brings its schema up
// to date.
func Open(ctx context.Context, path string, opts ...Option) (*Store, error) {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}

	db, err := sql.Open("sqlite", dbx.SQLiteDSN(path))
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	if path == ":memory:" {
		// every pooled connection would get its own empty database
		db.SetMaxOpenConns(1)
	}

	if err := migrations.Up(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{
		DB:            db,
		Stories:       stories.NewSQLiteRepository(db),
		Favorites:     favorites.NewSQLiteRepository(db),
		Pending:       pending.NewSQLiteRepository(db, o.now),
		Notifications: notifications.NewSQLiteRepository(db, o.now),
		Metadata:      metadata.NewSQLiteRepository(db),
		Cache:         responsecache.NewSQLiteRepository(db),
	}, nil
}

// SchemaVersion reports the applied migration version.
func (s *Store) SchemaVersion(ctx context.Context) (int64, error) {
	return migrations.Version(ctx, s.DB)
}

func (s *Store) Close() error {
	return s.DB.Close()
}
