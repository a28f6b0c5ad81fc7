package relay

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/journify/internal/logging"
	"github.com/fsnotify/fsnotify"
)

// Inbox feeds *.json files dropped into a spool directory to the relay as
// pushes. Each file is removed once the relay has handled it.
type Inbox struct {
	dir   string
	relay *Relay
	log   logging.Logger
}

func NewInbox(dir string, r *Relay, l logging.Logger) *Inbox {
	return &Inbox{dir: dir, relay: r, log: l.With("component", "inbox")}
}

// Run drains files already present, then watches for new ones until ctx is
// done.
func (in *Inbox) Run(ctx context.Context) error {
	if err := os.MkdirAll(in.dir, 0o755); err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(in.dir); err != nil {
		return err
	}

	in.drain(ctx)

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			// writers should create under another name and rename in
			if event.Has(fsnotify.Create) || event.Has(fsnotify.Write) || event.Has(fsnotify.Rename) {
				in.handle(ctx, event.Name)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			in.log.Warn(ctx, "inbox watcher error", "err", err)
		}
	}
}

func (in *Inbox) drain(ctx context.Context) {
	entries, err := os.ReadDir(in.dir)
	if err != nil {
		in.log.Warn(ctx, "read inbox failed", "err", err)
		return
	}
	for _, e := range entries {
		if !e.IsDir() {
			in.handle(ctx, filepath.Join(in.dir, e.Name()))
		}
	}
}

func (in *Inbox) handle(ctx context.Context, path string) {
	if !strings.EqualFold(filepath.Ext(path), ".json") {
		return
	}
	body, err := os.ReadFile(path)
	if err != nil {
		// already consumed by an earlier event for the same file
		if !os.IsNotExist(err) {
			in.log.Warn(ctx, "read push file failed", "path", path, "err", err)
		}
		return
	}
	if len(body) == 0 {
		// created but not written yet
		return
	}

	// the file stays until the push is stored; a failed one is retried on
	// the next event or start
	if _, err := in.relay.Push(ctx, body); err != nil {
		in.log.Error(ctx, "push from inbox failed, file kept", "path", path, "err", err)
		return
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		in.log.Warn(ctx, "remove push file failed", "path", path, "err", err)
	}
}
