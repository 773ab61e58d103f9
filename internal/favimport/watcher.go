package favimport

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/thetunix/Calzen/internal/tracker"
)

// ImportedSuffix is appended to a CSV file once its rows were imported.
const ImportedSuffix = ".imported"

// Importer stores parsed favorites. tracker.Manager implements it.
type Importer interface {
	ImportFavorites(ctx context.Context, items []tracker.FavoriteItem) (int, error)
}

// DefaultSettle is how long a CSV must go without new events before it is
// imported.
const DefaultSettle = 500 * time.Millisecond

// Watcher imports every *.csv created or written in a directory once the
// file has stopped changing for Settle.
type Watcher struct {
	Settle time.Duration

	dir      string
	importer Importer
	watcher  *fsnotify.Watcher
}

func NewWatcher(dir string, importer Importer) (*Watcher, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating import dir: %w", err)
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := w.Add(dir); err != nil {
		w.Close()
		return nil, err
	}
	return &Watcher{Settle: DefaultSettle, dir: dir, importer: importer, watcher: w}, nil
}

// Run processes events until ctx is done. CSV files already present when it
// starts are imported first. Every event for a path restarts its settle
// timer, so a file still being written is read only after the last write.
func (fw *Watcher) Run(ctx context.Context) {
	defer fw.watcher.Close()

	existing, _ := filepath.Glob(filepath.Join(fw.dir, "*.csv"))
	for _, path := range existing {
		fw.HandleFile(ctx, path)
	}

	pending := map[string]*time.Timer{}
	ready := make(chan string)
	defer func() {
		for _, t := range pending {
			t.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			if !strings.EqualFold(filepath.Ext(event.Name), ".csv") {
				continue
			}
			path := event.Name
			if t, ok := pending[path]; ok {
				t.Reset(fw.Settle)
				continue
			}
			pending[path] = time.AfterFunc(fw.Settle, func() {
				select {
				case ready <- path:
				case <-ctx.Done():
				}
			})
		case path := <-ready:
			delete(pending, path)
			fw.HandleFile(ctx, path)
		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			slog.Error("favorites watcher error", "error", err)
		}
	}
}

// HandleFile imports path and renames it with ImportedSuffix so later
// events for the same file do not import it twice.
func (fw *Watcher) HandleFile(ctx context.Context, path string) {
	if _, err := os.Stat(path); err != nil {
		return
	}
	items, err := ParseFile(path)
	if err != nil {
		slog.Warn("skipping favorites file", "path", path, "error", err)
		return
	}
	n, err := fw.importer.ImportFavorites(ctx, items)
	if err != nil {
		slog.Error("importing favorites failed", "path", path, "error", err)
		return
	}
	if err := os.Rename(path, path+ImportedSuffix); err != nil {
		slog.Warn("could not mark favorites file imported", "path", path, "error", err)
	}
	slog.Info("imported favorites", "path", path, "added", n, "rows", len(items))
}
