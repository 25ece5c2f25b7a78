package ingest

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
)

// Watcher reloads the dataset whenever the file changes on disk, so
// curators can push updated artwork data without a restart.
type Watcher struct {
	loader *Loader
	path   string
}

func NewWatcher(loader *Loader, path string) *Watcher {
	return &Watcher{loader: loader, path: path}
}

// Run blocks until ctx is cancelled, reloading on every write to the
// dataset file. The parent directory is watched because editors and
// atomic-rename writers replace the inode.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fw.Close()

	dir := filepath.Dir(w.path)
	if err := fw.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	log.Info().Str("path", w.path).Msg("Watching dataset for changes")

	target := filepath.Clean(w.path)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if err := w.loader.LoadFromFile(w.path); err != nil {
				log.Error().Err(err).Msg("Dataset reload failed; keeping previous data")
			}
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			log.Error().Err(err).Msg("Dataset watcher error")
		}
	}
}
