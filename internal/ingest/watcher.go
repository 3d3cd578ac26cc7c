package ingest

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"
)

type WatchConfig struct {
	Dir         string        // directory to watch (not recursive)
	InitialScan bool          // if true, emit the PDFs already present
	Debounce    time.Duration // a file is emitted once it has been quiet this long
}

// StartWatcher emits the path of every PDF created or rewritten in cfg.Dir,
// once per burst of events. Both channels close when ctx is done.
func StartWatcher(ctx context.Context, cfg WatchConfig, logger *slog.Logger) (<-chan string, <-chan error, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Dir == "" {
		logger.Error("watcher start failed: no directory provided")
		return nil, nil, errors.New("no directory provided")
	}
	if cfg.Debounce <= 0 {
		cfg.Debounce = 2 * time.Second
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		logger.Error("failed to create fsnotify watcher", "error", err)
		return nil, nil, err
	}
	if err := w.Add(cfg.Dir); err != nil {
		logger.Error("failed to watch directory", "dir", cfg.Dir, "error", err)
		_ = w.Close()
		return nil, nil, err
	}

	var initial []string
	if cfg.InitialScan {
		initial, _, err = ListPDFs(cfg.Dir)
		if err != nil {
			_ = w.Close()
			return nil, nil, err
		}
	}

	evCh := make(chan string, 256)
	errCh := make(chan error, 1)

	go func() {
		defer close(evCh)
		defer close(errCh)
		defer func(w *fsnotify.Watcher) {
			if err := w.Close(); err != nil {
				logger.Warn("failed to close watcher", "error", err)
			}
		}(w)

		for _, p := range initial {
			select {
			case evCh <- p:
			case <-ctx.Done():
				return
			}
		}

		pending := map[string]time.Time{} // path -> last event
		ticker := time.NewTicker(cfg.Debounce / 4)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case e, ok := <-w.Events:
				if !ok {
					return
				}
				if !IsPDF(e.Name) || IsHidden(e.Name) {
					continue
				}
				if e.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
					continue
				}
				pending[e.Name] = time.Now()
			case <-ticker.C:
				var ready []string
				for p, last := range pending {
					if time.Since(last) >= cfg.Debounce {
						ready = append(ready, p)
						delete(pending, p)
					}
				}
				sort.Strings(ready)
				for _, p := range ready {
					// a rename away from the directory leaves nothing to read
					if _, err := os.Stat(p); err != nil {
						continue
					}
					select {
					case evCh <- filepath.Clean(p):
					case <-ctx.Done():
						return
					}
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				logger.Error("watcher error", "error", err)
				select {
				case errCh <- err:
				default:
				}
			}
		}
	}()

	return evCh, errCh, nil
}
