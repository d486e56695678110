package launchd

import (
	"context"
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"vawter.tech/stopper"
)

// RootEvent signals that the contents of a watched search root changed.
// Err is non-nil when the underlying watcher reported a problem; the event
// still warrants a re-scan, since a fresh scan re-reads the roots anyway.
type RootEvent struct {
	Err error
}

// WatchCleanupFunc stops a watch and releases its resources
type WatchCleanupFunc func() error

// WatchRoots watches the given search roots for definition-file changes
// and delivers debounced RootEvents. Roots that do not exist are skipped,
// matching the Scanner's treatment of them. Events coalesce: bursts of
// filesystem activity within the debounce window produce a single event,
// and events are dropped rather than queued while the consumer is busy.
// Every event means the same thing: scan again.
func WatchRoots(ctx context.Context, roots []string, debounce time.Duration) (<-chan RootEvent, WatchCleanupFunc, error) {
	if debounce <= 0 {
		debounce = DefaultWatchDebounce
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, nil, err
	}

	for _, root := range roots {
		if err := watcher.Add(root); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			_ = watcher.Close()
			return nil, nil, &RootError{Root: root, Err: err}
		}
	}

	ch := make(chan RootEvent, 1)

	sctx := stopper.WithContext(ctx)
	sctx.Defer(func() {
		_ = watcher.Close()
		close(ch)
	})

	cleanup := func() error {
		sctx.Stop(100 * time.Millisecond)
		return sctx.Wait()
	}

	sctx.Go(func(sctx *stopper.Context) error {
		var timer *time.Timer
		var timerC <-chan time.Time

		defer func() {
			if timer != nil {
				timer.Stop()
			}
		}()

		for {
			select {
			case <-sctx.Stopping():
				return nil

			case event, ok := <-watcher.Events:
				if !ok {
					return nil
				}
				if !strings.HasSuffix(event.Name, DefinitionExt) {
					continue
				}
				if timer == nil {
					timer = time.NewTimer(debounce)
					timerC = timer.C
				} else {
					if !timer.Stop() {
						select {
						case <-timer.C:
						default:
						}
					}
					timer.Reset(debounce)
				}

			case <-timerC:
				select {
				case ch <- RootEvent{}:
				default:
				}

			case err, ok := <-watcher.Errors:
				if !ok {
					return nil
				}
				select {
				case ch <- RootEvent{Err: err}:
				default:
				}
			}
		}
	})

	return ch, cleanup, nil
}
