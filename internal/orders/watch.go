package orders

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	appLog "fieldcal/internal/log"
)

const reloadDebounce = 250 * time.Millisecond

// Watch reloads path into store whenever the file changes, until ctx is
// done. The parent directory is watched so editors that replace the file
// on save are picked up. A file that fails to parse is logged and the
// previous orders stay in place. onReload, if set, runs after each
// successful reload.
func Watch(ctx context.Context, path string, store *MemoryStore, onReload func()) error {
	dir := filepath.Dir(path)
	file := filepath.Clean(path)

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Add(dir); err != nil {
		return err
	}

	var (
		timerMu sync.Mutex
		timer   *time.Timer
	)
	reload := func() {
		data, err := os.ReadFile(file)
		if err != nil {
			appLog.Error("orders reload: read failed", err, "path", file)
			return
		}
		list, err := Decode(data)
		if err == nil {
			err = store.Replace(list)
		}
		if err != nil {
			appLog.Error("orders reload rejected; keeping previous orders", err, "path", file)
			return
		}
		appLog.Info("orders reloaded", "path", file, "count", len(list))
		if onReload != nil {
			onReload()
		}
	}
	debounce := func() {
		timerMu.Lock()
		defer timerMu.Unlock()
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(reloadDebounce, reload)
	}

	for {
		select {
		case <-ctx.Done():
			timerMu.Lock()
			if timer != nil {
				timer.Stop()
			}
			timerMu.Unlock()
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != file {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				debounce()
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			appLog.Error("orders watcher error", err, "path", file)
		}
	}
}
