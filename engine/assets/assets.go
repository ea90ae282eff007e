package assets

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spaghettifunk/kalsengi/engine/core"
	"github.com/spaghettifunk/kalsengi/engine/renderer/metadata"
)

var errWatcherClosed = errors.New("asset watcher already closed")

type AssetInfo struct {
	Path     string
	Type     metadata.ResourceType
	Modified time.Time
}

// FnOnChange is invoked from the watcher goroutine. It must only record
// the change; GPU work belongs on the main thread.
type FnOnChange func(path string)

// Watcher keeps an index of the assets below a directory and reports files
// that are written or created.
type Watcher struct {
	root     string
	assets   map[string]AssetInfo
	onChange FnOnChange

	mutex sync.RWMutex

	fsnotify *fsnotify.Watcher
	done     chan struct{}
	wg       sync.WaitGroup
	isClosed bool
}

func NewWatcher(root string, onChange FnOnChange) (*Watcher, error) {
	fsWatch, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		root:     filepath.Clean(root),
		assets:   make(map[string]AssetInfo),
		onChange: onChange,
		fsnotify: fsWatch,
		done:     make(chan struct{}),
	}
	if err := w.watchRecursive(w.root); err != nil {
		fsWatch.Close()
		return nil, err
	}

	w.wg.Add(1)
	go w.start()

	core.LogDebug("watching %d assets below %s", len(w.assets), w.root)
	return w, nil
}

// Assets returns the indexed assets ordered by path.
func (w *Watcher) Assets() []AssetInfo {
	w.mutex.RLock()
	defer w.mutex.RUnlock()
	out := make([]AssetInfo, 0, len(w.assets))
	for _, a := range w.assets {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

// Asset looks up an indexed file.
func (w *Watcher) Asset(path string) (AssetInfo, bool) {
	w.mutex.RLock()
	defer w.mutex.RUnlock()
	a, ok := w.assets[filepath.Clean(path)]
	return a, ok
}

// Close stops the watcher goroutine and waits for it to exit.
func (w *Watcher) Close() error {
	w.mutex.Lock()
	if w.isClosed {
		w.mutex.Unlock()
		return errWatcherClosed
	}
	w.isClosed = true
	w.mutex.Unlock()

	close(w.done)
	w.wg.Wait()
	return w.fsnotify.Close()
}

func (w *Watcher) start() {
	defer w.wg.Done()
	for {
		select {
		case e, ok := <-w.fsnotify.Events:
			if !ok {
				return
			}
			w.handleEvent(e)

		case err, ok := <-w.fsnotify.Errors:
			if !ok {
				return
			}
			core.LogError("asset watcher: %s", err.Error())

		case <-w.done:
			return
		}
	}
}

func (w *Watcher) handleEvent(e fsnotify.Event) {
	name := filepath.Clean(e.Name)

	if e.Has(fsnotify.Remove) || e.Has(fsnotify.Rename) {
		// a deleted path cannot be stat'ed, so try to drop it as a directory too
		w.removeAsset(name)
		_ = w.fsnotify.Remove(name)
		return
	}
	if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
		return
	}

	s, err := os.Stat(name)
	if err != nil {
		return
	}
	if s.IsDir() {
		if e.Has(fsnotify.Create) {
			if err := w.watchRecursive(name); err != nil {
				core.LogWarn("failed to watch %s: %s", name, err.Error())
			}
		}
		return
	}

	if !w.indexFile(name, s.ModTime()) {
		return
	}
	if w.onChange != nil {
		w.onChange(name)
	}
}

// watchRecursive adds the directory and all its sub-directories to the
// watch list and indexes every file found below it.
func (w *Watcher) watchRecursive(path string) error {
	return filepath.WalkDir(path, func(walkPath string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.fsnotify.Add(walkPath)
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		w.indexFile(filepath.Clean(walkPath), info.ModTime())
		return nil
	})
}

// indexFile records a known asset type and reports whether it was one.
func (w *Watcher) indexFile(path string, modified time.Time) bool {
	assetType := metadata.DetermineResourceType(path)
	if assetType == metadata.ResourceTypeNone {
		return false
	}
	w.mutex.Lock()
	defer w.mutex.Unlock()
	w.assets[path] = AssetInfo{
		Path:     path,
		Type:     assetType,
		Modified: modified,
	}
	return true
}

func (w *Watcher) removeAsset(path string) {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	delete(w.assets, path)
}
