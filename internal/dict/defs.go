package dict

import (
	"context"
	"encoding/json"
	"os"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/boardlens/boardlens/internal/logger"
)

// Definitions is a lazy word -> definition lookup backed by
// data/definitions.json. The file is read on first lookup and cached; an
// fsnotify watcher invalidates the cache when the file is regenerated out of
// band (get_definitions runs offline and rewrites the whole file).
type Definitions struct {
	path string

	mu     sync.Mutex
	defs   map[string]string
	loaded bool
}

func NewDefinitions(path string) *Definitions {
	return &Definitions{path: path}
}

// Lookup returns the definition for word, or "" and false when the word is
// unknown or the definitions file is absent.
func (d *Definitions) Lookup(word string) (string, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.loaded {
		d.load()
	}
	def, ok := d.defs[word]
	return def, ok
}

// load populates the cache. Called with mu held. A missing or malformed file
// leaves the cache empty; lookups then return null definitions.
func (d *Definitions) load() {
	d.loaded = true
	d.defs = nil

	data, err := os.ReadFile(d.path)
	if err != nil {
		logger.Warn("definitions file unavailable", "path", d.path, "err", err)
		return
	}
	var defs map[string]string
	if err := json.Unmarshal(data, &defs); err != nil {
		logger.Warn("definitions file malformed", "path", d.path, "err", err)
		return
	}
	d.defs = defs
	logger.Info("definitions loaded", "count", len(defs))
}

// invalidate drops the cache so the next Lookup re-reads the file.
func (d *Definitions) invalidate() {
	d.mu.Lock()
	d.loaded = false
	d.defs = nil
	d.mu.Unlock()
}

// Watch re-reads the definitions file when it changes on disk. Blocks until
// ctx is done. A watcher setup failure is logged and Watch returns; lookups
// keep working from the last loaded cache.
func (d *Definitions) Watch(ctx context.Context) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		logger.Warn("definitions watcher unavailable", "err", err)
		return
	}
	defer w.Close()

	// Watch the directory: editors and the generator replace the file, which
	// would drop a watch on the file itself.
	dir := d.path
	if i := lastSlash(dir); i >= 0 {
		dir = dir[:i]
	} else {
		dir = "."
	}
	if err := w.Add(dir); err != nil {
		logger.Warn("definitions watcher add failed", "dir", dir, "err", err)
		return
	}

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.Events:
			if !ok {
				return
			}
			if ev.Name == d.path && ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				logger.Info("definitions changed on disk, reloading", "path", d.path)
				d.invalidate()
			}
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			logger.Warn("definitions watcher error", "err", err)
		}
	}
}

func lastSlash(s string) int {
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] == '/' || s[i] == '\\' {
			return i
		}
	}
	return -1
}
