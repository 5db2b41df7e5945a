package corpus

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/orizon-lang/havoc/internal/diagnostics"
)

// Disk loads every regular file under a directory as one corpus entry and,
// optionally, watches the directory for new files so they become eligible
// for the splice/scratch-path selection without restarting the fuzzer
// worker. One fsnotify.Watcher drives a background goroutine that folds
// new files into the entry list under the mutex.
type Disk struct {
	mu      sync.RWMutex
	dir     string
	entries [][]byte

	watcher *fsnotify.Watcher
	done    chan struct{}
}

// LoadDisk reads every regular file directly under dir into memory.
// Zero-length files are rejected.
func LoadDisk(dir string) (*Disk, error) {
	d := &Disk{dir: dir}

	if err := d.reload(); err != nil {
		return nil, err
	}

	return d, nil
}

func (d *Disk) reload() error {
	entries, err := os.ReadDir(d.dir)
	if err != nil {
		return err
	}

	var loaded [][]byte

	idx := 0

	for _, e := range entries {
		if e.IsDir() {
			continue
		}

		data, err := os.ReadFile(filepath.Join(d.dir, e.Name()))
		if err != nil {
			return err
		}

		if len(data) == 0 {
			return diagnostics.InvalidCorpusEntry(idx)
		}

		loaded = append(loaded, data)
		idx++
	}

	d.mu.Lock()
	d.entries = loaded
	d.mu.Unlock()

	return nil
}

// Watch starts an fsnotify watcher on dir; each newly created file is
// appended as one entry, and later writes to a file added this way replace
// its entry. A file that LoadDisk already loaded is appended again if it is
// rewritten; removed files are not dropped, and the directory is never fully
// reloaded. Call Close to stop watching.
func (d *Disk) Watch() error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}

	if err := w.Add(d.dir); err != nil {
		_ = w.Close()
		return err
	}

	d.watcher = w
	d.done = make(chan struct{})

	go d.watchLoop()

	return nil
}

func (d *Disk) watchLoop() {
	// One file write can raise both a Create and a Write event, so files
	// added here are remembered by path and replaced, not appended twice.
	added := make(map[string]int)

	for {
		select {
		case ev, ok := <-d.watcher.Events:
			if !ok {
				return
			}

			if ev.Op&(fsnotify.Create|fsnotify.Write) != 0 {
				data, err := os.ReadFile(ev.Name)
				if err != nil || len(data) == 0 {
					continue
				}

				d.mu.Lock()
				if i, seen := added[ev.Name]; seen {
					d.entries[i] = data
				} else {
					added[ev.Name] = len(d.entries)
					d.entries = append(d.entries, data)
				}
				d.mu.Unlock()
			}
		case _, ok := <-d.watcher.Errors:
			if !ok {
				return
			}
		case <-d.done:
			return
		}
	}
}

// Close stops the watcher goroutine, if any. Safe to call even if Watch was
// never called.
func (d *Disk) Close() error {
	if d.watcher == nil {
		return nil
	}

	close(d.done)

	return d.watcher.Close()
}

// NumInputs returns the number of entries currently loaded.
func (d *Disk) NumInputs() int {
	d.mu.RLock()
	defer d.mu.RUnlock()

	return len(d.entries)
}

// GetInput returns a borrow of the i-th entry, or false if i is out of range.
func (d *Disk) GetInput(i int) ([]byte, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if i < 0 || i >= len(d.entries) {
		return nil, false
	}

	return d.entries[i], true
}
