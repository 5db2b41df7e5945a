package profile

import (
	"github.com/fsnotify/fsnotify"
)

// Watcher hot-reloads a profile file on change. Every
// published Profile has already passed validate(); a malformed rewrite of
// the file is reported on Errors() instead of replacing the last-known-good
// profile.
type Watcher struct {
	path    string
	watcher *fsnotify.Watcher
	updates chan *Profile
	errs    chan error
	done    chan struct{}
}

// Watch loads path once, then starts watching it for writes. The initial
// profile is sent on Updates() before Watch returns; if it fails to load,
// nothing is sent and Watch returns the error.
func Watch(path string) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if err := w.Add(path); err != nil {
		_ = w.Close()
		return nil, err
	}

	pw := &Watcher{
		path:    path,
		watcher: w,
		updates: make(chan *Profile, 1),
		errs:    make(chan error, 1),
		done:    make(chan struct{}),
	}

	initial, err := Load(path)
	if err != nil {
		_ = w.Close()
		return nil, err
	}

	pw.updates <- initial

	go pw.loop()

	return pw, nil
}

func (w *Watcher) loop() {
	for {
		select {
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}

			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}

			p, err := Load(w.path)
			if err != nil {
				select {
				case w.errs <- err:
				default:
				}

				continue
			}

			select {
			case w.updates <- p:
			default:
				// Drain the stale update so the newest profile always wins.
				select {
				case <-w.updates:
				default:
				}

				w.updates <- p
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}

			select {
			case w.errs <- err:
			default:
			}
		case <-w.done:
			return
		}
	}
}

// Updates returns the channel of freshly validated profiles.
func (w *Watcher) Updates() <-chan *Profile { return w.updates }

// Errors returns the channel of load/validation failures encountered while
// watching; the previously delivered Profile remains in effect.
func (w *Watcher) Errors() <-chan error { return w.errs }

// Close stops the watcher.
func (w *Watcher) Close() error {
	close(w.done)

	return w.watcher.Close()
}
