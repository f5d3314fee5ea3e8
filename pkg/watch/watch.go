// Package watch reruns a callback when files under a set of directories
// change. Bursts of events are collapsed into one call.
package watch

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/arthur-debert/assetpack/pkg/errors"
	"github.com/arthur-debert/assetpack/pkg/logging"
	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// DefaultDebounce is the quiet period before a change triggers a call
const DefaultDebounce = 200 * time.Millisecond

// Options selects what is watched
type Options struct {
	// Dirs are watched recursively; directories created later are added
	Dirs []string

	// Files are single files, watched through their parent directory so
	// editors that replace the file are still seen
	Files []string

	// Ignore lists directories whose events are dropped (the output dir)
	Ignore []string

	// Debounce defaults to DefaultDebounce
	Debounce time.Duration
}

// Watcher delivers debounced change notifications
type Watcher struct {
	opts    Options
	fsw     *fsnotify.Watcher
	files   map[string]bool
	logger  zerolog.Logger
	trigger chan struct{}
}

// New starts watching. Close releases the underlying watcher.
func New(opts Options) (*Watcher, error) {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "cannot create file watcher")
	}

	w := &Watcher{
		opts:    opts,
		fsw:     fsw,
		files:   make(map[string]bool),
		logger:  logging.GetLogger("watch"),
		trigger: make(chan struct{}, 1),
	}
	w.opts.Ignore = make([]string, len(opts.Ignore))
	for i, dir := range opts.Ignore {
		w.opts.Ignore[i] = filepath.Clean(dir)
	}
	for _, dir := range opts.Dirs {
		if err := w.addTree(dir); err != nil {
			_ = fsw.Close()
			return nil, err
		}
	}
	for _, file := range opts.Files {
		file = filepath.Clean(file)
		w.files[file] = true
		if err := fsw.Add(filepath.Dir(file)); err != nil {
			_ = fsw.Close()
			return nil, errors.Wrapf(err, errors.ErrFileRead, "cannot watch %s", file)
		}
	}
	return w, nil
}

// Close stops watching
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

func (w *Watcher) addTree(root string) error {
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if w.ignored(p) {
			return filepath.SkipDir
		}
		return w.fsw.Add(p)
	})
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileRead, "cannot watch %s", root)
	}
	return nil
}

func (w *Watcher) ignored(p string) bool {
	p = filepath.Clean(p)
	for _, dir := range w.opts.Ignore {
		if p == dir || strings.HasPrefix(p, dir+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

// relevant drops events for ignored paths and for siblings of watched
// single files
func (w *Watcher) relevant(name string) bool {
	name = filepath.Clean(name)
	if w.ignored(name) {
		return false
	}
	if w.files[name] {
		return true
	}
	for _, dir := range w.opts.Dirs {
		dir = filepath.Clean(dir)
		if name == dir || strings.HasPrefix(name, dir+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

// Run calls onChange after each burst of relevant events until ctx is
// done. onChange runs on the calling goroutine, never concurrently.
func (w *Watcher) Run(ctx context.Context, onChange func()) error {
	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if !w.relevant(ev.Name) {
				continue
			}
			if ev.Has(fsnotify.Create) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					if err := w.addTree(ev.Name); err != nil {
						w.logger.Warn().Err(err).Str("path", ev.Name).Msg("cannot watch new directory")
					}
				}
			}
			w.logger.Trace().Str("path", ev.Name).Str("op", ev.Op.String()).Msg("change")

			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(w.opts.Debounce, func() {
				select {
				case w.trigger <- struct{}{}:
				default:
				}
			})

		case <-w.trigger:
			onChange()

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn().Err(err).Msg("watch error")
		}
	}
}
