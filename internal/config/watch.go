package config

import (
	"context"
	"path/filepath"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/cockroachdb/errors"
	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Provider hands out the current configuration snapshot. Snapshots are immutable;
// a reload swaps the pointer.
type Provider struct {
	cur atomic.Pointer[Config]

	mu        sync.Mutex
	callbacks []func(*Config)
}

func NewProvider(cfg Config) *Provider {
	p := &Provider{}
	p.cur.Store(&cfg)
	return p
}

// Get returns the current snapshot.
func (p *Provider) Get() *Config { return p.cur.Load() }

// OnChange registers a callback fired after every successful reload.
func (p *Provider) OnChange(fn func(*Config)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.callbacks = append(p.callbacks, fn)
}

func (p *Provider) set(cfg Config) {
	p.cur.Store(&cfg)
	p.mu.Lock()
	cbs := slices.Clone(p.callbacks)
	p.mu.Unlock()
	for _, fn := range cbs {
		fn(&cfg)
	}
}

// Watcher reloads the config files into a Provider whenever one of them is written.
// Parent directories are watched so editors that replace files by rename are seen.
type Watcher struct {
	paths    []string
	provider *Provider
	log      *zap.Logger
	fs       *fsnotify.Watcher
}

func NewWatcher(provider *Provider, log *zap.Logger, paths ...string) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "create fsnotify watcher")
	}
	dirs := make(map[string]struct{})
	for _, p := range paths {
		dir := filepath.Dir(p)
		if _, ok := dirs[dir]; ok {
			continue
		}
		dirs[dir] = struct{}{}
		if err := fw.Add(dir); err != nil {
			_ = fw.Close()
			return nil, errors.Wrapf(err, "watch %s", dir)
		}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Watcher{paths: paths, provider: provider, log: log, fs: fw}, nil
}

// Run blocks until ctx is done. Reload failures keep the previous snapshot.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.fs.Close()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if !w.tracked(ev.Name) || ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.Reload()
		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("config watcher error", zap.Error(err))
		}
	}
}

// Reload loads the files again and publishes the result.
func (w *Watcher) Reload() {
	cfg, err := Load(w.paths...)
	if err != nil {
		w.log.Error("config reload failed, keeping previous", zap.Error(err))
		return
	}
	w.provider.set(cfg)
	w.log.Info("config reloaded", zap.Strings("paths", w.paths))
}

func (w *Watcher) tracked(name string) bool {
	name = filepath.Clean(name)
	for _, p := range w.paths {
		if filepath.Clean(p) == name {
			return true
		}
	}
	return false
}
