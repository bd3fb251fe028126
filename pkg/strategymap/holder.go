package strategymap

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/knadh/koanf/providers/file"
	"github.com/rs/zerolog"

	"github.com/covertmark/covertmark/pkg/errors"
	"github.com/covertmark/covertmark/pkg/logging"
)

// Holder owns the current Registry for a strategy map file. Readers call
// Current and never block. Reload replaces the whole Registry at once and
// keeps the previous one when the new content is invalid.
type Holder struct {
	path    string
	opts    []LoadOption
	metrics *Metrics
	logger  zerolog.Logger

	// rewatchInterval is how often a lost watch is re-armed
	rewatchInterval time.Duration

	current atomic.Pointer[Registry]

	// reloadMu serializes reloads so a slow load cannot overwrite a newer one
	reloadMu sync.Mutex
}

// HolderOption customizes a Holder
type HolderOption func(*Holder)

// WithMetrics records every load in m
func WithMetrics(m *Metrics) HolderOption {
	return func(h *Holder) { h.metrics = m }
}

// WithLoadOptions passes opts to every load
func WithLoadOptions(opts ...LoadOption) HolderOption {
	return func(h *Holder) { h.opts = append(h.opts, opts...) }
}

// NewHolder loads the strategy map at path. An empty path holds the embedded
// default map, which never changes.
func NewHolder(path string, opts ...HolderOption) (*Holder, error) {
	h := &Holder{
		path:            path,
		logger:          logging.GetLogger("strategymap.holder"),
		rewatchInterval: 500 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(h)
	}
	if _, err := h.Reload(); err != nil {
		return nil, err
	}
	return h, nil
}

// Path returns the watched file, empty for the embedded map
func (h *Holder) Path() string { return h.path }

// Current returns the registry in effect
func (h *Holder) Current() *Registry {
	return h.current.Load()
}

// Reload reads the source again. On success the new registry replaces the
// current one and is returned. On failure the current registry is kept.
func (h *Holder) Reload() (*Registry, error) {
	h.reloadMu.Lock()
	defer h.reloadMu.Unlock()

	var (
		r   *Registry
		err error
	)
	if h.path == "" {
		r, err = Default(h.opts...)
	} else {
		r, err = LoadFile(h.path, h.opts...)
	}
	if err != nil {
		h.metrics.observeFailure()
		if prev := h.current.Load(); prev != nil {
			h.logger.Error().Err(err).Str("keeping", prev.ID()).Msg("Strategy map reload failed")
		}
		return nil, err
	}

	prev := h.current.Swap(r)
	h.metrics.observeSuccess(r, r.LoadedAt())

	event := h.logger.Info().Str("id", r.ID()).Str("source", r.Source()).Int("strategies", r.Len())
	if prev != nil {
		event = event.Str("previous", prev.ID())
	}
	event.Msg("Strategy map loaded")
	return r, nil
}

// Watch reloads the map whenever its file changes until ctx is done. onChange,
// when not nil, is called after every reload attempt with the new registry or
// the load error. When the file is removed the watch is re-armed once it
// exists again, and the map is reloaded then. Watching the embedded map is an
// error.
func (h *Holder) Watch(ctx context.Context, onChange func(*Registry, error)) error {
	if h.path == "" {
		return errors.New(errors.ErrInvalidInput, "the embedded strategy map cannot be watched")
	}

	if onChange != nil {
		// Callbacks come from the provider goroutine and from re-arming
		var mu sync.Mutex
		notify := onChange
		onChange = func(r *Registry, err error) {
			mu.Lock()
			defer mu.Unlock()
			notify(r, err)
		}
	}

	lost := make(chan struct{}, 1)
	provider, err := h.watchFile(lost, onChange)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileAccess, "cannot watch strategy map %s", h.path)
	}
	h.logger.Debug().Str("path", h.path).Msg("Watching strategy map")

	ticker := time.NewTicker(h.rewatchInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			if provider != nil {
				if err := provider.Unwatch(); err != nil {
					h.logger.Debug().Err(err).Msg("Stopping strategy map watch")
				}
			}
			return ctx.Err()

		case <-lost:
			// The provider has already shut its watcher down
			provider = nil
			h.logger.Warn().Str("path", h.path).Msg("Lost watch on strategy map, waiting for it to reappear")

		case <-ticker.C:
			if provider != nil {
				continue
			}
			p, err := h.watchFile(lost, onChange)
			if err != nil {
				continue
			}
			provider = p
			h.logger.Info().Str("path", h.path).Msg("Watching strategy map again")

			r, lerr := h.Reload()
			if onChange != nil {
				onChange(r, lerr)
			}
		}
	}
}

// watchFile arms a file provider on the map. A watcher error is reported to
// onChange and signalled on lost; the provider stops watching after it.
func (h *Holder) watchFile(lost chan<- struct{}, onChange func(*Registry, error)) (*file.File, error) {
	provider := file.Provider(h.path)
	err := provider.Watch(func(_ interface{}, werr error) {
		if werr != nil {
			h.logger.Error().Err(werr).Str("path", h.path).Msg("Watching strategy map failed")
			if onChange != nil {
				onChange(nil, errors.Wrap(werr, errors.ErrFileAccess, "watching strategy map failed"))
			}
			select {
			case lost <- struct{}{}:
			default:
			}
			return
		}
		r, lerr := h.Reload()
		if onChange != nil {
			onChange(r, lerr)
		}
	})
	if err != nil {
		return nil, err
	}
	return provider, nil
}
