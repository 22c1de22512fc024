package config

import (
	"fmt"
	"sync"
)

// Holder runs a Loader once and keeps the result for its lifetime.
type Holder struct {
	mu      sync.Mutex
	loader  *Loader
	started bool

	once sync.Once
	cfg  *GlobalConfig
	err  error
}

// NewHolder returns a holder backed by loader. A nil loader means
// DefaultLoader, created on first access.
func NewHolder(loader *Loader) *Holder {
	return &Holder{loader: loader}
}

// Get returns the configuration, loading it on the first call. Concurrent
// first callers wait for the single load; all callers receive the same
// pointer or the same error.
func (h *Holder) Get() (*GlobalConfig, error) {
	h.once.Do(h.load)
	return h.cfg, h.err
}

// Configure replaces the loader. It fails once Get has been called.
func (h *Holder) Configure(loader *Loader) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.started {
		return ErrAlreadyInitialized
	}
	h.loader = loader
	return nil
}

func (h *Holder) load() {
	h.mu.Lock()
	h.started = true
	loader := h.loader
	h.mu.Unlock()

	if loader == nil {
		loader = DefaultLoader()
	}

	cfg, err := loader.Load()
	switch {
	case err != nil:
		h.err = fmt.Errorf("load configuration: %w", err)
	case cfg == nil:
		h.err = fmt.Errorf("load configuration from %s: %w", loader.src.Path(loader.EnvFile()), ErrNoConfiguration)
	default:
		h.cfg = cfg
	}
}

// global is the process-wide holder.
var global = NewHolder(nil)

// Configure installs the loader used by Global. It must be called before the
// first Global call.
func Configure(loader *Loader) error {
	return global.Configure(loader)
}

// Global returns the process-wide configuration, loading it on first use.
func Global() (*GlobalConfig, error) {
	return global.Get()
}

// MustGlobal is like Global but panics if the configuration cannot be loaded.
func MustGlobal() *GlobalConfig {
	cfg, err := Global()
	if err != nil {
		panic(err)
	}
	return cfg
}
