package persona

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// Cache holds the process-wide registry instance behind an atomic pointer.
// Readers always observe a complete registry; Reload swaps in a brand-new
// validated instance and never mutates the one concurrent readers hold.
type Cache struct {
	path    string
	logger  *slog.Logger
	current atomic.Pointer[Registry]
}

// NewCache loads the rule file once and returns the cache. A load failure
// here is fatal: the process must not start without a valid registry.
func NewCache(path string, logger *slog.Logger) (*Cache, error) {
	reg, err := Load(path)
	if err != nil {
		return nil, err
	}
	c := &Cache{path: path, logger: logger}
	c.current.Store(reg)
	return c, nil
}

// Current returns the registry instance readers should use for the duration
// of one evaluation. Holding the returned pointer across a reload is safe;
// it simply keeps observing the older snapshot.
func (c *Cache) Current() *Registry {
	return c.current.Load()
}

// Reload re-reads the rule file and atomically swaps the cached instance.
// On failure the previous registry stays in place and keeps serving reads.
func (c *Cache) Reload(ctx context.Context) (*Registry, error) {
	reg, err := Load(c.path)
	if err != nil {
		c.logger.ErrorContext(ctx, "persona registry reload failed, keeping previous rule set",
			"path", c.path,
			"error", err,
		)
		return nil, err
	}

	old := c.current.Swap(reg)
	c.logger.InfoContext(ctx, "persona registry reloaded",
		"path", c.path,
		"personas", reg.Len(),
		"previous_loaded_at", old.LoadedAt(),
	)
	return reg, nil
}
