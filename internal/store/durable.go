package store

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// Volatile is the in-process fallback tier. Values live as long as the
// process does.
type Volatile struct {
	mu   sync.Mutex
	data map[string][]byte
}

// NewVolatile creates an empty volatile tier.
func NewVolatile() *Volatile {
	return &Volatile{data: make(map[string][]byte)}
}

// Get returns a copy of the value stored under key.
func (v *Volatile) Get(key string) ([]byte, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	val, ok := v.data[key]
	if !ok {
		return nil, false
	}
	return append([]byte(nil), val...), true
}

// Put stores a copy of value under key.
func (v *Volatile) Put(key string, value []byte) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.data[key] = append([]byte(nil), value...)
}

// Delete removes key.
func (v *Volatile) Delete(key string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	delete(v.data, key)
}

// Durable is the best-effort two-tier key/value store. It tries the
// durable Medium first and falls through to a Volatile map. Medium
// failures are logged as warnings and never returned to callers.
//
// Save writes through to both tiers so that a later read failure on the
// medium still yields the most recent value.
type Durable struct {
	medium   Medium // nil means volatile-only
	volatile *Volatile
	logger   *zap.Logger
}

// NewDurable creates a two-tier store. medium may be nil when no durable
// backing could be opened.
func NewDurable(medium Medium, logger *zap.Logger) *Durable {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Durable{
		medium:   medium,
		volatile: NewVolatile(),
		logger:   logger.Named("store"),
	}
}

// Save stores value under key.
func (d *Durable) Save(ctx context.Context, key string, value []byte) {
	d.volatile.Put(key, value)

	if d.medium == nil {
		return
	}
	if err := d.medium.Put(ctx, key, value); err != nil {
		d.logger.Warn("durable medium unavailable, kept value in memory",
			zap.String("op", "save"), zap.String("key", key), zap.Error(err))
	}
}

// Load returns the value stored under key, or false when neither tier has
// it.
func (d *Durable) Load(ctx context.Context, key string) ([]byte, bool) {
	if d.medium != nil {
		value, ok, err := d.medium.Get(ctx, key)
		switch {
		case err != nil:
			d.logger.Warn("durable medium read failed, using memory",
				zap.String("op", "load"), zap.String("key", key), zap.Error(err))
		case ok:
			return value, true
		}
	}
	return d.volatile.Get(key)
}

// Remove deletes key from both tiers.
func (d *Durable) Remove(ctx context.Context, key string) {
	if d.medium != nil {
		if err := d.medium.Delete(ctx, key); err != nil {
			d.logger.Warn("durable medium remove failed",
				zap.String("op", "remove"), zap.String("key", key), zap.Error(err))
		}
	}
	d.volatile.Delete(key)
}
