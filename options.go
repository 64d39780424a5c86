package terminology

import (
	"runtime"
	"time"

	"github.com/gofhir/terminology/designation"
	"github.com/gofhir/terminology/txcache"
)

// Option configures the terminology server.
type Option func(*Options)

// Options holds all configuration for operating the terminology
// packages (txop/txops) as a server rather than calling them directly.
type Options struct {
	// Cost control
	ExpansionCap int           // max results an $expand will enumerate, 0 = unlimited
	Deadline     time.Duration // per-operation wall-clock budget, 0 = no deadline

	// Performance
	WorkerCount   int // BatchLookup fan-out width, 0 = runtime.NumCPU()
	EnablePooling bool

	// Resource cache (txcache.ResourceCache, keyed by cache-id)
	ResourceCacheShards int
	MaxPerCacheID       int
	MaxCacheIDs         int
	CacheTTL            time.Duration // stored only: nothing in this module reads it, and cached resources never expire

	// Result memoisation (txcache.LRU)
	LRUCacheSize int

	// Defaults applied when a request does not specify them
	DefaultLanguage   string
	DefaultValidation designation.Mode
}

// DefaultOptions returns the default configuration.
func DefaultOptions() *Options {
	return &Options{
		ExpansionCap: 1000,
		Deadline:     10 * time.Second,

		WorkerCount:   runtime.NumCPU(),
		EnablePooling: true,

		ResourceCacheShards: txcache.DefaultShardCount,
		MaxPerCacheID:       txcache.DefaultMaxPerID,
		MaxCacheIDs:         txcache.DefaultMaxIDs,
		CacheTTL:            0,

		LRUCacheSize: 1000,

		DefaultLanguage:   "",
		DefaultValidation: designation.CaseInsensitive,
	}
}

// --- Cost Control Options ---

// WithExpansionCap sets the maximum number of concepts $expand will
// enumerate before raising too-costly. Use 0 for unlimited.
func WithExpansionCap(max int) Option {
	return func(o *Options) {
		o.ExpansionCap = max
	}
}

// WithDeadline sets the per-operation wall-clock budget. Use 0 for no
// deadline.
func WithDeadline(d time.Duration) Option {
	return func(o *Options) {
		o.Deadline = d
	}
}

// --- Performance Options ---

// WithWorkerCount sets the number of workers BatchLookup fans out
// across. Defaults to runtime.NumCPU().
func WithWorkerCount(count int) Option {
	return func(o *Options) {
		if count > 0 {
			o.WorkerCount = count
		}
	}
}

// WithPooling enables or disables Context/Result object pooling.
// Pooling reduces GC pressure but requires calling Release().
func WithPooling(enable bool) Option {
	return func(o *Options) {
		o.EnablePooling = enable
	}
}

// --- Cache Options ---

// WithResourceCache configures the cache-id resource cache's shard
// count and per-id/total size bounds.
func WithResourceCache(shards, maxPerID, maxIDs int) Option {
	return func(o *Options) {
		if shards > 0 {
			o.ResourceCacheShards = shards
		}
		if maxPerID > 0 {
			o.MaxPerCacheID = maxPerID
		}
		if maxIDs > 0 {
			o.MaxCacheIDs = maxIDs
		}
	}
}

// WithCacheTTL sets Options.CacheTTL. Nothing in this module reads the
// value; resource cache entries do not expire.
func WithCacheTTL(ttl time.Duration) Option {
	return func(o *Options) {
		o.CacheTTL = ttl
	}
}

// WithLRUCacheSize sets the capacity of the result-memoisation LRU.
func WithLRUCacheSize(size int) Option {
	return func(o *Options) {
		if size > 0 {
			o.LRUCacheSize = size
		}
	}
}

// --- Defaults ---

// WithDefaultLanguage sets the language preference header applied when
// a request carries none.
func WithDefaultLanguage(tag string) Option {
	return func(o *Options) {
		o.DefaultLanguage = tag
	}
}

// WithDefaultValidationMode sets the designation equality mode
// $validate-code uses to compare a supplied display; no request
// parameter overrides it.
func WithDefaultValidationMode(mode designation.Mode) Option {
	return func(o *Options) {
		o.DefaultValidation = mode
	}
}

// --- Presets ---

// FastOptions returns options optimized for throughput: a higher
// expansion cap, larger caches, pooling on.
func FastOptions() []Option {
	return []Option{
		WithExpansionCap(10000),
		WithResourceCache(128, 1024, 16384),
		WithLRUCacheSize(5000),
		WithPooling(true),
	}
}

// StrictOptions returns options for conservative, resource-bounded
// operation: a low expansion cap, short deadline, exact display
// validation.
func StrictOptions() []Option {
	return []Option{
		WithExpansionCap(200),
		WithDeadline(2 * time.Second),
		WithDefaultValidationMode(designation.Exact),
	}
}

// DebugOptions returns options useful for debugging: pooling off so
// objects aren't silently recycled mid-inspection, and no deadline.
func DebugOptions() []Option {
	return []Option{
		WithPooling(false),
		WithDeadline(0),
	}
}
