package txcache

import (
	"fmt"
	"hash/fnv"
	"sync"

	"github.com/gofhir/terminology/fhir"
)

// ResourceType distinguishes the three kinds of additional resource a
// tx-resource parameter can carry.
type ResourceType string

const (
	ResourceCodeSystem ResourceType = "CodeSystem"
	ResourceValueSet   ResourceType = "ValueSet"
	ResourceConceptMap ResourceType = "ConceptMap"
)

// Resource is one wrapped tx-resource entry. Exactly one of the typed
// fields is populated, matching Type.
type Resource struct {
	Type       ResourceType
	URL        string
	Version    string
	CodeSystem *fhir.CodeSystem
	ValueSet   *fhir.ValueSet
	ConceptMap *fhir.ConceptMap
}

func (r Resource) dedupKey() string {
	return fmt.Sprintf("%s\x00%s\x00%s", r.Type, r.URL, r.Version)
}

const (
	// DefaultShardCount mirrors terminology/cache.go's ShardedCache default.
	DefaultShardCount = 64

	// DefaultMaxPerID bounds how many resources one cache-id may
	// accumulate; a cache-id is an unauthenticated trust boundary per
	// spec.md §4.H, so both per-id and total size must be capped.
	DefaultMaxPerID = 256

	// DefaultMaxIDs bounds the number of distinct cache-ids the process
	// will hold at once.
	DefaultMaxIDs = 4096
)

// ResourceCache is the process-wide cache-id -> resource-list store of
// spec.md §4.H. Entries are added by cache-id and never evicted during
// a process lifetime unless explicitly cleared.
type ResourceCache struct {
	shards    []*resourceShard
	shardMask uint32
	maxPerID  int
	maxIDs    int

	idCount sync.Map // presence set, used only to bound total id count
}

type resourceShard struct {
	mu   sync.RWMutex
	byID map[string][]Resource
}

// ResourceCacheConfig configures size bounds. Zero values take the
// package defaults.
type ResourceCacheConfig struct {
	ShardCount int
	MaxPerID   int
	MaxIDs     int
}

// NewResourceCache builds a ResourceCache per config, falling back to
// DefaultShardCount/DefaultMaxPerID/DefaultMaxIDs for zero fields.
func NewResourceCache(config ResourceCacheConfig) *ResourceCache {
	shardCount := config.ShardCount
	if shardCount <= 0 {
		shardCount = DefaultShardCount
	}
	shardCount = nextPowerOf2(shardCount)

	maxPerID := config.MaxPerID
	if maxPerID <= 0 {
		maxPerID = DefaultMaxPerID
	}
	maxIDs := config.MaxIDs
	if maxIDs <= 0 {
		maxIDs = DefaultMaxIDs
	}

	shards := make([]*resourceShard, shardCount)
	for i := range shards {
		shards[i] = &resourceShard{byID: make(map[string][]Resource)}
	}

	return &ResourceCache{
		shards:    shards,
		shardMask: uint32(shardCount - 1),
		maxPerID:  maxPerID,
		maxIDs:    maxIDs,
	}
}

func (c *ResourceCache) shardFor(id string) *resourceShard {
	h := fnv.New32a()
	h.Write([]byte(id))
	return c.shards[h.Sum32()&c.shardMask]
}

// ErrTooManyCacheIDs is returned by Add when adding a never-seen id
// would exceed the configured id-count bound.
var ErrTooManyCacheIDs = fmt.Errorf("txcache: too many distinct cache-ids")

// Add appends resources to id's list, de-duplicating by
// (resourceType, url, version) against what's already cached, and
// truncating to maxPerID when the combined list would exceed it.
func (c *ResourceCache) Add(id string, resources []Resource) error {
	shard := c.shardFor(id)

	shard.mu.Lock()
	defer shard.mu.Unlock()

	existing, seenID := shard.byID[id]
	if !seenID {
		if c.countIDs() >= c.maxIDs {
			return ErrTooManyCacheIDs
		}
		c.idCount.Store(id, struct{}{})
	}

	seen := make(map[string]bool, len(existing))
	for _, r := range existing {
		seen[r.dedupKey()] = true
	}

	merged := existing
	for _, r := range resources {
		key := r.dedupKey()
		if seen[key] {
			continue
		}
		if len(merged) >= c.maxPerID {
			break
		}
		seen[key] = true
		merged = append(merged, r)
	}
	shard.byID[id] = merged
	return nil
}

func (c *ResourceCache) countIDs() int {
	n := 0
	c.idCount.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

// Get returns a snapshot of id's current resource list, safe to iterate
// without holding any lock.
func (c *ResourceCache) Get(id string) []Resource {
	shard := c.shardFor(id)
	shard.mu.RLock()
	defer shard.mu.RUnlock()

	existing := shard.byID[id]
	out := make([]Resource, len(existing))
	copy(out, existing)
	return out
}

// Clear removes one cache-id's entry entirely.
func (c *ResourceCache) Clear(id string) {
	shard := c.shardFor(id)
	shard.mu.Lock()
	delete(shard.byID, id)
	shard.mu.Unlock()
	c.idCount.Delete(id)
}

func nextPowerOf2(n int) int {
	if n <= 0 {
		return 1
	}
	n--
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	return n + 1
}
