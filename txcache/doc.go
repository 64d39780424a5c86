// Package txcache implements spec.md §4.H's resource cache: a
// process-wide, cache-id-keyed store of additional resources supplied
// via tx-resource parameters, plus a generic memoisation cache for
// repeat operation results. Grounded on terminology/cache.go's
// ShardedCache (same per-shard sync.RWMutex, same "writes exclusive,
// reads snapshot" discipline).
package txcache
