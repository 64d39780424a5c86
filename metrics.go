package terminology

import (
	"sync"
	"sync/atomic"
	"time"
)

// Metrics tracks terminology server performance metrics using lock-free
// atomic operations. All methods are safe for concurrent use.
type Metrics struct {
	// Operation counts
	operationsTotal atomic.Uint64
	operationsValid atomic.Uint64

	// Timing (stored as nanoseconds)
	operationTimeTotal atomic.Uint64
	operationTimeMin   atomic.Uint64
	operationTimeMax   atomic.Uint64

	// Resource cache metrics (txcache)
	cacheHits   atomic.Uint64
	cacheMisses atomic.Uint64

	// Pool metrics (Context/Result pooling)
	poolAcquires atomic.Uint64
	poolReleases atomic.Uint64

	// Issue counts by severity
	errorsTotal   atomic.Uint64
	warningsTotal atomic.Uint64
	infosTotal    atomic.Uint64

	// Per-operation timing (map access protected by sync.Map)
	operationTiming sync.Map // map[string]*operationMetrics
}

// operationMetrics tracks metrics for a single operation name
// (lookup, validate-code, expand, validate-vs, translate, subsumes).
type operationMetrics struct {
	invocations atomic.Uint64
	totalTime   atomic.Uint64 // nanoseconds
	issuesFound atomic.Uint64
}

// NewMetrics creates a new Metrics instance.
func NewMetrics() *Metrics {
	m := &Metrics{}
	// Initialize min to max uint64 so first value becomes the minimum
	m.operationTimeMin.Store(^uint64(0))
	return m
}

// --- Recording Methods ---

// RecordOperation records a completed operation invocation.
func (m *Metrics) RecordOperation(duration time.Duration, valid bool) {
	m.operationsTotal.Add(1)
	if valid {
		m.operationsValid.Add(1)
	}

	ns := uint64(duration.Nanoseconds()) //nolint:gosec // Safe: nanoseconds are always positive for valid durations
	m.operationTimeTotal.Add(ns)

	// Update min (CAS loop)
	for {
		old := m.operationTimeMin.Load()
		if ns >= old {
			break
		}
		if m.operationTimeMin.CompareAndSwap(old, ns) {
			break
		}
	}

	// Update max (CAS loop)
	for {
		old := m.operationTimeMax.Load()
		if ns <= old {
			break
		}
		if m.operationTimeMax.CompareAndSwap(old, ns) {
			break
		}
	}
}

// RecordCacheHit records a resource cache hit.
func (m *Metrics) RecordCacheHit() {
	m.cacheHits.Add(1)
}

// RecordCacheMiss records a resource cache miss.
func (m *Metrics) RecordCacheMiss() {
	m.cacheMisses.Add(1)
}

// RecordPoolAcquire records a Context/Result pool acquire.
func (m *Metrics) RecordPoolAcquire() {
	m.poolAcquires.Add(1)
}

// RecordPoolRelease records a Context/Result pool release.
func (m *Metrics) RecordPoolRelease() {
	m.poolReleases.Add(1)
}

// RecordIssue records an issue based on severity.
func (m *Metrics) RecordIssue(severity IssueSeverity) {
	switch severity {
	case SeverityError, SeverityFatal:
		m.errorsTotal.Add(1)
	case SeverityWarning:
		m.warningsTotal.Add(1)
	case SeverityInformation:
		m.infosTotal.Add(1)
	}
}

// RecordOperationPhase records metrics for one named operation.
func (m *Metrics) RecordOperationPhase(operation string, duration time.Duration, issuesFound int) {
	pm := m.getOrCreateOperationMetrics(operation)
	pm.invocations.Add(1)
	pm.totalTime.Add(uint64(duration.Nanoseconds())) //nolint:gosec // Safe: nanoseconds are always positive
	pm.issuesFound.Add(uint64(issuesFound))          //nolint:gosec // Safe: issuesFound is a small positive integer
}

func (m *Metrics) getOrCreateOperationMetrics(name string) *operationMetrics {
	if v, ok := m.operationTiming.Load(name); ok {
		return v.(*operationMetrics)
	}
	pm := &operationMetrics{}
	actual, _ := m.operationTiming.LoadOrStore(name, pm)
	return actual.(*operationMetrics)
}

// --- Query Methods ---

// OperationsTotal returns the total number of operations performed.
func (m *Metrics) OperationsTotal() uint64 {
	return m.operationsTotal.Load()
}

// OperationsValid returns the number of operations that completed
// without an error issue.
func (m *Metrics) OperationsValid() uint64 {
	return m.operationsValid.Load()
}

// SuccessRate returns the fraction of operations that completed
// without an error issue (0.0 to 1.0).
func (m *Metrics) SuccessRate() float64 {
	total := m.operationsTotal.Load()
	if total == 0 {
		return 0
	}
	return float64(m.operationsValid.Load()) / float64(total)
}

// AverageOperationTime returns the average operation duration.
func (m *Metrics) AverageOperationTime() time.Duration {
	total := m.operationsTotal.Load()
	if total == 0 {
		return 0
	}
	avgNs := m.operationTimeTotal.Load() / total
	return time.Duration(avgNs) //nolint:gosec // Safe: avgNs represents nanoseconds within int64 range
}

// MinOperationTime returns the minimum operation duration observed.
func (m *Metrics) MinOperationTime() time.Duration {
	minVal := m.operationTimeMin.Load()
	if minVal == ^uint64(0) {
		return 0
	}
	return time.Duration(minVal) //nolint:gosec // Safe: minVal represents nanoseconds within int64 range
}

// MaxOperationTime returns the maximum operation duration observed.
func (m *Metrics) MaxOperationTime() time.Duration {
	return time.Duration(m.operationTimeMax.Load()) //nolint:gosec // Safe: nanoseconds within int64 range
}

// CacheHits returns the total resource cache hits.
func (m *Metrics) CacheHits() uint64 {
	return m.cacheHits.Load()
}

// CacheMisses returns the total resource cache misses.
func (m *Metrics) CacheMisses() uint64 {
	return m.cacheMisses.Load()
}

// CacheHitRate returns the resource cache hit rate (0.0 to 1.0).
func (m *Metrics) CacheHitRate() float64 {
	hits := m.cacheHits.Load()
	misses := m.cacheMisses.Load()
	total := hits + misses
	if total == 0 {
		return 0
	}
	return float64(hits) / float64(total)
}

// PoolAcquires returns the total pool acquire operations.
func (m *Metrics) PoolAcquires() uint64 {
	return m.poolAcquires.Load()
}

// PoolReleases returns the total pool release operations.
func (m *Metrics) PoolReleases() uint64 {
	return m.poolReleases.Load()
}

// PoolLeaks returns potential pool leaks (acquires - releases).
func (m *Metrics) PoolLeaks() int64 {
	return int64(m.poolAcquires.Load()) - int64(m.poolReleases.Load()) //nolint:gosec // Safe: counters won't overflow int64
}

// ErrorsTotal returns the total error issues found.
func (m *Metrics) ErrorsTotal() uint64 {
	return m.errorsTotal.Load()
}

// WarningsTotal returns the total warning issues found.
func (m *Metrics) WarningsTotal() uint64 {
	return m.warningsTotal.Load()
}

// InfosTotal returns the total informational issues found.
func (m *Metrics) InfosTotal() uint64 {
	return m.infosTotal.Load()
}

// OperationStats summarizes one operation's invocation statistics.
type OperationStats struct {
	Name        string
	Invocations uint64
	TotalTime   time.Duration
	AvgTime     time.Duration
	IssuesFound uint64
}

// OperationStatsFor returns statistics for a specific operation.
func (m *Metrics) OperationStatsFor(operation string) (OperationStats, bool) {
	v, ok := m.operationTiming.Load(operation)
	if !ok {
		return OperationStats{Name: operation}, false
	}
	pm := v.(*operationMetrics)
	invocations := pm.invocations.Load()
	totalTime := pm.totalTime.Load()

	var avgTime time.Duration
	if invocations > 0 {
		avgTime = time.Duration(totalTime / invocations) //nolint:gosec // Safe: nanoseconds within int64 range
	}

	return OperationStats{
		Name:        operation,
		Invocations: invocations,
		TotalTime:   time.Duration(totalTime), //nolint:gosec // Safe: nanoseconds within int64 range
		AvgTime:     avgTime,
		IssuesFound: pm.issuesFound.Load(),
	}, true
}

// AllOperationStats returns statistics for every operation observed.
func (m *Metrics) AllOperationStats() []OperationStats {
	var stats []OperationStats
	m.operationTiming.Range(func(key, value any) bool {
		pm := value.(*operationMetrics)
		name := key.(string)
		invocations := pm.invocations.Load()
		totalTime := pm.totalTime.Load()

		var avgTime time.Duration
		if invocations > 0 {
			avgTime = time.Duration(totalTime / invocations) //nolint:gosec // Safe: nanoseconds within int64 range
		}

		stats = append(stats, OperationStats{
			Name:        name,
			Invocations: invocations,
			TotalTime:   time.Duration(totalTime), //nolint:gosec // Safe: nanoseconds within int64 range
			AvgTime:     avgTime,
			IssuesFound: pm.issuesFound.Load(),
		})
		return true
	})
	return stats
}

// --- Export Methods ---

// Snapshot represents a point-in-time snapshot of all metrics.
type Snapshot struct {
	Timestamp time.Time `json:"timestamp"`

	OperationsTotal uint64  `json:"operations_total"`
	OperationsValid uint64  `json:"operations_valid"`
	SuccessRate     float64 `json:"success_rate"`

	AvgOperationTimeNs uint64 `json:"avg_operation_time_ns"`
	MinOperationTimeNs uint64 `json:"min_operation_time_ns"`
	MaxOperationTimeNs uint64 `json:"max_operation_time_ns"`

	CacheHits    uint64  `json:"cache_hits"`
	CacheMisses  uint64  `json:"cache_misses"`
	CacheHitRate float64 `json:"cache_hit_rate"`

	PoolAcquires uint64 `json:"pool_acquires"`
	PoolReleases uint64 `json:"pool_releases"`
	PoolLeaks    int64  `json:"pool_leaks"`

	ErrorsTotal   uint64 `json:"errors_total"`
	WarningsTotal uint64 `json:"warnings_total"`
	InfosTotal    uint64 `json:"infos_total"`

	Operations []OperationStats `json:"operations,omitempty"`
}

// Snapshot returns a point-in-time snapshot of all metrics.
func (m *Metrics) Snapshot() Snapshot {
	total := m.operationsTotal.Load()
	cacheHits := m.cacheHits.Load()
	cacheMisses := m.cacheMisses.Load()

	var avgTime, successRate, cacheHitRate float64
	if total > 0 {
		avgTime = float64(m.operationTimeTotal.Load()) / float64(total)
		successRate = float64(m.operationsValid.Load()) / float64(total)
	}
	if cacheTotal := cacheHits + cacheMisses; cacheTotal > 0 {
		cacheHitRate = float64(cacheHits) / float64(cacheTotal)
	}

	minTime := m.operationTimeMin.Load()
	if minTime == ^uint64(0) {
		minTime = 0
	}

	return Snapshot{
		Timestamp:          time.Now(),
		OperationsTotal:    total,
		OperationsValid:    m.operationsValid.Load(),
		SuccessRate:        successRate,
		AvgOperationTimeNs: uint64(avgTime),
		MinOperationTimeNs: minTime,
		MaxOperationTimeNs: m.operationTimeMax.Load(),
		CacheHits:          cacheHits,
		CacheMisses:        cacheMisses,
		CacheHitRate:       cacheHitRate,
		PoolAcquires:       m.poolAcquires.Load(),
		PoolReleases:       m.poolReleases.Load(),
		PoolLeaks:          m.PoolLeaks(),
		ErrorsTotal:        m.errorsTotal.Load(),
		WarningsTotal:      m.warningsTotal.Load(),
		InfosTotal:         m.infosTotal.Load(),
		Operations:         m.AllOperationStats(),
	}
}

// Export returns metrics as a map suitable for external systems
// (Prometheus, etc.).
func (m *Metrics) Export() map[string]interface{} {
	s := m.Snapshot()
	return map[string]interface{}{
		"operations_total":      s.OperationsTotal,
		"operations_valid":      s.OperationsValid,
		"success_rate":          s.SuccessRate,
		"avg_operation_time_ns": s.AvgOperationTimeNs,
		"min_operation_time_ns": s.MinOperationTimeNs,
		"max_operation_time_ns": s.MaxOperationTimeNs,
		"cache_hits":            s.CacheHits,
		"cache_misses":          s.CacheMisses,
		"cache_hit_rate":        s.CacheHitRate,
		"pool_acquires":         s.PoolAcquires,
		"pool_releases":         s.PoolReleases,
		"pool_leaks":            s.PoolLeaks,
		"errors_total":          s.ErrorsTotal,
		"warnings_total":        s.WarningsTotal,
		"infos_total":           s.InfosTotal,
	}
}

// Reset clears all metrics.
func (m *Metrics) Reset() {
	m.operationsTotal.Store(0)
	m.operationsValid.Store(0)
	m.operationTimeTotal.Store(0)
	m.operationTimeMin.Store(^uint64(0))
	m.operationTimeMax.Store(0)
	m.cacheHits.Store(0)
	m.cacheMisses.Store(0)
	m.poolAcquires.Store(0)
	m.poolReleases.Store(0)
	m.errorsTotal.Store(0)
	m.warningsTotal.Store(0)
	m.infosTotal.Store(0)

	m.operationTiming.Range(func(key, _ any) bool {
		m.operationTiming.Delete(key)
		return true
	})
}
