package terminology

import (
	"sync"
	"testing"
	"time"
)

func TestMetrics_Basic(t *testing.T) {
	m := NewMetrics()

	if m.OperationsTotal() != 0 {
		t.Errorf("OperationsTotal() = %d; want 0", m.OperationsTotal())
	}

	m.RecordOperation(100*time.Millisecond, true)

	if m.OperationsTotal() != 1 {
		t.Errorf("OperationsTotal() = %d; want 1", m.OperationsTotal())
	}
	if m.OperationsValid() != 1 {
		t.Errorf("OperationsValid() = %d; want 1", m.OperationsValid())
	}
}

func TestMetrics_SuccessRate(t *testing.T) {
	m := NewMetrics()

	if rate := m.SuccessRate(); rate != 0 {
		t.Errorf("SuccessRate() = %f; want 0", rate)
	}

	m.RecordOperation(100*time.Millisecond, true)
	m.RecordOperation(100*time.Millisecond, true)
	m.RecordOperation(100*time.Millisecond, false)

	rate := m.SuccessRate()
	expected := 2.0 / 3.0
	if rate < expected-0.01 || rate > expected+0.01 {
		t.Errorf("SuccessRate() = %f; want ~%f", rate, expected)
	}
}

func TestMetrics_OperationTime(t *testing.T) {
	m := NewMetrics()

	if avg := m.AverageOperationTime(); avg != 0 {
		t.Errorf("AverageOperationTime() = %v; want 0", avg)
	}
	if min := m.MinOperationTime(); min != 0 {
		t.Errorf("MinOperationTime() = %v; want 0", min)
	}
	if max := m.MaxOperationTime(); max != 0 {
		t.Errorf("MaxOperationTime() = %v; want 0", max)
	}

	m.RecordOperation(100*time.Millisecond, true)
	m.RecordOperation(200*time.Millisecond, true)
	m.RecordOperation(300*time.Millisecond, true)

	avg := m.AverageOperationTime()
	expectedAvg := 200 * time.Millisecond
	if avg < expectedAvg-time.Millisecond || avg > expectedAvg+time.Millisecond {
		t.Errorf("AverageOperationTime() = %v; want ~%v", avg, expectedAvg)
	}

	if min := m.MinOperationTime(); min != 100*time.Millisecond {
		t.Errorf("MinOperationTime() = %v; want %v", min, 100*time.Millisecond)
	}
	if max := m.MaxOperationTime(); max != 300*time.Millisecond {
		t.Errorf("MaxOperationTime() = %v; want %v", max, 300*time.Millisecond)
	}
}

func TestMetrics_Cache(t *testing.T) {
	m := NewMetrics()

	m.RecordCacheHit()
	m.RecordCacheHit()
	m.RecordCacheMiss()

	if m.CacheHits() != 2 {
		t.Errorf("CacheHits() = %d; want 2", m.CacheHits())
	}
	if m.CacheMisses() != 1 {
		t.Errorf("CacheMisses() = %d; want 1", m.CacheMisses())
	}

	rate := m.CacheHitRate()
	expected := 2.0 / 3.0
	if rate < expected-0.01 || rate > expected+0.01 {
		t.Errorf("CacheHitRate() = %f; want ~%f", rate, expected)
	}
}

func TestMetrics_CacheHitRate_NoDivByZero(t *testing.T) {
	m := NewMetrics()
	if rate := m.CacheHitRate(); rate != 0 {
		t.Errorf("CacheHitRate() = %f; want 0", rate)
	}
}

func TestMetrics_Pool(t *testing.T) {
	m := NewMetrics()

	m.RecordPoolAcquire()
	m.RecordPoolAcquire()
	m.RecordPoolRelease()

	if m.PoolAcquires() != 2 {
		t.Errorf("PoolAcquires() = %d; want 2", m.PoolAcquires())
	}
	if m.PoolReleases() != 1 {
		t.Errorf("PoolReleases() = %d; want 1", m.PoolReleases())
	}
	if m.PoolLeaks() != 1 {
		t.Errorf("PoolLeaks() = %d; want 1", m.PoolLeaks())
	}
}

func TestMetrics_RecordIssue(t *testing.T) {
	m := NewMetrics()

	m.RecordIssue(SeverityError)
	m.RecordIssue(SeverityFatal)
	m.RecordIssue(SeverityWarning)
	m.RecordIssue(SeverityInformation)

	if m.ErrorsTotal() != 2 {
		t.Errorf("ErrorsTotal() = %d; want 2", m.ErrorsTotal())
	}
	if m.WarningsTotal() != 1 {
		t.Errorf("WarningsTotal() = %d; want 1", m.WarningsTotal())
	}
	if m.InfosTotal() != 1 {
		t.Errorf("InfosTotal() = %d; want 1", m.InfosTotal())
	}
}

func TestMetrics_OperationPhase(t *testing.T) {
	m := NewMetrics()

	m.RecordOperationPhase("lookup", 10*time.Millisecond, 0)
	m.RecordOperationPhase("lookup", 20*time.Millisecond, 1)

	stats, ok := m.OperationStatsFor("lookup")
	if !ok {
		t.Fatal("OperationStatsFor(lookup) returned false")
	}
	if stats.Invocations != 2 {
		t.Errorf("Invocations = %d; want 2", stats.Invocations)
	}
	if stats.IssuesFound != 1 {
		t.Errorf("IssuesFound = %d; want 1", stats.IssuesFound)
	}
	if stats.AvgTime != 15*time.Millisecond {
		t.Errorf("AvgTime = %v; want 15ms", stats.AvgTime)
	}
}

func TestMetrics_OperationStatsFor_Unknown(t *testing.T) {
	m := NewMetrics()
	stats, ok := m.OperationStatsFor("expand")
	if ok {
		t.Error("OperationStatsFor(unknown) should return false")
	}
	if stats.Name != "expand" {
		t.Errorf("Name = %q; want expand", stats.Name)
	}
}

func TestMetrics_AllOperationStats(t *testing.T) {
	m := NewMetrics()
	m.RecordOperationPhase("lookup", time.Millisecond, 0)
	m.RecordOperationPhase("expand", time.Millisecond, 0)

	stats := m.AllOperationStats()
	if len(stats) != 2 {
		t.Errorf("AllOperationStats() length = %d; want 2", len(stats))
	}
}

func TestMetrics_Snapshot(t *testing.T) {
	m := NewMetrics()
	m.RecordOperation(100*time.Millisecond, true)
	m.RecordCacheHit()
	m.RecordIssue(SeverityError)

	s := m.Snapshot()
	if s.OperationsTotal != 1 {
		t.Errorf("OperationsTotal = %d; want 1", s.OperationsTotal)
	}
	if s.CacheHits != 1 {
		t.Errorf("CacheHits = %d; want 1", s.CacheHits)
	}
	if s.ErrorsTotal != 1 {
		t.Errorf("ErrorsTotal = %d; want 1", s.ErrorsTotal)
	}
	if s.Timestamp.IsZero() {
		t.Error("Snapshot().Timestamp should be set")
	}
}

func TestMetrics_Export(t *testing.T) {
	m := NewMetrics()
	m.RecordOperation(100*time.Millisecond, true)

	export := m.Export()
	if export["operations_total"] != uint64(1) {
		t.Errorf("Export()[operations_total] = %v; want 1", export["operations_total"])
	}
}

func TestMetrics_Reset(t *testing.T) {
	m := NewMetrics()
	m.RecordOperation(100*time.Millisecond, true)
	m.RecordCacheHit()
	m.RecordIssue(SeverityError)
	m.RecordOperationPhase("lookup", time.Millisecond, 1)

	m.Reset()

	if m.OperationsTotal() != 0 || m.CacheHits() != 0 || m.ErrorsTotal() != 0 {
		t.Error("Reset() should zero all counters")
	}
	if len(m.AllOperationStats()) != 0 {
		t.Error("Reset() should clear per-operation timing")
	}
}

func TestMetrics_Concurrent(t *testing.T) {
	m := NewMetrics()
	var wg sync.WaitGroup

	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.RecordOperation(time.Millisecond, true)
			m.RecordCacheHit()
			m.RecordOperationPhase("lookup", time.Millisecond, 0)
		}()
	}
	wg.Wait()

	if m.OperationsTotal() != 100 {
		t.Errorf("OperationsTotal() = %d; want 100", m.OperationsTotal())
	}
	if m.CacheHits() != 100 {
		t.Errorf("CacheHits() = %d; want 100", m.CacheHits())
	}
}

func BenchmarkMetrics_RecordOperation(b *testing.B) {
	m := NewMetrics()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		m.RecordOperation(time.Millisecond, true)
	}
}

func BenchmarkMetrics_RecordOperationPhase(b *testing.B) {
	m := NewMetrics()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		m.RecordOperationPhase("lookup", time.Millisecond, 0)
	}
}

func BenchmarkMetrics_Snapshot(b *testing.B) {
	m := NewMetrics()
	m.RecordOperation(time.Millisecond, true)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = m.Snapshot()
	}
}
