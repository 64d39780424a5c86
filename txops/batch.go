package txops

import (
	"github.com/gofhir/terminology/internal/workerpool"
	"github.com/gofhir/terminology/lang"
	"github.com/gofhir/terminology/txcache"
	"github.com/gofhir/terminology/txop"
)

// BatchLookupItem pairs one LookupRequest with the outcome of running
// it, so results can be re-associated with their request after fanning
// out across workers.
type BatchLookupItem struct {
	Request LookupRequest
	Result  *LookupResult
	Err     error
}

// BatchLookup is a convenience for validating/looking-up many codings in
// one call — e.g. every Coding in a CodeableConcept, or a batch
// CodeSystem/$lookup request — fanned out over a worker pool since
// provider construction and independent lookups may parallelise even
// though spec.md §5 requires evaluation within one request to stay
// sequential; each lookup here is logically its own request. workers<=0
// uses runtime.NumCPU() workers; the pool never starts more workers than
// there are items.
func BatchLookup(reg txop.Registry, resources []txcache.Resource, pins txop.PinSet, requests []LookupRequest, prefs []lang.Preference, workers int) []BatchLookupItem {
	jobs := make([]workerpool.Job[BatchLookupItem], len(requests))
	for i, req := range requests {
		req := req
		jobs[i] = workerpool.Job[BatchLookupItem]{
			ID: i,
			Work: func() BatchLookupItem {
				ctx := txop.AcquireContext()
				defer ctx.Release()
				result, err := Lookup(reg, resources, pins, req, prefs, ctx)
				return BatchLookupItem{Request: req, Result: result, Err: err}
			},
		}
	}

	results := workerpool.Run(jobs, workers)
	out := make([]BatchLookupItem, len(results))
	for i, r := range results {
		out[i] = r.Value
	}
	return out
}
