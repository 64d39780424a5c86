// Package workerpool is a small fixed-size goroutine pool for fanning
// independent jobs out across CPUs. Adapted from worker/pool.go's
// channel-fed Pool/Job/JobResult shape, generalised with a generic job
// function instead of a Validator interface and a []byte resource, since
// spec.md §5 allows provider construction and batch lookups to
// parallelise even though single-request evaluation stays sequential.
package workerpool

import (
	"runtime"
	"sync"
)

// Job is one unit of independent work: ID is the job's index, carried
// through to the result for re-association, and Work computes its value
// of type T.
type Job[T any] struct {
	ID   int
	Work func() T
}

// Result pairs a Job's ID with its computed value, mirroring
// worker/job.go's JobResult.ID/Result pairing.
type Result[T any] struct {
	ID    int
	Value T
}

// Run executes jobs across workers goroutines (runtime.NumCPU() if
// workers <= 0, never more than len(jobs)) and returns their results
// placed by Job.ID, so result i belongs to the job whose ID is i,
// regardless of completion order. IDs must be distinct indexes in
// [0, len(jobs)) — callers get a deterministic positional result slice,
// the same contract BatchLookup needs.
func Run[T any](jobs []Job[T], workers int) []Result[T] {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(jobs) {
		workers = len(jobs)
	}
	if workers <= 0 {
		return nil
	}

	jobsChan := make(chan Job[T], len(jobs))
	for _, j := range jobs {
		jobsChan <- j
	}
	close(jobsChan)

	results := make([]T, len(jobs))
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			for j := range jobsChan {
				results[j.ID] = j.Work()
			}
		}()
	}
	wg.Wait()

	out := make([]Result[T], len(jobs))
	for i, v := range results {
		out[i] = Result[T]{ID: i, Value: v}
	}
	return out
}
