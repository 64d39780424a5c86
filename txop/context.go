package txop

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/gofhir/terminology/fhir"
	"github.com/gofhir/terminology/lang"
	"github.com/gofhir/terminology/valueset"
)

// Issue is one OperationOutcome-shaped diagnostic a worker accumulates
// while executing an operation.
type Issue struct {
	Severity    fhir.IssueSeverity
	Code        string // not-found | invalid | too-costly | version-error | not-supported | ...
	Diagnostics string
}

// Used records one (system, version) pin, or other parameter, that
// influenced the result — spec.md §4.G(6)'s "used" provenance trail.
type Used struct {
	System  string
	Version string
	Reason  string // e.g. "force-system-version", "system-version", "inline"
}

// Context is the per-operation state threaded through a single
// $lookup/$validate-code/$expand/$translate/$subsumes/$validate-vs call:
// deadline, cost cap, language preferences, and the issues/provenance it
// accumulates. Grounded on pipeline/context.go's pooled Context
// (Reset/Release, AddIssue-style accumulation), generalised from "one
// resource being validated" to "one terminology operation in flight".
// Never shared across goroutines: one Context per in-flight operation.
type Context struct {
	Deadline   time.Time
	MaxResults int
	cancelled  atomic.Bool

	Prefs []lang.Preference

	issues []Issue
	used   []Used
}

var contextPool = sync.Pool{
	New: func() any {
		return &Context{
			issues: make([]Issue, 0, 4),
			used:   make([]Used, 0, 4),
		}
	},
}

// AcquireContext gets a Context from the pool, already reset.
func AcquireContext() *Context {
	ctx := contextPool.Get().(*Context)
	ctx.Reset()
	return ctx
}

// Release returns the Context to the pool. The Context must not be used
// afterward.
func (c *Context) Release() {
	if c == nil {
		return
	}
	if cap(c.issues) <= 64 && cap(c.used) <= 64 {
		contextPool.Put(c)
	}
}

// Reset clears the Context for reuse.
func (c *Context) Reset() {
	c.Deadline = time.Time{}
	c.MaxResults = 0
	c.cancelled.Store(false)
	c.Prefs = nil
	c.issues = c.issues[:0]
	c.used = c.used[:0]
}

// Cancel sets the cooperative cancellation flag; every checkpoint tests
// it alongside the deadline.
func (c *Context) Cancel() {
	c.cancelled.Store(true)
}

// ErrTooCostly is raised when DeadCheck's deadline or cancellation test
// trips, converted by the worker layer into a 422 too-costly outcome.
type ErrTooCostly struct {
	Place  string
	Reason string
}

func (e *ErrTooCostly) Error() string {
	return "too-costly at " + e.Place + ": " + e.Reason
}

// DeadCheck is the checkpoint every inner loop calls; place is a
// debugging label only, per spec.md §4.G.
func (c *Context) DeadCheck(place string) error {
	if c.cancelled.Load() {
		return &ErrTooCostly{Place: place, Reason: "cancelled"}
	}
	if !c.Deadline.IsZero() && time.Now().After(c.Deadline) {
		return &ErrTooCostly{Place: place, Reason: "deadline exceeded"}
	}
	return nil
}

// AddIssue records a diagnostic.
func (c *Context) AddIssue(i Issue) {
	c.issues = append(c.issues, i)
}

// Issues returns the accumulated diagnostics.
func (c *Context) Issues() []Issue {
	return c.issues
}

// RecordUsed appends a provenance entry to the "used" trail.
func (c *Context) RecordUsed(u Used) {
	c.used = append(c.used, u)
}

// UsedTrail returns the accumulated provenance trail.
func (c *Context) UsedTrail() []Used {
	return c.used
}

// Budget adapts this Context's deadline/cost-cap into the valueset
// package's Budget shape, so $expand/$validate-vs share one deadline and
// cost accounting with the rest of the operation.
func (c *Context) Budget() *valueset.Budget {
	return &valueset.Budget{Deadline: c.Deadline, MaxResults: c.MaxResults}
}
