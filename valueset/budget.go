// Package valueset implements the ValueSet compose compiler and the
// dual-mode expand/membership engine of spec.md §4.E: compile a
// composition into a deterministic enumerated set, or walk it to test
// whether one coding is a member, without ever materialising the full
// set. Grounded on terminology/memory.go's ensureValueSetExpanded/
// extractComposeCodesAndFilters lazy-expansion shape, generalised from
// "codes in a map" to the ordered, deduplicated, cost-guarded algorithm
// spec.md specifies, and on pipeline/context.go's ShouldStop idiom for
// the deadline+cap cost guard.
package valueset

import (
	"fmt"
	"time"
)

// TooCostly is raised when an expansion exceeds its deadline or its
// result-count cap. Membership-test mode never raises the count half of
// this (a probe only needs to find one match, not count them all).
type TooCostly struct {
	Place  string
	Reason string
}

func (e *TooCostly) Error() string {
	return fmt.Sprintf("expansion too costly at %s: %s", e.Place, e.Reason)
}

// Budget is the cost guard threaded through every inner loop of
// compilation and membership testing (spec.md §4.E "Cost control").
type Budget struct {
	Deadline   time.Time
	MaxResults int

	// MembershipMode suppresses the MaxResults check: a membership probe
	// short-circuits on the first match and never needs the full count.
	MembershipMode bool

	count int
}

// NewBudget builds a Budget with a deadline ttl from now and a result cap.
// ttl <= 0 means no deadline; cap <= 0 means no result cap.
func NewBudget(ttl time.Duration, maxResults int) *Budget {
	b := &Budget{MaxResults: maxResults}
	if ttl > 0 {
		b.Deadline = time.Now().Add(ttl)
	}
	return b
}

// Check is deadCheck(place) from spec.md §4.E: called at the head of
// every inner loop. place is a debugging label only.
func (b *Budget) Check(place string) error {
	if b == nil {
		return nil
	}
	if !b.Deadline.IsZero() && time.Now().After(b.Deadline) {
		return &TooCostly{Place: place, Reason: "deadline exceeded"}
	}
	if !b.MembershipMode && b.MaxResults > 0 && b.count > b.MaxResults {
		return &TooCostly{Place: place, Reason: "result count exceeds cap"}
	}
	return nil
}

// Emit records one accepted result against the cap; call after Check
// succeeds and before writing the result into the output.
func (b *Budget) Emit() {
	if b != nil {
		b.count++
	}
}
