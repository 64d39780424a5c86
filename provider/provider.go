// Package provider implements the polymorphic code-system provider
// abstraction of spec.md §4.D: a uniform lookup/subsumption/filter/
// iteration interface over heterogeneous backends. Variants live as
// sibling implementations (Memory, Supplement, Fragment, LanguageTags);
// provider/ucum holds the UCUM algebraic variant. Grounded on
// terminology/memory.go's codeSystemData/collectDescendants and
// terminology/cached.go's decorator-over-service composition.
package provider

import (
	"github.com/gofhir/terminology/designation"
	"github.com/gofhir/terminology/fhir"
	"github.com/gofhir/terminology/lang"
)

// Handle identifies one concept within a Provider. Per SPEC_FULL.md §9 /
// spec.md's design notes, handles are plain code strings — stable for the
// provider's lifetime, never pointers, so cyclic parent/child graphs
// never become pointer cycles.
type Handle = string

// Subsumption is the four-way verdict spec.md §4.D's subsumesTest
// returns.
type Subsumption string

const (
	Equivalent  Subsumption = "equivalent"
	Subsumes    Subsumption = "subsumes"
	SubsumedBy  Subsumption = "subsumed-by"
	NotSubsumed Subsumption = "not-subsumed"
)

// Iterator is the explicit next/reset interface spec.md §9 requires in
// place of coroutine syntax, so that a cost checkpoint is visible at
// every call site that drains one.
type Iterator interface {
	Next() (Handle, bool)
	Reset()
}

// Provider is the contract every code-system backend variant satisfies.
type Provider interface {
	System() string
	Version() string
	ContentMode() fhir.ContentMode
	HasSupplement(url string) bool

	// Locate resolves code to a Handle. A miss returns ("", diagnostic,
	// nil) — a missing code is not itself an error, per spec.md §4.D's
	// failure semantics; only malformed handles/filters raise errors.
	Locate(code string) (Handle, string, error)

	Code(h Handle) string
	Display(h Handle, prefs []lang.Preference) string
	Designations(h Handle) *designation.Store
	GetProperty(h Handle, code string) (fhir.PropertyValue, bool)

	// SubsumesTest must terminate on cyclic graphs via a visited set.
	SubsumesTest(parent, child Handle) (Subsumption, error)

	// Iterator returns a restartable iterator over every concept
	// satisfying the conjunction of filters (an empty slice iterates the
	// whole system). Unknown operators are rejected here, at compile
	// time, not silently ignored.
	Iterator(filters []fhir.ConceptSetFilter) (Iterator, error)

	// FilterLocate is an accelerated membership test: does code satisfy
	// the conjunction of filters, without materialising the full
	// iterator.
	FilterLocate(filters []fhir.ConceptSetFilter, code string) (Handle, error)
}

// DisplayProvider is implemented by providers with custom display-ness
// rules (spec.md §4.C: "providers may override this rule"); the
// designation package's default applies otherwise.
type DisplayProvider interface {
	IsDisplay(d fhir.Designation) bool
}
