// Package designation implements the per-concept designation store from
// spec.md §4.C: preferred-designation selection, display-equality under
// three modes, and display enumeration for error messages. It is grounded
// on phase/coding_validation.go's separation of "is this code valid" from
// "does the display match", generalised from one display comparison into
// the full preferred-designation algorithm spec.md specifies.
package designation

import (
	"strings"

	"github.com/gofhir/terminology/fhir"
	"github.com/gofhir/terminology/lang"
)

// canonicalDisplayUse and the SNOMED "preferred term" use are the two
// built-in rules spec.md §3 names for deriving display-ness when a
// provider doesn't override it.
const (
	canonicalDisplayUseSystem = "http://terminology.hl7.org/CodeSystem/designation-usage"
	canonicalDisplayUseCode   = "display"
	snomedPreferredUseSystem  = "http://snomed.info/sct"
	snomedPreferredUseCode    = "900000000000548007"
)

// IsDisplayFunc lets a provider override the "is this designation a
// display" predicate (spec.md §4.C: "providers may override this rule").
type IsDisplayFunc func(d fhir.Designation) bool

// DefaultIsDisplay implements the rule spec.md §3 describes: a
// designation is a display if its use is absent, or equals the canonical
// "display" use, or equals the SNOMED "preferred" use.
func DefaultIsDisplay(d fhir.Designation) bool {
	if d.Use == nil {
		return true
	}
	if d.Use.System == canonicalDisplayUseSystem && d.Use.Code == canonicalDisplayUseCode {
		return true
	}
	if d.Use.System == snomedPreferredUseSystem && d.Use.Code == snomedPreferredUseCode {
		return true
	}
	return false
}

// isPreferred reports whether a designation both is-a-display and carries
// the SNOMED "preferred" use specifically, used to break ties in the
// preferred-designation algorithm.
func isPreferred(d fhir.Designation) bool {
	return d.Use != nil && d.Use.System == snomedPreferredUseSystem && d.Use.Code == snomedPreferredUseCode
}

// Store holds the effective designations of one concept: the host
// system's own designations plus any contributed by active supplements
// (spec.md §3: "The effective set of designations for a code is the
// union of the host system's designations and all active supplements").
type Store struct {
	designations []fhir.Designation
	isDisplay    IsDisplayFunc
	registry     *lang.Registry
}

// New builds a Store over the given designations. isDisplay may be nil,
// in which case DefaultIsDisplay is used.
func New(designations []fhir.Designation, registry *lang.Registry, isDisplay IsDisplayFunc) *Store {
	if isDisplay == nil {
		isDisplay = DefaultIsDisplay
	}
	return &Store{designations: designations, isDisplay: isDisplay, registry: registry}
}

// All returns every designation the store holds, in host-then-supplement
// order.
func (s *Store) All() []fhir.Designation {
	return s.designations
}

// CountDisplays returns how many designations qualify as a display.
func (s *Store) CountDisplays() int {
	n := 0
	for _, d := range s.designations {
		if s.isDisplay(d) {
			n++
		}
	}
	return n
}

// RenderForError enumerates every display value, for use in a "display
// did not match; known displays are: ..." diagnostic.
func (s *Store) RenderForError() string {
	var values []string
	for _, d := range s.designations {
		if s.isDisplay(d) {
			values = append(values, d.Value)
		}
	}
	return strings.Join(values, ", ")
}

func (s *Store) activeOnly() []fhir.Designation {
	active := make([]fhir.Designation, 0, len(s.designations))
	for _, d := range s.designations {
		if d.Status == fhir.StatusWithdrawn {
			continue
		}
		active = append(active, d)
	}
	return active
}
