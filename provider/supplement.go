package provider

import (
	"github.com/gofhir/terminology/designation"
	"github.com/gofhir/terminology/fhir"
	"github.com/gofhir/terminology/lang"
)

// Supplement decorates any base Provider, merging designations and
// property values contributed by one or more supplement CodeSystems into
// Designations/GetProperty/Display, while delegating every structural
// query (Locate, SubsumesTest, Iterator, FilterLocate) to the base.
// Composition, not inheritance, per spec.md §9 — grounded on
// terminology/cached.go's decorator-over-service shape.
type Supplement struct {
	base        Provider
	supplements []fhir.CodeSystem
	registry    *lang.Registry
}

// NewSupplement wraps base with zero or more supplement CodeSystems.
// Supplements never add or remove codes (spec.md §3); they only
// contribute designations and property values keyed by host code.
func NewSupplement(base Provider, registry *lang.Registry, supplements ...fhir.CodeSystem) *Supplement {
	return &Supplement{base: base, supplements: supplements, registry: registry}
}

func (s *Supplement) System() string                { return s.base.System() }
func (s *Supplement) Version() string                { return s.base.Version() }
func (s *Supplement) ContentMode() fhir.ContentMode  { return s.base.ContentMode() }
func (s *Supplement) Locate(code string) (Handle, string, error) { return s.base.Locate(code) }
func (s *Supplement) Code(h Handle) string           { return s.base.Code(h) }
func (s *Supplement) SubsumesTest(p, c Handle) (Subsumption, error) { return s.base.SubsumesTest(p, c) }
func (s *Supplement) Iterator(filters []fhir.ConceptSetFilter) (Iterator, error) {
	return s.base.Iterator(filters)
}
func (s *Supplement) FilterLocate(filters []fhir.ConceptSetFilter, code string) (Handle, error) {
	return s.base.FilterLocate(filters, code)
}

func (s *Supplement) HasSupplement(url string) bool {
	for _, supp := range s.supplements {
		if supp.URL == url {
			return true
		}
	}
	return s.base.HasSupplement(url)
}

func (s *Supplement) Designations(h Handle) *designation.Store {
	base := s.base.Designations(h)
	all := append([]fhir.Designation(nil), base.All()...)
	code := s.base.Code(h)
	for i := range s.supplements {
		all = append(all, supplementDesignations(&s.supplements[i], code)...)
	}
	var isDisplay designation.IsDisplayFunc
	if dp, ok := s.base.(DisplayProvider); ok {
		isDisplay = dp.IsDisplay
	}
	return designation.New(all, s.registry, isDisplay)
}

func (s *Supplement) GetProperty(h Handle, code string) (fhir.PropertyValue, bool) {
	conceptCode := s.base.Code(h)
	for i := range s.supplements {
		if pv, ok := supplementProperty(&s.supplements[i], conceptCode, code); ok {
			return pv, true
		}
	}
	return s.base.GetProperty(h, code)
}

func (s *Supplement) Display(h Handle, prefs []lang.Preference) string {
	if d := s.Designations(h).Preferred(prefs); d != nil {
		return d.Value
	}
	return s.base.Display(h, prefs)
}

var _ Provider = (*Supplement)(nil)
