package provider

import (
	"github.com/gofhir/terminology/designation"
	"github.com/gofhir/terminology/fhir"
	"github.com/gofhir/terminology/lang"
)

// LanguageTags is the BCP-47 provider variant (spec.md §4.D): Locate
// parses a tag against the registry, subsumption is the Matches relation
// at depth LANGUAGE, and display uses the registry's descriptive
// rendering.
type LanguageTags struct {
	registry *lang.Registry
}

// NewLanguageTags builds a provider over the IETF BCP-47 system URI.
func NewLanguageTags(registry *lang.Registry) *LanguageTags {
	return &LanguageTags{registry: registry}
}

const languageTagSystemURL = "urn:ietf:bcp:47"

func (p *LanguageTags) System() string               { return languageTagSystemURL }
func (p *LanguageTags) Version() string               { return "" }
func (p *LanguageTags) ContentMode() fhir.ContentMode { return fhir.ContentComplete }
func (p *LanguageTags) HasSupplement(string) bool     { return false }

func (p *LanguageTags) Locate(code string) (Handle, string, error) {
	if _, err := p.registry.Parse(code); err != nil {
		return "", err.Error(), nil
	}
	return code, "", nil
}

func (p *LanguageTags) Code(h Handle) string { return h }

func (p *LanguageTags) Display(h Handle, _ []lang.Preference) string {
	tag, err := p.registry.Parse(h)
	if err != nil {
		return h
	}
	return p.registry.Present(tag, 0, "")
}

func (p *LanguageTags) Designations(h Handle) *designation.Store {
	return designation.New([]fhir.Designation{{Value: p.Display(h, nil), Status: fhir.StatusActive}}, p.registry, nil)
}

func (p *LanguageTags) GetProperty(Handle, string) (fhir.PropertyValue, bool) {
	return fhir.PropertyValue{}, false
}

// SubsumesTest treats two tags as equivalent when they match at
// DepthLanguage, and not-subsumed otherwise; BCP-47 has no is-a
// hierarchy beyond that depth for this provider's purposes.
func (p *LanguageTags) SubsumesTest(parent, child Handle) (Subsumption, error) {
	a, err := p.registry.Parse(parent)
	if err != nil {
		return NotSubsumed, err
	}
	b, err := p.registry.Parse(child)
	if err != nil {
		return NotSubsumed, err
	}
	if lang.Matches(a, b, lang.DepthLanguage) {
		return Equivalent, nil
	}
	return NotSubsumed, nil
}

func (p *LanguageTags) Iterator(filters []fhir.ConceptSetFilter) (Iterator, error) {
	if len(filters) > 0 {
		return nil, &ErrUnsupportedFilter{Op: filters[0].Op, Property: filters[0].Property}
	}
	return &sliceIterator{}, nil
}

func (p *LanguageTags) FilterLocate(filters []fhir.ConceptSetFilter, code string) (Handle, error) {
	if len(filters) > 0 {
		return "", &ErrUnsupportedFilter{Op: filters[0].Op, Property: filters[0].Property}
	}
	h, _, err := p.Locate(code)
	return h, err
}

var _ Provider = (*LanguageTags)(nil)
