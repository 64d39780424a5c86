package ucum

import (
	"fmt"

	"github.com/gofhir/terminology/designation"
	"github.com/gofhir/terminology/fhir"
	"github.com/gofhir/terminology/lang"
	"github.com/gofhir/terminology/provider"
)

// SystemURL is the UCUM system URI a CodeableConcept.Coding.System carries
// when its code is a unit expression rather than an enumerated concept.
const SystemURL = "http://unitsofmeasure.org"

// PropertyCanonicalUnit is the synthetic property code GetProperty
// recognises, returning the unit's canonical analysis string.
const PropertyCanonicalUnit = "canonical-unit"

// Provider adapts the UCUM expression algebra to provider.Provider, so a
// unit code can be validated, displayed, and compared through the same
// interface as an enumerated code system (spec.md §4.D).
type Provider struct{}

// New builds a UCUM provider. It holds no state: every unit expression is
// parsed and canonicalised on demand.
func New() *Provider { return &Provider{} }

func (p *Provider) System() string                { return SystemURL }
func (p *Provider) Version() string                { return "" }
func (p *Provider) ContentMode() fhir.ContentMode  { return fhir.ContentComplete }
func (p *Provider) HasSupplement(string) bool      { return false }

func (p *Provider) Locate(code string) (provider.Handle, string, error) {
	if _, err := Parse(code); err != nil {
		return "", err.Error(), nil
	}
	return provider.Handle(code), "", nil
}

func (p *Provider) Code(h provider.Handle) string { return string(h) }

func (p *Provider) Display(h provider.Handle, _ []lang.Preference) string {
	u, err := Parse(string(h))
	if err != nil {
		return string(h)
	}
	c, err := u.Canonicalize()
	if err != nil {
		return string(h)
	}
	return fmt.Sprintf("%s (%s)", h, c.Analysis())
}

func (p *Provider) Designations(h provider.Handle) *designation.Store {
	return designation.New([]fhir.Designation{{Value: p.Display(h, nil), Status: fhir.StatusActive}}, nil, nil)
}

func (p *Provider) GetProperty(h provider.Handle, code string) (fhir.PropertyValue, bool) {
	if code != PropertyCanonicalUnit {
		return fhir.PropertyValue{}, false
	}
	u, err := Parse(string(h))
	if err != nil {
		return fhir.PropertyValue{}, false
	}
	c, err := u.Canonicalize()
	if err != nil {
		return fhir.PropertyValue{}, false
	}
	return fhir.PropertyValue{Code: code, Kind: fhir.PropertyString, String: c.Analysis()}, true
}

// SubsumesTest reports Equivalent when two unit expressions canonicalise
// to the identical dimension vector and magnitude, and NotSubsumed
// otherwise. UCUM carries no is-a hierarchy, so Subsumes/SubsumedBy never
// apply here.
func (p *Provider) SubsumesTest(parent, child provider.Handle) (provider.Subsumption, error) {
	pu, err := Parse(string(parent))
	if err != nil {
		return provider.NotSubsumed, err
	}
	cu, err := Parse(string(child))
	if err != nil {
		return provider.NotSubsumed, err
	}
	pc, err := pu.Canonicalize()
	if err != nil {
		return provider.NotSubsumed, err
	}
	cc, err := cu.Canonicalize()
	if err != nil {
		return provider.NotSubsumed, err
	}
	if pc.Equal(cc) {
		return provider.Equivalent, nil
	}
	return provider.NotSubsumed, nil
}

// Iterator/FilterLocate reject any filter: UCUM's unit space is
// unbounded, so there is no enumeration to iterate or intersect with a
// filter, mirroring provider.LanguageTags.
func (p *Provider) Iterator(filters []fhir.ConceptSetFilter) (provider.Iterator, error) {
	if len(filters) > 0 {
		return nil, &provider.ErrUnsupportedFilter{Op: filters[0].Op, Property: filters[0].Property}
	}
	return nil, fmt.Errorf("ucum: iteration over the unit space is not supported")
}

func (p *Provider) FilterLocate(filters []fhir.ConceptSetFilter, code string) (provider.Handle, error) {
	if len(filters) > 0 {
		return "", &provider.ErrUnsupportedFilter{Op: filters[0].Op, Property: filters[0].Property}
	}
	h, _, err := p.Locate(code)
	return h, err
}

var _ provider.Provider = (*Provider)(nil)
