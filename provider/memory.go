package provider

import (
	"fmt"
	"sort"
	"strings"

	"github.com/gofhir/terminology/designation"
	"github.com/gofhir/terminology/fhir"
	"github.com/gofhir/terminology/lang"
)

// parentPropertyNames are the reserved property codes spec.md §3/§4.D
// recognise as hierarchy edges in addition to nested concept arrays:
// "by code name or by registered property URI".
var parentPropertyNames = map[string]bool{
	"parent":     true,
	"subsumedBy": true,
}

var parentPropertyURIs = map[string]bool{
	"http://hl7.org/fhir/concept-properties#parent": true,
}

// Memory is the complete in-memory provider variant: it builds four maps
// at construction (code->concept, displayFolded->concept, parent->[child],
// child->[parent]), grounded directly on terminology/memory.go's
// codeSystemData/extractCodeSystemCodes/collectDescendants, generalised
// from bare string displays to full designation/property-bearing
// concepts.
type Memory struct {
	system        string
	version       string
	content       fhir.ContentMode
	caseSensitive bool
	registry      *lang.Registry

	codes         map[string]*fhir.Concept // folded-or-exact code -> concept
	displayFolded map[string]*fhir.Concept
	parent        map[string][]string // code -> parent codes
	children      map[string][]string // code -> child codes
	supplements   map[string]*fhir.CodeSystem
}

// NewMemory builds a Memory provider from a host CodeSystem. registry may
// be nil if no designation carries a language tag that needs BCP-47
// matching (a plain string-language Store is still usable).
func NewMemory(cs fhir.CodeSystem, registry *lang.Registry) (*Memory, error) {
	m := &Memory{
		system:        cs.URL,
		version:       cs.Version,
		content:       cs.ContentMode,
		caseSensitive: cs.CaseSensitive,
		registry:      registry,
		codes:         map[string]*fhir.Concept{},
		displayFolded: map[string]*fhir.Concept{},
		parent:        map[string][]string{},
		children:      map[string][]string{},
		supplements:   map[string]*fhir.CodeSystem{},
	}
	propertyURIs := map[string]string{} // property code -> URI, for parent-by-URI recognition
	for _, p := range cs.Property {
		propertyURIs[p.Code] = p.URI
	}
	if err := m.index(cs.Concept, propertyURIs); err != nil {
		return nil, err
	}
	for code, parents := range m.parent {
		for _, p := range parents {
			m.children[p] = append(m.children[p], code)
		}
	}
	return m, nil
}

func (m *Memory) foldKey(code string) string {
	if m.caseSensitive {
		return code
	}
	return strings.ToLower(code)
}

func (m *Memory) index(concepts []fhir.Concept, propertyURIs map[string]string) error {
	for i := range concepts {
		c := &concepts[i]
		if c.Code == "" {
			continue
		}
		key := m.foldKey(c.Code)
		if _, dup := m.codes[key]; dup {
			return fmt.Errorf("duplicate code %q in code system %s", c.Code, m.system)
		}
		m.codes[key] = c
		if c.Display != "" {
			m.displayFolded[strings.ToLower(c.Display)] = c
		}

		for _, prop := range c.Property {
			if parentPropertyNames[prop.Code] || parentPropertyURIs[propertyURIs[prop.Code]] {
				parentCode := prop.Value.Code
				if parentCode == "" && prop.Value.Coding != nil {
					parentCode = prop.Value.Coding.Code
				}
				if parentCode != "" {
					m.parent[c.Code] = append(m.parent[c.Code], parentCode)
				}
			}
		}

		// Nested concept arrays are also a hierarchy source (spec.md §3:
		// "hierarchy by nesting or by a reserved parent/child property").
		for _, child := range c.Concept {
			if child.Code != "" {
				m.parent[child.Code] = append(m.parent[child.Code], c.Code)
			}
		}

		if err := m.index(c.Concept, propertyURIs); err != nil {
			return err
		}
	}
	return nil
}

func (m *Memory) System() string            { return m.system }
func (m *Memory) Version() string           { return m.version }
func (m *Memory) ContentMode() fhir.ContentMode { return m.content }

func (m *Memory) HasSupplement(url string) bool {
	_, ok := m.supplements[url]
	return ok
}

// AddSupplement merges a supplement's contribution (designations,
// property values) into this provider, per spec.md §3: "A supplement
// contributes only: additional designations, additional property
// definitions, and property values on concepts identified by their host
// code. Supplements never add or remove codes."
func (m *Memory) AddSupplement(supp fhir.CodeSystem) {
	m.supplements[supp.URL] = &supp
}

func (m *Memory) Locate(code string) (Handle, string, error) {
	key := m.foldKey(code)
	if _, ok := m.codes[key]; ok {
		return key, "", nil
	}
	return "", fmt.Sprintf("code %q not found in system %s", code, m.system), nil
}

func (m *Memory) Code(h Handle) string {
	if c, ok := m.codes[h]; ok {
		return c.Code
	}
	return ""
}

func (m *Memory) Display(h Handle, prefs []lang.Preference) string {
	c, ok := m.codes[h]
	if !ok {
		return ""
	}
	store := m.Designations(h)
	if d := store.Preferred(prefs); d != nil {
		return d.Value
	}
	return c.Display
}

// Designations builds the effective designation store for h: the
// concept's own designations plus any contributed by active supplements,
// per spec.md §3's union rule.
func (m *Memory) Designations(h Handle) *designation.Store {
	c, ok := m.codes[h]
	if !ok {
		return designation.New(nil, m.registry, nil)
	}
	all := append([]fhir.Designation(nil), c.Designation...)
	if c.Display != "" {
		all = append(all, fhir.Designation{Value: c.Display, Status: fhir.StatusActive})
	}
	for _, supp := range m.supplements {
		all = append(all, supplementDesignations(supp, c.Code)...)
	}
	return designation.New(all, m.registry, nil)
}

func supplementDesignations(supp *fhir.CodeSystem, code string) []fhir.Designation {
	var out []fhir.Designation
	var walk func(cs []fhir.Concept)
	walk = func(cs []fhir.Concept) {
		for _, c := range cs {
			if c.Code == code {
				out = append(out, c.Designation...)
			}
			walk(c.Concept)
		}
	}
	walk(supp.Concept)
	return out
}

func (m *Memory) GetProperty(h Handle, code string) (fhir.PropertyValue, bool) {
	c, ok := m.codes[h]
	if !ok {
		return fhir.PropertyValue{}, false
	}
	for _, p := range c.Property {
		if p.Code == code {
			return p.Value, true
		}
	}
	for _, supp := range m.supplements {
		if pv, ok := supplementProperty(supp, c.Code, code); ok {
			return pv, true
		}
	}
	return fhir.PropertyValue{}, false
}

func supplementProperty(supp *fhir.CodeSystem, conceptCode, propCode string) (fhir.PropertyValue, bool) {
	var found fhir.PropertyValue
	var ok bool
	var walk func(cs []fhir.Concept)
	walk = func(cs []fhir.Concept) {
		for _, c := range cs {
			if c.Code == conceptCode {
				for _, p := range c.Property {
					if p.Code == propCode {
						found, ok = p.Value, true
						return
					}
				}
			}
			walk(c.Concept)
		}
	}
	walk(supp.Concept)
	return found, ok
}

func (m *Memory) graph() *codeGraph {
	return &codeGraph{
		parent:   m.parent,
		children: m.children,
		property: func(code, propCode string) (fhir.PropertyValue, bool) {
			key := m.foldKey(code)
			return m.GetProperty(key, propCode)
		},
		exists: func(code string) bool {
			_, ok := m.codes[m.foldKey(code)]
			return ok
		},
	}
}

// SubsumesTest walks the parent graph with a visited set, so it
// terminates even over a cyclic (invalid) graph, per spec.md §4.D/§8.
func (m *Memory) SubsumesTest(parent, child Handle) (Subsumption, error) {
	if parent == child {
		return Equivalent, nil
	}
	g := m.graph()
	parentCode := m.Code(parent)
	childCode := m.Code(child)
	if g.isDescendantOrSelf(childCode, parentCode) {
		return Subsumes, nil
	}
	if g.isDescendantOrSelf(parentCode, childCode) {
		return SubsumedBy, nil
	}
	return NotSubsumed, nil
}

func (m *Memory) Iterator(filters []fhir.ConceptSetFilter) (Iterator, error) {
	compiled := make([]*compiledFilter, 0, len(filters))
	for _, f := range filters {
		cf, err := compileFilter(f)
		if err != nil {
			return nil, err
		}
		compiled = append(compiled, cf)
	}

	var codes []string
	for key := range m.codes {
		codes = append(codes, key)
	}
	// Deterministic order: sort by the original (un-folded) code, per
	// spec.md §4.E's determinism requirement for provider-native order.
	sortMemoryCodes(m, codes)

	g := m.graph()
	matched := make([]string, 0, len(codes))
	for _, key := range codes {
		code := m.codes[key].Code
		ok := true
		for _, cf := range compiled {
			hit, err := cf.eval(g, code)
			if err != nil {
				return nil, err
			}
			if !hit {
				ok = false
				break
			}
		}
		if ok {
			matched = append(matched, key)
		}
	}
	return &sliceIterator{items: matched}, nil
}

func (m *Memory) FilterLocate(filters []fhir.ConceptSetFilter, code string) (Handle, error) {
	key := m.foldKey(code)
	c, ok := m.codes[key]
	if !ok {
		return "", nil
	}
	g := m.graph()
	for _, f := range filters {
		cf, err := compileFilter(f)
		if err != nil {
			return "", err
		}
		hit, err := cf.eval(g, c.Code)
		if err != nil {
			return "", err
		}
		if !hit {
			return "", nil
		}
	}
	return key, nil
}

func sortMemoryCodes(m *Memory, keys []string) {
	sort.Slice(keys, func(i, j int) bool {
		return m.codes[keys[i]].Code < m.codes[keys[j]].Code
	})
}

type sliceIterator struct {
	items []string
	pos   int
}

func (it *sliceIterator) Next() (Handle, bool) {
	if it.pos >= len(it.items) {
		return "", false
	}
	v := it.items[it.pos]
	it.pos++
	return v, true
}

func (it *sliceIterator) Reset() { it.pos = 0 }

var _ Provider = (*Memory)(nil)
