package valueset

import (
	"fmt"

	"github.com/gofhir/terminology/designation"
	"github.com/gofhir/terminology/fhir"
	"github.com/gofhir/terminology/lang"
)

// MembershipResult is the verdict Contains returns: whether the probe is
// in the value set, the resolved display (if the code was found), and a
// display-equality report when the caller supplied a display to check.
type MembershipResult struct {
	InValueSet bool
	Display    string
	DisplayOK  bool
	Difference designation.Difference
	Sources    []SourceVersion
}

// Contains walks the compose rules and short-circuits on the first
// include that accepts (system, code) with no exclude rejecting it,
// per spec.md §4.E's membership-test algorithm — it never materialises
// the full expansion. wantDisplay, if non-empty, is checked against the
// resolved concept's designations using mode.
func (e *Expander) Contains(vs *fhir.ValueSet, system, version, code, wantDisplay string, mode designation.Mode, prefs []lang.Preference, budget *Budget) (*MembershipResult, error) {
	if budget == nil {
		budget = &Budget{}
	}
	budget.MembershipMode = true

	if vs.Compose == nil {
		return &MembershipResult{}, nil
	}

	st := newCompileState(budget, prefs, false)

	included, err := e.probe(vs.Compose.Include, system, version, code, st, budget)
	if err != nil {
		return nil, err
	}
	if !included {
		return &MembershipResult{Sources: sourceList(st)}, nil
	}

	if len(vs.Compose.Exclude) > 0 {
		excluded, err := e.probe(vs.Compose.Exclude, system, version, code, st, budget)
		if err != nil {
			return nil, err
		}
		if excluded {
			return &MembershipResult{Sources: sourceList(st)}, nil
		}
	}

	result := &MembershipResult{InValueSet: true, Sources: sourceList(st)}

	p, resolvedVersion, err := e.Providers(system, version)
	if err != nil {
		return result, nil
	}
	st.recordSource(system, resolvedVersion)
	h, _, err := p.Locate(code)
	if err != nil {
		return nil, err
	}
	if h == "" {
		return result, nil
	}
	result.Display = p.Display(h, prefs)

	if wantDisplay != "" {
		found, diff := p.Designations(h).HasDisplay(wantDisplay, mode)
		result.DisplayOK = found
		result.Difference = diff
	}
	return result, nil
}

func sourceList(st *compileState) []SourceVersion {
	out := make([]SourceVersion, 0, len(st.sources))
	for s := range st.sources {
		out = append(out, s)
	}
	return out
}

// probe reports whether any of comps accepts (system, code), recursing
// into valueSet imports and honoring each rule's own exclude set.
func (e *Expander) probe(comps []fhir.ConceptSetComponent, system, version, code string, st *compileState, budget *Budget) (bool, error) {
	for _, comp := range comps {
		if err := budget.Check("compose.probe"); err != nil {
			return false, err
		}

		for _, url := range comp.ValueSet {
			if st.visitingImports[url] {
				continue
			}
			if e.ValueSets == nil {
				return false, fmt.Errorf("valueset import %q requested but no ValueSetResolver configured", url)
			}
			imported, err := e.ValueSets(url)
			if err != nil {
				return false, err
			}
			st.visitingImports[url] = true
			hit, err := e.containsWithin(imported, system, version, code, st, budget)
			delete(st.visitingImports, url)
			if err != nil {
				return false, err
			}
			if hit {
				return true, nil
			}
		}

		if comp.System == "" || comp.System != system {
			continue
		}
		if comp.Version != "" && version != "" && comp.Version != version {
			continue
		}

		p, resolvedVersion, err := e.Providers(comp.System, comp.Version)
		if err != nil {
			return false, err
		}
		st.recordSource(comp.System, resolvedVersion)

		switch {
		case len(comp.Concept) > 0:
			target, _, err := p.Locate(code)
			if err != nil {
				return false, err
			}
			if target == "" {
				continue
			}
			for _, c := range comp.Concept {
				h, _, err := p.Locate(c.Code)
				if err != nil {
					return false, err
				}
				if h == target {
					return true, nil
				}
			}
		case len(comp.Filter) > 0:
			h, err := p.FilterLocate(comp.Filter, code)
			if err != nil {
				return false, err
			}
			if h != "" {
				return true, nil
			}
		default:
			h, _, err := p.Locate(code)
			if err != nil {
				return false, err
			}
			if h != "" {
				return true, nil
			}
		}
	}
	return false, nil
}

func (e *Expander) containsWithin(vs *fhir.ValueSet, system, version, code string, st *compileState, budget *Budget) (bool, error) {
	if vs.Compose == nil {
		return false, nil
	}
	included, err := e.probe(vs.Compose.Include, system, version, code, st, budget)
	if err != nil || !included {
		return false, err
	}
	if len(vs.Compose.Exclude) > 0 {
		excluded, err := e.probe(vs.Compose.Exclude, system, version, code, st, budget)
		if err != nil {
			return false, err
		}
		if excluded {
			return false, nil
		}
	}
	return true, nil
}
