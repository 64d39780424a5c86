package valueset

import (
	"fmt"

	"github.com/gofhir/terminology/fhir"
	"github.com/gofhir/terminology/lang"
	"github.com/gofhir/terminology/provider"
	"github.com/gofhir/terminology/txcache"
)

// ProviderResolver looks up the provider backing one code system version,
// pinned per spec.md §4.G's force-system-version/system-version/
// check-system-version precedence (applied by the caller before this
// package ever sees system/version). It returns the resolved version
// string for provenance.
type ProviderResolver func(system, version string) (provider.Provider, string, error)

// ValueSetResolver looks up a ValueSet by canonical URL, for compose's
// `valueSet` import rules.
type ValueSetResolver func(url string) (*fhir.ValueSet, error)

// Expander compiles and evaluates ValueSet.compose per spec.md §4.E.
type Expander struct {
	Providers ProviderResolver
	ValueSets ValueSetResolver

	// Cache memoises Expand results keyed by the requested ValueSet and
	// options, so repeat $expand calls (the same canonical/browser-facing
	// request hitting a large compose rule) skip recompilation. Nil
	// disables memoisation entirely; a ValueSet without a canonical URL
	// is never memoised.
	Cache *txcache.LRU[string, *ExpandResult]
}

// entry is the internal ordered/deduplicated accumulator item; it
// becomes an fhir.ExpansionContains on output.
type entry struct {
	system, version, code, display string
	designations                   []fhir.Designation
	inactive                       bool
}

type compileState struct {
	budget       *Budget
	prefs        []lang.Preference
	includeDesignations bool

	seen    map[string]bool
	ordered []entry
	sources map[SourceVersion]bool
	warnings []string

	visitingImports map[string]bool
}

func newCompileState(budget *Budget, prefs []lang.Preference, includeDesignations bool) *compileState {
	return &compileState{
		budget:          budget,
		prefs:           prefs,
		includeDesignations: includeDesignations,
		seen:            map[string]bool{},
		sources:         map[SourceVersion]bool{},
		visitingImports: map[string]bool{},
	}
}

func (st *compileState) emit(e entry) {
	key := e.system + "|" + e.code
	if st.seen[key] {
		return
	}
	st.seen[key] = true
	st.ordered = append(st.ordered, e)
	st.budget.Emit()
}

func (st *compileState) recordSource(system, version string) {
	st.sources[SourceVersion{URL: system, Version: version}] = true
}

// walkComponent resolves one include/exclude rule, calling emit for every
// code it contributes, per spec.md §4.E steps 1-4. Used both to
// accumulate the positive (include) set and the negative (exclude) set,
// since the traversal rules are identical.
func (e *Expander) walkComponent(comp fhir.ConceptSetComponent, st *compileState, emit func(system, version, code, display string, d []fhir.Designation, inactive bool)) error {
	for _, url := range comp.ValueSet {
		if st.visitingImports[url] {
			continue // cyclic import guard, per spec.md §3's cycle-safety theme
		}
		if e.ValueSets == nil {
			return fmt.Errorf("valueset import %q requested but no ValueSetResolver configured", url)
		}
		imported, err := e.ValueSets(url)
		if err != nil {
			return fmt.Errorf("resolving imported value set %q: %w", url, err)
		}
		st.visitingImports[url] = true
		entries, err := e.compile(imported, st)
		delete(st.visitingImports, url)
		if err != nil {
			return err
		}
		for _, en := range entries {
			emit(en.system, en.version, en.code, en.display, en.designations, en.inactive)
		}
	}

	if comp.System == "" {
		return nil
	}

	p, version, err := e.Providers(comp.System, comp.Version)
	if err != nil {
		return fmt.Errorf("resolving code system %q: %w", comp.System, err)
	}
	st.recordSource(comp.System, version)

	switch {
	case len(comp.Concept) > 0:
		for _, c := range comp.Concept {
			if err := st.budget.Check("compose.include.concept"); err != nil {
				return err
			}
			h, diag, err := p.Locate(c.Code)
			if err != nil {
				return err
			}
			if h == "" {
				if p.ContentMode() == fhir.ContentFragment {
					st.warnings = append(st.warnings, fmt.Sprintf("code %q in %s: %s", c.Code, comp.System, diag))
					continue
				}
				return fmt.Errorf("code %q not found in %s: %s", c.Code, comp.System, diag)
			}
			display := c.Display
			if display == "" {
				display = p.Display(h, st.prefs)
			}
			emit(comp.System, version, p.Code(h), display, designationsFor(st, p, h), isInactive(p, h))
		}

	case len(comp.Filter) > 0:
		it, err := p.Iterator(comp.Filter)
		if err != nil {
			return err
		}
		for {
			if err := st.budget.Check("compose.include.filter"); err != nil {
				return err
			}
			h, ok := it.Next()
			if !ok {
				break
			}
			emit(comp.System, version, p.Code(h), p.Display(h, st.prefs), designationsFor(st, p, h), isInactive(p, h))
		}

	default:
		it, err := p.Iterator(nil)
		if err != nil {
			return err
		}
		for {
			if err := st.budget.Check("compose.include.all"); err != nil {
				return err
			}
			h, ok := it.Next()
			if !ok {
				break
			}
			emit(comp.System, version, p.Code(h), p.Display(h, st.prefs), designationsFor(st, p, h), isInactive(p, h))
		}
	}
	return nil
}

func designationsFor(st *compileState, p provider.Provider, h provider.Handle) []fhir.Designation {
	if !st.includeDesignations {
		return nil
	}
	return p.Designations(h).All()
}

// isInactive reports a concept's "inactive" property, the same property
// txops/lookup.go reads for $lookup's default property set.
func isInactive(p provider.Provider, h provider.Handle) bool {
	val, ok := p.GetProperty(h, "inactive")
	if !ok {
		return false
	}
	return val.Kind == fhir.PropertyBoolean && val.Boolean
}

// compile runs the full five-step algorithm over one ValueSet's compose:
// union every include (recursing into imports), then subtract the union
// of every exclude rule (spec.md §4.E steps 1-5).
func (e *Expander) compile(vs *fhir.ValueSet, outer *compileState) ([]entry, error) {
	if vs.Compose == nil {
		return nil, nil
	}

	inner := newCompileState(outer.budget, outer.prefs, outer.includeDesignations)
	inner.visitingImports = outer.visitingImports

	for _, inc := range vs.Compose.Include {
		err := e.walkComponent(inc, inner, func(system, version, code, display string, d []fhir.Designation, inactive bool) {
			inner.emit(entry{system: system, version: version, code: code, display: display, designations: d, inactive: inactive})
		})
		if err != nil {
			return nil, err
		}
	}

	if len(vs.Compose.Exclude) > 0 {
		excl := newCompileState(outer.budget, outer.prefs, false)
		excl.visitingImports = outer.visitingImports
		for _, ex := range vs.Compose.Exclude {
			err := e.walkComponent(ex, excl, func(system, version, code, display string, d []fhir.Designation, inactive bool) {
				excl.emit(entry{system: system, version: version, code: code})
			})
			if err != nil {
				return nil, err
			}
		}
		filtered := inner.ordered[:0]
		for _, en := range inner.ordered {
			if !excl.seen[en.system+"|"+en.code] {
				filtered = append(filtered, en)
			}
		}
		inner.ordered = filtered
	}

	for src := range inner.sources {
		outer.sources[src] = true
	}
	outer.warnings = append(outer.warnings, inner.warnings...)
	return inner.ordered, nil
}
