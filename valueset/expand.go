package valueset

import (
	"fmt"
	"sort"
	"strings"

	"github.com/gofhir/terminology/fhir"
	"github.com/gofhir/terminology/lang"
)

// ExpandOptions controls how Expand renders its result.
type ExpandOptions struct {
	Count               int // 0 means unlimited
	Offset              int
	IncludeDesignations bool
	ActiveOnly          bool
	TextFilter          string // matched against display, case-insensitive substring
	Parameters          []fhir.ExpansionParameter
}

// ExpandResult is the materialised expansion plus the provenance and
// warnings the caller folds into the response's `used` list.
type ExpandResult struct {
	Expansion *fhir.Expansion
	Sources   []SourceVersion
	Warnings  []string
}

// Expand compiles vs.Compose into an ordered, deduplicated
// fhir.Expansion, per spec.md §4.E. Embedded compose.DefaultParameters
// are merged in before opts (opts always wins), matching the "merged
// before operation-level overrides, never after" rule.
func (e *Expander) Expand(vs *fhir.ValueSet, prefs []lang.Preference, opts ExpandOptions, budget *Budget) (*ExpandResult, error) {
	key := ""
	if e.Cache != nil && vs.URL != "" {
		key = expandCacheKey(vs, prefs, opts)
		if cached, ok := e.Cache.Get(key); ok {
			return cached, nil
		}
	}

	result, err := e.expand(vs, prefs, opts, budget)
	if err != nil {
		return nil, err
	}

	if e.Cache != nil && vs.URL != "" {
		e.Cache.Set(key, result)
	}
	return result, nil
}

// expandCacheKey builds a deterministic memoisation key from everything
// that affects Expand's output: the target ValueSet's canonical
// identity, the rendering options, and the caller's language
// preferences (which affect display/designation selection).
func expandCacheKey(vs *fhir.ValueSet, prefs []lang.Preference, opts ExpandOptions) string {
	var b strings.Builder
	fmt.Fprintf(&b, "vs:%s|%s\n", vs.URL, vs.Version)
	fmt.Fprintf(&b, "opts:%d|%d|%t|%t|%s\n", opts.Count, opts.Offset, opts.ActiveOnly, opts.IncludeDesignations, opts.TextFilter)

	params := append([]fhir.ExpansionParameter(nil), opts.Parameters...)
	sort.Slice(params, func(i, j int) bool { return params[i].Name < params[j].Name })
	for _, p := range params {
		fmt.Fprintf(&b, "param:%s=%s\n", p.Name, paramValue(p))
	}

	tags := make([]string, len(prefs))
	for i, p := range prefs {
		tags[i] = fmt.Sprintf("%s;q=%g", p.Tag.String(), p.Quality)
	}
	sort.Strings(tags)
	for _, t := range tags {
		fmt.Fprintf(&b, "lang:%s\n", t)
	}

	return b.String()
}

// expand is Expand's uncached core.
func (e *Expander) expand(vs *fhir.ValueSet, prefs []lang.Preference, opts ExpandOptions, budget *Budget) (*ExpandResult, error) {
	st := newCompileState(budget, prefs, opts.IncludeDesignations)

	entries, err := e.compile(vs, st)
	if err != nil {
		return nil, err
	}

	if opts.ActiveOnly {
		entries = filterActive(entries)
	}

	if opts.TextFilter != "" {
		entries = filterByText(entries, opts.TextFilter)
	}

	total := len(entries)
	entries = page(entries, opts.Offset, opts.Count)

	contains := make([]fhir.ExpansionContains, 0, len(entries))
	for _, en := range entries {
		contains = append(contains, fhir.ExpansionContains{
			System:      en.system,
			Version:     en.version,
			Code:        en.code,
			Display:     en.display,
			Designation: en.designations,
			Inactive:    en.inactive,
		})
	}

	sources := make([]SourceVersion, 0, len(st.sources))
	for s := range st.sources {
		sources = append(sources, s)
	}

	params := mergeParameters(vs, opts.Parameters)

	return &ExpandResult{
		Expansion: &fhir.Expansion{
			Identifier: Identifier(sources, params),
			Total:      total,
			Offset:     opts.Offset,
			Parameter:  params,
			Contains:   contains,
		},
		Sources:  sources,
		Warnings: st.warnings,
	}, nil
}

func mergeParameters(vs *fhir.ValueSet, opParams []fhir.ExpansionParameter) []fhir.ExpansionParameter {
	var defaults []fhir.ExpansionParameter
	if vs.Compose != nil {
		defaults = vs.Compose.DefaultParameters
	}
	merged := map[string]fhir.ExpansionParameter{}
	for _, p := range defaults {
		merged[p.Name] = p
	}
	for _, p := range opParams {
		merged[p.Name] = p
	}
	out := make([]fhir.ExpansionParameter, 0, len(merged))
	for _, p := range merged {
		out = append(out, p)
	}
	return out
}

// filterActive drops inactive concepts, per $expand's activeOnly
// parameter (spec.md §4.I).
func filterActive(entries []entry) []entry {
	out := entries[:0]
	for _, en := range entries {
		if !en.inactive {
			out = append(out, en)
		}
	}
	return out
}

func filterByText(entries []entry, text string) []entry {
	lower := strings.ToLower(text)
	out := entries[:0]
	for _, en := range entries {
		if strings.Contains(strings.ToLower(en.display), lower) {
			out = append(out, en)
		}
	}
	return out
}

func page(entries []entry, offset, count int) []entry {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(entries) {
		return nil
	}
	entries = entries[offset:]
	if count > 0 && count < len(entries) {
		entries = entries[:count]
	}
	return entries
}
