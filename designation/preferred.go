package designation

import (
	"github.com/gofhir/terminology/fhir"
	"github.com/gofhir/terminology/lang"
)

// Preferred implements the preferred-designation algorithm of spec.md
// §4.C: for each language in prefs, descending quality (skipping quality
// 0, "forbidden"), try FULL (language+script+region+variant), then
// LANG_REGION, then LANG; the first tier with any match wins, and within
// that tier a "display"-and-"preferred" designation wins over a plain
// "display", which wins over the first raw match. If prefs is empty,
// fall back to the first display, else the first preferred, else the
// first designation. If prefs is non-empty and no language-qualified
// designation matches, Preferred returns nil.
func (s *Store) Preferred(prefs []lang.Preference) *fhir.Designation {
	active := s.activeOnly()
	if len(active) == 0 {
		return nil
	}

	if len(prefs) == 0 {
		for i := range active {
			if s.isDisplay(active[i]) {
				return &active[i]
			}
		}
		for i := range active {
			if isPreferred(active[i]) {
				return &active[i]
			}
		}
		return &active[0]
	}

	for _, pref := range prefs {
		if pref.Quality <= 0 {
			continue
		}
		if pref.Tag != nil && pref.Tag.IsWildcard() {
			if d := s.fallbackAny(active); d != nil {
				return d
			}
			continue
		}
		if d := s.tryTier(active, pref.Tag, tierFull); d != nil {
			return d
		}
		if d := s.tryTier(active, pref.Tag, tierLangRegion); d != nil {
			return d
		}
		if d := s.tryTier(active, pref.Tag, tierLang); d != nil {
			return d
		}
	}

	return nil
}

type tier int

const (
	tierFull tier = iota
	tierLangRegion
	tierLang
)

func (s *Store) tryTier(active []fhir.Designation, want *lang.Tag, tr tier) *fhir.Designation {
	var matches []fhir.Designation
	for _, d := range active {
		if d.Language == "" {
			continue
		}
		dtag, err := s.registry.Parse(d.Language)
		if err != nil {
			continue
		}
		if tierMatch(want, dtag, tr) {
			matches = append(matches, d)
		}
	}
	if len(matches) == 0 {
		return nil
	}
	for i := range matches {
		if s.isDisplay(matches[i]) && isPreferred(matches[i]) {
			return &matches[i]
		}
	}
	for i := range matches {
		if s.isDisplay(matches[i]) {
			return &matches[i]
		}
	}
	return &matches[0]
}

func tierMatch(want, candidate *lang.Tag, tr tier) bool {
	switch tr {
	case tierFull:
		return lang.Matches(want, candidate, lang.DepthVariant)
	case tierLangRegion:
		return want.Language == candidate.Language && want.Region == candidate.Region
	case tierLang:
		return lang.Matches(want, candidate, lang.DepthLanguage)
	default:
		return false
	}
}

func (s *Store) fallbackAny(active []fhir.Designation) *fhir.Designation {
	for i := range active {
		if s.isDisplay(active[i]) && isPreferred(active[i]) {
			return &active[i]
		}
	}
	for i := range active {
		if s.isDisplay(active[i]) {
			return &active[i]
		}
	}
	if len(active) > 0 {
		return &active[0]
	}
	return nil
}
