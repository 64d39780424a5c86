package lang

import "strings"

// Depth is the total order spec.md §4.B defines for tag comparison:
// NONE < LANGUAGE < EXTLANG < SCRIPT < REGION < VARIANT < EXTENSION.
type Depth int

const (
	DepthNone Depth = iota
	DepthLanguage
	DepthExtLang
	DepthScript
	DepthRegion
	DepthVariant
	DepthExtension
)

// Matches returns true iff every component at positions <= depth is
// equal between a and b. ExtLang equality is sequence equality.
func Matches(a, b *Tag, depth Depth) bool {
	if depth >= DepthLanguage && !strings.EqualFold(a.Language, b.Language) {
		return false
	}
	if depth >= DepthExtLang && !extLangEqual(a.ExtLang, b.ExtLang) {
		return false
	}
	if depth >= DepthScript && !strings.EqualFold(a.Script, b.Script) {
		return false
	}
	if depth >= DepthRegion && !strings.EqualFold(a.Region, b.Region) {
		return false
	}
	if depth >= DepthVariant && !strings.EqualFold(a.Variant, b.Variant) {
		return false
	}
	if depth >= DepthExtension && !strings.EqualFold(a.Extension, b.Extension) {
		return false
	}
	return true
}

func extLangEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !strings.EqualFold(a[i], b[i]) {
			return false
		}
	}
	return true
}

// MatchesSimple matches every non-empty component of a (the "left
// operand", typically a requested pattern) against b: components a
// leaves blank are treated as wildcards.
func MatchesSimple(a, b *Tag) bool {
	if a.Language != "" && a.Language != "*" && !strings.EqualFold(a.Language, b.Language) {
		return false
	}
	if len(a.ExtLang) > 0 && !extLangEqual(a.ExtLang, b.ExtLang) {
		return false
	}
	if a.Script != "" && !strings.EqualFold(a.Script, b.Script) {
		return false
	}
	if a.Region != "" && !strings.EqualFold(a.Region, b.Region) {
		return false
	}
	if a.Variant != "" && !strings.EqualFold(a.Variant, b.Variant) {
		return false
	}
	return true
}

// MatchesForDisplay is asymmetric: the receiver (want) matches target
// when it is equal to, or strictly more specific than, target on every
// component target specifies. A blank want matches only "en"/"en-US"
// when anglophoneDefault is true, and matches nothing when it is false
// (spec.md §9 flags this as a configurable Anglophone default).
func MatchesForDisplay(want, target *Tag, anglophoneDefault bool) bool {
	if want == nil || want.Language == "" {
		if !anglophoneDefault {
			return false
		}
		return strings.EqualFold(target.Language, "en") && target.Script == "" && target.Variant == "" &&
			(target.Region == "" || strings.EqualFold(target.Region, "US"))
	}
	if want.IsWildcard() {
		return true
	}
	if !strings.EqualFold(want.Language, target.Language) {
		return false
	}
	if target.Script != "" && !strings.EqualFold(want.Script, target.Script) {
		return false
	}
	if target.Region != "" && !strings.EqualFold(want.Region, target.Region) {
		return false
	}
	if target.Variant != "" && !strings.EqualFold(want.Variant, target.Variant) {
		return false
	}
	return true
}
