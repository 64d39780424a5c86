// Package semver implements the version utilities spec.md §4.A describes:
// canonical URL splitting and the three version-match algorithms
// (semver, natural, alphabetical) terminology resources use to pin a
// system or value-set version. It is pure and side-effect-free.
package semver

import (
	"strconv"
	"strings"
)

// Algorithm selects the comparison rule VersionMatches applies.
type Algorithm string

const (
	Semver       Algorithm = "semver"
	Natural      Algorithm = "natural"
	Alphabetical Algorithm = "alphabetical"
)

// SplitCanonical splits a canonical URL of the form "url|version" into its
// two halves on the first '|'. The version half is "" when absent.
func SplitCanonical(s string) (url, version string) {
	if i := strings.IndexByte(s, '|'); i >= 0 {
		return s[:i], s[i+1:]
	}
	return s, ""
}

// JoinCanonical is the inverse of SplitCanonical.
func JoinCanonical(url, version string) string {
	if version == "" {
		return url
	}
	return url + "|" + version
}

// IsSemVer reports whether s parses as major[.minor[.patch[-pre][+build]]]
// with all-numeric major/minor/patch segments.
func IsSemVer(s string) bool {
	core := s
	if i := strings.IndexByte(core, '+'); i >= 0 {
		core = core[:i]
	}
	if i := strings.IndexByte(core, '-'); i >= 0 {
		core = core[:i]
	}
	if core == "" {
		return false
	}
	segs := strings.Split(core, ".")
	if len(segs) == 0 || len(segs) > 3 {
		return false
	}
	for _, seg := range segs {
		if seg == "" {
			return false
		}
		if _, err := strconv.Atoi(seg); err != nil {
			return false
		}
	}
	return true
}

// IsThisOrLater reports whether a >= b under semver ordering. Non-numeric
// segments compare lexicographically as a last resort, so this remains
// total even for inputs that fail IsSemVer.
func IsThisOrLater(a, b string) bool {
	return compareVersions(a, b) >= 0
}

// compareVersions returns -1, 0, 1 comparing dotted version strings
// segment by segment, numeric-aware.
func compareVersions(a, b string) int {
	aSegs := strings.Split(stripBuildAndPre(a), ".")
	bSegs := strings.Split(stripBuildAndPre(b), ".")
	n := len(aSegs)
	if len(bSegs) > n {
		n = len(bSegs)
	}
	for i := 0; i < n; i++ {
		var as, bs string
		if i < len(aSegs) {
			as = aSegs[i]
		}
		if i < len(bSegs) {
			bs = bSegs[i]
		}
		if as == bs {
			continue
		}
		ai, aerr := strconv.Atoi(as)
		bi, berr := strconv.Atoi(bs)
		if aerr == nil && berr == nil {
			if ai != bi {
				if ai < bi {
					return -1
				}
				return 1
			}
			continue
		}
		if as < bs {
			return -1
		}
		return 1
	}
	return 0
}

func stripBuildAndPre(s string) string {
	if i := strings.IndexByte(s, '+'); i >= 0 {
		s = s[:i]
	}
	if i := strings.IndexByte(s, '-'); i >= 0 {
		s = s[:i]
	}
	return s
}

// VersionMatches reports whether actual satisfies pattern under the named
// algorithm. pattern may contain a trailing "?" meaning prefix-match within
// the major or minor segment, and wildcard segments "x"/"X"/"*" that match
// any value. Trailing pattern segments that are altogether absent (e.g.
// pattern "1.2" against actual "1.2.7") match anything in that position.
func VersionMatches(pattern, actual string, algorithm Algorithm) bool {
	if pattern == actual {
		return true
	}
	switch algorithm {
	case Natural, Alphabetical:
		return naturalOrAlphabeticalMatch(pattern, actual)
	case Semver, "":
		return semverMatch(pattern, actual)
	default:
		return semverMatch(pattern, actual)
	}
}

func naturalOrAlphabeticalMatch(pattern, actual string) bool {
	prefix := strings.HasSuffix(pattern, "?")
	p := strings.TrimSuffix(pattern, "?")
	if prefix {
		return strings.HasPrefix(actual, p)
	}
	return p == actual
}

func semverMatch(pattern, actual string) bool {
	prefixRule := strings.HasSuffix(pattern, "?")
	p := strings.TrimSuffix(pattern, "?")

	pSegs := strings.Split(p, ".")
	aSegs := strings.Split(actual, ".")

	if prefixRule {
		// "?" means prefix-match within major or minor: compare only the
		// segments the pattern specifies, and the last specified segment
		// may itself be a string prefix of the actual segment.
		for i, ps := range pSegs {
			if i >= len(aSegs) {
				return false
			}
			as := aSegs[i]
			if isWildcardSegment(ps) {
				continue
			}
			if i == len(pSegs)-1 {
				if !strings.HasPrefix(as, ps) {
					return false
				}
				continue
			}
			if ps != as {
				return false
			}
		}
		return true
	}

	for i, ps := range pSegs {
		if isWildcardSegment(ps) {
			continue
		}
		if i >= len(aSegs) {
			return false
		}
		if ps != aSegs[i] {
			return false
		}
	}
	// Segments present in pattern beyond len(aSegs) with no wildcard
	// already returned false above; segments present in actual but not in
	// pattern are trailing and match anything per spec.md §4.A.
	return true
}

func isWildcardSegment(s string) bool {
	return s == "x" || s == "X" || s == "*"
}
