// Package conceptmap implements the ConceptMap cross-walk algorithm of
// spec.md §4.F: given a source coding and a target scope, find every
// group whose source/target canonical references match and return the
// targets their elements declare. Grounded on the translate-request
// shape of api-internal-platform-fhir's ConceptMapTranslator
// (source/target system pairs keyed by URL, one Mappings table per map),
// generalised from a flat code->target map to full FHIR group/element
// structure with version-pattern scope matching.
package conceptmap

import (
	"strings"

	"github.com/gofhir/terminology/fhir"
	"github.com/gofhir/terminology/semver"
)

// TargetScope narrows which groups a translation considers: System may be
// empty to accept any target system; Version, if given, is matched as a
// pattern against each candidate group's TargetVersion.
type TargetScope struct {
	System  string
	Version string
}

// Match is one (targetSystem, targetCode, targetDisplay, relationship,
// comment) result; System and Version are the target system and target
// version of the group that produced it.
type Match struct {
	System       string
	Version      string
	Code         string
	Display      string
	Relationship fhir.Relationship
	Comment      string
}

// Translate finds every group in cm whose source scope matches
// (sourceSystem, sourceVersion) and whose target scope matches scope,
// then scans each such group's elements for code == sourceCode
// (case-sensitivity per caseSensitive, the source system's own rule),
// emitting every target it maps to, per spec.md §4.F's directional
// algorithm.
func Translate(cm *fhir.ConceptMap, sourceSystem, sourceVersion, sourceCode string, caseSensitive bool, scope TargetScope, algorithm semver.Algorithm) []Match {
	var matches []Match
	for _, group := range cm.Group {
		if group.Source != sourceSystem {
			continue
		}
		if sourceVersion != "" && group.SourceVersion != "" && !semver.VersionMatches(sourceVersion, group.SourceVersion, algorithm) {
			continue
		}
		if scope.System != "" && group.Target != scope.System {
			continue
		}
		if scope.Version != "" && group.TargetVersion != "" && !semver.VersionMatches(scope.Version, group.TargetVersion, algorithm) {
			continue
		}

		for _, el := range group.Element {
			if !codeEquals(el.Code, sourceCode, caseSensitive) {
				continue
			}
			for _, t := range el.Target {
				matches = append(matches, Match{
					System:       group.Target,
					Version:      group.TargetVersion,
					Code:         t.Code,
					Display:      t.Display,
					Relationship: t.Relationship,
					Comment:      t.Comment,
				})
			}
		}
	}
	return matches
}

func codeEquals(a, b string, caseSensitive bool) bool {
	if caseSensitive {
		return a == b
	}
	return strings.EqualFold(a, b)
}
