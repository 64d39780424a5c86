package valueset

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"

	"github.com/gofhir/terminology/fhir"
)

// SourceVersion is one (url, version) pair that contributed to an
// expansion, used as part of the deterministic identifier.
type SourceVersion struct {
	URL     string
	Version string
}

// Identifier stamps an expansion with a deterministic identifier derived
// from the ordered list of (url, version) of every source plus the
// effective parameter list, so identical inputs produce identical
// identifiers (spec.md §4.E "Expansion identity"). This is a content
// hash, not a random UUID — DESIGN.md records why pborman/uuid (used
// elsewhere in the pack) is the wrong primitive here.
func Identifier(sources []SourceVersion, params []fhir.ExpansionParameter) string {
	sorted := append([]SourceVersion(nil), sources...)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].URL != sorted[j].URL {
			return sorted[i].URL < sorted[j].URL
		}
		return sorted[i].Version < sorted[j].Version
	})

	sortedParams := append([]fhir.ExpansionParameter(nil), params...)
	sort.Slice(sortedParams, func(i, j int) bool { return sortedParams[i].Name < sortedParams[j].Name })

	var b strings.Builder
	for _, s := range sorted {
		fmt.Fprintf(&b, "src:%s|%s\n", s.URL, s.Version)
	}
	for _, p := range sortedParams {
		fmt.Fprintf(&b, "param:%s=%s\n", p.Name, paramValue(p))
	}

	sum := sha256.Sum256([]byte(b.String()))
	return "urn:uuid:" + hex.EncodeToString(sum[:16])
}

func paramValue(p fhir.ExpansionParameter) string {
	switch {
	case p.ValueBoolean != nil:
		return fmt.Sprintf("%v", *p.ValueBoolean)
	case p.ValueInteger != nil:
		return fmt.Sprintf("%d", *p.ValueInteger)
	case p.ValueCode != "":
		return p.ValueCode
	case p.ValueURI != "":
		return p.ValueURI
	default:
		return p.ValueString
	}
}
