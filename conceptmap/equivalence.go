package conceptmap

import "github.com/gofhir/terminology/fhir"

// Equivalence is the pre-R5 ConceptMap.element.target.equivalence
// vocabulary (R3/R4 wire form); spec.md §4.F's fixed table maps it onto
// R5's relationship, which is what fhir.ConceptMap stores internally.
type Equivalence string

const (
	EquivEqual       Equivalence = "equal"
	EquivEquivalent  Equivalence = "equivalent"
	EquivWider       Equivalence = "wider"
	EquivSubsumes    Equivalence = "subsumes"
	EquivNarrower    Equivalence = "narrower"
	EquivSpecializes Equivalence = "specializes"
	EquivInexact     Equivalence = "inexact"
	EquivUnmatched   Equivalence = "unmatched"
	EquivDisjoint    Equivalence = "disjoint"
	EquivRelatedTo   Equivalence = "relatedto"
)

// equivalenceToRelationship is the fixed table spec.md §4.F names:
// equivalent<->equivalent, wider/subsumes<->source-is-broader-than-target,
// narrower/specializes<->source-is-narrower-than-target,
// relatedto<->related-to, inexact/unmatched/disjoint<->not-related-to,
// equal<->equivalent.
var equivalenceToRelationship = map[Equivalence]fhir.Relationship{
	EquivEqual:       fhir.Equivalent,
	EquivEquivalent:  fhir.Equivalent,
	EquivWider:       fhir.SourceIsBroaderThanTarget,
	EquivSubsumes:    fhir.SourceIsBroaderThanTarget,
	EquivNarrower:    fhir.SourceIsNarrowerThanTarget,
	EquivSpecializes: fhir.SourceIsNarrowerThanTarget,
	EquivRelatedTo:   fhir.RelatedTo,
	EquivInexact:     fhir.NotRelatedTo,
	EquivUnmatched:   fhir.NotRelatedTo,
	EquivDisjoint:    fhir.NotRelatedTo,
}

// relationshipToEquivalence is the reverse mapping, used when serialising
// a translation onto the R3/R4 wire form. Each relationship has exactly
// one canonical equivalence, chosen as the first-named alternative in
// spec.md's table (wider over subsumes, narrower over specializes,
// unmatched over inexact/disjoint).
var relationshipToEquivalence = map[fhir.Relationship]Equivalence{
	fhir.Equivalent:                 EquivEquivalent,
	fhir.SourceIsBroaderThanTarget:  EquivWider,
	fhir.SourceIsNarrowerThanTarget: EquivNarrower,
	fhir.RelatedTo:                  EquivRelatedTo,
	fhir.NotRelatedTo:               EquivUnmatched,
}

// ToRelationship converts a wire-form equivalence to the internal
// relationship. The zero value and any unrecognised equivalence map to
// NotRelatedTo, since an unrecognised equivalence carries no positive
// relationship claim.
func ToRelationship(e Equivalence) fhir.Relationship {
	if r, ok := equivalenceToRelationship[e]; ok {
		return r
	}
	return fhir.NotRelatedTo
}

// ToEquivalence converts an internal relationship to its canonical
// wire-form equivalence.
func ToEquivalence(r fhir.Relationship) Equivalence {
	if e, ok := relationshipToEquivalence[r]; ok {
		return e
	}
	return EquivUnmatched
}
