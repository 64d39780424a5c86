package terminology

// FHIRVersion represents a FHIR specification version.
type FHIRVersion string

// Supported FHIR versions.
const (
	// R4 is FHIR Release 4 (4.0.1)
	R4 FHIRVersion = "R4"
	// R4B is FHIR Release 4B (4.3.0)
	R4B FHIRVersion = "R4B"
	// R5 is FHIR Release 5 (5.0.0)
	R5 FHIRVersion = "R5"
)

// String returns the version string.
func (v FHIRVersion) String() string {
	return string(v)
}

// IsValid returns true if this is a supported FHIR version.
func (v FHIRVersion) IsValid() bool {
	switch v {
	case R4, R4B, R5:
		return true
	default:
		return false
	}
}

// versionConfig holds version-specific wire details that change between
// FHIR releases but not the algorithms built on top of them.
type versionConfig struct {
	// TermPackageName/Version is the HL7 terminology package this
	// release's built-in code systems are drawn from.
	TermPackageName    string
	TermPackageVersion string

	// FHIRVersionString is the version string used in resource meta.
	FHIRVersionString string

	// ConceptMapGroupFieldName is the wire name of ConceptMapGroupElementTarget's
	// equivalence field: "equivalence" for R3/R4, "relationship" for R5.
	// conceptmap.ToRelationship/ToEquivalence convert between the two
	// vocabularies so the rest of the package only ever sees
	// fhir.Relationship.
	ConceptMapGroupFieldName string
}

// versionConfigs maps FHIR versions to their configurations.
var versionConfigs = map[FHIRVersion]versionConfig{
	R4: {
		TermPackageName:          "hl7.terminology.r4",
		TermPackageVersion:       "6.2.0",
		FHIRVersionString:        "4.0.1",
		ConceptMapGroupFieldName: "equivalence",
	},
	R4B: {
		TermPackageName:          "hl7.terminology.r4",
		TermPackageVersion:       "6.2.0",
		FHIRVersionString:        "4.3.0",
		ConceptMapGroupFieldName: "equivalence",
	},
	R5: {
		TermPackageName:          "hl7.terminology.r5",
		TermPackageVersion:       "6.2.0",
		FHIRVersionString:        "5.0.0",
		ConceptMapGroupFieldName: "relationship",
	},
}

// getVersionConfig returns the configuration for a FHIR version.
func getVersionConfig(v FHIRVersion) (versionConfig, bool) {
	cfg, ok := versionConfigs[v]
	return cfg, ok
}

// UsesRelationshipField returns true if this FHIR version's ConceptMap
// wire format names the mapping strength field "relationship" (R5)
// rather than "equivalence" (R3/R4).
func (v FHIRVersion) UsesRelationshipField() bool {
	cfg, ok := getVersionConfig(v)
	return ok && cfg.ConceptMapGroupFieldName == "relationship"
}
