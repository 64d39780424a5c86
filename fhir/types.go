// Package fhir holds the internal, version-agnostic shapes this server
// operates on. Every terminology resource is modelled here in its R5 form;
// wire-format conversion for R3/R4/R5 bodies happens outside the core (see
// SPEC_FULL.md §6) and never touches these types directly.
package fhir

// ContentMode is a CodeSystem's completeness declaration.
type ContentMode string

const (
	ContentComplete  ContentMode = "complete"
	ContentNotPresent ContentMode = "not-present"
	ContentExample   ContentMode = "example"
	ContentFragment  ContentMode = "fragment"
	ContentSupplement ContentMode = "supplement"
)

// DesignationStatus is the lifecycle flag carried on a Designation.
type DesignationStatus string

const (
	StatusActive     DesignationStatus = "active"
	StatusInactive   DesignationStatus = "inactive"
	StatusWithdrawn  DesignationStatus = "withdrawn"
	StatusUnknown    DesignationStatus = "unknown"
)

// Coding is a single code from a system, the wire-level unit every
// operation accepts or returns.
type Coding struct {
	System  string
	Version string
	Code    string
	Display string
}

// CodeableConcept is a set of Codings plus free text, as FHIR defines it.
type CodeableConcept struct {
	Coding []Coding
	Text   string
}

// Extension is a minimal carrier for the handful of extensions the core
// reads (designation extensions, compose default-parameter extension).
// Value is left untyed on purpose: the core never interprets unrecognised
// extensions, it only ever round-trips them.
type Extension struct {
	URL   string
	Value any
}

// Designation is one (language, use, value) triple attached to a concept.
type Designation struct {
	Language   string // BCP-47 tag, empty if unspecified
	Use        *Coding
	Status     DesignationStatus
	Value      string
	Extensions []Extension
}

// PropertyKind distinguishes the typed property value shapes FHIR allows.
type PropertyKind string

const (
	PropertyCode    PropertyKind = "code"
	PropertyCoding  PropertyKind = "Coding"
	PropertyString  PropertyKind = "string"
	PropertyInteger PropertyKind = "integer"
	PropertyBoolean PropertyKind = "boolean"
	PropertyDateTime PropertyKind = "dateTime"
	PropertyDecimal PropertyKind = "decimal"
)

// PropertyValue is a typed value attached to a concept or a designation.
type PropertyValue struct {
	Code    string
	Kind    PropertyKind
	String  string
	Integer int64
	Boolean bool
	Decimal string // kept as text; shopspring/decimal parses lazily at use site
	Coding  *Coding
}

// PropertyDefinition declares a property's code, URI, and kind at the
// CodeSystem level, matching CodeSystem.property.
type PropertyDefinition struct {
	Code        string
	URI         string
	Description string
	Kind        PropertyKind
}

// ConceptProperty attaches a concrete value to a property on one concept.
type ConceptProperty struct {
	Code  string // refers to PropertyDefinition.Code
	Value PropertyValue
}

// Concept is one entry in a CodeSystem: a code, an optional display, its
// designations, its typed properties, and nested child concepts (the
// "hierarchy by nesting" form described in SPEC_FULL.md §3/spec.md §3).
type Concept struct {
	Code        string
	Display     string
	Designation []Designation
	Property    []ConceptProperty
	Concept     []Concept
}

// CodeSystem is the internal R5-shaped CodeSystem resource.
type CodeSystem struct {
	ID            string
	URL           string
	Version       string
	Name          string
	ContentMode   ContentMode
	CaseSensitive bool // default true per FHIR; false means fold on lookup
	VersionAlgorithm string // "semver" | "natural" | "alphabetical" | "" (default semver)
	Supplements   []string // canonical URLs of CodeSystem.supplements this system declares
	Property      []PropertyDefinition
	Concept       []Concept
}

// ConceptSetFilter is one compose.include.filter entry.
type ConceptSetFilter struct {
	Property string
	Op       FilterOperator
	Value    string
}

// FilterOperator enumerates the filter operators spec.md §4.D requires.
type FilterOperator string

const (
	FilterEquals       FilterOperator = "="
	FilterIsA          FilterOperator = "is-a"
	FilterIsNotA       FilterOperator = "is-not-a"
	FilterDescendentOf FilterOperator = "descendent-of"
	FilterRegex        FilterOperator = "regex"
	FilterIn           FilterOperator = "in"
	FilterNotIn        FilterOperator = "not-in"
	FilterExists       FilterOperator = "exists"
	FilterGeneralizes  FilterOperator = "generalizes"
)

// ConceptReference is a compose.include.concept entry: a concrete code
// plus an optional display override and designations.
type ConceptReference struct {
	Code        string
	Display     string
	Designation []Designation
}

// ConceptSetComponent is one compose.include or compose.exclude entry.
type ConceptSetComponent struct {
	System     string
	Version    string
	Concept    []ConceptReference
	Filter     []ConceptSetFilter
	ValueSet   []string // imported ValueSet canonical URLs
}

// Compose is ValueSet.compose.
type Compose struct {
	LockedDate     string
	Inactive       bool
	Include        []ConceptSetComponent
	Exclude        []ConceptSetComponent
	// DefaultParameters is the extension-carried default expansion
	// parameter set described in spec.md §4.E ("Embedded parameters").
	DefaultParameters []ExpansionParameter
}

// ExpansionParameter is one ValueSet.expansion.parameter / embedded
// default-parameter entry: a name plus exactly one typed value.
type ExpansionParameter struct {
	Name    string
	ValueString string
	ValueBoolean *bool
	ValueInteger *int64
	ValueCode   string
	ValueURI    string
}

// ExpansionContains is one entry of ValueSet.expansion.contains.
type ExpansionContains struct {
	System     string
	Version    string
	Code       string
	Display    string
	Inactive   bool
	Abstract   bool
	Designation []Designation
	Contains   []ExpansionContains // nested hierarchy, when requested
}

// Expansion is ValueSet.expansion.
type Expansion struct {
	Identifier string
	Timestamp  string
	Total      int
	Offset     int
	Parameter  []ExpansionParameter
	Contains   []ExpansionContains
}

// ValueSet is the internal R5-shaped ValueSet resource.
type ValueSet struct {
	ID        string
	URL       string
	Version   string
	Name      string
	Language  string // ValueSet.language, used as a language-preference fallback
	VersionAlgorithm string
	Compose   *Compose
	Expansion *Expansion
}

// Relationship is the R5 ConceptMap relationship vocabulary; spec.md §4.F's
// fixed table translates R3/R4 equivalence onto this set.
type Relationship string

const (
	RelatedTo           Relationship = "related-to"
	Equivalent           Relationship = "equivalent"
	SourceIsNarrowerThanTarget Relationship = "source-is-narrower-than-target"
	SourceIsBroaderThanTarget  Relationship = "source-is-broader-than-target"
	NotRelatedTo         Relationship = "not-related-to"
)

// TargetElement is one ConceptMap.group.element.target entry.
type TargetElement struct {
	Code         string
	Display      string
	Relationship Relationship
	Comment      string
}

// SourceElement is one ConceptMap.group.element entry.
type SourceElement struct {
	Code    string
	Display string
	Target  []TargetElement
}

// ConceptMapGroup is one ConceptMap.group entry.
type ConceptMapGroup struct {
	Source        string
	SourceVersion string
	Target        string
	TargetVersion string
	Element       []SourceElement
}

// ConceptMap is the internal R5-shaped ConceptMap resource.
type ConceptMap struct {
	ID      string
	URL     string
	Version string
	Name    string
	Group   []ConceptMapGroup
}

// IssueSeverity mirrors OperationOutcome.issue.severity.
type IssueSeverity string

const (
	SeverityFatal       IssueSeverity = "fatal"
	SeverityError       IssueSeverity = "error"
	SeverityWarning     IssueSeverity = "warning"
	SeverityInformation IssueSeverity = "information"
)

// Parameter is one Parameters.parameter entry, used both for request
// decoding and for response shaping (e.g. the "used" provenance trail).
type Parameter struct {
	Name  string
	Value string
	Part  []Parameter
}

// Parameters is the generic FHIR Parameters resource.
type Parameters struct {
	Parameter []Parameter
}
