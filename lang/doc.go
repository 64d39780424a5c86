// Package lang implements the BCP-47 language registry and matching engine
// from spec.md §4.B: loading the IETF subtag registry text format, parsing
// tags against a loaded registry, graded-depth matching, preference-list
// parsing, and display rendering.
//
// There is no ecosystem dependency in the retrieved corpus for this format
// (it is IETF's own record format, not JSON/YAML/TOML); the registry
// loader below is a plain line scanner in the same style
// terminology/loader.go uses for FHIR bundle files: read, split into
// records, accumulate into typed tables, fail fast on structural errors.
package lang
