// Package txop implements spec.md §4.G's operation worker base: a closed
// parameter bag, a pooled per-request Context carrying deadline/cost-cap/
// provenance, version-pin evaluation, and system resolution. Grounded on
// pipeline/context.go's pooled Context (Reset/Release, AddIssue-style
// accumulation) and terminology/memory.go's map[string]*codeSystemData
// registry shape, generalised from "one resource being validated" to
// "one terminology operation in flight".
package txop
