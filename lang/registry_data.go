package lang

import _ "embed"

// DefaultRegistryText is a representative subset of the IETF language
// subtag registry, in its native %%-delimited format, embedded the way
// specs/embed.go embeds FHIR spec JSON: a single read-only asset baked
// into the binary, loaded once at process start via LoadRegistry.
//
// A production deployment would embed the full registry published at
// https://www.iana.org/assignments/language-subtag-registry; this subset
// covers the tags exercised by the built-in CodeSystem/ValueSet bootstrap
// data and by the test suite.
//
//go:embed registry_data.txt
var DefaultRegistryText string
