// Package terminology provides a FHIR terminology server's core
// operations as a library: CodeSystem lookup, ValueSet expansion and
// validation, ConceptMap translation and subsumption testing.
//
// This package is designed from the ground up to leverage Go's strengths:
// concurrency with goroutines, sync.Pool for memory efficiency, generics
// for type-safe caches, and small composable interfaces.
//
// # Quick Start
//
//	import (
//	    tx "github.com/gofhir/terminology"
//	    "github.com/gofhir/terminology/txop"
//	    "github.com/gofhir/terminology/txops"
//	)
//
//	reg := txop.NewMapRegistry()
//	// ... register CodeSystem providers ...
//
//	ctx := txop.AcquireContext()
//	defer ctx.Release()
//
//	result, err := txops.Lookup(reg, nil, txop.PinSet{}, txops.LookupRequest{
//	    System: "http://loinc.org", Code: "1963-8",
//	}, nil, ctx)
//
// # Performance Features
//
//   - Worker Pool: parallel batch lookup using runtime.NumCPU() workers
//   - sync.Pool: pooled per-operation Context reduces GC pressure
//   - Generic Cache: type-safe LRU and sharded resource caches
//   - Streaming-friendly Iterator: ValueSet expansion without materialising
//     the whole expansion when a caller only wants membership testing
//
// # Functional Options
//
//	opts := tx.DefaultOptions()
//	tx.WithExpansionCap(10000)(opts)
//	tx.WithDeadline(5 * time.Second)(opts)
//
// # Operations
//
// Each FHIR terminology operation is one function in package txops,
// composing a pooled txop.Context with the package that owns its
// algorithm:
//
//   - $lookup: CodeSystem concept/property/designation lookup
//   - $validate-code: code validation against a system or value set
//   - $expand / $validate-vs: ValueSet compose expansion and membership
//   - $translate: ConceptMap-driven code translation
//   - $subsumes: hierarchy subsumption testing
//
// # Architecture
//
// The package follows patterns common to production FHIR tooling,
// adapted for Go:
//
//   - Small interfaces for composability
//   - Polymorphic Provider for different CodeSystem content modes
//   - Pooled per-request Context for cancellation and cost accounting
//   - Context-based cancellation and timeout
package terminology
