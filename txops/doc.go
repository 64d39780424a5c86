// Package txops implements the six terminology operations of spec.md
// §4.I, one file per operation, each composing txop.Context with the
// relevant provider/valueset/conceptmap package. Grounded on
// phase/terminology.go's strength-to-severity downgrade idiom
// (validateBindingValue's required/extensible/preferred mapping) for
// $validate-code's result shaping, and on worker/pool.go/worker/job.go's
// job-fan-out shape (adapted into internal/workerpool) for BatchLookup.
package txops
