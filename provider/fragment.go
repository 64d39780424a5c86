package provider

import (
	"fmt"

	"github.com/gofhir/terminology/fhir"
	"github.com/gofhir/terminology/lang"
)

// Fragment is a Memory-backed provider that reports content=fragment and
// turns an unknown-code miss into a diagnostic that names the content as
// incomplete, so downstream validation can degrade to a warning instead
// of an error (spec.md §4.D, §7's "partial success" policy).
type Fragment struct {
	*Memory
}

// NewFragment builds a Fragment provider over a partial CodeSystem.
func NewFragment(cs fhir.CodeSystem, registry *lang.Registry) (*Fragment, error) {
	cs.ContentMode = fhir.ContentFragment
	m, err := NewMemory(cs, registry)
	if err != nil {
		return nil, err
	}
	return &Fragment{Memory: m}, nil
}

func (f *Fragment) Locate(code string) (Handle, string, error) {
	h, diag, err := f.Memory.Locate(code)
	if err != nil || h != "" {
		return h, diag, err
	}
	return "", fmt.Sprintf("code %q not found in fragment %s; this system's content is incomplete, so absence is not conclusive", code, f.system), nil
}

var _ Provider = (*Fragment)(nil)
