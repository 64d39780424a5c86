package txop

import (
	"fmt"
	"sort"

	"github.com/gofhir/terminology/fhir"
	"github.com/gofhir/terminology/provider"
	"github.com/gofhir/terminology/txcache"
)

// Registry resolves a canonical system URL (+ optional version) to a
// built provider. Grounded on terminology/memory.go's
// map[string]*codeSystemData lookup, generalised to carry every known
// version of a system rather than one.
type Registry interface {
	// Versions returns every version known for system, in no particular
	// order. An empty, non-nil slice distinguishes "no versions" from
	// "system unknown" only when combined with Known.
	Versions(system string) []string
	// Known reports whether system is registered at all.
	Known(system string) bool
	// Resolve returns the provider for (system, version). version=""
	// selects the registry's configured default version for system.
	Resolve(system, version string) (provider.Provider, bool)
}

// ErrSystemUnknown means no CodeSystem at all is registered for the URL.
type ErrSystemUnknown struct {
	System string
}

func (e *ErrSystemUnknown) Error() string {
	return fmt.Sprintf("not-found: unknown system %q", e.System)
}

// ErrVersionUnknown means the system is known but not at the requested
// version; Available lists the versions that do exist.
type ErrVersionUnknown struct {
	System    string
	Version   string
	Available []string
}

func (e *ErrVersionUnknown) Error() string {
	sort.Strings(e.Available)
	return fmt.Sprintf("not-found: system %q has no version %q (available: %v)", e.System, e.Version, e.Available)
}

// ErrNoVersionSatisfiesPin means the system and some version are known,
// but no version satisfies the pin evaluated for this request.
type ErrNoVersionSatisfiesPin struct {
	System  string
	Version string
}

func (e *ErrNoVersionSatisfiesPin) Error() string {
	return fmt.Sprintf("not-found: system %q has no version satisfying pin %q", e.System, e.Version)
}

// FindCodeSystem implements spec.md §4.G(4): additional resources are
// searched first (wholesale, by URL — an inline working set that
// contains the system at all is authoritative for it), then the
// provider registry. Two not-found cases are distinguished by error
// type, ErrSystemUnknown and ErrVersionUnknown, so the worker layer can
// map them to the right diagnostic; this function does not return
// ErrNoVersionSatisfiesPin.
func FindCodeSystem(reg Registry, resources []txcache.Resource, system, version string) (provider.Provider, error) {
	var inlineVersions []string
	for _, r := range resources {
		if r.Type != txcache.ResourceCodeSystem || r.CodeSystem == nil || r.CodeSystem.URL != system {
			continue
		}
		inlineVersions = append(inlineVersions, r.CodeSystem.Version)
		if version == "" || r.CodeSystem.Version == version {
			p, err := provider.NewMemory(*r.CodeSystem, nil)
			if err != nil {
				return nil, err
			}
			return p, nil
		}
	}
	if len(inlineVersions) > 0 {
		return nil, &ErrVersionUnknown{System: system, Version: version, Available: inlineVersions}
	}

	if reg == nil || !reg.Known(system) {
		return nil, &ErrSystemUnknown{System: system}
	}
	p, ok := reg.Resolve(system, version)
	if !ok {
		return nil, &ErrVersionUnknown{System: system, Version: version, Available: reg.Versions(system)}
	}
	return p, nil
}

// MapRegistry is a simple in-memory Registry backed by a
// system -> version -> provider map, with an explicit default version
// per system selected at construction time.
type MapRegistry struct {
	providers map[string]map[string]provider.Provider
	defaults  map[string]string
}

// NewMapRegistry builds an empty MapRegistry.
func NewMapRegistry() *MapRegistry {
	return &MapRegistry{
		providers: make(map[string]map[string]provider.Provider),
		defaults:  make(map[string]string),
	}
}

// Register adds p under (system, version), making it the default for
// system if it is the first version registered or asDefault is true.
func (r *MapRegistry) Register(system, version string, p provider.Provider, asDefault bool) {
	versions, ok := r.providers[system]
	if !ok {
		versions = make(map[string]provider.Provider)
		r.providers[system] = versions
	}
	versions[version] = p
	if asDefault || r.defaults[system] == "" {
		r.defaults[system] = version
	}
}

func (r *MapRegistry) Known(system string) bool {
	_, ok := r.providers[system]
	return ok
}

func (r *MapRegistry) Versions(system string) []string {
	versions := r.providers[system]
	out := make([]string, 0, len(versions))
	for v := range versions {
		out = append(out, v)
	}
	return out
}

func (r *MapRegistry) Resolve(system, version string) (provider.Provider, bool) {
	versions, ok := r.providers[system]
	if !ok {
		return nil, false
	}
	if version == "" {
		version = r.defaults[system]
	}
	p, ok := versions[version]
	return p, ok
}

var _ Registry = (*MapRegistry)(nil)

// AllowedContentMode reports whether p's content mode is one of allowed;
// an empty allowed list permits any content mode.
func AllowedContentMode(p provider.Provider, allowed []fhir.ContentMode) bool {
	if len(allowed) == 0 {
		return true
	}
	for _, mode := range allowed {
		if p.ContentMode() == mode {
			return true
		}
	}
	return false
}
