package txops

import (
	"fmt"

	"github.com/gofhir/terminology/fhir"
	"github.com/gofhir/terminology/lang"
	"github.com/gofhir/terminology/txcache"
	"github.com/gofhir/terminology/txop"
)

// defaultLookupProperties is the property set returned when the caller
// names no property or names "*", per spec.md §4.I's "$lookup" contract.
// A concept that carries no "inactive" property is reported as
// inactive=false.
var defaultLookupProperties = []string{"inactive"}

// ErrCodeNotFound is the not-found case for a single code lookup.
type ErrCodeNotFound struct {
	System     string
	Code       string
	Diagnostic string
}

func (e *ErrCodeNotFound) Error() string {
	return fmt.Sprintf("not-found: %s#%s: %s", e.System, e.Code, e.Diagnostic)
}

// PropertyResult is one returned property part.
type PropertyResult struct {
	Code  string
	Value fhir.PropertyValue
}

// LookupRequest is $lookup's recognised input set.
type LookupRequest struct {
	System     string
	Version    string
	Code       string
	Properties []string // empty means the default set; "*" is treated as the default set too, since the provider interface exposes no property enumeration
}

// LookupResult is shaped directly into the Parameters response by the
// transport layer: name, display, and one property part per property.
type LookupResult struct {
	System      string
	Version     string
	Display     string
	Designations []fhir.Designation
	Properties  []PropertyResult
}

// Lookup implements $lookup: resolve the system/version (honouring
// pins), locate the code, and resolve its display and requested
// properties.
func Lookup(reg txop.Registry, resources []txcache.Resource, pins txop.PinSet, req LookupRequest, prefs []lang.Preference, ctx *txop.Context) (*LookupResult, error) {
	version, err := pins.Resolve(req.System, req.Version, ctx)
	if err != nil {
		return nil, err
	}

	p, err := txop.FindCodeSystem(reg, resources, req.System, version)
	if err != nil {
		return nil, err
	}
	ctx.RecordUsed(txop.Used{System: req.System, Version: p.Version(), Reason: "resolved"})

	h, diag, err := p.Locate(req.Code)
	if err != nil {
		return nil, err
	}
	if h == "" {
		return nil, &ErrCodeNotFound{System: req.System, Code: req.Code, Diagnostic: diag}
	}

	result := &LookupResult{
		System:  req.System,
		Version: p.Version(),
		Display: p.Display(h, prefs),
	}
	if store := p.Designations(h); store != nil {
		result.Designations = store.All()
	}

	wantAll := false
	props := req.Properties
	if len(props) == 0 {
		props = defaultLookupProperties
	}
	seen := map[string]bool{}
	add := func(code string) {
		if val, ok := p.GetProperty(h, code); ok {
			result.Properties = append(result.Properties, PropertyResult{Code: code, Value: val})
		} else if code == "inactive" {
			result.Properties = append(result.Properties, PropertyResult{Code: code, Value: fhir.PropertyValue{Kind: fhir.PropertyBoolean}})
		}
	}
	for _, code := range props {
		if code == "*" {
			wantAll = true
			continue
		}
		if seen[code] {
			continue
		}
		seen[code] = true
		add(code)
	}
	if wantAll {
		for _, code := range defaultLookupProperties {
			if seen[code] {
				continue
			}
			add(code)
		}
	}

	return result, nil
}
