package txops

import (
	"fmt"

	"github.com/gofhir/terminology/designation"
	"github.com/gofhir/terminology/fhir"
	"github.com/gofhir/terminology/lang"
	"github.com/gofhir/terminology/txop"
	"github.com/gofhir/terminology/valueset"
)

// ValidateVSRequest is $validate-code (ValueSet form)'s input set.
type ValidateVSRequest struct {
	URL      string
	ValueSet *fhir.ValueSet
	System   string
	Version  string
	Code     string
	Display  string
	Mode     designation.Mode
}

// ValidateVS checks membership of (system, code) in a ValueSet via the
// short-circuiting Contains path rather than a full expansion, per
// spec.md §4.I's "as $validate-code but against a ValueSet".
func ValidateVS(expander *valueset.Expander, resolver valueset.ValueSetResolver, req ValidateVSRequest, prefs []lang.Preference, ctx *txop.Context) (*ValidateCodeResult, error) {
	vs := req.ValueSet
	if vs == nil {
		if resolver == nil {
			return nil, fmt.Errorf("not-found: no ValueSet resolver configured for %q", req.URL)
		}
		resolved, err := resolver(req.URL)
		if err != nil {
			return nil, err
		}
		vs = resolved
	}

	membership, err := expander.Contains(vs, req.System, req.Version, req.Code, req.Display, req.Mode, prefs, ctx.Budget())
	if err != nil {
		return nil, err
	}

	result := &ValidateCodeResult{
		Result:     membership.InValueSet,
		Display:    membership.Display,
		DisplayOK:  membership.DisplayOK,
		Difference: membership.Difference,
	}
	if !membership.InValueSet {
		result.Message = fmt.Sprintf("code %q from system %q is not a member of the value set", req.Code, req.System)
	} else if req.Display != "" && !membership.DisplayOK {
		result.Message = fmt.Sprintf("display %q does not match the concept's designations", req.Display)
	}
	return result, nil
}
