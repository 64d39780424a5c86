package txops

import (
	"fmt"

	"github.com/gofhir/terminology/designation"
	"github.com/gofhir/terminology/lang"
	"github.com/gofhir/terminology/txcache"
	"github.com/gofhir/terminology/txop"
)

// ValidateCodeRequest is $validate-code (CodeSystem form)'s input set.
type ValidateCodeRequest struct {
	System  string
	Version string
	Code    string
	Display string
	Mode    designation.Mode
}

// ValidateCodeResult is the operation's output: a pass/fail verdict,
// a message on failure, and — when the code resolves but the caller's
// display doesn't match — the actual display plus the difference level.
type ValidateCodeResult struct {
	Result     bool
	Message    string
	Display    string
	DisplayOK  bool
	Difference designation.Difference
}

// ValidateCode resolves (system, code) and, if a display was supplied,
// checks it against the concept's designations. An unknown system is a
// hard error (propagated as txop.ErrSystemUnknown/ErrVersionUnknown); an
// unknown code is reported as Result:false per $validate-code's own
// output contract, not as an error.
func ValidateCode(reg txop.Registry, resources []txcache.Resource, pins txop.PinSet, req ValidateCodeRequest, prefs []lang.Preference, ctx *txop.Context) (*ValidateCodeResult, error) {
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
		return &ValidateCodeResult{Result: false, Message: diag}, nil
	}

	result := &ValidateCodeResult{Result: true, Display: p.Display(h, prefs)}

	if req.Display != "" {
		store := p.Designations(h)
		if store == nil {
			result.Result = false
			result.Message = "code has no designations to compare against"
			return result, nil
		}
		found, diff := store.HasDisplay(req.Display, req.Mode)
		result.DisplayOK = found
		result.Difference = diff
		if !found {
			result.Result = false
			result.Message = fmt.Sprintf("display %q does not match the concept's designations", req.Display)
		}
	}

	return result, nil
}
