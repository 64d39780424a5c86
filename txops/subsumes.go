package txops

import (
	"github.com/gofhir/terminology/provider"
	"github.com/gofhir/terminology/txcache"
	"github.com/gofhir/terminology/txop"
)

// SubsumesRequest is $subsumes's recognised input set: two codes, which
// spec.md §4.I requires to be in the same system.
type SubsumesRequest struct {
	System  string
	Version string
	CodeA   string
	CodeB   string
}

// SubsumesResult is one of the four subsumption verdicts of spec.md §4.D.
type SubsumesResult struct {
	Outcome provider.Subsumption
}

// Subsumes resolves the shared system and tests the subsumption
// relationship between the two codes.
func Subsumes(reg txop.Registry, resources []txcache.Resource, pins txop.PinSet, req SubsumesRequest, ctx *txop.Context) (*SubsumesResult, error) {
	version, err := pins.Resolve(req.System, req.Version, ctx)
	if err != nil {
		return nil, err
	}
	p, err := txop.FindCodeSystem(reg, resources, req.System, version)
	if err != nil {
		return nil, err
	}
	ctx.RecordUsed(txop.Used{System: req.System, Version: p.Version(), Reason: "resolved"})

	a, _, err := p.Locate(req.CodeA)
	if err != nil {
		return nil, err
	}
	if a == "" {
		return nil, &ErrCodeNotFound{System: req.System, Code: req.CodeA}
	}
	b, _, err := p.Locate(req.CodeB)
	if err != nil {
		return nil, err
	}
	if b == "" {
		return nil, &ErrCodeNotFound{System: req.System, Code: req.CodeB}
	}

	outcome, err := p.SubsumesTest(a, b)
	if err != nil {
		return nil, err
	}
	return &SubsumesResult{Outcome: outcome}, nil
}
