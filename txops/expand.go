package txops

import (
	"fmt"

	"github.com/gofhir/terminology/fhir"
	"github.com/gofhir/terminology/lang"
	"github.com/gofhir/terminology/txop"
	"github.com/gofhir/terminology/valueset"
)

// ExpandRequest is $expand's recognised input set. Exactly one of URL,
// ValueSet should be set; an instance-id lookup (ValueSet/{id}/$expand)
// requires the package-registry store, which is explicitly out of the
// core's scope, so callers resolve an instance id to a *fhir.ValueSet
// themselves before calling Expand.
type ExpandRequest struct {
	URL                 string
	ValueSet            *fhir.ValueSet
	Filter              string
	Count               int
	Offset              int
	ActiveOnly          bool
	IncludeDesignations bool
	Context             string // present only to be rejected: not-supported per spec.md §4.I
}

// ErrContextNotSupported is returned when the caller passes the
// "context" parameter, which this operation explicitly rejects.
var ErrContextNotSupported = fmt.Errorf("not-supported: the \"context\" parameter is not supported by $expand")

// Expand resolves the target ValueSet (inline or via resolver) and
// delegates to the valueset package's dual-mode engine.
func Expand(expander *valueset.Expander, resolver valueset.ValueSetResolver, req ExpandRequest, prefs []lang.Preference, ctx *txop.Context) (*valueset.ExpandResult, error) {
	if req.Context != "" {
		return nil, ErrContextNotSupported
	}

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

	opts := valueset.ExpandOptions{
		Count:               req.Count,
		Offset:              req.Offset,
		ActiveOnly:          req.ActiveOnly,
		IncludeDesignations: req.IncludeDesignations,
		TextFilter:          req.Filter,
	}
	return expander.Expand(vs, prefs, opts, ctx.Budget())
}
