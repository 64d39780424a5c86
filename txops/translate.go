package txops

import (
	"fmt"

	"github.com/gofhir/terminology/conceptmap"
	"github.com/gofhir/terminology/fhir"
	"github.com/gofhir/terminology/semver"
	"github.com/gofhir/terminology/txop"
)

// ConceptMapResolver resolves a ConceptMap by canonical URL.
type ConceptMapResolver func(url string) (*fhir.ConceptMap, error)

// TranslateRequest is $translate's recognised input set.
type TranslateRequest struct {
	ConceptMapURL string
	ConceptMap    *fhir.ConceptMap
	System        string
	Version       string
	Code          string
	CaseSensitive bool
	TargetSystem  string
	TargetVersion string
}

// TranslateResult carries every match Translate found, plus whether any
// matched at all (the wire layer maps an empty result to "result: false").
type TranslateResult struct {
	Matches []conceptmap.Match
}

// Translate resolves the target ConceptMap (inline or via resolver) and
// applies its directional group-scan algorithm.
func Translate(resolver ConceptMapResolver, req TranslateRequest, algorithm semver.Algorithm, ctx *txop.Context) (*TranslateResult, error) {
	cm := req.ConceptMap
	if cm == nil {
		if resolver == nil {
			return nil, fmt.Errorf("not-found: no ConceptMap resolver configured for %q", req.ConceptMapURL)
		}
		resolved, err := resolver(req.ConceptMapURL)
		if err != nil {
			return nil, err
		}
		cm = resolved
	}

	scope := conceptmap.TargetScope{System: req.TargetSystem, Version: req.TargetVersion}
	matches := conceptmap.Translate(cm, req.System, req.Version, req.Code, req.CaseSensitive, scope, algorithm)
	ctx.RecordUsed(txop.Used{System: cm.URL, Version: cm.Version, Reason: "conceptmap"})
	return &TranslateResult{Matches: matches}, nil
}
