package txop

import (
	"fmt"

	"github.com/gofhir/terminology/semver"
)

// PinRule is one "system|version" pin entry as carried by the
// force-system-version / system-version / check-system-version
// parameters.
type PinRule struct {
	System  string
	Version string
}

func parsePinRules(raw []string) []PinRule {
	rules := make([]PinRule, 0, len(raw))
	for _, r := range raw {
		url, version := semver.SplitCanonical(r)
		rules = append(rules, PinRule{System: url, Version: version})
	}
	return rules
}

// PinSet holds the three pin-rule lists parsed from one ParameterBag, in
// the precedence order spec.md §4.G(3) names:
// force-system-version (override, conflicts are errors) >
// system-version (default, applies only if unversioned) >
// check-system-version (guard, mismatches raise a version-error issue).
type PinSet struct {
	Force []PinRule
	Default []PinRule
	Check   []PinRule
}

// NewPinSet parses a ParameterBag's three pin parameter lists.
func NewPinSet(bag *ParameterBag) PinSet {
	return PinSet{
		Force:   parsePinRules(bag.ForceSystemVersion),
		Default: parsePinRules(bag.SystemVersion),
		Check:   parsePinRules(bag.CheckSystemVersion),
	}
}

// ErrPinConflict is raised when two force-system-version rules name
// different versions for the same system.
type ErrPinConflict struct {
	System   string
	Versions []string
}

func (e *ErrPinConflict) Error() string {
	return fmt.Sprintf("system-version-multiple-override: %s pinned to %v", e.System, e.Versions)
}

// ErrVersionMismatch is raised when a check-system-version guard doesn't
// match the version that was actually resolved.
type ErrVersionMismatch struct {
	System   string
	Expected string
	Actual   string
}

func (e *ErrVersionMismatch) Error() string {
	return fmt.Sprintf("version-error: %s expected %s, resolved %s", e.System, e.Expected, e.Actual)
}

// Resolve evaluates the pin rules for one system reference, returning
// the version to use. requestedVersion is the version the resource
// itself declared (e.g. ValueSet.compose.include.version), empty if
// none. It records every effective pin on used.
func (p PinSet) Resolve(system, requestedVersion string, ctx *Context) (string, error) {
	var forced []string
	for _, r := range p.Force {
		if r.System == system {
			forced = append(forced, r.Version)
		}
	}
	if len(forced) > 1 {
		for _, v := range forced[1:] {
			if v != forced[0] {
				return "", &ErrPinConflict{System: system, Versions: forced}
			}
		}
	}
	version := requestedVersion
	if len(forced) > 0 {
		version = forced[0]
		if ctx != nil {
			ctx.RecordUsed(Used{System: system, Version: version, Reason: "force-system-version"})
		}
	} else if version == "" {
		for _, r := range p.Default {
			if r.System == system {
				version = r.Version
				if ctx != nil {
					ctx.RecordUsed(Used{System: system, Version: version, Reason: "system-version"})
				}
				break
			}
		}
	}

	for _, r := range p.Check {
		if r.System == system && r.Version != version {
			return "", &ErrVersionMismatch{System: system, Expected: r.Version, Actual: version}
		}
	}

	return version, nil
}
