package provider

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/gofhir/terminology/fhir"
)

// ErrUnsupportedFilter is returned when a provider is asked to compile a
// filter operator it does not implement. Providers never silently ignore
// an unsupported filter (spec.md §4.D).
type ErrUnsupportedFilter struct {
	Op       fhir.FilterOperator
	Property string
}

func (e *ErrUnsupportedFilter) Error() string {
	return fmt.Sprintf("unsupported filter operator %q on property %q", e.Op, e.Property)
}

// compiledFilter is a validated, ready-to-evaluate filter predicate bound
// to one code-system's parent/child graph.
type compiledFilter struct {
	eval func(graph *codeGraph, code string) (bool, error)
}

// codeGraph is the minimal shape a Memory provider exposes to the filter
// evaluator: parent/child edges plus a property getter, matching the two
// code -> [code] maps design note §9 calls for.
type codeGraph struct {
	parent   map[string][]string
	children map[string][]string
	property func(code, propertyCode string) (fhir.PropertyValue, bool)
	exists   func(code string) bool
}

func compileFilter(f fhir.ConceptSetFilter) (*compiledFilter, error) {
	switch f.Op {
	case fhir.FilterEquals:
		return &compiledFilter{eval: func(g *codeGraph, code string) (bool, error) {
			return fieldEquals(g, code, f.Property, f.Value), nil
		}}, nil

	case fhir.FilterIsA:
		return &compiledFilter{eval: func(g *codeGraph, code string) (bool, error) {
			return g.isDescendantOrSelf(code, f.Value), nil
		}}, nil

	case fhir.FilterIsNotA:
		return &compiledFilter{eval: func(g *codeGraph, code string) (bool, error) {
			return !g.isDescendantOrSelf(code, f.Value), nil
		}}, nil

	case fhir.FilterDescendentOf:
		return &compiledFilter{eval: func(g *codeGraph, code string) (bool, error) {
			if code == f.Value {
				return false, nil
			}
			return g.isDescendantOrSelf(code, f.Value), nil
		}}, nil

	case fhir.FilterGeneralizes:
		return &compiledFilter{eval: func(g *codeGraph, code string) (bool, error) {
			return g.isAncestorOrSelf(code, f.Value), nil
		}}, nil

	case fhir.FilterRegex:
		re, err := regexp.Compile(f.Value)
		if err != nil {
			return nil, fmt.Errorf("invalid regex filter %q: %w", f.Value, err)
		}
		return &compiledFilter{eval: func(g *codeGraph, code string) (bool, error) {
			subject := code
			if f.Property != "" && f.Property != "code" {
				pv, ok := g.property(code, f.Property)
				if !ok {
					return false, nil
				}
				subject = pv.String
			}
			return re.MatchString(subject), nil
		}}, nil

	case fhir.FilterIn, fhir.FilterNotIn:
		set := map[string]bool{}
		for _, v := range strings.Split(f.Value, ",") {
			set[strings.TrimSpace(v)] = true
		}
		negate := f.Op == fhir.FilterNotIn
		return &compiledFilter{eval: func(g *codeGraph, code string) (bool, error) {
			subject := code
			if f.Property != "" && f.Property != "code" {
				pv, ok := g.property(code, f.Property)
				if !ok {
					return negate, nil
				}
				subject = pv.String
			}
			in := set[subject]
			if negate {
				return !in, nil
			}
			return in, nil
		}}, nil

	case fhir.FilterExists:
		want := strings.EqualFold(f.Value, "true")
		return &compiledFilter{eval: func(g *codeGraph, code string) (bool, error) {
			_, ok := g.property(code, f.Property)
			return ok == want, nil
		}}, nil

	default:
		return nil, &ErrUnsupportedFilter{Op: f.Op, Property: f.Property}
	}
}

func fieldEquals(g *codeGraph, code, property, value string) bool {
	if property == "" || property == "code" {
		return code == value
	}
	pv, ok := g.property(code, property)
	if !ok {
		return false
	}
	return pv.String == value || pv.Code == value
}

// isDescendantOrSelf reports whether code is ancestor-reachable-from-self,
// i.e. code==root or root is a (possibly transitive) parent of code. DFS
// with a visited set so cyclic graphs still terminate, per spec.md §3/§8.
func (g *codeGraph) isDescendantOrSelf(code, root string) bool {
	if code == root {
		return true
	}
	visited := map[string]bool{}
	var walk func(c string) bool
	walk = func(c string) bool {
		if visited[c] {
			return false
		}
		visited[c] = true
		for _, p := range g.parent[c] {
			if p == root {
				return true
			}
			if walk(p) {
				return true
			}
		}
		return false
	}
	return walk(code)
}

// isAncestorOrSelf is the inverse direction: code==root or code is a
// (possibly transitive) ancestor of root ("generalizes").
func (g *codeGraph) isAncestorOrSelf(code, root string) bool {
	if code == root {
		return true
	}
	visited := map[string]bool{}
	var walk func(c string) bool
	walk = func(c string) bool {
		if visited[c] {
			return false
		}
		visited[c] = true
		for _, child := range g.children[c] {
			if child == root {
				return true
			}
			if walk(child) {
				return true
			}
		}
		return false
	}
	return walk(code)
}

// descendants collects every code reachable from root via children,
// bounded by a visited set (cycles break traversal per spec.md §3).
// includeSelf controls whether root itself is emitted.
func (g *codeGraph) descendants(root string, includeSelf bool) []string {
	var out []string
	visited := map[string]bool{}
	var walk func(code string, isRoot bool)
	walk = func(code string, isRoot bool) {
		if visited[code] {
			return
		}
		visited[code] = true
		if !isRoot || includeSelf {
			out = append(out, code)
		}
		for _, child := range g.children[code] {
			walk(child, false)
		}
	}
	walk(root, true)
	return out
}
