// Package ucum implements the algebraic subset of UCUM (Unified Code for
// Units of Measure) that spec.md §1 keeps in scope for a terminology
// server: parsing a unit expression, canonicalising it to base-dimension
// powers plus a magnitude factor, and comparing two expressions for
// unit equivalence. Full UCUM "essence" parsing (the XML semantic
// database shipped with the standard) stays out of scope; this is the
// expression algebra alone, grounded on google-cql/ucum's
// parse-then-convert shape and robertoAraneda-gofhir/pkg/ucum's
// atom/prefix table split, rebuilt on github.com/shopspring/decimal for
// exact-as-possible magnitude arithmetic instead of float64.
package ucum

import (
	"fmt"
	"strconv"
	"strings"
)

// Factor is one atom in a parsed unit expression: an optional metric
// prefix, an atom symbol, and a signed exponent. "kg.m/s2" parses into
// three factors: {prefix:"k", atom:"g", exp:1}, {atom:"m", exp:1},
// {atom:"s", exp:-2}.
type Factor struct {
	Prefix   string
	Atom     string
	Exponent int
}

// Unit is the parsed AST of a UCUM expression: an ordered list of
// factors plus the original text, kept for Code()/error messages.
type Unit struct {
	Text    string
	Factors []Factor
}

// ParseError reports a malformed UCUM expression, naming the offending
// position so a caller can point at it in a validation diagnostic.
type ParseError struct {
	Text string
	Pos  int
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid UCUM unit %q at position %d: %s", e.Text, e.Pos, e.Msg)
}

// Parse reads a UCUM unit expression of the form
// atom[exponent] ( ('.'|'/') atom[exponent] )*
// Parenthesised groups are not supported; the expressions a terminology
// server encounters in Quantity.unit/CodeableConcept bindings (mg/dL,
// mmol/L, kg/m2, and the like) never need them.
func Parse(text string) (*Unit, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, &ParseError{Text: text, Pos: 0, Msg: "empty unit expression"}
	}
	if trimmed == "1" {
		return &Unit{Text: text}, nil
	}

	p := &unitParser{text: trimmed}
	factors, err := p.parse()
	if err != nil {
		return nil, err
	}
	return &Unit{Text: text, Factors: factors}, nil
}

type unitParser struct {
	text string
	pos  int
}

func (p *unitParser) parse() ([]Factor, error) {
	first, err := p.parseAtomExponent(true)
	if err != nil {
		return nil, err
	}
	factors := []Factor{first}

	for p.pos < len(p.text) {
		sep := p.text[p.pos]
		if sep != '.' && sep != '/' {
			return nil, &ParseError{Text: p.text, Pos: p.pos, Msg: fmt.Sprintf("expected '.' or '/', found %q", sep)}
		}
		p.pos++
		numerator := sep == '.'
		f, err := p.parseAtomExponent(numerator)
		if err != nil {
			return nil, err
		}
		factors = append(factors, f)
	}
	return factors, nil
}

func (p *unitParser) parseAtomExponent(numerator bool) (Factor, error) {
	start := p.pos
	for p.pos < len(p.text) && isSymbolRune(p.text[p.pos]) {
		p.pos++
	}
	symbol := p.text[start:p.pos]
	if symbol == "" {
		return Factor{}, &ParseError{Text: p.text, Pos: p.pos, Msg: "expected a unit atom"}
	}

	expStart := p.pos
	for p.pos < len(p.text) && isExponentRune(p.text[p.pos], p.pos == expStart) {
		p.pos++
	}
	exponent := 1
	if p.pos > expStart {
		n, err := strconv.Atoi(p.text[expStart:p.pos])
		if err != nil {
			return Factor{}, &ParseError{Text: p.text, Pos: expStart, Msg: "malformed exponent"}
		}
		exponent = n
	}
	if !numerator {
		exponent = -exponent
	}

	prefix, atom, err := splitPrefix(symbol)
	if err != nil {
		return Factor{}, &ParseError{Text: p.text, Pos: start, Msg: err.Error()}
	}
	return Factor{Prefix: prefix, Atom: atom, Exponent: exponent}, nil
}

func isSymbolRune(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '[' || c == ']' || c == '\''
}

func isExponentRune(c byte, first bool) bool {
	if first && c == '-' {
		return true
	}
	return c >= '0' && c <= '9'
}

// splitPrefix resolves a symbol into a (possibly empty) metric prefix and
// an atom: a symbol that is itself a known atom is taken with no prefix;
// otherwise the longest prefix whose remainder is a known prefixable atom
// is used.
func splitPrefix(symbol string) (prefix, atom string, err error) {
	if _, ok := atoms[symbol]; ok {
		return "", symbol, nil
	}
	best := ""
	for p := range prefixes {
		if len(p) <= len(best) {
			continue
		}
		if !strings.HasPrefix(symbol, p) {
			continue
		}
		rest := symbol[len(p):]
		if a, ok := atoms[rest]; ok && a.prefixable {
			best = p
		}
	}
	if best == "" {
		return "", "", fmt.Errorf("unknown unit atom %q", symbol)
	}
	return best, symbol[len(best):], nil
}
