package ucum

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// Canonical is a unit's canonical form: a dimension vector over the base
// units plus a magnitude factor relative to that vector's SI-coherent
// base (so "kg" and "g" share a dimension vector {g:1} but differ in
// Factor by 1000).
type Canonical struct {
	Dims   map[string]int
	Factor decimal.Decimal
}

// Canonicalize multiplies out every factor in u, combining prefix and
// atom magnitudes with decimal.Decimal so repeated unit conversions don't
// accumulate float64 rounding error.
func (u *Unit) Canonicalize() (Canonical, error) {
	dims := map[string]int{}
	factor := decimal.New(1, 0)

	for _, f := range u.Factors {
		def, ok := atoms[f.Atom]
		if !ok {
			return Canonical{}, fmt.Errorf("unknown unit atom %q", f.Atom)
		}
		atomFactor := def.factor
		if f.Prefix != "" {
			p, ok := prefixes[f.Prefix]
			if !ok {
				return Canonical{}, fmt.Errorf("unknown unit prefix %q", f.Prefix)
			}
			atomFactor = atomFactor.Mul(p)
		}
		factor = factor.Mul(decimalPow(atomFactor, f.Exponent))
		for dim, exp := range def.dims {
			dims[dim] += exp * f.Exponent
		}
	}

	for dim, exp := range dims {
		if exp == 0 {
			delete(dims, dim)
		}
	}
	return Canonical{Dims: dims, Factor: factor}, nil
}

func decimalPow(base decimal.Decimal, exp int) decimal.Decimal {
	if exp == 0 {
		return decimal.New(1, 0)
	}
	negative := exp < 0
	if negative {
		exp = -exp
	}
	result := decimal.New(1, 0)
	for i := 0; i < exp; i++ {
		result = result.Mul(base)
	}
	if negative {
		result = decimal.New(1, 0).Div(result)
	}
	return result
}

// SameDimension reports whether a and b measure the same kind of
// quantity (are interconvertible), ignoring magnitude.
func (c Canonical) SameDimension(o Canonical) bool {
	if len(c.Dims) != len(o.Dims) {
		return false
	}
	for dim, exp := range c.Dims {
		if o.Dims[dim] != exp {
			return false
		}
	}
	return true
}

// Equal reports whether a and b denote the identical unit: same
// dimension and the same magnitude factor, e.g. "s" equals "s" but not
// "min", even though both are time.
func (c Canonical) Equal(o Canonical) bool {
	return c.SameDimension(o) && c.Factor.Equal(o.Factor)
}

// Analysis renders the canonical form as a deterministic string such as
// "g1.m1.s-2 x1000", used as both the handle's display text and for
// equality-by-string debugging.
func (c Canonical) Analysis() string {
	dims := make([]string, 0, len(c.Dims))
	for dim := range c.Dims {
		dims = append(dims, dim)
	}
	sort.Strings(dims)

	var b strings.Builder
	for i, dim := range dims {
		if i > 0 {
			b.WriteString(".")
		}
		fmt.Fprintf(&b, "%s%d", dim, c.Dims[dim])
	}
	if b.Len() == 0 {
		b.WriteString("1")
	}
	if !c.Factor.Equal(decimal.New(1, 0)) {
		fmt.Fprintf(&b, " x%s", c.Factor.String())
	}
	return b.String()
}
