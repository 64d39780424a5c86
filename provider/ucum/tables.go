package ucum

import "github.com/shopspring/decimal"

// atomDef is one UCUM atom's definition in terms of the base dimension
// vector {m, g, s, mol, cd, rad, K, A} and a magnitude factor relative to
// that base (e.g. "N" = 1000 g.m.s-2, so factor=1000, dims={g:1,m:1,s:-2}).
type atomDef struct {
	dims       map[string]int
	factor     decimal.Decimal
	prefixable bool
}

// atoms is the supported subset of the UCUM atom table: the eight base
// units plus the named derived units a clinical terminology server
// actually sees in Quantity/Observation bindings.
var atoms = map[string]atomDef{
	"m":   {dims: map[string]int{"m": 1}, factor: decimal.New(1, 0), prefixable: true},
	"g":   {dims: map[string]int{"g": 1}, factor: decimal.New(1, 0), prefixable: true},
	"s":   {dims: map[string]int{"s": 1}, factor: decimal.New(1, 0), prefixable: true},
	"mol": {dims: map[string]int{"mol": 1}, factor: decimal.New(1, 0), prefixable: true},
	"cd":  {dims: map[string]int{"cd": 1}, factor: decimal.New(1, 0), prefixable: true},
	"rad": {dims: map[string]int{"rad": 1}, factor: decimal.New(1, 0), prefixable: true},
	"K":   {dims: map[string]int{"K": 1}, factor: decimal.New(1, 0), prefixable: true},
	"A":   {dims: map[string]int{"A": 1}, factor: decimal.New(1, 0), prefixable: true},

	"L":  {dims: map[string]int{"m": 3}, factor: decimal.New(1, -3), prefixable: true},
	"Hz": {dims: map[string]int{"s": -1}, factor: decimal.New(1, 0), prefixable: true},
	"N":  {dims: map[string]int{"g": 1, "m": 1, "s": -2}, factor: decimal.New(1000, 0), prefixable: true},
	"Pa": {dims: map[string]int{"g": 1, "m": -1, "s": -2}, factor: decimal.New(1000, 0), prefixable: true},
	"J":  {dims: map[string]int{"g": 1, "m": 2, "s": -2}, factor: decimal.New(1000, 0), prefixable: true},
	"W":  {dims: map[string]int{"g": 1, "m": 2, "s": -3}, factor: decimal.New(1000, 0), prefixable: true},
	"C":  {dims: map[string]int{"A": 1, "s": 1}, factor: decimal.New(1, 0), prefixable: true},
	"V":  {dims: map[string]int{"g": 1, "m": 2, "s": -3, "A": -1}, factor: decimal.New(1000, 0), prefixable: true},

	"min": {dims: map[string]int{"s": 1}, factor: decimal.New(60, 0), prefixable: false},
	"h":   {dims: map[string]int{"s": 1}, factor: decimal.New(3600, 0), prefixable: false},
	"d":   {dims: map[string]int{"s": 1}, factor: decimal.New(86400, 0), prefixable: false},

	"%": {dims: map[string]int{}, factor: decimal.New(1, -2), prefixable: false},
}

// prefixes is the metric prefix table, decimal power of ten per symbol.
var prefixes = map[string]decimal.Decimal{
	"Y":  decimal.New(1, 24),
	"Z":  decimal.New(1, 21),
	"E":  decimal.New(1, 18),
	"P":  decimal.New(1, 15),
	"T":  decimal.New(1, 12),
	"G":  decimal.New(1, 9),
	"M":  decimal.New(1, 6),
	"k":  decimal.New(1, 3),
	"h":  decimal.New(1, 2),
	"da": decimal.New(1, 1),
	"d":  decimal.New(1, -1),
	"c":  decimal.New(1, -2),
	"m":  decimal.New(1, -3),
	"u":  decimal.New(1, -6),
	"n":  decimal.New(1, -9),
	"p":  decimal.New(1, -12),
	"f":  decimal.New(1, -15),
	"a":  decimal.New(1, -18),
	"z":  decimal.New(1, -21),
	"y":  decimal.New(1, -24),
}
