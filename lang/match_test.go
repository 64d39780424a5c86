package lang

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, reg *Registry, code string) *Tag {
	t.Helper()
	tag, err := reg.Parse(code)
	require.NoError(t, err)
	return tag
}

func TestMatchesDepth(t *testing.T) {
	reg := testRegistry(t)
	a := mustParse(t, reg, "en-US")
	b := mustParse(t, reg, "en-GB")

	assert.True(t, Matches(a, b, DepthLanguage))
	assert.False(t, Matches(a, b, DepthRegion))
}

func TestMatchesSimpleBlankIsWildcard(t *testing.T) {
	reg := testRegistry(t)
	pattern := mustParse(t, reg, "en")
	target := mustParse(t, reg, "en-US")
	assert.True(t, MatchesSimple(pattern, target))
}

func TestMatchesForDisplayAsymmetric(t *testing.T) {
	reg := testRegistry(t)
	want := mustParse(t, reg, "en")
	target := mustParse(t, reg, "en-US")
	assert.False(t, MatchesForDisplay(want, target, true))

	wantUS := mustParse(t, reg, "en-US")
	targetGeneric := mustParse(t, reg, "en")
	assert.True(t, MatchesForDisplay(wantUS, targetGeneric, true))

	wantGB := mustParse(t, reg, "en-GB")
	targetUS := mustParse(t, reg, "en-US")
	assert.False(t, MatchesForDisplay(wantGB, targetUS, true))
}

func TestMatchesForDisplayBlankDefaultsToEnglish(t *testing.T) {
	reg := testRegistry(t)
	target := mustParse(t, reg, "en-US")
	assert.True(t, MatchesForDisplay(nil, target, true))

	targetFR := mustParse(t, reg, "fr-FR")
	assert.False(t, MatchesForDisplay(nil, targetFR, true))

	assert.False(t, MatchesForDisplay(nil, target, false))
}
