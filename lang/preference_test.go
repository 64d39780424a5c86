package lang

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePreferenceListSortsByQuality(t *testing.T) {
	reg := testRegistry(t)
	prefs, err := ParsePreferenceList(reg, "de, en-gb;q=0.8, en;q=0.7")
	require.NoError(t, err)
	require.Len(t, prefs, 3)
	assert.Equal(t, "de", prefs[0].Tag.Language)
	assert.Equal(t, 1.0, prefs[0].Quality)
	assert.Equal(t, "GB", prefs[1].Tag.Region)
	assert.Equal(t, 0.8, prefs[1].Quality)
	assert.Equal(t, "en", prefs[2].Tag.Language)
}

func TestParsePreferenceListWildcardNeverBeatsExplicitMatch(t *testing.T) {
	reg := testRegistry(t)
	prefs, err := ParsePreferenceList(reg, "*;q=0.01, en;q=0.9")
	require.NoError(t, err)
	require.Len(t, prefs, 2)
	assert.Equal(t, "en", prefs[0].Tag.Language)
	assert.True(t, prefs[1].Tag.IsWildcard())
}

func TestParsePreferenceListEmpty(t *testing.T) {
	prefs, err := ParsePreferenceList(nil, "")
	require.NoError(t, err)
	assert.Nil(t, prefs)
}

func TestParsePreferenceListQualityZeroIsForbidden(t *testing.T) {
	reg := testRegistry(t)
	prefs, err := ParsePreferenceList(reg, "fr;q=0")
	require.NoError(t, err)
	require.Len(t, prefs, 1)
	assert.Equal(t, 0.0, prefs[0].Quality)
}
