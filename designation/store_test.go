package designation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gofhir/terminology/fhir"
	"github.com/gofhir/terminology/lang"
)

func testRegistry(t *testing.T) *lang.Registry {
	t.Helper()
	reg, err := lang.LoadRegistry(lang.DefaultRegistryText)
	require.NoError(t, err)
	return reg
}

func TestHasDisplayExact(t *testing.T) {
	s := New([]fhir.Designation{{Value: "Male", Status: fhir.StatusActive}}, nil, nil)
	found, diff := s.HasDisplay("Male", Exact)
	assert.True(t, found)
	assert.Equal(t, DiffNone, diff)

	found, diff = s.HasDisplay("male", Exact)
	assert.False(t, found)
	assert.Equal(t, DiffCase, diff)
}

func TestHasDisplayCaseInsensitive(t *testing.T) {
	s := New([]fhir.Designation{{Value: "Male", Status: fhir.StatusActive}}, nil, nil)
	found, diff := s.HasDisplay("MALE", CaseInsensitive)
	assert.True(t, found)
	assert.Equal(t, DiffCase, diff)
}

func TestHasDisplayNormalised(t *testing.T) {
	s := New([]fhir.Designation{{Value: "Blood  Pressure ", Status: fhir.StatusActive}}, nil, nil)
	found, diff := s.HasDisplay("blood pressure", Normalised)
	assert.True(t, found)
	assert.Equal(t, DiffNormalized, diff)

	found, _ = s.HasDisplay("blood pressure", Exact)
	assert.False(t, found)
}

func TestHasDisplayNeverUpgradesFoundOnLaxerMode(t *testing.T) {
	s := New([]fhir.Designation{{Value: "Blood Pressure", Status: fhir.StatusActive}}, nil, nil)
	found, _ := s.HasDisplay("Totally Different", Exact)
	assert.False(t, found)
}

func TestCountDisplaysAndRenderForError(t *testing.T) {
	s := New([]fhir.Designation{
		{Value: "Male", Status: fhir.StatusActive},
		{Value: "M", Status: fhir.StatusActive, Use: &fhir.Coding{System: "http://example.org", Code: "abbreviation"}},
	}, nil, nil)
	assert.Equal(t, 1, s.CountDisplays())
	assert.Equal(t, "Male", s.RenderForError())
}

func TestPreferredFullTierWinsOverLang(t *testing.T) {
	reg := testRegistry(t)
	designations := []fhir.Designation{
		{Language: "en", Value: "English generic", Status: fhir.StatusActive},
		{Language: "en-US", Value: "English US", Status: fhir.StatusActive},
	}
	s := New(designations, reg, nil)
	prefs, err := lang.ParsePreferenceList(reg, "en-US")
	require.NoError(t, err)
	got := s.Preferred(prefs)
	require.NotNil(t, got)
	assert.Equal(t, "English US", got.Value)
}

func TestPreferredFallsBackWhenNoLanguageQualifies(t *testing.T) {
	designations := []fhir.Designation{
		{Value: "No language", Status: fhir.StatusActive},
	}
	s := New(designations, nil, nil)
	got := s.Preferred(nil)
	require.NotNil(t, got)
	assert.Equal(t, "No language", got.Value)
}

func TestPreferredSkipsZeroQualityEntries(t *testing.T) {
	reg := testRegistry(t)
	designations := []fhir.Designation{
		{Language: "fr", Value: "French", Status: fhir.StatusActive},
		{Language: "en", Value: "English", Status: fhir.StatusActive},
	}
	s := New(designations, reg, nil)
	prefs, err := lang.ParsePreferenceList(reg, "fr;q=0, en;q=0.5")
	require.NoError(t, err)
	got := s.Preferred(prefs)
	require.NotNil(t, got)
	assert.Equal(t, "English", got.Value)
}

func TestDefaultIsDisplayRecognisesCanonicalAndSnomedUses(t *testing.T) {
	plain := fhir.Designation{Value: "x"}
	assert.True(t, DefaultIsDisplay(plain))

	canonical := fhir.Designation{Value: "x", Use: &fhir.Coding{
		System: canonicalDisplayUseSystem, Code: canonicalDisplayUseCode,
	}}
	assert.True(t, DefaultIsDisplay(canonical))

	snomed := fhir.Designation{Value: "x", Use: &fhir.Coding{
		System: snomedPreferredUseSystem, Code: snomedPreferredUseCode,
	}}
	assert.True(t, DefaultIsDisplay(snomed))

	other := fhir.Designation{Value: "x", Use: &fhir.Coding{System: "http://example.org", Code: "other"}}
	assert.False(t, DefaultIsDisplay(other))
}
