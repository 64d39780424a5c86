package txops

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gofhir/terminology/designation"
	"github.com/gofhir/terminology/fhir"
	"github.com/gofhir/terminology/provider"
	"github.com/gofhir/terminology/semver"
	"github.com/gofhir/terminology/txop"
	"github.com/gofhir/terminology/valueset"
)

const genderSystem = "http://example.org/gender"

func genderCodeSystem() fhir.CodeSystem {
	return fhir.CodeSystem{
		URL: genderSystem, Version: "1.0.0", ContentMode: fhir.ContentComplete,
		Property: []fhir.PropertyDefinition{{Code: "inactive"}},
		Concept: []fhir.Concept{
			{Code: "male", Display: "Male"},
			{Code: "female", Display: "Female",
				Designation: []fhir.Designation{{Language: "fr", Value: "Femme"}}},
		},
	}
}

func newTestRegistry(t *testing.T) *txop.MapRegistry {
	t.Helper()
	reg := txop.NewMapRegistry()
	p, err := provider.NewMemory(genderCodeSystem(), nil)
	require.NoError(t, err)
	reg.Register(genderSystem, "1.0.0", p, true)
	return reg
}

func TestLookupReturnsDisplayAndDefaultProperty(t *testing.T) {
	reg := newTestRegistry(t)
	ctx := txop.AcquireContext()
	defer ctx.Release()

	result, err := Lookup(reg, nil, txop.PinSet{}, LookupRequest{System: genderSystem, Code: "male"}, nil, ctx)
	require.NoError(t, err)
	assert.Equal(t, "Male", result.Display)
	assert.Equal(t, "1.0.0", result.Version)
	require.Len(t, result.Properties, 1)
	assert.Equal(t, "inactive", result.Properties[0].Code)
	assert.False(t, result.Properties[0].Value.Boolean)
}

func TestLookupUnknownCodeIsError(t *testing.T) {
	reg := newTestRegistry(t)
	ctx := txop.AcquireContext()
	defer ctx.Release()

	_, err := Lookup(reg, nil, txop.PinSet{}, LookupRequest{System: genderSystem, Code: "nope"}, nil, ctx)
	require.Error(t, err)
	var notFound *ErrCodeNotFound
	assert.ErrorAs(t, err, &notFound)
}

func TestValidateCodeSucceedsWithoutDisplay(t *testing.T) {
	reg := newTestRegistry(t)
	ctx := txop.AcquireContext()
	defer ctx.Release()

	result, err := ValidateCode(reg, nil, txop.PinSet{}, ValidateCodeRequest{System: genderSystem, Code: "male"}, nil, ctx)
	require.NoError(t, err)
	assert.True(t, result.Result)
}

func TestValidateCodeFlagsDisplayMismatch(t *testing.T) {
	reg := newTestRegistry(t)
	ctx := txop.AcquireContext()
	defer ctx.Release()

	result, err := ValidateCode(reg, nil, txop.PinSet{}, ValidateCodeRequest{
		System: genderSystem, Code: "male", Display: "Homme", Mode: designation.Exact,
	}, nil, ctx)
	require.NoError(t, err)
	assert.False(t, result.Result)
	assert.NotEmpty(t, result.Message)
}

func TestValidateCodeUnknownCodeReturnsFalseNotError(t *testing.T) {
	reg := newTestRegistry(t)
	ctx := txop.AcquireContext()
	defer ctx.Release()

	result, err := ValidateCode(reg, nil, txop.PinSet{}, ValidateCodeRequest{System: genderSystem, Code: "x"}, nil, ctx)
	require.NoError(t, err)
	assert.False(t, result.Result)
}

func TestSubsumesEquivalentForIdenticalCodes(t *testing.T) {
	reg := newTestRegistry(t)
	ctx := txop.AcquireContext()
	defer ctx.Release()

	result, err := Subsumes(reg, nil, txop.PinSet{}, SubsumesRequest{System: genderSystem, CodeA: "male", CodeB: "male"}, ctx)
	require.NoError(t, err)
	assert.Equal(t, provider.Equivalent, result.Outcome)
}

func TestExpandRejectsContextParameter(t *testing.T) {
	ctx := txop.AcquireContext()
	defer ctx.Release()
	expander := &valueset.Expander{}

	_, err := Expand(expander, nil, ExpandRequest{Context: "Patient"}, nil, ctx)
	assert.ErrorIs(t, err, ErrContextNotSupported)
}

func TestExpandUsesInlineValueSet(t *testing.T) {
	reg := newTestRegistry(t)
	ctx := txop.AcquireContext()
	defer ctx.Release()

	p, _ := reg.Resolve(genderSystem, "1.0.0")
	expander := &valueset.Expander{
		Providers: func(system, version string) (provider.Provider, string, error) {
			return p, p.Version(), nil
		},
	}
	vs := &fhir.ValueSet{Compose: &fhir.Compose{Include: []fhir.ConceptSetComponent{{System: genderSystem}}}}

	result, err := Expand(expander, nil, ExpandRequest{ValueSet: vs}, nil, ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Expansion.Total)
}

func TestValidateVSReportsMembership(t *testing.T) {
	reg := newTestRegistry(t)
	ctx := txop.AcquireContext()
	defer ctx.Release()

	p, _ := reg.Resolve(genderSystem, "1.0.0")
	expander := &valueset.Expander{
		Providers: func(system, version string) (provider.Provider, string, error) {
			return p, p.Version(), nil
		},
	}
	vs := &fhir.ValueSet{Compose: &fhir.Compose{Include: []fhir.ConceptSetComponent{{
		System: genderSystem, Concept: []fhir.ConceptReference{{Code: "male"}},
	}}}}

	result, err := ValidateVS(expander, nil, ValidateVSRequest{ValueSet: vs, System: genderSystem, Code: "male"}, nil, ctx)
	require.NoError(t, err)
	assert.True(t, result.Result)

	result, err = ValidateVS(expander, nil, ValidateVSRequest{ValueSet: vs, System: genderSystem, Code: "female"}, nil, ctx)
	require.NoError(t, err)
	assert.False(t, result.Result)
}

func TestTranslateAppliesInlineConceptMap(t *testing.T) {
	ctx := txop.AcquireContext()
	defer ctx.Release()

	cm := &fhir.ConceptMap{
		URL: "http://example.org/ConceptMap/gender",
		Group: []fhir.ConceptMapGroup{{
			Source: "http://example.org/legacy-gender",
			Target: "http://hl7.org/fhir/administrative-gender",
			Element: []fhir.SourceElement{
				{Code: "M", Target: []fhir.TargetElement{{Code: "male", Relationship: fhir.Equivalent}}},
			},
		}},
	}

	result, err := Translate(nil, TranslateRequest{
		ConceptMap: cm, System: "http://example.org/legacy-gender", Code: "M", CaseSensitive: true,
	}, semver.Semver, ctx)
	require.NoError(t, err)
	require.Len(t, result.Matches, 1)
	assert.Equal(t, "male", result.Matches[0].Code)
}

func TestBatchLookupReassociatesResultsWithRequests(t *testing.T) {
	reg := newTestRegistry(t)
	requests := []LookupRequest{
		{System: genderSystem, Code: "male"},
		{System: genderSystem, Code: "female"},
		{System: genderSystem, Code: "missing"},
	}

	items := BatchLookup(reg, nil, txop.PinSet{}, requests, nil, 2)
	require.Len(t, items, 3)
	assert.Equal(t, "male", items[0].Request.Code)
	assert.NoError(t, items[0].Err)
	assert.Equal(t, "Male", items[0].Result.Display)

	assert.Equal(t, "missing", items[2].Request.Code)
	assert.Error(t, items[2].Err)
}
