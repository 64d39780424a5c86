package txop

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gofhir/terminology/fhir"
	"github.com/gofhir/terminology/provider"
	"github.com/gofhir/terminology/txcache"
)

func TestFromValuesLiftsRepeatedParameters(t *testing.T) {
	bag := FromValues(map[string][]string{
		"code":           {"M"},
		"system":         {"http://example.org/gender"},
		"count":          {"10"},
		"activeOnly":     {"true"},
		"system-version": {"http://example.org/gender|1.0.0"},
		"bogus-param":    {"x"},
	})

	assert.Equal(t, "M", bag.Code)
	assert.Equal(t, 10, bag.Count)
	assert.True(t, bag.ActiveOnly)
	assert.Equal(t, []string{"http://example.org/gender|1.0.0"}, bag.SystemVersion)
	assert.Contains(t, bag.Unrecognised, "bogus-param")
}

func TestPinSetForceOverridesDefault(t *testing.T) {
	bag := &ParameterBag{
		ForceSystemVersion: []string{"http://loinc.org|2.74"},
		SystemVersion:      []string{"http://loinc.org|2.73"},
	}
	pins := NewPinSet(bag)
	ctx := AcquireContext()
	defer ctx.Release()

	version, err := pins.Resolve("http://loinc.org", "", ctx)
	require.NoError(t, err)
	assert.Equal(t, "2.74", version)
	require.Len(t, ctx.UsedTrail(), 1)
	assert.Equal(t, "force-system-version", ctx.UsedTrail()[0].Reason)
}

func TestPinSetConflictingForceIsError(t *testing.T) {
	bag := &ParameterBag{
		ForceSystemVersion: []string{"http://loinc.org|2.73", "http://loinc.org|2.74"},
	}
	pins := NewPinSet(bag)
	_, err := pins.Resolve("http://loinc.org", "", nil)
	require.Error(t, err)
	var conflict *ErrPinConflict
	assert.ErrorAs(t, err, &conflict)
}

func TestPinSetDefaultOnlyAppliesWhenUnversioned(t *testing.T) {
	bag := &ParameterBag{SystemVersion: []string{"http://loinc.org|2.73"}}
	pins := NewPinSet(bag)

	version, err := pins.Resolve("http://loinc.org", "2.72", nil)
	require.NoError(t, err)
	assert.Equal(t, "2.72", version, "resource's own version wins over the default pin")

	version, err = pins.Resolve("http://loinc.org", "", nil)
	require.NoError(t, err)
	assert.Equal(t, "2.73", version)
}

func TestPinSetCheckGuardRejectsMismatch(t *testing.T) {
	bag := &ParameterBag{CheckSystemVersion: []string{"http://loinc.org|2.73"}}
	pins := NewPinSet(bag)

	_, err := pins.Resolve("http://loinc.org", "2.74", nil)
	require.Error(t, err)
	var mismatch *ErrVersionMismatch
	assert.ErrorAs(t, err, &mismatch)
}

func TestFindCodeSystemPrefersInlineResources(t *testing.T) {
	inline := fhir.CodeSystem{
		URL: "http://example.org/colors", Version: "2.0.0",
		ContentMode: fhir.ContentComplete,
		Concept:     []fhir.Concept{{Code: "red"}},
	}
	resources := []txcache.Resource{{Type: txcache.ResourceCodeSystem, URL: inline.URL, Version: inline.Version, CodeSystem: &inline}}

	p, err := FindCodeSystem(nil, resources, "http://example.org/colors", "")
	require.NoError(t, err)
	assert.Equal(t, "2.0.0", p.Version())
}

func TestFindCodeSystemUnknownSystem(t *testing.T) {
	reg := NewMapRegistry()
	_, err := FindCodeSystem(reg, nil, "http://example.org/missing", "")
	require.Error(t, err)
	var unknown *ErrSystemUnknown
	assert.ErrorAs(t, err, &unknown)
}

func TestFindCodeSystemUnknownVersion(t *testing.T) {
	reg := NewMapRegistry()
	cs := fhir.CodeSystem{URL: "http://example.org/colors", Version: "1.0.0", ContentMode: fhir.ContentComplete}
	p, err := provider.NewMemory(cs, nil)
	require.NoError(t, err)
	reg.Register(cs.URL, cs.Version, p, true)

	_, err = FindCodeSystem(reg, nil, cs.URL, "9.9.9")
	require.Error(t, err)
	var unknownVersion *ErrVersionUnknown
	assert.ErrorAs(t, err, &unknownVersion)
}

func TestFindCodeSystemResolvesRegistryDefault(t *testing.T) {
	reg := NewMapRegistry()
	cs := fhir.CodeSystem{URL: "http://example.org/colors", Version: "1.0.0", ContentMode: fhir.ContentComplete}
	p, err := provider.NewMemory(cs, nil)
	require.NoError(t, err)
	reg.Register(cs.URL, cs.Version, p, true)

	got, err := FindCodeSystem(reg, nil, cs.URL, "")
	require.NoError(t, err)
	assert.Equal(t, "1.0.0", got.Version())
}

func TestContextDeadCheckTripsOnExpiredDeadline(t *testing.T) {
	ctx := AcquireContext()
	defer ctx.Release()
	ctx.Deadline = time.Now().Add(-time.Second)

	err := ctx.DeadCheck("expand.include")
	require.Error(t, err)
	var tooCostly *ErrTooCostly
	assert.ErrorAs(t, err, &tooCostly)
}

func TestContextDeadCheckTripsOnCancel(t *testing.T) {
	ctx := AcquireContext()
	defer ctx.Release()
	ctx.Cancel()

	err := ctx.DeadCheck("lookup")
	require.Error(t, err)
}

func TestContextReleaseThenAcquireResets(t *testing.T) {
	ctx := AcquireContext()
	ctx.AddIssue(Issue{Code: "not-found"})
	ctx.RecordUsed(Used{System: "http://loinc.org", Version: "2.73"})
	ctx.Release()

	fresh := AcquireContext()
	defer fresh.Release()
	assert.Empty(t, fresh.Issues())
	assert.Empty(t, fresh.UsedTrail())
}

func TestAllowedContentModeEmptyListPermitsAny(t *testing.T) {
	cs := fhir.CodeSystem{URL: "http://example.org/colors", ContentMode: fhir.ContentFragment}
	p, err := provider.NewMemory(cs, nil)
	require.NoError(t, err)
	assert.True(t, AllowedContentMode(p, nil))
	assert.False(t, AllowedContentMode(p, []fhir.ContentMode{fhir.ContentComplete}))
}
