package provider

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gofhir/terminology/fhir"
)

func propertyCodeSystem() fhir.CodeSystem {
	return fhir.CodeSystem{
		URL:           "http://example.org/status",
		CaseSensitive: true,
		Concept: []fhir.Concept{
			{Code: "draft", Display: "Draft", Property: []fhir.ConceptProperty{
				{Code: "status", Value: fhir.PropertyValue{String: "pending"}},
				{Code: "notified", Value: fhir.PropertyValue{Boolean: true}},
			}},
			{Code: "active", Display: "Active", Property: []fhir.ConceptProperty{
				{Code: "status", Value: fhir.PropertyValue{String: "live"}},
			}},
			{Code: "retired", Display: "Retired", Property: []fhir.ConceptProperty{
				{Code: "status", Value: fhir.PropertyValue{String: "live"}},
			}},
		},
	}
}

func TestFilterEqualsOnProperty(t *testing.T) {
	m, err := NewMemory(propertyCodeSystem(), nil)
	require.NoError(t, err)

	it, err := m.Iterator([]fhir.ConceptSetFilter{{Property: "status", Op: fhir.FilterEquals, Value: "live"}})
	require.NoError(t, err)

	var codes []string
	for {
		h, ok := it.Next()
		if !ok {
			break
		}
		codes = append(codes, m.Code(h))
	}
	assert.ElementsMatch(t, []string{"active", "retired"}, codes)
}

func TestFilterRegexOnCode(t *testing.T) {
	m, err := NewMemory(propertyCodeSystem(), nil)
	require.NoError(t, err)

	it, err := m.Iterator([]fhir.ConceptSetFilter{{Property: "code", Op: fhir.FilterRegex, Value: "^a"}})
	require.NoError(t, err)

	h, ok := it.Next()
	require.True(t, ok)
	assert.Equal(t, "active", m.Code(h))
	_, ok = it.Next()
	assert.False(t, ok)
}

func TestFilterInAndNotIn(t *testing.T) {
	m, err := NewMemory(propertyCodeSystem(), nil)
	require.NoError(t, err)

	it, err := m.Iterator([]fhir.ConceptSetFilter{{Property: "status", Op: fhir.FilterIn, Value: "pending,live"}})
	require.NoError(t, err)
	var codes []string
	for {
		h, ok := it.Next()
		if !ok {
			break
		}
		codes = append(codes, m.Code(h))
	}
	assert.ElementsMatch(t, []string{"draft", "active", "retired"}, codes)

	it, err = m.Iterator([]fhir.ConceptSetFilter{{Property: "status", Op: fhir.FilterNotIn, Value: "live"}})
	require.NoError(t, err)
	codes = nil
	for {
		h, ok := it.Next()
		if !ok {
			break
		}
		codes = append(codes, m.Code(h))
	}
	assert.ElementsMatch(t, []string{"draft"}, codes)
}

func TestFilterExists(t *testing.T) {
	m, err := NewMemory(propertyCodeSystem(), nil)
	require.NoError(t, err)

	it, err := m.Iterator([]fhir.ConceptSetFilter{{Property: "notified", Op: fhir.FilterExists, Value: "true"}})
	require.NoError(t, err)
	h, ok := it.Next()
	require.True(t, ok)
	assert.Equal(t, "draft", m.Code(h))
	_, ok = it.Next()
	assert.False(t, ok)
}

func TestFilterConjunction(t *testing.T) {
	m, err := NewMemory(propertyCodeSystem(), nil)
	require.NoError(t, err)

	it, err := m.Iterator([]fhir.ConceptSetFilter{
		{Property: "status", Op: fhir.FilterEquals, Value: "live"},
		{Property: "code", Op: fhir.FilterRegex, Value: "^r"},
	})
	require.NoError(t, err)
	h, ok := it.Next()
	require.True(t, ok)
	assert.Equal(t, "retired", m.Code(h))
	_, ok = it.Next()
	assert.False(t, ok)
}

func TestCompileFilterRejectsInvalidRegex(t *testing.T) {
	_, err := compileFilter(fhir.ConceptSetFilter{Property: "code", Op: fhir.FilterRegex, Value: "(unterminated"})
	require.Error(t, err)
}
