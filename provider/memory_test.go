package provider

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gofhir/terminology/fhir"
)

func genderCodeSystem() fhir.CodeSystem {
	return fhir.CodeSystem{
		URL:           "http://hl7.org/fhir/administrative-gender",
		Version:       "5.0.0",
		ContentMode:   fhir.ContentComplete,
		CaseSensitive: true,
		Concept: []fhir.Concept{
			{Code: "male", Display: "Male"},
			{Code: "female", Display: "Female"},
			{Code: "other", Display: "Other"},
			{Code: "unknown", Display: "Unknown"},
		},
	}
}

func hierarchicalCodeSystem() fhir.CodeSystem {
	return fhir.CodeSystem{
		URL:           "http://example.org/animals",
		ContentMode:   fhir.ContentComplete,
		CaseSensitive: false,
		Concept: []fhir.Concept{
			{Code: "animal", Display: "Animal", Concept: []fhir.Concept{
				{Code: "mammal", Display: "Mammal", Concept: []fhir.Concept{
					{Code: "dog", Display: "Dog"},
					{Code: "cat", Display: "Cat"},
				}},
				{Code: "bird", Display: "Bird"},
			}},
		},
	}
}

func TestMemoryLocate(t *testing.T) {
	m, err := NewMemory(genderCodeSystem(), nil)
	require.NoError(t, err)

	h, diag, err := m.Locate("male")
	require.NoError(t, err)
	assert.Empty(t, diag)
	assert.Equal(t, "Male", m.Display(h, nil))

	_, diag, err = m.Locate("xyz")
	require.NoError(t, err)
	assert.NotEmpty(t, diag)
}

func TestMemoryCaseInsensitiveLocateIsInvariantUnderCaseChange(t *testing.T) {
	m, err := NewMemory(hierarchicalCodeSystem(), nil)
	require.NoError(t, err)

	h1, _, _ := m.Locate("Dog")
	h2, _, _ := m.Locate("dog")
	h3, _, _ := m.Locate("DOG")
	assert.Equal(t, h1, h2)
	assert.Equal(t, h2, h3)
	assert.Equal(t, "dog", m.Code(h1))
}

func TestMemorySubsumption(t *testing.T) {
	m, err := NewMemory(hierarchicalCodeSystem(), nil)
	require.NoError(t, err)

	animal, _, _ := m.Locate("animal")
	dog, _, _ := m.Locate("dog")
	cat, _, _ := m.Locate("cat")

	result, err := m.SubsumesTest(animal, dog)
	require.NoError(t, err)
	assert.Equal(t, Subsumes, result)

	result, err = m.SubsumesTest(dog, animal)
	require.NoError(t, err)
	assert.Equal(t, SubsumedBy, result)

	result, err = m.SubsumesTest(dog, cat)
	require.NoError(t, err)
	assert.Equal(t, NotSubsumed, result)

	result, err = m.SubsumesTest(dog, dog)
	require.NoError(t, err)
	assert.Equal(t, Equivalent, result)
}

func TestMemoryIteratorIsADescendants(t *testing.T) {
	m, err := NewMemory(hierarchicalCodeSystem(), nil)
	require.NoError(t, err)

	it, err := m.Iterator([]fhir.ConceptSetFilter{{Property: "concept", Op: fhir.FilterIsA, Value: "mammal"}})
	require.NoError(t, err)

	var codes []string
	for {
		h, ok := it.Next()
		if !ok {
			break
		}
		codes = append(codes, m.Code(h))
	}
	assert.ElementsMatch(t, []string{"mammal", "dog", "cat"}, codes)
}

func TestMemoryIteratorDescendentOfExcludesSelf(t *testing.T) {
	m, err := NewMemory(hierarchicalCodeSystem(), nil)
	require.NoError(t, err)

	it, err := m.Iterator([]fhir.ConceptSetFilter{{Property: "concept", Op: fhir.FilterDescendentOf, Value: "mammal"}})
	require.NoError(t, err)

	var codes []string
	for {
		h, ok := it.Next()
		if !ok {
			break
		}
		codes = append(codes, m.Code(h))
	}
	assert.ElementsMatch(t, []string{"dog", "cat"}, codes)
}

func TestMemoryIteratorRestartable(t *testing.T) {
	m, err := NewMemory(genderCodeSystem(), nil)
	require.NoError(t, err)

	it, err := m.Iterator(nil)
	require.NoError(t, err)

	var first []string
	for {
		h, ok := it.Next()
		if !ok {
			break
		}
		first = append(first, m.Code(h))
	}
	it.Reset()
	var second []string
	for {
		h, ok := it.Next()
		if !ok {
			break
		}
		second = append(second, m.Code(h))
	}
	assert.Equal(t, first, second)
	assert.Len(t, first, 4)
}

func TestMemoryIteratorRejectsUnknownOperator(t *testing.T) {
	m, err := NewMemory(genderCodeSystem(), nil)
	require.NoError(t, err)

	_, err = m.Iterator([]fhir.ConceptSetFilter{{Property: "code", Op: "nonsense", Value: "x"}})
	require.Error(t, err)
	var unsupported *ErrUnsupportedFilter
	assert.ErrorAs(t, err, &unsupported)
}

func TestMemoryFilterLocate(t *testing.T) {
	m, err := NewMemory(hierarchicalCodeSystem(), nil)
	require.NoError(t, err)

	h, err := m.FilterLocate([]fhir.ConceptSetFilter{{Property: "concept", Op: fhir.FilterIsA, Value: "mammal"}}, "dog")
	require.NoError(t, err)
	assert.NotEmpty(t, h)

	h, err = m.FilterLocate([]fhir.ConceptSetFilter{{Property: "concept", Op: fhir.FilterIsA, Value: "mammal"}}, "bird")
	require.NoError(t, err)
	assert.Empty(t, h)
}

func TestMemoryRejectsDuplicateCode(t *testing.T) {
	cs := fhir.CodeSystem{
		URL: "http://example.org/dup",
		Concept: []fhir.Concept{
			{Code: "a", Display: "A"},
			{Code: "a", Display: "A again"},
		},
	}
	_, err := NewMemory(cs, nil)
	require.Error(t, err)
}
