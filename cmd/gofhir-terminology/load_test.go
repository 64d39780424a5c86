package main

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTestFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func TestStore_LoadDir(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, dir, "colors.json", `{
		"resourceType": "CodeSystem",
		"url": "http://example.org/fhir/CodeSystem/colors",
		"version": "1.0.0",
		"content": "complete",
		"concept": [{"code": "red", "display": "Red"}]
	}`)
	writeTestFile(t, dir, "warm.json", `{
		"resourceType": "ValueSet",
		"url": "http://example.org/fhir/ValueSet/warm-colors",
		"compose": {"include": [{"system": "http://example.org/fhir/CodeSystem/colors", "concept": [{"code": "red"}]}]}
	}`)
	writeTestFile(t, dir, "not-a-resource.txt", "ignored, not .json")
	writeTestFile(t, dir, "bad.json", `{not valid json`)

	s := newStore()
	n, err := s.loadDir(dir)
	if err != nil {
		t.Fatalf("loadDir: %v", err)
	}
	if n != 2 {
		t.Errorf("loaded = %d; want 2 (bad.json should be skipped, not counted)", n)
	}
	if s.codeSystemCount != 1 {
		t.Errorf("codeSystemCount = %d; want 1", s.codeSystemCount)
	}
	if len(s.valueSets) != 1 {
		t.Errorf("valueSets = %d; want 1", len(s.valueSets))
	}
	if !s.registry.Known("http://example.org/fhir/CodeSystem/colors") {
		t.Error("registry should know the loaded CodeSystem's URL")
	}
}

func TestStore_ResolveValueSet_Unknown(t *testing.T) {
	s := newStore()
	if _, err := s.resolveValueSet("http://example.org/fhir/ValueSet/nope"); err == nil {
		t.Error("expected an error resolving an unregistered ValueSet")
	}
}

func TestStore_ResolveConceptMap_Unknown(t *testing.T) {
	s := newStore()
	if _, err := s.resolveConceptMap("http://example.org/fhir/ConceptMap/nope"); err == nil {
		t.Error("expected an error resolving an unregistered ConceptMap")
	}
}
