package main

import (
	"encoding/json"
	"fmt"

	"github.com/buger/jsonparser"

	"github.com/gofhir/terminology/fhir"
)

// The internal fhir package (SPEC_FULL.md §6) deliberately carries no
// JSON tags: wire-format conversion lives outside the core. These wire*
// types are the thin R5 JSON shape this CLI understands for the three
// terminology resource types; decodeResource dispatches on
// resourceType and converts into the internal fhir.* shapes the rest
// of the server operates on.

type wireValue struct {
	ValueCode    string `json:"valueCode,omitempty"`
	ValueString  string `json:"valueString,omitempty"`
	ValueBoolean *bool  `json:"valueBoolean,omitempty"`
	ValueInteger *int64 `json:"valueInteger,omitempty"`
	ValueDecimal string `json:"valueDecimal,omitempty"`
	ValueCoding  *wireCoding `json:"valueCoding,omitempty"`
}

func (v wireValue) toPropertyValue() fhir.PropertyValue {
	switch {
	case v.ValueCoding != nil:
		c := v.ValueCoding.toCoding()
		return fhir.PropertyValue{Kind: fhir.PropertyCoding, Coding: &c}
	case v.ValueBoolean != nil:
		return fhir.PropertyValue{Kind: fhir.PropertyBoolean, Boolean: *v.ValueBoolean}
	case v.ValueInteger != nil:
		return fhir.PropertyValue{Kind: fhir.PropertyInteger, Integer: *v.ValueInteger}
	case v.ValueDecimal != "":
		return fhir.PropertyValue{Kind: fhir.PropertyDecimal, Decimal: v.ValueDecimal}
	case v.ValueCode != "":
		return fhir.PropertyValue{Kind: fhir.PropertyCode, Code: v.ValueCode, String: v.ValueCode}
	default:
		return fhir.PropertyValue{Kind: fhir.PropertyString, String: v.ValueString}
	}
}

type wireCoding struct {
	System  string `json:"system,omitempty"`
	Version string `json:"version,omitempty"`
	Code    string `json:"code,omitempty"`
	Display string `json:"display,omitempty"`
}

func (c wireCoding) toCoding() fhir.Coding {
	return fhir.Coding{System: c.System, Version: c.Version, Code: c.Code, Display: c.Display}
}

type wireDesignation struct {
	Language string `json:"language,omitempty"`
	Use      *wireCoding `json:"use,omitempty"`
	Value    string `json:"value,omitempty"`
}

func (d wireDesignation) toDesignation() fhir.Designation {
	out := fhir.Designation{Language: d.Language, Value: d.Value}
	if d.Use != nil {
		c := d.Use.toCoding()
		out.Use = &c
	}
	return out
}

type wireConceptProperty struct {
	Code string `json:"code"`
	wireValue
}

type wireConcept struct {
	Code        string                `json:"code"`
	Display     string                `json:"display,omitempty"`
	Designation []wireDesignation     `json:"designation,omitempty"`
	Property    []wireConceptProperty `json:"property,omitempty"`
	Concept     []wireConcept         `json:"concept,omitempty"`
}

func (c wireConcept) toConcept() fhir.Concept {
	out := fhir.Concept{Code: c.Code, Display: c.Display}
	for _, d := range c.Designation {
		out.Designation = append(out.Designation, d.toDesignation())
	}
	for _, p := range c.Property {
		out.Property = append(out.Property, fhir.ConceptProperty{Code: p.Code, Value: p.wireValue.toPropertyValue()})
	}
	for _, child := range c.Concept {
		out.Concept = append(out.Concept, child.toConcept())
	}
	return out
}

type wirePropertyDefinition struct {
	Code        string `json:"code"`
	URI         string `json:"uri,omitempty"`
	Description string `json:"description,omitempty"`
	Type        string `json:"type,omitempty"`
}

func (p wirePropertyDefinition) toDefinition() fhir.PropertyDefinition {
	kind := fhir.PropertyString
	switch p.Type {
	case "code":
		kind = fhir.PropertyCode
	case "Coding":
		kind = fhir.PropertyCoding
	case "integer":
		kind = fhir.PropertyInteger
	case "boolean":
		kind = fhir.PropertyBoolean
	case "dateTime":
		kind = fhir.PropertyDateTime
	case "decimal":
		kind = fhir.PropertyDecimal
	}
	return fhir.PropertyDefinition{Code: p.Code, URI: p.URI, Description: p.Description, Kind: kind}
}

type wireCodeSystem struct {
	ResourceType     string                   `json:"resourceType"`
	ID               string                   `json:"id,omitempty"`
	URL              string                   `json:"url,omitempty"`
	Version          string                   `json:"version,omitempty"`
	Name             string                   `json:"name,omitempty"`
	Content          string                   `json:"content,omitempty"`
	CaseSensitive    *bool                    `json:"caseSensitive,omitempty"`
	VersionAlgorithm string                   `json:"versionAlgorithmString,omitempty"`
	Supplements      []string                 `json:"supplements,omitempty"`
	Property         []wirePropertyDefinition `json:"property,omitempty"`
	Concept          []wireConcept            `json:"concept,omitempty"`
}

func (cs wireCodeSystem) toCodeSystem() fhir.CodeSystem {
	out := fhir.CodeSystem{
		ID: cs.ID, URL: cs.URL, Version: cs.Version, Name: cs.Name,
		ContentMode:      fhir.ContentMode(cs.Content),
		CaseSensitive:    cs.CaseSensitive == nil || *cs.CaseSensitive,
		VersionAlgorithm: cs.VersionAlgorithm,
		Supplements:      cs.Supplements,
	}
	for _, p := range cs.Property {
		out.Property = append(out.Property, p.toDefinition())
	}
	for _, c := range cs.Concept {
		out.Concept = append(out.Concept, c.toConcept())
	}
	return out
}

type wireConceptReference struct {
	Code        string            `json:"code"`
	Display     string            `json:"display,omitempty"`
	Designation []wireDesignation `json:"designation,omitempty"`
}

type wireConceptSetFilter struct {
	Property string `json:"property"`
	Op       string `json:"op"`
	Value    string `json:"value"`
}

type wireConceptSetComponent struct {
	System  string                 `json:"system,omitempty"`
	Version string                 `json:"version,omitempty"`
	Concept []wireConceptReference `json:"concept,omitempty"`
	Filter  []wireConceptSetFilter `json:"filter,omitempty"`
	ValueSet []string              `json:"valueSet,omitempty"`
}

func (c wireConceptSetComponent) toComponent() fhir.ConceptSetComponent {
	out := fhir.ConceptSetComponent{System: c.System, Version: c.Version, ValueSet: c.ValueSet}
	for _, ref := range c.Concept {
		cr := fhir.ConceptReference{Code: ref.Code, Display: ref.Display}
		for _, d := range ref.Designation {
			cr.Designation = append(cr.Designation, d.toDesignation())
		}
		out.Concept = append(out.Concept, cr)
	}
	for _, f := range c.Filter {
		out.Filter = append(out.Filter, fhir.ConceptSetFilter{
			Property: f.Property, Op: fhir.FilterOperator(f.Op), Value: f.Value,
		})
	}
	return out
}

type wireCompose struct {
	LockedDate string                    `json:"lockedDate,omitempty"`
	Inactive   bool                      `json:"inactive,omitempty"`
	Include    []wireConceptSetComponent `json:"include,omitempty"`
	Exclude    []wireConceptSetComponent `json:"exclude,omitempty"`
}

type wireValueSet struct {
	ResourceType string       `json:"resourceType"`
	ID           string       `json:"id,omitempty"`
	URL          string       `json:"url,omitempty"`
	Version      string       `json:"version,omitempty"`
	Name         string       `json:"name,omitempty"`
	Language     string       `json:"language,omitempty"`
	Compose      *wireCompose `json:"compose,omitempty"`
}

func (vs wireValueSet) toValueSet() fhir.ValueSet {
	out := fhir.ValueSet{ID: vs.ID, URL: vs.URL, Version: vs.Version, Name: vs.Name, Language: vs.Language}
	if vs.Compose != nil {
		compose := &fhir.Compose{LockedDate: vs.Compose.LockedDate, Inactive: vs.Compose.Inactive}
		for _, inc := range vs.Compose.Include {
			compose.Include = append(compose.Include, inc.toComponent())
		}
		for _, exc := range vs.Compose.Exclude {
			compose.Exclude = append(compose.Exclude, exc.toComponent())
		}
		out.Compose = compose
	}
	return out
}

type wireTargetElement struct {
	Code         string `json:"code"`
	Display      string `json:"display,omitempty"`
	Relationship string `json:"relationship,omitempty"` // R5
	Equivalence  string `json:"equivalence,omitempty"`  // R3/R4
	Comment      string `json:"comment,omitempty"`
}

func (t wireTargetElement) toTargetElement() fhir.TargetElement {
	rel := t.Relationship
	if rel == "" && t.Equivalence != "" {
		rel = equivalenceToRelationshipString(t.Equivalence)
	}
	return fhir.TargetElement{Code: t.Code, Display: t.Display, Relationship: fhir.Relationship(rel), Comment: t.Comment}
}

type wireSourceElement struct {
	Code    string              `json:"code"`
	Display string              `json:"display,omitempty"`
	Target  []wireTargetElement `json:"target,omitempty"`
}

type wireConceptMapGroup struct {
	Source        string              `json:"source,omitempty"`
	SourceVersion string              `json:"sourceVersion,omitempty"`
	Target        string              `json:"target,omitempty"`
	TargetVersion string              `json:"targetVersion,omitempty"`
	Element       []wireSourceElement `json:"element,omitempty"`
}

type wireConceptMap struct {
	ResourceType string                 `json:"resourceType"`
	ID           string                 `json:"id,omitempty"`
	URL          string                 `json:"url,omitempty"`
	Version      string                 `json:"version,omitempty"`
	Name         string                 `json:"name,omitempty"`
	Group        []wireConceptMapGroup  `json:"group,omitempty"`
}

func (cm wireConceptMap) toConceptMap() fhir.ConceptMap {
	out := fhir.ConceptMap{ID: cm.ID, URL: cm.URL, Version: cm.Version, Name: cm.Name}
	for _, g := range cm.Group {
		group := fhir.ConceptMapGroup{
			Source: g.Source, SourceVersion: g.SourceVersion,
			Target: g.Target, TargetVersion: g.TargetVersion,
		}
		for _, el := range g.Element {
			se := fhir.SourceElement{Code: el.Code, Display: el.Display}
			for _, t := range el.Target {
				se.Target = append(se.Target, t.toTargetElement())
			}
			group.Element = append(group.Element, se)
		}
		out.Group = append(out.Group, group)
	}
	return out
}

// equivalenceToRelationshipString maps an R3/R4 ConceptMap.equivalence
// code to its R5 relationship equivalent, mirroring conceptmap.ToRelationship
// but operating on the raw wire string so decoding never has to import
// the conceptmap package just to read a file.
func equivalenceToRelationshipString(equivalence string) string {
	switch equivalence {
	case "equal", "equivalent":
		return "equivalent"
	case "wider", "subsumes":
		return "source-is-broader-than-target"
	case "narrower", "specializes":
		return "source-is-narrower-than-target"
	case "relatedto":
		return "related-to"
	case "inexact", "unmatched", "disjoint":
		return "not-related-to"
	default:
		return "not-related-to"
	}
}

// decodedResource is whichever of the three terminology resource types
// one JSON document decoded to.
type decodedResource struct {
	CodeSystem *fhir.CodeSystem
	ValueSet   *fhir.ValueSet
	ConceptMap *fhir.ConceptMap
}

// decodeResource sniffs resourceType with a single-field scan (no need
// to unmarshal the whole document just to route it) and decodes into
// the matching internal shape.
func decodeResource(data []byte) (*decodedResource, error) {
	resourceType, err := jsonparser.GetString(data, "resourceType")
	if err != nil {
		return nil, fmt.Errorf("read resourceType: %w", err)
	}

	switch resourceType {
	case "CodeSystem":
		var w wireCodeSystem
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, fmt.Errorf("decode CodeSystem: %w", err)
		}
		cs := w.toCodeSystem()
		return &decodedResource{CodeSystem: &cs}, nil
	case "ValueSet":
		var w wireValueSet
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, fmt.Errorf("decode ValueSet: %w", err)
		}
		vs := w.toValueSet()
		return &decodedResource{ValueSet: &vs}, nil
	case "ConceptMap":
		var w wireConceptMap
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, fmt.Errorf("decode ConceptMap: %w", err)
		}
		cm := w.toConceptMap()
		return &decodedResource{ConceptMap: &cm}, nil
	default:
		return nil, fmt.Errorf("unsupported resourceType %q", resourceType)
	}
}
