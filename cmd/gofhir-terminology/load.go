package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	log "github.com/golang/glog"
	"github.com/spf13/cobra"

	"github.com/gofhir/terminology/fhir"
	"github.com/gofhir/terminology/provider"
	"github.com/gofhir/terminology/txop"
)

// store is the process-wide in-memory resource set a loaded terminology
// server operates against: a Registry of compiled providers plus raw
// ValueSet/ConceptMap maps keyed by canonical URL. serve and load share
// it; load populates it, serve resolves against it.
type store struct {
	registry       *txop.MapRegistry
	valueSets      map[string]*fhir.ValueSet
	conceptMaps    map[string]*fhir.ConceptMap
	codeSystemCount int
}

func newStore() *store {
	return &store{
		registry:    txop.NewMapRegistry(),
		valueSets:   make(map[string]*fhir.ValueSet),
		conceptMaps: make(map[string]*fhir.ConceptMap),
	}
}

// loadDir walks dir for *.json files and registers every CodeSystem,
// ValueSet, and ConceptMap it decodes. Files that fail to parse or name
// an unsupported resourceType are logged and skipped rather than
// aborting the whole load, since a directory of mixed FHIR resources
// (conformance, examples) is the common case.
func (s *store) loadDir(dir string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("read %s: %w", dir, err)
	}

	loaded := 0
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		path := filepath.Join(dir, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			log.Errorf("read %s: %v", path, err)
			continue
		}
		res, err := decodeResource(data)
		if err != nil {
			log.Warningf("skip %s: %v", path, err)
			continue
		}

		switch {
		case res.CodeSystem != nil:
			if err := s.addCodeSystem(res.CodeSystem); err != nil {
				log.Errorf("register CodeSystem from %s: %v", path, err)
				continue
			}
			log.V(1).Infof("loaded CodeSystem %s|%s from %s", res.CodeSystem.URL, res.CodeSystem.Version, path)
		case res.ValueSet != nil:
			s.valueSets[res.ValueSet.URL] = res.ValueSet
			log.V(1).Infof("loaded ValueSet %s from %s", res.ValueSet.URL, path)
		case res.ConceptMap != nil:
			s.conceptMaps[res.ConceptMap.URL] = res.ConceptMap
			log.V(1).Infof("loaded ConceptMap %s from %s", res.ConceptMap.URL, path)
		}
		loaded++
	}
	return loaded, nil
}

func (s *store) addCodeSystem(cs *fhir.CodeSystem) error {
	p, err := provider.NewMemory(*cs, nil)
	if err != nil {
		return err
	}
	s.registry.Register(cs.URL, cs.Version, p, false)
	s.codeSystemCount++
	return nil
}

func (s *store) resolveValueSet(url string) (*fhir.ValueSet, error) {
	vs, ok := s.valueSets[url]
	if !ok {
		return nil, fmt.Errorf("not-found: unknown ValueSet %q", url)
	}
	return vs, nil
}

func (s *store) resolveConceptMap(url string) (*fhir.ConceptMap, error) {
	cm, ok := s.conceptMaps[url]
	if !ok {
		return nil, fmt.Errorf("not-found: unknown ConceptMap %q", url)
	}
	return cm, nil
}

func newLoadCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "load <dir>",
		Short: "Validate a directory of CodeSystem/ValueSet/ConceptMap JSON files",
		Long:  "load reads every *.json file in dir, decodes it as a CodeSystem, ValueSet, or ConceptMap, and reports what it found. It does not start a server; use serve --resources for that.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := newStore()
			n, err := s.loadDir(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "loaded %d resource(s): %d CodeSystem(s), %d ValueSet(s), %d ConceptMap(s)\n",
				n, s.codeSystemCount, len(s.valueSets), len(s.conceptMaps))
			return nil
		},
	}
	return cmd
}
