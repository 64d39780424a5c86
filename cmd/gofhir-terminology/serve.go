package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/golang/glog"
	"github.com/spf13/cobra"

	"github.com/gofhir/terminology"
	"github.com/gofhir/terminology/designation"
	"github.com/gofhir/terminology/lang"
	"github.com/gofhir/terminology/provider"
	"github.com/gofhir/terminology/semver"
	"github.com/gofhir/terminology/txcache"
	"github.com/gofhir/terminology/txop"
	"github.com/gofhir/terminology/txops"
	"github.com/gofhir/terminology/valueset"
)

// server bundles the resource store and the ambient terminology.Options
// every operation is evaluated under. Each request gets its own
// txop.Context (pooled) and ParameterBag; the server itself holds no
// per-request state.
type server struct {
	store    *store
	opts     *terminology.Options
	registry *lang.Registry
	expander *valueset.Expander
	metrics  *terminology.Metrics
}

func newServer(s *store, opts *terminology.Options) (*server, error) {
	reg, err := lang.LoadRegistry(lang.DefaultRegistryText)
	if err != nil {
		return nil, fmt.Errorf("load language registry: %w", err)
	}
	expander := &valueset.Expander{
		Providers: func(system, version string) (provider.Provider, string, error) {
			p, ok := s.registry.Resolve(system, version)
			if !ok {
				return nil, "", &txop.ErrSystemUnknown{System: system}
			}
			return p, p.Version(), nil
		},
		ValueSets: s.resolveValueSet,
		Cache:     txcache.NewLRU[string, *valueset.ExpandResult](opts.LRUCacheSize),
	}
	return &server{store: s, opts: opts, registry: reg, expander: expander, metrics: terminology.NewMetrics()}, nil
}

func (srv *server) preferences(r *http.Request) []lang.Preference {
	header := r.Header.Get("Accept-Language")
	if header == "" {
		header = srv.opts.DefaultLanguage
	}
	if header == "" {
		return nil
	}
	prefs, err := lang.ParsePreferenceList(srv.registry, header)
	if err != nil {
		log.V(1).Infof("ignoring Accept-Language %q: %v", header, err)
		return nil
	}
	return prefs
}

func (srv *server) newContext(r *http.Request) *txop.Context {
	ctx := txop.AcquireContext()
	ctx.MaxResults = srv.opts.ExpansionCap
	if srv.opts.Deadline > 0 {
		ctx.Deadline = time.Now().Add(srv.opts.Deadline)
	}
	ctx.Prefs = srv.preferences(r)
	return ctx
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Errorf("encode response: %v", err)
	}
}

// writeError maps an operation error to the five-way issue taxonomy via
// terminology.Issue.HTTPStatus, the same precedence rule the in-process
// Result type uses.
func writeError(w http.ResponseWriter, err error) {
	issue := classifyError(err)
	writeJSON(w, issue.HTTPStatus(), map[string]any{
		"error":   issue.Diagnostics,
		"details": issue.Details,
	})
}

func classifyError(err error) terminology.Issue {
	var (
		sysUnknown  *txop.ErrSystemUnknown
		verUnknown  *txop.ErrVersionUnknown
		pinConflict *txop.ErrPinConflict
		verMismatch *txop.ErrVersionMismatch
		tooCostly   *txop.ErrTooCostly
		notFound    *txops.ErrCodeNotFound
	)
	switch {
	case errors.As(err, &sysUnknown), errors.As(err, &verUnknown), errors.As(err, &notFound):
		return terminology.Error(terminology.IssueTypeNotFound).Diagnostics(err.Error()).Build()
	case errors.As(err, &tooCostly):
		return terminology.Error(terminology.IssueTypeTooCostly).Diagnostics(err.Error()).Build()
	case errors.As(err, &pinConflict):
		return terminology.Error(terminology.IssueTypeBusinessRule).Diagnostics(err.Error()).
			Details("SYSTEM_VERSION_MULTIPLE_OVERRIDE").Build()
	case errors.As(err, &verMismatch):
		return terminology.Error(terminology.IssueTypeBusinessRule).Diagnostics(err.Error()).
			Details("VALUESET_VERSION_CHECK").Build()
	case errors.Is(err, txops.ErrContextNotSupported):
		return terminology.Error(terminology.IssueTypeNotSupported).Diagnostics(err.Error()).Build()
	default:
		return terminology.Error(terminology.IssueTypeInvariant).Diagnostics(err.Error()).Build()
	}
}

func (srv *server) handleLookup(w http.ResponseWriter, r *http.Request) {
	bag := txop.FromValues(parseParams(r))
	ctx := srv.newContext(r)
	defer ctx.Release()
	start := time.Now()

	pins := txop.NewPinSet(bag)
	result, err := txops.Lookup(srv.store.registry, bag.TxResource, pins, txops.LookupRequest{
		System: bag.System, Version: bag.Version, Code: bag.Code, Properties: bag.Property,
	}, ctx.Prefs, ctx)
	srv.metrics.RecordOperation(time.Since(start), err == nil)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (srv *server) handleValidateCode(w http.ResponseWriter, r *http.Request) {
	bag := txop.FromValues(parseParams(r))
	ctx := srv.newContext(r)
	defer ctx.Release()
	start := time.Now()

	mode := srv.opts.DefaultValidation
	req := txops.ValidateCodeRequest{System: bag.System, Version: bag.Version, Code: bag.Code, Display: bag.Display, Mode: mode}

	var result *txops.ValidateCodeResult
	var err error
	if bag.URL != "" {
		result, err = txops.ValidateVS(srv.expander, srv.store.resolveValueSet, txops.ValidateVSRequest{
			URL: bag.URL, System: bag.System, Version: bag.Version, Code: bag.Code, Display: bag.Display, Mode: mode,
		}, ctx.Prefs, ctx)
	} else {
		pins := txop.NewPinSet(bag)
		result, err = txops.ValidateCode(srv.store.registry, bag.TxResource, pins, req, ctx.Prefs, ctx)
	}
	srv.metrics.RecordOperation(time.Since(start), err == nil)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (srv *server) handleExpand(w http.ResponseWriter, r *http.Request) {
	bag := txop.FromValues(parseParams(r))
	ctx := srv.newContext(r)
	defer ctx.Release()
	start := time.Now()

	result, err := txops.Expand(srv.expander, srv.store.resolveValueSet, txops.ExpandRequest{
		URL: bag.URL, Filter: bag.Filter, Count: bag.Count, Offset: bag.Offset,
		ActiveOnly: bag.ActiveOnly, IncludeDesignations: bag.IncludeDesignations,
	}, ctx.Prefs, ctx)
	srv.metrics.RecordOperation(time.Since(start), err == nil)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (srv *server) handleTranslate(w http.ResponseWriter, r *http.Request) {
	bag := txop.FromValues(parseParams(r))
	ctx := srv.newContext(r)
	defer ctx.Release()
	start := time.Now()

	result, err := txops.Translate(srv.store.resolveConceptMap, txops.TranslateRequest{
		ConceptMapURL: bag.URL, System: bag.System, Version: bag.Version, Code: bag.Code,
		CaseSensitive: true, TargetSystem: bag.TargetSystem,
	}, semver.Natural, ctx)
	srv.metrics.RecordOperation(time.Since(start), err == nil)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (srv *server) handleSubsumes(w http.ResponseWriter, r *http.Request) {
	bag := txop.FromValues(parseParams(r))
	ctx := srv.newContext(r)
	defer ctx.Release()
	start := time.Now()

	codes := r.URL.Query()
	pins := txop.NewPinSet(bag)
	result, err := txops.Subsumes(srv.store.registry, bag.TxResource, pins, txops.SubsumesRequest{
		System: bag.System, Version: bag.Version, CodeA: codes.Get("codeA"), CodeB: codes.Get("codeB"),
	}, ctx)
	srv.metrics.RecordOperation(time.Since(start), err == nil)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (srv *server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, srv.metrics.Export())
}

func parseParams(r *http.Request) map[string][]string {
	if err := r.ParseForm(); err != nil {
		log.V(2).Infof("parse form: %v", err)
	}
	return map[string][]string(r.Form)
}

func newServeCmd() *cobra.Command {
	var (
		resourceDir string
		addr        string
		expansionCap int
		deadline    time.Duration
		validation  string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve $lookup/$validate-code/$expand/$translate/$subsumes over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			s := newStore()
			if resourceDir != "" {
				n, err := s.loadDir(resourceDir)
				if err != nil {
					return err
				}
				log.Infof("loaded %d resource(s) from %s", n, resourceDir)
			}

			mode := designation.CaseInsensitive
			if validation == "exact" {
				mode = designation.Exact
			}
			opts := terminology.DefaultOptions()
			terminology.WithExpansionCap(expansionCap)(opts)
			terminology.WithDeadline(deadline)(opts)
			terminology.WithDefaultValidationMode(mode)(opts)

			srv, err := newServer(s, opts)
			if err != nil {
				return err
			}

			mux := http.NewServeMux()
			mux.HandleFunc("/CodeSystem/$lookup", srv.handleLookup)
			mux.HandleFunc("/CodeSystem/$validate-code", srv.handleValidateCode)
			mux.HandleFunc("/ValueSet/$validate-code", srv.handleValidateCode)
			mux.HandleFunc("/ValueSet/$expand", srv.handleExpand)
			mux.HandleFunc("/ConceptMap/$translate", srv.handleTranslate)
			mux.HandleFunc("/CodeSystem/$subsumes", srv.handleSubsumes)
			mux.HandleFunc("/metrics", srv.handleMetrics)

			httpServer := &http.Server{Addr: addr, Handler: mux}

			errCh := make(chan error, 1)
			go func() {
				log.Infof("listening on %s", addr)
				errCh <- httpServer.ListenAndServe()
			}()

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

			select {
			case err := <-errCh:
				if err != nil && !errors.Is(err, http.ErrServerClosed) {
					return err
				}
			case sig := <-sigCh:
				log.Infof("received %s, shutting down", sig)
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				return httpServer.Shutdown(shutdownCtx)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&resourceDir, "resources", "", "directory of CodeSystem/ValueSet/ConceptMap JSON files to load at startup")
	cmd.Flags().StringVar(&addr, "addr", ":8080", "address to listen on")
	cmd.Flags().IntVar(&expansionCap, "expansion-cap", 1000, "maximum concepts returned by $expand before too-costly")
	cmd.Flags().DurationVar(&deadline, "deadline", 10*time.Second, "per-operation deadline")
	cmd.Flags().StringVar(&validation, "validation-mode", "case-insensitive", "display validation mode: exact or case-insensitive")
	return cmd
}
