// Package main implements gofhir-terminology, a CLI and demo HTTP server
// exercising the $lookup/$validate-code/$expand/$translate/$subsumes
// terminology operations over a directory of CodeSystem/ValueSet/
// ConceptMap JSON files.
package main

import (
	"flag"
	"fmt"
	"os"

	log "github.com/golang/glog"
	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	defer log.Flush()

	if err := execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func execute() error {
	rootCmd := newRootCmd()
	return rootCmd.Execute()
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "gofhir-terminology",
		Short: "A FHIR terminology server: $lookup, $validate-code, $expand, $translate, $subsumes",
		Long: `gofhir-terminology evaluates the core FHIR terminology operations
against an in-memory set of CodeSystem, ValueSet, and ConceptMap resources:

  - CodeSystem/$lookup
  - CodeSystem/$validate-code and ValueSet/$validate-code
  - ValueSet/$expand
  - ConceptMap/$translate
  - CodeSystem/$subsumes

Use "load" to sanity-check a resource directory, or "serve" to expose the
operations over HTTP.`,
	}

	// glog's verbosity/log-dir flags live on the stdlib flag.CommandLine;
	// folding them into the root command's pflag set lets "-v=2" etc. work
	// alongside cobra's own subcommand flags instead of requiring a separate
	// flag.Parse() pass that would choke on cobra-only flags.
	rootCmd.PersistentFlags().AddGoFlagSet(flag.CommandLine)

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newLoadCmd())
	rootCmd.AddCommand(newServeCmd())

	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Printf("gofhir-terminology version %s\n", version)
		},
	}
}
