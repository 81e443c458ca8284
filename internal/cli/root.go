// Package cli implements the opendata command-line interface.
//
// This package provides commands for fetching open-data catalog snapshots
// from Socrata-style portals, computing descriptive statistics, comparing
// what a portal publishes against what its visitors actually use, and
// rendering full reports. The CLI is built using cobra and supports verbose
// logging via the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - fetch: Download a catalog snapshot and save the flattened records
//   - stats: Print descriptive statistics for a catalog
//   - compare: Rank supply against demand per category or datatype
//   - report: Run the full analysis and write report artifacts
//   - browse: Interactively browse catalog records
//   - cache: Manage the HTTP response cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context to allow structured progress tracking.
package cli

import (
	"context"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/ccong2/austin-open-data/pkg/buildinfo"
)

// appName is the application name used for directories and display.
const appName = "opendata"

// Execute runs the opendata CLI against ctx and returns an error if any
// command fails. The logger is attached to the context and accessible to
// all commands via loggerFromContext.
func Execute(ctx context.Context) error {
	var verbose bool

	root := &cobra.Command{
		Use:          appName,
		Short:        "Opendata analyzes municipal open-data catalogs",
		Long:         `Opendata fetches the catalog of a Socrata-style open-data portal and analyzes what the portal publishes against what its visitors download and view.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := charmlog.InfoLevel
			if verbose {
				level = charmlog.DebugLevel
			}
			cmd.SetContext(withLogger(cmd.Context(), newLogger(os.Stderr, level)))
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(newFetchCmd())
	root.AddCommand(newStatsCmd())
	root.AddCommand(newCompareCmd())
	root.AddCommand(newReportCmd())
	root.AddCommand(newBrowseCmd())
	root.AddCommand(newCacheCmd())
	root.AddCommand(newCompletionCmd())

	return root.ExecuteContext(ctx)
}
