package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ccong2/austin-open-data/pkg/catalog"
)

// fetchOpts holds the command-line flags for the fetch command.
type fetchOpts struct {
	source sourceOpts
	output string // output file path (stdout if empty)
}

// newFetchCmd creates the fetch command. It downloads a catalog snapshot,
// flattens it into records, and writes them as JSON for later analysis.
func newFetchCmd() *cobra.Command {
	var opts fetchOpts

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Fetch a catalog snapshot and save the flattened records",
		Long: `Fetch the full asset catalog of an open-data portal and save the
flattened records as JSON.

The saved file can be fed to stats, compare, report, and browse via --input,
so one snapshot supports many analysis runs.

Examples:
  opendata fetch                                  # Austin portal, stdout
  opendata fetch -d data.seattle.gov -o seattle.json
  opendata fetch --limit 500 --refresh -o fresh.json`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			return runFetch(c, &opts)
		},
	}

	addSourceFlags(cmd, &opts.source)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (stdout if empty)")
	// fetch always hits the catalog, a saved file as input makes no sense here
	_ = cmd.Flags().MarkHidden("input")

	return cmd
}

func runFetch(cmd *cobra.Command, opts *fetchOpts) error {
	ctx := cmd.Context()
	opts.source.input = ""

	records, err := loadRecords(ctx, opts.source)
	if err != nil {
		return err
	}

	out, err := openOutput(opts.output)
	if err != nil {
		return err
	}
	defer out.Close()

	if err := catalog.WriteRecords(records, out); err != nil {
		return err
	}
	if opts.output != "" {
		printSuccess("Saved %d records", len(records))
		printFile(opts.output)
		printDetail("Analyze with: %s", fmt.Sprintf("opendata report -i %s", opts.output))
	}
	return nil
}
