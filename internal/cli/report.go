package cli

import (
	"github.com/spf13/cobra"

	"github.com/ccong2/austin-open-data/pkg/analysis"
	"github.com/ccong2/austin-open-data/pkg/report"
)

// reportOpts holds the command-line flags for the report command.
type reportOpts struct {
	source  sourceOpts
	groupBy string
	topTags int
	theme   string
	outDir  string
	json    bool
}

// newReportCmd creates the report command, which runs the full analysis and
// renders it as styled terminal tables plus optional file artifacts.
func newReportCmd() *cobra.Command {
	opts := reportOpts{groupBy: string(analysis.GroupByCategory), topTags: 15}

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Run the full analysis and render a report",
		Long: `Run the full catalog analysis and render it as a report: descriptive
statistics, the supply/demand comparison, and datatype usage shares.

With --out, the report also writes file artifacts into the given directory:
SVG bar charts, a Graphviz map linking categories to resource types, and a
JSON dump of every table.

Examples:
  opendata report                              # terminal report, Austin portal
  opendata report -d data.seattle.gov --out seattle-report
  opendata report -i snapshot.json --json      # JSON to stdout`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			return runReport(c, &opts)
		},
	}

	addSourceFlags(cmd, &opts.source)
	cmd.Flags().StringVarP(&opts.groupBy, "group-by", "g", opts.groupBy, "grouping key: category or datatype")
	cmd.Flags().IntVar(&opts.topTags, "top-tags", opts.topTags, "number of top tags to show")
	cmd.Flags().StringVar(&opts.theme, "theme", "", "TOML theme file for styling")
	cmd.Flags().StringVarP(&opts.outDir, "out", "o", "", "directory for report artifacts (charts, map, JSON)")
	cmd.Flags().BoolVar(&opts.json, "json", false, "write the report as JSON to stdout instead of tables")

	return cmd
}

func runReport(cmd *cobra.Command, opts *reportOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	groupBy, err := analysis.ParseGroupKey(opts.groupBy)
	if err != nil {
		return err
	}
	theme, err := report.LoadTheme(opts.theme)
	if err != nil {
		return err
	}

	records, err := loadRecords(ctx, opts.source)
	if err != nil {
		return err
	}

	var rep report.Report
	err = withSpinner(ctx, "Analyzing catalog...", func() error {
		var buildErr error
		rep, buildErr = report.Build(records, report.Params{
			Domain:  sourceLabel(opts.source),
			GroupBy: groupBy,
			TopTags: opts.topTags,
			Theme:   theme,
		})
		return buildErr
	})
	if err != nil {
		return err
	}
	logger.Debugf("Report %s: %s", rep.RunID, rep.Summary())

	if opts.json {
		if err := rep.WriteJSON(cmd.OutOrStdout()); err != nil {
			return err
		}
	} else {
		rep.RenderTerminal(cmd.OutOrStdout())
	}

	if opts.outDir != "" {
		paths, err := rep.WriteArtifacts(ctx, opts.outDir)
		if err != nil {
			return err
		}
		printSuccess("Wrote %d report artifacts", len(paths))
		for _, p := range paths {
			printFile(p)
		}
	}
	return nil
}
