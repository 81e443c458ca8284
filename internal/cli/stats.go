package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ccong2/austin-open-data/pkg/analysis"
	"github.com/ccong2/austin-open-data/pkg/report"
)

// statsOpts holds the command-line flags for the stats command.
type statsOpts struct {
	source  sourceOpts
	topTags int
	theme   string
}

// newStatsCmd creates the stats command, which prints descriptive
// statistics about a catalog: totals, missing values, category and tag
// frequencies, and datatype shares.
func newStatsCmd() *cobra.Command {
	opts := statsOpts{topTags: 15}

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print descriptive statistics for a catalog",
		Long: `Print descriptive statistics for an open-data catalog: dataset totals,
per-field missing values, category and tag frequencies, and the share of
each resource type.

Examples:
  opendata stats                       # fetch and analyze the Austin portal
  opendata stats -d data.seattle.gov
  opendata stats -i snapshot.json      # reuse a saved fetch`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			return runStats(c, &opts)
		},
	}

	addSourceFlags(cmd, &opts.source)
	cmd.Flags().IntVar(&opts.topTags, "top-tags", opts.topTags, "number of top tags to show")
	cmd.Flags().StringVar(&opts.theme, "theme", "", "TOML theme file for styling")

	return cmd
}

func runStats(cmd *cobra.Command, opts *statsOpts) error {
	ctx := cmd.Context()

	theme, err := report.LoadTheme(opts.theme)
	if err != nil {
		return err
	}

	records, err := loadRecords(ctx, opts.source)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s\n", report.Title(fmt.Sprintf("Catalog statistics for %s", sourceLabel(opts.source))))
	fmt.Fprintf(out, "%s datasets, %s categories, %s distinct tags\n\n",
		report.FormatCount(int64(analysis.DatasetCount(records))),
		report.FormatCount(int64(analysis.UniqueCategoryCount(records))),
		report.FormatCount(int64(analysis.UniqueTagCount(records))))

	fmt.Fprintf(out, "%s\n%s\n\n", report.Title("Missing values"),
		report.MissingnessTable(analysis.Missingness(records), theme))
	fmt.Fprintf(out, "%s\n%s\n\n", report.Title("Categories"),
		report.CategoryFrequencyTable(analysis.CategoryFrequency(records), theme))
	fmt.Fprintf(out, "%s\n%s\n\n", report.Title("Top tags"),
		report.TopTagsTable(analysis.TopTags(records, opts.topTags)))
	fmt.Fprintf(out, "%s\n%s\n", report.Title("Resource types"),
		report.DatatypeShareTable(analysis.DatatypeShare(records), theme))

	return nil
}

// sourceLabel names the record source for headings.
func sourceLabel(opts sourceOpts) string {
	if opts.input != "" {
		return opts.input
	}
	return opts.domain
}
