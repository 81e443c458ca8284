package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ccong2/austin-open-data/pkg/analysis"
	"github.com/ccong2/austin-open-data/pkg/report"
)

// compareOpts holds the command-line flags for the compare command.
type compareOpts struct {
	source  sourceOpts
	groupBy string
	theme   string
}

// newCompareCmd creates the compare command, which ranks what the portal
// publishes per group against what visitors download and view.
func newCompareCmd() *cobra.Command {
	opts := compareOpts{groupBy: string(analysis.GroupByCategory)}

	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Rank catalog supply against visitor demand",
		Long: `Compare how much a portal publishes per group against how much visitors
download and view in that group.

Each group is ranked three times: by datasets provided, by total downloads,
and by total pageviews (dense ranking, ties share a rank). A group whose
demand rank number exceeds its supply rank number by more than one is
marked "up", all others "down".

Examples:
  opendata compare                         # by category, Austin portal
  opendata compare --group-by datatype
  opendata compare -i snapshot.json`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			return runCompare(c, &opts)
		},
	}

	addSourceFlags(cmd, &opts.source)
	cmd.Flags().StringVarP(&opts.groupBy, "group-by", "g", opts.groupBy, "grouping key: category or datatype")
	cmd.Flags().StringVar(&opts.theme, "theme", "", "TOML theme file for styling")

	return cmd
}

func runCompare(cmd *cobra.Command, opts *compareOpts) error {
	ctx := cmd.Context()

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

	groups, err := analysis.CompareSupplyDemand(records, groupBy)
	if err != nil {
		return err
	}
	if len(groups) == 0 {
		printWarning("No groups to compare (no records carry a %s)", groupBy)
		return nil
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s\n%s\n", report.Title(fmt.Sprintf("Supply vs demand by %s (%s)", groupBy, sourceLabel(opts.source))),
		report.ComparisonTable(groups))

	if groupBy == analysis.GroupByDatatype {
		fmt.Fprintf(out, "\n%s\n%s\n", report.Title("Datatype usage shares"),
			report.UsageShareTable(analysis.DatatypeUsageShares(records), theme))
	}

	return nil
}
