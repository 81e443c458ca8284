package cli

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

// browseOpts holds the command-line flags for the browse command.
type browseOpts struct {
	source sourceOpts
}

// newBrowseCmd creates the browse command, an interactive record browser.
func newBrowseCmd() *cobra.Command {
	var opts browseOpts

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Interactively browse catalog records",
		Long: `Browse the catalog records in an interactive terminal list. Records are
sorted as fetched; use the arrow keys to scroll and enter to inspect a
record's full detail.

Examples:
  opendata browse
  opendata browse -i snapshot.json`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			return runBrowse(c, &opts)
		},
	}

	addSourceFlags(cmd, &opts.source)
	return cmd
}

func runBrowse(cmd *cobra.Command, opts *browseOpts) error {
	ctx := cmd.Context()

	records, err := loadRecords(ctx, opts.source)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		printWarning("Catalog is empty, nothing to browse")
		return nil
	}

	model := newRecordListModel(records)
	p := tea.NewProgram(model, tea.WithContext(ctx), tea.WithAltScreen())
	_, err = p.Run()
	return err
}
