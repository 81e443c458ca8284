package report

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/ccong2/austin-open-data/pkg/analysis"
)

var (
	colorCyan  = lipgloss.Color("36")
	colorWhite = lipgloss.Color("255")
	colorGray  = lipgloss.Color("245")
	colorDim   = lipgloss.Color("240")
	colorGreen = lipgloss.Color("35")
	colorRed   = lipgloss.Color("167")

	styleTitle  = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	styleHeader = lipgloss.NewStyle().Bold(true).Foreground(colorGray)
	styleCell   = lipgloss.NewStyle().Foreground(colorWhite)
	styleUp     = lipgloss.NewStyle().Foreground(colorGreen)
	styleDown   = lipgloss.NewStyle().Foreground(colorRed)
)

// newTable builds a lipgloss table with the shared border and header style.
func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(headers...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return styleHeader
			}
			return styleCell.PaddingLeft(1).PaddingRight(1)
		})
}

// Title renders a section heading for terminal output.
func Title(s string) string {
	return styleTitle.Render(s)
}

// MissingnessTable renders the per-field missing-value report.
func MissingnessTable(report []analysis.FieldMissingness, theme Theme) string {
	t := newTable("Field", "Missing", "Fraction")
	for _, fm := range report {
		t.Row(fm.Field, FormatCount(int64(fm.Missing)), FormatFractionPercent(fm.Fraction, theme.PercentDecimals))
	}
	return t.Render()
}

// CategoryFrequencyTable renders category counts and shares.
func CategoryFrequencyTable(freq []analysis.CategoryCount, theme Theme) string {
	t := newTable("Category", "Datasets", "Share")
	for _, c := range freq {
		t.Row(truncate(c.Category, 40), FormatCount(int64(c.Count)), FormatFractionPercent(c.Share, theme.PercentDecimals))
	}
	return t.Render()
}

// TopTagsTable renders the most frequent tags.
func TopTagsTable(tags []analysis.TagCount) string {
	t := newTable("#", "Tag", "Count")
	for i, tc := range tags {
		t.Row(fmt.Sprintf("%d", i+1), truncate(tc.Tag, 40), FormatCount(int64(tc.Count)))
	}
	return t.Render()
}

// DatatypeShareTable renders per-resource-type counts and shares.
func DatatypeShareTable(shares []analysis.TypeShare, theme Theme) string {
	t := newTable("Type", "Datasets", "Share")
	for _, s := range shares {
		t.Row(s.ResourceType, FormatCount(int64(s.Count)), FormatFractionPercent(s.Share, theme.PercentDecimals))
	}
	return t.Render()
}

// ComparisonTable renders the supply/demand rank-comparison rows.
func ComparisonTable(groups []analysis.Aggregate) string {
	t := newTable("Group", "Provided", "Downloads", "Pageviews",
		"Rank(P)", "Rank(D)", "Rank(V)", "vs Downloads", "vs Pageviews")
	for _, g := range groups {
		t.Row(
			truncate(g.Group, 30),
			FormatCount(int64(g.Provided)),
			FormatCount(g.Downloaded),
			FormatCount(g.Viewed),
			fmt.Sprintf("%d", g.ProvidedRank),
			fmt.Sprintf("%d", g.DownloadRank),
			fmt.Sprintf("%d", g.ViewedRank),
			changeLabel(g.ChangeVsDownload),
			changeLabel(g.ChangeVsPageview),
		)
	}
	return t.Render()
}

// UsageShareTable renders the datatype supply/demand share table.
func UsageShareTable(shares []analysis.UsageShare, theme Theme) string {
	t := newTable("Type", "Datasets", "Dataset Share", "Download Share", "Pageview Share")
	for _, s := range shares {
		t.Row(
			s.ResourceType,
			FormatCount(int64(s.Count)),
			FormatPercent(s.CountShare, theme.PercentDecimals),
			FormatPercent(s.DownloadShare, theme.PercentDecimals),
			FormatPercent(s.PageviewShare, theme.PercentDecimals),
		)
	}
	return t.Render()
}

func changeLabel(change string) string {
	switch change {
	case analysis.ChangeUp:
		return styleUp.Render("▲ " + change)
	case analysis.ChangeDown:
		return styleDown.Render("▼ " + change)
	default:
		return change
	}
}
