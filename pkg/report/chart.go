package report

import (
	"bytes"
	"fmt"
	"math"

	"github.com/ccong2/austin-open-data/pkg/analysis"
)

const (
	chartMargin     = 16.0
	chartLabelWidth = 180.0
	chartBarHeight  = 14.0
	chartFontSize   = 12.0
	chartTitleSize  = 16.0
)

type ChartOption func(*chartRenderer)

type chartRenderer struct {
	theme    Theme
	title    string
	maxGroup int
}

func WithTheme(t Theme) ChartOption  { return func(r *chartRenderer) { r.theme = t } }
func WithTitle(s string) ChartOption { return func(r *chartRenderer) { r.title = s } }

// WithMaxGroups caps the number of groups drawn, keeping the chart legible
// on portals with many categories.
func WithMaxGroups(n int) ChartOption { return func(r *chartRenderer) { r.maxGroup = n } }

func newChartRenderer(opts ...ChartOption) chartRenderer {
	r := chartRenderer{theme: DefaultTheme(), maxGroup: 20}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

// RenderComparisonSVG draws a grouped horizontal bar chart of the
// supply/demand comparison. Each group gets three bars: datasets provided,
// total downloads, and total pageviews, each normalized against that
// metric's maximum so the three scales share one axis.
func RenderComparisonSVG(groups []analysis.Aggregate, opts ...ChartOption) []byte {
	r := newChartRenderer(opts...)
	if r.maxGroup > 0 && len(groups) > r.maxGroup {
		groups = groups[:r.maxGroup]
	}

	var maxProvided, maxDownloaded, maxViewed float64
	for _, g := range groups {
		maxProvided = math.Max(maxProvided, float64(g.Provided))
		maxDownloaded = math.Max(maxDownloaded, float64(g.Downloaded))
		maxViewed = math.Max(maxViewed, float64(g.Viewed))
	}

	rowHeight := 3*chartBarHeight + r.theme.BarGap
	height := chartMargin*2 + chartTitleSize + float64(len(groups))*rowHeight + legendHeight()
	width := r.theme.ChartWidth
	barSpan := width - chartLabelWidth - 2*chartMargin

	var buf bytes.Buffer
	openSVG(&buf, width, height)
	y := chartMargin
	y = renderTitle(&buf, r, y)

	for _, g := range groups {
		renderRowLabel(&buf, r.theme, g.Group, y+rowHeight/2)
		renderBar(&buf, r.theme.SupplyColor, y, barSpan, fraction(float64(g.Provided), maxProvided))
		renderBar(&buf, r.theme.DownloadColor, y+chartBarHeight, barSpan, fraction(float64(g.Downloaded), maxDownloaded))
		renderBar(&buf, r.theme.PageviewColor, y+2*chartBarHeight, barSpan, fraction(float64(g.Viewed), maxViewed))
		y += rowHeight
	}

	renderLegend(&buf, r.theme, y, []legendEntry{
		{r.theme.SupplyColor, "datasets provided"},
		{r.theme.DownloadColor, "downloads"},
		{r.theme.PageviewColor, "pageviews"},
	})
	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

// RenderShareSVG draws a horizontal bar chart of per-datatype shares. The
// bars show the dataset share; the download and pageview shares are printed
// after each bar so the demand side stays visible without a second axis.
func RenderShareSVG(shares []analysis.UsageShare, opts ...ChartOption) []byte {
	r := newChartRenderer(opts...)
	if r.maxGroup > 0 && len(shares) > r.maxGroup {
		shares = shares[:r.maxGroup]
	}

	rowHeight := chartBarHeight + r.theme.BarGap
	height := chartMargin*2 + chartTitleSize + float64(len(shares))*rowHeight
	width := r.theme.ChartWidth
	barSpan := width - chartLabelWidth - 2*chartMargin - 200

	var buf bytes.Buffer
	openSVG(&buf, width, height)
	y := chartMargin
	y = renderTitle(&buf, r, y)

	for _, s := range shares {
		renderRowLabel(&buf, r.theme, s.ResourceType, y+chartBarHeight/2)
		renderBar(&buf, r.theme.SupplyColor, y, barSpan, fraction(s.CountShare, 100))
		annotation := fmt.Sprintf("%s of datasets, %s of downloads, %s of views",
			FormatPercent(s.CountShare, r.theme.PercentDecimals),
			FormatPercent(s.DownloadShare, r.theme.PercentDecimals),
			FormatPercent(s.PageviewShare, r.theme.PercentDecimals))
		fmt.Fprintf(&buf, `  <text x="%.1f" y="%.1f" font-size="%.0f" fill="%s" dominant-baseline="middle">%s</text>`+"\n",
			chartLabelWidth+barSpan+8, y+chartBarHeight/2, chartFontSize-2, r.theme.MutedColor, escapeXML(annotation))
		y += rowHeight
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

type legendEntry struct {
	color string
	label string
}

func legendHeight() float64 { return chartFontSize + 2*chartMargin }

func openSVG(buf *bytes.Buffer, width, height float64) {
	fmt.Fprintf(buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		width, height, width, height)
}

func renderTitle(buf *bytes.Buffer, r chartRenderer, y float64) float64 {
	if r.title == "" {
		return y
	}
	fmt.Fprintf(buf, `  <text x="%.1f" y="%.1f" font-size="%.0f" font-weight="bold" fill="%s">%s</text>`+"\n",
		chartMargin, y+chartTitleSize, chartTitleSize, r.theme.TextColor, escapeXML(r.title))
	return y + chartTitleSize + chartMargin
}

func renderRowLabel(buf *bytes.Buffer, theme Theme, label string, centerY float64) {
	fmt.Fprintf(buf, `  <text x="%.1f" y="%.1f" font-size="%.0f" fill="%s" text-anchor="end" dominant-baseline="middle">%s</text>`+"\n",
		chartLabelWidth-8, centerY, chartFontSize, theme.TextColor, escapeXML(truncate(label, 28)))
}

func renderBar(buf *bytes.Buffer, color string, y, span, frac float64) {
	if math.IsNaN(frac) || frac < 0 {
		frac = 0
	}
	fmt.Fprintf(buf, `  <rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s"/>`+"\n",
		chartLabelWidth, y, span*frac, chartBarHeight-2, color)
}

func renderLegend(buf *bytes.Buffer, theme Theme, y float64, entries []legendEntry) {
	x := chartLabelWidth
	for _, e := range entries {
		fmt.Fprintf(buf, `  <rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s"/>`+"\n",
			x, y+chartMargin, chartBarHeight-2, chartBarHeight-2, e.color)
		fmt.Fprintf(buf, `  <text x="%.1f" y="%.1f" font-size="%.0f" fill="%s" dominant-baseline="middle">%s</text>`+"\n",
			x+chartBarHeight+4, y+chartMargin+chartBarHeight/2, chartFontSize, theme.TextColor, escapeXML(e.label))
		x += chartBarHeight + 4 + float64(len(e.label))*chartFontSize*0.6 + 24
	}
}

// fraction returns v/max, or 0 when max is zero so empty metrics draw no bar.
func fraction(v, max float64) float64 {
	if max == 0 {
		return 0
	}
	return v / max
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	for _, r := range s {
		switch r {
		case '&':
			buf.WriteString("&amp;")
		case '<':
			buf.WriteString("&lt;")
		case '>':
			buf.WriteString("&gt;")
		case '"':
			buf.WriteString("&quot;")
		default:
			buf.WriteRune(r)
		}
	}
	return buf.String()
}
