package report

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/goccy/go-graphviz"

	"github.com/ccong2/austin-open-data/pkg/analysis"
)

// CatalogMapDOT builds a Graphviz DOT bipartite graph linking categories to
// the resource types published under them. Edge weight follows the number
// of datasets carrying that (category, type) pair. The DOT string renders
// with [RenderDOT].
func CatalogMapDOT(links []analysis.CategoryTypeLink) string {
	var buf bytes.Buffer
	buf.WriteString("graph catalog {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [fontsize=14, margin=\"0.15,0.08\"];\n")
	buf.WriteString("  ranksep=1.2;\n")
	buf.WriteString("\n")

	// Node IDs carry cat:/type: prefixes so a category and a type sharing a
	// name stay distinct; labels show the bare name.
	seenCategory := map[string]bool{}
	seenType := map[string]bool{}
	for _, l := range links {
		if !seenCategory[l.Category] {
			seenCategory[l.Category] = true
			fmt.Fprintf(&buf, "  %q [label=%q, shape=box, style=\"rounded,filled\", fillcolor=lightblue];\n",
				"cat:"+l.Category, l.Category)
		}
		if !seenType[l.ResourceType] {
			seenType[l.ResourceType] = true
			fmt.Fprintf(&buf, "  %q [label=%q, shape=ellipse, style=filled, fillcolor=lightgrey];\n",
				"type:"+l.ResourceType, l.ResourceType)
		}
	}

	buf.WriteString("\n")
	for _, l := range links {
		fmt.Fprintf(&buf, "  %q -- %q [label=%q, penwidth=%.1f];\n",
			"cat:"+l.Category, "type:"+l.ResourceType, strconv.Itoa(l.Count), edgeWidth(l.Count))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func edgeWidth(count int) float64 {
	w := 1.0 + float64(count)/25.0
	if w > 6 {
		w = 6
	}
	return w
}

// RenderDOT renders a DOT graph to SVG using Graphviz.
func RenderDOT(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the Graphviz SVG header so the viewBox starts at
// the origin and the pixel size matches it. Graphviz emits point-based sizes
// with a translated viewBox, which scales badly when embedded.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
