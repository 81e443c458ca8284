package report

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ccong2/austin-open-data/pkg/analysis"
	"github.com/ccong2/austin-open-data/pkg/catalog"
)

// Params configures report generation.
type Params struct {
	Domain  string
	GroupBy analysis.GroupKey
	TopTags int
	Theme   Theme
}

// Report bundles every analysis table computed from one catalog snapshot.
type Report struct {
	RunID       string
	GeneratedAt time.Time
	Domain      string
	GroupBy     analysis.GroupKey

	DatasetCount     int
	UniqueCategories int
	UniqueTags       int

	Missingness   []analysis.FieldMissingness
	Categories    []analysis.CategoryCount
	TopTags       []analysis.TagCount
	DatatypeShare []analysis.TypeShare
	Comparison    []analysis.Aggregate
	UsageShares   []analysis.UsageShare
	CatalogLinks  []analysis.CategoryTypeLink

	theme Theme
}

// Build runs the full analysis over records and assembles a [Report]. It
// fails only when the grouping key is unknown.
func Build(records []catalog.Record, params Params) (Report, error) {
	topTags := params.TopTags
	if topTags <= 0 {
		topTags = 15
	}
	comparison, err := analysis.CompareSupplyDemand(records, params.GroupBy)
	if err != nil {
		return Report{}, err
	}
	return Report{
		RunID:            uuid.NewString(),
		GeneratedAt:      time.Now().UTC(),
		Domain:           params.Domain,
		GroupBy:          params.GroupBy,
		DatasetCount:     analysis.DatasetCount(records),
		UniqueCategories: analysis.UniqueCategoryCount(records),
		UniqueTags:       analysis.UniqueTagCount(records),
		Missingness:      analysis.Missingness(records),
		Categories:       analysis.CategoryFrequency(records),
		TopTags:          analysis.TopTags(records, topTags),
		DatatypeShare:    analysis.DatatypeShare(records),
		Comparison:       comparison,
		UsageShares:      analysis.DatatypeUsageShares(records),
		CatalogLinks:     analysis.CategoryTypeLinks(records),
		theme:            params.Theme,
	}, nil
}

// RenderTerminal writes the styled report to w.
func (r Report) RenderTerminal(w io.Writer) {
	fmt.Fprintf(w, "%s\n", Title(fmt.Sprintf("Open data report for %s", r.Domain)))
	fmt.Fprintf(w, "%s datasets, %s categories, %s distinct tags\n\n",
		FormatCount(int64(r.DatasetCount)),
		FormatCount(int64(r.UniqueCategories)),
		FormatCount(int64(r.UniqueTags)))

	sections := []struct {
		title string
		body  string
	}{
		{"Missing values", MissingnessTable(r.Missingness, r.theme)},
		{"Categories", CategoryFrequencyTable(r.Categories, r.theme)},
		{"Top tags", TopTagsTable(r.TopTags)},
		{"Resource types", DatatypeShareTable(r.DatatypeShare, r.theme)},
		{fmt.Sprintf("Supply vs demand by %s", r.GroupBy), ComparisonTable(r.Comparison)},
		{"Datatype usage shares", UsageShareTable(r.UsageShares, r.theme)},
	}
	for _, s := range sections {
		fmt.Fprintf(w, "%s\n%s\n\n", Title(s.title), s.body)
	}
}

// WriteArtifacts renders the chart and map artifacts plus the JSON dump into
// dir, returning the paths written.
func (r Report) WriteArtifacts(ctx context.Context, dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create %s: %w", dir, err)
	}

	files := map[string][]byte{
		"category_comparison.svg": RenderComparisonSVG(r.Comparison,
			WithTheme(r.theme),
			WithTitle(fmt.Sprintf("Supply vs demand by %s (%s)", r.GroupBy, r.Domain))),
		"datatype_share.svg": RenderShareSVG(r.UsageShares,
			WithTheme(r.theme),
			WithTitle(fmt.Sprintf("Resource type shares (%s)", r.Domain))),
	}

	mapSVG, err := RenderDOT(ctx, CatalogMapDOT(r.CatalogLinks))
	if err != nil {
		return nil, fmt.Errorf("catalog map: %w", err)
	}
	files["catalog_map.svg"] = mapSVG

	var paths []string
	for name, data := range files {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return nil, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}

	jsonPath := filepath.Join(dir, "report.json")
	f, err := os.Create(jsonPath)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", jsonPath, err)
	}
	defer f.Close()
	if err := r.WriteJSON(f); err != nil {
		return nil, err
	}
	paths = append(paths, jsonPath)
	return paths, nil
}

// JSON export shapes. Shares and fractions are pointers so an undefined
// value (NaN, which encoding/json rejects) serializes as null.
type reportDump struct {
	RunID            string    `json:"run_id"`
	GeneratedAt      time.Time `json:"generated_at"`
	Domain           string    `json:"domain"`
	GroupBy          string    `json:"group_by"`
	DatasetCount     int       `json:"dataset_count"`
	UniqueCategories int       `json:"unique_categories"`
	UniqueTags       int       `json:"unique_tags"`

	Missingness   []missingnessDump           `json:"missingness"`
	Categories    []categoryDump              `json:"categories"`
	TopTags       []analysis.TagCount         `json:"top_tags"`
	DatatypeShare []typeShareDump             `json:"datatype_share"`
	Comparison    []analysis.Aggregate        `json:"comparison"`
	UsageShares   []usageShareDump            `json:"usage_shares"`
	CatalogLinks  []analysis.CategoryTypeLink `json:"catalog_links"`
}

type missingnessDump struct {
	Field    string   `json:"field"`
	Missing  int      `json:"missing"`
	Fraction *float64 `json:"fraction"`
}

type categoryDump struct {
	Category string   `json:"category"`
	Count    int      `json:"count"`
	Share    *float64 `json:"share"`
}

type typeShareDump struct {
	ResourceType string   `json:"resource_type"`
	Count        int      `json:"count"`
	Share        *float64 `json:"share"`
}

type usageShareDump struct {
	ResourceType  string   `json:"resource_type"`
	Count         int      `json:"count"`
	CountShare    *float64 `json:"count_share"`
	DownloadShare *float64 `json:"download_share"`
	PageviewShare *float64 `json:"pageview_share"`
}

// WriteJSON encodes the report tables as indented JSON. Undefined shares
// become null rather than failing the encode.
func (r Report) WriteJSON(w io.Writer) error {
	dump := reportDump{
		RunID:            r.RunID,
		GeneratedAt:      r.GeneratedAt,
		Domain:           r.Domain,
		GroupBy:          string(r.GroupBy),
		DatasetCount:     r.DatasetCount,
		UniqueCategories: r.UniqueCategories,
		UniqueTags:       r.UniqueTags,
		TopTags:          r.TopTags,
		Comparison:       r.Comparison,
		CatalogLinks:     r.CatalogLinks,
	}
	for _, m := range r.Missingness {
		dump.Missingness = append(dump.Missingness, missingnessDump{m.Field, m.Missing, nanToNil(m.Fraction)})
	}
	for _, c := range r.Categories {
		dump.Categories = append(dump.Categories, categoryDump{c.Category, c.Count, nanToNil(c.Share)})
	}
	for _, t := range r.DatatypeShare {
		dump.DatatypeShare = append(dump.DatatypeShare, typeShareDump{t.ResourceType, t.Count, nanToNil(t.Share)})
	}
	for _, u := range r.UsageShares {
		dump.UsageShares = append(dump.UsageShares, usageShareDump{
			ResourceType:  u.ResourceType,
			Count:         u.Count,
			CountShare:    nanToNil(u.CountShare),
			DownloadShare: nanToNil(u.DownloadShare),
			PageviewShare: nanToNil(u.PageviewShare),
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(dump); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

func nanToNil(v float64) *float64 {
	if math.IsNaN(v) {
		return nil
	}
	return &v
}

// Summary returns a short one-line description for logs.
func (r Report) Summary() string {
	var up []string
	for _, g := range r.Comparison {
		if g.ChangeVsDownload == analysis.ChangeUp || g.ChangeVsPageview == analysis.ChangeUp {
			up = append(up, g.Group)
		}
	}
	if len(up) == 0 {
		return fmt.Sprintf("%d datasets, no under-ranked groups", r.DatasetCount)
	}
	return fmt.Sprintf("%d datasets, higher demand rank: %s", r.DatasetCount, strings.Join(up, ", "))
}
