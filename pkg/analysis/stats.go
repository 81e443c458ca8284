package analysis

import (
	"math"
	"sort"
	"strings"

	"github.com/ccong2/austin-open-data/pkg/catalog"
)

// FieldMissingness reports how many rows lack a value for one record field.
type FieldMissingness struct {
	Field    string  `json:"field"`
	Missing  int     `json:"missing"`
	Fraction float64 `json:"fraction"` // NaN for an empty table
}

// CategoryCount is one row of the category frequency table.
type CategoryCount struct {
	Category string  `json:"category"`
	Count    int     `json:"count"`
	Share    float64 `json:"share"` // fraction of all rows, NaN for an empty table
}

// TagCount is one row of the tag frequency table.
type TagCount struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}

// TypeShare is one row of the datatype share table.
type TypeShare struct {
	ResourceType string  `json:"resource_type"`
	Count        int     `json:"count"`
	Share        float64 `json:"share"` // fraction of all rows, NaN for an empty table
}

// DatasetCount returns the total number of rows in the table.
func DatasetCount(records []catalog.Record) int { return len(records) }

// UniqueCategoryCount returns the number of distinct non-nil categories,
// compared case-insensitively.
func UniqueCategoryCount(records []catalog.Record) int {
	seen := make(map[string]struct{})
	for _, r := range records {
		if r.Category != nil {
			seen[normalize(*r.Category)] = struct{}{}
		}
	}
	return len(seen)
}

// UniqueTagCount returns the number of distinct tags across all rows' tag
// sets, compared case-insensitively.
func UniqueTagCount(records []catalog.Record) int {
	seen := make(map[string]struct{})
	for _, r := range records {
		for _, tag := range r.Tags {
			seen[normalize(tag)] = struct{}{}
		}
	}
	return len(seen)
}

// Missingness reports, for every record field, how many rows have no value.
// A nil pointer, an empty string, an empty tag set, and a zero timestamp all
// count as missing for their respective fields. Field order is fixed.
func Missingness(records []catalog.Record) []FieldMissingness {
	counts := map[string]int{}
	for _, r := range records {
		if r.Name == "" {
			counts["name"]++
		}
		if r.Category == nil {
			counts["category"]++
		}
		if len(r.Tags) == 0 {
			counts["tags"]++
		}
		if r.ResourceType == "" {
			counts["resource_type"]++
		}
		if r.DownloadCount == nil {
			counts["download_count"]++
		}
		if r.PageviewsLastWeek == nil {
			counts["pageviews_last_week"]++
		}
		if r.PageviewsLastMonth == nil {
			counts["pageviews_last_month"]++
		}
		if r.PageviewsTotal == nil {
			counts["pageviews_total"]++
		}
		if r.LastUpdated.IsZero() {
			counts["last_updated"]++
		}
	}

	fields := []string{
		"name", "category", "tags", "resource_type", "download_count",
		"pageviews_last_week", "pageviews_last_month", "pageviews_total",
		"last_updated",
	}
	report := make([]FieldMissingness, len(fields))
	for i, f := range fields {
		report[i] = FieldMissingness{
			Field:    f,
			Missing:  counts[f],
			Fraction: fraction(counts[f], len(records)),
		}
	}
	return report
}

// CategoryFrequency returns per-category row counts and their share of the
// total table, descending by count with ties in first-encountered order.
// Rows without a category are not represented.
func CategoryFrequency(records []catalog.Record) []CategoryCount {
	counts := map[string]int{}
	var order []string
	for _, r := range records {
		if r.Category == nil {
			continue
		}
		if _, ok := counts[*r.Category]; !ok {
			order = append(order, *r.Category)
		}
		counts[*r.Category]++
	}

	result := make([]CategoryCount, len(order))
	for i, c := range order {
		result[i] = CategoryCount{
			Category: c,
			Count:    counts[c],
			Share:    fraction(counts[c], len(records)),
		}
	}
	sortByCountDesc(result, func(c CategoryCount) int { return c.Count })
	return result
}

// TopTags returns the n most frequent tags (raw strings, flattened across
// all rows), descending by count with ties in first-encountered order.
func TopTags(records []catalog.Record, n int) []TagCount {
	counts := map[string]int{}
	var order []string
	for _, r := range records {
		for _, tag := range r.Tags {
			if _, ok := counts[tag]; !ok {
				order = append(order, tag)
			}
			counts[tag]++
		}
	}

	result := make([]TagCount, len(order))
	for i, tag := range order {
		result[i] = TagCount{Tag: tag, Count: counts[tag]}
	}
	sortByCountDesc(result, func(t TagCount) int { return t.Count })

	if n > 0 && len(result) > n {
		result = result[:n]
	}
	return result
}

// DatatypeShare returns per-resource-type row counts and their fraction of
// the total table, descending by count.
func DatatypeShare(records []catalog.Record) []TypeShare {
	counts := map[string]int{}
	var order []string
	for _, r := range records {
		if _, ok := counts[r.ResourceType]; !ok {
			order = append(order, r.ResourceType)
		}
		counts[r.ResourceType]++
	}

	result := make([]TypeShare, len(order))
	for i, rt := range order {
		result[i] = TypeShare{
			ResourceType: rt,
			Count:        counts[rt],
			Share:        fraction(counts[rt], len(records)),
		}
	}
	sortByCountDesc(result, func(t TypeShare) int { return t.Count })
	return result
}

// CategoryTypeLink counts the rows carrying one (category, resource type)
// pair. The links form the edges of the catalog map.
type CategoryTypeLink struct {
	Category     string `json:"category"`
	ResourceType string `json:"resource_type"`
	Count        int    `json:"count"`
}

// CategoryTypeLinks cross-tabulates categories against resource types,
// descending by count. Rows without a category or type are skipped.
func CategoryTypeLinks(records []catalog.Record) []CategoryTypeLink {
	type key struct{ category, resourceType string }
	counts := map[key]int{}
	var order []key
	for _, r := range records {
		if r.Category == nil || r.ResourceType == "" {
			continue
		}
		k := key{*r.Category, r.ResourceType}
		if _, ok := counts[k]; !ok {
			order = append(order, k)
		}
		counts[k]++
	}

	result := make([]CategoryTypeLink, len(order))
	for i, k := range order {
		result[i] = CategoryTypeLink{
			Category:     k.category,
			ResourceType: k.resourceType,
			Count:        counts[k],
		}
	}
	sortByCountDesc(result, func(l CategoryTypeLink) int { return l.Count })
	return result
}

// fraction divides part by total, yielding NaN instead of a divide-by-zero
// when the table is empty or the total is zero.
func fraction(part, total int) float64 {
	if total == 0 {
		return math.NaN()
	}
	return float64(part) / float64(total)
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// sortByCountDesc sorts stably by count descending, preserving
// first-encountered order for ties.
func sortByCountDesc[T any](items []T, count func(T) int) {
	sort.SliceStable(items, func(i, j int) bool { return count(items[i]) > count(items[j]) })
}
