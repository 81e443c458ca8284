package analysis

import (
	"math"
	"math/rand"
	"reflect"
	"testing"

	"github.com/ccong2/austin-open-data/pkg/catalog"
	"github.com/ccong2/austin-open-data/pkg/errors"
)

func strPtr(s string) *string { return &s }
func intPtr(v int64) *int64   { return &v }

// categoryRecords builds a group of records under one category, with the
// given download and pageview totals spread over the group.
func categoryRecords(category string, provided int, downloaded, viewed int64) []catalog.Record {
	records := make([]catalog.Record, provided)
	for i := range records {
		records[i] = catalog.Record{
			Name:         category,
			Category:     strPtr(category),
			Tags:         []string{},
			ResourceType: "dataset",
		}
	}
	// Attribute all demand to the first record; sums are per group.
	records[0].DownloadCount = intPtr(downloaded)
	records[0].PageviewsTotal = intPtr(viewed)
	return records
}

func findGroup(t *testing.T, groups []Aggregate, name string) Aggregate {
	t.Helper()
	for _, g := range groups {
		if g.Group == name {
			return g
		}
	}
	t.Fatalf("group %q not found in %v", name, groups)
	return Aggregate{}
}

func TestCompareSupplyDemandScenario(t *testing.T) {
	// Public Safety: 3 provided, 300 downloads, 10 views.
	// Environment: 5 provided, 10 downloads, 5 views.
	// Transportation: 1 provided, 200 downloads, 400 views.
	var records []catalog.Record
	records = append(records, categoryRecords("Public Safety", 3, 300, 10)...)
	records = append(records, categoryRecords("Environment", 5, 10, 5)...)
	records = append(records, categoryRecords("Transportation", 1, 200, 400)...)

	groups, err := CompareSupplyDemand(records, GroupByCategory)
	if err != nil {
		t.Fatalf("CompareSupplyDemand: %v", err)
	}
	if len(groups) != 3 {
		t.Fatalf("got %d groups, want 3", len(groups))
	}

	env := findGroup(t, groups, "Environment")
	ps := findGroup(t, groups, "Public Safety")
	tr := findGroup(t, groups, "Transportation")

	if env.ProvidedRank != 1 || ps.ProvidedRank != 2 || tr.ProvidedRank != 3 {
		t.Errorf("provided ranks = %d/%d/%d, want 1/2/3", env.ProvidedRank, ps.ProvidedRank, tr.ProvidedRank)
	}
	if ps.DownloadRank != 1 || tr.DownloadRank != 2 || env.DownloadRank != 3 {
		t.Errorf("download ranks = %d/%d/%d, want 1/2/3", ps.DownloadRank, tr.DownloadRank, env.DownloadRank)
	}

	// Transportation: 2 - 3 = -1 -> down. Public Safety: 1 - 2 = -1 -> down.
	// Environment: 3 - 1 = 2 > 1 -> up.
	if tr.ChangeVsDownload != ChangeDown {
		t.Errorf("Transportation ChangeVsDownload = %q, want down", tr.ChangeVsDownload)
	}
	if ps.ChangeVsDownload != ChangeDown {
		t.Errorf("Public Safety ChangeVsDownload = %q, want down", ps.ChangeVsDownload)
	}
	if env.ChangeVsDownload != ChangeUp {
		t.Errorf("Environment ChangeVsDownload = %q, want up", env.ChangeVsDownload)
	}
}

func TestCompareSupplyDemandExcludesAbsentKey(t *testing.T) {
	records := []catalog.Record{
		{Name: "categorized", Category: strPtr("Transport"), Tags: []string{}, ResourceType: "dataset"},
		{Name: "uncategorized", Tags: []string{}, ResourceType: "dataset"},
	}

	groups, err := CompareSupplyDemand(records, GroupByCategory)
	if err != nil {
		t.Fatalf("CompareSupplyDemand: %v", err)
	}
	if len(groups) != 1 {
		t.Fatalf("got %d groups, want 1 (uncategorized row excluded)", len(groups))
	}
	if groups[0].Provided != 1 {
		t.Errorf("Provided = %d, want 1", groups[0].Provided)
	}

	// The excluded row still counts toward table-level statistics.
	if DatasetCount(records) != 2 {
		t.Errorf("DatasetCount = %d, want 2", DatasetCount(records))
	}
	for _, fm := range Missingness(records) {
		if fm.Field == "category" && fm.Missing != 1 {
			t.Errorf("category missing = %d, want 1", fm.Missing)
		}
	}
}

func TestCompareSupplyDemandNilCountsAsZero(t *testing.T) {
	records := []catalog.Record{
		{Name: "a", Category: strPtr("X"), Tags: []string{}, ResourceType: "dataset"},
		{Name: "b", Category: strPtr("X"), Tags: []string{}, ResourceType: "dataset", DownloadCount: intPtr(7)},
	}

	groups, err := CompareSupplyDemand(records, GroupByCategory)
	if err != nil {
		t.Fatalf("CompareSupplyDemand: %v", err)
	}
	g := groups[0]
	if g.Downloaded != 7 {
		t.Errorf("Downloaded = %d, want 7 (nil treated as 0)", g.Downloaded)
	}
	if g.Viewed != 0 {
		t.Errorf("Viewed = %d, want 0", g.Viewed)
	}
}

func TestCompareSupplyDemandByDatatype(t *testing.T) {
	records := []catalog.Record{
		{Name: "a", Tags: []string{}, ResourceType: "dataset", DownloadCount: intPtr(10)},
		{Name: "b", Tags: []string{}, ResourceType: "dataset"},
		{Name: "c", Tags: []string{}, ResourceType: "map", DownloadCount: intPtr(50)},
		{Name: "d", Tags: []string{}, ResourceType: ""},
	}

	groups, err := CompareSupplyDemand(records, GroupByDatatype)
	if err != nil {
		t.Fatalf("CompareSupplyDemand: %v", err)
	}
	if len(groups) != 2 {
		t.Fatalf("got %d groups, want 2 (empty resource type excluded)", len(groups))
	}
	ds := findGroup(t, groups, "dataset")
	if ds.ProvidedRank != 1 || ds.DownloadRank != 2 {
		t.Errorf("dataset ranks = provided %d, download %d; want 1, 2", ds.ProvidedRank, ds.DownloadRank)
	}
}

func TestCompareSupplyDemandInvalidKey(t *testing.T) {
	_, err := CompareSupplyDemand(nil, GroupKey("tag"))
	if !errors.Is(err, errors.ErrCodeInvalidGroupBy) {
		t.Errorf("err = %v, want INVALID_GROUP_BY", err)
	}
}

func TestDenseRankTies(t *testing.T) {
	groups := []Aggregate{
		{Group: "a", Provided: 5},
		{Group: "b", Provided: 5},
		{Group: "c", Provided: 3},
		{Group: "d", Provided: 1},
	}
	ranks := denseRanks(groups, func(a Aggregate) int64 { return int64(a.Provided) })

	if ranks[0] != 1 || ranks[1] != 1 {
		t.Errorf("tied groups got ranks %d/%d, want 1/1", ranks[0], ranks[1])
	}
	if ranks[2] != 2 {
		t.Errorf("next distinct value got rank %d, want 2 (dense, no gap)", ranks[2])
	}
	if ranks[3] != 3 {
		t.Errorf("smallest value got rank %d, want 3", ranks[3])
	}
}

func TestDenseRankPermutationInvariant(t *testing.T) {
	base := []Aggregate{
		{Group: "a", Provided: 10},
		{Group: "b", Provided: 7},
		{Group: "c", Provided: 7},
		{Group: "d", Provided: 2},
		{Group: "e", Provided: 15},
	}
	metric := func(a Aggregate) int64 { return int64(a.Provided) }

	want := map[string]int{}
	for i, r := range denseRanks(base, metric) {
		want[base[i].Group] = r
	}

	rng := rand.New(rand.NewSource(1))
	for trial := 0; trial < 20; trial++ {
		shuffled := append([]Aggregate(nil), base...)
		rng.Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})
		ranks := denseRanks(shuffled, metric)
		for i, g := range shuffled {
			if ranks[i] != want[g.Group] {
				t.Fatalf("trial %d: group %s rank = %d, want %d", trial, g.Group, ranks[i], want[g.Group])
			}
		}
	}
}

func TestChangeLabelsAreTotal(t *testing.T) {
	var records []catalog.Record
	records = append(records, categoryRecords("A", 4, 0, 0)...)
	records = append(records, categoryRecords("B", 4, 100, 100)...)
	records = append(records, categoryRecords("C", 1, 100, 0)...)

	groups, err := CompareSupplyDemand(records, GroupByCategory)
	if err != nil {
		t.Fatalf("CompareSupplyDemand: %v", err)
	}
	for _, g := range groups {
		if g.ChangeVsDownload != ChangeUp && g.ChangeVsDownload != ChangeDown {
			t.Errorf("group %s: ChangeVsDownload = %q", g.Group, g.ChangeVsDownload)
		}
		if g.ChangeVsPageview != ChangeUp && g.ChangeVsPageview != ChangeDown {
			t.Errorf("group %s: ChangeVsPageview = %q", g.Group, g.ChangeVsPageview)
		}
	}
}

func TestCompareSupplyDemandIdempotent(t *testing.T) {
	var records []catalog.Record
	records = append(records, categoryRecords("A", 3, 30, 3)...)
	records = append(records, categoryRecords("B", 2, 50, 8)...)

	first, err := CompareSupplyDemand(records, GroupByCategory)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	second, err := CompareSupplyDemand(records, GroupByCategory)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("runs differ:\n%v\n%v", first, second)
	}
}

func TestDatatypeUsageShares(t *testing.T) {
	records := []catalog.Record{
		{Name: "a", Tags: []string{}, ResourceType: "dataset", DownloadCount: intPtr(75), PageviewsTotal: intPtr(10)},
		{Name: "b", Tags: []string{}, ResourceType: "dataset", DownloadCount: intPtr(25)},
		{Name: "c", Tags: []string{}, ResourceType: "map", PageviewsTotal: intPtr(30)},
		{Name: "d", Tags: []string{}, ResourceType: "chart"},
	}

	shares := DatatypeUsageShares(records)
	if len(shares) != 3 {
		t.Fatalf("got %d rows, want 3", len(shares))
	}

	// Sorted by count descending: dataset first.
	ds := shares[0]
	if ds.ResourceType != "dataset" {
		t.Fatalf("first row = %s, want dataset", ds.ResourceType)
	}
	if ds.CountShare != 50 {
		t.Errorf("CountShare = %v, want 50", ds.CountShare)
	}
	if ds.DownloadShare != 100 {
		t.Errorf("DownloadShare = %v, want 100", ds.DownloadShare)
	}
	if ds.PageviewShare != 25 {
		t.Errorf("PageviewShare = %v, want 25", ds.PageviewShare)
	}
}

func TestDatatypeUsageSharesZeroDenominator(t *testing.T) {
	// No downloads anywhere: download shares are NaN for every type,
	// never Inf and never a silent zero.
	records := []catalog.Record{
		{Name: "a", Tags: []string{}, ResourceType: "dataset", PageviewsTotal: intPtr(5)},
		{Name: "b", Tags: []string{}, ResourceType: "map"},
	}

	for _, s := range DatatypeUsageShares(records) {
		if !math.IsNaN(s.DownloadShare) {
			t.Errorf("%s: DownloadShare = %v, want NaN", s.ResourceType, s.DownloadShare)
		}
		if math.IsInf(s.DownloadShare, 0) {
			t.Errorf("%s: DownloadShare is Inf", s.ResourceType)
		}
	}
}
