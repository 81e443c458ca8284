package analysis

import (
	"math"
	"sort"

	"github.com/ccong2/austin-open-data/pkg/catalog"
	"github.com/ccong2/austin-open-data/pkg/errors"
)

// GroupKey selects which record field supply/demand groups are built from.
type GroupKey string

// Supported grouping keys.
const (
	GroupByCategory GroupKey = "category"
	GroupByDatatype GroupKey = "datatype"
)

// ParseGroupKey validates a user-supplied grouping key.
func ParseGroupKey(s string) (GroupKey, error) {
	switch GroupKey(s) {
	case GroupByCategory, GroupByDatatype:
		return GroupKey(s), nil
	default:
		return "", errors.New(errors.ErrCodeInvalidGroupBy, "unknown group key %q (must be 'category' or 'datatype')", s)
	}
}

// Directional labels for the supply/demand mismatch classification.
const (
	ChangeUp   = "up"   // demand rank number exceeds supply rank number by more than one
	ChangeDown = "down" // everything else
)

// Aggregate is one supply/demand comparison row: a group with its raw
// metrics, dense ranks, and directional labels.
//
// Ranks are dense and descending per metric: the largest value has rank 1,
// tied values share a rank, and the next distinct value's rank is exactly
// one more (no gaps).
type Aggregate struct {
	Group      string `json:"group"`
	Provided   int    `json:"provided"`
	Downloaded int64  `json:"downloaded"`
	Viewed     int64  `json:"viewed"`

	ProvidedRank int `json:"provided_rank"`
	DownloadRank int `json:"download_rank"`
	ViewedRank   int `json:"viewed_rank"`

	ChangeVsDownload string `json:"change_vs_download"`
	ChangeVsPageview string `json:"change_vs_pageview"`
}

// CompareSupplyDemand partitions records by the given key, aggregates
// supply (dataset count) and demand (downloads, total pageviews) per group,
// ranks the groups on each metric, and classifies the supply/demand
// mismatch per group.
//
// Records whose key value is absent (nil category, empty resource type) are
// excluded from grouping by contract; they still count toward table-level
// statistics elsewhere. Nil counters aggregate as zero.
//
// The result is sorted by Provided descending (then group name) for stable
// output, but callers must not rely on row order.
func CompareSupplyDemand(records []catalog.Record, key GroupKey) ([]Aggregate, error) {
	groupOf, err := keyFunc(key)
	if err != nil {
		return nil, err
	}

	index := map[string]int{}
	var groups []Aggregate
	for _, r := range records {
		name, ok := groupOf(r)
		if !ok {
			continue
		}
		i, ok := index[name]
		if !ok {
			i = len(groups)
			index[name] = i
			groups = append(groups, Aggregate{Group: name})
		}
		groups[i].Provided++
		groups[i].Downloaded += valueOrZero(r.DownloadCount)
		groups[i].Viewed += valueOrZero(r.PageviewsTotal)
	}

	providedRanks := denseRanks(groups, func(a Aggregate) int64 { return int64(a.Provided) })
	downloadRanks := denseRanks(groups, func(a Aggregate) int64 { return a.Downloaded })
	viewedRanks := denseRanks(groups, func(a Aggregate) int64 { return a.Viewed })

	for i := range groups {
		groups[i].ProvidedRank = providedRanks[i]
		groups[i].DownloadRank = downloadRanks[i]
		groups[i].ViewedRank = viewedRanks[i]
		groups[i].ChangeVsDownload = classify(groups[i].DownloadRank, groups[i].ProvidedRank)
		groups[i].ChangeVsPageview = classify(groups[i].ViewedRank, groups[i].ProvidedRank)
	}

	sort.Slice(groups, func(i, j int) bool {
		if groups[i].Provided != groups[j].Provided {
			return groups[i].Provided > groups[j].Provided
		}
		return groups[i].Group < groups[j].Group
	})
	return groups, nil
}

// UsageShare is one row of the datatype supply/demand share table: each
// metric expressed as a percentage of the portal-wide total for that
// metric. Shares are NaN when the portal-wide total is zero.
type UsageShare struct {
	ResourceType  string  `json:"resource_type"`
	Count         int     `json:"count"`
	CountShare    float64 `json:"count_share"`
	DownloadShare float64 `json:"download_share"`
	PageviewShare float64 `json:"pageview_share"`
}

// DatatypeUsageShares aggregates per-datatype dataset counts, downloads,
// and total pageviews, each normalized to a percentage of the portal-wide
// total. Records with an empty resource type are excluded, matching the
// grouping rule of [CompareSupplyDemand].
func DatatypeUsageShares(records []catalog.Record) []UsageShare {
	type totals struct {
		count     int
		downloads int64
		pageviews int64
	}
	byType := map[string]*totals{}
	var order []string
	var grand totals

	for _, r := range records {
		if r.ResourceType == "" {
			continue
		}
		t, ok := byType[r.ResourceType]
		if !ok {
			t = &totals{}
			byType[r.ResourceType] = t
			order = append(order, r.ResourceType)
		}
		t.count++
		t.downloads += valueOrZero(r.DownloadCount)
		t.pageviews += valueOrZero(r.PageviewsTotal)
		grand.count++
		grand.downloads += valueOrZero(r.DownloadCount)
		grand.pageviews += valueOrZero(r.PageviewsTotal)
	}

	result := make([]UsageShare, len(order))
	for i, rt := range order {
		t := byType[rt]
		result[i] = UsageShare{
			ResourceType:  rt,
			Count:         t.count,
			CountShare:    percent(float64(t.count), float64(grand.count)),
			DownloadShare: percent(float64(t.downloads), float64(grand.downloads)),
			PageviewShare: percent(float64(t.pageviews), float64(grand.pageviews)),
		}
	}
	sortByCountDesc(result, func(u UsageShare) int { return u.Count })
	return result
}

func keyFunc(key GroupKey) (func(catalog.Record) (string, bool), error) {
	switch key {
	case GroupByCategory:
		return func(r catalog.Record) (string, bool) {
			if r.Category == nil {
				return "", false
			}
			return *r.Category, true
		}, nil
	case GroupByDatatype:
		return func(r catalog.Record) (string, bool) {
			return r.ResourceType, r.ResourceType != ""
		}, nil
	default:
		return nil, errors.New(errors.ErrCodeInvalidGroupBy, "unknown group key %q", key)
	}
}

// denseRanks assigns descending dense ranks to groups by the given metric:
// rank 1 for the largest value, equal values share a rank, and the next
// distinct value's rank is the previous rank plus one.
func denseRanks(groups []Aggregate, metric func(Aggregate) int64) []int {
	distinct := map[int64]struct{}{}
	for _, g := range groups {
		distinct[metric(g)] = struct{}{}
	}
	values := make([]int64, 0, len(distinct))
	for v := range distinct {
		values = append(values, v)
	}
	sort.Slice(values, func(i, j int) bool { return values[i] > values[j] })

	rankOf := make(map[int64]int, len(values))
	for i, v := range values {
		rankOf[v] = i + 1
	}

	ranks := make([]int, len(groups))
	for i, g := range groups {
		ranks[i] = rankOf[metric(g)]
	}
	return ranks
}

// classify applies the directional rule: "up" when the demand rank number
// exceeds the supply rank number by more than one. The >1 threshold is a
// deliberate, fixed cutoff.
func classify(demandRank, providedRank int) string {
	if demandRank-providedRank > 1 {
		return ChangeUp
	}
	return ChangeDown
}

func valueOrZero(v *int64) int64 {
	if v == nil {
		return 0
	}
	return *v
}

func percent(part, total float64) float64 {
	if total == 0 {
		return math.NaN()
	}
	return part / total * 100
}
