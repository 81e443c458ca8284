// Package pkg provides the core libraries for open-data catalog analysis.
//
// # Overview
//
// The pkg directory is organized by stage of the analysis:
//
//  1. [catalog] - Fetching portal catalogs and flattening them into records
//  2. [analysis] - Descriptive statistics and the supply/demand comparison
//  3. [report] - Terminal tables, SVG charts, the catalog map, JSON dumps
//  4. [httputil] - Response caching and retry with backoff
//  5. [errors] - Structured error codes shared across the module
//
// # Architecture
//
// The typical data flow:
//
//	Socrata discovery API
//	         ↓
//	    [catalog] package (fetch + flatten into records)
//	         ↓
//	    [analysis] package (statistics, dense ranking)
//	         ↓
//	    [report] package (tables, charts, artifacts)
//
// # Quick Start
//
// Fetch a catalog and build a report:
//
//	cache, _ := httputil.NewCache("", catalog.DefaultCacheTTL)
//	client := catalog.NewClient(cache)
//	doc, _ := client.FetchCatalog(ctx, "data.austintexas.gov", catalog.DefaultLimit, false)
//	records := catalog.Flatten(doc)
//
//	rep := report.Build(records, report.Params{
//	    Domain:  "data.austintexas.gov",
//	    GroupBy: analysis.GroupByCategory,
//	    Theme:   report.DefaultTheme(),
//	})
//	rep.RenderTerminal(os.Stdout)
//
// [catalog]: https://pkg.go.dev/github.com/ccong2/austin-open-data/pkg/catalog
// [analysis]: https://pkg.go.dev/github.com/ccong2/austin-open-data/pkg/analysis
// [report]: https://pkg.go.dev/github.com/ccong2/austin-open-data/pkg/report
// [httputil]: https://pkg.go.dev/github.com/ccong2/austin-open-data/pkg/httputil
// [errors]: https://pkg.go.dev/github.com/ccong2/austin-open-data/pkg/errors
package pkg
