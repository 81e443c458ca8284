// Package analysis computes descriptive statistics and supply-vs-demand
// comparisons over a flattened catalog record table.
//
// Every function is a pure, deterministic read of its input: the record
// table is never mutated, and running any computation twice on the same
// table yields identical results.
//
// The comparison core ranks grouping keys (categories or datatypes) on
// supply (datasets provided) and demand (downloads, pageviews) using dense
// ranking, then classifies the supply/demand rank mismatch per group as
// "up" or "down".
package analysis
