// Package catalog fetches and flattens the published-dataset catalog of a
// Socrata open-data portal.
//
// The discovery API returns one nested JSON entry per published asset. This
// package issues the single catalog GET (with response caching and retry for
// transient failures) and projects each entry into a flat [Record], which is
// the input row type for all downstream statistics.
//
// Absence is first-class: optional catalog fields (category, download count,
// pageview counts) flatten to nil pointers, never to sentinel values, and a
// missing tag list flattens to an empty slice. Flattening always produces
// exactly one Record per catalog entry.
package catalog
