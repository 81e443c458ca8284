// Package report renders analysis results into human-readable artifacts:
// styled terminal tables, SVG bar charts, a Graphviz category/datatype map,
// and a JSON dump of the aggregate tables.
//
// All styling flows through an explicit [Theme] value (optionally loaded
// from a TOML file) rather than package-level state, so two reports with
// different themes can be produced in one process.
package report
