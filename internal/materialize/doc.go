// Package materialize turns the final pile list into real directories.
//
// Each pile becomes one destination directory named by its date plus a
// per-date sequence number, with members hard-linked under their original
// base names. Because only links are created, materialization is cheap and
// the source tree stays untouched; a partially materialized run is recovered
// by re-running against a fresh destination. The package also writes the
// plain-text statistics report for the run.
package materialize
