// Package scan feeds the clustering engine.
//
// It enumerates every regular file under a source root, fingerprints them on
// a bounded worker pool, and consults the fingerprint cache so unchanged
// files skip the decode entirely. Individual load failures never abort a
// scan; they are logged, counted, and reported in the run summary.
package scan
