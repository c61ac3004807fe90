// Package preflight validates paths and programs before a run starts.
//
// Validation failures here are the fatal kind: a missing source, a non-empty
// destination, or an unresolvable opener aborts the command with a clear
// message before any scanning or clustering work is spent.
package preflight
