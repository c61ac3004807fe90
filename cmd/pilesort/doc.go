// Package main hosts the pilesort CLI entrypoint and command graph.
//
// The Cobra-based command tree covers the full workflow: sort a photo dump
// into pile directories, replay piles for manual weeding, collect the
// survivors back into a flat folder, and scaffold configuration. It
// centralizes configuration resolution and structured logging setup so
// subcommands can focus on user experience instead of wiring.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
package main
