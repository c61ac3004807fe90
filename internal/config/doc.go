// Package config loads, normalizes, and validates pilesort configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), and reads TOML files. The Config type centralizes every knob the
// CLI needs, most importantly the match predicate tunables (hash distance
// threshold and time window) that decide how aggressively images are grouped.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical values, and clear validation errors.
package config
