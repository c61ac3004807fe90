// Package piles partitions a fingerprinted image set into piles of related
// photos.
//
// Two images are related when their perceptual hash distance falls below the
// configured threshold and their timestamps are closer than the configured
// window. The engine computes the transitive closure of that relation with a
// disjoint-set structure, so the resulting partition is independent of visit
// order: every image lands in exactly one pile and unmatched images form
// singleton piles.
package piles
