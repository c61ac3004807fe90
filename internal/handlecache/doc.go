// Package handlecache bounds the number of decoded image handles held in
// memory during interactive review.
//
// It wraps an LRU store behind generational keys: every insert mints a new
// key from a monotonic counter, so keys never collide across the life of a
// process and revisiting a pile can cheaply tell "still cached" from
// "evicted, decode again".
package handlecache
