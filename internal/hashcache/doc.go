// Package hashcache persists image fingerprints between runs.
//
// Decoding and hashing dominate scan time, and photo collections mostly do
// not change between sorting sessions. The store keys fingerprints by path
// and validates them against file size and modification time, so only new or
// touched files pay the decode cost. A file lock serializes access by
// concurrent pilesort processes sharing one cache directory.
package hashcache
