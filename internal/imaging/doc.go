// Package imaging extracts fingerprints from image files.
//
// A fingerprint pairs a fixed-width 64-bit perceptual hash with a best-effort
// capture timestamp. Timestamps come from EXIF metadata when present and fall
// back to filesystem birth and access times, so every readable image gets a
// usable value. Load failures carry a sentinel class (unreadable, undecodable,
// bad metadata) so callers can skip individual files without aborting a run.
package imaging
