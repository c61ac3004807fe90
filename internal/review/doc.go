// Package review replays materialized pile directories for human triage.
//
// Piles open one at a time, in lexicographic directory order, through an
// external opener program or the platform file opener. A bounded handle
// cache keeps recently decoded preview headers in memory so stepping back to
// a pile does not decode it again.
package review
