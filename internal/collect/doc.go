// Package collect flattens a sorted tree of pile directories back into a
// single folder once duplicates have been weeded out by hand.
package collect
