// Package table implements the archive-wide shared tables.
//
// Two tables are stored once per archive, as data chunks of the top group,
// and referenced by small integer index from object and property headers:
//
//   - Indexed metadata: serialized [MetaData] strings. Index 0 is always the
//     empty metadata; stored entries follow from index 1.
//   - Time samplings: [TimeSampling] descriptors mapping sample indices to
//     times.
//
// Both are decoded once at open and are immutable afterwards. Lookups are
// O(1) and an out-of-range index is corruption, never a silent default.
package table
