// Package fixture assembles Ogawa archive images in memory for tests.
//
// A [Builder] places raw groups and data chunks; [Build] lays out a whole
// Alembic-style archive from an [Archive] description, including the shared
// tables, object and property header blobs, sample digests and indirection
// tables. Consecutive identical samples are stored once, the same way a
// writer deduplicates them.
package fixture
