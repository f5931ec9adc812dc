// Package datasource is a small stand-in for the hosted JSON database the
// sign polls. Leaves live in SQLite (one row per scalar, each write stamped
// with a ULID revision) and Server exposes them over the same REST dialect
// remote.Client reads. Display wraps the store with the sentence-table
// rules used by the marquee-data admin commands.
package datasource
