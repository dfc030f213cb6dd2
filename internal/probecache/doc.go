// Package probecache persists clip durations in SQLite so repeated runs over
// large corpora skip re-probing unchanged files.
//
// Entries are keyed by absolute path, byte size and modification time; any
// change to a clip produces a new key. The database is disposable: a schema
// version mismatch drops and recreates the table instead of failing.
package probecache
