// Package jsondb is an embedded document store persisted as one JSON file.
//
// The file holds a single object mapping table names to arrays of entries.
// A Database loads the whole file in memory, operates on one current table
// at a time and writes everything back on Save or Close. A lock file guards
// each load and save against other processes; in-memory operations are not
// synchronized and a Database must not be shared between goroutines without
// external locking.
//
// # Entry IDs
//
// An entry ID is the position of an entry in its table. Inserting or
// removing entries shifts the IDs of the entries after it, so IDs must not be
// kept across mutations.
//
// # Paths
//
// A path addresses any node from the root of the store: the table name, the
// entry ID, then keys and indices into the entry. The search methods return
// paths that the path methods accept.
package jsondb
