// Package store provides the variable and parameter-set stores on top of a
// persist.Adapter.
//
// Both stores share one Repository, which reads and writes a single JSON
// document under one key:
//
//	{"variables": [...], "paramSets": [...]}
//
// # Read-modify-write
//
// Every mutation loads the whole document, changes it in memory and writes it
// back. There is no locking and no version check: two processes that mutate
// concurrently race, and the last Set wins on the whole document. Moving to
// per-entity keys or an optimistic-concurrency token would close the race;
// until then callers must not run concurrent writers against one key.
// Within one process, an edit checks that the preset exists in the same cycle
// that writes it, so a delete is never undone by a later edit.
//
// # Errors
//
// A missing key is an empty document. Every other failure, including a
// document that does not decode, is a *StorageError.
package store
