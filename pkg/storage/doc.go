// Package storage persists rules and their serialized syntax trees.
//
// Three backends implement Store:
//
//   - MemoryStore keeps rules in a map. It is used by tests and by the
//     "memory" driver.
//   - SQLiteStore over modernc.org/sqlite (driver "sqlite", pure Go).
//   - SQLiteStore over github.com/mattn/go-sqlite3 (driver "sqlite3", cgo).
//
// Open selects a backend from configuration. Rule IDs are assigned by the
// store, start at 1 and are never reused.
//
// SQLite stores also implement Maintainer; a Maintenance scheduler runs
// checkpoint and optimize passes on a cron schedule.
package storage
