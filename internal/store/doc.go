// Package store persists the sync state: which ERP items already exist on the
// ledger, and under which handles.
//
// A State maps an item key to a Record. A Record exists only for items whose
// specification and resource were both created; partial progress is never
// stored. Backends load the whole state at once and rewrite it in full.
//
// Two backends are provided:
//   - JSONFile: a single JSON object on disk, written via temp file + rename.
//   - SQLite: a sync_records table plus a sync_runs history table.
//
// # SQLite configuration
//
//   - WAL mode
//   - synchronous=NORMAL
//   - busy_timeout=5000
//   - user_version tracks schema migrations
//
// Backends are not safe for concurrent runs against the same path.
package store
