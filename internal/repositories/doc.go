// Package repositories implements SQLite persistence for all domain entities.
//
// Each repository handles CRUD operations with atomic sequence generation for human-readable ordering.
// Videos and users support soft deletes via deleted_at timestamps and exclude deleted records from queries by default.
//
// Key Implementations:
//   - [VideoRepository] : Video summaries with search, sort, channel filtering, and view counting
//   - [UserRepository] : Owner accounts with email-based lookups
//   - [SessionRepository] : Login sessions keyed by token hash, with expiry cleanup
//
// Sequence numbers provide stable, human-readable ordering (e.g., video #42) independent of UUIDs and creation timestamps.
// The [NextSequence] function atomically increments per-table sequence counters in dedicated sequence tables.
package repositories
