// Package sqlite provides a unified SQLite-based implementation of driven port interfaces.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO, enabling easy cross-compilation. It implements multiple store interfaces
// through a single database connection:
//
//   - MeetingStore: crawled meeting persistence
//   - LegislationStore: crawled legislation persistence
//   - ActionStore: crawled legislative action persistence
//   - DocumentStore: document metadata and meeting/legislation links
//   - ArtifactStore: extraction and summary artifact cache
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql files.
// Unique indexes over extraction_artifacts(document_id, method) and
// summary_artifacts(subject_kind, subject_id, method) carry the artifact
// cache's at-most-once contract.
//
// # Data Location
//
// By default, the database is stored at ~/.engage/data/metadata.db
//
// # Thread Safety
//
// All operations are thread-safe. The store uses database-level locking provided
// by SQLite in WAL mode.
package sqlite
