// Package migrations embeds the versioned SQL schema files for the
// SQLite store.
package migrations

import "embed"

// FS holds every migration file, embedded at compile time.
//
//go:embed *.sql
var FS embed.FS
