// Package domain defines the core business entities for Engage.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Calendar, Meeting, Legislation, Action: entities crawled from a
//     Legistar site
//   - Document: A file discovered during crawling (agenda, minutes, ...)
//   - Subject: The entity an artifact is about
//   - ExtractionArtifact, SummaryArtifact: immutable pipeline outputs
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
