// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - Fetcher: Retrieves remote pages and documents over HTTP
//   - MeetingStore: Meeting persistence
//   - LegislationStore: Legislation persistence
//   - ActionStore: Action persistence
//   - DocumentStore: Document metadata persistence
//   - ArtifactStore: Extraction and summary artifact persistence
//   - BlobStore: Raw document byte storage
//   - ConfigStore: Application configuration
//   - ExtractorRegistry: Text extraction dispatch by version and MIME type
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - LLMService: Language model operations. Without it, summarization
//     commands fail fast with domain.ErrLLMUnavailable; crawling and
//     extraction still work.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or connector package
package driven
