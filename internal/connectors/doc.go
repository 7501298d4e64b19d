// Package connectors groups the document sources engage ingests from.
// The legistar subpackage crawls a Legistar site; localdir watches a
// local directory for dropped files. Each source feeds the ingest
// service, which owns persistence.
package connectors
