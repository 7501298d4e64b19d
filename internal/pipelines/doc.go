// Package pipelines holds the released pipeline configurations. A
// pipeline config names the summarization method for each (subject
// class, summary kind) role plus the extraction method, tying the
// registries together under one name. Configs are validated at
// registry construction so a dangling method name fails at startup
// rather than mid-batch.
package pipelines
