// Package mcp implements a Model Context Protocol server that exposes
// engage summaries as tools and resources for LLM-based assistants.
package mcp

import "errors"

// Configuration errors.
var (
	// ErrNilPorts is returned when NewServer receives nil ports.
	ErrNilPorts = errors.New("ports must not be nil")

	// ErrMissingPipelineService is returned when the pipeline service is not configured.
	ErrMissingPipelineService = errors.New("pipeline service is required")

	// ErrMissingStatusService is returned by the status tool when no status service was wired.
	ErrMissingStatusService = errors.New("status service not configured")

	// ErrMissingMeetingStore is returned by meeting resources when no meeting store was wired.
	ErrMissingMeetingStore = errors.New("meeting store not configured")

	// ErrMissingLegislationStore is returned by legislation lookups when no legislation store was wired.
	ErrMissingLegislationStore = errors.New("legislation store not configured")
)
