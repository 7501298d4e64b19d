package mcp

import (
	"github.com/opencivics/engage/internal/core/ports/driven"
	"github.com/opencivics/engage/internal/core/ports/driving"
)

// Ports aggregates the dependencies the MCP server needs. Pipeline is
// required; the stores resolve record numbers and meeting listings and
// may be nil when the corresponding tools are not wanted.
type Ports struct {
	Pipeline     driving.PipelineService
	Status       driving.StatusService
	Meetings     driven.MeetingStore
	Legislations driven.LegislationStore

	// ConfigName selects the pipeline config used when computing
	// summaries. Empty means the concise default.
	ConfigName string
}

// Validate checks that required ports are present.
func (p *Ports) Validate() error {
	if p == nil {
		return ErrNilPorts
	}
	if p.Pipeline == nil {
		return ErrMissingPipelineService
	}
	return nil
}
