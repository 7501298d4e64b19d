// Package tui provides a terminal monitor for batch summarization runs.
// It implements a driving adapter following hexagonal architecture
// principles.
package tui

import (
	"github.com/opencivics/engage/internal/core/ports/driving"
)

// Ports aggregates the driving port interfaces required by the monitor.
type Ports struct {
	// Pipeline runs the batch summarization.
	Pipeline driving.PipelineService

	// Status reports store counts for the live display.
	Status driving.StatusService

	// ConfigName selects the pipeline config. Empty means the concise
	// default.
	ConfigName string
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Pipeline == nil {
		return ErrMissingPipelineService
	}
	if p.Status == nil {
		return ErrMissingStatusService
	}
	return nil
}
