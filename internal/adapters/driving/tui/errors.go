package tui

import "errors"

// ErrMissingPipelineService is returned when the pipeline service is not provided.
var ErrMissingPipelineService = errors.New("tui: pipeline service is required")

// ErrMissingStatusService is returned when the status service is not provided.
var ErrMissingStatusService = errors.New("tui: status service is required")
