package driving

import "context"

// StatusService reports on the local data store.
type StatusService interface {
	// Status returns current row counts and configuration state.
	Status(ctx context.Context) (*Status, error)
}

// Status is a snapshot of the local data store.
type Status struct {
	// Meetings is the total stored meeting count.
	Meetings int64

	// ActiveMeetings excludes canceled meetings.
	ActiveMeetings int64

	// Legislations is the stored legislation count.
	Legislations int64

	// Documents is the stored document count.
	Documents int64

	// Extractions is the stored extraction artifact count.
	Extractions int64

	// Summaries is the stored summary artifact count.
	Summaries int64

	// LLMConfigured reports whether summarization commands can run.
	LLMConfigured bool

	// LLMModel is the configured model name, empty when unconfigured.
	LLMModel string

	// Customer is the configured Legistar customer slug.
	Customer string
}
