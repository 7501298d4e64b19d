package domain

// SummaryResult is the outcome of one summarization run: either a
// *SummarySuccess or a *SummaryFailure. Model invocation errors are
// ordinary Go errors, never results.
type SummaryResult interface {
	summaryResult()
}

// SummarySuccess carries the final texts plus the intermediate
// map-phase state, kept for audit.
type SummarySuccess struct {
	OriginalText   string
	Body           string
	Headline       string
	Chunks         []string
	ChunkSummaries []string
}

// SummaryFailure records a summarization that could not start: empty
// input, or text that no split strategy could chunk. Failures are
// recorded as artifacts so the pair is not retried automatically.
type SummaryFailure struct {
	OriginalText string
	Message      string
}

func (*SummarySuccess) summaryResult() {}
func (*SummaryFailure) summaryResult() {}
