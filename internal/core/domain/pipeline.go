package domain

import "fmt"

// SummarizerPair names the body and headline summarization methods
// bound for one subject class.
type SummarizerPair struct {
	Body     string
	Headline string
}

// ForKind returns the method name bound for the summary kind.
func (p SummarizerPair) ForKind(kind SummaryKind) (string, error) {
	switch kind {
	case SummaryBody:
		return p.Body, nil
	case SummaryHeadline:
		return p.Headline, nil
	default:
		return "", fmt.Errorf("%w: unknown summary kind %q", ErrInvalidInput, kind)
	}
}

// PipelineConfig binds, under one name, every summarization and
// extraction method needed to go from raw documents to a final
// meeting summary.
type PipelineConfig struct {
	Name        string
	Meeting     SummarizerPair
	Legislation SummarizerPair
	Document    SummarizerPair
	Extractor   string
}

// ForClass returns the summarizer pair bound for the subject class.
func (c *PipelineConfig) ForClass(class SubjectKind) (SummarizerPair, error) {
	switch class {
	case SubjectMeeting:
		return c.Meeting, nil
	case SubjectLegislation:
		return c.Legislation, nil
	case SubjectDocument:
		return c.Document, nil
	default:
		return SummarizerPair{}, fmt.Errorf("%w: unknown subject class %q", ErrInvalidInput, class)
	}
}

// MethodFor returns the method name bound for (class, kind).
func (c *PipelineConfig) MethodFor(class SubjectKind, kind SummaryKind) (string, error) {
	pair, err := c.ForClass(class)
	if err != nil {
		return "", err
	}
	return pair.ForKind(kind)
}

// Binds reports whether the config binds method for any of the given
// classes and kinds.
func (c *PipelineConfig) Binds(method string, classes []SubjectKind, kinds []SummaryKind) bool {
	for _, class := range classes {
		pair, err := c.ForClass(class)
		if err != nil {
			continue
		}
		for _, kind := range kinds {
			if name, err := pair.ForKind(kind); err == nil && name == method {
				return true
			}
		}
	}
	return false
}
