package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/opencivics/engage/internal/core/domain"
	"github.com/opencivics/engage/internal/core/ports/driven"
	"github.com/opencivics/engage/internal/core/ports/driving"
	"github.com/opencivics/engage/internal/logger"
)

// Ensure PipelineService implements the interface.
var _ driving.PipelineService = (*PipelineService)(nil)

// DefaultDocumentWorkers bounds the document fan-out within one batch
// item.
const DefaultDocumentWorkers = 4

// PipelineService computes and caches extraction and summary
// artifacts. Every operation is get-or-create over the artifact
// store's (subject, method) keys: the first request computes and
// stores, later requests return the stored row untouched. Higher-level
// summaries check their dependencies at read time and fail with
// MissingDependencyError when a lower-level artifact is absent;
// nothing is computed implicitly.
type PipelineService struct {
	meetings     driven.MeetingStore
	legislations driven.LegislationStore
	documents    driven.DocumentStore
	artifacts    driven.ArtifactStore
	blobs        driven.BlobStore
	extractors   driven.ExtractorRegistry
	summarizers  driven.SummarizerRegistry
	configs      driven.PipelineRegistry
	llm          driven.LLMService
	docWorkers   int
}

// NewPipelineService creates a new pipeline service. llm may be nil;
// summarization then fails with domain.ErrLLMUnavailable.
func NewPipelineService(
	meetings driven.MeetingStore,
	legislations driven.LegislationStore,
	documents driven.DocumentStore,
	artifacts driven.ArtifactStore,
	blobs driven.BlobStore,
	extractors driven.ExtractorRegistry,
	summarizers driven.SummarizerRegistry,
	configs driven.PipelineRegistry,
	llm driven.LLMService,
) *PipelineService {
	return &PipelineService{
		meetings:     meetings,
		legislations: legislations,
		documents:    documents,
		artifacts:    artifacts,
		blobs:        blobs,
		extractors:   extractors,
		summarizers:  summarizers,
		configs:      configs,
		llm:          llm,
		docWorkers:   DefaultDocumentWorkers,
	}
}

// ExtractDocument returns the document's extracted text under the
// named config's extractor, computing and storing it on first request.
func (s *PipelineService) ExtractDocument(ctx context.Context, documentID int64, configName string) (*domain.ExtractionArtifact, error) {
	config, err := s.configs.ByName(configName)
	if err != nil {
		return nil, err
	}
	existing, err := s.artifacts.GetExtraction(ctx, documentID, config.Extractor)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("get extraction: %w", err)
	}
	doc, err := s.documents.GetDocument(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("get document %d: %w", documentID, err)
	}
	extractor, err := s.extractors.Lookup(config.Extractor, doc.MIMEType)
	if err != nil {
		return nil, err
	}
	data, err := s.blobs.Get(ctx, doc.BlobRef)
	if err != nil {
		return nil, fmt.Errorf("read blob %s: %w", doc.BlobRef, err)
	}
	logger.Stage("EXTRACT", "document_text(%s, %s)", doc.Title, config.Extractor)
	text, err := extractor.Extract(ctx, data)
	if err != nil {
		return nil, fmt.Errorf("extract document %d: %w", documentID, err)
	}
	stored, _, err := s.artifacts.PutExtraction(ctx, &domain.ExtractionArtifact{
		DocumentID:  documentID,
		Method:      config.Extractor,
		Text:        text,
		ExtractedAt: time.Now().UTC(),
	})
	if err != nil {
		return nil, fmt.Errorf("store extraction: %w", err)
	}
	return stored, nil
}

// SummarizeDocument produces the document's body and headline
// summaries, extracting its text first if no extraction artifact
// exists yet. The extraction is the document's own artifact, so it is
// computed inline rather than treated as a dependency.
func (s *PipelineService) SummarizeDocument(ctx context.Context, documentID int64, configName string) (*driving.SummaryPair, error) {
	config, err := s.configs.ByName(configName)
	if err != nil {
		return nil, err
	}
	extraction, err := s.ExtractDocument(ctx, documentID, configName)
	if err != nil {
		return nil, err
	}
	return s.summarizePair(ctx, config, domain.DocumentSubject(documentID), extraction.Text, nil)
}

// SummarizeLegislation produces the legislation's body and headline
// summaries over the joined body summaries of its documents.
func (s *PipelineService) SummarizeLegislation(ctx context.Context, legislationID int64, configName string) (*driving.SummaryPair, error) {
	config, err := s.configs.ByName(configName)
	if err != nil {
		return nil, err
	}
	leg, err := s.legislations.GetLegislation(ctx, legislationID)
	if err != nil {
		return nil, fmt.Errorf("get legislation %d: %w", legislationID, err)
	}
	subject := domain.LegislationSubject(legislationID)
	docs, err := s.documents.ListLegislationDocuments(ctx, legislationID)
	if err != nil {
		return nil, fmt.Errorf("list legislation %d documents: %w", legislationID, err)
	}
	texts, err := s.documentBodies(ctx, config, subject, docs)
	if err != nil {
		return nil, err
	}
	logger.Stage("SUMMARIZE", "legislation(%s) - joining %d summaries", leg.RecordNo, len(texts))
	subs := map[string]string{"title": titleContext(leg.Title)}
	return s.summarizePair(ctx, config, subject, strings.Join(texts, "\n\n"), subs)
}

// SummarizeMeeting produces the meeting's body and headline summaries
// over the joined body summaries of its non-excluded documents and of
// the legislation on its agenda, matched by record number.
func (s *PipelineService) SummarizeMeeting(ctx context.Context, meetingID int64, configName string) (*driving.SummaryPair, error) {
	config, err := s.configs.ByName(configName)
	if err != nil {
		return nil, err
	}
	m, err := s.meetings.GetMeeting(ctx, meetingID)
	if err != nil {
		return nil, fmt.Errorf("get meeting %d: %w", meetingID, err)
	}
	subject := domain.MeetingSubject(meetingID)
	docs, err := s.documents.ListMeetingDocuments(ctx, meetingID)
	if err != nil {
		return nil, fmt.Errorf("list meeting %d documents: %w", meetingID, err)
	}
	docTexts, err := s.documentBodies(ctx, config, subject, docs)
	if err != nil {
		return nil, err
	}
	legTexts, err := s.legislationBodies(ctx, config, subject, m.RecordNos())
	if err != nil {
		return nil, err
	}
	logger.Stage("SUMMARIZE", "meeting(%d) - joining %d document + %d legislation summaries",
		m.LegistarID, len(docTexts), len(legTexts))
	subs := map[string]string{"department": m.Department.Name}
	input := strings.Join(append(docTexts, legTexts...), "\n\n")
	return s.summarizePair(ctx, config, subject, input, subs)
}

// Summary returns the stored artifact for (subject, method). The
// method is resolved against the released pipeline configs first, so a
// method name no config binds is reported as such rather than as a
// missing row.
func (s *PipelineService) Summary(ctx context.Context, subject domain.Subject, method string) (*domain.SummaryArtifact, error) {
	if _, err := s.configs.GetConfig(method, []domain.SubjectKind{subject.Kind}, domain.AllSummaryKinds); err != nil {
		return nil, err
	}
	return s.artifacts.GetSummary(ctx, subject, method)
}

// Extraction returns the stored artifact for (document, method).
func (s *PipelineService) Extraction(ctx context.Context, documentID int64, method string) (*domain.ExtractionArtifact, error) {
	return s.artifacts.GetExtraction(ctx, documentID, method)
}

// summarizePair produces the body and headline artifacts for one
// subject from the same input text.
func (s *PipelineService) summarizePair(ctx context.Context, config *domain.PipelineConfig, subject domain.Subject, text string, subs map[string]string) (*driving.SummaryPair, error) {
	body, err := s.getOrCreateSummary(ctx, config, subject, domain.SummaryBody, text, subs)
	if err != nil {
		return nil, err
	}
	headline, err := s.getOrCreateSummary(ctx, config, subject, domain.SummaryHeadline, text, subs)
	if err != nil {
		return nil, err
	}
	return &driving.SummaryPair{Body: body, Headline: headline}, nil
}

// getOrCreateSummary returns the stored artifact for the subject under
// the config's (class, kind) method, computing it on first request.
// Summarizations that fail before any model call are stored as failure
// artifacts, so the pair is not retried; model errors propagate.
func (s *PipelineService) getOrCreateSummary(ctx context.Context, config *domain.PipelineConfig, subject domain.Subject, kind domain.SummaryKind, text string, subs map[string]string) (*domain.SummaryArtifact, error) {
	method, err := config.MethodFor(subject.Kind, kind)
	if err != nil {
		return nil, err
	}
	existing, err := s.artifacts.GetSummary(ctx, subject, method)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("get summary: %w", err)
	}
	if s.llm == nil {
		return nil, domain.ErrLLMUnavailable
	}
	summarizer, err := s.summarizers.Lookup(method)
	if err != nil {
		return nil, err
	}
	logger.Stage("SUMMARIZE", "%s w/ %s", subject, method)
	result, err := summarizer.Summarize(ctx, s.llm, text, subs)
	if err != nil {
		return nil, fmt.Errorf("summarize %s: %w", subject, err)
	}
	stored, _, err := s.artifacts.PutSummary(ctx, summaryArtifact(subject, method, result))
	if err != nil {
		return nil, fmt.Errorf("store summary: %w", err)
	}
	return stored, nil
}

// summaryArtifact converts a summarization outcome into its stored
// form.
func summaryArtifact(subject domain.Subject, method string, result domain.SummaryResult) *domain.SummaryArtifact {
	a := &domain.SummaryArtifact{
		SubjectKind: subject.Kind,
		SubjectID:   subject.ID,
		Method:      method,
		CreatedAt:   time.Now().UTC(),
	}
	switch r := result.(type) {
	case *domain.SummarySuccess:
		a.Body = r.Body
		a.Headline = r.Headline
		a.OriginalText = r.OriginalText
		a.Chunks = r.Chunks
		a.ChunkSummaries = r.ChunkSummaries
	case *domain.SummaryFailure:
		a.OriginalText = r.OriginalText
		a.Message = r.Message
	}
	return a
}

// documentBodies collects the body summaries of the given documents in
// link order, skipping excluded kinds. A document without a body
// summary is a missing dependency of subject.
func (s *PipelineService) documentBodies(ctx context.Context, config *domain.PipelineConfig, subject domain.Subject, docs []domain.Document) ([]string, error) {
	method, err := config.MethodFor(domain.SubjectDocument, domain.SummaryBody)
	if err != nil {
		return nil, err
	}
	texts := make([]string, 0, len(docs))
	for _, doc := range docs {
		if doc.Excluded(domain.DefaultMeetingExclusions) {
			continue
		}
		artifact, err := s.artifacts.GetSummary(ctx, domain.DocumentSubject(doc.ID), method)
		if errors.Is(err, domain.ErrNotFound) {
			return nil, &domain.MissingDependencyError{
				Subject: subject,
				Missing: fmt.Sprintf("document %d body summary", doc.ID),
				Method:  method,
			}
		}
		if err != nil {
			return nil, fmt.Errorf("get document %d summary: %w", doc.ID, err)
		}
		texts = append(texts, artifact.Body)
	}
	return texts, nil
}

// legislationBodies collects the body summaries of the legislation
// behind each agenda record number, in row order.
func (s *PipelineService) legislationBodies(ctx context.Context, config *domain.PipelineConfig, subject domain.Subject, recordNos []string) ([]string, error) {
	method, err := config.MethodFor(domain.SubjectLegislation, domain.SummaryBody)
	if err != nil {
		return nil, err
	}
	texts := make([]string, 0, len(recordNos))
	for _, recordNo := range recordNos {
		leg, err := s.legislations.GetLegislationByRecordNo(ctx, recordNo)
		if errors.Is(err, domain.ErrNotFound) {
			return nil, &domain.MissingDependencyError{
				Subject: subject,
				Missing: fmt.Sprintf("legislation %q", recordNo),
				Method:  method,
			}
		}
		if err != nil {
			return nil, fmt.Errorf("get legislation %q: %w", recordNo, err)
		}
		artifact, err := s.artifacts.GetSummary(ctx, domain.LegislationSubject(leg.ID), method)
		if errors.Is(err, domain.ErrNotFound) {
			return nil, &domain.MissingDependencyError{
				Subject: subject,
				Missing: fmt.Sprintf("legislation %q body summary", recordNo),
				Method:  method,
			}
		}
		if err != nil {
			return nil, fmt.Errorf("get legislation %q summary: %w", recordNo, err)
		}
		texts = append(texts, artifact.Body)
	}
	return texts, nil
}

// titleContext prepares an entity title for template substitution.
// Long titles are truncated and double quotes flattened so the title
// can sit inside a quoted prompt sentence.
func titleContext(title string) string {
	if r := []rune(title); len(r) > 100 {
		title = string(r[:100]) + "..."
	}
	return strings.ReplaceAll(title, `"`, "'")
}
