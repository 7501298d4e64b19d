package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/opencivics/engage/internal/core/domain"
	"github.com/opencivics/engage/internal/core/ports/driven"
	"github.com/opencivics/engage/internal/core/ports/driving"
	"github.com/opencivics/engage/internal/logger"
)

// Ensure IngestService implements the interface.
var _ driving.IngestService = (*IngestService)(nil)

// IngestService persists crawled entities and downloads the documents
// they reference. Entities are upserted by their Legistar identity;
// documents are unique by URL and fetched only on first sight.
type IngestService struct {
	meetings     driven.MeetingStore
	legislations driven.LegislationStore
	actions      driven.ActionStore
	documents    driven.DocumentStore
	blobs        driven.BlobStore
	fetcher      driven.Fetcher
}

// NewIngestService creates a new ingest service.
func NewIngestService(
	meetings driven.MeetingStore,
	legislations driven.LegislationStore,
	actions driven.ActionStore,
	documents driven.DocumentStore,
	blobs driven.BlobStore,
	fetcher driven.Fetcher,
) *IngestService {
	return &IngestService{
		meetings:     meetings,
		legislations: legislations,
		actions:      actions,
		documents:    documents,
		blobs:        blobs,
		fetcher:      fetcher,
	}
}

// IngestEntity upserts one crawled entity and its documents.
func (s *IngestService) IngestEntity(ctx context.Context, entity domain.Entity) (*driving.IngestResult, error) {
	switch e := entity.(type) {
	case *domain.Calendar:
		// Calendar rows only route the crawl; meetings carry the data.
		return &driving.IngestResult{}, nil
	case *domain.Meeting:
		return s.ingestMeeting(ctx, e)
	case *domain.Legislation:
		return s.ingestLegislation(ctx, e)
	case *domain.Action:
		return s.ingestAction(ctx, e)
	default:
		return nil, fmt.Errorf("%w: unexpected entity kind %q", domain.ErrInvalidInput, entity.EntityKind())
	}
}

// IngestFile stores raw bytes picked up outside the crawl, such as a
// file dropped into a watched directory, as a supporting document.
func (s *IngestService) IngestFile(ctx context.Context, url, title string, data []byte, mimeType string) (*domain.Document, error) {
	if url == "" {
		return nil, fmt.Errorf("%w: empty document url", domain.ErrInvalidInput)
	}
	if existing, err := s.documents.GetDocumentByURL(ctx, url); err == nil {
		return existing, nil
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("get document by url: %w", err)
	}
	doc, _, err := s.storeDocument(ctx, url, title, domain.DocumentKindSupportingDocument, data, mimeType)
	return doc, err
}

func (s *IngestService) ingestMeeting(ctx context.Context, m *domain.Meeting) (*driving.IngestResult, error) {
	created, err := s.meetings.UpsertMeeting(ctx, m)
	if err != nil {
		return nil, fmt.Errorf("upsert meeting %d: %w", m.LegistarID, err)
	}
	result := newIngestResult(created)
	logger.Stage("CRAWL", "Meeting %d (%d) %s.", m.ID, m.LegistarID, verb(created))

	links := []struct {
		link  *domain.Link
		kind  domain.DocumentKind
		label string
	}{
		{&m.Agenda, domain.DocumentKindAgenda, "agenda"},
		{m.AgendaPacket, domain.DocumentKindAgendaPacket, "packet"},
		{m.Minutes, domain.DocumentKindMinutes, "minutes"},
	}
	for _, l := range links {
		if l.link == nil || l.link.URL == "" {
			continue
		}
		title := fmt.Sprintf("meeting-%d-%s-%s", m.LegistarID, l.label, l.link.Name)
		if err := s.ingestLinkedDocument(ctx, l.link.URL, title, l.kind, meetingLinker(s.documents, m.ID), result); err != nil {
			return nil, err
		}
	}
	for _, att := range m.Attachments {
		title := fmt.Sprintf("meeting-%d-attachment-%s", m.LegistarID, att.Name)
		if err := s.ingestLinkedDocument(ctx, att.URL, title, domain.DocumentKindAttachment, meetingLinker(s.documents, m.ID), result); err != nil {
			return nil, err
		}
	}
	return result, nil
}

func (s *IngestService) ingestLegislation(ctx context.Context, l *domain.Legislation) (*driving.IngestResult, error) {
	created, err := s.legislations.UpsertLegislation(ctx, l)
	if err != nil {
		return nil, fmt.Errorf("upsert legislation %d: %w", l.LegistarID, err)
	}
	result := newIngestResult(created)
	logger.Stage("CRAWL", "Leg %d (%d) %s.", l.ID, l.LegistarID, verb(created))

	for _, att := range l.Attachments {
		title := fmt.Sprintf("legislation-%d-attachment-%s", l.LegistarID, att.Name)
		if err := s.ingestLinkedDocument(ctx, att.URL, title, domain.DocumentKindAttachment, legislationLinker(s.documents, l.ID), result); err != nil {
			return nil, err
		}
	}
	for _, sup := range l.SupportingDocuments {
		title := fmt.Sprintf("legislation-%d-supporting-%s", l.LegistarID, sup.Name)
		if err := s.ingestLinkedDocument(ctx, sup.URL, title, domain.DocumentKindSupportingDocument, legislationLinker(s.documents, l.ID), result); err != nil {
			return nil, err
		}
	}
	return result, nil
}

func (s *IngestService) ingestAction(ctx context.Context, a *domain.Action) (*driving.IngestResult, error) {
	created, err := s.actions.UpsertAction(ctx, a)
	if err != nil {
		return nil, fmt.Errorf("upsert action %d: %w", a.LegistarID, err)
	}
	logger.Stage("CRAWL", "Act %d (%d) %s.", a.ID, a.LegistarID, verb(created))
	return newIngestResult(created), nil
}

// ingestLinkedDocument stores one discovered document and links it to
// its parent entity.
func (s *IngestService) ingestLinkedDocument(ctx context.Context, url, title string, kind domain.DocumentKind, link func(context.Context, int64) error, result *driving.IngestResult) error {
	doc, created, err := s.ingestDocument(ctx, url, title, kind)
	if err != nil {
		return err
	}
	if created {
		result.DocumentsCreated++
	}
	if err := link(ctx, doc.ID); err != nil {
		return fmt.Errorf("link document %d: %w", doc.ID, err)
	}
	return nil
}

// ingestDocument returns the document stored under url, fetching its
// bytes on first sight. Racing callers all receive the winning row.
func (s *IngestService) ingestDocument(ctx context.Context, url, title string, kind domain.DocumentKind) (*domain.Document, bool, error) {
	if existing, err := s.documents.GetDocumentByURL(ctx, url); err == nil {
		return existing, false, nil
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, false, fmt.Errorf("get document by url: %w", err)
	}
	logger.Stage("CRAWL", "get_document(%s)", url)
	data, mimeType, err := s.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, false, err
	}
	return s.storeDocument(ctx, url, title, kind, data, mimeType)
}

// storeDocument writes the bytes to the blob store under a fresh ref
// and inserts the document row. If another caller won the URL in the
// meantime its row is returned and our blob copy is removed.
func (s *IngestService) storeDocument(ctx context.Context, url, title string, kind domain.DocumentKind, data []byte, mimeType string) (*domain.Document, bool, error) {
	ref := uuid.New().String()
	if err := s.blobs.Put(ctx, ref, data); err != nil {
		return nil, false, fmt.Errorf("store blob: %w", err)
	}
	stored, created, err := s.documents.CreateDocument(ctx, &domain.Document{
		URL:      url,
		Kind:     kind,
		Title:    title,
		MIMEType: mimeType,
		BlobRef:  ref,
		Size:     int64(len(data)),
	})
	if err != nil {
		return nil, false, fmt.Errorf("create document: %w", err)
	}
	if !created {
		if err := s.blobs.Delete(ctx, ref); err != nil {
			logger.Warn("orphan blob %s: %v", ref, err)
		}
	}
	return stored, created, nil
}

func meetingLinker(documents driven.DocumentStore, meetingID int64) func(context.Context, int64) error {
	return func(ctx context.Context, documentID int64) error {
		return documents.LinkMeetingDocument(ctx, meetingID, documentID)
	}
}

func legislationLinker(documents driven.DocumentStore, legislationID int64) func(context.Context, int64) error {
	return func(ctx context.Context, documentID int64) error {
		return documents.LinkLegislationDocument(ctx, legislationID, documentID)
	}
}

func newIngestResult(created bool) *driving.IngestResult {
	return &driving.IngestResult{Created: created, Updated: !created}
}

func verb(created bool) string {
	if created {
		return "created"
	}
	return "updated"
}
