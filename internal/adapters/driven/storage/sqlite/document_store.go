package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/opencivics/engage/internal/core/domain"
	"github.com/opencivics/engage/internal/core/ports/driven"
)

// ==================== Document Store ====================

// documentStore implements driven.DocumentStore.
type documentStore struct {
	store *Store
}

var _ driven.DocumentStore = (*documentStore)(nil)

// CreateDocument inserts doc unless a row with the same URL already
// exists. The UNIQUE index on url arbitrates races: the insert is a
// no-op for the loser and the re-fetch returns the winning row.
func (s *documentStore) CreateDocument(ctx context.Context, doc *domain.Document) (*domain.Document, bool, error) {
	createdAt := doc.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	res, err := s.store.db.ExecContext(ctx, `
		INSERT INTO documents (url, kind, title, mime_type, blob_ref, size, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(url) DO NOTHING
	`, doc.URL, string(doc.Kind), doc.Title, doc.MIMEType, doc.BlobRef,
		doc.Size, createdAt.UTC())
	if err != nil {
		return nil, false, fmt.Errorf("inserting document: %w", err)
	}

	inserted, err := res.RowsAffected()
	if err != nil {
		return nil, false, fmt.Errorf("reading rows affected: %w", err)
	}

	stored, err := s.GetDocumentByURL(ctx, doc.URL)
	if err != nil {
		return nil, false, fmt.Errorf("fetching document after insert: %w", err)
	}
	return stored, inserted > 0, nil
}

// GetDocument retrieves a document by row id.
func (s *documentStore) GetDocument(ctx context.Context, id int64) (*domain.Document, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, url, kind, title, mime_type, blob_ref, size, created_at
		FROM documents WHERE id = ?
	`, id)

	return scanDocument(row)
}

// GetDocumentByURL retrieves a document by its source URL.
func (s *documentStore) GetDocumentByURL(ctx context.Context, url string) (*domain.Document, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, url, kind, title, mime_type, blob_ref, size, created_at
		FROM documents WHERE url = ?
	`, url)

	return scanDocument(row)
}

// LinkMeetingDocument associates a document with a meeting.
func (s *documentStore) LinkMeetingDocument(ctx context.Context, meetingID, documentID int64) error {
	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO meeting_documents (meeting_id, document_id)
		VALUES (?, ?)
		ON CONFLICT(meeting_id, document_id) DO NOTHING
	`, meetingID, documentID)
	if err != nil {
		return fmt.Errorf("linking meeting document: %w", err)
	}
	return nil
}

// LinkLegislationDocument associates a document with a legislation.
func (s *documentStore) LinkLegislationDocument(ctx context.Context, legislationID, documentID int64) error {
	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO legislation_documents (legislation_id, document_id)
		VALUES (?, ?)
		ON CONFLICT(legislation_id, document_id) DO NOTHING
	`, legislationID, documentID)
	if err != nil {
		return fmt.Errorf("linking legislation document: %w", err)
	}
	return nil
}

// ListMeetingDocuments returns a meeting's documents in link order.
func (s *documentStore) ListMeetingDocuments(ctx context.Context, meetingID int64) ([]domain.Document, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT d.id, d.url, d.kind, d.title, d.mime_type, d.blob_ref, d.size, d.created_at
		FROM documents d
		JOIN meeting_documents md ON md.document_id = d.id
		WHERE md.meeting_id = ?
		ORDER BY md.rowid
	`, meetingID)
	if err != nil {
		return nil, fmt.Errorf("querying meeting documents: %w", err)
	}
	defer rows.Close()

	return collectDocuments(rows)
}

// ListLegislationDocuments returns a legislation's documents in link order.
func (s *documentStore) ListLegislationDocuments(ctx context.Context, legislationID int64) ([]domain.Document, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT d.id, d.url, d.kind, d.title, d.mime_type, d.blob_ref, d.size, d.created_at
		FROM documents d
		JOIN legislation_documents ld ON ld.document_id = d.id
		WHERE ld.legislation_id = ?
		ORDER BY ld.rowid
	`, legislationID)
	if err != nil {
		return nil, fmt.Errorf("querying legislation documents: %w", err)
	}
	defer rows.Close()

	return collectDocuments(rows)
}

// DeleteDocument removes a document row. Links and extraction
// artifacts cascade through the schema's foreign keys.
func (s *documentStore) DeleteDocument(ctx context.Context, id int64) error {
	_, err := s.store.db.ExecContext(ctx, "DELETE FROM documents WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting document: %w", err)
	}
	return nil
}

// CountDocuments returns the number of stored documents.
func (s *documentStore) CountDocuments(ctx context.Context) (int64, error) {
	var count int64
	err := s.store.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM documents").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting documents: %w", err)
	}
	return count, nil
}

// scanDocument scans a document row in the column order used by the
// document queries above.
func scanDocument(sc rowScanner) (*domain.Document, error) {
	var doc domain.Document
	var kind string
	var createdAt sql.NullTime

	if err := sc.Scan(&doc.ID, &doc.URL, &kind, &doc.Title, &doc.MIMEType,
		&doc.BlobRef, &doc.Size, &createdAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning document: %w", err)
	}

	doc.Kind = domain.DocumentKind(kind)
	if createdAt.Valid {
		doc.CreatedAt = createdAt.Time
	}

	return &doc, nil
}

// collectDocuments drains a document query's rows.
func collectDocuments(rows *sql.Rows) ([]domain.Document, error) {
	var docs []domain.Document //nolint:prealloc // size unknown from query
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, *doc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating documents: %w", err)
	}

	return docs, nil
}
