package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/opencivics/engage/internal/core/domain"
	"github.com/opencivics/engage/internal/core/ports/driven"
)

// ==================== Artifact Store ====================

// artifactStore implements driven.ArtifactStore. Both artifact tables
// carry a unique index over their (subject, method) key, so Put is
// INSERT ... ON CONFLICT DO NOTHING followed by a re-fetch: the loser
// of a race observes zero affected rows and returns the winner's row.
type artifactStore struct {
	store *Store
}

var _ driven.ArtifactStore = (*artifactStore)(nil)

// GetExtraction retrieves the artifact for a (document, method) pair.
func (s *artifactStore) GetExtraction(ctx context.Context, documentID int64, method string) (*domain.ExtractionArtifact, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, document_id, method, text, extracted_at
		FROM extraction_artifacts
		WHERE document_id = ? AND method = ?
	`, documentID, method)

	var a domain.ExtractionArtifact
	var extractedAt sql.NullTime
	if err := row.Scan(&a.ID, &a.DocumentID, &a.Method, &a.Text, &extractedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning extraction artifact: %w", err)
	}
	if extractedAt.Valid {
		a.ExtractedAt = extractedAt.Time
	}

	return &a, nil
}

// PutExtraction inserts a unless an artifact for the same (document,
// method) pair already exists.
func (s *artifactStore) PutExtraction(ctx context.Context, a *domain.ExtractionArtifact) (*domain.ExtractionArtifact, bool, error) {
	extractedAt := a.ExtractedAt
	if extractedAt.IsZero() {
		extractedAt = time.Now().UTC()
	}

	res, err := s.store.db.ExecContext(ctx, `
		INSERT INTO extraction_artifacts (document_id, method, text, extracted_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(document_id, method) DO NOTHING
	`, a.DocumentID, a.Method, a.Text, extractedAt.UTC())
	if err != nil {
		return nil, false, fmt.Errorf("inserting extraction artifact: %w", err)
	}

	inserted, err := res.RowsAffected()
	if err != nil {
		return nil, false, fmt.Errorf("reading rows affected: %w", err)
	}

	stored, err := s.GetExtraction(ctx, a.DocumentID, a.Method)
	if err != nil {
		return nil, false, fmt.Errorf("fetching extraction artifact after insert: %w", err)
	}
	return stored, inserted > 0, nil
}

// GetSummary retrieves the artifact for a (subject, method) pair.
func (s *artifactStore) GetSummary(ctx context.Context, subject domain.Subject, method string) (*domain.SummaryArtifact, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, subject_kind, subject_id, method, body, headline,
			original_text, chunks, chunk_summaries, message, created_at
		FROM summary_artifacts
		WHERE subject_kind = ? AND subject_id = ? AND method = ?
	`, string(subject.Kind), subject.ID, method)

	return scanSummary(row)
}

// PutSummary inserts a unless an artifact for the same (subject,
// method) pair already exists.
func (s *artifactStore) PutSummary(ctx context.Context, a *domain.SummaryArtifact) (*domain.SummaryArtifact, bool, error) {
	chunksJSON, err := json.Marshal(a.Chunks)
	if err != nil {
		return nil, false, fmt.Errorf("marshalling chunks: %w", err)
	}
	chunkSummariesJSON, err := json.Marshal(a.ChunkSummaries)
	if err != nil {
		return nil, false, fmt.Errorf("marshalling chunk summaries: %w", err)
	}

	createdAt := a.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	res, err := s.store.db.ExecContext(ctx, `
		INSERT INTO summary_artifacts (subject_kind, subject_id, method, body,
			headline, original_text, chunks, chunk_summaries, message, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(subject_kind, subject_id, method) DO NOTHING
	`, string(a.SubjectKind), a.SubjectID, a.Method, a.Body, a.Headline,
		a.OriginalText, string(chunksJSON), string(chunkSummariesJSON),
		a.Message, createdAt.UTC())
	if err != nil {
		return nil, false, fmt.Errorf("inserting summary artifact: %w", err)
	}

	inserted, err := res.RowsAffected()
	if err != nil {
		return nil, false, fmt.Errorf("reading rows affected: %w", err)
	}

	stored, err := s.GetSummary(ctx, a.Subject(), a.Method)
	if err != nil {
		return nil, false, fmt.Errorf("fetching summary artifact after insert: %w", err)
	}
	return stored, inserted > 0, nil
}

// ListSummaries returns all summary artifacts for a subject.
func (s *artifactStore) ListSummaries(ctx context.Context, subject domain.Subject) ([]domain.SummaryArtifact, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, subject_kind, subject_id, method, body, headline,
			original_text, chunks, chunk_summaries, message, created_at
		FROM summary_artifacts
		WHERE subject_kind = ? AND subject_id = ?
		ORDER BY method
	`, string(subject.Kind), subject.ID)
	if err != nil {
		return nil, fmt.Errorf("querying summary artifacts: %w", err)
	}
	defer rows.Close()

	var artifacts []domain.SummaryArtifact //nolint:prealloc // size unknown from query
	for rows.Next() {
		a, err := scanSummary(rows)
		if err != nil {
			return nil, err
		}
		artifacts = append(artifacts, *a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating summary artifacts: %w", err)
	}

	return artifacts, nil
}

// DeleteArtifactsFor removes all artifacts keyed by the subject.
func (s *artifactStore) DeleteArtifactsFor(ctx context.Context, subject domain.Subject) error {
	_, err := s.store.db.ExecContext(ctx, `
		DELETE FROM summary_artifacts WHERE subject_kind = ? AND subject_id = ?
	`, string(subject.Kind), subject.ID)
	if err != nil {
		return fmt.Errorf("deleting summary artifacts: %w", err)
	}

	if subject.Kind == domain.SubjectDocument {
		_, err := s.store.db.ExecContext(ctx,
			"DELETE FROM extraction_artifacts WHERE document_id = ?", subject.ID)
		if err != nil {
			return fmt.Errorf("deleting extraction artifacts: %w", err)
		}
	}

	return nil
}

// CountArtifacts returns the number of stored extraction and summary
// artifacts.
func (s *artifactStore) CountArtifacts(ctx context.Context) (int64, int64, error) {
	var extractions, summaries int64
	err := s.store.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM extraction_artifacts").Scan(&extractions)
	if err != nil {
		return 0, 0, fmt.Errorf("counting extraction artifacts: %w", err)
	}
	err = s.store.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM summary_artifacts").Scan(&summaries)
	if err != nil {
		return 0, 0, fmt.Errorf("counting summary artifacts: %w", err)
	}
	return extractions, summaries, nil
}

// scanSummary scans a summary artifact row in the column order used by
// the summary queries above.
func scanSummary(sc rowScanner) (*domain.SummaryArtifact, error) {
	var a domain.SummaryArtifact
	var subjectKind, chunks, chunkSummaries string
	var createdAt sql.NullTime

	if err := sc.Scan(&a.ID, &subjectKind, &a.SubjectID, &a.Method, &a.Body,
		&a.Headline, &a.OriginalText, &chunks, &chunkSummaries, &a.Message,
		&createdAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning summary artifact: %w", err)
	}

	a.SubjectKind = domain.SubjectKind(subjectKind)
	if createdAt.Valid {
		a.CreatedAt = createdAt.Time
	}

	if err := json.Unmarshal([]byte(chunks), &a.Chunks); err != nil {
		return nil, fmt.Errorf("unmarshalling chunks: %w", err)
	}
	if err := json.Unmarshal([]byte(chunkSummaries), &a.ChunkSummaries); err != nil {
		return nil, fmt.Errorf("unmarshalling chunk summaries: %w", err)
	}

	return &a, nil
}
