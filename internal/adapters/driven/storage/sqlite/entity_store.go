package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/opencivics/engage/internal/core/domain"
	"github.com/opencivics/engage/internal/core/ports/driven"
)

// ==================== Meeting Store ====================

// meetingStore implements driven.MeetingStore.
type meetingStore struct {
	store *Store
}

var _ driven.MeetingStore = (*meetingStore)(nil)

// UpsertMeeting stores m keyed by its (LegistarID, GUID) pair.
func (s *meetingStore) UpsertMeeting(ctx context.Context, m *domain.Meeting) (bool, error) {
	departmentJSON, err := json.Marshal(m.Department)
	if err != nil {
		return false, fmt.Errorf("marshalling department: %w", err)
	}
	agendaJSON, err := json.Marshal(m.Agenda)
	if err != nil {
		return false, fmt.Errorf("marshalling agenda link: %w", err)
	}
	agendaPacketJSON, err := json.Marshal(m.AgendaPacket)
	if err != nil {
		return false, fmt.Errorf("marshalling agenda packet link: %w", err)
	}
	minutesJSON, err := json.Marshal(m.Minutes)
	if err != nil {
		return false, fmt.Errorf("marshalling minutes link: %w", err)
	}
	videoJSON, err := json.Marshal(m.Video)
	if err != nil {
		return false, fmt.Errorf("marshalling video link: %w", err)
	}
	attachmentsJSON, err := json.Marshal(m.Attachments)
	if err != nil {
		return false, fmt.Errorf("marshalling attachments: %w", err)
	}
	rowsJSON, err := json.Marshal(m.Rows)
	if err != nil {
		return false, fmt.Errorf("marshalling agenda rows: %w", err)
	}

	var id int64
	err = s.store.db.QueryRowContext(ctx,
		"SELECT id FROM meetings WHERE legistar_id = ? AND guid = ?",
		m.LegistarID, m.GUID).Scan(&id)

	switch {
	case errors.Is(err, sql.ErrNoRows):
		res, err := s.store.db.ExecContext(ctx, `
			INSERT INTO meetings (legistar_id, guid, url, department, agenda_status,
				date, time, location, agenda, agenda_packet, minutes, video,
				attachments, agenda_rows, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, m.LegistarID, m.GUID, m.URL, string(departmentJSON), m.AgendaStatus,
			m.Date.UTC(), nullTime(m.Time), m.Location, string(agendaJSON),
			string(agendaPacketJSON), string(minutesJSON), string(videoJSON),
			string(attachmentsJSON), string(rowsJSON), time.Now().UTC())
		if err != nil {
			return false, fmt.Errorf("inserting meeting: %w", err)
		}
		m.ID, err = res.LastInsertId()
		if err != nil {
			return false, fmt.Errorf("reading meeting row id: %w", err)
		}
		return true, nil
	case err != nil:
		return false, fmt.Errorf("looking up meeting: %w", err)
	}

	_, err = s.store.db.ExecContext(ctx, `
		UPDATE meetings SET url = ?, department = ?, agenda_status = ?, date = ?,
			time = ?, location = ?, agenda = ?, agenda_packet = ?, minutes = ?,
			video = ?, attachments = ?, agenda_rows = ?
		WHERE id = ?
	`, m.URL, string(departmentJSON), m.AgendaStatus, m.Date.UTC(),
		nullTime(m.Time), m.Location, string(agendaJSON), string(agendaPacketJSON),
		string(minutesJSON), string(videoJSON), string(attachmentsJSON),
		string(rowsJSON), id)
	if err != nil {
		return false, fmt.Errorf("updating meeting: %w", err)
	}
	m.ID = id
	return false, nil
}

// GetMeeting retrieves a meeting by row id.
func (s *meetingStore) GetMeeting(ctx context.Context, id int64) (*domain.Meeting, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, legistar_id, guid, url, department, agenda_status, date, time,
			location, agenda, agenda_packet, minutes, video, attachments, agenda_rows
		FROM meetings WHERE id = ?
	`, id)

	return scanMeeting(row)
}

// ListMeetings returns meetings matching the filter, oldest first.
func (s *meetingStore) ListMeetings(ctx context.Context, f driven.MeetingFilter) ([]domain.Meeting, error) {
	query := `
		SELECT id, legistar_id, guid, url, department, agenda_status, date, time,
			location, agenda, agenda_packet, minutes, video, attachments, agenda_rows
		FROM meetings`

	var conds []string
	var args []interface{}
	if f.ActiveOnly {
		conds = append(conds, "time IS NOT NULL")
	}
	if f.Before != nil {
		conds = append(conds, "date < ?")
		args = append(args, f.Before.UTC())
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY date, id"

	rows, err := s.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying meetings: %w", err)
	}
	defer rows.Close()

	var meetings []domain.Meeting //nolint:prealloc // size unknown from query
	for rows.Next() {
		m, err := scanMeeting(rows)
		if err != nil {
			return nil, err
		}
		meetings = append(meetings, *m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating meetings: %w", err)
	}

	return meetings, nil
}

// DeleteMeeting removes a meeting and its document links.
func (s *meetingStore) DeleteMeeting(ctx context.Context, id int64) error {
	_, err := s.store.db.ExecContext(ctx, "DELETE FROM meetings WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting meeting: %w", err)
	}
	return nil
}

// scanMeeting scans a meeting row in the column order used by the
// meeting queries above.
func scanMeeting(sc rowScanner) (*domain.Meeting, error) {
	var m domain.Meeting
	var department, agenda, agendaPacket, minutes, video, attachments, agendaRows string
	var date sql.NullTime
	var meetingTime sql.NullString

	if err := sc.Scan(&m.ID, &m.LegistarID, &m.GUID, &m.URL, &department,
		&m.AgendaStatus, &date, &meetingTime, &m.Location, &agenda,
		&agendaPacket, &minutes, &video, &attachments, &agendaRows); err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning meeting: %w", err)
	}

	if date.Valid {
		m.Date = date.Time
	}
	m.Time = parseTimePtr(meetingTime)

	if err := json.Unmarshal([]byte(department), &m.Department); err != nil {
		return nil, fmt.Errorf("unmarshalling department: %w", err)
	}
	if err := json.Unmarshal([]byte(agenda), &m.Agenda); err != nil {
		return nil, fmt.Errorf("unmarshalling agenda link: %w", err)
	}
	if err := json.Unmarshal([]byte(agendaPacket), &m.AgendaPacket); err != nil {
		return nil, fmt.Errorf("unmarshalling agenda packet link: %w", err)
	}
	if err := json.Unmarshal([]byte(minutes), &m.Minutes); err != nil {
		return nil, fmt.Errorf("unmarshalling minutes link: %w", err)
	}
	if err := json.Unmarshal([]byte(video), &m.Video); err != nil {
		return nil, fmt.Errorf("unmarshalling video link: %w", err)
	}
	if err := json.Unmarshal([]byte(attachments), &m.Attachments); err != nil {
		return nil, fmt.Errorf("unmarshalling attachments: %w", err)
	}
	if err := json.Unmarshal([]byte(agendaRows), &m.Rows); err != nil {
		return nil, fmt.Errorf("unmarshalling agenda rows: %w", err)
	}

	return &m, nil
}

// ==================== Legislation Store ====================

// legislationStore implements driven.LegislationStore.
type legislationStore struct {
	store *Store
}

var _ driven.LegislationStore = (*legislationStore)(nil)

// UpsertLegislation stores l keyed by its (LegistarID, GUID) pair.
func (s *legislationStore) UpsertLegislation(ctx context.Context, l *domain.Legislation) (bool, error) {
	sponsorsJSON, err := json.Marshal(l.Sponsors)
	if err != nil {
		return false, fmt.Errorf("marshalling sponsors: %w", err)
	}
	attachmentsJSON, err := json.Marshal(l.Attachments)
	if err != nil {
		return false, fmt.Errorf("marshalling attachments: %w", err)
	}
	supportingJSON, err := json.Marshal(l.SupportingDocuments)
	if err != nil {
		return false, fmt.Errorf("marshalling supporting documents: %w", err)
	}
	rowsJSON, err := json.Marshal(l.Rows)
	if err != nil {
		return false, fmt.Errorf("marshalling history rows: %w", err)
	}

	var id int64
	err = s.store.db.QueryRowContext(ctx,
		"SELECT id FROM legislation WHERE legistar_id = ? AND guid = ?",
		l.LegistarID, l.GUID).Scan(&id)

	switch {
	case errors.Is(err, sql.ErrNoRows):
		res, err := s.store.db.ExecContext(ctx, `
			INSERT INTO legislation (legistar_id, guid, url, record_no, version,
				council_bill_no, type, status, controlling_body, on_agenda,
				ordinance_no, title, sponsors, attachments, supporting_documents,
				history_rows, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, l.LegistarID, l.GUID, l.URL, l.RecordNo, l.Version, l.CouncilBillNo,
			l.Type, l.Status, l.ControllingBody, nullTime(l.OnAgenda),
			l.OrdinanceNo, l.Title, string(sponsorsJSON), string(attachmentsJSON),
			string(supportingJSON), string(rowsJSON), time.Now().UTC())
		if err != nil {
			return false, fmt.Errorf("inserting legislation: %w", err)
		}
		l.ID, err = res.LastInsertId()
		if err != nil {
			return false, fmt.Errorf("reading legislation row id: %w", err)
		}
		return true, nil
	case err != nil:
		return false, fmt.Errorf("looking up legislation: %w", err)
	}

	_, err = s.store.db.ExecContext(ctx, `
		UPDATE legislation SET url = ?, record_no = ?, version = ?,
			council_bill_no = ?, type = ?, status = ?, controlling_body = ?,
			on_agenda = ?, ordinance_no = ?, title = ?, sponsors = ?,
			attachments = ?, supporting_documents = ?, history_rows = ?
		WHERE id = ?
	`, l.URL, l.RecordNo, l.Version, l.CouncilBillNo, l.Type, l.Status,
		l.ControllingBody, nullTime(l.OnAgenda), l.OrdinanceNo, l.Title,
		string(sponsorsJSON), string(attachmentsJSON), string(supportingJSON),
		string(rowsJSON), id)
	if err != nil {
		return false, fmt.Errorf("updating legislation: %w", err)
	}
	l.ID = id
	return false, nil
}

// GetLegislation retrieves legislation by row id.
func (s *legislationStore) GetLegislation(ctx context.Context, id int64) (*domain.Legislation, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, legistar_id, guid, url, record_no, version, council_bill_no,
			type, status, controlling_body, on_agenda, ordinance_no, title,
			sponsors, attachments, supporting_documents, history_rows
		FROM legislation WHERE id = ?
	`, id)

	return scanLegislation(row)
}

// GetLegislationByRecordNo retrieves legislation by its record number.
func (s *legislationStore) GetLegislationByRecordNo(ctx context.Context, recordNo string) (*domain.Legislation, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, legistar_id, guid, url, record_no, version, council_bill_no,
			type, status, controlling_body, on_agenda, ordinance_no, title,
			sponsors, attachments, supporting_documents, history_rows
		FROM legislation WHERE record_no = ?
		ORDER BY id LIMIT 1
	`, recordNo)

	return scanLegislation(row)
}

// ListLegislation returns all stored legislation, oldest first.
func (s *legislationStore) ListLegislation(ctx context.Context) ([]domain.Legislation, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, legistar_id, guid, url, record_no, version, council_bill_no,
			type, status, controlling_body, on_agenda, ordinance_no, title,
			sponsors, attachments, supporting_documents, history_rows
		FROM legislation ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("querying legislation: %w", err)
	}
	defer rows.Close()

	var list []domain.Legislation //nolint:prealloc // size unknown from query
	for rows.Next() {
		l, err := scanLegislation(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *l)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating legislation: %w", err)
	}

	return list, nil
}

// DeleteLegislation removes a legislation row and its document links.
func (s *legislationStore) DeleteLegislation(ctx context.Context, id int64) error {
	_, err := s.store.db.ExecContext(ctx, "DELETE FROM legislation WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting legislation: %w", err)
	}
	return nil
}

// scanLegislation scans a legislation row in the column order used by
// the legislation queries above.
func scanLegislation(sc rowScanner) (*domain.Legislation, error) {
	var l domain.Legislation
	var sponsors, attachments, supporting, historyRows string
	var version sql.NullInt64
	var onAgenda sql.NullString

	if err := sc.Scan(&l.ID, &l.LegistarID, &l.GUID, &l.URL, &l.RecordNo,
		&version, &l.CouncilBillNo, &l.Type, &l.Status, &l.ControllingBody,
		&onAgenda, &l.OrdinanceNo, &l.Title, &sponsors, &attachments,
		&supporting, &historyRows); err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning legislation: %w", err)
	}

	if version.Valid {
		v := version.Int64
		l.Version = &v
	}
	l.OnAgenda = parseTimePtr(onAgenda)

	if err := json.Unmarshal([]byte(sponsors), &l.Sponsors); err != nil {
		return nil, fmt.Errorf("unmarshalling sponsors: %w", err)
	}
	if err := json.Unmarshal([]byte(attachments), &l.Attachments); err != nil {
		return nil, fmt.Errorf("unmarshalling attachments: %w", err)
	}
	if err := json.Unmarshal([]byte(supporting), &l.SupportingDocuments); err != nil {
		return nil, fmt.Errorf("unmarshalling supporting documents: %w", err)
	}
	if err := json.Unmarshal([]byte(historyRows), &l.Rows); err != nil {
		return nil, fmt.Errorf("unmarshalling history rows: %w", err)
	}

	return &l, nil
}

// ==================== Action Store ====================

// actionStore implements driven.ActionStore.
type actionStore struct {
	store *Store
}

var _ driven.ActionStore = (*actionStore)(nil)

// UpsertAction stores a keyed by its (LegistarID, GUID) pair.
func (s *actionStore) UpsertAction(ctx context.Context, a *domain.Action) (bool, error) {
	rowsJSON, err := json.Marshal(a.Rows)
	if err != nil {
		return false, fmt.Errorf("marshalling vote rows: %w", err)
	}

	var id int64
	err = s.store.db.QueryRowContext(ctx,
		"SELECT id FROM actions WHERE legistar_id = ? AND guid = ?",
		a.LegistarID, a.GUID).Scan(&id)

	switch {
	case errors.Is(err, sql.ErrNoRows):
		res, err := s.store.db.ExecContext(ctx, `
			INSERT INTO actions (legistar_id, guid, url, record_no, version, type,
				title, result, agenda_note, minutes_note, action_name, action_text,
				vote_rows, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, a.LegistarID, a.GUID, a.URL, a.RecordNo, a.Version, a.Type, a.Title,
			a.Result, a.AgendaNote, a.MinutesNote, a.ActionName, a.ActionText,
			string(rowsJSON), time.Now().UTC())
		if err != nil {
			return false, fmt.Errorf("inserting action: %w", err)
		}
		a.ID, err = res.LastInsertId()
		if err != nil {
			return false, fmt.Errorf("reading action row id: %w", err)
		}
		return true, nil
	case err != nil:
		return false, fmt.Errorf("looking up action: %w", err)
	}

	_, err = s.store.db.ExecContext(ctx, `
		UPDATE actions SET url = ?, record_no = ?, version = ?, type = ?,
			title = ?, result = ?, agenda_note = ?, minutes_note = ?,
			action_name = ?, action_text = ?, vote_rows = ?
		WHERE id = ?
	`, a.URL, a.RecordNo, a.Version, a.Type, a.Title, a.Result, a.AgendaNote,
		a.MinutesNote, a.ActionName, a.ActionText, string(rowsJSON), id)
	if err != nil {
		return false, fmt.Errorf("updating action: %w", err)
	}
	a.ID = id
	return false, nil
}

// ListActionsByRecordNo returns all actions for a record number, oldest first.
func (s *actionStore) ListActionsByRecordNo(ctx context.Context, recordNo string) ([]domain.Action, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, legistar_id, guid, url, record_no, version, type, title,
			result, agenda_note, minutes_note, action_name, action_text, vote_rows
		FROM actions WHERE record_no = ?
		ORDER BY id
	`, recordNo)
	if err != nil {
		return nil, fmt.Errorf("querying actions: %w", err)
	}
	defer rows.Close()

	var actions []domain.Action //nolint:prealloc // size unknown from query
	for rows.Next() {
		a, err := scanAction(rows)
		if err != nil {
			return nil, err
		}
		actions = append(actions, *a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating actions: %w", err)
	}

	return actions, nil
}

// DeleteActionsByRecordNo removes all actions for a record number.
func (s *actionStore) DeleteActionsByRecordNo(ctx context.Context, recordNo string) error {
	_, err := s.store.db.ExecContext(ctx, "DELETE FROM actions WHERE record_no = ?", recordNo)
	if err != nil {
		return fmt.Errorf("deleting actions: %w", err)
	}
	return nil
}

// scanAction scans an action row in the column order used by the
// action queries above.
func scanAction(sc rowScanner) (*domain.Action, error) {
	var a domain.Action
	var voteRows string

	if err := sc.Scan(&a.ID, &a.LegistarID, &a.GUID, &a.URL, &a.RecordNo,
		&a.Version, &a.Type, &a.Title, &a.Result, &a.AgendaNote, &a.MinutesNote,
		&a.ActionName, &a.ActionText, &voteRows); err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning action: %w", err)
	}

	if err := json.Unmarshal([]byte(voteRows), &a.Rows); err != nil {
		return nil, fmt.Errorf("unmarshalling vote rows: %w", err)
	}

	return &a, nil
}
