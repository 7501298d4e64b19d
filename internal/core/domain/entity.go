package domain

import (
	"fmt"
	"net/url"
	"time"
)

// EntityKind identifies the type of a crawled Legistar entity.
type EntityKind string

// Available entity kinds.
const (
	EntityKindCalendar    EntityKind = "calendar"
	EntityKindMeeting     EntityKind = "meeting"
	EntityKindLegislation EntityKind = "legislation"
	EntityKindAction      EntityKind = "action"
)

// IsValid returns true if the entity kind is recognised.
func (k EntityKind) IsValid() bool {
	switch k {
	case EntityKindCalendar, EntityKindMeeting, EntityKindLegislation, EntityKindAction:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (k EntityKind) String() string {
	return string(k)
}

// Entity is the tagged union over everything the crawler can discover.
// The Calendar is a singleton; all other entities carry a Legistar
// (numeric id, guid) identity pair.
type Entity interface {
	EntityKind() EntityKind
}

// Link is a named URL found on a Legistar page. Links to detail pages
// carry the target's identity as ID and GUID query parameters.
type Link struct {
	Name string
	URL  string
}

// LegistarID extracts the numeric ID query parameter from the link URL.
func (l Link) LegistarID() (int64, error) {
	v, err := queryParam(l.URL, "ID")
	if err != nil {
		return 0, err
	}
	var id int64
	if _, err := fmt.Sscanf(v, "%d", &id); err != nil {
		return 0, fmt.Errorf("link %q: non-numeric ID %q", l.URL, v)
	}
	return id, nil
}

// LegistarGUID extracts the GUID query parameter from the link URL.
func (l Link) LegistarGUID() (string, error) {
	return queryParam(l.URL, "GUID")
}

func queryParam(raw, key string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("link %q: %w", raw, err)
	}
	v := u.Query().Get(key)
	if v == "" {
		return "", fmt.Errorf("link %q: missing %s parameter", raw, key)
	}
	return v, nil
}

// CalendarRow is a single row of the /Calendar.aspx table. Each row
// points at one meeting's detail page.
type CalendarRow struct {
	Department Link
	Date       time.Time
	// Time is nil when the meeting has been canceled.
	Time         *time.Time
	Location     string
	Details      Link
	Agenda       Link
	AgendaPacket *Link
	Minutes      *Link
	Video        *Link
}

// IsCanceled reports whether the row's meeting has been canceled.
func (r CalendarRow) IsCanceled() bool {
	return r.Time == nil
}

// Calendar is the /Calendar.aspx page. Unlike the detail pages it has
// no top-level identity of its own.
type Calendar struct {
	Rows []CalendarRow
}

// EntityKind implements Entity.
func (c *Calendar) EntityKind() EntityKind { return EntityKindCalendar }

// MeetingRow is a single row of a meeting detail page's agenda table.
// Legislation is the "Record No" link pointing at /LegislationDetail.aspx.
type MeetingRow struct {
	Legislation    Link
	Version        int64
	AgendaSequence *int64
	Name           string
	Type           string
	Title          string
	Action         string
	Result         string
	ActionDetails  *Link
	Video          *Link
}

// Meeting is a /MeetingDetail.aspx page.
type Meeting struct {
	// ID is the local row id, zero until persisted.
	ID           int64
	LegistarID   int64
	GUID         string
	URL          string
	Department   Link
	AgendaStatus string
	Date         time.Time
	// Time is nil when the meeting has been canceled.
	Time         *time.Time
	Location     string
	Agenda       Link
	AgendaPacket *Link
	Minutes      *Link
	Video        *Link
	Attachments  []Link
	Rows         []MeetingRow
}

// EntityKind implements Entity.
func (m *Meeting) EntityKind() EntityKind { return EntityKindMeeting }

// IsCanceled reports whether the meeting has been canceled.
func (m *Meeting) IsCanceled() bool {
	return m.Time == nil
}

// RecordNos returns the record numbers of every legislation row on the
// meeting's agenda, in row order.
func (m *Meeting) RecordNos() []string {
	nos := make([]string, 0, len(m.Rows))
	for _, row := range m.Rows {
		nos = append(nos, row.Legislation.Name)
	}
	return nos
}

// LegislationRow is a single row of a legislation page's history table.
type LegislationRow struct {
	Date          time.Time
	Version       int64
	ActionBy      string
	Action        string
	Result        string
	ActionDetails *Link
	Meeting       *Link
	Video         *Link
}

// Legislation is a /LegislationDetail.aspx page.
type Legislation struct {
	// ID is the local row id, zero until persisted.
	ID         int64
	LegistarID int64
	GUID       string
	URL        string
	// RecordNo is the human-facing identifier, like "CB 120537".
	RecordNo            string
	Version             *int64
	CouncilBillNo       string
	Type                string
	Status              string
	ControllingBody     string
	OnAgenda            *time.Time
	OrdinanceNo         string
	Title               string
	Sponsors            []Link
	Attachments         []Link
	SupportingDocuments []Link
	Rows                []LegislationRow
}

// EntityKind implements Entity.
func (l *Legislation) EntityKind() EntityKind { return EntityKindLegislation }

// ActionRow is a single vote row of a /HistoryDetail.aspx page.
type ActionRow struct {
	Person Link
	Vote   string
}

// Action is a /HistoryDetail.aspx page: one procedural action taken on
// a piece of legislation, with individual votes.
type Action struct {
	// ID is the local row id, zero until persisted.
	ID          int64
	LegistarID  int64
	GUID        string
	URL         string
	RecordNo    string
	Version     int64
	Type        string
	Title       string
	Result      string
	AgendaNote  string
	MinutesNote string
	ActionName  string
	ActionText  string
	Rows        []ActionRow
}

// EntityKind implements Entity.
func (a *Action) EntityKind() EntityKind { return EntityKindAction }
