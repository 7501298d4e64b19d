package domain

import "time"

// DocumentKind classifies a document discovered during crawling. The
// kind decides whether a document participates in meeting-level
// summarization: agendas and agenda packets are excluded by default
// because their content duplicates the meeting's agenda rows.
type DocumentKind string

// Available document kinds.
const (
	DocumentKindAgenda             DocumentKind = "agenda"
	DocumentKindAgendaPacket       DocumentKind = "agenda_packet"
	DocumentKindMinutes            DocumentKind = "minutes"
	DocumentKindAttachment         DocumentKind = "attachment"
	DocumentKindSupportingDocument DocumentKind = "supporting_document"
	DocumentKindFullText           DocumentKind = "full_text"
)

// IsValid returns true if the document kind is recognised.
func (k DocumentKind) IsValid() bool {
	switch k {
	case DocumentKindAgenda, DocumentKindAgendaPacket, DocumentKindMinutes,
		DocumentKindAttachment, DocumentKindSupportingDocument, DocumentKindFullText:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (k DocumentKind) String() string {
	return string(k)
}

// DefaultMeetingExclusions are the document kinds left out of meeting
// summarization. The agenda duplicates the meeting's own rows and the
// packet is a PDF of the agenda plus attachments that are summarized
// individually.
var DefaultMeetingExclusions = []DocumentKind{
	DocumentKindAgenda,
	DocumentKindAgendaPacket,
}

// Document is a single file downloaded from a source URL. Documents
// are unique by URL; the bytes live in the blob store under BlobRef.
type Document struct {
	ID       int64
	URL      string
	Kind     DocumentKind
	Title    string
	MIMEType string
	BlobRef  string
	// Size is the length of the stored bytes.
	Size      int64
	CreatedAt time.Time
}

// Excluded reports whether the document's kind appears in the given
// exclusion list.
func (d *Document) Excluded(kinds []DocumentKind) bool {
	for _, k := range kinds {
		if d.Kind == k {
			return true
		}
	}
	return false
}
