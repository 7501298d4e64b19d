package domain

import "fmt"

// SubjectKind identifies the class of entity an artifact is about.
type SubjectKind string

// Available subject kinds.
const (
	SubjectDocument    SubjectKind = "document"
	SubjectLegislation SubjectKind = "legislation"
	SubjectMeeting     SubjectKind = "meeting"
)

// IsValid returns true if the subject kind is recognised.
func (k SubjectKind) IsValid() bool {
	switch k {
	case SubjectDocument, SubjectLegislation, SubjectMeeting:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (k SubjectKind) String() string {
	return string(k)
}

// SummaryKind distinguishes the two summary shapes produced per subject.
type SummaryKind string

// Available summary kinds.
const (
	SummaryBody     SummaryKind = "body"
	SummaryHeadline SummaryKind = "headline"
)

// IsValid returns true if the summary kind is recognised.
func (k SummaryKind) IsValid() bool {
	return k == SummaryBody || k == SummaryHeadline
}

// String returns the string representation.
func (k SummaryKind) String() string {
	return string(k)
}

// AllSummaryKinds lists every summary kind.
var AllSummaryKinds = []SummaryKind{SummaryBody, SummaryHeadline}

// AllSubjectKinds lists every subject kind.
var AllSubjectKinds = []SubjectKind{SubjectDocument, SubjectLegislation, SubjectMeeting}

// Subject is the identity an artifact is keyed by: a subject kind plus
// the row id of the underlying entity. Artifacts are never keyed by
// content.
type Subject struct {
	Kind SubjectKind
	ID   int64
}

// String returns a stable "kind/id" form used in logs and errors.
func (s Subject) String() string {
	return fmt.Sprintf("%s/%d", s.Kind, s.ID)
}

// DocumentSubject builds a Subject for a document row.
func DocumentSubject(id int64) Subject {
	return Subject{Kind: SubjectDocument, ID: id}
}

// LegislationSubject builds a Subject for a legislation row.
func LegislationSubject(id int64) Subject {
	return Subject{Kind: SubjectLegislation, ID: id}
}

// MeetingSubject builds a Subject for a meeting row.
func MeetingSubject(id int64) Subject {
	return Subject{Kind: SubjectMeeting, ID: id}
}
