package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/opencivics/engage/internal/core/domain"
	"github.com/opencivics/engage/internal/core/ports/driven"
	"github.com/opencivics/engage/internal/summarize"
)

// URI prefixes for engage resources.
const (
	meetingsURI          = "engage://meetings"
	meetingSummaryPrefix = "engage://meetings/"
	legislationPrefix    = "engage://legislation/"
	summarySuffix        = "/summary"
)

// registerResources registers MCP resources on the server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         meetingsURI,
		Name:        "meetings",
		Description: "Stored city council meetings",
		MIMEType:    "application/json",
	}, s.handleMeetingsResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: meetingSummaryPrefix + "{meetingId}" + summarySuffix,
		Name:        "meeting-summary",
		Description: "Stored summary of one meeting",
		MIMEType:    "text/plain",
	}, s.handleMeetingSummaryResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: legislationPrefix + "{recordNo}" + summarySuffix,
		Name:        "legislation-summary",
		Description: "Stored summary of one piece of legislation",
		MIMEType:    "text/plain",
	}, s.handleLegislationSummaryResource)
}

// meetingItem is one row of the meetings resource listing.
type meetingItem struct {
	ID         int64  `json:"id"`
	Department string `json:"department"`
	Date       string `json:"date"`
	Time       string `json:"time,omitempty"`
	Location   string `json:"location,omitempty"`
	Canceled   bool   `json:"canceled"`
}

func (s *Server) handleMeetingsResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	if s.ports.Meetings == nil {
		return nil, ErrMissingMeetingStore
	}

	meetings, err := s.ports.Meetings.ListMeetings(ctx, driven.MeetingFilter{})
	if err != nil {
		return nil, fmt.Errorf("list meetings: %w", err)
	}

	items := make([]meetingItem, 0, len(meetings))
	for _, m := range meetings {
		item := meetingItem{
			ID:         m.ID,
			Department: m.Department.Name,
			Date:       m.Date.Format("2006-01-02"),
			Location:   m.Location,
			Canceled:   m.IsCanceled(),
		}
		if m.Time != nil {
			item.Time = m.Time.Format("15:04")
		}
		items = append(items, item)
	}

	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal meetings: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

func (s *Server) handleMeetingSummaryResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	id, ok := meetingIDFromURI(req.Params.URI)
	if !ok {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	return s.summaryResource(ctx, req.Params.URI, domain.MeetingSubject(id), summarize.MeetingConcise)
}

func (s *Server) handleLegislationSummaryResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	if s.ports.Legislations == nil {
		return nil, ErrMissingLegislationStore
	}

	recordNo, ok := recordNoFromURI(req.Params.URI)
	if !ok {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	leg, err := s.ports.Legislations.GetLegislationByRecordNo(ctx, recordNo)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, mcp.ResourceNotFoundError(req.Params.URI)
		}
		return nil, fmt.Errorf("legislation %q: %w", recordNo, err)
	}

	return s.summaryResource(ctx, req.Params.URI, domain.LegislationSubject(leg.ID), summarize.LegislationConcise)
}

// summaryResource reads a stored summary without triggering pipeline
// work. Resources are cheap reads; the tools compute.
func (s *Server) summaryResource(ctx context.Context, uri string, subject domain.Subject, method string) (*mcp.ReadResourceResult, error) {
	artifact, err := s.ports.Pipeline.Summary(ctx, subject, method)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, mcp.ResourceNotFoundError(uri)
		}
		return nil, fmt.Errorf("summary for %s: %w", subject, err)
	}
	if artifact.Failed() {
		return nil, fmt.Errorf("summarization failed: %s", artifact.Message)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "text/plain",
			Text:     artifact.Body,
		}},
	}, nil
}

// meetingIDFromURI extracts the id from engage://meetings/{id}/summary.
func meetingIDFromURI(uri string) (int64, bool) {
	rest, ok := strings.CutPrefix(uri, meetingSummaryPrefix)
	if !ok {
		return 0, false
	}
	rest, ok = strings.CutSuffix(rest, summarySuffix)
	if !ok {
		return 0, false
	}
	id, err := strconv.ParseInt(rest, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

// recordNoFromURI extracts the record number from
// engage://legislation/{recordNo}/summary. Record numbers contain
// spaces, so template expansion percent-encodes them.
func recordNoFromURI(uri string) (string, bool) {
	rest, ok := strings.CutPrefix(uri, legislationPrefix)
	if !ok {
		return "", false
	}
	rest, ok = strings.CutSuffix(rest, summarySuffix)
	if !ok || rest == "" {
		return "", false
	}
	recordNo, err := url.PathUnescape(rest)
	if err != nil {
		return "", false
	}
	return recordNo, true
}
