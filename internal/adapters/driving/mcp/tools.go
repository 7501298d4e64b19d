package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/opencivics/engage/internal/core/domain"
	"github.com/opencivics/engage/internal/core/ports/driving"
)

// registerTools registers all MCP tools on the server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "meeting_summary",
		Description: "Summarize a city council meeting by its id. Returns the stored summary when one exists and runs the pipeline otherwise.",
	}, s.handleMeetingSummary)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "legislation_summary",
		Description: "Summarize a piece of legislation by its record number, like 'CB 120537'.",
	}, s.handleLegislationSummary)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "status",
		Description: "Report stored record and artifact counts and the LLM configuration.",
	}, s.handleStatus)
}

// MeetingSummaryInput is the input for the meeting_summary tool.
type MeetingSummaryInput struct {
	MeetingID int64 `json:"meeting_id" jsonschema:"the meeting id"`
	Headline  bool  `json:"headline,omitempty" jsonschema:"return the one-line headline instead of the full summary"`
}

// MeetingSummaryOutput is the output for the meeting_summary tool.
type MeetingSummaryOutput struct {
	MeetingID int64  `json:"meeting_id"`
	Method    string `json:"method"`
	Summary   string `json:"summary"`
}

func (s *Server) handleMeetingSummary(ctx context.Context, _ *mcp.CallToolRequest, input MeetingSummaryInput) (*mcp.CallToolResult, MeetingSummaryOutput, error) {
	pair, err := s.ports.Pipeline.SummarizeMeeting(ctx, input.MeetingID, s.configName)
	if err != nil {
		return nil, MeetingSummaryOutput{}, fmt.Errorf("summarize meeting %d: %w", input.MeetingID, err)
	}

	artifact, err := pairMember(pair, input.Headline)
	if err != nil {
		return nil, MeetingSummaryOutput{}, err
	}

	return nil, MeetingSummaryOutput{
		MeetingID: input.MeetingID,
		Method:    artifact.Method,
		Summary:   artifact.Body,
	}, nil
}

// LegislationSummaryInput is the input for the legislation_summary tool.
type LegislationSummaryInput struct {
	RecordNo string `json:"record_no" jsonschema:"the record number, like 'CB 120537'"`
	Headline bool   `json:"headline,omitempty" jsonschema:"return the one-line headline instead of the full summary"`
}

// LegislationSummaryOutput is the output for the legislation_summary tool.
type LegislationSummaryOutput struct {
	RecordNo string `json:"record_no"`
	Title    string `json:"title,omitempty"`
	Method   string `json:"method"`
	Summary  string `json:"summary"`
}

func (s *Server) handleLegislationSummary(ctx context.Context, _ *mcp.CallToolRequest, input LegislationSummaryInput) (*mcp.CallToolResult, LegislationSummaryOutput, error) {
	if s.ports.Legislations == nil {
		return nil, LegislationSummaryOutput{}, ErrMissingLegislationStore
	}

	leg, err := s.ports.Legislations.GetLegislationByRecordNo(ctx, input.RecordNo)
	if err != nil {
		return nil, LegislationSummaryOutput{}, fmt.Errorf("legislation %q: %w", input.RecordNo, err)
	}

	pair, err := s.ports.Pipeline.SummarizeLegislation(ctx, leg.ID, s.configName)
	if err != nil {
		return nil, LegislationSummaryOutput{}, fmt.Errorf("summarize legislation %q: %w", input.RecordNo, err)
	}

	artifact, err := pairMember(pair, input.Headline)
	if err != nil {
		return nil, LegislationSummaryOutput{}, err
	}

	return nil, LegislationSummaryOutput{
		RecordNo: leg.RecordNo,
		Title:    leg.Title,
		Method:   artifact.Method,
		Summary:  artifact.Body,
	}, nil
}

// StatusInput is the input for the status tool.
type StatusInput struct{}

// StatusOutput is the output for the status tool.
type StatusOutput struct {
	Meetings       int64  `json:"meetings"`
	ActiveMeetings int64  `json:"active_meetings"`
	Legislations   int64  `json:"legislations"`
	Documents      int64  `json:"documents"`
	Extractions    int64  `json:"extractions"`
	Summaries      int64  `json:"summaries"`
	LLMConfigured  bool   `json:"llm_configured"`
	LLMModel       string `json:"llm_model,omitempty"`
	Customer       string `json:"customer"`
}

func (s *Server) handleStatus(ctx context.Context, _ *mcp.CallToolRequest, _ StatusInput) (*mcp.CallToolResult, StatusOutput, error) {
	if s.ports.Status == nil {
		return nil, StatusOutput{}, ErrMissingStatusService
	}

	status, err := s.ports.Status.Status(ctx)
	if err != nil {
		return nil, StatusOutput{}, fmt.Errorf("status: %w", err)
	}

	return nil, StatusOutput{
		Meetings:       status.Meetings,
		ActiveMeetings: status.ActiveMeetings,
		Legislations:   status.Legislations,
		Documents:      status.Documents,
		Extractions:    status.Extractions,
		Summaries:      status.Summaries,
		LLMConfigured:  status.LLMConfigured,
		LLMModel:       status.LLMModel,
		Customer:       status.Customer,
	}, nil
}

// pairMember picks one side of a summary pair and rejects failure
// artifacts.
func pairMember(pair *driving.SummaryPair, headline bool) (*domain.SummaryArtifact, error) {
	artifact := pair.Body
	if headline {
		artifact = pair.Headline
	}
	if artifact.Failed() {
		return nil, fmt.Errorf("summarization failed: %s", artifact.Message)
	}
	return artifact, nil
}
