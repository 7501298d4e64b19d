package cli

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/opencivics/engage/internal/core/domain"
	"github.com/opencivics/engage/internal/core/ports/driving"
	"github.com/opencivics/engage/internal/pipelines"
	"github.com/opencivics/engage/internal/summarize"
)

var summarizeCmd = &cobra.Command{
	Use:   "summarize",
	Short: "Run summarizers over stored records",
	Long: `Produces and prints LLM summaries. Summaries are computed once per
(subject, summarizer) pair; repeating a command prints the stored text
without calling the model again.`,
}

var summarizeMeetingCmd = &cobra.Command{
	Use:   "meeting [id] [method]",
	Short: "Summarize one meeting",
	Long: `Summarizes the meeting with the given row id. Body summaries for the
legislation on its agenda and for its documents must already exist; run
'summarize all-meetings' to build everything bottom-up.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runSummarizeMeeting,
}

var summarizeLegislationCmd = &cobra.Command{
	Use:   "legislation [id] [method]",
	Short: "Summarize one legislation item",
	Args:  cobra.RangeArgs(1, 2),
	RunE:  runSummarizeLegislation,
}

var summarizeDocumentCmd = &cobra.Command{
	Use:   "document [id] [method]",
	Short: "Summarize one document",
	Args:  cobra.RangeArgs(1, 2),
	RunE:  runSummarizeDocument,
}

var summarizeAllMeetingsCmd = &cobra.Command{
	Use:   "all-meetings",
	Short: "Summarize every non-canceled meeting",
	Long: `Summarizes every non-canceled meeting bottom-up: documents first,
then the legislation on each agenda, then the meeting itself. Items
that fail on a fetch, parse, or missing dependency are skipped and the
run continues.`,
	RunE: runSummarizeAllMeetings,
}

var summarizeAllLegislationCmd = &cobra.Command{
	Use:   "all-legislation",
	Short: "Summarize every legislation item",
	RunE:  runSummarizeAllLegislation,
}

func init() {
	summarizeCmd.AddCommand(summarizeMeetingCmd)
	summarizeCmd.AddCommand(summarizeLegislationCmd)
	summarizeCmd.AddCommand(summarizeDocumentCmd)
	summarizeCmd.AddCommand(summarizeAllMeetingsCmd)
	summarizeCmd.AddCommand(summarizeAllLegislationCmd)
	rootCmd.AddCommand(summarizeCmd)
}

func runSummarizeMeeting(cmd *cobra.Command, args []string) error {
	if pipelineService == nil {
		return errors.New("pipeline service not configured")
	}
	id, err := parseID(args[0], "meeting")
	if err != nil {
		return err
	}
	pair, err := pipelineService.SummarizeMeeting(cmd.Context(), id, pipelineConfigName())
	if err != nil {
		return fmt.Errorf("summarize meeting: %w", err)
	}
	return printPairMember(cmd, pair, methodArg(args, summarize.MeetingConcise))
}

func runSummarizeLegislation(cmd *cobra.Command, args []string) error {
	if pipelineService == nil {
		return errors.New("pipeline service not configured")
	}
	id, err := parseID(args[0], "legislation")
	if err != nil {
		return err
	}
	pair, err := pipelineService.SummarizeLegislation(cmd.Context(), id, pipelineConfigName())
	if err != nil {
		return fmt.Errorf("summarize legislation: %w", err)
	}
	return printPairMember(cmd, pair, methodArg(args, summarize.LegislationConcise))
}

func runSummarizeDocument(cmd *cobra.Command, args []string) error {
	if pipelineService == nil {
		return errors.New("pipeline service not configured")
	}
	id, err := parseID(args[0], "document")
	if err != nil {
		return err
	}
	pair, err := pipelineService.SummarizeDocument(cmd.Context(), id, pipelineConfigName())
	if err != nil {
		return fmt.Errorf("summarize document: %w", err)
	}
	return printPairMember(cmd, pair, methodArg(args, summarize.DocumentConcise))
}

func runSummarizeAllMeetings(cmd *cobra.Command, _ []string) error {
	if pipelineService == nil {
		return errors.New("pipeline service not configured")
	}
	stats, err := pipelineService.SummarizeAllMeetings(cmd.Context(), pipelineConfigName())
	if err != nil {
		return fmt.Errorf("summarize all meetings: %w", err)
	}
	cmd.Printf("Summarized %d meetings (%d failed).\n", stats.Succeeded, stats.Failed)
	return nil
}

func runSummarizeAllLegislation(cmd *cobra.Command, _ []string) error {
	if pipelineService == nil {
		return errors.New("pipeline service not configured")
	}
	stats, err := pipelineService.SummarizeAllLegislation(cmd.Context(), pipelineConfigName())
	if err != nil {
		return fmt.Errorf("summarize all legislation: %w", err)
	}
	cmd.Printf("Summarized %d legislation items (%d failed).\n", stats.Succeeded, stats.Failed)
	return nil
}

// pipelineConfigName resolves the configured pipeline, falling back to
// the default when settings are unavailable.
func pipelineConfigName() string {
	if settingsService == nil {
		return pipelines.Concise
	}
	settings, err := settingsService.Get()
	if err != nil || settings.PipelineConfigName == "" {
		return pipelines.Concise
	}
	return settings.PipelineConfigName
}

func parseID(arg, noun string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s id %q", noun, arg)
	}
	return id, nil
}

func methodArg(args []string, defaultMethod string) string {
	if len(args) > 1 {
		return args[1]
	}
	return defaultMethod
}

// printPairMember prints the pair artifact whose summarizer matches
// method.
func printPairMember(cmd *cobra.Command, pair *driving.SummaryPair, method string) error {
	for _, artifact := range []*domain.SummaryArtifact{pair.Body, pair.Headline} {
		if artifact == nil || artifact.Method != method {
			continue
		}
		if artifact.Failed() {
			return fmt.Errorf("summarization failed: %s", artifact.Message)
		}
		cmd.Println(artifact.Body)
		return nil
	}
	return fmt.Errorf("unknown summarizer %q for this subject", method)
}
