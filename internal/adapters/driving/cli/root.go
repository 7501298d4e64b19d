// Package cli defines the engage command tree. Commands hold no
// domain logic; they parse flags, call driving ports, and print.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/opencivics/engage/internal/core/ports/driven"
	"github.com/opencivics/engage/internal/core/ports/driving"
	"github.com/opencivics/engage/internal/logger"
)

// version is overridden from main at startup.
var version = "dev"

// Services used by the commands, injected via SetServices.
var (
	crawlService    driving.CrawlService
	pipelineService driving.PipelineService
	ingestService   driving.IngestService
	pruneService    driving.PruneService
	statusService   driving.StatusService
	settingsService driving.SettingsService

	// Read stores used by the MCP server for id resolution.
	meetingStore     driven.MeetingStore
	legislationStore driven.LegislationStore
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "engage",
	Short: "Crawl and summarize municipal legislative records",
	Long: `Engage crawls a Legistar site, stores what it finds, and produces
LLM summaries of meetings, legislation, and their documents.

Start with 'engage settings' to pick a customer and an LLM provider,
'engage crawl' to pull the calendar, and 'engage summarize all-meetings'
to build summaries.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

// Services aggregates the driving ports the command tree needs.
type Services struct {
	Crawl    driving.CrawlService
	Pipeline driving.PipelineService
	Ingest   driving.IngestService
	Prune    driving.PruneService
	Status   driving.StatusService
	Settings driving.SettingsService

	Meetings     driven.MeetingStore
	Legislations driven.LegislationStore
}

// SetServices injects service implementations for the commands.
func SetServices(s *Services) {
	crawlService = s.Crawl
	pipelineService = s.Pipeline
	ingestService = s.Ingest
	pruneService = s.Prune
	statusService = s.Status
	settingsService = s.Settings
	meetingStore = s.Meetings
	legislationStore = s.Legislations
}

// SetVersion sets the version string printed by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command and exits non-zero on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Print stage logging to stderr")
}
