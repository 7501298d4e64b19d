package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show stored record counts and configuration state",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, _ []string) error {
	if statusService == nil {
		return errors.New("status service not configured")
	}

	status, err := statusService.Status(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to get status: %w", err)
	}

	cmd.Println("Engage Status")
	cmd.Println("=============")
	cmd.Println()

	cmd.Println("[Records]")
	cmd.Printf("  Meetings:     %d (%d active)\n", status.Meetings, status.ActiveMeetings)
	cmd.Printf("  Legislation:  %d\n", status.Legislations)
	cmd.Printf("  Documents:    %d\n", status.Documents)
	cmd.Println()

	cmd.Println("[Artifacts]")
	cmd.Printf("  Extractions:  %d\n", status.Extractions)
	cmd.Printf("  Summaries:    %d\n", status.Summaries)
	cmd.Println()

	cmd.Println("[Configuration]")
	cmd.Printf("  Customer:     %s\n", status.Customer)
	if status.LLMConfigured {
		cmd.Printf("  LLM:          configured (%s)\n", status.LLMModel)
	} else {
		cmd.Println("  LLM:          not configured")
		cmd.Println()
		cmd.Println("Run 'engage settings set-llm' before summarizing.")
	}

	return nil
}
