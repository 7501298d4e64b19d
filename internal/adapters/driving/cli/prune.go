package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var pruneDays int

var pruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Remove stored records past their useful life",
}

var pruneMeetingsCmd = &cobra.Command{
	Use:   "meetings",
	Short: "Delete old meetings and their dependents",
	Long: `Deletes meetings dated more than --days days ago, along with their
documents, the actions and documents of the legislation on their
agendas, and every artifact keyed by a deleted row. Legislation rows
are kept; they stay addressable by record number.`,
	RunE: runPruneMeetings,
}

func init() {
	pruneMeetingsCmd.Flags().IntVar(&pruneDays, "days", 5, "Number of days to keep meetings for")
	pruneCmd.AddCommand(pruneMeetingsCmd)
	rootCmd.AddCommand(pruneCmd)
}

func runPruneMeetings(cmd *cobra.Command, _ []string) error {
	if pruneService == nil {
		return errors.New("prune service not configured")
	}

	stats, err := pruneService.PruneMeetings(cmd.Context(), pruneDays)
	if err != nil {
		return fmt.Errorf("prune failed: %w", err)
	}

	cmd.Printf("Deleted %d meetings, %d actions, %d documents.\n",
		stats.Meetings, stats.Actions, stats.Documents)
	return nil
}
