package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/opencivics/engage/internal/adapters/driving/tui"
)

var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Run batch summarization with a live progress display",
	Long: `Summarize every active meeting and every stored legislation item,
showing live store counts while the batches run.

The monitor exits when both batches finish, or when q is pressed.`,
	RunE: runMonitor,
}

func init() {
	rootCmd.AddCommand(monitorCmd)
}

func runMonitor(cmd *cobra.Command, _ []string) error {
	ports := &tui.Ports{
		Pipeline:   pipelineService,
		Status:     statusService,
		ConfigName: pipelineConfigName(),
	}

	app, err := tui.NewApp(ports)
	if err != nil {
		return fmt.Errorf("creating monitor: %w", err)
	}

	return app.WithContext(cmd.Context()).Run()
}
