package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/opencivics/engage/internal/core/domain"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure the Legistar customer, the LLM provider, and
other options.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsSetCustomerCmd = &cobra.Command{
	Use:   "set-customer [slug]",
	Short: "Set the Legistar customer",
	Long: `Sets the Legistar customer slug, e.g. "seattle" for
https://seattle.legistar.com.`,
	Args: cobra.ExactArgs(1),
	RunE: runSettingsSetCustomer,
}

var settingsSetLLMCmd = &cobra.Command{
	Use:   "set-llm",
	Short: "Configure the LLM provider",
	Long:  `Configure the LLM provider used by the summarization pipeline.`,
	RunE:  runSettingsSetLLM,
}

var settingsSetKeyCmd = &cobra.Command{
	Use:   "set-key",
	Short: "Update the LLM API key",
	Long:  `Re-enter the API key for the currently configured LLM provider.`,
	RunE:  runSettingsSetKey,
}

var settingsSetPipelineCmd = &cobra.Command{
	Use:   "set-pipeline [name]",
	Short: "Set the default pipeline configuration",
	Args:  cobra.ExactArgs(1),
	RunE:  runSettingsSetPipeline,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCustomerCmd)
	settingsCmd.AddCommand(settingsSetLLMCmd)
	settingsCmd.AddCommand(settingsSetKeyCmd)
	settingsCmd.AddCommand(settingsSetPipelineCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[Legistar]")
	cmd.Printf("  Customer: %s\n", settings.Legistar.Customer)
	cmd.Printf("  Requests per second: %.1f\n", settings.Legistar.RequestsPerSecond)
	cmd.Println()

	cmd.Println("[LLM]")
	cmd.Printf("  Provider: %s\n", settings.LLM.Provider.Description())
	cmd.Printf("  Model: %s\n", settings.LLM.Model)
	if settings.LLM.Provider.IsLocal() {
		cmd.Printf("  Base URL: %s\n", settings.LLM.BaseURL)
	}
	if settings.LLM.Provider.RequiresAPIKey() {
		if settings.LLM.APIKey != "" {
			cmd.Printf("  API Key: %s\n", maskAPIKey(settings.LLM.APIKey))
		} else {
			cmd.Printf("  API Key: (not set)\n")
		}
	}
	status := "configured"
	if !settings.LLM.IsConfigured() {
		status = "not configured"
	}
	cmd.Printf("  Status: %s\n", status)
	cmd.Println()

	cmd.Println("[Blob Storage]")
	cmd.Printf("  Provider: %s\n", settings.Blob.Provider.Description())
	if settings.Blob.Provider == domain.BlobProviderGCS {
		cmd.Printf("  Bucket: %s\n", settings.Blob.Bucket)
		if settings.Blob.CredentialsFile != "" {
			cmd.Printf("  Credentials: %s\n", settings.Blob.CredentialsFile)
		}
	} else if settings.Blob.Dir != "" {
		cmd.Printf("  Directory: %s\n", settings.Blob.Dir)
	}
	cmd.Println()

	cmd.Println("[Pipeline]")
	cmd.Printf("  Config: %s\n", settings.PipelineConfigName)
	cmd.Println()

	if err := settingsService.Validate(); err != nil {
		cmd.Printf("Warning: %v\n", err)
	} else {
		cmd.Println("Configuration is valid.")
	}

	return nil
}

func runSettingsSetCustomer(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	if err := settingsService.SetCustomer(args[0]); err != nil {
		return fmt.Errorf("failed to set customer: %w", err)
	}

	cmd.Printf("Customer set to: %s\n", args[0])
	return nil
}

func runSettingsSetLLM(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	reader := bufio.NewReader(os.Stdin)

	cmd.Println("Select LLM Provider")
	providers := domain.AllLLMProviders()
	for i, p := range providers {
		cmd.Printf("  %d. %s\n", i+1, p.Description())
	}
	cmd.Print("\nEnter choice [1]: ")
	input := readLine(reader)
	idx := parseChoice(input, len(providers), 1)
	selectedProvider := providers[idx-1]

	// Get model
	defaults := domain.DefaultLLMModels()
	defaultModel := defaults[selectedProvider]
	cmd.Printf("Enter model name [%s]: ", defaultModel)
	model := readLine(reader)
	if model == "" {
		model = defaultModel
	}

	// Get API key if needed
	var apiKey string
	if selectedProvider.RequiresAPIKey() {
		cmd.Print("Enter API key: ")
		apiKey = readPassword()
		cmd.Println()
		if apiKey == "" {
			return errors.New("API key is required for this provider")
		}
	}

	if err := settingsService.SetLLMProvider(selectedProvider, model, apiKey); err != nil {
		return fmt.Errorf("failed to configure LLM provider: %w", err)
	}

	// Validate the configuration by pinging the provider
	cmd.Print("Validating configuration... ")
	if err := settingsService.ValidateLLMConfig(); err != nil {
		cmd.Printf("FAILED: %v\n", err)
		return fmt.Errorf("LLM configuration validation failed: %w", err)
	}
	cmd.Println("OK")

	cmd.Printf("LLM provider configured: %s (%s)\n", selectedProvider.Description(), model)
	return nil
}

func runSettingsSetKey(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	if !settings.LLM.Provider.RequiresAPIKey() {
		return fmt.Errorf("provider %s does not use an API key", settings.LLM.Provider.Description())
	}

	cmd.Printf("Enter API key for %s: ", settings.LLM.Provider.Description())
	apiKey := readPassword()
	cmd.Println()
	if apiKey == "" {
		return errors.New("API key must not be empty")
	}

	settings.LLM.APIKey = apiKey
	if err := settingsService.Save(settings); err != nil {
		return fmt.Errorf("failed to save API key: %w", err)
	}

	cmd.Print("Validating configuration... ")
	if err := settingsService.ValidateLLMConfig(); err != nil {
		cmd.Printf("FAILED: %v\n", err)
		return fmt.Errorf("LLM configuration validation failed: %w", err)
	}
	cmd.Println("OK")

	cmd.Println("API key updated.")
	return nil
}

func runSettingsSetPipeline(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	settings.PipelineConfigName = args[0]
	if err := settingsService.Save(settings); err != nil {
		return fmt.Errorf("failed to save pipeline config: %w", err)
	}

	cmd.Printf("Pipeline config set to: %s\n", args[0])
	return nil
}

// Helper functions.

//nolint:errcheck // CLI helper, error ignored for UX
func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func parseChoice(input string, maxVal, defaultVal int) int {
	if input == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(input)
	if err != nil || val < 1 || val > maxVal {
		return defaultVal
	}
	return val
}

//nolint:errcheck // CLI helper, error ignored for UX
func readPassword() string {
	// Try to read password without echo
	if term.IsTerminal(int(os.Stdin.Fd())) {
		password, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err == nil {
			return string(password)
		}
	}
	// Fallback to regular input
	reader := bufio.NewReader(os.Stdin)
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
