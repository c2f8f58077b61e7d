package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/dyike/QuantHedge/config"
	"github.com/dyike/QuantHedge/internal/api"
)

type rootOptions struct {
	configPath string
	debug      bool
	cfg        *config.Config
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "quanthedge",
		Short: "QuantHedge - autonomous portfolio hedging simulator",
		Long: `QuantHedge runs a simulated hedging cycle: model-generated market data,
a risk assessment and a hedging decision applied to an in-memory brokerage ledger.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts.configPath)
			if err != nil {
				return err
			}
			if opts.debug {
				cfg.Debug = true
			}
			if err := cfg.EnsureDirectories(); err != nil {
				return fmt.Errorf("failed to create directories: %w", err)
			}
			opts.cfg = cfg
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInteractiveMode(cmd, opts.cfg)
		},
	}

	rootCmd.AddCommand(newRunCmd(opts))
	rootCmd.AddCommand(newServeCmd(opts))
	rootCmd.AddCommand(newHistoryCmd(opts))
	rootCmd.AddCommand(newConfigCmd(opts))
	rootCmd.AddCommand(newVersionCmd())

	rootCmd.PersistentFlags().BoolVar(&opts.debug, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "Configuration file path (YAML or JSON)")

	return rootCmd
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		cfg := config.DefaultConfig()
		return cfg, cfg.Validate()
	}
	return config.LoadFile(path)
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "QuantHedge v%s\n", api.Version)
			fmt.Fprintln(cmd.OutOrStdout(), "Autonomous hedging pipeline simulator")
		},
	}
}

func newConfigCmd(opts *rootOptions) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
	}

	var asJSON bool
	show := &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(redacted(opts.cfg))
			}
			showConfig(cmd.OutOrStdout(), opts.cfg)
			return nil
		},
	}
	show.Flags().BoolVar(&asJSON, "json", false, "Print as JSON")
	configCmd.AddCommand(show)

	return configCmd
}

func mask(key string) string {
	if key == "" {
		return ""
	}
	return "********"
}

func redacted(cfg *config.Config) config.Config {
	c := *cfg
	c.GeminiAPIKey = mask(c.GeminiAPIKey)
	c.OpenAIAPIKey = mask(c.OpenAIAPIKey)
	c.DeepSeekAPIKey = mask(c.DeepSeekAPIKey)
	return c
}

func configured(key string) string {
	if key != "" {
		return "✅ Configured"
	}
	return "❌ Not configured"
}

// showConfig displays the current configuration
func showConfig(w io.Writer, cfg *config.Config) {
	fmt.Fprintln(w, "📋 Current QuantHedge Configuration:")
	fmt.Fprintln(w, "═══════════════════════════════════════")
	fmt.Fprintf(w, "Results Directory:    %s\n", cfg.ResultsDir)
	fmt.Fprintf(w, "Data Directory:       %s\n", cfg.DataDir)
	fmt.Fprintf(w, "Journal:              %s\n", cfg.JournalPath)
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Initial Cash:         %.2f\n", cfg.InitialCash)
	fmt.Fprintf(w, "Price Table:          %d symbols\n", len(cfg.PriceTable))
	fmt.Fprintln(w)
	fmt.Fprintf(w, "LLM Provider:         %s\n", cfg.LLMProvider)
	fmt.Fprintf(w, "Deep Think Model:     %s\n", cfg.DeepThinkLLM)
	fmt.Fprintf(w, "Quick Think Model:    %s\n", cfg.QuickThinkLLM)
	fmt.Fprintf(w, "Backend URL:          %s\n", cfg.BackendURL)
	fmt.Fprintf(w, "LLM Timeout:          %ds\n", cfg.LLMTimeoutSecs)
	fmt.Fprintf(w, "API Key:              %s\n", configured(cfg.APIKey()))
	fmt.Fprintln(w)
	fmt.Fprintf(w, "HTTP Address:         %s\n", cfg.HTTPAddr)
	fmt.Fprintf(w, "Debug Mode:           %t\n", cfg.Debug)
	fmt.Fprintf(w, "Eino Debug:           %t\n", cfg.EinoDebugEnabled)
	if cfg.EinoDebugEnabled {
		fmt.Fprintf(w, "Eino Debug Port:      %d\n", cfg.EinoDebugPort)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "🛡️  Governance:")
	fmt.Fprintln(w, "─────────────────────")
	fmt.Fprintf(w, "Enforced:             %t\n", cfg.Governance.Enforce)
	fmt.Fprintf(w, "Max Trade Size:       %.1f%%\n", cfg.Governance.MaxTradeSizePct)
	fmt.Fprintf(w, "Max VaR:              %.0f\n", cfg.Governance.MaxVaRThreshold)
	fmt.Fprintf(w, "Max Beta:             %.2f\n", cfg.Governance.MaxBetaThreshold)
}
