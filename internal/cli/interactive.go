package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dyike/QuantHedge/config"
)

// runInteractiveMode asks for the request, then runs one cycle with
// trade approval switched on.
func runInteractiveMode(cmd *cobra.Command, cfg *config.Config) error {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, titleBanner())

	prompt, err := PromptForRequest()
	if err != nil {
		return err
	}
	save, err := PromptForSave()
	if err != nil {
		return err
	}
	return runCycle(cmd.Context(), out, cfg, &runOptions{
		prompt:  prompt,
		confirm: true,
		save:    save,
	})
}

func titleBanner() string {
	return "🛡️  QuantHedge - Autonomous Hedging\n═══════════════════════════════════════"
}
