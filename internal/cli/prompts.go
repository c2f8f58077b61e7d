package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/AlecAivazis/survey/v2"

	"github.com/dyike/QuantHedge/internal/service"
	"github.com/dyike/QuantHedge/models"
)

// SurveyApprover asks on the terminal before a threshold-breaching trade runs.
type SurveyApprover struct{}

func (SurveyApprover) Approve(_ context.Context, hi models.HedgingInstruction, a models.GovernanceAssessment) (bool, error) {
	fmt.Println()
	fmt.Println("🛡️  Trade requires approval")
	fmt.Printf("   %s %d %s (%.2f%% of portfolio)\n", hi.Action, hi.Quantity, hi.Ticker, a.TradeSizePct)
	fmt.Printf("   Reason: %s\n", a.ApprovalReason)
	fmt.Printf("   Strategy: %s\n", hi.Reasoning)

	approved := false
	prompt := &survey.Confirm{
		Message: "Execute this trade?",
		Default: false,
	}
	if err := survey.AskOne(prompt, &approved); err != nil {
		return false, err
	}
	return approved, nil
}

// PromptForRequest asks for the free-text request of an interactive cycle.
func PromptForRequest() (string, error) {
	var text string
	prompt := &survey.Input{
		Message: "What should QuantHedge do?",
		Default: service.DefaultPrompt,
		Help:    "Free text recorded with the cycle, e.g. 'hedge my tech exposure'",
	}
	if err := survey.AskOne(prompt, &text); err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

// PromptForSave asks whether to write the markdown report.
func PromptForSave() (bool, error) {
	save := true
	if err := survey.AskOne(&survey.Confirm{Message: "Save a markdown report?", Default: true}, &save); err != nil {
		return false, err
	}
	return save, nil
}
