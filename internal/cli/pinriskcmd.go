package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"options-analytics/internal/logging"
)

// addPinRiskCommands adds the pinrisk command.
func addPinRiskCommands(rootCmd *cobra.Command, app *App) {
	cmd := &cobra.Command{
		Use:   "pinrisk <symbol>",
		Short: "Pin risk and max pain analysis",
		Long: `Analyze pin risk for a stored chain: the max pain strike,
high open-interest strikes, and a composite pin risk score.

Chains expiring outside the analysis window produce no result.`,
		Args: cobra.ExactArgs(1),
		Example: `  optionsctl pinrisk SPY
  optionsctl pinrisk SPY --expiry 2026-03-20 --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			symbol := args[0]

			chain, err := loadChain(cmd, app, symbol)
			if err != nil {
				output.Error("Failed to load chain for %s: %v", symbol, err)
				return err
			}

			snapshot, err := app.PinRisk.Analyze(chain, time.Now())
			if err != nil {
				output.Error("Pin risk analysis failed: %v", err)
				return err
			}
			if snapshot == nil {
				if output.IsJSON() {
					return output.JSON(map[string]interface{}{"applicable": false})
				}
				output.Dim("Expiry %s is outside the %.0f-day pin risk window; nothing to analyze.",
					FormatDate(chain.Expiry), app.Config.PinRisk.WindowDays)
				return nil
			}

			logging.LogPinRisk(app.Logger, symbol, snapshot.MaxPainStrike, snapshot.Score)

			if output.IsJSON() {
				return output.JSON(snapshot)
			}

			output.Bold("Pin Risk - %s", symbol)
			output.Printf("  Expiry: %s  (%s to expiration)\n\n", FormatDate(snapshot.Expiry), FormatDTE(snapshot.DaysToExpiration))
			output.SourceLine(SourceCalc, "Max Pain:  %s", output.BoldText(FormatPrice(snapshot.MaxPainStrike)))

			if len(snapshot.HighOIStrikes) > 0 {
				strikes := make([]string, len(snapshot.HighOIStrikes))
				for i, k := range snapshot.HighOIStrikes {
					strikes[i] = fmt.Sprintf("%.2f", k)
				}
				output.Printf("  High OI:   %s\n", strings.Join(strikes, ", "))
			}

			score := fmt.Sprintf("%.2f", snapshot.Score)
			switch {
			case snapshot.Score >= 0.7:
				score = output.Red(score + "  HIGH")
			case snapshot.Score >= 0.4:
				score = output.Yellow(score + "  MODERATE")
			default:
				score = output.Green(score + "  LOW")
			}
			output.Printf("  Score:     %s\n", score)
			return nil
		},
	}

	cmd.Flags().String("expiry", "", "Chain expiry (YYYY-MM-DD); defaults to latest imported")
	rootCmd.AddCommand(cmd)
}
