package cli

import (
	"time"

	"github.com/spf13/cobra"
)

// addGreeksCommands adds the greeks command.
func addGreeksCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newGreeksCmd(app))
}

func newGreeksCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "greeks",
		Short: "Calculate option or strategy Greeks",
		Long: `Calculate position Greeks (Delta, Gamma, Theta, Vega, Rho).

Single legs are defined with flags; multi-leg positions are loaded
from a saved strategy with --strategy. Position Greeks are scaled by
side, quantity, and the contract multiplier.`,
		Example: `  optionsctl greeks --symbol SPY --strike 450 --expiry 2026-03-20 --type CALL --spot 452 --iv 0.18
  optionsctl greeks --strategy my-condor --spot 452 --iv 0.18`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			s, err := strategyFromFlags(cmd, app)
			if err != nil {
				output.Error("Failed to build position: %v", err)
				return err
			}

			agg, err := app.Greeks.ForStrategy(s, time.Now())
			if err != nil {
				output.Error("Greeks calculation failed: %v", err)
				return err
			}

			if output.IsJSON() {
				return output.JSON(agg)
			}

			output.Bold("Position Greeks - %s", s.Symbol())
			output.Println()
			output.Printf("  Delta (Δ):  %s\n", output.BoldText(FormatPrice(agg.Total.Delta)))
			output.Printf("  Gamma (Γ):  %.4f\n", agg.Total.Gamma)
			output.Printf("  Theta (Θ):  %s\n", output.Red(FormatPrice(agg.Total.Theta)))
			output.Printf("  Vega  (ν):  %.4f\n", agg.Total.Vega)
			output.Printf("  Rho   (ρ):  %.4f\n", agg.Total.Rho)
			output.Println()

			if len(agg.RiskProfile) > 0 {
				output.Bold("Risk Profile")
				for _, note := range agg.RiskProfile {
					output.Printf("  • %s\n", note)
				}
			}
			return nil
		},
	}

	addLegFlags(cmd)
	addMarketFlags(cmd)
	cmd.Flags().String("strategy", "", "Saved strategy name")
	return cmd
}
