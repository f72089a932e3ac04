package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"options-analytics/internal/logging"
	"options-analytics/internal/models"
)

// addGEXCommands adds the gex command group.
func addGEXCommands(rootCmd *cobra.Command, app *App) {
	cmd := &cobra.Command{
		Use:   "gex",
		Short: "Dealer gamma exposure analysis",
		Long: `Compute per-strike dealer gamma exposure from an imported
option chain, locate the gamma flip level, and classify the regime.

Convention: dealers are short calls and long puts, so call gamma
contributes positive exposure and put gamma negative.`,
	}

	cmd.AddCommand(newGEXProfileCmd(app))
	cmd.AddCommand(newGEXFlipCmd(app))
	rootCmd.AddCommand(cmd)
}

func newGEXProfileCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile <symbol>",
		Short: "Per-strike gamma exposure profile",
		Args:  cobra.ExactArgs(1),
		Example: `  optionsctl gex profile SPY
  optionsctl gex profile SPY --rate 0.04 --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			symbol := args[0]
			rate, _ := cmd.Flags().GetFloat64("rate")

			chain, err := loadChain(cmd, app, symbol)
			if err != nil {
				output.Error("Failed to load chain for %s: %v", symbol, err)
				return err
			}

			profile, err := app.GEX.Profile(chain, rate, time.Now())
			if err != nil {
				output.Error("GEX calculation failed: %v", err)
				return err
			}

			if output.IsJSON() {
				return output.JSON(profile)
			}

			output.Bold("Gamma Exposure Profile - %s", symbol)
			output.Printf("  Spot: %s   Expiry: %s\n\n", FormatPrice(profile.SpotPrice), FormatDate(chain.Expiry))

			table := NewTable(output, "Strike", "Call OI", "Put OI", "Call GEX", "Put GEX", "Net GEX")
			for _, row := range profile.Rows {
				net := FormatGEX(row.NetGEX)
				if row.NetGEX > 0 {
					net = output.Green(net)
				} else if row.NetGEX < 0 {
					net = output.Red(net)
				}
				table.AddRow(
					fmt.Sprintf("%.2f", row.Strike),
					FormatOI(row.CallOI),
					FormatOI(row.PutOI),
					FormatGEX(row.CallGEX),
					FormatGEX(row.PutGEX),
					net,
				)
			}
			table.Render()

			output.Println()
			output.Printf("  Total Call GEX: %s\n", output.Green(FormatGEX(profile.TotalCallGEX)))
			output.Printf("  Total Put GEX:  %s\n", output.Red(FormatGEX(profile.TotalPutGEX)))
			output.Printf("  Total Net GEX:  %s\n", FormatGEX(profile.TotalNetGEX))
			printFlip(output, profile.Flip, profile.SpotPrice)
			return nil
		},
	}

	cmd.Flags().Float64("rate", 0.05, "Annualized risk-free rate")
	cmd.Flags().String("expiry", "", "Chain expiry (YYYY-MM-DD); defaults to latest imported")
	return cmd
}

func newGEXFlipCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "flip <symbol>",
		Short: "Locate the gamma flip level",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			symbol := args[0]
			rate, _ := cmd.Flags().GetFloat64("rate")

			chain, err := loadChain(cmd, app, symbol)
			if err != nil {
				output.Error("Failed to load chain for %s: %v", symbol, err)
				return err
			}

			profile, err := app.GEX.Profile(chain, rate, time.Now())
			if err != nil {
				output.Error("GEX calculation failed: %v", err)
				return err
			}

			if profile.Flip.FlipStrike != nil {
				logging.LogGammaFlip(app.Logger, symbol, *profile.Flip.FlipStrike, string(profile.Flip.Regime))
			}

			if output.IsJSON() {
				return output.JSON(profile.Flip)
			}

			output.Bold("Gamma Flip - %s", symbol)
			printFlip(output, profile.Flip, profile.SpotPrice)
			return nil
		},
	}

	cmd.Flags().Float64("rate", 0.05, "Annualized risk-free rate")
	cmd.Flags().String("expiry", "", "Chain expiry (YYYY-MM-DD); defaults to latest imported")
	return cmd
}

func printFlip(output *Output, flip models.GammaFlipLevel, spot float64) {
	output.Println()
	if flip.FlipStrike != nil {
		output.Printf("  Flip Level: %s\n", output.BoldText(FormatPrice(*flip.FlipStrike)))
		output.Printf("  Distance:   %s from spot %.2f\n", FormatPercent(flip.DistancePct*100), spot)
	} else {
		output.Printf("  Flip Level: %s\n", output.DimText("none found"))
	}
	output.Printf("  Regime:     %s\n", output.Regime(string(flip.Regime)))
}
