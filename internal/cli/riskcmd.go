package cli

import (
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"options-analytics/internal/logging"
)

// addRiskCommands adds the risk command group.
func addRiskCommands(rootCmd *cobra.Command, app *App) {
	cmd := &cobra.Command{
		Use:   "risk",
		Short: "Strategy risk metrics",
		Long: `Risk metrics for a single leg or saved strategy: parametric
value-at-risk, Monte Carlo probability of profit, what-if scenarios,
and a margin estimate.`,
	}

	cmd.AddCommand(newVaRCmd(app))
	cmd.AddCommand(newPOPCmd(app))
	cmd.AddCommand(newScenarioCmd(app))
	cmd.AddCommand(newMarginCmd(app))

	cmd.PersistentFlags().String("strategy", "", "Saved strategy name")
	rootCmd.AddCommand(cmd)
}

func newVaRCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "var",
		Short: "Parametric value-at-risk",
		Long: `Parametric VaR from premium notional and average implied
volatility, scaled by confidence z-score and horizon.`,
		Example: `  optionsctl risk var --strategy my-condor --spot 452 --iv 0.18
  optionsctl risk var --strategy my-condor --spot 452 --iv 0.18 --confidence 0.99 --horizon 5`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			s, err := strategyFromFlags(cmd, app)
			if err != nil {
				output.Error("Failed to build position: %v", err)
				return err
			}

			confidence, _ := cmd.Flags().GetFloat64("confidence")
			horizon, _ := cmd.Flags().GetFloat64("horizon")

			result, err := app.Risk.ValueAtRisk(s, confidence, horizon)
			if err != nil {
				output.Error("VaR calculation failed: %v", err)
				return err
			}

			if output.IsJSON() {
				return output.JSON(result)
			}

			output.Bold("Value at Risk - %s", s.Symbol())
			output.Println()
			output.SourceLine(SourceCalc, "VaR (%.0f%%, %.0fd): %s",
				result.ConfidenceLevel*100, result.HorizonDays,
				output.Red(FormatCurrencyDecimal(result.ValueAtRisk)))
			output.Printf("  Notional:   %s\n", FormatCurrencyDecimal(result.Notional))
			output.Printf("  Daily Vol:  %s\n", FormatIV(result.DailyVolatility))
			return nil
		},
	}

	addLegFlags(cmd)
	addMarketFlags(cmd)
	cmd.Flags().Float64("confidence", 0.95, "Confidence level (0.90, 0.95, 0.975, 0.99)")
	cmd.Flags().Float64("horizon", 1, "Horizon in trading days")
	return cmd
}

func newPOPCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pop",
		Short: "Monte Carlo probability of profit",
		Long: `Estimate probability of profit by simulating terminal
underlying prices under geometric Brownian motion and evaluating the
at-expiration P&L of each path.

A fixed --seed makes runs reproducible.`,
		Example: `  optionsctl risk pop --strategy my-condor --spot 452 --iv 0.18 --sims 10000 --seed 42`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			s, err := strategyFromFlags(cmd, app)
			if err != nil {
				output.Error("Failed to build position: %v", err)
				return err
			}

			sims, _ := cmd.Flags().GetInt("sims")
			seed, _ := cmd.Flags().GetInt64("seed")
			if seed == 0 {
				seed = time.Now().UnixNano()
			}

			result, err := app.Risk.ProbabilityOfProfit(s, sims, seed, time.Now())
			if err != nil {
				output.Error("Simulation failed: %v", err)
				return err
			}

			logging.LogSimulation(app.Logger, s.Symbol(), result.Simulations, result.Seed, result.ProbabilityOfProfit)

			if output.IsJSON() {
				return output.JSON(result)
			}

			output.Bold("Probability of Profit - %s", s.Symbol())
			output.Println()
			output.SourceLine(SourceCalc, "POP: %s  (%d paths, seed %d)",
				output.BoldText(FormatPercent(result.ProbabilityOfProfit*100)),
				result.Simulations, result.Seed)
			output.Printf("  Expected Value: %s\n", output.FormatPnL(result.ExpectedValue))
			output.Printf("  Std Deviation:  %s\n", FormatCurrencyDecimal(result.StdDev))
			return nil
		},
	}

	addLegFlags(cmd)
	addMarketFlags(cmd)
	cmd.Flags().Int("sims", 0, "Number of simulations (default from config)")
	cmd.Flags().Int64("seed", 0, "Random seed (0 uses current time)")
	return cmd
}

func newScenarioCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scenario",
		Short: "What-if scenario P&L",
		Long: `Estimate strategy P&L under a shocked market state.

The default linear estimator extrapolates from position Greeks and is
accurate for small moves; --reprice fully reprices each leg under the
shocked inputs instead.`,
		Example: `  optionsctl risk scenario --strategy my-condor --spot 452 --iv 0.18 --price-change -5 --vol-change 10
  optionsctl risk scenario --strategy my-condor --spot 452 --iv 0.18 --price-change -5 --days 3 --reprice`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			s, err := strategyFromFlags(cmd, app)
			if err != nil {
				output.Error("Failed to build position: %v", err)
				return err
			}

			priceChange, _ := cmd.Flags().GetFloat64("price-change")
			volChange, _ := cmd.Flags().GetFloat64("vol-change")
			days, _ := cmd.Flags().GetFloat64("days")
			reprice, _ := cmd.Flags().GetBool("reprice")

			run := app.Risk.ScenarioLinear
			if reprice {
				run = app.Risk.ScenarioReprice
			}
			result, err := run(s, priceChange, volChange, days, time.Now())
			if err != nil {
				output.Error("Scenario calculation failed: %v", err)
				return err
			}

			if output.IsJSON() {
				return output.JSON(result)
			}

			output.Bold("Scenario - %s", s.Symbol())
			output.Printf("  Spot %s, Vol %s, %s forward  (%s)\n\n",
				FormatPercent(result.PriceChangePct),
				FormatPercent(result.VolChangePct),
				FormatDTE(result.DaysForward),
				result.Method)
			output.SourceLine(SourceCalc, "Estimated P&L: %s", output.FormatPnL(result.EstimatedPnL))
			return nil
		},
	}

	addLegFlags(cmd)
	addMarketFlags(cmd)
	cmd.Flags().Float64("price-change", 0, "Underlying price change in percent")
	cmd.Flags().Float64("vol-change", 0, "Implied volatility change in percent")
	cmd.Flags().Float64("days", 0, "Days forward")
	cmd.Flags().Bool("reprice", false, "Fully reprice legs instead of linear Greeks estimate")
	return cmd
}

func newMarginCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "margin",
		Short: "Margin requirement estimate",
		Long: `Estimate the margin requirement for a strategy. Short legs
contribute per the 20%-of-notional rule with OTM offset; long legs
require no margin beyond premium paid.`,
		Example: `  optionsctl risk margin --strategy short-puts --spot 452`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			s, err := strategyFromFlags(cmd, app)
			if err != nil {
				output.Error("Failed to build position: %v", err)
				return err
			}

			result, err := app.Risk.MarginRequirement(s)
			if err != nil {
				output.Error("Margin calculation failed: %v", err)
				return err
			}

			if output.IsJSON() {
				return output.JSON(result)
			}

			output.Bold("Margin Estimate - %s", s.Symbol())
			output.Println()
			table := NewTable(output, "Leg", "Side", "Type", "Strike", "Margin")
			for i, leg := range s.Legs {
				table.AddRow(
					PadLeft(strconv.Itoa(i+1), 2),
					string(leg.Position),
					string(leg.Type),
					leg.Strike.StringFixed(2),
					FormatCurrencyDecimal(result.PerLeg[i]),
				)
			}
			table.Render()
			output.Println()
			output.SourceLine(SourceCalc, "Total: %s", output.BoldText(FormatCurrencyDecimal(result.Total)))
			return nil
		},
	}

	addLegFlags(cmd)
	addMarketFlags(cmd)
	return cmd
}

