package cli

import (
	"strings"
	"time"

	"github.com/spf13/cobra"

	"options-analytics/internal/logging"
	"options-analytics/internal/models"
	"options-analytics/internal/pricing"
)

// addPricingCommands adds the price and iv commands.
func addPricingCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newPriceCmd(app))
	rootCmd.AddCommand(newIVCmd(app))
}

func newPriceCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "price",
		Short: "Price an option with Black-Scholes",
		Long: `Price a European option using the Black-Scholes model with
continuous dividend yield.

At expiration the theoretical value collapses to intrinsic value.`,
		Example: `  optionsctl price --spot 100 --strike 105 --expiry 2026-03-20 --type CALL --iv 0.25
  optionsctl price --spot 4500 --strike 4400 --expiry 2026-06-19 --type PUT --iv 0.18 --rate 0.04`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			start := time.Now()

			spot, _ := cmd.Flags().GetFloat64("spot")
			strike, _ := cmd.Flags().GetFloat64("strike")
			expiryStr, _ := cmd.Flags().GetString("expiry")
			typeStr, _ := cmd.Flags().GetString("type")
			iv, _ := cmd.Flags().GetFloat64("iv")
			rate, _ := cmd.Flags().GetFloat64("rate")
			yield, _ := cmd.Flags().GetFloat64("yield")

			expiry, err := time.Parse("2006-01-02", expiryStr)
			if err != nil {
				output.Error("Invalid expiry %q: use YYYY-MM-DD", expiryStr)
				return err
			}
			tte := time.Until(expiry.Add(24*time.Hour-time.Second)).Hours() / 24 / 365
			if tte < 0 {
				tte = 0
			}
			optType := models.OptionType(strings.ToUpper(typeStr))

			price, err := pricing.Price(spot, strike, tte, iv, rate, optType, yield)
			if err != nil {
				output.Error("Pricing failed: %v", err)
				return err
			}
			logging.LogCalculation(app.Logger, "pricing", "", time.Since(start))

			if output.IsJSON() {
				return output.JSON(map[string]interface{}{
					"price":          price,
					"spot":           spot,
					"strike":         strike,
					"type":           optType,
					"time_to_expiry": tte,
					"iv":             iv,
				})
			}

			output.Bold("Black-Scholes Price")
			output.Printf("  %s %s %.2f  exp %s\n\n", "Option:", optType, strike, FormatDate(expiry))
			output.SourceLine(SourceCalc, "Theoretical: %s", output.BoldText(FormatPrice(price)))
			output.Printf("  Intrinsic:   %s\n", FormatPrice(pricing.Intrinsic(spot, strike, optType)))
			output.Printf("  Time Value:  %s\n", FormatPrice(price-pricing.Intrinsic(spot, strike, optType)))
			output.Printf("  DTE:         %s\n", FormatDTE(tte*365))
			return nil
		},
	}

	addMarketFlags(cmd)
	cmd.Flags().Float64("strike", 0, "Strike price")
	cmd.Flags().String("expiry", "", "Expiry date (YYYY-MM-DD)")
	cmd.Flags().String("type", "CALL", "Option type: CALL or PUT")
	return cmd
}

func newIVCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "iv",
		Short: "Solve implied volatility from an observed price",
		Long: `Solve implied volatility via Newton-Raphson iteration.

Reports the converged volatility, or the last iterate with a warning
when the solver exhausts its iteration budget.`,
		Example: `  optionsctl iv --price 4.20 --spot 100 --strike 105 --expiry 2026-03-20 --type CALL`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			observed, _ := cmd.Flags().GetFloat64("price")
			spot, _ := cmd.Flags().GetFloat64("spot")
			strike, _ := cmd.Flags().GetFloat64("strike")
			expiryStr, _ := cmd.Flags().GetString("expiry")
			typeStr, _ := cmd.Flags().GetString("type")
			rate, _ := cmd.Flags().GetFloat64("rate")
			yield, _ := cmd.Flags().GetFloat64("yield")

			expiry, err := time.Parse("2006-01-02", expiryStr)
			if err != nil {
				output.Error("Invalid expiry %q: use YYYY-MM-DD", expiryStr)
				return err
			}
			tte := time.Until(expiry.Add(24*time.Hour-time.Second)).Hours() / 24 / 365
			optType := models.OptionType(strings.ToUpper(typeStr))

			result, err := pricing.ImpliedVolatility(observed, spot, strike, tte, rate, optType, yield)
			if err != nil {
				output.Error("IV solve failed: %v", err)
				return err
			}

			if output.IsJSON() {
				return output.JSON(map[string]interface{}{
					"implied_vol": result.Volatility,
					"converged":   result.Converged,
					"iterations":  result.Iterations,
				})
			}

			output.Bold("Implied Volatility")
			output.SourceLine(SourceCalc, "IV: %s  (%d iterations)", output.BoldText(FormatIV(result.Volatility)), result.Iterations)
			if !result.Converged {
				output.Warning("  Solver did not converge; showing last iterate")
			}
			return nil
		},
	}

	cmd.Flags().Float64("price", 0, "Observed option price")
	addMarketFlags(cmd)
	cmd.Flags().Float64("strike", 0, "Strike price")
	cmd.Flags().String("expiry", "", "Expiry date (YYYY-MM-DD)")
	cmd.Flags().String("type", "CALL", "Option type: CALL or PUT")
	return cmd
}
