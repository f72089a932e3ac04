package cli

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"options-analytics/internal/errors"
	"options-analytics/internal/models"
)

// addMarketFlags registers the market input flags shared by
// calculation commands.
func addMarketFlags(cmd *cobra.Command) {
	cmd.Flags().Float64("spot", 0, "Underlying spot price")
	cmd.Flags().Float64("iv", 0, "Implied volatility (e.g. 0.25 for 25%)")
	cmd.Flags().Float64("rate", 0.05, "Annualized risk-free rate")
	cmd.Flags().Float64("yield", 0, "Continuous dividend yield")
}

// addLegFlags registers the flags that define a single option leg.
func addLegFlags(cmd *cobra.Command) {
	cmd.Flags().String("symbol", "", "Underlying symbol")
	cmd.Flags().Float64("strike", 0, "Strike price")
	cmd.Flags().String("expiry", "", "Expiry date (YYYY-MM-DD)")
	cmd.Flags().String("type", "CALL", "Option type: CALL or PUT")
	cmd.Flags().String("side", "LONG", "Position side: LONG or SHORT")
	cmd.Flags().Int("qty", 1, "Number of contracts")
	cmd.Flags().Float64("premium", 0, "Premium paid or collected per share")
}

// legFromFlags builds an option contract from command flags.
func legFromFlags(cmd *cobra.Command) (*models.OptionContract, error) {
	symbol, _ := cmd.Flags().GetString("symbol")
	strike, _ := cmd.Flags().GetFloat64("strike")
	expiryStr, _ := cmd.Flags().GetString("expiry")
	typeStr, _ := cmd.Flags().GetString("type")
	sideStr, _ := cmd.Flags().GetString("side")
	qty, _ := cmd.Flags().GetInt("qty")
	premium, _ := cmd.Flags().GetFloat64("premium")

	if symbol == "" {
		return nil, errors.NewInvalidInputError("symbol", symbol, "is required")
	}
	expiry, err := time.Parse("2006-01-02", expiryStr)
	if err != nil {
		return nil, errors.NewInvalidInputError("expiry", expiryStr, "must be YYYY-MM-DD")
	}
	// Expire at end of day so same-day analysis still works.
	expiry = expiry.Add(24*time.Hour - time.Second)

	leg, err := models.NewOptionContract(
		symbol,
		decimal.NewFromFloat(strike),
		expiry,
		models.OptionType(strings.ToUpper(typeStr)),
		models.Position(strings.ToUpper(sideStr)),
		qty,
		decimal.NewFromFloat(premium),
	)
	if err != nil {
		return nil, err
	}

	applyMarketFlags(cmd, leg)
	return leg, nil
}

// applyMarketFlags copies the market input flags onto a leg.
func applyMarketFlags(cmd *cobra.Command, leg *models.OptionContract) {
	spot, _ := cmd.Flags().GetFloat64("spot")
	iv, _ := cmd.Flags().GetFloat64("iv")
	rate, _ := cmd.Flags().GetFloat64("rate")
	yield, _ := cmd.Flags().GetFloat64("yield")

	if spot > 0 {
		leg.UnderlyingPrice = spot
	}
	if iv > 0 {
		leg.ImpliedVol = iv
	}
	leg.RiskFreeRate = rate
	leg.DividendYield = yield
}

// strategyFromFlags loads a saved strategy by name and refreshes its
// legs with the market input flags.
func strategyFromFlags(cmd *cobra.Command, app *App) (*models.Strategy, error) {
	name, _ := cmd.Flags().GetString("strategy")
	if name == "" {
		// Single-leg strategy from leg flags.
		leg, err := legFromFlags(cmd)
		if err != nil {
			return nil, err
		}
		return models.NewStrategy(leg.Symbol, leg)
	}

	if app.Store == nil {
		return nil, errors.ErrDatabaseError
	}
	s, err := app.Store.GetStrategy(context.Background(), name)
	if err != nil {
		return nil, errors.Wrap(err, "loading strategy")
	}
	for _, leg := range s.Legs {
		applyMarketFlags(cmd, leg)
	}
	return s, nil
}
