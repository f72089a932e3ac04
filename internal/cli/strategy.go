package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"options-analytics/internal/errors"
	"options-analytics/internal/models"
)

// addStrategyCommands adds the strategy command group.
func addStrategyCommands(rootCmd *cobra.Command, app *App) {
	cmd := &cobra.Command{
		Use:   "strategy",
		Short: "Strategy builder and storage",
		Long: `Build multi-leg strategies from templates and manage saved
strategies. Saved strategies are referenced by other commands with
--strategy <name>.`,
	}

	cmd.AddCommand(newStrategyTemplatesCmd(app))
	cmd.AddCommand(newStrategyBuildCmd(app))
	cmd.AddCommand(newStrategyListCmd(app))
	cmd.AddCommand(newStrategyShowCmd(app))
	cmd.AddCommand(newStrategyDeleteCmd(app))
	rootCmd.AddCommand(cmd)
}

func newStrategyTemplatesCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "templates",
		Short: "List available strategy templates",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			names := app.Templates.Names()
			if output.IsJSON() {
				output.JSON(names)
				return
			}
			output.Bold("Available Strategy Templates")
			output.Println()
			for _, name := range names {
				tmpl, err := app.Templates.Get(name)
				if err != nil {
					continue
				}
				output.Printf("  %-18s %s\n", output.Cyan(name), tmpl.Description)
			}
		},
	}
}

func newStrategyBuildCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build <template>",
		Short: "Build a strategy from a template",
		Long: `Build a strategy from a named template anchored at a strike.

Premiums are supplied per leg, comma separated, in template leg order.
Pass --save to persist the result for use with other commands.`,
		Args: cobra.ExactArgs(1),
		Example: `  optionsctl strategy build iron-condor --symbol SPY --anchor 450 --width 5 --expiry 2026-03-20 --premiums 1.20,2.10,2.30,1.10 --save my-condor
  optionsctl strategy build straddle --symbol SPY --anchor 450 --expiry 2026-03-20 --premiums 8.40,7.90`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			symbol, _ := cmd.Flags().GetString("symbol")
			anchor, _ := cmd.Flags().GetFloat64("anchor")
			width, _ := cmd.Flags().GetFloat64("width")
			expiryStr, _ := cmd.Flags().GetString("expiry")
			premiumsStr, _ := cmd.Flags().GetString("premiums")
			saveName, _ := cmd.Flags().GetString("save")

			tmpl, err := app.Templates.Get(args[0])
			if err != nil {
				output.Error("Unknown template %q: %v", args[0], err)
				return err
			}

			expiry, err := time.Parse("2006-01-02", expiryStr)
			if err != nil {
				return errors.NewInvalidInputError("expiry", expiryStr, "must be YYYY-MM-DD")
			}
			expiry = expiry.Add(24*time.Hour - time.Second)

			var premiums []decimal.Decimal
			for _, p := range strings.Split(premiumsStr, ",") {
				p = strings.TrimSpace(p)
				if p == "" {
					continue
				}
				d, err := decimal.NewFromString(p)
				if err != nil {
					return errors.NewInvalidInputError("premiums", p, "must be a decimal number")
				}
				premiums = append(premiums, d)
			}

			s, err := tmpl.Build(symbol, decimal.NewFromFloat(anchor), decimal.NewFromFloat(width), expiry, premiums)
			if err != nil {
				output.Error("Failed to build strategy: %v", err)
				return err
			}

			if saveName != "" {
				if app.Store == nil {
					return errors.ErrDatabaseError
				}
				if err := app.Store.SaveStrategy(context.Background(), saveName, s); err != nil {
					output.Error("Failed to save strategy: %v", err)
					return err
				}
			}

			if output.IsJSON() {
				return output.JSON(s)
			}

			printStrategy(output, s)
			if saveName != "" {
				output.Println()
				output.Success("✓ Saved as %q", saveName)
			}
			return nil
		},
	}

	cmd.Flags().String("symbol", "", "Underlying symbol")
	cmd.Flags().Float64("anchor", 0, "Anchor strike (usually ATM)")
	cmd.Flags().Float64("width", 5, "Strike step width for multi-strike templates")
	cmd.Flags().String("expiry", "", "Expiry date (YYYY-MM-DD)")
	cmd.Flags().String("premiums", "", "Comma-separated premiums, one per template leg")
	cmd.Flags().String("save", "", "Save the built strategy under this name")
	return cmd
}

func newStrategyListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved strategies",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if app.Store == nil {
				return errors.ErrDatabaseError
			}
			names, err := app.Store.ListStrategies(context.Background())
			if err != nil {
				output.Error("Failed to list strategies: %v", err)
				return err
			}
			if output.IsJSON() {
				return output.JSON(names)
			}
			if len(names) == 0 {
				output.Dim("No saved strategies")
				return nil
			}
			output.Bold("Saved Strategies")
			for _, name := range names {
				output.SourceLine(SourceLocal, "%s", name)
			}
			return nil
		},
	}
}

func newStrategyShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <name>",
		Short: "Show a saved strategy",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if app.Store == nil {
				return errors.ErrDatabaseError
			}
			s, err := app.Store.GetStrategy(context.Background(), args[0])
			if err != nil {
				output.Error("Failed to load strategy %q: %v", args[0], err)
				return err
			}
			if output.IsJSON() {
				return output.JSON(s)
			}
			printStrategy(output, s)
			return nil
		},
	}
}

func newStrategyDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a saved strategy",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if app.Store == nil {
				return errors.ErrDatabaseError
			}
			if err := app.Store.DeleteStrategy(context.Background(), args[0]); err != nil {
				output.Error("Failed to delete strategy %q: %v", args[0], err)
				return err
			}
			output.Success("✓ Deleted %q", args[0])
			return nil
		},
	}
}

func printStrategy(output *Output, s *models.Strategy) {
	output.Bold("Strategy - %s (%s)", s.Name, s.Symbol())
	output.Println()

	table := NewTable(output, "Leg", "Side", "Type", "Strike", "Qty", "Premium", "Expiry")
	for i, leg := range s.Legs {
		table.AddRow(
			fmt.Sprintf("%d", i+1),
			string(leg.Position),
			string(leg.Type),
			leg.Strike.StringFixed(2),
			fmt.Sprintf("%d", leg.Quantity),
			leg.Premium.StringFixed(2),
			FormatDate(leg.Expiry),
		)
	}
	table.Render()

	output.Println()
	output.Printf("  Net Premium: %s\n", output.FormatPnL(s.NetPremium()))
}
