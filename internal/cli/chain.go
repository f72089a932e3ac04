package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"options-analytics/internal/errors"
	"options-analytics/internal/models"
)

// addChainCommands adds the chain command group.
func addChainCommands(rootCmd *cobra.Command, app *App) {
	cmd := &cobra.Command{
		Use:   "chain",
		Short: "Option chain snapshot management",
		Long: `Import, inspect, and list locally stored option chain
snapshots. Snapshots are the market-data input for gex and pinrisk.`,
	}

	cmd.AddCommand(newChainImportCmd(app))
	cmd.AddCommand(newChainShowCmd(app))
	cmd.AddCommand(newChainExpiriesCmd(app))
	rootCmd.AddCommand(cmd)
}

// loadChain fetches a stored chain for a symbol, honoring an optional
// --expiry flag.
func loadChain(cmd *cobra.Command, app *App, symbol string) (*models.OptionChain, error) {
	if app.Store == nil {
		return nil, errors.ErrDatabaseError
	}
	expiryStr, _ := cmd.Flags().GetString("expiry")
	if expiryStr == "" {
		return app.Store.GetLatestChain(context.Background(), symbol)
	}
	expiry, err := time.Parse("2006-01-02", expiryStr)
	if err != nil {
		return nil, errors.NewInvalidInputError("expiry", expiryStr, "must be YYYY-MM-DD")
	}
	return app.Store.GetChain(context.Background(), symbol, expiry)
}

func newChainImportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Import a chain snapshot from a JSON file",
		Long: `Import an option chain snapshot exported by your data
provider. The file must contain a single JSON chain object with
symbol, spot_price, expiry, and per-strike call/put data.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if app.Store == nil {
				return errors.ErrDatabaseError
			}

			data, err := os.ReadFile(args[0])
			if err != nil {
				output.Error("Failed to read %s: %v", args[0], err)
				return errors.Wrapf(err, "reading chain file %s", args[0])
			}

			var chain models.OptionChain
			if err := json.Unmarshal(data, &chain); err != nil {
				output.Error("Invalid chain file: %v", err)
				return errors.Wrapf(err, "parsing chain file %s", args[0])
			}
			if chain.Symbol == "" || len(chain.Strikes) == 0 {
				return errors.ErrEmptyChain
			}

			if err := app.Store.SaveChain(context.Background(), &chain); err != nil {
				output.Error("Failed to save chain: %v", err)
				return err
			}

			if output.IsJSON() {
				return output.JSON(map[string]interface{}{
					"symbol":  chain.Symbol,
					"expiry":  chain.Expiry,
					"strikes": len(chain.Strikes),
				})
			}
			output.Success("✓ Imported %s chain: %d strikes, expiry %s",
				chain.Symbol, len(chain.Strikes), FormatDate(chain.Expiry))
			return nil
		},
	}
}

func newChainShowCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <symbol>",
		Short: "Show a stored chain snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			symbol := args[0]

			chain, err := loadChain(cmd, app, symbol)
			if err != nil {
				output.Error("Failed to load chain for %s: %v", symbol, err)
				return err
			}

			if output.IsJSON() {
				return output.JSON(chain)
			}

			output.Bold("Option Chain - %s", chain.Symbol)
			output.Printf("  Spot: %s   Expiry: %s\n\n", FormatPrice(chain.SpotPrice), FormatDate(chain.Expiry))

			table := NewTable(output, "Call OI", "Call IV", "Call LTP", "Strike", "Put LTP", "Put IV", "Put OI")
			for _, row := range chain.Strikes {
				callOI, callIV, callLTP := "-", "-", "-"
				if row.Call != nil {
					callOI = FormatOI(row.Call.OpenInterest)
					callIV = FormatIV(row.Call.IV)
					callLTP = FormatPrice(row.Call.LTP)
				}
				putOI, putIV, putLTP := "-", "-", "-"
				if row.Put != nil {
					putOI = FormatOI(row.Put.OpenInterest)
					putIV = FormatIV(row.Put.IV)
					putLTP = FormatPrice(row.Put.LTP)
				}
				strike := fmt.Sprintf("%.2f", row.Strike)
				if row.Strike <= chain.SpotPrice*1.005 && row.Strike >= chain.SpotPrice*0.995 {
					strike = output.BoldText(strike)
				}
				table.AddRow(callOI, callIV, callLTP, strike, putLTP, putIV, putOI)
			}
			table.Render()
			return nil
		},
	}

	cmd.Flags().String("expiry", "", "Chain expiry (YYYY-MM-DD); defaults to latest imported")
	return cmd
}

func newChainExpiriesCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "expiries <symbol>",
		Short: "List stored expiries for a symbol",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if app.Store == nil {
				return errors.ErrDatabaseError
			}

			expiries, err := app.Store.ListChainExpiries(context.Background(), args[0])
			if err != nil {
				output.Error("Failed to list expiries: %v", err)
				return err
			}

			if output.IsJSON() {
				return output.JSON(expiries)
			}
			if len(expiries) == 0 {
				output.Dim("No chains stored for %s", args[0])
				return nil
			}
			output.Bold("Stored Expiries - %s", args[0])
			for _, e := range expiries {
				output.SourceLine(SourceLocal, "%s", FormatDate(e))
			}
			return nil
		},
	}
}
