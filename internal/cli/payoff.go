package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"options-analytics/internal/models"
	"options-analytics/internal/payoff"
)

// addPayoffCommands adds the payoff command.
func addPayoffCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newPayoffCmd(app))
}

func newPayoffCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "payoff",
		Short: "Display payoff diagram",
		Long: `Sample the strategy P&L curve and render an ASCII payoff
diagram with breakevens, max profit, and max loss.

By default the curve is evaluated at expiration; --current reprices
each leg at its remaining life instead.`,
		Example: `  optionsctl payoff --symbol SPY --strike 450 --expiry 2026-03-20 --type CALL --premium 5.20 --spot 452 --iv 0.18
  optionsctl payoff --strategy my-condor --spot 452 --iv 0.18 --current`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			s, err := strategyFromFlags(cmd, app)
			if err != nil {
				output.Error("Failed to build position: %v", err)
				return err
			}

			current, _ := cmd.Flags().GetBool("current")
			minPrice, _ := cmd.Flags().GetFloat64("min")
			maxPrice, _ := cmd.Flags().GetFloat64("max")

			diagram, err := app.Payoff.Diagram(s, payoff.DiagramOptions{
				MinPrice:     minPrice,
				MaxPrice:     maxPrice,
				AtExpiration: !current,
				Now:          time.Now(),
			})
			if err != nil {
				output.Error("Payoff calculation failed: %v", err)
				return err
			}

			if output.IsJSON() {
				return output.JSON(diagram)
			}

			output.Bold("Payoff Diagram - %s", s.Symbol())
			output.Println()
			for _, line := range renderPayoff(diagram, 60, 14) {
				output.Println(line)
			}
			output.Println()

			output.Printf("  Net Premium: %s\n", FormatPnL(diagram.NetPremium))
			output.Printf("  Max Profit:  %s at %.2f\n", output.FormatPnL(diagram.MaxProfit), diagram.MaxProfitAt)
			output.Printf("  Max Loss:    %s at %.2f\n", output.FormatPnL(diagram.MaxLoss), diagram.MaxLossAt)
			if len(diagram.Breakevens) > 0 {
				bes := make([]string, len(diagram.Breakevens))
				for i, be := range diagram.Breakevens {
					bes[i] = fmt.Sprintf("%.2f", be)
				}
				output.Printf("  Breakevens:  %s\n", strings.Join(bes, ", "))
			} else {
				output.Printf("  Breakevens:  none in sampled range\n")
			}
			return nil
		},
	}

	addLegFlags(cmd)
	addMarketFlags(cmd)
	cmd.Flags().String("strategy", "", "Saved strategy name")
	cmd.Flags().Bool("current", false, "Reprice legs at current time instead of expiration")
	cmd.Flags().Float64("min", 0, "Lower bound of the sampled price range")
	cmd.Flags().Float64("max", 0, "Upper bound of the sampled price range")
	return cmd
}

// renderPayoff draws the sampled P&L curve as ASCII art.
func renderPayoff(d *models.PayoffDiagram, width, height int) []string {
	if len(d.Prices) == 0 {
		return nil
	}

	// Downsample the curve to the requested width.
	pnls := make([]float64, width)
	for col := 0; col < width; col++ {
		idx := col * (len(d.PnL) - 1) / (width - 1)
		pnls[col], _ = d.PnL[idx].Float64()
	}

	lo, hi := pnls[0], pnls[0]
	for _, v := range pnls {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	if hi == lo {
		hi = lo + 1
	}

	rowFor := func(v float64) int {
		r := int(float64(height-1) * (hi - v) / (hi - lo))
		if r < 0 {
			r = 0
		}
		if r > height-1 {
			r = height - 1
		}
		return r
	}

	grid := make([][]rune, height)
	for i := range grid {
		grid[i] = []rune(strings.Repeat(" ", width))
	}

	// Zero axis, when it lies within the sampled range.
	zeroRow := -1
	if lo <= 0 && hi >= 0 {
		zeroRow = rowFor(0)
		for col := 0; col < width; col++ {
			grid[zeroRow][col] = '─'
		}
	}

	for col := 0; col < width; col++ {
		r := rowFor(pnls[col])
		if r == zeroRow {
			grid[r][col] = '┼'
		} else {
			grid[r][col] = '*'
		}
	}

	lines := make([]string, 0, height+2)
	for i, row := range grid {
		label := "        "
		switch i {
		case 0:
			label = " Profit "
		case height - 1:
			label = "   Loss "
		}
		if i == zeroRow {
			label = fmt.Sprintf("%7.0f ", 0.0)
		}
		lines = append(lines, label+"│"+string(row))
	}
	lines = append(lines, "        └"+strings.Repeat("─", width))

	left := fmt.Sprintf("%.0f", d.Prices[0])
	right := fmt.Sprintf("%.0f", d.Prices[len(d.Prices)-1])
	gap := width - len(left) - len(right)
	if gap < 1 {
		gap = 1
	}
	lines = append(lines, "         "+left+strings.Repeat(" ", gap)+right)
	return lines
}
