// Package cli provides the command-line interface for the options
// analytics application.
package cli

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"options-analytics/internal/config"
	"options-analytics/internal/gex"
	"options-analytics/internal/greeks"
	"options-analytics/internal/logging"
	"options-analytics/internal/models"
	"options-analytics/internal/payoff"
	"options-analytics/internal/pinrisk"
	"options-analytics/internal/risk"
	"options-analytics/internal/store"
)

// Version information
const (
	Version   = "0.1.0"
	BuildDate = "2026-01-01"
)

// App holds the application dependencies.
type App struct {
	Config    *config.Config
	Logger    zerolog.Logger
	Store     store.DataStore
	Greeks    *greeks.Engine
	Payoff    *payoff.Engine
	GEX       *gex.Engine
	PinRisk   *pinrisk.Engine
	Risk      *risk.Engine
	Templates *models.TemplateSet
}

// NewRootCmd creates the root command for the CLI.
func NewRootCmd(cfg *config.Config, logger zerolog.Logger) *cobra.Command {
	app := &App{
		Config:    cfg,
		Logger:    logger,
		Greeks:    greeks.NewEngine(cfg.Greeks),
		Payoff:    payoff.NewEngine(cfg.Payoff),
		GEX:       gex.NewEngine(cfg.GEX),
		PinRisk:   pinrisk.NewEngine(cfg.PinRisk),
		Templates: models.DefaultTemplates(),
	}
	app.Risk = risk.NewEngine(cfg.Risk, app.Greeks, app.Payoff)

	// Initialize SQLite store
	dbPath := config.DefaultConfigDir() + "/analytics.db"
	dataStore, err := store.NewSQLiteStore(dbPath)
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to initialize store, saved chains and strategies unavailable")
	} else {
		app.Store = dataStore
		logger.Debug().Msg("SQLite store initialized")
	}

	rootCmd := &cobra.Command{
		Use:   "optionsctl",
		Short: "Options analytics CLI - pricing, Greeks, GEX, and risk",
		Long: `Options analytics CLI for pricing, Greeks, payoff analysis,
dealer gamma exposure, pin risk, and strategy risk metrics.

All calculations run locally on market data you supply via flags or
imported chain snapshots.

Use 'optionsctl help <command>' for more information about a command.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			debug, _ := cmd.Flags().GetBool("debug")
			if debug {
				logging.SetDebugLevel()
				app.Logger = app.Logger.Level(zerolog.DebugLevel)
			}
			return nil
		},
	}

	// Global flags
	rootCmd.PersistentFlags().String("config", "", "config directory (default: ~/.config/options-analytics)")
	rootCmd.PersistentFlags().Bool("json", false, "output in JSON format")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")

	// Add all command groups
	addCoreCommands(rootCmd, app)
	addPricingCommands(rootCmd, app)
	addGreeksCommands(rootCmd, app)
	addPayoffCommands(rootCmd, app)
	addGEXCommands(rootCmd, app)
	addPinRiskCommands(rootCmd, app)
	addRiskCommands(rootCmd, app)
	addStrategyCommands(rootCmd, app)
	addChainCommands(rootCmd, app)

	return rootCmd
}

// addCoreCommands adds core utility commands.
func addCoreCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newConfigCmd(app))
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			if output.IsJSON() {
				output.JSON(map[string]string{
					"version":    Version,
					"build_date": BuildDate,
				})
			} else {
				output.Printf("optionsctl v%s\n", Version)
				output.Dim("Build date: %s", BuildDate)
			}
		},
	}
}

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
		Long:  "View and manage application configuration.",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if output.IsJSON() {
				return output.JSON(app.Config)
			}
			return showConfig(output, app.Config)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration directory path",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			if output.IsJSON() {
				output.JSON(map[string]string{"path": config.DefaultConfigDir()})
			} else {
				output.Println(config.DefaultConfigDir())
			}
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Validate configuration files",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if err := app.Config.Validate(); err != nil {
				output.Error("Configuration validation failed: %v", err)
				return err
			}
			if output.IsJSON() {
				output.JSON(map[string]bool{"valid": true})
			} else {
				output.Success("✓ Configuration is valid")
			}
			return nil
		},
	})

	return cmd
}

func showConfig(output *Output, cfg *config.Config) error {
	output.Bold("Greeks Configuration")
	output.Printf("  High Delta Threshold: %.1f\n", cfg.Greeks.HighDeltaThreshold)
	output.Printf("  High Gamma Threshold: %.1f\n", cfg.Greeks.HighGammaThreshold)
	output.Printf("  High Theta Threshold: %.1f\n", cfg.Greeks.HighThetaThreshold)
	output.Printf("  High Vega Threshold:  %.1f\n", cfg.Greeks.HighVegaThreshold)
	output.Println()

	output.Bold("Payoff Configuration")
	output.Printf("  Sample Points:   %d\n", cfg.Payoff.NumPoints)
	output.Printf("  Range Low:       %.0f%%\n", cfg.Payoff.RangeLowFactor*100)
	output.Printf("  Range High:      %.0f%%\n", cfg.Payoff.RangeHighFactor*100)
	output.Println()

	output.Bold("GEX Configuration")
	output.Printf("  Near-Flip Threshold: %.1f%%\n", cfg.GEX.NearFlipThresholdPct*100)
	output.Println()

	output.Bold("Pin Risk Configuration")
	output.Printf("  Window:          %.0f days\n", cfg.PinRisk.WindowDays)
	output.Printf("  Proximity Weight: %.2f\n", cfg.PinRisk.ProximityWeight)
	output.Printf("  Urgency Weight:   %.2f\n", cfg.PinRisk.UrgencyWeight)
	output.Println()

	output.Bold("Risk Configuration")
	output.Printf("  Default Simulations: %d\n", cfg.Risk.DefaultSimulations)
	output.Printf("  Simulation Bounds:   %d - %d\n", cfg.Risk.MinSimulations, cfg.Risk.MaxSimulations)
	output.Printf("  Trading Days/Year:   %.0f\n", cfg.Risk.TradingDaysPerYear)
	output.Printf("  Short Margin Factor: %.0f%%\n", cfg.Risk.ShortMarginFactor*100)

	return nil
}
