// =============================================================================
// Appraisal Fee Audit - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. The root command is
// the base command that all other commands (like 'audit', 'validate') are
// attached to.
//
// COBRA CLI STRUCTURE:
//   rootCmd (feeaudit)
//   ├── auditCmd (feeaudit audit)
//   ├── validateCmd (feeaudit validate)
//   └── versionCmd (feeaudit version)
//
// CONFIGURATION:
//   The root command is responsible for:
//   1. Setting up global flags (--config, --verbose)
//   2. Loading the configuration file
//   3. Setting up logging
//
// =============================================================================

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/ginjaninja78/appraisal-fee-audit/internal/config"
	"github.com/ginjaninja78/appraisal-fee-audit/pkg/utils"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to the configuration file.
// This can be overridden using the --config flag.
var cfgFile string

// verbose enables debug logging when set to true.
var verbose bool

// appConfig and logger are set by loadConfig before any command that needs
// them runs.
var (
	appConfig *config.Config
	logger    = zap.NewNop()
)

// skipConfig marks commands that run without a configuration.
const skipConfig = "skip-config"

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use: "feeaudit",

	Short: "Appraisal Fee Audit - Flag appraisal orders charged above the fee schedule",

	Long: `Appraisal Fee Audit compares the fee charged on each appraisal order with
the fee the schedule allows for the property's location, product type and
complexity, and reports every order charged more.

Key Features:
  - Fee schedule lookup by city, then county, then state
  - Tier surcharges for large sites, living areas and values
  - Complexity surcharges from order notes, and quote-only properties
  - Separate report of rush orders
  - XLSX or CSV inputs and outputs

Example Usage:
  feeaudit audit                      # Audit the inputs named in config.yaml
  feeaudit audit --config ./my.yaml   # Use a custom configuration file
  feeaudit validate                   # Check the inputs without auditing`,

	SilenceUsage:  true,
	SilenceErrors: true,
	Annotations:   map[string]string{skipConfig: "true"},

	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Annotations[skipConfig] != "" {
			return nil
		}
		return loadConfig(cmd)
	},

	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},

	Run: func(cmd *cobra.Command, args []string) {
		// If no subcommand is provided, print the help message.
		cmd.Help()
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	// --config flag: Allows the user to specify a custom configuration file.
	// A missing config.yaml in the current directory means built-in defaults.
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"config.yaml",
		"Path to the configuration file",
	)

	// --verbose flag: Enables debug logging.
	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable verbose output for debugging",
	)
}

// loadConfig reads the configuration and builds the logger.
func loadConfig(cmd *cobra.Command) error {
	optional := !cmd.Flags().Changed("config")

	cfg, err := config.Load(cfgFile, optional)
	if err != nil {
		return err
	}

	l, err := newLogger(cfg.LogLevel, verbose)
	if err != nil {
		return err
	}

	appConfig = cfg
	logger = l
	logger.Debug("Configuration loaded",
		zap.String("path", cfgFile),
		zap.Bool("built_in_defaults", !utils.FileExists(cfgFile)))
	return nil
}

// newLogger builds a console logger on stderr at level, or debug when
// verbose is set.
func newLogger(level string, verbose bool) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	if verbose {
		lvl = zapcore.DebugLevel
	}

	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(lvl)
	zc.Encoding = "console"
	zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zc.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	zc.DisableStacktrace = !verbose

	return zc.Build()
}
