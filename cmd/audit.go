// =============================================================================
// Appraisal Fee Audit - Audit Command
// =============================================================================
//
// This file defines the 'audit' command, which is the main command. It runs
// the whole pipeline for the configured fee schedule and order list.
//
// COMMAND USAGE:
//   feeaudit audit [flags]
//
// FLAGS:
//   --schedule     : Fee schedule file (overrides schedule_file)
//   --orders       : Order list file (overrides orders_file)
//   --output-dir   : Report directory (overrides output_dir)
//   --format       : Report format, xlsx or csv (overrides output_format)
//   --metrics-file : Prometheus text file (overrides metrics_file)
//   --archive      : Archive inputs after a clean run (overrides archive_inputs)
//   --dry-run      : Audit without writing or archiving any file
//   --strict       : Exit with an error when any order could not be priced
//
// OUTPUT:
//   The processing summary is printed to stdout. Logs go to stderr.
//
// =============================================================================

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ginjaninja78/appraisal-fee-audit/internal/runner"
	"github.com/ginjaninja78/appraisal-fee-audit/pkg/utils"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

var auditFlags struct {
	schedule    string
	orders      string
	outputDir   string
	format      string
	metricsFile string
	archive     bool
	dryRun      bool
	strict      bool
}

// =============================================================================
// AUDIT COMMAND DEFINITION
// =============================================================================

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Audit appraisal order fees against the fee schedule",
	Long: `The audit command reads the fee schedule and the order list, prices every
order, and writes two reports to the output directory:

  increases : orders charged more than the schedule allows
  rushes    : orders marked rush

Orders that cannot be priced (no schedule entry, unreadable numbers, unknown
product type) are skipped and listed in the error log.

On a run where every order was priced and archiving is enabled, both inputs
are moved to the input archive.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		return runAudit(cmd)
	},
}

func init() {
	rootCmd.AddCommand(auditCmd)

	f := auditCmd.Flags()
	f.StringVar(&auditFlags.schedule, "schedule", "", "Fee schedule file (.xlsx or .csv)")
	f.StringVar(&auditFlags.orders, "orders", "", "Order list file (.xlsx or .csv)")
	f.StringVar(&auditFlags.outputDir, "output-dir", "", "Directory for reports and logs")
	f.StringVar(&auditFlags.format, "format", "", "Report format: xlsx or csv")
	f.StringVar(&auditFlags.metricsFile, "metrics-file", "", "Write run metrics to this file in Prometheus text format")
	f.BoolVar(&auditFlags.archive, "archive", false, "Archive inputs after a run with no record errors")
	f.BoolVar(&auditFlags.dryRun, "dry-run", false, "Audit without writing or archiving any file")
	f.BoolVar(&auditFlags.strict, "strict", false, "Fail when any order could not be priced")
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

// runAudit applies flag overrides and runs the pipeline.
func runAudit(cmd *cobra.Command) error {
	cfg := appConfig
	flags := cmd.Flags()

	if flags.Changed("schedule") {
		cfg.ScheduleFile = auditFlags.schedule
	}
	if flags.Changed("orders") {
		cfg.OrdersFile = auditFlags.orders
	}
	if flags.Changed("output-dir") {
		cfg.OutputDir = auditFlags.outputDir
	}
	if flags.Changed("format") {
		cfg.OutputFormat = auditFlags.format
	}
	if flags.Changed("metrics-file") {
		cfg.MetricsFile = auditFlags.metricsFile
	}
	if flags.Changed("archive") {
		cfg.ArchiveInputs = auditFlags.archive
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid flags: %w", err)
	}

	result, err := runner.New(cfg, runner.Options{
		DryRun: auditFlags.dryRun,
		Logger: logger,
	}).Run(cmd.Context())
	if err != nil {
		return err
	}

	utils.WriteSummary(cmd.OutOrStdout(), result.Summary)

	if !result.Success() {
		logger.Warn("Some orders could not be priced",
			zap.Int("record_errors", len(result.Report.Errors)),
			zap.String("error_log", result.ErrorLog))
		if auditFlags.strict {
			return fmt.Errorf("%d order(s) could not be priced", len(result.Report.Errors))
		}
	}

	return nil
}
