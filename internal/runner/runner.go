// =============================================================================
// Appraisal Fee Audit - Runner Module
// =============================================================================
//
// This module orchestrates one audit run, from reading the two input tables
// to writing the reports.
//
// PROCESSING PIPELINE:
//   1. Read the fee schedule and order list (.xlsx or .csv), concurrently
//   2. Apply transformation rules to input cells
//   3. Validate both tables
//   4. Index the fee schedule (hash table) and the orders (linked list)
//   5. Run the audit engine
//   6. Write the audit and rush reports
//   7. Write the error log, processing summary and metrics file
//   8. Archive the inputs
//
// A run with record errors still writes its reports; only the archive step
// is skipped so the inputs can be corrected and audited again.
//
// =============================================================================

package runner

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ginjaninja78/appraisal-fee-audit/internal/audit"
	"github.com/ginjaninja78/appraisal-fee-audit/internal/config"
	"github.com/ginjaninja78/appraisal-fee-audit/internal/csvparser"
	"github.com/ginjaninja78/appraisal-fee-audit/internal/indexer"
	"github.com/ginjaninja78/appraisal-fee-audit/internal/kvstore"
	"github.com/ginjaninja78/appraisal-fee-audit/internal/reportwriter"
	"github.com/ginjaninja78/appraisal-fee-audit/internal/transform"
	"github.com/ginjaninja78/appraisal-fee-audit/internal/types"
	"github.com/ginjaninja78/appraisal-fee-audit/internal/validation"
	"github.com/ginjaninja78/appraisal-fee-audit/internal/xlsxparser"
	"github.com/ginjaninja78/appraisal-fee-audit/pkg/utils"
)

// Report names fill the {report} placeholder of the output name format.
const (
	ReportIncreases = "increases"
	ReportRushes    = "rushes"
)

// ErrValidation is returned when an input table fails validation.
var ErrValidation = errors.New("input validation failed")

// =============================================================================
// RESULT STRUCTURE
// =============================================================================

// Result represents the outcome of an audit run.
type Result struct {
	// RunID identifies the run in logs, file names and the summary.
	RunID string

	// Report holds the audit and rush tables and the skipped orders.
	// This is nil if the run stopped before the audit.
	Report *audit.Report

	// Validation holds every validation finding, warnings included.
	Validation *validation.ValidationResult

	// OutputFiles are the written report paths, increases first.
	OutputFiles []string

	// ErrorLog is the error log path, empty when nothing was logged.
	ErrorLog string

	// SummaryLog is the processing summary path.
	SummaryLog string

	// ArchivedFiles are the archived input paths.
	ArchivedFiles []string

	// Summary is what was written to SummaryLog.
	Summary utils.ProcessingSummary

	// Stats contains processing statistics.
	Stats ProcessingStats
}

// Success reports whether every order was priced.
func (r *Result) Success() bool {
	return r.Report != nil && len(r.Report.Errors) == 0
}

// ProcessingStats contains statistics about the processing.
type ProcessingStats struct {
	// ScheduleRows is the number of fee schedule data rows.
	ScheduleRows int

	// OrderRows is the number of order data rows.
	OrderRows int

	// CellsTransformed is the number of input cells changed by
	// transformation rules.
	CellsTransformed int

	// OverwrittenKeys is the number of schedule rows whose key repeated an
	// earlier row.
	OverwrittenKeys int

	// ProcessingTime is the time taken by the run.
	ProcessingTime time.Duration
}

// =============================================================================
// RUNNER STRUCTURE
// =============================================================================

// Options adjusts a run.
type Options struct {
	// DryRun audits without writing or archiving any file.
	DryRun bool

	// Logger receives progress logs. Default: zap.NewNop().
	Logger *zap.Logger

	// Registry receives the run's metrics. Default: a fresh registry.
	Registry *prometheus.Registry

	// Now stamps the run. Default: time.Now.
	Now func() time.Time

	// RunID overrides the generated run id.
	RunID string
}

// Runner executes the audit pipeline.
type Runner struct {
	cfg      *config.Config
	dryRun   bool
	logger   *zap.Logger
	registry *prometheus.Registry
	now      func() time.Time
	runID    string

	scheduleEntries prometheus.Gauge
	cellsChanged    *prometheus.CounterVec
	lastRun         prometheus.Gauge
}

// New creates a new Runner instance.
//
// PARAMETERS:
//   - cfg: The loaded configuration.
//   - opts: Run options.
//
// RETURNS:
//   - A new Runner instance.
func New(cfg *config.Config, opts Options) *Runner {
	r := &Runner{
		cfg:      cfg,
		dryRun:   opts.DryRun,
		logger:   opts.Logger,
		registry: opts.Registry,
		now:      opts.Now,
		runID:    opts.RunID,
	}
	if r.logger == nil {
		r.logger = zap.NewNop()
	}
	if r.registry == nil {
		r.registry = prometheus.NewRegistry()
	}
	if r.now == nil {
		r.now = time.Now
	}
	if r.runID == "" {
		r.runID = uuid.NewString()
	}
	r.logger = r.logger.With(zap.String("run_id", r.runID))

	f := promauto.With(r.registry)
	r.scheduleEntries = f.NewGauge(prometheus.GaugeOpts{
		Name: "feeaudit_schedule_entries",
		Help: "Distinct keys in the fee schedule store",
	})
	r.cellsChanged = f.NewCounterVec(prometheus.CounterOpts{
		Name: "feeaudit_cells_transformed_total",
		Help: "Input cells changed by transformation rules",
	}, []string{"table"})
	r.lastRun = f.NewGauge(prometheus.GaugeOpts{
		Name: "feeaudit_last_run_timestamp_seconds",
		Help: "Start time of the last audit run",
	})

	return r
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

// Run executes the audit pipeline.
//
// RETURNS:
//   - The result. It is returned even with an error, carrying whatever the
//     run produced before stopping.
//   - An error if an input cannot be read, fails validation, or an output
//     cannot be written. Record errors are not run errors.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	start := r.now()
	result := &Result{RunID: r.runID}
	r.lastRun.Set(float64(start.Unix()))

	fm := utils.NewFileManager(r.cfg.OutputDir, r.cfg.InputArchiveDir, start, r.runID)

	r.logger.Info("Starting audit",
		zap.String("schedule", r.cfg.ScheduleFile),
		zap.String("orders", r.cfg.OrdersFile),
		zap.Bool("dry_run", r.dryRun))

	// =========================================================================
	// STEPS 1-2: READ AND TRANSFORM INPUT TABLES
	// =========================================================================

	in, err := LoadInputs(ctx, r.cfg)
	if err != nil {
		return result, err
	}
	scheduleTable, ordersTable := in.Schedule, in.Orders
	result.Stats.ScheduleRows = len(scheduleTable.Data())
	result.Stats.OrderRows = len(ordersTable.Data())

	r.cellsChanged.WithLabelValues(transform.TableSchedule).Add(float64(in.ScheduleChanged))
	r.cellsChanged.WithLabelValues(transform.TableOrders).Add(float64(in.OrdersChanged))
	result.Stats.CellsTransformed = in.ScheduleChanged + in.OrdersChanged

	r.logger.Debug("Read input tables",
		zap.Int("schedule_rows", result.Stats.ScheduleRows),
		zap.Int("order_rows", result.Stats.OrderRows),
		zap.Int("cells_transformed", result.Stats.CellsTransformed))

	// =========================================================================
	// STEP 3: VALIDATE INPUT TABLES
	// =========================================================================

	result.Validation = Validate(r.cfg, scheduleTable, ordersTable)
	for _, w := range result.Validation.Warnings() {
		r.logger.Warn("Validation warning",
			zap.String("table", w.Table),
			zap.Int("row", w.RowNumber),
			zap.String("field", w.Field),
			zap.String("value", w.Value),
			zap.String("rule", w.Rule))
	}
	if !result.Validation.IsValid {
		r.logger.Error("Validation failed", zap.Int("errors", result.Validation.ErrorCount))
		return result, fmt.Errorf("%w:\n%s", ErrValidation, validation.FormatErrors(result.Validation.Errors))
	}

	// =========================================================================
	// STEP 4: INDEX
	// =========================================================================

	hash, err := kvstore.HashByName(r.cfg.ScheduleStore.HashFunction)
	if err != nil {
		return result, err
	}

	schedule, err := indexer.IndexSchedule(scheduleTable, indexer.ScheduleOptions{
		Capacity:   r.cfg.ScheduleStore.Capacity,
		Hash:       hash,
		KeyColumns: r.cfg.KeyColumns(),
	})
	if err != nil {
		return result, err
	}
	result.Stats.OverwrittenKeys = len(schedule.Overwritten)
	r.scheduleEntries.Set(float64(schedule.Store.Len()))

	for _, row := range schedule.Overwritten {
		r.logger.Warn("Fee schedule key repeated, later row wins", zap.Int("row", row))
	}

	orders, err := indexer.IndexOrders(ordersTable)
	if err != nil {
		return result, err
	}

	r.logger.Debug("Indexed inputs",
		zap.Int("schedule_entries", schedule.Store.Len()),
		zap.Int("schedule_capacity", schedule.Store.Cap()))

	if err := ctx.Err(); err != nil {
		return result, err
	}

	// =========================================================================
	// STEP 5: AUDIT
	// =========================================================================

	engine := audit.NewEngine(schedule,
		audit.WithColumns(r.cfg.OrderColumns),
		audit.WithRules(r.cfg.Rules),
		audit.WithLogger(r.logger.Named("audit")),
		audit.WithMetrics(audit.NewMetrics(r.registry)),
	)

	report, err := engine.Run(orders)
	if err != nil {
		return result, fmt.Errorf("audit failed: %w", err)
	}
	result.Report = report

	if !r.dryRun {
		// =====================================================================
		// STEP 6: WRITE REPORTS
		// =====================================================================

		if err := fm.EnsureDirectories(r.cfg.ArchiveInputs); err != nil {
			return result, err
		}

		comma, err := r.cfg.CSVSettings.Comma()
		if err != nil {
			return result, err
		}

		for _, out := range []struct {
			name, sheet string
			table       types.Table
		}{
			{ReportIncreases, "Increases", report.Audit},
			{ReportRushes, "Rushes", report.Rush},
		} {
			path := fm.OutputPath(r.cfg.OutputNameFormat, out.name, r.cfg.OutputFormat)
			if err := reportwriter.Write(path, out.table, reportwriter.Options{Sheet: out.sheet, Comma: comma}); err != nil {
				return result, fmt.Errorf("failed to write %s report: %w", out.name, err)
			}
			result.OutputFiles = append(result.OutputFiles, path)
			r.logger.Info("Report written", zap.String("report", out.name), zap.String("path", path))
		}

		// =====================================================================
		// STEP 7: LOGS AND METRICS
		// =====================================================================

		result.ErrorLog, err = fm.WriteErrorLog(errorLogEntries(result.Validation, report))
		if err != nil {
			return result, err
		}

		if r.cfg.MetricsFile != "" {
			if err := prometheus.WriteToTextfile(r.cfg.MetricsFile, r.registry); err != nil {
				return result, fmt.Errorf("failed to write metrics file: %w", err)
			}
		}

		// =====================================================================
		// STEP 8: ARCHIVE INPUTS
		// =====================================================================

		if r.cfg.ArchiveInputs {
			if result.Success() {
				for _, input := range []string{r.cfg.ScheduleFile, r.cfg.OrdersFile} {
					archived, err := fm.ArchiveInputFile(input)
					if err != nil {
						return result, err
					}
					result.ArchivedFiles = append(result.ArchivedFiles, archived)
				}
			} else {
				r.logger.Warn("Inputs not archived, some orders could not be priced",
					zap.Int("record_errors", len(report.Errors)))
			}
		}
	}

	end := r.now()
	result.Stats.ProcessingTime = end.Sub(start)
	result.Summary = r.summary(result, start, end)

	if !r.dryRun {
		result.SummaryLog, err = fm.WriteSummaryLog(result.Summary)
		if err != nil {
			return result, err
		}
	}

	r.logger.Info("Audit run finished",
		zap.Bool("success", result.Success()),
		zap.Duration("duration", result.Stats.ProcessingTime))

	return result, nil
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// Inputs are the fee schedule and order tables after transformation rules.
type Inputs struct {
	Schedule types.Table
	Orders   types.Table

	// ScheduleChanged and OrdersChanged count cells changed by
	// transformation rules.
	ScheduleChanged int
	OrdersChanged   int
}

// LoadInputs reads both input tables concurrently and applies the
// transformation rules.
func LoadInputs(ctx context.Context, cfg *config.Config) (*Inputs, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	transformer, err := transform.New(cfg.TransformationRules)
	if err != nil {
		return nil, fmt.Errorf("failed to compile transformation rules: %w", err)
	}

	var scheduleTable, ordersTable types.Table
	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		if err := egCtx.Err(); err != nil {
			return err
		}
		t, err := ReadTable(cfg.ScheduleFile, cfg.ScheduleSheet, cfg.CSVSettings)
		if err != nil {
			return fmt.Errorf("failed to read fee schedule: %w", err)
		}
		scheduleTable = t
		return nil
	})
	eg.Go(func() error {
		if err := egCtx.Err(); err != nil {
			return err
		}
		t, err := ReadTable(cfg.OrdersFile, cfg.OrdersSheet, cfg.CSVSettings)
		if err != nil {
			return fmt.Errorf("failed to read order list: %w", err)
		}
		ordersTable = t
		return nil
	})
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	in := &Inputs{}
	in.Schedule, in.ScheduleChanged = transformer.Apply(scheduleTable, transform.TableSchedule)
	in.Orders, in.OrdersChanged = transformer.Apply(ordersTable, transform.TableOrders)
	return in, nil
}

// ReadTable reads a .csv, .xlsx or .xlsm file into a table. sheet applies to
// workbooks only.
func ReadTable(path, sheet string, settings config.CSVSettings) (types.Table, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); {
	case ext == ".csv" || ext == ".txt":
		return csvparser.Parse(path, settings)
	case IsWorkbook(path):
		return xlsxparser.Parse(path, sheet)
	default:
		return nil, fmt.Errorf("%s: unsupported input format %q", path, ext)
	}
}

// IsWorkbook reports whether path names an .xlsx or .xlsm file.
func IsWorkbook(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return true
	}
	return false
}

// Validate runs every table check for cfg.
func Validate(cfg *config.Config, scheduleTable, ordersTable types.Table) *validation.ValidationResult {
	v := validation.NewValidator(cfg.OrderColumns, cfg.KeyColumns(), cfg.Rules)

	result := v.ValidateSchedule(scheduleTable)
	result.Merge(v.ValidateOrders(ordersTable, scheduleTable.Header()))
	return result
}

// errorLogEntries lists validation warnings then record errors.
func errorLogEntries(v *validation.ValidationResult, report *audit.Report) []utils.ErrorLogEntry {
	var entries []utils.ErrorLogEntry

	for _, w := range v.Warnings() {
		entries = append(entries, utils.ErrorLogEntry{
			Source:       w.Table,
			ErrorType:    "validation_" + w.Rule,
			ErrorMessage: w.Message,
			RowNumber:    w.RowNumber,
			FieldName:    w.Field,
			FieldValue:   w.Value,
		})
	}

	for _, e := range report.Errors {
		entries = append(entries, utils.ErrorLogEntry{
			Source:       validation.TableOrders,
			ErrorType:    e.Kind(),
			ErrorMessage: e.Err.Error(),
			RowNumber:    e.Row,
			ReferenceID:  e.ReferenceID,
			FieldName:    e.Field,
			FieldValue:   e.Value,
		})
	}

	return entries
}

// summary builds the processing summary for result.
func (r *Runner) summary(result *Result, start, end time.Time) utils.ProcessingSummary {
	s := utils.ProcessingSummary{
		RunID:         r.runID,
		StartTime:     start,
		EndTime:       end,
		DryRun:        r.dryRun,
		ScheduleFile:  r.cfg.ScheduleFile,
		OrdersFile:    r.cfg.OrdersFile,
		ScheduleRows:  result.Stats.ScheduleRows,
		OrderRows:     result.Stats.OrderRows,
		OutputFiles:   result.OutputFiles,
		ArchivedFiles: result.ArchivedFiles,
	}
	if result.Validation != nil {
		s.ValidationWarnings = result.Validation.WarningCount
	}

	if report := result.Report; report != nil {
		s.AuditRows = report.Stats.AuditRows
		s.RushRows = report.Stats.RushRows
		s.Quoted = report.Stats.Quoted
		s.RecordErrors = report.Stats.Errors
		s.Tiers = make(map[string]int, len(report.Stats.Tiers))
		for tier, n := range report.Stats.Tiers {
			s.Tiers[tier.String()] = n
		}
		s.Levels = report.Stats.Levels
	}

	return s
}
