// =============================================================================
// Appraisal Fee Audit - Audit Engine
// =============================================================================
//
// The engine walks the order list once. For every order it:
//
//   STEP 1: Resolves the fee schedule entry (City, then County, then State)
//   STEP 2: Looks up the base fee for the order's job type
//   STEP 3: Classifies the property tier
//   STEP 4: Mines the notes for complexity tags and quote factors
//   STEP 5: Computes the commensurate fee
//   STEP 6: Compares it with the fee actually charged
//   STEP 7: Emits audit and rush report rows
//
// A failure in steps 1-6 is recorded against the order and the order is
// skipped. Only a structural problem with the order table stops the run.
//
// =============================================================================

package audit

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/ginjaninja78/appraisal-fee-audit/internal/indexer"
	"github.com/ginjaninja78/appraisal-fee-audit/internal/types"
)

// =============================================================================
// ENGINE STRUCTURE
// =============================================================================

// Engine prices orders against a built fee schedule.
type Engine struct {
	schedule *indexer.Schedule
	columns  Columns
	rules    Rules
	logger   *zap.Logger
	metrics  *Metrics
}

// Option configures an Engine.
type Option func(*Engine)

// WithColumns sets the order column layout.
func WithColumns(c Columns) Option {
	return func(e *Engine) { e.columns = c }
}

// WithRules sets the pricing policy.
func WithRules(r Rules) Option {
	return func(e *Engine) { e.rules = r }
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithMetrics records counters while running.
func WithMetrics(m *Metrics) Option {
	return func(e *Engine) { e.metrics = m }
}

// NewEngine creates an engine over schedule with the default layout and
// pricing policy unless overridden.
func NewEngine(schedule *indexer.Schedule, opts ...Option) *Engine {
	e := &Engine{
		schedule: schedule,
		columns:  DefaultColumns(),
		rules:    DefaultRules(),
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// =============================================================================
// KEY RESOLUTION
// =============================================================================

// Resolution levels, most specific first.
const (
	LevelCity   = "city"
	LevelCounty = "county"
	LevelState  = "state"
)

var levels = [...]string{LevelCity, LevelCounty, LevelState}

// Resolve finds the schedule entry for key, trying State+County+City, then
// State+County, then State. A level with the same key as the level before
// it is not looked up again.
//
// RETURNS:
//   - the matching store key
//   - the schedule record
//   - the level that matched
//   - a *KeyNotFoundError when every candidate misses
func (e *Engine) Resolve(key indexer.ScheduleKey) (string, types.Record, string, error) {
	keys := key.Levels()
	for i, candidate := range keys {
		if i > 0 && candidate == keys[i-1] {
			continue
		}
		if rec, ok := e.schedule.Lookup(candidate); ok {
			return candidate, rec, levels[i], nil
		}
	}
	return "", types.Record{}, "", &KeyNotFoundError{Tried: key.Candidates()}
}

// =============================================================================
// SINGLE ORDER
// =============================================================================

// Assessment is the outcome of pricing one order.
type Assessment struct {
	Order       types.Record
	ResolvedKey string
	Level       string
	BaseFee     string
	Tier        Tier
	Tags        []string
	QuoteFactor bool
	Rush        bool
	ActualFee   int
	Variance    Variance
}

// Assess prices a single order. Any failure is returned as a *RecordError.
func (e *Engine) Assess(order types.Record) (*Assessment, error) {
	c := e.columns
	ref := order.At(c.ReferenceID)

	fail := func(pos int, err error) error {
		re := &RecordError{Row: order.Row, ReferenceID: ref, Err: err}
		if pos >= 0 {
			re.Field = columnName(order, pos)
			re.Value = order.At(pos)
		}
		return re
	}

	// STEP 1: Resolve the schedule entry.
	key := indexer.ScheduleKey{
		State:  order.At(c.State),
		County: order.At(c.County),
		City:   order.At(c.City),
	}
	resolved, entry, level, err := e.Resolve(key)
	if err != nil {
		return nil, fail(-1, err)
	}

	// STEP 2: Base fee for the job type.
	jobType := order.At(c.JobType)
	base, ok := entry.Get(jobType)
	if !ok {
		return nil, fail(c.JobType, fmt.Errorf("%w: schedule entry %q", ErrUnknownJobType, resolved))
	}

	// STEP 3: Tier.
	var m Measurements
	if m.SiteAcres, err = ParseSiteSize(order.At(c.SiteSize)); err != nil {
		return nil, fail(c.SiteSize, err)
	}
	if m.GLA, err = ParseWhole(order.At(c.GLA)); err != nil {
		return nil, fail(c.GLA, err)
	}
	if m.AppraisedValue, err = ParseWhole(order.At(c.AppraisedValue)); err != nil {
		return nil, fail(c.AppraisedValue, err)
	}
	tier := Classify(m, e.rules.Thresholds)

	// STEP 4: Notes.
	notes := order.At(c.Notes)
	tags := MatchTags(notes, e.rules.Complexity)
	rush := e.isRush(order)

	// STEP 5: Commensurate fee.
	fee, err := ComputeFee(base, tier, rush, len(tags), e.rules)
	if err != nil {
		return nil, fail(c.JobType, fmt.Errorf("base fee %q for %q: %w", base, resolved, err))
	}

	// STEP 6: Variance.
	actual, err := parseInt(order.At(c.ActualFee))
	if err != nil {
		return nil, fail(c.ActualFee, err)
	}
	quoteFactor := HasQuoteFactor(notes, e.rules.QuoteKeywords)

	return &Assessment{
		Order:       order,
		ResolvedKey: resolved,
		Level:       level,
		BaseFee:     base,
		Tier:        tier,
		Tags:        tags,
		QuoteFactor: quoteFactor,
		Rush:        rush,
		ActualFee:   actual,
		Variance:    CompareFee(actual, fee, quoteFactor),
	}, nil
}

func columnName(order types.Record, pos int) string {
	if cols := order.Columns(); pos < len(cols) {
		return cols[pos]
	}
	return fmt.Sprintf("column %d", pos)
}

// =============================================================================
// BATCH
// =============================================================================

// isRush reports whether the order's rush cell carries the rush marker.
func (e *Engine) isRush(order types.Record) bool {
	return strings.Contains(order.At(e.columns.Rush), e.rules.RushMarker)
}

// Run audits every order and builds both report tables.
func (e *Engine) Run(orders *indexer.Orders) (*Report, error) {
	if need := e.columns.Max() + 1; len(orders.Header) < need {
		return nil, fmt.Errorf("%w: need %d, header has %d", ErrMissingColumns, need, len(orders.Header))
	}

	report := NewReport()

	for order := range orders.List.All() {
		report.Stats.Orders++
		e.metrics.order()

		// Rush rows need no pricing, so orders that fail below still get one.
		if e.isRush(order) {
			report.addRush(order, e.columns)
			e.metrics.rushRow()
		}

		a, err := e.Assess(order)
		if err != nil {
			var re *RecordError
			if !errors.As(err, &re) {
				return nil, err
			}
			report.Errors = append(report.Errors, re)
			report.Stats.Errors++
			e.metrics.recordError(re.Kind())
			e.logger.Warn("Skipping order",
				zap.Int("row", re.Row),
				zap.String("reference_id", re.ReferenceID),
				zap.Error(re))
			continue
		}

		e.metrics.assessed(a)
		e.logger.Debug("Order assessed",
			zap.Int("row", order.Row),
			zap.String("reference_id", order.At(e.columns.ReferenceID)),
			zap.String("resolved_key", a.ResolvedKey),
			zap.String("level", a.Level),
			zap.Stringer("tier", a.Tier),
			zap.Strings("tags", a.Tags),
			zap.Stringer("commensurate_fee", a.Variance.Commensurate),
			zap.Int("actual_fee", a.ActualFee))

		if report.add(a, e.columns) {
			e.metrics.auditRow()
		}
	}

	e.logger.Info("Audit complete",
		zap.Int("orders", report.Stats.Orders),
		zap.Int("audit_rows", report.Stats.AuditRows),
		zap.Int("rush_rows", report.Stats.RushRows),
		zap.Int("errors", report.Stats.Errors))

	return report, nil
}
