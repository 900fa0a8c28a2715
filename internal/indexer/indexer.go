// =============================================================================
// Appraisal Fee Audit - Record Indexer
// =============================================================================
//
// Turns raw tables into named-field records and loads them into the stores
// the audit engine reads:
//
//   fee schedule table --> kvstore.View   keyed by State+County+City
//   order table        --> seqstore.List  in row order
//
// Cells are bound by position to the title row. No type coercion happens
// here; numeric parsing belongs to the engine.
//
// =============================================================================

package indexer

import (
	"errors"
	"fmt"

	"github.com/ginjaninja78/appraisal-fee-audit/internal/kvstore"
	"github.com/ginjaninja78/appraisal-fee-audit/internal/seqstore"
	"github.com/ginjaninja78/appraisal-fee-audit/internal/types"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrNoHeader is returned for a table with no title row.
	ErrNoHeader = errors.New("table has no header row")

	// ErrDuplicateColumn is returned when two titles in row 0 are equal.
	ErrDuplicateColumn = errors.New("duplicate column name")

	// ErrKeyColumns is returned when a configured key column is outside the
	// schedule header.
	ErrKeyColumns = errors.New("schedule key column out of range")
)

// =============================================================================
// RECORDS
// =============================================================================

// Records zips the title row with each data row.
//
// RETURNS:
//   - header: the title row
//   - records: one Record per non-blank data row, Row being its source row
//   - error: ErrNoHeader or ErrDuplicateColumn
func Records(table types.Table) ([]string, []types.Record, error) {
	header := table.Header()
	if len(header) == 0 {
		return nil, nil, ErrNoHeader
	}

	if err := checkUnique(header); err != nil {
		return nil, nil, err
	}

	var records []types.Record
	for rowNumber, row := range table.Rows() {
		records = append(records, types.NewRecord(rowNumber, header, row))
	}

	return header, records, nil
}

func checkUnique(header []string) error {
	seen := make(map[string]int, len(header))
	for i, name := range header {
		if first, ok := seen[name]; ok {
			return fmt.Errorf("%w: %q at columns %d and %d", ErrDuplicateColumn, name, first, i)
		}
		seen[name] = i
	}
	return nil
}

// =============================================================================
// FEE SCHEDULE
// =============================================================================

// ScheduleOptions controls how the fee schedule store is built.
type ScheduleOptions struct {
	// Capacity is the initial bucket count.
	Capacity int

	// Hash selects the store's hash function. Nil means kvstore.SumHash.
	Hash kvstore.HashFunc

	// KeyColumns are the positions of State, County and City.
	KeyColumns [3]int
}

// DefaultScheduleOptions matches the layout State, County, City in the first
// three columns.
func DefaultScheduleOptions() ScheduleOptions {
	return ScheduleOptions{
		Capacity:   kvstore.DefaultCapacity,
		Hash:       kvstore.SumHash,
		KeyColumns: [3]int{0, 1, 2},
	}
}

// Schedule is the built fee schedule.
type Schedule struct {
	Header []string
	Store  *kvstore.View[types.Record]

	// Overwritten lists the rows whose key repeated an earlier row's key.
	// The later row wins.
	Overwritten []int
}

// Lookup returns the schedule record stored under key.
func (s *Schedule) Lookup(key string) (types.Record, bool) {
	return s.Store.Get(key)
}

// IndexSchedule builds the fee schedule store from a table.
func IndexSchedule(table types.Table, opts ScheduleOptions) (*Schedule, error) {
	header, records, err := Records(table)
	if err != nil {
		return nil, fmt.Errorf("fee schedule: %w", err)
	}

	for _, col := range opts.KeyColumns {
		if col < 0 || col >= len(header) {
			return nil, fmt.Errorf("fee schedule: %w: column %d, header has %d", ErrKeyColumns, col, len(header))
		}
	}

	builder := kvstore.NewBuilder[types.Record](opts.Capacity, kvstore.WithHash(opts.Hash))
	schedule := &Schedule{Header: header}

	for _, rec := range records {
		key := ScheduleKey{
			State:  rec.At(opts.KeyColumns[0]),
			County: rec.At(opts.KeyColumns[1]),
			City:   rec.At(opts.KeyColumns[2]),
		}.String()

		if builder.Contains(key) {
			schedule.Overwritten = append(schedule.Overwritten, rec.Row)
		}

		if err := builder.Put(key, rec); err != nil {
			return nil, fmt.Errorf("fee schedule row %d: %w", rec.Row, err)
		}
	}

	schedule.Store = builder.Build()
	return schedule, nil
}

// =============================================================================
// ORDERS
// =============================================================================

// Orders is the indexed order list.
type Orders struct {
	Header []string
	List   *seqstore.List[types.Record]
}

// IndexOrders pushes every order row, in order, into a sequential store.
func IndexOrders(table types.Table) (*Orders, error) {
	header, records, err := Records(table)
	if err != nil {
		return nil, fmt.Errorf("orders: %w", err)
	}

	list := seqstore.New[types.Record]()
	for _, rec := range records {
		list.Push(rec)
	}

	return &Orders{Header: header, List: list}, nil
}
