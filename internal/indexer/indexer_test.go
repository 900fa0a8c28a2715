package indexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/appraisal-fee-audit/internal/kvstore"
	"github.com/ginjaninja78/appraisal-fee-audit/internal/types"
)

func scheduleTable() types.Table {
	return types.Table{
		{"State", "County", "City", "1004", "1073"},
		{"TX", "Tarrant", "Fort Worth", "450", "400"},
		{"TX", "Tarrant", "", "425", "Quote"},
		{"TX", "", "", "400", "375"},
	}
}

func TestRecords(t *testing.T) {
	header, records, err := Records(types.Table{
		{"A", "B", "C"},
		{"1", "2", "3"},
		{"4"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "C"}, header)
	require.Len(t, records, 2)

	assert.Equal(t, 2, records[0].Row)
	assert.Equal(t, 3, records[1].Row)
	v, _ := records[1].Get("C")
	assert.Equal(t, "", v)
}

func TestRecordsErrors(t *testing.T) {
	_, _, err := Records(nil)
	assert.ErrorIs(t, err, ErrNoHeader)

	_, _, err = Records(types.Table{{"A", "B", "A"}, {"1", "2", "3"}})
	assert.ErrorIs(t, err, ErrDuplicateColumn)
}

func TestIndexSchedule(t *testing.T) {
	s, err := IndexSchedule(scheduleTable(), DefaultScheduleOptions())
	require.NoError(t, err)
	assert.Equal(t, 3, s.Store.Len())

	rec, ok := s.Lookup("TXTarrantFort Worth")
	require.True(t, ok)
	fee, _ := rec.Get("1004")
	assert.Equal(t, "450", fee)

	rec, ok = s.Lookup("TXTarrant")
	require.True(t, ok)
	fee, _ = rec.Get("1073")
	assert.Equal(t, "Quote", fee)

	_, ok = s.Lookup("TX")
	assert.True(t, ok)
	assert.Empty(t, s.Overwritten)
}

func TestIndexScheduleOverwrite(t *testing.T) {
	tbl := scheduleTable()
	tbl = append(tbl, []string{"TX", "", "", "999", "999"})

	s, err := IndexSchedule(tbl, DefaultScheduleOptions())
	require.NoError(t, err)
	assert.Equal(t, []int{5}, s.Overwritten)

	rec, _ := s.Lookup("TX")
	fee, _ := rec.Get("1004")
	assert.Equal(t, "999", fee)
}

func TestIndexScheduleOptions(t *testing.T) {
	tbl := types.Table{
		{"1004", "City", "County", "State"},
		{"500", "Austin", "Travis", "TX"},
	}
	opts := ScheduleOptions{Capacity: 2, Hash: kvstore.PolynomialHash, KeyColumns: [3]int{3, 2, 1}}

	s, err := IndexSchedule(tbl, opts)
	require.NoError(t, err)
	assert.True(t, s.Store.Contains("TXTravisAustin"))

	opts.KeyColumns = [3]int{0, 1, 9}
	_, err = IndexSchedule(tbl, opts)
	assert.ErrorIs(t, err, ErrKeyColumns)
}

func TestIndexOrdersKeepsRowOrder(t *testing.T) {
	o, err := IndexOrders(types.Table{
		{"Ref"},
		{"A-1"},
		{"A-2"},
		{"A-3"},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, o.List.GetLength())

	var refs []string
	for rec := range o.List.All() {
		refs = append(refs, rec.At(0))
	}
	assert.Equal(t, []string{"A-1", "A-2", "A-3"}, refs)
}

func TestScheduleKey(t *testing.T) {
	k := ScheduleKey{State: "TX", County: "Tarrant", City: "Fort Worth"}
	assert.Equal(t, "TXTarrantFort Worth", k.String())
	assert.Equal(t, []string{"TXTarrantFort Worth", "TXTarrant", "TX"}, k.Candidates())

	assert.Equal(t, [3]string{"ZZ", "ZZ", "ZZ"}, ScheduleKey{State: "ZZ"}.Levels())
	assert.Equal(t, []string{"ZZ"}, ScheduleKey{State: "ZZ"}.Candidates())
	assert.Equal(t, []string{"TXTarrant", "TX"}, ScheduleKey{State: "TX", County: "Tarrant"}.Candidates())
	assert.Equal(t, []string{"TXAustin", "TX"}, ScheduleKey{State: "TX", City: "Austin"}.Candidates())
}

func TestRecordsKeepSourceRowNumbers(t *testing.T) {
	o, err := IndexOrders(types.Table{
		{"Ref", "State"},
		{},
		{"R1", "ZZ"},
		{"", " "},
		{"R2", "TX"},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, o.List.GetLength())

	var rows []int
	for rec := range o.List.All() {
		rows = append(rows, rec.Row)
	}
	assert.Equal(t, []int{3, 5}, rows)
}
