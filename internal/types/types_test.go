package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTableParts(t *testing.T) {
	var empty Table
	assert.Nil(t, empty.Header())
	assert.Nil(t, empty.Data())

	tbl := Table{{"A", "B"}, {"1", "2"}, {"3", "4"}}
	assert.Equal(t, []string{"A", "B"}, tbl.Header())
	assert.Len(t, tbl.Data(), 2)

	headerOnly := Table{{"A"}}
	assert.Nil(t, headerOnly.Data())
}

func TestRecordBinding(t *testing.T) {
	r := NewRecord(2, []string{"State", "County", "City"}, []string{"TX", "Tarrant"})

	v, ok := r.Get("County")
	assert.True(t, ok)
	assert.Equal(t, "Tarrant", v)

	v, ok = r.Get("City")
	assert.True(t, ok, "short rows are padded")
	assert.Equal(t, "", v)

	_, ok = r.Get("Zip")
	assert.False(t, ok)

	assert.Equal(t, "TX", r.At(0))
	assert.Equal(t, "", r.At(10))
	assert.Equal(t, 3, r.Len())
	assert.Equal(t, 2, r.Row)
}

func TestRecordDropsExtraCells(t *testing.T) {
	r := NewRecord(2, []string{"A"}, []string{"1", "2", "3"})
	assert.Equal(t, []string{"1"}, r.Cells())
}

func TestNormalize(t *testing.T) {
	tbl := Table{
		{},
		{" Ref ", "", "Fee"},
		{"A1", "x", "100"},
		{" ", ""},
		{"A2", "", "200"},
		{""},
	}

	norm := tbl.Normalize()
	assert.Equal(t, Table{
		{},
		{"Ref", "Column_2", "Fee"},
		{"A1", "x", "100"},
		{" ", ""},
		{"A2", "", "200"},
	}, norm)
	assert.Equal(t, " Ref ", tbl[1][0], "the input is not modified")

	assert.Equal(t, 1, norm.HeaderIndex())
	assert.Equal(t, []string{"Ref", "Column_2", "Fee"}, norm.Header())
	assert.Equal(t, [][]string{{"A1", "x", "100"}, {"A2", "", "200"}}, norm.Data())

	assert.Empty(t, Table{{""}}.Normalize())
	assert.Equal(t, -1, Table{{""}}.HeaderIndex())
}

func TestRowsKeepSourceNumbers(t *testing.T) {
	tbl := Table{
		{},
		{"Ref"},
		{},
		{"A1"},
		{"  "},
		{"A2"},
	}

	var numbers []int
	var refs []string
	for n, row := range tbl.Rows() {
		numbers = append(numbers, n)
		refs = append(refs, row[0])
	}
	assert.Equal(t, []int{4, 6}, numbers)
	assert.Equal(t, []string{"A1", "A2"}, refs)

	for range Table(nil).Rows() {
		t.Fatal("empty table yields no rows")
	}
}
