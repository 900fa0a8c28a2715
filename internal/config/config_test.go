package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/appraisal-fee-audit/internal/audit"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	c := Default()
	require.NoError(t, c.Validate())
	assert.Equal(t, audit.DefaultRules(), c.Rules)
	assert.Equal(t, audit.DefaultColumns(), c.OrderColumns)
	assert.Equal(t, [3]int{0, 1, 2}, c.KeyColumns())
}

func TestLoadMissingOptional(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "absent.yaml"), true)
	require.NoError(t, err)
	assert.Equal(t, Default(), c)

	_, err = Load(filepath.Join(t.TempDir(), "absent.yaml"), false)
	assert.Error(t, err)
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := writeConfig(t, `
schedule_file: fees.csv
orders_file: orders.csv
output_format: CSV
log_level: DEBUG
csv_settings:
  delimiter: pipe
  encoding: Windows-1252
schedule_store:
  capacity: 16
  hash_function: polynomial
order_columns:
  notes: 21
rules:
  fees:
    tier2: 250
    tier3: 350
    rush: 100
    per_tag: 50
  quote_keywords: [outbuildings]
transformation_rules:
  - field: State
    actions:
      - type: trim
      - type: uppercase
`)

	c, err := Load(path, false)
	require.NoError(t, err)

	assert.Equal(t, "fees.csv", c.ScheduleFile)
	assert.Equal(t, "csv", c.OutputFormat)
	assert.Equal(t, "debug", c.LogLevel)
	assert.Equal(t, 16, c.ScheduleStore.Capacity)

	r, err := c.CSVSettings.Comma()
	require.NoError(t, err)
	assert.Equal(t, '|', r)

	// Untouched fields keep their defaults.
	assert.Equal(t, 21, c.OrderColumns.Notes)
	assert.Equal(t, 16, c.OrderColumns.ActualFee)
	assert.Equal(t, audit.Fees{Tier2: 250, Tier3: 350, Rush: 100, PerTag: 50}, c.Rules.Fees)
	assert.Equal(t, []string{"outbuildings"}, c.Rules.QuoteKeywords)
	assert.Equal(t, audit.DefaultRules().Complexity, c.Rules.Complexity)
	assert.Equal(t, "Yes", c.Rules.RushMarker)

	require.Len(t, c.TransformationRules, 1)
	assert.Equal(t, "both", c.TransformationRules[0].Table)
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := map[string]string{
		"bad log level":   "log_level: chatty\n",
		"bad format":      "output_format: pdf\n",
		"bad hash":        "schedule_store:\n  hash_function: md5\n",
		"negative column": "order_columns:\n  rush: -1\n",
		"short key":       "schedule_key_columns: [0, 1]\n",
		"empty tag":       "rules:\n  complexity_rules:\n    - tag: \"\"\n      keywords: [x]\n",
		"no keywords":     "rules:\n  complexity_rules:\n    - tag: pool\n      keywords: []\n",
		"bad delimiter":   "csv_settings:\n  delimiter: \"::\"\n",
		"no actions":      "transformation_rules:\n  - field: State\n",
		"bad yaml":        "log_level: [\n",
	}

	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, body), false)
			assert.Error(t, err)
		})
	}
}

func TestDelimiterNames(t *testing.T) {
	c := Default()
	for in, want := range map[string]rune{",": ',', "tab": '\t', `\t`: '\t', ";": ';', "~": '~'} {
		c.CSVSettings.Delimiter = in
		got, err := c.CSVSettings.Comma()
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
}
