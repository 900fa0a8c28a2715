// =============================================================================
// Appraisal Fee Audit - Configuration Module
// =============================================================================
//
// This module loads the application configuration from a single YAML file.
// Every setting has a built-in default, so a missing or partial file still
// produces a complete configuration.
//
// LOADING ORDER:
//   1. Start from Default()
//   2. Overlay the YAML file
//   3. Fill any value the file blanked out (applyDefaults)
//   4. Validate struct tags (go-playground/validator)
//
// =============================================================================

package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/ginjaninja78/appraisal-fee-audit/internal/audit"
	"github.com/ginjaninja78/appraisal-fee-audit/internal/kvstore"
)

// =============================================================================
// CONFIGURATION STRUCTURE
// =============================================================================

// Config holds the application configuration.
type Config struct {
	// =========================================================================
	// INPUT SETTINGS
	// =========================================================================

	// ScheduleFile is the fee schedule table (.xlsx or .csv).
	// Default: "./input/productFeesByState.xlsx"
	ScheduleFile string `yaml:"schedule_file" validate:"required"`

	// OrdersFile is the order list table (.xlsx or .csv).
	// Default: "./input/orderList.xlsx"
	OrdersFile string `yaml:"orders_file" validate:"required"`

	// ScheduleSheet and OrdersSheet pick a worksheet by name.
	// Empty means the first sheet.
	ScheduleSheet string `yaml:"schedule_sheet"`
	OrdersSheet   string `yaml:"orders_sheet"`

	// CSVSettings applies to .csv inputs and outputs.
	CSVSettings CSVSettings `yaml:"csv_settings"`

	// =========================================================================
	// OUTPUT SETTINGS
	// =========================================================================

	// OutputDir receives the report files, error log and summary log.
	// Default: "./output"
	OutputDir string `yaml:"output_dir" validate:"required"`

	// OutputFormat is "xlsx" or "csv".
	// Default: "xlsx"
	OutputFormat string `yaml:"output_format" validate:"oneof=xlsx csv"`

	// OutputNameFormat names each report file. Placeholders:
	//   {report}    : "increases" or "rushes"
	//   {timestamp} : run start, 20060102_150405
	//   {date}      : run start, 20060102
	//   {time}      : run start, 150405
	//   {uuid}      : the run id
	// The extension comes from OutputFormat.
	// Default: "output_file_{report}"
	OutputNameFormat string `yaml:"output_name_format" validate:"required"`

	// =========================================================================
	// ARCHIVE SETTINGS
	// =========================================================================

	// ArchiveInputs moves both input files to InputArchiveDir after a run
	// with no record errors.
	ArchiveInputs bool `yaml:"archive_inputs"`

	// InputArchiveDir is where archived inputs go, under a timestamped
	// subdirectory.
	// Default: "./input_archive"
	InputArchiveDir string `yaml:"input_archive_dir" validate:"required_if=ArchiveInputs true"`

	// =========================================================================
	// LOGGING AND METRICS
	// =========================================================================

	// LogLevel is one of "debug", "info", "warn", "error".
	// Default: "info"
	LogLevel string `yaml:"log_level" validate:"oneof=debug info warn error"`

	// MetricsFile, when set, receives the run's counters in Prometheus text
	// format.
	MetricsFile string `yaml:"metrics_file"`

	// =========================================================================
	// FEE SCHEDULE STORE
	// =========================================================================

	ScheduleStore StoreSettings `yaml:"schedule_store"`

	// ScheduleKeyColumns are the positions of State, County and City in the
	// fee schedule table.
	// Default: [0, 1, 2]
	ScheduleKeyColumns []int `yaml:"schedule_key_columns" validate:"len=3,dive,gte=0"`

	// =========================================================================
	// AUDIT RULES
	// =========================================================================

	// OrderColumns are the zero-based positions of each order field.
	OrderColumns audit.Columns `yaml:"order_columns"`

	// Rules are surcharges, tier thresholds and keyword tables.
	Rules audit.Rules `yaml:"rules"`

	// TransformationRules clean input cells before indexing.
	TransformationRules []TransformationRule `yaml:"transformation_rules" validate:"dive"`
}

// CSVSettings contains settings for reading and writing CSV files.
type CSVSettings struct {
	// Delimiter separates fields. Common values: ",", "|", "\t", ";".
	// Default: ","
	Delimiter string `yaml:"delimiter" validate:"required"`

	// Encoding of input files. Outputs are always UTF-8.
	// Valid values: "UTF-8", "ISO-8859-1", "Windows-1252"
	// Default: "UTF-8"
	Encoding string `yaml:"encoding" validate:"required"`
}

// StoreSettings sizes the fee schedule hash table.
type StoreSettings struct {
	// Capacity is the initial bucket count.
	// Default: 4000
	Capacity int `yaml:"capacity" validate:"gt=0"`

	// HashFunction is "sum" or "polynomial".
	// Default: "sum"
	HashFunction string `yaml:"hash_function" validate:"oneof=sum polynomial"`
}

// =============================================================================
// TRANSFORMATION RULE STRUCTURE
// =============================================================================

// TransformationRule defines transformations for one input column.
type TransformationRule struct {
	// Table is "schedule", "orders" or "both".
	// Default: "both"
	Table string `yaml:"table" validate:"omitempty,oneof=schedule orders both"`

	// Field is the column title the rule applies to.
	Field string `yaml:"field" validate:"required"`

	// Actions run in order.
	Actions []TransformationAction `yaml:"actions" validate:"min=1,dive"`
}

// TransformationAction defines a single transformation action.
type TransformationAction struct {
	// Type is the action to apply:
	//   - "trim", "trim_left", "trim_right"
	//   - "uppercase", "lowercase", "title_case"
	//   - "normalize_whitespace" : Collapse runs of whitespace
	//   - "prepend_string"       : Add Value to the beginning
	//   - "append_string"        : Add Value to the end
	//   - "replace"              : Replace Find with Value
	//   - "regex_replace"        : Replace pattern Find with Value
	//   - "remove_chars"         : Remove every character in Value
	//   - "remove_leading_zeros"
	//   - "pad_zeros_to_length"  : Left-pad with zeros to Value characters
	//   - "extract_digits"       : Keep digits only
	//   - "if_empty_use_default" : Use Value when the cell is empty
	//   - "lookup"               : Map the cell through LookupTable
	//   - "lookup_with_default"  : As lookup, Value for unknown cells
	Type string `yaml:"type" validate:"required"`

	// Value is the action parameter.
	Value string `yaml:"value"`

	// Find is the substring or pattern for "replace" and "regex_replace".
	Find string `yaml:"find,omitempty"`

	// LookupTable maps input values to output values for "lookup".
	// Values not in the table pass through unchanged.
	LookupTable map[string]string `yaml:"lookup_table,omitempty"`
}

// =============================================================================
// DEFAULTS
// =============================================================================

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		ScheduleFile:     "./input/productFeesByState.xlsx",
		OrdersFile:       "./input/orderList.xlsx",
		OutputDir:        "./output",
		OutputFormat:     "xlsx",
		OutputNameFormat: "output_file_{report}",
		InputArchiveDir:  "./input_archive",
		LogLevel:         "info",
		CSVSettings: CSVSettings{
			Delimiter: ",",
			Encoding:  "UTF-8",
		},
		ScheduleStore: StoreSettings{
			Capacity:     kvstore.DefaultCapacity,
			HashFunction: "sum",
		},
		ScheduleKeyColumns: []int{0, 1, 2},
		OrderColumns:       audit.DefaultColumns(),
		Rules:              audit.DefaultRules(),
	}
}

// applyDefaults fills values a config file set to empty.
func applyDefaults(config *Config) {
	d := Default()

	if config.OutputDir == "" {
		config.OutputDir = d.OutputDir
	}
	if config.OutputFormat == "" {
		config.OutputFormat = d.OutputFormat
	}
	config.OutputFormat = strings.ToLower(strings.TrimPrefix(config.OutputFormat, "."))
	if config.OutputNameFormat == "" {
		config.OutputNameFormat = d.OutputNameFormat
	}
	if config.InputArchiveDir == "" {
		config.InputArchiveDir = d.InputArchiveDir
	}
	if config.LogLevel == "" {
		config.LogLevel = d.LogLevel
	}
	config.LogLevel = strings.ToLower(config.LogLevel)
	if config.CSVSettings.Delimiter == "" {
		config.CSVSettings.Delimiter = d.CSVSettings.Delimiter
	}
	if config.CSVSettings.Encoding == "" {
		config.CSVSettings.Encoding = d.CSVSettings.Encoding
	}
	if config.ScheduleStore.Capacity == 0 {
		config.ScheduleStore.Capacity = d.ScheduleStore.Capacity
	}
	if config.ScheduleStore.HashFunction == "" {
		config.ScheduleStore.HashFunction = d.ScheduleStore.HashFunction
	}
	if len(config.ScheduleKeyColumns) == 0 {
		config.ScheduleKeyColumns = d.ScheduleKeyColumns
	}
	if config.Rules.RushMarker == "" {
		config.Rules.RushMarker = d.Rules.RushMarker
	}
	if config.Rules.QuoteMarker == "" {
		config.Rules.QuoteMarker = d.Rules.QuoteMarker
	}
	for i := range config.TransformationRules {
		if config.TransformationRules[i].Table == "" {
			config.TransformationRules[i].Table = "both"
		}
	}
}

// =============================================================================
// LOADING
// =============================================================================

// Load reads the configuration file.
//
// PARAMETERS:
//   - path: the YAML file
//   - optional: when true a missing file yields Default() instead of an error
//
// RETURNS:
//   - the loaded configuration
//   - an error if the file cannot be read, parsed or validated
func Load(path string, optional bool) (*Config, error) {
	config := Default()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	case optional && errors.Is(err, os.ErrNotExist):
		// Built-in defaults.
	default:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	applyDefaults(config)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks struct tags and cross-field rules.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return err
	}

	if _, err := kvstore.HashByName(c.ScheduleStore.HashFunction); err != nil {
		return err
	}

	if _, err := c.CSVSettings.Comma(); err != nil {
		return err
	}

	return nil
}

// Comma returns the delimiter as a rune. Named delimiters "tab", "pipe",
// "comma" and "semicolon" are accepted.
func (s CSVSettings) Comma() (rune, error) {
	switch d := s.Delimiter; strings.ToLower(d) {
	case ",", "comma":
		return ',', nil
	case "|", "pipe":
		return '|', nil
	case "\t", `\t`, "tab":
		return '\t', nil
	case ";", "semicolon":
		return ';', nil
	default:
		r := []rune(d)
		if len(r) != 1 {
			return 0, fmt.Errorf("unsupported CSV delimiter %q", d)
		}
		return r[0], nil
	}
}

// KeyColumns returns the schedule key positions as a fixed array.
func (c *Config) KeyColumns() [3]int {
	var cols [3]int
	copy(cols[:], c.ScheduleKeyColumns)
	return cols
}
