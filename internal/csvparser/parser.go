// =============================================================================
// Appraisal Fee Audit - CSV Parser Module
// =============================================================================
//
// This module reads the fee schedule and order list when they arrive as CSV
// exports instead of workbooks. It handles:
//   - Different delimiters (comma, pipe, tab, semicolon)
//   - Different encodings (UTF-8 with or without BOM, ISO-8859-1,
//     Windows-1252, or any IANA name)
//   - Ragged rows and loose quoting
//
// The result is a types.Table: row 0 holds cleaned column titles, blank
// rows are dropped, cells are returned as text.
//
// =============================================================================

package csvparser

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/ginjaninja78/appraisal-fee-audit/internal/config"
	"github.com/ginjaninja78/appraisal-fee-audit/internal/types"
)

// ErrEmpty is returned for a file with no rows.
var ErrEmpty = errors.New("CSV file is empty")

// =============================================================================
// PARSER FUNCTIONS
// =============================================================================

// Parse reads a CSV file into a table.
//
// PARAMETERS:
//   - filePath: The path to the CSV file.
//   - settings: Delimiter and encoding.
//
// RETURNS:
//   - The table, title row first.
//   - An error if the file cannot be opened, decoded or parsed.
func Parse(filePath string, settings config.CSVSettings) (types.Table, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	table, err := Read(file, settings)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filePath, err)
	}
	return table, nil
}

// Read parses CSV from r. See Parse.
func Read(r io.Reader, settings config.CSVSettings) (types.Table, error) {
	decoder, err := Decoder(settings.Encoding)
	if err != nil {
		return nil, err
	}

	csvReader := csv.NewReader(transform.NewReader(bufio.NewReader(r), decoder.NewDecoder()))
	if err := configureReader(csvReader, settings); err != nil {
		return nil, err
	}

	allRows, err := csvReader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}

	table := types.Table(allRows).Normalize()
	if len(table) == 0 {
		return nil, ErrEmpty
	}
	return table, nil
}

// configureReader configures the CSV reader based on the settings.
func configureReader(reader *csv.Reader, settings config.CSVSettings) error {
	comma, err := settings.Comma()
	if err != nil {
		return err
	}
	reader.Comma = comma

	// Exports pad short rows inconsistently.
	reader.FieldsPerRecord = -1

	// Notes columns often carry stray quotes.
	reader.LazyQuotes = true

	reader.TrimLeadingSpace = true
	return nil
}

// Decoder resolves an encoding name. UTF-8 strips a leading byte order mark.
func Decoder(name string) (encoding.Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "utf-8", "utf8":
		return unicode.UTF8BOM, nil
	case "iso-8859-1", "latin1", "latin-1":
		return charmap.ISO8859_1, nil
	case "windows-1252", "cp1252":
		return charmap.Windows1252, nil
	}

	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil || enc == nil {
		return nil, fmt.Errorf("unsupported encoding %q", name)
	}
	return enc, nil
}
