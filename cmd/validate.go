// =============================================================================
// Appraisal Fee Audit - Validate Command
// =============================================================================
//
// This file defines the 'validate' command. It loads the configuration, reads
// both input tables, applies transformation rules and runs every table check,
// without auditing or writing anything.
//
// COMMAND USAGE:
//   feeaudit validate
//
// Workbook inputs also list their sheets and the one being read. Exits with
// an error when a check fails. Warnings are printed but do not fail the
// command.
//
// =============================================================================

package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/appraisal-fee-audit/internal/runner"
	"github.com/ginjaninja78/appraisal-fee-audit/internal/validation"
	"github.com/ginjaninja78/appraisal-fee-audit/internal/xlsxparser"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration and input tables",
	Long: `Validate loads the configuration and checks both input tables:

  - title rows present and unique
  - enough order columns for the configured positions
  - fee cells are whole numbers or the quote marker
  - measurements and fees in each order are readable
  - every order's product type is a fee schedule column`,

	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		for _, input := range []struct{ path, sheet string }{
			{appConfig.ScheduleFile, appConfig.ScheduleSheet},
			{appConfig.OrdersFile, appConfig.OrdersSheet},
		} {
			if err := printSheets(out, input.path, input.sheet); err != nil {
				return err
			}
		}

		in, err := runner.LoadInputs(cmd.Context(), appConfig)
		if err != nil {
			return err
		}

		result := runner.Validate(appConfig, in.Schedule, in.Orders)

		fmt.Fprintf(out, "Checked %d row(s)\n", result.RowsValidated)
		fmt.Fprint(out, validation.FormatErrors(result.Errors))

		if !result.IsValid {
			return fmt.Errorf("%w: %d error(s)", runner.ErrValidation, result.ErrorCount)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

// printSheets lists a workbook's sheets and names the one that will be read.
// Other formats print nothing.
func printSheets(w io.Writer, path, sheet string) error {
	if !runner.IsWorkbook(path) {
		return nil
	}

	sheets, err := xlsxparser.Sheets(path)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	if sheet == "" && len(sheets) > 0 {
		sheet = sheets[0]
	}

	fmt.Fprintf(w, "%s: sheets %s, reading %q\n", path, strings.Join(sheets, ", "), sheet)
	return nil
}
