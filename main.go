// =============================================================================
// Appraisal Fee Audit - Main Entry Point
// =============================================================================
//
// This is the main entry point for the feeaudit CLI application.
// It delegates command execution to the cmd package.
//
// USAGE:
//   feeaudit audit          - Audit the configured fee schedule and order list
//   feeaudit validate       - Check the configuration and input tables
//   feeaudit version        - Display the application version
//
// ARCHITECTURE:
//   - cmd/           : CLI command definitions (Cobra)
//   - internal/      : Core business logic (not for external import)
//   - pkg/           : Shared file utilities
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/appraisal-fee-audit/cmd"
)

func main() {
	cmd.Execute()
}
