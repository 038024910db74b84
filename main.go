// =============================================================================
// Freight Tracker - Main Entry Point
// =============================================================================
//
// This is the main entry point for the Freight Tracker CLI. It delegates
// command execution to the cmd package.
//
// USAGE:
//   freight summary   - Status KPIs and upcoming deliveries
//   freight calendar  - Requests per expected day
//   freight costs     - Monthly cost roll-up per branch
//   freight check     - Header drift report
//   freight export    - Write the requests to XML or JSON
//   freight serve     - Read-only JSON API
//   freight version   - Display the application version
//
// ARCHITECTURE:
//   - cmd/       : Cobra command definitions
//   - internal/  : Parsing, normalization, store, aggregation, API
//   - pkg/utils  : File naming and atomic writes
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/freight-tracker/cmd"
)

func main() {
	cmd.Execute()
}
