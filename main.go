// Package main is the entry point for the bimigrate CLI application.
// It provides BI asset browsing and calculation conversion tooling for
// migrating dashboards from a source platform to Power BI.
package main

import (
	"bimigrate/cli/cmd"
)

// main is the entry point for the bimigrate CLI application.
// It initializes and executes the command-line interface.
func main() {
	cmd.Execute()
}
