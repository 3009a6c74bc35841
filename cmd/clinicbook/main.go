// Clinicbook is a terminal client for the clinic appointment backend.
//
// It provides an interactive booking wizard, directory listings for
// specialties, doctors and slots, and administrative management of the
// clinic's collections. All data comes from the backend REST API; the
// client holds no scheduling logic of its own.
//
// Usage:
//
//	clinicbook [command] [flags]
//
// Running without arguments launches the interactive booking wizard.
// See 'clinicbook --help' for available commands.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/calnico/clinicbook/internal/logging"
	"github.com/calnico/clinicbook/internal/version"
)

func main() {
	if err := logging.InitializeFromEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer logging.Sync()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "clinicbook",
	Short: "Clinic appointment booking client",
	Long: `A terminal client for booking clinic appointments.

Provides an interactive multi-step booking wizard, directory listings for
specialties, doctors and open slots, and administrative commands for
managing the clinic's collections.

If no command is specified, the interactive booking wizard will launch
automatically.`,
	Version: version.Version,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Default behavior: run the wizard when no subcommand is provided
		return runBook(cmd, args)
	},
}

func init() {
	// Disable automatic completion command generation
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("clinicbook %s (commit: %s)\n", version.Version, version.Commit)
	},
}
