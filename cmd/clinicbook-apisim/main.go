// Clinicbook-apisim is an in-memory simulator of the clinic backend API.
//
// It serves the REST contract the clinicbook client consumes, optionally
// pre-seeded with demo data, so the booking wizard and CLI can be exercised
// end to end without a real backend.
//
// Usage:
//
//	clinicbook-apisim serve [flags]
//
// See 'clinicbook-apisim serve --help' for available options.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/calnico/clinicbook/internal/apisim"
	"github.com/calnico/clinicbook/internal/version"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "clinicbook-apisim",
	Short: "ClinicBook API simulator",
	Long: `A standalone in-memory simulator of the clinic backend API.

All state lives in memory and is lost on exit. With --seed the simulator
starts with a small clinic: two specialties, two doctors, two patients, an
administrator, and a handful of open slots. Every seeded account uses the
password "password".

Note: for booking appointments, use the separate 'clinicbook' client.`,
	Version: version.Version,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}

// Serve command and flags
var (
	host     string
	port     int
	logLevel string
	seed     bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API simulator",
	Long: `Start the clinic API simulator and accept client connections.

Point the client at the simulator by setting CLINICBOOK_API_URL, e.g.
CLINICBOOK_API_URL=http://localhost:8080/api.`,
	Example: `  # Start with demo data on the default port
  clinicbook-apisim serve --seed

  # Start empty on a custom port with debug logging
  clinicbook-apisim serve --port 9090 --log-level debug`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&host, "host", "", "Host to bind (empty = all interfaces)")
	serveCmd.Flags().IntVar(&port, "port", 8080, "Server port")
	serveCmd.Flags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	serveCmd.Flags().BoolVar(&seed, "seed", false, "Pre-seed demo data")
}

func runServe(cmd *cobra.Command, args []string) error {
	config := &apisim.Config{
		Host:     host,
		Port:     port,
		LogLevel: logLevel,
		Seed:     seed,
	}

	srv, err := apisim.New(config)
	if err != nil {
		return fmt.Errorf("failed to create simulator: %w", err)
	}

	return srv.Start()
}

// Version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("clinicbook-apisim %s (commit: %s)\n", version.Version, version.Commit)
	},
}
