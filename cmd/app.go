// Package cmd implements the CLI application driving the price-history
// reconciliation.
package cmd

import (
	"flag"
	"os"
	"time"

	"github.com/google/subcommands"
	"github.com/rs/zerolog"

	visuate "github.com/PahliAi/Visuate"
)

// Register the subcommands.
// A main package calls Register() to allow subcommands, and Execute() on the
// user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&updateCmd{}, "data")
	c.Register(&projectCmd{}, "data")
	c.Register(&reportCmd{}, "reporting")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to
// use global variables.

var configPath = flag.String("config", "visuate.yaml", "Path to the configuration file")
var workbookPath = flag.String("workbook", "", "Path to the workbook, overriding the configuration")
var verbose = flag.Bool("v", false, "Verbose logging")

// Logger builds the application logger writing human-readable lines to
// stderr, keeping stdout for the reports.
func Logger() zerolog.Logger {
	level := zerolog.InfoLevel
	if *verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		Level(level).With().Timestamp().Logger()
}

// LoadConfig loads the app configuration and applies the -workbook override.
func LoadConfig() (*visuate.Config, error) {
	cfg, err := visuate.LoadConfig(*configPath)
	if err != nil {
		return nil, err
	}
	if *workbookPath != "" {
		cfg.WorkbookPath = *workbookPath
	}
	return cfg, nil
}

// NewRunner wires the production providers into a runner.
func NewRunner(cfg *visuate.Config, log zerolog.Logger) *visuate.Runner {
	timeout := time.Duration(cfg.HTTPTimeoutSeconds) * time.Second
	yahoo := visuate.NewYahoo(timeout)
	spot := visuate.NewExchangeRateAPI(timeout)
	return visuate.NewRunner(cfg, yahoo, yahoo, spot, log)
}
