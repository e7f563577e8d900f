// Command worldd is the reference process entry point for the world
// server: a cobra command tree replacing the teacher's bare `flag`
// package, per SPEC_FULL.md §4.10's CLI section.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"atrium/config"
)

var (
	configFile string
	dbPath     string
	logLevel   string
	logFormat  string
)

func main() {
	root := &cobra.Command{
		Use:   "worldd",
		Short: "atrium world server",
		Long:  "worldd runs the persistent multi-user programmable world server, or inspects a saved world without starting one.",
	}

	root.PersistentFlags().StringVar(&configFile, "config", "", "path to a JSON config file (optional, flags override)")
	root.PersistentFlags().StringVar(&dbPath, "db", "", "world snapshot path (overrides config)")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error (overrides config)")
	root.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format: text, json (overrides config)")

	root.AddCommand(serveCmd(), inspectCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig builds the process Config the way §4.10 describes: Default()
// overridden by an optional JSON file, then environment variables, then
// whichever persistent flags the caller actually set.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	var cfg *config.Config
	if configFile != "" {
		var err error
		cfg, err = config.LoadFromFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
	} else {
		cfg = config.Default()
	}
	config.LoadFromEnv(cfg)

	if cmd.Flags().Changed("db") {
		cfg.DBPath = dbPath
	}
	if cmd.Flags().Changed("log-level") {
		cfg.Logging.Level = logLevel
	}
	if cmd.Flags().Changed("log-format") {
		cfg.Logging.Format = logFormat
	}
	return cfg, nil
}
