// scormshim plays SCORM content locally against a mock LMS run-time API.
//
// Usage:
//
//	scormshim serve [dir]          - Serve a content directory with the mock RTE injected
//	scormshim script               - Print the RTE shim as plain JavaScript
//	scormshim eval <file.js>...    - Run scripts in an embedded JS engine with the RTE registered
//	scormshim verify [dir]         - Check the RTE in headless Chrome and print a JSON report
//
// Global flags:
//
//	--env-file <path>   - Load SCORMSHIM_* variables from this file (default: .env)
//	--log-level <lvl>   - Override SCORMSHIM_LOG_LEVEL
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/localscorm/scormshim/internal/config"
)

var (
	// Global flags
	flagEnvFile  string
	flagLogLevel string

	cfg    *config.Scormshim
	logger *log.Logger
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "scormshim",
	Short: "Play SCORM content locally against a mock LMS API",
	Long: `scormshim serves unpacked SCORM 1.2 / 2004 content from a directory and
injects a mock run-time environment, so content that looks for window.API or
window.API_1484_11 runs without an LMS. Every call succeeds and nothing is stored.

Examples:
  scormshim serve ./course
  scormshim script > api.js
  scormshim eval ./course/scormdriver.js
  SCORMSHIM_CHROME=container scormshim verify ./course`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagEnvFile, "env-file", ".env", "File of SCORMSHIM_* variables, ignored if missing")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level (debug, info, warn, error)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(scriptCmd)
	rootCmd.AddCommand(evalCmd)
	rootCmd.AddCommand(verifyCmd)
}

func loadConfig(cmd *cobra.Command, _ []string) error {
	c, err := config.NewScormshimConfigFromEnvVars(flagEnvFile)
	if err != nil {
		return err
	}
	if flagLogLevel != "" {
		c.LogLevel = flagLogLevel
		if err := c.Validate(); err != nil {
			return err
		}
	}
	cfg = c
	logger = log.NewWithOptions(cmd.ErrOrStderr(), log.Options{
		ReportTimestamp: true,
		Prefix:          "scormshim",
		Level:           cfg.Level(),
	})
	return nil
}

// contentDir returns the positional directory argument, or the configured one.
func contentDir(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return cfg.ContentDir
}
