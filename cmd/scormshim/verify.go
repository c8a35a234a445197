package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/localscorm/scormshim/internal/verify"
)

var verifyCmd = &cobra.Command{
	Use:   "verify [dir]",
	Short: "Check the mock RTE in headless Chrome",
	Long: `Serve the content directory, open its launch file in headless Chrome and call
every RTE method the way SCORM content finds it (window, parents, opener). Prints a
JSON report and exits non-zero if anything did not match.

SCORMSHIM_CHROME selects a local Chrome (exec) or a Docker headless-shell (container).

Examples:
  scormshim verify ./course
  SCORMSHIM_CHROME=container SCORMSHIM_LISTEN_ADDR=0.0.0.0:0 scormshim verify ./course`,
	Args: cobra.MaximumNArgs(1),
	RunE: runVerify,
}

func runVerify(cmd *cobra.Command, args []string) error {
	c := *cfg
	c.ContentDir = contentDir(args)
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	report, err := verify.Run(ctx, &c, logger)
	if err != nil {
		return err
	}
	out, err := report.JSON()
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), out)
	if !report.OK() {
		return errors.New("verify failed")
	}
	return nil
}
