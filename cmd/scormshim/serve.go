package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/localscorm/scormshim/internal/player"
)

var flagListen string

var serveCmd = &cobra.Command{
	Use:   "serve [dir]",
	Short: "Serve a content directory with the mock RTE injected",
	Long: `Serve unpacked SCORM content over HTTP. Every HTML page gets the RTE shim
as the first script in <head>, so API and API_1484_11 exist before the content's
own scripts look for them. GET / redirects to the launch file.

The directory defaults to SCORMSHIM_CONTENT_DIR.

Examples:
  scormshim serve ./course
  scormshim serve ./course --listen 127.0.0.1:8080`,
	Args: cobra.MaximumNArgs(1),
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagListen, "listen", "", "Listen address (default SCORMSHIM_LISTEN_ADDR)")
}

func runServe(cmd *cobra.Command, args []string) error {
	addr := cfg.ListenAddr
	if flagListen != "" {
		addr = flagListen
	}
	p, err := player.New(contentDir(args), logger)
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return player.Run(ctx, p, addr)
}
