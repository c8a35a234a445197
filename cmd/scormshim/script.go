package main

import (
	"github.com/spf13/cobra"

	"github.com/localscorm/scormshim/internal/shimjs"
)

var scriptCmd = &cobra.Command{
	Use:   "script",
	Short: "Print the RTE shim as plain JavaScript",
	Long: `Print the script the player serves at /__rte/api.js. Include it with a
<script> tag ahead of the content's own scripts to use the mock RTE without the player.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		_, err := cmd.OutOrStdout().Write(shimjs.Render())
		return err
	},
}
