package main

import (
	"fmt"
	"os"

	"github.com/dop251/goja"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/localscorm/scormshim/internal/shim"
	"github.com/localscorm/scormshim/internal/shim/gojascope"
)

var evalCmd = &cobra.Command{
	Use:   "eval <file.js>...",
	Short: "Run scripts with the RTE registered in an embedded JS engine",
	Long: `Run one or more scripts, in order, in a single goja runtime where window,
self, top and parent all refer to the global object and the RTE has already been
registered. Console output from the shim and the scripts is printed as it happens.

Useful for checking that a SCORM wrapper script (scormdriver.js, SCORM_API_wrapper.js)
finds the API without starting a browser.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runEval,
}

func runEval(cmd *cobra.Command, args []string) error {
	vm := goja.New()
	console := gojascope.NewConsole(logger)
	if err := console.Install(vm); err != nil {
		return errors.Wrap(err, "installing console")
	}
	reg := shim.Register(gojascope.New(vm), console)
	for name, err := range reg.BindErrs {
		logger.Error("binding failed", "global", name, "err", err)
	}
	for _, path := range args {
		src, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		if _, err := vm.RunScript(path, string(src)); err != nil {
			return errors.Wrapf(err, "running %s", path)
		}
	}
	for _, l := range console.Lines() {
		fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", l.Level, l.Text)
	}
	return nil
}
