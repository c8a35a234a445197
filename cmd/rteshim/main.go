//go:build js

// Command rteshim is the in-browser build of the mock RTE. Compile it with GopherJS
// or GOOS=js GOARCH=wasm and load it before the SCORM content's own scripts.
package main

import (
	"github.com/localscorm/scormshim/internal/shim"
	"github.com/localscorm/scormshim/internal/shim/browser"
)

func main() {
	shim.Register(browser.Window(), browser.Console{})
	keepAlive()
}
