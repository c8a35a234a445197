//go:build js && wasm

package main

// The wasm instance must outlive main for the bound js.Funcs to stay callable.
func keepAlive() {
	select {}
}
