// Package browser binds the mock RTE into the page's window when compiled for the
// browser, with GopherJS (js && !wasm) or as WebAssembly (js && wasm).
package browser
