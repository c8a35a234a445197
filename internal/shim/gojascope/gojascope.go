// Package gojascope binds the mock RTE into an embedded goja runtime, which stands
// in for a browser window when running content scripts outside a browser.
package gojascope

import (
	"github.com/dop251/goja"
	"github.com/pkg/errors"

	"github.com/localscorm/scormshim/internal/rte"
	"github.com/localscorm/scormshim/internal/shim"
)

var _ shim.Scope = (*Scope)(nil)

// Scope is the global object of a goja runtime. As in a browser, `window` refers
// to the global object itself, so `window.API` and a bare `API` are the same binding.
type Scope struct {
	vm     *goja.Runtime
	window *goja.Object
}

// New wraps vm, defining `window` (and `self`, `top`, `parent`) when the runtime has
// no window yet.
func New(vm *goja.Runtime) *Scope {
	global := vm.GlobalObject()
	for _, alias := range []string{"window", "self", "top", "parent"} {
		if v := global.Get(alias); v == nil || goja.IsUndefined(v) {
			global.Set(alias, global)
		}
	}
	return &Scope{vm: vm, window: global}
}

// Runtime returns the wrapped runtime.
func (s *Scope) Runtime() *goja.Runtime {
	return s.vm
}

func (s *Scope) Has(name string) bool {
	v := s.window.Get(name)
	return v != nil && !goja.IsUndefined(v)
}

func (s *Scope) Bind(name string, t rte.Table) error {
	obj := s.vm.NewObject()
	for _, e := range t {
		call := e.Call
		// arguments are never exported: Export runs getters and walks cyclic objects
		err := obj.Set(string(e.Method), func(goja.FunctionCall) goja.Value {
			return s.vm.ToValue(call())
		})
		if err != nil {
			return errors.Wrapf(err, "defining %s.%s", name, e.Method)
		}
	}
	return s.window.Set(name, obj)
}

// ClearHook assigns null to the property. Non-writable properties and throwing
// setters come back as a *goja.Exception.
func (s *Scope) ClearHook(name string) error {
	return s.window.Set(name, goja.Null())
}
