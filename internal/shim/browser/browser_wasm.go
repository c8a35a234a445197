//go:build js && wasm

package browser

import (
	"syscall/js"

	"github.com/pkg/errors"

	"github.com/localscorm/scormshim/internal/rte"
	"github.com/localscorm/scormshim/internal/shim"
)

// Scope is the current window.
type Scope struct {
	window js.Value
	funcs  []js.Func
}

var _ shim.Scope = (*Scope)(nil)

// Window returns the scope of the window this module runs in.
func Window() *Scope {
	return &Scope{window: js.Global().Get("window")}
}

func (s *Scope) Has(name string) bool {
	return !s.window.Get(name).IsUndefined()
}

// Bind keeps the created js.Funcs alive for the lifetime of the page; they are never
// released because content may call them until it unloads.
func (s *Scope) Bind(name string, t rte.Table) error {
	obj := js.Global().Get("Object").New()
	for _, e := range t {
		call := e.Call
		fn := js.FuncOf(func(js.Value, []js.Value) any {
			return call()
		})
		s.funcs = append(s.funcs, fn)
		obj.Set(string(e.Method), fn)
	}
	s.window.Set(name, obj)
	return nil
}

// ClearHook uses Reflect.set: Value.Call recovers JS exceptions as js.Error, which a
// plain Value.Set would not.
func (s *Scope) ClearHook(name string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			jsErr, ok := r.(js.Error)
			if !ok {
				panic(r)
			}
			err = jsErr
		}
	}()
	if !js.Global().Get("Reflect").Call("set", s.window, name, js.Null()).Bool() {
		return errors.Errorf("window.%s is not writable", name)
	}
	return nil
}

// Console writes to the page's console.
type Console struct{}

var _ shim.Console = Console{}

func (Console) Log(msg string)  { js.Global().Get("console").Call("log", msg) }
func (Console) Warn(msg string) { js.Global().Get("console").Call("warn", msg) }
