//go:build js && !wasm

package browser

import (
	"github.com/gopherjs/gopherjs/js"
	"github.com/pkg/errors"

	"github.com/localscorm/scormshim/internal/rte"
	"github.com/localscorm/scormshim/internal/shim"
)

// Scope is the current window.
type Scope struct {
	window *js.Object
}

var _ shim.Scope = (*Scope)(nil)

// Window returns the scope of the window this script runs in.
func Window() *Scope {
	return &Scope{window: js.Global.Get("window")}
}

func (s *Scope) Has(name string) bool {
	return s.window.Get(name) != js.Undefined
}

func (s *Scope) Bind(name string, t rte.Table) error {
	obj := js.Global.Get("Object").New()
	for _, e := range t {
		call := e.Call
		obj.Set(string(e.Method), func(...*js.Object) string {
			return call()
		})
	}
	s.window.Set(name, obj)
	return nil
}

// ClearHook goes through Reflect.set so a non-writable property reports false
// instead of being ignored, and a throwing setter surfaces as *js.Error.
func (s *Scope) ClearHook(name string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			jsErr, ok := r.(*js.Error)
			if !ok {
				panic(r)
			}
			err = jsErr
		}
	}()
	if !js.Global.Get("Reflect").Call("set", s.window, name, nil).Bool() {
		return errors.Errorf("window.%s is not writable", name)
	}
	return nil
}

// Console writes to the page's console.
type Console struct{}

var _ shim.Console = Console{}

func (Console) Log(msg string)  { js.Global.Get("console").Call("log", msg) }
func (Console) Warn(msg string) { js.Global.Get("console").Call("warn", msg) }
