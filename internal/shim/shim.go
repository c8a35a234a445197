// Package shim registers the mock RTE objects into a JS global scope.
//
// Registration is a single explicit step: bind API and API_1484_11, clear the page's
// unload hooks, and announce the mock on the console. It never fails; anything that
// went wrong is described in the returned Registration.
package shim

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/localscorm/scormshim/internal/rte"
)

// Console lines. Exactly one LoadedMessage is written per registration, and one
// warning only if hook suppression fails.
const (
	LoadedMessage         = "✅ LMS API mock loaded (local mode)"
	SuppressWarningPrefix = "⚠ Suppressed unload permission policy warning"
)

// UnloadHooks are the page-level handler properties cleared on registration.
var UnloadHooks = []string{"onunload", "onbeforeunload"}

// Scope is a JS global scope: a browser window, or an embedded engine's global object.
type Scope interface {
	// Has reports whether name is defined (not undefined) in the scope.
	Has(name string) bool
	// Bind defines name as an object exposing every method in t.
	Bind(name string, t rte.Table) error
	// ClearHook sets the handler property name to null. The environment may refuse.
	ClearHook(name string) error
}

// Console receives the diagnostic lines.
type Console interface {
	Log(msg string)
	Warn(msg string)
}

// Registration describes the outcome of Register.
type Registration struct {
	// Bound are the global names this registration defined.
	Bound []string
	// Existing are global names left alone because the scope already defined them.
	Existing []string
	// BindErrs holds per-name failures to check or bind, keyed by global name.
	BindErrs map[string]error
	// SuppressErr is non-nil when clearing the unload hooks failed.
	SuppressErr error
}

// Register installs the RTE objects into scope.
func Register(scope Scope, console Console) Registration {
	var reg Registration
	for _, v := range rte.Versions() {
		name := v.GlobalName()
		exists, err := has(scope, name)
		if err == nil && exists {
			reg.Existing = append(reg.Existing, name)
			continue
		}
		if err == nil {
			err = bind(scope, name, rte.TableFor(v))
		}
		if err != nil {
			if reg.BindErrs == nil {
				reg.BindErrs = make(map[string]error)
			}
			reg.BindErrs[name] = err
			continue
		}
		reg.Bound = append(reg.Bound, name)
	}

	if err := SuppressUnloadHooks(scope); err != nil {
		reg.SuppressErr = err
		console.Warn(SuppressWarningPrefix + ": " + err.Error())
	}
	console.Log(LoadedMessage)
	return reg
}

// has recovers panics from reading the global, e.g. a getter that throws.
func has(scope Scope, name string) (exists bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("checking %s panicked: %v", name, r)
		}
	}()
	return scope.Has(name), nil
}

func bind(scope Scope, name string, t rte.Table) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("binding %s panicked: %v", name, r)
		}
	}()
	return errors.Wrapf(scope.Bind(name, t), "binding %s", name)
}

// SuppressError reports a hook the environment refused to clear.
type SuppressError struct {
	Hook string
	Err  error
}

func (e *SuppressError) Error() string {
	return fmt.Sprintf("clearing window.%s: %s", e.Hook, e.Err)
}

func (e *SuppressError) Unwrap() error { return e.Err }

// SuppressUnloadHooks sets every UnloadHooks property to null. It stops at the first
// refusal. Panics raised by the scope are recovered and returned as errors.
func SuppressUnloadHooks(scope Scope) (err error) {
	hook := ""
	defer func() {
		if r := recover(); r != nil {
			cause, ok := r.(error)
			if !ok {
				cause = errors.Errorf("%v", r)
			}
			err = &SuppressError{Hook: hook, Err: cause}
		}
	}()
	for _, hook = range UnloadHooks {
		if err := scope.ClearHook(hook); err != nil {
			return &SuppressError{Hook: hook, Err: err}
		}
	}
	return nil
}
