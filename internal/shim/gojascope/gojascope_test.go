package gojascope

import (
	"testing"

	"github.com/dop251/goja"
	"github.com/matrix-org/complement/must"

	"github.com/localscorm/scormshim/internal/shim"
)

func newRuntime(t *testing.T) (*goja.Runtime, *Console) {
	t.Helper()
	vm := goja.New()
	console := NewConsole(nil)
	must.NotError(t, "install console", console.Install(vm))
	return vm, console
}

func mustEvalString(t *testing.T, vm *goja.Runtime, js string) string {
	t.Helper()
	v, err := vm.RunString(js)
	must.NotError(t, js, err)
	s, ok := v.Export().(string)
	if !ok {
		t.Fatalf("%s: got %T (%v), want string", js, v.Export(), v)
	}
	return s
}

func TestRegisterInRuntime(t *testing.T) {
	vm, console := newRuntime(t)
	shim.Register(New(vm), console)

	must.Equal(t, mustEvalString(t, vm, `typeof window.API`), "object", "window.API")
	must.Equal(t, mustEvalString(t, vm, `typeof window.API_1484_11`), "object", "window.API_1484_11")
	must.Equal(t, mustEvalString(t, vm, `String(window.API !== null && window.API_1484_11 !== null)`), "true", "non-null")

	must.Equal(t, mustEvalString(t, vm, `window.API.LMSGetValue("cmi.core.lesson_status")`), "", "LMSGetValue")
	must.Equal(t, mustEvalString(t, vm, `window.API.LMSInitialize("")`), "true", "LMSInitialize")
	must.Equal(t, mustEvalString(t, vm, `API.LMSGetErrorString(101)`), "No error", "LMSGetErrorString")
	must.Equal(t, mustEvalString(t, vm, `API.LMSGetDiagnostic()`), "No diagnostic", "LMSGetDiagnostic")

	must.Equal(t, mustEvalString(t, vm, `window.API_1484_11.SetValue("cmi.completion_status", "completed")`), "true", "SetValue")
	must.Equal(t, mustEvalString(t, vm, `window.API_1484_11.GetValue("cmi.completion_status")`), "", "GetValue after SetValue")
	must.Equal(t, mustEvalString(t, vm, `API_1484_11.Initialize(""); API_1484_11.Initialize("")`), "true", "Initialize twice")
	must.Equal(t, mustEvalString(t, vm, `API_1484_11.GetLastError()`), "0", "GetLastError")

	must.Equal(t, console.Count("log", shim.LoadedMessage), 1, "confirmation lines")
	must.Equal(t, len(console.Lines()), 1, "total console lines")
}

func TestResultsAreStrings(t *testing.T) {
	vm, console := newRuntime(t)
	shim.Register(New(vm), console)
	got := mustEvalString(t, vm, `
		var bad = [];
		[API, API_1484_11].forEach(function (api) {
			Object.keys(api).forEach(function (m) {
				var argSets = [[], [""], [null, undefined], [1, true, {}, []], ["a", "b", "c", "d"]];
				argSets.forEach(function (args) {
					var r = api[m].apply(api, args);
					if (typeof r !== "string") bad.push(m);
				});
			});
		});
		bad.join(",");
	`)
	must.Equal(t, got, "", "methods returning non-strings")
}

func TestLastErrorIgnoresCallOrder(t *testing.T) {
	vm, console := newRuntime(t)
	shim.Register(New(vm), console)
	got := mustEvalString(t, vm, `
		var seen = [];
		seen.push(API.LMSGetLastError());
		API_1484_11.Terminate("");
		seen.push(API_1484_11.LMSGetLastError());
		API.LMSFinish("");
		API.LMSSetValue("cmi.core.score.raw", "oops-not-a-number");
		seen.push(API.LMSGetLastError());
		seen.join("");
	`)
	must.Equal(t, got, "000", "last error codes")
}

func TestHooksCleared(t *testing.T) {
	vm, console := newRuntime(t)
	_, err := vm.RunString(`
		window.onunload = function () { return "bye"; };
		window.onbeforeunload = function () { return "are you sure?"; };
	`)
	must.NotError(t, "install hooks", err)
	reg := shim.Register(New(vm), console)
	must.Equal(t, reg.SuppressErr == nil, true, "suppression error")
	must.Equal(t, mustEvalString(t, vm, `String(window.onunload) + "/" + String(window.onbeforeunload)`), "null/null", "hooks")
}

func TestSuppressionFailureStillBinds(t *testing.T) {
	vm, console := newRuntime(t)
	_, err := vm.RunString(`
		Object.defineProperty(window, "onbeforeunload", {
			get: function () { return null; },
			set: function () { throw new Error("blocked by permissions policy"); },
		});
	`)
	must.NotError(t, "install throwing setter", err)
	reg := shim.Register(New(vm), console)

	must.NotEqual(t, reg.SuppressErr, nil, "suppression should fail")
	must.Equal(t, mustEvalString(t, vm, `typeof API + "/" + typeof API_1484_11`), "object/object", "globals bound")
	must.Equal(t, mustEvalString(t, vm, `API.LMSInitialize("")`), "true", "API usable")

	warns := 0
	for _, l := range console.Lines() {
		if l.Level == "warn" {
			warns++
		}
	}
	must.Equal(t, warns, 1, "warning lines")
	must.Equal(t, console.Count("log", shim.LoadedMessage), 1, "confirmation lines")
}

func TestExistingGlobalIsKept(t *testing.T) {
	vm, console := newRuntime(t)
	_, err := vm.RunString(`window.API = { LMSInitialize: function () { return "from-lms"; } };`)
	must.NotError(t, "predefine API", err)
	reg := shim.Register(New(vm), console)

	must.Equal(t, len(reg.Existing), 1, "existing globals")
	must.Equal(t, mustEvalString(t, vm, `API.LMSInitialize("")`), "from-lms", "API rebound")
	must.Equal(t, mustEvalString(t, vm, `API_1484_11.Commit("")`), "true", "API_1484_11 bound")
}

func TestHostileArgumentsNeverRaise(t *testing.T) {
	vm, console := newRuntime(t)
	shim.Register(New(vm), console)
	got := mustEvalString(t, vm, `
		var trap = { get x() { throw new Error("boom"); } };
		var loop = {};
		loop.self = loop;
		var results = [];
		[API, API_1484_11].forEach(function (api) {
			Object.keys(api).forEach(function (m) {
				results.push(typeof api[m]("cmi.suspend_data", trap));
				results.push(typeof api[m]("cmi.suspend_data", loop));
			});
		});
		API.LMSSetValue("x", trap) + "/" + API_1484_11.SetValue("x", loop) + "/" +
			results.every(function (r) { return r === "string"; });
	`)
	must.Equal(t, got, "true/true/true", "results with hostile arguments")
}

func TestUnreadableGlobalStillRegisters(t *testing.T) {
	vm, console := newRuntime(t)
	_, err := vm.RunString(`
		window.onunload = function () {};
		Object.defineProperty(window, "API", {
			get: function () { throw new Error("cross-origin"); },
			configurable: true,
		});
	`)
	must.NotError(t, "install throwing getter", err)
	reg := shim.Register(New(vm), console)

	must.NotEqual(t, reg.BindErrs["API"], nil, "API check error recorded")
	must.Equal(t, mustEvalString(t, vm, `API_1484_11.Initialize("")`), "true", "API_1484_11 bound")
	must.Equal(t, mustEvalString(t, vm, `String(window.onunload)`), "null", "hooks cleared")
	must.Equal(t, console.Count("log", shim.LoadedMessage), 1, "confirmation lines")
}
