// Package shimjs renders the mock RTE as a plain script for pages that load it with a
// <script> tag. The method tables and console lines come from the rte and shim
// packages, so the served script answers exactly like the Go bindings.
package shimjs

import (
	"bytes"
	"encoding/json"
	"sync"
	"text/template"

	"github.com/localscorm/scormshim/internal/rte"
	"github.com/localscorm/scormshim/internal/shim"
)

// ContentType of the rendered script.
const ContentType = "application/javascript; charset=utf-8"

var scriptTemplate = template.Must(template.New("shim").Funcs(template.FuncMap{
	"js": jsString,
}).Parse(`// SCORM RTE mock for local playback. Generated; do not edit.
(function (w) {
	"use strict";
	var constant = function (v) {
		return function () { return v; };
	};
{{- range .Globals}}
	if (w[{{js .Name}}] === undefined) {
		w[{{js .Name}}] = {
{{- range .Methods}}
			{{.Name}}: constant({{js .Result}}),
{{- end}}
		};
	}
{{- end}}
	var hook = "";
	try {
{{- range .Hooks}}
		hook = {{js .}};
		w[hook] = null;
{{- end}}
	} catch (e) {
		var reason;
		try {
			reason = String(e);
		} catch (_) {
			reason = "unprintable error";
		}
		console.warn({{js .WarningPrefix}} + ": clearing window." + hook + ": " + reason);
	}
	console.log({{js .LoadedMessage}});
})(typeof window !== "undefined" ? window : this);
`))

type method struct {
	Name   string
	Result string
}

type global struct {
	Name    string
	Methods []method
}

type scriptData struct {
	Globals       []global
	Hooks         []string
	WarningPrefix string
	LoadedMessage string
}

var (
	renderOnce sync.Once
	rendered   []byte
)

// Render returns the script. It is rendered once and shared; callers must not
// modify the returned slice.
func Render() []byte {
	renderOnce.Do(func() {
		rendered = render()
	})
	return rendered
}

func render() []byte {
	data := scriptData{
		Hooks:         shim.UnloadHooks,
		WarningPrefix: shim.SuppressWarningPrefix,
		LoadedMessage: shim.LoadedMessage,
	}
	for _, v := range rte.Versions() {
		g := global{Name: v.GlobalName()}
		for _, e := range rte.TableFor(v) {
			// results are argument-independent, so a no-argument call gives the constant
			g.Methods = append(g.Methods, method{Name: string(e.Method), Result: e.Call()})
		}
		data.Globals = append(data.Globals, g)
	}
	var buf bytes.Buffer
	if err := scriptTemplate.Execute(&buf, data); err != nil {
		panic("shimjs: " + err.Error())
	}
	return buf.Bytes()
}

// jsString quotes s as a JS string literal. JSON string syntax is a subset of JS,
// and json.Marshal escapes <, > and & so the result is safe inside an inline script.
func jsString(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}
