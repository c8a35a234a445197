package rte

import (
	"fmt"
	"testing"

	"github.com/matrix-org/complement/must"
)

var want = map[Method]string{
	LMSInitialize:     "true",
	LMSFinish:         "true",
	LMSGetValue:       "",
	LMSSetValue:       "true",
	LMSCommit:         "true",
	LMSGetLastError:   "0",
	LMSGetErrorString: "No error",
	LMSGetDiagnostic:  "No diagnostic",
	Initialize:        "true",
	Terminate:         "true",
	GetValue:          "",
	SetValue:          "true",
	Commit:            "true",
	GetLastError:      "0",
	GetErrorString:    "No error",
	GetDiagnostic:     "No diagnostic",
}

// argument shapes content has been seen to pass, plus some it shouldn't
var argSets = [][]any{
	nil,
	{""},
	{"cmi.core.lesson_status"},
	{"cmi.completion_status", "completed"},
	{42, true, nil, 3.5},
	{[]string{"a"}, map[string]any{"k": 1}, struct{}{}, "x", "y", "z"},
}

func TestTablesAnswerFixedStrings(t *testing.T) {
	for _, v := range Versions() {
		t.Run(v.String(), func(t *testing.T) {
			for _, e := range TableFor(v) {
				expected, ok := want[e.Method]
				if !ok {
					t.Fatalf("%s: unexpected method %s", v, e.Method)
				}
				for _, args := range argSets {
					must.Equal(t, e.Call(args...), expected, fmt.Sprintf("%s.%s(%v)", v.GlobalName(), e.Method, args))
				}
			}
		})
	}
}

func TestTableMethodSets(t *testing.T) {
	must.Equal(t, fmt.Sprint(TableFor(SCORM12).Methods()),
		"[LMSInitialize LMSFinish LMSGetValue LMSSetValue LMSCommit LMSGetLastError LMSGetErrorString LMSGetDiagnostic]",
		"SCORM 1.2 method set")
	api2004 := TableFor(SCORM2004)
	for _, m := range []Method{Initialize, Terminate, GetValue, SetValue, Commit, LMSGetLastError, LMSGetErrorString, LMSGetDiagnostic} {
		_, ok := api2004.Lookup(m)
		must.Equal(t, ok, true, "API_1484_11 missing "+string(m))
	}
	_, ok := TableFor(SCORM12).Lookup(Initialize)
	must.Equal(t, ok, false, "API should not carry 2004 names")
}

func TestGlobalNames(t *testing.T) {
	must.Equal(t, SCORM12.GlobalName(), "API", "1.2 global")
	must.Equal(t, SCORM2004.GlobalName(), "API_1484_11", "2004 global")
}

func TestStateless(t *testing.T) {
	api := TableFor(SCORM2004)
	res, _ := api.Call(SetValue, "cmi.completion_status", "completed")
	must.Equal(t, res, "true", "SetValue")
	res, _ = api.Call(GetValue, "cmi.completion_status")
	must.Equal(t, res, "", "GetValue must not echo a stored value")

	var a API
	must.Equal(t, a.LMSSetValue("cmi.core.lesson_status", "passed"), "true", "LMSSetValue")
	must.Equal(t, a.LMSGetValue("cmi.core.lesson_status"), "", "LMSGetValue")
}

func TestNoSessionStateEnforcement(t *testing.T) {
	var a API1484_11
	must.Equal(t, a.Terminate(""), "true", "Terminate before Initialize")
	must.Equal(t, a.LMSGetLastError(), "0", "last error after early Terminate")
	must.Equal(t, a.Initialize(""), "true", "first Initialize")
	must.Equal(t, a.Initialize(""), "true", "second Initialize")
	must.Equal(t, a.Terminate(""), "true", "Terminate")
	must.Equal(t, a.Terminate(""), "true", "second Terminate")
	must.Equal(t, a.LMSGetLastError(), "0", "last error after Terminate")

	var old API
	must.Equal(t, old.LMSGetLastError(), "0", "last error before LMSInitialize")
	must.Equal(t, old.LMSFinish(""), "true", "LMSFinish before LMSInitialize")
	must.Equal(t, old.LMSCommit(""), "true", "LMSCommit after LMSFinish")
}

func TestCallUnknownMethod(t *testing.T) {
	_, ok := TableFor(SCORM12).Call("LMSNavigate")
	must.Equal(t, ok, false, "unknown method")
}

func TestSelfReferencingArgument(t *testing.T) {
	loop := map[string]any{}
	loop["self"] = loop
	for _, v := range Versions() {
		for _, e := range TableFor(v) {
			must.Equal(t, e.Call("cmi.suspend_data", loop), want[e.Method], fmt.Sprintf("%s.%s", v.GlobalName(), e.Method))
		}
	}
}
