// Package rte answers SCORM Run-Time Environment calls without a backing LMS.
//
// There is a single always-succeed Responder. The two SCORM standards see it through
// thin façades (API for SCORM 1.2, API1484_11 for SCORM 2004) so the two method sets
// cannot drift apart.
package rte

// Fixed results. SCORM players treat every RTE return value as a string, including
// booleans and error codes, so these must stay strings.
const (
	True          = "true"
	Empty         = ""
	NoError       = "0"
	NoErrorString = "No error"
	NoDiagnostic  = "No diagnostic"
)

// Responder is the always-succeed RTE. It holds no state: every call with any
// arguments returns the same value, at any time, in any order.
type Responder struct{}

func (Responder) Initialize(string) string { return True }
func (Responder) Terminate(string) string { return True }
func (Responder) GetValue(string) string { return Empty }
func (Responder) SetValue(string, string) string { return True }
func (Responder) Commit(string) string { return True }
func (Responder) GetLastError() string { return NoError }
func (Responder) GetErrorString(string) string { return NoErrorString }
func (Responder) GetDiagnostic(string) string { return NoDiagnostic }

// API is the SCORM 1.2 view of the responder.
type API struct {
	r Responder
}

func (a API) LMSInitialize(param string) string { return a.r.Initialize(param) }
func (a API) LMSFinish(param string) string { return a.r.Terminate(param) }
func (a API) LMSGetValue(element string) string { return a.r.GetValue(element) }
func (a API) LMSSetValue(element, value string) string { return a.r.SetValue(element, value) }
func (a API) LMSCommit(param string) string { return a.r.Commit(param) }
func (a API) LMSGetLastError() string { return a.r.GetLastError() }
func (a API) LMSGetErrorString(code string) string { return a.r.GetErrorString(code) }
func (a API) LMSGetDiagnostic(code string) string { return a.r.GetDiagnostic(code) }

// API1484_11 is the SCORM 2004 view of the responder. It also answers to the
// LMS-prefixed error methods, which some 2004 packages still call.
type API1484_11 struct {
	r Responder
}

func (a API1484_11) Initialize(param string) string { return a.r.Initialize(param) }
func (a API1484_11) Terminate(param string) string { return a.r.Terminate(param) }
func (a API1484_11) GetValue(element string) string { return a.r.GetValue(element) }
func (a API1484_11) SetValue(element, value string) string { return a.r.SetValue(element, value) }
func (a API1484_11) Commit(param string) string { return a.r.Commit(param) }
func (a API1484_11) GetLastError() string { return a.r.GetLastError() }
func (a API1484_11) GetErrorString(code string) string { return a.r.GetErrorString(code) }
func (a API1484_11) GetDiagnostic(code string) string { return a.r.GetDiagnostic(code) }
func (a API1484_11) LMSGetLastError() string { return a.r.GetLastError() }
func (a API1484_11) LMSGetErrorString(code string) string { return a.r.GetErrorString(code) }
func (a API1484_11) LMSGetDiagnostic(code string) string { return a.r.GetDiagnostic(code) }
