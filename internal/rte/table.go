package rte

import "fmt"

// Version is a SCORM standard edition.
type Version int

const (
	SCORM12 Version = iota + 1
	SCORM2004
)

// Versions returns every supported version, in binding order.
func Versions() []Version {
	return []Version{SCORM12, SCORM2004}
}

// GlobalName is the window property content searches for when discovering the RTE.
func (v Version) GlobalName() string {
	switch v {
	case SCORM12:
		return "API"
	case SCORM2004:
		return "API_1484_11"
	}
	panic(fmt.Sprintf("rte: unknown version %d", v))
}

func (v Version) String() string {
	switch v {
	case SCORM12:
		return "SCORM 1.2"
	case SCORM2004:
		return "SCORM 2004"
	}
	return fmt.Sprintf("Version(%d)", v)
}

// Method is an RTE method name as content calls it.
type Method string

// SCORM 1.2 names.
const (
	LMSInitialize     Method = "LMSInitialize"
	LMSFinish         Method = "LMSFinish"
	LMSGetValue       Method = "LMSGetValue"
	LMSSetValue       Method = "LMSSetValue"
	LMSCommit         Method = "LMSCommit"
	LMSGetLastError   Method = "LMSGetLastError"
	LMSGetErrorString Method = "LMSGetErrorString"
	LMSGetDiagnostic  Method = "LMSGetDiagnostic"
)

// SCORM 2004 names.
const (
	Initialize     Method = "Initialize"
	Terminate      Method = "Terminate"
	GetValue       Method = "GetValue"
	SetValue       Method = "SetValue"
	Commit         Method = "Commit"
	GetLastError   Method = "GetLastError"
	GetErrorString Method = "GetErrorString"
	GetDiagnostic  Method = "GetDiagnostic"
)

// Func is a bindable RTE method. Results never depend on the arguments, so they are
// accepted and never inspected: content may pass cyclic objects or values whose
// getters throw.
type Func func(args ...any) string

// Entry pairs a method name with its implementation.
type Entry struct {
	Method Method
	Call   Func
}

// Table is the ordered method set bound under one global name.
type Table []Entry

// Lookup returns the implementation of m, if the table has one.
func (t Table) Lookup(m Method) (Func, bool) {
	for _, e := range t {
		if e.Method == m {
			return e.Call, true
		}
	}
	return nil, false
}

// Call invokes m with args. ok is false when the table has no such method.
func (t Table) Call(m Method, args ...any) (result string, ok bool) {
	fn, ok := t.Lookup(m)
	if !ok {
		return "", false
	}
	return fn(args...), true
}

// Methods lists the method names in binding order.
func (t Table) Methods() []Method {
	names := make([]Method, len(t))
	for i, e := range t {
		names[i] = e.Method
	}
	return names
}

// TableFor returns the method table content expects under v.GlobalName().
func TableFor(v Version) Table {
	switch v {
	case SCORM12:
		return api12Table(API{})
	case SCORM2004:
		return api2004Table(API1484_11{})
	}
	panic(fmt.Sprintf("rte: unknown version %d", v))
}

func api12Table(a API) Table {
	return Table{
		{LMSInitialize, func(...any) string { return a.LMSInitialize("") }},
		{LMSFinish, func(...any) string { return a.LMSFinish("") }},
		{LMSGetValue, func(...any) string { return a.LMSGetValue("") }},
		{LMSSetValue, func(...any) string { return a.LMSSetValue("", "") }},
		{LMSCommit, func(...any) string { return a.LMSCommit("") }},
		{LMSGetLastError, func(...any) string { return a.LMSGetLastError() }},
		{LMSGetErrorString, func(...any) string { return a.LMSGetErrorString("") }},
		{LMSGetDiagnostic, func(...any) string { return a.LMSGetDiagnostic("") }},
	}
}

func api2004Table(a API1484_11) Table {
	return Table{
		{Initialize, func(...any) string { return a.Initialize("") }},
		{Terminate, func(...any) string { return a.Terminate("") }},
		{GetValue, func(...any) string { return a.GetValue("") }},
		{SetValue, func(...any) string { return a.SetValue("", "") }},
		{Commit, func(...any) string { return a.Commit("") }},
		{GetLastError, func(...any) string { return a.GetLastError() }},
		{GetErrorString, func(...any) string { return a.GetErrorString("") }},
		{GetDiagnostic, func(...any) string { return a.GetDiagnostic("") }},
		{LMSGetLastError, func(...any) string { return a.LMSGetLastError() }},
		{LMSGetErrorString, func(...any) string { return a.LMSGetErrorString("") }},
		{LMSGetDiagnostic, func(...any) string { return a.LMSGetDiagnostic("") }},
	}
}
