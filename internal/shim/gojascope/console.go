package gojascope

import (
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/dop251/goja"

	"github.com/localscorm/scormshim/internal/shim"
)

var _ shim.Console = (*Console)(nil)

// Line is one console call.
type Line struct {
	Level string
	Text  string
}

// Console records console output from both the shim and the scripts running in
// the runtime, and mirrors it to a logger.
type Console struct {
	logger *log.Logger
	mu     sync.Mutex
	lines  []Line
}

// NewConsole returns a console mirroring to logger. A nil logger only records.
func NewConsole(logger *log.Logger) *Console {
	return &Console{logger: logger}
}

func (c *Console) Log(msg string)  { c.record("log", msg) }
func (c *Console) Warn(msg string) { c.record("warn", msg) }

func (c *Console) record(level, msg string) {
	c.mu.Lock()
	c.lines = append(c.lines, Line{Level: level, Text: msg})
	c.mu.Unlock()
	if c.logger == nil {
		return
	}
	switch level {
	case "warn":
		c.logger.Warn(msg, "source", "console")
	case "error":
		c.logger.Error(msg, "source", "console")
	case "debug":
		c.logger.Debug(msg, "source", "console")
	default:
		c.logger.Info(msg, "source", "console")
	}
}

// Lines returns a copy of everything recorded so far.
func (c *Console) Lines() []Line {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Line(nil), c.lines...)
}

// Count returns how many recorded lines have the given level and text.
func (c *Console) Count(level, text string) int {
	n := 0
	for _, l := range c.Lines() {
		if l.Level == level && l.Text == text {
			n++
		}
	}
	return n
}

// Install defines a `console` object in vm whose methods record into c.
func (c *Console) Install(vm *goja.Runtime) error {
	obj := vm.NewObject()
	for _, level := range []string{"log", "info", "debug", "warn", "error"} {
		recorded := level
		if level == "info" {
			recorded = "log"
		}
		err := obj.Set(level, func(fc goja.FunctionCall) goja.Value {
			parts := make([]string, len(fc.Arguments))
			for i, a := range fc.Arguments {
				parts[i] = a.String()
			}
			c.record(recorded, strings.Join(parts, " "))
			return goja.Undefined()
		})
		if err != nil {
			return err
		}
	}
	return vm.Set("console", obj)
}
