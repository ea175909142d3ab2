package domain

import (
	"fmt"
	"sync"
)

// Severity ranks a diagnostic.
type Severity uint8

const (
	// SeverityWarning is a problem that does not prevent generation.
	SeverityWarning Severity = iota
	// SeverityError is a problem in the resource that generation worked around.
	SeverityError
)

// Diagnostic is a message a strategy reports while generating source.
type Diagnostic struct {
	Severity Severity
	FQN      string
	File     string
	Line     int
	Message  string
}

// String renders the diagnostic as file:line: message.
func (d Diagnostic) String() string {
	loc := d.File
	if loc == "" {
		loc = d.FQN
	}
	if d.Line > 0 {
		loc = fmt.Sprintf("%s:%d", loc, d.Line)
	}
	return loc + ": " + d.Message
}

// DiagnosticSink receives diagnostics during generation.
type DiagnosticSink interface {
	Report(d Diagnostic)
}

// Diagnostics collects reported diagnostics. It is safe for concurrent use.
type Diagnostics struct {
	mu    sync.Mutex
	items []Diagnostic
}

// Report implements DiagnosticSink.
func (c *Diagnostics) Report(d Diagnostic) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = append(c.items, d)
}

// All returns a copy of the collected diagnostics.
func (c *Diagnostics) All() []Diagnostic {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Diagnostic, len(c.items))
	copy(out, c.items)
	return out
}

// DiscardDiagnostics is a sink that drops everything.
var DiscardDiagnostics DiagnosticSink = discard{}

type discard struct{}

func (discard) Report(Diagnostic) {}
