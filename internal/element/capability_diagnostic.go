package element

import "basil/internal/diag"

// DiagnosticCapability holds an element's diagnostics or computes them on demand.
type DiagnosticCapability struct {
	items    []diag.Diagnostic
	evaluate func() []diag.Diagnostic
}

// NewDiagnosticCapability creates a capability; evaluate may be nil.
// A deferred evaluator reads state that exists only after the graph is built.
func NewDiagnosticCapability(evaluate func() []diag.Diagnostic) *DiagnosticCapability {
	return &DiagnosticCapability{evaluate: evaluate}
}

// Add appends to the held list.
func (c *DiagnosticCapability) Add(d diag.Diagnostic) {
	c.items = append(c.items, d)
}

// Evaluate returns the evaluator's result when one is set, the held list otherwise.
func (c *DiagnosticCapability) Evaluate() []diag.Diagnostic {
	if c == nil {
		return nil
	}
	if c.evaluate != nil {
		return c.evaluate()
	}
	return append([]diag.Diagnostic(nil), c.items...)
}
