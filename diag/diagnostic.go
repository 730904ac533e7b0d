// Package diag holds the structured diagnostic type produced by the parser
// and the semantic analyzer. Unlike the VM's runtime errors, a Diagnostic is
// recoverable: callers collect many of them per invocation instead of
// aborting on the first one.
package diag

import (
	"fmt"
	"strings"

	"amai/span"
)

// Secondary attaches a supporting note and span to a Diagnostic, e.g.
// pointing back at the original declaration of a variable that was misused.
type Secondary struct {
	Note string
	Span span.Span
}

// Diagnostic is the analyzer/parser error type. It carries a primary span
// and message, and optionally a secondary span+note for extra context.
type Diagnostic struct {
	Path      string
	Message   string
	Primary   span.Span
	Secondary *Secondary
}

// New creates a Diagnostic with no secondary span.
func New(path, message string, primary span.Span) Diagnostic {
	return Diagnostic{Path: path, Message: message, Primary: primary}
}

// WithSecondary returns a copy of d carrying the given secondary note+span.
func (d Diagnostic) WithSecondary(note string, at span.Span) Diagnostic {
	d.Secondary = &Secondary{Note: note, Span: at}
	return d
}

func (d Diagnostic) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s:%s: %s", d.Path, d.Primary, d.Message)
	if d.Secondary != nil {
		fmt.Fprintf(&b, "\n  %s (%s)", d.Secondary.Note, d.Secondary.Span)
	}
	return b.String()
}

// Join formats a non-empty diagnostic list, one per line, for CLI output.
func Join(diags []Diagnostic) string {
	lines := make([]string, len(diags))
	for i, d := range diags {
		lines[i] = d.Error()
	}
	return strings.Join(lines, "\n")
}
