package parser

import (
	"fmt"

	"amai/span"
)

// SyntaxError reports a malformed token sequence, generalizing nilan's
// Line/Column SyntaxError (parser/error.go) to the byte-range Span used
// throughout this module.
type SyntaxError struct {
	Span    span.Span
	Message string
}

func CreateSyntaxError(sp span.Span, message string) *SyntaxError {
	return &SyntaxError{Span: sp, Message: message}
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at %s: %s", e.Span, e.Message)
}
