// Package span defines the byte-range position type shared by the lexer,
// parser, analyzer and diagnostics.
package span

import "fmt"

// Span is a half-open byte range [Start, End) into the original source text.
type Span struct {
	Start int
	End   int
}

// Make constructs a Span from a start/end byte offset pair.
func Make(start, end int) Span {
	return Span{Start: start, End: end}
}

// Merge returns the smallest Span covering both s and other, assuming
// other begins no earlier than s ends (s.Start, other.End).
func (s Span) Merge(other Span) Span {
	return Span{Start: s.Start, End: other.End}
}

func (s Span) String() string {
	return fmt.Sprintf("%d..%d", s.Start, s.End)
}
