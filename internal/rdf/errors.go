package rdf

import "fmt"

// SyntaxError reports malformed input with its 1-based position.
type SyntaxError struct {
	Format Format
	Line   int
	Col    int
	Msg    string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s:%d:%d: %s", e.Format, e.Line, e.Col, e.Msg)
}
