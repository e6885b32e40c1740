package convert

import (
	"errors"
	"fmt"

	"github.com/hupe1980/semconvert/internal/rdf"
)

// ConfigError reports an invalid conversion configuration: a rule pattern
// that does not compile or an unknown input or output format. It is
// returned before any input is consumed.
type ConfigError struct {
	Err error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid configuration: %v", e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// ParseError reports that the input could not be parsed. No output is
// produced for a conversion that fails with a ParseError.
type ParseError struct {
	// Line and Col locate the failure when the parser reported a
	// position. Both are zero otherwise.
	Line int
	Col  int
	Err  error
}

func newParseError(err error) *ParseError {
	pe := &ParseError{Err: err}

	var syntaxErr *rdf.SyntaxError
	if errors.As(err, &syntaxErr) {
		pe.Line, pe.Col = syntaxErr.Line, syntaxErr.Col
	}

	return pe
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("error parsing input data: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
