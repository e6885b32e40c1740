// Package render turns a populated store into output bytes. The set of
// renderers is closed: delimited tables, JSON chart data, Graphviz DOT and
// a passthrough RDF serializer. A [Registry] maps format identifiers to
// renderer constructors.
package render

import (
	"context"

	"github.com/hupe1980/semconvert/internal/model"
	"github.com/hupe1980/semconvert/internal/rdf"
	"github.com/hupe1980/semconvert/internal/store"
)

// ErrUnsupportedFormat is returned for output identifiers that neither a
// renderer nor the passthrough serializer understands.
var ErrUnsupportedFormat = rdf.ErrUnsupportedFormat

// Renderer produces the final output for a store.
type Renderer interface {
	Render(ctx context.Context, s *store.Store) ([]byte, error)
}

// Options parameterize renderer construction.
type Options struct {
	// StripURLs shortens identifiers for display.
	StripURLs bool
	// Squelch blanks every label and value, leaving the structure.
	Squelch bool
	// JSONIndent is the number of spaces used to indent chart JSON.
	// Zero renders compact JSON.
	JSONIndent int
	// DotHeader is an extra line emitted after the DOT layout hint.
	DotHeader string
	// CSVQuote wraps every CSV field in double quotes.
	CSVQuote bool
}

func (o Options) discipline() model.Discipline {
	return model.Discipline{StripURLs: o.StripURLs}
}
