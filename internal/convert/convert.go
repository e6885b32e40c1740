// Package convert wires the conversion pipeline together: parse events are
// filtered into a store, and once the input ends the store is rendered in
// the requested output format.
package convert

import (
	"bytes"
	"context"
	"errors"
	"io"
	"iter"
	"log/slog"

	"github.com/hupe1980/semconvert/internal/filter"
	"github.com/hupe1980/semconvert/internal/logging"
	"github.com/hupe1980/semconvert/internal/rdf"
	"github.com/hupe1980/semconvert/internal/render"
	"github.com/hupe1980/semconvert/internal/store"
)

// Defaults used when Options leave a format empty.
const (
	DefaultInputFormat  = "text/turtle"
	DefaultOutputFormat = render.FormatJSON
)

// Options configure one conversion run.
type Options struct {
	// StripURLs shortens identifiers in rendered output.
	StripURLs bool
	// Squelch blanks every label and value of table, chart and graph output.
	Squelch bool
	// NoPrefix drops prefix declarations from the input.
	NoPrefix bool
	// JSONIndent indents chart JSON by this many spaces.
	JSONIndent int
	// DotHeader is an extra line for DOT output.
	DotHeader string
	// CSVQuote wraps CSV fields in double quotes.
	CSVQuote bool

	// Rules select the quads that reach the output.
	Rules filter.Rules

	// InputFormat names the RDF syntax of the input.
	InputFormat string
	// OutputFormat selects the renderer or passthrough serializer.
	OutputFormat string

	// Registry resolves OutputFormat. Nil uses render.DefaultRegistry.
	Registry *render.Registry
	// Logger receives debug events for every prefix and quad. Nil discards.
	Logger *slog.Logger
}

func (o Options) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}

	return o.Logger
}

func (o Options) inputFormat() string {
	if o.InputFormat == "" {
		return DefaultInputFormat
	}

	return o.InputFormat
}

func (o Options) outputFormat() string {
	if o.OutputFormat == "" {
		return DefaultOutputFormat
	}

	return o.OutputFormat
}

func (o Options) renderer() (render.Renderer, error) {
	reg := o.Registry
	if reg == nil {
		reg = render.DefaultRegistry()
	}

	return reg.Renderer(o.outputFormat(), render.Options{
		StripURLs:  o.StripURLs,
		Squelch:    o.Squelch,
		JSONIndent: o.JSONIndent,
		DotHeader:  o.DotHeader,
		CSVQuote:   o.CSVQuote,
	})
}

// Result is the outcome of a successful conversion.
type Result struct {
	// Output is the rendered document.
	Output []byte
	// Accepted counts quads stored for rendering.
	Accepted int
	// Rejected counts quads dropped by the filter.
	Rejected int
	// Duplicates counts permitted quads that were already stored.
	Duplicates int
	// Prefixes counts prefix declarations seen in the input.
	Prefixes int
}

// Run consumes a parse event sequence and renders the surviving quads.
// Rules and the output format are validated before the first event is
// read. Events are processed strictly in delivery order; an error event
// aborts the run with a *ParseError and no output.
func Run(ctx context.Context, events iter.Seq[rdf.Event], opts Options) (*Result, error) {
	logger := opts.logger()

	rules, err := filter.Compile(opts.Rules)
	if err != nil {
		return nil, &ConfigError{Err: err}
	}

	renderer, err := opts.renderer()
	if err != nil {
		return nil, &ConfigError{Err: err}
	}

	st := store.New()
	res := &Result{}
	ended := false

loop:
	for ev := range events {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		switch ev.Kind {
		case rdf.EventPrefix:
			res.Prefixes++

			if opts.NoPrefix {
				continue
			}

			st.AddPrefix(ev.Prefix, ev.IRI)
			logger.Debug("prefix", slog.String("name", ev.Prefix), slog.String("iri", ev.IRI))
		case rdf.EventQuad:
			ok, reason := rules.Explain(ev.Quad)
			if !ok {
				res.Rejected++
				logger.Debug("rejected", logging.Quad(ev.Quad), slog.String("reason", reason))

				continue
			}

			if !st.AddQuad(ev.Quad) {
				res.Duplicates++
				continue
			}

			res.Accepted++
			logger.Debug("quad", logging.Quad(ev.Quad))
		case rdf.EventError:
			return nil, newParseError(ev.Err)
		case rdf.EventEnd:
			ended = true
			break loop
		}
	}

	if !ended {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		return nil, newParseError(errors.New("input ended without end-of-stream marker"))
	}

	out, err := renderer.Render(ctx, st)
	if err != nil {
		return nil, err
	}

	res.Output = out

	logger.Debug("conversion finished",
		slog.Int("accepted", res.Accepted),
		slog.Int("rejected", res.Rejected),
		slog.Int("duplicates", res.Duplicates),
		slog.Int("prefixes", res.Prefixes),
	)

	return res, nil
}

// ConvertReader parses r in opts.InputFormat and runs the conversion.
func ConvertReader(ctx context.Context, r io.Reader, opts Options) (*Result, error) {
	format, err := rdf.ResolveFormat(opts.inputFormat())
	if err != nil {
		return nil, &ConfigError{Err: err}
	}

	return Run(ctx, rdf.Parse(ctx, r, format), opts)
}

// Convert converts an in-memory document and returns the rendered output.
func Convert(ctx context.Context, input []byte, opts Options) ([]byte, error) {
	res, err := ConvertReader(ctx, bytes.NewReader(input), opts)
	if err != nil {
		return nil, err
	}

	return res.Output, nil
}
